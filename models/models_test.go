/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package models

import (
	"testing"
	"time"

	"github.com/abcretailors/retailstore/errors"
	"github.com/abcretailors/retailstore/queue"
	"github.com/abcretailors/retailstore/registry"
	"github.com/abcretailors/retailstore/storagemodels"
)

func TestKindsOnNilPointers(t *testing.T) {
	tests := []struct {
		got  storagemodels.Kind
		want storagemodels.Kind
	}{
		{registry.KindOf[*Product](), KindProduct},
		{registry.KindOf[*Customer](), KindCustomer},
		{registry.KindOf[*Order](), KindOrder},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got kind %q, want %q", tt.got, tt.want)
		}
	}
}

func TestRegisteredContainers(t *testing.T) {
	r := registry.Default()
	for kind, want := range map[storagemodels.Kind]string{
		KindProduct:  "Products",
		KindCustomer: "Customers",
		KindOrder:    "Orders",
	} {
		if got := r.Container(kind); got != want {
			t.Errorf("Container(%s) = %q, want %q", kind, got, want)
		}
		if got := r.PartitionKey(kind); got != string(kind) {
			t.Errorf("PartitionKey(%s) = %q", kind, got)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	for _, st := range OrderStatuses {
		got, err := ParseOrderStatus(string(st))
		if err != nil || got != st {
			t.Errorf("ParseOrderStatus(%q) = %q, %v", st, got, err)
		}
	}
	if _, err := ParseOrderStatus("shipped"); !errors.IsValidationError(err) {
		t.Errorf("statuses are case sensitive, got %v", err)
	}
}

func TestCustomerValidate(t *testing.T) {
	ok := &Customer{Email: "ana@example.com"}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid email rejected: %v", err)
	}
	bad := &Customer{Email: "not-an-email"}
	if err := bad.Validate(); !errors.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestNewOrder(t *testing.T) {
	c := &Customer{Metadata: storagemodels.Metadata{RowKey: "c1"}, Username: "ana"}
	p := &Product{Metadata: storagemodels.Metadata{RowKey: "p1"}, ProductName: "Kettle", Price: 12.5}
	at := time.Date(2025, 3, 1, 11, 0, 0, 0, time.FixedZone("CET", 3600))

	o := NewOrder(c, p, 4, at)

	if o.CustomerID != "c1" || o.ProductID != "p1" || o.Username != "ana" || o.ProductName != "Kettle" {
		t.Errorf("unexpected references %+v", o)
	}
	if o.UnitPrice != 12.5 || o.TotalPrice != 50 {
		t.Errorf("unexpected pricing %v x %d = %v", o.UnitPrice, o.Quantity, o.TotalPrice)
	}
	if o.Status != OrderSubmitted {
		t.Errorf("new order status %q", o.Status)
	}
	if o.OrderDate.Location() != time.UTC || !o.OrderDate.Equal(at) {
		t.Errorf("order date not normalized to UTC: %v", o.OrderDate)
	}
}

func TestEvents(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	c := &Customer{Metadata: storagemodels.Metadata{RowKey: "c1"}, Name: "Ana", Surname: "Silva", Username: "ana"}
	p := &Product{Metadata: storagemodels.Metadata{RowKey: "p1"}, ProductName: "Kettle", Price: 20, StockAvailable: 7}
	o := NewOrder(c, p, 3, at)
	o.RowKey = "o1"

	placed := OrderPlaced(o, c)
	if placed["OrderId"] != "o1" || placed["CustomerName"] != "Ana Silva" || placed["TotalPrice"] != "60.00" || placed["OrderDate"] != "2025-03-01T10:00:00Z" {
		t.Errorf("unexpected OrderPlaced %v", placed)
	}

	o.Status = OrderShipped
	changed := OrderStatusChanged(o, OrderSubmitted, at)
	if changed["PreviousStatus"] != "Submitted" || changed["NewStatus"] != "Shipped" {
		t.Errorf("unexpected OrderStatusChanged %v", changed)
	}

	stock := StockUpdated(p, 10, at)
	payload, err := stock.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if v, _ := queue.Field(payload, "NewStock"); v != "7" {
		t.Errorf("NewStock = %q", v)
	}
	if v, _ := queue.Field(payload, "PreviousStock"); v != "10" {
		t.Errorf("PreviousStock = %q", v)
	}
}
