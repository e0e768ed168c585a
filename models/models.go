/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package models

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/abcretailors/retailstore/errors"
	"github.com/abcretailors/retailstore/registry"
	"github.com/abcretailors/retailstore/storagemodels"
)

// Kinds of the retail records.
const (
	KindProduct  storagemodels.Kind = "Product"
	KindCustomer storagemodels.Kind = "Customer"
	KindOrder    storagemodels.Kind = "Order"
)

func init() {
	registry.RegisterContainer(KindProduct, "Products")
	registry.RegisterContainer(KindCustomer, "Customers")
	registry.RegisterContainer(KindOrder, "Orders")
}

// Product is an item of the catalogue.
type Product struct {
	storagemodels.Metadata
	ProductName    string  `json:"ProductName" dynamodbav:"ProductName"`
	Description    string  `json:"Description" dynamodbav:"Description"`
	Price          float64 `json:"Price" dynamodbav:"Price"`
	StockAvailable int     `json:"StockAvailable" dynamodbav:"StockAvailable"`
	ImageURL       string  `json:"ImageUrl,omitempty" dynamodbav:"ImageUrl,omitempty"`
}

func (*Product) Kind() storagemodels.Kind { return KindProduct }

// ProductID is the row key.
func (p *Product) ProductID() string { return p.RowKey }

// Customer is a registered buyer.
type Customer struct {
	storagemodels.Metadata
	Name            string       `json:"Name" dynamodbav:"Name"`
	Surname         string       `json:"Surname" dynamodbav:"Surname"`
	Username        string       `json:"Username" dynamodbav:"Username"`
	Email           strfmt.Email `json:"Email" dynamodbav:"Email"`
	ShippingAddress string       `json:"ShippingAddress" dynamodbav:"ShippingAddress"`
}

func (*Customer) Kind() storagemodels.Kind { return KindCustomer }

func (c *Customer) CustomerID() string { return c.RowKey }

// FullName joins name and surname.
func (c *Customer) FullName() string {
	return c.Name + " " + c.Surname
}

// Validate checks the email address format.
func (c *Customer) Validate() error {
	if !strfmt.IsEmail(c.Email.String()) {
		return errors.NewValidationError("Email", fmt.Sprintf("%q is not an email address", c.Email))
	}
	return nil
}

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderSubmitted  OrderStatus = "Submitted"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

// OrderStatuses lists the statuses in fulfilment order.
var OrderStatuses = []OrderStatus{OrderSubmitted, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled}

// ParseOrderStatus returns the status named s.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", errors.NewValidationError("Status", fmt.Sprintf("unknown order status %q", s))
}

// Order is a purchase of one product by one customer. Product name and unit
// price are copied at order time.
type Order struct {
	storagemodels.Metadata
	CustomerID  string      `json:"CustomerId" dynamodbav:"CustomerId"`
	Username    string      `json:"Username" dynamodbav:"Username"`
	ProductID   string      `json:"ProductId" dynamodbav:"ProductId"`
	ProductName string      `json:"ProductName" dynamodbav:"ProductName"`
	OrderDate   time.Time   `json:"OrderDate" dynamodbav:"OrderDate"`
	Quantity    int         `json:"Quantity" dynamodbav:"Quantity"`
	UnitPrice   float64     `json:"UnitPrice" dynamodbav:"UnitPrice"`
	TotalPrice  float64     `json:"TotalPrice" dynamodbav:"TotalPrice"`
	Status      OrderStatus `json:"Status" dynamodbav:"Status"`
}

func (*Order) Kind() storagemodels.Kind { return KindOrder }

func (o *Order) OrderID() string { return o.RowKey }

// NewOrder prices an order for quantity units of product, placed by customer.
func NewOrder(customer *Customer, product *Product, quantity int, at time.Time) *Order {
	return &Order{
		CustomerID:  customer.CustomerID(),
		Username:    customer.Username,
		ProductID:   product.ProductID(),
		ProductName: product.ProductName,
		OrderDate:   at.UTC(),
		Quantity:    quantity,
		UnitPrice:   product.Price,
		TotalPrice:  product.Price * float64(quantity),
		Status:      OrderSubmitted,
	}
}
