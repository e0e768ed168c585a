/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package models

import (
	"strconv"
	"time"

	"github.com/abcretailors/retailstore/queue"
)

// Queues the order flows publish to.
const (
	QueueOrderNotifications = "orders-notifications"
	QueueStockUpdates       = "stock-updates"
)

const updatedBySystem = "Order System"

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// OrderPlaced is published on QueueOrderNotifications when an order is added.
func OrderPlaced(o *Order, c *Customer) queue.Event {
	return queue.Event{
		"OrderId":      o.OrderID(),
		"CustomerId":   o.CustomerID,
		"CustomerName": c.FullName(),
		"ProductName":  o.ProductName,
		"Quantity":     strconv.Itoa(o.Quantity),
		"TotalPrice":   formatMoney(o.TotalPrice),
		"OrderDate":    formatTime(o.OrderDate),
		"Status":       string(o.Status),
	}
}

// OrderStatusChanged is published on QueueOrderNotifications when an order
// moves from previous to its current status.
func OrderStatusChanged(o *Order, previous OrderStatus, at time.Time) queue.Event {
	return queue.Event{
		"OrderId":        o.OrderID(),
		"CustomerId":     o.CustomerID,
		"CustomerName":   o.Username,
		"ProductName":    o.ProductName,
		"PreviousStatus": string(previous),
		"NewStatus":      string(o.Status),
		"UpdatedDate":    formatTime(at),
		"UpdatedBy":      updatedBySystem,
	}
}

// StockUpdated is published on QueueStockUpdates after an order reduced the
// stock of p from previous to its current level.
func StockUpdated(p *Product, previous int, at time.Time) queue.Event {
	return queue.Event{
		"ProductId":     p.ProductID(),
		"ProductName":   p.ProductName,
		"PreviousStock": strconv.Itoa(previous),
		"NewStock":      strconv.Itoa(p.StockAvailable),
		"UpdatedBy":     updatedBySystem,
		"UpdateDate":    formatTime(at),
	}
}
