// Package models defines the retail records and the queue events emitted by
// the order flows.
//
// Importing the package registers the Products, Customers and Orders
// containers with the default registry.
package models
