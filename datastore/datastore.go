/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/abcretailors/retailstore/storagemodels"
)

// DataStore is the contract of an entity backend. A table holds the records of
// one kind, keyed by (PartitionKey, RowKey).
//
// Implementations write rec.Meta().ETag and rec.Meta().Timestamp on every
// successful Insert and Replace.
type DataStore interface {
	// CreateTable creates the table if it does not exist.
	CreateTable(ctx context.Context, table string) error

	// Scan calls fn once per record in table, in backend iteration order.
	Scan(ctx context.Context, table string, opts storagemodels.ListOptions, fn func(decode storagemodels.Decoder) error) error

	// Get decodes the record into out. found is false, with a nil error, when
	// the key does not exist.
	Get(ctx context.Context, table, partitionKey, rowKey string, out any) (found bool, err error)

	// Insert stores a new record. It fails with errors.ErrAlreadyExists when the key is taken.
	Insert(ctx context.Context, table string, rec storagemodels.Record) error

	// Replace overwrites the record only if the stored token equals
	// rec.Meta().ETag, failing with errors.ErrConcurrencyConflict otherwise.
	Replace(ctx context.Context, table string, rec storagemodels.Record) error

	// Delete removes the record. It fails with errors.ErrNotFound when the key does not exist.
	Delete(ctx context.Context, table, partitionKey, rowKey string) error
}
