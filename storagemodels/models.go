/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package storagemodels

import (
	"time"

	"github.com/google/uuid"
)

// Kind is the logical type tag of a record, e.g. "Product". The registry maps
// it to the physical container the records are kept in.
type Kind string

func (k Kind) String() string { return string(k) }

// ETag is the opaque concurrency token assigned by the store on every write.
// It is only ever compared for equality.
type ETag string

// NewETag returns a fresh token.
func NewETag() ETag {
	return ETag(uuid.NewString())
}

// Metadata carries the storage-managed part of a record. Record types embed it.
type Metadata struct {
	// PartitionKey groups records; it is fixed per kind.
	PartitionKey string `json:"PartitionKey" dynamodbav:"PartitionKey"`
	// RowKey is unique within the partition.
	RowKey string `json:"RowKey" dynamodbav:"RowKey"`
	// Timestamp is the last write time, assigned by the store.
	Timestamp time.Time `json:"Timestamp" dynamodbav:"Timestamp"`
	// ETag is the concurrency token of the last write.
	ETag ETag `json:"ETag" dynamodbav:"ETag"`
}

// Meta returns the metadata itself so that embedding types satisfy Record.
func (m *Metadata) Meta() *Metadata { return m }

// Key returns the compound key in "partition/row" form, used in error messages.
func (m *Metadata) Key() string {
	return m.PartitionKey + "/" + m.RowKey
}

// Record is implemented by pointers to record structs that embed Metadata.
// Kind must not dereference its receiver: it is called on nil pointers to
// learn the kind of a type parameter.
type Record interface {
	Kind() Kind
	Meta() *Metadata
}

// Decoder decodes one stored item into out, which is a pointer to a record
// pointer. Backends hand a Decoder to scan callbacks so that they never need to
// know the concrete record type.
type Decoder func(out any) error
