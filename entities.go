/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package retailstore

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/abcretailors/retailstore/errors"
	"github.com/abcretailors/retailstore/registry"
	"github.com/abcretailors/retailstore/storagemodels"
	"github.com/abcretailors/retailstore/telemetry"
)

// maxKeyLength bounds partition and row keys.
const maxKeyLength = 1024

// EntityStore provides typed CRUD for records of type T. The container is
// resolved from T's kind on every call.
type EntityStore[T storagemodels.Record] struct {
	facade *Facade
	kind   storagemodels.Kind
}

// Entities returns the store for records of type T.
//
//	products := retailstore.Entities[*models.Product](facade)
//	p, found, err := products.Get(ctx, "Product", "p1")
func Entities[T storagemodels.Record](f *Facade) *EntityStore[T] {
	return &EntityStore[T]{facade: f, kind: registry.KindOf[T]()}
}

// Kind returns the kind the store serves.
func (s *EntityStore[T]) Kind() storagemodels.Kind {
	return s.kind
}

// Container returns the container records of T are kept in.
func (s *EntityStore[T]) Container() string {
	return s.facade.resolver.Container(s.kind)
}

// ListAll returns every record in the container. An empty container yields
// an empty slice.
func (s *EntityStore[T]) ListAll(ctx context.Context) (records []T, err error) {
	table := s.Container()
	done := s.facade.recorder.Start(telemetry.ComponentEntity, "list", table)
	defer func() { done(err) }()

	if err = s.facade.checkReady(); err != nil {
		return nil, err
	}
	records = make([]T, 0)
	err = s.facade.backends.Entities.Scan(ctx, table, s.facade.listOpts, func(decode storagemodels.Decoder) error {
		var rec T
		if err := decode(&rec); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Get returns the record with the given keys. found is false, with a nil
// error, when there is no such record.
func (s *EntityStore[T]) Get(ctx context.Context, partitionKey, rowKey string) (rec T, found bool, err error) {
	table := s.Container()
	done := s.facade.recorder.Start(telemetry.ComponentEntity, "get", table)
	defer func() { done(err) }()

	if err = s.facade.checkReady(); err != nil {
		return rec, false, err
	}
	if err = validateKeys(partitionKey, rowKey); err != nil {
		return rec, false, err
	}
	found, err = s.facade.backends.Entities.Get(ctx, table, partitionKey, rowKey, &rec)
	if err != nil || !found {
		var zero T
		return zero, false, err
	}
	return rec, true, nil
}

// Add inserts rec. An empty partition key defaults to the kind's partition
// and an empty row key to a new UUID. On success rec carries its token and
// timestamp; an existing key fails with errors.ErrAlreadyExists.
func (s *EntityStore[T]) Add(ctx context.Context, rec T) (out T, err error) {
	table := s.Container()
	done := s.facade.recorder.Start(telemetry.ComponentEntity, "add", table)
	defer func() { done(err) }()

	if err = s.facade.checkReady(); err != nil {
		return out, err
	}
	meta := rec.Meta()
	if meta.PartitionKey == "" {
		meta.PartitionKey = s.facade.resolver.PartitionKey(s.kind)
	}
	if meta.RowKey == "" {
		meta.RowKey = uuid.NewString()
	}
	if err = validateKeys(meta.PartitionKey, meta.RowKey); err != nil {
		return out, err
	}
	if err = s.facade.backends.Entities.Insert(ctx, table, rec); err != nil {
		return out, err
	}
	return rec, nil
}

// Update replaces the stored record if its token still equals rec's token,
// the one obtained by the last read. On success rec carries a new token. A
// stale token, or a record deleted since it was read, fails with
// errors.ErrConcurrencyConflict; the caller must reload and retry.
func (s *EntityStore[T]) Update(ctx context.Context, rec T) (out T, err error) {
	table := s.Container()
	done := s.facade.recorder.Start(telemetry.ComponentEntity, "update", table)
	defer func() { done(err) }()

	if err = s.facade.checkReady(); err != nil {
		return out, err
	}
	meta := rec.Meta()
	if err = validateKeys(meta.PartitionKey, meta.RowKey); err != nil {
		return out, err
	}
	if meta.ETag == "" {
		return out, errors.NewValidationError("ETag", "update requires the token of the last read")
	}
	if err = s.facade.backends.Entities.Replace(ctx, table, rec); err != nil {
		return out, err
	}
	return rec, nil
}

// Delete removes the record regardless of its token. A missing record fails
// with errors.ErrNotFound.
func (s *EntityStore[T]) Delete(ctx context.Context, partitionKey, rowKey string) (err error) {
	table := s.Container()
	done := s.facade.recorder.Start(telemetry.ComponentEntity, "delete", table)
	defer func() { done(err) }()

	if err = s.facade.checkReady(); err != nil {
		return err
	}
	if err = validateKeys(partitionKey, rowKey); err != nil {
		return err
	}
	return s.facade.backends.Entities.Delete(ctx, table, partitionKey, rowKey)
}

func validateKeys(partitionKey, rowKey string) error {
	if err := validateKey("PartitionKey", partitionKey); err != nil {
		return err
	}
	return validateKey("RowKey", rowKey)
}

// validateKey rejects empty and oversized keys and the characters table
// keys may not contain: '/', '\', '#', '?' and control characters.
func validateKey(field, key string) error {
	if key == "" {
		return errors.NewValidationError(field, "must not be empty")
	}
	if len(key) > maxKeyLength {
		return errors.NewValidationError(field, fmt.Sprintf("longer than %d bytes", maxKeyLength))
	}
	if i := strings.IndexFunc(key, func(r rune) bool {
		return r == '/' || r == '\\' || r == '#' || r == '?' || unicode.IsControl(r)
	}); i >= 0 {
		return errors.NewValidationError(field, fmt.Sprintf("invalid character %q", key[i]))
	}
	return nil
}
