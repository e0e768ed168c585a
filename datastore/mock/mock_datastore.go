/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

// Package mock provides an in-memory implementation of datastore.DataStore for testing
package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/abcretailors/retailstore/errors"
	"github.com/abcretailors/retailstore/storagemodels"
)

// DataStore is an in-memory datastore.DataStore with the same insert, replace
// and delete semantics as the cloud backends. Records are kept JSON encoded so
// callers never share memory with stored state.
type DataStore struct {
	mu     sync.RWMutex
	tables map[string]map[string][]byte

	now         func() time.Time
	scanError   error
	getError    error
	insertError error
	updateError error
	deleteError error
	createError error
}

// New creates a new mock DataStore
func New() *DataStore {
	return &DataStore{
		tables: make(map[string]map[string][]byte),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets the clock used for record timestamps
func (m *DataStore) WithClock(now func() time.Time) *DataStore {
	m.now = now
	return m
}

// WithScanError makes Scan operations return an error
func (m *DataStore) WithScanError(err error) *DataStore {
	m.scanError = err
	return m
}

// WithGetError makes Get operations return an error
func (m *DataStore) WithGetError(err error) *DataStore {
	m.getError = err
	return m
}

// WithInsertError makes Insert operations return an error
func (m *DataStore) WithInsertError(err error) *DataStore {
	m.insertError = err
	return m
}

// WithUpdateError makes Replace operations return an error
func (m *DataStore) WithUpdateError(err error) *DataStore {
	m.updateError = err
	return m
}

// WithDeleteError makes Delete operations return an error
func (m *DataStore) WithDeleteError(err error) *DataStore {
	m.deleteError = err
	return m
}

// WithCreateError makes CreateTable operations return an error
func (m *DataStore) WithCreateError(err error) *DataStore {
	m.createError = err
	return m
}

// CreateTable creates an empty table unless it already exists
func (m *DataStore) CreateTable(ctx context.Context, table string) error {
	if m.createError != nil {
		return m.createError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tables[table]; !exists {
		m.tables[table] = make(map[string][]byte)
	}
	return nil
}

// Scan decodes every record of table, ordered by key
func (m *DataStore) Scan(ctx context.Context, table string, opts storagemodels.ListOptions, fn func(decode storagemodels.Decoder) error) error {
	if m.scanError != nil {
		return m.scanError
	}

	m.mu.RLock()
	t, err := m.table(table)
	if err != nil {
		m.mu.RUnlock()
		return err
	}
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	snapshot := make([][]byte, 0, len(keys))
	for _, k := range keys {
		snapshot = append(snapshot, t[k])
	}
	m.mu.RUnlock()

	for _, raw := range snapshot {
		if err := fn(func(out any) error { return json.Unmarshal(raw, out) }); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves a record by key
func (m *DataStore) Get(ctx context.Context, table, partitionKey, rowKey string, out any) (bool, error) {
	if m.getError != nil {
		return false, m.getError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	t, err := m.table(table)
	if err != nil {
		return false, err
	}
	raw, exists := t[compositeKey(partitionKey, rowKey)]
	if !exists {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, errors.NewBackendError("decode", table, err)
	}
	return true, nil
}

// Insert stores a new record
func (m *DataStore) Insert(ctx context.Context, table string, rec storagemodels.Record) error {
	if m.insertError != nil {
		return m.insertError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.table(table)
	if err != nil {
		return err
	}
	meta := rec.Meta()
	key := compositeKey(meta.PartitionKey, meta.RowKey)
	if _, exists := t[key]; exists {
		return errors.NewAlreadyExistsError(table, meta.Key())
	}
	return m.write(t, key, rec)
}

// Replace overwrites a record when the caller holds the current token
func (m *DataStore) Replace(ctx context.Context, table string, rec storagemodels.Record) error {
	if m.updateError != nil {
		return m.updateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.table(table)
	if err != nil {
		return err
	}
	meta := rec.Meta()
	key := compositeKey(meta.PartitionKey, meta.RowKey)
	raw, exists := t[key]
	if !exists {
		return errors.NewConcurrencyConflictError(table, meta.Key())
	}
	var stored storagemodels.Metadata
	if err := json.Unmarshal(raw, &stored); err != nil {
		return errors.NewBackendError("decode", table, err)
	}
	if stored.ETag != meta.ETag {
		return errors.NewConcurrencyConflictError(table, meta.Key())
	}
	return m.write(t, key, rec)
}

// Delete removes a record by key
func (m *DataStore) Delete(ctx context.Context, table, partitionKey, rowKey string) error {
	if m.deleteError != nil {
		return m.deleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.table(table)
	if err != nil {
		return err
	}
	key := compositeKey(partitionKey, rowKey)
	if _, exists := t[key]; !exists {
		return errors.NewNotFoundError(table, partitionKey+"/"+rowKey)
	}
	delete(t, key)
	return nil
}

// Helper methods for testing

// Count returns the number of records in table
func (m *DataStore) Count(table string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables[table])
}

// Tables returns the names of the created tables
func (m *DataStore) Tables() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.tables))
	for name := range m.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear removes all records but keeps the tables
func (m *DataStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name := range m.tables {
		m.tables[name] = make(map[string][]byte)
	}
}

// write stamps rec and stores it; the caller holds the write lock.
func (m *DataStore) write(t map[string][]byte, key string, rec storagemodels.Record) error {
	meta := rec.Meta()
	previous := *meta
	meta.ETag = storagemodels.NewETag()
	meta.Timestamp = m.now()

	raw, err := json.Marshal(rec)
	if err != nil {
		*meta = previous
		return errors.NewValidationError("record", "failed to encode: "+err.Error())
	}
	t[key] = raw
	return nil
}

// table returns the named table; a missing table is a backend failure, as it
// is in the cloud backends when bootstrap has not run.
func (m *DataStore) table(name string) (map[string][]byte, error) {
	t, exists := m.tables[name]
	if !exists {
		return nil, errors.NewBackendError("lookup", name, fmt.Errorf("table %q does not exist", name))
	}
	return t, nil
}

func compositeKey(partitionKey, rowKey string) string {
	return partitionKey + "|" + rowKey
}
