/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package cql

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/gocql/gocql"

	"github.com/abcretailors/retailstore/errors"
	"github.com/abcretailors/retailstore/storagemodels"
)

// identifierPattern restricts keyspace and table names to plain CQL identifiers,
// which are then quoted to keep their case.
var identifierPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,47}$`)

// Config holds the connection settings of a Cassandra cluster
type Config struct {
	Hosts       []string
	Keyspace    string
	Replication int
	Timeout     time.Duration
}

// CassandraDataStore implements datastore.DataStore on Cassandra, one table per
// container. Conditional writes are lightweight transactions on the etag column.
type CassandraDataStore struct {
	session  *gocql.Session
	keyspace string
	now      func() time.Time
}

// NewCassandraDataStore connects to the cluster and ensures the keyspace exists.
func NewCassandraDataStore(cfg Config) (*CassandraDataStore, error) {
	if !identifierPattern.MatchString(cfg.Keyspace) {
		return nil, errors.NewValidationError("keyspace", fmt.Sprintf("%q is not a valid CQL identifier", cfg.Keyspace))
	}
	if len(cfg.Hosts) == 0 {
		return nil, errors.NewValidationError("hosts", "at least one Cassandra host is required")
	}
	replication := cfg.Replication
	if replication <= 0 {
		replication = 1
	}

	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Consistency = gocql.Quorum
	cluster.SerialConsistency = gocql.LocalSerial
	cluster.NumConns = 2
	if cfg.Timeout > 0 {
		cluster.Timeout = cfg.Timeout
		cluster.ConnectTimeout = cfg.Timeout
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, errors.NewBackendError("CreateSession", cfg.Keyspace, err)
	}

	stmt := fmt.Sprintf(
		`CREATE KEYSPACE IF NOT EXISTS "%s" WITH replication = {'class': 'SimpleStrategy', 'replication_factor': %d}`,
		cfg.Keyspace, replication)
	if err := session.Query(stmt).Exec(); err != nil {
		session.Close()
		return nil, errors.NewBackendError("CreateKeyspace", cfg.Keyspace, err)
	}

	return &CassandraDataStore{
		session:  session,
		keyspace: cfg.Keyspace,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close closes the underlying session
func (c *CassandraDataStore) Close() {
	c.session.Close()
}

// CreateTable creates the container table if it does not exist.
func (c *CassandraDataStore) CreateTable(ctx context.Context, table string) error {
	name, err := c.qualified(table)
	if err != nil {
		return err
	}
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		pk text,
		rk text,
		etag text,
		ts timestamp,
		data text,
		PRIMARY KEY (pk, rk)
	)`, name)
	if err := c.session.Query(stmt).WithContext(ctx).Exec(); err != nil {
		return errors.NewBackendError("CreateTable", table, err)
	}
	return nil
}

// Scan pages through the table in token order.
func (c *CassandraDataStore) Scan(ctx context.Context, table string, opts storagemodels.ListOptions, fn func(decode storagemodels.Decoder) error) error {
	name, err := c.qualified(table)
	if err != nil {
		return err
	}
	iter := c.session.Query(fmt.Sprintf(`SELECT data FROM %s`, name)).
		WithContext(ctx).
		PageSize(int(opts.PageSize)).
		Iter()

	var data string
	for iter.Scan(&data) {
		raw := []byte(data)
		if err := fn(func(out any) error { return json.Unmarshal(raw, out) }); err != nil {
			_ = iter.Close()
			return err
		}
	}
	if err := iter.Close(); err != nil {
		return errors.NewBackendError("Scan", table, err)
	}
	return nil
}

// Get reads one record by key.
func (c *CassandraDataStore) Get(ctx context.Context, table, partitionKey, rowKey string, out any) (bool, error) {
	name, err := c.qualified(table)
	if err != nil {
		return false, err
	}
	var data string
	err = c.session.Query(fmt.Sprintf(`SELECT data FROM %s WHERE pk = ? AND rk = ?`, name), partitionKey, rowKey).
		WithContext(ctx).
		Scan(&data)
	if err == gocql.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, errors.NewBackendError("Select", table, err)
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, errors.NewBackendError("decode", table, err)
	}
	return true, nil
}

// Insert writes rec with IF NOT EXISTS.
func (c *CassandraDataStore) Insert(ctx context.Context, table string, rec storagemodels.Record) error {
	name, err := c.qualified(table)
	if err != nil {
		return err
	}
	meta := rec.Meta()
	previous := *meta
	data, err := c.stamp(rec)
	if err != nil {
		return err
	}

	applied, err := c.session.Query(
		fmt.Sprintf(`INSERT INTO %s (pk, rk, etag, ts, data) VALUES (?, ?, ?, ?, ?) IF NOT EXISTS`, name),
		meta.PartitionKey, meta.RowKey, string(meta.ETag), meta.Timestamp, data,
	).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		*meta = previous
		return errors.NewBackendError("Insert", table, err)
	}
	if !applied {
		*meta = previous
		return errors.NewAlreadyExistsError(table, meta.Key())
	}
	return nil
}

// Replace overwrites rec with IF etag = <caller's token>.
func (c *CassandraDataStore) Replace(ctx context.Context, table string, rec storagemodels.Record) error {
	name, err := c.qualified(table)
	if err != nil {
		return err
	}
	meta := rec.Meta()
	previous := *meta
	data, err := c.stamp(rec)
	if err != nil {
		return err
	}

	applied, err := c.session.Query(
		fmt.Sprintf(`UPDATE %s SET etag = ?, ts = ?, data = ? WHERE pk = ? AND rk = ? IF etag = ?`, name),
		string(meta.ETag), meta.Timestamp, data, meta.PartitionKey, meta.RowKey, string(previous.ETag),
	).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		*meta = previous
		return errors.NewBackendError("Update", table, err)
	}
	if !applied {
		*meta = previous
		return errors.NewConcurrencyConflictError(table, meta.Key())
	}
	return nil
}

// Delete removes the record with IF EXISTS so that absence is reported.
func (c *CassandraDataStore) Delete(ctx context.Context, table, partitionKey, rowKey string) error {
	name, err := c.qualified(table)
	if err != nil {
		return err
	}
	applied, err := c.session.Query(
		fmt.Sprintf(`DELETE FROM %s WHERE pk = ? AND rk = ? IF EXISTS`, name),
		partitionKey, rowKey,
	).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return errors.NewBackendError("Delete", table, err)
	}
	if !applied {
		return errors.NewNotFoundError(table, partitionKey+"/"+rowKey)
	}
	return nil
}

// stamp assigns a new token and timestamp and encodes the record. On encoding
// failure the metadata is left untouched.
func (c *CassandraDataStore) stamp(rec storagemodels.Record) (string, error) {
	meta := rec.Meta()
	previous := *meta
	meta.ETag = storagemodels.NewETag()
	meta.Timestamp = c.now()

	data, err := json.Marshal(rec)
	if err != nil {
		*meta = previous
		return "", errors.NewValidationError("record", "failed to encode: "+err.Error())
	}
	return string(data), nil
}

// qualified returns the quoted keyspace.table name.
func (c *CassandraDataStore) qualified(table string) (string, error) {
	return qualifiedName(c.keyspace, table)
}

func qualifiedName(keyspace, table string) (string, error) {
	if !identifierPattern.MatchString(table) {
		return "", errors.NewValidationError("table", fmt.Sprintf("%q is not a valid CQL identifier", table))
	}
	return fmt.Sprintf(`"%s"."%s"`, keyspace, table), nil
}
