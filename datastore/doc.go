/*
Package datastore defines the backend contract of the entity store.

	type DataStore interface {
	    CreateTable(ctx context.Context, table string) error
	    Scan(ctx context.Context, table string, opts storagemodels.ListOptions, fn func(decode storagemodels.Decoder) error) error
	    Get(ctx context.Context, table, partitionKey, rowKey string, out any) (bool, error)
	    Insert(ctx context.Context, table string, rec storagemodels.Record) error
	    Replace(ctx context.Context, table string, rec storagemodels.Record) error
	    Delete(ctx context.Context, table, partitionKey, rowKey string) error
	}

Backends are not generic: they take the table name from the caller and decode
into caller-provided targets, so one client serves every record kind. Type
safety lives one level up, in retailstore.EntityStore[T].

Implementations:
  - ddb: DynamoDB, one table per container, conditional writes on the ETag attribute
  - cql: Cassandra, lightweight transactions on the etag column
  - mock: In-memory implementation for testing
*/
package datastore
