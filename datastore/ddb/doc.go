/*
Package ddb provides a DynamoDB implementation of the DataStore interface.

Each entity container is one table keyed by PartitionKey (hash) and RowKey
(range). Writes are conditional puts:

	Insert   attribute_not_exists(#pk)   -> AlreadyExistsError
	Replace  #etag = :etag               -> ConcurrencyConflictError

The store stamps a fresh ETag and Timestamp on every successful write and
restores the caller's metadata when the condition fails, so a rejected update
can be reloaded and retried.

Reads are strongly consistent point lookups; Scan pages through a table with
the page size taken from storagemodels.ListOptions.

	client := ddb.NewDynamoDBClient(awsCfg, "http://localhost:4566")
	store := ddb.NewDynamodbDataStore(client, ddb.WithTableWait(30*time.Second))
	if err := store.CreateTable(ctx, "Products"); err != nil {
	    return err
	}
*/
package ddb
