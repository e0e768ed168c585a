/*
Package cql provides a Cassandra implementation of the DataStore interface.

Each container is a table in one keyspace:

	CREATE TABLE "retail"."Products" (
	    pk text, rk text, etag text, ts timestamp, data text,
	    PRIMARY KEY (pk, rk)
	)

The record itself is stored JSON encoded in data. Writes use lightweight
transactions so that the store, not the client, arbitrates concurrent access:

	INSERT ... IF NOT EXISTS      -- Insert, not applied means the key exists
	UPDATE ... IF etag = ?        -- Replace, not applied means a stale token
	DELETE ... IF EXISTS          -- Delete, not applied means nothing to delete

Serial consistency is LOCAL_SERIAL; regular reads and writes use QUORUM.
*/
package cql
