/*
Package storagemodels defines the data structures shared by the facade and its backends.

Key Types:

Metadata:
The storage-managed fields of every record. Record types embed it:

	type Product struct {
	    storagemodels.Metadata
	    ProductName string
	    Price       float64
	}

	func (*Product) Kind() storagemodels.Kind { return "Product" }

Record:
The constraint used by the generic entity store. *Product satisfies it through
the promoted Meta method and its own Kind method.

ETag:
The opaque concurrency token. A store assigns a new one on each write and an
update only succeeds when it carries the current value.

ListOptions:
Configuration for listing a container:

	opts := []ListOption{
	    WithPageSize(25),
	    WithConsistentRead(false),
	}

These types provide a consistent interface across the storage implementations.
*/
package storagemodels
