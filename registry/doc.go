/*
Package registry resolves record kinds to physical containers.

Every record type reports a kind tag (for example "Product"). The Resolver
turns that tag into the table that stores the records and into the fixed
partition key shared by all records of the kind:

	r := registry.NewResolver(map[storagemodels.Kind]string{
	    "Product": "Products",
	}, nil)

	r.Container("Product")  // "Products"
	r.Container("Supplier") // "Suppliers" (plural fallback)
	r.PartitionKey("Product") // "Product"

Overrides for the whole process are registered from init functions and frozen
on the first call to Default:

	func init() {
	    registry.RegisterContainer(KindOrder, "Orders")
	}

Resolution is a pure lookup. It never fails and never inspects types at runtime,
so independently written callers that use the same kind share storage.
*/
package registry
