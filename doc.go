/*
Package retailstore is the storage facade of the retail back office.

It puts four storage primitives behind one entry point:

  - entities: partitioned records with optimistic concurrency (DynamoDB or Cassandra)
  - blobs: binary objects in containers (S3)
  - queues: durable messages with receive-then-delete (SQS or Redis)
  - files: hierarchical file shares (S3)

The facade has a two-phase lifecycle. New only assembles the backends;
Bootstrap provisions every container listed in the manifest and then marks
the facade ready. Operations called before that fail with errors.ErrNotReady.

Basic Usage:

	cfg, _ := config.Load("")
	facade, closeFn, err := retailstore.Open(ctx, cfg)
	if err != nil {
	    return err
	}
	defer closeFn()
	if err := facade.Bootstrap(ctx); err != nil {
	    return err
	}

	products := retailstore.Entities[*models.Product](facade)
	p, _ := products.Add(ctx, &models.Product{ProductName: "Kettle", StockAvailable: 10})

	p.StockAvailable = 7
	if _, err := products.Update(ctx, p); errors.IsConcurrencyConflict(err) {
	    // someone else changed the product: reload it and apply the change again
	}

Record types embed storagemodels.Metadata and declare their kind; the kind
is resolved to a container ("Product" to "Products") on every call.
*/
package retailstore
