/*
Package blobstore stores binary objects in named containers.

Two naming strategies are supported, and they return different identifiers
because they serve different readers:

	// Documents: chronologically sortable, retrieved privately by name.
	name, err := svc.Upload(ctx, file, "invoice.pdf", "paymentproofs", blobstore.Timestamped)
	// name == "20250301_101500_invoice.pdf"

	// Public images: collision free, linked directly by address.
	url, err := svc.Upload(ctx, file, "kettle.png", "productimages", blobstore.Unique)
	// url == "https://productimages.s3.eu-west-1.amazonaws.com/6f1c...e2.png"

Container access levels are set once, when the container is created during
bootstrap, and are never a per-upload parameter.

Backends:
  - s3store: Amazon S3, one bucket per container
  - mock: in-memory implementation for testing
*/
package blobstore
