/*
Package fileshare stores files in directories of named shares.

Uploads follow the declare-then-fill pattern of SMB style file services: the
directory is ensured, a file of the final size is created, and the content is
written into it. Content shorter or longer than the declared size fails the
upload and nothing is committed.

	name, err := files.Upload(ctx, r, size, "contract-2025-03.pdf", "contracts", "payments")
	data, err := files.Download(ctx, name, "contracts", "payments")

Backends:
  - s3share: Amazon S3, one bucket per share, directories as marker objects
  - mock: in-memory implementation for testing
*/
package fileshare
