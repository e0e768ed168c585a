/*
Package s3store implements blobstore.Backend on Amazon S3.

Each container is a bucket. Access levels map to bucket settings:

  - AccessPrivate: the full public access block is enabled
  - AccessPublicBlob: ACLs stay blocked, and a bucket policy grants anonymous
    s3:GetObject on the bucket's objects

Usage:

	cfg, _ := awsconfig.LoadDefaultConfig(ctx)
	client := s3store.NewS3Client(cfg, "", false)
	backend := s3store.NewS3BlobStore(client, cfg.Region)
	svc := blobstore.NewService(backend)

Set WithPublicBaseURL when blobs are served through a CDN or an emulator, so
that Unique uploads return an address clients can reach.
*/
package s3store
