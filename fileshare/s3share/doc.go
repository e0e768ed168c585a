// Package s3share implements fileshare.Backend on Amazon S3.
//
// Shares are private buckets. Directories are marker objects ("payments/")
// so that a missing directory can be told apart from a missing file, and
// files are uploaded in one PutObject once their declared size is complete.
package s3share
