/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package s3store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/abcretailors/retailstore/blobstore"
	storeerrors "github.com/abcretailors/retailstore/errors"
)

// defaultRegion does not accept a LocationConstraint on CreateBucket.
const defaultRegion = "us-east-1"

// API is the part of the S3 client used by the store.
type API interface {
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutPublicAccessBlock(ctx context.Context, params *s3.PutPublicAccessBlockInput, optFns ...func(*s3.Options)) (*s3.PutPublicAccessBlockOutput, error)
	PutBucketPolicy(ctx context.Context, params *s3.PutBucketPolicyInput, optFns ...func(*s3.Options)) (*s3.PutBucketPolicyOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// NewS3Client creates an S3 client from a loaded AWS configuration. A
// non-empty endpoint selects an emulator, which usually needs path-style
// addressing.
func NewS3Client(cfg aws.Config, endpoint string, usePathStyle bool) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = usePathStyle
	})
}

// S3BlobStore implements blobstore.Backend with one bucket per container.
type S3BlobStore struct {
	client        API
	region        string
	publicBaseURL string
}

// Option configures an S3BlobStore
type Option func(*S3BlobStore)

// WithPublicBaseURL makes URL return "<base>/<container>/<name>" instead of
// the virtual-hosted S3 address.
func WithPublicBaseURL(base string) Option {
	return func(s *S3BlobStore) {
		s.publicBaseURL = strings.TrimRight(base, "/")
	}
}

// NewS3BlobStore constructs a store on top of client. region is used for
// bucket placement and public addresses.
func NewS3BlobStore(client API, region string, opts ...Option) *S3BlobStore {
	s := &S3BlobStore{client: client, region: region}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateContainer creates the bucket and applies the access level. A bucket
// already owned by the caller is reconfigured rather than rejected.
func (s *S3BlobStore) CreateContainer(ctx context.Context, container string, access blobstore.Access) error {
	input := &s3.CreateBucketInput{
		Bucket:          aws.String(container),
		ObjectOwnership: types.ObjectOwnershipBucketOwnerEnforced,
	}
	if s.region != "" && s.region != defaultRegion {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}
	if _, err := s.client.CreateBucket(ctx, input); err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if !errors.As(err, &owned) {
			return storeerrors.NewBackendError("CreateBucket", container, err)
		}
	}

	public := access == blobstore.AccessPublicBlob
	_, err := s.client.PutPublicAccessBlock(ctx, &s3.PutPublicAccessBlockInput{
		Bucket: aws.String(container),
		PublicAccessBlockConfiguration: &types.PublicAccessBlockConfiguration{
			BlockPublicAcls:       aws.Bool(true),
			IgnorePublicAcls:      aws.Bool(true),
			BlockPublicPolicy:     aws.Bool(!public),
			RestrictPublicBuckets: aws.Bool(!public),
		},
	})
	if err != nil {
		return storeerrors.NewBackendError("PutPublicAccessBlock", container, err)
	}
	if !public {
		return nil
	}

	policy, err := publicReadPolicy(container)
	if err != nil {
		return storeerrors.NewBackendError("PutBucketPolicy", container, err)
	}
	if _, err := s.client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(container),
		Policy: aws.String(policy),
	}); err != nil {
		return storeerrors.NewBackendError("PutBucketPolicy", container, err)
	}
	return nil
}

// Put uploads content. Non-seekable readers are buffered so the request
// carries a content length.
func (s *S3BlobStore) Put(ctx context.Context, container, name string, content io.Reader) error {
	body, size, err := seekable(content)
	if err != nil {
		return storeerrors.NewBackendError("PutObject", container+"/"+name, err)
	}
	input := &s3.PutObjectInput{
		Bucket:        aws.String(container),
		Key:           aws.String(name),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		input.ContentType = aws.String(ct)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return storeerrors.NewBackendError("PutObject", container+"/"+name, err)
	}
	return nil
}

// Delete removes the object. S3 reports success for missing keys.
func (s *S3BlobStore) Delete(ctx context.Context, container, name string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(container),
		Key:    aws.String(name),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil
		}
		return storeerrors.NewBackendError("DeleteObject", container+"/"+name, err)
	}
	return nil
}

func (s *S3BlobStore) URL(container, name string) string {
	escaped := url.PathEscape(name)
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + container + "/" + escaped
	}
	region := s.region
	if region == "" {
		region = defaultRegion
	}
	return "https://" + container + ".s3." + region + ".amazonaws.com/" + escaped
}

type policyStatement struct {
	Sid       string `json:"Sid"`
	Effect    string `json:"Effect"`
	Principal string `json:"Principal"`
	Action    string `json:"Action"`
	Resource  string `json:"Resource"`
}

type policyDocument struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

// publicReadPolicy grants anonymous GetObject on every object of the bucket.
func publicReadPolicy(bucket string) (string, error) {
	doc := policyDocument{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Sid:       "PublicReadGetObject",
			Effect:    "Allow",
			Principal: "*",
			Action:    "s3:GetObject",
			Resource:  "arn:aws:s3:::" + bucket + "/*",
		}},
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func seekable(r io.Reader) (io.Reader, int64, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		cur, err := rs.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, 0, err
		}
		end, err := rs.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, err
		}
		if _, err := rs.Seek(cur, io.SeekStart); err != nil {
			return nil, 0, err
		}
		return rs, end - cur, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}
	return bytes.NewReader(data), int64(len(data)), nil
}
