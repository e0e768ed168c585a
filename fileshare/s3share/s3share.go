/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package s3share

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	storeerrors "github.com/abcretailors/retailstore/errors"
	"github.com/abcretailors/retailstore/fileshare"
)

// API is the part of the S3 client used by the share backend.
type API interface {
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutPublicAccessBlock(ctx context.Context, params *s3.PutPublicAccessBlockInput, optFns ...func(*s3.Options)) (*s3.PutPublicAccessBlockOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3ShareStore implements fileshare.Backend with one private bucket per
// share. A directory is a zero byte object whose key ends in "/".
type S3ShareStore struct {
	client API
	region string
}

// NewS3ShareStore constructs a share backend on top of client
func NewS3ShareStore(client API, region string) *S3ShareStore {
	return &S3ShareStore{client: client, region: region}
}

// CreateShare creates the bucket and blocks all public access to it.
func (s *S3ShareStore) CreateShare(ctx context.Context, share string) error {
	input := &s3.CreateBucketInput{
		Bucket:          aws.String(share),
		ObjectOwnership: types.ObjectOwnershipBucketOwnerEnforced,
	}
	if s.region != "" && s.region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}
	if _, err := s.client.CreateBucket(ctx, input); err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if !errors.As(err, &owned) {
			return storeerrors.NewBackendError("CreateBucket", share, err)
		}
	}
	if _, err := s.client.PutPublicAccessBlock(ctx, &s3.PutPublicAccessBlockInput{
		Bucket: aws.String(share),
		PublicAccessBlockConfiguration: &types.PublicAccessBlockConfiguration{
			BlockPublicAcls:       aws.Bool(true),
			IgnorePublicAcls:      aws.Bool(true),
			BlockPublicPolicy:     aws.Bool(true),
			RestrictPublicBuckets: aws.Bool(true),
		},
	}); err != nil {
		return storeerrors.NewBackendError("PutPublicAccessBlock", share, err)
	}
	return nil
}

// CreateDirectory writes a marker for the directory and each of its parents.
func (s *S3ShareStore) CreateDirectory(ctx context.Context, share, directory string) error {
	parts := strings.Split(fileshare.CleanDirectory(directory), "/")
	for i := range parts {
		marker := strings.Join(parts[:i+1], "/") + "/"
		if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(share),
			Key:           aws.String(marker),
			Body:          bytes.NewReader(nil),
			ContentLength: aws.Int64(0),
		}); err != nil {
			return storeerrors.NewBackendError("PutObject", fileshare.JoinPath(share, marker), err)
		}
	}
	return nil
}

// CreateFile checks that the directory exists and returns a writer that
// uploads the file on Close.
func (s *S3ShareStore) CreateFile(ctx context.Context, share, directory, name string, size int64) (io.WriteCloser, error) {
	if err := s.directoryExists(ctx, share, directory); err != nil {
		return nil, err
	}
	key := fileshare.JoinPath(directory, name)
	return fileshare.NewSizedWriter(size, func(data []byte) error {
		if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(share),
			Key:           aws.String(key),
			Body:          bytes.NewReader(data),
			ContentLength: aws.Int64(size),
		}); err != nil {
			return storeerrors.NewBackendError("PutObject", fileshare.JoinPath(share, key), err)
		}
		return nil
	}), nil
}

func (s *S3ShareStore) OpenFile(ctx context.Context, share, directory, name string) (io.ReadCloser, error) {
	if err := s.directoryExists(ctx, share, directory); err != nil {
		return nil, err
	}
	key := fileshare.JoinPath(directory, name)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(share),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, storeerrors.NewNotFoundError("file", fileshare.JoinPath(share, key))
		}
		return nil, storeerrors.NewBackendError("GetObject", fileshare.JoinPath(share, key), err)
	}
	return out.Body, nil
}

func (s *S3ShareStore) directoryExists(ctx context.Context, share, directory string) error {
	if directory == "" {
		return nil
	}
	marker := directory + "/"
	if _, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(share),
		Key:    aws.String(marker),
	}); err != nil {
		if isNotFound(err) {
			return storeerrors.NewNotFoundError("directory", fileshare.JoinPath(share, directory))
		}
		return storeerrors.NewBackendError("HeadObject", fileshare.JoinPath(share, marker), err)
	}
	return nil
}

// isNotFound matches the typed errors of GetObject and HeadObject as well as
// the bare codes some S3 compatible services return.
func isNotFound(err error) bool {
	var noKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noKey) || errors.As(err, &notFound) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
