/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package retailstore

import (
	"context"

	"github.com/abcretailors/retailstore/blobstore/s3store"
	"github.com/abcretailors/retailstore/bootstrap"
	"github.com/abcretailors/retailstore/config"
	"github.com/abcretailors/retailstore/datastore/cql"
	"github.com/abcretailors/retailstore/datastore/ddb"
	"github.com/abcretailors/retailstore/fileshare/s3share"
	"github.com/abcretailors/retailstore/queue/redisqueue"
	"github.com/abcretailors/retailstore/queue/sqsqueue"
)

// Open builds the cloud backends selected by cfg and a Facade on top of them.
// The returned close function releases backend connections. Bootstrap must
// still be called before the facade is used.
//
// Unlike New, Open connects to Cassandra when that backend is selected.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Facade, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	awsCfg, err := cfg.LoadAWSConfig(ctx)
	if err != nil {
		return nil, nil, err
	}

	var closers []func() error
	closeAll := func() error {
		var first error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil && first == nil {
				first = err
			}
		}
		return first
	}

	var b Backends
	switch cfg.Entity.Backend {
	case config.EntityBackendCassandra:
		store, err := cql.NewCassandraDataStore(cql.Config{
			Hosts:    cfg.Entity.Cassandra.Hosts,
			Keyspace: cfg.Entity.Cassandra.Keyspace,
		})
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() error { store.Close(); return nil })
		b.Entities = store
	default:
		b.Entities = ddb.NewDynamodbDataStore(ddb.NewDynamoDBClient(awsCfg, cfg.AWS.Endpoint))
	}

	s3Client := s3store.NewS3Client(awsCfg, cfg.AWS.Endpoint, cfg.AWS.UsePathStyle)
	var blobOpts []s3store.Option
	if cfg.AWS.PublicBaseURL != "" {
		blobOpts = append(blobOpts, s3store.WithPublicBaseURL(cfg.AWS.PublicBaseURL))
	}
	b.Blobs = s3store.NewS3BlobStore(s3Client, awsCfg.Region, blobOpts...)
	b.Files = s3share.NewS3ShareStore(s3Client, awsCfg.Region)

	switch cfg.Queue.Backend {
	case config.QueueBackendRedis:
		client := redisqueue.NewRedisClient(cfg.Queue.Redis.Addr, cfg.Queue.Redis.Password, cfg.Queue.Redis.DB)
		closers = append(closers, client.Close)
		b.Queues = redisqueue.NewRedisTransport(client, cfg.Queue.Redis.Prefix)
	default:
		b.Queues = sqsqueue.NewSQSTransport(
			sqsqueue.NewSQSClient(awsCfg, cfg.AWS.Endpoint),
			sqsqueue.WithWaitTime(cfg.Queue.WaitTimeSeconds),
		)
	}

	if cfg.Manifest != "" {
		m, err := bootstrap.LoadManifest(cfg.Manifest)
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		opts = append([]Option{WithManifest(m)}, opts...)
	}

	f, err := New(b, opts...)
	if err != nil {
		_ = closeAll()
		return nil, nil, err
	}
	return f, closeAll, nil
}
