/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package retailstore

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/abcretailors/retailstore/blobstore"
	"github.com/abcretailors/retailstore/bootstrap"
	"github.com/abcretailors/retailstore/datastore"
	"github.com/abcretailors/retailstore/errors"
	"github.com/abcretailors/retailstore/fileshare"
	"github.com/abcretailors/retailstore/queue"
	"github.com/abcretailors/retailstore/registry"
	"github.com/abcretailors/retailstore/storagemodels"
	"github.com/abcretailors/retailstore/telemetry"
)

// Backends are the storage services behind a Facade.
type Backends struct {
	Entities datastore.DataStore
	Blobs    blobstore.Backend
	Queues   queue.Transport
	Files    fileshare.Backend
}

// Facade is the single entry point to entity, blob, queue and file storage.
// It is created cheaply by New and accepts operations only after Bootstrap
// has provisioned every container; earlier calls fail with errors.ErrNotReady.
type Facade struct {
	backends Backends
	resolver *registry.Resolver
	manifest bootstrap.Manifest
	log      logrus.FieldLogger
	recorder *telemetry.Recorder
	metrics  *telemetry.Metrics
	listOpts storagemodels.ListOptions
	blobOpts []blobstore.Option

	blobs *blobstore.Service
	relay *queue.Relay
	files *fileshare.Service

	ready atomic.Bool
}

// Option configures a Facade
type Option func(*Facade)

// WithResolver replaces the default kind to container resolver
func WithResolver(r *registry.Resolver) Option {
	return func(f *Facade) {
		f.resolver = r
	}
}

// WithManifest replaces the embedded bootstrap manifest
func WithManifest(m bootstrap.Manifest) Option {
	return func(f *Facade) {
		f.manifest = m
	}
}

// WithLogger sets the logger used for bootstrap steps and failed operations
func WithLogger(log logrus.FieldLogger) Option {
	return func(f *Facade) {
		f.log = log
	}
}

// WithMetrics records operation outcomes in m
func WithMetrics(m *telemetry.Metrics) Option {
	return func(f *Facade) {
		f.metrics = m
	}
}

// WithListOptions sets the paging used by ListAll
func WithListOptions(opts ...storagemodels.ListOption) Option {
	return func(f *Facade) {
		f.listOpts = storagemodels.ApplyListOptions(opts...)
	}
}

// WithBlobOptions configures the blob naming service, e.g. its clock
func WithBlobOptions(opts ...blobstore.Option) Option {
	return func(f *Facade) {
		f.blobOpts = append(f.blobOpts, opts...)
	}
}

// New assembles a Facade. It performs no I/O; call Bootstrap before use.
func New(b Backends, opts ...Option) (*Facade, error) {
	switch {
	case b.Entities == nil:
		return nil, errors.NewValidationError("Backends.Entities", "entity store backend is required")
	case b.Blobs == nil:
		return nil, errors.NewValidationError("Backends.Blobs", "object store backend is required")
	case b.Queues == nil:
		return nil, errors.NewValidationError("Backends.Queues", "queue transport is required")
	case b.Files == nil:
		return nil, errors.NewValidationError("Backends.Files", "file share backend is required")
	}

	f := &Facade{
		backends: b,
		listOpts: storagemodels.DefaultListOptions(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.resolver == nil {
		f.resolver = registry.Default()
	}
	if f.manifest.Tables == nil && f.manifest.Containers == nil && f.manifest.Queues == nil && f.manifest.Shares == nil {
		f.manifest = bootstrap.DefaultManifest()
	}
	if f.log == nil {
		f.log = logrus.StandardLogger()
	}
	f.recorder = telemetry.NewRecorder(f.log, f.metrics)

	f.blobs = blobstore.NewService(b.Blobs, f.blobOpts...)
	f.relay = queue.NewRelay(b.Queues)
	f.files = fileshare.NewService(b.Files)
	return f, nil
}

// Bootstrap provisions every container of the manifest and marks the facade
// ready. It is idempotent and may be called again, e.g. after a failure.
// A failed run leaves the facade not ready, even if an earlier run succeeded.
func (f *Facade) Bootstrap(ctx context.Context) (err error) {
	done := f.recorder.Start(telemetry.ComponentBootstrap, "run", "manifest")
	defer func() { done(err) }()

	err = bootstrap.Run(ctx, f.manifest, bootstrap.Targets{
		Tables:     f.backends.Entities,
		Containers: f.backends.Blobs,
		Queues:     f.backends.Queues,
		Shares:     f.backends.Files,
	}, f.log)
	if err != nil {
		f.ready.Store(false)
		return err
	}
	f.ready.Store(true)
	return nil
}

// Ready reports whether Bootstrap has completed.
func (f *Facade) Ready() bool {
	return f.ready.Load()
}

// Resolver returns the kind to container resolver in use.
func (f *Facade) Resolver() *registry.Resolver {
	return f.resolver
}

func (f *Facade) checkReady() error {
	if !f.ready.Load() {
		return errors.ErrNotReady
	}
	return nil
}

// UploadBlob stores content in container. See blobstore.Service.Upload for
// what the returned identifier is for each naming strategy.
func (f *Facade) UploadBlob(ctx context.Context, content io.Reader, originalName, container string, naming blobstore.Naming) (id string, err error) {
	done := f.recorder.Start(telemetry.ComponentBlob, "upload", container)
	defer func() { done(err) }()

	if err = f.checkReady(); err != nil {
		return "", err
	}
	return f.blobs.Upload(ctx, content, originalName, container, naming)
}

// DeleteBlob removes a blob; a missing blob is not an error.
func (f *Facade) DeleteBlob(ctx context.Context, name, container string) (err error) {
	done := f.recorder.Start(telemetry.ComponentBlob, "delete", container)
	defer func() { done(err) }()

	if err = f.checkReady(); err != nil {
		return err
	}
	return f.blobs.Delete(ctx, name, container)
}

// SendMessage enqueues payload.
func (f *Facade) SendMessage(ctx context.Context, queueName, payload string) (err error) {
	done := f.recorder.Start(telemetry.ComponentQueue, "send", queueName)
	defer func() { done(err) }()

	if err = f.checkReady(); err != nil {
		return err
	}
	return f.relay.Send(ctx, queueName, payload)
}

// ReceiveMessage takes and deletes at most one message. ok is false when the
// queue is empty.
func (f *Facade) ReceiveMessage(ctx context.Context, queueName string) (payload string, ok bool, err error) {
	done := f.recorder.Start(telemetry.ComponentQueue, "receive", queueName)
	defer func() { done(err) }()

	if err = f.checkReady(); err != nil {
		return "", false, err
	}
	return f.relay.Receive(ctx, queueName)
}

// RecoverMessages makes messages stuck in flight on queueName deliverable
// again and returns how many were moved.
func (f *Facade) RecoverMessages(ctx context.Context, queueName string) (moved int, err error) {
	done := f.recorder.Start(telemetry.ComponentQueue, "recover", queueName)
	defer func() { done(err) }()

	if err = f.checkReady(); err != nil {
		return 0, err
	}
	return f.relay.Recover(ctx, queueName)
}

// UploadFile stores size bytes of content in share/directory.
func (f *Facade) UploadFile(ctx context.Context, content io.Reader, size int64, name, share, directory string) (stored string, err error) {
	done := f.recorder.Start(telemetry.ComponentFile, "upload", share)
	defer func() { done(err) }()

	if err = f.checkReady(); err != nil {
		return "", err
	}
	return f.files.Upload(ctx, content, size, name, share, directory)
}

// DownloadFile returns the content of share/directory/name.
func (f *Facade) DownloadFile(ctx context.Context, name, share, directory string) (data []byte, err error) {
	done := f.recorder.Start(telemetry.ComponentFile, "download", share)
	defer func() { done(err) }()

	if err = f.checkReady(); err != nil {
		return nil, err
	}
	return f.files.Download(ctx, name, share, directory)
}
