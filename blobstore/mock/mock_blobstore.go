/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

// Package mock provides an in-memory blobstore.Backend for testing
package mock

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/abcretailors/retailstore/blobstore"
	"github.com/abcretailors/retailstore/errors"
)

// BaseURL prefixes the addresses returned by URL.
const BaseURL = "memory://"

type container struct {
	access blobstore.Access
	blobs  map[string][]byte
}

// Backend keeps containers and their blobs in memory.
type Backend struct {
	mu         sync.RWMutex
	containers map[string]*container

	createError error
	putError    error
	deleteError error
}

// New creates an empty mock Backend
func New() *Backend {
	return &Backend{containers: make(map[string]*container)}
}

// WithCreateError makes CreateContainer return an error
func (b *Backend) WithCreateError(err error) *Backend {
	b.createError = err
	return b
}

// WithPutError makes Put return an error
func (b *Backend) WithPutError(err error) *Backend {
	b.putError = err
	return b
}

// WithDeleteError makes Delete return an error
func (b *Backend) WithDeleteError(err error) *Backend {
	b.deleteError = err
	return b
}

func (b *Backend) CreateContainer(ctx context.Context, name string, access blobstore.Access) error {
	if b.createError != nil {
		return b.createError
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.containers[name]; !ok {
		b.containers[name] = &container{access: access, blobs: make(map[string][]byte)}
	}
	return nil
}

func (b *Backend) Put(ctx context.Context, name, blob string, content io.Reader) error {
	if b.putError != nil {
		return b.putError
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return errors.NewBackendError("Put", name+"/"+blob, err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.containers[name]
	if !ok {
		return errors.NewBackendError("Put", name, fmt.Errorf("container %q does not exist", name))
	}
	c.blobs[blob] = data
	return nil
}

func (b *Backend) Delete(ctx context.Context, name, blob string) error {
	if b.deleteError != nil {
		return b.deleteError
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.containers[name]
	if !ok {
		return errors.NewBackendError("Delete", name, fmt.Errorf("container %q does not exist", name))
	}
	delete(c.blobs, blob)
	return nil
}

func (b *Backend) URL(name, blob string) string {
	return BaseURL + name + "/" + blob
}

// Blob returns a copy of the stored content.
func (b *Backend) Blob(name, blob string) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.containers[name]
	if !ok {
		return nil, false
	}
	data, ok := c.blobs[blob]
	return bytes.Clone(data), ok
}

// Access reports the access level a container was created with.
func (b *Backend) Access(name string) (blobstore.Access, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.containers[name]
	if !ok {
		return blobstore.AccessPrivate, false
	}
	return c.access, true
}

// Names lists the blobs of a container in sorted order.
func (b *Backend) Names(name string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.containers[name]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(c.blobs))
	for n := range c.blobs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
