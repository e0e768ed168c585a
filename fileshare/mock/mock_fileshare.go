/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

// Package mock provides an in-memory fileshare.Backend for testing
package mock

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/abcretailors/retailstore/errors"
	"github.com/abcretailors/retailstore/fileshare"
)

// share maps a directory path ("" for the root) to its files.
type share map[string]map[string][]byte

// Backend keeps shares in memory.
type Backend struct {
	mu     sync.RWMutex
	shares map[string]share

	createError error
	openError   error
}

// New creates an empty mock Backend
func New() *Backend {
	return &Backend{shares: make(map[string]share)}
}

// WithCreateError makes CreateShare and CreateDirectory return an error
func (b *Backend) WithCreateError(err error) *Backend {
	b.createError = err
	return b
}

// WithOpenError makes OpenFile return an error
func (b *Backend) WithOpenError(err error) *Backend {
	b.openError = err
	return b
}

func (b *Backend) CreateShare(ctx context.Context, name string) error {
	if b.createError != nil {
		return b.createError
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.shares[name]; !ok {
		b.shares[name] = share{"": make(map[string][]byte)}
	}
	return nil
}

func (b *Backend) CreateDirectory(ctx context.Context, name, directory string) error {
	if b.createError != nil {
		return b.createError
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	s, err := b.share("CreateDirectory", name)
	if err != nil {
		return err
	}
	parts := strings.Split(fileshare.CleanDirectory(directory), "/")
	for i := range parts {
		dir := strings.Join(parts[:i+1], "/")
		if _, ok := s[dir]; !ok {
			s[dir] = make(map[string][]byte)
		}
	}
	return nil
}

func (b *Backend) CreateFile(ctx context.Context, name, directory, file string, size int64) (io.WriteCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, err := b.share("CreateFile", name)
	if err != nil {
		return nil, err
	}
	if _, ok := s[directory]; !ok {
		return nil, errors.NewNotFoundError("directory", fileshare.JoinPath(name, directory))
	}
	return fileshare.NewSizedWriter(size, func(data []byte) error {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.shares[name][directory][file] = bytes.Clone(data)
		return nil
	}), nil
}

func (b *Backend) OpenFile(ctx context.Context, name, directory, file string) (io.ReadCloser, error) {
	if b.openError != nil {
		return nil, b.openError
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, err := b.share("OpenFile", name)
	if err != nil {
		return nil, err
	}
	dir, ok := s[directory]
	if !ok {
		return nil, errors.NewNotFoundError("directory", fileshare.JoinPath(name, directory))
	}
	data, ok := dir[file]
	if !ok {
		return nil, errors.NewNotFoundError("file", fileshare.JoinPath(name, directory, file))
	}
	return io.NopCloser(bytes.NewReader(bytes.Clone(data))), nil
}

// HasDirectory reports whether directory exists in the share.
func (b *Backend) HasDirectory(name, directory string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.shares[name]
	if !ok {
		return false
	}
	_, ok = s[fileshare.CleanDirectory(directory)]
	return ok
}

// FileCount returns the number of files in a directory.
func (b *Backend) FileCount(name, directory string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.shares[name][fileshare.CleanDirectory(directory)])
}

func (b *Backend) share(op, name string) (share, error) {
	s, ok := b.shares[name]
	if !ok {
		return nil, errors.NewBackendError(op, name, fmt.Errorf("share %q does not exist", name))
	}
	return s, nil
}
