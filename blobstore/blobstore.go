/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package blobstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abcretailors/retailstore/errors"
)

// Access is the public access level of a container. It is fixed when the
// container is created.
type Access int

const (
	// AccessPrivate containers are only readable with credentials.
	AccessPrivate Access = iota
	// AccessPublicBlob containers allow anonymous reads of individual blobs.
	AccessPublicBlob
)

func (a Access) String() string {
	switch a {
	case AccessPrivate:
		return "private"
	case AccessPublicBlob:
		return "public-blob"
	default:
		return fmt.Sprintf("Access(%d)", int(a))
	}
}

// ParseAccess parses the textual form used in bootstrap manifests.
func ParseAccess(s string) (Access, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "private", "none":
		return AccessPrivate, nil
	case "public-blob", "public", "blob":
		return AccessPublicBlob, nil
	default:
		return AccessPrivate, errors.NewValidationError("access", fmt.Sprintf("unknown access level %q", s))
	}
}

// Naming selects how an uploaded blob is named.
type Naming int

const (
	// Timestamped names blobs "<yyyymmdd_hhmmss>_<original-name>" and returns the name.
	Timestamped Naming = iota
	// Unique names blobs "<uuid><original-extension>" and returns the public address.
	Unique
)

// timestampLayout is the Go layout of yyyymmdd_hhmmss.
const timestampLayout = "20060102_150405"

// Backend is the object storage a Service writes to.
type Backend interface {
	// CreateContainer creates the container with the given access level if it does not exist.
	CreateContainer(ctx context.Context, container string, access Access) error
	// Put writes content under name, replacing an existing blob.
	Put(ctx context.Context, container, name string, content io.Reader) error
	// Delete removes the blob. A missing blob is not an error.
	Delete(ctx context.Context, container, name string) error
	// URL returns the address a public blob can be fetched from.
	URL(container, name string) string
}

// Service uploads and deletes blobs using one of the naming strategies.
type Service struct {
	backend Backend
	now     func() time.Time
	newID   func() string
}

// Option configures a Service
type Option func(*Service)

// WithClock sets the clock used by the Timestamped strategy
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator sets the generator used by the Unique strategy
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

// NewService creates a Service on top of backend
func NewService(backend Backend, opts ...Option) *Service {
	s := &Service{
		backend: backend,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload writes content to container under a name derived from originalName.
// Timestamped uploads return the stored name; Unique uploads return the
// public address of the blob.
func (s *Service) Upload(ctx context.Context, content io.Reader, originalName, container string, naming Naming) (string, error) {
	if container == "" {
		return "", errors.NewValidationError("container", "must not be empty")
	}
	base := baseName(originalName)
	if base == "" {
		return "", errors.NewValidationError("originalName", "must name a file")
	}

	var name string
	switch naming {
	case Timestamped:
		name = s.now().Format(timestampLayout) + "_" + base
	case Unique:
		name = s.newID() + path.Ext(base)
	default:
		return "", errors.NewValidationError("naming", fmt.Sprintf("unknown naming strategy %d", naming))
	}

	if err := s.backend.Put(ctx, container, name, content); err != nil {
		return "", err
	}
	if naming == Unique {
		return s.backend.URL(container, name), nil
	}
	return name, nil
}

// Delete removes the blob; deleting a missing blob succeeds.
func (s *Service) Delete(ctx context.Context, name, container string) error {
	if container == "" || name == "" {
		return errors.NewValidationError("name", "container and blob name are required")
	}
	return s.backend.Delete(ctx, container, name)
}

// baseName strips any client-side directory from an uploaded file name.
func baseName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	if name == "" {
		return ""
	}
	base := path.Base(name)
	if base == "." || base == "/" {
		return ""
	}
	return base
}
