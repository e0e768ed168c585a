/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package fileshare

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/abcretailors/retailstore/errors"
)

// Backend is a share of directories and files.
type Backend interface {
	// CreateShare creates the share if it does not exist.
	CreateShare(ctx context.Context, share string) error
	// CreateDirectory creates directory and its parents. An existing directory is not an error.
	CreateDirectory(ctx context.Context, share, directory string) error
	// CreateFile declares a file of exactly size bytes and returns a writer for its
	// content. The file is committed by Close, which fails unless size bytes were written.
	CreateFile(ctx context.Context, share, directory, name string, size int64) (io.WriteCloser, error)
	// OpenFile opens a file for reading; a missing directory or file is ErrNotFound.
	OpenFile(ctx context.Context, share, directory, name string) (io.ReadCloser, error)
}

// Service uploads and downloads files inside shares.
type Service struct {
	backend Backend
}

// NewService creates a Service on top of backend
func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// Upload stores size bytes of content as name in directory, creating the
// directory when needed. An empty directory is the share root. It returns
// the stored file name.
func (s *Service) Upload(ctx context.Context, content io.Reader, size int64, name, share, directory string) (string, error) {
	directory, err := validate(name, share, directory)
	if err != nil {
		return "", err
	}
	if size < 0 {
		return "", errors.NewValidationError("size", "must not be negative")
	}
	if directory != "" {
		if err := s.backend.CreateDirectory(ctx, share, directory); err != nil {
			return "", err
		}
	}

	w, err := s.backend.CreateFile(ctx, share, directory, name, size)
	if err != nil {
		return "", err
	}
	n, copyErr := io.Copy(w, io.LimitReader(content, size+1))
	closeErr := w.Close()
	if copyErr != nil {
		return "", copyErr
	}
	if n != size {
		return "", errors.NewValidationError("size", fmt.Sprintf("declared %d bytes, content has %s", size, describe(n, size)))
	}
	if closeErr != nil {
		return "", closeErr
	}
	return name, nil
}

// Download returns the content of a file.
func (s *Service) Download(ctx context.Context, name, share, directory string) ([]byte, error) {
	directory, err := validate(name, share, directory)
	if err != nil {
		return nil, err
	}
	r, err := s.backend.OpenFile(ctx, share, directory, name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewBackendError("Read", JoinPath(share, directory, name), err)
	}
	return data, nil
}

// CleanDirectory normalizes a directory path: separators become "/" and
// leading, trailing and repeated separators are removed.
func CleanDirectory(directory string) string {
	parts := strings.FieldsFunc(strings.ReplaceAll(directory, `\`, "/"), func(r rune) bool { return r == '/' })
	return strings.Join(parts, "/")
}

// JoinPath joins share, directory and name for messages and keys.
func JoinPath(elems ...string) string {
	var parts []string
	for _, e := range elems {
		if e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, "/")
}

func validate(name, share, directory string) (string, error) {
	if share == "" {
		return "", errors.NewValidationError("share", "must not be empty")
	}
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", errors.NewValidationError("name", "must be a plain file name")
	}
	directory = CleanDirectory(directory)
	for _, part := range strings.Split(directory, "/") {
		if part == "." || part == ".." {
			return "", errors.NewValidationError("directory", "must not contain relative segments")
		}
	}
	return directory, nil
}

func describe(n, size int64) string {
	if n > size {
		return "more"
	}
	return fmt.Sprintf("%d", n)
}
