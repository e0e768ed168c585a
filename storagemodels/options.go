/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package storagemodels

// ListOptions configures how a backend pages through a container
type ListOptions struct {
	PageSize       int32 // Items per backend page (default: 100)
	ConsistentRead bool  // Strongly consistent reads where the backend supports them
}

// ListOption is a functional option for configuring listing
type ListOption func(*ListOptions)

// DefaultListOptions returns default list options. Reads are strongly
// consistent so a listing reflects every write acknowledged before it.
func DefaultListOptions() ListOptions {
	return ListOptions{
		PageSize:       100,
		ConsistentRead: true,
	}
}

// ApplyListOptions returns the defaults with opts applied in order
func ApplyListOptions(opts ...ListOption) ListOptions {
	options := DefaultListOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.PageSize <= 0 {
		options.PageSize = DefaultListOptions().PageSize
	}
	return options
}

// WithPageSize sets the backend page size
func WithPageSize(size int32) ListOption {
	return func(opts *ListOptions) {
		opts.PageSize = size
	}
}

// WithConsistentRead sets whether reads are strongly consistent
func WithConsistentRead(consistent bool) ListOption {
	return func(opts *ListOptions) {
		opts.ConsistentRead = consistent
	}
}
