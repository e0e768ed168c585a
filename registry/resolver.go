/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package registry

import (
	"github.com/abcretailors/retailstore/storagemodels"
)

// pluralSuffix is appended to a kind that has no container override.
const pluralSuffix = "s"

// Resolver maps record kinds to container names and partition keys.
// A Resolver is immutable once built, so concurrent use needs no locking and
// a kind resolves to the same container for the lifetime of the process.
type Resolver struct {
	containers map[storagemodels.Kind]string
	partitions map[storagemodels.Kind]string
}

// NewResolver builds a Resolver from container and partition overrides.
// Either map may be nil.
func NewResolver(containers, partitions map[storagemodels.Kind]string) *Resolver {
	r := &Resolver{
		containers: make(map[storagemodels.Kind]string, len(containers)),
		partitions: make(map[storagemodels.Kind]string, len(partitions)),
	}
	for k, v := range containers {
		r.containers[k] = v
	}
	for k, v := range partitions {
		r.partitions[k] = v
	}
	return r
}

// Container returns the physical container for kind: the override when one is
// registered, otherwise the kind name with a plural suffix.
func (r *Resolver) Container(kind storagemodels.Kind) string {
	if name, ok := r.containers[kind]; ok {
		return name
	}
	return string(kind) + pluralSuffix
}

// PartitionKey returns the fixed partition key for records of kind.
func (r *Resolver) PartitionKey(kind storagemodels.Kind) string {
	if pk, ok := r.partitions[kind]; ok {
		return pk
	}
	return string(kind)
}

// Containers returns the container names of every overridden kind.
func (r *Resolver) Containers() map[storagemodels.Kind]string {
	out := make(map[storagemodels.Kind]string, len(r.containers))
	for k, v := range r.containers {
		out[k] = v
	}
	return out
}

// KindOf returns the kind of the record type T without needing an instance.
func KindOf[T storagemodels.Record]() storagemodels.Kind {
	var zero T
	return zero.Kind()
}
