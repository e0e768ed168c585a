/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package registry

import (
	"fmt"
	"sync"

	"github.com/abcretailors/retailstore/storagemodels"
)

// containerRegistry holds process-wide container overrides. It is populated
// from init functions and frozen by the first call to Default.
var (
	containerRegistry = make(map[storagemodels.Kind]string)
	mu                sync.Mutex
	frozen            *Resolver
)

// RegisterContainer associates kind with a container name.
// It panics on duplicate registration or when called after Default, since a
// kind must resolve to one container for the whole process.
func RegisterContainer(kind storagemodels.Kind, container string) {
	mu.Lock()
	defer mu.Unlock()

	if frozen != nil {
		panic(fmt.Sprintf("container registry: kind %q registered after resolver was built", kind))
	}
	if existing, exists := containerRegistry[kind]; exists {
		panic(fmt.Sprintf("container registry: kind %q already mapped to %q", kind, existing))
	}
	containerRegistry[kind] = container
}

// Default returns the process-wide Resolver built from the registered overrides.
func Default() *Resolver {
	mu.Lock()
	defer mu.Unlock()

	if frozen == nil {
		frozen = NewResolver(containerRegistry, nil)
	}
	return frozen
}
