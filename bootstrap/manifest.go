/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package bootstrap

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abcretailors/retailstore/blobstore"
	"github.com/abcretailors/retailstore/errors"
)

//go:embed manifest.yaml
var defaultManifest []byte

// Manifest lists every container bootstrap provisions.
type Manifest struct {
	Tables     []string    `yaml:"tables"`
	Containers []Container `yaml:"containers"`
	Queues     []string    `yaml:"queues"`
	Shares     []Share     `yaml:"shares"`
}

// Container is an object store container and its access level.
type Container struct {
	Name   string `yaml:"name"`
	Access string `yaml:"access"`
}

// Share is a file share and the directories created inside it.
type Share struct {
	Name        string   `yaml:"name"`
	Directories []string `yaml:"directories"`
}

// DefaultManifest returns the containers of the retail back office.
func DefaultManifest() Manifest {
	m, err := ParseManifest(defaultManifest)
	if err != nil {
		panic(fmt.Sprintf("bootstrap: embedded manifest is invalid: %v", err))
	}
	return m
}

// LoadManifest reads a manifest file.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, errors.NewValidationError("manifest", err.Error())
	}
	return ParseManifest(data)
}

// ParseManifest decodes and validates a YAML manifest. Unknown keys are rejected.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return Manifest{}, errors.NewValidationError("manifest", err.Error())
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Validate checks names and access levels and rejects duplicates.
func (m Manifest) Validate() error {
	if err := unique("tables", m.Tables); err != nil {
		return err
	}
	if err := unique("queues", m.Queues); err != nil {
		return err
	}

	names := make([]string, 0, len(m.Containers))
	for _, c := range m.Containers {
		if _, err := blobstore.ParseAccess(c.Access); err != nil {
			return errors.NewValidationError("containers", fmt.Sprintf("%s: %v", c.Name, err))
		}
		names = append(names, c.Name)
	}
	if err := unique("containers", names); err != nil {
		return err
	}

	names = names[:0]
	for _, s := range m.Shares {
		if err := unique("shares."+s.Name+".directories", s.Directories); err != nil {
			return err
		}
		names = append(names, s.Name)
	}
	return unique("shares", names)
}

func unique(field string, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" {
			return errors.NewValidationError(field, "names must not be empty")
		}
		if seen[n] {
			return errors.NewValidationError(field, fmt.Sprintf("duplicate name %q", n))
		}
		seen[n] = true
	}
	return nil
}
