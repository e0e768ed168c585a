/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package bootstrap

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abcretailors/retailstore/blobstore"
	"github.com/abcretailors/retailstore/errors"
)

// Step names reported in BootstrapError and logs.
const (
	StepTable     = "table"
	StepContainer = "container"
	StepQueue     = "queue"
	StepShare     = "share"
	StepDirectory = "directory"
)

// TableCreator provisions entity tables.
type TableCreator interface {
	CreateTable(ctx context.Context, table string) error
}

// ContainerCreator provisions object store containers.
type ContainerCreator interface {
	CreateContainer(ctx context.Context, container string, access blobstore.Access) error
}

// QueueCreator provisions queues.
type QueueCreator interface {
	CreateQueue(ctx context.Context, queue string) error
}

// ShareCreator provisions file shares and their directories.
type ShareCreator interface {
	CreateShare(ctx context.Context, share string) error
	CreateDirectory(ctx context.Context, share, directory string) error
}

// Targets are the backends a manifest is applied to. A target may be nil
// only when the manifest lists nothing for it.
type Targets struct {
	Tables     TableCreator
	Containers ContainerCreator
	Queues     QueueCreator
	Shares     ShareCreator
}

// Run provisions every container of the manifest in order: tables, object
// containers, queues, shares and their directories. Each step is idempotent,
// so Run may be repeated. The first failure aborts the run with a
// BootstrapError naming the step and resource.
func Run(ctx context.Context, m Manifest, t Targets, log logrus.FieldLogger) error {
	if err := m.Validate(); err != nil {
		return errors.NewBootstrapError("manifest", "", err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	started := time.Now()

	for _, table := range m.Tables {
		if t.Tables == nil {
			return missingTarget(StepTable, table)
		}
		if err := step(log, StepTable, table, func() error { return t.Tables.CreateTable(ctx, table) }); err != nil {
			return err
		}
	}

	for _, c := range m.Containers {
		if t.Containers == nil {
			return missingTarget(StepContainer, c.Name)
		}
		access, _ := blobstore.ParseAccess(c.Access)
		if err := step(log.WithField("access", access.String()), StepContainer, c.Name, func() error {
			return t.Containers.CreateContainer(ctx, c.Name, access)
		}); err != nil {
			return err
		}
	}

	for _, q := range m.Queues {
		if t.Queues == nil {
			return missingTarget(StepQueue, q)
		}
		if err := step(log, StepQueue, q, func() error { return t.Queues.CreateQueue(ctx, q) }); err != nil {
			return err
		}
	}

	for _, s := range m.Shares {
		if t.Shares == nil {
			return missingTarget(StepShare, s.Name)
		}
		if err := step(log, StepShare, s.Name, func() error { return t.Shares.CreateShare(ctx, s.Name) }); err != nil {
			return err
		}
		for _, dir := range s.Directories {
			if err := step(log, StepDirectory, s.Name+"/"+dir, func() error {
				return t.Shares.CreateDirectory(ctx, s.Name, dir)
			}); err != nil {
				return err
			}
		}
	}

	log.WithField("duration", time.Since(started)).Info("bootstrap complete")
	return nil
}

func step(log logrus.FieldLogger, name, resource string, fn func() error) error {
	entry := log.WithFields(logrus.Fields{"step": name, "resource": resource})
	if err := fn(); err != nil {
		entry.WithError(err).WithField("error_kind", errors.Kind(err)).Error("bootstrap step failed")
		return errors.NewBootstrapError(name, resource, err)
	}
	entry.Info("provisioned")
	return nil
}

func missingTarget(name, resource string) error {
	return errors.NewBootstrapError(name, resource, errors.NewValidationError("targets", "no backend configured for "+name+"s"))
}
