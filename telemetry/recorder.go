/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package telemetry

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abcretailors/retailstore/errors"
)

// Component names used as the "component" label.
const (
	ComponentEntity    = "entity"
	ComponentBlob      = "blob"
	ComponentQueue     = "queue"
	ComponentFile      = "file"
	ComponentBootstrap = "bootstrap"
)

// Recorder logs and counts operation outcomes. It only observes: callers
// return their errors unchanged whether or not a Recorder is attached.
type Recorder struct {
	log     logrus.FieldLogger
	metrics *Metrics
}

// NewRecorder creates a Recorder. Either argument may be nil.
func NewRecorder(log logrus.FieldLogger, metrics *Metrics) *Recorder {
	return &Recorder{log: log, metrics: metrics}
}

// Start begins timing an operation on resource. The returned function
// records the outcome of err.
func (r *Recorder) Start(component, op, resource string) func(err error) {
	if r == nil {
		return func(error) {}
	}
	started := time.Now()
	return func(err error) {
		r.record(component, op, resource, time.Since(started), err)
	}
}

func (r *Recorder) record(component, op, resource string, elapsed time.Duration, err error) {
	outcome := errors.Kind(err)
	if r.metrics != nil {
		r.metrics.Observe(component, op, outcome, elapsed)
	}
	if r.log == nil {
		return
	}

	entry := r.log.WithFields(logrus.Fields{
		"component": component,
		"op":        op,
		"resource":  resource,
		"duration":  elapsed,
	})
	switch outcome {
	case "ok":
		entry.Debug("storage operation")
	case "not_found", "conflict", "concurrency_conflict", "invalid_input", "not_ready":
		entry.WithError(err).WithField("error_kind", outcome).Warn("storage operation rejected")
	default:
		entry.WithError(err).WithField("error_kind", outcome).Error("storage operation failed")
	}
}
