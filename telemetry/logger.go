/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package telemetry

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/abcretailors/retailstore/errors"
)

// NewLogger creates a logger writing to out at level, as "text" or "json".
func NewLogger(out io.Writer, level, format string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.NewValidationError("log.level", err.Error())
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(lvl)
	switch strings.ToLower(format) {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, errors.NewValidationError("log.format", "unknown format "+format)
	}
	return log, nil
}
