/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package main

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abcretailors/retailstore"
	"github.com/abcretailors/retailstore/config"
	"github.com/abcretailors/retailstore/telemetry"
)

// openFunc builds a facade from configuration; tests replace it.
type openFunc func(ctx context.Context, cfg *config.Config, opts ...retailstore.Option) (*retailstore.Facade, func() error, error)

type app struct {
	out    io.Writer
	errOut io.Writer
	open   openFunc

	configFile string
	logLevel   string

	log     *logrus.Logger
	facade  *retailstore.Facade
	closeFn func() error
}

func newApp(out, errOut io.Writer) *app {
	return &app{out: out, errOut: errOut, open: retailstore.Open}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "retailstore",
		Short: "Storage facade for the retail back office",
		Long: `retailstore provisions the tables, containers, queues and file shares of
the retail back office and gives command line access to them.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default: ./retailstore.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level")

	root.AddCommand(newVersionCmd(a))
	root.AddCommand(newBootstrapCmd(a))
	root.AddCommand(newQueueCmd(a))
	root.AddCommand(newEntityCmd(a))
	root.AddCommand(newFileCmd(a))
	return root
}

// setup loads configuration and opens the facade. Commands other than
// bootstrap and version also bootstrap it, which is a no-op on provisioned storage.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	a.log, err = telemetry.NewLogger(a.errOut, level, cfg.Log.Format)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a.facade, a.closeFn, err = a.open(ctx, cfg, retailstore.WithLogger(a.log))
	if err != nil {
		return err
	}
	if cmd.Name() == "bootstrap" {
		return nil
	}
	return a.facade.Bootstrap(ctx)
}

// teardown releases backend connections opened by setup.
func (a *app) teardown() error {
	if a.closeFn == nil {
		return nil
	}
	err := a.closeFn()
	a.closeFn = nil
	return err
}
