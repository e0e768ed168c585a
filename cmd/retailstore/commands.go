/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abcretailors/retailstore"
	"github.com/abcretailors/retailstore/models"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := retailstore.GetVersionInfo()
			fmt.Fprintf(a.out, "retailstore version %s\n", info.Version)
			fmt.Fprintf(a.out, "Git commit: %s\n", info.GitCommit)
			fmt.Fprintf(a.out, "Build date: %s\n", info.BuildDate)
			fmt.Fprintf(a.out, "Go version: %s\n", info.GoVersion)
			return nil
		},
	}
}

func newBootstrapCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Provision every table, container, queue and file share",
		Long: `Provision the storage listed in the manifest. Existing resources are left
as they are, so the command can be run repeatedly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.facade.Bootstrap(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "storage is ready")
			return nil
		},
	}
}

func newQueueCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Send and receive queue messages",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "send <queue> <payload>",
		Short: "Send a message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.facade.SendMessage(cmd.Context(), args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "receive <queue>",
		Short: "Receive and delete one message",
		Long: `Receive one message and delete it from the queue. Nothing is printed when
the queue is empty.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, ok, err := a.facade.ReceiveMessage(cmd.Context(), args[0])
			if err != nil || !ok {
				return err
			}
			fmt.Fprintln(a.out, payload)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "recover <queue>",
		Short: "Return unacknowledged messages to the queue",
		Long: `Move messages that were received but never deleted back to the head of the
queue and print how many were moved. Only the Redis backend keeps such
messages; SQS redelivers them after the visibility timeout and reports 0.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			moved, err := a.facade.RecoverMessages(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "recovered %d message(s)\n", moved)
			return nil
		},
	})
	return cmd
}

func newEntityCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entity",
		Short: "Inspect entity tables",
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "list <products|customers|orders>",
		Short:     "Print every record of a table as JSON lines",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"products", "customers", "orders"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				records any
				err     error
			)
			ctx := cmd.Context()
			switch strings.ToLower(args[0]) {
			case "products":
				records, err = retailstore.Entities[*models.Product](a.facade).ListAll(ctx)
			case "customers":
				records, err = retailstore.Entities[*models.Customer](a.facade).ListAll(ctx)
			case "orders":
				records, err = retailstore.Entities[*models.Order](a.facade).ListAll(ctx)
			default:
				return fmt.Errorf("unknown table %q", args[0])
			}
			if err != nil {
				return err
			}
			return printJSONLines(a, records)
		},
	})
	return cmd
}

func newFileCmd(a *app) *cobra.Command {
	var share, directory string

	cmd := &cobra.Command{
		Use:   "file",
		Short: "Upload and download share files",
	}
	cmd.PersistentFlags().StringVar(&share, "share", "contracts", "file share")
	cmd.PersistentFlags().StringVar(&directory, "dir", "", "directory inside the share")

	cmd.AddCommand(&cobra.Command{
		Use:   "upload <local-file>",
		Short: "Upload a local file, creating the directory if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return err
			}
			name, err := a.facade.UploadFile(cmd.Context(), f, info.Size(), filepath.Base(args[0]), share, directory)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, name)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "download <name>",
		Short: "Write a file's content to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.facade.DownloadFile(cmd.Context(), args[0], share, directory)
			if err != nil {
				return err
			}
			_, err = a.out.Write(data)
			return err
		},
	})
	return cmd
}

func printJSONLines(a *app, records any) error {
	enc := json.NewEncoder(a.out)
	switch rs := records.(type) {
	case []*models.Product:
		for _, r := range rs {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
	case []*models.Customer:
		for _, r := range rs {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
	case []*models.Order:
		for _, r := range rs {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
	}
	return nil
}
