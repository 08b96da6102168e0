/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atakandgn/company-management-system/config"
	"github.com/atakandgn/company-management-system/internal/services"
	"github.com/atakandgn/company-management-system/internal/storage"
	"github.com/atakandgn/company-management-system/internal/store"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

// snapshotCmd represents the snapshot command.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Export all companies and products to object storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, closeArchive, err := openArchive(cmd)
		if err != nil {
			return err
		}
		defer closeArchive()

		return withDatabase(cmd, func(cfg config.Config, conn *sqlx.DB) error {
			logger := newLogger(cfg.Logging)
			svc := services.NewSnapshotService(store.NewCompanyRepository(conn), store.NewProductRepository(conn), archive, logger)

			key, err := svc.Export(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		})
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots, oldest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, closeArchive, err := openArchive(cmd)
		if err != nil {
			return err
		}
		defer closeArchive()

		keys, err := archive.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, key := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), key)
		}
		return nil
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Print a stored snapshot as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		archive, closeArchive, err := openArchive(cmd)
		if err != nil {
			return err
		}
		defer closeArchive()

		svc := services.NewSnapshotService(nil, nil, archive, newLogger(cfg.Logging))
		snap, err := svc.Show(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(snap)
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
}

func openArchive(cmd *cobra.Command) (*storage.Archive, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	backend, err := storage.Open(cmd.Context(), cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	if backend == nil {
		return nil, nil, errors.New("object storage is disabled; set STORAGE_BACKEND to minio or gcs")
	}
	return storage.NewArchive(backend, cfg.Storage.Prefix), func() { _ = backend.Close() }, nil
}
