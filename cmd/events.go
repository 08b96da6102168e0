/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/atakandgn/company-management-system/internal/mq"
	"github.com/spf13/cobra"
)

// eventsCmd represents the events command.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect inventory change events",
}

var eventsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print inventory change events as they are published",
	Long: `Subscribes to the configured event channel and prints one JSON line per
event until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg.Logging)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		backend, err := mq.Open(ctx, cfg.MQ)
		if err != nil {
			return fmt.Errorf("open event backend: %w", err)
		}
		if backend == nil {
			return errors.New("events are disabled; set MQ_BACKEND to rabbitmq or pubsub")
		}
		publisher := mq.NewPublisher(backend, cfg.MQ.Channel).WithLogger(logger)
		defer publisher.Close()

		logger.Info().Str("channel", cfg.MQ.Channel).Str("backend", cfg.MQ.Backend).Msg("watching events")
		encoder := json.NewEncoder(cmd.OutOrStdout())
		err = publisher.Subscribe(ctx, func(_ context.Context, event mq.Event) error {
			return encoder.Encode(event)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsWatchCmd)
}
