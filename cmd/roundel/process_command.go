package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"roundel/internal/config"
	"roundel/internal/queue"
	"roundel/internal/workflow"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Process every queued job once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				logger, err := ctx.newLogger()
				if err != nil {
					return err
				}
				if _, err := store.ResetStuckProcessing(cmd.Context()); err != nil {
					return fmt.Errorf("reset stuck jobs: %w", err)
				}

				manager := workflow.NewManager(cfg, store, logger)
				if err := manager.RunOnce(cmd.Context()); err != nil {
					return err
				}

				health, err := store.Health(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Processing complete: %d completed, %d failed\n", health.Completed, health.Failed)
				return nil
			})
		},
	}
}
