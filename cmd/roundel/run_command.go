package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"roundel/internal/daemon"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the processing daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDaemon(func(d *daemon.Daemon) error {
				runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				if err := d.Start(runCtx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "roundel daemon running (log: %s)\n", d.LogPath())

				<-runCtx.Done()
				d.Stop()
				fmt.Fprintln(cmd.OutOrStdout(), "roundel daemon stopped")
				return nil
			})
		},
	}
}
