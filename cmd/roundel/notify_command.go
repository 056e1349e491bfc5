package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"roundel/internal/daemon"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDaemon(func(d *daemon.Daemon) error {
				sent, detail, err := d.TestNotification(cmd.Context())
				if err != nil {
					if detail != "" {
						fmt.Fprintln(cmd.OutOrStdout(), detail)
					}
					return err
				}
				if detail != "" {
					fmt.Fprintln(cmd.OutOrStdout(), detail)
				} else if sent {
					fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent")
				}
				return nil
			})
		},
	}
}
