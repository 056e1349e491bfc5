package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"roundel/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print recent daemon log output",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Paths.LogDir, "roundel.log")
			lines, err := logs.Tail(path, limit)
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No log output at %s\n", path)
				return nil
			}
			out := cmd.OutOrStdout()
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "lines", "l", 50, "Number of trailing lines to print")
	return cmd
}
