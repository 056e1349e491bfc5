package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"roundel/internal/daemon"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var name string
	var radius int

	cmd := &cobra.Command{
		Use:   "add <image-path>",
		Short: "Queue a source image for processing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourcePath := strings.TrimSpace(args[0])
			if sourcePath == "" {
				return errors.New("image path is required")
			}
			abs, err := filepath.Abs(sourcePath)
			if err != nil {
				return fmt.Errorf("resolve image path: %w", err)
			}
			info, err := os.Stat(abs)
			if err != nil {
				return fmt.Errorf("stat image: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("image path %q is a directory", abs)
			}

			return ctx.withDaemon(func(d *daemon.Daemon) error {
				job, err := d.AddJob(cmd.Context(), name, abs, radius)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued job %d (%s) with blur radius %d\n", job.ID, job.Name, job.BlurRadius)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Job name (derived from the file name when omitted)")
	cmd.Flags().IntVarP(&radius, "radius", "r", 0, "Gaussian blur radius (config default when omitted)")
	return cmd
}
