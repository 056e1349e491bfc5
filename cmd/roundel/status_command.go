package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"roundel/internal/config"
	"roundel/internal/identify"
	"roundel/internal/logging"
	"roundel/internal/preflight"
	"roundel/internal/queue"
	"roundel/internal/workflow"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show pipeline and environment status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(cmd.OutOrStdout())

				for _, line := range renderSectionHeader("Environment", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, result := range preflight.RunAll(cmd.Context(), cfg) {
					kind := statusOK
					if !result.Passed {
						kind = statusError
					}
					fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
				}

				manager := workflow.NewManager(cfg, store, logging.NewNop())
				summary := manager.Status(cmd.Context())

				fmt.Fprintln(out)
				for _, line := range renderSectionHeader("Stages", colorize) {
					fmt.Fprintln(out, line)
				}
				names := make([]string, 0, len(summary.StageHealth))
				for name := range summary.StageHealth {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					health := summary.StageHealth[name]
					kind := statusOK
					detail := "ready"
					if !health.Ready {
						kind = statusError
						detail = health.Detail
					}
					fmt.Fprintln(out, renderStatusLine(identify.DisplayTitle(name), kind, detail, colorize))
				}

				fmt.Fprintln(out)
				for _, line := range renderSectionHeader("Queue", colorize) {
					fmt.Fprintln(out, line)
				}
				if len(summary.QueueStats) == 0 {
					fmt.Fprintln(out, renderStatusLine("Jobs", statusInfo, "queue is empty", colorize))
					return nil
				}
				for _, status := range queue.AllStatuses() {
					count, ok := summary.QueueStats[status]
					if !ok || count == 0 {
						continue
					}
					kind := statusInfo
					switch status {
					case queue.StatusCompleted:
						kind = statusOK
					case queue.StatusFailed:
						kind = statusError
					}
					label := identify.DisplayTitle(strings.ReplaceAll(string(status), "_", " "))
					fmt.Fprintln(out, renderStatusLine(label, kind, fmt.Sprintf("%d job(s)", count), colorize))
				}
				return nil
			})
		},
	}
}
