package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"roundel/internal/config"
	"roundel/internal/identify"
	"roundel/internal/queue"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the job queue",
	}

	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))
	queueCmd.AddCommand(newQueueRetryCommand(ctx))
	queueCmd.AddCommand(newQueueRemoveCommand(ctx))
	queueCmd.AddCommand(newQueueHealthCommand(ctx))

	return queueCmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *queue.Store) error {
				var statuses []queue.Status
				for _, raw := range strings.Split(statusFilter, ",") {
					raw = strings.TrimSpace(raw)
					if raw == "" {
						continue
					}
					status, ok := queue.ParseStatus(raw)
					if !ok {
						return fmt.Errorf("unknown status %q (known: %v)", raw, queue.AllStatuses())
					}
					statuses = append(statuses, status)
				}

				jobs, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if len(jobs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}

				rows := make([][]string, 0, len(jobs))
				for _, job := range jobs {
					detail := job.ProgressMessage
					if job.Status == queue.StatusFailed {
						detail = job.ErrorMessage
					}
					rows = append(rows, []string{
						strconv.FormatInt(job.ID, 10),
						identify.DisplayTitle(job.Name),
						string(job.Status),
						fmt.Sprintf("%.0f%%", job.ProgressPercent),
						detail,
					})
				}
				table := renderTable(
					[]string{"ID", "Job", "Status", "Progress", "Detail"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&statusFilter, "status", "s", "", "Comma-separated status filter")
	return cmd
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	var completedOnly bool
	var failedOnly bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove jobs from the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			if completedOnly && failedOnly {
				return fmt.Errorf("--completed and --failed are mutually exclusive")
			}
			return ctx.withStore(func(_ *config.Config, store *queue.Store) error {
				var (
					removed int64
					err     error
				)
				switch {
				case completedOnly:
					removed, err = store.ClearCompleted(cmd.Context())
				case failedOnly:
					removed, err = store.ClearFailed(cmd.Context())
				default:
					removed, err = store.Clear(cmd.Context())
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d job(s)\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&completedOnly, "completed", false, "Remove only completed jobs")
	cmd.Flags().BoolVar(&failedOnly, "failed", false, "Remove only failed jobs")
	return cmd
}

func newQueueRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry [job-id...]",
		Short: "Reset failed jobs back to pending",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid job id %q", arg)
				}
				ids = append(ids, id)
			}
			return ctx.withStore(func(_ *config.Config, store *queue.Store) error {
				retried, err := store.RetryFailed(cmd.Context(), ids...)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Retrying %d job(s)\n", retried)
				return nil
			})
		},
	}
}

func newQueueRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <job-id>",
		Short: "Remove a single job from the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}
			return ctx.withStore(func(_ *config.Config, store *queue.Store) error {
				removed, err := store.Remove(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "No job with id %d\n", id)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed job %d\n", id)
				return nil
			})
		},
	}
}

func newQueueHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show aggregate queue counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *queue.Store) error {
				health, err := store.Health(cmd.Context())
				if err != nil {
					return err
				}
				table := renderTable(
					[]string{"Total", "Pending", "Processing", "Completed", "Failed"},
					[][]string{{
						strconv.Itoa(health.Total),
						strconv.Itoa(health.Pending),
						strconv.Itoa(health.Processing),
						strconv.Itoa(health.Completed),
						strconv.Itoa(health.Failed),
					}},
					[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}
