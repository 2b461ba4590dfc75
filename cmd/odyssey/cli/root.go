// Package cli holds the odyssey command tree.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/odyssey-erp/odyssey-admin/internal/app"
	"github.com/odyssey-erp/odyssey-admin/internal/platform/db"
	"github.com/odyssey-erp/odyssey-admin/jobs"
)

// BuildInfo identifies the binary.
type BuildInfo struct {
	Version string
	Commit  string
}

// NewRootCmd assembles the odyssey command tree.
func NewRootCmd(info BuildInfo) *cobra.Command {
	root := &cobra.Command{
		Use:           "odyssey",
		Short:         "Odyssey ERP admin console",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd(), jobsCmd(), versionCmd(info))
	return root
}

func loadConfig() (*app.Config, *slog.Logger, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, app.NewLogger(cfg), nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web console",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			console, err := app.Build(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer console.Close()
			return app.Serve(ctx, cfg, logger, console.Handler)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the activity log and idempotency tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			pool, err := app.OpenPool(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()
			applied, err := db.Migrate(cmd.Context(), pool)
			for _, name := range applied {
				logger.Info("migration applied", slog.String("name", name))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d migration(s) applied\n", len(applied))
			return nil
		},
	}
}

func jobsCmd() *cobra.Command {
	var (
		redisAddr string
		olderThan time.Duration
	)
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and trigger background jobs",
	}
	cmd.PersistentFlags().StringVar(&redisAddr, "redis", "127.0.0.1:6379", "Redis address of the job queue")

	trigger := &cobra.Command{
		Use:       "trigger <task>",
		Short:     "Enqueue a housekeeping task now",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{jobs.TaskIdempotencyCleanup, jobs.TaskActivityPrune},
		RunE: func(cmd *cobra.Command, args []string) error {
			c := NewJobsCLI(redisAddr)
			defer func() { _ = c.Close() }()
			info, err := c.Trigger(cmd.Context(), args[0], olderThan)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "enqueued %s as %s\n", info.Type, info.ID)
			return nil
		},
	}
	trigger.Flags().DurationVar(&olderThan, "older-than", 72*time.Hour, "Remove rows older than this")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Print the default queue counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := NewJobsCLI(redisAddr)
			defer func() { _ = c.Close() }()
			s, err := c.InspectQueue(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "queue=%s pending=%d active=%d scheduled=%d retry=%d\n",
				s.Queue, s.Pending, s.Active, s.Scheduled, s.Retry)
			return nil
		},
	}
	cmd.AddCommand(trigger, stats)
	return cmd
}

func versionCmd(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "odyssey %s (%s)\n", info.Version, info.Commit)
		},
	}
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, info BuildInfo, args []string) error {
	root := NewRootCmd(info)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
