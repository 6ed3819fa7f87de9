package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"autofix/internal/builder"
	"autofix/internal/config"
	"autofix/internal/logging"
	"autofix/internal/notifications"
	"autofix/internal/watch"
)

type buildSummary struct {
	RunID        string `json:"run_id"`
	Pages        int    `json:"pages"`
	Makes        int    `json:"makes"`
	Problems     int    `json:"problems"`
	Shortened    int    `json:"shortened"`
	Files        int    `json:"files"`
	BytesWritten int64  `json:"bytes_written"`
	FixesDir     string `json:"fixes_dir"`
	DurationMS   int64  `json:"duration_ms"`
}

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var (
		watchFlag, verbose bool
		asJSON             jsonOutput
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate the site from the problem table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.commandLogger(cmd)
			if err != nil {
				return err
			}

			run := func(runCtx context.Context, cfg *config.Config) error {
				result, err := runBuild(runCtx, cfg, logger)
				publishBuildEvent(runCtx, notifications.NewService(cfg), result, err, logger)
				if err != nil {
					return err
				}
				return printBuildResult(cmd, result, &asJSON, verbose)
			}

			if !watchFlag {
				return run(cmd.Context(), cfg)
			}

			if err := run(cmd.Context(), cfg); err != nil {
				logger.Error("initial build failed; waiting for changes", logging.Error(err))
			}
			paths := []string{ctx.configPath, cfg.Paths.DataFile, cfg.Paths.TemplatesDir}
			fmt.Fprintf(cmd.OutOrStdout(), "Watching for changes (Ctrl-C to stop)\n")
			return watch.Run(cmd.Context(), paths, cfg.WatchDebounce(), func(watchCtx context.Context) error {
				fresh, _, err := ctx.loadConfig()
				if err != nil {
					return err
				}
				return run(watchCtx, fresh)
			}, logger)
		},
	}

	cmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Rebuild when the data file, config or templates change")
	asJSON.register(cmd, "the build summary")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print file and link counts")
	return cmd
}

func runBuild(ctx context.Context, cfg *config.Config, logger *slog.Logger) (builder.Result, error) {
	b, err := builder.New(cfg, logger)
	if err != nil {
		return builder.Result{}, err
	}
	return b.Run(ctx)
}

// publishBuildEvent reports the outcome of one build. Delivery failures are
// logged and never fail the build.
func publishBuildEvent(ctx context.Context, notifier notifications.Service, result builder.Result, buildErr error, logger *slog.Logger) {
	event := notifications.EventBuildCompleted
	payload := notifications.Payload{
		"pages":     result.Pages,
		"makes":     result.Makes,
		"problems":  result.Problems,
		"shortened": result.Shortened,
		"duration":  result.Duration,
		"output":    result.FixesDir,
	}
	if buildErr != nil {
		event = notifications.EventBuildFailed
		payload = notifications.Payload{"error": buildErr}
	}
	if err := notifier.Publish(ctx, event, payload); err != nil {
		logger.Warn("build notification failed",
			logging.String("event", string(event)),
			logging.Error(err),
		)
	}
}

func printBuildResult(cmd *cobra.Command, result builder.Result, asJSON *jsonOutput, verbose bool) error {
	if asJSON.enabled {
		return asJSON.emit(cmd, buildSummary{
			RunID:        result.RunID,
			Pages:        result.Pages,
			Makes:        result.Makes,
			Problems:     result.Problems,
			Shortened:    result.Shortened,
			Files:        result.Files,
			BytesWritten: result.BytesWritten,
			FixesDir:     result.FixesDir,
			DurationMS:   result.Duration.Milliseconds(),
		})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Built %d pages in %s\n", result.Pages, result.FixesDir)
	if verbose {
		fmt.Fprintf(out, "  %s files, %s written\n", humanize.Comma(int64(result.Files)), humanize.Bytes(uint64(result.BytesWritten)))
		fmt.Fprintf(out, "  %d makes, %d problems, %d links shortened\n", result.Makes, result.Problems, result.Shortened)
	}
	return nil
}
