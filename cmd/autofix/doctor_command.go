package main

import (
	"errors"

	"github.com/spf13/cobra"

	"autofix/internal/notifications"
	"autofix/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check paths, templates, link cache and shortening before a build",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			report := newStatusPrinter(cmd.OutOrStdout())
			report.header("autofix doctor")
			report.line("Config", statusOK, ctx.configPath)

			results := preflight.RunAll(cmd.Context(), cfg)
			for _, result := range results {
				report.result(result)
			}
			report.line("Preview images", statusInfo, "enabled: "+yesNo(cfg.Build.OGImages))
			if notifications.Enabled(notifications.NewService(cfg)) {
				report.line("Notifications", statusOK, cfg.Notifications.NtfyTopic)
			} else {
				report.line("Notifications", statusInfo, "Disabled")
			}
			report.summary()

			if preflight.Failed(results) {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
}
