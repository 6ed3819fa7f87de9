package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"autofix/internal/notifications"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			notifier := notifications.NewService(cfg)
			if !notifications.Enabled(notifier) {
				return errors.New("notifications disabled (set notifications.ntfy_topic)")
			}
			if err := notifier.Publish(cmd.Context(), notifications.EventTest, nil); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent")
			return nil
		},
	}
}
