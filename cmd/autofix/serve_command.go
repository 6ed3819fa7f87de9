package main

import (
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"

	"autofix/internal/preview"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview the generated site over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.commandLogger(cmd)
			if err != nil {
				return err
			}
			root := cfg.Paths.OutputDir
			if info, err := os.Stat(root); err != nil || !info.IsDir() {
				return fmt.Errorf("output directory %s not found; run 'autofix build' first", root)
			}
			out := cmd.OutOrStdout()
			return preview.Serve(cmd.Context(), addr, preview.NewHandler(root, logger), logger, func(a net.Addr) {
				fmt.Fprintf(out, "Serving %s at http://%s/ (Ctrl-C to stop)\n", root, a)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", preview.DefaultAddr, "Listen address")
	return cmd
}
