package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"autofix/internal/affiliate"
	"autofix/internal/shortener"
)

func newLinksCommand(ctx *commandContext) *cobra.Command {
	var (
		shorten bool
		asJSON  jsonOutput
	)

	cmd := &cobra.Command{
		Use:   "links <year> <make> <model> <part>",
		Short: "Print the retailer search links for one part",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			var s shortener.Shortener = shortener.Noop{}
			if shorten {
				logger, err := ctx.commandLogger(cmd)
				if err != nil {
					return err
				}
				s = shortener.NewFromConfig(cfg, logger)
			}

			links := affiliate.NewFromConfig(cfg, s).Build(cmd.Context(), args[0], args[1], args[2], args[3])
			if asJSON.enabled {
				return asJSON.emit(cmd, links)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Query:     %s\n", affiliate.Query(args[0], args[1], args[2], args[3]))
			fmt.Fprintf(out, "Amazon:    %s\n", links.AmazonURL)
			fmt.Fprintf(out, "eBay:      %s\n", links.EbayURL)
			fmt.Fprintf(out, "CarParts:  %s\n", links.CarpartsURL)
			return nil
		},
	}

	cmd.Flags().BoolVar(&shorten, "shorten", false, "Shorten the links when shortening is configured")
	asJSON.register(cmd, "the links")
	return cmd
}
