package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// jsonOutput is the --json switch shared by build, classify, links and stats.
type jsonOutput struct {
	enabled bool
}

func (j *jsonOutput) register(cmd *cobra.Command, what string) {
	cmd.Flags().BoolVar(&j.enabled, "json", false, "Print "+what+" as JSON")
}

// emit writes v to stdout as indented JSON. HTML escaping is off so affiliate
// query strings print as they appear in pages.
func (j *jsonOutput) emit(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
