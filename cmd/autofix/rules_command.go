package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"autofix/internal/classify"
)

func newRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "rules",
		Short:       "List the symptom rules in evaluation order",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rules := classify.Rules()
			rows := make([][]string, 0, len(rules))
			for i, rule := range rules {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					rule.Name,
					rule.When.String(),
					strings.Join(rule.Parts, ", "),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(tableSpec{
				title:   "Symptom rules (first match wins)",
				headers: []string{"#", "Rule", "Matches", "Parts"},
				rows:    rows,
				aligns:  []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			}))
			return nil
		},
	}
}
