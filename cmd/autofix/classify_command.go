package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"autofix/internal/classify"
)

type classifyOutput struct {
	Problem        string   `json:"problem"`
	Rule           string   `json:"rule"`
	Matched        bool     `json:"matched"`
	Nearest        string   `json:"nearest,omitempty"`
	NearestScore   float64  `json:"nearest_score,omitempty"`
	Causes         []string `json:"causes"`
	Diagnostic     []string `json:"diagnostic_steps"`
	Parts          []string `json:"parts"`
	FixSteps       []string `json:"fix_steps"`
	RelatedQueries []string `json:"related_queries,omitempty"`
}

func newClassifyCommand() *cobra.Command {
	var year, carMake, model string
	var asJSON jsonOutput

	cmd := &cobra.Command{
		Use:         "classify <problem text>",
		Short:       "Show which rule a problem description selects",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			problem := strings.Join(args, " ")
			_, matched := classify.Match(problem)
			bundle := classify.Classify(problem)
			if year != "" || carMake != "" || model != "" {
				bundle = classify.ForVehicle(year, carMake, model, problem)
			}
			result := classifyOutput{
				Problem:        problem,
				Rule:           bundle.Rule,
				Matched:        matched,
				Causes:         bundle.Causes,
				Diagnostic:     bundle.DiagnosticSteps,
				Parts:          bundle.Parts,
				FixSteps:       bundle.FixSteps,
				RelatedQueries: bundle.RelatedQueries,
			}
			if !matched {
				if nearest, score := classify.Nearest(problem); score > 0 {
					result.Nearest = nearest.Name
					result.NearestScore = score
				}
			}

			if asJSON.enabled {
				return asJSON.emit(cmd, result)
			}
			printClassification(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&year, "year", "", "Vehicle year for related queries")
	cmd.Flags().StringVar(&carMake, "make", "", "Vehicle make for related queries")
	cmd.Flags().StringVar(&model, "model", "", "Vehicle model for related queries")
	asJSON.register(cmd, "the bundle")
	return cmd
}

func printClassification(out io.Writer, result classifyOutput) {
	fmt.Fprintf(out, "Problem: %s\n", result.Problem)
	if result.Matched {
		fmt.Fprintf(out, "Rule:    %s\n", result.Rule)
	} else {
		fmt.Fprintf(out, "Rule:    %s (no rule matched)\n", result.Rule)
		if result.Nearest != "" {
			fmt.Fprintf(out, "Closest: %s (similarity %.2f)\n", result.Nearest, result.NearestScore)
		}
	}
	printList(out, "Likely causes", result.Causes)
	printList(out, "Parts", result.Parts)
	printList(out, "Fix steps", result.FixSteps)
	if len(result.RelatedQueries) > 0 {
		printList(out, "Related searches", result.RelatedQueries)
	}
}

func printList(out io.Writer, title string, items []string) {
	fmt.Fprintf(out, "\n%s:\n", title)
	for i, item := range items {
		fmt.Fprintf(out, "  %d. %s\n", i+1, item)
	}
}
