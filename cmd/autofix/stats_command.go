package main

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"autofix/internal/classify"
	"autofix/internal/dataset"
	"autofix/internal/textutil"
)

// tally counts occurrences while remembering first-seen order.
type tally struct {
	order  []string
	counts map[string]int
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(key string) {
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

// rows returns the keys by descending count, ties in first-seen order.
func (t *tally) rows(total int) [][]string {
	keys := append([]string(nil), t.order...)
	sort.SliceStable(keys, func(i, j int) bool {
		return t.counts[keys[i]] > t.counts[keys[j]]
	})
	rows := make([][]string, len(keys))
	for i, key := range keys {
		n := t.counts[key]
		rows[i] = []string{key, humanize.Comma(int64(n)), fmt.Sprintf("%.1f%%", 100*float64(n)/float64(total))}
	}
	return rows
}

type statsOutput struct {
	Rows     int            `json:"rows"`
	Makes    map[string]int `json:"makes"`
	Problems map[string]int `json:"problems"`
	Rules    map[string]int `json:"rules"`
	Fallback int            `json:"fallback"`
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var asJSON jsonOutput

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the problem table by make, problem and rule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rows, err := dataset.Load(cfg.Paths.DataFile)
			if err != nil {
				return err
			}

			makes, problems, rules := newTally(), newTally(), newTally()
			fallback := 0
			for _, row := range rows {
				makes.add(row.Make)
				problems.add(textutil.TitleCase(row.Problem))
				rule, ok := classify.Match(row.Problem)
				if !ok {
					fallback++
				}
				rules.add(rule.Name)
			}

			if asJSON.enabled {
				return asJSON.emit(cmd, statsOutput{
					Rows:     len(rows),
					Makes:    makes.counts,
					Problems: problems.counts,
					Rules:    rules.counts,
					Fallback: fallback,
				})
			}

			out := cmd.OutOrStdout()
			report := newStatusPrinter(out)
			fmt.Fprintf(out, "%s rows in %s\n", humanize.Comma(int64(len(rows))), cfg.Paths.DataFile)
			if len(rows) == 0 {
				return nil
			}
			sections := []struct {
				title string
				key   string
				data  *tally
			}{
				{"Makes", "Make", makes},
				{"Problems", "Problem", problems},
				{"Rules", "Rule", rules},
			}
			for _, section := range sections {
				fmt.Fprintln(out)
				report.header(section.title)
				fmt.Fprintln(out, renderTable(tableSpec{
					headers: []string{section.key, "Rows", "Share"},
					rows:    section.data.rows(len(rows)),
					aligns:  []columnAlignment{alignLeft, alignRight, alignRight},
					footer:  []string{fmt.Sprintf("%d distinct", len(section.data.order)), humanize.Comma(int64(len(rows))), ""},
				}))
			}
			if fallback > 0 {
				fmt.Fprintf(out, "\n%d of %d rows use the general fallback (try 'autofix classify' on them)\n", fallback, len(rows))
			}
			return nil
		},
	}

	asJSON.register(cmd, "the counts")
	return cmd
}
