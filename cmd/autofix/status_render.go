package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"autofix/internal/preflight"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const labelWidth = 20

var statusStyles = map[statusKind]struct{ label, color string }{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"ERROR", ansiRed},
}

func (k statusKind) String() string {
	if style, ok := statusStyles[k]; ok {
		return style.label
	}
	return statusStyles[statusInfo].label
}

// kindOf maps a preflight result to a status. Passing checks for features
// that are switched off report as info rather than ok.
func kindOf(result preflight.Result) statusKind {
	switch {
	case !result.Passed:
		return statusError
	case result.Detail == "Disabled" || strings.HasPrefix(result.Detail, "No token"):
		return statusInfo
	default:
		return statusOK
	}
}

// statusPrinter writes the doctor report and tallies what it printed.
type statusPrinter struct {
	out      io.Writer
	colorize bool
	counts   map[statusKind]int
}

func newStatusPrinter(out io.Writer) *statusPrinter {
	return &statusPrinter{out: out, colorize: isColorTerminal(out), counts: map[statusKind]int{}}
}

func (p *statusPrinter) paint(color, s string) string {
	if !p.colorize || color == "" {
		return s
	}
	return color + s + ansiReset
}

func (p *statusPrinter) header(title string) {
	line := "== " + strings.TrimSpace(title) + " =="
	fmt.Fprintln(p.out, p.paint(ansiBlue, line))
	fmt.Fprintln(p.out, p.paint(ansiBlue, strings.Repeat("-", len(line))))
}

func (p *statusPrinter) line(label string, kind statusKind, detail string) {
	p.counts[kind]++
	fmt.Fprintln(p.out, p.format(label, kind, detail))
}

func (p *statusPrinter) format(label string, kind statusKind, detail string) string {
	status := "[" + kind.String() + "]"
	if detail != "" {
		status += " " + detail
	}
	return p.paint(statusStyles[kind].color, fmt.Sprintf("  %-*s %s", labelWidth, label+":", status))
}

func (p *statusPrinter) result(r preflight.Result) {
	p.line(r.Name, kindOf(r), r.Detail)
}

// summary is the closing line, e.g. "5 ok, 1 info, 0 errors".
func (p *statusPrinter) summary() {
	fmt.Fprintf(p.out, "\n%d ok, %d info, %d errors\n", p.counts[statusOK], p.counts[statusInfo], p.counts[statusError])
}

func isColorTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
