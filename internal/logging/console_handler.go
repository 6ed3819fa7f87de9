package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// consoleHandler writes one human-readable line per record:
//
//	15:04:05 INFO  builder: page written slug=2015-honda-civic-won-t-start [run 1a2b3c4d]
//
// The level label is coloured when the writer is a terminal and NO_COLOR is
// unset. Log files never receive escape codes.
type consoleHandler struct {
	mu        *sync.Mutex
	writer    io.Writer
	level     *slog.LevelVar
	attrs     []slog.Attr
	groups    []string
	addSource bool
	color     bool
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &consoleHandler{
		mu:        &sync.Mutex{},
		writer:    w,
		level:     lvl,
		addSource: addSource,
		color:     colorWriter(w),
	}
}

func colorWriter(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// consoleLine is a record split into the parts the console layout places
// specially and the remaining key=value pairs.
type consoleLine struct {
	component string
	runID     string
	pairs     []kv
}

func (h *consoleHandler) collect(record slog.Record) consoleLine {
	all := make([]kv, 0, record.NumAttrs()+len(h.attrs))
	for _, attr := range h.attrs {
		flattenAttr(&all, h.groups, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&all, h.groups, attr)
		return true
	})

	var line consoleLine
	for _, item := range all {
		switch {
		case item.key == FieldComponent && line.component == "":
			line.component = item.value.String()
		case item.key == FieldRunID && line.runID == "":
			line.runID = item.value.String()
		case item.key == FieldComponent, item.key == FieldRunID, item.key == "":
		default:
			line.pairs = append(line.pairs, item)
		}
	}
	return line
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	if !h.Enabled(context.Background(), record.Level) {
		return nil
	}
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	line := h.collect(record)

	var buf bytes.Buffer
	buf.Grow(96 + len(line.pairs)*24)
	buf.WriteString(ts.Local().Format("15:04:05"))
	buf.WriteByte(' ')
	buf.WriteString(h.levelText(record.Level))
	buf.WriteByte(' ')

	if line.component != "" {
		buf.WriteString(line.component + ": ")
	}
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	buf.WriteString(msg)

	for _, item := range line.pairs {
		fmt.Fprintf(&buf, " %s=%s", item.key, formatValue(item.value))
	}
	if id := line.runID; id != "" {
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(&buf, " [run %s]", id)
	}
	if h.addSource {
		if src := record.Source(); src != nil {
			fmt.Fprintf(&buf, " (%s:%d)", filepath.Base(src.File), src.Line)
		}
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(clone.attrs, attrs...)
	return clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *consoleHandler) clone() *consoleHandler {
	c := *h
	c.attrs = append([]slog.Attr(nil), h.attrs...)
	c.groups = append([]string(nil), h.groups...)
	return &c
}

type kv struct {
	key   string
	value slog.Value
}

func flattenAttr(dst *[]kv, prefix []string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		next := prefix
		if attr.Key != "" {
			next = append(append([]string(nil), prefix...), attr.Key)
		}
		for _, child := range attr.Value.Group() {
			flattenAttr(dst, next, child)
		}
		return
	}
	key := attr.Key
	if len(prefix) > 0 {
		key = strings.Join(prefix, ".") + "." + key
	}
	*dst = append(*dst, kv{key: key, value: attr.Value})
}

func formatValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		s = v.String()
	}
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.Quote(s)
	}
	return s
}

var levelColors = map[string]string{
	"DEBUG": "\x1b[90m",
	"INFO":  "\x1b[36m",
	"WARN":  "\x1b[33m",
	"ERROR": "\x1b[31m",
}

// levelText is the five-column level label, coloured for terminals.
func (h *consoleHandler) levelText(level slog.Level) string {
	label := levelLabel(level)
	padded := fmt.Sprintf("%-5s", label)
	if !h.color {
		return padded
	}
	return levelColors[label] + padded + "\x1b[0m"
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
