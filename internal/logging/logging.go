// Package logging provides the diagnostic stream of the converter: a
// log/slog handler that renders severity-coded lines, optionally colorized.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// LevelCritical is used for fatal aborts of the whole run
const LevelCritical = slog.Level(12)

// Options controls handler behaviour.
type Options struct {
	Level slog.Leveler
	Color bool
}

// Handler writes "LEVEL [file:line] message key=value" lines.
type Handler struct {
	mu     *sync.Mutex
	w      io.Writer
	opts   Options
	attrs  string
	groups []string
	styles map[slog.Level]lipgloss.Style
}

// NewHandler creates a handler writing to w.
func NewHandler(w io.Writer, opts Options) *Handler {
	if opts.Level == nil {
		opts.Level = slog.LevelWarn
	}
	h := &Handler{
		mu:   &sync.Mutex{},
		w:    w,
		opts: opts,
	}
	if opts.Color {
		r := lipgloss.NewRenderer(w)
		h.styles = map[slog.Level]lipgloss.Style{
			slog.LevelDebug: r.NewStyle().Foreground(lipgloss.Color("6")),
			slog.LevelInfo:  r.NewStyle().Foreground(lipgloss.Color("2")),
			slog.LevelWarn:  r.NewStyle().Foreground(lipgloss.Color("3")),
			slog.LevelError: r.NewStyle().Foreground(lipgloss.Color("1")),
			LevelCritical:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		}
	}
	return h
}

// New returns a logger writing to w at the named level.
func New(w io.Writer, level string, color bool) *slog.Logger {
	return slog.New(NewHandler(w, Options{Level: ParseLevel(level), Color: color}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(NewHandler(io.Discard, Options{Level: LevelCritical + 1}))
}

// ParseLevel converts a level name, defaulting to warning.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	case "critical", "fatal":
		return LevelCritical
	default:
		return slog.LevelWarn
	}
}

// LevelName returns the label printed for a level.
func LevelName(level slog.Level) string {
	switch {
	case level >= LevelCritical:
		return "CRITICAL"
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARNING"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	b.WriteString(h.levelLabel(r.Level))
	if src := source(r.PC); src != "" {
		b.WriteString(" [")
		b.WriteString(src)
		b.WriteString("]")
	}
	b.WriteString(" ")
	b.WriteString(r.Message)

	b.WriteString(h.attrs)
	prefix := strings.Join(h.groups, ".")
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, prefix, a)
		return true
	})
	b.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	prefix := strings.Join(h.groups, ".")
	for _, a := range attrs {
		writeAttr(&b, prefix, a)
	}
	clone := *h
	clone.attrs = h.attrs + b.String()
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)
	return &clone
}

func (h *Handler) levelLabel(level slog.Level) string {
	label := LevelName(level) + ":"
	if h.styles == nil {
		return label
	}
	style, ok := h.styles[normalize(level)]
	if !ok {
		return label
	}
	return style.Render(label)
}

func normalize(level slog.Level) slog.Level {
	switch {
	case level >= LevelCritical:
		return LevelCritical
	case level >= slog.LevelError:
		return slog.LevelError
	case level >= slog.LevelWarn:
		return slog.LevelWarn
	case level >= slog.LevelInfo:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(b, key, ga)
		}
		return
	}
	val := a.Value.String()
	if strings.ContainsAny(val, " \t\n\"=") {
		val = fmt.Sprintf("%q", val)
	}
	fmt.Fprintf(b, " %s=%s", key, val)
}

func source(pc uintptr) string {
	if pc == 0 {
		return ""
	}
	frames := runtime.CallersFrames([]uintptr{pc})
	frame, _ := frames.Next()
	if frame.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
}
