package logginghelpers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/fatih/color"
)

type Options struct {
	AddSource bool
	Level     slog.Leveler
	NoColor   bool
}

// Handler writes one colored line per record
//    15:04:05.000 INFO  message key=value group.key=value
type Handler struct {
	opts   Options
	w      io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	groups []string

	levelColors map[slog.Level]*color.Color
	dim         *color.Color
}

func NewHandler(w io.Writer, opts *Options) *Handler {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	levelColors := map[slog.Level]*color.Color{
		slog.LevelDebug:    color.New(color.FgMagenta),
		LevelReportIO:      color.New(color.FgCyan),
		slog.LevelInfo:     color.New(color.FgBlue),
		slog.LevelWarn:     color.New(color.FgYellow),
		slog.LevelError:    color.New(color.FgRed),
		LevelBrokenProcess: color.New(color.FgRed, color.Bold),
	}
	dim := color.New(color.Faint)
	for _, c := range append(mapsValues(levelColors), dim) {
		if opts.NoColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}
	return &Handler{
		opts:        *opts,
		w:           w,
		mu:          &sync.Mutex{},
		levelColors: levelColors,
		dim:         dim,
	}
}

func mapsValues(m map[slog.Level]*color.Color) []*color.Color {
	values := make([]*color.Color, 0, len(m))
	for _, v := range m {
		values = append(values, v)
	}
	return values
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *Handler) levelColor(level slog.Level) *color.Color {
	// closest defined level at or below this one
	best := slog.LevelDebug
	for l := range h.levelColors {
		if l <= level && l > best {
			best = l
		}
	}
	return h.levelColors[best]
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		buf.WriteString(h.dim.Sprint(r.Time.Format("15:04:05.000")))
		buf.WriteByte(' ')
	}
	buf.WriteString(h.levelColor(r.Level).Sprintf("%-6s", LevelName(r.Level)))
	buf.WriteByte(' ')
	if h.opts.AddSource && r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		frame, _ := frames.Next()
		buf.WriteString(h.dim.Sprintf("%s:%d ", filepath.Base(frame.File), frame.Line))
	}
	buf.WriteString(r.Message)

	for _, attr := range h.attrs {
		h.appendAttr(&buf, attr, nil)
	}
	r.Attrs(func(attr slog.Attr) bool {
		h.appendAttr(&buf, attr, h.groups)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *Handler) appendAttr(buf *bytes.Buffer, attr slog.Attr, groups []string) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	if attr.Value.Kind() == slog.KindGroup {
		nested := attr.Value.Group()
		if len(nested) == 0 {
			return
		}
		if attr.Key != "" {
			groups = append(slices.Clip(groups), attr.Key)
		}
		for _, a := range nested {
			h.appendAttr(buf, a, groups)
		}
		return
	}

	key := attr.Key
	for i := len(groups) - 1; i >= 0; i-- {
		key = groups[i] + "." + key
	}
	var value string
	switch attr.Value.Kind() {
	case slog.KindString:
		value = fmt.Sprintf("%q", attr.Value.String())
	case slog.KindTime:
		value = attr.Value.Time().Format(time.RFC3339)
	default:
		value = attr.Value.String()
	}
	buf.WriteByte(' ')
	buf.WriteString(h.dim.Sprint(key + "="))
	buf.WriteString(value)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = slices.Clip(h.attrs)
	for _, attr := range attrs {
		clone.attrs = append(clone.attrs, prefixGroups(attr, h.groups))
	}
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(slices.Clip(h.groups), name)
	return &clone
}

// attrs added through WithAttrs keep the groups that were open at the time
func prefixGroups(attr slog.Attr, groups []string) slog.Attr {
	for i := len(groups) - 1; i >= 0; i-- {
		attr = slog.Attr{Key: groups[i], Value: slog.GroupValue(attr)}
	}
	return attr
}
