package log

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "15:04:05.000"

// consoleHandler renders slog records through zerolog's ConsoleWriter:
//
//	10:30:45.123 INF vehicle resolved field=texts fin=1
//
// Groups are flattened into dotted keys. Attributes bound through
// WithAttrs are flattened once and reused.
type consoleHandler struct {
	zl     zerolog.Logger
	level  slog.Leveler
	bound  []slog.Attr
	prefix string
}

func newConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *consoleHandler {
	out := zerolog.ConsoleWriter{
		Out:        zerolog.SyncWriter(w),
		TimeFormat: consoleTimeFormat,
	}
	h := &consoleHandler{zl: zerolog.New(out), level: slog.LevelInfo}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	ev := h.zl.WithLevel(zerologLevel(r.Level))
	// A preformatted string passes through ConsoleWriter untouched, which
	// keeps millisecond precision regardless of zerolog.TimeFieldFormat.
	ev.Str(zerolog.TimestampFieldName, ts.Format(consoleTimeFormat))
	for _, a := range h.bound {
		addField(ev, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		for _, f := range flatten(h.prefix, a) {
			addField(ev, f)
		}
		return true
	})
	ev.Msg(r.Message)
	return nil
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	next.bound = append([]slog.Attr{}, h.bound...)
	for _, a := range attrs {
		next.bound = append(next.bound, flatten(h.prefix, a)...)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func zerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level >= slog.LevelError:
		return zerolog.ErrorLevel
	case level >= slog.LevelWarn:
		return zerolog.WarnLevel
	case level >= slog.LevelInfo:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}

// flatten resolves a and expands groups into prefixed leaf attributes.
func flatten(prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return nil
	}
	if a.Value.Kind() != slog.KindGroup {
		return []slog.Attr{{Key: prefix + a.Key, Value: a.Value}}
	}
	if a.Key != "" {
		prefix += a.Key + "."
	}
	var out []slog.Attr
	for _, ga := range a.Value.Group() {
		out = append(out, flatten(prefix, ga)...)
	}
	return out
}

func addField(ev *zerolog.Event, a slog.Attr) {
	v := a.Value
	switch v.Kind() {
	case slog.KindInt64:
		ev.Int64(a.Key, v.Int64())
	case slog.KindUint64:
		ev.Uint64(a.Key, v.Uint64())
	case slog.KindFloat64:
		ev.Float64(a.Key, v.Float64())
	case slog.KindBool:
		ev.Bool(a.Key, v.Bool())
	case slog.KindDuration:
		ev.Str(a.Key, v.Duration().String())
	case slog.KindTime:
		ev.Str(a.Key, v.Time().Format(time.RFC3339))
	default:
		ev.Str(a.Key, v.String())
	}
}
