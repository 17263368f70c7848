package logr

import (
	"context"
	"time"

	"log/slog"

	"github.com/go-logr/logr"
)

var _ logr.LogSink = (*logSink)(nil)

// logSink adapts a slog handler to the logr sink interface.
type logSink struct {
	handler slog.Handler
}

func newLogSink(handler slog.Handler) *logSink {
	return &logSink{handler: handler}
}

func (s *logSink) Init(info logr.RuntimeInfo) {}

func (s *logSink) Enabled(level int) bool {
	return s.handler.Enabled(context.Background(), toSlogLevel(level))
}

func (s *logSink) Info(level int, msg string, keysAndValues ...any) {
	record := slog.NewRecord(time.Now(), toSlogLevel(level), msg, 0)
	record.Add(keysAndValues...)
	_ = s.handler.Handle(context.Background(), record)
}

func (s *logSink) Error(err error, msg string, keysAndValues ...any) {
	record := slog.NewRecord(time.Now(), slog.LevelError, msg, 0)
	if err != nil {
		record.Add("error", err.Error())
	}
	record.Add(keysAndValues...)
	_ = s.handler.Handle(context.Background(), record)
}

func (s *logSink) WithValues(keysAndValues ...any) logr.LogSink {
	return &logSink{handler: s.handler.WithAttrs(toAttrs(keysAndValues))}
}

func (s *logSink) WithName(name string) logr.LogSink {
	return &logSink{handler: s.handler.WithGroup(name)}
}

func toAttrs(keysAndValues []any) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, slog.Any(key, keysAndValues[i+1]))
	}
	return attrs
}
