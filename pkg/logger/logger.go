// Package logger provides the process-wide logrus logger and request-scoped
// entries carrying correlation fields.
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

var std = New(os.Stdout, logrus.InfoLevel)

type ctxKey struct{}

// New builds a JSON logger whose field names match what log collectors expect.
func New(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.Level = level
	l.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	l.Out = out
	return l
}

func L() *logrus.Logger {
	return std
}

// SetLevel parses lvl ("debug", "info", ...) and applies it to the standard logger.
func SetLevel(lvl string) error {
	level, err := logrus.ParseLevel(lvl)
	if err != nil {
		return err
	}
	std.SetLevel(level)
	return nil
}

// WithFields returns a context whose logger entry carries fields in addition to
// any already attached.
func WithFields(ctx context.Context, fields logrus.Fields) context.Context {
	return context.WithValue(ctx, ctxKey{}, entry(ctx).WithFields(fields))
}

// FromContext returns the entry attached to ctx, or one on the standard logger.
// Trace and span ids are added when ctx carries a sampled span.
func FromContext(ctx context.Context) *logrus.Entry {
	e := entry(ctx)
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		e = e.WithFields(logrus.Fields{
			"trace_id": sc.TraceID().String(),
			"span_id":  sc.SpanID().String(),
		})
	}
	return e.WithContext(ctx)
}

func entry(ctx context.Context) *logrus.Entry {
	if e, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok {
		return e
	}
	return logrus.NewEntry(std)
}
