package logger

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ZeroLogger wraps zerolog.Logger to implement the Logger interface.
// Credential-bearing fields are redacted before they reach the output; see
// RedactionConfig for what is masked by default.
type ZeroLogger struct {
	zlog     *zerolog.Logger
	redactor *Redactor
}

// Ensure ZeroLogger implements the interface
var _ Logger = (*ZeroLogger)(nil)

var callerMarshalOnce sync.Once

// New creates a new ZeroLogger instance with the specified log level and the
// default redaction configuration. If pretty is true, output is formatted for
// human readability.
func New(level string, pretty bool) *ZeroLogger {
	return NewWithRedaction(level, pretty, DefaultRedactionConfig())
}

// NewWithRedaction creates a new ZeroLogger with a custom redaction
// configuration, allowing callers to extend or replace the set of masked
// header and field names.
func NewWithRedaction(level string, pretty bool, config *RedactionConfig) *ZeroLogger {
	callerMarshalOnce.Do(func() {
		zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
			base := filepath.Base(file)
			parent := filepath.Base(filepath.Dir(file))
			if parent != "." && parent != "" {
				return parent + "/" + base + ":" + strconv.Itoa(line)
			}
			return base + ":" + strconv.Itoa(line)
		}
	})

	var l zerolog.Logger

	if pretty {
		l = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().CallerWithSkipFrameCount(3).Logger()
	} else {
		l = zerolog.New(os.Stdout).With().Timestamp().CallerWithSkipFrameCount(3).Logger()
	}

	zLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		zLevel = zerolog.InfoLevel
	}
	l = l.Level(zLevel)

	return &ZeroLogger{zlog: &l, redactor: NewRedactor(config)}
}

// WithContext returns a logger bound to the zerolog instance carried by ctx,
// falling back to the receiver when the context carries none.
func (l *ZeroLogger) WithContext(ctx context.Context) Logger {
	zl := zerolog.Ctx(ctx)
	if zl == nil || zl.GetLevel() == zerolog.Disabled {
		return l
	}
	return &ZeroLogger{zlog: zl, redactor: l.redactor}
}

// WithFields returns a logger with additional fields attached to all log
// entries. Sensitive fields are redacted before being attached.
func (l *ZeroLogger) WithFields(fields map[string]any) Logger {
	if l.redactor != nil {
		fields = l.redactor.RedactFields(fields)
	}
	log := l.zlog.With().Fields(fields).Logger()
	return &ZeroLogger{zlog: &log, redactor: l.redactor}
}
