// Package logging implements the structured, correlation-tagged logger used
// by the web client. Entries go to a zap console sink and, when enabled, to
// a Forwarder that ships them off-process.
package logging

import (
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Forwarder receives entries that passed the level filter.
// Forward must not block the caller and must swallow transmission failures.
type Forwarder interface {
	Enabled() bool
	Forward(Entry)
}

// Options configures a Logger.
type Options struct {
	Name          string
	MinLevel      Level
	CorrelationID string
	Console       *zap.Logger
	Forwarder     Forwarder
}

// Logger emits structured entries for one logical source.
type Logger struct {
	name          string
	minLevel      Level
	correlationID string
	console       *zap.Logger
	forwarder     Forwarder
	now           func() time.Time
}

// New builds a logger. A nil Console discards console output.
func New(opts Options) *Logger {
	console := opts.Console
	if console == nil {
		console = zap.NewNop()
	}
	return &Logger{
		name:          opts.Name,
		minLevel:      opts.MinLevel.orDefault(),
		correlationID: opts.CorrelationID,
		console:       console.Named(opts.Name),
		forwarder:     opts.Forwarder,
		now:           time.Now,
	}
}

// NewConsole returns a zap logger that writes JSON entries to w, keyed the
// same way as forwarded entries. A nil writer means stderr.
func NewConsole(w io.Writer) *zap.Logger {
	if w == nil {
		w = os.Stderr
	}
	encCfg := zapcore.EncoderConfig{
		TimeKey:        keyTimestamp,
		LevelKey:       keyLevel,
		NameKey:        keyLogger,
		MessageKey:     keyMessage,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core)
}

// Name returns the logical source tag.
func (l *Logger) Name() string { return l.name }

// MinLevel returns the configured minimum severity.
func (l *Logger) MinLevel() Level { return l.minLevel }

// CorrelationID returns the session correlation id bound to this logger.
func (l *Logger) CorrelationID() string { return l.correlationID }

// WithCorrelationID returns a copy of l bound to id.
func (l *Logger) WithCorrelationID(id string) *Logger {
	cp := *l
	cp.correlationID = id
	return &cp
}

// Enabled reports whether entries at level would be emitted.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.minLevel
}

func (l *Logger) Debug(msg string, ctx Context) { l.log(LevelDebug, msg, ctx) }
func (l *Logger) Info(msg string, ctx Context)  { l.log(LevelInfo, msg, ctx) }
func (l *Logger) Warn(msg string, ctx Context)  { l.log(LevelWarn, msg, ctx) }
func (l *Logger) Error(msg string, ctx Context) { l.log(LevelError, msg, ctx) }

func (l *Logger) log(level Level, msg string, ctx Context) {
	if !l.Enabled(level) {
		return
	}
	entry := Entry{
		Timestamp:     l.now().UTC(),
		Level:         level,
		Logger:        l.name,
		Message:       msg,
		CorrelationID: l.correlationID,
		Context:       ctx,
	}

	field := zap.Inline(entry)
	switch level {
	case LevelDebug:
		l.console.Debug(msg, field)
	case LevelWarn:
		l.console.Warn(msg, field)
	case LevelError:
		l.console.Error(msg, field)
	default:
		l.console.Info(msg, field)
	}

	if l.forwarder != nil && l.forwarder.Enabled() {
		l.forwarder.Forward(entry)
	}
}
