package logging

import "go.uber.org/zap"

const (
	AppLoggerName = "mvphrm.app"
	APILoggerName = "mvphrm.api"
	UILoggerName  = "mvphrm.ui"
)

// SetConfig configures the three named loggers.
type SetConfig struct {
	AppLevel      Level
	APILevel      Level
	UILevel       Level
	CorrelationID string
	Console       *zap.Logger
	Forwarder     Forwarder
}

// Set groups the app, api and ui loggers that share one correlation id.
type Set struct {
	App *Logger
	API *Logger
	UI  *Logger
}

// NewSet constructs the named loggers. Each keeps its own minimum level.
func NewSet(cfg SetConfig) *Set {
	mk := func(name string, lvl Level) *Logger {
		return New(Options{
			Name:          name,
			MinLevel:      lvl,
			CorrelationID: cfg.CorrelationID,
			Console:       cfg.Console,
			Forwarder:     cfg.Forwarder,
		})
	}
	return &Set{
		App: mk(AppLoggerName, cfg.AppLevel),
		API: mk(APILoggerName, cfg.APILevel),
		UI:  mk(UILoggerName, cfg.UILevel),
	}
}

// ForSession returns a set bound to one session's correlation id.
func (s *Set) ForSession(correlationID string) *Set {
	return &Set{
		App: s.App.WithCorrelationID(correlationID),
		API: s.API.WithCorrelationID(correlationID),
		UI:  s.UI.WithCorrelationID(correlationID),
	}
}

// ParseLevelOr parses s and falls back to def on error.
func ParseLevelOr(s string, def Level) Level {
	lvl, err := ParseLevel(s)
	if err != nil {
		return def
	}
	return lvl
}
