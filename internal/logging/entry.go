package logging

import (
	"encoding/json"
	"time"

	"go.uber.org/zap/zapcore"
)

// Context carries the optional details attached to a log entry.
// Zero-valued fields are omitted: StatusCode 0, Duration 0 and an empty Error
// are treated as absent. Fields are merged last and never replace core keys.
type Context struct {
	Method     string
	Endpoint   string
	StatusCode int
	Duration   time.Duration
	Error      string
	Fields     map[string]any
}

// Entry is a single structured log record.
type Entry struct {
	Timestamp     time.Time
	Level         Level
	Logger        string
	Message       string
	CorrelationID string
	Context       Context
}

const (
	keyTimestamp     = "timestamp"
	keyLevel         = "level"
	keyLogger        = "logger"
	keyMessage       = "message"
	keyCorrelationID = "correlationId"
	keyMethod        = "method"
	keyEndpoint      = "endpoint"
	keyStatusCode    = "statusCode"
	keyDuration      = "duration"
	keyError         = "error"
)

var coreKeys = map[string]bool{
	keyTimestamp: true, keyLevel: true, keyLogger: true, keyMessage: true, keyCorrelationID: true,
	keyMethod: true, keyEndpoint: true, keyStatusCode: true, keyDuration: true, keyError: true,
}

func durationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func (c Context) fields() map[string]any {
	out := make(map[string]any, len(c.Fields)+5)
	for k, v := range c.Fields {
		if !coreKeys[k] {
			out[k] = v
		}
	}
	if c.Method != "" {
		out[keyMethod] = c.Method
	}
	if c.Endpoint != "" {
		out[keyEndpoint] = c.Endpoint
	}
	if c.StatusCode != 0 {
		out[keyStatusCode] = c.StatusCode
	}
	if c.Duration != 0 {
		out[keyDuration] = durationMillis(c.Duration)
	}
	if c.Error != "" {
		out[keyError] = c.Error
	}
	return out
}

// MarshalJSON flattens the entry and its context into one object.
func (e Entry) MarshalJSON() ([]byte, error) {
	m := e.Context.fields()
	m[keyTimestamp] = e.Timestamp.UTC().Format(time.RFC3339Nano)
	m[keyLevel] = e.Level.String()
	m[keyLogger] = e.Logger
	m[keyMessage] = e.Message
	m[keyCorrelationID] = e.CorrelationID
	return json.Marshal(m)
}

// UnmarshalJSON reads a flattened entry. Unknown keys land in Context.Fields.
func (e *Entry) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var out Entry
	str := func(key string) string {
		var s string
		if v, ok := raw[key]; ok {
			_ = json.Unmarshal(v, &s)
		}
		return s
	}
	if ts := str(keyTimestamp); ts != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			out.Timestamp = parsed
		}
	}
	if lvl, err := ParseLevel(str(keyLevel)); err == nil {
		out.Level = lvl
	}
	out.Logger = str(keyLogger)
	out.Message = str(keyMessage)
	out.CorrelationID = str(keyCorrelationID)
	out.Context.Method = str(keyMethod)
	out.Context.Endpoint = str(keyEndpoint)
	out.Context.Error = str(keyError)
	if v, ok := raw[keyStatusCode]; ok {
		_ = json.Unmarshal(v, &out.Context.StatusCode)
	}
	if v, ok := raw[keyDuration]; ok {
		var ms float64
		if json.Unmarshal(v, &ms) == nil {
			out.Context.Duration = time.Duration(ms * float64(time.Millisecond))
		}
	}
	for k, v := range raw {
		if coreKeys[k] {
			continue
		}
		var val any
		if json.Unmarshal(v, &val) != nil {
			continue
		}
		if out.Context.Fields == nil {
			out.Context.Fields = map[string]any{}
		}
		out.Context.Fields[k] = val
	}
	*e = out
	return nil
}

// MarshalLogObject writes the non-envelope part of the entry for zap.
// Timestamp, level, logger name and message are written by the encoder.
func (e Entry) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString(keyCorrelationID, e.CorrelationID)
	for k, v := range e.Context.fields() {
		switch val := v.(type) {
		case string:
			enc.AddString(k, val)
		case int:
			enc.AddInt(k, val)
		case float64:
			enc.AddFloat64(k, val)
		default:
			if err := enc.AddReflected(k, val); err != nil {
				return err
			}
		}
	}
	return nil
}
