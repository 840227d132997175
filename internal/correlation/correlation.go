// Package correlation manages the per-session correlation id attached to
// every outbound request and log entry.
package correlation

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"mvphrm/internal/store"
)

// Header is the request header carrying the correlation id.
const Header = "X-Correlation-ID"

// StorageKey is the session storage key holding the id.
const StorageKey = "correlation-id"

type ctxKey struct{}

// Generate returns a new id of the form <unix millis>-<9 alphanumerics>.
func Generate(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + suffix
}

// Ensure returns the session's correlation id, creating and persisting one
// when the session has none yet.
func Ensure(ctx context.Context, st store.SessionStore, sessionID string) (string, error) {
	id, err := st.Get(ctx, sessionID, StorageKey)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	id = Generate(time.Now())
	if err := st.Set(ctx, sessionID, StorageKey, id); err != nil {
		return "", err
	}
	return id, nil
}

// WithID stores id in ctx.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the id stored in ctx, or "".
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}
