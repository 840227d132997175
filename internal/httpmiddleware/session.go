package httpmiddleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mvphrm/internal/apiclient"
	"mvphrm/internal/correlation"
	"mvphrm/internal/store"
)

const (
	// SessionCookie names the browser session cookie.
	SessionCookie = "hrm_session"

	sessionIDKey     = "session_id"
	correlationIDKey = "correlation_id"
)

// Session assigns every browser a session cookie and resolves the session's
// correlation id. Both ids are stored on the gin context; the correlation id
// and the page origin also travel in the request context.
func Session(st store.SessionStore, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		sid, err := c.Cookie(SessionCookie)
		if err != nil || sid == "" {
			sid = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, sid, int(ttl.Seconds()), "/", "", c.Request.TLS != nil, true)
		}

		cid, err := correlation.Ensure(c.Request.Context(), st, sid)
		if err != nil {
			cid = correlation.Generate(time.Now())
			logger.Warn("session storage unavailable, using ephemeral correlation id",
				zap.String("correlation_id", cid), zap.Error(err))
		}

		c.Set(sessionIDKey, sid)
		c.Set(correlationIDKey, cid)
		ctx := correlation.WithID(c.Request.Context(), cid)
		ctx = apiclient.WithPageOrigin(ctx, origin(c.Request))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// SessionID returns the session id set by Session.
func SessionID(c *gin.Context) string { return c.GetString(sessionIDKey) }

// CorrelationID returns the correlation id set by Session.
func CorrelationID(c *gin.Context) string { return c.GetString(correlationIDKey) }

func origin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		scheme = p
	}
	return scheme + "://" + r.Host
}
