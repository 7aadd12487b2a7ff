package middleware

import (
	"net/http"

	"sheetchart/internal"
	"sheetchart/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionCookie names the cookie carrying the session ID
const SessionCookie = "sheetchart_session"

const sessionKey = "sheetchart.session"

// EnsureSession attaches the caller's session to the request, issuing a new
// browser-session cookie when the caller has none or its session has expired
func EnsureSession(manager *session.Manager, logger *internal.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	sessionLog := logger.WithComponent("EnsureSession")
	return func(c *gin.Context) {
		id, _ := c.Cookie(SessionCookie)

		s, created := manager.GetOrCreate(id)
		if created {
			if id != "" {
				sessionLog.Debug("session %s unknown or expired, issued %s", id, s.ID())
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, s.ID(), 0, "/", "", false, true)
		}

		c.Set(sessionKey, s)
		c.Next()
	}
}

// SessionFrom returns the session attached by EnsureSession
func SessionFrom(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok
}
