package ui

import (
	"net/http"

	apperrors "sheetchart/internal/errors"
	"sheetchart/internal/session"
	"sheetchart/ui/middleware"

	"github.com/gin-gonic/gin"
)

// respondError writes err as JSON with the status its code maps to
func (s *Server) respondError(c *gin.Context, err error) {
	code := apperrors.GetCode(err)
	status := apperrors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		s.logger.Debug("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  code,
	})
}

// mustSession aborts with 500 when the session middleware did not run
func (s *Server) mustSession(c *gin.Context) *session.Session {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		s.respondError(c, apperrors.InternalError("session not available"))
		c.Abort()
		return nil
	}
	return sess
}
