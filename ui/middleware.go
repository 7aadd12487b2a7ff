package ui

import (
	"io/fs"
	"net/http"

	"sheetchart/ui/middleware"

	"github.com/gin-gonic/gin"
)

// setupMiddleware mounts the embedded static files
func (s *Server) setupMiddleware() {
	staticFS, err := fs.Sub(s.files, "ui/static")
	if err != nil {
		s.logger.Error("Error creating static filesystem: %v", err)
		return
	}
	s.logger.Debug("Serving static files from embedded FS at /static")
	s.router.StaticFS("/static", http.FS(staticFS))
}

func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return middleware.EnsureSession(s.sessions, s.logger)
}
