package ui

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"sheetchart/internal"
	"sheetchart/internal/config"
	"sheetchart/internal/session"

	"github.com/gin-gonic/gin"
)

// Server is the web front end: upload page, help page and the chart API
type Server struct {
	router    *gin.Engine
	config    *config.Config
	sessions  *session.Manager
	logger    *internal.Logger
	files     fs.FS
	templates *template.Template
	helpHTML  template.HTML
}

// NewServer creates a server. files must contain ui/templates and ui/static.
func NewServer(cfg *config.Config, sessions *session.Manager, files fs.FS, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	gin.SetMode(cfg.Server.GinMode)

	router := gin.Default()
	// sheet names may contain an encoded slash
	router.UseRawPath = true
	router.UnescapePathValues = true
	router.MaxMultipartMemory = 8 << 20

	s := &Server{
		router:   router,
		config:   cfg,
		sessions: sessions,
		logger:   logger.WithComponent("Server"),
		files:    files,
	}

	if err := s.loadTemplates(); err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	if err := s.loadHelp(); err != nil {
		return nil, fmt.Errorf("failed to render help page: %w", err)
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	pages := s.router.Group("/", s.sessionMiddleware())
	pages.GET("/", s.handleIndex)
	pages.GET("/help", s.handleHelp)

	api := s.router.Group("/api", s.sessionMiddleware())
	api.POST("/upload", s.handleUpload)
	api.GET("/sheets", s.handleSheets)
	api.GET("/sheets/:name/chart", s.handleChart)
	api.GET("/sheets/:name/table", s.handleTable)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
