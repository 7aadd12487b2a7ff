package container

import (
	"context"
	"fmt"

	"sheetchart/adapters/excel"
	"sheetchart/internal"
	"sheetchart/internal/config"
	"sheetchart/internal/ingest"
	"sheetchart/internal/normalize"
	"sheetchart/internal/session"
	"sheetchart/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Ingestion
	Decoder    ports.DecoderPort
	Normalizer *normalize.Normalizer
	Pipeline   *ingest.Pipeline

	// Sessions is nil until InitSessions is called
	Sessions *session.Manager
}

// New creates a container with the ingestion components wired from cfg
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))
	decoder := excel.NewDecoder(excel.DefaultDecoderConfig(), logger)
	normalizer := normalize.NewNormalizer(cfg.Normalize.DateSerial)

	return &Container{
		Config:     cfg,
		Logger:     logger,
		Decoder:    decoder,
		Normalizer: normalizer,
		Pipeline:   ingest.NewPipeline(decoder, normalizer, cfg.Extract.Workers, logger),
	}, nil
}

// InitSessions starts the session manager and its expiry janitor
func (c *Container) InitSessions() *session.Manager {
	if c.Sessions == nil {
		c.Sessions = session.NewManager(c.Pipeline, c.Config.Session.TTL, c.Config.Session.SweepInterval, c.Logger)
		c.Logger.WithComponent("Container").Info("session manager started (ttl %s, sweep every %s)",
			c.Config.Session.TTL, c.Config.Session.SweepInterval)
	}
	return c.Sessions
}

// Shutdown releases background resources
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Sessions != nil {
		c.Sessions.Close()
	}
	return ctx.Err()
}
