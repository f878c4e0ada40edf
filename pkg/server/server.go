// Package server provides the public entry point for initializing the
// dataflow demo dashboard: a small HTTP surface over the scenario catalog
// in internal/demo, wired with the same telemetry/config/chi-router
// composition the control plane this engine is descended from uses for
// its own composition root.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/pts-dfcompu/dfcompu/internal/api"
	"github.com/pts-dfcompu/dfcompu/internal/api/handlers"
	"github.com/pts-dfcompu/dfcompu/internal/config"
	"github.com/pts-dfcompu/dfcompu/internal/demo"
	"github.com/pts-dfcompu/dfcompu/internal/telemetry"
)

// Config is the public configuration for the dashboard server.
type Config struct {
	Port         int
	Version      string
	OTELEnabled  bool
	OTELEndpoint string
	ServiceName  string
}

// Server holds the initialized dashboard.
type Server struct {
	// Handler is the HTTP handler with all routes and middleware.
	Handler http.Handler

	// Catalog is the scenario catalog served by Handler.
	Catalog *demo.Catalog

	// Config is the server configuration.
	Config *Config

	// Port is the port the server should listen on.
	Port int

	// ShutdownFunc should be called on graceful shutdown to flush telemetry.
	ShutdownFunc func(context.Context) error
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	cfg := config.Load()
	return &Config{
		Port:         cfg.Port,
		Version:      cfg.Version,
		OTELEnabled:  cfg.Telemetry.Enabled,
		OTELEndpoint: cfg.Telemetry.OTLPEndpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
	}
}

// New initializes the dashboard with configuration read from the
// environment.
func New(ctx context.Context) (*Server, error) {
	return NewWithConfig(ctx, LoadConfig())
}

// NewWithConfig initializes the dashboard from the environment
// configuration, with pubCfg.Port overriding the port when it is positive.
// pubCfg's other fields are not applied; pubCfg is kept as Server.Config.
func NewWithConfig(ctx context.Context, pubCfg *Config) (*Server, error) {
	cfg := config.Load()
	if pubCfg.Port > 0 {
		cfg.Port = pubCfg.Port
	}

	shutdown, err := telemetry.Init(cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	catalog := demo.NewCatalog()
	log.Info().Int("scenarios", len(catalog.List())).Msg("✅ Scenario catalog loaded")

	h := handlers.New(catalog)
	router := api.NewRouter(cfg, h)

	return &Server{
		Handler:      router,
		Catalog:      catalog,
		Config:       pubCfg,
		Port:         cfg.Port,
		ShutdownFunc: shutdown,
	}, nil
}

// Shutdown flushes telemetry. Should be called on graceful shutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.ShutdownFunc != nil {
		return s.ShutdownFunc(ctx)
	}
	return nil
}
