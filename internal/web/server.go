// Package web serves the local status/control API. Every mutation maps to
// the same engine operations as any other UI control.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Jamar-Mitchell/screen-blur-focus/internal/config"
)

type Server struct {
	config  *config.Config
	handler *Handler
	server  *http.Server
	log     zerolog.Logger
}

func NewServer(cfg *config.Config, engine Engine, log zerolog.Logger) *Server {
	handler := NewHandler(engine, log)
	mux := http.NewServeMux()
	handler.SetupRoutes(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		config:  cfg,
		handler: handler,
		server:  httpServer,
		log:     log,
	}
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("starting status server")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down status server")
	return s.server.Shutdown(ctx)
}

func (s *Server) GetAddress() string {
	return s.server.Addr
}
