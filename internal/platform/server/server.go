package server

import (
	"net/http"
	"time"

	"art-gallery/internal/config"
)

// New builds the HTTP server with the configured timeouts.
func New(cfg *config.Config, handler http.Handler) *http.Server {
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if cfg.Server != nil {
		srv.ReadTimeout = cfg.Server.ReadTimeout
		srv.WriteTimeout = cfg.Server.WriteTimeout
		srv.IdleTimeout = cfg.Server.IdleTimeout
	}

	return srv
}
