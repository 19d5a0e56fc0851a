package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/amaumene/gowatcharr/internal/api/handlers"
	"github.com/amaumene/gowatcharr/internal/api/middleware"
	"github.com/amaumene/gowatcharr/internal/config"
	"github.com/amaumene/gowatcharr/internal/controllers"
	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	server      *http.Server
	db          *models.Database
	coordinator *controllers.SyncCoordinator
	backupCtrl  *controllers.BackupController
	logger      *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, db *models.Database, coordinator *controllers.SyncCoordinator, backupCtrl *controllers.BackupController, logger *logrus.Logger) *Server {
	s := &Server{
		db:          db,
		coordinator: coordinator,
		backupCtrl:  backupCtrl,
		logger:      logger,
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux, cfg)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(mux, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux, cfg *config.Config) {
	// Health check
	healthHandler := handlers.NewHealthHandler(s.logger)
	mux.HandleFunc("/health", healthHandler.ServeHTTP)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// Status endpoint
	statusHandler := handlers.NewStatusHandler(s.db, s.logger)
	mux.HandleFunc("/status", statusHandler.ServeHTTP)

	// Dashboard timeline
	timelineHandler := handlers.NewTimelineHandler(s.db, s.logger)
	mux.HandleFunc("/api/timeline", timelineHandler.ServeHTTP)

	// Media server playback webhook
	webhookHandler := handlers.NewWebhookHandler(s.coordinator, s.logger)
	mux.HandleFunc("/api/webhook/playback", webhookHandler.ServeHTTP)

	// Backup and restore
	backupHandler := handlers.NewBackupHandler(s.backupCtrl, cfg.BackupFile, s.logger)
	mux.HandleFunc("/api/backup", backupHandler.Backup)
	mux.HandleFunc("/api/restore", backupHandler.Restore)
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
