package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/thumbnailer/internal/config"
	"github.com/jonesrussell/north-cloud/thumbnailer/internal/logger"
)

// Server wraps the HTTP server with lifecycle management.
type Server struct {
	router *gin.Engine
	server *http.Server
	logger logger.Logger
	cfg    *config.Config
}

// NewServer creates the HTTP server with standard middleware applied
// and the service routes registered.
func NewServer(handler *Handler, cfg *config.Config, log logger.Logger) *Server {
	if cfg.Service.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggerMiddleware(log))

	SetupRoutes(router, handler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Service.Port),
		Handler:      router,
		ReadTimeout:  cfg.Service.ReadTimeout,
		WriteTimeout: cfg.Service.WriteTimeout,
		IdleTimeout:  cfg.Service.IdleTimeout,
	}

	return &Server{
		router: router,
		server: httpServer,
		logger: log,
		cfg:    cfg,
	}
}

// Router returns the underlying gin engine. Intended for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the server and blocks until a shutdown signal arrives or
// the server fails, then shuts down gracefully.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("Starting HTTP server",
			logger.String("address", s.server.Addr),
			logger.String("service", s.cfg.Service.Name),
			logger.String("version", s.cfg.Service.Version),
			logger.Duration("read_timeout", s.server.ReadTimeout),
			logger.Duration("write_timeout", s.server.WriteTimeout),
		)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGQUIT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		s.logger.Info("Shutdown signal received", logger.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Service.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.logger.Info("HTTP server stopped gracefully")
	return nil
}
