package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"flockwatch/internal/api/handlers/http/farmer"
	"flockwatch/internal/api/handlers/http/system"
	"flockwatch/internal/api/handlers/http/walker"
	"flockwatch/internal/config"
	"flockwatch/internal/middleware"
	"flockwatch/internal/service"
)

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

func NewServer(cfg *config.Config, logger *slog.Logger, svc *service.Service, health map[string]system.Pinger) *Server {
	farmerHandler := farmer.NewHandler(logger, svc.Resolver, svc.Reports)
	walkerHandler := walker.NewHandler(logger, svc.Reports)
	systemHandler := system.NewHandler(logger, health)

	r := InitRouter(cfg, farmerHandler, walkerHandler, systemHandler, logger)

	return &Server{
		logger: logger,
		router: r,
		cfg:    *cfg,
	}
}

func InitRouter(cfg *config.Config, farmerHandler *farmer.Handler, walkerHandler *walker.Handler, systemHandler *system.Handler, logger *slog.Logger) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)

	r.Route("/api/v1", func(api chi.Router) {
		// FARMER
		api.Group(func(fr chi.Router) {
			fr.Use(middleware.Limit(10, 20, 5*time.Minute, logger))

			fr.Post("/claims", farmerHandler.Claim)

			fr.Route("/reports", func(rr chi.Router) {
				rr.Get("/", farmerHandler.ListReports)
				rr.Get("/feed", farmerHandler.OpenFeed)
				rr.Get("/{id}", farmerHandler.GetReport)
			})
		})

		// INTAKE
		api.Route("/intake", func(ir chi.Router) {
			ir.Use(middleware.APIKeyMiddleware(cfg.APIKey))
			ir.Use(middleware.Limit(5, 10, 10*time.Minute, logger))
			ir.Post("/reports", walkerHandler.CreateReport)
		})

		// SYSTEM
		api.Get("/health", systemHandler.SystemHealth)
	})

	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Http.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Http.ReadTimeout,
		WriteTimeout: s.cfg.Http.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("Starting HTTP server",
			slog.String("addr", srv.Addr),
			slog.Duration("read_timeout", s.cfg.Http.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.Http.WriteTimeout),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
