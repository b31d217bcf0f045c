package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edge-tickets/internal/apikey"
	"edge-tickets/internal/attendee"
	"edge-tickets/internal/config"
	"edge-tickets/internal/db"
	"edge-tickets/internal/logger"
	"edge-tickets/internal/middleware"
	"edge-tickets/internal/tracing"
	"edge-tickets/internal/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const serviceName = "edge-tickets"

var (
	initDBFunc      = db.NewDatabase
	startServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, serviceName, cfg.OtelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	database, err := initDBFunc(cfg)
	if err != nil {
		return err
	}
	defer database.Close()
	log.Info("Database connection established")

	router, err := newServer(cfg, database)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		errCh <- startServerFunc(srv)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newServer wires the ticket lookup stack on top of an open database.
func newServer(cfg *config.Config, database *sql.DB) (http.Handler, error) {
	keys, err := apikey.NewKeySet(cfg.APIKeys, cfg.APIKeyHashes)
	if err != nil {
		return nil, err
	}

	attendeeRepo := attendee.NewRepository(database)
	attendeeSvc := attendee.NewService(attendeeRepo)
	attendeeHandler := attendee.NewHandler(attendeeSvc)

	return setupRouter(attendeeHandler.GetTickets, middleware.APIKeyMiddleware(keys), database.PingContext), nil
}

func setupRouter(
	ticketsHandler http.HandlerFunc,
	auth func(http.Handler) http.Handler,
	ping func(context.Context) error,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(logger.RequestIDMiddleware)
	r.Use(tracing.Middleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := ping(ctx); err != nil {
			logger.FromCtx(r.Context()).Warn("readiness check failed", zap.Error(err))
			utils.WriteJSONError(w, http.StatusServiceUnavailable, "db_unavailable", "database unavailable")
			return
		}
		_ = utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	r.Route("/attendees", func(r chi.Router) {
		r.Use(auth)
		r.Get("/tickets", ticketsHandler)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSONError(w, http.StatusNotFound, "not_found", "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	return r
}
