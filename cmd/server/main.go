package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitly/internal/auth"
	"github.com/mmynk/splitly/internal/config"
	"github.com/mmynk/splitly/internal/ledger"
	"github.com/mmynk/splitly/internal/metrics"
	"github.com/mmynk/splitly/internal/middleware"
	"github.com/mmynk/splitly/internal/service"
	"github.com/mmynk/splitly/internal/storage/sqlite"
	"github.com/mmynk/splitly/pkg/api/apiconnect"
	"github.com/mmynk/splitly/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		logging.Setup("info", logging.FormatText)
		return err
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	opts := []service.Option{
		service.WithCache(ledger.NewCache(cfg.Ledger.CacheSize)),
		service.WithMetrics(m),
	}
	interceptors := []connect.Interceptor{
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(m),
	}
	if cfg.Auth.Enabled() {
		tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)
		opts = append(opts, service.WithTokens(tokens))
		interceptors = append(interceptors, middleware.RequireGroupToken(tokens, apiconnect.GroupServiceCreateGroupProcedure))
		slog.Info("Group tokens required", "token_ttl", cfg.Auth.TokenTTL)
	} else {
		slog.Warn("AUTH_SECRET not set, group tokens are disabled")
	}

	mux := http.NewServeMux()

	// Register Connect services
	groupPath, groupHandler := apiconnect.NewGroupServiceHandler(
		service.NewGroupService(store, opts...),
		connect.WithInterceptors(interceptors...),
	)
	mux.Handle(groupPath, groupHandler)

	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Add logging and CORS middleware
	handler := loggingMiddleware(corsMiddleware(cfg.Server.CORSOrigin, mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
