// Package server wires the REST API, the embedded frontend and the
// operational endpoints into one HTTP server.
package server

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/vm75/nginx-manager/internal/api"
	"github.com/vm75/nginx-manager/internal/devproxy"
)

// Config controls where and how the server is exposed.
type Config struct {
	Port int
	// BasePath is the normalized deployment prefix ("" or "/segment").
	BasePath string
	// DevURL is the Vite dev server used when no frontend is embedded.
	DevURL string

	// Registry backs /metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
	// TracerProvider and MeterProvider instrument every request. The
	// global providers are used when nil.
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// Server is the HTTP server for nginx-manager.
type Server struct {
	apiServer  *api.Server
	frontendFS fs.FS // nil in dev mode
	cfg        Config
	logger     *slog.Logger
	metrics    *metrics
	handler    http.Handler
	httpServer *http.Server
}

// New creates a new Server. Pass frontendFS=nil to proxy the UI to the Vite
// dev server at cfg.DevURL.
func New(apiSrv *api.Server, frontendFS fs.FS, cfg Config, logger *slog.Logger) (*Server, error) {
	s := &Server{
		apiServer:  apiSrv,
		frontendFS: frontendFS,
		cfg:        cfg,
		logger:     logger,
	}
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	s.metrics = newMetrics(reg)

	spa, err := s.spaHandler()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(s.metrics.middleware)

	mount := func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		r.Handle("/metrics", s.metrics.handler())

		// API routes
		r.Route("/api", func(r chi.Router) {
			if s.devMode() {
				r.Use(cors.Handler(cors.Options{
					AllowedOrigins:   []string{cfg.DevURL},
					AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
					AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
					AllowCredentials: true,
					MaxAge:           300,
				}))
			}
			apiSrv.Mount(r)
		})

		// Static files + SPA fallback
		r.Handle("/*", spa)
	}

	if cfg.BasePath == "" {
		mount(r)
	} else {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, cfg.BasePath+"/", http.StatusFound)
		})
		r.Route(cfg.BasePath, mount)
	}

	otelOpts := []otelhttp.Option{
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	}
	if cfg.TracerProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithTracerProvider(cfg.TracerProvider))
	}
	if cfg.MeterProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithMeterProvider(cfg.MeterProvider))
	}
	s.handler = otelhttp.NewHandler(r, "nginx-manager", otelOpts...)
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the fully wrapped root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) devMode() bool {
	return s.frontendFS == nil
}

// Run starts the HTTP server and blocks until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	lc := &net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.httpServer.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down server")
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// requestLogger is a chi middleware that logs each incoming request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// spaHandler serves the embedded SPA, or proxies to the Vite dev server
// when frontendFS is nil.
func (s *Server) spaHandler() (http.Handler, error) {
	if s.devMode() {
		proxy, err := devproxy.Single(s.cfg.DevURL, false, s.logger)
		if err != nil {
			return nil, fmt.Errorf("dev proxy: %w", err)
		}
		return proxy, nil
	}
	return NewSPAHandler(s.frontendFS, s.cfg.BasePath)
}
