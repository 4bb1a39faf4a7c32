package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/oggyb/swipe-core/internal/cache"
	"github.com/oggyb/swipe-core/internal/config"
)

const shutdownTimeout = 10 * time.Second

// Server bundles the gRPC server with its health service and the HTTP
// endpoint that serves probes and Prometheus metrics.
type Server struct {
	cfg    *config.Config
	log    *slog.Logger
	grpc   *grpc.Server
	health *health.Server
	http   *http.Server
	ready  atomic.Bool
}

// Options carries the optional collaborators of New.
type Options struct {
	// Limiter enables per-caller rate limiting when set.
	Limiter *cache.RateLimiter
	Now     func() time.Time
	// Gatherer backs /metrics; prometheus.DefaultGatherer when nil.
	Gatherer prometheus.Gatherer
}

// New builds the gRPC server and registers all provided services.
//
// Interceptor order: recover, metrics, logging, rate limit, admin auth.
func New(cfg *config.Config, log *slog.Logger, opts Options, registrars ...Registrar) *Server {
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	var adminMethods []string
	for _, r := range registrars {
		adminMethods = append(adminMethods, r.AdminMethods()...)
	}

	grpc_prometheus.EnableHandlingTimeHistogram()

	chain := []grpc.UnaryServerInterceptor{
		Recover(log),
		grpc_prometheus.UnaryServerInterceptor,
		Logging(log),
	}
	if opts.Limiter != nil {
		chain = append(chain, RateLimit(opts.Limiter, opts.Now, log))
	}
	chain = append(chain, AdminAuth(adminMethods, cfg.Admin.IDs, cfg.Admin.KeyHash))

	s := &Server{
		cfg:    cfg,
		log:    log,
		grpc:   grpc.NewServer(grpc.ChainUnaryInterceptor(chain...)),
		health: health.NewServer(),
	}
	healthpb.RegisterHealthServer(s.grpc, s.health)

	// register all services
	for _, r := range registrars {
		r.Register(s.grpc)
	}

	// enable reflection for easier debugging with grpcurl
	if cfg.App.ENV != "production" {
		reflection.Register(s.grpc)
	}
	grpc_prometheus.Register(s.grpc)

	s.http = &http.Server{
		Addr:              cfg.Metrics.Addr,
		Handler:           s.mux(opts.Gatherer),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// GRPC exposes the underlying server, mainly for tests.
func (s *Server) GRPC() *grpc.Server { return s.grpc }

// Handler returns the probe and metrics handler.
func (s *Server) Handler() http.Handler { return s.http.Handler }

func (s *Server) mux(g prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if s.ready.Load() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return mux
}

// Serve runs gRPC on lis until ctx is done, then stops gracefully.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	if s.cfg.Metrics.Addr != "" {
		go func() {
			s.log.Info("metrics listen", "addr", s.cfg.Metrics.Addr)
			if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.log.Error("metrics serve failed", "err", err)
			}
		}()
	}

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.ready.Store(true)

	errCh := make(chan error, 1)
	go func() {
		if err := s.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		s.log.Info("shutdown requested")
	case serveErr = <-errCh:
	}

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	s.ready.Store(false)
	s.shutdown()
	return serveErr
}

func (s *Server) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn("graceful stop timed out, forcing")
		s.grpc.Stop()
	}
	_ = s.http.Shutdown(ctx)
}

// StartGRPCServer listens on the configured address and serves until ctx
// is done.
func StartGRPCServer(ctx context.Context, s *Server) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.GRPC.Host, s.cfg.GRPC.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.log.Info("starting gRPC server", "addr", addr)
	return s.Serve(ctx, lis)
}
