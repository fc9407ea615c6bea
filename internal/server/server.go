// Package server exposes the tour and the inquiry backend over HTTP and
// runs remote viewer sessions over websockets.
package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/config"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/inquiry"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/metrics"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/property"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/render"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/texture"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/tour"
)

// TourSource yields the tour new sessions should show.
type TourSource interface {
	Current() *tour.Tour
}

// Options wires the server to its collaborators.
type Options struct {
	Server    config.ServerConfig
	Viewer    config.ViewerConfig
	Tours     TourSource
	Backend   render.Backend
	Images    texture.Source
	Inquiries *inquiry.Service
	Property  property.Facts
	Metrics   *metrics.Collector
	Logger    *zap.Logger
}

type Server struct {
	opts           Options
	log            *zap.Logger
	metrics        *metrics.Collector
	limiter        *IPRateLimiter
	allowedOrigins map[string]bool
	allowedHosts   map[string]bool

	ctx      context.Context
	cancel   context.CancelFunc
	active   atomic.Int32
	sessions sync.WaitGroup

	mu     sync.Mutex // guards closed and sessions.Add
	closed bool
}

func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	s := &Server{
		opts:           opts,
		log:            opts.Logger,
		metrics:        opts.Metrics,
		limiter:        NewIPRateLimiter(opts.Server.InquiryRate, opts.Server.InquiryBurst),
		allowedOrigins: make(map[string]bool),
		allowedHosts:   make(map[string]bool),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	for _, origin := range opts.Server.AllowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		s.allowedOrigins[trimmed] = true
		if parsed, err := url.Parse(trimmed); err == nil && parsed.Host != "" {
			s.allowedHosts[parsed.Host] = true
		}
	}
	return s
}

// Handler returns the full route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/inquiries", s.api("/api/inquiries", s.handleInquiry))
	mux.Handle("/api/property", s.api("/api/property", s.handleProperty))
	mux.Handle("/api/tour", s.api("/api/tour", s.handleTour))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", s.metrics.Handler())
	mux.HandleFunc("/ws/tour", s.handleTourWS)
	return securityHeaders(mux)
}

// Run serves on addr until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		grace := s.opts.Server.ShutdownGrace
		if grace <= 0 {
			grace = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		s.log.Info("server shutting down")
		s.Close()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Close ends every viewer session and waits for them to unmount.
// Sessions arriving afterwards are refused.
func (s *Server) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
	s.sessions.Wait()
}

// enter registers a new session unless the server is closing.
func (s *Server) enter() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.sessions.Add(1)
	return true
}

// api wraps a JSON endpoint with CORS and request metrics.
func (s *Server) api(route string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		if origin := r.Header.Get("Origin"); origin != "" && s.originAllowed(r, origin) {
			rec.Header().Set("Access-Control-Allow-Origin", origin)
			rec.Header().Set("Vary", "Origin")
			rec.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			rec.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			rec.WriteHeader(http.StatusNoContent)
		} else {
			h(rec, r)
		}
		s.metrics.RecordRequest(route, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		next.ServeHTTP(w, r)
	})
}

// checkOrigin accepts same-host, loopback and configured origins.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return s.originAllowed(r, origin)
}

func (s *Server) originAllowed(r *http.Request, origin string) bool {
	if s.allowedOrigins[origin] {
		return true
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	if s.allowedHosts[parsed.Host] || parsed.Host == r.Host {
		return true
	}
	switch parsed.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}
