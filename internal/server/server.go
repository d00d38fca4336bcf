package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"prismadash/internal"
	"prismadash/internal/pipeline"
)

// ReloadFunc produces fresh tables on demand.
type ReloadFunc func(ctx context.Context) (internal.Tables, error)

type Config struct {
	Addr        string
	Memo        *pipeline.Memo
	FlagColumns []string
	Reload      ReloadFunc
	Logger      *zap.Logger
}

// Server exposes the dashboard queries as a JSON API. The loaded dashboard is
// swapped atomically, so in-flight requests keep the tables they started with.
type Server struct {
	addr        string
	memo        *pipeline.Memo
	flagColumns []string
	reload      ReloadFunc
	logger      *zap.Logger
	current     atomic.Pointer[pipeline.Dashboard]
}

func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		addr:        cfg.Addr,
		memo:        cfg.Memo,
		flagColumns: cfg.FlagColumns,
		reload:      cfg.Reload,
		logger:      logger,
	}
}

// SetTables replaces the served data.
func (s *Server) SetTables(tables internal.Tables) {
	d := pipeline.NewDashboard(tables, pipeline.NewClassifier(s.memo), s.flagColumns)
	s.current.Store(d)
}

func (s *Server) Dashboard() *pipeline.Dashboard {
	return s.current.Load()
}

func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		s.requestLogger,
	)
	s.routes(r)
	return r
}

// Serve listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		s.logger.Info("starting api server", zap.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Debug("shutting down api server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("requestId", middleware.GetReqID(r.Context())),
		)
	})
}
