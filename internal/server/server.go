// Package server exposes the formatter over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/sukalov/lyricsfmt/internal/config"
	"github.com/sukalov/lyricsfmt/internal/db"
	"github.com/sukalov/lyricsfmt/internal/formatter"
	"github.com/sukalov/lyricsfmt/internal/logger"
	"github.com/sukalov/lyricsfmt/internal/lyrics"
	"github.com/sukalov/lyricsfmt/internal/wordlist"
)

// maxBodySize caps request bodies.
const maxBodySize = 1 << 20

// History stores and looks up formatted texts.
type History interface {
	SaveRecord(ctx context.Context, rec db.Record) (db.Record, error)
	GetRecord(ctx context.Context, id string) (db.Record, error)
}

type Server struct {
	cfg      config.HTTP
	defaults formatter.Options

	lyrics   *lyrics.Service
	stoplist *wordlist.Cache
	history  History
	limiter  *rate.Limiter
}

type Option func(*Server)

func WithLyrics(svc *lyrics.Service) Option {
	return func(s *Server) { s.lyrics = svc }
}

func WithStoplist(c *wordlist.Cache) Option {
	return func(s *Server) { s.stoplist = c }
}

func WithHistory(h History) Option {
	return func(s *Server) { s.history = h }
}

func New(cfg config.HTTP, defaults formatter.Options, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		defaults: defaults,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.lyrics == nil {
		s.lyrics = lyrics.NewService(nil)
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit)
	}
	return s
}

func (s *Server) Attach(r chi.Router) {
	r.Get("/healthz", s.handleHealth)
	r.Get("/stages", s.handleStages)
	r.Get("/records/{id}", s.handleRecord)

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)

		r.Post("/format", s.handleFormat)
		r.Post("/check", s.handleCheck)
	})
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	s.Attach(r)
	return r
}

// ListenAndServe runs until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("http server listening on %s", s.cfg.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
