// Package server düzenleme oturumlarını HTTP üzerinden yöneten yerel API'yi içerir.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/mlihgenel/videocut-cli/internal/export"
	"github.com/mlihgenel/videocut-cli/internal/transcribe"
)

// DurationProber medya süresini ölçer (media.Prober).
type DurationProber interface {
	Duration(ctx context.Context, input string) (float64, error)
}

// FrameRateProber EDL zaman kodları için kare hızını ölçer.
type FrameRateProber interface {
	FrameRate(ctx context.Context, input string) (float64, error)
}

// PCMExtractor medyanın ses izini tanıyıcıya uygun örneklere çevirir.
type PCMExtractor func(ctx context.Context, input string) ([]float32, error)

type Config struct {
	Addr        string
	Logger      *slog.Logger
	Store       *Store
	Prober      DurationProber
	Transcoder  export.Transcoder
	Transcriber transcribe.Transcriber
	ExtractPCM  PCMExtractor
	OutputDir   string
	OnConflict  string
	Version     string
	StartTime   time.Time
	Now         func() time.Time
}

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	api        *api
}

func NewServer(cfg Config) *Server {
	a := newAPI(cfg)
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      a.routes(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		logger: a.logger,
		api:    a,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown yeni istekleri durdurur, arka plandaki işleri iptal eder ve bitmelerini bekler.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	err := s.httpServer.Shutdown(ctx)
	s.api.cancel()
	done := make(chan struct{})
	go func() {
		s.api.jobs.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
	return err
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// api handler'ların paylaştığı durumu tutar.
type api struct {
	cfg    Config
	store  *Store
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	jobs   sync.WaitGroup
}

func newAPI(cfg Config) *api {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Store == nil {
		cfg.Store = NewStore()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.StartTime.IsZero() {
		cfg.StartTime = cfg.Now()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &api{
		cfg:    cfg,
		store:  cfg.Store,
		logger: cfg.Logger.With("component", "server"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// background işi sunucu ömrüne bağlı bir context ile çalıştırır.
func (a *api) background(fn func(ctx context.Context)) {
	a.jobs.Add(1)
	go func() {
		defer a.jobs.Done()
		fn(a.ctx)
	}()
}
