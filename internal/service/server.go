// Package service is the thin HTTP glue around the schema core: upload,
// generation, validation, and editing endpoints returning JSON envelopes.
package service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	xsd "github.com/SaeedKokash/xsd-editor-app"
)

// Config holds the HTTP service settings.
type Config struct {
	Addr           string
	MaxUploadBytes int64
	KnownQuirks    bool
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// DefaultConfig mirrors the limits of the original service (50MB uploads).
func DefaultConfig() Config {
	return Config{
		Addr:           ":5000",
		MaxUploadBytes: 50 << 20,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
	}
}

// Server serves the XSD editor API.
type Server struct {
	cfg   Config
	log   *slog.Logger
	cache *xsd.SchemaCache
}

// New creates a server. A nil logger falls back to slog.Default.
func New(cfg Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultConfig().Addr
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultConfig().MaxUploadBytes
	}
	return &Server{cfg: cfg, log: log, cache: xsd.NewSchemaCache()}
}

// Handler returns the routed API handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/xsd/upload", s.handleUpload)
	mux.HandleFunc("POST /api/xsd/debug", s.handleUpload)
	mux.HandleFunc("POST /api/xsd/generate", s.handleGenerate)
	mux.HandleFunc("POST /api/xsd/validate", s.handleValidateSchema)
	mux.HandleFunc("POST /api/xsd/update-element", s.handleUpdateElement)
	mux.HandleFunc("POST /api/xsd/validate-xml", s.handleValidateXML)
	return s.logRequests(mux)
}

// ListenAndServe runs the service until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info("xsd editor service listening", "addr", s.cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration", time.Since(start))
	})
}
