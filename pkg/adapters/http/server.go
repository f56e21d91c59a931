package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/ops"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	// DefaultMaxBodyBytes bounds /operate request bodies.
	DefaultMaxBodyBytes = 1 << 20
	// DefaultMaxConcurrent bounds in-flight requests per service.
	DefaultMaxConcurrent = 64

	// unlistedOperation labels metrics for names outside the table.
	unlistedOperation = "unlisted"
)

// Service exposes one domain's operation table over HTTP.
type Service struct {
	domain        domain.Domain
	table         *ops.Table
	logger        *slog.Logger
	metrics       *Metrics
	maxBodyBytes  int64
	maxConcurrent int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the access and error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics shares a metrics set instead of creating a private one.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithMaxConcurrent overrides DefaultMaxConcurrent.
func WithMaxConcurrent(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxConcurrent = n
		}
	}
}

// NewService creates the service for table.
func NewService(table *ops.Table, opts ...Option) *Service {
	s := &Service{
		domain:        table.Domain(),
		table:         table,
		logger:        slog.Default(),
		maxBodyBytes:  DefaultMaxBodyBytes,
		maxConcurrent: DefaultMaxConcurrent,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	return s
}

// NewHandler creates the HTTP handler for one operation table.
func NewHandler(table *ops.Table, opts ...Option) http.Handler {
	return NewService(table, opts...).Routes()
}

// Routes builds the chi router.
func (s *Service) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.ThrottleBacklog(s.maxConcurrent, s.maxConcurrent*4, 30*time.Second))

	r.Post("/operate", s.Operate)
	r.Get("/health", s.Health)
	r.Get("/tools", s.Tools)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)
	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

// Operate handles the POST /operate request.
func (s *Service) Operate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.reject(w, r, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.reject(w, r, fmt.Sprintf("read request body: %v", err))
		return
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		s.reject(w, r, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if err := validateRequest(raw); err != nil {
		s.reject(w, r, fmt.Sprintf("invalid request: %v", err))
		return
	}

	var req domain.Request
	if err := json.Unmarshal(body, &req); err != nil {
		s.reject(w, r, fmt.Sprintf("invalid request: %v", err))
		return
	}
	req = domain.NewRequest(req.Operation, req.Args, req.Kwargs)

	label := req.Operation
	if !s.table.Has(label) {
		label = unlistedOperation
	}

	s.logger.Debug("Operate: executing", "domain", s.domain, "operation", req.Operation,
		"args", len(req.Args), "kwargs", len(req.Kwargs), "request_id", middleware.GetReqID(r.Context()))

	out, err := s.table.Execute(r.Context(), req)
	if err != nil {
		s.metrics.observe(string(s.domain), label, domain.StatusError, time.Since(start))
		s.logger.Warn("Operate: operation failed", "domain", s.domain, "operation", req.Operation,
			"kind", domain.KindOf(err), "error", err, "request_id", middleware.GetReqID(r.Context()))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	data, err := json.Marshal(domain.Success(req.Operation, out))
	if err != nil {
		s.metrics.observe(string(s.domain), label, domain.StatusError, time.Since(start))
		s.logger.Error("Operate: response encode failed", "operation", req.Operation, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not encode result"})
		return
	}
	s.metrics.observe(string(s.domain), label, domain.StatusSuccess, time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Service) reject(w http.ResponseWriter, r *http.Request, msg string) {
	s.logger.Warn("Operate: request rejected", "domain", s.domain, "reason", msg,
		"request_id", middleware.GetReqID(r.Context()))
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// Health handles the GET /health request.
func (s *Service) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": string(s.domain)})
}

// Tools handles the GET /tools request.
func (s *Service) Tools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]domain.Tool{"tools": s.table.Tools()})
}

func (s *Service) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"domain", s.domain,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
