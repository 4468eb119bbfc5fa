// Package api exposes the REST surface: learning path generation, content
// search, and diagnostics.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"learnpath/internal/domain"
	"learnpath/internal/generator"
	"learnpath/internal/infrastructure/ollama"
	"learnpath/internal/metrics"
	"learnpath/internal/topics"
)

// PathService is the application layer the handlers delegate to.
type PathService interface {
	GenerateLearningPath(ctx context.Context, profile domain.UserProfile) (domain.LearningPath, domain.Metadata, error)
	SearchContent(ctx context.Context, topicList []string, categories []domain.Category) (domain.CategorizedResults, error)
}

// ModelDiagnostics covers the model-facing diagnostic endpoints.
type ModelDiagnostics interface {
	CheckHealth(ctx context.Context) ollama.Health
	TestConnection(ctx context.Context) ollama.ConnectionTest
	ModelName() string
}

// Config holds the handler-visible settings surfaced by the capabilities
// endpoint.
type Config struct {
	MaxResultsPerQuery int
}

// Server bundles the handlers and their collaborators.
type Server struct {
	service PathService
	model   ModelDiagnostics
	cfg     Config
	logger  *zap.Logger
	started time.Time
}

// NewServer wires the REST layer.
func NewServer(service PathService, model ModelDiagnostics, cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		service: service,
		model:   model,
		cfg:     cfg,
		logger:  logger,
		started: time.Now(),
	}
}

// Handler builds the routed handler with logging, CORS, and metrics
// middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/generate-learning-path", s.handleGenerate)
	mux.HandleFunc("POST /api/search-content", s.handleSearch)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/test-ollama", s.handleTestOllama)
	mux.HandleFunc("GET /api/topics", s.handleTopics)
	mux.HandleFunc("GET /api/search-capabilities", s.handleCapabilities)

	return s.withMiddleware(mux)
}

func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		metrics.RequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.status)).Inc()
		s.logger.Info("request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var profile domain.UserProfile
	if err := decodeBody(r, &profile); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if problems := validateProfile(profile); len(problems) > 0 {
		respondValidation(w, problems)
		return
	}

	path, meta, err := s.service.GenerateLearningPath(r.Context(), profile)
	if err != nil {
		if errors.Is(err, generator.ErrModelUnavailable) {
			respondError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		s.logger.Error("generation failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "learning path generation failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"learningPath": path,
		"metadata":     meta,
	})
}

type searchRequest struct {
	Topics  []string `json:"topics"`
	Sources []string `json:"sources"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	categories, problems := validateSearch(req)
	if len(problems) > 0 {
		respondValidation(w, problems)
		return
	}

	start := time.Now()
	results, err := s.service.SearchContent(r.Context(), req.Topics, categories)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "content search failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"results": results,
		"metadata": map[string]any{
			"requestId":    uuid.NewString(),
			"searchedAt":   time.Now().UTC(),
			"topics":       req.Topics,
			"sources":      categoryStrings(categories),
			"totalResults": len(results.All),
			"durationMs":   time.Since(start).Milliseconds(),
		},
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	health := s.model.CheckHealth(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{
		"service": "learnpath",
		"status":  "ok",
		"uptime":  time.Since(s.started).Round(time.Second).String(),
		"ollama":  health,
	})
}

func (s *Server) handleTestOllama(w http.ResponseWriter, r *http.Request) {
	result := s.model.TestConnection(r.Context())
	status := http.StatusOK
	if !result.Success {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, result)
}

func (s *Server) handleTopics(w http.ResponseWriter, _ *http.Request) {
	buckets := make([]map[string]any, 0, len(topics.Buckets))
	for _, b := range topics.Buckets {
		buckets = append(buckets, map[string]any{
			"name":     b.Name,
			"keywords": b.Keywords,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"topics": buckets})
}

func (s *Server) handleCapabilities(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"sources":            categoryStrings(domain.Categories),
		"sourceAliases":      map[string]string{"tv": string(domain.CategoryVideos)},
		"maxTopicsPerSearch": maxSearchTopics,
		"maxResultsPerQuery": s.cfg.MaxResultsPerQuery,
		"model":              s.model.ModelName(),
	})
}

func categoryStrings(categories []domain.Category) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, string(c))
	}
	return out
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondValidation(w http.ResponseWriter, problems []string) {
	respondJSON(w, http.StatusBadRequest, map[string]any{
		"error":   "validation failed",
		"details": problems,
	})
}
