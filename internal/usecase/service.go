// Package usecase orchestrates the two application flows: multi-category
// content search and end-to-end learning path generation.
package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"learnpath/internal/aggregate"
	"learnpath/internal/domain"
	"learnpath/internal/generator"
	"learnpath/internal/metrics"
	"learnpath/internal/ports"
	"learnpath/internal/topics"
)

// PathGenerator produces a learning path from a profile and curated results.
type PathGenerator interface {
	Generate(ctx context.Context, profile domain.UserProfile, results domain.CategorizedResults) (domain.LearningPath, error)
}

// Deps collects the service's collaborators. Cache may be nil (disabled).
type Deps struct {
	Source    ports.ContentSource
	Generator PathGenerator
	Cache     ports.ResultCache
	Logger    *zap.Logger
	ModelName string
}

// Service implements the application use cases.
type Service struct {
	source    ports.ContentSource
	generator PathGenerator
	cache     ports.ResultCache
	logger    *zap.Logger
	modelName string
}

// NewService wires the use case layer.
func NewService(d Deps) *Service {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Service{
		source:    d.Source,
		generator: d.Generator,
		cache:     d.Cache,
		logger:    d.Logger,
		modelName: d.ModelName,
	}
}

// SearchContent fans out one goroutine per requested category and merges the
// outcomes. A failing category contributes an empty list; the call as a whole
// fails only on context cancellation.
func (s *Service) SearchContent(ctx context.Context, topicList []string, categories []domain.Category) (domain.CategorizedResults, error) {
	if len(categories) == 0 {
		categories = domain.Categories
	}

	byCategory := make(map[domain.Category][]domain.ContentResult, len(categories))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, category := range categories {
		wg.Add(1)
		go func(category domain.Category) {
			defer wg.Done()
			results := s.searchCategory(ctx, topicList, category)
			mu.Lock()
			byCategory[category] = results
			mu.Unlock()
		}(category)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return domain.CategorizedResults{}, err
	}

	out := domain.CategorizedResults{
		Documentation: byCategory[domain.CategoryDocumentation],
		Training:      byCategory[domain.CategoryTraining],
		Videos:        byCategory[domain.CategoryVideos],
	}
	out.All = aggregate.Merge(out.Documentation, out.Training, out.Videos)
	return out, nil
}

// searchCategory consults the cache, falls through to the live source, and
// degrades to an empty slice on failure.
func (s *Service) searchCategory(ctx context.Context, topicList []string, category domain.Category) []domain.ContentResult {
	key := cacheKey(topicList, category)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
			return cached
		}
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
	}

	results, err := s.source.Search(ctx, topicList, category)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(string(category), "error").Inc()
		s.logger.Warn("category search failed",
			zap.String("category", string(category)),
			zap.Strings("topics", topicList),
			zap.Error(err))
		return nil
	}

	metrics.SearchesTotal.WithLabelValues(string(category), "ok").Inc()
	metrics.SearchResults.WithLabelValues(string(category)).Observe(float64(len(results)))

	if s.cache != nil && len(results) > 0 {
		s.cache.Set(ctx, key, results)
	}
	return results
}

func cacheKey(topicList []string, category domain.Category) string {
	normalized := make([]string, 0, len(topicList))
	for _, t := range topicList {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(t)))
	}
	return string(category) + "|" + strings.Join(normalized, ",")
}

// GenerateLearningPath runs the full pipeline: topic extraction, search across
// every category, and model synthesis. Search failures degrade to fewer
// resources; only model unavailability propagates as an error.
func (s *Service) GenerateLearningPath(ctx context.Context, profile domain.UserProfile) (domain.LearningPath, domain.Metadata, error) {
	start := time.Now()

	extracted := topics.Extract(profileText(profile))
	s.logger.Info("extracted topics",
		zap.Strings("topics", extracted),
		zap.Strings("interests", profile.Interests))

	results, err := s.SearchContent(ctx, extracted, domain.Categories)
	if err != nil {
		return domain.LearningPath{}, domain.Metadata{}, err
	}

	path, err := s.generator.Generate(ctx, profile, results)
	if err != nil {
		if errors.Is(err, generator.ErrModelUnavailable) {
			metrics.GenerationsTotal.WithLabelValues("unavailable").Inc()
		}
		return domain.LearningPath{}, domain.Metadata{}, err
	}

	outcome := "generated"
	if path.ParseError != "" {
		outcome = "fallback"
	}
	metrics.GenerationsTotal.WithLabelValues(outcome).Inc()
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())

	meta := domain.Metadata{
		RequestID:       uuid.NewString(),
		GeneratedAt:     time.Now().UTC(),
		ExtractedTopics: extracted,
		TotalResources:  len(results.All),
		SearchSources:   categoryNames(domain.Categories),
		DurationMillis:  time.Since(start).Milliseconds(),
		Model:           s.modelName,
	}
	return path, meta, nil
}

func profileText(profile domain.UserProfile) string {
	parts := make([]string, 0, len(profile.Interests)+len(profile.Goals)+1)
	parts = append(parts, profile.Interests...)
	parts = append(parts, profile.Goals...)
	if profile.AdditionalContext != "" {
		parts = append(parts, profile.AdditionalContext)
	}
	return strings.Join(parts, " ")
}

func categoryNames(categories []domain.Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, string(c))
	}
	return names
}
