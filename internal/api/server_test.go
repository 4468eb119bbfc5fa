package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnpath/internal/domain"
	"learnpath/internal/generator"
	"learnpath/internal/infrastructure/ollama"
)

type stubService struct {
	path        domain.LearningPath
	meta        domain.Metadata
	genErr      error
	results     domain.CategorizedResults
	searchErr   error
	gotProfile  domain.UserProfile
	gotTopics   []string
	gotSources  []domain.Category
	generateHit bool
}

func (s *stubService) GenerateLearningPath(_ context.Context, profile domain.UserProfile) (domain.LearningPath, domain.Metadata, error) {
	s.generateHit = true
	s.gotProfile = profile
	return s.path, s.meta, s.genErr
}

func (s *stubService) SearchContent(_ context.Context, topicList []string, categories []domain.Category) (domain.CategorizedResults, error) {
	s.gotTopics = topicList
	s.gotSources = categories
	return s.results, s.searchErr
}

type stubDiagnostics struct {
	health ollama.Health
	test   ollama.ConnectionTest
}

func (d *stubDiagnostics) CheckHealth(context.Context) ollama.Health { return d.health }

func (d *stubDiagnostics) TestConnection(context.Context) ollama.ConnectionTest { return d.test }

func (d *stubDiagnostics) ModelName() string { return "llama3.1" }

func newTestServer(svc *stubService, diag *stubDiagnostics) *httptest.Server {
	if diag == nil {
		diag = &stubDiagnostics{}
	}
	s := NewServer(svc, diag, Config{MaxResultsPerQuery: 10}, nil)
	return httptest.NewServer(s.Handler())
}

func validProfileBody() string {
	return `{
		"interests": ["openshift", "kubernetes"],
		"experience": "beginner",
		"goals": ["run production clusters"],
		"timeCommitment": "5 hours/week",
		"preferredLearningStyle": "hands-on"
	}`
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestGenerateLearningPathEndToEnd(t *testing.T) {
	t.Parallel()

	svc := &stubService{
		path: domain.LearningPath{
			Title:  "OpenShift Path",
			Phases: []domain.Phase{{Phase: 1, Title: "Fundamentals"}},
		},
		meta: domain.Metadata{
			RequestID:       "req-1",
			ExtractedTopics: []string{"openshift"},
			Model:           "llama3.1",
		},
	}
	server := newTestServer(svc, nil)
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/generate-learning-path", validProfileBody())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	path := body["learningPath"].(map[string]any)
	assert.Equal(t, "OpenShift Path", path["title"])
	assert.NotEmpty(t, path["phases"])

	meta := body["metadata"].(map[string]any)
	assert.Equal(t, []any{"openshift"}, meta["extractedTopics"])

	assert.Equal(t, []string{"openshift", "kubernetes"}, svc.gotProfile.Interests)
}

func TestGenerateValidationFailure(t *testing.T) {
	t.Parallel()

	svc := &stubService{}
	server := newTestServer(svc, nil)
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/generate-learning-path", `{"interests": []}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "validation failed", body["error"])
	details := body["details"].([]any)
	assert.Contains(t, details, "interests is required")
	assert.Contains(t, details, "experience is required")
	// Validation rejects before the service runs.
	assert.False(t, svc.generateHit)
}

func TestGenerateRejectsOversizedFields(t *testing.T) {
	t.Parallel()

	svc := &stubService{}
	server := newTestServer(svc, nil)
	defer server.Close()

	profile := map[string]any{
		"interests":              []string{strings.Repeat("a", 201)},
		"experience":             "beginner",
		"goals":                  []string{"learn"},
		"timeCommitment":         "1 hour/week",
		"preferredLearningStyle": "reading",
		"additionalContext":      strings.Repeat("b", 501),
	}
	raw, _ := json.Marshal(profile)

	resp := postJSON(t, server.URL+"/api/generate-learning-path", string(raw))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode(t, resp)
	details := body["details"].([]any)
	assert.Contains(t, details, "interests[0] must be at most 200 characters")
	assert.Contains(t, details, "additionalContext must be at most 500 characters")
}

func TestGenerateModelUnavailable(t *testing.T) {
	t.Parallel()

	svc := &stubService{genErr: generator.ErrModelUnavailable}
	server := newTestServer(svc, nil)
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/generate-learning-path", validProfileBody())
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestGenerateMalformedJSON(t *testing.T) {
	t.Parallel()

	server := newTestServer(&stubService{}, nil)
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/generate-learning-path", "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchContentEndpoint(t *testing.T) {
	t.Parallel()

	svc := &stubService{results: domain.CategorizedResults{
		Videos: []domain.ContentResult{{Title: "Intro", URL: "https://www.youtube.com/watch?v=x", Type: domain.TypeVideo}},
		All:    []domain.ContentResult{{Title: "Intro", URL: "https://www.youtube.com/watch?v=x", Type: domain.TypeVideo}},
	}}
	server := newTestServer(svc, nil)
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/search-content", `{"topics": ["openshift"], "sources": ["tv"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// "tv" is accepted as an alias for the videos category.
	assert.Equal(t, []domain.Category{domain.CategoryVideos}, svc.gotSources)

	body := decode(t, resp)
	results := body["results"].(map[string]any)
	assert.Len(t, results["videos"], 1)
	meta := body["metadata"].(map[string]any)
	assert.Equal(t, float64(1), meta["totalResults"])
	assert.Equal(t, []any{"videos"}, meta["sources"])
}

func TestSearchDefaultsToAllSources(t *testing.T) {
	t.Parallel()

	svc := &stubService{}
	server := newTestServer(svc, nil)
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/search-content", `{"topics": ["rhel"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.Categories, svc.gotSources)
}

func TestSearchRejectsUnknownSource(t *testing.T) {
	t.Parallel()

	server := newTestServer(&stubService{}, nil)
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/search-content", `{"topics": ["rhel"], "sources": ["podcasts"]}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode(t, resp)
	assert.Contains(t, body["details"].([]any)[0], "podcasts")
}

func TestSearchRejectsTooManyTopics(t *testing.T) {
	t.Parallel()

	server := newTestServer(&stubService{}, nil)
	defer server.Close()

	topics := make([]string, 11)
	for i := range topics {
		topics[i] = "t"
	}
	raw, _ := json.Marshal(map[string]any{"topics": topics})

	resp := postJSON(t, server.URL+"/api/search-content", string(raw))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatusEndpoint(t *testing.T) {
	t.Parallel()

	diag := &stubDiagnostics{health: ollama.Health{Available: true, ModelPresent: true, Model: "llama3.1"}}
	server := newTestServer(&stubService{}, diag)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "learnpath", body["service"])
	ollamaStatus := body["ollama"].(map[string]any)
	assert.Equal(t, true, ollamaStatus["available"])
}

func TestTestOllamaEndpointFailure(t *testing.T) {
	t.Parallel()

	diag := &stubDiagnostics{test: ollama.ConnectionTest{Error: "connection refused"}}
	server := newTestServer(&stubService{}, diag)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/test-ollama")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestTopicsEndpoint(t *testing.T) {
	t.Parallel()

	server := newTestServer(&stubService{}, nil)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/topics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	buckets := body["topics"].([]any)
	require.NotEmpty(t, buckets)
	first := buckets[0].(map[string]any)
	assert.Equal(t, "openshift", first["name"])
	assert.NotEmpty(t, first["keywords"])
}

func TestCapabilitiesEndpoint(t *testing.T) {
	t.Parallel()

	server := newTestServer(&stubService{}, nil)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/search-capabilities")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, []any{"documentation", "training", "videos"}, body["sources"])
	assert.Equal(t, float64(10), body["maxTopicsPerSearch"])
	assert.Equal(t, float64(10), body["maxResultsPerQuery"])
	assert.Equal(t, "llama3.1", body["model"])
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	server := newTestServer(&stubService{}, nil)
	defer server.Close()

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/api/generate-learning-path", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
