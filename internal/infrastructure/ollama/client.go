// Package ollama implements ports.ModelClient against a locally hosted
// Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"learnpath/internal/ports"
)

// Config defines how to contact the Ollama API.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// DefaultConfig targets a local Ollama install.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:11434",
		Model:   "llama3.1",
		Timeout: 120 * time.Second,
	}
}

// Client is a reusable Ollama HTTP client.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

var _ ports.ModelClient = (*Client)(nil)

// NewClient builds a client from configuration; nil http.Client gets a
// timeout-bound default.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: httpClient,
	}
}

// ModelName reports the configured model identifier.
func (c *Client) ModelName() string {
	return c.model
}

// Generate submits a prompt in non-streaming mode and returns the raw
// completion text.
func (c *Client) Generate(ctx context.Context, prompt string, opts ports.GenerateOptions) (string, error) {
	payload := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": opts.Temperature,
			"top_p":       opts.TopP,
			"num_predict": opts.MaxTokens,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal generate payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("ollama error %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var decoded struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}

	return decoded.Response, nil
}

// ListModels returns the names of installed models via /api/tags.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama error %s", resp.Status)
	}

	var decoded struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode tags response: %w", err)
	}

	names := make([]string, 0, len(decoded.Models))
	for _, m := range decoded.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Health reports endpoint reachability and whether the configured model is
// installed.
type Health struct {
	Available    bool     `json:"available"`
	ModelPresent bool     `json:"modelPresent"`
	Model        string   `json:"model"`
	Models       []string `json:"installedModels,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// CheckHealth lists installed models and matches the configured model name.
// Model names may carry a tag suffix (e.g. "llama3.1:latest"), so a bare
// configured name matches its tagged variants.
func (c *Client) CheckHealth(ctx context.Context) Health {
	models, err := c.ListModels(ctx)
	if err != nil {
		return Health{Model: c.model, Error: err.Error()}
	}

	h := Health{Available: true, Model: c.model, Models: models}
	for _, name := range models {
		if name == c.model || strings.HasPrefix(name, c.model+":") {
			h.ModelPresent = true
			break
		}
	}
	return h
}

// ConnectionTest reports the outcome of a trivial round trip.
type ConnectionTest struct {
	Success  bool   `json:"success"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// TestConnection issues a short greeting prompt at low temperature and
// returns the raw reply.
func (c *Client) TestConnection(ctx context.Context) ConnectionTest {
	reply, err := c.Generate(ctx, "Hello! Please respond with a short greeting.", ports.GenerateOptions{
		Temperature: 0.1,
		TopP:        0.9,
		MaxTokens:   50,
	})
	if err != nil {
		return ConnectionTest{Error: err.Error()}
	}
	return ConnectionTest{Success: true, Response: reply}
}
