// Package search scrapes DuckDuckGo's HTML endpoint for Red Hat educational
// content. Selector drift upstream breaks extraction silently, so result
// blocks are located through an ordered list of fallback strategies and every
// per-query failure degrades to zero results instead of failing the category.
package search

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"learnpath/internal/classify"
	"learnpath/internal/domain"
	"learnpath/internal/ports"
)

const (
	defaultBaseURL   = "https://html.duckduckgo.com/html/"
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

	defaultMinDelay = 500 * time.Millisecond
	defaultMaxDelay = 1500 * time.Millisecond
)

// blockSelectors locate result blocks; the first selector that yields matches
// wins, in this exact order.
var blockSelectors = []string{
	".result",
	".web-result",
	".results_links",
	".result__body",
}

// titleSelectors locate the title anchor inside a block, tried in order.
var titleSelectors = []string{
	".result__title a",
	".result__a",
	"h2 a",
}

const snippetSelector = ".result__snippet"

// sourceLabels tag results by the category that produced them.
var sourceLabels = map[domain.Category]string{
	domain.CategoryDocumentation: "Red Hat Docs",
	domain.CategoryTraining:      "Red Hat Training",
	domain.CategoryVideos:        "Red Hat Videos",
}

// Config holds the scraping knobs exposed through process configuration.
type Config struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	MaxResults int
	MinDelay   time.Duration
	MaxDelay   time.Duration
}

// DefaultConfig returns production scraping settings.
func DefaultConfig() Config {
	return Config{
		BaseURL:    defaultBaseURL,
		UserAgent:  defaultUserAgent,
		Timeout:    15 * time.Second,
		MaxResults: 10,
		MinDelay:   defaultMinDelay,
		MaxDelay:   defaultMaxDelay,
	}
}

// Client implements ports.ContentSource against DuckDuckGo.
type Client struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

var _ ports.ContentSource = (*Client)(nil)

// NewClient wires an HTTP client; nil uses a timeout-bound default.
func NewClient(cfg Config, client *http.Client, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 10
	}
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{cfg: cfg, client: client, logger: logger}
}

// Search runs every category query for the given topics and returns the
// deduplicated union. Per-query failures are logged and contribute nothing.
func (c *Client) Search(ctx context.Context, topicList []string, category domain.Category) ([]domain.ContentResult, error) {
	var collected []domain.ContentResult
	seen := map[string]struct{}{}

	for _, topic := range topicList {
		for _, query := range buildQueries(topic, category) {
			if err := c.politeDelay(ctx); err != nil {
				return collected, err
			}

			results, err := c.runQuery(ctx, query, category)
			if err != nil {
				if ctx.Err() != nil {
					return collected, ctx.Err()
				}
				c.logger.Warn("query failed",
					zap.String("query", query),
					zap.String("category", string(category)),
					zap.Error(err))
				continue
			}

			for _, r := range results {
				key := strings.ToLower(r.URL)
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				collected = append(collected, r)
			}
		}
	}

	return collected, nil
}

// buildQueries constructs the category-specific query strings for one topic.
func buildQueries(topic string, category domain.Category) []string {
	switch category {
	case domain.CategoryDocumentation:
		return []string{fmt.Sprintf(`"Red Hat" "%s" documentation`, topic)}
	case domain.CategoryTraining:
		return []string{
			fmt.Sprintf(`"Red Hat" %s training`, topic),
			fmt.Sprintf(`"Red Hat" %s certification`, topic),
		}
	case domain.CategoryVideos:
		return []string{fmt.Sprintf(`site:youtube.com "Red Hat" %s`, topic)}
	default:
		return nil
	}
}

func (c *Client) runQuery(ctx context.Context, query string, category domain.Category) ([]domain.ContentResult, error) {
	doc, err := c.fetchDocument(ctx, query)
	if err != nil {
		return nil, err
	}

	blocks := findBlocks(doc)
	var results []domain.ContentResult
	blocks.EachWithBreak(func(i int, block *goquery.Selection) bool {
		if len(results) >= c.cfg.MaxResults {
			return false
		}

		row, ok := c.extractRow(block)
		if !ok {
			return true
		}
		if !classify.IsRelated(row.title, row.url, row.description) {
			return true
		}

		results = append(results, domain.ContentResult{
			Title:       row.title,
			URL:         row.url,
			Description: row.description,
			Type:        classify.ClassifyType(row.url, row.title),
			Source:      sourceLabels[category],
			SearchQuery: query,
			Domain:      classify.ExtractDomain(row.url),
		})
		return true
	})

	return results, nil
}

func (c *Client) fetchDocument(ctx context.Context, query string) (*goquery.Document, error) {
	endpoint := c.cfg.BaseURL + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Referer", "https://duckduckgo.com/")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request results: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search engine returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

type row struct {
	title       string
	url         string
	description string
}

func findBlocks(doc *goquery.Document) *goquery.Selection {
	for _, sel := range blockSelectors {
		if blocks := doc.Find(sel); blocks.Length() > 0 {
			return blocks
		}
	}
	return doc.Find(blockSelectors[0])
}

// extractRow pulls title, url, and description out of one result block, each
// with its own fallback chain. Rows missing a title or a resolvable URL are
// rejected.
func (c *Client) extractRow(block *goquery.Selection) (row, bool) {
	var r row

	anchor := findAnchor(block)
	if anchor != nil {
		r.title = strings.TrimSpace(anchor.Text())
	}
	if r.title == "" {
		r.title = strings.TrimSpace(block.Find("a").First().Text())
	}

	href := ""
	if anchor != nil {
		href, _ = anchor.Attr("href")
	}
	if href == "" {
		href, _ = block.Find("a[href]").First().Attr("href")
	}

	resolved, ok := c.resolveHref(href)
	if !ok {
		return row{}, false
	}
	r.url = resolved

	r.description = strings.TrimSpace(block.Find(snippetSelector).First().Text())
	if r.description == "" {
		blockText := strings.TrimSpace(block.Text())
		r.description = strings.TrimSpace(strings.Replace(blockText, r.title, "", 1))
	}

	r.title = classify.CleanTitle(r.title)
	r.description = classify.CleanDescription(r.description)

	if r.title == "" || r.url == "" {
		return row{}, false
	}
	return r, true
}

func findAnchor(block *goquery.Selection) *goquery.Selection {
	for _, sel := range titleSelectors {
		if a := block.Find(sel).First(); a.Length() > 0 {
			return a
		}
	}
	return nil
}

// resolveHref unwraps DuckDuckGo redirect URLs (/l/?uddg=<target>) and
// resolves protocol-relative links against the engine's own origin. Rows
// whose redirect wrapper cannot be unwrapped are rejected.
func (c *Client) resolveHref(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}

	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	} else if strings.HasPrefix(href, "/") {
		base, err := url.Parse(c.cfg.BaseURL)
		if err != nil {
			return "", false
		}
		href = base.Scheme + "://" + base.Host + href
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	if strings.Contains(parsed.Path, "/l/") {
		target := parsed.Query().Get("uddg")
		if !strings.HasPrefix(target, "http") {
			return "", false
		}
		return target, true
	}

	if !strings.HasPrefix(href, "http") {
		return "", false
	}
	return href, true
}

// politeDelay waits a randomized interval before the next query to reduce
// upstream throttling. It honors request cancellation.
func (c *Client) politeDelay(ctx context.Context) error {
	if c.cfg.MaxDelay <= 0 {
		return ctx.Err()
	}
	delay := c.cfg.MinDelay
	if span := c.cfg.MaxDelay - c.cfg.MinDelay; span > 0 {
		delay += time.Duration(rand.Int63n(int64(span)))
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
