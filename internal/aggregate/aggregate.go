// Package aggregate merges, deduplicates, and ranks content results from all
// search categories.
package aggregate

import (
	"regexp"
	"sort"
	"strings"

	"learnpath/internal/classify"
	"learnpath/internal/domain"
)

const dedupeTitleLen = 50

var nonAlnumExpr = regexp.MustCompile(`[^a-z0-9 ]`)
var spaceExpr = regexp.MustCompile(`\s+`)

// typePriority orders content types within an official/non-official tier.
// Lower sorts first; unlisted types rank last.
var typePriority = map[domain.ContentType]int{
	domain.TypeVideo:         1,
	domain.TypeTraining:      2,
	domain.TypeDocumentation: 3,
	domain.TypeArticle:       4,
	domain.TypePDF:           5,
}

// Deduplicate keeps the first result per normalized-title+domain key,
// preserving first-seen order.
func Deduplicate(results []domain.ContentResult) []domain.ContentResult {
	seen := map[string]struct{}{}
	out := make([]domain.ContentResult, 0, len(results))
	for _, r := range results {
		key := dedupeKey(r)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Sort orders results stably: official-domain hits before everything else,
// then by content-type priority within each tier.
func Sort(results []domain.ContentResult) {
	sort.SliceStable(results, func(i, j int) bool {
		iOfficial := classify.IsOfficialDomain(results[i].Domain)
		jOfficial := classify.IsOfficialDomain(results[j].Domain)
		if iOfficial != jOfficial {
			return iOfficial
		}
		return priorityOf(results[i].Type) < priorityOf(results[j].Type)
	})
}

// Merge concatenates the category lists, deduplicates, and ranks the union.
func Merge(lists ...[]domain.ContentResult) []domain.ContentResult {
	var union []domain.ContentResult
	for _, list := range lists {
		union = append(union, list...)
	}
	merged := Deduplicate(union)
	Sort(merged)
	return merged
}

func dedupeKey(r domain.ContentResult) string {
	title := strings.ToLower(r.Title)
	title = nonAlnumExpr.ReplaceAllString(title, "")
	title = spaceExpr.ReplaceAllString(title, " ")
	title = strings.TrimSpace(title)
	if len(title) > dedupeTitleLen {
		title = title[:dedupeTitleLen]
	}
	return title + "|" + r.Domain
}

func priorityOf(t domain.ContentType) int {
	if p, ok := typePriority[t]; ok {
		return p
	}
	return 6
}
