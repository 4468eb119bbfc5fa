package api

import (
	"fmt"
	"strings"

	"learnpath/internal/domain"
)

const (
	maxInterests      = 20
	maxInterestLen    = 200
	maxGoals          = 10
	maxGoalLen        = 300
	maxShortFieldLen  = 100
	maxCertGoals      = 5
	maxContextLen     = 500
	maxSearchTopics   = 10
	maxSearchTopicLen = 100
)

// validateProfile checks the generate request body and returns every problem
// found, not just the first.
func validateProfile(p domain.UserProfile) []string {
	var problems []string

	problems = append(problems, validateStringList("interests", p.Interests, 1, maxInterests, maxInterestLen)...)
	problems = append(problems, validateStringList("goals", p.Goals, 1, maxGoals, maxGoalLen)...)

	problems = append(problems, validateRequiredField("experience", p.Experience)...)
	problems = append(problems, validateRequiredField("timeCommitment", p.TimeCommitment)...)
	problems = append(problems, validateRequiredField("preferredLearningStyle", p.PreferredLearningStyle)...)

	if len(p.CurrentRole) > maxShortFieldLen {
		problems = append(problems, fmt.Sprintf("currentRole must be at most %d characters", maxShortFieldLen))
	}
	if len(p.IndustryFocus) > maxShortFieldLen {
		problems = append(problems, fmt.Sprintf("industryFocus must be at most %d characters", maxShortFieldLen))
	}
	if len(p.CertificationGoals) > maxCertGoals {
		problems = append(problems, fmt.Sprintf("certificationGoals must have at most %d items", maxCertGoals))
	}
	if len(p.AdditionalContext) > maxContextLen {
		problems = append(problems, fmt.Sprintf("additionalContext must be at most %d characters", maxContextLen))
	}

	return problems
}

func validateRequiredField(name, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return []string{name + " is required"}
	}
	if len(value) > maxShortFieldLen {
		return []string{fmt.Sprintf("%s must be at most %d characters", name, maxShortFieldLen)}
	}
	return nil
}

func validateStringList(name string, items []string, minItems, maxItems, maxLen int) []string {
	var problems []string
	if len(items) < minItems {
		return []string{name + " is required"}
	}
	if len(items) > maxItems {
		problems = append(problems, fmt.Sprintf("%s must have at most %d items", name, maxItems))
	}
	for i, item := range items {
		if strings.TrimSpace(item) == "" {
			problems = append(problems, fmt.Sprintf("%s[%d] must not be empty", name, i))
			continue
		}
		if len(item) > maxLen {
			problems = append(problems, fmt.Sprintf("%s[%d] must be at most %d characters", name, i, maxLen))
		}
	}
	return problems
}

// sourceCategories maps request source names, including the legacy "tv"
// alias, onto categories. "all" expands to every category.
var sourceCategories = map[string][]domain.Category{
	"documentation": {domain.CategoryDocumentation},
	"training":      {domain.CategoryTraining},
	"videos":        {domain.CategoryVideos},
	"tv":            {domain.CategoryVideos},
	"all":           domain.Categories,
}

// validateSearch checks the search request and resolves its sources to
// concrete categories, defaulting to all of them.
func validateSearch(req searchRequest) ([]domain.Category, []string) {
	problems := validateStringList("topics", req.Topics, 1, maxSearchTopics, maxSearchTopicLen)

	if len(req.Sources) == 0 {
		if len(problems) > 0 {
			return nil, problems
		}
		return domain.Categories, nil
	}

	seen := map[domain.Category]struct{}{}
	var categories []domain.Category
	for _, source := range req.Sources {
		mapped, ok := sourceCategories[strings.ToLower(strings.TrimSpace(source))]
		if !ok {
			problems = append(problems, fmt.Sprintf("sources: unknown source %q", source))
			continue
		}
		for _, c := range mapped {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			categories = append(categories, c)
		}
	}

	if len(problems) > 0 {
		return nil, problems
	}
	return categories, nil
}
