// Package generator turns a user profile plus curated search results into a
// structured learning path via the local language model. Generation never
// fails the request: unparsable model output degrades to a canned fallback
// path carrying the raw text and the parse error.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"learnpath/internal/domain"
	"learnpath/internal/ports"
)

// ErrModelUnavailable signals that the model endpoint is unreachable or the
// configured model is not installed. The API layer maps it to 503.
var ErrModelUnavailable = errors.New("language model unavailable")

const fallbackTitle = "Custom Red Hat Learning Path"

const systemPrompt = `You are a Red Hat learning advisor. Build a personalized, multi-phase learning path from the user's profile and ONLY the resources listed below.

Curation rules:
- Prefer official Red Hat resources (docs.redhat.com, redhat.com, training) over third-party content.
- Order phases from fundamentals to advanced topics.
- Match the total workload to the user's stated time commitment.
- Recommend certifications only when they fit the user's goals.
- Do not invent resources; reference only the ones provided.

Respond with a single JSON object, no surrounding prose, in exactly this shape:
{
  "title": "...",
  "description": "...",
  "totalEstimatedTime": "...",
  "difficultyLevel": "...",
  "prerequisites": ["..."],
  "learningObjectives": ["..."],
  "phases": [
    {
      "phase": 1,
      "title": "...",
      "description": "...",
      "estimatedTime": "...",
      "difficulty": "...",
      "resources": [{"title": "...", "url": "...", "type": "...", "description": "..."}],
      "practiceActivities": ["..."],
      "assessmentCriteria": ["..."]
    }
  ],
  "certificationPath": {"recommended": true, "sequence": ["..."]},
  "nextSteps": ["..."]
}`

// generateOptions lean deterministic while leaving room for varied phrasing.
var generateOptions = ports.GenerateOptions{
	Temperature: 0.7,
	TopP:        0.9,
	MaxTokens:   4000,
}

// Generator orchestrates prompting, parsing, and fallback substitution.
type Generator struct {
	model  ports.ModelClient
	logger *zap.Logger
}

// New wires the model client.
func New(model ports.ModelClient, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{model: model, logger: logger}
}

// Generate builds the learning path for one request. It fails fast with
// ErrModelUnavailable when the endpoint or the configured model is missing;
// after a passing health check every downstream failure degrades to the
// fallback path instead of an error.
func (g *Generator) Generate(ctx context.Context, profile domain.UserProfile, results domain.CategorizedResults) (domain.LearningPath, error) {
	if err := g.checkModel(ctx); err != nil {
		return domain.LearningPath{}, err
	}

	prompt := systemPrompt + "\n\n" + buildUserPrompt(profile, results)

	raw, err := g.model.Generate(ctx, prompt, generateOptions)
	if err != nil {
		g.logger.Warn("model invocation failed, substituting fallback path", zap.Error(err))
		return fallbackPath(profile, "", err.Error()), nil
	}

	path, err := parsePath(raw)
	if err != nil {
		g.logger.Warn("model output unparsable, substituting fallback path", zap.Error(err))
		return fallbackPath(profile, raw, err.Error()), nil
	}

	return path, nil
}

func (g *Generator) checkModel(ctx context.Context) error {
	models, err := g.model.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	want := g.model.ModelName()
	for _, name := range models {
		if name == want || strings.HasPrefix(name, want+":") {
			return nil
		}
	}
	return fmt.Errorf("%w: model %q is not installed (found: %s)", ErrModelUnavailable, want, strings.Join(models, ", "))
}

// buildUserPrompt serializes the profile and enumerates every available
// resource grouped by category.
func buildUserPrompt(profile domain.UserProfile, results domain.CategorizedResults) string {
	var b strings.Builder

	b.WriteString("User profile:\n")
	fmt.Fprintf(&b, "- Interests: %s\n", strings.Join(profile.Interests, ", "))
	fmt.Fprintf(&b, "- Experience level: %s\n", profile.Experience)
	fmt.Fprintf(&b, "- Goals: %s\n", strings.Join(profile.Goals, "; "))
	fmt.Fprintf(&b, "- Time commitment: %s\n", profile.TimeCommitment)
	fmt.Fprintf(&b, "- Preferred learning style: %s\n", profile.PreferredLearningStyle)
	if profile.CurrentRole != "" {
		fmt.Fprintf(&b, "- Current role: %s\n", profile.CurrentRole)
	}
	if profile.IndustryFocus != "" {
		fmt.Fprintf(&b, "- Industry focus: %s\n", profile.IndustryFocus)
	}
	if len(profile.CertificationGoals) > 0 {
		fmt.Fprintf(&b, "- Certification goals: %s\n", strings.Join(profile.CertificationGoals, ", "))
	}
	if profile.AdditionalContext != "" {
		fmt.Fprintf(&b, "- Additional context: %s\n", profile.AdditionalContext)
	}

	writeGroup(&b, "Documentation", results.Documentation)
	writeGroup(&b, "Training", results.Training)
	writeGroup(&b, "Videos", results.Videos)

	return b.String()
}

func writeGroup(b *strings.Builder, label string, results []domain.ContentResult) {
	if len(results) == 0 {
		return
	}
	fmt.Fprintf(b, "\nAvailable %s resources:\n", label)
	for _, r := range results {
		fmt.Fprintf(b, "- %s (%s)", r.Title, r.URL)
		if r.Description != "" {
			fmt.Fprintf(b, ": %s", r.Description)
		}
		b.WriteString("\n")
	}
}

// parsePath recovers a LearningPath from free-text model output: the first
// top-level {...} block is extracted via greedy brace matching, parsed
// strictly, and accepted only when title and phases are present.
func parsePath(raw string) (domain.LearningPath, error) {
	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first < 0 || last <= first {
		return domain.LearningPath{}, errors.New("no JSON object in model output")
	}

	var path domain.LearningPath
	if err := json.Unmarshal([]byte(raw[first:last+1]), &path); err != nil {
		return domain.LearningPath{}, fmt.Errorf("parse model output: %w", err)
	}

	if path.Title == "" || len(path.Phases) == 0 {
		return domain.LearningPath{}, errors.New("model output missing title or phases")
	}
	return path, nil
}

// fallbackPath is the deterministic structure substituted when live
// generation fails; the request still succeeds with degraded content.
func fallbackPath(profile domain.UserProfile, raw, parseErr string) domain.LearningPath {
	difficulty := profile.Experience
	if difficulty == "" {
		difficulty = "beginner"
	}

	return domain.LearningPath{
		Title:              fallbackTitle,
		Description:        "A starting structure for your Red Hat learning journey. Generated content was unavailable, so begin with the foundation phase below.",
		TotalEstimatedTime: "4-8 weeks",
		DifficultyLevel:    difficulty,
		Prerequisites:      []string{"Basic familiarity with Linux command line"},
		LearningObjectives: []string{
			"Build a foundation in Red Hat technologies",
			"Identify the certification track that matches your goals",
		},
		Phases: []domain.Phase{
			{
				Phase:         1,
				Title:         "Foundation",
				Description:   "Start with Red Hat Enterprise Linux fundamentals and explore the official documentation for your areas of interest.",
				EstimatedTime: "2-4 weeks",
				Difficulty:    "beginner",
				Resources:     []domain.ResourceRef{},
				PracticeActivities: []string{
					"Install a RHEL-compatible distribution in a virtual machine",
					"Work through basic system administration tasks",
				},
				AssessmentCriteria: []string{
					"Comfortable navigating and administering a Linux system",
				},
			},
		},
		CertificationPath: domain.CertificationPath{
			Recommended: true,
			Sequence:    []string{"RHCSA"},
		},
		NextSteps: []string{
			"Review the Red Hat certification catalog",
			"Retry path generation once the language model is healthy",
		},
		RawResponse: raw,
		ParseError:  parseErr,
	}
}
