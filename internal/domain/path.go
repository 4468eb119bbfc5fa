package domain

import "time"

// ResourceRef points a learning phase at one curated resource.
type ResourceRef struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// Phase is one ordered step of a learning path. Phase numbers are 1-based.
type Phase struct {
	Phase              int           `json:"phase"`
	Title              string        `json:"title"`
	Description        string        `json:"description"`
	EstimatedTime      string        `json:"estimatedTime"`
	Difficulty         string        `json:"difficulty"`
	Resources          []ResourceRef `json:"resources"`
	PracticeActivities []string      `json:"practiceActivities,omitempty"`
	AssessmentCriteria []string      `json:"assessmentCriteria,omitempty"`
}

// CertificationPath recommends an exam sequence for the path.
type CertificationPath struct {
	Recommended bool     `json:"recommended"`
	Sequence    []string `json:"sequence,omitempty"`
}

// LearningPath is the model-produced plan, constructed fresh per request and
// never persisted. RawResponse and ParseError are populated only when the
// model output could not be parsed and the fallback structure was substituted.
type LearningPath struct {
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	TotalEstimatedTime string            `json:"totalEstimatedTime"`
	DifficultyLevel    string            `json:"difficultyLevel"`
	Prerequisites      []string          `json:"prerequisites"`
	LearningObjectives []string          `json:"learningObjectives"`
	Phases             []Phase           `json:"phases"`
	CertificationPath  CertificationPath `json:"certificationPath"`
	NextSteps          []string          `json:"nextSteps"`
	RawResponse        string            `json:"rawResponse,omitempty"`
	ParseError         string            `json:"parseError,omitempty"`
}

// Metadata annotates a response with provenance for the frontend.
type Metadata struct {
	RequestID       string    `json:"requestId"`
	GeneratedAt     time.Time `json:"generatedAt"`
	ExtractedTopics []string  `json:"extractedTopics,omitempty"`
	TotalResources  int       `json:"totalResources"`
	SearchSources   []string  `json:"searchSources,omitempty"`
	DurationMillis  int64     `json:"durationMs"`
	Model           string    `json:"model,omitempty"`
}
