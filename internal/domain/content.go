package domain

// ContentType labels the kind of educational resource a result points at.
type ContentType string

const (
	TypeVideo         ContentType = "video"
	TypeDocumentation ContentType = "documentation"
	TypeTraining      ContentType = "training"
	TypeArticle       ContentType = "article"
	TypePDF           ContentType = "pdf"
	TypeUnknown       ContentType = "unknown"
)

// Category identifies one of the three content sources searched.
type Category string

const (
	CategoryDocumentation Category = "documentation"
	CategoryTraining      Category = "training"
	CategoryVideos        Category = "videos"
)

// Categories lists every searchable category in fixed order.
var Categories = []Category{CategoryDocumentation, CategoryTraining, CategoryVideos}

// ContentResult is one discovered resource. Results without a title or URL
// are never retained.
type ContentResult struct {
	Title       string      `json:"title"`
	URL         string      `json:"url"`
	Description string      `json:"description"`
	Type        ContentType `json:"type"`
	Source      string      `json:"source"`
	SearchQuery string      `json:"searchQuery"`
	Domain      string      `json:"domain"`
}

// CategorizedResults groups the outcome of a multi-category search. All holds
// the deduplicated, ranked union of the three category lists.
type CategorizedResults struct {
	Documentation []ContentResult `json:"documentation"`
	Training      []ContentResult `json:"training"`
	Videos        []ContentResult `json:"videos"`
	All           []ContentResult `json:"all"`
}

// UserProfile carries the learning-interest profile for one request. It is
// validated at the API edge and immutable afterwards.
type UserProfile struct {
	Interests              []string `json:"interests"`
	Experience             string   `json:"experience"`
	Goals                  []string `json:"goals"`
	TimeCommitment         string   `json:"timeCommitment"`
	PreferredLearningStyle string   `json:"preferredLearningStyle"`
	CurrentRole            string   `json:"currentRole,omitempty"`
	IndustryFocus          string   `json:"industryFocus,omitempty"`
	CertificationGoals     []string `json:"certificationGoals,omitempty"`
	AdditionalContext      string   `json:"additionalContext,omitempty"`
}
