package domain

import "time"

// Stage is the orchestrator state of a single turn.
type Stage string

const (
	StageExtracting   Stage = "extracting"
	StageRecommending Stage = "recommending"
	StageDone         Stage = "done"
	StageFailed       Stage = "failed"
)

// SearchStatus is reported independently of the recommendation stage.
type SearchStatus string

const (
	SearchSkipped        SearchStatus = "skipped"
	SearchSuccess        SearchStatus = "success"
	SearchSuccessNoItems SearchStatus = "success_no_items"
	SearchFailure        SearchStatus = "failure"
)

// Warning is a recoverable, partial-data event such as an unmatched category name.
type Warning struct {
	Source  string `json:"source"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Turn is one full user request cycle: extraction, search, recommendation.
type Turn struct {
	ID        string    `json:"id"`
	Request   string    `json:"request"`
	CreatedAt time.Time `json:"created_at"`

	Stage    Stage `json:"stage"`
	FailedAt Stage `json:"failed_at,omitempty"`

	Parameters   *ExtractedParameters `json:"parameters,omitempty"`
	SearchParams *SearchParams        `json:"search_params,omitempty"`
	Search       SearchStatus         `json:"search_status"`
	ItemsFound   int                  `json:"items_found"`

	// Recommendations is nil until the recommendation stage parsed a response.
	Recommendations []RecommendationEntry `json:"recommendations,omitempty"`
	Warnings        []Warning             `json:"warnings,omitempty"`

	ExtractionErr     error `json:"-"`
	SearchErr         error `json:"-"`
	RecommendationErr error `json:"-"`
}

func (t *Turn) Warn(w ...Warning) {
	t.Warnings = append(t.Warnings, w...)
}
