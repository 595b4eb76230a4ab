package types

import "time"

// ScoreBreakdown holds the seven weighted category scores produced by the
// ATS scoring service. The shape is fixed; every category is always present.
type ScoreBreakdown struct {
	KeywordOptimization float64 `json:"keyword_optimization"`
	FormatCompliance    float64 `json:"format_compliance"`
	ContentQuality      float64 `json:"content_quality"`
	SectionCompleteness float64 `json:"section_completeness"`
	ActionVerbs         float64 `json:"action_verbs"`
	Quantification      float64 `json:"quantification"`
	Length              float64 `json:"length"`
}

// Categories returns the breakdown as ordered name/value pairs for display.
func (b ScoreBreakdown) Categories() []ScoreCategory {
	return []ScoreCategory{
		{"keyword_optimization", b.KeywordOptimization},
		{"format_compliance", b.FormatCompliance},
		{"content_quality", b.ContentQuality},
		{"section_completeness", b.SectionCompleteness},
		{"action_verbs", b.ActionVerbs},
		{"quantification", b.Quantification},
		{"length", b.Length},
	}
}

// ScoreCategory is one named category score.
type ScoreCategory struct {
	Name  string
	Score float64
}

// CVScore is one versioned ATS scoring result. Scores are immutable once
// created; a new scoring call always produces a new record, and the
// document's LatestScore is a view onto the most recent one.
type CVScore struct {
	ID              string         `json:"id"`
	CVID            string         `json:"cv_id"`
	OverallScore    int            `json:"overall_score"`
	Breakdown       ScoreBreakdown `json:"breakdown"`
	Recommendations []string       `json:"recommendations"`
	TemplateID      string         `json:"template_id,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}
