package domain

// Question is one assessment item inside a Domain. Questions carry no
// numeric ID; the literal text doubles as the mapping key, so it must be
// unique within its Domain.
type Question struct {
	Text string `json:"text"`
}

// Criterion is non-scored reference content for a Domain. Guidance fields
// are optional; an absent field must not be rendered by consumers.
type Criterion struct {
	Text                     string `json:"text"`
	AssessmentFocus          string `json:"assessmentFocus,omitempty"`
	ReferenceLevel           *int   `json:"referenceLevel,omitempty"`
	FormalStatement          string `json:"formalStatement,omitempty"`
	ImprovementOpportunities string `json:"improvementOpportunities,omitempty"`
	RelatedQuestion          string `json:"relatedQuestion,omitempty"`
}

// Section groups criteria under a title, insertion order preserved.
type Section struct {
	Title    string      `json:"title"`
	Criteria []Criterion `json:"criteria"`
}

// Domain is one top-level assessment area. ID is unique across all
// domains and is the join key against remote sheet names.
type Domain struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Sections    []Section  `json:"sections"`
	Questions   []Question `json:"questions"`
}

// EvaluatorInfo identifies the respondent of one assessment session.
// Collected once before the assessment starts, immutable afterward.
type EvaluatorInfo struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}

// Result is the derived per-domain outcome of a session.
type Result struct {
	ID       string  `json:"id"`
	Subject  string  `json:"subject"`
	Score    float64 `json:"score"`
	FullMark float64 `json:"fullMark"`
}

// DomainStat is the historical average for one domain.
type DomainStat struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Average float64 `json:"average"`
}

// GlobalStatsData aggregates every historical submission. It is derived
// from remote rows on each stats view, never cached or mutated.
type GlobalStatsData struct {
	TotalAssessments int          `json:"totalAssessments"`
	OverallAverage   float64      `json:"overallAverage"`
	DomainStats      []DomainStat `json:"domainStats"`
}

// MaturityLevel describes one ordinal level on the 0-5 CMMI-style scale.
type MaturityLevel struct {
	Level       int    `json:"level"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
