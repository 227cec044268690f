package evaluation

import (
	"strings"
	"time"
)

// CriterionType distinguishes inclusion from exclusion criteria
type CriterionType string

const (
	CriterionInclusion CriterionType = "inclusion"
	CriterionExclusion CriterionType = "exclusion"
)

// CriterionStatus is the tri-state outcome for one eligibility criterion
type CriterionStatus string

const (
	StatusMatched       CriterionStatus = "matched"
	StatusNonMatched    CriterionStatus = "non-matched"
	StatusNeedsMoreInfo CriterionStatus = "needs-more-info"
)

// ChecklistStatus is the tri-state outcome for one checklist item
type ChecklistStatus string

const (
	ChecklistFound   ChecklistStatus = "found"
	ChecklistPartial ChecklistStatus = "partial"
	ChecklistMissing ChecklistStatus = "missing"
)

// Verdict is the overall eligibility classification
type Verdict string

const (
	VerdictEligible    Verdict = "eligible"
	VerdictIneligible  Verdict = "ineligible"
	VerdictNeedsReview Verdict = "needs-review"
)

// Priority tags a missing checklist item for follow-up ordering
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Criterion is one atomic eligibility question
type Criterion struct {
	Text      string        `json:"text"`
	Type      CriterionType `json:"type"`
	Rationale string        `json:"rationale,omitempty"`
}

// ChecklistItem is one test/measurement within a checklist category
type ChecklistItem struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Rationale string `json:"rationale,omitempty"`
}

// CriterionResult is the evaluator's judgment for a single criterion.
// Value object: never mutated after construction.
type CriterionResult struct {
	Criterion  Criterion       `json:"criterion"`
	Status     CriterionStatus `json:"status"`
	Reasoning  string          `json:"reasoning"`
	Confidence float64         `json:"confidence"`
	Evidence   string          `json:"evidence,omitempty"`
}

// ChecklistItemResult is the judgment for one checklist item
type ChecklistItemResult struct {
	Item       string          `json:"item"`
	Category   string          `json:"category"`
	Status     ChecklistStatus `json:"status"`
	Reasoning  string          `json:"reasoning"`
	Confidence float64         `json:"confidence"`
	Value      string          `json:"value,omitempty"`
}

// CategoryStats aggregates one checklist category
type CategoryStats struct {
	Category string `json:"category"`
	Status   string `json:"status"` // qualitative: "complete" | "partial" | "incomplete"
	Total    int    `json:"total"`
	Found    int    `json:"found"`
	Partial  int    `json:"partial"`
	Missing  int    `json:"missing"`
}

// MissingItem is a missing checklist entry tagged with a follow-up priority
type MissingItem struct {
	Item     string   `json:"item"`
	Category string   `json:"category"`
	Priority Priority `json:"priority"`
}

// Recommendation is one actionable next step
type Recommendation struct {
	Title     string `json:"title"`
	Priority  string `json:"priority"`
	Timeframe string `json:"timeframe"`
	Rationale string `json:"rationale"`
}

// EligibilityResult owns the ordered criterion results and the overall verdict
type EligibilityResult struct {
	Verdict Verdict           `json:"verdict"`
	Results []CriterionResult `json:"results"`
}

// ChecklistResult owns per-item results, category stats and derived output
type ChecklistResult struct {
	Items           []ChecklistItemResult `json:"items"`
	Categories      []CategoryStats       `json:"categories"`
	TotalItems      int                   `json:"total_items"`
	ItemsFound      int                   `json:"items_found"`
	CompletionPct   int                   `json:"completion_pct"`
	MissingItems    []MissingItem         `json:"missing_items"`
	Recommendations []Recommendation      `json:"recommendations,omitempty"`
}

// ResultKind tags which pipeline produced a stored result
type ResultKind string

const (
	KindEligibility ResultKind = "eligibility"
	KindChecklist   ResultKind = "checklist"
)

// Result is the aggregate written back into a session after a pipeline run.
// Replaced wholesale on re-evaluation, never mutated in place.
type Result struct {
	Kind        ResultKind         `json:"kind"`
	Eligibility *EligibilityResult `json:"eligibility,omitempty"`
	Checklist   *ChecklistResult   `json:"checklist,omitempty"`
	CompletedAt time.Time          `json:"completed_at"`
}

// NormalizeCriterionStatus validates an evaluator-reported status against the
// enumerated values. Anything unrecognized collapses to the conservative
// default so downstream aggregation never sees a free-form string.
func NormalizeCriterionStatus(raw string) CriterionStatus {
	switch CriterionStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusMatched:
		return StatusMatched
	case StatusNonMatched:
		return StatusNonMatched
	case StatusNeedsMoreInfo:
		return StatusNeedsMoreInfo
	}
	// Common evaluator synonyms
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "match", "met", "yes":
		return StatusMatched
	case "no-match", "not-matched", "unmet", "no":
		return StatusNonMatched
	}
	return StatusNeedsMoreInfo
}

// NormalizeChecklistStatus is the checklist counterpart; the conservative
// default is "missing".
func NormalizeChecklistStatus(raw string) ChecklistStatus {
	switch ChecklistStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case ChecklistFound:
		return ChecklistFound
	case ChecklistPartial:
		return ChecklistPartial
	case ChecklistMissing:
		return ChecklistMissing
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "present", "complete", "done":
		return ChecklistFound
	case "incomplete", "outdated":
		return ChecklistPartial
	}
	return ChecklistMissing
}

// Clamp01 bounds an evaluator-reported confidence into [0,1]
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
