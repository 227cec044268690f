package aggregate

import (
	"math"

	"clinical-eval-be/pkg/evaluation"
	"clinical-eval-be/pkg/evaluation/priority"
)

// Category qualitative statuses
const (
	CategoryComplete   = "complete"
	CategoryPartial    = "partial"
	CategoryIncomplete = "incomplete"
)

// DetermineOverallEligibility derives the single verdict from per-criterion
// results under fixed precedence rules:
//  1. Any failed inclusion, or any triggered exclusion → ineligible.
//  2. Otherwise any needs-more-info → needs-review.
//  3. Otherwise all inclusions matched and all exclusions non-matched → eligible.
//  4. Anything else → needs-review.
//
// The rules are commutative over the input order, which is what allows
// concurrent item evaluation upstream.
func DetermineOverallEligibility(results []evaluation.CriterionResult) evaluation.Verdict {
	needsInfo := false
	allInclusionsMatched := true
	allExclusionsClear := true

	for _, r := range results {
		switch r.Criterion.Type {
		case evaluation.CriterionInclusion:
			switch r.Status {
			case evaluation.StatusNonMatched:
				return evaluation.VerdictIneligible
			case evaluation.StatusNeedsMoreInfo:
				needsInfo = true
				allInclusionsMatched = false
			}
		case evaluation.CriterionExclusion:
			switch r.Status {
			case evaluation.StatusMatched:
				// Patient triggers an exclusion: takes precedence over everything
				return evaluation.VerdictIneligible
			case evaluation.StatusNeedsMoreInfo:
				needsInfo = true
				allExclusionsClear = false
			}
		default:
			needsInfo = true
		}
	}

	if needsInfo {
		return evaluation.VerdictNeedsReview
	}
	if allInclusionsMatched && allExclusionsClear {
		return evaluation.VerdictEligible
	}
	return evaluation.VerdictNeedsReview
}

// BuildEligibilityResult wraps per-criterion results with the derived verdict
func BuildEligibilityResult(results []evaluation.CriterionResult) *evaluation.EligibilityResult {
	return &evaluation.EligibilityResult{
		Verdict: DetermineOverallEligibility(results),
		Results: results,
	}
}

// CompletionPercentage computes round(100 * found / total) with integer
// rounding. Zero total yields zero.
func CompletionPercentage(found, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(found) / float64(total)))
}

// BuildChecklistResult sums per-category counts into overall totals and
// collects every missing item into a priority-tagged list.
func BuildChecklistResult(items []evaluation.ChecklistItemResult, policy priority.Policy) *evaluation.ChecklistResult {
	byCategory := map[string]*evaluation.CategoryStats{}
	order := []string{}

	for _, item := range items {
		stats, ok := byCategory[item.Category]
		if !ok {
			stats = &evaluation.CategoryStats{Category: item.Category}
			byCategory[item.Category] = stats
			order = append(order, item.Category)
		}
		stats.Total++
		switch item.Status {
		case evaluation.ChecklistFound:
			stats.Found++
		case evaluation.ChecklistPartial:
			stats.Partial++
		default:
			stats.Missing++
		}
	}

	result := &evaluation.ChecklistResult{
		Items:        items,
		Categories:   make([]evaluation.CategoryStats, 0, len(order)),
		MissingItems: make([]evaluation.MissingItem, 0),
	}

	for _, cat := range order {
		stats := byCategory[cat]
		stats.Status = categoryStatus(stats)
		result.Categories = append(result.Categories, *stats)
		result.TotalItems += stats.Total
		result.ItemsFound += stats.Found
	}

	result.CompletionPct = CompletionPercentage(result.ItemsFound, result.TotalItems)

	for _, item := range items {
		if item.Status == evaluation.ChecklistMissing {
			result.MissingItems = append(result.MissingItems, evaluation.MissingItem{
				Item:     item.Item,
				Category: item.Category,
				Priority: policy.Classify(item.Item),
			})
		}
	}

	return result
}

func categoryStatus(stats *evaluation.CategoryStats) string {
	switch {
	case stats.Found == stats.Total:
		return CategoryComplete
	case stats.Found > 0 || stats.Partial > 0:
		return CategoryPartial
	default:
		return CategoryIncomplete
	}
}
