package aggregate

import (
	"math/rand"
	"testing"

	"clinical-eval-be/pkg/evaluation"
	"clinical-eval-be/pkg/evaluation/priority"
)

func inclusion(status evaluation.CriterionStatus) evaluation.CriterionResult {
	return evaluation.CriterionResult{
		Criterion: evaluation.Criterion{Text: "c", Type: evaluation.CriterionInclusion},
		Status:    status,
	}
}

func exclusion(status evaluation.CriterionStatus) evaluation.CriterionResult {
	return evaluation.CriterionResult{
		Criterion: evaluation.Criterion{Text: "c", Type: evaluation.CriterionExclusion},
		Status:    status,
	}
}

func TestDetermineOverallEligibility(t *testing.T) {
	tests := []struct {
		name    string
		results []evaluation.CriterionResult
		want    evaluation.Verdict
	}{
		{
			name:    "all clear",
			results: []evaluation.CriterionResult{inclusion(evaluation.StatusMatched), exclusion(evaluation.StatusNonMatched)},
			want:    evaluation.VerdictEligible,
		},
		{
			name:    "failed inclusion",
			results: []evaluation.CriterionResult{inclusion(evaluation.StatusNonMatched), exclusion(evaluation.StatusNonMatched)},
			want:    evaluation.VerdictIneligible,
		},
		{
			name:    "triggered exclusion",
			results: []evaluation.CriterionResult{inclusion(evaluation.StatusMatched), exclusion(evaluation.StatusMatched)},
			want:    evaluation.VerdictIneligible,
		},
		{
			name: "exclusion precedence over needs-more-info",
			results: []evaluation.CriterionResult{
				inclusion(evaluation.StatusNeedsMoreInfo),
				exclusion(evaluation.StatusMatched),
			},
			want: evaluation.VerdictIneligible,
		},
		{
			name:    "needs more info on inclusion",
			results: []evaluation.CriterionResult{inclusion(evaluation.StatusNeedsMoreInfo), exclusion(evaluation.StatusNonMatched)},
			want:    evaluation.VerdictNeedsReview,
		},
		{
			name:    "needs more info on exclusion",
			results: []evaluation.CriterionResult{inclusion(evaluation.StatusMatched), exclusion(evaluation.StatusNeedsMoreInfo)},
			want:    evaluation.VerdictNeedsReview,
		},
		{
			name:    "no criteria",
			results: nil,
			want:    evaluation.VerdictEligible,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineOverallEligibility(tt.results); got != tt.want {
				t.Errorf("verdict = %v, want %v", got, tt.want)
			}
		})
	}
}

// Permuting the input list must never change the verdict.
func TestDetermineOverallEligibilityOrderIndependent(t *testing.T) {
	results := []evaluation.CriterionResult{
		inclusion(evaluation.StatusMatched),
		inclusion(evaluation.StatusNeedsMoreInfo),
		exclusion(evaluation.StatusNonMatched),
		exclusion(evaluation.StatusMatched),
		inclusion(evaluation.StatusNonMatched),
	}

	want := DetermineOverallEligibility(results)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 50; i++ {
		shuffled := make([]evaluation.CriterionResult, len(results))
		copy(shuffled, results)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		if got := DetermineOverallEligibility(shuffled); got != want {
			t.Fatalf("permutation %d changed verdict: %v vs %v", i, got, want)
		}
	}
}

func TestCompletionPercentage(t *testing.T) {
	tests := []struct {
		found, total, want int
	}{
		{0, 6, 0},
		{2, 6, 33},
		{3, 6, 50},
		{4, 6, 67},
		{6, 6, 100},
		{0, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
	}
	for _, tt := range tests {
		if got := CompletionPercentage(tt.found, tt.total); got != tt.want {
			t.Errorf("CompletionPercentage(%d, %d) = %d, want %d", tt.found, tt.total, got, tt.want)
		}
	}
}

func TestBuildChecklistResult(t *testing.T) {
	items := []evaluation.ChecklistItemResult{
		{Item: "Fasting glucose", Category: "metabolic", Status: evaluation.ChecklistFound},
		{Item: "HbA1c", Category: "metabolic", Status: evaluation.ChecklistFound},
		{Item: "Lipid panel", Category: "metabolic", Status: evaluation.ChecklistMissing},
		{Item: "Blood pressure log", Category: "cardiovascular", Status: evaluation.ChecklistMissing},
		{Item: "ECG", Category: "cardiovascular", Status: evaluation.ChecklistMissing},
		{Item: "VO2 max", Category: "cardiovascular", Status: evaluation.ChecklistPartial},
	}

	result := BuildChecklistResult(items, priority.NewKeywordPolicy())

	if result.TotalItems != 6 || result.ItemsFound != 2 {
		t.Fatalf("totals = %d/%d, want 2/6", result.ItemsFound, result.TotalItems)
	}
	if result.CompletionPct != 33 {
		t.Errorf("completion = %d, want 33", result.CompletionPct)
	}
	if len(result.MissingItems) != 3 {
		t.Fatalf("missing list length = %d, want 3", len(result.MissingItems))
	}
	if len(result.Categories) != 2 {
		t.Fatalf("category count = %d, want 2", len(result.Categories))
	}

	for _, cat := range result.Categories {
		switch cat.Category {
		case "metabolic":
			if cat.Found != 2 || cat.Missing != 1 || cat.Status != CategoryPartial {
				t.Errorf("metabolic stats wrong: %+v", cat)
			}
		case "cardiovascular":
			if cat.Missing != 2 || cat.Partial != 1 || cat.Status != CategoryPartial {
				t.Errorf("cardiovascular stats wrong: %+v", cat)
			}
		}
	}

	// High-priority lexicon should catch the blood pressure entry
	foundHigh := false
	for _, m := range result.MissingItems {
		if m.Item == "Blood pressure log" && m.Priority == evaluation.PriorityHigh {
			foundHigh = true
		}
	}
	if !foundHigh {
		t.Error("expected Blood pressure log tagged high priority")
	}
}

func TestBuildChecklistResultAllMissing(t *testing.T) {
	items := []evaluation.ChecklistItemResult{
		{Item: "a", Category: "c1", Status: evaluation.ChecklistMissing},
		{Item: "b", Category: "c1", Status: evaluation.ChecklistMissing},
	}
	result := BuildChecklistResult(items, priority.NewKeywordPolicy())
	if result.CompletionPct != 0 {
		t.Errorf("completion = %d, want 0", result.CompletionPct)
	}
	if result.Categories[0].Status != CategoryIncomplete {
		t.Errorf("category status = %s, want incomplete", result.Categories[0].Status)
	}
}
