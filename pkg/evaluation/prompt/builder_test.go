package prompt

import (
	"strings"
	"testing"
	"time"

	"clinical-eval-be/pkg/evaluation"
	"clinical-eval-be/pkg/store"
)

func TestEligibilityBuilderCarriesRecordVerbatim(t *testing.T) {
	record := strings.Repeat("Patient history line.\n", 200)
	criterion := evaluation.Criterion{
		Text: "Age 18-65",
		Type: evaluation.CriterionInclusion,
	}

	got := NewEligibilityBuilder(record, criterion).Build()

	if !strings.Contains(got, record) {
		t.Error("record was truncated or altered")
	}
	for _, want := range []string{"<patient_record>", "<criterion>", "<output_format>", "Age 18-65", "inclusion"} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestCategoryBuilderListsEveryItem(t *testing.T) {
	items := []evaluation.ChecklistItem{
		{Name: "Fasting glucose", Category: "metabolic"},
		{Name: "HbA1c", Category: "metabolic", Rationale: "3-month glycemic average"},
	}

	got := NewCategoryBuilder("record text", "metabolic", items).Build()

	for _, item := range items {
		if !strings.Contains(got, item.Name) {
			t.Errorf("prompt missing item %q", item.Name)
		}
	}
	if !strings.Contains(got, "category_status") {
		t.Error("prompt missing output schema")
	}
}

func TestChatBuilderRendersTranscriptInOrder(t *testing.T) {
	transcript := []store.Message{
		{Role: store.RoleUser, Content: "first question", CreatedAt: time.Now()},
		{Role: store.RoleModel, Content: "first answer", CreatedAt: time.Now()},
	}

	got := NewChatBuilder("record", transcript, "second question").Build()

	uIdx := strings.Index(got, "first question")
	aIdx := strings.Index(got, "first answer")
	qIdx := strings.Index(got, "second question")
	if uIdx == -1 || aIdx == -1 || qIdx == -1 {
		t.Fatal("prompt missing transcript or question")
	}
	if !(uIdx < aIdx && aIdx < qIdx) {
		t.Error("transcript order not preserved in rendered prompt")
	}
}

func TestRecommendationBuilderBoundsMissingList(t *testing.T) {
	result := &evaluation.ChecklistResult{
		TotalItems: 20,
		ItemsFound: 5,
	}
	result.CompletionPct = 25
	for i := 0; i < 15; i++ {
		result.MissingItems = append(result.MissingItems, evaluation.MissingItem{
			Item:     "item-" + strings.Repeat("x", i+1),
			Category: "c",
			Priority: evaluation.PriorityLow,
		})
	}

	got := NewRecommendationBuilder(result).Build()

	if !strings.Contains(got, "25%") {
		t.Error("completion percentage missing")
	}
	if !strings.Contains(got, "and 5 more") {
		t.Error("missing-list overflow marker absent")
	}
}
