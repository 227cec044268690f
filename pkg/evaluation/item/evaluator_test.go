package item

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"clinical-eval-be/internal/pkg/logger"
	"clinical-eval-be/pkg/evaluation"
	"clinical-eval-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

// scriptedProvider answers by matching a substring of the prompt
type scriptedProvider struct {
	replies map[string]string // prompt substring -> reply
	err     error
	calls   int
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return p.Generate(ctx, history[len(history)-1].Content, opts...)
}

func (p *scriptedProvider) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	for needle, reply := range p.replies {
		if strings.Contains(prompt, needle) {
			return reply, nil
		}
	}
	return "", fmt.Errorf("no scripted reply")
}

func criterion(text string, ctype evaluation.CriterionType) evaluation.Criterion {
	return evaluation.Criterion{Text: text, Type: ctype}
}

func TestEvaluateCriterionHappyPath(t *testing.T) {
	provider := &scriptedProvider{replies: map[string]string{
		"Age 18-65": `{"status": "matched", "reasoning": "age 45 in range", "confidence": 0.92, "evidence": "Patient age 45"}`,
	}}
	e := NewEvaluator(provider, logger.NewNopLogger(), 0)

	result := e.EvaluateCriterion(context.Background(), "Patient age 45, on metformin",
		criterion("Age 18-65", evaluation.CriterionInclusion))

	assert.Equal(t, evaluation.StatusMatched, result.Status)
	assert.Equal(t, 0.92, result.Confidence)
	assert.Equal(t, "Patient age 45", result.Evidence)
}

func TestEvaluateCriterionTransportFailure(t *testing.T) {
	provider := &scriptedProvider{err: fmt.Errorf("%w: connection refused", llm.ErrUnavailable)}
	e := NewEvaluator(provider, logger.NewNopLogger(), 0)

	result := e.EvaluateCriterion(context.Background(), "record",
		criterion("Pregnancy", evaluation.CriterionExclusion))

	assert.Equal(t, evaluation.StatusNeedsMoreInfo, result.Status)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Contains(t, result.Reasoning, "unavailable")
}

func TestEvaluateCriterionParseFailure(t *testing.T) {
	provider := &scriptedProvider{replies: map[string]string{
		"Age 18-65": "I believe the patient is eligible but cannot be sure.",
	}}
	e := NewEvaluator(provider, logger.NewNopLogger(), 0)

	result := e.EvaluateCriterion(context.Background(), "record",
		criterion("Age 18-65", evaluation.CriterionInclusion))

	assert.Equal(t, evaluation.StatusNeedsMoreInfo, result.Status)
	assert.Equal(t, parseFailureConfidence, result.Confidence)
}

// Even under injected garbage, status stays inside the enumerated values.
func TestEvaluateCriterionStatusAlwaysEnumerated(t *testing.T) {
	replies := []string{
		`{"status": "DEFINITELY", "reasoning": "x", "confidence": 0.5}`,
		`{"status": "", "reasoning": "x", "confidence": 2.0}`,
		`{"status": "matched maybe?", "confidence": -1}`,
		"```json\n{\"status\": \"yes\"}\n```",
		"not json at all",
	}
	valid := map[evaluation.CriterionStatus]bool{
		evaluation.StatusMatched:       true,
		evaluation.StatusNonMatched:    true,
		evaluation.StatusNeedsMoreInfo: true,
	}

	for i, reply := range replies {
		provider := &scriptedProvider{replies: map[string]string{"Age": reply}}
		e := NewEvaluator(provider, logger.NewNopLogger(), 0)
		result := e.EvaluateCriterion(context.Background(), "record",
			criterion("Age 18-65", evaluation.CriterionInclusion))

		assert.True(t, valid[result.Status], "reply %d produced status %q", i, result.Status)
		assert.GreaterOrEqual(t, result.Confidence, 0.0)
		assert.LessOrEqual(t, result.Confidence, 1.0)
	}
}

func TestEvaluateCategoryHappyPath(t *testing.T) {
	provider := &scriptedProvider{replies: map[string]string{
		"metabolic": `{
			"category_status": "partial",
			"items": [
				{"name": "Fasting glucose", "status": "found", "confidence": 0.9, "value": "98 mg/dL"},
				{"name": "HbA1c", "status": "missing", "reasoning": "not mentioned"}
			]
		}`,
	}}
	e := NewEvaluator(provider, logger.NewNopLogger(), 0)

	items := []evaluation.ChecklistItem{
		{Name: "Fasting glucose", Category: "metabolic"},
		{Name: "HbA1c", Category: "metabolic"},
	}
	results := e.EvaluateCategory(context.Background(), "record", "metabolic", items)

	assert.Len(t, results, 2)
	assert.Equal(t, evaluation.ChecklistFound, results[0].Status)
	assert.Equal(t, "98 mg/dL", results[0].Value)
	assert.Equal(t, evaluation.ChecklistMissing, results[1].Status)
}

func TestEvaluateCategorySkippedItemDefaultsMissing(t *testing.T) {
	provider := &scriptedProvider{replies: map[string]string{
		"metabolic": `{"category_status": "partial", "items": [{"name": "Fasting glucose", "status": "found"}]}`,
	}}
	e := NewEvaluator(provider, logger.NewNopLogger(), 0)

	items := []evaluation.ChecklistItem{
		{Name: "Fasting glucose", Category: "metabolic"},
		{Name: "Lipid panel", Category: "metabolic"},
	}
	results := e.EvaluateCategory(context.Background(), "record", "metabolic", items)

	assert.Equal(t, evaluation.ChecklistFound, results[0].Status)
	assert.Equal(t, evaluation.ChecklistMissing, results[1].Status)
}

func TestEvaluateCategoryFailureDefaultsWholeCategory(t *testing.T) {
	provider := &scriptedProvider{err: fmt.Errorf("%w", llm.ErrTimeout)}
	e := NewEvaluator(provider, logger.NewNopLogger(), 0)

	items := []evaluation.ChecklistItem{
		{Name: "a", Category: "c"},
		{Name: "b", Category: "c"},
		{Name: "c", Category: "c"},
	}
	results := e.EvaluateCategory(context.Background(), "record", "c", items)

	assert.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, evaluation.ChecklistMissing, r.Status)
		assert.Equal(t, 0.0, r.Confidence)
	}
}

func TestResponseCacheAvoidsSecondCall(t *testing.T) {
	provider := &scriptedProvider{replies: map[string]string{
		"Age 18-65": `{"status": "matched", "confidence": 0.9}`,
	}}
	e := NewEvaluator(provider, logger.NewNopLogger(), time.Minute)

	c := criterion("Age 18-65", evaluation.CriterionInclusion)
	first := e.EvaluateCriterion(context.Background(), "record", c)
	second := e.EvaluateCriterion(context.Background(), "record", c)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, 1, provider.calls)
}
