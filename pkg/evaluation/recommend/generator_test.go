package recommend

import (
	"context"
	"fmt"
	"testing"

	"clinical-eval-be/internal/pkg/logger"
	"clinical-eval-be/pkg/evaluation"
	"clinical-eval-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

type stubProvider struct {
	reply string
	err   error
}

func (p *stubProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return p.reply, p.err
}

func (p *stubProvider) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	return p.reply, p.err
}

func checklistResult() *evaluation.ChecklistResult {
	return &evaluation.ChecklistResult{
		TotalItems:    6,
		ItemsFound:    2,
		CompletionPct: 33,
		MissingItems: []evaluation.MissingItem{
			{Item: "Lipid panel", Category: "metabolic", Priority: evaluation.PriorityMedium},
		},
	}
}

func TestGenerateParsesRankedList(t *testing.T) {
	provider := &stubProvider{reply: `{
		"recommendations": [
			{"title": "Schedule a lipid panel", "priority": "high", "timeframe": "within 1 month", "rationale": "cardiovascular risk"},
			{"title": "Book annual physical", "priority": "low", "timeframe": "within 6 months", "rationale": "routine"}
		]
	}`}
	g := NewGenerator(provider, logger.NewNopLogger())

	got := g.Generate(context.Background(), checklistResult())

	assert.Len(t, got, 2)
	assert.Equal(t, "Schedule a lipid panel", got[0].Title)
	assert.Equal(t, "high", got[0].Priority)
}

func TestGenerateFallbackOnTransportFailure(t *testing.T) {
	provider := &stubProvider{err: fmt.Errorf("%w", llm.ErrUnavailable)}
	g := NewGenerator(provider, logger.NewNopLogger())

	got := g.Generate(context.Background(), checklistResult())

	assert.Len(t, got, 1)
	assert.Equal(t, Fallback()[0].Title, got[0].Title)
}

func TestGenerateFallbackOnMalformedReply(t *testing.T) {
	provider := &stubProvider{reply: "Sorry, I can't produce JSON today."}
	g := NewGenerator(provider, logger.NewNopLogger())

	got := g.Generate(context.Background(), checklistResult())

	assert.NotEmpty(t, got, "recommendations must never be empty")
	assert.Equal(t, Fallback()[0].Title, got[0].Title)
}

func TestGenerateNeverExceedsCap(t *testing.T) {
	reply := `{"recommendations": [`
	for i := 0; i < 12; i++ {
		if i > 0 {
			reply += ","
		}
		reply += fmt.Sprintf(`{"title": "rec %d", "priority": "low"}`, i)
	}
	reply += `]}`

	g := NewGenerator(&stubProvider{reply: reply}, logger.NewNopLogger())
	got := g.Generate(context.Background(), checklistResult())

	assert.LessOrEqual(t, len(got), 7)
}
