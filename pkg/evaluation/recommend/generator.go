package recommend

import (
	"context"
	"errors"

	"clinical-eval-be/internal/pkg/logger"
	"clinical-eval-be/pkg/evaluation"
	"clinical-eval-be/pkg/evaluation/parser"
	"clinical-eval-be/pkg/evaluation/prompt"
	"clinical-eval-be/pkg/llm"
)

const maxRecommendations = 7

// Generator turns a checklist aggregate into ranked next steps via one
// evaluator call. It never returns an empty list and never an error: any
// failure yields the static fallback recommendation.
type Generator struct {
	provider llm.LLMProvider
	logger   logger.ILogger
}

func NewGenerator(provider llm.LLMProvider, log logger.ILogger) *Generator {
	return &Generator{
		provider: provider,
		logger:   log,
	}
}

type recommendationReply struct {
	Recommendations []struct {
		Title     string `json:"title"`
		Priority  string `json:"priority"`
		Timeframe string `json:"timeframe"`
		Rationale string `json:"rationale"`
	} `json:"recommendations"`
}

func (g *Generator) Generate(ctx context.Context, result *evaluation.ChecklistResult) []evaluation.Recommendation {
	promptText := prompt.NewRecommendationBuilder(result).Build()

	response, err := g.provider.Generate(ctx, promptText)
	if err != nil {
		g.logger.Warn("recommendation-generator", "Evaluator call failed, using fallback", map[string]interface{}{
			"error": err.Error(),
		})
		return Fallback()
	}

	var reply recommendationReply
	if err := parser.Decode(response, &reply); err != nil {
		var perr *parser.ParseError
		raw := ""
		if errors.As(err, &perr) {
			raw = perr.Snippet()
		}
		g.logger.Warn("recommendation-generator", "Unparseable evaluator reply, using fallback", map[string]interface{}{
			"raw": raw,
		})
		return Fallback()
	}

	if len(reply.Recommendations) == 0 {
		return Fallback()
	}

	recommendations := make([]evaluation.Recommendation, 0, len(reply.Recommendations))
	for i, r := range reply.Recommendations {
		if i >= maxRecommendations {
			break
		}
		if r.Title == "" {
			continue
		}
		recommendations = append(recommendations, evaluation.Recommendation{
			Title:     r.Title,
			Priority:  r.Priority,
			Timeframe: r.Timeframe,
			Rationale: r.Rationale,
		})
	}
	if len(recommendations) == 0 {
		return Fallback()
	}
	return recommendations
}

// Fallback is the static recommendation used whenever generation fails
func Fallback() []evaluation.Recommendation {
	return []evaluation.Recommendation{
		{
			Title:     "Review results with your healthcare provider",
			Priority:  "medium",
			Timeframe: "at your next appointment",
			Rationale: "A clinician can interpret the gaps in this assessment and order any missing tests.",
		},
	}
}
