package item

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"clinical-eval-be/internal/pkg/logger"
	"clinical-eval-be/pkg/evaluation"
	"clinical-eval-be/pkg/evaluation/parser"
	"clinical-eval-be/pkg/evaluation/prompt"
	"clinical-eval-be/pkg/llm"

	gocache "github.com/patrickmn/go-cache"
)

// Confidence assigned when the evaluator replied but the reply didn't parse.
// Nonzero: partial text still carries some signal, unlike a dead transport.
const parseFailureConfidence = 0.2

// Evaluator runs one evaluator call per criterion (eligibility mode) or per
// category (checklist mode) and converts the reply into strict result values.
// Transport and parse failures are absorbed here: callers always get a
// conservative result, never an error.
type Evaluator struct {
	provider llm.LLMProvider
	cache    *gocache.Cache // nil disables response caching
	logger   logger.ILogger
}

func NewEvaluator(provider llm.LLMProvider, log logger.ILogger, cacheTTL time.Duration) *Evaluator {
	var c *gocache.Cache
	if cacheTTL > 0 {
		c = gocache.New(cacheTTL, 2*cacheTTL)
	}
	return &Evaluator{
		provider: provider,
		cache:    c,
		logger:   log,
	}
}

// --- Evaluator reply schemas ---

type criterionReply struct {
	Status     string  `json:"status"`
	Reasoning  string  `json:"reasoning"`
	Confidence float64 `json:"confidence"`
	Evidence   string  `json:"evidence"`
}

type categoryReply struct {
	CategoryStatus string `json:"category_status"`
	Items          []struct {
		Name       string  `json:"name"`
		Status     string  `json:"status"`
		Reasoning  string  `json:"reasoning"`
		Confidence float64 `json:"confidence"`
		Value      string  `json:"value"`
	} `json:"items"`
}

// EvaluateCriterion judges one eligibility criterion against the record
func (e *Evaluator) EvaluateCriterion(ctx context.Context, record string, criterion evaluation.Criterion) evaluation.CriterionResult {
	promptText := prompt.NewEligibilityBuilder(record, criterion).Build()

	response, err := e.generate(ctx, promptText)
	if err != nil {
		e.logger.Warn("item-evaluator", "Evaluator call failed for criterion", map[string]interface{}{
			"criterion": criterion.Text,
			"error":     err.Error(),
		})
		return evaluation.CriterionResult{
			Criterion:  criterion,
			Status:     evaluation.StatusNeedsMoreInfo,
			Reasoning:  transportFailureReason(err),
			Confidence: 0,
		}
	}

	var reply criterionReply
	if err := parser.Decode(response, &reply); err != nil {
		var perr *parser.ParseError
		snippet := ""
		if errors.As(err, &perr) {
			snippet = perr.Snippet()
		}
		e.logger.Warn("item-evaluator", "Unparseable evaluator reply for criterion", map[string]interface{}{
			"criterion": criterion.Text,
			"raw":       snippet,
		})
		return evaluation.CriterionResult{
			Criterion:  criterion,
			Status:     evaluation.StatusNeedsMoreInfo,
			Reasoning:  fmt.Sprintf("Evaluator reply could not be parsed: %q", snippet),
			Confidence: parseFailureConfidence,
		}
	}

	return evaluation.CriterionResult{
		Criterion:  criterion,
		Status:     evaluation.NormalizeCriterionStatus(reply.Status),
		Reasoning:  reply.Reasoning,
		Confidence: evaluation.Clamp01(reply.Confidence),
		Evidence:   reply.Evidence,
	}
}

// EvaluateCategory judges all items of one checklist category in a single
// evaluator call. Any failure defaults every item in the category to the
// conservative "missing" rather than aborting the assessment.
func (e *Evaluator) EvaluateCategory(ctx context.Context, record, category string, items []evaluation.ChecklistItem) []evaluation.ChecklistItemResult {
	promptText := prompt.NewCategoryBuilder(record, category, items).Build()

	response, err := e.generate(ctx, promptText)
	if err != nil {
		e.logger.Warn("item-evaluator", "Evaluator call failed for category", map[string]interface{}{
			"category": category,
			"error":    err.Error(),
		})
		return fallbackCategory(category, items, transportFailureReason(err), 0)
	}

	var reply categoryReply
	if err := parser.Decode(response, &reply); err != nil {
		var perr *parser.ParseError
		snippet := ""
		if errors.As(err, &perr) {
			snippet = perr.Snippet()
		}
		e.logger.Warn("item-evaluator", "Unparseable evaluator reply for category", map[string]interface{}{
			"category": category,
			"raw":      snippet,
		})
		reason := fmt.Sprintf("Evaluator reply could not be parsed: %q", snippet)
		return fallbackCategory(category, items, reason, parseFailureConfidence)
	}

	// Index reply items by name; anything the evaluator skipped stays missing
	byName := make(map[string]int, len(reply.Items))
	for i, it := range reply.Items {
		byName[strings.ToLower(strings.TrimSpace(it.Name))] = i
	}

	results := make([]evaluation.ChecklistItemResult, 0, len(items))
	for _, item := range items {
		idx, ok := byName[strings.ToLower(item.Name)]
		if !ok {
			results = append(results, evaluation.ChecklistItemResult{
				Item:      item.Name,
				Category:  category,
				Status:    evaluation.ChecklistMissing,
				Reasoning: "Evaluator did not report on this item",
			})
			continue
		}
		r := reply.Items[idx]
		results = append(results, evaluation.ChecklistItemResult{
			Item:       item.Name,
			Category:   category,
			Status:     evaluation.NormalizeChecklistStatus(r.Status),
			Reasoning:  r.Reasoning,
			Confidence: evaluation.Clamp01(r.Confidence),
			Value:      r.Value,
		})
	}
	return results
}

// generate calls the provider through the prompt-hash response cache
func (e *Evaluator) generate(ctx context.Context, promptText string) (string, error) {
	var key string
	if e.cache != nil {
		sum := sha256.Sum256([]byte(promptText))
		key = hex.EncodeToString(sum[:])
		if cached, found := e.cache.Get(key); found {
			return cached.(string), nil
		}
	}

	response, err := e.provider.Generate(ctx, promptText)
	if err != nil {
		return "", err
	}

	if e.cache != nil {
		e.cache.Set(key, response, gocache.DefaultExpiration)
	}
	return response, nil
}

func fallbackCategory(category string, items []evaluation.ChecklistItem, reason string, confidence float64) []evaluation.ChecklistItemResult {
	results := make([]evaluation.ChecklistItemResult, 0, len(items))
	for _, item := range items {
		results = append(results, evaluation.ChecklistItemResult{
			Item:       item.Name,
			Category:   category,
			Status:     evaluation.ChecklistMissing,
			Reasoning:  reason,
			Confidence: confidence,
		})
	}
	return results
}

func transportFailureReason(err error) string {
	switch {
	case errors.Is(err, llm.ErrTimeout):
		return "Evaluator timed out; insufficient information to judge this item"
	case errors.Is(err, llm.ErrUnavailable):
		return "Evaluator unavailable; insufficient information to judge this item"
	default:
		return fmt.Sprintf("Evaluator call failed: %v", err)
	}
}
