package priority

import (
	"strings"

	"clinical-eval-be/pkg/evaluation"
)

// Policy assigns a follow-up priority to a missing checklist item.
// Pluggable so the default keyword heuristic can be swapped for a real
// risk model; the built-in lexicon is NOT validated against clinical risk.
type Policy interface {
	Classify(itemName string) evaluation.Priority
}

// KeywordPolicy matches item names against high/medium lexicons, defaulting
// to low. Matching is case-insensitive substring containment.
type KeywordPolicy struct {
	high   []string
	medium []string
}

// NewKeywordPolicy returns the default lexicon-based policy
func NewKeywordPolicy() *KeywordPolicy {
	return &KeywordPolicy{
		high: []string{
			"cardiac", "cardiovascular", "cancer", "tumor", "glucose",
			"hba1c", "blood pressure", "cholesterol", "colonoscopy",
		},
		medium: []string{
			"thyroid", "vitamin", "hormone", "bone density", "kidney",
			"liver", "inflammation", "crp",
		},
	}
}

func (p *KeywordPolicy) Classify(itemName string) evaluation.Priority {
	name := strings.ToLower(itemName)
	for _, kw := range p.high {
		if strings.Contains(name, kw) {
			return evaluation.PriorityHigh
		}
	}
	for _, kw := range p.medium {
		if strings.Contains(name, kw) {
			return evaluation.PriorityMedium
		}
	}
	return evaluation.PriorityLow
}
