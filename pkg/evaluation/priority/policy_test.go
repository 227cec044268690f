package priority

import (
	"testing"

	"clinical-eval-be/pkg/evaluation"
)

func TestKeywordPolicyClassify(t *testing.T) {
	policy := NewKeywordPolicy()

	tests := []struct {
		item string
		want evaluation.Priority
	}{
		{"Cardiovascular stress test", evaluation.PriorityHigh},
		{"Fasting glucose panel", evaluation.PriorityHigh},
		{"HbA1c", evaluation.PriorityHigh},
		{"Thyroid panel (TSH)", evaluation.PriorityMedium},
		{"Vitamin D level", evaluation.PriorityMedium},
		{"Grip strength", evaluation.PriorityLow},
		{"", evaluation.PriorityLow},
	}

	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			if got := policy.Classify(tt.item); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.item, got, tt.want)
			}
		})
	}
}
