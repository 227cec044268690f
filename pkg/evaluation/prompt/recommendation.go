package prompt

import (
	"strconv"
	"strings"

	"clinical-eval-be/pkg/evaluation"
)

// topMissing bounds how many missing items the recommendation prompt carries
const topMissing = 10

// RecommendationBuilder renders the second-pass prompt that turns a
// checklist aggregate into prioritized next steps.
type RecommendationBuilder struct {
	result *evaluation.ChecklistResult
}

func NewRecommendationBuilder(result *evaluation.ChecklistResult) *RecommendationBuilder {
	return &RecommendationBuilder{result: result}
}

func (b *RecommendationBuilder) Build() string {
	var prompt strings.Builder

	b.writeTask(&prompt)
	b.writeSummary(&prompt)
	b.writeOutputFormat(&prompt)

	return prompt.String()
}

func (b *RecommendationBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a preventive-health advisor. A screening checklist was just assessed\n")
	prompt.WriteString("against a user's health record. Turn the gaps below into a short, ranked list\n")
	prompt.WriteString("of actionable recommendations. Practical next steps only, no diagnoses.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *RecommendationBuilder) writeSummary(prompt *strings.Builder) {
	prompt.WriteString("<assessment_summary>\n")
	prompt.WriteString("Completion: ")
	prompt.WriteString(strconv.Itoa(b.result.CompletionPct))
	prompt.WriteString("% (")
	prompt.WriteString(strconv.Itoa(b.result.ItemsFound))
	prompt.WriteString(" of ")
	prompt.WriteString(strconv.Itoa(b.result.TotalItems))
	prompt.WriteString(" items documented)\n")

	prompt.WriteString("Missing items:\n")
	for i, item := range b.result.MissingItems {
		if i >= topMissing {
			prompt.WriteString("- ... and ")
			prompt.WriteString(strconv.Itoa(len(b.result.MissingItems) - topMissing))
			prompt.WriteString(" more\n")
			break
		}
		prompt.WriteString("- ")
		prompt.WriteString(item.Item)
		prompt.WriteString(" [")
		prompt.WriteString(item.Category)
		prompt.WriteString(", ")
		prompt.WriteString(string(item.Priority))
		prompt.WriteString(" priority]\n")
	}
	prompt.WriteString("</assessment_summary>\n\n")
}

func (b *RecommendationBuilder) writeOutputFormat(prompt *strings.Builder) {
	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"recommendations\": [\n")
	prompt.WriteString("    {\n")
	prompt.WriteString("      \"title\": \"Short action\",\n")
	prompt.WriteString("      \"priority\": \"high|medium|low\",\n")
	prompt.WriteString("      \"timeframe\": \"e.g. within 3 months\",\n")
	prompt.WriteString("      \"rationale\": \"Why this matters\"\n")
	prompt.WriteString("    }\n")
	prompt.WriteString("  ]\n")
	prompt.WriteString("}\n")
	prompt.WriteString("Rank by priority, most urgent first. At most 7 recommendations.\n")
	prompt.WriteString("</output_format>")
}
