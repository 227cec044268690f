package prompt

import (
	"strings"

	"clinical-eval-be/pkg/evaluation"
)

// CategoryBuilder renders the batch prompt for one checklist category: all
// items of the category in a single evaluator call.
type CategoryBuilder struct {
	record   string
	category string
	items    []evaluation.ChecklistItem
}

func NewCategoryBuilder(record, category string, items []evaluation.ChecklistItem) *CategoryBuilder {
	return &CategoryBuilder{
		record:   record,
		category: category,
		items:    items,
	}
}

func (b *CategoryBuilder) Build() string {
	var prompt strings.Builder

	b.writeTask(&prompt)
	b.writeRecord(&prompt)
	b.writeItems(&prompt)
	b.writeOutputFormat(&prompt)

	return prompt.String()
}

func (b *CategoryBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are reviewing a health record against the \"")
	prompt.WriteString(b.category)
	prompt.WriteString("\" category of a longevity screening checklist.\n")
	prompt.WriteString("For each listed test or measurement, decide whether the record shows it was done.\n")
	prompt.WriteString("Judge strictly from the record text; this is a documentation review, not a diagnosis.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *CategoryBuilder) writeRecord(prompt *strings.Builder) {
	prompt.WriteString("<health_record>\n")
	prompt.WriteString(b.record)
	prompt.WriteString("\n</health_record>\n\n")
}

func (b *CategoryBuilder) writeItems(prompt *strings.Builder) {
	prompt.WriteString("<checklist_items>\n")
	for _, item := range b.items {
		prompt.WriteString("- ")
		prompt.WriteString(item.Name)
		if item.Rationale != "" {
			prompt.WriteString(" (")
			prompt.WriteString(item.Rationale)
			prompt.WriteString(")")
		}
		prompt.WriteString("\n")
	}
	prompt.WriteString("</checklist_items>\n\n")
}

func (b *CategoryBuilder) writeOutputFormat(prompt *strings.Builder) {
	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"category_status\": \"complete|partial|incomplete\",\n")
	prompt.WriteString("  \"items\": [\n")
	prompt.WriteString("    {\n")
	prompt.WriteString("      \"name\": \"item name exactly as listed\",\n")
	prompt.WriteString("      \"status\": \"found|partial|missing\",\n")
	prompt.WriteString("      \"reasoning\": \"Brief explanation\",\n")
	prompt.WriteString("      \"confidence\": 0.9,\n")
	prompt.WriteString("      \"value\": \"Reported value/date if present, or empty\"\n")
	prompt.WriteString("    }\n")
	prompt.WriteString("  ]\n")
	prompt.WriteString("}\n")
	prompt.WriteString("Include every listed item exactly once. Use \"partial\" for outdated\n")
	prompt.WriteString("or incomplete results, \"missing\" when the record shows nothing.\n")
	prompt.WriteString("</output_format>")
}
