package prompt

import (
	"strings"

	"clinical-eval-be/pkg/evaluation"
)

// EligibilityBuilder renders the single-criterion evaluation prompt.
// It never truncates the record: size ceilings are enforced at session
// creation, before any prompt is built.
type EligibilityBuilder struct {
	record    string
	criterion evaluation.Criterion
}

func NewEligibilityBuilder(record string, criterion evaluation.Criterion) *EligibilityBuilder {
	return &EligibilityBuilder{
		record:    record,
		criterion: criterion,
	}
}

func (b *EligibilityBuilder) Build() string {
	var prompt strings.Builder

	b.writeTask(&prompt)
	b.writeRecord(&prompt)
	b.writeCriterion(&prompt)
	b.writeOutputFormat(&prompt)

	return prompt.String()
}

func (b *EligibilityBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a clinical research coordinator screening a patient record against one trial criterion.\n")
	prompt.WriteString("Judge strictly from the record text. Do not assume facts that are not stated.\n")
	prompt.WriteString("This is a screening aid, not medical advice; a clinician reviews every verdict.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *EligibilityBuilder) writeRecord(prompt *strings.Builder) {
	prompt.WriteString("<patient_record>\n")
	prompt.WriteString(b.record)
	prompt.WriteString("\n</patient_record>\n\n")
}

func (b *EligibilityBuilder) writeCriterion(prompt *strings.Builder) {
	prompt.WriteString("<criterion>\n")
	prompt.WriteString("Type: ")
	prompt.WriteString(string(b.criterion.Type))
	prompt.WriteString("\n")
	prompt.WriteString("Text: ")
	prompt.WriteString(b.criterion.Text)
	prompt.WriteString("\n")
	if b.criterion.Rationale != "" {
		prompt.WriteString("Why it matters: ")
		prompt.WriteString(b.criterion.Rationale)
		prompt.WriteString("\n")
	}
	prompt.WriteString("</criterion>\n\n")
}

func (b *EligibilityBuilder) writeOutputFormat(prompt *strings.Builder) {
	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"status\": \"matched|non-matched|needs-more-info\",\n")
	prompt.WriteString("  \"reasoning\": \"Brief explanation grounded in the record\",\n")
	prompt.WriteString("  \"confidence\": 0.95,\n")
	prompt.WriteString("  \"evidence\": \"Verbatim supporting excerpt, or empty\"\n")
	prompt.WriteString("}\n")
	prompt.WriteString("Use \"matched\" when the record satisfies the criterion text,\n")
	prompt.WriteString("\"non-matched\" when it contradicts it, and \"needs-more-info\"\n")
	prompt.WriteString("when the record is silent or ambiguous.\n")
	prompt.WriteString("</output_format>")
}
