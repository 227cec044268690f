package prompt

import (
	"strings"

	"clinical-eval-be/pkg/store"
)

// ChatBuilder renders the record-chat prompt: preamble, the verbatim record,
// the session transcript, then the new question. Rendering is a pure step
// over the explicit transcript; the transcript entity stays separate from
// the prompt text it produces.
type ChatBuilder struct {
	record     string
	transcript []store.Message
	question   string
}

func NewChatBuilder(record string, transcript []store.Message, question string) *ChatBuilder {
	return &ChatBuilder{
		record:     record,
		transcript: transcript,
		question:   question,
	}
}

func (b *ChatBuilder) Build() string {
	var prompt strings.Builder

	b.writeTask(&prompt)
	b.writeRecord(&prompt)
	b.writeHistory(&prompt)
	b.writeQuestion(&prompt)

	return prompt.String()
}

func (b *ChatBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a careful assistant helping the user understand their own medical record.\n")
	prompt.WriteString("Base every answer strictly on the record below. If the record does not contain\n")
	prompt.WriteString("what is being asked, say so honestly. Do not provide a diagnosis or prescribe\n")
	prompt.WriteString("treatment; direct clinical questions to the user's provider.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *ChatBuilder) writeRecord(prompt *strings.Builder) {
	prompt.WriteString("<medical_record>\n")
	prompt.WriteString(b.record)
	prompt.WriteString("\n</medical_record>\n\n")
}

func (b *ChatBuilder) writeHistory(prompt *strings.Builder) {
	if len(b.transcript) == 0 {
		return
	}
	prompt.WriteString("<conversation_so_far>\n")
	for _, msg := range b.transcript {
		if msg.Role == store.RoleModel {
			prompt.WriteString("Assistant: ")
		} else {
			prompt.WriteString("User: ")
		}
		prompt.WriteString(msg.Content)
		prompt.WriteString("\n")
	}
	prompt.WriteString("</conversation_so_far>\n\n")
}

func (b *ChatBuilder) writeQuestion(prompt *strings.Builder) {
	prompt.WriteString("<user_question>\n")
	prompt.WriteString(b.question)
	prompt.WriteString("\n</user_question>\n\n")
	prompt.WriteString("Now provide your complete answer based on the medical record:")
}
