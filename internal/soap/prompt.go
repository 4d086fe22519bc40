package soap

import (
	_ "embed"
	"strings"
)

// SystemPrompt is sent as the system role message on every completion.
const SystemPrompt = "Assistant is a conversation constructor between the doctor and patient."

const transcriptPlaceholder = "{{transcript}}"

//go:embed prompt.tmpl
var promptTemplate string

// BuildPrompt returns the SOAP instruction block with the transcript
// substituted verbatim. The transcript is neither escaped nor truncated.
func BuildPrompt(transcript string) string {
	return strings.Replace(promptTemplate, transcriptPlaceholder, transcript, 1)
}
