package pipeline

import "strings"

// stripCodeFence removes exactly one leading ```json marker and one trailing
// ``` marker from an LLM reply. No other markdown cleanup is attempted; a
// reply that still is not valid JSON after this is a parse failure.
func stripCodeFence(s string) string {
	cleaned := strings.TrimSpace(s)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = cleaned[:len(cleaned)-len("```")]
	}
	return strings.TrimSpace(cleaned)
}
