package summarize

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"tailor/internal/domain/services"
)

// extractSummary pulls a {message, changes} object out of a model reply.
// Models wrap JSON in prose or code fences more often than not, so this
// takes the outermost brace-delimited block rather than decoding the whole
// reply.
func extractSummary(text string) (*services.Summary, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in summarizer reply")
	}

	block := text[start : end+1]
	if !gjson.Valid(block) {
		return nil, fmt.Errorf("invalid JSON in summarizer reply")
	}

	parsed := gjson.Parse(block)
	message := strings.TrimSpace(parsed.Get("message").String())
	if message == "" {
		return nil, fmt.Errorf("summarizer reply missing message")
	}

	return &services.Summary{
		Message: message,
		Changes: strings.TrimSpace(parsed.Get("changes").String()),
	}, nil
}
