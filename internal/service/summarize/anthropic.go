package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"tailor/internal/domain/models"
	"tailor/internal/domain/services"
)

const summaryPrompt = `Compare the old and new resume content and generate a git-style commit message and summary of changes.

Old content:
%s

New content:
%s

Generate:
1. A concise commit message (under 50 characters)
2. A short summary of what changed

Return only JSON of the form:
{"message": "Add new project experience", "changes": "Added project 'E-commerce Platform'. Updated skills to include TypeScript."}`

// AnthropicSummarizer implements the services.Summarizer interface using
// Claude. It is a best-effort collaborator: callers own the timeout and
// fall back to a fixed message on any error.
type AnthropicSummarizer struct {
	client *anthropic.Client
	model  string
	logger *slog.Logger
}

// NewAnthropicSummarizer creates a Claude-backed summarizer
func NewAnthropicSummarizer(apiKey, model string, logger *slog.Logger) (*AnthropicSummarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &AnthropicSummarizer{
		client: &client,
		model:  model,
		logger: logger,
	}, nil
}

// Summarize asks the model for a commit message describing the change
// between two content payloads.
func (s *AnthropicSummarizer) Summarize(ctx context.Context, oldContent, newContent models.Content) (*services.Summary, error) {
	oldJSON, err := json.MarshalIndent(oldContent, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode old content: %w", err)
	}
	newJSON, err := json.MarshalIndent(newContent, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode new content: %w", err)
	}

	prompt := fmt.Sprintf(summaryPrompt, oldJSON, newJSON)

	msg, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: 512,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("summarize request: %w", err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	summary, err := extractSummary(text)
	if err != nil {
		s.logger.Debug("unusable summarizer reply", "error", err)
		return nil, err
	}

	return summary, nil
}
