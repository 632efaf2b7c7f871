package services

import (
	"context"

	"tailor/internal/domain/models"
)

// Summary is a generated commit message plus a longer change description.
type Summary struct {
	Message string `json:"message"`
	Changes string `json:"changes"`
}

// Summarizer is the commit-message collaborator: given the previous and new
// content it proposes a commit message and change summary. Implementations
// are best-effort; the commit engine must never depend on one succeeding.
type Summarizer interface {
	Summarize(ctx context.Context, oldContent, newContent models.Content) (*Summary, error)
}
