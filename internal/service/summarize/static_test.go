package summarize

import (
	"context"
	"testing"

	"tailor/internal/domain/models"
)

func TestStaticSummarizer(t *testing.T) {
	tests := []struct {
		name       string
		oldContent models.Content
		newContent models.Content
		want       string
	}{
		{
			name:       "single section changed",
			oldContent: models.Content{"summary": "old", "skills": []any{"Go"}},
			newContent: models.Content{"summary": "new", "skills": []any{"Go"}},
			want:       "Update summary",
		},
		{
			name:       "multiple sections sorted",
			oldContent: models.Content{"summary": "a", "skills": "b", "education": "c"},
			newContent: models.Content{"summary": "x", "skills": "y", "education": "c"},
			want:       "Update skills, summary",
		},
		{
			name:       "section added",
			oldContent: models.Content{"summary": "a"},
			newContent: models.Content{"summary": "a", "experience": []any{"Acme"}},
			want:       "Update experience",
		},
		{
			name:       "section removed",
			oldContent: models.Content{"summary": "a", "projects": "b"},
			newContent: models.Content{"summary": "a"},
			want:       "Update projects",
		},
		{
			name:       "no changes",
			oldContent: models.Content{"summary": "same"},
			newContent: models.Content{"summary": "same"},
			want:       "Update resume content",
		},
		{
			name:       "first commit has no previous content",
			oldContent: nil,
			newContent: models.Content{"summary": "hello"},
			want:       "Update summary",
		},
	}

	s := NewStaticSummarizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := s.Summarize(context.Background(), tt.oldContent, tt.newContent)
			if err != nil {
				t.Fatalf("Summarize() = %v", err)
			}
			if summary.Message != tt.want {
				t.Errorf("Message = %q, want %q", summary.Message, tt.want)
			}
		})
	}
}
