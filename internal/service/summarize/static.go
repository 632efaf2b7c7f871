package summarize

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"tailor/internal/domain/models"
	"tailor/internal/domain/services"
)

// StaticSummarizer implements the services.Summarizer interface without any
// external service: it names the top-level resume sections that changed.
// Used when no API key is configured, and in tests.
type StaticSummarizer struct{}

// NewStaticSummarizer creates a deterministic local summarizer
func NewStaticSummarizer() *StaticSummarizer {
	return &StaticSummarizer{}
}

// Summarize diffs the top-level sections of the two payloads.
func (s *StaticSummarizer) Summarize(_ context.Context, oldContent, newContent models.Content) (*services.Summary, error) {
	changed := changedSections(oldContent, newContent)
	if len(changed) == 0 {
		return &services.Summary{
			Message: "Update resume content",
			Changes: "No section-level changes detected",
		}, nil
	}

	return &services.Summary{
		Message: "Update " + strings.Join(changed, ", "),
		Changes: fmt.Sprintf("Changed sections: %s", strings.Join(changed, ", ")),
	}, nil
}

// changedSections returns the sorted top-level keys that differ.
func changedSections(oldContent, newContent models.Content) []string {
	keys := make(map[string]struct{})
	for k := range oldContent {
		keys[k] = struct{}{}
	}
	for k := range newContent {
		keys[k] = struct{}{}
	}

	var changed []string
	for k := range keys {
		if !reflect.DeepEqual(oldContent[k], newContent[k]) {
			changed = append(changed, k)
		}
	}
	sort.Strings(changed)
	return changed
}
