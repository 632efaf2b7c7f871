package summarize

import "testing"

func TestExtractSummary(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantMessage string
		wantChanges string
		wantErr     bool
	}{
		{
			name:        "bare json",
			text:        `{"message": "Add skills section", "changes": "Added Go and Postgres"}`,
			wantMessage: "Add skills section",
			wantChanges: "Added Go and Postgres",
		},
		{
			name:        "json inside prose",
			text:        "Here is the summary you asked for:\n{\"message\": \"Rewrite summary\"}\nLet me know if you need anything else.",
			wantMessage: "Rewrite summary",
		},
		{
			name:        "json in code fence",
			text:        "```json\n{\"message\": \"Trim experience\", \"changes\": \"Removed two old roles\"}\n```",
			wantMessage: "Trim experience",
			wantChanges: "Removed two old roles",
		},
		{
			name:        "whitespace trimmed",
			text:        `{"message": "  Tidy layout  ", "changes": "  spacing  "}`,
			wantMessage: "Tidy layout",
			wantChanges: "spacing",
		},
		{
			name:    "no json at all",
			text:    "I could not produce a summary.",
			wantErr: true,
		},
		{
			name:    "braces but invalid json",
			text:    `{message: unquoted}`,
			wantErr: true,
		},
		{
			name:    "missing message field",
			text:    `{"changes": "something"}`,
			wantErr: true,
		},
		{
			name:    "blank message",
			text:    `{"message": "   "}`,
			wantErr: true,
		},
		{
			name:    "empty reply",
			text:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := extractSummary(tt.text)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("extractSummary() = %+v, want error", summary)
				}
				return
			}
			if err != nil {
				t.Fatalf("extractSummary() = %v", err)
			}
			if summary.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", summary.Message, tt.wantMessage)
			}
			if summary.Changes != tt.wantChanges {
				t.Errorf("Changes = %q, want %q", summary.Changes, tt.wantChanges)
			}
		})
	}
}
