package models

import "testing"

func TestContentClone(t *testing.T) {
	original := Content{
		"summary": "engineer",
		"experience": []any{
			map[string]any{"company": "Acme", "highlights": []any{"a", "b"}},
		},
	}

	clone := original.Clone()
	if !clone.Equal(original) {
		t.Fatalf("Clone() = %v, want equal to original", clone)
	}

	// Deep copy: mutating nested structures must not reach the original.
	clone["summary"] = "changed"
	clone["experience"].([]any)[0].(map[string]any)["company"] = "Other"

	if original["summary"] != "engineer" {
		t.Errorf("top-level mutation leaked into original: %v", original)
	}
	if original["experience"].([]any)[0].(map[string]any)["company"] != "Acme" {
		t.Errorf("nested mutation leaked into original: %v", original)
	}
}

func TestContentCloneNil(t *testing.T) {
	var c Content
	clone := c.Clone()
	if clone == nil {
		t.Fatal("Clone() of nil = nil, want empty content")
	}
	if len(clone) != 0 {
		t.Errorf("Clone() of nil = %v, want empty", clone)
	}
}

func TestContentEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Content
		want bool
	}{
		{name: "both empty", a: Content{}, b: Content{}, want: true},
		{name: "same values", a: Content{"k": "v"}, b: Content{"k": "v"}, want: true},
		{name: "different values", a: Content{"k": "v"}, b: Content{"k": "w"}, want: false},
		{name: "different keys", a: Content{"k": "v"}, b: Content{"j": "v"}, want: false},
		{
			name: "nested equal",
			a:    Content{"list": []any{map[string]any{"x": 1.0}}},
			b:    Content{"list": []any{map[string]any{"x": 1.0}}},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}
