package templates

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Template describes a resume layout a version can reference. Rendering is
// the frontend's concern; the backend only tracks which template a working
// version uses.
type Template struct {
	ID           string `yaml:"id" json:"id"`
	Name         string `yaml:"name" json:"name"`
	Description  string `yaml:"description" json:"description"`
	ATSCompliant bool   `yaml:"ats_compliant" json:"ats_compliant"`
}

type templateFile struct {
	Templates []Template `yaml:"templates"`
}

// Registry holds the available resume templates, loaded once from the
// embedded YAML at startup. Read-only after construction.
type Registry struct {
	templates []Template
	byID      map[string]*Template
}

// NewRegistry creates a template registry from the embedded YAML file.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/templates.yaml")
	if err != nil {
		return nil, fmt.Errorf("read templates config: %w", err)
	}

	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal templates config: %w", err)
	}
	if len(file.Templates) == 0 {
		return nil, fmt.Errorf("templates config is empty")
	}

	r := &Registry{
		templates: file.Templates,
		byID:      make(map[string]*Template, len(file.Templates)),
	}
	for i := range r.templates {
		t := &r.templates[i]
		if t.ID == "" {
			return nil, fmt.Errorf("template at index %d has no id", i)
		}
		if _, dup := r.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate template id %q", t.ID)
		}
		r.byID[t.ID] = t
	}

	// New projects default to an ATS-compliant template.
	if r.Default() == nil {
		return nil, fmt.Errorf("no ATS-compliant template configured")
	}

	return r, nil
}

// List returns all templates in configuration order.
func (r *Registry) List() []Template {
	out := make([]Template, len(r.templates))
	copy(out, r.templates)
	return out
}

// GetByID returns a template or nil when unknown.
func (r *Registry) GetByID(id string) *Template {
	return r.byID[id]
}

// Default returns the first ATS-compliant template.
func (r *Registry) Default() *Template {
	for i := range r.templates {
		if r.templates[i].ATSCompliant {
			return &r.templates[i]
		}
	}
	return nil
}
