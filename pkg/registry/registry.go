// Package registry holds the static mapping from form identifier to form
// definition. The registry is built once at startup, validated for internal
// consistency, and read-only for the process lifetime.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Registry is an immutable, insertion-ordered set of form definitions.
// Safe for concurrent reads without locking.
type Registry struct {
	order []string
	forms map[string]FormDefinition
}

// Load reads and validates a registry document from path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry file: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(documentSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validate registry document: %w", err)
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, fmt.Errorf("registry document invalid: %s", strings.Join(problems, "; "))
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse registry document: %w", err)
	}

	return New(doc.Forms)
}

// New builds a registry from form definitions, rejecting duplicates and
// malformed entries so misconfigurations fail at startup rather than at
// request time.
func New(forms []FormDefinition) (*Registry, error) {
	r := &Registry{
		order: make([]string, 0, len(forms)),
		forms: make(map[string]FormDefinition, len(forms)),
	}

	for _, form := range forms {
		if form.ID == "" {
			return nil, fmt.Errorf("form with empty id")
		}
		if _, exists := r.forms[form.ID]; exists {
			return nil, fmt.Errorf("duplicate form id %q", form.ID)
		}
		if form.Name == "" {
			return nil, fmt.Errorf("form %q: name is required", form.ID)
		}
		if len(form.Fields) == 0 {
			return nil, fmt.Errorf("form %q: at least one field is required", form.ID)
		}
		for _, field := range form.Fields {
			if strings.TrimSpace(field) == "" {
				return nil, fmt.Errorf("form %q: empty field name", form.ID)
			}
		}
		if len(form.Recipients) == 0 {
			return nil, fmt.Errorf("form %q: at least one recipient is required", form.ID)
		}
		for _, rcpt := range form.Recipients {
			if !strings.Contains(rcpt, "@") {
				return nil, fmt.Errorf("form %q: invalid recipient %q", form.ID, rcpt)
			}
		}
		if form.Template == "" {
			return nil, fmt.Errorf("form %q: template key is required", form.ID)
		}

		r.order = append(r.order, form.ID)
		r.forms[form.ID] = form
	}

	return r, nil
}

// Default returns the built-in registry used when no registry file is
// configured.
func Default() *Registry {
	r, err := New([]FormDefinition{
		{
			ID:         "contact",
			Name:       "Contact Form",
			Fields:     []string{"name", "email", "message"},
			Recipients: []string{"info@h190k.com"},
			Template:   "contact",
		},
		{
			ID:         "support",
			Name:       "Support Form",
			Fields:     []string{"name", "email", "priority", "issue", "description"},
			Recipients: []string{"support@h190k.com"},
			Template:   "support",
		},
		{
			ID:         "newsletter",
			Name:       "Newsletter Signup",
			Fields:     []string{"name", "email"},
			Recipients: []string{"newsletter@h190k.com"},
			Template:   "newsletter",
		},
	})
	if err != nil {
		// Built-in definitions are compile-time constants.
		panic(err)
	}
	return r
}

// Lookup returns the definition for a form id.
func (r *Registry) Lookup(id string) (FormDefinition, bool) {
	form, ok := r.forms[id]
	return form, ok
}

// List returns the public view of every form in insertion order. The order
// is stable across calls.
func (r *Registry) List() []FormSummary {
	out := make([]FormSummary, 0, len(r.order))
	for _, id := range r.order {
		form := r.forms[id]
		out = append(out, FormSummary{
			ID:     form.ID,
			Name:   form.Name,
			Fields: form.Fields,
		})
	}
	return out
}

// Forms returns every definition in insertion order.
func (r *Registry) Forms() []FormDefinition {
	out := make([]FormDefinition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.forms[id])
	}
	return out
}

// ValidateTemplates checks that every form's template key is resolvable by
// the renderer, turning request-time configuration errors into startup
// failures.
func (r *Registry) ValidateTemplates(supports func(key string) bool) error {
	for _, id := range r.order {
		if key := r.forms[id].Template; !supports(key) {
			return fmt.Errorf("form %q: unknown template key %q", id, key)
		}
	}
	return nil
}
