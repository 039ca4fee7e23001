// Package render turns a form's template key and validated submission data
// into an email subject and HTML body.
package render

import (
	"encoding/json"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/osteele/liquid"

	"form-gateway/internal/common/errors"
)

// Message is a rendered subject and HTML body. Only constructible from data
// that already passed origin, schema and captcha checks.
type Message struct {
	Subject string
	Body    string
}

// Template is one registered rendering variant. Each template key maps to a
// fixed subject rule and body layout; adding a form template is a new
// compile-time-checked variant, not a string-matching fallthrough.
type Template interface {
	Key() string
	Subject(data map[string]string) string
	Body(data map[string]string) (string, error)
}

// Renderer dispatches on template key. Built once at startup; safe for
// concurrent use.
type Renderer struct {
	templates map[string]Template
}

// NewRenderer parses every body template up front so malformed templates
// fail at startup.
func NewRenderer() (*Renderer, error) {
	engine := liquid.NewEngine()

	all, err := newTemplates(engine)
	if err != nil {
		return nil, err
	}

	r := &Renderer{templates: make(map[string]Template, len(all))}
	for _, t := range all {
		r.templates[t.Key()] = t
	}
	return r, nil
}

// Supports reports whether a template key is known. The registry calls this
// at load time so unknown keys never reach Render.
func (r *Renderer) Supports(key string) bool {
	_, ok := r.templates[key]
	return ok
}

// Render produces the message for a template key. An unknown key is a
// configuration bug (the registry is validated at startup), surfaced as a
// ConfigurationError rather than a client error. Missing optional fields
// render as empty, never as errors.
func (r *Renderer) Render(key string, data map[string]string) (*Message, error) {
	tmpl, ok := r.templates[key]
	if !ok {
		return nil, errors.NewConfigurationError(fmt.Sprintf("unknown template key %q", key))
	}

	body, err := tmpl.Body(data)
	if err != nil {
		return nil, errors.NewConfigurationError(fmt.Sprintf("render template %q: %v", key, err))
	}

	return &Message{
		Subject: tmpl.Subject(data),
		Body:    body,
	}, nil
}

func newTemplates(engine *liquid.Engine) ([]Template, error) {
	specs := []struct {
		key     string
		body    string
		subject func(data map[string]string) string
	}{
		{
			key:  KeyContact,
			body: contactBody,
			subject: func(data map[string]string) string {
				return "New Contact: " + valueOr(data, "service_type", "General")
			},
		},
		{
			key:  KeySupport,
			body: supportBody,
			subject: func(data map[string]string) string {
				return "Support Ticket - " + strings.ToUpper(valueOr(data, "priority", "Normal"))
			},
		},
		{
			key:  KeyNewsletter,
			body: newsletterBody,
			subject: func(map[string]string) string {
				return "New Newsletter Subscriber"
			},
		},
		{
			key:  KeyGeneric,
			body: genericBody,
			subject: func(map[string]string) string {
				return "New Form Submission"
			},
		},
	}

	out := make([]Template, 0, len(specs))
	for _, spec := range specs {
		tmpl, err := engine.ParseString(spec.body)
		if err != nil {
			return nil, fmt.Errorf("parse template %q: %w", spec.key, err)
		}
		out = append(out, &liquidTemplate{
			key:       spec.key,
			tmpl:      tmpl,
			subjectFn: spec.subject,
		})
	}
	return out, nil
}

// liquidTemplate renders its body with escaped submission values bound as
// liquid variables.
type liquidTemplate struct {
	key       string
	tmpl      *liquid.Template
	subjectFn func(data map[string]string) string
}

func (t *liquidTemplate) Key() string {
	return t.key
}

func (t *liquidTemplate) Subject(data map[string]string) string {
	return t.subjectFn(data)
}

func (t *liquidTemplate) Body(data map[string]string) (string, error) {
	return t.tmpl.RenderString(bindings(t.key, data))
}

// bindings escapes every submitted value before it is interpolated into the
// HTML body. The generic template additionally gets a stable key-sorted dump
// of the whole payload.
func bindings(key string, data map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(data)+1)
	for k, v := range data {
		out[k] = html.EscapeString(v)
	}

	if key == KeyGeneric {
		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var b strings.Builder
		for _, k := range keys {
			line, _ := json.Marshal(map[string]string{k: data[k]})
			b.Write(line)
			b.WriteByte('\n')
		}
		out["payload"] = html.EscapeString(b.String())
	}

	return out
}

func valueOr(data map[string]string, key, fallback string) string {
	if v := strings.TrimSpace(data[key]); v != "" {
		return v
	}
	return fallback
}
