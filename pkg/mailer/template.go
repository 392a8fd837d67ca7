package mailer

import (
	"bytes"
	"fmt"
	"text/template"
)

// Built-in notification templates, keyed by identifier. Deployments can
// register replacements before the renderer is handed to the notifier.
var defaultTemplates = map[string]string{
	"notify_new_post": `{{.author}} posted in "{{.subject}}":

{{.text}}

--
You are receiving this because you watch this thread.
`,
	"invitation_received": `{{.sender}} invited you to join the group "{{.group}}".
`,
	"invitation_cancelled": `The invitation to join the group "{{.group}}" was cancelled.
`,
}

// Renderer renders a named template against a context map
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses the built-in templates
func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(defaultTemplates))}
	for name, text := range defaultTemplates {
		t, err := template.New(name).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// Register adds or replaces a template
func (r *Renderer) Register(name, text string) error {
	t, err := template.New(name).Parse(text)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", name, err)
	}
	r.templates[name] = t
	return nil
}

// Render executes the named template with the given context
func (r *Renderer) Render(name string, ctx map[string]interface{}) (string, error) {
	t, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.String(), nil
}
