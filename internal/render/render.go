// Package render turns a cleaned notebook into its final text form and
// writes the result, with extracted files, to disk.
package render

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/alnah/nb2md/internal/assets"
	"github.com/alnah/nb2md/internal/notebook"
	"github.com/alnah/nb2md/internal/pipeline"
)

// Sentinel errors for rendering.
var (
	ErrTemplateParse   = errors.New("template parse failed")
	ErrTemplateExecute = errors.New("template execution failed")
)

// Renderer converts a cleaned notebook into text using the template named
// by ref. It returns the resources, possibly extended, alongside the text.
type Renderer interface {
	Render(nb *notebook.Notebook, res *pipeline.Resources, ref string) (string, *pipeline.Resources, error)
}

// TemplateRenderer renders notebooks with text/template templates obtained
// from an asset loader. Parsed templates are cached by name; the renderer
// is safe for concurrent use.
type TemplateRenderer struct {
	loader assets.AssetLoader

	mu    sync.Mutex
	cache map[string]*template.Template
}

// NewTemplateRenderer creates a renderer backed by loader.
func NewTemplateRenderer(loader assets.AssetLoader) *TemplateRenderer {
	return &TemplateRenderer{loader: loader, cache: make(map[string]*template.Template)}
}

// Render executes template ref (the default template when empty) over nb.
func (r *TemplateRenderer) Render(nb *notebook.Notebook, res *pipeline.Resources, ref string) (string, *pipeline.Resources, error) {
	if ref == "" {
		ref = assets.DefaultTemplateName
	}
	if res == nil {
		res = &pipeline.Resources{}
	}

	tmpl, err := r.template(ref)
	if err != nil {
		return "", res, err
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, NewDocument(nb, res)); err != nil {
		return "", res, fmt.Errorf("%w: %s: %v", ErrTemplateExecute, ref, err)
	}
	return Tidy(buf.String()), res, nil
}

func (r *TemplateRenderer) template(name string) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.cache[name]; ok {
		return t, nil
	}

	src, err := r.loader.LoadTemplate(name)
	if err != nil {
		return nil, err
	}
	t, err := template.New(name).Funcs(templateFuncs).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateParse, name, err)
	}
	r.cache[name] = t
	return t, nil
}

var templateFuncs = template.FuncMap{
	"trim":   strings.TrimSpace,
	"indent": indent,
	"join":   strings.Join,
	"lower":  strings.ToLower,
}

// indent prefixes every non-empty line of s with n spaces.
func indent(n int, s string) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}

// Compile-time interface check.
var _ Renderer = (*TemplateRenderer)(nil)
