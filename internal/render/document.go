package render

import (
	"strings"

	"github.com/alnah/nb2md/internal/notebook"
	"github.com/alnah/nb2md/internal/pipeline"
)

// Output kinds exposed to templates.
const (
	KindStream   = "stream"
	KindText     = "text"
	KindMarkdown = "markdown"
	KindHTML     = "html"
	KindLatex    = "latex"
	KindImage    = "image"
	KindError    = "error"
)

// Document is the data model templates are executed against.
type Document struct {
	Name     string
	Language string
	Metadata notebook.Metadata
	Cells    []CellView
}

// CellView is a template-friendly projection of a cell.
type CellView struct {
	ID       string
	Type     string // "code", "markdown" or "raw"
	Source   string
	Language string // Code cells only
	Hidden   bool   // Input removed by tag
	Tags     []string
	Outputs  []OutputView
}

// OutputView is the single representation chosen for one output.
type OutputView struct {
	Kind string
	MIME string
	Text string // Textual payload
	Path string // Extracted file, for images
}

// richOrder is the MIME preference for display outputs.
var richOrder = []string{
	"text/html",
	"text/markdown",
	"image/svg+xml",
	"text/latex",
	"image/png",
	"image/jpeg",
	"text/plain",
}

var mimeKinds = map[string]string{
	"text/html":     KindHTML,
	"text/markdown": KindMarkdown,
	"text/latex":    KindLatex,
	"text/plain":    KindText,
	"image/svg+xml": KindImage,
	"image/png":     KindImage,
	"image/jpeg":    KindImage,
}

// NewDocument projects nb into the template data model.
func NewDocument(nb *notebook.Notebook, res *pipeline.Resources) Document {
	lang := nb.Language()
	doc := Document{
		Language: lang,
		Metadata: nb.Metadata,
		Cells:    make([]CellView, 0, len(nb.Cells)),
	}
	if res != nil {
		doc.Name = res.Name
	}

	for _, c := range nb.Cells {
		view := CellView{
			ID:     c.ID,
			Type:   string(c.Type),
			Source: c.Source,
			Hidden: c.SourceHidden(),
			Tags:   c.Tags(),
		}
		if c.IsCode() {
			view.Language = c.Language()
			if view.Language == "" {
				view.Language = lang
			}
			for _, o := range c.Outputs {
				if ov, ok := viewOutput(o); ok {
					view.Outputs = append(view.Outputs, ov)
				}
			}
		}
		doc.Cells = append(doc.Cells, view)
	}
	return doc
}

func viewOutput(o *notebook.Output) (OutputView, bool) {
	switch o.Type {
	case notebook.Stream:
		return OutputView{Kind: KindStream, Text: o.Text}, true
	case notebook.Error:
		tb := pipeline.RemoveANSI(strings.Join(o.Traceback, "\n"))
		if tb == "" {
			tb = o.EName + ": " + o.EValue
		}
		return OutputView{Kind: KindError, Text: tb}, true
	}

	for _, mime := range richOrder {
		kind := mimeKinds[mime]
		if kind == KindImage {
			if path, ok := o.Filename(mime); ok {
				return OutputView{Kind: kind, MIME: mime, Path: path}, true
			}
			continue
		}
		if text, ok := o.Data.Text(mime); ok {
			return OutputView{Kind: kind, MIME: mime, Text: text}, true
		}
	}
	return OutputView{}, false
}
