package nb2md

import (
	"io"
	"slices"

	"github.com/alnah/nb2md/internal/fileutil"
	"github.com/alnah/nb2md/internal/notebook"
	"github.com/alnah/nb2md/internal/pipeline"
	"github.com/alnah/nb2md/internal/render"
)

// NotebookExt is the file extension of accepted inputs.
const NotebookExt = ".ipynb"

// Notebook is the in-memory notebook tree the stages operate on.
type Notebook = notebook.Notebook

// Resources carries naming and extracted files alongside a notebook.
type Resources = pipeline.Resources

// Stage is one step of the cleaning pipeline.
type Stage = pipeline.Stage

// TagRules lists the cell tags that trigger removal.
type TagRules = pipeline.TagRules

// Renderer turns a cleaned notebook into text.
type Renderer = render.Renderer

// NewResources returns the resources used for exporting the notebook at path:
// extracted files land in a directory named after the notebook stem.
func NewResources(path string) *Resources {
	stem := fileutil.Stem(path)
	return &Resources{
		UniqueKey:      stem,
		OutputFilesDir: stem,
		Name:           stem,
	}
}

// DefaultStages returns the stage names of the default pipeline, in order.
func DefaultStages() []string {
	return slices.Clone(pipeline.DefaultStageNames)
}

// KnownStages returns every stage name accepted by WithStages, sorted.
func KnownStages() []string {
	return pipeline.KnownStages()
}

// DefaultTagRules returns the built-in tag sets used by the TagRemove stage.
func DefaultTagRules() TagRules {
	return pipeline.DefaultTagRules()
}

// Result is the outcome of Convert.
type Result struct {
	Markdown    string   // Rendered document
	Files       []string // Paths written, the markdown document first
	Diagnostics string   // Warnings emitted by the stages, one per line
}

// Option configures an Exporter.
type Option func(*Exporter)

// exporterConfig holds internal configuration for Exporter.
type exporterConfig struct {
	stageNames []string
	stages     []Stage // Overrides stageNames when set
	options    pipeline.Options
	template   string
	assetPath  string
	style      string
	html       bool
	diag       io.Writer
}

// WithStages selects the named stages, in order.
func WithStages(names ...string) Option {
	return func(e *Exporter) {
		e.cfg.stageNames = slices.Clone(names)
	}
}

// WithPipeline replaces the named stages with caller-built ones.
func WithPipeline(stages ...Stage) Option {
	return func(e *Exporter) {
		e.cfg.stages = slices.Clone(stages)
	}
}

// WithTestFlags sets the test flags CleanFlags strips from code cells,
// e.g. "slow" removes "#slow" comment lines.
func WithTestFlags(flags ...string) Option {
	return func(e *Exporter) {
		e.cfg.options.TestFlags = slices.Clone(flags)
	}
}

// WithTagRules overrides the tags that trigger cell, output, or input removal.
func WithTagRules(rules TagRules) Option {
	return func(e *Exporter) {
		e.cfg.options.Tags = rules
	}
}

// WithTemplate selects the rendering template by name.
func WithTemplate(name string) Option {
	return func(e *Exporter) {
		e.cfg.template = name
	}
}

// WithAssetPath sets a directory whose templates/ and styles/ override the built-ins.
func WithAssetPath(dir string) Option {
	return func(e *Exporter) {
		e.cfg.assetPath = dir
	}
}

// WithHTMLPreview makes Convert also write a standalone HTML preview
// using the named style. An empty style selects DefaultStyle.
func WithHTMLPreview(style string) Option {
	return func(e *Exporter) {
		e.cfg.html = true
		e.cfg.style = style
	}
}

// WithRenderer replaces the template renderer.
func WithRenderer(r Renderer) Option {
	return func(e *Exporter) {
		e.renderer = r
	}
}

// WithDiagnostics sets where Export writes stage warnings.
// Writes are serialized, so one writer may be shared by concurrent exports.
func WithDiagnostics(w io.Writer) Option {
	return func(e *Exporter) {
		e.cfg.diag = w
	}
}
