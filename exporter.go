package nb2md

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/alnah/nb2md/internal/assets"
	"github.com/alnah/nb2md/internal/fileutil"
	"github.com/alnah/nb2md/internal/notebook"
	"github.com/alnah/nb2md/internal/pipeline"
	"github.com/alnah/nb2md/internal/render"
)

// Compile-time interface implementation checks.
var (
	_ render.Renderer      = (*render.TemplateRenderer)(nil)
	_ render.HTMLConverter = (*render.GoldmarkConverter)(nil)
	_ assets.AssetLoader   = (*assets.AssetResolver)(nil)
)

// Exporter loads notebooks, runs the cleaning pipeline and renders markdown.
// Its configuration is fixed at construction, so one Exporter may serve
// concurrent Export and Convert calls.
type Exporter struct {
	cfg           exporterConfig
	pipeline      *pipeline.Pipeline
	loader        assets.AssetLoader
	renderer      render.Renderer
	htmlConverter render.HTMLConverter
	diag          io.Writer
}

// NewExporter creates an Exporter running the default pipeline.
// Use options to customize behavior (e.g., WithStages, WithTemplate, WithHTMLPreview).
// Returns error if a stage name is unknown or assets cannot be loaded.
func NewExporter(opts ...Option) (*Exporter, error) {
	e := &Exporter{
		cfg: exporterConfig{
			stageNames: DefaultStages(),
			template:   DefaultTemplate,
		},
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.cfg.stages != nil {
		e.pipeline = pipeline.New(e.cfg.stages...)
	} else {
		p, err := pipeline.Build(e.cfg.stageNames, e.cfg.options)
		if err != nil {
			return nil, err
		}
		e.pipeline = p
	}

	resolver, err := assets.NewAssetResolver(e.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	e.loader = resolver

	// Fail early on a bad template name instead of on the first export.
	if e.renderer == nil {
		if _, err := e.loader.LoadTemplate(e.cfg.template); err != nil {
			return nil, fmt.Errorf("loading template %q: %w", e.cfg.template, err)
		}
		e.renderer = render.NewTemplateRenderer(e.loader)
	}

	if e.cfg.html {
		if err := e.initHTMLConverter(); err != nil {
			return nil, err
		}
	}

	e.diag = io.Discard
	if e.cfg.diag != nil {
		e.diag = &syncWriter{w: e.cfg.diag}
	}

	return e, nil
}

// initHTMLConverter loads the preview style and builds the converter.
func (e *Exporter) initHTMLConverter() error {
	style := e.cfg.style
	if style == "" {
		style = DefaultStyle
	}
	css, err := e.loader.LoadStyle(style)
	if err != nil {
		if assets.IsNotFound(err) {
			return fmt.Errorf("%w: %q", ErrStyleNotFound, style)
		}
		return fmt.Errorf("loading style %q: %w", style, err)
	}
	e.htmlConverter = render.NewGoldmarkConverter(render.WithStyle(css))
	return nil
}

// Stages returns the names of the configured stages, in order.
func (e *Exporter) Stages() []string {
	return e.pipeline.Names()
}

// Export loads the notebook at path, cleans it, and renders it.
// A nil res is replaced by NewResources(path). The returned resources hold
// the extracted files, keyed by their path relative to the destination.
func (e *Exporter) Export(ctx context.Context, path string, res *Resources) (string, *Resources, error) {
	return e.export(ctx, path, res, e.diag)
}

// Convert exports the notebook at path and writes <dest>/<stem>.md together
// with its extracted files, plus <dest>/<stem>.html when the HTML preview is
// enabled. An empty dest writes next to the notebook.
// Stage warnings are returned in the result rather than written out.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (e *Exporter) Convert(ctx context.Context, path, dest string) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if dest == "" {
		dest = filepath.Dir(path)
	}

	var diag bytes.Buffer
	text, res, err := e.export(ctx, path, NewResources(path), &diag)
	if err != nil {
		return nil, err
	}

	stem := fileutil.Stem(path)
	writer := &render.FilesWriter{BuildDir: dest}
	files, err := writer.Write(text, res, stem, "md")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWrite, err)
	}

	if e.htmlConverter != nil {
		htmlPath, err := e.writePreview(ctx, text, dest, stem)
		if err != nil {
			return nil, err
		}
		files = append(files, htmlPath)
	}

	return &Result{
		Markdown:    text,
		Files:       files,
		Diagnostics: diag.String(),
	}, nil
}

// writePreview renders markdown to <dest>/<stem>.html.
func (e *Exporter) writePreview(ctx context.Context, markdown, dest, stem string) (string, error) {
	page, err := e.htmlConverter.ToHTML(ctx, markdown, stem)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	htmlPath, err := fileutil.SafeJoin(dest, stem+".html")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := fileutil.WriteFile(htmlPath, []byte(page)); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrWrite, htmlPath, err)
	}
	return htmlPath, nil
}

func (e *Exporter) export(ctx context.Context, path string, res *Resources, diag io.Writer) (string, *Resources, error) {
	if err := validateNotebookPath(path); err != nil {
		return "", nil, err
	}
	if res == nil {
		res = NewResources(path)
	}

	nb, err := notebook.Load(path)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrNotebookLoad, err)
	}

	nb, err = e.pipeline.Run(ctx, nb, res, diag)
	if err != nil {
		return "", nil, err
	}

	text, res, err := e.renderer.Render(nb, res, e.cfg.template)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return text, res, nil
}

// validateNotebookPath is the precondition check run before any stage.
func validateNotebookPath(path string) error {
	if !fileutil.HasExtension(path, NotebookExt) {
		return fmt.Errorf("%w: %s", ErrNotNotebook, path)
	}
	if !fileutil.FileExists(path) {
		return fmt.Errorf("%w: %s", ErrNotebookNotFound, path)
	}
	return nil
}

// syncWriter serializes writes from concurrent exports.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
