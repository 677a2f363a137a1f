// Package notebook models computational notebook documents (nbformat v4)
// and converts them to and from their JSON representation.
//
// The model is deliberately mutable: pipeline stages rewrite cell source,
// metadata, and outputs in place, and notebook-level stages replace the
// cell slice. A Notebook is owned by a single conversion run at a time.
package notebook

import (
	"fmt"
	"sort"
	"strings"
)

// CellType discriminates the three cell variants.
type CellType string

// Cell types defined by nbformat.
const (
	Code     CellType = "code"
	Markdown CellType = "markdown"
	Raw      CellType = "raw"
)

// OutputType discriminates code cell outputs.
type OutputType string

// Output types defined by nbformat.
const (
	Stream        OutputType = "stream"
	DisplayData   OutputType = "display_data"
	ExecuteResult OutputType = "execute_result"
	Error         OutputType = "error"
)

// Metadata keys with a meaning for the export pipeline.
const (
	// DirectiveKey is the metadata namespace populated from #meta: comments.
	DirectiveKey = "nbprocess"

	// TagsKey holds the cell tag list.
	TagsKey = "tags"

	// LanguageKey overrides the language used when rendering a code cell.
	LanguageKey = "magics_language"

	// TransientKey holds render-time flags that are never part of the source.
	TransientKey = "transient"

	// RemoveSourceKey, inside TransientKey, hides a cell's input.
	RemoveSourceKey = "remove_source"

	// FilenamesKey, inside output metadata, maps MIME types to extracted files.
	FilenamesKey = "filenames"
)

// StdoutStream is the stream name for standard output.
const StdoutStream = "stdout"

// Metadata is a free-form string-keyed mapping, as stored in notebook JSON.
type Metadata map[string]any

// Notebook is an ordered sequence of cells plus document metadata.
type Notebook struct {
	Cells         []*Cell
	Metadata      Metadata
	NBFormat      int
	NBFormatMinor int
}

// Cell is one addressable unit of a notebook.
// Outputs and ExecutionCount are only meaningful for code cells;
// Attachments only for markdown and raw cells.
type Cell struct {
	ID             string
	Type           CellType
	Source         string
	Metadata       Metadata
	Outputs        []*Output
	ExecutionCount *int
	Attachments    map[string]MimeBundle
}

// Output is a single code cell output record.
type Output struct {
	Type OutputType

	// Stream outputs.
	Name string
	Text string

	// Rich outputs (display_data, execute_result).
	Data           MimeBundle
	Metadata       Metadata
	ExecutionCount *int

	// Error outputs.
	EName     string
	EValue    string
	Traceback []string
}

// MimeBundle maps MIME types to payloads. Text payloads are always strings;
// JSON payloads keep their decoded structure.
type MimeBundle map[string]any

// Text returns the payload for mime if it is textual.
func (b MimeBundle) Text(mime string) (string, bool) {
	v, ok := b[mime]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Keys returns the MIME types in sorted order.
func (b MimeBundle) Keys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// New returns an empty nbformat 4.5 notebook.
func New(cells ...*Cell) *Notebook {
	return &Notebook{
		Cells:         cells,
		Metadata:      Metadata{},
		NBFormat:      4,
		NBFormatMinor: 5,
	}
}

// NewCell creates a cell with empty metadata.
func NewCell(typ CellType, id, source string) *Cell {
	return &Cell{ID: id, Type: typ, Source: source, Metadata: Metadata{}}
}

// IsCode reports whether the cell is a code cell.
func (c *Cell) IsCode() bool { return c.Type == Code }

// IsMarkdown reports whether the cell is a markdown cell.
func (c *Cell) IsMarkdown() bool { return c.Type == Markdown }

func (c *Cell) meta() Metadata {
	if c.Metadata == nil {
		c.Metadata = Metadata{}
	}
	return c.Metadata
}

// Directives returns a copy of the directive namespace.
// Non-string values loaded from disk are formatted with fmt.Sprint.
func (c *Cell) Directives() map[string]string {
	ns, ok := c.Metadata[DirectiveKey].(map[string]any)
	if !ok || len(ns) == 0 {
		return nil
	}
	out := make(map[string]string, len(ns))
	for k, v := range ns {
		if s, ok := v.(string); ok {
			out[k] = s
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	return out
}

// Directive returns a single directive value.
func (c *Cell) Directive(key string) (string, bool) {
	v, ok := c.Directives()[key]
	return v, ok
}

// SetDirective stores key=value in the directive namespace, creating it if needed.
func (c *Cell) SetDirective(key, value string) {
	m := c.meta()
	ns, ok := m[DirectiveKey].(map[string]any)
	if !ok {
		ns = map[string]any{}
		m[DirectiveKey] = ns
	}
	ns[key] = value
}

// Tags returns the cell tags. Tags stored as JSON arrays are converted;
// non-string entries are skipped.
func (c *Cell) Tags() []string {
	switch v := c.Metadata[TagsKey].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		tags := make([]string, 0, len(v))
		for _, t := range v {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
		return tags
	}
	return nil
}

// SetTags replaces the cell tag list.
func (c *Cell) SetTags(tags []string) {
	c.meta()[TagsKey] = tags
}

// HasAnyTag reports whether the cell carries at least one of the given tags.
func (c *Cell) HasAnyTag(tags ...string) bool {
	for _, have := range c.Tags() {
		for _, want := range tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// SetTransient sets a render-time flag under metadata.transient.
func (c *Cell) SetTransient(key string, value any) {
	m := c.meta()
	t, ok := m[TransientKey].(map[string]any)
	if !ok {
		t = map[string]any{}
		m[TransientKey] = t
	}
	t[key] = value
}

// SourceHidden reports whether the cell input has been marked as removed.
func (c *Cell) SourceHidden() bool {
	t, ok := c.Metadata[TransientKey].(map[string]any)
	if !ok {
		return false
	}
	hidden, _ := t[RemoveSourceKey].(bool)
	return hidden
}

// SetLanguage overrides the language used to render a code cell.
func (c *Cell) SetLanguage(lang string) {
	c.meta()[LanguageKey] = lang
}

// Language returns the language override set on the cell, if any.
func (c *Cell) Language() string {
	lang, _ := c.Metadata[LanguageKey].(string)
	return lang
}

// IsRich reports whether the output carries a MIME bundle.
func (o *Output) IsRich() bool {
	return o.Type == DisplayData || o.Type == ExecuteResult
}

// IsStdout reports whether the output is the stdout stream.
func (o *Output) IsStdout() bool {
	return o.Type == Stream && o.Name == StdoutStream
}

// SetFilename records the extracted file name for a MIME type.
func (o *Output) SetFilename(mime, name string) {
	if o.Metadata == nil {
		o.Metadata = Metadata{}
	}
	files, ok := o.Metadata[FilenamesKey].(map[string]any)
	if !ok {
		files = map[string]any{}
		o.Metadata[FilenamesKey] = files
	}
	files[mime] = name
}

// Filename returns the extracted file name for a MIME type.
func (o *Output) Filename(mime string) (string, bool) {
	files, ok := o.Metadata[FilenamesKey].(map[string]any)
	if !ok {
		return "", false
	}
	name, ok := files[mime].(string)
	return name, ok
}

// Language returns the kernel language recorded in notebook metadata,
// defaulting to python.
func (nb *Notebook) Language() string {
	if info, ok := nb.Metadata["language_info"].(map[string]any); ok {
		if name, ok := info["name"].(string); ok && name != "" {
			return strings.ToLower(name)
		}
	}
	if ks, ok := nb.Metadata["kernelspec"].(map[string]any); ok {
		if lang, ok := ks["language"].(string); ok && lang != "" {
			return strings.ToLower(lang)
		}
	}
	return "python"
}
