package notebook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// MaxInputSize limits notebook files to prevent memory exhaustion (default 256MB).
var MaxInputSize int64 = 256 << 20

// Sentinel errors for notebook decoding.
var (
	ErrDecode            = errors.New("notebook: invalid JSON document")
	ErrUnsupportedFormat = errors.New("notebook: unsupported nbformat version")
	ErrInputTooLarge     = errors.New("notebook: input exceeds maximum size")
	ErrUnknownCellType   = errors.New("notebook: unknown cell type")
)

// multiline decodes nbformat "multiline strings", which may be either a
// single string or a list of lines that concatenate to the full text.
type multiline string

func (m *multiline) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = multiline(s)
		return nil
	}
	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*m = multiline(strings.Join(parts, ""))
	return nil
}

type rawNotebook struct {
	Cells         []rawCell `json:"cells"`
	Metadata      Metadata  `json:"metadata"`
	NBFormat      int       `json:"nbformat"`
	NBFormatMinor int       `json:"nbformat_minor"`
}

type rawCell struct {
	ID             string                     `json:"id,omitempty"`
	CellType       CellType                   `json:"cell_type"`
	Metadata       Metadata                   `json:"metadata"`
	Source         multiline                  `json:"source"`
	Outputs        []rawOutput                `json:"outputs,omitempty"`
	ExecutionCount *int                       `json:"execution_count,omitempty"`
	Attachments    map[string]json.RawMessage `json:"attachments,omitempty"`
}

type rawOutput struct {
	OutputType     OutputType                 `json:"output_type"`
	Name           string                     `json:"name,omitempty"`
	Text           multiline                  `json:"text,omitempty"`
	Data           map[string]json.RawMessage `json:"data,omitempty"`
	Metadata       Metadata                   `json:"metadata,omitempty"`
	ExecutionCount *int                       `json:"execution_count,omitempty"`
	EName          string                     `json:"ename,omitempty"`
	EValue         string                     `json:"evalue,omitempty"`
	Traceback      []string                   `json:"traceback,omitempty"`
}

// Load reads and decodes a notebook file.
func Load(path string) (*Notebook, error) {
	f, err := os.Open(path) // #nosec G304 -- caller validates the path
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	nb, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nb, nil
}

// Decode reads an nbformat v4 JSON document.
func Decode(r io.Reader) (*Notebook, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if int64(len(data)) > MaxInputSize {
		return nil, fmt.Errorf("%w: max %d bytes", ErrInputTooLarge, MaxInputSize)
	}

	var raw rawNotebook
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if raw.NBFormat != 4 {
		return nil, fmt.Errorf("%w: %d (want 4)", ErrUnsupportedFormat, raw.NBFormat)
	}

	nb := &Notebook{
		Cells:         make([]*Cell, 0, len(raw.Cells)),
		Metadata:      raw.Metadata,
		NBFormat:      raw.NBFormat,
		NBFormatMinor: raw.NBFormatMinor,
	}
	if nb.Metadata == nil {
		nb.Metadata = Metadata{}
	}

	for i, rc := range raw.Cells {
		cell, err := decodeCell(rc)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		nb.Cells = append(nb.Cells, cell)
	}
	return nb, nil
}

func decodeCell(rc rawCell) (*Cell, error) {
	switch rc.CellType {
	case Code, Markdown, Raw:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCellType, rc.CellType)
	}

	cell := &Cell{
		ID:       rc.ID,
		Type:     rc.CellType,
		Source:   string(rc.Source),
		Metadata: rc.Metadata,
	}
	if cell.Metadata == nil {
		cell.Metadata = Metadata{}
	}

	if rc.CellType == Code {
		cell.ExecutionCount = rc.ExecutionCount
		cell.Outputs = make([]*Output, 0, len(rc.Outputs))
		for _, ro := range rc.Outputs {
			out, err := decodeOutput(ro)
			if err != nil {
				return nil, err
			}
			cell.Outputs = append(cell.Outputs, out)
		}
		return cell, nil
	}

	if len(rc.Attachments) > 0 {
		cell.Attachments = make(map[string]MimeBundle, len(rc.Attachments))
		for name, data := range rc.Attachments {
			var bundle map[string]json.RawMessage
			if err := json.Unmarshal(data, &bundle); err != nil {
				return nil, fmt.Errorf("attachment %q: %w", name, err)
			}
			b, err := decodeBundle(bundle)
			if err != nil {
				return nil, fmt.Errorf("attachment %q: %w", name, err)
			}
			cell.Attachments[name] = b
		}
	}
	return cell, nil
}

func decodeOutput(ro rawOutput) (*Output, error) {
	out := &Output{Type: ro.OutputType}
	switch ro.OutputType {
	case Stream:
		out.Name = ro.Name
		out.Text = string(ro.Text)
	case DisplayData, ExecuteResult:
		data, err := decodeBundle(ro.Data)
		if err != nil {
			return nil, fmt.Errorf("output data: %w", err)
		}
		out.Data = data
		out.Metadata = ro.Metadata
		if out.Metadata == nil {
			out.Metadata = Metadata{}
		}
		if ro.OutputType == ExecuteResult {
			out.ExecutionCount = ro.ExecutionCount
		}
	case Error:
		out.EName = ro.EName
		out.EValue = ro.EValue
		out.Traceback = ro.Traceback
	default:
		return nil, fmt.Errorf("unknown output type %q", ro.OutputType)
	}
	return out, nil
}

// decodeBundle joins list-form text payloads and keeps JSON payloads as-is.
func decodeBundle(raw map[string]json.RawMessage) (MimeBundle, error) {
	b := make(MimeBundle, len(raw))
	for mime, data := range raw {
		var text multiline
		if err := json.Unmarshal(data, &text); err == nil {
			b[mime] = string(text)
			continue
		}
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("%s: %w", mime, err)
		}
		b[mime] = v
	}
	return b, nil
}

// Encode writes the notebook as indented nbformat v4 JSON.
func Encode(w io.Writer, nb *Notebook) error {
	doc := map[string]any{
		"cells":          encodeCells(nb.Cells),
		"metadata":       orEmpty(nb.Metadata),
		"nbformat":       nb.NBFormat,
		"nbformat_minor": nb.NBFormatMinor,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding notebook: %w", err)
	}
	return nil
}

// Save encodes the notebook to path.
func Save(path string, nb *Notebook) (err error) {
	f, err := os.Create(path) // #nosec G304 -- caller-provided destination
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return Encode(f, nb)
}

func encodeCells(cells []*Cell) []map[string]any {
	out := make([]map[string]any, 0, len(cells))
	for _, c := range cells {
		m := map[string]any{
			"cell_type": c.Type,
			"metadata":  orEmpty(c.Metadata),
			"source":    c.Source,
		}
		if c.ID != "" {
			m["id"] = c.ID
		}
		if c.Type == Code {
			m["execution_count"] = c.ExecutionCount
			m["outputs"] = encodeOutputs(c.Outputs)
		} else if len(c.Attachments) > 0 {
			m["attachments"] = c.Attachments
		}
		out = append(out, m)
	}
	return out
}

// encodeOutputs emits only the fields valid for each output type.
func encodeOutputs(outputs []*Output) []map[string]any {
	out := make([]map[string]any, 0, len(outputs))
	for _, o := range outputs {
		m := map[string]any{"output_type": o.Type}
		switch o.Type {
		case Stream:
			m["name"] = o.Name
			m["text"] = o.Text
		case DisplayData, ExecuteResult:
			m["data"] = o.Data
			m["metadata"] = orEmpty(o.Metadata)
			if o.Type == ExecuteResult {
				m["execution_count"] = o.ExecutionCount
			}
		case Error:
			m["ename"] = o.EName
			m["evalue"] = o.EValue
			tb := o.Traceback
			if tb == nil {
				tb = []string{}
			}
			m["traceback"] = tb
		}
		out = append(out, m)
	}
	return out
}

func orEmpty(m Metadata) Metadata {
	if m == nil {
		return Metadata{}
	}
	return m
}
