package pipeline

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"path"
	"slices"
	"strings"
)

var errNotText = errors.New("payload is not a string")

// outputExtensions maps extractable output MIME types to file extensions.
var outputExtensions = map[string]string{
	"image/png":       "png",
	"image/jpeg":      "jpg",
	"image/svg+xml":   "svg",
	"application/pdf": "pdf",
}

// textMIME reports whether a payload of this type is stored as plain text
// rather than base64.
func textMIME(mime string) bool {
	return mime == "image/svg+xml" || strings.HasPrefix(mime, "text/") || strings.HasSuffix(mime, "json")
}

// decodePayload returns the raw bytes of a MIME bundle entry.
func decodePayload(mime string, v any) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, errNotText
	}
	if textMIME(mime) {
		return []byte(s), nil
	}
	return base64.StdEncoding.DecodeString(strings.Join(strings.Fields(s), ""))
}

// safeFileName flattens a name into a single path segment.
var safeFileName = strings.NewReplacer("/", "_", `\`, "_", " ", "_")

// ---------------------------------------------------------------------------
// ExtractAttachments
// ---------------------------------------------------------------------------

type extractAttachments struct{}

// ExtractAttachments moves markdown and raw cell attachments into
// Resources.Outputs and points their attachment: references at the files.
var ExtractAttachments Stage = extractAttachments{}

func (extractAttachments) Name() string { return NameExtractAttachments }

func (extractAttachments) Process(st State) State {
	for i, cell := range st.Notebook.Cells {
		if cell.IsCode() || len(cell.Attachments) == 0 {
			continue
		}
		prefix := cell.ID
		if prefix == "" {
			prefix = fmt.Sprintf("cell%d", i)
		}

		paths := make(map[string]string, len(cell.Attachments))
		for name, bundle := range cell.Attachments {
			keys := bundle.Keys()
			if len(keys) == 0 {
				continue
			}
			mime := keys[0]
			data, err := decodePayload(mime, bundle[mime])
			if err != nil {
				fmt.Fprintf(st.Diag, "Warning: cell %s: attachment %q: %v\n", prefix, name, err)
				continue
			}
			p := path.Join(st.Resources.OutputFilesDir, safeFileName.Replace(prefix+"_"+name))
			st.Resources.AddOutput(p, data)
			paths[name] = p
		}

		rewrites := make(map[string]string)
		for _, ref := range attachmentRefs(cell.Source) {
			name := strings.TrimPrefix(ref, attachmentScheme)
			p, ok := paths[name]
			if !ok {
				if unescaped, err := url.PathUnescape(name); err == nil {
					p, ok = paths[unescaped]
				}
			}
			if !ok {
				fmt.Fprintf(st.Diag, "Warning: cell %s: missing attachment %q\n", prefix, name)
				continue
			}
			rewrites[ref] = p
		}
		cell.Source = rewriteRefs(cell.Source, rewrites)
		cell.Attachments = nil
	}
	return st
}

// rewriteRefs replaces every reference in one pass. Longer references go
// first so "attachment:a" never matches inside "attachment:a%20b".
func rewriteRefs(src string, rewrites map[string]string) string {
	if len(rewrites) == 0 {
		return src
	}
	refs := make([]string, 0, len(rewrites))
	for ref := range rewrites {
		refs = append(refs, ref)
	}
	slices.SortFunc(refs, func(a, b string) int {
		if d := len(b) - len(a); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	pairs := make([]string, 0, 2*len(refs))
	for _, ref := range refs {
		pairs = append(pairs, ref, rewrites[ref])
	}
	return strings.NewReplacer(pairs...).Replace(src)
}

// ---------------------------------------------------------------------------
// ExtractOutput
// ---------------------------------------------------------------------------

type extractOutput struct{}

// ExtractOutput moves image and PDF outputs of code cells into
// Resources.Outputs and records each file name in the output metadata.
// Named output_<cell>_<output>.<ext> after their position in the notebook.
var ExtractOutput Stage = extractOutput{}

func (extractOutput) Name() string { return NameExtractOutput }

func (extractOutput) Process(st State) State {
	for ci, cell := range st.Notebook.Cells {
		if !cell.IsCode() {
			continue
		}
		for oi, out := range cell.Outputs {
			if !out.IsRich() {
				continue
			}
			for _, mime := range out.Data.Keys() {
				ext, ok := outputExtensions[mime]
				if !ok {
					continue
				}
				data, err := decodePayload(mime, out.Data[mime])
				if err != nil {
					fmt.Fprintf(st.Diag, "Warning: cell %d output %d: %s: %v\n", ci, oi, mime, err)
					continue
				}
				p := path.Join(st.Resources.OutputFilesDir, fmt.Sprintf("output_%d_%d.%s", ci, oi, ext))
				st.Resources.AddOutput(p, data)
				out.SetFilename(mime, p)
			}
		}
	}
	return st
}
