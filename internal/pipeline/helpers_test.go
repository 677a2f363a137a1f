package pipeline

import (
	"bytes"
	"testing"

	"github.com/alnah/nb2md/internal/notebook"
)

func codeCell(id, src string) *notebook.Cell { return notebook.NewCell(notebook.Code, id, src) }

func mdCell(id, src string) *notebook.Cell { return notebook.NewCell(notebook.Markdown, id, src) }

func streamOut(name, text string) *notebook.Output {
	return &notebook.Output{Type: notebook.Stream, Name: name, Text: text}
}

func richOut(data notebook.MimeBundle) *notebook.Output {
	return &notebook.Output{Type: notebook.DisplayData, Data: data, Metadata: notebook.Metadata{}}
}

// apply runs a single stage over cells and returns the result with its diagnostics.
func apply(t *testing.T, s Stage, cells ...*notebook.Cell) (*notebook.Notebook, string) {
	t.Helper()
	nb, _, diag := applyWith(t, s, &Resources{}, cells...)
	return nb, diag
}

func applyWith(t *testing.T, s Stage, res *Resources, cells ...*notebook.Cell) (*notebook.Notebook, *Resources, string) {
	t.Helper()
	var diag bytes.Buffer
	st := s.Process(State{Notebook: notebook.New(cells...), Resources: res, Diag: &diag})
	return st.Notebook, st.Resources, diag.String()
}

func cellIDs(nb *notebook.Notebook) []string {
	ids := make([]string, len(nb.Cells))
	for i, c := range nb.Cells {
		ids[i] = c.ID
	}
	return ids
}
