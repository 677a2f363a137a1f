package notebook

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

const sampleNotebook = `{
 "cells": [
  {
   "cell_type": "markdown",
   "id": "md1",
   "metadata": {},
   "source": ["# Title\n", "Some text"],
   "attachments": {
    "img.png": {"image/png": "aGVsbG8="}
   }
  },
  {
   "cell_type": "code",
   "execution_count": 3,
   "id": "code1",
   "metadata": {"tags": ["hide", "x"], "nbprocess": {"tags": "a,b", "n": 3}},
   "outputs": [
    {"name": "stdout", "output_type": "stream", "text": ["line1\n", "line2\n"]},
    {"output_type": "display_data", "data": {"text/html": ["<b>", "hi</b>"], "application/json": {"k": 1}}, "metadata": {}},
    {"output_type": "execute_result", "execution_count": 3, "data": {"text/plain": "3"}, "metadata": {}},
    {"output_type": "error", "ename": "ValueError", "evalue": "bad", "traceback": ["tb"]}
   ],
   "source": "x = 1\nx"
  }
 ],
 "metadata": {"kernelspec": {"language": "python", "name": "python3"}},
 "nbformat": 4,
 "nbformat_minor": 5
}`

func TestDecode(t *testing.T) {
	t.Parallel()

	nb, err := Decode(strings.NewReader(sampleNotebook))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if len(nb.Cells) != 2 {
		t.Fatalf("len(Cells) = %d, want 2", len(nb.Cells))
	}

	md := nb.Cells[0]
	if md.Source != "# Title\nSome text" {
		t.Errorf("markdown Source = %q, want joined list form", md.Source)
	}
	if got, _ := md.Attachments["img.png"].Text("image/png"); got != "aGVsbG8=" {
		t.Errorf("attachment payload = %q, want %q", got, "aGVsbG8=")
	}

	code := nb.Cells[1]
	if code.ExecutionCount == nil || *code.ExecutionCount != 3 {
		t.Errorf("ExecutionCount = %v, want 3", code.ExecutionCount)
	}
	if len(code.Outputs) != 4 {
		t.Fatalf("len(Outputs) = %d, want 4", len(code.Outputs))
	}
	if !code.Outputs[0].IsStdout() || code.Outputs[0].Text != "line1\nline2\n" {
		t.Errorf("stream output = %+v", code.Outputs[0])
	}
	if html, ok := code.Outputs[1].Data.Text("text/html"); !ok || html != "<b>hi</b>" {
		t.Errorf("text/html = %q, %v", html, ok)
	}
	if _, ok := code.Outputs[1].Data.Text("application/json"); ok {
		t.Error("application/json payload should not decode as text")
	}
	if code.Outputs[3].EName != "ValueError" {
		t.Errorf("EName = %q, want ValueError", code.Outputs[3].EName)
	}

	if got := code.Tags(); len(got) != 2 || got[0] != "hide" {
		t.Errorf("Tags() = %v, want [hide x]", got)
	}
	d := code.Directives()
	if d["tags"] != "a,b" || d["n"] != "3" {
		t.Errorf("Directives() = %v", d)
	}
	if nb.Language() != "python" {
		t.Errorf("Language() = %q, want python", nb.Language())
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"invalid json", "{", ErrDecode},
		{"nbformat 3", `{"cells": [], "metadata": {}, "nbformat": 3, "nbformat_minor": 0}`, ErrUnsupportedFormat},
		{"unknown cell type", `{"cells": [{"cell_type": "heading", "metadata": {}, "source": ""}], "metadata": {}, "nbformat": 4, "nbformat_minor": 5}`, ErrUnknownCellType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode(strings.NewReader(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	t.Parallel()

	nb, err := Decode(strings.NewReader(sampleNotebook))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, nb); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	out := buf.String()
	// Stream outputs must not carry data; rich outputs must not carry text.
	if strings.Contains(out, `"text": "<b>`) {
		t.Error("rich output encoded with a text field")
	}

	again, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode(Encode()) error = %v", err)
	}
	if again.Cells[1].Source != nb.Cells[1].Source {
		t.Errorf("source changed across round trip: %q", again.Cells[1].Source)
	}
	if again.Cells[1].Outputs[0].Text != "line1\nline2\n" {
		t.Errorf("stream text changed across round trip: %q", again.Cells[1].Outputs[0].Text)
	}
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nb.ipynb")
	nb := New(NewCell(Markdown, "a", "hello"), NewCell(Code, "b", "print(1)"))

	if err := Save(path, nb); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.Cells) != 2 || got.Cells[1].Source != "print(1)" {
		t.Errorf("Load() cells = %+v", got.Cells)
	}
	if got.Cells[1].Outputs == nil {
		t.Error("code cell outputs should decode to an empty slice")
	}
}
