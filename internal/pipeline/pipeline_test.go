package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/alnah/nb2md/internal/notebook"
)

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

func TestBuild(t *testing.T) {
	t.Parallel()

	names := []string{NameInjectMeta, NameShowMeta, NameCleanFlags}
	p, err := Build(names, Options{TestFlags: []string{"slow"}})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := p.Names(); !reflect.DeepEqual(got, names) {
		t.Errorf("Names() = %v, want %v", got, names)
	}
}

func TestBuild_UnknownStage(t *testing.T) {
	t.Parallel()

	_, err := Build([]string{NameInjectMeta, "Nope", "AlsoNope"}, Options{})
	if !errors.Is(err, ErrUnknownStage) {
		t.Fatalf("Build() error = %v, want ErrUnknownStage", err)
	}
	for _, want := range []string{"Nope", "AlsoNope"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not name %q", err, want)
		}
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	if got := Default(Options{}).Names(); !reflect.DeepEqual(got, DefaultStageNames) {
		t.Errorf("Names() = %v, want %v", got, DefaultStageNames)
	}
}

func TestKnownStages(t *testing.T) {
	t.Parallel()

	known := KnownStages()
	for _, name := range slices.Concat(DefaultStageNames, []string{NameShowMeta, NameFilterOutput}) {
		if !IsKnownStage(name) {
			t.Errorf("IsKnownStage(%q) = false", name)
		}
	}
	if len(known) != 17 {
		t.Errorf("len(KnownStages()) = %d, want 17", len(known))
	}
}

// ---------------------------------------------------------------------------
// Run
// ---------------------------------------------------------------------------

type recordStage struct {
	name string
	seen *[]string
}

func (s recordStage) Name() string { return s.name }

func (s recordStage) Process(st State) State {
	*s.seen = append(*s.seen, s.name)
	return st
}

func TestRun_Order(t *testing.T) {
	t.Parallel()

	var seen []string
	p := New(recordStage{"a", &seen}, recordStage{"b", &seen}, recordStage{"c", &seen})

	if _, err := p.Run(context.Background(), notebook.New(), nil, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(seen, want) {
		t.Errorf("order = %v, want %v", seen, want)
	}
}

func TestRun_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var seen []string
	_, err := New(recordStage{"a", &seen}).Run(ctx, notebook.New(), nil, nil)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if len(seen) != 0 {
		t.Errorf("stages ran after cancellation: %v", seen)
	}
}

func TestRun_NilDiagAndResources(t *testing.T) {
	t.Parallel()

	var gotDiag io.Writer
	var gotRes *Resources
	spy := stageFunc(func(st State) State {
		gotDiag, gotRes = st.Diag, st.Resources
		return st
	})

	if _, err := New(spy).Run(context.Background(), notebook.New(), nil, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if gotDiag == nil || gotRes == nil {
		t.Errorf("diag=%v resources=%v, want both set", gotDiag, gotRes)
	}
}

type stageFunc func(State) State

func (f stageFunc) Name() string           { return "func" }
func (f stageFunc) Process(st State) State { return f(st) }

func TestPipeline_CopiesStages(t *testing.T) {
	t.Parallel()

	stages := []Stage{InjectMeta, StripAnsi}
	p := New(stages...)
	stages[0] = RmExport

	if got := p.Names()[0]; got != NameInjectMeta {
		t.Errorf("Names()[0] = %q, want %q", got, NameInjectMeta)
	}
	p.Stages()[1] = RmExport
	if got := p.Names()[1]; got != NameStripAnsi {
		t.Errorf("Names()[1] = %q, want %q", got, NameStripAnsi)
	}
}

// ---------------------------------------------------------------------------
// End to end
// ---------------------------------------------------------------------------

func TestDefaultPipeline_EndToEnd(t *testing.T) {
	t.Parallel()

	nb := notebook.New(
		mdCell("normal", "Some prose."),
		codeCell("export", "#export\ndef f(): pass"),
		codeCell("empty", ""),
		mdCell("heading", "## Internals -"),
	)

	var diag bytes.Buffer
	got, err := Default(Options{}).Run(context.Background(), nb, &Resources{OutputFilesDir: "nb"}, &diag)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(got.Cells) != 2 {
		t.Fatalf("len(Cells) = %d (%v), want 2", len(got.Cells), cellIDs(got))
	}
	if got.Cells[0].ID != "normal" {
		t.Errorf("Cells[0].ID = %q, want normal", got.Cells[0].ID)
	}
	if got.Cells[1].Source != WarningNotice {
		t.Errorf("Cells[1].Source = %q, want the warning", got.Cells[1].Source)
	}
	if diag.Len() != 0 {
		t.Errorf("diag = %q, want empty", diag.String())
	}
}

func TestDefaultPipeline_CleansCode(t *testing.T) {
	t.Parallel()

	cell := codeCell("c", "#meta:tags=hide_input\n%time\n#slow\nsecret() #meta_hide_line\nprint('hi')\n")
	cell.Outputs = []*notebook.Output{streamOut("stdout", "\x1b[32mhi\x1b[0m\n")}

	got, err := Default(Options{TestFlags: []string{"slow"}}).Run(context.Background(), notebook.New(cell), nil, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var code *notebook.Cell
	for _, c := range got.Cells {
		if c.ID == "c" {
			code = c
		}
	}
	if code == nil {
		t.Fatal("code cell removed")
	}
	if code.Source != "print('hi')" {
		t.Errorf("Source = %q, want %q", code.Source, "print('hi')")
	}
	if !code.SourceHidden() {
		t.Error("hide_input directive tag did not hide the source")
	}
	if text := code.Outputs[0].Text; text != "hi\n" {
		t.Errorf("stdout = %q, want %q", text, "hi\n")
	}
}
