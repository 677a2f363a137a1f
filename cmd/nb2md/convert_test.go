package main

// Notes:
// - End-to-end tests drive run() against the shared testdata notebook.
//   Tests that set NB2MD_* variables live in env_config_test.go since
//   t.Setenv forbids t.Parallel.
// - Status labels may carry color codes, so output is matched by substring.

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/nb2md/internal/notebook"
)

const reportNotebook = "../../testdata/report.ipynb"

// copyReport copies the testdata notebook to dir/name.
func copyReport(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(reportNotebook)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return string(data)
}

func assertExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected %s not to exist (err = %v)", path, err)
	}
}

// ---------------------------------------------------------------------------
// Single notebook
// ---------------------------------------------------------------------------

func TestConvert_SingleNotebook(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := copyReport(t, dir, "report.ipynb")

	env, stdout, stderr := newTestEnv()
	code := run(context.Background(), []string{"nb2md", "convert", input}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}

	md := readFile(t, filepath.Join(dir, "report.md"))
	for _, want := range []string{"# Sales report", "```python\nimport math\n```", "![](report/output_4_0.png)"} {
		if !strings.Contains(md, want) {
			t.Errorf("report.md missing %q:\n%s", want, md)
		}
	}
	for _, unwanted := range []string{"hunter2", "%matplotlib"} {
		if strings.Contains(md, unwanted) {
			t.Errorf("report.md should not contain %q", unwanted)
		}
	}

	assertExists(t, filepath.Join(dir, "report", "output_4_0.png"))
	assertNotExists(t, filepath.Join(dir, "report.html"))

	if !strings.Contains(stdout.String(), "Created") || !strings.Contains(stdout.String(), filepath.Join(dir, "report.md")) {
		t.Errorf("stdout = %q", stdout)
	}
	if strings.Contains(stdout.String(), "succeeded") {
		t.Error("summary printed for a single notebook")
	}
}

func TestConvert_OutputDirAndHTML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := copyReport(t, dir, "report.ipynb")
	out := filepath.Join(dir, "site")

	env, _, stderr := newTestEnv()
	code := run(context.Background(), []string{"nb2md", "convert", "-o", out, "--html", input}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}

	assertExists(t, filepath.Join(out, "report.md"))
	assertExists(t, filepath.Join(out, "report", "output_4_0.png"))

	html := readFile(t, filepath.Join(out, "report.html"))
	if !strings.Contains(html, "<title>report</title>") {
		t.Errorf("report.html missing title")
	}
	assertNotExists(t, filepath.Join(dir, "report.md"))
}

func TestConvert_Stages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := copyReport(t, dir, "report.ipynb")

	env, _, stderr := newTestEnv()
	code := run(context.Background(), []string{"nb2md", "convert", "-s", "InjectMeta,UpdateTags,TagRemove", input}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}

	md := readFile(t, filepath.Join(dir, "report.md"))
	if strings.Contains(md, "hunter2") {
		t.Error("tagged cell kept")
	}
	if !strings.Contains(md, "%matplotlib inline") {
		t.Error("magic removed without CleanMagics")
	}
	assertNotExists(t, filepath.Join(dir, "report", "output_4_0.png"))
}

func TestConvert_ConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := copyReport(t, dir, "report.ipynb")
	cfgPath := filepath.Join(dir, "nb2md.toml")
	cfg := "[pipeline]\nstages = [\"InjectMeta\", \"UpdateTags\", \"TagRemove\", \"CleanMagics\"]\n\n[output]\nhtml = true\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	env, _, stderr := newTestEnv()
	code := run(context.Background(), []string{"nb2md", "convert", "-c", cfgPath, "--no-html", input}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}

	md := readFile(t, filepath.Join(dir, "report.md"))
	if strings.Contains(md, "%matplotlib") || strings.Contains(md, "hunter2") {
		t.Errorf("configured stages not applied:\n%s", md)
	}
	assertNotExists(t, filepath.Join(dir, "report.html"))
}

func TestConvert_ShowMeta(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "meta.ipynb")
	cell := notebook.NewCell(notebook.Code, "c", "#meta:tags=demo\nx = 1")
	if err := notebook.Save(input, notebook.New(cell)); err != nil {
		t.Fatalf("setup: %v", err)
	}

	env, _, stderr := newTestEnv()
	code := run(context.Background(), []string{"nb2md", "convert", "--show-meta", "-q", input}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stderr.String(), input+": map[tags:demo]") {
		t.Errorf("stderr = %q, want parsed directives", stderr)
	}
}

// ---------------------------------------------------------------------------
// Directory batch
// ---------------------------------------------------------------------------

func TestConvert_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "notebooks")
	copyReport(t, src, "a.ipynb")
	copyReport(t, src, filepath.Join("sub", "b.ipynb"))
	copyReport(t, src, filepath.Join(".ipynb_checkpoints", "a-checkpoint.ipynb"))
	out := filepath.Join(dir, "out")

	env, stdout, stderr := newTestEnv()
	code := run(context.Background(), []string{"nb2md", "convert", "-w", "2", "-o", out, src}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}

	assertExists(t, filepath.Join(out, "a.md"))
	assertExists(t, filepath.Join(out, "a", "output_4_0.png"))
	assertExists(t, filepath.Join(out, "sub", "b.md"))
	assertExists(t, filepath.Join(out, "sub", "b", "output_4_0.png"))
	assertNotExists(t, filepath.Join(out, ".ipynb_checkpoints"))

	if !strings.Contains(stdout.String(), "2 succeeded, 0 failed") {
		t.Errorf("stdout = %q, want summary", stdout)
	}
}

func TestConvert_QuietAndVerbose(t *testing.T) {
	t.Parallel()

	t.Run("quiet prints nothing on success", func(t *testing.T) {
		t.Parallel()

		input := copyReport(t, t.TempDir(), "report.ipynb")
		env, stdout, stderr := newTestEnv()
		if code := run(context.Background(), []string{"nb2md", "convert", "-q", input}, env); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, stderr)
		}
		if stdout.Len() != 0 {
			t.Errorf("stdout = %q, want empty", stdout)
		}
	})

	t.Run("verbose reports stages and timing", func(t *testing.T) {
		t.Parallel()

		input := copyReport(t, t.TempDir(), "report.ipynb")
		env, stdout, stderr := newTestEnv()
		if code := run(context.Background(), []string{"nb2md", "convert", "-v", "-w", "1", input}, env); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, stderr)
		}
		if !strings.Contains(stderr.String(), "Converting 1 notebook(s) with 1 worker(s)") {
			t.Errorf("stderr = %q", stderr)
		}
		if !strings.Contains(stdout.String(), " -> ") || !strings.Contains(stdout.String(), "(2 files, ") {
			t.Errorf("stdout = %q", stdout)
		}
	})
}

// ---------------------------------------------------------------------------
// Failures and exit codes
// ---------------------------------------------------------------------------

func TestConvert_Failures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	report := copyReport(t, dir, "report.ipynb")

	broken := filepath.Join(dir, "broken.ipynb")
	if err := os.WriteFile(broken, []byte("not json"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	text := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(text, []byte("hello"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	empty := filepath.Join(dir, "empty")
	if err := os.Mkdir(empty, 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStderr string
	}{
		{"no input", nil, ExitIO, "no input specified"},
		{"two inputs", []string{report, report}, ExitUsage, "expected one input"},
		{"missing input", []string{filepath.Join(dir, "missing.ipynb")}, ExitIO, "no such file"},
		{"not a notebook", []string{text}, ExitIO, "hint: pass a .ipynb file"},
		{"empty directory", []string{empty}, ExitIO, "no notebooks found"},
		{"broken notebook", []string{broken}, ExitIO, "FAILED"},
		{"unknown stage", []string{"-s", "InjectMeta,Nope", report}, ExitUsage, "nb2md stages"},
		{"unknown template", []string{"-t", "nope", report}, ExitUsage, "available: markdown"},
		{"unknown style", []string{"--html", "--style", "nope", report}, ExitUsage, "available: default"},
		{"bad template name", []string{"-t", "../x", report}, ExitUsage, "template.name"},
		{"too many workers", []string{"-w", "99", report}, ExitUsage, "invalid worker count"},
		{"missing config", []string{"-c", "nope-nb2md-config", report}, ExitUsage, "config file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, stderr := newTestEnv()
			args := append([]string{"nb2md", "convert"}, tt.args...)
			code := run(context.Background(), args, env)

			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, stderr)
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want to contain %q", stderr, tt.wantStderr)
			}
		})
	}
}

func TestConvert_PartialFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	copyReport(t, dir, "good.ipynb")
	if err := os.WriteFile(filepath.Join(dir, "bad.ipynb"), []byte(`{"nbformat": 3}`), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	env, stdout, stderr := newTestEnv()
	code := run(context.Background(), []string{"nb2md", "convert", dir}, env)

	if code != ExitIO {
		t.Errorf("exit code = %d, want %d", code, ExitIO)
	}
	assertExists(t, filepath.Join(dir, "good.md"))
	if !strings.Contains(stderr.String(), "bad.ipynb") || !strings.Contains(stderr.String(), "hint: only nbformat 4") {
		t.Errorf("stderr = %q", stderr)
	}
	if !strings.Contains(stdout.String(), "1 succeeded, 1 failed") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestConvert_Cancelled(t *testing.T) {
	t.Parallel()

	input := copyReport(t, t.TempDir(), "report.ipynb")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env, _, stderr := newTestEnv()
	if code := run(ctx, []string{"nb2md", "convert", input}, env); code == ExitSuccess {
		t.Fatal("cancelled conversion succeeded")
	}
	if !strings.Contains(stderr.String(), "context canceled") {
		t.Errorf("stderr = %q", stderr)
	}
}

// ---------------------------------------------------------------------------
// mergeFlags - CLI overrides
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	t.Run("show-meta appends to the default order", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{}
		mergeFlags(&convertFlags{pipeline: pipelineFlags{showMeta: true}}, cfg)

		stages := cfg.StageNames()
		if len(stages) != 16 || stages[15] != "ShowMeta" {
			t.Errorf("stages = %v", stages)
		}
	})

	t.Run("flags override config", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{Output: OutputConfig{DefaultDir: "docs", HTML: true}}
		flags := &convertFlags{output: "site", preview: previewFlags{noHTML: true, style: "default"}}
		flags.pipeline.testFlags = []string{"slow"}
		mergeFlags(flags, cfg)

		if cfg.Output.DefaultDir != "site" || cfg.Output.HTML {
			t.Errorf("Output = %+v", cfg.Output)
		}
		if cfg.HTML.Style != "default" || len(cfg.Pipeline.TestFlags) != 1 {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("unset flags keep config", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{Template: TemplateConfig{Name: "custom", Path: "assets"}}
		mergeFlags(&convertFlags{}, cfg)

		if cfg.Template.Name != "custom" || cfg.Template.Path != "assets" {
			t.Errorf("Template = %+v", cfg.Template)
		}
	})
}

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	if got := resolveWorkers(3, 8); got != 3 {
		t.Errorf("flag: resolveWorkers(3, 8) = %d", got)
	}
	if got := resolveWorkers(0, 5); got != 5 {
		t.Errorf("env: resolveWorkers(0, 5) = %d", got)
	}
	if got := resolveWorkers(0, 0); got < 1 {
		t.Errorf("auto: resolveWorkers(0, 0) = %d", got)
	}
}
