package main

// Notes:
// - run: we test dispatch and exit codes for every command. Conversion
//   itself is covered by convert_test.go.
// - main: not tested (calls os.Exit and installs signal handlers).

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/nb2md/internal/config"
)

// newTestEnv returns an environment writing to buffers.
func newTestEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := DefaultEnv()
	env.Stdout = &stdout
	env.Stderr = &stderr
	return env, &stdout, &stderr
}

// ---------------------------------------------------------------------------
// TestRun - Command dispatch
// ---------------------------------------------------------------------------

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no command", []string{"nb2md"}, ExitUsage, "", "Usage: nb2md"},
		{"unknown command", []string{"nb2md", "nope"}, ExitUsage, "", "Unknown command: nope"},
		{"version", []string{"nb2md", "version"}, ExitSuccess, "nb2md dev", ""},
		{"--version", []string{"nb2md", "--version"}, ExitSuccess, "nb2md dev", ""},
		{"help", []string{"nb2md", "help"}, ExitSuccess, "Commands:", ""},
		{"help convert", []string{"nb2md", "help", "convert"}, ExitSuccess, "--test-flags", ""},
		{"stages", []string{"nb2md", "stages"}, ExitSuccess, "   1. InjectMeta", ""},
		{"config", []string{"nb2md", "config"}, ExitSuccess, "pipeline:", ""},
		{"config toml", []string{"nb2md", "config", "--format", "toml"}, ExitSuccess, "[pipeline]", ""},
		{"config bad format", []string{"nb2md", "config", "-f", "json"}, ExitUsage, "", "unsupported"},
		{"config extra arg", []string{"nb2md", "config", "extra"}, ExitUsage, "", "unexpected argument"},
		{"completion bash", []string{"nb2md", "completion", "bash"}, ExitSuccess, "complete -F _nb2md nb2md", ""},
		{"completion usage", []string{"nb2md", "completion"}, ExitSuccess, "Supported shells:", ""},
		{"completion unknown shell", []string{"nb2md", "completion", "tcsh"}, ExitUsage, "", "unsupported shell"},
		{"convert help", []string{"nb2md", "convert", "--help"}, ExitSuccess, "", "Usage: nb2md convert"},
		{"convert bad flag", []string{"nb2md", "convert", "--nope"}, ExitUsage, "", "unknown flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := newTestEnv()
			code := run(context.Background(), tt.args, env)

			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, stderr)
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want to contain %q", stdout, tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want to contain %q", stderr, tt.wantStderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunStages - Stage listing
// ---------------------------------------------------------------------------

func TestRunStages(t *testing.T) {
	t.Parallel()

	env, stdout, _ := newTestEnv()
	runStages(env)
	out := stdout.String()

	defaultPart, optionalPart, ok := strings.Cut(out, "Optional stages:")
	if !ok {
		t.Fatalf("missing optional section:\n%s", out)
	}
	if !strings.Contains(defaultPart, "  15. ExtractOutput") {
		t.Errorf("default pipeline should end with ExtractOutput:\n%s", defaultPart)
	}
	for _, name := range []string{"FilterOutput", "ShowMeta"} {
		if !strings.Contains(optionalPart, name) {
			t.Errorf("optional stages missing %s", name)
		}
		if strings.Contains(defaultPart, name) {
			t.Errorf("%s listed in the default pipeline", name)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunConfigCmd - Printed defaults load back
// ---------------------------------------------------------------------------

func TestRunConfigCmd_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, format := range []string{"yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			t.Parallel()

			env, stdout, _ := newTestEnv()
			if err := runConfigCmd([]string{"-f", format}, env); err != nil {
				t.Fatalf("runConfigCmd() error = %v", err)
			}

			path := filepath.Join(t.TempDir(), "nb2md."+format)
			if err := os.WriteFile(path, stdout.Bytes(), 0o600); err != nil {
				t.Fatalf("setup: %v", err)
			}

			cfg, err := config.LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig() error = %v\n%s", err, stdout)
			}
			want := config.DefaultConfig()
			if strings.Join(cfg.Pipeline.Stages, ",") != strings.Join(want.Pipeline.Stages, ",") {
				t.Errorf("Stages = %v", cfg.Pipeline.Stages)
			}
			if strings.Join(cfg.Tags.RemoveCell, ",") != strings.Join(want.Tags.RemoveCell, ",") {
				t.Errorf("Tags.RemoveCell = %v", cfg.Tags.RemoveCell)
			}
			if cfg.Template.Name != "markdown" || cfg.HTML.Style != "default" {
				t.Errorf("cfg = %+v", cfg)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHasVerboseFlag - Pre-parse verbosity detection
// ---------------------------------------------------------------------------

func TestHasVerboseFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"convert", "nb.ipynb"}, false},
		{[]string{"convert", "-v", "nb.ipynb"}, true},
		{[]string{"convert", "--verbose"}, true},
		{[]string{"convert", "--version"}, false},
	}

	for _, tt := range tests {
		if got := hasVerboseFlag(tt.args); got != tt.want {
			t.Errorf("hasVerboseFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}
