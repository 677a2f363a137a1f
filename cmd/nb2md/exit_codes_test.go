package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/alnah/nb2md"
	"github.com/alnah/nb2md/internal/assets"
	"github.com/alnah/nb2md/internal/config"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitGeneral},
		{"cancelled", context.Canceled, ExitGeneral},

		{"config not found", fmt.Errorf("loading: %w", config.ErrConfigNotFound), ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"invalid field", config.ErrInvalidField, ExitUsage},
		{"unknown stage", nb2md.ErrUnknownStage, ExitUsage},
		{"template not found", assets.ErrTemplateNotFound, ExitUsage},
		{"style not found", nb2md.ErrStyleNotFound, ExitUsage},
		{"invalid asset path", nb2md.ErrInvalidAssetPath, ExitUsage},
		{"workers", ErrInvalidWorkerCount, ExitUsage},
		{"usage", ErrUsage, ExitUsage},
		{"shell", ErrUnsupportedShell, ExitUsage},

		{"not exist", os.ErrNotExist, ExitIO},
		{"permission", fmt.Errorf("open: %w", os.ErrPermission), ExitIO},
		{"not notebook", nb2md.ErrNotNotebook, ExitIO},
		{"load", nb2md.ErrNotebookLoad, ExitIO},
		{"write", nb2md.ErrWrite, ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"no notebooks", ErrNoNotebooks, ExitIO},

		{"joined batch failure", errors.Join(ErrConversionFailed, fmt.Errorf("%w: x", nb2md.ErrNotebookLoad)), ExitIO},
		{"batch failure alone", ErrConversionFailed, ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
