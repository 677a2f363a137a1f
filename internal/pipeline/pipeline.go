package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/alnah/nb2md/internal/notebook"
)

// Pipeline applies an ordered list of stages to a notebook.
// A Pipeline is immutable after New and safe for concurrent Run calls
// on distinct notebooks.
type Pipeline struct {
	stages []Stage
}

// New creates a pipeline that runs stages in the given order.
func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: append([]Stage(nil), stages...)}
}

// Stages returns a copy of the stage list.
func (p *Pipeline) Stages() []Stage {
	return append([]Stage(nil), p.stages...)
}

// Names returns the stage names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Run applies every stage to nb. Stages never fail; the only error is
// context cancellation, checked between stages. A nil res gets a fresh
// Resources and a nil diag discards diagnostics.
func (p *Pipeline) Run(ctx context.Context, nb *notebook.Notebook, res *Resources, diag io.Writer) (*notebook.Notebook, error) {
	if res == nil {
		res = &Resources{}
	}
	if diag == nil {
		diag = io.Discard
	}

	st := State{Notebook: nb, Resources: res, Diag: diag}
	for _, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("before stage %s: %w", s.Name(), err)
		}
		st = s.Process(st)
	}
	return st.Notebook, nil
}
