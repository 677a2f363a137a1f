package pipeline

import (
	"io"

	"github.com/alnah/nb2md/internal/notebook"
)

// TagRules lists the cell tags that trigger each kind of removal.
type TagRules struct {
	RemoveCell   []string
	RemoveOutput []string
	RemoveInput  []string
}

// DefaultTagRules returns the tag sets used when no configuration overrides them.
func DefaultTagRules() TagRules {
	return TagRules{
		RemoveCell:   []string{"remove_cell", "hide"},
		RemoveOutput: []string{"remove_output", "remove_outputs", "hide_output", "hide_outputs"},
		RemoveInput:  []string{"remove_input", "remove_inputs", "hide_input", "hide_inputs"},
	}
}

// IsZero reports whether no tag is configured at all.
func (r TagRules) IsZero() bool {
	return len(r.RemoveCell) == 0 && len(r.RemoveOutput) == 0 && len(r.RemoveInput) == 0
}

// TagRemove drops, empties, or hides cells according to their tags.
// A remove-cell tag wins over the other two.
func TagRemove(rules TagRules) Stage {
	return NotebookStage(NameTagRemove, func(nb *notebook.Notebook, _ io.Writer) NotebookResult {
		kept := make([]*notebook.Cell, 0, len(nb.Cells))
		for _, c := range nb.Cells {
			if c.HasAnyTag(rules.RemoveCell...) {
				continue
			}
			if c.IsCode() && c.HasAnyTag(rules.RemoveOutput...) {
				c.Outputs = nil
				c.ExecutionCount = nil
			}
			if c.HasAnyTag(rules.RemoveInput...) {
				c.SetTransient(notebook.RemoveSourceKey, true)
			}
			kept = append(kept, c)
		}
		nb.Cells = kept
		return KeepNotebook()
	})
}
