package pipeline

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// ErrUnknownStage is returned when a configured stage name is not registered.
var ErrUnknownStage = errors.New("unknown stage")

// Stage names, as used in configuration files and by Pipeline.Names.
const (
	NameInjectMeta         = "InjectMeta"
	NameShowMeta           = "ShowMeta"
	NameStripAnsi          = "StripAnsi"
	NameInsertWarning      = "InsertWarning"
	NameRmEmptyCode        = "RmEmptyCode"
	NameUpdateTags         = "UpdateTags"
	NameHideInputLines     = "HideInputLines"
	NameFilterOutput       = "FilterOutput"
	NameCleanFlags         = "CleanFlags"
	NameCleanMagics        = "CleanMagics"
	NameBashIdentify       = "BashIdentify"
	NameCleanShowDoc       = "CleanShowDoc"
	NameRmHeaderDash       = "RmHeaderDash"
	NameRmExport           = "RmExport"
	NameTagRemove          = "TagRemove"
	NameExtractAttachments = "ExtractAttachments"
	NameExtractOutput      = "ExtractOutput"
)

// DefaultStageNames is the default export order.
var DefaultStageNames = []string{
	NameInjectMeta,
	NameCleanMagics,
	NameBashIdentify,
	NameUpdateTags,
	NameInsertWarning,
	NameTagRemove,
	NameCleanFlags,
	NameCleanShowDoc,
	NameRmEmptyCode,
	NameStripAnsi,
	NameHideInputLines,
	NameRmHeaderDash,
	NameRmExport,
	NameExtractAttachments,
	NameExtractOutput,
}

// Options parameterizes the stages that need configuration.
type Options struct {
	TestFlags []string // Flags stripped by CleanFlags
	Tags      TagRules // Zero value means DefaultTagRules
}

// factory builds a stage from options.
type factory func(opts Options) Stage

func fixed(s Stage) factory { return func(Options) Stage { return s } }

var registry = map[string]factory{
	NameInjectMeta:         fixed(InjectMeta),
	NameShowMeta:           fixed(ShowMeta),
	NameStripAnsi:          fixed(StripAnsi),
	NameInsertWarning:      fixed(InsertWarning),
	NameRmEmptyCode:        fixed(RmEmptyCode),
	NameUpdateTags:         fixed(UpdateTags),
	NameHideInputLines:     fixed(HideInputLines),
	NameFilterOutput:       fixed(FilterOutput),
	NameCleanMagics:        fixed(CleanMagics),
	NameBashIdentify:       fixed(BashIdentify),
	NameCleanShowDoc:       fixed(CleanShowDoc),
	NameRmHeaderDash:       fixed(RmHeaderDash),
	NameRmExport:           fixed(RmExport),
	NameExtractAttachments: fixed(ExtractAttachments),
	NameExtractOutput:      fixed(ExtractOutput),
	NameCleanFlags: func(o Options) Stage {
		return CleanFlags(o.TestFlags)
	},
	NameTagRemove: func(o Options) Stage {
		if o.Tags.IsZero() {
			return TagRemove(DefaultTagRules())
		}
		return TagRemove(o.Tags)
	},
}

// KnownStages returns every registered stage name, sorted.
func KnownStages() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsKnownStage reports whether name is registered.
func IsKnownStage(name string) bool {
	_, ok := registry[name]
	return ok
}

// Build assembles a pipeline from stage names, in the given order.
// Every name is checked before any stage is built.
func Build(names []string, opts Options) (*Pipeline, error) {
	var unknown []string
	for _, name := range names {
		if !IsKnownStage(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %v (known: %v)", ErrUnknownStage, unknown, KnownStages())
	}

	stages := make([]Stage, 0, len(names))
	for _, name := range names {
		stages = append(stages, registry[name](opts))
	}
	return New(stages...), nil
}

// Default assembles the default export pipeline.
func Default(opts Options) *Pipeline {
	p, err := Build(slices.Clone(DefaultStageNames), opts)
	if err != nil {
		panic(err) // unreachable: default names are all registered
	}
	return p
}
