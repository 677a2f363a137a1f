package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pipelineFlags selects and parameterizes the cleaning stages.
type pipelineFlags struct {
	stages    []string // Replaces the configured order
	testFlags []string // Flags stripped by CleanFlags
	showMeta  bool     // Append ShowMeta to print parsed directives
}

// assetFlags holds template selection flags.
type assetFlags struct {
	template  string // Template name
	assetPath string // Override asset directory
}

// previewFlags holds HTML preview flags.
type previewFlags struct {
	html   bool
	noHTML bool
	style  string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common   commonFlags
	output   string
	workers  int
	pipeline pipelineFlags
	assets   assetFlags
	preview  previewFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path (.yaml, .yml, .toml)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show timing and worker count")
}

// addPipelineFlags adds pipeline flags to a FlagSet.
func addPipelineFlags(fs *flag.FlagSet, f *pipelineFlags) {
	fs.StringSliceVarP(&f.stages, "stages", "s", nil, "comma-separated stage order (see 'nb2md stages')")
	fs.StringSliceVar(&f.testFlags, "test-flags", nil, "test flags stripped from code cells")
	fs.BoolVar(&f.showMeta, "show-meta", false, "print parsed cell directives")
}

// addAssetFlags adds template flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVarP(&f.template, "template", "t", "", "template name")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory with templates/ and styles/ overrides")
}

// addPreviewFlags adds HTML preview flags to a FlagSet.
func addPreviewFlags(fs *flag.FlagSet, f *previewFlags) {
	fs.BoolVar(&f.html, "html", false, "also write an HTML preview")
	fs.BoolVar(&f.noHTML, "no-html", false, "disable the HTML preview set by config")
	fs.StringVar(&f.style, "style", "", "HTML preview style name")
}

// newConvertFlagSet registers every convert flag on a new FlagSet.
// Shared by parsing and shell completion.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output directory (default: next to each notebook)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addPipelineFlags(fs, &f.pipeline)
	addAssetFlags(fs, &f.assets)
	addPreviewFlags(fs, &f.preview)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	fs.SetOutput(stderr)
	fs.Usage = func() { printConvertUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
