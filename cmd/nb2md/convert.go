package main

import (
	"context"
	"errors"
	"fmt"
	"slices"

	flag "github.com/spf13/pflag"

	"github.com/alnah/nb2md"
	"github.com/alnah/nb2md/internal/assets"
	"github.com/alnah/nb2md/internal/config"
	"github.com/alnah/nb2md/internal/hints"
	"github.com/alnah/nb2md/internal/pipeline"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage            = errors.New("invalid usage")
	ErrConversionFailed = errors.New("conversion failed")
)

// runConvertCmd parses convert flags, runs the batch and returns the exit code.
func runConvertCmd(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "%s %v\n", labelError(), err)
		return ExitUsage
	}

	err = runConvert(ctx, positional, flags, env)
	if err != nil && !errors.Is(err, ErrConversionFailed) {
		fmt.Fprintf(env.Stderr, "%s %v\n", labelError(), err)
	}
	return exitCodeFor(err)
}

// runConvert orchestrates the conversion process.
// Returns an error wrapping ErrConversionFailed and every per-notebook
// error when at least one notebook failed.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	warnUnknownEnvVars(env.Stderr)
	envCfg := loadEnvConfig()

	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}

	// CLI flags > env vars > config file > defaults
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return withConfigHint(err)
	}

	inputPath, err := resolveInputPath(positionalArgs)
	if err != nil {
		return err
	}

	exporter, err := buildExporter(cfg)
	if err != nil {
		return withConfigHint(err)
	}

	files, err := discoverFiles(inputPath, cfg.Output.DefaultDir)
	if err != nil {
		if errors.Is(err, nb2md.ErrNotNotebook) {
			return fmt.Errorf("%w%s", err, hints.ForNotNotebook())
		}
		return fmt.Errorf("discovering notebooks: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoNotebooks, inputPath)
	}

	workers := resolveWorkers(flags.workers, envCfg.Workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Stages: %v\n", exporter.Stages())
		fmt.Fprintf(env.Stderr, "Converting %d notebook(s) with %d worker(s)\n", len(files), workers)
	}

	results := convertBatch(ctx, exporter, files, workers)
	summary := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if summary.Failed == 0 {
		return nil
	}

	errs := []error{fmt.Errorf("%w: %d of %d notebooks", ErrConversionFailed, summary.Failed, len(results))}
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}

// loadConfig loads the config named by the flag, else by NB2MD_CONFIG.
// Without either, an empty config is returned and defaults apply later.
func loadConfig(flagConfig string, envCfg *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		return &config.Config{}, nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags applies explicitly set CLI flags on top of cfg.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.output != "" {
		cfg.Output.DefaultDir = flags.output
	}
	if len(flags.pipeline.stages) > 0 {
		cfg.Pipeline.Stages = slices.Clone(flags.pipeline.stages)
	}
	if len(flags.pipeline.testFlags) > 0 {
		cfg.Pipeline.TestFlags = slices.Clone(flags.pipeline.testFlags)
	}
	if flags.pipeline.showMeta {
		cfg.Pipeline.Stages = append(cfg.StageNames(), pipeline.NameShowMeta)
	}
	if flags.assets.template != "" {
		cfg.Template.Name = flags.assets.template
	}
	if flags.assets.assetPath != "" {
		cfg.Template.Path = flags.assets.assetPath
	}
	if flags.preview.style != "" {
		cfg.HTML.Style = flags.preview.style
	}
	if flags.preview.html {
		cfg.Output.HTML = true
	}
	if flags.preview.noHTML {
		cfg.Output.HTML = false
	}
}

// buildExporter translates the merged configuration into exporter options.
func buildExporter(cfg *config.Config) (*nb2md.Exporter, error) {
	opts := cfg.PipelineOptions()
	exporterOpts := []nb2md.Option{
		nb2md.WithStages(cfg.StageNames()...),
		nb2md.WithTestFlags(opts.TestFlags...),
		nb2md.WithTagRules(opts.Tags),
	}
	if cfg.Template.Name != "" {
		exporterOpts = append(exporterOpts, nb2md.WithTemplate(cfg.Template.Name))
	}
	if cfg.Template.Path != "" {
		exporterOpts = append(exporterOpts, nb2md.WithAssetPath(cfg.Template.Path))
	}
	if cfg.Output.HTML {
		exporterOpts = append(exporterOpts, nb2md.WithHTMLPreview(cfg.HTML.Style))
	}
	return nb2md.NewExporter(exporterOpts...)
}

// withConfigHint appends hints for errors caused by configured names.
func withConfigHint(err error) error {
	switch {
	case errors.Is(err, nb2md.ErrUnknownStage):
		return fmt.Errorf("%w%s", err, hints.ForUnknownStage())
	case errors.Is(err, assets.ErrTemplateNotFound):
		return fmt.Errorf("%w%s", err, hints.ForTemplateNotFound(nb2md.TemplateNames()))
	case errors.Is(err, nb2md.ErrStyleNotFound):
		return fmt.Errorf("%w%s", err, hints.ForStyleNotFound(nb2md.StyleNames()))
	default:
		return err
	}
}

// resolveInputPath returns the single positional argument.
func resolveInputPath(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", fmt.Errorf("%w: pass a notebook or a directory", ErrNoInput)
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(args))
	}
}

// resolveWorkers picks the flag value, then NB2MD_WORKERS, then the automatic size.
func resolveWorkers(flagWorkers, envWorkers int) int {
	if flagWorkers > 0 {
		return nb2md.ResolveWorkers(flagWorkers)
	}
	return nb2md.ResolveWorkers(envWorkers)
}
