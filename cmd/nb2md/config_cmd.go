package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/alnah/nb2md/internal/config"
	"github.com/alnah/nb2md/internal/confutil"
)

// runConfigCmd prints the default configuration as a starting point for
// a config file.
func runConfigCmd(args []string, env *Environment) error {
	var format string
	fs := newConfigFlagSet(&format)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printConfigUsage(env.Stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}

	data, err := confutil.Marshal(confutil.Format(format), config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	_, err = env.Stdout.Write(data)
	return err
}

// newConfigFlagSet registers the config command flags.
func newConfigFlagSet(format *string) *flag.FlagSet {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVarP(format, "format", "f", string(confutil.YAML), "output format: yaml, toml")
	return fs
}
