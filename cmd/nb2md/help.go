package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nb2md <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Clean notebooks and export them to markdown")
	fmt.Fprintln(w, "  stages      List the cleaning stages")
	fmt.Fprintln(w, "  config      Print the default configuration")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'nb2md help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nb2md convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Clean Jupyter notebooks and export them to markdown.")
	fmt.Fprintln(w, "Extracted images are written to a <name>/ directory next to <name>.md.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Notebook file or directory (searched recursively)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: next to each notebook)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (.yaml, .yml, .toml)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Pipeline:")
	fmt.Fprintln(w, "  -s, --stages <list>       Comma-separated stage order (see 'nb2md stages')")
	fmt.Fprintln(w, "      --test-flags <list>   Test flags stripped from code cells")
	fmt.Fprintln(w, "      --show-meta           Print parsed cell directives")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Template:")
	fmt.Fprintln(w, "  -t, --template <name>     Template name")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with templates/ and styles/ overrides")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "HTML Preview:")
	fmt.Fprintln(w, "      --html                Also write <name>.html")
	fmt.Fprintln(w, "      --no-html             Disable the preview set by config")
	fmt.Fprintln(w, "      --style <name>        Preview style name")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  NB2MD_CONFIG, NB2MD_OUTPUT_DIR, NB2MD_TEMPLATE, NB2MD_ASSET_PATH,")
	fmt.Fprintln(w, "  NB2MD_STYLE, NB2MD_HTML, NB2MD_WORKERS")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nb2md config [--format yaml|toml]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the default configuration. Redirect it to a file to start a config:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  nb2md config > nb2md.yaml")
	fmt.Fprintln(w, "  nb2md config -f toml > nb2md.toml")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "stages":
		fmt.Fprintln(env.Stdout, "Usage: nb2md stages")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "List the default cleaning pipeline and the optional stages.")
	case "config":
		printConfigUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: nb2md version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: nb2md help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
