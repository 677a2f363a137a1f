package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	env := DefaultEnv()

	// Configure GOMAXPROCS with conditional logging
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	logf := func(string, ...any) {}
	if hasVerboseFlag(os.Args[1:]) {
		logf = func(format string, args ...any) {
			fmt.Fprintf(env.Stderr, format+"\n", args...)
		}
	}
	_, _ = maxprocs.Set(maxprocs.Logger(logf))

	ctx, stop := notifyContext(context.Background())
	code := run(ctx, os.Args, env)
	stop()
	os.Exit(code)
}

// run dispatches a command line and returns the process exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "convert":
		return runConvertCmd(ctx, rest, env)
	case "stages":
		runStages(env)
		return ExitSuccess
	case "config":
		return reportErr(runConfigCmd(rest, env), env)
	case "completion":
		return reportErr(runCompletion(rest, env), env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "nb2md %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// reportErr prints err, if any, and maps it to an exit code.
func reportErr(err error, env *Environment) int {
	if err != nil {
		fmt.Fprintf(env.Stderr, "%s %v\n", labelError(), err)
	}
	return exitCodeFor(err)
}

// hasVerboseFlag reports whether args request verbose output.
func hasVerboseFlag(args []string) bool {
	return slices.Contains(args, "-v") || slices.Contains(args, "--verbose")
}
