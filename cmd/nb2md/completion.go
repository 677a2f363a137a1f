package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/nb2md"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	Args        []string // fixed positional values
	TakesFiles  bool     // accepts file arguments
	FilePattern string   // glob for file arguments (e.g., "*.ipynb")
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
func flagCompletionMeta() map[string]completionMeta {
	return map[string]completionMeta{
		// Enum flags
		"stages":   {Values: nb2md.KnownStages()},
		"template": {Values: nb2md.TemplateNames()},
		"style":    {Values: nb2md.StyleNames()},
		"format":   {Values: []string{"yaml", "toml"}},

		// File flags with glob patterns
		"config": {FileGlob: "*.yaml,*.yml,*.toml"},

		// Directory flags
		"output":     {IsDir: true},
		"asset-path": {IsDir: true},
	}
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef
	metas := flagCompletionMeta()

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := metas[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets.
func getCommands() []commandDef {
	var format string
	return []commandDef{
		{
			Name:        "convert",
			Desc:        "Clean notebooks and export them to markdown",
			Flags:       extractFlagsFromFlagSet(newConvertFlagSet(&convertFlags{})),
			TakesFiles:  true,
			FilePattern: "*.ipynb",
		},
		{Name: "stages", Desc: "List the cleaning stages"},
		{
			Name:  "config",
			Desc:  "Print the default configuration",
			Flags: extractFlagsFromFlagSet(newConfigFlagSet(&format)),
		},
		{
			Name: "completion",
			Desc: "Generate shell completion script",
			Args: []string{string(ShellBash), string(ShellZsh), string(ShellFish)},
		},
		{Name: "version", Desc: "Show version information"},
		{
			Name: "help",
			Desc: "Show help for a command",
			Args: []string{"convert", "stages", "config", "completion", "version", "help"},
		},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	cmds := getCommands()
	var script string
	switch shell {
	case ShellBash:
		script = generateBash(cmds)
	case ShellZsh:
		script = generateZsh(cmds)
	case ShellFish:
		script = generateFish(cmds)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

// globExtensions turns "*.yaml,*.yml" into ["yaml", "yml"].
func globExtensions(glob string) []string {
	var exts []string
	for g := range strings.SplitSeq(glob, ",") {
		exts = append(exts, strings.TrimPrefix(strings.TrimSpace(g), "*."))
	}
	return exts
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func generateBash(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# bash completion for nb2md\n\n")
	b.WriteString("_nb2md() {\n")
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", commandNames(cmds))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${COMP_WORDS[1]}\" in\n")

	for _, c := range cmds {
		if len(c.Flags) == 0 && len(c.Args) == 0 && !c.TakesFiles {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		writeBashFlagValues(&b, c.Flags)

		var longs []string
		for _, f := range c.Flags {
			longs = append(longs, "--"+f.Long)
		}
		if len(longs) > 0 {
			b.WriteString("        if [[ \"$cur\" == -* ]]; then\n")
			fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(longs, " "))
			b.WriteString("            return\n")
			b.WriteString("        fi\n")
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(c.Args, " "))
		case c.TakesFiles:
			fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -f -X '!*.@(%s)' -- \"$cur\") $(compgen -d -- \"$cur\") )\n",
				strings.Join(globExtensions(c.FilePattern), "|"))
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -F _nb2md nb2md\n")
	return b.String()
}

// writeBashFlagValues completes the value following a flag that takes one.
func writeBashFlagValues(b *strings.Builder, flags []flagDef) {
	var cases []string
	for _, f := range flags {
		pattern := "--" + f.Long
		if f.Short != "" {
			pattern = "-" + f.Short + "|" + pattern
		}
		switch f.Type {
		case flagEnum:
			cases = append(cases, fmt.Sprintf("            %s)\n                COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n                return\n                ;;\n",
				pattern, strings.Join(f.Values, " ")))
		case flagFile:
			cases = append(cases, fmt.Sprintf("            %s)\n                COMPREPLY=( $(compgen -f -X '!*.@(%s)' -- \"$cur\") $(compgen -d -- \"$cur\") )\n                return\n                ;;\n",
				pattern, strings.Join(globExtensions(f.FileGlob), "|")))
		case flagDir:
			cases = append(cases, fmt.Sprintf("            %s)\n                COMPREPLY=( $(compgen -d -- \"$cur\") )\n                return\n                ;;\n", pattern))
		case flagString, flagInt:
			cases = append(cases, fmt.Sprintf("            %s)\n                return\n                ;;\n", pattern))
		}
	}
	if len(cases) == 0 {
		return
	}
	b.WriteString("        case \"$prev\" in\n")
	for _, c := range cases {
		b.WriteString(c)
	}
	b.WriteString("        esac\n")
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

// zshQuote escapes s for use inside a single-quoted _arguments spec.
func zshQuote(s string) string {
	s = strings.ReplaceAll(s, "'", `'\''`)
	s = strings.ReplaceAll(s, "[", `\[`)
	return strings.ReplaceAll(s, "]", `\]`)
}

func zshAction(f flagDef) string {
	switch f.Type {
	case flagEnum:
		return fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
	case flagFile:
		globs := strings.ReplaceAll(f.FileGlob, ",", " ")
		return fmt.Sprintf(":%s:_files -g \"%s\"", f.Long, globs)
	case flagDir:
		return fmt.Sprintf(":%s:_files -/", f.Long)
	case flagString, flagInt:
		return fmt.Sprintf(":%s: ", f.Long)
	default:
		return ""
	}
}

func generateZsh(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("#compdef nb2md\n\n")
	b.WriteString("_nb2md() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshQuote(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    _arguments -C '1: :->command' '*:: :->args'\n\n")
	b.WriteString("    case $state in\n")
	b.WriteString("    command)\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        ;;\n")
	b.WriteString("    args)\n")
	b.WriteString("        case $words[1] in\n")

	for _, c := range cmds {
		var specs []string
		for _, f := range c.Flags {
			desc := zshQuote(f.Desc)
			action := zshAction(f)
			specs = append(specs, fmt.Sprintf("'--%s[%s]%s'", f.Long, desc, action))
			if f.Short != "" {
				specs = append(specs, fmt.Sprintf("'-%s[%s]%s'", f.Short, desc, action))
			}
		}
		switch {
		case len(c.Args) > 0:
			specs = append(specs, fmt.Sprintf("'1:%s:(%s)'", c.Name, strings.Join(c.Args, " ")))
		case c.TakesFiles:
			specs = append(specs, fmt.Sprintf("'*:file:_files -g \"%s\"'", strings.ReplaceAll(c.FilePattern, ",", " ")))
		}
		if len(specs) == 0 {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		fmt.Fprintf(&b, "            _arguments \\\n                %s\n", strings.Join(specs, " \\\n                "))
		b.WriteString("            ;;\n")
	}

	b.WriteString("        esac\n")
	b.WriteString("        ;;\n")
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _nb2md nb2md\n")
	return b.String()
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

// fishQuote escapes s for use inside a single-quoted fish string.
func fishQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `\'`)
}

func generateFish(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# fish completion for nb2md\n\n")
	b.WriteString("complete -c nb2md -f\n\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c nb2md -n __fish_use_subcommand -a %s -d '%s'\n", c.Name, fishQuote(c.Desc))
	}

	for _, c := range cmds {
		cond := fmt.Sprintf("'__fish_seen_subcommand_from %s'", c.Name)
		if len(c.Flags) > 0 || len(c.Args) > 0 || c.TakesFiles {
			b.WriteString("\n")
		}
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c nb2md -n %s", cond)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			line += fmt.Sprintf(" -l %s -d '%s'", f.Long, fishQuote(f.Desc))
			switch f.Type {
			case flagEnum:
				line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			case flagString, flagInt:
				line += " -x"
			}
			b.WriteString(line + "\n")
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "complete -c nb2md -n %s -a '%s'\n", cond, strings.Join(c.Args, " "))
		case c.TakesFiles:
			fmt.Fprintf(&b, "complete -c nb2md -n %s -F\n", cond)
		}
	}
	return b.String()
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}

	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nb2md completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(nb2md completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(nb2md completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    nb2md completion fish > ~/.config/fish/completions/nb2md.fish")
}
