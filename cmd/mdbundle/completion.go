package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"
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

// completionCommands are the subcommands offered at the first position.
var completionCommands = []string{
	"convert", "list", "watch", "doctor", "completion", "version", "help",
}

// enumFlagValues holds predefined values for enum-like flags. Flag
// names and descriptions come from the FlagSet; only the value hints
// live here.
var enumFlagValues = map[string][]string{
	"preset":   {"default", "compact", "letter"},
	"headings": {"auto", "on", "off"},
}

// convertFlagNames extracts every flag name from the convert FlagSet,
// sorted, so completions track the real flag definitions.
func convertFlagNames() []string {
	fs := newConvertFlagSet()
	f := &convertFlags{}
	bindConvertFlags(fs, f)

	var names []string
	fs.VisitAll(func(fl *flag.Flag) {
		names = append(names, "--"+fl.Name)
	})
	sort.Strings(names)
	return names
}

// GenerateCompletion writes a shell completion script to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

// generateBash emits a bash completion function.
func generateBash(w io.Writer) error {
	flagList := strings.Join(convertFlagNames(), " ")
	commands := strings.Join(completionCommands, " ")

	script := `_mdbundle_completion() {
    local cur prev
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    case "$prev" in
        --preset|-p)
            COMPREPLY=( $(compgen -W "default compact letter" -- "$cur") )
            return ;;
        --headings)
            COMPREPLY=( $(compgen -W "auto on off" -- "$cur") )
            return ;;
        --config|-c|--order-file)
            COMPREPLY=( $(compgen -f -- "$cur") )
            return ;;
        --output|-o|--preset-dir)
            COMPREPLY=( $(compgen -d -- "$cur") )
            return ;;
    esac

    if [ "$COMP_CWORD" -eq 1 ]; then
        COMPREPLY=( $(compgen -W "` + commands + `" -- "$cur") )
        return
    fi

    case "$cur" in
        -*)
            COMPREPLY=( $(compgen -W "` + flagList + `" -- "$cur") ) ;;
        *)
            COMPREPLY=( $(compgen -f -- "$cur") ) ;;
    esac
}
complete -F _mdbundle_completion mdbundle
`
	_, err := io.WriteString(w, script)
	return err
}

// generateZsh emits a zsh completion function.
func generateZsh(w io.Writer) error {
	var b strings.Builder
	b.WriteString("#compdef mdbundle\n\n_mdbundle() {\n")
	b.WriteString("    local -a commands flags\n")
	b.WriteString("    commands=(\n")
	for _, cmd := range completionCommands {
		fmt.Fprintf(&b, "        %q\n", cmd)
	}
	b.WriteString("    )\n")
	b.WriteString("    flags=(\n")
	for _, name := range convertFlagNames() {
		trimmed := strings.TrimPrefix(name, "--")
		if values, ok := enumFlagValues[trimmed]; ok {
			fmt.Fprintf(&b, "        '%s:mode:(%s)'\n", name, strings.Join(values, " "))
		} else {
			fmt.Fprintf(&b, "        '%s'\n", name)
		}
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("    else\n")
	b.WriteString("        _arguments $flags '*:file:_files'\n")
	b.WriteString("    fi\n")
	b.WriteString("}\n\n_mdbundle \"$@\"\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// generateFish emits fish completion statements.
func generateFish(w io.Writer) error {
	var b strings.Builder
	for _, cmd := range completionCommands {
		fmt.Fprintf(&b, "complete -c mdbundle -n '__fish_use_subcommand' -a %s\n", cmd)
	}
	for _, name := range convertFlagNames() {
		trimmed := strings.TrimPrefix(name, "--")
		if values, ok := enumFlagValues[trimmed]; ok {
			fmt.Fprintf(&b, "complete -c mdbundle -l %s -x -a '%s'\n", trimmed, strings.Join(values, " "))
		} else {
			fmt.Fprintf(&b, "complete -c mdbundle -l %s\n", trimmed)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
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
	fmt.Fprintln(w, "Usage: mdbundle completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate a shell completion script.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells: bash, zsh, fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash (add to ~/.bashrc):")
	fmt.Fprintln(w, "    eval \"$(mdbundle completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh (add to ~/.zshrc before compinit):")
	fmt.Fprintln(w, "    eval \"$(mdbundle completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    mdbundle completion fish > ~/.config/fish/completions/mdbundle.fish")
}
