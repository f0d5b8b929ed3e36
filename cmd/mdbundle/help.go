package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdbundle <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Bundle markdown files into a single PDF")
	fmt.Fprintln(w, "  list        Show the documents and images an input resolves to")
	fmt.Fprintln(w, "  watch       Re-convert whenever the input changes")
	fmt.Fprintln(w, "  doctor      Check the environment and run a render self-test")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdbundle help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdbundle convert [flags] <input>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Bundle linked markdown files into one paginated PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    A .md file, a directory, or a .zip archive. Links between")
	fmt.Fprintln(w, "           markdown files pull the targets into the bundle. Multiple")
	fmt.Fprintln(w, "           inputs convert in parallel, one PDF each.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: next to the input)")
	fmt.Fprintln(w, "      --output-name <s>     Output file name (default: markdown_export.pdf)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers for batch inputs (0 = auto)")
	fmt.Fprintln(w, "      --order-file <path>   Manual document order, one path per line")
	fmt.Fprintln(w, "      --list                List discovered documents, convert nothing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Presets:")
	fmt.Fprintln(w, "  -p, --preset <name>       Settings preset: default, compact, letter")
	fmt.Fprintln(w, "      --preset-dir <dir>    Custom preset directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "      --page-width <mm>     Page width")
	fmt.Fprintln(w, "      --page-height <mm>    Page height")
	fmt.Fprintln(w, "      --margin <mm>         Margin on all four sides")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Text:")
	fmt.Fprintln(w, "      --body-size <pt>      Body font size")
	fmt.Fprintln(w, "      --code-size <pt>      Code font size")
	fmt.Fprintln(w, "      --line-spacing <f>    Line height multiple")
	fmt.Fprintln(w, "      --code-style <s>      Syntax highlighting style")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Images:")
	fmt.Fprintln(w, "      --image-width <f>     Max width as content-width fraction (0-1]")
	fmt.Fprintln(w, "      --image-height <mm>   Max height")
	fmt.Fprintln(w, "      --image-dpi <n>       Pixel density")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Documents:")
	fmt.Fprintln(w, "      --headings <mode>     Per-document title headings: auto, on, off")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show timing and dropped-reference warnings")
}

// printListUsage prints usage for the list command.
func printListUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdbundle list [flags] <input>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Resolve an input and print its document and image sets in traversal")
	fmt.Fprintln(w, "order, without converting. The document list doubles as an order-file")
	fmt.Fprintln(w, "template for 'convert --order-file'.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json       Machine-readable output")
	fmt.Fprintln(w, "  -v, --verbose    Show dropped-reference warnings")
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdbundle watch [flags] <input>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert once, then watch the input's workspace and re-convert when a")
	fmt.Fprintln(w, "markdown file or image changes. Stop with Ctrl-C.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Accepts the same flags as convert, except --list and --workers.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdbundle doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check config discovery, preset loading, temp-directory access, and run")
	fmt.Fprintln(w, "an in-memory render self-test.")
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
	case "list":
		printListUsage(env.Stdout)
	case "watch":
		printWatchUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdbundle version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdbundle help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
