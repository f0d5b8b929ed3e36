package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds page geometry flags, in millimeters. Zero means unset.
type pageFlags struct {
	widthMM  float64
	heightMM float64
	marginMM float64
}

// textFlags holds typography flags. Zero means unset.
type textFlags struct {
	bodySizePt  float64
	codeSizePt  float64
	lineSpacing float64
	codeStyle   string
}

// imageFlags holds image scaling flags. Zero means unset.
type imageFlags struct {
	maxWidthFraction float64
	maxHeightMM      float64
	dpi              float64
}

// documentFlags holds document bundling flags.
type documentFlags struct {
	headings  string // auto, on, off
	orderFile string // manual document order, one path per line
}

// outputFlags holds output destination flags.
type outputFlags struct {
	dir  string
	name string
}

// presetFlags holds preset selection flags.
type presetFlags struct {
	name string
	dir  string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common   commonFlags
	output   outputFlags
	preset   presetFlags
	page     pageFlags
	text     textFlags
	image    imageFlags
	document documentFlags
	workers  int
	list     bool // discovery only, no conversion
	json     bool // machine-readable output where a command supports it
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show timing and warnings")
}

// addOutputFlags adds output destination flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.dir, "output", "o", "", "output directory (default: next to the input)")
	fs.StringVar(&f.name, "output-name", "", "output file name (default: markdown_export.pdf)")
}

// addPresetFlags adds preset selection flags to a FlagSet.
func addPresetFlags(fs *flag.FlagSet, f *presetFlags) {
	fs.StringVarP(&f.name, "preset", "p", "", "settings preset: default, compact, letter")
	fs.StringVar(&f.dir, "preset-dir", "", "custom preset directory")
}

// addPageFlags adds page geometry flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.Float64Var(&f.widthMM, "page-width", 0, "page width in mm")
	fs.Float64Var(&f.heightMM, "page-height", 0, "page height in mm")
	fs.Float64Var(&f.marginMM, "margin", 0, "page margin in mm, all four sides")
}

// addTextFlags adds typography flags to a FlagSet.
func addTextFlags(fs *flag.FlagSet, f *textFlags) {
	fs.Float64Var(&f.bodySizePt, "body-size", 0, "body font size in pt")
	fs.Float64Var(&f.codeSizePt, "code-size", 0, "code font size in pt")
	fs.Float64Var(&f.lineSpacing, "line-spacing", 0, "line height as a multiple of font size")
	fs.StringVar(&f.codeStyle, "code-style", "", "syntax highlighting style for code blocks")
}

// addImageFlags adds image scaling flags to a FlagSet.
func addImageFlags(fs *flag.FlagSet, f *imageFlags) {
	fs.Float64Var(&f.maxWidthFraction, "image-width", 0, "max image width as a fraction of content width (0-1]")
	fs.Float64Var(&f.maxHeightMM, "image-height", 0, "max image height in mm")
	fs.Float64Var(&f.dpi, "image-dpi", 0, "image density in pixels per inch")
}

// addDocumentFlags adds document bundling flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVar(&f.headings, "headings", "", "per-document title headings: auto, on, off")
	fs.StringVar(&f.orderFile, "order-file", "", "file listing documents in bundle order, one per line")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	fs := newConvertFlagSet()
	f := &convertFlags{}
	bindConvertFlags(fs, f)

	fs.Usage = func() { printConvertUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// newConvertFlagSet creates the convert FlagSet without bindings. Shared
// with completion generation so flag names have one source of truth.
func newConvertFlagSet() *flag.FlagSet {
	return flag.NewFlagSet("convert", flag.ContinueOnError)
}

// bindConvertFlags registers every convert flag on the FlagSet.
func bindConvertFlags(fs *flag.FlagSet, f *convertFlags) {
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers for batch inputs (0 = auto)")
	fs.BoolVar(&f.list, "list", false, "list discovered documents and images, convert nothing")
	fs.BoolVar(&f.json, "json", false, "machine-readable output (list command)")

	addCommonFlags(fs, &f.common)
	addOutputFlags(fs, &f.output)
	addPresetFlags(fs, &f.preset)
	addPageFlags(fs, &f.page)
	addTextFlags(fs, &f.text)
	addImageFlags(fs, &f.image)
	addDocumentFlags(fs, &f.document)
}
