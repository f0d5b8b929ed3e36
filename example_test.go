package mdbundle_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-mdbundle"
)

// Example demonstrates bundling a directory of Markdown files into one PDF.
func Example() {
	dir, err := os.MkdirTemp("", "mdbundle-example")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(dir)

	doc := []byte("# Hello World\n\nThis is a test.\n")
	if err := os.WriteFile(filepath.Join(dir, "hello.md"), doc, 0o600); err != nil {
		fmt.Println("error:", err)
		return
	}

	svc := mdbundle.New()

	job, err := svc.ProcessInput(context.Background(), dir)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer job.Cleanup()

	result, err := svc.Convert(context.Background(), job)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("documents bundled:", result.Documents)
	fmt.Println("output name:", filepath.Base(result.OutputPath))
	// Output:
	// documents bundled: 1
	// output name: markdown_export.pdf
}

// Example_manualOrder demonstrates reordering documents before conversion.
func Example_manualOrder() {
	dir, err := os.MkdirTemp("", "mdbundle-order")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(dir)

	for name, body := range map[string]string{
		"appendix.md": "# Appendix\n",
		"intro.md":    "# Introduction\n",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			fmt.Println("error:", err)
			return
		}
	}

	svc := mdbundle.New()

	job, err := svc.ProcessInput(context.Background(), dir)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer job.Cleanup()

	// Discovery is alphabetical; move the introduction to the front.
	// The reordered slice must stay a permutation of the discovered set.
	job.Documents[0], job.Documents[1] = job.Documents[1], job.Documents[0]

	result, err := svc.Convert(context.Background(), job)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("documents bundled:", result.Documents)
	// Output: documents bundled: 2
}

// Example_presets demonstrates loading a built-in preset.
func Example_presets() {
	loader, err := mdbundle.NewPresetLoader("")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	preset, err := loader.LoadPreset("letter")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	svc := mdbundle.New(preset.Options()...)
	_ = svc

	fmt.Printf("%s: %.1f x %.1f mm\n", preset.Name, preset.Page.WidthMM, preset.Page.HeightMM)
	// Output: letter: 215.9 x 279.4 mm
}

// ExampleServicePool demonstrates bounding concurrent conversions.
func ExampleServicePool() {
	pool := mdbundle.NewServicePool(4)

	svc := pool.Acquire()
	defer pool.Release(svc)

	fmt.Println("pool size:", pool.Size())
	// Output: pool size: 4
}
