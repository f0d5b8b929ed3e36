// Package mdbundle bundles linked Markdown documents into a single
// paginated PDF, with no external renderer.
//
// # Quick Start
//
// Create a service, prepare a job from an input path, and convert:
//
//	svc := mdbundle.New()
//
//	job, err := svc.ProcessInput(ctx, "docs/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer job.Cleanup()
//
//	result, err := svc.Convert(ctx, job)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.OutputPath, result.PageCount)
//
// The input may be a single Markdown file, a directory, or a .zip
// archive. Directories and archives are scanned for .md and .markdown
// files; from those entries the service follows Markdown-to-Markdown
// links and pulls every reachable document into the bundle, cycles
// included. The PDF lands in the workspace root as markdown_export.pdf
// (next to the archive for archive inputs).
//
// # Conversion Pipeline
//
// A conversion runs these stages:
//
//  1. Workspace preparation (classify the input, extract archives)
//  2. Document graph resolution via Goldmark (links, images, warnings)
//  3. Block model construction per document
//  4. Native pagination into positioned fragments
//  5. PDF 1.4 encoding and an atomic write
//
// References that escape the workspace root, point at missing documents,
// or name images that fail to decode become warnings on the result
// instead of failing the job.
//
// # Document Order
//
// ProcessInput fills Job.Documents with the traversal order. Callers may
// permute that slice before Convert; the set must stay exactly what
// resolution discovered or Convert fails with ErrOrderMismatch.
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc := mdbundle.New(
//	    mdbundle.WithPageSettings(mdbundle.PageSettings{WidthMM: 210, HeightMM: 297, MarginMM: 20}),
//	    mdbundle.WithOutputName("handbook.pdf"),
//	    mdbundle.WithDocumentHeadings(false),
//	)
//
// Named presets bundle page, text, and image settings:
//
//	loader, err := mdbundle.NewPresetLoader("")
//	preset, err := loader.LoadPreset("compact")
//	svc := mdbundle.New(preset.Options()...)
//
// A non-empty loader path reads presets/{name}.yaml files from disk,
// falling back to the embedded presets.
//
// # Parallel Processing
//
// For batches of independent inputs, use ServicePool to bound the number
// of in-flight conversions:
//
//	pool := mdbundle.NewServicePool(4)
//
//	svc := pool.Acquire()
//	defer pool.Release(svc)
//
// # Reproducible Output
//
// Output bytes depend only on the input files and the creation date. Fix
// the clock to make export runs byte-for-byte identical:
//
//	svc := mdbundle.New(mdbundle.WithClock(func() time.Time {
//	    return time.Unix(0, 0).UTC()
//	}))
package mdbundle
