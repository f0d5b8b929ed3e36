package mdbundle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdbundle/internal/blockmodel"
	"github.com/alnah/go-mdbundle/internal/docgraph"
	"github.com/alnah/go-mdbundle/internal/fileutil"
	"github.com/alnah/go-mdbundle/internal/imageutil"
	"github.com/alnah/go-mdbundle/internal/layout"
	"github.com/alnah/go-mdbundle/internal/pdfenc"
)

// outputPermissions for the exported PDF. PDFs are meant to be readable.
const outputPermissions = 0o644

// Convert bundles the job's documents into one paginated PDF and writes
// it atomically into the job's output directory. The job's Documents
// slice dictates document order; a reordering must keep the discovered
// set intact or Convert fails with ErrOrderMismatch before any layout
// work happens.
//
// Resolution runs again from the job's entries rather than trusting
// cached state, so documents edited between ProcessInput and Convert are
// picked up.
func (s *Service) Convert(ctx context.Context, job *Job) (result *Result, err error) {
	// Layout and encoding trust their own invariants; a panic there must
	// not take down callers working through a batch.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: internal panic: %v", ErrLayoutFailed, r)
		}
	}()

	if ctx == nil {
		return nil, ErrNilContext
	}
	if job == nil {
		return nil, ErrNilJob
	}
	if err := s.validateSettings(); err != nil {
		return nil, err
	}

	start := time.Now()

	graph, err := s.resolver.Resolve(ctx, job.Root, job.Entries)
	if err != nil {
		return nil, fmt.Errorf("resolving documents: %w", err)
	}

	if err := applyOrder(graph, job.Documents); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	blocks := s.buildBlocks(graph)
	pages := s.layouter.Layout(s.layoutConfig(), layoutManifest(graph.Manifest), blocks)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdfBytes, pageCount, err := s.encoder.Encode(pages, encoderImages(graph.Manifest), pdfenc.Metadata{
		Producer:     producer,
		CreationDate: s.cfg.clock().UTC(),
	})
	if err != nil {
		return nil, convertEncodeError(err)
	}

	outputDir := job.outputDir()
	if s.cfg.outputDir != "" {
		outputDir = s.cfg.outputDir
		if err := os.MkdirAll(outputDir, 0o750); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}
	outputPath := filepath.Join(outputDir, s.cfg.outputName)
	if err := fileutil.WriteFileAtomic(outputPath, pdfBytes, outputPermissions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	return &Result{
		OutputPath: outputPath,
		PageCount:  pageCount,
		Documents:  len(graph.Documents),
		Warnings:   convertWarnings(graph.Warnings),
		Duration:   time.Since(start),
	}, nil
}

// applyOrder reorders the freshly resolved graph to the caller's
// document order. An empty order keeps the discovered order.
func applyOrder(graph *docgraph.Graph, documents []string) error {
	if len(documents) == 0 {
		return nil
	}
	if err := graph.Reorder(documents); err != nil {
		if errors.Is(err, docgraph.ErrOrderMismatch) {
			return fmt.Errorf("%w: %v", ErrOrderMismatch, err)
		}
		return err
	}
	return nil
}

// buildBlocks flattens every document into one block sequence. Jobs
// bundling more than one document get a heading per document carrying
// its file stem, so readers can tell where one file ends and the next
// begins.
func (s *Service) buildBlocks(graph *docgraph.Graph) []blockmodel.Block {
	withHeadings := len(graph.Documents) > 1
	if s.cfg.docHeadings != nil {
		withHeadings = *s.cfg.docHeadings
	}

	var blocks []blockmodel.Block
	for _, doc := range graph.Documents {
		if withHeadings {
			blocks = append(blocks, documentHeading(doc.Path))
		}
		blocks = append(blocks, s.builder.Build(doc.Source, doc.ImagePath)...)
	}
	return blocks
}

// documentHeading builds the synthetic level-2 heading that separates
// bundled documents, titled with the file stem.
func documentHeading(path string) blockmodel.Heading {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return blockmodel.Heading{
		Level: 2,
		Runs:  []blockmodel.Run{{Text: stem}},
	}
}

// layoutManifest projects the asset manifest onto what the layout engine
// needs: pixel dimensions and availability.
func layoutManifest(m docgraph.Manifest) layout.Manifest {
	lm := make(layout.Manifest, len(m))
	for path, asset := range m {
		lm[path] = layout.ImageMeta{
			WidthPx:   asset.Width,
			HeightPx:  asset.Height,
			Available: asset.Available(),
		}
	}
	return lm
}

// encoderImages collects the decoded resources for every asset that
// survived probing. Failed assets never reach the encoder; layout has
// already rendered their alt text instead.
func encoderImages(m docgraph.Manifest) map[string]*imageutil.Resource {
	images := make(map[string]*imageutil.Resource, len(m))
	for path, asset := range m {
		if asset.Available() {
			images[path] = asset.Resource
		}
	}
	return images
}

// convertEncodeError maps encoder errors to public sentinels.
func convertEncodeError(err error) error {
	if errors.Is(err, pdfenc.ErrConsistency) {
		return fmt.Errorf("%w: %v", ErrEncodingConsistency, err)
	}
	return fmt.Errorf("encoding pdf: %w", err)
}
