// Package docgraph resolves a graph of linked Markdown documents rooted at
// a trusted directory. Starting from one or more entry documents it follows
// Markdown-to-Markdown links breadth-first, collects image references into
// an asset manifest, and validates caller-supplied document orderings.
//
// Traversal uses an explicit work queue with a visited set keyed by
// canonical path, so cyclic links resolve to a bounded document set instead
// of recursing. Unsafe references (escaping the root) and missing link
// targets are dropped with warnings rather than failing the job.
package docgraph

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-mdbundle/internal/imageutil"
	"github.com/alnah/go-mdbundle/internal/pathsafe"
)

// Sentinel errors for graph resolution.
var (
	ErrNoEntries     = errors.New("no entry documents to resolve")
	ErrOrderMismatch = errors.New("manual order does not match resolved document set")
)

// probeConcurrency bounds parallel image decoding during manifest probing.
const probeConcurrency = 4

// RefKind classifies a reference extracted from Markdown source.
type RefKind int

const (
	// RefImage is an embedded image reference.
	RefImage RefKind = iota
	// RefLink is a link; only links to Markdown files join the traversal.
	RefLink
)

// Reference is a raw reference as written in the source, before validation.
type Reference struct {
	Raw  string
	Kind RefKind
}

// ResolvedRef is a validated reference with its canonical target path.
type ResolvedRef struct {
	Raw  string
	Kind RefKind
	Path string
}

// Document is one resolved Markdown file. Identity is the canonical path;
// a document appears exactly once regardless of how many links reach it.
type Document struct {
	Path    string
	Source  []byte
	Ordinal int
	Refs    []ResolvedRef

	images map[string]string // raw image ref -> canonical path
}

// ImagePath reports the canonical path a raw image reference resolved to.
// Returns false for references that were dropped during resolution.
func (d *Document) ImagePath(raw string) (string, bool) {
	path, ok := d.images[raw]
	return path, ok
}

// Asset is one manifest entry. An image that could not be decoded stays in
// the manifest with Err set so callers can render a fallback instead of
// silently losing the reference.
type Asset struct {
	Path     string
	Width    int
	Height   int
	Format   string
	ByteLen  int
	Resource *imageutil.Resource
	Err      error
}

// Available reports whether the asset decoded successfully.
func (a *Asset) Available() bool {
	return a.Err == nil && a.Resource != nil
}

// Manifest maps canonical image paths to their decoded metadata.
type Manifest map[string]*Asset

// Warning codes attached to non-fatal resolution failures.
const (
	WarnPathEscape      = "path-escape"
	WarnMissingDocument = "missing-document"
	WarnImageDecode     = "image-decode"
)

// Warning records a reference or asset that was dropped without failing
// the job.
type Warning struct {
	Code   string
	Path   string // the offending reference or canonical asset path
	Detail string
}

// Graph is the complete resolution result for one conversion job.
type Graph struct {
	Root       string
	Documents  []*Document
	Manifest   Manifest
	ImageOrder []string // manifest keys in discovery order
	Warnings   []Warning
}

// DocumentPaths returns the canonical document paths in traversal order.
func (g *Graph) DocumentPaths() []string {
	paths := make([]string, len(g.Documents))
	for i, d := range g.Documents {
		paths[i] = d.Path
	}
	return paths
}

// Resolver walks Markdown link graphs into ordered document sets.
type Resolver struct{}

// NewResolver creates a Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve traverses the document graph breadth-first from the entry paths.
// Root must be canonical (see pathsafe.CanonicalRoot) and every entry must
// lie inside it. First-visit order determines document order. Image
// references are decoded into the manifest; decode failures are recorded
// per asset, never fatal.
func (r *Resolver) Resolve(ctx context.Context, root string, entries []string) (*Graph, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	g := &Graph{
		Root:     root,
		Manifest: Manifest{},
	}

	queue := make([]string, 0, len(entries))
	visited := make(map[string]bool)

	for _, entry := range entries {
		canonical, err := pathsafe.Contain(root, entry)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", entry, err)
		}
		queue = append(queue, canonical)
	}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := queue[0]
		queue = queue[1:]
		if visited[path] {
			continue
		}
		visited[path] = true

		source, err := os.ReadFile(path) // #nosec G304 -- containment-checked above
		if err != nil {
			return nil, fmt.Errorf("reading document %s: %w", path, err)
		}

		doc := &Document{
			Path:    path,
			Source:  source,
			Ordinal: len(g.Documents),
			images:  make(map[string]string),
		}
		g.Documents = append(g.Documents, doc)

		baseDir := filepath.Dir(path)
		for _, ref := range extractRefs(source) {
			r.resolveRef(g, doc, baseDir, ref, &queue, visited)
		}
	}

	if err := r.probeManifest(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

// resolveRef validates one extracted reference and routes it: images into
// the manifest, Markdown links onto the work queue. Failing references
// become warnings and are dropped.
func (r *Resolver) resolveRef(g *Graph, doc *Document, baseDir string, ref Reference, queue *[]string, visited map[string]bool) {
	raw := stripFragment(ref.Raw)
	if raw == "" || isExternal(raw) {
		return
	}
	if ref.Kind == RefLink && !isMarkdownPath(raw) {
		return
	}

	canonical, err := pathsafe.Resolve(g.Root, baseDir, raw)
	if err != nil {
		g.Warnings = append(g.Warnings, Warning{
			Code:   WarnPathEscape,
			Path:   ref.Raw,
			Detail: fmt.Sprintf("referenced from %s", filepath.Base(doc.Path)),
		})
		return
	}

	resolved := ResolvedRef{Raw: ref.Raw, Kind: ref.Kind, Path: canonical}

	switch ref.Kind {
	case RefImage:
		doc.Refs = append(doc.Refs, resolved)
		doc.images[ref.Raw] = canonical
		if _, seen := g.Manifest[canonical]; !seen {
			g.Manifest[canonical] = &Asset{Path: canonical}
			g.ImageOrder = append(g.ImageOrder, canonical)
		}

	case RefLink:
		info, err := os.Stat(canonical)
		if err != nil || info.IsDir() {
			g.Warnings = append(g.Warnings, Warning{
				Code:   WarnMissingDocument,
				Path:   ref.Raw,
				Detail: fmt.Sprintf("linked from %s", filepath.Base(doc.Path)),
			})
			return
		}
		doc.Refs = append(doc.Refs, resolved)
		if !visited[canonical] {
			*queue = append(*queue, canonical)
		}
	}
}

// probeManifest decodes every discovered image concurrently. Results land
// in the asset entries; failures become per-asset warnings in discovery
// order so repeated runs report identically.
func (r *Resolver) probeManifest(ctx context.Context, g *Graph) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(probeConcurrency)

	for _, path := range g.ImageOrder {
		asset := g.Manifest[path]
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := imageutil.Load(asset.Path)
			if err != nil {
				asset.Err = err
				return nil
			}
			asset.Resource = res
			asset.Width = res.WidthPx
			asset.Height = res.HeightPx
			asset.Format = res.Format
			asset.ByteLen = res.ByteLen
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	for _, path := range g.ImageOrder {
		if asset := g.Manifest[path]; asset.Err != nil {
			g.Warnings = append(g.Warnings, Warning{
				Code:   WarnImageDecode,
				Path:   path,
				Detail: asset.Err.Error(),
			})
		}
	}
	return nil
}

// stripFragment removes an in-document anchor from a reference.
// A pure anchor ("#section") strips to empty and is skipped by the caller.
func stripFragment(raw string) string {
	if idx := strings.IndexByte(raw, '#'); idx >= 0 {
		return raw[:idx]
	}
	return raw
}

// isExternal reports whether a reference points outside the local
// filesystem (URLs, mail links, inline data).
func isExternal(raw string) bool {
	return strings.Contains(raw, "://") ||
		strings.HasPrefix(raw, "mailto:") ||
		strings.HasPrefix(raw, "data:")
}

// isMarkdownPath reports whether a path names a Markdown file.
func isMarkdownPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
