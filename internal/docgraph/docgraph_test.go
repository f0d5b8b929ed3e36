package docgraph_test

// Notes:
// - Markdown fixtures are written per test into t.TempDir(), so tests stay
//   parallel-safe and hermetic.
// - Image decoding is exercised with real PNG bytes; format-specific decode
//   behavior is covered by the imageutil tests.

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-mdbundle/internal/docgraph"
	"github.com/alnah/go-mdbundle/internal/pathsafe"
)

// ---------------------------------------------------------------------------
// Resolve: traversal
// ---------------------------------------------------------------------------

func TestResolve_LinkChain(t *testing.T) {
	t.Parallel()

	root := mustRoot(t)
	a := writeFile(t, root, "a.md", "# A\n\nSee [b](b.md).\n")
	b := writeFile(t, root, "b.md", "See [c](docs/c.md#intro).\n")
	c := writeFile(t, filepath.Join(root, "docs"), "c.md", "# C\n")

	g, err := docgraph.NewResolver().Resolve(context.Background(), root, []string{a})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := []string{a, b, c}
	got := g.DocumentPaths()
	if len(got) != len(want) {
		t.Fatalf("resolved %d documents, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("document[%d] = %s, want %s", i, got[i], want[i])
		}
		if g.Documents[i].Ordinal != i {
			t.Errorf("document[%d].Ordinal = %d, want %d", i, g.Documents[i].Ordinal, i)
		}
	}
	if len(g.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", g.Warnings)
	}
}

func TestResolve_CycleVisitsEachDocumentOnce(t *testing.T) {
	t.Parallel()

	root := mustRoot(t)
	a := writeFile(t, root, "a.md", "[to b](b.md)\n")
	writeFile(t, root, "b.md", "[back to a](a.md)\n")

	g, err := docgraph.NewResolver().Resolve(context.Background(), root, []string{a})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(g.Documents) != 2 {
		t.Fatalf("resolved %d documents, want 2: %v", len(g.Documents), g.DocumentPaths())
	}
}

func TestResolve_SharedImageDeduplicated(t *testing.T) {
	t.Parallel()

	root := mustRoot(t)
	img := writePNG(t, filepath.Join(root, "shared.png"), 4, 2)
	a := writeFile(t, root, "a.md", "![one](shared.png)\n\n[next](b.md)\n")
	writeFile(t, root, "b.md", "![two](shared.png)\n\n![abs](/shared.png)\n")

	g, err := docgraph.NewResolver().Resolve(context.Background(), root, []string{a})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if len(g.Manifest) != 1 {
		t.Fatalf("manifest has %d entries, want 1: %v", len(g.Manifest), g.ImageOrder)
	}
	if len(g.ImageOrder) != 1 || g.ImageOrder[0] != img {
		t.Fatalf("ImageOrder = %v, want [%s]", g.ImageOrder, img)
	}

	asset := g.Manifest[img]
	if !asset.Available() {
		t.Fatalf("asset unavailable: %v", asset.Err)
	}
	if asset.Width != 4 || asset.Height != 2 {
		t.Errorf("asset dimensions = %dx%d, want 4x2", asset.Width, asset.Height)
	}
	if asset.Format != "png" {
		t.Errorf("asset format = %q, want png", asset.Format)
	}
}

func TestResolve_ImagePathLookup(t *testing.T) {
	t.Parallel()

	root := mustRoot(t)
	img := writePNG(t, filepath.Join(root, "pics", "logo.png"), 2, 2)
	a := writeFile(t, root, "a.md", "![logo](pics/logo.png)\n")

	g, err := docgraph.NewResolver().Resolve(context.Background(), root, []string{a})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	got, ok := g.Documents[0].ImagePath("pics/logo.png")
	if !ok {
		t.Fatal("ImagePath() not found for resolved reference")
	}
	if got != img {
		t.Errorf("ImagePath() = %s, want %s", got, img)
	}
	if _, ok := g.Documents[0].ImagePath("missing.png"); ok {
		t.Error("ImagePath() found an unresolved reference")
	}
}

// ---------------------------------------------------------------------------
// Resolve: dropped references and warnings
// ---------------------------------------------------------------------------

func TestResolve_EscapingRefsDroppedWithWarning(t *testing.T) {
	t.Parallel()

	root := mustRoot(t)
	a := writeFile(t, root, "a.md",
		"![leak](../../outside.png)\n\n[leak doc](../../../outside.md)\n")

	g, err := docgraph.NewResolver().Resolve(context.Background(), root, []string{a})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if len(g.Manifest) != 0 {
		t.Errorf("manifest should be empty, got %v", g.ImageOrder)
	}
	if len(g.Documents) != 1 {
		t.Errorf("resolved %d documents, want 1", len(g.Documents))
	}
	if len(g.Warnings) != 2 {
		t.Fatalf("got %d warnings, want 2: %v", len(g.Warnings), g.Warnings)
	}
	for _, w := range g.Warnings {
		if w.Code != docgraph.WarnPathEscape {
			t.Errorf("warning code = %q, want %q", w.Code, docgraph.WarnPathEscape)
		}
	}
}

func TestResolve_MissingLinkedDocumentWarns(t *testing.T) {
	t.Parallel()

	root := mustRoot(t)
	a := writeFile(t, root, "a.md", "[gone](gone.md)\n")

	g, err := docgraph.NewResolver().Resolve(context.Background(), root, []string{a})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(g.Documents) != 1 {
		t.Fatalf("resolved %d documents, want 1", len(g.Documents))
	}
	if len(g.Warnings) != 1 || g.Warnings[0].Code != docgraph.WarnMissingDocument {
		t.Fatalf("warnings = %v, want one %s", g.Warnings, docgraph.WarnMissingDocument)
	}
	if g.Warnings[0].Path != "gone.md" {
		t.Errorf("warning path = %q, want gone.md", g.Warnings[0].Path)
	}
}

func TestResolve_SkipsExternalAndAnchorRefs(t *testing.T) {
	t.Parallel()

	root := mustRoot(t)
	a := writeFile(t, root, "a.md",
		"![remote](https://example.com/pic.png)\n\n"+
			"[site](http://example.com/doc.md)\n\n"+
			"[mail](mailto:someone@example.com)\n\n"+
			"![inline](data:image/png;base64,AAAA)\n\n"+
			"[anchor](#section)\n\n"+
			"[plain](notes.txt)\n")

	g, err := docgraph.NewResolver().Resolve(context.Background(), root, []string{a})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(g.Documents) != 1 {
		t.Errorf("resolved %d documents, want 1", len(g.Documents))
	}
	if len(g.Manifest) != 0 {
		t.Errorf("manifest should be empty, got %v", g.ImageOrder)
	}
	if len(g.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", g.Warnings)
	}
}

func TestResolve_UndecodableImageKeptWithWarning(t *testing.T) {
	t.Parallel()

	root := mustRoot(t)
	broken := filepath.Join(root, "broken.png")
	if err := os.WriteFile(broken, []byte("not a png"), 0o600); err != nil {
		t.Fatal(err)
	}
	a := writeFile(t, root, "a.md", "![broken](broken.png)\n")

	g, err := docgraph.NewResolver().Resolve(context.Background(), root, []string{a})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	asset, ok := g.Manifest[broken]
	if !ok {
		t.Fatal("undecodable image missing from manifest")
	}
	if asset.Available() {
		t.Error("Available() = true for undecodable image")
	}
	if asset.Err == nil {
		t.Error("asset.Err = nil, want decode error")
	}
	if len(g.Warnings) != 1 || g.Warnings[0].Code != docgraph.WarnImageDecode {
		t.Fatalf("warnings = %v, want one %s", g.Warnings, docgraph.WarnImageDecode)
	}
}

// ---------------------------------------------------------------------------
// Resolve: failure modes
// ---------------------------------------------------------------------------

func TestResolve_NoEntries(t *testing.T) {
	t.Parallel()

	root := mustRoot(t)
	_, err := docgraph.NewResolver().Resolve(context.Background(), root, nil)
	if !errors.Is(err, docgraph.ErrNoEntries) {
		t.Fatalf("Resolve() error = %v, want ErrNoEntries", err)
	}
}

func TestResolve_EntryOutsideRoot(t *testing.T) {
	t.Parallel()

	root := mustRoot(t)
	outside := writeFile(t, mustRoot(t), "other.md", "# other\n")

	_, err := docgraph.NewResolver().Resolve(context.Background(), root, []string{outside})
	if !errors.Is(err, pathsafe.ErrEscapesRoot) {
		t.Fatalf("Resolve() error = %v, want ErrEscapesRoot", err)
	}
}

func TestResolve_ContextCanceled(t *testing.T) {
	t.Parallel()

	root := mustRoot(t)
	a := writeFile(t, root, "a.md", "# A\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := docgraph.NewResolver().Resolve(ctx, root, []string{a})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Resolve() error = %v, want context.Canceled", err)
	}
}

// ---------------------------------------------------------------------------
// ValidateOrder and Reorder
// ---------------------------------------------------------------------------

func TestValidateOrder(t *testing.T) {
	t.Parallel()

	discovered := []string{"/r/a.md", "/r/b.md", "/r/c.md"}

	tests := []struct {
		name    string
		manual  []string
		wantErr bool
	}{
		{
			name:   "same order",
			manual: []string{"/r/a.md", "/r/b.md", "/r/c.md"},
		},
		{
			name:   "permutation",
			manual: []string{"/r/c.md", "/r/a.md", "/r/b.md"},
		},
		{
			name:    "too short",
			manual:  []string{"/r/a.md", "/r/b.md"},
			wantErr: true,
		},
		{
			name:    "too long",
			manual:  []string{"/r/a.md", "/r/b.md", "/r/c.md", "/r/d.md"},
			wantErr: true,
		},
		{
			name:    "stranger replaces member",
			manual:  []string{"/r/a.md", "/r/b.md", "/r/zzz.md"},
			wantErr: true,
		},
		{
			name:    "duplicate hides omission",
			manual:  []string{"/r/a.md", "/r/a.md", "/r/b.md"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := docgraph.ValidateOrder(discovered, tt.manual)
			if tt.wantErr {
				if !errors.Is(err, docgraph.ErrOrderMismatch) {
					t.Fatalf("ValidateOrder() error = %v, want ErrOrderMismatch", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateOrder() error = %v", err)
			}
		})
	}
}

func TestReorder(t *testing.T) {
	t.Parallel()

	root := mustRoot(t)
	a := writeFile(t, root, "a.md", "[b](b.md)\n")
	b := writeFile(t, root, "b.md", "# B\n")

	g, err := docgraph.NewResolver().Resolve(context.Background(), root, []string{a})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if err := g.Reorder([]string{b, a}); err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}
	if got := g.DocumentPaths(); got[0] != b || got[1] != a {
		t.Fatalf("DocumentPaths() after Reorder = %v, want [%s %s]", got, b, a)
	}
	if g.Documents[0].Ordinal != 0 || g.Documents[1].Ordinal != 1 {
		t.Errorf("ordinals not reassigned: %d, %d",
			g.Documents[0].Ordinal, g.Documents[1].Ordinal)
	}

	if err := g.Reorder([]string{a, a}); !errors.Is(err, docgraph.ErrOrderMismatch) {
		t.Fatalf("Reorder() with duplicate = %v, want ErrOrderMismatch", err)
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func mustRoot(t *testing.T) string {
	t.Helper()
	root, err := pathsafe.CanonicalRoot(t.TempDir())
	if err != nil {
		t.Fatalf("CanonicalRoot() error = %v", err)
	}
	return root
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func writePNG(t *testing.T, path string, w, h int) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
