package mdbundle

// Notes:
// - Tests input classification for Markdown files, directories, and archives
// - Tests document discovery through link traversal from entry documents
// - Tests error mapping for missing, unsupported, and empty inputs
// - Tests archive extraction cleanup and warning propagation

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Fixture Helpers
// ---------------------------------------------------------------------------

// writeDoc writes one file under dir, creating parent directories as
// needed, and returns its path.
func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// writePNGFile writes a decodable PNG of the given pixel size.
func writePNGFile(t *testing.T, dir, name string, w, h int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return writeDoc(t, dir, name, buf.String())
}

// writeZipFile packs the entries into a zip under its own temp directory
// and returns the archive path.
func writeZipFile(t *testing.T, entries map[string]string) string {
	t.Helper()

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	// Stable entry order keeps failures reproducible.
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(entries[name])); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "bundle.zip")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// baseNames strips directories from a path slice for order assertions.
func baseNames(paths []string) []string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// TestProcessInput_MarkdownFile - Single Entry Traversal
// ---------------------------------------------------------------------------

func TestProcessInput_MarkdownFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := writeDoc(t, dir, "intro.md", "# Intro\n\n[details](chapters/details.md)\n")
	writeDoc(t, dir, "chapters/details.md", "# Details\n")
	writeDoc(t, dir, "unlinked.md", "# Never reached\n")

	svc := New()
	job, err := svc.ProcessInput(context.Background(), entry)
	if err != nil {
		t.Fatalf("ProcessInput() error = %v", err)
	}
	defer job.Cleanup()

	if job.Kind != InputMarkdownFile {
		t.Errorf("kind = %v, want %v", job.Kind, InputMarkdownFile)
	}
	if job.ID == "" {
		t.Error("job should carry an ID")
	}
	if len(job.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(job.Entries))
	}

	// A file input traverses links; unlinked siblings stay out.
	want := []string{"intro.md", "details.md"}
	if got := baseNames(job.Documents); !equalStrings(got, want) {
		t.Errorf("documents = %v, want %v", got, want)
	}

	// Every discovered document lives under the root.
	for _, doc := range job.Documents {
		if !strings.HasPrefix(doc, job.Root+string(filepath.Separator)) {
			t.Errorf("document %s escapes root %s", doc, job.Root)
		}
	}

	if got := job.outputDir(); got != job.Root {
		t.Errorf("outputDir = %s, want root %s", got, job.Root)
	}
}

// ---------------------------------------------------------------------------
// TestProcessInput_Directory - Full Collection
// ---------------------------------------------------------------------------

func TestProcessInput_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "b.md", "# B\n")
	writeDoc(t, dir, "a.md", "# A\n")
	writeDoc(t, dir, "nested/c.markdown", "# C\n")
	writeDoc(t, dir, "notes.txt", "ignored")

	svc := New()
	job, err := svc.ProcessInput(context.Background(), dir)
	if err != nil {
		t.Fatalf("ProcessInput() error = %v", err)
	}
	defer job.Cleanup()

	if job.Kind != InputDirectory {
		t.Errorf("kind = %v, want %v", job.Kind, InputDirectory)
	}

	// Directory inputs collect every Markdown file in walk order.
	want := []string{"a.md", "b.md", "c.markdown"}
	if got := baseNames(job.Documents); !equalStrings(got, want) {
		t.Errorf("documents = %v, want %v", got, want)
	}
	if got := baseNames(job.Entries); !equalStrings(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestProcessInput_Archive - Extraction and Cleanup
// ---------------------------------------------------------------------------

func TestProcessInput_Archive(t *testing.T) {
	t.Parallel()

	archive := writeZipFile(t, map[string]string{
		"guide/start.md": "# Start\n\n[more](more.md)\n",
		"guide/more.md":  "# More\n",
	})

	svc := New()
	job, err := svc.ProcessInput(context.Background(), archive)
	if err != nil {
		t.Fatalf("ProcessInput() error = %v", err)
	}

	if job.Kind != InputArchive {
		t.Errorf("kind = %v, want %v", job.Kind, InputArchive)
	}
	if len(job.Documents) != 2 {
		t.Errorf("documents = %d, want 2", len(job.Documents))
	}

	// Extraction lands in a temporary directory, not next to the zip.
	if job.Root == filepath.Dir(job.InputPath) {
		t.Error("archive root should be a temporary extraction directory")
	}
	if _, err := os.Stat(job.Root); err != nil {
		t.Fatalf("extraction root should exist before cleanup: %v", err)
	}

	// The PDF goes next to the archive, not into the temp directory.
	if got := job.outputDir(); got != filepath.Dir(job.InputPath) {
		t.Errorf("outputDir = %s, want %s", got, filepath.Dir(job.InputPath))
	}

	job.Cleanup()
	if _, err := os.Stat(job.Root); !os.IsNotExist(err) {
		t.Errorf("cleanup should remove the extraction root, stat err = %v", err)
	}

	// Cleanup is idempotent.
	job.Cleanup()
}

// ---------------------------------------------------------------------------
// TestProcessInput_Errors - Classification Failures
// ---------------------------------------------------------------------------

func TestProcessInput_Errors(t *testing.T) {
	t.Parallel()

	svc := New()
	ctx := context.Background()

	t.Run("nil context", func(t *testing.T) {
		t.Parallel()

		var nilCtx context.Context
		_, err := svc.ProcessInput(nilCtx, "anything.md")
		if !errors.Is(err, ErrNilContext) {
			t.Fatalf("expected ErrNilContext, got %v", err)
		}
	})

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		_, err := svc.ProcessInput(ctx, "")
		if !errors.Is(err, ErrInputNotFound) {
			t.Fatalf("expected ErrInputNotFound, got %v", err)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()

		_, err := svc.ProcessInput(ctx, filepath.Join(t.TempDir(), "absent.md"))
		if !errors.Is(err, ErrInputNotFound) {
			t.Fatalf("expected ErrInputNotFound, got %v", err)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		t.Parallel()

		path := writeDoc(t, t.TempDir(), "notes.txt", "plain text")
		_, err := svc.ProcessInput(ctx, path)
		if !errors.Is(err, ErrUnsupportedInput) {
			t.Fatalf("expected ErrUnsupportedInput, got %v", err)
		}
	})

	t.Run("directory without documents", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeDoc(t, dir, "readme.txt", "no markdown here")
		_, err := svc.ProcessInput(ctx, dir)
		if !errors.Is(err, ErrNoDocuments) {
			t.Fatalf("expected ErrNoDocuments, got %v", err)
		}
	})

	t.Run("archive without documents", func(t *testing.T) {
		t.Parallel()

		archive := writeZipFile(t, map[string]string{"data.csv": "a,b\n"})
		_, err := svc.ProcessInput(ctx, archive)
		if !errors.Is(err, ErrNoDocuments) {
			t.Fatalf("expected ErrNoDocuments, got %v", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestProcessInput_Warnings - Dropped References
// ---------------------------------------------------------------------------

func TestProcessInput_Warnings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sub := filepath.Join(dir, "docs")
	entry := writeDoc(t, sub, "main.md",
		"[escape](../../outside.md)\n\n"+
			"[gone](missing.md)\n\n"+
			"![broken](broken.png)\n")
	writeDoc(t, sub, "broken.png", "not a real image")

	svc := New()
	job, err := svc.ProcessInput(context.Background(), entry)
	if err != nil {
		t.Fatalf("ProcessInput() error = %v", err)
	}
	defer job.Cleanup()

	codes := make(map[string]int)
	for _, w := range job.Warnings {
		codes[w.Code]++
	}
	if codes[WarnPathEscape] != 1 {
		t.Errorf("path-escape warnings = %d, want 1 (%v)", codes[WarnPathEscape], job.Warnings)
	}
	if codes[WarnMissingDocument] != 1 {
		t.Errorf("missing-document warnings = %d, want 1 (%v)", codes[WarnMissingDocument], job.Warnings)
	}
	if codes[WarnImageDecode] != 1 {
		t.Errorf("image-decode warnings = %d, want 1 (%v)", codes[WarnImageDecode], job.Warnings)
	}

	// The undecodable image still shows up in the discovered set.
	if got := baseNames(job.Images); !equalStrings(got, []string{"broken.png"}) {
		t.Errorf("images = %v, want [broken.png]", got)
	}
}

// ---------------------------------------------------------------------------
// TestProcessInput_LinkCycle - Bounded Traversal
// ---------------------------------------------------------------------------

func TestProcessInput_LinkCycle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := writeDoc(t, dir, "a.md", "[to b](b.md)\n")
	writeDoc(t, dir, "b.md", "[back to a](a.md)\n")

	svc := New()
	job, err := svc.ProcessInput(context.Background(), entry)
	if err != nil {
		t.Fatalf("ProcessInput() error = %v", err)
	}
	defer job.Cleanup()

	want := []string{"a.md", "b.md"}
	if got := baseNames(job.Documents); !equalStrings(got, want) {
		t.Errorf("documents = %v, want %v", got, want)
	}
	if len(job.Warnings) != 0 {
		t.Errorf("cycles are not warnings, got %v", job.Warnings)
	}
}

// ---------------------------------------------------------------------------
// TestProcessInput_SharedImages - Manifest Dedup
// ---------------------------------------------------------------------------

func TestProcessInput_SharedImages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePNGFile(t, dir, "logo.png", 4, 4)
	entry := writeDoc(t, dir, "a.md", "![logo](logo.png)\n\n[next](b.md)\n")
	writeDoc(t, dir, "b.md", "![logo again](logo.png)\n")

	svc := New()
	job, err := svc.ProcessInput(context.Background(), entry)
	if err != nil {
		t.Fatalf("ProcessInput() error = %v", err)
	}
	defer job.Cleanup()

	if got := baseNames(job.Images); !equalStrings(got, []string{"logo.png"}) {
		t.Errorf("images = %v, want a single logo.png", got)
	}
	if len(job.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", job.Warnings)
	}
}
