// Package workspace prepares conversion inputs: it classifies what kind
// of input a path names, unpacks zip archives into throwaway directories,
// and collects the Markdown files beneath a root in lexical order.
package workspace

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/alnah/go-mdbundle/internal/pathsafe"
)

// Sentinel errors for input preparation.
var (
	ErrNotFound    = errors.New("input path does not exist")
	ErrUnsupported = errors.New("unsupported input type")
)

// MaxEntryBytes caps the decompressed size of a single archive entry.
// Variable so tests can lower it.
var MaxEntryBytes int64 = 512 << 20

// Kind classifies a conversion input. The set is closed: callers switch
// over exactly these three values.
type Kind int

const (
	KindMarkdownFile Kind = iota
	KindDirectory
	KindArchive
)

func (k Kind) String() string {
	switch k {
	case KindMarkdownFile:
		return "markdown file"
	case KindDirectory:
		return "directory"
	case KindArchive:
		return "zip archive"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Classify determines how a path enters the pipeline: a single Markdown
// file, a directory tree, or a zip archive. Anything else is rejected up
// front rather than failing mid-conversion.
func Classify(path string) (Kind, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return 0, fmt.Errorf("stat input: %w", err)
	}
	if info.IsDir() {
		return KindDirectory, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return KindMarkdownFile, nil
	case ".zip":
		return KindArchive, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupported, path)
}

// ExtractArchive unpacks a zip archive into a fresh temporary directory
// and returns the directory's canonical path plus a cleanup function.
// An entry that would land outside the directory aborts the whole
// extraction: an archive that tries to escape is hostile, not salvageable.
func ExtractArchive(ctx context.Context, archivePath string) (string, func(), error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", nil, fmt.Errorf("opening archive: %w", err)
	}
	defer func() { _ = reader.Close() }()

	dir := filepath.Join(os.TempDir(), "mdbundle-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", nil, fmt.Errorf("creating extraction dir: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	root, err := pathsafe.CanonicalRoot(dir)
	if err != nil {
		cleanup()
		return "", nil, err
	}

	for _, file := range reader.File {
		if err := ctx.Err(); err != nil {
			cleanup()
			return "", nil, err
		}
		if err := extractEntry(root, file); err != nil {
			cleanup()
			return "", nil, fmt.Errorf("extracting %s: %w", file.Name, err)
		}
	}
	return root, cleanup, nil
}

func extractEntry(root string, file *zip.File) error {
	target, err := pathsafe.Contain(root, filepath.Join(root, filepath.FromSlash(file.Name)))
	if err != nil {
		return err
	}

	mode := file.Mode()
	if mode.IsDir() {
		return os.MkdirAll(target, 0o750)
	}
	if !mode.IsRegular() {
		// Symlinks and device entries are dropped; a later containment
		// check would not survive them.
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return err
	}
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) // #nosec G304 -- containment-checked above
	if err != nil {
		return err
	}
	written, err := io.CopyN(dst, rc, MaxEntryBytes+1)
	closeErr := dst.Close()
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if closeErr != nil {
		return closeErr
	}
	if written > MaxEntryBytes {
		return fmt.Errorf("entry exceeds %d bytes", MaxEntryBytes)
	}
	return nil
}

// CollectMarkdown returns every Markdown file under root in lexical walk
// order, which is what defines the default document order for a job.
func CollectMarkdown(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md", ".markdown":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return files, nil
}
