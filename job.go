package mdbundle

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/alnah/go-mdbundle/internal/pathsafe"
	"github.com/alnah/go-mdbundle/internal/workspace"
)

// Job is one prepared conversion: a classified input, the workspace root
// anchoring all reference resolution, and the discovered document set.
type Job struct {
	ID        string
	Kind      InputKind
	InputPath string   // the input as given, made absolute
	Root      string   // canonical directory anchoring resolution
	Entries   []string // traversal entry documents, canonical paths

	// Documents holds every discovered Markdown file in traversal order.
	// Callers may permute it before Convert; the set itself must stay
	// identical to what resolution discovered.
	Documents []string
	// Images holds every referenced image asset in discovery order.
	Images []string
	// Warnings collected while resolving the document graph.
	Warnings []Warning

	cleanup func()
}

// Cleanup removes temporary extraction state. Safe to call repeatedly
// and on jobs that have none.
func (j *Job) Cleanup() {
	if j.cleanup != nil {
		j.cleanup()
		j.cleanup = nil
	}
}

// outputDir is where the exported PDF lands: next to the archive for
// archive inputs (the root is a temporary directory), inside the root
// otherwise.
func (j *Job) outputDir() string {
	if j.Kind == InputArchive {
		return filepath.Dir(j.InputPath)
	}
	return j.Root
}

// ProcessInput classifies inputPath, prepares a workspace for it, and
// resolves the document graph once so callers can inspect or reorder the
// document set before Convert. Archive inputs extract into a temporary
// directory; call Job.Cleanup when done with the job.
func (s *Service) ProcessInput(ctx context.Context, inputPath string) (*Job, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if inputPath == "" {
		return nil, fmt.Errorf("%w: empty input path", ErrInputNotFound)
	}

	kind, err := workspace.Classify(inputPath)
	if err != nil {
		return nil, convertWorkspaceError(err, inputPath)
	}

	absPath, err := filepath.Abs(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, inputPath)
	}

	job := &Job{ID: uuid.NewString(), InputPath: absPath}

	switch kind {
	case workspace.KindMarkdownFile:
		job.Kind = InputMarkdownFile
		root, err := pathsafe.CanonicalRoot(filepath.Dir(absPath))
		if err != nil {
			return nil, fmt.Errorf("resolving workspace root: %w", err)
		}
		entry, err := pathsafe.Contain(root, absPath)
		if err != nil {
			return nil, fmt.Errorf("resolving entry document: %w", err)
		}
		job.Root = root
		job.Entries = []string{entry}

	case workspace.KindDirectory:
		job.Kind = InputDirectory
		root, err := pathsafe.CanonicalRoot(absPath)
		if err != nil {
			return nil, fmt.Errorf("resolving workspace root: %w", err)
		}
		entries, err := workspace.CollectMarkdown(root)
		if err != nil {
			return nil, fmt.Errorf("collecting documents: %w", err)
		}
		job.Root = root
		job.Entries = entries

	case workspace.KindArchive:
		job.Kind = InputArchive
		root, cleanup, err := workspace.ExtractArchive(ctx, absPath)
		if err != nil {
			return nil, fmt.Errorf("extracting archive: %w", err)
		}
		job.Root = root
		job.cleanup = cleanup
		entries, err := workspace.CollectMarkdown(root)
		if err != nil {
			job.Cleanup()
			return nil, fmt.Errorf("collecting documents: %w", err)
		}
		job.Entries = entries
	}

	if len(job.Entries) == 0 {
		job.Cleanup()
		return nil, fmt.Errorf("%w: %s", ErrNoDocuments, inputPath)
	}

	graph, err := s.resolver.Resolve(ctx, job.Root, job.Entries)
	if err != nil {
		job.Cleanup()
		return nil, fmt.Errorf("resolving documents: %w", err)
	}

	job.Documents = graph.DocumentPaths()
	job.Images = append([]string(nil), graph.ImageOrder...)
	job.Warnings = convertWarnings(graph.Warnings)

	return job, nil
}

// convertWorkspaceError maps classification errors to public sentinels.
func convertWorkspaceError(err error, path string) error {
	switch {
	case errors.Is(err, workspace.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrInputNotFound, path)
	case errors.Is(err, workspace.ErrUnsupported):
		return fmt.Errorf("%w: %s", ErrUnsupportedInput, path)
	default:
		return err
	}
}
