// Package pathsafe resolves untrusted relative references against a trusted
// root directory, rejecting any reference whose final resolved path escapes
// the root. The check applies to the symlink-resolved path, not the textual
// form, so traversal via "..", absolute references, or symlinks pointing
// outside the root are all rejected.
package pathsafe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for path resolution.
var (
	ErrEscapesRoot  = errors.New("path escapes root directory")
	ErrInvalidRoot  = errors.New("invalid root directory")
	ErrEmptyRef     = errors.New("reference cannot be empty")
	ErrUnresolvable = errors.New("cannot resolve path")
)

// CanonicalRoot resolves a directory path to its canonical form (absolute,
// symlinks resolved). The directory must exist.
func CanonicalRoot(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidRoot)
	}

	absPath, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}

	realPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}

	info, err := os.Stat(realPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: not a directory: %s", ErrInvalidRoot, realPath)
	}

	return realPath, nil
}

// Resolve canonicalizes a reference found in a document and verifies the
// result stays inside root. The reference is joined against baseDir (the
// directory of the referencing document) when relative; absolute-looking
// references are treated as root-relative, never as host paths. Root must
// already be canonical (see CanonicalRoot) and baseDir must lie inside it.
//
// Returns the canonical absolute path, or ErrEscapesRoot if the resolved
// path is not root itself or a descendant of root.
func Resolve(root, baseDir, ref string) (string, error) {
	if ref == "" {
		return "", ErrEmptyRef
	}

	var joined string
	if filepath.IsAbs(ref) || strings.HasPrefix(ref, "/") {
		// Absolute references are root-relative by convention: "/img/a.png"
		// means "<root>/img/a.png", never the host filesystem root.
		joined = filepath.Join(root, strings.TrimLeft(ref, "/\\"))
	} else {
		joined = filepath.Join(baseDir, ref)
	}

	return Contain(root, joined)
}

// Contain canonicalizes path and verifies it is root or a descendant of
// root. Symlinks are resolved before the check; when the target does not
// exist yet, symlinks in the deepest existing ancestor are resolved instead
// so a symlinked parent cannot smuggle the path outside the root.
func Contain(root, path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnresolvable, err)
	}

	resolved, err := resolveSymlinks(absPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnresolvable, err)
	}

	// Separator suffix prevents prefix collisions (/base vs /baseevil).
	if resolved != root && !strings.HasPrefix(resolved, root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrEscapesRoot, path)
	}

	return resolved, nil
}

// resolveSymlinks evaluates symlinks for path. If the full path does not
// exist, the deepest existing ancestor is resolved and the remaining
// components are re-joined, so containment is still checked against the
// real parent location.
func resolveSymlinks(absPath string) (string, error) {
	resolved, err := filepath.EvalSymlinks(absPath)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}

	// Walk up until an existing ancestor is found, then re-append the
	// missing components to the resolved ancestor.
	var missing []string
	current := absPath
	for {
		parent := filepath.Dir(current)
		if parent == current {
			return absPath, nil
		}
		missing = append(missing, filepath.Base(current))
		current = parent

		resolved, err = filepath.EvalSymlinks(current)
		if err == nil {
			break
		}
		if !os.IsNotExist(err) {
			return "", err
		}
	}

	for i := len(missing) - 1; i >= 0; i-- {
		resolved = filepath.Join(resolved, missing[i])
	}
	return resolved, nil
}
