package docgraph

import "fmt"

// ValidateOrder checks that a manual ordering is a permutation of the
// discovered document set: same length, same paths, no omissions,
// duplicates, or strangers. Violations wrap ErrOrderMismatch with the
// first offending path.
func ValidateOrder(discovered, manual []string) error {
	if len(manual) != len(discovered) {
		return fmt.Errorf("%w: got %d documents, resolved %d",
			ErrOrderMismatch, len(manual), len(discovered))
	}

	remaining := make(map[string]int, len(discovered))
	for _, path := range discovered {
		remaining[path]++
	}
	for _, path := range manual {
		if remaining[path] == 0 {
			return fmt.Errorf("%w: unexpected or duplicated document %s",
				ErrOrderMismatch, path)
		}
		remaining[path]--
	}
	for _, path := range discovered {
		if remaining[path] > 0 {
			return fmt.Errorf("%w: missing document %s", ErrOrderMismatch, path)
		}
	}
	return nil
}

// Reorder rearranges the graph's documents to the given order after
// validating it against the discovered set. Ordinals are reassigned to
// match the new positions.
func (g *Graph) Reorder(manual []string) error {
	if err := ValidateOrder(g.DocumentPaths(), manual); err != nil {
		return err
	}

	byPath := make(map[string]*Document, len(g.Documents))
	for _, doc := range g.Documents {
		byPath[doc.Path] = doc
	}

	ordered := make([]*Document, len(manual))
	for i, path := range manual {
		doc := byPath[path]
		doc.Ordinal = i
		ordered[i] = doc
	}
	g.Documents = ordered
	return nil
}
