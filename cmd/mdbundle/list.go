package main

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	mdbundle "github.com/alnah/go-mdbundle"
)

// listing is the machine-readable shape of one input's discovery.
type listing struct {
	Input     string             `json:"input"`
	Kind      string             `json:"kind"`
	Root      string             `json:"root"`
	Documents []string           `json:"documents"`
	Images    []string           `json:"images"`
	Warnings  []mdbundle.Warning `json:"warnings,omitempty"`
}

// runList resolves each input and prints the discovered document and
// image sets in traversal order, without converting anything. The
// document list is what an order file permutes.
func runList(ctx context.Context, inputs []string, flags *convertFlags, env *Environment) error {
	svc := mdbundle.New()

	var failed int
	for _, input := range inputs {
		job, err := svc.ProcessInput(ctx, input)
		if err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %s\n", input, describeError(err))
			continue
		}

		printListing(job, input, flags.common.verbose, env)
		job.Cleanup()
	}

	if failed > 0 {
		return fmt.Errorf("%d input(s) failed to resolve", failed)
	}
	return nil
}

// runListJSON is runList with JSON output, for scripting.
func runListJSON(ctx context.Context, inputs []string, env *Environment) error {
	svc := mdbundle.New()

	listings := make([]listing, 0, len(inputs))
	for _, input := range inputs {
		job, err := svc.ProcessInput(ctx, input)
		if err != nil {
			return err
		}
		listings = append(listings, listing{
			Input:     input,
			Kind:      job.Kind.String(),
			Root:      job.Root,
			Documents: job.Documents,
			Images:    job.Images,
			Warnings:  job.Warnings,
		})
		job.Cleanup()
	}

	enc := json.NewEncoder(env.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(listings)
}

// printListing writes one input's discovery in human-readable form.
// Documents come out root-relative so the output doubles as an order
// file template.
func printListing(job *mdbundle.Job, input string, verbose bool, env *Environment) {
	fmt.Fprintf(env.Stdout, "%s (%s, root %s)\n", input, job.Kind, job.Root)

	fmt.Fprintf(env.Stdout, "  documents (%d):\n", len(job.Documents))
	for _, doc := range job.Documents {
		fmt.Fprintf(env.Stdout, "    %s\n", rootRelative(job.Root, doc))
	}

	if len(job.Images) > 0 {
		fmt.Fprintf(env.Stdout, "  images (%d):\n", len(job.Images))
		for _, img := range job.Images {
			fmt.Fprintf(env.Stdout, "    %s\n", rootRelative(job.Root, img))
		}
	}

	if verbose {
		for _, warning := range job.Warnings {
			fmt.Fprintf(env.Stdout, "  warning: %s\n", warning)
		}
	} else if n := len(job.Warnings); n > 0 {
		fmt.Fprintf(env.Stdout, "  %d warning(s), use --verbose for details\n", n)
	}
}

// rootRelative shortens a canonical path for display when it sits under
// the root.
func rootRelative(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
