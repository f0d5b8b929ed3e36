package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	mdbundle "github.com/alnah/go-mdbundle"
)

// ConversionResult holds the outcome of one input's conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Pages      int
	Documents  int
	Warnings   []mdbundle.Warning
	Err        error
	Duration   time.Duration
}

// convertBatch bundles every input concurrently using the service pool.
// Results keep the input order regardless of completion order.
func convertBatch(ctx context.Context, pool Pool, inputs []string, orderFile string) []ConversionResult {
	if len(inputs) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(inputs) {
		concurrency = len(inputs)
	}

	results := make([]ConversionResult, len(inputs))
	jobs := make(chan int, len(inputs))
	var wg sync.WaitGroup

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			svc := pool.Acquire()
			defer pool.Release(svc)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: inputs[idx],
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertInput(ctx, svc, inputs[idx], orderFile)
			}
		}()
	}

	for i := range inputs {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// printResults reports conversion outcomes and returns the failure count.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	var succeeded, failed int

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %s\n", r.InputPath, describeError(r.Err))
			continue
		}

		succeeded++
		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d pages, %d documents, %v)\n",
				r.InputPath, r.OutputPath, r.Pages, r.Documents, r.Duration.Round(time.Millisecond))
			for _, warning := range r.Warnings {
				fmt.Fprintf(env.Stdout, "  warning: %s\n", warning)
			}
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
			if n := len(r.Warnings); n > 0 {
				fmt.Fprintf(env.Stdout, "  %d reference(s) dropped, use --verbose for details\n", n)
			}
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", succeeded, failed)
	}

	return failed
}
