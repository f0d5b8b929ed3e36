package main

import (
	"context"
	"fmt"
	"time"

	mdbundle "github.com/alnah/go-mdbundle"
)

// Converter is the slice of the service the CLI needs.
type Converter interface {
	ProcessInput(ctx context.Context, inputPath string) (*mdbundle.Job, error)
	Convert(ctx context.Context, job *mdbundle.Job) (*mdbundle.Result, error)
}

// Compile-time interface implementation check.
var _ Converter = (*mdbundle.Service)(nil)

// Pool abstracts service pool operations for testability.
type Pool interface {
	Acquire() Converter
	Release(Converter)
	Size() int
}

// servicePool adapts mdbundle.ServicePool to the CLI's Pool interface.
type servicePool struct {
	inner *mdbundle.ServicePool
}

func (p servicePool) Acquire() Converter { return p.inner.Acquire() }

func (p servicePool) Release(c Converter) {
	if svc, ok := c.(*mdbundle.Service); ok {
		p.inner.Release(svc)
	}
}

func (p servicePool) Size() int { return p.inner.Size() }

// newServicePool builds the production pool for the given worker count
// and service options.
func newServicePool(workers int, opts ...mdbundle.Option) Pool {
	size := mdbundle.ResolvePoolSize(workers)
	return servicePool{inner: mdbundle.NewServicePool(size, opts...)}
}

// poolFactory lets tests substitute the pool construction.
type poolFactory func(workers int, opts ...mdbundle.Option) Pool

// runConvert orchestrates the convert command: merge configuration,
// build service options, bundle every input, report results.
func runConvert(ctx context.Context, args []string, flags *convertFlags, newPool poolFactory, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := resolveConfig(flags, env)
	if err != nil {
		return err
	}
	mergeFlags(flags, cfg)

	inputs, err := resolveInputs(args, cfg)
	if err != nil {
		return err
	}

	if flags.list {
		return runList(ctx, inputs, flags, env)
	}

	if flags.document.orderFile != "" && len(inputs) > 1 {
		return fmt.Errorf("%w: got %d inputs", ErrOrderFileBatch, len(inputs))
	}

	opts, err := buildServiceOptions(cfg)
	if err != nil {
		return err
	}
	if cfg.Output.Dir != "" {
		opts = append(opts, mdbundle.WithOutputDir(cfg.Output.Dir))
	}

	pool := newPool(cfg.Workers, opts...)
	results := convertBatch(ctx, pool, inputs, flags.document.orderFile)

	failed := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		// Wrap the first failure so exitCodeFor still sees the sentinel.
		for _, r := range results {
			if r.Err != nil {
				return fmt.Errorf("%d conversion(s) failed: %w", failed, r.Err)
			}
		}
	}
	return nil
}

// convertInput runs one full job: discovery, optional manual reorder,
// conversion.
func convertInput(ctx context.Context, svc Converter, input, orderFile string) ConversionResult {
	start := time.Now()
	result := ConversionResult{InputPath: input}

	job, err := svc.ProcessInput(ctx, input)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	defer job.Cleanup()

	if orderFile != "" {
		order, err := readOrderFile(orderFile, job.Root)
		if err != nil {
			result.Err = err
			result.Duration = time.Since(start)
			return result
		}
		job.Documents = order
	}

	converted, err := svc.Convert(ctx, job)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	result.OutputPath = converted.OutputPath
	result.Pages = converted.PageCount
	result.Documents = converted.Documents
	result.Warnings = converted.Warnings
	result.Duration = time.Since(start)
	return result
}
