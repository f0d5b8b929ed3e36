package main

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	mdbundle "github.com/alnah/go-mdbundle"
)

// debounceDelay coalesces bursts of filesystem events (editors save
// through temp files and renames) into one re-conversion.
const debounceDelay = 300 * time.Millisecond

// watchedExtensions are the file types whose changes trigger a rebuild.
var watchedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".png":      true,
	".jpg":      true,
	".jpeg":     true,
	".gif":      true,
	".webp":     true,
	".bmp":      true,
}

// runWatch converts the input once, then re-converts whenever a relevant
// file under its workspace root changes. Blocks until ctx is canceled.
func runWatch(ctx context.Context, args []string, flags *convertFlags, env *Environment) error {
	cfg, err := resolveConfig(flags, env)
	if err != nil {
		return err
	}
	mergeFlags(flags, cfg)

	inputs, err := resolveInputs(args, cfg)
	if err != nil {
		return err
	}
	if len(inputs) != 1 {
		return fmt.Errorf("watch takes exactly one input, got %d", len(inputs))
	}
	input := inputs[0]

	opts, err := buildServiceOptions(cfg)
	if err != nil {
		return err
	}
	if cfg.Output.Dir != "" {
		opts = append(opts, mdbundle.WithOutputDir(cfg.Output.Dir))
	}
	svc := mdbundle.New(opts...)

	// First conversion also tells us which root to watch.
	job, err := svc.ProcessInput(ctx, input)
	if err != nil {
		return err
	}
	if job.Kind == mdbundle.InputArchive {
		job.Cleanup()
		return fmt.Errorf("%w: watch mode does not support archives", mdbundle.ErrUnsupportedInput)
	}
	root := job.Root
	job.Cleanup()

	rebuild := func() {
		result := convertInput(ctx, svc, input, flags.document.orderFile)
		printResults([]ConversionResult{result}, flags.common.quiet, flags.common.verbose, env)
	}
	rebuild()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, root); err != nil {
		return err
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Watching %s for changes...\n", root)
	}

	var debounce *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// New directories must be added to the watch set before
			// their contents produce events.
			if event.Has(fsnotify.Create) {
				_ = watchTree(watcher, event.Name)
			}
			if !relevantEvent(event) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case <-pending:
			rebuild()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(env.Stderr, "watch error: %v\n", err)
		}
	}
}

// watchTree registers path and every directory below it. Non-directories
// are ignored; the parent watch covers file events.
func watchTree(watcher *fsnotify.Watcher, path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // transient: entry disappeared mid-walk
		}
		if !d.IsDir() {
			return nil
		}
		if addErr := watcher.Add(p); addErr != nil {
			return fmt.Errorf("watching %s: %w", p, addErr)
		}
		return nil
	})
}

// relevantEvent reports whether an event should trigger a rebuild.
func relevantEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	return watchedExtensions[ext]
}
