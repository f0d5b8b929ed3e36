package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Optional .env support; absence is not an error.
	_ = godotenv.Load()

	env := DefaultEnv()
	os.Exit(run(os.Args[1:], env))
}

// run dispatches the command line and returns the process exit code.
func run(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	command, rest := args[0], args[1:]

	switch command {
	case "convert":
		return runConvertCmd(rest, env)
	case "list":
		return runListCmd(rest, env)
	case "watch":
		return runWatchCmd(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		if err := runCompletion(rest, env); err != nil {
			fmt.Fprintln(env.Stderr, describeError(err))
			return exitCodeFor(err)
		}
		return ExitSuccess
	case "version":
		fmt.Fprintf(env.Stdout, "mdbundle %s\n", Version)
		return ExitSuccess
	case "help", "--help", "-h":
		runHelp(rest, env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", command)
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// runConvertCmd parses convert flags and executes the conversion with
// signal-aware cancellation.
func runConvertCmd(args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		return ExitUsage
	}

	configureMaxprocs(flags.common.verbose, env)
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, positional, flags, newServicePool, env); err != nil {
		fmt.Fprintln(env.Stderr, describeError(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runListCmd parses flags and runs discovery only.
func runListCmd(args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		return ExitUsage
	}

	cfg, err := resolveConfig(flags, env)
	if err != nil {
		fmt.Fprintln(env.Stderr, describeError(err))
		return exitCodeFor(err)
	}
	mergeFlags(flags, cfg)

	inputs, err := resolveInputs(positional, cfg)
	if err != nil {
		fmt.Fprintln(env.Stderr, describeError(err))
		return exitCodeFor(err)
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if flags.json {
		err = runListJSON(ctx, inputs, env)
	} else {
		err = runList(ctx, inputs, flags, env)
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, describeError(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runWatchCmd parses flags and runs the watch loop until interrupted.
func runWatchCmd(args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		return ExitUsage
	}

	configureMaxprocs(flags.common.verbose, env)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runWatch(ctx, positional, flags, env); err != nil {
		fmt.Fprintln(env.Stderr, describeError(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// configureMaxprocs aligns GOMAXPROCS with container CPU quotas. Errors
// are ignored: maxprocs.Set only fails on an invalid GOMAXPROCS env, in
// which case runtime defaults apply.
func configureMaxprocs(verbose bool, env *Environment) {
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(env.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}
}
