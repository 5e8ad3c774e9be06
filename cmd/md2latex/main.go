package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-md2latex/internal/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// commands lists the subcommands, in help order.
var commands = []string{"convert", "doctor", "config", "completion", "version", "help"}

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches args to a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	// "md2latex doc.md" is short for "md2latex convert doc.md".
	if looksLikeMarkdown(cmd) {
		cmd, rest = "convert", args[1:]
	}

	switch cmd {
	case "convert":
		return runConvertCmd(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "config":
		return exitWith(env, runConfigCmd(rest, env))
	case "completion":
		return exitWith(env, runCompletion(rest, env))
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "md2latex %s\n", Version)
		return ExitSuccess
	case "help", "--help", "-h":
		return runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// runConvertCmd parses the convert flags and converts until done or
// interrupted.
func runConvertCmd(args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	setMaxProcs(flags.common.verbose, env)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	return exitWith(env, runConvert(ctx, positional, flags, env))
}

// exitWith prints err, if any, and maps it to an exit code.
func exitWith(env *Environment, err error) int {
	var reported *reportedError
	switch {
	case err == nil:
	case errors.As(err, &reported) && reported.summary == "":
	default:
		fmt.Fprintln(env.Stderr, err)
	}
	return exitCodeFor(err)
}

// setMaxProcs configures GOMAXPROCS for the container CPU quota.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func setMaxProcs(verbose bool, env *Environment) {
	logger := func(string, ...any) {}
	if verbose {
		logger = func(format string, args ...any) {
			fmt.Fprintf(env.Stderr, format+"\n", args...)
		}
	}
	_, _ = maxprocs.Set(maxprocs.Logger(logger))
}

// notifyContext returns a context that is canceled when an interrupt or
// termination signal is received. Call stop() to release resources.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// isCommand reports whether name is a subcommand. Matching is case
// sensitive.
func isCommand(name string) bool {
	for _, c := range commands {
		if c == name {
			return true
		}
	}
	return false
}

// looksLikeMarkdown reports whether arg names a markdown file rather than
// a command.
func looksLikeMarkdown(arg string) bool {
	if isCommand(arg) || strings.HasPrefix(arg, "-") {
		return false
	}
	return fileutil.IsMarkdown(filepath.Base(arg))
}
