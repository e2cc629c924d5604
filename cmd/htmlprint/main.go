package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-htmlprint/internal/yamlutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// commands lists the subcommand names; anything else runs the export.
var commands = map[string]bool{
	"run":      true,
	"doctor":   true,
	"variants": true,
	"version":  true,
	"help":     true,
}

// isCommand reports whether arg names a subcommand.
func isCommand(arg string) bool {
	return commands[arg]
}

// runMain dispatches the command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerbose(rest) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(env.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	cmd := "run"
	if len(rest) > 0 && isCommand(rest[0]) {
		cmd, rest = rest[0], rest[1:]
	}

	switch cmd {
	case "version":
		fmt.Fprintf(env.Stdout, "htmlprint %s\n", Version)
		return ExitSuccess
	case "help":
		runHelp(rest, env)
		return ExitSuccess
	case "doctor":
		return runDoctorCmd(rest, env)
	case "variants":
		return report(env, runVariants(rest, env))
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()
	return report(env, runExport(ctx, rest, env))
}

// report prints err and maps it to an exit code.
func report(env *Environment, err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	var syntaxErr *yamlutil.SyntaxError
	if errors.As(err, &syntaxErr) {
		fmt.Fprintln(env.Stderr, "error: config syntax:")
		fmt.Fprintln(env.Stderr, syntaxErr.Pretty(false))
	} else {
		fmt.Fprintln(env.Stderr, "error:", err)
	}
	return exitCodeFor(err)
}

// runVariants prints the variant table as config YAML.
func runVariants(args []string, env *Environment) error {
	fs := flag.NewFlagSet("variants", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	var name string
	fs.StringVarP(&name, "config", "c", "", "config file name or path")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	cfg, err := loadRunConfig(name, env.Getenv("HTMLPRINT_CONFIG"))
	if err != nil {
		return err
	}
	table, err := variantTable(cfg)
	if err != nil {
		return err
	}
	out, err := encodeVariants(table)
	if err != nil {
		return fmt.Errorf("encoding variants: %w", err)
	}
	_, err = env.Stdout.Write(out)
	return err
}

// hasVerbose reports whether -v or --verbose appears in args.
func hasVerbose(args []string) bool {
	for _, a := range args {
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}
