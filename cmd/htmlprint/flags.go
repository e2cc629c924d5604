package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks invalid command-line input.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// browserFlags holds browser startup flags.
type browserFlags struct {
	engine    string
	bin       string
	noSandbox bool
	timeout   string
}

// runFlags holds all flags for the run command.
type runFlags struct {
	common     commonFlags
	browser    browserFlags
	raster     bool
	projectDir string
	only       []string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addBrowserFlags adds browser flags to a FlagSet.
func addBrowserFlags(fs *flag.FlagSet, f *browserFlags) {
	fs.StringVar(&f.engine, "engine", "", "browser engine: rod, chromedp")
	fs.StringVar(&f.bin, "browser-bin", "", "browser executable (default: discovery)")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the browser sandbox (Docker/CI)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "navigation timeout (e.g., 30s, 2m)")
}

// parseRunFlags parses run command flags and returns positional args.
func parseRunFlags(args []string, stderr io.Writer) (*runFlags, []string, error) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &runFlags{}

	fs.BoolVar(&f.raster, "raster", false, "flatten PDF pages to images")
	fs.StringVar(&f.projectDir, "project-dir", "", "directory holding src/, assets/ and dist/")
	fs.StringSliceVar(&f.only, "only", nil, "export only the named targets (comma-separated)")

	addCommonFlags(fs, &f.common)
	addBrowserFlags(fs, &f.browser)

	fs.Usage = func() { printRunUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if f.common.quiet && f.common.verbose {
		return nil, nil, fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}
	switch strings.ToLower(f.browser.engine) {
	case "", "rod", "chromedp":
	default:
		return nil, nil, fmt.Errorf("%w: --engine %q (must be rod or chromedp)", ErrUsage, f.browser.engine)
	}

	return f, fs.Args(), nil
}
