package main

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/afero"

	htmlprint "github.com/alnah/go-htmlprint"
)

// Exporter is the part of the library the run command drives.
type Exporter interface {
	Export(ctx context.Context, target htmlprint.ExportTarget, v htmlprint.Variant) (*htmlprint.Result, error)
}

// Compile-time interface implementation check.
var _ Exporter = (*htmlprint.Exporter)(nil)

// Environment holds injectable dependencies for testability.
// Includes I/O, process environment, filesystem, and browser startup.
type Environment struct {
	Stdout     io.Writer
	Stderr     io.Writer
	Getenv     func(string) string
	Environ    func() []string
	Executable func() (string, error)
	FS         afero.Fs

	// Strategies returns the browser discovery order.
	Strategies func() []htmlprint.Strategy
	// BrowserVersion reports the version string of a browser executable.
	BrowserVersion func(path string) (string, error)
	// StartEngine launches the named browser engine.
	StartEngine func(ctx context.Context, name string, opts htmlprint.EngineOptions) (htmlprint.Engine, error)
	// NewExporter builds the exporter bound to a running engine.
	NewExporter func(engine htmlprint.Engine, opts ...htmlprint.Option) (Exporter, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		Getenv:         os.Getenv,
		Environ:        os.Environ,
		Executable:     os.Executable,
		FS:             afero.NewOsFs(),
		Strategies:     htmlprint.DefaultStrategies,
		BrowserVersion: browserVersion,
		StartEngine:    htmlprint.NewEngine,
		NewExporter: func(engine htmlprint.Engine, opts ...htmlprint.Option) (Exporter, error) {
			return htmlprint.NewExporter(engine, opts...)
		},
	}
}

// browserVersion runs the executable with --version.
func browserVersion(path string) (string, error) {
	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- path comes from browser discovery
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
