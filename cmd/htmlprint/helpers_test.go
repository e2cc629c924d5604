package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"

	htmlprint "github.com/alnah/go-htmlprint"
)

// ---------------------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------------------

type stubStrategy struct {
	name string
	path string
}

func (s stubStrategy) Name() string { return s.name }

func (s stubStrategy) Find() (string, bool) { return s.path, s.path != "" }

// stubEngine never opens tabs; the recording exporter does not need them.
type stubEngine struct {
	mu       sync.Mutex
	closed   int
	closeErr error
}

func (e *stubEngine) OpenTab(context.Context, htmlprint.Viewport) (htmlprint.Tab, error) {
	return nil, errors.New("stub engine opens no tabs")
}

func (e *stubEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed++
	return e.closeErr
}

type exportCall struct {
	target  htmlprint.ExportTarget
	variant htmlprint.Variant
}

// recordingExporter records jobs and fails the target named failOn.
type recordingExporter struct {
	calls  []exportCall
	failOn string
	err    error
}

func (r *recordingExporter) Export(_ context.Context, target htmlprint.ExportTarget, v htmlprint.Variant) (*htmlprint.Result, error) {
	r.calls = append(r.calls, exportCall{target: target, variant: v})
	if target.Name == r.failOn {
		return nil, r.err
	}
	return &htmlprint.Result{Output: target.Output, Mode: target.Mode, Pages: 1}, nil
}

func (r *recordingExporter) names() []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.target.Name
	}
	return out
}

// testEnv wires an Environment to in-memory collaborators.
type testEnv struct {
	*Environment
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	vars     map[string]string
	engine   *stubEngine
	exporter *recordingExporter

	engineName string
	engineOpts htmlprint.EngineOptions
	started    int
	startErr   error
	resolved   int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	te := &testEnv{
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
		vars:     map[string]string{},
		engine:   &stubEngine{},
		exporter: &recordingExporter{},
	}
	te.Environment = &Environment{
		Stdout: te.stdout,
		Stderr: te.stderr,
		Getenv: func(k string) string { return te.vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(te.vars))
			for k, v := range te.vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		Executable: func() (string, error) { return "/opt/htmlprint/bin/htmlprint", nil },
		FS:         afero.NewMemMapFs(),
		Strategies: func() []htmlprint.Strategy {
			te.resolved++
			return []htmlprint.Strategy{stubStrategy{name: "env"}, stubStrategy{name: "path", path: "/usr/bin/chromium"}}
		},
		BrowserVersion: func(string) (string, error) { return "Chromium 140.0", nil },
		StartEngine: func(_ context.Context, name string, opts htmlprint.EngineOptions) (htmlprint.Engine, error) {
			te.started++
			te.engineName = name
			te.engineOpts = opts
			if te.startErr != nil {
				return nil, te.startErr
			}
			return te.engine, nil
		},
		NewExporter: func(htmlprint.Engine, ...htmlprint.Option) (Exporter, error) {
			return te.exporter, nil
		},
	}
	return te
}

// touch creates files in the in-memory filesystem.
func (te *testEnv) touch(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if err := afero.WriteFile(te.FS, p, []byte("<!doctype html>"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// writeConfigFile writes a config file on disk and returns its path.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "htmlprint.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
