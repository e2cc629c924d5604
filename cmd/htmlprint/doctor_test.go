package main

// Notes:
// - Tests drive runDoctorCmd through an injected Environment: stub
//   discovery strategies, a canned version probe and an in-memory FS.
// - Container detection also reads /.dockerenv through hints.IsInContainer;
//   assertions on warnings therefore only check CI-driven cases.

import (
	"encoding/json"
	"errors"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/afero"

	htmlprint "github.com/alnah/go-htmlprint"
)

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_JSONOutput - JSON structure
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSONOutput(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	te.vars["HTMLPRINT_NO_SANDBOX"] = "1"

	code := runDoctorCmd([]string{"--json"}, te.Environment)
	if code != ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, ExitSuccess)
	}

	var result doctorResult
	if err := json.Unmarshal(te.stdout.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, te.stdout.String())
	}
	if result.Env.OS != runtime.GOOS || result.Env.Arch != runtime.GOARCH {
		t.Errorf("platform = %s/%s", result.Env.OS, result.Env.Arch)
	}
	if !result.Browser.Found || result.Browser.Path != "/usr/bin/chromium" || result.Browser.Strategy != "path" {
		t.Errorf("browser = %+v", result.Browser)
	}
	if result.Browser.Version != "Chromium 140.0" || result.Browser.Sandbox {
		t.Errorf("version/sandbox = %q/%v", result.Browser.Version, result.Browser.Sandbox)
	}
	if len(result.Strategies) != 2 || result.Strategies[0].Found || !result.Strategies[1].Found {
		t.Errorf("strategies = %+v", result.Strategies)
	}
	if !result.System.TempWritable {
		t.Error("temp not writable on MemMapFs")
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_Findings - Warnings and errors
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_NoBrowserIsWarning(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	te.Strategies = func() []htmlprint.Strategy { return []htmlprint.Strategy{stubStrategy{name: "env"}} }

	code := runDoctorCmd(nil, te.Environment)
	if code != ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, ExitSuccess)
	}
	out := te.stdout.String()
	for _, want := range []string{"[WARN] Not found", "env        not found", "HTMLPRINT_BROWSER_BIN", "Status: Ready with warnings"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunDoctorCmd_CIWithoutNoSandbox(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	te.vars["GITHUB_ACTIONS"] = "true"

	runDoctorCmd([]string{"--json"}, te.Environment)

	var result doctorResult
	if err := json.Unmarshal(te.stdout.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if !result.Env.CI || result.Status != "warnings" {
		t.Errorf("ci = %v, status = %s", result.Env.CI, result.Status)
	}
	if !strings.Contains(strings.Join(result.Warnings, "\n"), "HTMLPRINT_NO_SANDBOX") {
		t.Errorf("warnings = %v", result.Warnings)
	}
}

func TestRunDoctorCmd_VersionProbeFails(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	te.vars["HTMLPRINT_NO_SANDBOX"] = "1"
	te.BrowserVersion = func(string) (string, error) { return "", errors.New("exec format error") }

	runDoctorCmd([]string{"--json"}, te.Environment)

	var result doctorResult
	if err := json.Unmarshal(te.stdout.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.Browser.Version != "" || !strings.Contains(strings.Join(result.Warnings, "\n"), "exec format error") {
		t.Errorf("result = %+v", result)
	}
}

func TestRunDoctorCmd_TempNotWritable(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	te.FS = afero.NewReadOnlyFs(afero.NewMemMapFs())

	code := runDoctorCmd(nil, te.Environment)
	if code != ExitGeneral {
		t.Errorf("exit code = %d, want %d", code, ExitGeneral)
	}
	if !strings.Contains(te.stdout.String(), "Status: Not ready") {
		t.Errorf("output = %s", te.stdout.String())
	}
}

func TestIsContainer_EnvSignals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		vars     map[string]string
		wantHint string
	}{
		{"explicit override", map[string]string{"HTMLPRINT_CONTAINER": "1"}, "HTMLPRINT_CONTAINER=1"},
		{"kubernetes", map[string]string{"KUBERNETES_SERVICE_HOST": "10.0.0.1"}, "KUBERNETES_SERVICE_HOST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ok, hint := isContainer(func(k string) string { return tt.vars[k] })
			if !ok {
				t.Fatal("container not detected")
			}
			// /.dockerenv wins over environment signals after the override.
			if hint != tt.wantHint && hint != "/.dockerenv" {
				t.Errorf("hint = %q, want %q", hint, tt.wantHint)
			}
		})
	}
}
