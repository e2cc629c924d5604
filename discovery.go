package htmlprint

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/spf13/afero"

	"github.com/alnah/go-htmlprint/internal/fileutil"
)

// Environment variables naming a browser executable, in priority order.
const (
	EnvBrowserBin    = "HTMLPRINT_BROWSER_BIN"
	EnvRodBrowserBin = "ROD_BROWSER_BIN"
)

// Strategy is one way of locating a browser executable.
type Strategy interface {
	Name() string
	Find() (path string, ok bool)
}

// Resolution is the outcome of browser discovery.
type Resolution struct {
	Path     string
	Strategy string
}

// ResolveBrowser tries strategies in order; the first hit wins.
// Returns ErrBrowserUnresolved naming every strategy tried otherwise.
func ResolveBrowser(strategies ...Strategy) (Resolution, error) {
	tried := make([]string, 0, len(strategies))
	for _, s := range strategies {
		if path, ok := s.Find(); ok {
			return Resolution{Path: path, Strategy: s.Name()}, nil
		}
		tried = append(tried, s.Name())
	}
	return Resolution{}, fmt.Errorf("%w (tried: %s)", ErrBrowserUnresolved, strings.Join(tried, ", "))
}

// DefaultStrategies returns the standard discovery order: environment,
// rod-managed browser, well-known install paths, PATH lookup.
func DefaultStrategies() []Strategy {
	fsys := afero.NewOsFs()
	return []Strategy{
		&EnvStrategy{Vars: []string{EnvBrowserBin, EnvRodBrowserBin}, Getenv: os.Getenv, FS: fsys},
		&BundledStrategy{FS: fsys},
		&WellKnownStrategy{Paths: WellKnownPaths(runtime.GOOS), FS: fsys},
		&LookPathStrategy{},
	}
}

// EnvStrategy reads an executable path from environment variables.
type EnvStrategy struct {
	Vars   []string
	Getenv func(string) string
	FS     afero.Fs
}

func (s *EnvStrategy) Name() string { return "env" }

func (s *EnvStrategy) Find() (string, bool) {
	for _, name := range s.Vars {
		if path := strings.TrimSpace(s.Getenv(name)); path != "" && fileutil.FileExists(s.FS, path) {
			return path, true
		}
	}
	return "", false
}

// BundledStrategy finds a browser rod already downloaded. It never
// triggers a download.
type BundledStrategy struct {
	FS afero.Fs
}

func (s *BundledStrategy) Name() string { return "bundled" }

func (s *BundledStrategy) Find() (string, bool) {
	path := launcher.NewBrowser().BinPath()
	if fileutil.FileExists(s.FS, path) {
		return path, true
	}
	return "", false
}

// WellKnownStrategy probes common install locations.
type WellKnownStrategy struct {
	Paths []string
	FS    afero.Fs
}

func (s *WellKnownStrategy) Name() string { return "well-known" }

func (s *WellKnownStrategy) Find() (string, bool) {
	for _, path := range s.Paths {
		if fileutil.FileExists(s.FS, path) {
			return path, true
		}
	}
	return "", false
}

// LookPathStrategy uses rod's search of PATH and standard locations.
type LookPathStrategy struct{}

func (s *LookPathStrategy) Name() string { return "path" }

func (s *LookPathStrategy) Find() (string, bool) {
	return launcher.LookPath()
}

// WellKnownPaths lists common Chromium-family install paths for goos.
func WellKnownPaths(goos string) []string {
	switch goos {
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
		}
	case "windows":
		return []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files\Chromium\Application\chrome.exe`,
			`C:\Program Files (x86)\Microsoft\Edge\Application\msedge.exe`,
		}
	}
	return []string{
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/snap/bin/chromium",
	}
}
