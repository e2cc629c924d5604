package main

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // HTMLPRINT_CONFIG: config file name or path
	ProjectDir string        // HTMLPRINT_PROJECT_DIR: project directory
	Engine     string        // HTMLPRINT_ENGINE: rod or chromedp
	BrowserBin string        // HTMLPRINT_BROWSER_BIN: browser executable
	NoSandbox  bool          // HTMLPRINT_NO_SANDBOX=1
	Timeout    time.Duration // HTMLPRINT_TIMEOUT: navigation timeout
	Raster     bool          // HTMLPRINT_RASTER=1 or RASTER=1
}

// knownEnvVars lists valid HTMLPRINT_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"HTMLPRINT_CONFIG":      true,
	"HTMLPRINT_PROJECT_DIR": true,
	"HTMLPRINT_ENGINE":      true,
	"HTMLPRINT_BROWSER_BIN": true,
	"HTMLPRINT_NO_SANDBOX":  true,
	"HTMLPRINT_TIMEOUT":     true,
	"HTMLPRINT_RASTER":      true,
}

// loadEnvConfig reads configuration from environment variables.
// Invalid durations are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("HTMLPRINT_CONFIG"),
		ProjectDir: getenv("HTMLPRINT_PROJECT_DIR"),
		Engine:     getenv("HTMLPRINT_ENGINE"),
		BrowserBin: getenv("HTMLPRINT_BROWSER_BIN"),
		NoSandbox:  getenv("HTMLPRINT_NO_SANDBOX") == "1",
		Raster:     getenv("HTMLPRINT_RASTER") == "1" || getenv("RASTER") == "1",
	}

	if timeout := getenv("HTMLPRINT_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized HTMLPRINT_* variables.
// Helps catch typos like HTMLPRINT_RASTOR instead of HTMLPRINT_RASTER.
func warnUnknownEnvVars(log logrus.FieldLogger, environ []string) {
	for _, env := range environ {
		if strings.HasPrefix(env, "HTMLPRINT_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				log.WithField("variable", name).Warn("unknown environment variable (typo?)")
			}
		}
	}
}
