// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"

	"github.com/spf13/afero"

	"github.com/alnah/go-htmlprint/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists(afero.NewOsFs(), "/.dockerenv")
}

// inCI reports whether a common CI marker is set.
func inCI(getenv func(string) string) bool {
	for _, name := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		if getenv(name) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect returns hints for a browser that failed to start.
// Sandbox advice is only given in CI or a container.
func ForBrowserConnect(getenv func(string) string) string {
	var hints []string

	if (inCI(getenv) || IsInContainer()) && getenv("HTMLPRINT_NO_SANDBOX") == "" {
		hints = append(hints, "use --no-sandbox or set HTMLPRINT_NO_SANDBOX=1 in Docker/CI")
	}
	if getenv("HTMLPRINT_BROWSER_BIN") == "" && getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set HTMLPRINT_BROWSER_BIN to an installed Chrome or Chromium")
	}
	hints = append(hints, "run 'htmlprint doctor' to see which browser was found")

	return formatHints(hints)
}

// ForBrowserUnresolved explains the fallback taken when no browser was found.
func ForBrowserUnresolved() string {
	return format("the rod engine downloads a browser on first use; set HTMLPRINT_BROWSER_BIN to skip it")
}

// ForTimeout returns a hint about raising timeouts for slow documents.
func ForTimeout() string {
	return format("for slow documents, use --timeout or timeouts.navigation in the config")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and, when one was searched, the user config path.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/htmlprint.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(p, "htmlprint"+string('/')) || strings.Contains(p, `htmlprint\`) {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForSourceNotFound reminds that targets resolve against the project
// directory, not the working directory.
func ForSourceNotFound(projectDir string) string {
	if projectDir == "" {
		return format("set --project-dir to the directory holding src/")
	}
	return format("paths resolve against project dir " + projectDir + "; use --project-dir to change it")
}

// ForOutputDirectory returns hints for output write errors.
func ForOutputDirectory() string {
	return format("check the output directory is writable")
}

// ForAvailable lists the names a lookup could have matched.
func ForAvailable(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
