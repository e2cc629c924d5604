package main

import (
	"errors"
	"os"

	htmlprint "github.com/alnah/go-htmlprint"
	"github.com/alnah/go-htmlprint/internal/config"
)

// Exit codes for the htmlprint CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All targets written
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or variant
	ExitIO      = 3 // Missing source, write failure
	ExitBrowser = 4 // Browser startup, navigation, print
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if htmlprint.IsBrowserError(err) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, htmlprint.ErrSourceNotFound) ||
		errors.Is(err, htmlprint.ErrWriteOutput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, htmlprint.ErrUnknownVariant) ||
		errors.Is(err, htmlprint.ErrInvalidVariant) ||
		errors.Is(err, htmlprint.ErrInvalidMode) ||
		errors.Is(err, htmlprint.ErrModeUnsupported) ||
		errors.Is(err, htmlprint.ErrStyleNotFound) ||
		errors.Is(err, htmlprint.ErrInvalidAssetPath) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownTarget) {
		return ExitUsage
	}

	return ExitGeneral
}
