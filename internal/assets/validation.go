package assets

import (
	"fmt"
	"regexp"
)

// validName allows letters, digits, hyphens and underscores.
var validName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateAssetName checks that a style name is safe to use as a file
// name: no separators, dots or traversal sequences.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if !validName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
