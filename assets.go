package htmlprint

import (
	"errors"

	"github.com/alnah/go-htmlprint/internal/assets"
)

// StyleLoader loads override stylesheets by name (without .css).
//
// NewStyleLoader serves the built-in stylesheets, optionally overridden
// from a directory. Implement this interface for other backends.
type StyleLoader interface {
	// LoadStyle returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)
}

// BuiltinStyles lists the names of the embedded override stylesheets.
func BuiltinStyles() []string {
	return assets.Names()
}

// NewStyleLoader creates a StyleLoader. If basePath is empty only the
// embedded stylesheets are used; otherwise {basePath}/styles/{name}.css
// takes precedence with fallback to the embedded one.
//
// Returns ErrInvalidAssetPath if basePath is set but not a readable directory.
func NewStyleLoader(basePath string) (StyleLoader, error) {
	resolver, err := assets.NewResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return &styleLoaderAdapter{resolver: resolver}, nil
}

// styleLoaderAdapter maps internal asset errors to public sentinels.
type styleLoaderAdapter struct {
	resolver *assets.Resolver
}

func (a *styleLoaderAdapter) LoadStyle(name string) (string, error) {
	css, err := a.resolver.LoadStyle(name)
	if err != nil {
		return "", convertAssetError(err)
	}
	return css, nil
}

// convertAssetError maps internal asset errors to public errors.
func convertAssetError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, assets.ErrStyleNotFound), errors.Is(err, assets.ErrInvalidAssetName):
		return &wrappedAssetError{sentinel: ErrStyleNotFound, original: err}
	case errors.Is(err, assets.ErrInvalidBasePath), errors.Is(err, assets.ErrPathTraversal):
		return &wrappedAssetError{sentinel: ErrInvalidAssetPath, original: err}
	}
	return err
}

// wrappedAssetError keeps the internal message but matches the public
// sentinel with errors.Is.
type wrappedAssetError struct {
	sentinel error
	original error
}

func (e *wrappedAssetError) Error() string {
	return e.original.Error()
}

func (e *wrappedAssetError) Unwrap() error {
	return e.sentinel
}
