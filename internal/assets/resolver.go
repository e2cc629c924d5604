package assets

import "errors"

// Resolver loads stylesheets from an optional directory first and falls
// back to the embedded set when a name is not found there. Validation
// and read errors from the directory are returned as-is.
type Resolver struct {
	custom   StyleLoader // nil without a style directory
	embedded StyleLoader
}

// NewResolver creates a Resolver. An empty dir uses embedded styles only.
func NewResolver(dir string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}
	if dir == "" {
		return r, nil
	}
	fsLoader, err := NewFilesystemLoader(dir)
	if err != nil {
		return nil, err
	}
	r.custom = fsLoader
	return r, nil
}

// LoadStyle loads the named stylesheet, directory first.
func (r *Resolver) LoadStyle(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadStyle(name)
	}
	css, err := r.custom.LoadStyle(name)
	if err == nil || !errors.Is(err, ErrStyleNotFound) {
		return css, err
	}
	return r.embedded.LoadStyle(name)
}

// HasCustomLoader reports whether a style directory is configured.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ StyleLoader = (*Resolver)(nil)
