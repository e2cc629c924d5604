package assets

// StyleLoader loads override stylesheets by name.
type StyleLoader interface {
	// LoadStyle returns the CSS of the named stylesheet (no extension).
	// Returns ErrStyleNotFound if it does not exist and
	// ErrInvalidAssetName if the name is unsafe.
	LoadStyle(name string) (string, error)
}
