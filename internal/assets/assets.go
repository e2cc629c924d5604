package assets

// defaultLoader serves the built-in stylesheets.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a built-in stylesheet by name (without .css).
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// Names lists the built-in stylesheet names, sorted.
func Names() []string {
	return defaultLoader.Names()
}
