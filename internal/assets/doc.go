// Package assets provides the override stylesheets injected into
// documents before export.
//
// # Loaders
//
//	StyleLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - stylesheets compiled into the binary
//	    ├── FilesystemLoader  - stylesheets from a directory on disk
//	    └── Resolver          - directory first, embedded fallback
//
// A style directory only needs the files it overrides:
//
//	{basePath}/
//	└── styles/
//	    └── {name}.css
//
// Style names are validated before any lookup, and FilesystemLoader
// resolves symlinks and refuses paths that leave basePath.
package assets
