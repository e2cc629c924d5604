package htmlprint

import "errors"

// Sentinel errors for library operations.
var (
	// Job input errors.
	ErrSourceNotFound  = errors.New("source document not found")
	ErrUnknownVariant  = errors.New("unknown document variant")
	ErrInvalidMode     = errors.New("invalid export mode")
	ErrModeUnsupported = errors.New("export mode not supported by variant")
	ErrInvalidVariant  = errors.New("invalid document variant")

	// Browser errors.
	ErrBrowserUnresolved = errors.New("no browser executable resolved")
	ErrBrowserConnect    = errors.New("failed to connect to browser")
	ErrPageCreate        = errors.New("failed to create browser page")
	ErrPageLoad          = errors.New("failed to load page")
	ErrScript            = errors.New("page script failed")
	ErrScreenshot        = errors.New("screenshot capture failed")
	ErrPDFGeneration     = errors.New("PDF generation failed")

	// Raster pipeline errors.
	ErrNoElements        = errors.New("no elements found")
	ErrMeasure           = errors.New("failed to measure element")
	ErrNoPages           = errors.New("no captured pages")
	ErrPageCountMismatch = errors.New("page count mismatch")

	// Stamping errors.
	ErrInvalidAssetSize = errors.New("invalid asset size")
	ErrEmptyPlacement   = errors.New("empty placement box")
	ErrStamp            = errors.New("logo stamping failed")

	// Asset errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// Output errors.
	ErrWriteOutput = errors.New("failed to write output file")
)
