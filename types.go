package htmlprint

import (
	"fmt"
	"strings"
)

// Mode selects the export strategy of a target.
type Mode int

const (
	// ModeVector prints the styled document natively to PDF.
	ModeVector Mode = iota
	// ModeRaster flattens each page element to a PNG and reassembles
	// the images into a PDF.
	ModeRaster
	// ModePNG writes a single fixed-size screenshot.
	ModePNG
)

// String returns the lowercase mode name.
func (m Mode) String() string {
	switch m {
	case ModeVector:
		return "vector"
	case ModeRaster:
		return "raster"
	case ModePNG:
		return "png"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode parses a mode name (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "vector", "pdf":
		return ModeVector, nil
	case "raster":
		return ModeRaster, nil
	case "png":
		return ModePNG, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// ExportTarget identifies one document-to-file conversion job.
type ExportTarget struct {
	Name    string // short label used in logs and --only filters
	Source  string // absolute path of the HTML document
	Output  string // absolute path of the output file
	Mode    Mode
	Variant string // key into the style override table

	// AssetRoot anchors the variant's inline assets; empty means the
	// directory of Source.
	AssetRoot string

	// Optional targets are skipped, not failed, when Source is missing.
	Optional bool
}

// PageBox is the pixel footprint of one logical printable unit.
type PageBox struct {
	Width  int
	Height int
}

// Empty reports whether the box has no area.
func (b PageBox) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// CapturedPage is one rasterized page element, in DOM order.
type CapturedPage struct {
	Index int
	PNG   []byte
	Box   PageBox
}

// LogoPlacementBox is a placeholder box measured in CSS pixels
// relative to its containing page (top-left origin), after style
// overrides were applied.
type LogoPlacementBox struct {
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	ContainerHeight float64 `json:"containerHeight"`
}

// AssetKind determines how a logo asset is embedded.
type AssetKind int

const (
	AssetNone   AssetKind = iota // no placeholder image or empty src
	AssetSVG                     // inlined as markup before export
	AssetPDF                     // stamped onto the exported PDF
	AssetRaster                  // left for the browser to render
)

// String returns the lowercase asset kind name.
func (k AssetKind) String() string {
	switch k {
	case AssetSVG:
		return "svg"
	case AssetPDF:
		return "pdf"
	case AssetRaster:
		return "raster"
	}
	return "none"
}

// EmbeddableAsset is a logo asset resolved from a placeholder's src.
type EmbeddableAsset struct {
	Kind AssetKind
	Path string // absolute path on disk, empty for AssetNone
}

// Result describes one completed export.
type Result struct {
	Output  string
	Mode    Mode
	Pages   int // pages in the written PDF, 1 for PNG
	Box     PageBox
	Bytes   int
	Stamped bool
}
