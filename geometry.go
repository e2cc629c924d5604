package htmlprint

import (
	"fmt"
	"math"
	"strings"
)

// Unit densities: CSS pixels are defined at 96 per inch, PDF points at 72.
const (
	CSSPixelsPerInch = 96
	PointsPerInch    = 72

	// pointsPerPixel is exactly representable, so one multiplication
	// per length adds no rounding beyond a single float operation.
	pointsPerPixel = float64(PointsPerInch) / float64(CSSPixelsPerInch)
)

// PxToPt converts a CSS pixel length to PDF points.
func PxToPt(px float64) float64 {
	return px * pointsPerPixel
}

// PtToPx converts a PDF point length to CSS pixels.
func PtToPx(pt float64) float64 {
	return pt / pointsPerPixel
}

// PxToInches converts a CSS pixel length to inches, the unit the
// browser's print parameters use.
func PxToInches(px float64) float64 {
	return px / CSSPixelsPerInch
}

// Rect is an axis-aligned rectangle. Its unit depends on context:
// CSS pixels (top-left origin) for DOM measurements, PDF points
// (bottom-left origin) for placements.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether the rectangle has no drawable area.
func (r Rect) Empty() bool {
	return !(r.Width > 0 && r.Height > 0)
}

// PDFRect converts the placeholder box to PDF point space.
// The vertical flip happens in pixel space; every length is then
// converted exactly once.
func (b LogoPlacementBox) PDFRect() Rect {
	flippedY := b.ContainerHeight - (b.Y + b.Height)
	return Rect{
		X:      PxToPt(b.X),
		Y:      PxToPt(flippedY),
		Width:  PxToPt(b.Width),
		Height: PxToPt(b.Height),
	}
}

// Placement is where and how large an asset is drawn, in PDF points.
type Placement struct {
	Scale  float64
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// ContainFit scales an asset of intrinsic size assetW x assetH to fit
// inside box while preserving its aspect ratio, centered on the axis
// with slack (CSS object-fit: contain).
func ContainFit(assetW, assetH float64, box Rect) Placement {
	scale := math.Min(box.Width/assetW, box.Height/assetH)
	drawW := assetW * scale
	drawH := assetH * scale
	return Placement{
		Scale:  scale,
		X:      box.X + (box.Width-drawW)/2,
		Y:      box.Y + (box.Height-drawH)/2,
		Width:  drawW,
		Height: drawH,
	}
}

// PlaceLogo computes the PDF placement of an asset for a measured
// placeholder box.
func PlaceLogo(box LogoPlacementBox, assetW, assetH float64) (Placement, error) {
	if !(assetW > 0 && assetH > 0) {
		return Placement{}, fmt.Errorf("%w: %gx%g", ErrInvalidAssetSize, assetW, assetH)
	}
	target := box.PDFRect()
	if target.Empty() {
		return Placement{}, fmt.Errorf("%w: %gx%g px", ErrEmptyPlacement, box.Width, box.Height)
	}
	return ContainFit(assetW, assetH, target), nil
}

// Rounding selects how a measured box becomes whole pixels.
type Rounding int

const (
	// RoundNearest rounds to the nearest pixel (raster pages).
	RoundNearest Rounding = iota
	// RoundUp never truncates content (measured vector pages).
	RoundUp
)

// String returns the rounding name used in configuration.
func (r Rounding) String() string {
	if r == RoundUp {
		return "up"
	}
	return "nearest"
}

// ParseRounding parses a rounding name; empty means RoundNearest.
func ParseRounding(s string) (Rounding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nearest":
		return RoundNearest, nil
	case "up":
		return RoundUp, nil
	}
	return 0, fmt.Errorf("%w: unknown rounding %q", ErrInvalidVariant, s)
}

// MeasureBox turns a measured rectangle into a PageBox.
func MeasureBox(r Rect, mode Rounding) PageBox {
	round := math.Round
	if mode == RoundUp {
		round = math.Ceil
	}
	return PageBox{Width: int(round(r.Width)), Height: int(round(r.Height))}
}
