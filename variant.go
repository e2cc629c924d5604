package htmlprint

import (
	"fmt"
	"sort"
	"strings"
)

// PageSizing selects how a variant's vector page size is determined.
type PageSizing int

const (
	// SizeCSS honors the document's own @page rule.
	SizeCSS PageSizing = iota
	// SizeFixed prints at Variant.Page.
	SizeFixed
	// SizeMeasured measures Variant.PageSelector and sizes the page to it.
	SizeMeasured
)

// String returns the sizing name used in configuration.
func (s PageSizing) String() string {
	switch s {
	case SizeFixed:
		return "fixed"
	case SizeMeasured:
		return "measured"
	}
	return "css"
}

// ParsePageSizing parses a sizing name; empty means SizeCSS.
func ParsePageSizing(s string) (PageSizing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "css":
		return SizeCSS, nil
	case "fixed":
		return SizeFixed, nil
	case "measured":
		return SizeMeasured, nil
	}
	return 0, fmt.Errorf("%w: unknown page sizing %q", ErrInvalidVariant, s)
}

// LogoSlot names the elements of a logo placeholder.
type LogoSlot struct {
	Container   string // page the box is measured against
	Placeholder string // box the logo must fit
	Image       string // <img> whose src names the asset
}

// Variant is the style override entry of one document family. It is
// looked up once per job and passed explicitly to the export steps.
type Variant struct {
	Name  string
	Media string // "print" or "screen"; empty keeps the default

	Viewport       Viewport // vector and PNG layout
	RasterViewport Viewport // raster capture, usually a higher scale

	// Style names an override stylesheet; CSS is appended after it.
	Style string
	CSS   string

	// PageSelector matches one element per page (raster, SizeMeasured).
	PageSelector string
	Sizing       PageSizing
	Page         PageBox // SizeFixed page size
	Rounding     Rounding

	FirstPageOnly bool
	Logo          *LogoSlot

	// Inline lists SVG files, relative to the target's asset root, that
	// replace matching <img> sources with data URIs before export.
	Inline []string
}

// Validate checks that the variant can serve at least one mode.
func (v Variant) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidVariant)
	}
	switch v.Media {
	case "", "print", "screen":
	default:
		return fmt.Errorf("%w: %s: unknown media %q", ErrInvalidVariant, v.Name, v.Media)
	}
	if v.Sizing == SizeFixed && v.Page.Empty() {
		return fmt.Errorf("%w: %s: fixed sizing without page size", ErrInvalidVariant, v.Name)
	}
	if v.Sizing == SizeMeasured && v.PageSelector == "" {
		return fmt.Errorf("%w: %s: measured sizing without page selector", ErrInvalidVariant, v.Name)
	}
	if v.Logo != nil && (v.Logo.Container == "" || v.Logo.Placeholder == "" || v.Logo.Image == "") {
		return fmt.Errorf("%w: %s: incomplete logo slot", ErrInvalidVariant, v.Name)
	}
	return nil
}

// Supports reports whether the variant can export in mode m.
func (v Variant) Supports(m Mode) bool {
	switch m {
	case ModeVector:
		return true
	case ModeRaster:
		return v.PageSelector != "" || v.Sizing == SizeFixed
	case ModePNG:
		return v.Sizing == SizeFixed
	}
	return false
}

// stylesheet returns the override CSS: the named stylesheet followed by
// the inline CSS.
func (v Variant) stylesheet(loader StyleLoader) (string, error) {
	var parts []string
	if v.Style != "" {
		css, err := loader.LoadStyle(v.Style)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrInvalidVariant, v.Name, err)
		}
		parts = append(parts, css)
	}
	if v.CSS != "" {
		parts = append(parts, v.CSS)
	}
	return strings.Join(parts, "\n"), nil
}

// rasterViewport returns the capture viewport, falling back to the
// layout viewport.
func (v Variant) rasterViewport() Viewport {
	if v.RasterViewport.Width > 0 && v.RasterViewport.Height > 0 {
		return v.RasterViewport
	}
	return v.Viewport
}

// Variants is the style override table, keyed by variant name.
type Variants map[string]Variant

// Lookup returns the named variant or ErrUnknownVariant.
func (vs Variants) Lookup(name string) (Variant, error) {
	v, ok := vs[name]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownVariant, name, strings.Join(vs.Names(), ", "))
	}
	return v, nil
}

// Names returns the variant names, sorted.
func (vs Variants) Names() []string {
	names := make([]string, 0, len(vs))
	for name := range vs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge returns a copy of vs with others added or replacing by name.
func (vs Variants) Merge(others ...Variant) Variants {
	out := make(Variants, len(vs)+len(others))
	for name, v := range vs {
		out[name] = v
	}
	for _, v := range others {
		out[v.Name] = v
	}
	return out
}

// Built-in variant names.
const (
	VariantBusinessCard = "businesscard"
	VariantCard         = "card"
	VariantBrochure     = "brochure"
	VariantRollup       = "rollup"
	VariantBanner       = "banner"
	VariantSquare       = "square"
	VariantCover        = "cover"
)

// BuiltinVariants returns the override table for the bundled document
// families.
func BuiltinVariants() Variants {
	cardLogo := &LogoSlot{
		Container:   ".card-page.front",
		Placeholder: ".card-page.front .logo-wrap",
		Image:       ".card-page.front .logo-wrap img",
	}
	brandLogos := []string{
		"assets/logos/logo-vector-yazisiz.svg",
		"assets/logos/logo-vector-ingilizce.svg",
		"assets/logos/logo-vector-turkce.svg",
	}

	return Variants{}.Merge(
		Variant{
			Name:           VariantBusinessCard,
			Media:          "print",
			Viewport:       Viewport{Width: 1200, Height: 800, DeviceScaleFactor: 1},
			RasterViewport: Viewport{Width: 1400, Height: 900, DeviceScaleFactor: 3},
			Style:          "businesscard",
			PageSelector:   ".card-page",
			Logo:           cardLogo,
		},
		Variant{
			Name:           VariantCard,
			Media:          "print",
			Viewport:       Viewport{Width: 1200, Height: 800, DeviceScaleFactor: 1},
			RasterViewport: Viewport{Width: 1400, Height: 900, DeviceScaleFactor: 3},
			Style:          "card",
			PageSelector:   ".card-page",
			Inline:         []string{"logo-vector-yazisiz.svg"},
		},
		Variant{
			Name:           VariantBrochure,
			Media:          "print",
			Viewport:       Viewport{Width: 1400, Height: 900, DeviceScaleFactor: 1},
			RasterViewport: Viewport{Width: 1800, Height: 1200, DeviceScaleFactor: 2},
			Style:          "brochure",
			PageSelector:   ".sheet",
		},
		Variant{
			Name:           VariantRollup,
			Media:          "screen",
			Viewport:       Viewport{Width: 850, Height: 2000, DeviceScaleFactor: 1},
			RasterViewport: Viewport{Width: 850, Height: 2000, DeviceScaleFactor: 3},
			Style:          "rollup",
			Sizing:         SizeFixed,
			Page:           PageBox{Width: 850, Height: 2000},
			FirstPageOnly:  true,
		},
		Variant{
			Name:          VariantBanner,
			Media:         "screen",
			Viewport:      Viewport{Width: 900, Height: 1200, DeviceScaleFactor: 1},
			Style:         "banner",
			PageSelector:  ".banner-card",
			Sizing:        SizeMeasured,
			Rounding:      RoundUp,
			FirstPageOnly: true,
			Inline:        brandLogos,
		},
		Variant{
			Name:     VariantSquare,
			Viewport: Viewport{Width: 1080, Height: 1080, DeviceScaleFactor: 1},
			Sizing:   SizeFixed,
			Page:     PageBox{Width: 1080, Height: 1080},
			Inline:   []string{"logo-vector-yazisiz.svg"},
		},
		Variant{
			Name:     VariantCover,
			Viewport: Viewport{Width: 1200, Height: 200, DeviceScaleFactor: 1},
			Sizing:   SizeFixed,
			Page:     PageBox{Width: 1200, Height: 200},
			Inline:   brandLogos,
		},
	)
}
