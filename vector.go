package htmlprint

import (
	"context"
	"fmt"
)

// VectorPrintOptions returns the print options of a variant whose page
// size needs no measurement.
func VectorPrintOptions(v Variant) PrintOptions {
	var opts PrintOptions
	switch v.Sizing {
	case SizeFixed:
		opts = pageSizeOptions(v.Page)
	default:
		opts = PrintOptions{PreferCSSPageSize: true, PrintBackground: true}
	}
	if v.FirstPageOnly {
		opts.PageRanges = "1"
	}
	return opts
}

// pageSizeCSS pins the printed page and the root elements to box.
func pageSizeCSS(box PageBox) string {
	return fmt.Sprintf(
		"@page { size: %dpx %dpx; margin: 0 !important; }\n"+
			"html, body { width: %dpx !important; height: %dpx !important; }\n",
		box.Width, box.Height, box.Width, box.Height)
}

// SizeToContent measures the variant's page element and injects an
// @page rule matching it, rounded per the variant. Returns the box.
func SizeToContent(ctx context.Context, tab Tab, v Variant) (PageBox, error) {
	rects, err := MeasureAll(ctx, tab, v.PageSelector)
	if err != nil {
		return PageBox{}, err
	}
	if len(rects) == 0 {
		return PageBox{}, fmt.Errorf("%w for selector: %s", ErrNoElements, v.PageSelector)
	}
	box := MeasureBox(rects[0], v.Rounding)
	if box.Empty() {
		return PageBox{}, fmt.Errorf("%w: %s has no box", ErrMeasure, v.PageSelector)
	}
	if err := tab.AddStyle(ctx, pageSizeCSS(box)); err != nil {
		return PageBox{}, err
	}
	return box, nil
}

// PrintVector prints the prepared tab natively. For SizeMeasured
// variants the page is sized to content first.
func PrintVector(ctx context.Context, tab Tab, v Variant) ([]byte, PageBox, error) {
	box := v.Page
	if v.Sizing == SizeMeasured {
		measured, err := SizeToContent(ctx, tab, v)
		if err != nil {
			return nil, PageBox{}, err
		}
		box = measured
	}

	opts := VectorPrintOptions(v)
	pdf, err := tab.PrintPDF(ctx, opts)
	if err != nil {
		return nil, PageBox{}, err
	}
	return pdf, box, nil
}
