package htmlprint

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// CapturePages screenshots every element matching selector, in DOM
// order, and returns the PageBox of the first one. Later elements are
// captured at their own size but not used for page sizing.
func CapturePages(ctx context.Context, tab Tab, selector string) ([]CapturedPage, PageBox, error) {
	rects, err := MeasureAll(ctx, tab, selector)
	if err != nil {
		return nil, PageBox{}, err
	}
	if len(rects) == 0 {
		return nil, PageBox{}, fmt.Errorf("%w for selector: %s", ErrNoElements, selector)
	}

	box := MeasureBox(rects[0], RoundNearest)
	if rects[0].Empty() || box.Empty() {
		return nil, PageBox{}, fmt.Errorf("%w: first element of %s has no box", ErrMeasure, selector)
	}

	pages := make([]CapturedPage, 0, len(rects))
	for i, r := range rects {
		png, err := tab.Screenshot(ctx, r)
		if err != nil {
			return nil, PageBox{}, fmt.Errorf("element %d of %s: %w", i+1, selector, err)
		}
		pages = append(pages, CapturedPage{Index: i, PNG: png, Box: MeasureBox(r, RoundNearest)})
	}
	return pages, box, nil
}

// CaptureClip screenshots the fixed region {0, 0, box} as a single page.
func CaptureClip(ctx context.Context, tab Tab, box PageBox) ([]CapturedPage, error) {
	if box.Empty() {
		return nil, fmt.Errorf("%w: empty clip %dx%d", ErrMeasure, box.Width, box.Height)
	}
	clip := Rect{Width: float64(box.Width), Height: float64(box.Height)}
	png, err := tab.Screenshot(ctx, clip)
	if err != nil {
		return nil, err
	}
	return []CapturedPage{{Index: 0, PNG: png, Box: box}}, nil
}

// Assembler prints captured pages into a multi-page PDF through a
// dedicated container tab.
type Assembler struct {
	Engine        Engine
	SettleTimeout time.Duration
	Log           logrus.FieldLogger
}

// Assemble builds the container document for pages, prints it at box
// size with zero margins and returns the PDF bytes. The container tab is
// always closed.
func (a *Assembler) Assemble(ctx context.Context, pages []CapturedPage, box PageBox, opts PrintOptions) ([]byte, error) {
	html, err := BuildRasterDocument(pages, box)
	if err != nil {
		return nil, err
	}

	tab, err := a.Engine.OpenTab(ctx, Viewport{Width: box.Width, Height: box.Height, DeviceScaleFactor: 1})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tab.Close() }()

	if err := tab.SetContent(ctx, html); err != nil {
		return nil, err
	}
	if err := Settle(ctx, tab, a.SettleTimeout, a.Log); err != nil {
		return nil, err
	}

	printOpts := pageSizeOptions(box)
	printOpts.PageRanges = opts.PageRanges
	return tab.PrintPDF(ctx, printOpts)
}

// checkPageCount verifies that a raster PDF holds one page per capture.
func checkPageCount(got, want int) error {
	if got != want {
		return fmt.Errorf("%w: printed %d pages for %d captures", ErrPageCountMismatch, got, want)
	}
	return nil
}
