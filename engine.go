package htmlprint

import (
	"context"
	"fmt"
	"time"
)

// Engine is a running headless browser. Each job opens its own tabs;
// the engine itself is shared read-only across sequential jobs.
type Engine interface {
	OpenTab(ctx context.Context, vp Viewport) (Tab, error)
	Close() error
}

// Tab abstracts one browser page so the export pipeline can be tested
// without a browser. All calls are blocking and strictly sequential.
type Tab interface {
	// Navigate loads url and waits, bounded, for the network to go idle.
	Navigate(ctx context.Context, url string) error

	// SetContent replaces the document with html and waits for load.
	SetContent(ctx context.Context, html string) error

	// EmulateMedia switches the CSS media type ("print" or "screen").
	EmulateMedia(ctx context.Context, media string) error

	// AddStyle injects a <style> element with css into the document.
	AddStyle(ctx context.Context, css string) error

	// Eval calls the JavaScript function fn with arg (JSON-encoded),
	// awaits a returned promise and decodes the JSON result into out.
	// out may be nil to discard the result.
	Eval(ctx context.Context, fn string, arg, out any) error

	// Screenshot captures clip (document coordinates, CSS px) as PNG at
	// the tab's device scale factor, with an opaque background.
	Screenshot(ctx context.Context, clip Rect) ([]byte, error)

	// PrintPDF prints the document with the browser's native PDF export.
	PrintPDF(ctx context.Context, opts PrintOptions) ([]byte, error)

	Close() error
}

// Viewport sets the tab's layout size and pixel density.
type Viewport struct {
	Width             int     `yaml:"width"`
	Height            int     `yaml:"height"`
	DeviceScaleFactor float64 `yaml:"scale"`
}

// scale returns the device scale factor, defaulting to 1.
func (v Viewport) scale() float64 {
	if v.DeviceScaleFactor <= 0 {
		return 1
	}
	return v.DeviceScaleFactor
}

// PrintOptions configures native PDF printing. Margins are always zero.
type PrintOptions struct {
	// PaperWidth and PaperHeight are in inches; zero leaves the
	// browser default (or the document's @page size).
	PaperWidth        float64
	PaperHeight       float64
	PreferCSSPageSize bool
	PrintBackground   bool
	PageRanges        string // e.g. "1"; empty prints all pages
}

// pageSizeOptions returns print options for a page of box pixels.
func pageSizeOptions(box PageBox) PrintOptions {
	return PrintOptions{
		PaperWidth:      PxToInches(float64(box.Width)),
		PaperHeight:     PxToInches(float64(box.Height)),
		PrintBackground: true,
	}
}

// EngineOptions configures engine startup.
type EngineOptions struct {
	// Bin is the browser executable; empty lets the engine use its own
	// default resolution.
	Bin       string
	NoSandbox bool

	// NavigationTimeout bounds Navigate and SetContent.
	NavigationTimeout time.Duration
}

// DefaultNavigationTimeout bounds page navigation.
const DefaultNavigationTimeout = 60 * time.Second

func (o EngineOptions) navigationTimeout() time.Duration {
	if o.NavigationTimeout <= 0 {
		return DefaultNavigationTimeout
	}
	return o.NavigationTimeout
}

// Engine names accepted by NewEngine.
const (
	EngineRod      = "rod"
	EngineChromedp = "chromedp"
)

// NewEngine starts the named engine. An empty name selects rod.
func NewEngine(ctx context.Context, name string, opts EngineOptions) (Engine, error) {
	switch name {
	case "", EngineRod:
		return NewRodEngine(opts)
	case EngineChromedp:
		return NewChromedpEngine(ctx, opts)
	}
	return nil, fmt.Errorf("%w: unknown engine %q", ErrBrowserConnect, name)
}
