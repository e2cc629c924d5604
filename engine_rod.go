package htmlprint

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-htmlprint/internal/process"
)

// Compile-time interface checks
var (
	_ Engine = (*rodEngine)(nil)
	_ Tab    = (*rodTab)(nil)
)

// rodEngine drives a Chromium launched by go-rod. Rod downloads a
// browser on first run when no executable is configured or found.
type rodEngine struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	nav      time.Duration
}

// NewRodEngine launches a browser and connects to it.
func NewRodEngine(opts EngineOptions) (Engine, error) {
	l := launcher.New().Headless(true)

	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}

	// NoSandbox required for CI and containerized environments
	if opts.NoSandbox || os.Getenv("CI") == "true" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	return &rodEngine{launcher: l, browser: browser, nav: opts.navigationTimeout()}, nil
}

// OpenTab creates a blank page with the requested viewport.
func (e *rodEngine) OpenTab(ctx context.Context, vp Viewport) (Tab, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := e.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	if vp.Width > 0 && vp.Height > 0 {
		err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             vp.Width,
			Height:            vp.Height,
			DeviceScaleFactor: vp.scale(),
		})
		if err != nil {
			_ = page.Close()
			return nil, fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
		}
	}

	return &rodTab{page: page, nav: e.nav}, nil
}

// Close shuts the browser down. If the graceful close fails, the whole
// process group is killed so no renderer children are left behind.
func (e *rodEngine) Close() error {
	if e.browser == nil {
		return nil
	}
	err := e.browser.Close()
	e.browser = nil
	if err != nil {
		_ = process.KillTree(e.launcher.PID())
		e.launcher.Kill()
	}
	e.launcher.Cleanup()
	return err
}

// rodTab implements Tab on a rod page.
type rodTab struct {
	page *rod.Page
	nav  time.Duration
}

func (t *rodTab) Navigate(ctx context.Context, url string) error {
	p := t.page.Context(ctx).Timeout(t.nav)

	// Subscribe before navigating so the idle event is not missed.
	wait := p.WaitNavigation(proto.PageLifecycleEventNameNetworkIdle)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPageLoad, url, err)
	}
	wait()

	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPageLoad, url, err)
	}
	return ctx.Err()
}

func (t *rodTab) SetContent(ctx context.Context, html string) error {
	p := t.page.Context(ctx).Timeout(t.nav)
	if err := p.SetDocumentContent(html); err != nil {
		return fmt.Errorf("%w: setting content: %v", ErrPageLoad, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	return nil
}

func (t *rodTab) EmulateMedia(ctx context.Context, media string) error {
	err := proto.EmulationSetEmulatedMedia{Media: media}.Call(t.page.Context(ctx))
	if err != nil {
		return fmt.Errorf("%w: emulating %q media: %v", ErrScript, media, err)
	}
	return nil
}

func (t *rodTab) AddStyle(ctx context.Context, css string) error {
	if err := t.page.Context(ctx).AddStyleTag("", css); err != nil {
		return fmt.Errorf("%w: adding style: %v", ErrScript, err)
	}
	return nil
}

func (t *rodTab) Eval(ctx context.Context, fn string, arg, out any) error {
	res, err := t.page.Context(ctx).Evaluate(rod.Eval(fn, arg).ByPromise())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScript, err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(res.Value.JSON("", "")), out); err != nil {
		return fmt.Errorf("%w: decoding result: %v", ErrScript, err)
	}
	return nil
}

func (t *rodTab) Screenshot(ctx context.Context, clip Rect) ([]byte, error) {
	buf, err := t.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
		Clip: &proto.PageViewport{
			X:      clip.X,
			Y:      clip.Y,
			Width:  clip.Width,
			Height: clip.Height,
			Scale:  1,
		},
		CaptureBeyondViewport: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}
	return buf, nil
}

func (t *rodTab) PrintPDF(ctx context.Context, opts PrintOptions) ([]byte, error) {
	req := &proto.PagePrintToPDF{
		PrintBackground:   opts.PrintBackground,
		PreferCSSPageSize: opts.PreferCSSPageSize,
		PageRanges:        opts.PageRanges,
		MarginTop:         floatPtr(0),
		MarginBottom:      floatPtr(0),
		MarginLeft:        floatPtr(0),
		MarginRight:       floatPtr(0),
	}
	if opts.PaperWidth > 0 && opts.PaperHeight > 0 {
		req.PaperWidth = floatPtr(opts.PaperWidth)
		req.PaperHeight = floatPtr(opts.PaperHeight)
	}

	reader, err := t.page.Context(ctx).PDF(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdfBuf, nil
}

func (t *rodTab) Close() error {
	return t.page.Close()
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
