package htmlprint

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// Compile-time interface checks
var (
	_ Engine = (*chromedpEngine)(nil)
	_ Tab    = (*chromedpTab)(nil)
)

// chromedpEngine drives a Chromium started by chromedp's exec allocator.
// Unlike rod it never downloads a browser, so a resolved executable or
// one on PATH is required.
type chromedpEngine struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	nav           time.Duration
}

// NewChromedpEngine starts a headless browser. The browser lives until
// Close, independently of ctx.
func NewChromedpEngine(ctx context.Context, opts EngineOptions) (Engine, error) {
	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("no-first-run", true),
	)
	if opts.Bin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.Bin))
	}
	if opts.NoSandbox || os.Getenv("CI") == "true" {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so errors surface at creation time.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	return &chromedpEngine{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		nav:           opts.navigationTimeout(),
	}, nil
}

// OpenTab creates a new target with the requested viewport.
func (e *chromedpEngine) OpenTab(ctx context.Context, vp Viewport) (Tab, error) {
	if e.browserCtx == nil {
		return nil, fmt.Errorf("%w: engine closed", ErrPageCreate)
	}
	tabCtx, tabCancel := chromedp.NewContext(e.browserCtx)
	t := &chromedpTab{ctx: tabCtx, cancel: tabCancel, nav: e.nav}

	actions := []chromedp.Action{chromedp.Navigate("about:blank")}
	if vp.Width > 0 && vp.Height > 0 {
		actions = append(actions, emulation.SetDeviceMetricsOverride(
			int64(vp.Width), int64(vp.Height), vp.scale(), false))
	}
	if err := t.run(ctx, 0, actions...); err != nil {
		tabCancel()
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	return t, nil
}

// Close stops the browser process. Close is idempotent.
func (e *chromedpEngine) Close() error {
	if e.browserCtx == nil {
		return nil
	}
	e.browserCancel()
	e.allocCancel()
	e.browserCtx = nil
	return nil
}

// chromedpTab implements Tab on one chromedp target context.
type chromedpTab struct {
	ctx    context.Context
	cancel context.CancelFunc
	nav    time.Duration
}

// run executes actions on the tab. Cancelling ctx tears the tab down,
// since a chromedp target cannot outlive its context.
func (t *chromedpTab) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx := t.ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, timeout)
		defer cancel()
	}
	stop := context.AfterFunc(ctx, t.cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

// Navigate loads url and waits, within the navigation timeout, for the
// new document to reach network idle.
func (t *chromedpTab) Navigate(ctx context.Context, url string) error {
	err := t.run(ctx, t.nav, chromedp.ActionFunc(func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		if err := page.SetLifecycleEventsEnabled(true).Do(ctx); err != nil {
			return err
		}

		// Subscribe before navigating so the idle event is not missed.
		// Events of the previous document carry its loader id.
		idle := make(chan struct{})
		var once sync.Once
		listenCtx, stop := context.WithCancel(ctx)
		defer stop()
		chromedp.ListenTarget(listenCtx, func(ev any) {
			e, ok := ev.(*page.EventLifecycleEvent)
			if ok && e.Name == "networkIdle" && e.FrameID == tree.Frame.ID && e.LoaderID != tree.Frame.LoaderID {
				once.Do(func() { close(idle) })
			}
		})

		if err := chromedp.Navigate(url).Do(ctx); err != nil {
			return err
		}
		select {
		case <-idle:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPageLoad, url, err)
	}
	return nil
}

func (t *chromedpTab) SetContent(ctx context.Context, html string) error {
	err := t.run(ctx, t.nav,
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("%w: setting content: %v", ErrPageLoad, err)
	}
	return nil
}

func (t *chromedpTab) EmulateMedia(ctx context.Context, media string) error {
	if err := t.run(ctx, 0, emulation.SetEmulatedMedia().WithMedia(media)); err != nil {
		return fmt.Errorf("%w: emulating %q media: %v", ErrScript, media, err)
	}
	return nil
}

func (t *chromedpTab) AddStyle(ctx context.Context, css string) error {
	return t.Eval(ctx, scriptAddStyle, css, nil)
}

func (t *chromedpTab) Eval(ctx context.Context, fn string, arg, out any) error {
	argJSON, err := json.Marshal(arg)
	if err != nil {
		return fmt.Errorf("%w: encoding argument: %v", ErrScript, err)
	}
	expr := "(" + fn + ")(" + string(argJSON) + ")"

	var raw []byte
	err = t.run(ctx, 0, chromedp.Evaluate(expr, &raw,
		func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScript, err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decoding result: %v", ErrScript, err)
	}
	return nil
}

func (t *chromedpTab) Screenshot(ctx context.Context, clip Rect) ([]byte, error) {
	var buf []byte
	err := t.run(ctx, 0, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithClip(&page.Viewport{
				X:      clip.X,
				Y:      clip.Y,
				Width:  clip.Width,
				Height: clip.Height,
				Scale:  1,
			}).
			WithCaptureBeyondViewport(true).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}
	return buf, nil
}

func (t *chromedpTab) PrintPDF(ctx context.Context, opts PrintOptions) ([]byte, error) {
	var buf []byte
	err := t.run(ctx, 0, chromedp.ActionFunc(func(ctx context.Context) error {
		params := page.PrintToPDF().
			WithPrintBackground(opts.PrintBackground).
			WithPreferCSSPageSize(opts.PreferCSSPageSize).
			WithMarginTop(0).
			WithMarginRight(0).
			WithMarginBottom(0).
			WithMarginLeft(0)
		if opts.PaperWidth > 0 && opts.PaperHeight > 0 {
			params = params.WithPaperWidth(opts.PaperWidth).WithPaperHeight(opts.PaperHeight)
		}
		if opts.PageRanges != "" {
			params = params.WithPageRanges(opts.PageRanges)
		}

		var err error
		buf, _, err = params.Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return buf, nil
}

func (t *chromedpTab) Close() error {
	t.cancel()
	return nil
}
