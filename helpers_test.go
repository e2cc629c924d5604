package htmlprint

// Notes:
// - fakeEngine and fakeTab stand in for the browser. fakeTab answers the
//   page scripts by name and records every call so tests can assert
//   ordering (overrides before measurement) and tab lifecycle.
// - minimalPDF writes a small but well-formed PDF with a correct xref
//   table, so pdfcpu can count pages, read sizes and stamp onto it.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Minimal PDF
// ---------------------------------------------------------------------------

// minimalPDF builds a PDF with pages pages of width x height points.
func minimalPDF(t testing.TB, pages int, width, height float64) []byte {
	t.Helper()
	if pages < 1 {
		t.Fatalf("minimalPDF: pages = %d", pages)
	}

	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	kids := make([]string, pages)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages))

	for i := 0; i < pages; i++ {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g %g] /Resources << >> /Contents %d 0 R >>",
			width, height, 4+2*i))
		content := fmt.Sprintf("0 0 1 rg 0 0 %g %g re f", width/2, height/2)
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

// solidPNG encodes a width x height opaque PNG.
func solidPNG(t testing.TB, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 0x33, 0x66, 0x99, 0xff
	}
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

// ---------------------------------------------------------------------------
// Fake Browser
// ---------------------------------------------------------------------------

// fakeEngine hands out fakeTabs built by setup, in order.
type fakeEngine struct {
	t       testing.TB
	setup   func(i int, tab *fakeTab)
	openErr error
	tabs    []*fakeTab
	closed  bool
}

func newFakeEngine(t testing.TB, setup func(i int, tab *fakeTab)) *fakeEngine {
	return &fakeEngine{t: t, setup: setup}
}

func (e *fakeEngine) OpenTab(ctx context.Context, vp Viewport) (Tab, error) {
	if e.openErr != nil {
		return nil, e.openErr
	}
	tab := &fakeTab{t: e.t, viewport: vp, pdfPages: 1, rects: map[string][]Rect{}}
	if e.setup != nil {
		e.setup(len(e.tabs), tab)
	}
	e.tabs = append(e.tabs, tab)
	return tab, nil
}

func (e *fakeEngine) Close() error {
	e.closed = true
	return nil
}

// allClosed reports whether every opened tab was closed.
func (e *fakeEngine) allClosed() bool {
	for _, tab := range e.tabs {
		if !tab.closed {
			return false
		}
	}
	return true
}

// fakeTab answers page scripts from its fields and records calls.
type fakeTab struct {
	t        testing.TB
	viewport Viewport

	rects    map[string][]Rect
	logoSrc  string
	logoBox  *LogoPlacementBox
	pdfPages int
	timedOut bool

	navErr        error
	screenshotErr error
	printErr      error

	url     string
	content string
	media   string
	styles  []string
	prints  []PrintOptions
	clips   []Rect
	inlined []map[string]string
	ops     []string
	closed  bool
}

func (f *fakeTab) record(op string) {
	f.ops = append(f.ops, op)
}

// index returns the position of the first op with prefix, or -1.
func (f *fakeTab) index(prefix string) int {
	for i, op := range f.ops {
		if strings.HasPrefix(op, prefix) {
			return i
		}
	}
	return -1
}

func (f *fakeTab) Navigate(ctx context.Context, url string) error {
	f.record("navigate")
	f.url = url
	return f.navErr
}

func (f *fakeTab) SetContent(ctx context.Context, html string) error {
	f.record("content")
	f.content = html
	return nil
}

func (f *fakeTab) EmulateMedia(ctx context.Context, media string) error {
	f.record("media:" + media)
	f.media = media
	return nil
}

func (f *fakeTab) AddStyle(ctx context.Context, css string) error {
	f.record("style")
	f.styles = append(f.styles, css)
	return nil
}

func (f *fakeTab) Eval(ctx context.Context, fn string, arg, out any) error {
	var res any
	switch fn {
	case scriptSettle:
		f.record("eval:settle")
		res = map[string]any{"timedOut": f.timedOut, "images": 2}
	case scriptMeasureAll:
		f.record("eval:measure")
		rects := f.rects[arg.(string)]
		if rects == nil {
			rects = []Rect{}
		}
		res = map[string]any{"rects": rects}
	case scriptLogoBox:
		f.record("eval:logo-box")
		if f.logoBox == nil {
			res = map[string]any{"found": false}
		} else {
			res = map[string]any{"found": true, "box": f.logoBox}
		}
	case scriptImageSrc:
		f.record("eval:logo-src")
		res = map[string]any{"src": f.logoSrc}
	case scriptRemoveImages:
		f.record("eval:remove")
		res = map[string]any{"removed": 1}
	case scriptInlineSVG:
		f.record("eval:inline-svg")
		f.inlined = append(f.inlined, arg.(map[string]string))
		res = map[string]any{"inlined": true}
	case scriptInlineDataURI:
		f.record("eval:inline-uri")
		f.inlined = append(f.inlined, arg.(map[string]string))
		res = map[string]any{"replaced": 1}
	default:
		f.t.Fatalf("fakeTab: unexpected script %.40q", fn)
	}

	if out == nil {
		return nil
	}
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (f *fakeTab) Screenshot(ctx context.Context, clip Rect) ([]byte, error) {
	f.record("screenshot")
	if f.screenshotErr != nil {
		return nil, f.screenshotErr
	}
	f.clips = append(f.clips, clip)
	scale := f.viewport.scale()
	return solidPNG(f.t, int(clip.Width*scale), int(clip.Height*scale)), nil
}

// PrintPDF prints one page per raster wrapper when content was set,
// pdfPages otherwise, at the requested paper size.
func (f *fakeTab) PrintPDF(ctx context.Context, opts PrintOptions) ([]byte, error) {
	f.record("print")
	if f.printErr != nil {
		return nil, f.printErr
	}
	f.prints = append(f.prints, opts)

	pages := f.pdfPages
	if f.content != "" {
		pages = strings.Count(f.content, `<div class="p">`)
	}
	if opts.PageRanges == "1" && pages > 1 {
		pages = 1
	}

	width, height := 612.0, 792.0
	if opts.PaperWidth > 0 && opts.PaperHeight > 0 {
		width, height = opts.PaperWidth*PointsPerInch, opts.PaperHeight*PointsPerInch
	}
	return minimalPDF(f.t, pages, width, height), nil
}

func (f *fakeTab) Close() error {
	f.record("close")
	f.closed = true
	return nil
}

// Compile-time interface checks
var (
	_ Engine = (*fakeEngine)(nil)
	_ Tab    = (*fakeTab)(nil)
)
