package htmlprint

// Notes:
// - CapturePages: tests element measurement, DOM order and page sizing
//   from the first element
// - Assembler: tests the container tab (size, content, lifecycle)
// - checkPageCount: tests the one-page-per-capture check

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func discardLogger() logrus.FieldLogger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

// ---------------------------------------------------------------------------
// TestCapturePages - Element Capture
// ---------------------------------------------------------------------------

func TestCapturePages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		rects     []Rect
		wantPages int
		wantBox   PageBox
		wantErr   error
	}{
		{
			name:      "three elements give three pages",
			rects:     []Rect{{0, 0, 350, 200}, {0, 220, 350, 200}, {0, 440, 350, 200}},
			wantPages: 3,
			wantBox:   PageBox{350, 200},
		},
		{
			name:      "single element",
			rects:     []Rect{{10, 10, 85.4, 200.6}},
			wantPages: 1,
			wantBox:   PageBox{85, 201},
		},
		{
			name:      "box comes from the first element",
			rects:     []Rect{{0, 0, 300, 100}, {0, 120, 500, 400}},
			wantPages: 2,
			wantBox:   PageBox{300, 100},
		},
		{
			name:    "no elements",
			rects:   nil,
			wantErr: ErrNoElements,
		},
		{
			name:    "first element without a box",
			rects:   []Rect{{0, 0, 0, 0}, {0, 0, 10, 10}},
			wantErr: ErrMeasure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tab := &fakeTab{t: t, viewport: Viewport{DeviceScaleFactor: 2}, rects: map[string][]Rect{".sheet": tt.rects}}
			pages, box, err := CapturePages(context.Background(), tab, ".sheet")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CapturePages() error = %v, want %v", err, tt.wantErr)
				}
				if len(tab.clips) != 0 {
					t.Errorf("captured %d clips after failure", len(tab.clips))
				}
				return
			}
			if err != nil {
				t.Fatalf("CapturePages() unexpected error: %v", err)
			}
			if len(pages) != tt.wantPages {
				t.Errorf("pages = %d, want %d", len(pages), tt.wantPages)
			}
			if box != tt.wantBox {
				t.Errorf("box = %+v, want %+v", box, tt.wantBox)
			}
			for i, p := range pages {
				if p.Index != i {
					t.Errorf("pages[%d].Index = %d", i, p.Index)
				}
				if tab.clips[i] != tt.rects[i] {
					t.Errorf("clip %d = %+v, want %+v", i, tab.clips[i], tt.rects[i])
				}
				size, err := PNGSize(p.PNG)
				if err != nil {
					t.Fatalf("page %d: %v", i, err)
				}
				if size.Width != int(tt.rects[i].Width*2) {
					t.Errorf("page %d width = %d, want device pixels %d", i, size.Width, int(tt.rects[i].Width*2))
				}
			}
		})
	}
}

func TestCapturePages_NoElementsNamesSelector(t *testing.T) {
	t.Parallel()

	tab := &fakeTab{t: t, rects: map[string][]Rect{}}
	_, _, err := CapturePages(context.Background(), tab, ".card-page")
	if err == nil || !strings.Contains(err.Error(), "no elements found for selector: .card-page") {
		t.Errorf("error = %v, want selector in message", err)
	}
}

func TestCapturePages_ScreenshotError(t *testing.T) {
	t.Parallel()

	tab := &fakeTab{
		t:             t,
		rects:         map[string][]Rect{".p": {{0, 0, 10, 10}}},
		screenshotErr: ErrScreenshot,
	}
	_, _, err := CapturePages(context.Background(), tab, ".p")
	if !errors.Is(err, ErrScreenshot) {
		t.Errorf("error = %v, want ErrScreenshot", err)
	}
}

func TestCaptureClip(t *testing.T) {
	t.Parallel()

	tab := &fakeTab{t: t, viewport: Viewport{DeviceScaleFactor: 1}}
	pages, err := CaptureClip(context.Background(), tab, PageBox{Width: 120, Height: 20})
	if err != nil {
		t.Fatalf("CaptureClip() error = %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(pages))
	}
	if want := (Rect{Width: 120, Height: 20}); tab.clips[0] != want {
		t.Errorf("clip = %+v, want %+v", tab.clips[0], want)
	}

	if _, err := CaptureClip(context.Background(), tab, PageBox{}); !errors.Is(err, ErrMeasure) {
		t.Errorf("empty box error = %v, want ErrMeasure", err)
	}
}

// ---------------------------------------------------------------------------
// TestAssembler_Assemble - Container Printing
// ---------------------------------------------------------------------------

func TestAssembler_Assemble(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine(t, nil)
	asm := &Assembler{Engine: engine, Log: discardLogger()}
	box := PageBox{Width: 960, Height: 480}
	pages := []CapturedPage{
		{Index: 0, PNG: solidPNG(t, 3, 3), Box: box},
		{Index: 1, PNG: solidPNG(t, 3, 3), Box: box},
		{Index: 2, PNG: solidPNG(t, 3, 3), Box: box},
	}

	pdf, err := asm.Assemble(context.Background(), pages, box, PrintOptions{})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	n, err := NewStamper().PageCount(pdf)
	if err != nil {
		t.Fatalf("PageCount() error = %v", err)
	}
	if n != 3 {
		t.Errorf("pages = %d, want 3", n)
	}

	if len(engine.tabs) != 1 {
		t.Fatalf("tabs opened = %d, want 1", len(engine.tabs))
	}
	tab := engine.tabs[0]
	if want := (Viewport{Width: 960, Height: 480, DeviceScaleFactor: 1}); tab.viewport != want {
		t.Errorf("container viewport = %+v, want %+v", tab.viewport, want)
	}
	if !tab.closed {
		t.Error("container tab not closed")
	}
	if tab.index("content") > tab.index("eval:settle") || tab.index("eval:settle") > tab.index("print") {
		t.Errorf("ops out of order: %v", tab.ops)
	}

	got := tab.prints[0]
	if got.PaperWidth != 10 || got.PaperHeight != 5 {
		t.Errorf("paper = %gx%g in, want 10x5", got.PaperWidth, got.PaperHeight)
	}
	if !got.PrintBackground {
		t.Error("background not printed")
	}
}

func TestAssembler_Assemble_FirstPageOnly(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine(t, nil)
	asm := &Assembler{Engine: engine, Log: discardLogger()}
	box := PageBox{Width: 850, Height: 2000}

	_, err := asm.Assemble(context.Background(), []CapturedPage{{PNG: solidPNG(t, 2, 2)}}, box, PrintOptions{PageRanges: "1"})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if got := engine.tabs[0].prints[0].PageRanges; got != "1" {
		t.Errorf("PageRanges = %q, want %q", got, "1")
	}
}

func TestAssembler_Assemble_ClosesTabOnPrintError(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine(t, func(_ int, tab *fakeTab) { tab.printErr = ErrPDFGeneration })
	asm := &Assembler{Engine: engine, Log: discardLogger()}

	_, err := asm.Assemble(context.Background(), []CapturedPage{{PNG: solidPNG(t, 2, 2)}}, PageBox{10, 10}, PrintOptions{})
	if !errors.Is(err, ErrPDFGeneration) {
		t.Fatalf("error = %v, want ErrPDFGeneration", err)
	}
	if !engine.allClosed() {
		t.Error("container tab left open")
	}
}

func TestAssembler_Assemble_NoPagesOpensNoTab(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine(t, nil)
	asm := &Assembler{Engine: engine, Log: discardLogger()}

	if _, err := asm.Assemble(context.Background(), nil, PageBox{10, 10}, PrintOptions{}); !errors.Is(err, ErrNoPages) {
		t.Fatalf("error = %v, want ErrNoPages", err)
	}
	if len(engine.tabs) != 0 {
		t.Errorf("tabs opened = %d, want 0", len(engine.tabs))
	}
}

func TestCheckPageCount(t *testing.T) {
	t.Parallel()

	if err := checkPageCount(3, 3); err != nil {
		t.Errorf("checkPageCount(3, 3) = %v", err)
	}
	if err := checkPageCount(4, 3); !errors.Is(err, ErrPageCountMismatch) {
		t.Errorf("checkPageCount(4, 3) = %v, want ErrPageCountMismatch", err)
	}
}
