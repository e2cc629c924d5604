package htmlprint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/alnah/go-htmlprint/internal/fileutil"
)

// Exporter runs export jobs on a shared engine. Jobs are processed one
// at a time; each opens and closes its own tabs.
type Exporter struct {
	engine        Engine
	log           logrus.FieldLogger
	fs            afero.Fs
	styles        StyleLoader
	stamper       *Stamper
	navTimeout    time.Duration
	settleTimeout time.Duration
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Exporter) {
		if log != nil {
			e.log = log
		}
	}
}

// WithFS sets the filesystem used for source checks, asset reads and
// output writes. The default is the OS filesystem.
func WithFS(fsys afero.Fs) Option {
	return func(e *Exporter) {
		if fsys != nil {
			e.fs = fsys
		}
	}
}

// WithStyleLoader sets where override stylesheets come from.
func WithStyleLoader(loader StyleLoader) Option {
	return func(e *Exporter) {
		if loader != nil {
			e.styles = loader
		}
	}
}

// WithNavigationTimeout bounds each document navigation.
func WithNavigationTimeout(d time.Duration) Option {
	return func(e *Exporter) { e.navTimeout = d }
}

// WithSettleTimeout bounds the wait for fonts and images.
func WithSettleTimeout(d time.Duration) Option {
	return func(e *Exporter) { e.settleTimeout = d }
}

// WithStamper replaces the PDF stamper.
func WithStamper(s *Stamper) Option {
	return func(e *Exporter) {
		if s != nil {
			e.stamper = s
		}
	}
}

// NewExporter creates an Exporter on engine. The caller owns the engine
// and must close it.
func NewExporter(engine Engine, opts ...Option) (*Exporter, error) {
	if engine == nil {
		return nil, fmt.Errorf("%w: nil engine", ErrBrowserConnect)
	}

	discard := logrus.New()
	discard.Out = io.Discard

	e := &Exporter{
		engine:        engine,
		log:           discard,
		fs:            afero.NewOsFs(),
		navTimeout:    DefaultNavigationTimeout,
		settleTimeout: DefaultSettleTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.styles == nil {
		loader, err := NewStyleLoader("")
		if err != nil {
			return nil, err
		}
		e.styles = loader
	}
	if e.stamper == nil {
		e.stamper = NewStamper()
	}
	return e, nil
}

// job carries everything resolved once per export.
type job struct {
	target    ExportTarget
	variant   Variant
	css       string
	sourceDir string
	assetRoot string
	log       logrus.FieldLogger
}

// pendingStamp is a PDF logo to draw after printing.
type pendingStamp struct {
	asset EmbeddableAsset
	box   *LogoPlacementBox
}

// alignToPage flips the stamp against the printed page height when the
// logo container is the page element. Raster pages are printed at the
// rounded PageBox height, not the measured container height.
func (p *pendingStamp) alignToPage(page PageBox) {
	if p == nil || p.box == nil {
		return
	}
	if math.Round(p.box.ContainerHeight) == float64(page.Height) {
		p.box.ContainerHeight = float64(page.Height)
	}
}

// Export converts target with the style overrides of v and writes the
// output file. A missing source fails with ErrSourceNotFound before any
// browser work.
func (e *Exporter) Export(ctx context.Context, target ExportTarget, v Variant) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !fileutil.FileExists(e.fs, target.Source) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, target.Source)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if !v.Supports(target.Mode) {
		return nil, fmt.Errorf("%w: %s cannot export %s", ErrModeUnsupported, v.Name, target.Mode)
	}

	css, err := v.stylesheet(e.styles)
	if err != nil {
		return nil, err
	}

	j := &job{
		target:    target,
		variant:   v,
		css:       css,
		sourceDir: filepath.Dir(target.Source),
		assetRoot: target.AssetRoot,
		log: e.log.WithFields(logrus.Fields{
			"target":  target.Name,
			"mode":    target.Mode.String(),
			"variant": v.Name,
		}),
	}
	if j.assetRoot == "" {
		j.assetRoot = j.sourceDir
	}

	start := time.Now()
	var res *Result
	switch target.Mode {
	case ModeVector:
		res, err = e.exportVector(ctx, j)
	case ModeRaster:
		res, err = e.exportRaster(ctx, j)
	case ModePNG:
		res, err = e.exportPNG(ctx, j)
	default:
		err = fmt.Errorf("%w: %d", ErrInvalidMode, int(target.Mode))
	}
	if err != nil {
		return nil, err
	}

	j.log.WithFields(logrus.Fields{
		"output":   res.Output,
		"pages":    res.Pages,
		"bytes":    res.Bytes,
		"stamped":  res.Stamped,
		"duration": time.Since(start).Round(time.Millisecond),
	}).Debug("export complete")
	return res, nil
}

// openDocument opens a tab at vp, loads the source document and brings
// it into its export state: inline assets, media, overrides, settled.
func (e *Exporter) openDocument(ctx context.Context, j *job, vp Viewport) (Tab, error) {
	tab, err := e.engine.OpenTab(ctx, vp)
	if err != nil {
		return nil, err
	}

	if err := e.prepare(ctx, tab, j); err != nil {
		_ = tab.Close()
		return nil, err
	}
	return tab, nil
}

func (e *Exporter) prepare(ctx context.Context, tab Tab, j *job) error {
	navCtx, cancel := context.WithTimeout(ctx, e.navTimeout)
	err := tab.Navigate(navCtx, fileutil.FileURL(j.target.Source))
	cancel()
	if err != nil {
		return err
	}

	if err := InlineAssets(ctx, tab, e.fs, j.assetRoot, j.variant.Inline, j.log); err != nil {
		return err
	}
	if err := ApplyOverrides(ctx, tab, j.variant, j.css); err != nil {
		return err
	}
	return Settle(ctx, tab, e.settleTimeout, j.log)
}

// prepareLogo resolves the variant's logo slot on a prepared tab. SVG
// assets are inlined in place. PDF assets are removed from the page and
// returned for stamping when stamp is set, and left in place otherwise.
func (e *Exporter) prepareLogo(ctx context.Context, tab Tab, j *job, stamp bool) (*pendingStamp, error) {
	if j.variant.Logo == nil {
		return nil, nil
	}
	slot := *j.variant.Logo

	asset, err := ResolveLogoAsset(ctx, tab, slot, j.sourceDir)
	if err != nil {
		return nil, err
	}
	box, err := MeasureLogo(ctx, tab, slot)
	if err != nil {
		return nil, err
	}
	j.log.WithFields(logrus.Fields{"asset": asset.Path, "kind": asset.Kind.String()}).Debug("resolved logo")

	switch asset.Kind {
	case AssetSVG:
		return nil, InlineSVG(ctx, tab, e.fs, slot, asset, j.log)
	case AssetPDF:
		if !stamp {
			j.log.WithField("asset", asset.Path).Warn("PDF logo cannot be stamped onto a PNG, placeholder kept")
			return nil, nil
		}
		if err := RemovePlaceholderImages(ctx, tab, slot); err != nil {
			return nil, err
		}
		return &pendingStamp{asset: asset, box: box}, nil
	}
	return nil, nil
}

// applyStamp draws a pending PDF logo onto pdf. Missing inputs skip the
// stamp and return pdf unchanged.
func (e *Exporter) applyStamp(pdf []byte, p *pendingStamp, log logrus.FieldLogger) ([]byte, bool, error) {
	if p == nil {
		return pdf, false, nil
	}
	log = log.WithField("asset", p.asset.Path)

	if p.box == nil {
		log.Warn("logo placeholder not found, stamp skipped")
		return pdf, false, nil
	}
	asset, err := afero.ReadFile(e.fs, p.asset.Path)
	if err != nil {
		log.WithError(err).Warn("logo asset unavailable, stamp skipped")
		return pdf, false, nil
	}
	if !IsPDF(asset) {
		log.Warn("logo asset is not a PDF, stamp skipped")
		return pdf, false, nil
	}

	stamped, place, err := e.stamper.Stamp(pdf, asset, *p.box)
	if err != nil {
		return nil, false, err
	}
	log.WithFields(logrus.Fields{
		"x":     place.X,
		"y":     place.Y,
		"width": place.Width,
		"scale": place.Scale,
	}).Debug("stamped logo")
	return stamped, true, nil
}

func (e *Exporter) exportVector(ctx context.Context, j *job) (*Result, error) {
	tab, err := e.openDocument(ctx, j, j.variant.Viewport)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tab.Close() }()

	pending, err := e.prepareLogo(ctx, tab, j, true)
	if err != nil {
		return nil, err
	}

	pdf, box, err := PrintVector(ctx, tab, j.variant)
	if err != nil {
		return nil, err
	}

	pdf, stamped, err := e.applyStamp(pdf, pending, j.log)
	if err != nil {
		return nil, err
	}

	pages, err := e.stamper.PageCount(pdf)
	if err != nil {
		return nil, err
	}
	return e.write(j, pdf, &Result{Mode: ModeVector, Pages: pages, Box: box, Stamped: stamped})
}

func (e *Exporter) exportRaster(ctx context.Context, j *job) (*Result, error) {
	pages, box, pending, err := e.capture(ctx, j)
	if err != nil {
		return nil, err
	}

	asm := &Assembler{Engine: e.engine, SettleTimeout: e.settleTimeout, Log: j.log}
	pdf, err := asm.Assemble(ctx, pages, box, VectorPrintOptions(j.variant))
	if err != nil {
		return nil, err
	}

	n, err := e.stamper.PageCount(pdf)
	if err != nil {
		return nil, err
	}
	if err := checkPageCount(n, len(pages)); err != nil {
		return nil, err
	}

	pdf, stamped, err := e.applyStamp(pdf, pending, j.log)
	if err != nil {
		return nil, err
	}
	return e.write(j, pdf, &Result{Mode: ModeRaster, Pages: n, Box: box, Stamped: stamped})
}

// capture renders the page elements (or the fixed page) of the source
// at the raster viewport. The capture tab is closed before returning.
func (e *Exporter) capture(ctx context.Context, j *job) ([]CapturedPage, PageBox, *pendingStamp, error) {
	tab, err := e.openDocument(ctx, j, j.variant.rasterViewport())
	if err != nil {
		return nil, PageBox{}, nil, err
	}
	defer func() { _ = tab.Close() }()

	pending, err := e.prepareLogo(ctx, tab, j, true)
	if err != nil {
		return nil, PageBox{}, nil, err
	}

	if j.variant.Sizing == SizeFixed {
		pages, err := CaptureClip(ctx, tab, j.variant.Page)
		pending.alignToPage(j.variant.Page)
		return pages, j.variant.Page, pending, err
	}

	pages, box, err := CapturePages(ctx, tab, j.variant.PageSelector)
	if err != nil {
		return nil, PageBox{}, nil, err
	}
	j.log.WithFields(logrus.Fields{"pages": len(pages), "width": box.Width, "height": box.Height}).Debug("captured pages")
	pending.alignToPage(box)
	return pages, box, pending, nil
}

func (e *Exporter) exportPNG(ctx context.Context, j *job) (*Result, error) {
	tab, err := e.openDocument(ctx, j, j.variant.Viewport)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tab.Close() }()

	if _, err := e.prepareLogo(ctx, tab, j, false); err != nil {
		return nil, err
	}

	data, err := CapturePNG(ctx, tab, j.variant)
	if err != nil {
		return nil, err
	}
	box, err := PNGSize(data)
	if err != nil {
		return nil, err
	}
	return e.write(j, data, &Result{Mode: ModePNG, Pages: 1, Box: box})
}

// write stores data at the target output, creating its directory.
func (e *Exporter) write(j *job, data []byte, res *Result) (*Result, error) {
	out := j.target.Output
	if err := fileutil.EnsureParentDir(e.fs, out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrWriteOutput, out, err)
	}
	if err := afero.WriteFile(e.fs, out, data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrWriteOutput, out, err)
	}
	res.Output = out
	res.Bytes = len(data)
	return res, nil
}

// IsBrowserError reports whether err originates from the browser.
func IsBrowserError(err error) bool {
	for _, target := range []error{
		ErrBrowserUnresolved, ErrBrowserConnect, ErrPageCreate, ErrPageLoad,
		ErrScript, ErrScreenshot, ErrPDFGeneration,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
