package htmlprint

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/alnah/go-htmlprint/internal/fileutil"
)

// stampDescription anchors the stamp at the page's bottom-left corner,
// unrotated, opaque, scaled relative to its own size. Offset and scale
// are overwritten with the computed placement.
const stampDescription = "position:bl, offset:0 0, scalefactor:1 abs, rotation:0, opacity:1"

// pdfcpu writes a config directory under the user's home unless told not to.
var disableConfigDir sync.Once

// Stamper draws the first page of a PDF asset onto page 1 of a base PDF.
type Stamper struct {
	conf *model.Configuration
}

// NewStamper creates a Stamper with pdfcpu's default configuration.
func NewStamper() *Stamper {
	disableConfigDir.Do(api.DisableConfigDir)
	return &Stamper{conf: model.NewDefaultConfiguration()}
}

// config returns a private copy of the configuration; pdfcpu records
// the running command on it.
func (s *Stamper) config() *model.Configuration {
	c := *s.conf
	return &c
}

// IsPDF reports whether data is sniffed as a PDF document.
func IsPDF(data []byte) bool {
	return mimetype.Detect(data).Is("application/pdf")
}

// AssetSize returns the intrinsic size, in points, of the first page of
// a PDF asset.
func (s *Stamper) AssetSize(asset []byte) (width, height float64, err error) {
	dims, err := api.PageDims(bytes.NewReader(asset), s.config())
	if err != nil {
		return 0, 0, fmt.Errorf("%w: reading asset size: %v", ErrStamp, err)
	}
	if len(dims) == 0 {
		return 0, 0, fmt.Errorf("%w: asset has no pages", ErrStamp)
	}
	return dims[0].Width, dims[0].Height, nil
}

// PageCount returns the number of pages in a PDF document.
func (s *Stamper) PageCount(pdf []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(pdf), s.config())
	if err != nil {
		return 0, fmt.Errorf("%w: counting pages: %v", ErrPDFGeneration, err)
	}
	return n, nil
}

// Stamp draws asset onto page 1 of base, contain-fitted into box, and
// returns the new document with the placement used.
func (s *Stamper) Stamp(base, asset []byte, box LogoPlacementBox) ([]byte, Placement, error) {
	if !IsPDF(asset) {
		return nil, Placement{}, fmt.Errorf("%w: asset is %s, not a PDF", ErrStamp, mimetype.Detect(asset).String())
	}

	assetW, assetH, err := s.AssetSize(asset)
	if err != nil {
		return nil, Placement{}, err
	}

	place, err := PlaceLogo(box, assetW, assetH)
	if err != nil {
		return nil, Placement{}, err
	}

	// pdfcpu reads watermark PDFs by file name.
	assetPath, cleanup, err := fileutil.WriteTempFile(asset, "pdf")
	if err != nil {
		return nil, Placement{}, fmt.Errorf("%w: %v", ErrStamp, err)
	}
	defer cleanup()

	wm, err := api.PDFWatermark(assetPath+":1", stampDescription, true, false, types.POINTS)
	if err != nil {
		return nil, Placement{}, fmt.Errorf("%w: %v", ErrStamp, err)
	}
	wm.Dx = place.X
	wm.Dy = place.Y
	wm.Scale = place.Scale
	wm.ScaleAbs = true

	var out bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(base), &out, []string{"1"}, wm, s.config()); err != nil {
		return nil, Placement{}, fmt.Errorf("%w: %v", ErrStamp, err)
	}
	return out.Bytes(), place, nil
}
