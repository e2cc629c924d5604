package htmlprint

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
)

// CapturePNG screenshots the fixed page region of the prepared tab.
func CapturePNG(ctx context.Context, tab Tab, v Variant) ([]byte, error) {
	if v.Sizing != SizeFixed {
		return nil, fmt.Errorf("%w: %s has no fixed page size", ErrModeUnsupported, v.Name)
	}
	pages, err := CaptureClip(ctx, tab, v.Page)
	if err != nil {
		return nil, err
	}
	return pages[0].PNG, nil
}

// PNGSize decodes the dimensions of PNG data.
func PNGSize(data []byte) (PageBox, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return PageBox{}, fmt.Errorf("%w: decoding png: %v", ErrScreenshot, err)
	}
	return PageBox{Width: cfg.Width, Height: cfg.Height}, nil
}
