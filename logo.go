package htmlprint

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/alnah/go-htmlprint/internal/fileutil"
)

// ClassifyAsset maps a placeholder src to an asset kind. The path is
// resolved against sourceDir, the directory of the source document.
func ClassifyAsset(sourceDir, src string) EmbeddableAsset {
	if strings.TrimSpace(src) == "" {
		return EmbeddableAsset{Kind: AssetNone}
	}

	path := fileutil.ResolveRelative(sourceDir, src)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return EmbeddableAsset{Kind: AssetPDF, Path: path}
	case ".svg":
		return EmbeddableAsset{Kind: AssetSVG, Path: path}
	}
	return EmbeddableAsset{Kind: AssetRaster, Path: path}
}

// ResolveLogoAsset reads the src of the slot's placeholder image and
// classifies it.
func ResolveLogoAsset(ctx context.Context, tab Tab, slot LogoSlot, sourceDir string) (EmbeddableAsset, error) {
	var res struct {
		Src string `json:"src"`
	}
	if err := tab.Eval(ctx, scriptImageSrc, slot.Image, &res); err != nil {
		return EmbeddableAsset{}, err
	}
	return ClassifyAsset(sourceDir, res.Src), nil
}

// MeasureLogo returns the placeholder box relative to its container, or
// nil when either element is missing.
func MeasureLogo(ctx context.Context, tab Tab, slot LogoSlot) (*LogoPlacementBox, error) {
	var res struct {
		Found bool             `json:"found"`
		Box   LogoPlacementBox `json:"box"`
	}
	arg := map[string]string{"container": slot.Container, "placeholder": slot.Placeholder}
	if err := tab.Eval(ctx, scriptLogoBox, arg, &res); err != nil {
		return nil, err
	}
	if !res.Found {
		return nil, nil
	}
	return &res.Box, nil
}

// RemovePlaceholderImages drops the slot's <img> elements so the browser
// does not try to render an asset it cannot decode.
func RemovePlaceholderImages(ctx context.Context, tab Tab, slot LogoSlot) error {
	return tab.Eval(ctx, scriptRemoveImages, slot.Image, nil)
}

var (
	xmlDeclRe = regexp.MustCompile(`(?i)<\?xml[^>]*\?>`)
	doctypeRe = regexp.MustCompile(`(?i)<!doctype[^>]*>`)
)

// CleanSVG strips the XML declaration and doctype so the markup can be
// inserted into an HTML document.
func CleanSVG(raw string) string {
	raw = xmlDeclRe.ReplaceAllString(raw, "")
	return strings.TrimSpace(doctypeRe.ReplaceAllString(raw, ""))
}

// InlineSVG replaces the placeholder's images with the SVG markup of the
// asset. A missing file is logged and the reference left untouched.
func InlineSVG(ctx context.Context, tab Tab, fsys afero.Fs, slot LogoSlot, asset EmbeddableAsset, log logrus.FieldLogger) error {
	raw, err := afero.ReadFile(fsys, asset.Path)
	if err != nil {
		log.WithField("asset", asset.Path).WithError(err).Warn("svg logo unavailable, reference left as is")
		return nil
	}

	arg := map[string]string{"placeholder": slot.Placeholder, "markup": CleanSVG(string(raw))}
	var res struct {
		Inlined bool `json:"inlined"`
	}
	if err := tab.Eval(ctx, scriptInlineSVG, arg, &res); err != nil {
		return err
	}
	if !res.Inlined {
		log.WithField("asset", asset.Path).Warn("svg logo markup has no <svg> root")
	}
	return nil
}
