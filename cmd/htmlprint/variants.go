package main

import (
	"fmt"
	"sort"
	"strings"

	htmlprint "github.com/alnah/go-htmlprint"
	"github.com/alnah/go-htmlprint/internal/config"
	"github.com/alnah/go-htmlprint/internal/yamlutil"
)

// variantTable returns the built-in variants with the config's variants
// added or replacing them by name.
func variantTable(cfg *config.Config) (htmlprint.Variants, error) {
	table := htmlprint.BuiltinVariants()
	if cfg == nil || len(cfg.Variants) == 0 {
		return table, nil
	}

	overrides := make([]htmlprint.Variant, 0, len(cfg.Variants))
	for _, cv := range cfg.Variants {
		v, err := toVariant(cv)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, v)
	}
	return table.Merge(overrides...), nil
}

// toVariant converts a config variant and validates it.
func toVariant(cv config.Variant) (htmlprint.Variant, error) {
	sizing, err := htmlprint.ParsePageSizing(cv.Sizing)
	if err != nil {
		return htmlprint.Variant{}, fmt.Errorf("variant %s: %w", cv.Name, err)
	}
	rounding, err := htmlprint.ParseRounding(cv.Rounding)
	if err != nil {
		return htmlprint.Variant{}, fmt.Errorf("variant %s: %w", cv.Name, err)
	}

	v := htmlprint.Variant{
		Name:           cv.Name,
		Media:          strings.ToLower(cv.Media),
		Viewport:       toViewport(cv.Viewport),
		RasterViewport: toViewport(cv.RasterViewport),
		Style:          cv.Style,
		CSS:            cv.CSS,
		PageSelector:   cv.PageSelector,
		Sizing:         sizing,
		Page:           htmlprint.PageBox{Width: cv.Page.Width, Height: cv.Page.Height},
		Rounding:       rounding,
		FirstPageOnly:  cv.FirstPageOnly,
	}
	if len(cv.Inline) > 0 {
		v.Inline = cv.Inline
	}
	if cv.Logo != nil {
		v.Logo = &htmlprint.LogoSlot{
			Container:   cv.Logo.Container,
			Placeholder: cv.Logo.Placeholder,
			Image:       cv.Logo.Image,
		}
	}
	if err := v.Validate(); err != nil {
		return htmlprint.Variant{}, err
	}
	return v, nil
}

// fromVariant converts a library variant to its config form.
func fromVariant(v htmlprint.Variant) config.Variant {
	cv := config.Variant{
		Name:           v.Name,
		Media:          v.Media,
		Viewport:       fromViewport(v.Viewport),
		RasterViewport: fromViewport(v.RasterViewport),
		Style:          v.Style,
		CSS:            v.CSS,
		PageSelector:   v.PageSelector,
		Sizing:         v.Sizing.String(),
		Rounding:       v.Rounding.String(),
		Page:           config.Page{Width: v.Page.Width, Height: v.Page.Height},
		FirstPageOnly:  v.FirstPageOnly,
		Inline:         v.Inline,
	}
	if v.Logo != nil {
		cv.Logo = &config.LogoSlot{
			Container:   v.Logo.Container,
			Placeholder: v.Logo.Placeholder,
			Image:       v.Logo.Image,
		}
	}
	return cv
}

func toViewport(vp config.Viewport) htmlprint.Viewport {
	return htmlprint.Viewport{Width: vp.Width, Height: vp.Height, DeviceScaleFactor: vp.Scale}
}

func fromViewport(vp htmlprint.Viewport) config.Viewport {
	return config.Viewport{Width: vp.Width, Height: vp.Height, Scale: vp.DeviceScaleFactor}
}

// variantsDocument is the printed form of the table, shaped like the
// variants section of a config file.
type variantsDocument struct {
	Variants []config.Variant `yaml:"variants"`
}

// encodeVariants renders the table as config YAML, sorted by name.
func encodeVariants(table htmlprint.Variants) ([]byte, error) {
	doc := variantsDocument{Variants: make([]config.Variant, 0, len(table))}
	for _, name := range table.Names() {
		doc.Variants = append(doc.Variants, fromVariant(table[name]))
	}
	return yamlutil.Encode(doc)
}

func sortedCopy(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}
