package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	htmlprint "github.com/alnah/go-htmlprint"
	"github.com/alnah/go-htmlprint/internal/config"
)

// ErrUnknownTarget is returned when --only names a target the manifest
// does not have.
var ErrUnknownTarget = errors.New("unknown target")

// manifestEntry is one export job before path resolution. Paths are
// relative to the project directory.
type manifestEntry struct {
	Name      string
	Source    string
	Output    string
	Mode      htmlprint.Mode
	Variant   string
	AssetRoot string // "" = source directory, "." = project directory
	Optional  bool

	// Rasterizable entries switch to raster export in raster mode.
	Rasterizable bool
}

// builtinManifest lists the documents of the standard project layout.
var builtinManifest = []manifestEntry{
	{Name: "rollup_tr", Source: "src/turkce.html", Output: "dist/turkce.pdf", Variant: htmlprint.VariantRollup, Rasterizable: true},
	{Name: "rollup_en", Source: "src/ingilizce.html", Output: "dist/ingilizce.pdf", Variant: htmlprint.VariantRollup, Rasterizable: true},
	{Name: "brochure_tr", Source: "src/brochure_tr.html", Output: "dist/brochure_tr.pdf", Variant: htmlprint.VariantBrochure, Optional: true, Rasterizable: true},
	{Name: "brochure_en", Source: "src/brochure_en.html", Output: "dist/brochure_en.pdf", Variant: htmlprint.VariantBrochure, Optional: true, Rasterizable: true},
	{Name: "businesscard_en", Source: "src/businesscard_en.html", Output: "dist/businesscard_en.pdf", Variant: htmlprint.VariantBusinessCard},
	{Name: "businesscard_tr", Source: "src/businesscard_tr.html", Output: "dist/businesscard_tr.pdf", Variant: htmlprint.VariantBusinessCard},
	{Name: "banner", Source: "src/kurumsal.html", Output: "dist/kurumsal.pdf", Variant: htmlprint.VariantBanner, AssetRoot: "."},
	{Name: "cover", Source: "src/kapak.html", Output: "dist/kapak.png", Mode: htmlprint.ModePNG, Variant: htmlprint.VariantCover, AssetRoot: "."},
	{Name: "card", Source: "kartvizit.html", Output: "kartvizit.pdf", Variant: htmlprint.VariantCard, Optional: true, Rasterizable: true},
	{Name: "square", Source: "instagram-kare.html", Output: "instagram-kare.png", Mode: htmlprint.ModePNG, Variant: htmlprint.VariantSquare, Optional: true},
}

// manifestFromConfig converts config targets. Vector targets follow the
// raster toggle; explicit raster and png targets keep their mode.
func manifestFromConfig(targets []config.Target) ([]manifestEntry, error) {
	entries := make([]manifestEntry, 0, len(targets))
	for _, t := range targets {
		mode, err := htmlprint.ParseMode(t.Mode)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", t.Name, err)
		}
		entries = append(entries, manifestEntry{
			Name:         t.Name,
			Source:       t.Source,
			Output:       t.Output,
			Mode:         mode,
			Variant:      t.Variant,
			AssetRoot:    t.AssetRoot,
			Optional:     t.Optional,
			Rasterizable: mode == htmlprint.ModeVector,
		})
	}
	return entries, nil
}

// buildTargets resolves entries against projectDir, applies the raster
// toggle and filters by name. Names in only must all exist.
func buildTargets(entries []manifestEntry, projectDir string, raster bool, only []string) ([]htmlprint.ExportTarget, error) {
	wanted := make(map[string]bool, len(only))
	for _, name := range only {
		if name = strings.TrimSpace(name); name != "" {
			wanted[name] = false
		}
	}

	targets := make([]htmlprint.ExportTarget, 0, len(entries))
	for _, e := range entries {
		if len(wanted) > 0 {
			if _, ok := wanted[e.Name]; !ok {
				continue
			}
			wanted[e.Name] = true
		}

		t := htmlprint.ExportTarget{
			Name:     e.Name,
			Source:   resolvePath(projectDir, e.Source),
			Output:   resolvePath(projectDir, e.Output),
			Mode:     e.Mode,
			Variant:  e.Variant,
			Optional: e.Optional,
		}
		if e.AssetRoot != "" {
			t.AssetRoot = resolvePath(projectDir, e.AssetRoot)
		}
		if raster && e.Rasterizable {
			t.Mode = htmlprint.ModeRaster
			t.Output = rasterOutput(t.Output)
		}
		targets = append(targets, t)
	}

	var missing []string
	for name, seen := range wanted {
		if !seen {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, strings.Join(sortedCopy(missing), ", "))
	}
	return targets, nil
}

// rasterOutput suffixes the file name with -raster, keeping the extension.
func rasterOutput(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-raster" + ext
}

// resolvePath anchors a relative path at base. Absolute paths are kept.
func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, filepath.FromSlash(p))
}

// targetNames lists entry names in manifest order.
func targetNames(entries []manifestEntry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
