package htmlprint

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/alnah/go-htmlprint/internal/fileutil"
)

// MeasureAll returns the document-coordinate boxes of every element
// matching selector, in DOM order.
func MeasureAll(ctx context.Context, tab Tab, selector string) ([]Rect, error) {
	var res struct {
		Rects []Rect `json:"rects"`
	}
	if err := tab.Eval(ctx, scriptMeasureAll, selector, &res); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMeasure, selector, err)
	}
	return res.Rects, nil
}

// ApplyOverrides emulates the variant's media type and injects its
// override stylesheet. It must run before any measurement, capture or
// print so they all see the same layout.
func ApplyOverrides(ctx context.Context, tab Tab, v Variant, css string) error {
	if v.Media != "" {
		if err := tab.EmulateMedia(ctx, v.Media); err != nil {
			return err
		}
	}
	if css == "" {
		return nil
	}
	return tab.AddStyle(ctx, css)
}

// InlineAssets replaces <img> sources naming each file in names with a
// base64 data URI of that file, read relative to root. Missing or
// unreadable files are logged and skipped.
func InlineAssets(ctx context.Context, tab Tab, fsys afero.Fs, root string, names []string, log logrus.FieldLogger) error {
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			log.WithField("asset", path).WithError(err).Warn("inline asset unavailable, reference left as is")
			continue
		}

		arg := map[string]string{
			"name": filepath.Base(path),
			"uri":  fileutil.DataURI("image/svg+xml", data),
		}
		var res struct {
			Replaced int `json:"replaced"`
		}
		if err := tab.Eval(ctx, scriptInlineDataURI, arg, &res); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"asset": path, "replaced": res.Replaced}).Debug("inlined asset")
	}
	return nil
}
