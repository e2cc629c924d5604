package htmlprint

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/alnah/go-htmlprint/internal/fileutil"
)

// rasterDocument lays out one full-bleed image per page. Every page is
// exactly the PageBox; only the last wrapper omits the page break so no
// blank trailing page is printed.
var rasterDocument = template.Must(template.New("raster").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<style>
@page { size: {{.Width}}px {{.Height}}px; margin: 0; }
html, body { margin: 0; padding: 0; background: #fff; }
.p { width: {{.Width}}px; height: {{.Height}}px; overflow: hidden; page-break-after: always; break-after: page; }
.p:last-child { page-break-after: auto; break-after: auto; }
img { display: block; width: {{.Width}}px; height: {{.Height}}px; }
</style>
</head>
<body>{{range .Images}}<div class="p"><img src="{{.}}" alt=""></div>{{end}}</body>
</html>
`))

// BuildRasterDocument renders the container document holding pages in
// order, each scaled to box.
func BuildRasterDocument(pages []CapturedPage, box PageBox) (string, error) {
	if len(pages) == 0 {
		return "", ErrNoPages
	}
	if box.Empty() {
		return "", fmt.Errorf("%w: empty page box %dx%d", ErrMeasure, box.Width, box.Height)
	}

	images := make([]template.URL, len(pages))
	for i, p := range pages {
		// #nosec G203 -- base64 of PNG bytes we captured
		images[i] = template.URL(fileutil.DataURI("image/png", p.PNG))
	}

	var buf bytes.Buffer
	err := rasterDocument.Execute(&buf, struct {
		Width, Height int
		Images        []template.URL
	}{box.Width, box.Height, images})
	if err != nil {
		return "", fmt.Errorf("rendering raster document: %w", err)
	}
	return buf.String(), nil
}
