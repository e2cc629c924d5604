// Package htmlprint exports finished HTML documents to PDF or PNG with a
// headless browser.
//
// # Quick Start
//
// Start an engine, create an exporter and export a target:
//
//	engine, err := htmlprint.NewEngine(ctx, htmlprint.EngineRod, htmlprint.EngineOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
//
//	exp, err := htmlprint.NewExporter(engine)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	variant, _ := htmlprint.BuiltinVariants().Lookup(htmlprint.VariantBrochure)
//	res, err := exp.Export(ctx, htmlprint.ExportTarget{
//	    Source: "/site/src/brochure_en.html",
//	    Output: "/site/dist/brochure_en.pdf",
//	    Mode:   htmlprint.ModeVector,
//	}, variant)
//
// # Export Modes
//
//   - ModeVector prints the document with the browser's native PDF
//     export. Page size comes from the document's @page rule, a fixed
//     size, or a measured element.
//   - ModeRaster screenshots every page element, builds a container
//     document of full-bleed images and prints it, one PNG per page at
//     the exact size of the first element. Use it when a PDF viewer
//     renders the vector output differently from the browser.
//   - ModePNG writes a single fixed-size screenshot.
//
// Before any measurement, capture or print, the variant's media type is
// emulated and its override stylesheet injected, so every step sees the
// same layout.
//
// # Logo Stamping
//
// A variant with a LogoSlot resolves the placeholder image's source.
// SVG logos are inlined as markup. PDF logos are removed from the page
// and drawn onto page 1 of the exported PDF afterwards: the placeholder
// box is measured in CSS pixels (top-left origin), flipped and converted
// to PDF points (bottom-left origin, 0.75 pt per px) and the logo is
// contain-fitted into it.
//
// # Engines
//
// The rod engine is the default and downloads a browser on first use
// when none is configured. The chromedp engine needs an installed
// browser. ResolveBrowser locates one from the environment, a browser
// rod already downloaded, well-known install paths, or PATH.
package htmlprint
