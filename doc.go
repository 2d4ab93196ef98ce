// Package sketchdata turns layers of a Sketch document into a JSON data set
// and exports the bitmaps the data refers to as PNG files.
//
// Each selected layer group is reduced to a nested object keyed by layer
// name: text layers give their text, symbols give their editable override
// values, and bitmaps (image layers, pattern fills, image overrides) give the
// path of the PNG written for them. Identical bitmaps are exported once.
//
// The CLI lives in cmd/sketch-data-extractor; this root package exposes the
// same pipeline as a Go API.
//
// # Import
//
// The module path contains hyphens but Go package names cannot, so the
// package is named sketchdata:
//
//	import "github.com/kataras/sketch-data-extractor" // package sketchdata
//
// # Quick start
//
//	result, err := sketchdata.Run(ctx, sketchdata.Options{
//	    DocumentPath: "Shop.sketch",
//	    Layers:       []string{"Product Card"},
//	    OutputDir:    "data",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if result.Empty {
//	    log.Println("No symbol overrides found.")
//	}
//
// This writes data/shop.json and data/Images/*.png.
//
// # Selection
//
// [Options.Layers] takes layer names or object IDs; [Options.Query] takes a
// JSONPath expression evaluated against {"name": ..., "pages": [...]}, the raw
// page JSON of the document. Without [Options.MultiSelect] exactly one layer
// must be selected.
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages. A nil Logger silences all output.
//
// # Errors
//
// Errors carry a code from pkg/errors, so callers can tell a bad selection
// from a write failure:
//
//	if errors.Is(err, errors.CodeSelection) { ... }
//
// A bitmap that cannot be decoded or written does not fail the run; it is
// reported in [Result.AssetErrors].
package sketchdata
