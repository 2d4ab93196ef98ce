package sketchdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kataras/sketch-data-extractor/pkg/datatree"
	"github.com/kataras/sketch-data-extractor/pkg/errors"
	"github.com/kataras/sketch-data-extractor/pkg/extractor"
	"github.com/kataras/sketch-data-extractor/pkg/formatter"
	"github.com/kataras/sketch-data-extractor/pkg/imager"
	"github.com/kataras/sketch-data-extractor/pkg/layer"
	"github.com/kataras/sketch-data-extractor/pkg/sketch"
)

// Version is the release version, overridden at build time by the CLI.
var Version = "0.1.0"

// Options configures the extraction.
type Options struct {
	DocumentPath string   // .sketch file, used by Run
	DocumentName string   // names the default output file; Run fills it from the document
	Layers       []string // layer names or object IDs, used by Run
	Query        string   // JSONPath selecting layers, used by Run
	MultiSelect  bool     // allow more than one selected layer

	OutputDir      string // default "."
	OutputFile     string // JSON file name without extension; default: normalized document name or "data"
	ImagesDir      string // default "Images"
	ImageRefPrefix string // prefix of image paths in the data; default "images"
	Indent         string // default two spaces
	Compact        bool   // write the JSON on a single line

	CaseFold       bool // lowercase keys and string values
	DropEmptyText  bool
	OverridePolicy extractor.OverridePolicy
	Parallelism    int  // images rasterized concurrently
	FitToFrame     bool // fit bitmaps to their layer frame
	Report         bool // also write <file>.md

	FS         billy.Filesystem  // nil = osfs rooted at OutputDir
	Rasterizer imager.Rasterizer // nil = imager.BitmapRasterizer over the image source
	Logger     Logger            // nil = no logging
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Result contains the extraction output.
type Result struct {
	DocumentName string
	Data         []any  // one value per selected layer that produced data
	JSON         []byte // serialized Data, as written
	Empty        bool   // no selected layer produced data; nothing was written
	File         string // JSON file path inside the output filesystem
	ReportFile   string
	Assets       []imager.ExportedAsset
	AssetErrors  []error
	Dropped      []extractor.DroppedOverride
	Markdown     string
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

func (o *Options) logWarn(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Warnf(f, a...)
	}
}

func (o *Options) logError(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Errorf(f, a...)
	}
}

func (o *Options) applyDefaults() {
	if o.OutputDir == "" {
		o.OutputDir = "."
	}
	if o.ImagesDir == "" {
		o.ImagesDir = "Images"
	}
	if o.ImageRefPrefix == "" {
		o.ImageRefPrefix = "images"
	}
	if o.Indent == "" {
		o.Indent = "  "
	}
	if o.OutputFile == "" {
		o.OutputFile = imager.Normalize(o.DocumentName)
	}
	if o.OutputFile == "" {
		o.OutputFile = "data"
	}
	o.OutputFile = strings.TrimSuffix(o.OutputFile, ".json")
	if o.FS == nil {
		o.FS = osfs.New(o.OutputDir)
	}
}

// Run opens the document at opts.DocumentPath, selects the layers named by
// opts.Layers and opts.Query, and exports their data.
func Run(ctx context.Context, opts Options) (*Result, error) {
	opts.logInfo("Opening %s...", opts.DocumentPath)
	doc, err := sketch.Open(opts.DocumentPath)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInvalidDocument, err, "open %s", opts.DocumentPath)
	}
	opts.logInfo("Document: %s (%d page(s))", doc.Name, len(doc.Pages))
	if opts.DocumentName == "" {
		opts.DocumentName = doc.Name
	}

	layers, err := Select(doc, opts.Layers, opts.Query)
	if err != nil {
		return nil, err
	}
	opts.logInfo("Selected %d layer(s)", len(layers))

	return Export(ctx, layers, doc, opts)
}

// Select resolves layer selectors and a JSONPath query against doc. A layer
// matched more than once is selected once, at its first position.
func Select(doc *sketch.Document, selectors []string, query string) ([]*layer.Layer, error) {
	var (
		layers []*layer.Layer
		seen   = make(map[string]bool)
	)
	add := func(l *layer.Layer) {
		if seen[l.ID] {
			return
		}
		seen[l.ID] = true
		layers = append(layers, l)
	}

	for _, s := range selectors {
		l, err := doc.Find(s)
		if err != nil {
			return nil, err
		}
		add(l)
	}
	if query != "" {
		matched, err := doc.Query(query)
		if err != nil {
			return nil, err
		}
		for _, l := range matched {
			add(l)
		}
	}
	return layers, nil
}

// Export walks the selected layers into data, writes the JSON file and then
// the images the data references.
//
// The selection is validated before anything is written: without
// MultiSelect exactly one layer is required, with it one or more groups or
// symbols. A run whose layers produce no data writes nothing and returns a
// Result with Empty set.
func Export(ctx context.Context, layers []*layer.Layer, src imager.Source, opts Options) (*Result, error) {
	if err := validateSelection(layers, opts.MultiSelect); err != nil {
		return nil, err
	}
	opts.applyDefaults()

	reg := imager.NewRegistry(src)
	ex := extractor.New(reg, extractor.Options{
		ImageRefPrefix: opts.ImageRefPrefix,
		DropEmptyText:  opts.DropEmptyText,
	})

	result := &Result{DocumentName: opts.DocumentName}
	report := &formatter.Report{DocumentName: opts.DocumentName, ImagesDir: opts.ImagesDir}

	for _, l := range layers {
		report.Layers = append(report.Layers, l.Name)

		v, ok := ex.Walk(l)
		if tree, isTree := v.(*datatree.Tree); ok && isTree {
			ok = datatree.Prune(tree).Len() > 0
		}
		if !ok {
			opts.logInfo("%s: no data", l.Name)
			report.Empty = append(report.Empty, l.Name)
			continue
		}
		result.Data = append(result.Data, v)
	}

	result.Dropped = ex.Dropped()
	report.Dropped = result.Dropped
	if len(result.Dropped) > 0 {
		switch opts.OverridePolicy {
		case extractor.OverridesStrict:
			return nil, errors.New(errors.CodeOverrideResolution, "%d override(s) could not be placed, first: %s",
				len(result.Dropped), result.Dropped[0])
		case extractor.OverridesWarn:
			for _, d := range result.Dropped {
				opts.logWarn("%s", d)
			}
		}
	}

	if len(result.Data) == 0 {
		result.Empty = true
		opts.logInfo("No symbol overrides found")
		return result, nil
	}

	if opts.CaseFold {
		result.Data = foldCase(result.Data)
	}

	data, err := encode(result.Data, opts.Indent, opts.Compact)
	if err != nil {
		return nil, fmt.Errorf("encode data: %w", err)
	}
	result.JSON = data

	result.File = opts.OutputFile + ".json"
	opts.logInfo("Writing %s...", result.File)
	if err := util.WriteFile(opts.FS, result.File, data, 0o644); err != nil {
		opts.logError("Writing %s failed: %v", result.File, err)
		return nil, errors.Wrap(errors.CodeFileWrite, err, "write %s", result.File)
	}
	report.DataFile = result.File

	if reg.Len() > 0 {
		r := opts.Rasterizer
		if r == nil {
			r = &imager.BitmapRasterizer{Source: src, FitToFrame: opts.FitToFrame}
		}

		opts.logInfo("Exporting %d image(s) to %s...", reg.Len(), opts.ImagesDir)
		exported, err := imager.Export(ctx, opts.FS, reg, r, imager.ExportConfig{
			Dir:         opts.ImagesDir,
			Parallelism: opts.Parallelism,
		})
		if err != nil {
			return nil, fmt.Errorf("export images: %w", err)
		}
		opts.logInfo("Exported %d image(s)", len(exported.Assets))

		for _, assetErr := range exported.Errors {
			opts.logWarn("%v", assetErr)
		}
		result.Assets = exported.Assets
		result.AssetErrors = exported.Errors
		report.Assets = exported.Assets
		report.AssetErrors = exported.Errors
	}

	result.Markdown = formatter.ToMarkdown(report)
	if opts.Report {
		result.ReportFile = opts.OutputFile + ".md"
		if err := util.WriteFile(opts.FS, result.ReportFile, []byte(result.Markdown), 0o644); err != nil {
			// The data is already written.
			opts.logWarn("Writing %s failed: %v", result.ReportFile, err)
			result.ReportFile = ""
		}
	}

	return result, nil
}

func validateSelection(layers []*layer.Layer, multi bool) error {
	if !multi {
		if len(layers) != 1 {
			return errors.New(errors.CodeSelection, "select exactly one layer group, got %d layer(s)", len(layers))
		}
		return nil
	}

	if len(layers) == 0 {
		return errors.New(errors.CodeSelection, "select one or more layer groups")
	}
	for _, l := range layers {
		if !l.Kind.IsContainer() {
			return errors.New(errors.CodeSelection, "%q is a %s layer, only groups and symbols can be selected", l.Name, l.Kind)
		}
	}
	return nil
}

func foldCase(values []any) []any {
	lower := cases.Lower(language.Und)
	fold := func(s string) string { return lower.String(s) }

	out := make([]any, len(values))
	for i, v := range values {
		switch v := v.(type) {
		case *datatree.Tree:
			out[i] = v.Transform(fold, fold)
		case string:
			out[i] = fold(v)
		default:
			out[i] = v
		}
	}
	return out
}

func encode(values []any, indent string, compact bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if !compact {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(values); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
