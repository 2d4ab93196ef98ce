// Package extractor reduces a layer tree into a datatree.Tree.
//
// Groups become nested mappings keyed by child name, text layers contribute
// their text, symbols contribute their editable override values, and bitmaps
// (image layers, pattern fills, image overrides) are registered with an
// imager.Registry and contribute the path their PNG will be exported to.
package extractor

import (
	"path"

	"github.com/kataras/sketch-data-extractor/pkg/datatree"
	"github.com/kataras/sketch-data-extractor/pkg/imager"
	"github.com/kataras/sketch-data-extractor/pkg/layer"
)

// Options configures an Extractor.
type Options struct {
	// ImageRefPrefix is prepended to exported image names in the data,
	// e.g. "images" gives "images/avatar-0123456789abcdef.png".
	ImageRefPrefix string
	// DropEmptyText prunes empty string values from symbol data.
	DropEmptyText bool
}

// Extractor walks layers for a single run. It is not safe for concurrent use.
type Extractor struct {
	reg     *imager.Registry
	opts    Options
	dropped []DroppedOverride
}

// New returns an Extractor that registers images with reg.
func New(reg *imager.Registry, opts Options) *Extractor {
	return &Extractor{reg: reg, opts: opts}
}

// Walk returns the data value of l: a string, a *datatree.Tree, or ok=false
// when l contributes nothing.
//
// Group children are visited in reverse declared order and merged by name,
// so when siblings share a name the first-declared one is applied last and
// its value wins.
func (e *Extractor) Walk(l *layer.Layer) (value any, ok bool) {
	return e.walk(l, nil)
}

func (e *Extractor) walk(l, parent *layer.Layer) (any, bool) {
	if l.Kind != layer.Group {
		return e.extract(l, parent)
	}

	tree := datatree.New()
	for i := len(l.Children) - 1; i >= 0; i-- {
		child := l.Children[i]
		v, ok := e.walk(child, l)
		if !ok {
			continue
		}
		tree.Set(child.Name, v)
	}

	if tree.Len() == 0 {
		return nil, false
	}
	return tree, true
}

// Extract returns the data value of a single non-group layer.
func (e *Extractor) Extract(l *layer.Layer) (any, bool) {
	return e.extract(l, nil)
}

func (e *Extractor) extract(l, parent *layer.Layer) (any, bool) {
	switch l.Kind {
	case layer.Group:
		return e.walk(l, parent)
	case layer.Text:
		return l.Text, true
	case layer.Image:
		return e.imagePath(l.Name, l.Image, l, parent), true
	case layer.SymbolInstance, layer.SymbolMaster:
		return e.symbolData(l)
	default:
		fill, ok := l.PatternFill()
		if !ok {
			return nil, false
		}
		return e.imagePath(l.Name, fill.Image, l, parent), true
	}
}

// Dropped returns the overrides skipped so far because their parent path had
// no container.
func (e *Extractor) Dropped() []DroppedOverride {
	return e.dropped
}

func (e *Extractor) imagePath(name string, img layer.ImageRef, source, parent *layer.Layer) string {
	file := e.reg.Register(name, img, source, parent) + ".png"
	if e.opts.ImageRefPrefix == "" {
		return file
	}
	return path.Join(e.opts.ImageRefPrefix, file)
}
