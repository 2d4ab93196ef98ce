package extractor

import "github.com/kataras/sketch-data-extractor/pkg/layer"

type imageMatch struct {
	layer  *layer.Layer
	parent *layer.Layer
	image  layer.ImageRef
}

// findSymbolImage looks for the layer an image override targets inside the
// detached layers of sym. It checks, in order for each direct child: an Image
// layer named name, a fill-bearing layer named name with a pattern fill, a
// nested symbol instance (searched recursively), and the direct children of a
// group. The first match wins.
func findSymbolImage(sym *layer.Layer, name string) (imageMatch, bool) {
	for _, l := range sym.Children {
		switch l.Kind {
		case layer.Image:
			if l.Name == name {
				return imageMatch{layer: l, parent: sym, image: l.Image}, true
			}
		case layer.Shape:
			if l.Name != name {
				continue
			}
			if fill, ok := l.PatternFill(); ok {
				return imageMatch{layer: l, parent: sym, image: fill.Image}, true
			}
		case layer.SymbolInstance:
			if m, ok := findSymbolImage(l, name); ok {
				return m, true
			}
		case layer.Group:
			for _, c := range l.Children {
				if c.Name != name {
					continue
				}
				if img, ok := imageOf(c); ok {
					return imageMatch{layer: c, parent: l, image: img}, true
				}
			}
		}
	}
	return imageMatch{}, false
}

func imageOf(l *layer.Layer) (layer.ImageRef, bool) {
	if l.Kind == layer.Image {
		return l.Image, true
	}
	if fill, ok := l.PatternFill(); ok {
		return fill.Image, true
	}
	return layer.ImageRef{}, false
}
