package sketch

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ohler55/ojg/jp"

	"github.com/kataras/sketch-data-extractor/pkg/errors"
	"github.com/kataras/sketch-data-extractor/pkg/layer"
)

// Walk visits every layer of every page depth first, in document order.
// Returning false from fn skips the children of that layer.
func (d *Document) Walk(fn func(raw *RawLayer, depth int) bool) {
	var visit func(l *RawLayer, depth int)
	visit = func(l *RawLayer, depth int) {
		if !fn(l, depth) {
			return
		}
		for i := range l.Layers {
			visit(&l.Layers[i], depth+1)
		}
	}
	for _, p := range d.Pages {
		visit(p, 0)
	}
}

// Layers returns the top level layers of every page, usually artboards.
func (d *Document) Layers() []*layer.Layer {
	var out []*layer.Layer
	for _, p := range d.Pages {
		for i := range p.Layers {
			out = append(out, d.Layer(&p.Layers[i]))
		}
	}
	return out
}

// Find resolves a selector to a layer. A selector that parses as a UUID is
// matched against object IDs; anything else is matched against layer names,
// and the first layer in document order wins.
func (d *Document) Find(selector string) (*layer.Layer, error) {
	if _, err := uuid.Parse(selector); err == nil {
		if raw, ok := d.byID[strings.ToUpper(selector)]; ok {
			return d.Layer(raw), nil
		}
	}

	var found *RawLayer
	d.Walk(func(raw *RawLayer, _ int) bool {
		if found != nil {
			return false
		}
		if raw.Class != ClassPage && raw.Name == selector {
			found = raw
			return false
		}
		return true
	})
	if found == nil {
		return nil, errors.New(errors.CodeSelection, "no layer matches %q", selector)
	}
	return d.Layer(found), nil
}

// Query selects layers with a JSONPath expression evaluated against
// {"name": <document name>, "pages": [<page JSON>...]}. Every matched object
// that carries a do_objectID is returned once, in match order. Other matches
// are ignored.
func (d *Document) Query(expr string) ([]*layer.Layer, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInvalidInput, err, "invalid jsonpath %q", expr)
	}

	var (
		out  []*layer.Layer
		seen = make(map[string]struct{})
	)
	for _, r := range x.Get(d.generic) {
		obj, ok := r.(map[string]any)
		if !ok {
			continue
		}
		id, _ := obj["do_objectID"].(string)
		key := strings.ToUpper(id)
		raw, ok := d.byID[key]
		if !ok || raw.Class == ClassPage {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, d.Layer(raw))
	}
	return out, nil
}
