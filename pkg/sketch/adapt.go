package sketch

import (
	"encoding/json"

	"github.com/kataras/sketch-data-extractor/pkg/layer"
)

// maxSymbolDepth bounds nested symbol expansion; a master that (indirectly)
// contains an instance of itself stops expanding here.
const maxSymbolDepth = 32

// Layer adapts a raw layer of this document into a layer view.
func (d *Document) Layer(raw *RawLayer) *layer.Layer {
	return d.adapt(raw, nil, 0)
}

// adapt builds the view of raw. When sc is non-nil the layer lives inside a
// detached symbol instance and sc supplies the override values to apply.
func (d *Document) adapt(raw *RawLayer, sc *scope, depth int) *layer.Layer {
	l := &layer.Layer{
		ID:    raw.ObjectID,
		Name:  raw.Name,
		Kind:  kindOf(raw.Class),
		Frame: layer.Frame{Width: raw.Frame.Width, Height: raw.Frame.Height},
		Fills: fillsOf(raw.Style),
	}

	switch raw.Class {
	case ClassText:
		if raw.AttributedString != nil {
			l.Text = raw.AttributedString.String
		}
		if sc != nil {
			l.Text = sc.stringValue(sc.path(raw.ObjectID), l.Text)
		}

	case ClassBitmap:
		if raw.Image != nil {
			l.Image = layer.ImageRef{Ref: raw.Image.Ref}
		}
		if sc != nil {
			l.Image = sc.imageValue(sc.path(raw.ObjectID), l.Image)
		}

	case ClassSymbolMaster:
		child := newScope(raw, "", nil)
		l.Overrides = d.overrides(raw.Layers, child, depth)
		l.Children = d.adaptAll(raw.Layers, sc, depth)

	case ClassSymbolInstance:
		symbolID := raw.SymbolID
		var prefix string
		if sc != nil {
			prefix = sc.path(raw.ObjectID)
			symbolID = sc.stringValue(prefix, symbolID, layer.PropertySymbolID)
		}
		master, ok := d.symbols[symbolID]
		if !ok || depth >= maxSymbolDepth {
			break
		}

		// Overrides are addressed relative to the instance being adapted.
		own := newScope(master, "", nil)
		own.merge("", raw.OverrideValues)
		l.Overrides = d.overrides(master.Layers, own, depth+1)

		// The detached copy sees the enclosing instance's values first, then
		// this instance's own values.
		detached := own
		if sc != nil {
			detached = sc.nest(prefix, master)
			detached.merge(prefix, raw.OverrideValues)
		}
		l.Children = d.adaptAll(master.Layers, detached, depth+1)

	default:
		if len(raw.Layers) > 0 {
			l.Children = d.adaptAll(raw.Layers, sc, depth)
		}
	}

	return l
}

func (d *Document) adaptAll(raws []RawLayer, sc *scope, depth int) []*layer.Layer {
	out := make([]*layer.Layer, 0, len(raws))
	for i := range raws {
		out = append(out, d.adapt(&raws[i], sc, depth))
	}
	return out
}

// overrides lists every override point of a master's layers, depth first.
// Groups are transparent: only symbol instances add a path component.
func (d *Document) overrides(raws []RawLayer, sc *scope, depth int) []layer.Override {
	var out []layer.Override
	for i := range raws {
		raw := &raws[i]
		p := sc.path(raw.ObjectID)

		switch raw.Class {
		case ClassText:
			def := ""
			if raw.AttributedString != nil {
				def = raw.AttributedString.String
			}
			out = append(out, layer.Override{
				Path:              p,
				Property:          layer.PropertyStringValue,
				AffectedLayerName: raw.Name,
				Value:             sc.stringValue(p, def),
				Editable:          sc.editable(p, layer.PropertyStringValue),
			})

		case ClassBitmap:
			var def layer.ImageRef
			if raw.Image != nil {
				def = layer.ImageRef{Ref: raw.Image.Ref}
			}
			img := sc.imageValue(p, def)
			out = append(out, layer.Override{
				Path:              p,
				Property:          layer.PropertyImage,
				AffectedLayerName: raw.Name,
				Image:             &img,
				Editable:          sc.editable(p, layer.PropertyImage),
			})

		case ClassSymbolInstance:
			symbolID := sc.stringValue(p, raw.SymbolID, layer.PropertySymbolID)
			out = append(out, layer.Override{
				Path:              p,
				Property:          layer.PropertySymbolID,
				AffectedLayerName: raw.Name,
				Value:             symbolID,
				Editable:          sc.editable(p, layer.PropertySymbolID),
			})
			master, ok := d.symbols[symbolID]
			if !ok || depth >= maxSymbolDepth {
				continue
			}
			nested := sc.nest(p, master)
			nested.merge(p, raw.OverrideValues)
			out = append(out, d.overrides(master.Layers, nested, depth+1)...)

		default:
			if len(raw.Layers) > 0 {
				out = append(out, d.overrides(raw.Layers, sc, depth)...)
			}
		}
	}
	return out
}

func kindOf(class string) layer.Kind {
	switch class {
	case ClassGroup, ClassArtboard, ClassPage:
		return layer.Group
	case ClassText:
		return layer.Text
	case ClassBitmap:
		return layer.Image
	case ClassSymbolInstance:
		return layer.SymbolInstance
	case ClassSymbolMaster:
		return layer.SymbolMaster
	default:
		return layer.Shape
	}
}

func fillsOf(s *Style) []layer.Fill {
	if s == nil {
		return nil
	}
	var fills []layer.Fill
	for _, f := range s.Fills {
		if !f.IsEnabled {
			continue
		}
		fill := layer.Fill{}
		switch f.FillType {
		case FillTypeGradient:
			fill.Type = layer.FillGradient
		case FillTypePattern:
			fill.Type = layer.FillPattern
			if f.Image != nil {
				fill.Image = layer.ImageRef{Ref: f.Image.Ref}
			}
		case FillTypeNoise:
			fill.Type = layer.FillNoise
		default:
			fill.Type = layer.FillColor
		}
		fills = append(fills, fill)
	}
	return fills
}

// scope carries the override values visible while expanding one symbol.
// Values are keyed by full override name, "<path>_<property>", where path is
// relative to the outermost instance being adapted.
type scope struct {
	prefix string
	master *RawLayer
	root   *scope // scope of the outermost master; owns editability
	values map[string]json.RawMessage
}

func newScope(master *RawLayer, prefix string, values map[string]json.RawMessage) *scope {
	if values == nil {
		values = make(map[string]json.RawMessage)
	}
	sc := &scope{prefix: prefix, master: master, values: values}
	sc.root = sc
	return sc
}

// nest returns the scope of a nested instance at path p. It shares the value
// table, so values set by outer instances keep precedence.
func (s *scope) nest(p string, master *RawLayer) *scope {
	return &scope{prefix: p, master: master, root: s.root, values: s.values}
}

func (s *scope) path(objectID string) string {
	if s.prefix == "" {
		return objectID
	}
	return s.prefix + "/" + objectID
}

// merge adds values stored on an instance at path p without replacing values
// already present.
func (s *scope) merge(p string, values []OverrideValue) {
	for _, v := range values {
		name := v.OverrideName
		if p != "" {
			name = p + "/" + name
		}
		if _, exists := s.values[name]; !exists {
			s.values[name] = v.Value
		}
	}
}

// stringValue returns the string override at path p for property (default
// stringValue), or def.
func (s *scope) stringValue(p, def string, property ...string) string {
	prop := layer.PropertyStringValue
	if len(property) > 0 {
		prop = property[0]
	}
	raw, ok := s.values[p+"_"+prop]
	if !ok {
		return def
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return def
	}
	return v
}

func (s *scope) imageValue(p string, def layer.ImageRef) layer.ImageRef {
	raw, ok := s.values[p+"_"+layer.PropertyImage]
	if !ok {
		return def
	}
	var ref FileReference
	if err := json.Unmarshal(raw, &ref); err != nil || ref.Ref == "" {
		return def
	}
	return layer.ImageRef{Ref: ref.Ref}
}

// editable reports whether the outermost master allows overriding property at p.
func (s *scope) editable(p, property string) bool {
	m := s.root.master
	if m == nil {
		return true
	}
	if m.AllowsOverrides != nil && !*m.AllowsOverrides {
		return false
	}
	name := p + "_" + property
	for _, op := range m.OverrideProperties {
		if op.OverrideName == name {
			return op.CanOverride
		}
	}
	return true
}
