// Package layer defines the read-only layer view the extractor walks.
//
// A Layer is a tagged variant: Kind says which of the fields are meaningful.
// Views are built by an adapter over a host document (see package sketch) and
// are valid for a single extraction run; nothing in this module mutates them.
package layer

// Kind identifies the variant of a Layer.
type Kind int

const (
	// Shape is any non-group layer that may carry fills (rectangles, ovals,
	// shape paths, legacy shape groups). It is also the fallback kind.
	Shape Kind = iota
	Group
	Text
	Image
	SymbolInstance
	SymbolMaster
)

// String returns the host-style type name of the kind.
func (k Kind) String() string {
	switch k {
	case Group:
		return "Group"
	case Text:
		return "Text"
	case Image:
		return "Image"
	case SymbolInstance:
		return "SymbolInstance"
	case SymbolMaster:
		return "SymbolMaster"
	default:
		return "Shape"
	}
}

// IsContainer reports whether a layer of this kind may be selected as the
// root of a multi-layer extraction.
func (k Kind) IsContainer() bool {
	return k == Group || k == SymbolInstance || k == SymbolMaster
}

// FillType is the kind of paint a Fill applies.
type FillType int

const (
	FillColor FillType = iota
	FillGradient
	FillPattern
	FillNoise
)

// Override property names the extractor understands. Anything else is ignored.
const (
	PropertySymbolID    = "symbolID"
	PropertyStringValue = "stringValue"
	PropertyImage       = "image"
)

// ImageRef is an opaque reference to bitmap content inside the host document.
// For Sketch documents Ref is the archive path, e.g. "images/3f2a....png".
type ImageRef struct {
	Ref string
}

// IsZero reports whether the reference points nowhere.
func (r ImageRef) IsZero() bool { return r.Ref == "" }

// Frame is the size of a layer in points.
type Frame struct {
	Width  float64
	Height float64
}

// Fill is a single style fill. Image is set for FillPattern fills only.
type Fill struct {
	Type  FillType
	Image ImageRef
}

// Override is one path-addressed customization of a symbol.
type Override struct {
	// Path is the slash-delimited chain of object IDs from the symbol down to
	// the affected layer, e.g. "A1/B2".
	Path              string
	Property          string
	AffectedLayerName string
	Value             string    // symbolID and stringValue overrides
	Image             *ImageRef // image overrides
	Editable          bool
}

// Layer is one node of the visual tree.
type Layer struct {
	ID        string
	Name      string
	Kind      Kind
	Frame     Frame
	Text      string     // Text
	Image     ImageRef   // Image
	Fills     []Fill     // Shape and Image
	Overrides []Override // SymbolInstance and SymbolMaster

	// Children are the ordered sublayers. For groups these are the group's
	// layers; for a symbol instance they are a detached copy of its master's
	// layers with the instance overrides applied; for a symbol master they are
	// the master's own layers.
	Children []*Layer
}

// PatternFill returns the first enabled Pattern fill of the layer, scanning
// the fills in order.
func (l *Layer) PatternFill() (Fill, bool) {
	for _, f := range l.Fills {
		if f.Type == FillPattern {
			return f, true
		}
	}
	return Fill{}, false
}
