package sketch

import "encoding/json"

// Layer classes as they appear in the "_class" field.
const (
	ClassPage           = "page"
	ClassArtboard       = "artboard"
	ClassGroup          = "group"
	ClassShapeGroup     = "shapeGroup"
	ClassText           = "text"
	ClassBitmap         = "bitmap"
	ClassSymbolInstance = "symbolInstance"
	ClassSymbolMaster   = "symbolMaster"
)

// Fill types as stored in a fill's "fillType" field.
const (
	FillTypeColor    = 0
	FillTypeGradient = 1
	FillTypePattern  = 4
	FillTypeNoise    = 5
)

// FileReference points at another entry of the document archive, such as a
// page JSON file or an image.
type FileReference struct {
	Class    string `json:"_class"`
	RefClass string `json:"_ref_class"`
	Ref      string `json:"_ref"`
}

// Meta is the content of meta.json. Only the fields used for reporting are decoded.
type Meta struct {
	Version    int    `json:"version"`
	AppVersion string `json:"appVersion"`
	App        string `json:"app"`
}

// DocumentData is the content of document.json.
type DocumentData struct {
	ObjectID       string          `json:"do_objectID"`
	Pages          []FileReference `json:"pages"`
	ForeignSymbols []ForeignSymbol `json:"foreignSymbols,omitempty"`
}

// ForeignSymbol is a symbol master imported from a library.
type ForeignSymbol struct {
	ObjectID     string   `json:"do_objectID"`
	SymbolMaster RawLayer `json:"symbolMaster"`
}

// RawLayer is a layer exactly as stored in a page file. Pages, artboards,
// groups, shapes, text, bitmaps and symbols all share this shape; Class tells
// which fields are populated.
type RawLayer struct {
	Class    string     `json:"_class"`
	ObjectID string     `json:"do_objectID"`
	Name     string     `json:"name"`
	Frame    Rect       `json:"frame"`
	Style    *Style     `json:"style,omitempty"`
	Layers   []RawLayer `json:"layers,omitempty"`

	// text
	AttributedString *AttributedString `json:"attributedString,omitempty"`

	// bitmap
	Image *FileReference `json:"image,omitempty"`

	// symbolInstance and symbolMaster
	SymbolID           string             `json:"symbolID,omitempty"`
	OverrideValues     []OverrideValue    `json:"overrideValues,omitempty"`
	OverrideProperties []OverrideProperty `json:"overrideProperties,omitempty"`
	AllowsOverrides    *bool              `json:"allowsOverrides,omitempty"`
}

// Rect is a layer frame.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Style holds the fills of a layer. Borders, shadows and the rest are not decoded.
type Style struct {
	Fills []Fill `json:"fills,omitempty"`
}

// Fill is a single style fill.
type Fill struct {
	IsEnabled bool           `json:"isEnabled"`
	FillType  int            `json:"fillType"`
	Image     *FileReference `json:"image,omitempty"`
}

// AttributedString is the text content of a text layer.
type AttributedString struct {
	String string `json:"string"`
}

// OverrideValue is one override stored on a symbol instance. OverrideName is
// "<objectID path>_<property>", e.g. "A1B2/C3D4_stringValue". Value is a JSON
// string for text and symbol overrides and a FileReference for images.
type OverrideValue struct {
	OverrideName string          `json:"overrideName"`
	Value        json.RawMessage `json:"value"`
}

// OverrideProperty marks whether a master lets instances override a point.
type OverrideProperty struct {
	OverrideName string `json:"overrideName"`
	CanOverride  bool   `json:"canOverride"`
}
