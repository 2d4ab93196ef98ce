package extractor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kataras/sketch-data-extractor/pkg/datatree"
	"github.com/kataras/sketch-data-extractor/pkg/layer"
)

// OverridePolicy decides what happens to a symbol override whose parent path
// has no container (typically because the nested symbol override above it was
// filtered out as non-editable).
type OverridePolicy int

const (
	// OverridesSilent drops such overrides without a trace.
	OverridesSilent OverridePolicy = iota
	// OverridesWarn drops them and reports each dropped path.
	OverridesWarn
	// OverridesStrict fails the run before anything is written.
	OverridesStrict
)

// ParseOverridePolicy parses "silent", "warn" or "strict". Empty means silent.
func ParseOverridePolicy(s string) (OverridePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "silent":
		return OverridesSilent, nil
	case "warn":
		return OverridesWarn, nil
	case "strict":
		return OverridesStrict, nil
	}
	return OverridesSilent, fmt.Errorf("unknown override policy %q (must be silent, warn, or strict)", s)
}

func (p OverridePolicy) String() string {
	switch p {
	case OverridesWarn:
		return "warn"
	case OverridesStrict:
		return "strict"
	default:
		return "silent"
	}
}

// DroppedOverride records an override that could not be placed.
type DroppedOverride struct {
	Symbol     string // name of the symbol layer
	Path       string
	ParentPath string
	Property   string
}

func (d DroppedOverride) String() string {
	return fmt.Sprintf("%s: %s override at %q has no parent %q", d.Symbol, d.Property, d.Path, d.ParentPath)
}

// supportedOverrides returns the editable overrides the data tree can hold,
// sorted by path so every nested symbol container is created before the
// overrides that write into it.
func supportedOverrides(overrides []layer.Override) []layer.Override {
	out := make([]layer.Override, 0, len(overrides))
	for _, o := range overrides {
		if !o.Editable {
			continue
		}
		switch o.Property {
		case layer.PropertySymbolID, layer.PropertyStringValue, layer.PropertyImage:
			out = append(out, o)
		}
	}
	slices.SortStableFunc(out, func(a, b layer.Override) int {
		return strings.Compare(a.Path, b.Path)
	})
	return out
}

func parentPath(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return ""
}

// symbolData resolves the overrides of a symbol into a pruned tree.
// Containers are tracked by path prefix: "" is the root, and every symbolID
// override adds a fresh container at its own path, wired into its parent
// under the affected layer's name.
func (e *Extractor) symbolData(sym *layer.Layer) (any, bool) {
	root := datatree.New()
	containers := map[string]*datatree.Tree{"": root}
	hasValues := false

	for _, o := range supportedOverrides(sym.Overrides) {
		pp := parentPath(o.Path)
		parent, ok := containers[pp]
		if !ok {
			e.dropped = append(e.dropped, DroppedOverride{
				Symbol:     sym.Name,
				Path:       o.Path,
				ParentPath: pp,
				Property:   o.Property,
			})
			continue
		}

		if o.Property == layer.PropertySymbolID {
			nested := datatree.New()
			containers[o.Path] = nested
			parent.Set(o.AffectedLayerName, nested)
			continue
		}

		value, ok := e.overrideValue(sym, o)
		if !ok {
			continue
		}
		parent.Set(o.AffectedLayerName, value)
		hasValues = true
	}

	if !hasValues {
		return nil, false
	}

	var opts []datatree.PruneOption
	if e.opts.DropEmptyText {
		opts = append(opts, datatree.WithEmptyStrings())
	}
	if datatree.Prune(root, opts...).Len() == 0 {
		return nil, false
	}
	return root, true
}

func (e *Extractor) overrideValue(sym *layer.Layer, o layer.Override) (string, bool) {
	if o.Property == layer.PropertyStringValue {
		return o.Value, true
	}

	if m, ok := findSymbolImage(sym, o.AffectedLayerName); ok {
		return e.imagePath(o.AffectedLayerName, m.image, m.layer, m.parent), true
	}
	if o.Image != nil && !o.Image.IsZero() {
		return e.imagePath(o.AffectedLayerName, *o.Image, nil, sym), true
	}
	return "", false
}
