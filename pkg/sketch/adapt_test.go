package sketch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kataras/sketch-data-extractor/pkg/layer"
)

func findChild(t *testing.T, l *layer.Layer, name string) *layer.Layer {
	t.Helper()
	for _, c := range l.Children {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("%s has no child %q", l.Name, name)
	return nil
}

func TestAdaptKinds(t *testing.T) {
	doc := parseFixture(t)
	card, err := doc.Find("Card")
	require.NoError(t, err)

	assert.Equal(t, layer.Group, card.Kind)
	assert.Equal(t, layer.Frame{Width: 320, Height: 200}, card.Frame)

	tests := []struct {
		child string
		kind  layer.Kind
	}{
		{"Title", layer.Text},
		{"Spacer", layer.Group},
		{"Button", layer.SymbolInstance},
		{"Photo", layer.Image},
		{"Avatar", layer.Shape},
	}
	for _, tt := range tests {
		t.Run(tt.child, func(t *testing.T) {
			assert.Equal(t, tt.kind, findChild(t, card, tt.child).Kind)
		})
	}

	assert.Equal(t, "Hello", findChild(t, card, "Title").Text)
	photo := findChild(t, card, "Photo")
	assert.Equal(t, "images/abc.png", photo.Image.Ref)
	assert.Equal(t, layer.Frame{Width: 64, Height: 48}, photo.Frame)
}

func TestAdaptFills(t *testing.T) {
	doc := parseFixture(t)
	avatar, err := doc.Find("Avatar")
	require.NoError(t, err)

	require.Len(t, avatar.Fills, 1, "disabled fills are dropped")
	f, ok := avatar.PatternFill()
	require.True(t, ok)
	assert.Equal(t, "images/avatar", f.Image.Ref)
}

func TestAdaptInstanceOverrides(t *testing.T) {
	doc := parseFixture(t)
	button, err := doc.Find("Button")
	require.NoError(t, err)

	want := []layer.Override{
		{Path: "T-LABEL", Property: layer.PropertyStringValue, AffectedLayerName: "Label", Value: "Buy", Editable: true},
		{Path: "I-ICON", Property: layer.PropertySymbolID, AffectedLayerName: "Icon", Value: "SYM-2", Editable: false},
		{Path: "I-ICON/T-GLYPH", Property: layer.PropertyStringValue, AffectedLayerName: "Glyph", Value: "☆", Editable: true},
	}
	assert.Equal(t, want, button.Overrides)
}

func TestAdaptDetachedChildren(t *testing.T) {
	doc := parseFixture(t)
	button, err := doc.Find("Button")
	require.NoError(t, err)

	inner := findChild(t, button, "Inner")
	assert.Equal(t, "Buy", findChild(t, inner, "Label").Text)

	icon := findChild(t, button, "Icon")
	assert.Equal(t, layer.SymbolInstance, icon.Kind)
	assert.Equal(t, "☆", findChild(t, icon, "Glyph").Text)
}

func TestAdaptMasterOverridesUseDefaults(t *testing.T) {
	doc := parseFixture(t)
	m, ok := doc.Symbol("SYM-1")
	require.True(t, ok)

	master := doc.Layer(m)
	require.Equal(t, layer.SymbolMaster, master.Kind)
	require.Len(t, master.Overrides, 3)
	assert.Equal(t, "Default", master.Overrides[0].Value)
	assert.Equal(t, "★", master.Overrides[2].Value)
}

func TestAdaptImageOverride(t *testing.T) {
	files := map[string]any{
		"document.json": obj{"pages": []any{obj{"_ref": "pages/P"}}},
		"pages/P.json": obj{"_class": "page", "do_objectID": "P", "name": "P", "layers": []any{
			obj{"_class": "symbolMaster", "do_objectID": "M", "name": "Tile", "symbolID": "SYM-T", "layers": []any{
				obj{"_class": "bitmap", "do_objectID": "B", "name": "Picture", "image": ref("images/default.png")},
			}},
			obj{"_class": "symbolInstance", "do_objectID": "I", "name": "Tile 1", "symbolID": "SYM-T",
				"overrideValues": []any{obj{"overrideName": "B_image", "value": ref("images/custom.png")}}},
		}},
	}
	doc, err := Parse("tiles", buildArchive(t, files))
	require.NoError(t, err)

	tile, err := doc.Find("Tile 1")
	require.NoError(t, err)
	require.Len(t, tile.Overrides, 1)
	require.NotNil(t, tile.Overrides[0].Image)
	assert.Equal(t, "images/custom.png", tile.Overrides[0].Image.Ref)
	assert.Equal(t, "images/custom.png", findChild(t, tile, "Picture").Image.Ref)
}

func TestAdaptSelfReferencingSymbol(t *testing.T) {
	files := map[string]any{
		"document.json": obj{"pages": []any{obj{"_ref": "pages/P"}}},
		"pages/P.json": obj{"_class": "page", "do_objectID": "P", "name": "P", "layers": []any{
			obj{"_class": "symbolMaster", "do_objectID": "M", "name": "Loop", "symbolID": "SYM-L", "layers": []any{
				obj{"_class": "symbolInstance", "do_objectID": "I", "name": "Again", "symbolID": "SYM-L"},
			}},
		}},
	}
	doc, err := Parse("loop", buildArchive(t, files))
	require.NoError(t, err)

	l, err := doc.Find("Loop")
	require.NoError(t, err)
	assert.Len(t, l.Overrides, maxSymbolDepth+1)
}
