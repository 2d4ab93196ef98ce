package datatree

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestTreeKeepsInsertionOrder(t *testing.T) {
	tree := New()
	tree.Set("zeta", "1")
	tree.Set("alpha", "2")
	tree.Set("mid", "3")

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, tree.Keys())
	assert.Equal(t, `{"zeta":"1","alpha":"2","mid":"3"}`, mustJSON(t, tree))
}

func TestTreeReassignKeepsPosition(t *testing.T) {
	tree := New()
	tree.Set("Icon", "b")
	tree.Set("Title", "x")
	tree.Set("Icon", "a")

	assert.Equal(t, []string{"Icon", "Title"}, tree.Keys())
	v, ok := tree.Get("Icon")
	require.True(t, ok)
	assert.Equal(t, "a", v)
}

func TestTreeMarshalNested(t *testing.T) {
	inner := New()
	inner.Set("Label", "Buy <now> & save")
	tree := New()
	tree.Set("Button", inner)
	tree.Set("Title", "Hello")

	b, err := tree.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"Button":{"Label":"Buy <now> & save"},"Title":"Hello"}`, string(b))
}

func TestTreeMarshalIndent(t *testing.T) {
	inner := New()
	inner.Set("b", "2")
	tree := New()
	tree.Set("a", inner)

	b, err := json.MarshalIndent([]*Tree{tree}, "", "  ")
	require.NoError(t, err)
	want := strings.Join([]string{
		"[",
		"  {",
		`    "a": {`,
		`      "b": "2"`,
		"    }",
		"  }",
		"]",
	}, "\n")
	assert.Equal(t, want, string(b))
}

func TestTreeSetRejectsOtherTypes(t *testing.T) {
	assert.Panics(t, func() { New().Set("n", 42) })
}

func TestTransform(t *testing.T) {
	inner := New()
	inner.Set("Name", "Ada")
	tree := New()
	tree.Set("User", inner)
	tree.Set("Title", "HELLO")

	out := tree.Transform(strings.ToLower, strings.ToLower)
	assert.Equal(t, `{"user":{"name":"ada"},"title":"hello"}`, mustJSON(t, out))
	// the source is left untouched
	assert.Equal(t, `{"User":{"Name":"Ada"},"Title":"HELLO"}`, mustJSON(t, tree))
}
