package imager

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/kataras/sketch-data-extractor/pkg/layer"
)

// Source reads the raw bytes behind an image reference.
type Source interface {
	ImageData(ref string) ([]byte, error)
}

// Asset is one image scheduled for export.
type Asset struct {
	Key        string // content key; empty for unkeyed assets
	ExportName string // file name without extension
	Image      layer.ImageRef
	Source     *layer.Layer // layer the image was found on, may be nil
	Parent     *layer.Layer // enclosing layer at registration time, may be nil
}

// FileName returns the PNG file name of the asset.
func (a *Asset) FileName() string { return a.ExportName + ".png" }

// Registry deduplicates images by content key for a single extraction run.
// The first registration of a key decides its export name.
type Registry struct {
	src    Source
	assets []*Asset
	byKey  map[string]*Asset
	keys   map[string]string // image ref -> content key
	names  NameList
}

// NewRegistry returns an empty registry. src may be nil, in which case keys
// are derived from the reference strings alone.
func NewRegistry(src Source) *Registry {
	return &Registry{
		src:   src,
		byKey: make(map[string]*Asset),
		keys:  make(map[string]string),
	}
}

// Key returns the content key of ref: the xxhash64 of the referenced bytes in
// hex, or of the reference string itself when the bytes cannot be read.
// A zero ref has no key.
func (r *Registry) Key(ref layer.ImageRef) string {
	if ref.IsZero() {
		return ""
	}
	if key, ok := r.keys[ref.Ref]; ok {
		return key
	}

	var sum uint64
	if data, err := r.readImage(ref); err == nil {
		sum = xxhash.Sum64(data)
	} else {
		sum = xxhash.Sum64String(ref.Ref)
	}
	key := fmt.Sprintf("%016x", sum)
	r.keys[ref.Ref] = key
	return key
}

func (r *Registry) readImage(ref layer.ImageRef) ([]byte, error) {
	if r.src == nil {
		return nil, fmt.Errorf("no image source")
	}
	return r.src.ImageData(ref.Ref)
}

// Resolve returns the export name for key, registering a new asset named
// Normalize(name)+"-"+key on first sight. Later calls with the same key
// return the stored name and ignore the other arguments.
func (r *Registry) Resolve(key, name string, img layer.ImageRef, source, parent *layer.Layer) string {
	if a, ok := r.byKey[key]; ok {
		return a.ExportName
	}

	a := &Asset{
		Key:        key,
		ExportName: Normalize(name) + "-" + key,
		Image:      img,
		Source:     source,
		Parent:     parent,
	}
	r.byKey[key] = a
	r.assets = append(r.assets, a)
	r.names.Add(a.ExportName)
	return a.ExportName
}

// ResolveUnkeyed registers an image that has no content key. Every call
// creates a new asset; the name is made unique with a numeric suffix.
func (r *Registry) ResolveUnkeyed(name string, img layer.ImageRef, source, parent *layer.Layer) string {
	a := &Asset{
		ExportName: r.names.Unique(Normalize(name)),
		Image:      img,
		Source:     source,
		Parent:     parent,
	}
	r.assets = append(r.assets, a)
	return a.ExportName
}

// Register resolves img under its content key, falling back to the unkeyed
// variant when img is zero.
func (r *Registry) Register(name string, img layer.ImageRef, source, parent *layer.Layer) string {
	if key := r.Key(img); key != "" {
		return r.Resolve(key, name, img, source, parent)
	}
	return r.ResolveUnkeyed(name, img, source, parent)
}

// Assets returns the registered assets in registration order.
func (r *Registry) Assets() []*Asset {
	return r.assets
}

// Len returns the number of registered assets.
func (r *Registry) Len() int { return len(r.assets) }
