// Package sketch reads .sketch documents and adapts their layers into the
// read-only layer views the extractor walks.
//
// A .sketch file is a zip archive holding document.json, meta.json, one JSON
// file per page under pages/, and the bitmaps under images/. Open decodes the
// whole archive up front; image bytes are read on demand.
package sketch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/ohler55/ojg/oj"
)

// Document is a decoded .sketch archive.
type Document struct {
	Name  string
	Meta  Meta
	Data  DocumentData
	Pages []*RawLayer

	files   map[string]*zip.File
	symbols map[string]*RawLayer // symbolID -> master
	byID    map[string]*RawLayer // do_objectID -> layer
	generic map[string]any       // JSONPath view of the pages
}

// Open reads the .sketch file at path. The document is named after the file.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Parse(name, data)
}

// Parse decodes a .sketch archive held in memory.
func Parse(name string, data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	doc := &Document{
		Name:    name,
		files:   make(map[string]*zip.File, len(zr.File)),
		symbols: make(map[string]*RawLayer),
		byID:    make(map[string]*RawLayer),
	}
	for _, f := range zr.File {
		doc.files[f.Name] = f
	}

	if err := doc.decode("document.json", &doc.Data); err != nil {
		return nil, err
	}
	// meta.json is informational only.
	if _, ok := doc.files["meta.json"]; ok {
		if err := doc.decode("meta.json", &doc.Meta); err != nil {
			return nil, err
		}
	}

	genericPages := make([]any, 0, len(doc.Data.Pages))
	for _, ref := range doc.Data.Pages {
		file := ref.Ref
		if !strings.HasSuffix(file, ".json") {
			file += ".json"
		}

		raw, err := doc.read(file)
		if err != nil {
			return nil, err
		}

		var page RawLayer
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		generic, err := oj.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}

		doc.Pages = append(doc.Pages, &page)
		genericPages = append(genericPages, generic)
	}

	for _, p := range doc.Pages {
		doc.index(p)
	}
	for i := range doc.Data.ForeignSymbols {
		m := &doc.Data.ForeignSymbols[i].SymbolMaster
		if _, exists := doc.symbols[m.SymbolID]; !exists {
			doc.index(m)
		}
	}

	doc.generic = map[string]any{
		"name":  doc.Name,
		"pages": genericPages,
	}
	return doc, nil
}

func (d *Document) index(l *RawLayer) {
	if l.ObjectID != "" {
		d.byID[strings.ToUpper(l.ObjectID)] = l
	}
	if l.Class == ClassSymbolMaster && l.SymbolID != "" {
		d.symbols[l.SymbolID] = l
	}
	for i := range l.Layers {
		d.index(&l.Layers[i])
	}
}

func (d *Document) read(name string) ([]byte, error) {
	f, ok := d.files[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, os.ErrNotExist)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func (d *Document) decode(name string, v any) error {
	data, err := d.read(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// ImageData returns the bytes of an archived image. Older documents reference
// images without their extension, so ".png" is tried as a fallback.
func (d *Document) ImageData(ref string) ([]byte, error) {
	if _, ok := d.files[ref]; !ok && filepath.Ext(ref) == "" {
		if _, ok := d.files[ref+".png"]; ok {
			ref += ".png"
		}
	}
	return d.read(ref)
}

// Symbol returns the master with the given symbol ID.
func (d *Document) Symbol(symbolID string) (*RawLayer, bool) {
	m, ok := d.symbols[symbolID]
	return m, ok
}
