package imager

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register the WebP decoder

	"github.com/kataras/sketch-data-extractor/pkg/errors"
)

// BitmapRasterizer decodes the bitmap behind an asset's image reference and
// re-encodes it as PNG.
type BitmapRasterizer struct {
	Source Source
	// FitToFrame scales and center-crops the bitmap to the source layer's
	// frame, the way a pattern fill in "Fill" mode displays it.
	FitToFrame bool
}

// Rasterize implements Rasterizer.
func (b *BitmapRasterizer) Rasterize(ctx context.Context, a *Asset) ([]byte, error) {
	if a.Image.IsZero() {
		return nil, errors.New(errors.CodeImageDecode, "asset %s has no image reference", a.ExportName)
	}
	if b.Source == nil {
		return nil, errors.New(errors.CodeImageDecode, "no image source for %s", a.Image.Ref)
	}

	data, err := b.Source.ImageData(a.Image.Ref)
	if err != nil {
		return nil, errors.Wrap(errors.CodeImageDecode, err, "read %s", a.Image.Ref)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.CodeImageDecode, err, "decode %s", a.Image.Ref)
	}

	if b.FitToFrame && a.Source != nil {
		img = fit(img, a.Source.Frame.Width, a.Source.Frame.Height)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.DefaultCompression)); err != nil {
		return nil, errors.Wrap(errors.CodeImageDecode, err, "encode %s", a.ExportName)
	}
	return buf.Bytes(), nil
}

func fit(img image.Image, width, height float64) image.Image {
	w, h := int(math.Round(width)), int(math.Round(height))
	if w <= 0 || h <= 0 {
		return img
	}
	if b := img.Bounds(); b.Dx() == w && b.Dy() == h {
		return img
	}
	return imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)
}
