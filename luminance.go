package barscan

import "github.com/go-barscan/barscan/bitutil"

// LuminanceSource provides access to greyscale luminance values for an image.
type LuminanceSource interface {
	// Row returns a row of luminance data. If row is non-nil and large enough,
	// it should be reused.
	Row(y int, row []byte) []byte

	// Matrix returns the entire luminance matrix.
	Matrix() []byte

	// Width returns the width of the image.
	Width() int

	// Height returns the height of the image.
	Height() int
}

// LuminancePipeline adapts an ImageView into a LuminanceSource, converting
// RGB/BGR/ARGB/... pixel layouts to 8-bit luminance per spec.md §4.1:
// L = (306*r + 601*g + 117*b + 512) >> 10, matching ITU-R BT.601 rounded to
// nearest. Alpha is ignored. Lum input passes through unchanged.
type LuminancePipeline struct {
	view *ImageView
}

// NewLuminancePipeline creates a LuminanceSource wrapping the given view.
func NewLuminancePipeline(view *ImageView) *LuminancePipeline {
	return &LuminancePipeline{view: view}
}

// Width returns the image width.
func (p *LuminancePipeline) Width() int { return p.view.Width() }

// Height returns the image height.
func (p *LuminancePipeline) Height() int { return p.view.Height() }

func (p *LuminancePipeline) pixelLuminance(px []byte) byte {
	f := p.view.format
	if f.pixStride <= 2 {
		return px[0] // Lum or LumA: luminance channel passes through
	}
	r, g, b := int(px[f.rIdx]), int(px[f.gIdx]), int(px[f.bIdx])
	return byte((306*r + 601*g + 117*b + 512) >> 10)
}

// Row returns a row of luminance data, reusing row if it is large enough.
func (p *LuminancePipeline) Row(y int, row []byte) []byte {
	w := p.view.Width()
	if row == nil || len(row) < w {
		row = make([]byte, w)
	}
	for x := 0; x < w; x++ {
		row[x] = p.pixelLuminance(p.view.At(x, y))
	}
	return row
}

// Matrix returns the entire luminance matrix, row-major.
func (p *LuminancePipeline) Matrix() []byte {
	w, h := p.view.Width(), p.view.Height()
	out := make([]byte, w*h)
	for y := 0; y < h; y++ {
		p.Row(y, out[y*w:(y+1)*w])
	}
	return out
}

// Binarizer converts luminance data to 1-bit black/white data.
type Binarizer interface {
	// BlackRow returns a row of black/white values.
	BlackRow(y int, row *bitutil.BitArray) (*bitutil.BitArray, error)

	// BlackMatrix returns the 2D matrix of black/white values.
	BlackMatrix() (*bitutil.BitMatrix, error)

	// LuminanceSource returns the underlying LuminanceSource.
	LuminanceSource() LuminanceSource

	// Width returns the width of the image.
	Width() int

	// Height returns the height of the image.
	Height() int
}
