package binarizer

import (
	barscan "github.com/go-barscan/barscan"
	"github.com/go-barscan/barscan/bitutil"
)

// Fixed binarizes against a single literal luminance threshold, for images
// already known to be high-contrast (spec.md §4.1 "Fixed-threshold").
type Fixed struct {
	source    barscan.LuminanceSource
	threshold byte
}

// NewFixed creates a Fixed binarizer with the given threshold (0-255).
// A pixel is black iff its luminance <= threshold.
func NewFixed(source barscan.LuminanceSource, threshold byte) *Fixed {
	return &Fixed{source: source, threshold: threshold}
}

// LuminanceSource returns the underlying source.
func (f *Fixed) LuminanceSource() barscan.LuminanceSource { return f.source }

// Width returns the image width.
func (f *Fixed) Width() int { return f.source.Width() }

// Height returns the image height.
func (f *Fixed) Height() int { return f.source.Height() }

// BlackRow returns a row binarized against the fixed threshold.
func (f *Fixed) BlackRow(y int, row *bitutil.BitArray) (*bitutil.BitArray, error) {
	width := f.source.Width()
	if row == nil || row.Size() < width {
		row = bitutil.NewBitArray(width)
	} else {
		row.Clear()
	}
	luminances := f.source.Row(y, nil)
	for x := 0; x < width; x++ {
		if luminances[x] <= f.threshold {
			row.Set(x)
		}
	}
	return row, nil
}

// BlackMatrix returns the full binarized matrix.
func (f *Fixed) BlackMatrix() (*bitutil.BitMatrix, error) {
	width, height := f.source.Width(), f.source.Height()
	matrix := bitutil.NewBitMatrixWithSize(width, height)
	luminances := f.source.Matrix()
	for y := 0; y < height; y++ {
		offset := y * width
		for x := 0; x < width; x++ {
			if luminances[offset+x] <= f.threshold {
				matrix.Set(x, y)
			}
		}
	}
	return matrix, nil
}

// DefaultFixedThreshold is the literal threshold spec.md §3 names as the
// ReaderOptions.Binarizer default for FixedThreshold(128).
const DefaultFixedThreshold = 128

// BoolCast treats any nonzero luminance as white, zero as black — for input
// that is already effectively binarized (spec.md §3 "BoolCast").
type BoolCast struct {
	source barscan.LuminanceSource
}

// NewBoolCast creates a BoolCast binarizer.
func NewBoolCast(source barscan.LuminanceSource) *BoolCast {
	return &BoolCast{source: source}
}

// LuminanceSource returns the underlying source.
func (b *BoolCast) LuminanceSource() barscan.LuminanceSource { return b.source }

// Width returns the image width.
func (b *BoolCast) Width() int { return b.source.Width() }

// Height returns the image height.
func (b *BoolCast) Height() int { return b.source.Height() }

// BlackRow returns a row where a pixel is black iff its luminance == 0.
func (b *BoolCast) BlackRow(y int, row *bitutil.BitArray) (*bitutil.BitArray, error) {
	width := b.source.Width()
	if row == nil || row.Size() < width {
		row = bitutil.NewBitArray(width)
	} else {
		row.Clear()
	}
	luminances := b.source.Row(y, nil)
	for x := 0; x < width; x++ {
		if luminances[x] == 0 {
			row.Set(x)
		}
	}
	return row, nil
}

// BlackMatrix returns the full binarized matrix.
func (b *BoolCast) BlackMatrix() (*bitutil.BitMatrix, error) {
	width, height := b.source.Width(), b.source.Height()
	matrix := bitutil.NewBitMatrixWithSize(width, height)
	luminances := b.source.Matrix()
	for y := 0; y < height; y++ {
		offset := y * width
		for x := 0; x < width; x++ {
			if luminances[offset+x] == 0 {
				matrix.Set(x, y)
			}
		}
	}
	return matrix, nil
}
