// Package aztec provides Aztec barcode reading and writing.
package aztec

import (
	barscan "github.com/go-barscan/barscan"
	"github.com/go-barscan/barscan/aztec/decoder"
	"github.com/go-barscan/barscan/aztec/detector"
)

// Reader decodes Aztec barcodes from binary images.
type Reader struct{}

// NewReader creates a new Aztec Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Decode locates and decodes an Aztec barcode in the given image.
func (r *Reader) Decode(image *barscan.BinaryBitmap, opts *barscan.DecodeOptions) (*barscan.Result, error) {
	matrix, err := image.BlackMatrix()
	if err != nil {
		return nil, err
	}

	detResult, err := detector.Detect(matrix, false)
	if err != nil {
		return nil, err
	}

	// Convert detector result to decoder input.
	ddata := &decoder.AztecDetectorResult{
		Bits:         detResult.Bits,
		Points:       detResult.Points,
		Compact:      detResult.Compact,
		NbDataBlocks: detResult.NbDataBlocks,
		NbLayers:     detResult.NbLayers,
	}

	dr, err := decoder.Decode(ddata)
	if err != nil {
		return nil, err
	}

	result := barscan.NewResult(dr.Text, dr.RawBytes, detResult.Points, barscan.FormatAztec)
	result.PutMetadata(barscan.MetadataSymbologyIdentifier, "]z0")
	if len(dr.ECISegments) > 0 {
		segs := make([]barscan.ECISegment, len(dr.ECISegments))
		for i, s := range dr.ECISegments {
			segs[i] = barscan.ECISegment{Offset: s.Offset, Value: s.Value}
		}
		result.PutMetadata(barscan.MetadataECISegments, segs)
	}
	return result, nil
}

// Reset resets internal state.
func (r *Reader) Reset() {}

// Compile-time check.
var _ barscan.Reader = (*Reader)(nil)
