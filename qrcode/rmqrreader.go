package qrcode

import (
	"fmt"

	barscan "github.com/go-barscan/barscan"
	"github.com/go-barscan/barscan/qrcode/decoder"
	"github.com/go-barscan/barscan/qrcode/detector"
)

// RMQRReader decodes rectangular Micro QR (rMQR) symbols from binary images.
type RMQRReader struct {
	dec *decoder.RMQRDecoder
}

// NewRMQRReader creates a new rMQR Reader.
func NewRMQRReader() *RMQRReader {
	return &RMQRReader{dec: decoder.NewRMQRDecoder()}
}

// Decode locates and decodes an rMQR symbol in the given image.
func (r *RMQRReader) Decode(image *barscan.BinaryBitmap, opts *barscan.DecodeOptions) (*barscan.Result, error) {
	if opts == nil {
		opts = &barscan.DecodeOptions{}
	}

	matrix, err := image.BlackMatrix()
	if err != nil {
		return nil, err
	}

	det := detector.NewRMQRDetector(matrix)
	candidates, err := det.Detect(opts.TryHarder)
	if err != nil {
		return nil, err
	}

	var lastErr error = barscan.ErrNotFound
	for _, c := range candidates {
		decoded, err := r.dec.Decode(c.Bits, c.Version)
		if err != nil {
			lastErr = err
			continue
		}
		points := make([]barscan.ResultPoint, len(c.Points))
		for i, p := range c.Points {
			points[i] = barscan.ResultPoint{X: p.X, Y: p.Y}
		}
		result := barscan.NewResult(decoded.Text, decoded.RawBytes, points, barscan.FormatRMQRCode)
		if decoded.ByteSegments != nil {
			result.PutMetadata(barscan.MetadataByteSegments, decoded.ByteSegments)
		}
		if decoded.ECLevel != "" {
			result.PutMetadata(barscan.MetadataErrorCorrectionLevel, decoded.ECLevel)
		}
		result.PutMetadata(barscan.MetadataErrorsCorrected, decoded.ErrorsCorrected)
		result.PutMetadata(barscan.MetadataSymbologyIdentifier, fmt.Sprintf("]Q%d", 1))
		if len(decoded.ECISegments) > 0 {
			segs := make([]barscan.ECISegment, len(decoded.ECISegments))
			for i, s := range decoded.ECISegments {
				segs[i] = barscan.ECISegment{Offset: s.Offset, Value: s.Value}
			}
			result.PutMetadata(barscan.MetadataECISegments, segs)
		}
		return result, nil
	}
	return nil, lastErr
}

// Reset resets internal state.
func (r *RMQRReader) Reset() {}
