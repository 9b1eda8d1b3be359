package qrcode

import (
	"fmt"

	barscan "github.com/go-barscan/barscan"
	"github.com/go-barscan/barscan/qrcode/decoder"
	"github.com/go-barscan/barscan/qrcode/detector"
)

// MicroReader decodes Micro QR Code symbols from binary images.
type MicroReader struct {
	dec *decoder.MicroDecoder
}

// NewMicroReader creates a new Micro QR Code Reader.
func NewMicroReader() *MicroReader {
	return &MicroReader{dec: decoder.NewMicroDecoder()}
}

// Decode locates and decodes a Micro QR Code in the given image.
func (r *MicroReader) Decode(image *barscan.BinaryBitmap, opts *barscan.DecodeOptions) (*barscan.Result, error) {
	if opts == nil {
		opts = &barscan.DecodeOptions{}
	}

	matrix, err := image.BlackMatrix()
	if err != nil {
		return nil, err
	}

	if opts.PureBarcode {
		bits, err := extractPureBits(matrix)
		if err != nil {
			return nil, err
		}
		dr, err := r.dec.Decode(bits)
		if err != nil {
			return nil, err
		}
		result := barscan.NewResult(dr.Text, dr.RawBytes, nil, barscan.FormatMicroQRCode)
		populateMicroMetadata(result, dr.ByteSegments, dr.ECLevel, dr.ErrorsCorrected)
		return result, nil
	}

	det := detector.NewMicroDetector(matrix)
	candidates, err := det.Detect(opts.TryHarder)
	if err != nil {
		return nil, err
	}

	var lastErr error = barscan.ErrNotFound
	for _, dr := range candidates {
		decoded, err := r.dec.Decode(dr.Bits)
		if err != nil {
			lastErr = err
			continue
		}
		points := make([]barscan.ResultPoint, len(dr.Points))
		for i, p := range dr.Points {
			points[i] = barscan.ResultPoint{X: p.X, Y: p.Y}
		}
		result := barscan.NewResult(decoded.Text, decoded.RawBytes, points, barscan.FormatMicroQRCode)
		populateMicroMetadata(result, decoded.ByteSegments, decoded.ECLevel, decoded.ErrorsCorrected)
		return result, nil
	}
	return nil, lastErr
}

// Reset resets internal state.
func (r *MicroReader) Reset() {}

func populateMicroMetadata(result *barscan.Result, byteSegments [][]byte, ecLevel string, errorsCorrected int) {
	if byteSegments != nil {
		result.PutMetadata(barscan.MetadataByteSegments, byteSegments)
	}
	if ecLevel != "" {
		result.PutMetadata(barscan.MetadataErrorCorrectionLevel, ecLevel)
	}
	result.PutMetadata(barscan.MetadataErrorsCorrected, errorsCorrected)
	result.PutMetadata(barscan.MetadataSymbologyIdentifier, fmt.Sprintf("]Q%d", 1))
}
