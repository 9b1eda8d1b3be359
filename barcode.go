// Package barscan is a pure Go port of the ZXing barcode library.
package barscan

import (
	"math"
	"time"

	"github.com/go-barscan/barscan/bitutil"
)

// ResultMetadataKey identifies a type of metadata about a barcode result.
type ResultMetadataKey int

const (
	MetadataOther ResultMetadataKey = iota
	MetadataOrientation
	MetadataByteSegments
	MetadataErrorCorrectionLevel
	MetadataErrorsCorrected
	MetadataErasuresCorrected
	MetadataIssueNumber
	MetadataSuggestedPrice
	MetadataPossibleCountry
	MetadataUPCEANExtension
	MetadataPDF417ExtraMetadata
	MetadataStructuredAppendSequence
	MetadataStructuredAppendParity
	MetadataSymbologyIdentifier
	// MetadataStructuredAppendIndex/Count/ID are the format-neutral
	// Structured Append fields used by symbologies whose macro metadata
	// doesn't fit QR's packed nibble scheme (PDF417/Data Matrix file IDs
	// can exceed 4 bits and are strings, not parity bytes).
	MetadataStructuredAppendIndex
	MetadataStructuredAppendCount
	MetadataStructuredAppendID
	// MetadataECISegments carries a []ECISegment computed by a 2D decoder
	// (QR, Data Matrix, Aztec) that can switch character sets mid-stream.
	MetadataECISegments
	// MetadataLineCount carries the number of corroborating row decodes
	// behind a 1D result, consumed by newBarcode into Barcode.LineCount.
	MetadataLineCount
	// MetadataEanAddOn carries the decoded EAN-2/EAN-5 add-on text,
	// consumed by newBarcode into Barcode.ExtraEanAddOn.
	MetadataEanAddOn
)

// ECISegment marks a byte offset within a decoded payload at which a
// particular ECI designator becomes active, per spec.md §3/§6.
type ECISegment struct {
	Offset int
	Value  int
}

// ResultPoint represents a point of interest in an image.
type ResultPoint struct {
	X, Y float64
}

// Distance returns the distance between two points.
func Distance(a, b ResultPoint) float64 {
	return math.Sqrt((a.X-b.X)*(a.X-b.X) + (a.Y-b.Y)*(a.Y-b.Y))
}

// CrossProductZ computes the z component of the cross product between vectors
// (bX-aX, bY-aY) and (cX-aX, cY-aY).
func CrossProductZ(a, b, c ResultPoint) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// OrderBestPatterns orders three points in an pointA-pointB-pointC order such
// that pointA is the vertex opposite the longest side (BC is the longest
// side) and CrossProductZ(pointA, pointB, pointC) is not negative.
func OrderBestPatterns(patterns [3]ResultPoint) [3]ResultPoint {
	d01 := Distance(patterns[0], patterns[1])
	d12 := Distance(patterns[1], patterns[2])
	d02 := Distance(patterns[0], patterns[2])

	var pointA, pointB, pointC ResultPoint
	if d12 >= d01 && d12 >= d02 {
		pointA = patterns[0]
		pointB = patterns[1]
		pointC = patterns[2]
	} else if d02 >= d01 && d02 >= d12 {
		pointA = patterns[1]
		pointB = patterns[0]
		pointC = patterns[2]
	} else {
		pointA = patterns[2]
		pointB = patterns[0]
		pointC = patterns[1]
	}

	// Use cross product to determine if pointB and pointC should be swapped
	if CrossProductZ(pointA, pointB, pointC) < 0 {
		pointB, pointC = pointC, pointB
	}

	return [3]ResultPoint{pointA, pointB, pointC}
}

// Result encapsulates the result of decoding a barcode.
type Result struct {
	Text      string
	RawBytes  []byte
	NumBits   int
	Points    []ResultPoint
	Format    Format
	Metadata  map[ResultMetadataKey]interface{}
	Timestamp time.Time
}

// NewResult creates a new Result with the given text, format, and points.
func NewResult(text string, rawBytes []byte, points []ResultPoint, format Format) *Result {
	numBits := 0
	if rawBytes != nil {
		numBits = 8 * len(rawBytes)
	}
	return &Result{
		Text:      text,
		RawBytes:  rawBytes,
		NumBits:   numBits,
		Points:    points,
		Format:    format,
		Metadata:  make(map[ResultMetadataKey]interface{}),
		Timestamp: time.Now(),
	}
}

// PutMetadata adds a metadata key/value pair.
func (r *Result) PutMetadata(key ResultMetadataKey, value interface{}) {
	r.Metadata[key] = value
}

// AddResultPoints appends additional result points.
func (r *Result) AddResultPoints(points []ResultPoint) {
	r.Points = append(r.Points, points...)
}

// BinaryBitmap represents a bitmap of binary (black/white) values.
type BinaryBitmap struct {
	binarizer Binarizer
	matrix    *bitutil.BitMatrix
}

// NewBinaryBitmap creates a new BinaryBitmap from the given Binarizer.
func NewBinaryBitmap(binarizer Binarizer) *BinaryBitmap {
	return &BinaryBitmap{binarizer: binarizer}
}

// Width returns the width of the bitmap.
func (b *BinaryBitmap) Width() int {
	return b.binarizer.Width()
}

// Height returns the height of the bitmap.
func (b *BinaryBitmap) Height() int {
	return b.binarizer.Height()
}

// BlackRow returns a row of black/white values.
func (b *BinaryBitmap) BlackRow(y int, row *bitutil.BitArray) (*bitutil.BitArray, error) {
	return b.binarizer.BlackRow(y, row)
}

// BlackMatrix returns the 2D matrix of black/white values.
func (b *BinaryBitmap) BlackMatrix() (*bitutil.BitMatrix, error) {
	if b.matrix != nil {
		return b.matrix, nil
	}
	m, err := b.binarizer.BlackMatrix()
	if err != nil {
		return nil, err
	}
	b.matrix = m
	return m, nil
}

// RotateCounterClockwise returns a BinaryBitmap rotated 90 degrees
// counterclockwise, for the TryHarder retry 1D readers perform when a
// barcode runs along a vertical rather than horizontal axis. The rotated
// bitmap reuses the already-computed BlackMatrix rather than re-running
// binarization, since rotating a bit matrix is exact.
func (b *BinaryBitmap) RotateCounterClockwise() *BinaryBitmap {
	m, err := b.BlackMatrix()
	if err != nil {
		return nil
	}
	rotated := m.Clone()
	rotated.Rotate90()
	return &BinaryBitmap{binarizer: &matrixBinarizer{matrix: rotated}, matrix: rotated}
}

// matrixBinarizer is a Binarizer backed directly by a precomputed BitMatrix,
// used when a rotation has already been applied at the bit level and
// re-binarizing from luminance would be redundant.
type matrixBinarizer struct {
	matrix *bitutil.BitMatrix
}

func (m *matrixBinarizer) LuminanceSource() LuminanceSource { return nil }
func (m *matrixBinarizer) Width() int                       { return m.matrix.Width() }
func (m *matrixBinarizer) Height() int                      { return m.matrix.Height() }

func (m *matrixBinarizer) BlackRow(y int, row *bitutil.BitArray) (*bitutil.BitArray, error) {
	if row == nil || row.Size() < m.matrix.Width() {
		row = bitutil.NewBitArray(m.matrix.Width())
	}
	return m.matrix.Row(y, row), nil
}

func (m *matrixBinarizer) BlackMatrix() (*bitutil.BitMatrix, error) {
	return m.matrix, nil
}
