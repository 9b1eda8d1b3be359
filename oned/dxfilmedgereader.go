package oned

import (
	"fmt"
	"math"

	barscan "github.com/go-barscan/barscan"
	"github.com/go-barscan/barscan/bitutil"
)

// DXFilmEdgeReader decodes DX film edge barcodes, the small data block
// printed along the edge of 35mm film identifying the product and
// generation number (and, on some stocks, a half-frame number).
//
// The original format splits its information across two physically
// separate signals: a "clock" signal (present on every frame edge, used
// purely to recover scanning position/pitch) and a "data" signal that
// follows it, decoded only once a clock has been confirmed nearby. That
// two-signal handshake is tracked across many scan rows in the source
// this is grounded on. This reader only has a single row of counters to
// work with per call: it searches that row for the data signal's start
// guard only and decodes directly from the bits that follow it. No clock
// pattern is searched for or verified, and the variant is chosen by which
// bit count passes the stop-guard and parity checks — see
// DESIGN.md's Open Question entry for this symbology.
type DXFilmEdgeReader struct{}

func NewDXFilmEdgeReader() *DXFilmEdgeReader {
	return &DXFilmEdgeReader{}
}

const (
	dxDataLengthHF   = 23 // data bits, half-frame-capable variant
	dxDataLengthNoHF = 15 // data bits, variant without half-frame info
)

// dxDataStartPattern and dxDataStopPattern are narrow/wide guard runs
// bracketing the data signal's bit run, expressed as element widths in
// narrow-module units (bar,space,bar,space,bar / bar,space,bar).
var dxDataStartPattern = []int{1, 1, 1, 1, 1}
var dxDataStopPattern = []int{1, 1, 1}

// DecodeRow scans for the data-signal guard pattern and, once found,
// reads the following run of bits as either a half-frame-capable or a
// plain DX data block depending on how many bit-widths fit before the
// stop guard is seen.
func (r *DXFilmEdgeReader) DecodeRow(rowNumber int, row *bitutil.BitArray, opts *barscan.DecodeOptions) (*barscan.Result, error) {
	width := row.Size()
	counters := make([]int, len(dxDataStartPattern))

	for start := 0; start < width; start++ {
		if !row.Get(start) {
			continue
		}
		if start > 0 && row.Get(start-1) {
			continue
		}
		if err := RecordPattern(row, start, counters); err != nil {
			continue
		}
		if math.IsInf(PatternMatchVariance(counters, dxDataStartPattern, 0.7), 1) {
			continue
		}

		dataStart := start + sumInts(counters)
		if result, ok := r.decodeDataAt(row, rowNumber, dataStart, dxDataLengthHF, true); ok {
			return result, nil
		}
		if result, ok := r.decodeDataAt(row, rowNumber, dataStart, dxDataLengthNoHF, false); ok {
			return result, nil
		}
	}
	return nil, barscan.ErrNotFound
}

// decodeDataAt reads bitCount module-width bits starting at dataStart,
// each bit occupying one module width as estimated by
// estimateDXModuleWidth (the length of the run at dataStart), then
// validates the trailing stop guard.
func (r *DXFilmEdgeReader) decodeDataAt(row *bitutil.BitArray, rowNumber, dataStart, bitCount int, halfFrame bool) (*barscan.Result, bool) {
	moduleWidth := estimateDXModuleWidth(row, dataStart)
	if moduleWidth <= 0 {
		return nil, false
	}

	bits := make([]bool, bitCount)
	pos := dataStart
	for i := 0; i < bitCount; i++ {
		bits[i] = row.Get(pos + moduleWidth/2)
		pos += moduleWidth
	}

	stopCounters := make([]int, len(dxDataStopPattern))
	if err := RecordPattern(row, pos, stopCounters); err != nil {
		return nil, false
	}
	if math.IsInf(PatternMatchVariance(stopCounters, dxDataStopPattern, 0.7), 1) {
		return nil, false
	}

	// Parity bit is the last bit; separators are fixed at 0 between the
	// product number, generation number, and (when present) half frame.
	parityBit := bits[bitCount-1]
	if computeDXParity(bits[:bitCount-1]) != parityBit {
		return nil, false
	}

	var productNumber, generationNumber, halfFrameNumber int
	var text string
	if halfFrame {
		productNumber = toDecimal(bits[0:12])
		generationNumber = toDecimal(bits[13:17])
		halfFrameNumber = toDecimal(bits[18:22])
		text = fmt.Sprintf("%d-%d/%d%s", productNumber, generationNumber, halfFrameNumber/2, halfFrameLetter(halfFrameNumber))
	} else {
		productNumber = toDecimal(bits[0:12])
		generationNumber = toDecimal(bits[13:14])
		text = fmt.Sprintf("%d-%d", productNumber, generationNumber)
	}

	result := barscan.NewResult(
		text,
		nil,
		[]barscan.ResultPoint{
			{X: float64(dataStart), Y: float64(rowNumber)},
			{X: float64(pos), Y: float64(rowNumber)},
		},
		barscan.FormatDXFilmEdge,
	)
	result.PutMetadata(barscan.MetadataSymbologyIdentifier, "]I0")
	return result, true
}

func toDecimal(bits []bool) int {
	v := 0
	for _, b := range bits {
		v <<= 1
		if b {
			v |= 1
		}
	}
	return v
}

func computeDXParity(bits []bool) bool {
	parity := false
	for _, b := range bits {
		if b {
			parity = !parity
		}
	}
	return parity
}

func halfFrameLetter(halfFrameNumber int) string {
	if halfFrameNumber%2 != 0 {
		return "A"
	}
	return ""
}

// estimateDXModuleWidth samples a short run ahead of pos to approximate
// the bit module width, since the data signal has no further guard
// elements to size against beyond its leading start pattern.
func estimateDXModuleWidth(row *bitutil.BitArray, pos int) int {
	width := row.Size()
	if pos >= width {
		return 0
	}
	run := 1
	state := row.Get(pos)
	for pos+run < width && row.Get(pos+run) == state {
		run++
	}
	if run < 1 {
		return 1
	}
	return run
}

var _ RowDecoder = (*DXFilmEdgeReader)(nil)
