package decoder

import (
	barscan "github.com/go-barscan/barscan"
	"github.com/go-barscan/barscan/bitutil"
)

// MicroBitMatrixParser parses a Micro QR Code BitMatrix. Structurally it
// mirrors BitMatrixParser, adapted for a single top-left finder (no
// alignment patterns, no version-info region) and a single format-info
// copy instead of two redundant ones.
type MicroBitMatrixParser struct {
	bitMatrix  *bitutil.BitMatrix
	version    *MicroVersion
	formatInfo *MicroFormatInformation
}

// NewMicroBitMatrixParser creates a parser for a Micro QR symbol.
func NewMicroBitMatrixParser(bitMatrix *bitutil.BitMatrix) (*MicroBitMatrixParser, error) {
	dimension := bitMatrix.Height()
	if dimension < 11 || dimension > 17 || dimension%2 != 1 {
		return nil, barscan.ErrFormat
	}
	return &MicroBitMatrixParser{bitMatrix: bitMatrix}, nil
}

func (p *MicroBitMatrixParser) get(x, y int) bool { return p.bitMatrix.Get(x, y) }

func (p *MicroBitMatrixParser) copyBit(x, y, bitsSoFar int) int {
	if p.get(x, y) {
		return (bitsSoFar << 1) | 1
	}
	return bitsSoFar << 1
}

// ReadVersion infers the MicroVersion directly from the matrix dimension
// (unlike regular QR, Micro QR carries no separate version-info region).
func (p *MicroBitMatrixParser) ReadVersion() (*MicroVersion, error) {
	if p.version != nil {
		return p.version, nil
	}
	v, err := GetMicroVersionForDimension(p.bitMatrix.Height())
	if err != nil {
		return nil, err
	}
	p.version = v
	return v, nil
}

// ReadFormatInformation reads the single 15-bit format info word, split
// across row 8 (columns 1-8) and column 8 (rows 7 down to 1), per
// ISO/IEC 18004 Figure 9.
func (p *MicroBitMatrixParser) ReadFormatInformation() (*MicroFormatInformation, error) {
	if p.formatInfo != nil {
		return p.formatInfo, nil
	}
	bitsVal := 0
	for x := 1; x <= 8; x++ {
		bitsVal = p.copyBit(x, 8, bitsVal)
	}
	for y := 7; y >= 1; y-- {
		bitsVal = p.copyBit(8, y, bitsVal)
	}
	fi := DecodeMicroFormatInformation(bitsVal)
	if fi == nil {
		return nil, barscan.ErrFormat
	}
	p.formatInfo = fi
	return fi, nil
}

// buildMicroFunctionPattern marks the finder+separator block and the two
// timing lines (row 8 and column 8) as function modules, analogous to
// Version.BuildFunctionPattern.
func buildMicroFunctionPattern(dimension int) *bitutil.BitMatrix {
	bm := bitutil.NewBitMatrix(dimension)
	bm.SetRegion(0, 0, 9, 9)
	bm.SetRegion(8, 0, 1, dimension-8)
	bm.SetRegion(0, 8, dimension-8, 1)
	return bm
}

// ReadCodewords reads and unmasks the data codewords.
func (p *MicroBitMatrixParser) ReadCodewords() ([]byte, error) {
	formatInfo, err := p.ReadFormatInformation()
	if err != nil {
		return nil, err
	}

	dimension := p.bitMatrix.Height()
	UnmaskBitMatrix(p.bitMatrix, dimension, int(formatInfo.DataMask))
	functionPattern := buildMicroFunctionPattern(dimension)

	totalBits := 0
	for x := 0; x < dimension; x++ {
		for y := 0; y < dimension; y++ {
			if !functionPattern.Get(x, y) {
				totalBits++
			}
		}
	}

	readingUp := true
	var bitsBuf []bool
	bitsBuf = make([]bool, 0, totalBits)

	for j := dimension - 1; j > 0; j -= 2 {
		if j == 8 {
			j--
		}
		for count := 0; count < dimension; count++ {
			i := count
			if readingUp {
				i = dimension - 1 - count
			}
			for col := 0; col < 2; col++ {
				x, y := j-col, i
				if x < 0 {
					continue
				}
				if !functionPattern.Get(x, y) {
					bitsBuf = append(bitsBuf, p.bitMatrix.Get(x, y))
				}
			}
		}
		readingUp = !readingUp
	}

	numBytes := len(bitsBuf) / 8
	result := make([]byte, numBytes)
	for i := 0; i < numBytes; i++ {
		var v byte
		for b := 0; b < 8; b++ {
			v <<= 1
			if bitsBuf[i*8+b] {
				v |= 1
			}
		}
		result[i] = v
	}
	return result, nil
}
