package decoder

import (
	barscan "github.com/go-barscan/barscan"
	"github.com/go-barscan/barscan/bitutil"
)

// RMQRBitMatrixParser parses a rectangular Micro QR (rMQR) symbol. It
// mirrors MicroBitMatrixParser, generalized to independent width/height and
// a bottom-right corner finder pattern alongside the top-left finder.
type RMQRBitMatrixParser struct {
	bitMatrix  *bitutil.BitMatrix
	version    *RMQRVersion
	formatInfo *RMQRFormatInformation
}

// NewRMQRBitMatrixParser creates a parser for an rMQR symbol of the given
// candidate version (the detector narrows this down per sampled size).
func NewRMQRBitMatrixParser(bits *bitutil.BitMatrix, candidate *RMQRVersion) (*RMQRBitMatrixParser, error) {
	if bits.Width() != candidate.Width || bits.Height() != candidate.Height {
		return nil, barscan.ErrFormat
	}
	return &RMQRBitMatrixParser{bitMatrix: bits, version: candidate}, nil
}

func (p *RMQRBitMatrixParser) copyBit(x, y, bitsSoFar int) int {
	if p.bitMatrix.Get(x, y) {
		return (bitsSoFar << 1) | 1
	}
	return bitsSoFar << 1
}

// ReadFormatInformation reads the 15-bit format info word, located (as in
// Micro QR) along row 8 and column 8 adjacent to the top-left finder.
func (p *RMQRBitMatrixParser) ReadFormatInformation() (*RMQRFormatInformation, error) {
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
	fi := DecodeRMQRFormatInformation(bitsVal, p.version)
	if fi == nil {
		return nil, barscan.ErrFormat
	}
	p.formatInfo = fi
	return fi, nil
}

func buildRMQRFunctionPattern(width, height int) *bitutil.BitMatrix {
	bm := bitutil.NewBitMatrixWithSize(width, height)
	bm.SetRegion(0, 0, 9, 9)
	bm.SetRegion(8, 0, 1, height)
	bm.SetRegion(0, 8, width, 1)
	cornerLeft, cornerTop := width-5, height-5
	if cornerLeft > 0 && cornerTop > 0 {
		bm.SetRegion(cornerLeft, cornerTop, 5, 5)
	}
	return bm
}

// ReadCodewords reads and unmasks the data codewords.
func (p *RMQRBitMatrixParser) ReadCodewords() ([]byte, error) {
	formatInfo, err := p.ReadFormatInformation()
	if err != nil {
		return nil, err
	}

	width, height := p.bitMatrix.Width(), p.bitMatrix.Height()
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			if DataMasks[formatInfo.DataMask](y, x) {
				p.bitMatrix.Flip(x, y)
			}
		}
	}
	functionPattern := buildRMQRFunctionPattern(width, height)

	var bitsBuf []bool
	readingUp := true
	for j := width - 1; j > 0; j -= 2 {
		if j == 8 {
			j--
		}
		for count := 0; count < height; count++ {
			i := count
			if readingUp {
				i = height - 1 - count
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
