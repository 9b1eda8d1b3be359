package decoder

import (
	barscan "github.com/go-barscan/barscan"
	"github.com/go-barscan/barscan/bitutil"
	"github.com/go-barscan/barscan/internal"
	"github.com/go-barscan/barscan/reedsolomon"
)

// MicroDecoder decodes Micro QR Code symbols M2-M4. M1 (no Reed-Solomon, a
// 2-bit BCH check value instead of a proper EC scheme) is out of scope: it
// is rare in practice and its numeric-only checksum layer shares nothing
// with the RS-based decode path the rest of this package builds on.
type MicroDecoder struct {
	rsDecoder *reedsolomon.Decoder
}

// NewMicroDecoder creates a new Micro QR Code Decoder.
func NewMicroDecoder() *MicroDecoder {
	return &MicroDecoder{rsDecoder: reedsolomon.NewDecoder(reedsolomon.QRCodeField256)}
}

// Decode decodes a BitMatrix into a DecoderResult.
func (d *MicroDecoder) Decode(bits *bitutil.BitMatrix) (*internal.DecoderResult, error) {
	parser, err := NewMicroBitMatrixParser(bits)
	if err != nil {
		return nil, err
	}

	version, err := parser.ReadVersion()
	if err != nil {
		return nil, err
	}
	if version.Number == 1 {
		return nil, barscan.ErrUnsupported
	}

	formatInfo, err := parser.ReadFormatInformation()
	if err != nil {
		return nil, err
	}

	codewords, err := parser.ReadCodewords()
	if err != nil {
		return nil, err
	}

	ecBlocks := version.ECBlocksForLevel(formatInfo.ECLevel)
	if ecBlocks == nil {
		return nil, barscan.ErrFormat
	}
	numData := ecBlocks.Blocks[0].DataCodewords
	numEC := ecBlocks.ECCodewordsPerBlock
	if numData+numEC > len(codewords) {
		return nil, barscan.ErrFormat
	}
	block := make([]byte, numData+numEC)
	copy(block, codewords[:numData+numEC])

	if _, err := d.correctErrors(block, numData); err != nil {
		return nil, err
	}

	result, err := DecodeMicroBitStream(block[:numData], version, formatInfo.ECLevel)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (d *MicroDecoder) correctErrors(codewordBytes []byte, numDataCodewords int) (int, error) {
	numCodewords := len(codewordBytes)
	ints := make([]int, numCodewords)
	for i := range ints {
		ints[i] = int(codewordBytes[i]) & 0xFF
	}
	corrected, err := d.rsDecoder.Decode(ints, numCodewords-numDataCodewords)
	if err != nil {
		return 0, barscan.ErrChecksum
	}
	for i := 0; i < numDataCodewords; i++ {
		codewordBytes[i] = byte(ints[i])
	}
	return corrected, nil
}
