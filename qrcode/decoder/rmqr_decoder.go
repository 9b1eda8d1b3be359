package decoder

import (
	barscan "github.com/go-barscan/barscan"
	"github.com/go-barscan/barscan/bitutil"
	"github.com/go-barscan/barscan/internal"
	"github.com/go-barscan/barscan/reedsolomon"
)

// RMQRDecoder decodes rectangular Micro QR (rMQR) symbols. Per ISO/IEC
// 23941, rMQR reuses the standard QR mode indicators and character-count
// widths rather than Micro QR's version-scaled ones, so codeword payloads
// are handed to the regular DecodeBitStream via a minimal Version shim
// sized for rMQR's small capacities.
type RMQRDecoder struct {
	rsDecoder *reedsolomon.Decoder
}

// NewRMQRDecoder creates a new rMQR Decoder.
func NewRMQRDecoder() *RMQRDecoder {
	return &RMQRDecoder{rsDecoder: reedsolomon.NewDecoder(reedsolomon.QRCodeField256)}
}

// rmqrBitstreamVersion is a Version shim used only so Mode.CharacterCountBits
// picks the smallest (v1-9) character-count-bit bucket, appropriate for
// rMQR's codeword capacities which never approach QR version 10's.
var rmqrBitstreamVersion = &Version{Number: 1}

// Decode decodes a sampled rMQR BitMatrix into a DecoderResult.
func (d *RMQRDecoder) Decode(bits *bitutil.BitMatrix, candidate *RMQRVersion) (*internal.DecoderResult, error) {
	parser, err := NewRMQRBitMatrixParser(bits, candidate)
	if err != nil {
		return nil, err
	}
	formatInfo, err := parser.ReadFormatInformation()
	if err != nil {
		return nil, err
	}
	codewords, err := parser.ReadCodewords()
	if err != nil {
		return nil, err
	}

	numData, numEC := candidate.DataCodewordsAndECCodewords(formatInfo.ECLevel)
	if numData+numEC > len(codewords) {
		return nil, barscan.ErrFormat
	}
	block := make([]byte, numData+numEC)
	copy(block, codewords[:numData+numEC])

	if _, err := d.correctErrors(block, numData); err != nil {
		return nil, err
	}

	result, err := DecodeBitStream(block[:numData], rmqrBitstreamVersion, ecLevelFromRMQR(formatInfo.ECLevel), "")
	if err != nil {
		return nil, err
	}
	return result, nil
}

func ecLevelFromRMQR(level RMQRErrorCorrectionLevel) ErrorCorrectionLevel {
	if level == RMQRLevelH {
		return ECLevelH
	}
	return ECLevelM
}

func (d *RMQRDecoder) correctErrors(codewordBytes []byte, numDataCodewords int) (int, error) {
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
