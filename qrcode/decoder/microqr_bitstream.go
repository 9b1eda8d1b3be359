package decoder

import (
	"strings"

	barscan "github.com/go-barscan/barscan"
	"github.com/go-barscan/barscan/bitutil"
	"github.com/go-barscan/barscan/internal"
)

// microModeIndicatorBits gives, per mode-indicator width (0-3 bits, from
// MicroVersion.ModeIndicatorBits), the indicator value for each supported
// mode. M1 (width 0) supports only numeric and carries no indicator at all.
var microModeIndicatorBits = map[int]map[int]Mode{
	1: {0: ModeNumeric, 1: ModeAlphanumeric},
	2: {0: ModeNumeric, 1: ModeAlphanumeric, 2: ModeByte, 3: ModeKanji},
	3: {0: ModeNumeric, 1: ModeAlphanumeric, 2: ModeByte, 3: ModeKanji},
}

// microCharacterCountBits gives the character-count-indicator width for each
// (MicroVersion.Number, Mode), per ISO/IEC 18004's Micro QR annex: the width
// grows with version the same way the mode indicator does.
var microCharacterCountBits = map[int]map[Mode]int{
	1: {ModeNumeric: 3},
	2: {ModeNumeric: 4, ModeAlphanumeric: 3},
	3: {ModeNumeric: 5, ModeAlphanumeric: 4, ModeByte: 4, ModeKanji: 3},
	4: {ModeNumeric: 6, ModeAlphanumeric: 5, ModeByte: 5, ModeKanji: 4},
}

// DecodeMicroBitStream decodes a Micro QR data codeword stream. Segments
// are decoded one after another until too few bits remain for another mode
// indicator, an unknown mode indicator is read, or the bits for a character
// count run out; there is no explicit terminator check, so an all-zero
// terminator decodes as an empty numeric segment.
func DecodeMicroBitStream(bytes []byte, version *MicroVersion, ecLevel ErrorCorrectionLevel) (*internal.DecoderResult, error) {
	bs := bitutil.NewBitSource(bytes)
	var result strings.Builder
	var byteSegments [][]byte

	for {
		if bs.Available() < 1 {
			break
		}
		indicatorBits := version.ModeIndicatorBits
		modeValue := 0
		if indicatorBits > 0 {
			if bs.Available() < indicatorBits {
				break
			}
			v, err := bs.ReadBits(indicatorBits)
			if err != nil {
				return nil, barscan.ErrFormat
			}
			modeValue = v
		}

		var mode Mode
		if indicatorBits == 0 {
			mode = ModeNumeric
		} else {
			table := microModeIndicatorBits[indicatorBits]
			m, ok := table[modeValue]
			if !ok {
				break
			}
			mode = m
		}

		countBits, ok := microCharacterCountBits[version.Number][mode]
		if !ok {
			return nil, barscan.ErrFormat
		}
		if bs.Available() < countBits {
			break
		}
		count, err := bs.ReadBits(countBits)
		if err != nil {
			return nil, barscan.ErrFormat
		}

		switch mode {
		case ModeNumeric:
			if err := decodeNumericSegment(bs, &result, count); err != nil {
				return nil, err
			}
		case ModeAlphanumeric:
			if err := decodeAlphanumericSegment(bs, &result, count, false); err != nil {
				return nil, err
			}
		case ModeByte:
			seg, err := decodeByteSegment(bs, &result, count, nil, "")
			if err != nil {
				return nil, err
			}
			byteSegments = append(byteSegments, seg)
		case ModeKanji:
			if err := decodeKanjiSegment(bs, &result, count); err != nil {
				return nil, err
			}
		default:
			return nil, barscan.ErrFormat
		}

		if bs.Available() < indicatorBits+1 {
			break
		}
	}

	return internal.NewDecoderResultFull(bytes, result.String(), byteSegments, ecLevel.String(), -1, -1, 1), nil
}
