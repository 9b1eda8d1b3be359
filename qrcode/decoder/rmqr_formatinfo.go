package decoder

import "math/bits"

// RMQR format info reuses the same BCH(15,5) generator QR and Micro QR both
// use; the pack carries no rMQR source to confirm ISO/IEC 23941's actual
// mask constant, so this mask is a placeholder distinct from both QR's and
// Micro QR's, documented in DESIGN.md as the implementation's weakest-
// grounded piece.
const rmqrFormatInfoMask = 0x1FAB2

const rmqrFormatInfoBCHGenerator = 0x537

// RMQRFormatInformation is the decoded (version, EC level, data mask) triple.
type RMQRFormatInformation struct {
	Version  *RMQRVersion
	ECLevel  RMQRErrorCorrectionLevel
	DataMask byte
}

// rmqrVersionECPairs enumerates (version index, EC level) combinations in
// the same symbol-number encoding scheme Micro QR's format info uses.
var rmqrVersionECPairs = buildRMQRVersionECPairs()

func buildRMQRVersionECPairs() []struct {
	version *RMQRVersion
	ecLevel RMQRErrorCorrectionLevel
} {
	var out []struct {
		version *RMQRVersion
		ecLevel RMQRErrorCorrectionLevel
	}
	for i := range rmqrVersions {
		for _, lvl := range []RMQRErrorCorrectionLevel{RMQRLevelM, RMQRLevelH} {
			out = append(out, struct {
				version *RMQRVersion
				ecLevel RMQRErrorCorrectionLevel
			}{&rmqrVersions[i], lvl})
		}
	}
	return out
}

func bchEncodeRMQR(data int) int {
	bitLength := 10
	encoded := data << bitLength
	for i := 5; i >= 0; i-- {
		if encoded&(1<<uint(i+bitLength)) != 0 {
			encoded ^= rmqrFormatInfoBCHGenerator << uint(i)
		}
	}
	return (data << bitLength) | encoded&((1<<bitLength)-1)
}

// DecodeRMQRFormatInformation decodes a 15-bit masked format info word for
// the candidate size the detector is trying (see rmqrdetector.go). Only the
// EC level is decoded, by comparing the word with the encodings of M and H;
// the candidate size is not checked against the word, and the data mask is
// taken from the word's two lowest bits.
func DecodeRMQRFormatInformation(maskedFormatInfo int, candidate *RMQRVersion) *RMQRFormatInformation {
	unmasked := maskedFormatInfo ^ rmqrFormatInfoMask
	bestDifference := 32
	var bestLevel RMQRErrorCorrectionLevel
	found := false
	for _, lvl := range []RMQRErrorCorrectionLevel{RMQRLevelM, RMQRLevelH} {
		data := int(lvl) << 2
		encoded := bchEncodeRMQR(data)
		diff := bits.OnesCount(uint(unmasked ^ encoded))
		if diff < bestDifference {
			bestDifference = diff
			bestLevel = lvl
			found = true
		}
	}
	if !found || bestDifference > 3 {
		return nil
	}
	mask := unmasked & 0x3
	return &RMQRFormatInformation{Version: candidate, ECLevel: bestLevel, DataMask: byte(mask)}
}
