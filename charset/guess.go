package charset

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// namedEncodings maps the Go-facing encoding names used by the ECI table to
// their golang.org/x/text decoder. Every non-UTF-8, non-ASCII ECI value
// except ISO8859_11 (ECI 13) round-trips through one of these or through
// DecodeBytes' own cases; ISO8859_11 has no decoder here and its bytes are
// returned as they are.
var namedEncodings = map[string]encoding.Encoding{
	"ISO8859_1":    charmap.ISO8859_1,
	"ISO8859_2":    charmap.ISO8859_2,
	"ISO8859_3":    charmap.ISO8859_3,
	"ISO8859_4":    charmap.ISO8859_4,
	"ISO8859_5":    charmap.ISO8859_5,
	"ISO8859_6":    charmap.ISO8859_6,
	"ISO8859_7":    charmap.ISO8859_7,
	"ISO8859_8":    charmap.ISO8859_8,
	"ISO8859_9":    charmap.ISO8859_9,
	"ISO8859_10":   charmap.ISO8859_10,
	"ISO8859_13":   charmap.ISO8859_13,
	"ISO8859_14":   charmap.ISO8859_14,
	"ISO8859_15":   charmap.ISO8859_15,
	"ISO8859_16":   charmap.ISO8859_16,
	"Windows1250":  charmap.Windows1250,
	"Windows1251":  charmap.Windows1251,
	"Windows1252":  charmap.Windows1252,
	"Windows1256":  charmap.Windows1256,
	"IBM437":       charmap.CodePage437,
	"Big5":         traditionalchinese.Big5,
	"EUC-KR":       korean.EUCKR,
}

// DecodeBytes converts bytes from the given Go encoding name to UTF-8.
// Returns the original bytes verbatim for UTF-8/US-ASCII (already valid
// UTF-8) or if no decoder is registered/conversion fails.
func DecodeBytes(data []byte, encoding string) string {
	switch encoding {
	case "UTF-8", "US-ASCII", "":
		return string(data)
	case "Shift_JIS", "SJIS":
		return decodeWith(japanese.ShiftJIS.NewDecoder(), data)
	case "GB18030", "GB2312", "GBK", "EUC_CN":
		return decodeWith(simplifiedchinese.GB18030.NewDecoder(), data)
	case "UTF-16BE", "UnicodeBig":
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder(), data)
	case "UTF-16LE":
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder(), data)
	case "UTF-16":
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder(), data)
	case "ISO-8859-1":
		return decodeWith(charmap.ISO8859_1.NewDecoder(), data)
	}
	if enc, ok := namedEncodings[encoding]; ok {
		return decodeWith(enc.NewDecoder(), data)
	}
	return string(data)
}

func decodeWith(dec transform.Transformer, data []byte) string {
	decoded, _, err := transform.Bytes(dec, data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

// GuessEncoding attempts to guess the encoding of a byte sequence.
// Returns characterSet unchanged when it is non-empty; otherwise "UTF-16",
// "UTF-8", "Shift_JIS" or "ISO-8859-1", with "UTF-8" as the fallback.
func GuessEncoding(bytes []byte, characterSet string) string {
	if characterSet != "" {
		return characterSet
	}

	// First try UTF-16 BOM
	if len(bytes) > 2 &&
		((bytes[0] == 0xFE && bytes[1] == 0xFF) ||
			(bytes[0] == 0xFF && bytes[1] == 0xFE)) {
		return "UTF-16"
	}

	length := len(bytes)
	canBeISO88591 := true
	canBeShiftJIS := true
	canBeUTF8 := true
	utf8BytesLeft := 0
	utf2BytesChars := 0
	utf3BytesChars := 0
	utf4BytesChars := 0
	sjisBytesLeft := 0
	sjisKatakanaChars := 0
	sjisCurKatakanaWordLength := 0
	sjisCurDoubleBytesWordLength := 0
	sjisMaxKatakanaWordLength := 0
	sjisMaxDoubleBytesWordLength := 0
	isoHighOther := 0

	utf8bom := len(bytes) > 3 &&
		bytes[0] == 0xEF && bytes[1] == 0xBB && bytes[2] == 0xBF

	for i := 0; i < length && (canBeISO88591 || canBeShiftJIS || canBeUTF8); i++ {
		value := int(bytes[i]) & 0xFF

		// UTF-8 stuff
		if canBeUTF8 {
			if utf8BytesLeft > 0 {
				if (value & 0x80) == 0 {
					canBeUTF8 = false
				} else {
					utf8BytesLeft--
				}
			} else if (value & 0x80) != 0 {
				if (value & 0x40) == 0 {
					canBeUTF8 = false
				} else {
					utf8BytesLeft++
					if (value & 0x20) == 0 {
						utf2BytesChars++
					} else {
						utf8BytesLeft++
						if (value & 0x10) == 0 {
							utf3BytesChars++
						} else {
							utf8BytesLeft++
							if (value & 0x08) == 0 {
								utf4BytesChars++
							} else {
								canBeUTF8 = false
							}
						}
					}
				}
			}
		}

		// ISO-8859-1 stuff
		if canBeISO88591 {
			if value > 0x7F && value < 0xA0 {
				canBeISO88591 = false
			} else if value > 0x9F && (value < 0xC0 || value == 0xD7 || value == 0xF7) {
				isoHighOther++
			}
		}

		// Shift_JIS stuff
		if canBeShiftJIS {
			if sjisBytesLeft > 0 {
				if value < 0x40 || value == 0x7F || value > 0xFC {
					canBeShiftJIS = false
				} else {
					sjisBytesLeft--
				}
			} else if value == 0x80 || value == 0xA0 || value > 0xEF {
				canBeShiftJIS = false
			} else if value > 0xA0 && value < 0xE0 {
				sjisKatakanaChars++
				sjisCurDoubleBytesWordLength = 0
				sjisCurKatakanaWordLength++
				if sjisCurKatakanaWordLength > sjisMaxKatakanaWordLength {
					sjisMaxKatakanaWordLength = sjisCurKatakanaWordLength
				}
			} else if value > 0x7F {
				sjisBytesLeft++
				sjisCurKatakanaWordLength = 0
				sjisCurDoubleBytesWordLength++
				if sjisCurDoubleBytesWordLength > sjisMaxDoubleBytesWordLength {
					sjisMaxDoubleBytesWordLength = sjisCurDoubleBytesWordLength
				}
			} else {
				sjisCurKatakanaWordLength = 0
				sjisCurDoubleBytesWordLength = 0
			}
		}
	}

	if canBeUTF8 && utf8BytesLeft > 0 {
		canBeUTF8 = false
	}
	if canBeShiftJIS && sjisBytesLeft > 0 {
		canBeShiftJIS = false
	}

	if canBeUTF8 && (utf8bom || utf2BytesChars+utf3BytesChars+utf4BytesChars > 0) {
		return "UTF-8"
	}
	if canBeShiftJIS && (sjisMaxKatakanaWordLength >= 3 || sjisMaxDoubleBytesWordLength >= 3) {
		return "Shift_JIS"
	}
	if canBeISO88591 && canBeShiftJIS {
		if (sjisMaxKatakanaWordLength == 2 && sjisKatakanaChars == 2) || isoHighOther*10 >= length {
			return "Shift_JIS"
		}
		return "ISO-8859-1"
	}
	if canBeISO88591 {
		return "ISO-8859-1"
	}
	if canBeShiftJIS {
		return "Shift_JIS"
	}
	if canBeUTF8 {
		return "UTF-8"
	}
	return "UTF-8" // fallback
}
