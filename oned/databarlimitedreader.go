package oned

import (
	"fmt"

	barscan "github.com/go-barscan/barscan"
	"github.com/go-barscan/barscan/bitutil"
)

// DataBarLimitedReader decodes DataBar Limited symbols (ISO/IEC 24724).
// Unlike DataBar-14, a Limited symbol carries a single row-wide pattern with
// no asymmetric finder to search for independently: a start guard bar, a left
// character, a check character, a right character and a stop guard, all
// decoded from one fixed-width run of 45 bar/space elements.
type DataBarLimitedReader struct {
	counters [limitedSymbolElements]int
}

func NewDataBarLimitedReader() *DataBarLimitedReader {
	return &DataBarLimitedReader{}
}

const (
	limitedCharLen        = 14 // elements (7 bars + 7 spaces) per character
	limitedSymbolElements = 1 + 3*limitedCharLen + 2
	limitedOuterModules   = 26 // left/right character width in modules
	limitedCheckModules   = 18 // check character width in modules
)

var limitedGSum = []int{0, 183064, 820064, 1000776, 1491021, 1979845, 1996939}
var limitedTEven = []int{28, 728, 6454, 203, 2408, 1, 16632}
var limitedOddSum = []int{17, 13, 9, 15, 11, 19, 7}
var limitedOddWidest = []int{6, 5, 3, 5, 4, 8, 1}

// limitedCheckChars enumerates the 89 legal check-character bit patterns
// (18 modules packed MSB-first, bar=1/space=0), transcribed from ISO/IEC
// 24724's official DataBar Limited check-character table.
var limitedCheckChars = []int{
		0b10_10101010_11100010, 0b10_10101010_01110010, 0b10_10101010_00111010, 0b10_10101001_01110010, 0b10_10101001_00111010,
		0b10_10101000_10111010, 0b10_10100101_01110010, 0b10_10100101_00111010, 0b10_10100100_10111010, 0b10_10100010_10111010,
		0b10_10010101_01110010, 0b10_10010101_00111010, 0b10_10010100_10111010, 0b10_10010010_10111010, 0b10_10001010_10111010,
		0b10_01010101_01110010, 0b10_01010101_00111010, 0b10_01010100_10111010, 0b10_01010010_10111010, 0b10_01001010_10111010,
		0b10_00101010_10111010, 0b10_10101011_01100010, 0b10_10101011_00110010, 0b10_10101011_00011010, 0b10_10101001_10110010,
		0b10_10101001_10011010, 0b10_10101000_11011010, 0b10_10100101_10110010, 0b10_10100101_10011010, 0b10_10100100_11011010,
		0b10_10100010_11011010, 0b10_10010101_10110010, 0b10_10010101_10011010, 0b10_10010100_11011010, 0b10_10010010_11011010,
		0b10_10001010_11011010, 0b10_01010101_10110010, 0b10_01010101_10011010, 0b10_01010100_11011010, 0b10_01010010_11011010,
		0b10_01001010_11011010, 0b10_00101010_11011010, 0b10_10101011_10100010, 0b10_10101011_10010010, 0b10_10101001_11010010,
		0b10_10010101_11010010, 0b10_01010101_11010010, 0b10_10101101_01100010, 0b10_10101101_00110010, 0b10_10101101_00011010,
		0b10_10101100_10110010, 0b10_10010110_10110010, 0b10_10010110_10011010, 0b10_10010110_01011010, 0b10_10010011_01011010,
		0b10_10001011_01011010, 0b10_01010110_10110010, 0b10_01010110_10011010, 0b10_01001011_01011010, 0b10_10110101_01100010,
		0b10_10110101_00110010, 0b10_10110101_00011010, 0b10_10110100_10110010, 0b10_10110100_10011010, 0b10_10110010_10110010,
		0b10_01011010_10110010, 0b10_01011010_10011010, 0b10_01011010_01011010, 0b10_01011001_01011010, 0b10_01001101_01011010,
		0b10_00101101_01011010, 0b10_11010101_01100010, 0b10_11010101_00110010, 0b10_11010101_00011010, 0b10_11010100_10110010,
		0b10_11010100_10011010, 0b10_11010100_01011010, 0b10_11010010_10110010, 0b10_11010010_10011010, 0b10_11001010_10110010,
		0b11_01010101_00110010, 0b11_01010101_00011010, 0b11_01010100_10110010, 0b11_01010100_10011010, 0b11_01010100_01011010,
		0b11_01010010_10011010, 0b11_01010010_01011010, 0b11_01001010_10011010, 0b11_01010101_10010010,
}

// DecodeRow attempts every bar position in the row as a candidate symbol
// start, reading a 45-element run and validating the guard ratios, the
// outer/check module-width ratios, the check character against the known
// table, and finally the odd/even checksum relation between the two data
// characters.
func (r *DataBarLimitedReader) DecodeRow(rowNumber int, row *bitutil.BitArray, opts *barscan.DecodeOptions) (*barscan.Result, error) {
	width := row.Size()
	for start := 0; start < width; start++ {
		if !row.Get(start) {
			continue
		}
		if start > 0 && row.Get(start-1) {
			continue // not a rising edge
		}

		counters := r.counters[:]
		if err := RecordPattern(row, start, counters); err != nil {
			continue
		}

		result, ok := r.decodeAt(counters, rowNumber, start)
		if ok {
			return result, nil
		}
	}
	return nil, barscan.ErrNotFound
}

func (r *DataBarLimitedReader) decodeAt(counters []int, rowNumber, start int) (*barscan.Result, bool) {
	// counters[0] is the leading guard bar; [1..14] left char; [15..28]
	// check char; [29..42] right char; [43..44] trailing guard.
	leftCounts := counters[1 : 1+limitedCharLen]
	checkCounts := counters[1+limitedCharLen : 1+2*limitedCharLen]
	rightCounts := counters[1+2*limitedCharLen : 1+3*limitedCharLen]

	leftWidth := sumInts(leftCounts)
	checkWidth := sumInts(checkCounts)
	rightWidth := sumInts(rightCounts)
	if !has26to18Ratio(leftWidth, checkWidth) || !has26to18Ratio(rightWidth, checkWidth) {
		return nil, false
	}

	checkPattern := bitutil.NormalizedPattern(checkCounts, limitedCheckModules)
	checkBits := limitedPatternToBits(checkPattern)
	checkSum := indexOfInt(limitedCheckChars, checkBits)
	if checkSum < 0 {
		return nil, false
	}

	left := readLimitedDataCharacter(leftCounts)
	if left == nil {
		return nil, false
	}
	right := readLimitedDataCharacter(rightCounts)
	if right == nil {
		return nil, false
	}

	if (left.checksum+20*right.checksum)%89 != checkSum {
		return nil, false
	}

	text := limitedConstructText(left.value, right.value)
	result := barscan.NewResult(
		text,
		nil,
		[]barscan.ResultPoint{
			{X: float64(start), Y: float64(rowNumber)},
			{X: float64(start + sumInts(counters)), Y: float64(rowNumber)},
		},
		barscan.FormatDataBarLimited,
	)
	result.PutMetadata(barscan.MetadataSymbologyIdentifier, "]e0")
	return result, true
}

type limitedCharacter struct {
	value    int
	checksum int
}

// readLimitedDataCharacter decodes one 14-element, 26-module character
// (used for both the left and right positions), mirroring
// ODDataBarLimitedReader.cpp's ReadDataCharacter.
func readLimitedDataCharacter(counts []int) *limitedCharacter {
	pattern := bitutil.NormalizedPattern(counts, limitedOuterModules)

	checkSum := 0
	for i := len(pattern) - 1; i >= 0; i-- {
		checkSum = 3*checkSum + pattern[i]
	}

	oddPattern := make([]int, 7)
	evnPattern := make([]int, 7)
	for i, v := range pattern {
		if i%2 == 0 {
			oddPattern[i/2] = v
		} else {
			evnPattern[i/2] = v
		}
	}

	group := indexOfInt(limitedOddSum, sumInts(oddPattern))
	if group < 0 {
		return nil
	}

	oddWidest := limitedOddWidest[group]
	evnWidest := 9 - oddWidest
	vOdd := getRSSvalue(oddPattern, oddWidest, false)
	vEvn := getRSSvalue(evnPattern, evnWidest, true)
	tEvn := limitedTEven[group]
	gSum := limitedGSum[group]

	return &limitedCharacter{value: vOdd*tEvn + vEvn + gSum, checksum: checkSum}
}

// limitedPatternToBits packs a normalized element-width pattern into its
// unary bar/space bit representation (bar=1, space=0), matching the literal
// encoding of limitedCheckChars: element 0 is a bar, elements alternate.
func limitedPatternToBits(pattern []int) int {
	bits := 0
	isBar := true
	for _, w := range pattern {
		bit := 0
		if isBar {
			bit = 1
		}
		for i := 0; i < w; i++ {
			bits = (bits << 1) | bit
		}
		isBar = !isBar
	}
	return bits
}

func indexOfInt(haystack []int, needle int) int {
	for i, v := range haystack {
		if v == needle {
			return i
		}
	}
	return -1
}

func has26to18Ratio(v26, v18 int) bool {
	f26 := float64(v26)
	f18 := float64(v18)
	return f26+1.5*f26/26 > f18/18.0*26.0 && f26-1.5*f26/26 < f18/18.0*26.0
}

// limitedConstructText builds the GTIN-13 text the two data characters
// encode, stripping the GS1 Composite linkage flag when present, per
// ODDataBarLimitedReader.cpp's ConstructText.
func limitedConstructText(leftValue, rightValue int) string {
	symVal := int64(2013571)*int64(leftValue) + int64(rightValue)
	const linkageFlag = int64(2015133531096)
	if symVal >= linkageFlag {
		symVal -= linkageFlag
	}
	digits := fmt.Sprintf("%013d", symVal)
	return "01" + digits + gtinCheckDigit(digits)
}

// gtinCheckDigit computes the mod-10 GTIN check digit for a digit string,
// weighting odd positions (from the right) by 3.
func gtinCheckDigit(digits string) string {
	sum := 0
	for i := 0; i < len(digits); i++ {
		digit := int(digits[len(digits)-1-i] - '0')
		if i%2 == 0 {
			sum += 3 * digit
		} else {
			sum += digit
		}
	}
	check := (10 - sum%10) % 10
	return string(rune('0' + check))
}

// Ensure DataBarLimitedReader implements RowDecoder at compile time.
var _ RowDecoder = (*DataBarLimitedReader)(nil)
