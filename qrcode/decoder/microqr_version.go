package decoder

// MicroVersion represents a Micro QR Code symbol version (M1-M4), per
// ISO/IEC 18004's Micro QR annex. Unlike Version, a MicroVersion has no
// alignment patterns, a single finder pattern, and a mode-indicator width
// that grows with the version number instead of staying fixed at 4 bits.
type MicroVersion struct {
	Number            int // 1-4 (M1..M4)
	ModeIndicatorBits int // 0 for M1 (implicit Numeric), else 1/2/3
	ECBlocksArray     map[ErrorCorrectionLevel]ECBlocks
}

// Dimension returns the module dimension: M1=11, M2=13, M3=15, M4=17.
func (v *MicroVersion) Dimension() int { return 9 + 2*v.Number }

// ECBlocksForLevel returns the ECBlocks for the given level, or nil if this
// version doesn't support that level (M1 supports none; M2/M3 support L/M;
// M4 additionally supports Q).
func (v *MicroVersion) ECBlocksForLevel(ecLevel ErrorCorrectionLevel) *ECBlocks {
	if b, ok := v.ECBlocksArray[ecLevel]; ok {
		return &b
	}
	return nil
}

// microVersions holds M1-M4. Codeword/EC-split counts follow ISO/IEC
// 18004 Table 7; M1 carries no Reed-Solomon error correction at all (a
// 2-bit BCH check value instead) and is handled separately in the format
// info / bitstream layer rather than through ECBlocksArray.
var microVersions = [4]MicroVersion{
	{Number: 1, ModeIndicatorBits: 0, ECBlocksArray: map[ErrorCorrectionLevel]ECBlocks{}},
	{Number: 2, ModeIndicatorBits: 1, ECBlocksArray: map[ErrorCorrectionLevel]ECBlocks{
		ECLevelL: eb(5, b(1, 5)),
		ECLevelM: eb(6, b(1, 4)),
	}},
	{Number: 3, ModeIndicatorBits: 2, ECBlocksArray: map[ErrorCorrectionLevel]ECBlocks{
		ECLevelL: eb(6, b(1, 11)),
		ECLevelM: eb(8, b(1, 9)),
	}},
	{Number: 4, ModeIndicatorBits: 3, ECBlocksArray: map[ErrorCorrectionLevel]ECBlocks{
		ECLevelL: eb(8, b(1, 16)),
		ECLevelM: eb(10, b(1, 14)),
		ECLevelQ: eb(14, b(1, 10)),
	}},
}

// GetMicroVersionForNumber returns the MicroVersion for number 1-4.
func GetMicroVersionForNumber(number int) (*MicroVersion, error) {
	if number < 1 || number > 4 {
		return nil, errInvalidVersion
	}
	return &microVersions[number-1], nil
}

// GetMicroVersionForDimension returns the MicroVersion matching a module
// dimension (11, 13, 15, or 17).
func GetMicroVersionForDimension(dimension int) (*MicroVersion, error) {
	if dimension < 11 || dimension > 17 || dimension%2 != 1 {
		return nil, errInvalidVersion
	}
	return GetMicroVersionForNumber((dimension - 9) / 2)
}
