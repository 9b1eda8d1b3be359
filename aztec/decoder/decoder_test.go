package decoder

import (
	"strings"
	"testing"
)

func bitsFromString(s string) []bool {
	bits := make([]bool, 0, len(s))
	for _, c := range s {
		bits = append(bits, c == '1')
	}
	return bits
}

func TestHandleFLGECIDesignator(t *testing.T) {
	// FLG(2): n="010" (2), then two 4-bit digit codes for "26"
	// (digit 2 -> code 4 -> "0100", digit 6 -> code 8 -> "1000").
	bits := bitsFromString("010" + "0100" + "1000")

	var result strings.Builder
	st := newECIState()

	_, mode := handleFLG(&result, st, bits, 0, len(bits), modeUpper)
	if mode != modeUpper {
		t.Errorf("mode = %d, want modeUpper", mode)
	}
	if st.active != 26 {
		t.Errorf("st.active = %d, want 26", st.active)
	}
}

func TestHandleFLGFNC1(t *testing.T) {
	// FLG(0): n="000"
	bits := bitsFromString("000")

	var result strings.Builder
	st := newECIState()

	handleFLG(&result, st, bits, 0, len(bits), modeUpper)
	if result.String() != "\x1D" {
		t.Errorf("result = %q, want GS", result.String())
	}
}

func TestBinaryShiftUnderECI(t *testing.T) {
	// handleBinaryShift with length=2 ("00010"... actually use small helper):
	// length field is 5 bits; 2 encoded directly as "00010", then two 8-bit
	// bytes 0x41 ('A') and 0x42 ('B').
	bits := bitsFromString("00010" + "01000001" + "01000010")

	var result strings.Builder
	st := newECIState()
	st.active = 26 // a prior FLG(n) already declared ECI 26

	_, mode := handleBinaryShift(&result, st, bits, 0, len(bits), modeUpper)
	if mode != modeUpper {
		t.Errorf("mode = %d, want modeUpper", mode)
	}
	if string(st.rawBytes) != "AB" {
		t.Errorf("rawBytes = %q, want %q", st.rawBytes, "AB")
	}
	if len(st.eciSegments) != 1 || st.eciSegments[0].Offset != 0 || st.eciSegments[0].Value != 26 {
		t.Errorf("eciSegments = %v, want [{Offset:0 Value:26}]", st.eciSegments)
	}
}

func TestECIStateWriteOnlyOpensSegmentOnce(t *testing.T) {
	st := newECIState()
	st.active = 26
	st.write([]byte("A"))
	st.write([]byte("B"))
	if len(st.eciSegments) != 1 {
		t.Fatalf("eciSegments = %v, want exactly 1 entry", st.eciSegments)
	}
	if string(st.rawBytes) != "AB" {
		t.Errorf("rawBytes = %q, want %q", st.rawBytes, "AB")
	}
}
