package oned

import "testing"

func TestGtinCheckDigit(t *testing.T) {
	tests := []struct {
		digits string
		want   string
	}{
		// 590123412345 -> GTIN-13 check digit 7 (5901234123457)
		{"590123412345", "7"},
		{"123456789012", "8"},
	}
	for _, tc := range tests {
		got := gtinCheckDigit(tc.digits)
		if got != tc.want {
			t.Errorf("gtinCheckDigit(%q) = %q, want %q", tc.digits, got, tc.want)
		}
	}
}

func TestLimitedConstructText(t *testing.T) {
	text := limitedConstructText(0, 0)
	if len(text) != 16 {
		t.Fatalf("expected a 16-character payload (\"01\" AI + 13 digits + 1 check digit), got %q (len %d)", text, len(text))
	}
	if text[:2] != "01" {
		t.Errorf("expected AI prefix \"01\", got %q", text[:2])
	}
}

func TestLimitedConstructTextStripsLinkageFlag(t *testing.T) {
	// left=1000777, right=0 gives symVal = linkageFlag + 2013571, one step
	// past the GS1 Composite linkage flag threshold; the flag should be
	// subtracted back out, leaving a small nonzero GTIN body.
	text := limitedConstructText(1000777, 0)
	const wantDigits = "0000002013571"
	if text[2:15] != wantDigits {
		t.Errorf("got digits %q, want %q (linkage flag not stripped correctly)", text[2:15], wantDigits)
	}
}

func TestIndexOfInt(t *testing.T) {
	haystack := []int{5, 10, 15}
	if indexOfInt(haystack, 10) != 1 {
		t.Errorf("expected index 1")
	}
	if indexOfInt(haystack, 99) != -1 {
		t.Errorf("expected -1 for missing value")
	}
}

func TestHas26to18Ratio(t *testing.T) {
	if !has26to18Ratio(26, 18) {
		t.Error("exact 26:18 ratio should pass")
	}
	if has26to18Ratio(26, 5) {
		t.Error("wildly mismatched ratio should fail")
	}
}
