package oned

import (
	"testing"

	barscan "github.com/go-barscan/barscan"
	"github.com/go-barscan/barscan/bitutil"
)

func ean13Row(t *testing.T, contents string) *bitutil.BitArray {
	t.Helper()
	code, err := NewEAN13Writer().EncodeContents(contents)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	quiet := 10
	padded := make([]bool, len(code)+2*quiet)
	copy(padded[quiet:], code)
	row := bitutil.NewBitArray(len(padded))
	for i, b := range padded {
		if b {
			row.Set(i)
		}
	}
	return row
}

func TestDecodeUPCEANIgnoresAddOnByDefault(t *testing.T) {
	row := ean13Row(t, "5901234123457")
	reader := NewEAN13Reader()
	result, err := DecodeUPCEAN(0, row, reader, &barscan.DecodeOptions{})
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if _, ok := result.Metadata[barscan.MetadataEanAddOn]; ok {
		t.Error("expected no EAN add-on metadata with EanAddOnIgnore (default)")
	}
}

func TestDecodeUPCEANReadMissingAddOnStillSucceeds(t *testing.T) {
	row := ean13Row(t, "5901234123457")
	reader := NewEAN13Reader()
	opts := &barscan.DecodeOptions{EanAddOnSymbol: barscan.EanAddOnRead}
	result, err := DecodeUPCEAN(0, row, reader, opts)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if result.Text != "5901234123457" {
		t.Errorf("Text = %q, want %q", result.Text, "5901234123457")
	}
	if _, ok := result.Metadata[barscan.MetadataEanAddOn]; ok {
		t.Error("expected no EAN add-on metadata when none is present")
	}
}

func TestDecodeUPCEANRequireMissingAddOnFails(t *testing.T) {
	row := ean13Row(t, "5901234123457")
	reader := NewEAN13Reader()
	opts := &barscan.DecodeOptions{EanAddOnSymbol: barscan.EanAddOnRequire}
	_, err := DecodeUPCEAN(0, row, reader, opts)
	if err == nil {
		t.Fatal("expected decode to fail: EanAddOnRequire with no add-on present")
	}
}

func TestExt5Checksum(t *testing.T) {
	// (4+2)*3 = 18, +(5+3+1) = 27, *3 = 81, mod 10 = 1.
	if got := ext5Checksum("12345"); got != 1 {
		t.Errorf("ext5Checksum(%q) = %d, want %d", "12345", got, 1)
	}
}

func TestExt5DetermineCheckDigit(t *testing.T) {
	for d := 0; d < 10; d++ {
		got, err := ext5DetermineCheckDigit(checkDigitEncodings[d])
		if err != nil {
			t.Fatalf("ext5DetermineCheckDigit(%#x) error: %v", checkDigitEncodings[d], err)
		}
		if got != d {
			t.Errorf("ext5DetermineCheckDigit(%#x) = %d, want %d", checkDigitEncodings[d], got, d)
		}
	}
	if _, err := ext5DetermineCheckDigit(0xFF); err == nil {
		t.Error("expected error for unmatched lg pattern")
	}
}

func TestParseExtension5String(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"02500", "£25.00"},
		{"51299", "$12.99"},
		{"99990", "Used"},
		{"99991", "0.00"},
		{"90000", ""},
	}
	for _, tc := range tests {
		if got := parseExtension5String(tc.raw); got != tc.want {
			t.Errorf("parseExtension5String(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
