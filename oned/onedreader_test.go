package oned

import (
	"testing"

	barscan "github.com/go-barscan/barscan"
	"github.com/go-barscan/barscan/bitutil"
)

// fakeBinarizer serves a fixed, per-row bit pattern directly, bypassing
// luminance/threshold entirely so DecodeOneD's row-scanning behavior can be
// tested without a real image.
type fakeBinarizer struct {
	width, height int
	rows          map[int][]bool
}

func (f *fakeBinarizer) Width() int  { return f.width }
func (f *fakeBinarizer) Height() int { return f.height }
func (f *fakeBinarizer) LuminanceSource() barscan.LuminanceSource { return nil }

func (f *fakeBinarizer) BlackRow(y int, row *bitutil.BitArray) (*bitutil.BitArray, error) {
	if y < 0 || y >= f.height {
		return nil, barscan.ErrNotFound
	}
	if row == nil || row.Size() < f.width {
		row = bitutil.NewBitArray(f.width)
	} else {
		row.Clear()
	}
	for x, v := range f.rows[y] {
		if v {
			row.Set(x)
		}
	}
	return row, nil
}

func (f *fakeBinarizer) BlackMatrix() (*bitutil.BitMatrix, error) {
	return nil, barscan.ErrNotFound
}

func ean13Pattern(t *testing.T, contents string) []bool {
	t.Helper()
	code, err := NewEAN13Writer().EncodeContents(contents)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	quiet := 10
	padded := make([]bool, len(code)+2*quiet)
	copy(padded[quiet:], code)
	return padded
}

func TestDecodeOneDRequiresCorroboration(t *testing.T) {
	pattern := ean13Pattern(t, "5901234123457")
	height := 64
	rows := map[int][]bool{height / 2: pattern}
	bin := &fakeBinarizer{width: len(pattern), height: height, rows: rows}
	bitmap := barscan.NewBinaryBitmap(bin)

	_, err := DecodeOneD(bitmap, NewEAN13Reader(), &barscan.DecodeOptions{})
	if err == nil {
		t.Fatal("expected ErrNotFound: a single corroborating row should not be enough with the default MinLineCount")
	}
}

func TestDecodeOneDCorroboratesAcrossRows(t *testing.T) {
	pattern := ean13Pattern(t, "5901234123457")
	height := 64
	rows := make(map[int][]bool, height)
	for y := 0; y < height; y++ {
		rows[y] = pattern
	}
	bin := &fakeBinarizer{width: len(pattern), height: height, rows: rows}
	bitmap := barscan.NewBinaryBitmap(bin)

	result, err := DecodeOneD(bitmap, NewEAN13Reader(), &barscan.DecodeOptions{})
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if result.Text != "5901234123457" {
		t.Errorf("Text = %q, want %q", result.Text, "5901234123457")
	}
	lc, ok := result.Metadata[barscan.MetadataLineCount]
	if !ok {
		t.Fatal("expected MetadataLineCount to be set")
	}
	if n, ok := lc.(int); !ok || n < 2 {
		t.Errorf("MetadataLineCount = %v, want >= 2", lc)
	}
}

func TestDecodeOneDMinLineCountOne(t *testing.T) {
	pattern := ean13Pattern(t, "5901234123457")
	height := 64
	rows := map[int][]bool{height / 2: pattern}
	bin := &fakeBinarizer{width: len(pattern), height: height, rows: rows}
	bitmap := barscan.NewBinaryBitmap(bin)

	result, err := DecodeOneD(bitmap, NewEAN13Reader(), &barscan.DecodeOptions{MinLineCount: 1})
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if result.Text != "5901234123457" {
		t.Errorf("Text = %q, want %q", result.Text, "5901234123457")
	}
}
