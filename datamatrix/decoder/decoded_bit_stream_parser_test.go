package decoder

import "testing"

func TestDecodeASCIIPlain(t *testing.T) {
	// 'H' -> 72+1=73, 'i' -> 105+1=106
	dr, err := DecodeBitStream([]byte{73, 106})
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if dr.Text != "Hi" {
		t.Errorf("Text = %q, want %q", dr.Text, "Hi")
	}
	if string(dr.RawBytes) != "Hi" {
		t.Errorf("RawBytes = %q, want %q", dr.RawBytes, "Hi")
	}
	if len(dr.ECISegments) != 0 {
		t.Errorf("ECISegments = %v, want none", dr.ECISegments)
	}
}

func TestDecodeASCIIECIDesignator(t *testing.T) {
	// ECI codeword 241, then c1=27 (single-codeword form: value = c1-1 = 26,
	// UTF-8), then "Hi" as ASCII data codewords.
	dr, err := DecodeBitStream([]byte{241, 27, 73, 106})
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if dr.Text != "Hi" {
		t.Errorf("Text = %q, want %q", dr.Text, "Hi")
	}
	if string(dr.RawBytes) != "Hi" {
		t.Errorf("RawBytes = %q, want %q", dr.RawBytes, "Hi")
	}
	if len(dr.ECISegments) != 1 {
		t.Fatalf("ECISegments = %v, want 1 entry", dr.ECISegments)
	}
	if dr.ECISegments[0].Offset != 0 || dr.ECISegments[0].Value != 26 {
		t.Errorf("ECISegments[0] = %+v, want {Offset:0 Value:26}", dr.ECISegments[0])
	}
}

func TestDecodeASCIIECIDesignatorMidStream(t *testing.T) {
	// "A" in ASCII (65+1=66), then an ECI designator switching to ECI 26,
	// then "B" (66+1=67). The segment boundary must land at offset 1 (after
	// the literal "A" byte already emitted).
	dr, err := DecodeBitStream([]byte{66, 241, 27, 67})
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if dr.Text != "AB" {
		t.Errorf("Text = %q, want %q", dr.Text, "AB")
	}
	if len(dr.ECISegments) != 1 {
		t.Fatalf("ECISegments = %v, want 1 entry", dr.ECISegments)
	}
	if dr.ECISegments[0].Offset != 1 || dr.ECISegments[0].Value != 26 {
		t.Errorf("ECISegments[0] = %+v, want {Offset:1 Value:26}", dr.ECISegments[0])
	}
}

func TestDecodeASCIIStructuredAppend(t *testing.T) {
	// Structured Append codeword 233, sequence byte, then 2-byte file ID.
	seq := byte(1<<4 | 2) // position 2 of 3
	dr, err := DecodeBitStream([]byte{233, seq, 0x12, 0x34, 73})
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !dr.HasStructuredAppend {
		t.Fatal("expected HasStructuredAppend")
	}
	if dr.SAPosition != 2 || dr.SATotal != 3 {
		t.Errorf("SAPosition/SATotal = %d/%d, want 2/3", dr.SAPosition, dr.SATotal)
	}
	if dr.SAFileID != 0x1234 {
		t.Errorf("SAFileID = %#x, want 0x1234", dr.SAFileID)
	}
}
