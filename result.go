package barscan

import "github.com/go-barscan/barscan/charset"

// Point is an integer image-space coordinate.
type Point struct{ X, Y int }

// Position is the quadrilateral of 4 integer points (top-left, top-right,
// bottom-right, bottom-left) bounding a located symbol, per spec.md §3.
type Position [4]Point

// TopLeft returns the position's nominal top-left corner, used for sort
// ordering in ReadBarcodes (spec.md §4.5 step 7: "sorted by
// position.topLeft(), y then x").
func (p Position) TopLeft() Point { return p[0] }

// positionFromResultPoints derives a best-effort quadrilateral from the
// variable-length ResultPoint list a decoder/detector produces: 2D
// detectors hand back 3-4 finder centers, 1D readers hand back the two
// guard-pattern endpoints.
func positionFromResultPoints(points []ResultPoint) Position {
	toPoint := func(rp ResultPoint) Point { return Point{X: int(rp.X + 0.5), Y: int(rp.Y + 0.5)} }
	switch len(points) {
	case 0:
		return Position{}
	case 1:
		p := toPoint(points[0])
		return Position{p, p, p, p}
	case 2:
		// 1D symbol: two guard-pattern endpoints at the same row. Approximate
		// a thin quadrilateral one pixel tall.
		a, b := toPoint(points[0]), toPoint(points[1])
		return Position{a, b, Point{b.X, b.Y + 1}, Point{a.X, a.Y + 1}}
	case 3:
		// QR detectors list bottom-left, top-left, top-right, so points[1] is
		// the right-angle vertex (top-left); synthesize the 4th corner.
		a, b, c := toPoint(points[1]), toPoint(points[2]), toPoint(points[0])
		d := Point{X: b.X + c.X - a.X, Y: b.Y + c.Y - a.Y}
		return Position{a, b, d, c}
	default:
		return Position{toPoint(points[0]), toPoint(points[1]), toPoint(points[2]), toPoint(points[3])}
	}
}

// BarcodeError carries the kind and message of a failed decode, per
// spec.md §7.
type BarcodeError struct {
	Kind    ErrorKind
	Message string
}

func (e BarcodeError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.String()
}

// Sequence holds Structured Append metadata, per spec.md §3/§6.
type Sequence struct {
	Index, Count int
	ID           string // symbology-specific, preserved byte-for-byte across merges
}

// Barcode is the result presented to ReadBarcode/ReadBarcodes callers, per
// spec.md §3. It is immutable after construction except via Merge, which
// produces a new Barcode rather than mutating in place.
type Barcode struct {
	Format       Format
	content      *charset.Content
	Err          BarcodeError
	Position     Position
	Orientation  int // 0, 90, 180, or 270
	IsMirrored   bool
	IsInverted   bool
	Sequence     Sequence
	LineCount    int
	ECLevel      string
	extra        extraFields
}

// extraFields models spec.md §9's "optional result channels" as a compact
// struct of optional fields rather than a string-keyed map.
type extraFields struct {
	dataMask   *int
	version    string
	eanAddOn   string
	upce       string
	readerInit bool
}

// IsValid reports whether this Barcode decoded successfully.
func (b *Barcode) IsValid() bool { return b.Err.Kind == ErrorNone }

// Bytes returns the raw decoded payload bytes.
func (b *Barcode) Bytes() []byte {
	if b.content == nil {
		return nil
	}
	return b.content.Bytes()
}

// BytesECI returns the payload with "\ECI" backslash-protocol escapes.
func (b *Barcode) BytesECI() []byte {
	if b.content == nil {
		return nil
	}
	return b.content.BytesECI()
}

// Text transcodes the payload to UTF-8 per the given TextMode.
func (b *Barcode) Text(mode charset.TextMode) string {
	if b.content == nil {
		return ""
	}
	return b.content.Text(mode)
}

// ContentType classifies the payload (Text/Binary/Mixed/GS1/ISO15434/UnknownECI).
func (b *Barcode) ContentType() charset.ContentType {
	if b.content == nil {
		return charset.ContentBinary
	}
	return b.content.ContentTypeOf()
}

// HasECI reports whether the payload carries an explicit ECI segment.
func (b *Barcode) HasECI() bool { return b.content != nil && b.content.HasECI() }

// SymbologyIdentifier returns the AIM "]cm" identifier for this result.
func (b *Barcode) SymbologyIdentifier() charset.SymbologyIdentifier {
	if b.content == nil {
		return charset.SymbologyIdentifier{}
	}
	return b.content.Symbology
}

// ReaderInit reports the Reader Initialisation flag some 2D symbologies carry.
func (b *Barcode) ReaderInit() bool { return b.extra.readerInit }

// ExtraVersion returns the decoded version string (e.g. QR version "1"),
// empty if not applicable.
func (b *Barcode) ExtraVersion() string { return b.extra.version }

// ExtraDataMask returns the QR/Micro-QR data mask pattern ID, if applicable.
func (b *Barcode) ExtraDataMask() (int, bool) {
	if b.extra.dataMask == nil {
		return 0, false
	}
	return *b.extra.dataMask, true
}

// ExtraEanAddOn returns the decoded EAN-2/EAN-5 add-on payload, if present.
func (b *Barcode) ExtraEanAddOn() string { return b.extra.eanAddOn }

// newBarcode builds a Barcode from an internal Result plus an error.
func newBarcode(format Format, result *Result, err error) *Barcode {
	b := &Barcode{Format: format}
	if err != nil {
		kind := classifyError(err)
		b.Err = BarcodeError{Kind: kind, Message: err.Error()}
		return b
	}
	if result == nil {
		b.Err = BarcodeError{Kind: ErrorFormat, Message: "no result"}
		return b
	}
	content := charset.NewContent(result.RawBytes, charset.BinaryECI)
	if v, ok := result.Metadata[MetadataSymbologyIdentifier]; ok {
		if s, ok := v.(string); ok && len(s) >= 2 {
			content.Symbology = charset.SymbologyIdentifier{Code: s[1], Modifier: s[2]}
		}
	}
	if isGS1Symbology(content.Symbology) {
		content.MarkGS1()
	}
	if v, ok := result.Metadata[MetadataECISegments]; ok {
		if segs, ok := v.([]ECISegment); ok {
			for _, seg := range segs {
				content.AddSegment(seg.Offset, seg.Value)
			}
		}
	}
	b.content = content
	b.Position = positionFromResultPoints(result.Points)
	if v, ok := result.Metadata[MetadataOrientation]; ok {
		if o, ok := v.(int); ok {
			b.Orientation = ((o % 360) + 360) % 360
		}
	}
	if v, ok := result.Metadata[MetadataErrorCorrectionLevel]; ok {
		if s, ok := v.(string); ok {
			b.ECLevel = s
		}
	}
	if v, ok := result.Metadata[MetadataStructuredAppendSequence]; ok {
		if n, ok := v.(int); ok {
			b.Sequence.Index = n & 0xF
			b.Sequence.Count = (n >> 4) + 1
		}
	}
	if v, ok := result.Metadata[MetadataStructuredAppendParity]; ok {
		if n, ok := v.(int); ok {
			b.Sequence.ID = paritySequenceID(n)
		}
	}
	// Format-neutral Structured Append fields (PDF417/Data Matrix macro
	// segments) override QR's packed scheme when present.
	if v, ok := result.Metadata[MetadataStructuredAppendIndex]; ok {
		if n, ok := v.(int); ok {
			b.Sequence.Index = n
		}
	}
	if v, ok := result.Metadata[MetadataStructuredAppendCount]; ok {
		if n, ok := v.(int); ok {
			b.Sequence.Count = n
		}
	}
	if v, ok := result.Metadata[MetadataStructuredAppendID]; ok {
		if s, ok := v.(string); ok {
			b.Sequence.ID = s
		}
	}
	if v, ok := result.Metadata[MetadataLineCount]; ok {
		if n, ok := v.(int); ok {
			b.LineCount = n
		}
	}
	if v, ok := result.Metadata[MetadataEanAddOn]; ok {
		if s, ok := v.(string); ok {
			b.extra.eanAddOn = s
		}
	}
	return b
}

// isGS1Symbology reports whether the given AIM symbology identifier
// denotes inherently GS1-formatted payload data, per spec.md §6's
// symbology identifier table: the "e" family (DataBar/DataBar Expanded/
// DataBar Limited) is always GS1, and Code 128 modifiers 1/2 mark
// GS1-128 (FNC1 in the first or second symbol position).
func isGS1Symbology(id charset.SymbologyIdentifier) bool {
	switch id.Code {
	case 'e':
		return true
	case 'C':
		return id.Modifier == '1' || id.Modifier == '2'
	default:
		return false
	}
}

func paritySequenceID(parity int) string {
	n := parity % 256
	d2 := n % 10
	d1 := (n / 10) % 10
	d0 := (n / 100) % 10
	return string([]byte{byte('0' + d0), byte('0' + d1), byte('0' + d2)})
}
