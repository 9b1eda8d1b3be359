package charset

import (
	"fmt"
	"strings"
)

// TextMode selects how Content.Text renders bytes, per spec.md §3.
type TextMode int

const (
	TextModePlain TextMode = iota
	TextModeECI
	TextModeHRI
	TextModeEscaped
	TextModeHex
	TextModeHexECI
)

// ContentType classifies the decoded payload, per spec.md §3.
type ContentType int

const (
	ContentText ContentType = iota
	ContentBinary
	ContentMixed
	ContentGS1
	ContentISO15434
	ContentUnknownECI
)

func (c ContentType) String() string {
	switch c {
	case ContentText:
		return "Text"
	case ContentBinary:
		return "Binary"
	case ContentMixed:
		return "Mixed"
	case ContentGS1:
		return "GS1"
	case ContentISO15434:
		return "ISO15434"
	case ContentUnknownECI:
		return "UnknownECI"
	default:
		return "Unknown"
	}
}

// Segment marks the byte offset at which a particular ECI becomes active.
// A Binary segment uses ECI = BinaryECI.
type Segment struct {
	Offset int
	ECI    int
}

// BinaryECI is the special ECI marker meaning "raw binary, no text
// interpretation", per spec.md §3.
const BinaryECI = -1

// SymbologyIdentifier is the parsed AIM "]cm" triple (ISO/IEC 15424): a
// one-character symbology code, a one-character modifier, and whether an
// ECI escape is present in the data that follows.
type SymbologyIdentifier struct {
	Code     byte
	Modifier byte
	ECIFlag  bool
}

// String renders the identifier as the three-character "]cm" prefix.
func (s SymbologyIdentifier) String() string {
	if s.Code == 0 {
		return ""
	}
	mod := s.Modifier
	if s.ECIFlag && mod >= '0' && mod <= '3' {
		mod += 4 // AIM convention: ECI-flagged modifiers offset by 4
	}
	return fmt.Sprintf("]%c%c", s.Code, mod)
}

// Content is the decoded payload: raw bytes, the ECI segmentation that
// applies to them, and an optional symbology identifier, per spec.md §3.
type Content struct {
	raw        []byte
	segments   []Segment
	Symbology  SymbologyIdentifier
	isGS1      bool
	defaultECI int // applied when no segment covers offset 0; BinaryECI if none
}

// NewContent creates a Content from raw bytes with no ECI segmentation
// (defaultECI applies throughout, or BinaryECI for raw binary content).
func NewContent(raw []byte, defaultECI int) *Content {
	return &Content{raw: raw, defaultECI: defaultECI}
}

// AddSegment appends an ECI segment boundary. Segments must be added in
// increasing Offset order.
func (c *Content) AddSegment(offset, eci int) {
	c.segments = append(c.segments, Segment{Offset: offset, ECI: eci})
}

// MarkGS1 records that this content follows GS1 Application Identifier
// formatting (spec.md §6).
func (c *Content) MarkGS1() { c.isGS1 = true }

// Bytes returns the raw payload bytes, with no ECI escaping.
func (c *Content) Bytes() []byte { return c.raw }

// WithBytes returns a copy of c with its raw payload replaced, preserving
// ECI segmentation, symbology identifier and GS1 flag. Used when merging
// Structured Append fragments into one reassembled payload.
func (c *Content) WithBytes(raw []byte) *Content {
	cp := *c
	cp.raw = raw
	return &cp
}

// eciAt returns the active ECI value at the given byte offset.
func (c *Content) eciAt(offset int) int {
	active := c.defaultECI
	for _, seg := range c.segments {
		if seg.Offset <= offset {
			active = seg.ECI
		} else {
			break
		}
	}
	return active
}

// HasECI reports whether any non-default ECI segment was recorded.
func (c *Content) HasECI() bool { return len(c.segments) > 0 }

// BytesECI returns the raw bytes with "\ECI" backslash-protocol escapes
// inserted at each segment boundary, per spec.md §3.
func (c *Content) BytesECI() []byte {
	if len(c.segments) == 0 {
		return c.raw
	}
	var out []byte
	last := 0
	for _, seg := range c.segments {
		out = append(out, c.raw[last:seg.Offset]...)
		out = append(out, []byte(fmt.Sprintf("\\%06d", seg.ECI))...)
		last = seg.Offset
	}
	out = append(out, c.raw[last:]...)
	return out
}

// Text transcodes the payload to a UTF-8 string per the given TextMode.
func (c *Content) Text(mode TextMode) string {
	switch mode {
	case TextModeHex:
		return hexDump(c.raw)
	case TextModeHexECI:
		return hexDump(c.BytesECI())
	case TextModeEscaped:
		return escapeNonPrintable(c.transcodeAll())
	case TextModeHRI:
		if c.isGS1 {
			return renderHRI(c.raw)
		}
		return c.transcodeAll()
	case TextModeECI:
		if c.HasECI() {
			return fmt.Sprintf("\\%06d%s", c.eciAt(0), c.transcodeAll())
		}
		return c.transcodeAll()
	default: // TextModePlain
		return c.transcodeAll()
	}
}

func (c *Content) transcodeAll() string {
	if len(c.segments) == 0 {
		return c.decodeSegment(c.raw, c.defaultECI)
	}
	var sb strings.Builder
	last := 0
	eci := c.defaultECI
	for _, seg := range c.segments {
		if seg.Offset > last {
			sb.WriteString(c.decodeSegment(c.raw[last:seg.Offset], eci))
		}
		last = seg.Offset
		eci = seg.ECI
	}
	sb.WriteString(c.decodeSegment(c.raw[last:], eci))
	return sb.String()
}

func (c *Content) decodeSegment(b []byte, eci int) string {
	if eci == BinaryECI {
		return escapeNonPrintable(string(b))
	}
	e, err := GetECIByValue(eci)
	if err != nil || e == nil {
		return GuessAndDecode(b)
	}
	return DecodeBytes(b, e.GoName)
}

// ContentTypeOf classifies the content per spec.md §3's four-way split.
func (c *Content) ContentTypeOf() ContentType {
	if c.isGS1 {
		return ContentGS1
	}
	if c.defaultECI == BinaryECI && len(c.segments) == 0 {
		return ContentBinary
	}
	sawText, sawBinary := false, false
	eci := c.defaultECI
	if eci == BinaryECI {
		sawBinary = true
	} else {
		sawText = true
	}
	for _, seg := range c.segments {
		if seg.ECI == BinaryECI {
			sawBinary = true
		} else {
			sawText = true
		}
	}
	switch {
	case sawText && sawBinary:
		return ContentMixed
	case sawBinary:
		return ContentBinary
	default:
		return ContentText
	}
}

func hexDump(b []byte) string {
	var sb strings.Builder
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", c)
	}
	return sb.String()
}

func escapeNonPrintable(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			fmt.Fprintf(&sb, "\\x%02X", r)
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// GuessAndDecode guesses an encoding for bytes with no ECI information and
// transcodes to UTF-8, per spec.md §4.3 ("ZXing uses UTF-8 heuristic
// detection when no ECI given").
func GuessAndDecode(b []byte) string {
	return DecodeBytes(b, GuessEncoding(b, ""))
}
