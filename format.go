package barscan

import "strings"

// Format is a bit-flag set identifying one or more barcode symbologies.
// Unlike a sequential enum, Format values can be OR-ed together to build
// the possible-format sets ReaderOptions.Formats expects.
type Format uint32

const (
	FormatNone Format = 0

	FormatAztec            Format = 1 << iota
	FormatCodabar          Format = 1 << iota
	FormatCode39           Format = 1 << iota
	FormatCode93           Format = 1 << iota
	FormatCode128          Format = 1 << iota
	FormatDataBar          Format = 1 << iota
	FormatDataBarExpanded  Format = 1 << iota
	FormatDataBarLimited   Format = 1 << iota
	FormatDataMatrix       Format = 1 << iota
	FormatDXFilmEdge       Format = 1 << iota
	FormatEAN8             Format = 1 << iota
	FormatEAN13            Format = 1 << iota
	FormatITF              Format = 1 << iota
	FormatMaxiCode         Format = 1 << iota
	FormatMicroQRCode      Format = 1 << iota
	FormatPDF417           Format = 1 << iota
	FormatQRCode           Format = 1 << iota
	FormatRMQRCode         Format = 1 << iota
	FormatUPCA             Format = 1 << iota
	FormatUPCE             Format = 1 << iota
)

// LinearCodes is the union of every 1D (linear) symbology.
const LinearCodes = FormatCodabar | FormatCode39 | FormatCode93 | FormatCode128 |
	FormatDataBar | FormatDataBarExpanded | FormatDataBarLimited | FormatDXFilmEdge |
	FormatEAN8 | FormatEAN13 | FormatITF | FormatUPCA | FormatUPCE

// MatrixCodes is the union of every 2D (matrix) symbology.
const MatrixCodes = FormatAztec | FormatDataMatrix | FormatMaxiCode |
	FormatMicroQRCode | FormatPDF417 | FormatQRCode | FormatRMQRCode

// Any is the union of every supported symbology.
const Any = LinearCodes | MatrixCodes

var formatNames = []struct {
	f Format
	s string
}{
	{FormatAztec, "Aztec"},
	{FormatCodabar, "Codabar"},
	{FormatCode39, "Code39"},
	{FormatCode93, "Code93"},
	{FormatCode128, "Code128"},
	{FormatDataBar, "DataBar"},
	{FormatDataBarExpanded, "DataBarExpanded"},
	{FormatDataBarLimited, "DataBarLimited"},
	{FormatDataMatrix, "DataMatrix"},
	{FormatDXFilmEdge, "DXFilmEdge"},
	{FormatEAN8, "EAN-8"},
	{FormatEAN13, "EAN-13"},
	{FormatITF, "ITF"},
	{FormatMaxiCode, "MaxiCode"},
	{FormatMicroQRCode, "MicroQRCode"},
	{FormatPDF417, "PDF417"},
	{FormatQRCode, "QRCode"},
	{FormatRMQRCode, "RMQRCode"},
	{FormatUPCA, "UPC-A"},
	{FormatUPCE, "UPC-E"},
}

// String returns the canonical name of a single-bit Format. Composite or
// empty values return "None" or a '|'-joined list.
func (f Format) String() string {
	if f == FormatNone {
		return "None"
	}
	var parts []string
	for _, fn := range formatNames {
		if f&fn.f != 0 {
			parts = append(parts, fn.s)
		}
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, "|")
}

// normalizeFormatName folds a format name to a comparison key: lower-case
// with '-' and '_' removed, matching spec.md's round-trip rule
// (EAN-8 == ean8 == EAN_8).
func normalizeFormatName(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}

var formatByNormalizedName map[string]Format

func init() {
	formatByNormalizedName = make(map[string]Format, len(formatNames))
	for _, fn := range formatNames {
		formatByNormalizedName[normalizeFormatName(fn.s)] = fn.f
	}
	// Aliases observed in the wild / teacher code.
	formatByNormalizedName["rss14"] = FormatDataBar
	formatByNormalizedName["rssexpanded"] = FormatDataBarExpanded
	formatByNormalizedName["databarlimited"] = FormatDataBarLimited
	formatByNormalizedName["qr"] = FormatQRCode
	formatByNormalizedName["microqr"] = FormatMicroQRCode
	formatByNormalizedName["rmqr"] = FormatRMQRCode
	formatByNormalizedName["none"] = FormatNone
	formatByNormalizedName["any"] = Any
	formatByNormalizedName["linearcodes"] = LinearCodes
	formatByNormalizedName["matrixcodes"] = MatrixCodes
}

// FormatFromString parses a single format name case-insensitively, ignoring
// '-'/'_'/' ' separators, per spec.md §8.5.
func FormatFromString(s string) (Format, bool) {
	f, ok := formatByNormalizedName[normalizeFormatName(s)]
	return f, ok
}

// FormatsFromString parses a comma-or-space separated list of format names
// into their union, e.g. "EAN-8 qrcode, Itf" -> {EAN8, QRCode, ITF}.
func FormatsFromString(s string) Format {
	var result Format
	for _, field := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	}) {
		if f, ok := FormatFromString(field); ok {
			result |= f
		}
	}
	return result
}
