package barscan

import "errors"

var (
	// ErrNotFound is returned when a barcode is not found in the image.
	ErrNotFound = errors.New("barcode not found")

	// ErrChecksum is returned when a barcode's checksum does not match.
	ErrChecksum = errors.New("checksum error")

	// ErrFormat is returned when a barcode cannot be decoded due to format issues.
	ErrFormat = errors.New("format error")

	// ErrWriter is returned when a barcode cannot be encoded.
	ErrWriter = errors.New("writer error")

	// ErrUnsupported is returned when a recognized feature is not implemented.
	ErrUnsupported = errors.New("unsupported feature")
)

// ErrorKind classifies why a Barcode failed to decode, per spec.md §7's
// closed set of error kinds.
type ErrorKind int

const (
	ErrorNone ErrorKind = iota
	ErrorFormat
	ErrorChecksum
	ErrorUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorFormat:
		return "Format"
	case ErrorChecksum:
		return "Checksum"
	case ErrorUnsupported:
		return "Unsupported"
	default:
		return "None"
	}
}

// classifyError maps an internal error (ErrNotFound/ErrChecksum/ErrFormat/...)
// to the closed ErrorKind set callers see on a Barcode. Out-of-bounds pixel
// access, overflow and inconsistent finders are expected to already have been
// converted to ErrFormat by the producing detector/decoder (spec.md §7
// "never-fatal invariants") rather than panicking.
func classifyError(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorNone
	case errors.Is(err, ErrChecksum):
		return ErrorChecksum
	case errors.Is(err, ErrUnsupported):
		return ErrorUnsupported
	case errors.Is(err, ErrNotFound):
		return ErrorFormat
	default:
		return ErrorFormat
	}
}
