package barscan

// BinarizerKind selects which Binarizer implementation ReadBarcode/ReadBarcodes
// constructs over the supplied ImageView, per spec.md §3.
type BinarizerKind int

const (
	// BinarizerLocalAverage is the local-adaptive (Hybrid) binarizer, the
	// default: best for uneven lighting and gradients.
	BinarizerLocalAverage BinarizerKind = iota
	// BinarizerGlobalHistogram is the cheaper Otsu-style valley binarizer.
	BinarizerGlobalHistogram
	// BinarizerFixedThreshold binarizes against a single literal threshold.
	BinarizerFixedThreshold
	// BinarizerBoolCast treats any nonzero luminance as white.
	BinarizerBoolCast
)

// EanAddOnSymbol controls whether EAN/UPC 2- and 5-digit add-on symbols are
// read alongside the main symbol, per spec.md §3.
type EanAddOnSymbol int

const (
	EanAddOnIgnore EanAddOnSymbol = iota
	EanAddOnRead
	EanAddOnRequire
)

// ReaderOptions configures a call to ReadBarcode/ReadBarcodes, per spec.md §3.
type ReaderOptions struct {
	// Formats restricts which symbologies are attempted; FormatNone (the
	// zero value) means "try every supported format" (Any).
	Formats Format

	// TryHarder enables expensive fallbacks: more row samples, all of
	// TryRotate/TryInvert's attempts regardless of their own flags being
	// individually set to false is NOT implied — those remain separate
	// per spec.md's table, but TryHarder raises the 1D row-sampling budget
	// from the fast default to exhaustive.
	TryHarder bool

	// TryRotate retries detection with +-90 and 180 degree rotations.
	TryRotate bool

	// TryInvert retries every requested format on the binarized image with
	// black and white swapped.
	TryInvert bool

	// TryDownscale additionally scans at 1/2, 1/3, 1/4 scale when
	// min(width,height) >= DownscaleThreshold.
	TryDownscale      bool
	DownscaleThreshold int // default 500 if zero

	// IsPure assumes a single aligned symbol filling the frame; activates
	// the fast path and a fixed threshold.
	IsPure bool

	// Binarizer selects the binarization strategy.
	Binarizer BinarizerKind
	// FixedThresholdValue is used when Binarizer == BinarizerFixedThreshold.
	FixedThresholdValue byte

	// MinLineCount is the minimum corroborating row scans required before a
	// 1D result is emitted (default 2 if zero).
	MinLineCount int

	// MaxNumberOfSymbols caps the number of barcodes ReadBarcodes returns
	// (default unlimited if zero).
	MaxNumberOfSymbols int

	// EanAddOnSymbol controls EAN/UPC 2-/5-digit add-on handling.
	EanAddOnSymbol EanAddOnSymbol

	// TextMode controls how Barcode.Text is rendered.
	TextMode int // charset.TextMode, kept as int to avoid an import cycle

	// CharacterSet is the fallback charset used when no ECI is present.
	CharacterSet string

	// ReturnErrors, if true, includes failed-decode results (with their
	// Error populated) instead of silently dropping them.
	ReturnErrors bool
}

func (o *ReaderOptions) formats() Format {
	if o == nil || o.Formats == FormatNone {
		return Any
	}
	return o.Formats
}

func (o *ReaderOptions) tryHarder() bool   { return o != nil && o.TryHarder }
func (o *ReaderOptions) tryRotate() bool   { return o != nil && o.TryRotate }
func (o *ReaderOptions) tryInvert() bool   { return o != nil && o.TryInvert }
func (o *ReaderOptions) tryDownscale() bool {
	return o != nil && o.TryDownscale
}

func (o *ReaderOptions) downscaleThreshold() int {
	if o == nil || o.DownscaleThreshold <= 0 {
		return 500
	}
	return o.DownscaleThreshold
}

func (o *ReaderOptions) minLineCount() int {
	if o == nil || o.MinLineCount <= 0 {
		return 2
	}
	return o.MinLineCount
}

func (o *ReaderOptions) maxSymbols() int {
	if o == nil || o.MaxNumberOfSymbols <= 0 {
		return 1 << 30
	}
	return o.MaxNumberOfSymbols
}

func (o *ReaderOptions) returnErrors() bool { return o != nil && o.ReturnErrors }

func (o *ReaderOptions) eanAddOnSymbol() EanAddOnSymbol {
	if o == nil {
		return EanAddOnIgnore
	}
	return o.EanAddOnSymbol
}

func (o *ReaderOptions) isPure() bool { return o != nil && o.IsPure }
