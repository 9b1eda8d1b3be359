package barscan

import "sort"

// ReadBarcode locates and decodes a single barcode in view, per spec.md
// §4.5. It is a thin convenience over ReadBarcodes that returns the first
// result (by position) or a not-found Barcode if none decoded.
func ReadBarcode(view *ImageView, opts *ReaderOptions) *Barcode {
	var localOpts ReaderOptions
	if opts != nil {
		localOpts = *opts
	}
	localOpts.MaxNumberOfSymbols = 1
	results := ReadBarcodes(view, &localOpts)
	if len(results) > 0 {
		return results[0]
	}
	return &Barcode{Err: BarcodeError{Kind: ErrorFormat, Message: ErrNotFound.Error()}}
}

// ReadBarcodes locates and decodes every barcode it can find in view, per
// spec.md §4.5's full pipeline: binarizer selection, isPure fast path,
// rotate/invert/downscale retries, sorted by position and truncated to
// MaxNumberOfSymbols.
func ReadBarcodes(view *ImageView, opts *ReaderOptions) []*Barcode {
	decodeOpts := toDecodeOptions(opts)

	var found []*Barcode
	seen := map[string]bool{}
	addAll := func(rotation int, inverted bool, results []*Barcode) {
		for _, b := range results {
			if b.Err.Kind != ErrorNone && !opts.returnErrors() {
				continue
			}
			key := string(b.Bytes()) + "|" + b.Format.String()
			if seen[key] {
				continue
			}
			seen[key] = true
			b.Orientation = rotation
			b.IsInverted = inverted
			found = append(found, b)
		}
	}

	attempt := func(v *ImageView, rotation int) {
		addAll(rotation, false, scanOneOrientation(v, opts, decodeOpts, false))
		if opts.tryInvert() {
			addAll(rotation, true, scanOneOrientation(v, opts, decodeOpts, true))
		}
	}

	attempt(view, 0)
	if len(found) < opts.maxSymbols() && opts.tryRotate() {
		attempt(view.Rotated(90), 90)
		attempt(view.Rotated(180), 180)
		attempt(view.Rotated(270), 270)
	}
	if len(found) == 0 && opts.tryDownscale() {
		minDim := view.Width()
		if view.Height() < minDim {
			minDim = view.Height()
		}
		if minDim >= opts.downscaleThreshold() {
			for _, factor := range []int{2, 3, 4} {
				attempt(view.Subsampled(factor), 0)
				if len(found) > 0 {
					break
				}
			}
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		pi, pj := found[i].Position.TopLeft(), found[j].Position.TopLeft()
		if pi.Y != pj.Y {
			return pi.Y < pj.Y
		}
		return pi.X < pj.X
	})

	if max := opts.maxSymbols(); len(found) > max {
		found = found[:max]
	}
	return found
}

// scanOneOrientation runs every requested format's reader (and, for isPure
// mode, only a direct BlackMatrix decode) over a single orientation/polarity
// of view, returning one Barcode per distinct successful decode.
func scanOneOrientation(view *ImageView, opts *ReaderOptions, decodeOpts *DecodeOptions, inverted bool) []*Barcode {
	bitmap := newBinaryBitmap(view, opts)
	if inverted {
		matrix, err := bitmap.BlackMatrix()
		if err == nil {
			matrix.FlipAll()
		}
	}

	var results []*Barcode
	for format, factory := range readerFactories {
		if decodeOpts.PossibleFormats != nil && !formatRequested(decodeOpts.PossibleFormats, format) {
			continue
		}
		r := factory(decodeOpts)
		result, err := r.Decode(bitmap, decodeOpts)
		if err != nil {
			if opts.returnErrors() {
				results = append(results, newBarcode(format, nil, err))
			}
			continue
		}
		results = append(results, newBarcode(result.Format, result, nil))
	}
	return results
}

func formatRequested(possible []Format, f Format) bool {
	for _, p := range possible {
		if p == f {
			return true
		}
	}
	return false
}

// newBinaryBitmap wires an ImageView through the LuminancePipeline and the
// ReaderOptions-selected Binarizer into a BinaryBitmap ready for Reader.Decode.
func newBinaryBitmap(view *ImageView, opts *ReaderOptions) *BinaryBitmap {
	source := NewLuminancePipeline(view)
	var kind BinarizerKind
	threshold := byte(128) // spec.md §3's ReaderOptions.Binarizer FixedThreshold default
	if opts != nil {
		kind = opts.Binarizer
		if opts.IsPure {
			kind = BinarizerFixedThreshold
		}
		if opts.FixedThresholdValue != 0 {
			threshold = opts.FixedThresholdValue
		}
	}
	bin := newBinarizer(kind, source, threshold)
	return NewBinaryBitmap(bin)
}

// toDecodeOptions translates the public ReaderOptions into the internal
// engine's DecodeOptions, the boundary between spec.md's API surface and the
// teacher's original per-format Reader plumbing.
func toDecodeOptions(opts *ReaderOptions) *DecodeOptions {
	d := &DecodeOptions{
		PureBarcode:    opts.isPure(),
		TryHarder:      opts.tryHarder(),
		MinLineCount:   opts.minLineCount(),
		EanAddOnSymbol: opts.eanAddOnSymbol(),
	}
	if f := opts.formats(); f != Any {
		for _, fn := range formatNames {
			if f&fn.f != 0 {
				d.PossibleFormats = append(d.PossibleFormats, fn.f)
			}
		}
	}
	if opts != nil {
		d.CharacterSet = opts.CharacterSet
	}
	return d
}

// MergeStructuredAppendSequences merges Structured Append fragments (QR
// parity+index+count, PDF417/Data Matrix macro file id) present among
// barcodes into single reassembled Barcode values, per spec.md §4.5/§8.6.
// Barcodes that aren't part of a sequence, or whose sequence is incomplete,
// are returned unmodified/untouched alongside the merged results.
func MergeStructuredAppendSequences(barcodes []*Barcode) []*Barcode {
	groups := map[string][]*Barcode{}
	var singles []*Barcode
	for _, b := range barcodes {
		if b.Sequence.Count <= 1 {
			singles = append(singles, b)
			continue
		}
		key := b.Format.String() + "|" + b.Sequence.ID
		groups[key] = append(groups[key], b)
	}

	var merged []*Barcode
	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool { return group[i].Sequence.Index < group[j].Sequence.Index })
		count := group[0].Sequence.Count
		if len(group) < count {
			// Incomplete sequence: surface the fragments unmerged rather than
			// silently dropping them.
			merged = append(merged, group...)
			continue
		}
		combined := *group[0]
		var payload []byte
		for _, frag := range group[:count] {
			payload = append(payload, frag.Bytes()...)
		}
		combined.content = combined.content.WithBytes(payload)
		combined.Sequence = Sequence{}
		merged = append(merged, &combined)
	}
	return append(singles, merged...)
}
