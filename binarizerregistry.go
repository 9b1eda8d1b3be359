package barscan

// binarizerFactory builds a Binarizer over a LuminanceSource. fixedThreshold
// is only consulted by the BinarizerFixedThreshold kind.
type binarizerFactory func(source LuminanceSource, fixedThreshold byte) Binarizer

var binarizerFactories = map[BinarizerKind]binarizerFactory{}

// RegisterBinarizer wires a BinarizerKind to its constructor. The binarizer
// package calls this from an init() function, the same extension-point
// pattern RegisterReader uses for format readers — it keeps this package
// free of a direct (and cyclical) dependency on binarizer.
func RegisterBinarizer(kind BinarizerKind, factory binarizerFactory) {
	binarizerFactories[kind] = factory
}

func newBinarizer(kind BinarizerKind, source LuminanceSource, fixedThreshold byte) Binarizer {
	if factory, ok := binarizerFactories[kind]; ok {
		return factory(source, fixedThreshold)
	}
	if factory, ok := binarizerFactories[BinarizerLocalAverage]; ok {
		return factory(source, fixedThreshold)
	}
	return nil
}
