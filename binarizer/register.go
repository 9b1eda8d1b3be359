package binarizer

import barscan "github.com/go-barscan/barscan"

func init() {
	barscan.RegisterBinarizer(barscan.BinarizerLocalAverage, func(source barscan.LuminanceSource, _ byte) barscan.Binarizer {
		return NewHybrid(source)
	})
	barscan.RegisterBinarizer(barscan.BinarizerGlobalHistogram, func(source barscan.LuminanceSource, _ byte) barscan.Binarizer {
		return NewGlobalHistogram(source)
	})
	barscan.RegisterBinarizer(barscan.BinarizerFixedThreshold, func(source barscan.LuminanceSource, threshold byte) barscan.Binarizer {
		return NewFixed(source, threshold)
	})
	barscan.RegisterBinarizer(barscan.BinarizerBoolCast, func(source barscan.LuminanceSource, _ byte) barscan.Binarizer {
		return NewBoolCast(source)
	})
}
