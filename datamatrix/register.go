package datamatrix

import barscan "github.com/go-barscan/barscan"

func init() {
	barscan.RegisterReader(barscan.FormatDataMatrix, func(opts *barscan.DecodeOptions) barscan.Reader {
		return NewReader()
	})
	barscan.RegisterWriter(barscan.FormatDataMatrix, func() barscan.Writer {
		return NewWriter()
	})
}
