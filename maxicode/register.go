package maxicode

import barscan "github.com/go-barscan/barscan"

func init() {
	barscan.RegisterReader(barscan.FormatMaxiCode, func(opts *barscan.DecodeOptions) barscan.Reader {
		return NewReader()
	})
}
