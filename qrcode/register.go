package qrcode

import barscan "github.com/go-barscan/barscan"

func init() {
	barscan.RegisterReader(barscan.FormatQRCode, func(opts *barscan.DecodeOptions) barscan.Reader {
		return NewReader()
	})
	barscan.RegisterWriter(barscan.FormatQRCode, func() barscan.Writer {
		return NewWriter()
	})
	barscan.RegisterReader(barscan.FormatMicroQRCode, func(opts *barscan.DecodeOptions) barscan.Reader {
		return NewMicroReader()
	})
	barscan.RegisterReader(barscan.FormatRMQRCode, func(opts *barscan.DecodeOptions) barscan.Reader {
		return NewRMQRReader()
	})
}
