package barscan

// PixelFormat identifies the channel layout of a pixel buffer as the 4-tuple
// spec.md §6 describes: (pixel stride, red index, green index, blue index).
type PixelFormat struct {
	name               string
	pixStride          int
	rIdx, gIdx, bIdx   int
	hasAlpha, lumAlpha bool
}

// Stock pixel formats, matching spec.md §6 exactly.
var (
	PixelLum  = PixelFormat{name: "Lum", pixStride: 1}
	PixelLumA = PixelFormat{name: "LumA", pixStride: 2, lumAlpha: true}
	PixelRGB  = PixelFormat{name: "RGB", pixStride: 3, rIdx: 0, gIdx: 1, bIdx: 2}
	PixelBGR  = PixelFormat{name: "BGR", pixStride: 3, rIdx: 2, gIdx: 1, bIdx: 0}
	PixelRGBA = PixelFormat{name: "RGBA", pixStride: 4, rIdx: 0, gIdx: 1, bIdx: 2, hasAlpha: true}
	PixelBGRA = PixelFormat{name: "BGRA", pixStride: 4, rIdx: 2, gIdx: 1, bIdx: 0, hasAlpha: true}
	PixelARGB = PixelFormat{name: "ARGB", pixStride: 4, rIdx: 1, gIdx: 2, bIdx: 3, hasAlpha: true}
	PixelABGR = PixelFormat{name: "ABGR", pixStride: 4, rIdx: 3, gIdx: 2, bIdx: 1, hasAlpha: true}
)

// PixStride returns the number of bytes per pixel for this format.
func (f PixelFormat) PixStride() int { return f.pixStride }

// String returns the format's stock name.
func (f PixelFormat) String() string { return f.name }

// ImageView is a non-owning, immutable view of a rectangular pixel buffer.
// Cropped derives a new view over the same backing buffer without copying;
// Rotated (for non-zero angles) and Subsampled derive views over a
// freshly-allocated buffer.
// The caller must keep the backing buffer alive for the view's lifetime —
// ImageView never takes ownership (spec.md §3, §5 "weak back-references").
type ImageView struct {
	data      []byte
	width     int
	height    int
	rowStride int
	format    PixelFormat
	// originX/originY let Crop compose without copying the underlying
	// slice; they are pixel coordinates into data's row/pixel grid.
	originX, originY int
}

// NewImageView wraps a pixel buffer. rowStride must be >= width*format.PixStride().
func NewImageView(data []byte, width, height, rowStride int, format PixelFormat) *ImageView {
	if rowStride < width*format.PixStride() {
		panic("barscan: rowStride smaller than width*pixStride")
	}
	return &ImageView{data: data, width: width, height: height, rowStride: rowStride, format: format}
}

// Width returns the view's width in pixels.
func (v *ImageView) Width() int { return v.width }

// Height returns the view's height in pixels.
func (v *ImageView) Height() int { return v.height }

// Format returns the view's pixel format.
func (v *ImageView) Format() PixelFormat { return v.format }

func (v *ImageView) pixelOffset(x, y int) int {
	return (v.originY+y)*v.rowStride + (v.originX+x)*v.format.pixStride
}

// At returns the raw pixel bytes at (x, y), a PixStride()-length slice.
func (v *ImageView) At(x, y int) []byte {
	off := v.pixelOffset(x, y)
	return v.data[off : off+v.format.pixStride]
}

// Cropped derives a new view over the rectangle [x,y,w,h) without copying.
func (v *ImageView) Cropped(x, y, w, h int) *ImageView {
	if x < 0 || y < 0 || w < 0 || h < 0 || x+w > v.width || y+h > v.height {
		panic("barscan: crop rectangle out of bounds")
	}
	return &ImageView{
		data: v.data, width: w, height: h, rowStride: v.rowStride, format: v.format,
		originX: v.originX + x, originY: v.originY + y,
	}
}

// Rotated derives a new view rotated clockwise by the given degrees
// (0/90/180/270). Since ImageView has no signed stride, every non-zero
// rotation is expressed by materializing a freshly-allocated buffer in the
// rotated pixel order (spec.md §4.5's rotate-and-retry step never runs on
// the hot path more than a handful of times per image, so the copy cost is
// acceptable).
func (v *ImageView) Rotated(degrees int) *ImageView {
	switch ((degrees % 360) + 360) % 360 {
	case 0:
		return v
	case 90:
		return v.rotated90(true)
	case 180:
		return v.rotated180()
	case 270:
		return v.rotated90(false)
	default:
		return v
	}
}

func (v *ImageView) rotated180() *ImageView {
	ps := v.format.pixStride
	data := make([]byte, v.height*v.width*ps)
	for y := 0; y < v.height; y++ {
		srcY := v.height - 1 - y
		for x := 0; x < v.width; x++ {
			srcX := v.width - 1 - x
			copy(data[(y*v.width+x)*ps:], v.At(srcX, srcY))
		}
	}
	return NewImageView(data, v.width, v.height, v.width*ps, v.format)
}

// rotated90 materializes a 90-degree rotation: clockwise when cw is true,
// counter-clockwise (270 clockwise) otherwise. The output is newW=height,
// newH=width, matching the teacher's RotateCounterClockwise transpose.
func (v *ImageView) rotated90(cw bool) *ImageView {
	ps := v.format.pixStride
	newW, newH := v.height, v.width
	data := make([]byte, newW*newH*ps)
	for y := 0; y < newH; y++ {
		for x := 0; x < newW; x++ {
			var srcX, srcY int
			if cw {
				srcX, srcY = y, newW-1-x
			} else {
				srcX, srcY = newH-1-y, x
			}
			copy(data[(y*newW+x)*ps:], v.At(srcX, srcY))
		}
	}
	return NewImageView(data, newW, newH, newW*ps, v.format)
}

// Subsampled derives a new view downsampled by an integer factor (2, 3, 4, ...),
// used by ReaderOptions.TryDownscale. Each output pixel is the top-left pixel
// of its factor x factor block (point sampling, matching the teacher's
// downscale behavior of re-running detection rather than averaging).
func (v *ImageView) Subsampled(factor int) *ImageView {
	if factor <= 1 {
		return v
	}
	ps := v.format.pixStride
	newW := (v.width + factor - 1) / factor
	newH := (v.height + factor - 1) / factor
	data := make([]byte, newW*newH*ps)
	for y := 0; y < newH; y++ {
		for x := 0; x < newW; x++ {
			copy(data[(y*newW+x)*ps:], v.At(x*factor, y*factor))
		}
	}
	return NewImageView(data, newW, newH, newW*ps, v.format)
}
