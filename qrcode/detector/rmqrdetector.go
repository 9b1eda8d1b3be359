package detector

import (
	barscan "github.com/go-barscan/barscan"
	"github.com/go-barscan/barscan/bitutil"
	"github.com/go-barscan/barscan/internal"
	"github.com/go-barscan/barscan/qrcode/decoder"
	"github.com/go-barscan/barscan/transform"
)

// RMQRCandidate pairs a sampled bit matrix with the RMQRVersion it was
// sampled at, since the decoder needs the version to pick an EC-block split.
type RMQRCandidate struct {
	Bits    *bitutil.BitMatrix
	Points  []internal.ResultPoint
	Version *decoder.RMQRVersion
}

// RMQRDetector locates an rMQR symbol's single top-left finder pattern and
// samples the image at each of the 32 standard rMQR sizes, per spec.md
// §4.2's note that rMQR's corner finder must deduce aspect ratio from
// timing-pattern modulation — simplified here (see DESIGN.md Open Question
// decisions 4 and 7) to trying every standard size and letting format-info plus
// Reed-Solomon decode reject the wrong ones.
type RMQRDetector struct {
	image *bitutil.BitMatrix
}

// NewRMQRDetector creates a new RMQRDetector for the given image.
func NewRMQRDetector(image *bitutil.BitMatrix) *RMQRDetector {
	return &RMQRDetector{image: image}
}

// Detect finds the finder pattern and returns one candidate per standard
// rMQR size, ordered the same as decoder.GetRMQRVersionForDimensions' table.
func (d *RMQRDetector) Detect(tryHarder bool) ([]*RMQRCandidate, error) {
	finder := &finderPatternFinder{image: d.image}
	center, err := finder.findSingle(tryHarder)
	if err != nil {
		return nil, err
	}

	var results []*RMQRCandidate
	for _, v := range decoder.AllRMQRVersions() {
		bits, err := d.sampleAt(center, v.Width, v.Height)
		if err != nil {
			continue
		}
		points := []internal.ResultPoint{{X: center.X, Y: center.Y}}
		results = append(results, &RMQRCandidate{Bits: bits, Points: points, Version: v})
	}
	if len(results) == 0 {
		return nil, barscan.ErrNotFound
	}
	return results, nil
}

func (d *RMQRDetector) sampleAt(center *FinderPattern, width, height int) (*bitutil.BitMatrix, error) {
	moduleSize := center.EstimatedModuleSize
	if moduleSize < 1.0 {
		return nil, barscan.ErrNotFound
	}
	originX := center.X - 3.5*moduleSize
	originY := center.Y - 3.5*moduleSize

	xform := transform.QuadrilateralToQuadrilateral(
		0, 0, float64(width), 0, float64(width), float64(height), 0, float64(height),
		originX, originY,
		originX+float64(width)*moduleSize, originY,
		originX+float64(width)*moduleSize, originY+float64(height)*moduleSize,
		originX, originY+float64(height)*moduleSize,
	)
	sampler := &transform.DefaultGridSampler{}
	return sampler.SampleGridTransform(d.image, width, height, xform)
}
