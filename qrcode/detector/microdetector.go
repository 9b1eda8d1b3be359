package detector

import (
	barscan "github.com/go-barscan/barscan"
	"github.com/go-barscan/barscan/bitutil"
	"github.com/go-barscan/barscan/internal"
	"github.com/go-barscan/barscan/transform"
)

// MicroDetector locates a Micro QR Code's single finder pattern and samples
// candidate grids at each of the four legal Micro QR dimensions (11, 13, 15,
// 17). Unlike a regular QR symbol, the finder pattern sits at the symbol's
// true top-left corner rather than inset from it, so there is no second or
// third finder to triangulate against; this detector trades the precision
// of timing-pattern-based dimension discovery for trying every legal
// dimension and letting the decoder's format-info check reject the wrong
// ones.
type MicroDetector struct {
	image *bitutil.BitMatrix
}

// NewMicroDetector creates a new MicroDetector for the given image.
func NewMicroDetector(image *bitutil.BitMatrix) *MicroDetector {
	return &MicroDetector{image: image}
}

// microDimensions are the legal Micro QR dimensions, smallest first (M1
// included for symmetry with GetMicroVersionForDimension, though decoding
// M1 itself is out of scope).
var microDimensions = [4]int{11, 13, 15, 17}

// Detect finds the single finder pattern and returns one DetectorResult per
// candidate dimension, in order of increasing dimension (11 first).
func (d *MicroDetector) Detect(tryHarder bool) ([]*internal.DetectorResult, error) {
	finder := &finderPatternFinder{image: d.image}
	center, err := finder.findSingle(tryHarder)
	if err != nil {
		return nil, err
	}

	var results []*internal.DetectorResult
	for _, dimension := range microDimensions {
		bits, err := d.sampleAt(center, dimension)
		if err != nil {
			continue
		}
		points := []internal.ResultPoint{{X: center.X, Y: center.Y}}
		results = append(results, internal.NewDetectorResult(bits, points))
	}
	if len(results) == 0 {
		return nil, barscan.ErrNotFound
	}
	return results, nil
}

func (d *MicroDetector) sampleAt(center *FinderPattern, dimension int) (*bitutil.BitMatrix, error) {
	moduleSize := center.EstimatedModuleSize
	if moduleSize < 1.0 {
		return nil, barscan.ErrNotFound
	}
	// The finder's 3x3-module center sits at (3.5, 3.5) in module space for
	// both regular and Micro QR; the symbol's module grid starts half a
	// finder-width up and to the left of the detected center.
	originX := center.X - 3.5*moduleSize
	originY := center.Y - 3.5*moduleSize

	xform := transform.QuadrilateralToQuadrilateral(
		0, 0, float64(dimension), 0, float64(dimension), float64(dimension), 0, float64(dimension),
		originX, originY,
		originX+float64(dimension)*moduleSize, originY,
		originX+float64(dimension)*moduleSize, originY+float64(dimension)*moduleSize,
		originX, originY+float64(dimension)*moduleSize,
	)
	sampler := &transform.DefaultGridSampler{}
	return sampler.SampleGridTransform(d.image, dimension, dimension, xform)
}

// findSingle runs the same finder-pattern row-scan finderPatternFinder.find
// uses for regular QR's three-finder search, but accepts the strongest
// single confirmed center instead of requiring three.
func (f *finderPatternFinder) findSingle(tryHarder bool) (*FinderPattern, error) {
	maxI := f.image.Height()
	maxJ := f.image.Width()

	iSkip := (3 * maxI) / (4 * maxModules)
	if iSkip < minSkip || tryHarder {
		iSkip = minSkip
	}

	for i := iSkip - 1; i < maxI; i += iSkip {
		stateCount := [5]int{}
		currentState := 0
		for j := 0; j < maxJ; j++ {
			if f.image.Get(j, i) {
				if currentState&1 == 1 {
					currentState++
				}
				stateCount[currentState]++
			} else {
				if currentState&1 == 0 {
					if currentState == 4 {
						if foundPatternCross(stateCount) {
							f.handlePossibleCenter(stateCount, i, j)
						}
						doShiftCounts2(&stateCount)
						currentState = 3
					} else {
						currentState++
						stateCount[currentState]++
					}
				} else {
					stateCount[currentState]++
				}
			}
		}
		if foundPatternCross(stateCount) {
			f.handlePossibleCenter(stateCount, i, maxJ)
		}
	}

	var best *FinderPattern
	bestCount := 0
	for _, c := range f.possibleCenters {
		if c.Count > bestCount {
			best = c
			bestCount = c.Count
		}
	}
	if best == nil {
		return nil, barscan.ErrNotFound
	}
	return best, nil
}
