// Package binarizer converts luminance data to black/white matrices.
package binarizer

import (
	"fmt"

	"github.com/ericlevine/dmscan"
	"github.com/ericlevine/dmscan/bitutil"
)

const (
	luminanceBits    = 5
	luminanceShift   = 8 - luminanceBits
	luminanceBuckets = 1 << luminanceBits
)

// GlobalHistogram thresholds the whole image at one black point taken from
// a luminance histogram of its central region. It is fast and suits
// evenly lit images.
type GlobalHistogram struct {
	source dmscan.LuminanceSource
}

// NewGlobalHistogram creates a GlobalHistogram binarizer.
func NewGlobalHistogram(source dmscan.LuminanceSource) *GlobalHistogram {
	return &GlobalHistogram{source: source}
}

func (g *GlobalHistogram) LuminanceSource() dmscan.LuminanceSource { return g.source }
func (g *GlobalHistogram) Width() int                              { return g.source.Width() }
func (g *GlobalHistogram) Height() int                             { return g.source.Height() }

// BlackMatrix samples four rows across the middle three fifths of the image
// to pick the black point, then thresholds every pixel.
func (g *GlobalHistogram) BlackMatrix() (*bitutil.BitMatrix, error) {
	width, height := g.source.Width(), g.source.Height()
	var buckets [luminanceBuckets]int
	row := make([]byte, width)
	for i := 1; i < 5; i++ {
		row = g.source.Row(height*i/5, row)
		for x := width / 5; x < width*4/5; x++ {
			buckets[row[x]>>luminanceShift]++
		}
	}
	blackPoint, err := estimateBlackPoint(buckets[:])
	if err != nil {
		return nil, err
	}

	matrix := bitutil.NewBitMatrixWithSize(width, height)
	lum := g.source.Matrix()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if int(lum[y*width+x]) < blackPoint {
				matrix.Set(x, y)
			}
		}
	}
	return matrix, nil
}

// estimateBlackPoint finds the two most significant histogram peaks and
// returns the deepest valley between them, scaled back to 8 bits.
func estimateBlackPoint(buckets []int) (int, error) {
	n := len(buckets)
	maxCount, firstPeak := 0, 0
	for x, c := range buckets {
		if c > maxCount {
			firstPeak, maxCount = x, c
		}
	}

	// the second peak is weighted by squared distance from the first
	secondPeak, secondScore := 0, 0
	for x, c := range buckets {
		d := x - firstPeak
		if score := c * d * d; score > secondScore {
			secondPeak, secondScore = x, score
		}
	}
	if firstPeak > secondPeak {
		firstPeak, secondPeak = secondPeak, firstPeak
	}
	if secondPeak-firstPeak <= n/16 {
		return 0, fmt.Errorf("%w: luminance histogram has a single peak", dmscan.ErrNotFound)
	}

	valley, valleyScore := secondPeak-1, -1
	for x := secondPeak - 1; x > firstPeak; x-- {
		fromFirst := x - firstPeak
		score := fromFirst * fromFirst * (secondPeak - x) * (maxCount - buckets[x])
		if score > valleyScore {
			valley, valleyScore = x, score
		}
	}
	return valley << luminanceShift, nil
}

// ByName returns the binarizer registered under name ("histogram" or
// "hybrid") for source.
func ByName(name string, source dmscan.LuminanceSource) (dmscan.Binarizer, error) {
	switch name {
	case "histogram", "global":
		return NewGlobalHistogram(source), nil
	case "hybrid", "":
		return NewHybrid(source), nil
	default:
		return nil, fmt.Errorf("binarizer: unknown binarizer %q", name)
	}
}
