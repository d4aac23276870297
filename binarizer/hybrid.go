package binarizer

import (
	"github.com/ericlevine/dmscan"
	"github.com/ericlevine/dmscan/bitutil"
)

const (
	blockSizePower   = 3
	blockSize        = 1 << blockSizePower
	blockSizeMask    = blockSize - 1
	minimumDimension = blockSize * 5
	minDynamicRange  = 24
)

// Hybrid thresholds each 8x8 block against the average black point of the
// surrounding 5x5 blocks. It copes with shadows and gradients better than
// GlobalHistogram and falls back to it for images under 40 pixels.
type Hybrid struct {
	global *GlobalHistogram
	matrix *bitutil.BitMatrix
}

// NewHybrid creates a Hybrid binarizer.
func NewHybrid(source dmscan.LuminanceSource) *Hybrid {
	return &Hybrid{global: NewGlobalHistogram(source)}
}

func (h *Hybrid) LuminanceSource() dmscan.LuminanceSource { return h.global.source }
func (h *Hybrid) Width() int                              { return h.global.Width() }
func (h *Hybrid) Height() int                             { return h.global.Height() }

// BlackMatrix computes the matrix once and caches it.
func (h *Hybrid) BlackMatrix() (*bitutil.BitMatrix, error) {
	if h.matrix != nil {
		return h.matrix, nil
	}
	width, height := h.Width(), h.Height()
	if width < minimumDimension || height < minimumDimension {
		m, err := h.global.BlackMatrix()
		if err != nil {
			return nil, err
		}
		h.matrix = m
		return m, nil
	}

	lum := h.LuminanceSource().Matrix()
	subWidth := (width + blockSizeMask) >> blockSizePower
	subHeight := (height + blockSizeMask) >> blockSizePower
	blackPoints := blockBlackPoints(lum, subWidth, subHeight, width, height)

	m := bitutil.NewBitMatrixWithSize(width, height)
	maxY, maxX := height-blockSize, width-blockSize
	for y := 0; y < subHeight; y++ {
		yoff := min(y<<blockSizePower, maxY)
		top := clamp(y, 2, subHeight-3)
		for x := 0; x < subWidth; x++ {
			xoff := min(x<<blockSizePower, maxX)
			left := clamp(x, 2, subWidth-3)
			sum := 0
			for dy := -2; dy <= 2; dy++ {
				r := blackPoints[top+dy]
				for dx := -2; dx <= 2; dx++ {
					sum += r[left+dx]
				}
			}
			thresholdBlock(lum, xoff, yoff, sum/25, width, m)
		}
	}
	h.matrix = m
	return m, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func thresholdBlock(lum []byte, xoff, yoff, threshold, stride int, m *bitutil.BitMatrix) {
	for y := 0; y < blockSize; y++ {
		off := (yoff+y)*stride + xoff
		for x := 0; x < blockSize; x++ {
			if int(lum[off+x]) <= threshold {
				m.Set(xoff+x, yoff+y)
			}
		}
	}
}

// blockBlackPoints returns the black point of every 8x8 block. Flat blocks
// borrow from their already computed neighbours so that a white block
// inside a dark region is not binarized as noise.
func blockBlackPoints(lum []byte, subWidth, subHeight, width, height int) [][]int {
	maxY, maxX := height-blockSize, width-blockSize
	points := make([][]int, subHeight)
	for y := range points {
		points[y] = make([]int, subWidth)
		yoff := min(y<<blockSizePower, maxY)
		for x := 0; x < subWidth; x++ {
			xoff := min(x<<blockSizePower, maxX)
			sum, lo, hi := 0, 0xFF, 0
			for yy := 0; yy < blockSize; yy++ {
				off := (yoff+yy)*width + xoff
				for xx := 0; xx < blockSize; xx++ {
					p := int(lum[off+xx])
					sum += p
					lo = min(lo, p)
					hi = max(hi, p)
				}
			}

			avg := sum >> (2 * blockSizePower)
			if hi-lo <= minDynamicRange {
				avg = lo / 2
				if y > 0 && x > 0 {
					neighbours := (points[y-1][x] + 2*points[y][x-1] + points[y-1][x-1]) / 4
					if lo < neighbours {
						avg = neighbours
					}
				}
			}
			points[y][x] = avg
		}
	}
	return points
}
