package detector

import (
	"fmt"

	"github.com/ericlevine/dmscan"
	"github.com/ericlevine/dmscan/bitutil"
)

var errNoPureSymbol = fmt.Errorf("datamatrix/detector: no pure symbol: %w", dmscan.ErrNotFound)

// extractPureBits reads an unrotated, unskewed symbol surrounded by white
// space. The module size is the length of the first black run of the top
// clock track.
func extractPureBits(image *bitutil.BitMatrix) (*bitutil.BitMatrix, dmscan.Quadrilateral, error) {
	var none dmscan.Quadrilateral
	left, top, ok := image.TopLeftOnBit()
	if !ok {
		return nil, none, errNoPureSymbol
	}
	right, bottom, _ := image.BottomRightOnBit()

	x := left
	for x < image.Width() && image.Get(x, top) {
		x++
	}
	moduleSize := x - left
	if x == image.Width() || moduleSize == 0 {
		return nil, none, errNoPureSymbol
	}

	cols := (right - left + 1) / moduleSize
	rows := (bottom - top + 1) / moduleSize
	if err := checkSize(cols, rows); err != nil {
		return nil, none, err
	}

	// sample the centre of each module
	nudge := moduleSize / 2
	bits := bitutil.NewBitMatrixWithSize(cols, rows)
	for j := 0; j < rows; j++ {
		y := top + j*moduleSize + nudge
		for i := 0; i < cols; i++ {
			if image.Get(left+i*moduleSize+nudge, y) {
				bits.Set(i, j)
			}
		}
	}

	l, t := float64(left), float64(top)
	r, b := float64(right+1), float64(bottom+1)
	return bits, dmscan.Quadrilateral{{X: l, Y: t}, {X: l, Y: b}, {X: r, Y: b}, {X: r, Y: t}}, nil
}
