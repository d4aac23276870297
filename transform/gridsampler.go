package transform

import (
	"errors"
	"fmt"

	"github.com/ericlevine/dmscan/bitutil"
)

// ErrOutOfImage is returned when a module centre maps outside the image.
var ErrOutOfImage = errors.New("transform: sample point outside image")

// SampleGrid reads a dimX x dimY module grid. tf maps grid coordinates,
// where module (i, j) has its centre at (i+0.5, j+0.5), to image pixels.
func SampleGrid(image *bitutil.BitMatrix, dimX, dimY int, tf Perspective) (*bitutil.BitMatrix, error) {
	if dimX <= 0 || dimY <= 0 {
		return nil, fmt.Errorf("transform: invalid grid %dx%d", dimX, dimY)
	}
	grid := bitutil.NewBitMatrixWithSize(dimX, dimY)
	row := make([]Point, dimX)
	for y := 0; y < dimY; y++ {
		for x := range row {
			row[x] = tf.Apply(Point{X: float64(x) + 0.5, Y: float64(y) + 0.5})
		}
		if err := nudge(image, row); err != nil {
			return nil, fmt.Errorf("row %d: %w", y, err)
		}
		for x, p := range row {
			ix, iy := int(p.X), int(p.Y)
			if ix < 0 || iy < 0 || ix >= image.Width() || iy >= image.Height() {
				return nil, fmt.Errorf("%w: (%d,%d)", ErrOutOfImage, ix, iy)
			}
			if image.Get(ix, iy) {
				grid.Set(x, y)
			}
		}
	}
	return grid, nil
}

// SampleGridQuad samples with the transform taking gridQuad (grid
// coordinates) onto imageQuad (pixels).
func SampleGridQuad(image *bitutil.BitMatrix, dimX, dimY int, gridQuad, imageQuad Quad) (*bitutil.BitMatrix, error) {
	return SampleGrid(image, dimX, dimY, QuadToQuad(gridQuad, imageQuad))
}

// nudge pulls points lying at most one pixel outside the image back onto
// its border, working inwards from both ends of the row while the ends
// keep needing it. Anything further out is an error.
func nudge(image *bitutil.BitMatrix, pts []Point) error {
	w, h := image.Width(), image.Height()
	fix := func(p *Point) (bool, error) {
		x, y := int(p.X), int(p.Y)
		if x < -1 || x > w || y < -1 || y > h {
			return false, fmt.Errorf("%w: (%d,%d)", ErrOutOfImage, x, y)
		}
		moved := false
		switch x {
		case -1:
			p.X, moved = 0, true
		case w:
			p.X, moved = float64(w-1), true
		}
		switch y {
		case -1:
			p.Y, moved = 0, true
		case h:
			p.Y, moved = float64(h-1), true
		}
		return moved, nil
	}
	for i := 0; i < len(pts); i++ {
		moved, err := fix(&pts[i])
		if err != nil {
			return err
		}
		if !moved {
			break
		}
	}
	for i := len(pts) - 1; i >= 0; i-- {
		moved, err := fix(&pts[i])
		if err != nil {
			return err
		}
		if !moved {
			break
		}
	}
	return nil
}
