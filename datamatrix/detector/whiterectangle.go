package detector

import (
	"fmt"
	"math"

	"github.com/ericlevine/dmscan"
	"github.com/ericlevine/dmscan/bitutil"
)

// initSize is the side of the initial search square.
const initSize = 10

var errNoRectangle = fmt.Errorf("datamatrix/detector: no white rectangle: %w", dmscan.ErrNotFound)

// whiteRectangle grows a rectangle from a start point until all four sides
// run through white space, then walks in from its corners to the nearest
// black pixels.
type whiteRectangle struct {
	image         *bitutil.BitMatrix
	width, height int
	left, right   int
	up, down      int
}

func newWhiteRectangle(image *bitutil.BitMatrix, x, y int) (*whiteRectangle, error) {
	w, h := image.Width(), image.Height()
	half := initSize / 2
	r := &whiteRectangle{
		image: image, width: w, height: h,
		left: x - half, right: x + half, up: y - half, down: y + half,
	}
	if r.up < 0 || r.left < 0 || r.down >= h || r.right >= w {
		return nil, errNoRectangle
	}
	return r, nil
}

// grow pushes one side outwards while it touches black, and at least until
// it has touched black once.
func (r *whiteRectangle) grow(pos *int, step, limit int, touched *bool, blackAt func(int) bool) (moved bool) {
	notWhite := true
	for (notWhite || !*touched) && *pos != limit {
		notWhite = blackAt(*pos)
		switch {
		case notWhite:
			*pos += step
			moved, *touched = true, true
		case !*touched:
			*pos += step
		}
	}
	return moved
}

// detect returns the corner points just inside the black region, ordered
// as centerEdges describes.
func (r *whiteRectangle) detect() ([4]point, error) {
	left, right, up, down := r.left, r.right, r.up, r.down
	var onRight, onBottom, onLeft, onTop bool

	for found := true; found; {
		found = false
		if r.grow(&right, 1, r.width, &onRight, func(x int) bool { return r.blackInColumn(up, down, x) }) {
			found = true
		}
		if right >= r.width {
			return [4]point{}, errNoRectangle
		}
		if r.grow(&down, 1, r.height, &onBottom, func(y int) bool { return r.blackInRow(left, right, y) }) {
			found = true
		}
		if down >= r.height {
			return [4]point{}, errNoRectangle
		}
		if r.grow(&left, -1, -1, &onLeft, func(x int) bool { return r.blackInColumn(up, down, x) }) {
			found = true
		}
		if left < 0 {
			return [4]point{}, errNoRectangle
		}
		if r.grow(&up, -1, -1, &onTop, func(y int) bool { return r.blackInRow(left, right, y) }) {
			found = true
		}
		if up < 0 {
			return [4]point{}, errNoRectangle
		}
	}
	if !onRight || !onBottom || !onLeft || !onTop {
		return [4]point{}, errNoRectangle
	}

	maxSize := right - left
	corner := func(ax, ay, dx, dy int) (point, error) {
		for i := 1; i < maxSize; i++ {
			if p, ok := r.blackOnSegment(float64(ax), float64(ay+dy*i), float64(ax+dx*i), float64(ay)); ok {
				return p, nil
			}
		}
		return point{}, errNoRectangle
	}
	z, err := corner(left, down, 1, -1)
	if err != nil {
		return [4]point{}, err
	}
	t, err := corner(left, up, 1, 1)
	if err != nil {
		return [4]point{}, err
	}
	x, err := corner(right, up, -1, 1)
	if err != nil {
		return [4]point{}, err
	}
	y, err := corner(right, down, -1, -1)
	if err != nil {
		return [4]point{}, err
	}
	return r.centerEdges(y, z, x, t), nil
}

// centerEdges moves the points one pixel towards the centre.
//
//	      t            t
//	 z                      x
//	       x    OR    z
//	  y                    y
func (r *whiteRectangle) centerEdges(y, z, x, t point) [4]point {
	const corr = 1.0
	if y.X < float64(r.width)/2 {
		return [4]point{
			{X: t.X - corr, Y: t.Y + corr},
			{X: z.X + corr, Y: z.Y + corr},
			{X: x.X - corr, Y: x.Y - corr},
			{X: y.X + corr, Y: y.Y - corr},
		}
	}
	return [4]point{
		{X: t.X + corr, Y: t.Y + corr},
		{X: z.X + corr, Y: z.Y - corr},
		{X: x.X - corr, Y: x.Y + corr},
		{X: y.X - corr, Y: y.Y - corr},
	}
}

func (r *whiteRectangle) blackOnSegment(aX, aY, bX, bY float64) (point, bool) {
	dist := mathRound(math.Hypot(aX-bX, aY-bY))
	if dist < 1 {
		return point{}, false
	}
	xStep := (bX - aX) / float64(dist)
	yStep := (bY - aY) / float64(dist)
	for i := 0; i < dist; i++ {
		px := mathRound(aX + float64(i)*xStep)
		py := mathRound(aY + float64(i)*yStep)
		if r.image.GetSafe(px, py) {
			return point{X: float64(px), Y: float64(py)}, true
		}
	}
	return point{}, false
}

func (r *whiteRectangle) blackInRow(a, b, y int) bool {
	for x := a; x <= b; x++ {
		if r.image.GetSafe(x, y) {
			return true
		}
	}
	return false
}

func (r *whiteRectangle) blackInColumn(a, b, x int) bool {
	for y := a; y <= b; y++ {
		if r.image.GetSafe(x, y) {
			return true
		}
	}
	return false
}
