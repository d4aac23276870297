package detector

import (
	"fmt"
	"math"

	"github.com/ericlevine/dmscan"
	"github.com/ericlevine/dmscan/bitutil"
	"github.com/ericlevine/dmscan/transform"
)

var errNoExtremes = fmt.Errorf("datamatrix/detector: no symbol outline: %w", dmscan.ErrNotFound)

// extremes records the outermost black pixels of an image: the bounding
// box and the pixels furthest along each axis and each diagonal.
type extremes struct {
	minX, maxX, minY, maxY           point // pixels reaching the bounding box
	minSum, maxSum, minDiff, maxDiff point // along x+y and x-y
	box                              bitutil.Rect
}

// findExtremes scans every black pixel. With skipSpecks, pixels without a
// black 4-neighbour are ignored.
func findExtremes(image *bitutil.BitMatrix, skipSpecks bool) (extremes, bool) {
	var e extremes
	found := false
	w, h := image.Width(), image.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !image.Get(x, y) {
				continue
			}
			if skipSpecks && !image.GetSafe(x-1, y) && !image.GetSafe(x+1, y) &&
				!image.GetSafe(x, y-1) && !image.GetSafe(x, y+1) {
				continue
			}
			p := point{X: float64(x), Y: float64(y)}
			if !found {
				e = extremes{minX: p, maxX: p, minY: p, maxY: p, minSum: p, maxSum: p, minDiff: p, maxDiff: p}
				found = true
				continue
			}
			if p.X < e.minX.X {
				e.minX = p
			}
			if p.X > e.maxX.X {
				e.maxX = p
			}
			if p.Y < e.minY.Y {
				e.minY = p
			}
			if p.Y > e.maxY.Y {
				e.maxY = p
			}
			if s := p.X + p.Y; s < e.minSum.X+e.minSum.Y {
				e.minSum = p
			} else if s > e.maxSum.X+e.maxSum.Y {
				e.maxSum = p
			}
			if d := p.X - p.Y; d < e.minDiff.X-e.minDiff.Y {
				e.minDiff = p
			} else if d > e.maxDiff.X-e.maxDiff.Y {
				e.maxDiff = p
			}
		}
	}
	if !found {
		return e, false
	}
	e.box = bitutil.Rect{
		Left: int(e.minX.X), Top: int(e.minY.Y),
		Width: int(e.maxX.X-e.minX.X) + 1, Height: int(e.maxY.Y-e.minY.Y) + 1,
	}
	return e, true
}

// outline returns the symbol's corner candidates in clockwise order
// (image y pointing down). Without tryRotate these are the bounding box
// corners. With it, the quad through the axis extremes and the one through
// the diagonal extremes compete and the larger wins: both are spanned by
// black pixels, so the larger one is closer to the true outline.
func (e extremes) outline(tryRotate bool) [4]point {
	l, t := float64(e.box.Left), float64(e.box.Top)
	r, b := float64(e.box.Right()+1), float64(e.box.Bottom()+1)
	box := [4]point{{X: l, Y: t}, {X: r, Y: t}, {X: r, Y: b}, {X: l, Y: b}}
	if !tryRotate {
		return box
	}

	axes := [4]point{e.minY, e.maxX, e.maxY, e.minX}
	diagonals := [4]point{e.minSum, e.maxDiff, e.maxSum, e.minDiff}
	best := diagonals
	if quadArea(axes) > quadArea(diagonals) {
		best = axes
	}
	// pixel centres to the pixel corners furthest out
	var c point
	for _, p := range best {
		c.X += p.X / 4
		c.Y += p.Y / 4
	}
	for i, p := range best {
		best[i] = point{X: p.X + 0.5, Y: p.Y + 0.5}
		if p.X < c.X {
			best[i].X -= 0.5
		} else {
			best[i].X += 0.5
		}
		if p.Y < c.Y {
			best[i].Y -= 0.5
		} else {
			best[i].Y += 0.5
		}
	}
	return best
}

// detectExtremes locates the symbol from its outermost black pixels. The L
// is the pair of adjacent sides crossing the fewest transitions, the
// corner opposite the L is completed as a parallelogram, and the module
// counts come from the clock tracks.
func detectExtremes(image *bitutil.BitMatrix, tryHarder, tryRotate bool) (*bitutil.BitMatrix, dmscan.Quadrilateral, error) {
	var none dmscan.Quadrilateral
	e, ok := findExtremes(image, tryHarder)
	if !ok {
		return nil, none, errNoExtremes
	}
	quad := e.outline(tryRotate)
	if quadArea(quad) < 4 {
		return nil, none, errNoExtremes
	}

	// Look at the pixels just inside the outline. Rotated outlines are only
	// accurate to a pixel or so.
	inset := 0.5
	if tryRotate {
		inset = 1.5
	}
	var sides [4]int
	for i := range quad {
		a, b := quad[i], quad[(i+1)%4]
		in, along := inward(quad, i, inset), scale(unit(a, b), 0.5)
		sides[i] = transitionsBetween(image, add(add(a, in), along), add(b, add(in, scale(along, -1))))
	}
	// the L vertex is shared by sides k-1 and k
	k, least := 0, math.MaxInt
	for i := range quad {
		if s := sides[(i+3)%4] + sides[i]; s < least {
			k, least = i, s
		}
	}
	bottomLeft := quad[k]
	topLeft := quad[(k+1)%4]
	bottomRight := quad[(k+3)%4]
	topRight := point{X: topLeft.X + bottomRight.X - bottomLeft.X, Y: topLeft.Y + bottomRight.Y - bottomLeft.Y}

	cols, err := countClock(image, topLeft, topRight, bottomLeft, inset)
	if err != nil {
		return nil, none, err
	}
	rows, err := countClock(image, bottomRight, topRight, bottomLeft, inset)
	if err != nil {
		return nil, none, err
	}
	if err := checkSize(cols, rows); err != nil {
		return nil, none, err
	}

	fx, fy := float64(cols), float64(rows)
	grid := transform.Quad{{X: 0, Y: 0}, {X: fx, Y: 0}, {X: fx, Y: fy}, {X: 0, Y: fy}}
	img := transform.Quad{toPoint(topLeft), toPoint(topRight), toPoint(bottomRight), toPoint(bottomLeft)}
	bits, err := transform.SampleGridQuad(image, cols, rows, grid, img)
	if err != nil {
		return nil, none, fmt.Errorf("datamatrix/detector: %w: %v", dmscan.ErrNotFound, err)
	}
	return bits, dmscan.Quadrilateral{topLeft, bottomLeft, bottomRight, topRight}, nil
}

// countClock counts the modules of the clock track running from the L's
// end at start to the open corner at end. away is the L corner the track
// is offset towards. The module size is the first black run found edge
// pixels inside the track.
func countClock(image *bitutil.BitMatrix, start, end, away point, edge float64) (int, error) {
	along := unit(start, end)
	across := unit(start, away)
	length := math.Hypot(end.X-start.X, end.Y-start.Y)

	// the first module of every clock track is black
	first := add(start, scale(across, edge))
	run := 0
	for run < int(length) {
		p := add(first, scale(along, float64(run)+0.5))
		if !image.GetSafe(int(p.X), int(p.Y)) {
			break
		}
		run++
	}
	if run == 0 || run >= int(length) {
		return 0, fmt.Errorf("datamatrix/detector: no clock track: %w", dmscan.ErrNotFound)
	}

	center := scale(across, max(float64(run)/2, edge))
	from := add(add(start, center), scale(along, 0.5))
	to := add(add(end, center), scale(along, -0.5))
	return evenUp(transitionsBetween(image, from, to) + 1), nil
}

// inward returns the offset of length d from side i of a clockwise quad
// towards its inside.
func inward(q [4]point, i int, d float64) point {
	a, b := q[i], q[(i+1)%4]
	u := unit(a, b)
	// rotating clockwise by 90 degrees points inside when y grows downwards
	return point{X: -u.Y * d, Y: u.X * d}
}

func unit(a, b point) point {
	l := math.Hypot(b.X-a.X, b.Y-a.Y)
	if l == 0 {
		return point{}
	}
	return point{X: (b.X - a.X) / l, Y: (b.Y - a.Y) / l}
}

func add(a, b point) point { return point{X: a.X + b.X, Y: a.Y + b.Y} }

func scale(a point, s float64) point { return point{X: a.X * s, Y: a.Y * s} }
