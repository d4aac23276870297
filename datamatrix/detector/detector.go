// Package detector locates Data Matrix symbols in binary images.
//
// A Data Matrix symbol has an L-shaped finder pattern of two solid edges
// along the left and bottom, and two alternating clock tracks along the top
// and right. Detection finds the four corners, counts modules along the
// clock tracks and samples the module grid.
//
// Two independent strategies run on every image. The primary one grows a
// white rectangle around the symbol; the backup one works from the extreme
// black pixels. Each produces a Hypothesis which is valid only if it yields
// a grid of a known ECC200 size.
package detector

import (
	"fmt"

	"github.com/ericlevine/dmscan"
	"github.com/ericlevine/dmscan/bitutil"
	"github.com/ericlevine/dmscan/datamatrix/symbol"
	"github.com/ericlevine/dmscan/internal"
	"github.com/ericlevine/dmscan/transform"
)

// Detection is the outcome of one detector run.
type Detection struct {
	Primary internal.Hypothesis
	Backup  internal.Hypothesis
}

// Detect runs both strategies on image. It never fails; a strategy that
// finds nothing usable reports an invalid hypothesis.
//
// isPure assumes an unrotated symbol on a clean background and reads the
// primary grid straight from the black pixels' bounding box. tryHarder
// retries the primary search from more start points and makes the backup
// ignore isolated specks. tryRotate lets the backup handle symbols at
// arbitrary angles.
func Detect(image *bitutil.BitMatrix, tryHarder, tryRotate, isPure bool) Detection {
	var d Detection
	if image == nil {
		return d
	}
	if isPure {
		d.Primary = hypothesis(extractPureBits(image))
	} else {
		d.Primary = hypothesis(detectPrimary(image, tryHarder))
	}
	d.Backup = hypothesis(detectExtremes(image, tryHarder, tryRotate))
	return d
}

func hypothesis(bits *bitutil.BitMatrix, pos dmscan.Quadrilateral, err error) internal.Hypothesis {
	if err != nil {
		return internal.Hypothesis{}
	}
	return internal.NewHypothesis(bits, pos)
}

// checkSize rejects dimensions that are not an ECC200 size.
func checkSize(cols, rows int) error {
	if !symbol.IsValidSize(rows, cols) {
		return fmt.Errorf("datamatrix/detector: %dx%d is not a symbol size: %w", rows, cols, dmscan.ErrNotFound)
	}
	return nil
}

// detectPrimary runs the white rectangle search from the image centre and,
// with tryHarder, from the black pixel centroid and the quadrant centres.
// The first start point producing a grid wins.
func detectPrimary(image *bitutil.BitMatrix, tryHarder bool) (*bitutil.BitMatrix, dmscan.Quadrilateral, error) {
	w, h := image.Width(), image.Height()
	starts := [][2]int{{w / 2, h / 2}}
	if tryHarder {
		if cx, cy, ok := centroid(image); ok {
			starts = append(starts, [2]int{cx, cy})
		}
		starts = append(starts,
			[2]int{w / 4, h / 4}, [2]int{3 * w / 4, h / 4},
			[2]int{w / 4, 3 * h / 4}, [2]int{3 * w / 4, 3 * h / 4})
	}

	var firstErr error
	for _, s := range starts {
		bits, pos, err := detectFrom(image, s[0], s[1])
		if err == nil {
			return bits, pos, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, dmscan.Quadrilateral{}, firstErr
}

func centroid(image *bitutil.BitMatrix) (x, y int, ok bool) {
	var sx, sy, n int
	for j := 0; j < image.Height(); j++ {
		for i := 0; i < image.Width(); i++ {
			if image.Get(i, j) {
				sx += i
				sy += j
				n++
			}
		}
	}
	if n == 0 {
		return 0, 0, false
	}
	return sx / n, sy / n, true
}

func detectFrom(image *bitutil.BitMatrix, x, y int) (*bitutil.BitMatrix, dmscan.Quadrilateral, error) {
	var none dmscan.Quadrilateral
	wr, err := newWhiteRectangle(image, x, y)
	if err != nil {
		return nil, none, err
	}
	corners, err := wr.detect()
	if err != nil {
		return nil, none, err
	}

	l := lFinder{image}
	points := l.detectSolid2(l.detectSolid1(corners))
	topRight, ok := l.correctTopRight(points)
	if !ok {
		return nil, none, fmt.Errorf("datamatrix/detector: top right corner outside image: %w", dmscan.ErrNotFound)
	}
	points[3] = topRight
	points = l.shiftToModuleCenter(points)
	topLeft, bottomLeft, bottomRight, topRight := points[0], points[1], points[2], points[3]

	dimTop := evenUp(transitionsBetween(image, topLeft, topRight) + 1)
	dimRight := evenUp(transitionsBetween(image, bottomRight, topRight) + 1)
	if 4*dimTop < 6*dimRight && 4*dimRight < 6*dimTop {
		// close enough to square
		dimTop = max(dimTop, dimRight)
		dimRight = dimTop
	}
	if err := checkSize(dimTop, dimRight); err != nil {
		return nil, none, err
	}

	// the points are module centres
	fx, fy := float64(dimTop), float64(dimRight)
	grid := transform.Quad{{X: 0.5, Y: 0.5}, {X: fx - 0.5, Y: 0.5}, {X: fx - 0.5, Y: fy - 0.5}, {X: 0.5, Y: fy - 0.5}}
	img := transform.Quad{toPoint(topLeft), toPoint(topRight), toPoint(bottomRight), toPoint(bottomLeft)}
	bits, err := transform.SampleGridQuad(image, dimTop, dimRight, grid, img)
	if err != nil {
		return nil, none, fmt.Errorf("datamatrix/detector: %w: %v", dmscan.ErrNotFound, err)
	}
	return bits, dmscan.Quadrilateral{topLeft, bottomLeft, bottomRight, topRight}, nil
}

func toPoint(p point) transform.Point { return transform.Point{X: p.X, Y: p.Y} }

// lFinder orders the white rectangle's corners around the finder pattern.
type lFinder struct {
	image *bitutil.BitMatrix
}

func (l lFinder) transitions(a, b point) int { return transitionsBetween(l.image, a, b) }

// detectSolid1 puts the side with the fewest transitions between the
// second and third points.
func (l lFinder) detectSolid1(corners [4]point) [4]point {
	// 0  2
	// 1  3
	a, b, c, d := corners[0], corners[1], corners[3], corners[2]

	trAB := l.transitions(a, b)
	trBC := l.transitions(b, c)
	trCD := l.transitions(c, d)
	trDA := l.transitions(d, a)

	// 0..3
	// :  :
	// 1--2
	least := trAB
	points := [4]point{d, a, b, c}
	if least > trBC {
		least = trBC
		points = [4]point{a, b, c, d}
	}
	if least > trCD {
		least = trCD
		points = [4]point{b, c, d, a}
	}
	if least > trDA {
		points = [4]point{c, d, a, b}
	}
	return points
}

// detectSolid2 finds the second solid side next to the first and rotates
// the points so the L runs from the first through the third point.
func (l lFinder) detectSolid2(points [4]point) [4]point {
	// A..D
	// :  :
	// B--C
	a, b, c, d := points[0], points[1], points[2], points[3]

	// transitions right on the edge are unstable, so look from inside
	tr := l.transitions(a, d)
	bs := shiftPoint(b, c, (tr+1)*4)
	cs := shiftPoint(c, b, (tr+1)*4)
	trBA := l.transitions(bs, a)
	trCD := l.transitions(cs, d)

	// 0..3
	// |  :
	// 1--2
	if trBA < trCD {
		return [4]point{a, b, c, d}
	}
	return [4]point{b, c, d, a}
}

// correctTopRight estimates the corner of the white top right module from
// the clock tracks.
func (l lFinder) correctTopRight(points [4]point) (point, bool) {
	// A..D
	// |  :
	// B--C
	a, b, c, d := points[0], points[1], points[2], points[3]

	trTop := l.transitions(a, d)
	trRight := l.transitions(b, d)
	as := shiftPoint(a, b, (trRight+1)*4)
	cs := shiftPoint(c, b, (trTop+1)*4)
	trTop = l.transitions(as, d)
	trRight = l.transitions(cs, d)

	c1 := point{
		X: d.X + (c.X-b.X)/float64(trTop+1),
		Y: d.Y + (c.Y-b.Y)/float64(trTop+1),
	}
	c2 := point{
		X: d.X + (a.X-b.X)/float64(trRight+1),
		Y: d.Y + (a.Y-b.Y)/float64(trRight+1),
	}

	ok1, ok2 := isInside(l.image, c1), isInside(l.image, c2)
	switch {
	case !ok1 && !ok2:
		return point{}, false
	case !ok1:
		return c2, true
	case !ok2:
		return c1, true
	}
	sum1 := l.transitions(as, c1) + l.transitions(cs, c1)
	sum2 := l.transitions(as, c2) + l.transitions(cs, c2)
	if sum1 > sum2 {
		return c1, true
	}
	return c2, true
}

// shiftToModuleCenter moves the corner points from the symbol's outline to
// the centres of the corner modules.
func (l lFinder) shiftToModuleCenter(points [4]point) [4]point {
	// A..D
	// |  :
	// B--C
	a, b, c, d := points[0], points[1], points[2], points[3]

	// pseudo dimensions, then more precise ones from inside the symbol
	dimH := l.transitions(a, d) + 1
	dimV := l.transitions(c, d) + 1
	as := shiftPoint(a, b, dimV*4)
	cs := shiftPoint(c, b, dimH*4)
	dimH = evenUp(l.transitions(as, d) + 1)
	dimV = evenUp(l.transitions(cs, d) + 1)

	// the rectangle corners are inside the symbol, we want them on its edge
	cx := (a.X + b.X + c.X + d.X) / 4
	cy := (a.Y + b.Y + c.Y + d.Y) / 4
	a = moveAway(a, cx, cy)
	b = moveAway(b, cx, cy)
	c = moveAway(c, cx, cy)
	d = moveAway(d, cx, cy)

	as = shiftPoint(shiftPoint(a, b, dimV*4), d, dimH*4)
	bs := shiftPoint(shiftPoint(b, a, dimV*4), c, dimH*4)
	cs = shiftPoint(shiftPoint(c, d, dimV*4), b, dimH*4)
	ds := shiftPoint(shiftPoint(d, c, dimV*4), a, dimH*4)
	return [4]point{as, bs, cs, ds}
}
