package detector

import (
	"math"

	"github.com/ericlevine/dmscan"
	"github.com/ericlevine/dmscan/bitutil"
)

type point = dmscan.ResultPoint

// shiftPoint moves p towards to by 1/(div+1) of the distance.
func shiftPoint(p, to point, div int) point {
	x := (to.X - p.X) / float64(div+1)
	y := (to.Y - p.Y) / float64(div+1)
	return point{X: p.X + x, Y: p.Y + y}
}

// moveAway moves p one pixel away from (fromX, fromY) on both axes.
func moveAway(p point, fromX, fromY float64) point {
	x, y := p.X+1, p.Y+1
	if p.X < fromX {
		x = p.X - 1
	}
	if p.Y < fromY {
		y = p.Y - 1
	}
	return point{X: x, Y: y}
}

// transitionsBetween counts black/white transitions on the Bresenham line
// from a to b, b excluded.
func transitionsBetween(image *bitutil.BitMatrix, from, to point) int {
	fromX, fromY := int(from.X), int(from.Y)
	toX, toY := int(to.X), int(to.Y)
	toY = min(toY, image.Height()-1)

	steep := iabs(toY-fromY) > iabs(toX-fromX)
	if steep {
		fromX, fromY = fromY, fromX
		toX, toY = toY, toX
	}
	get := func(x, y int) bool {
		if steep {
			return image.GetSafe(y, x)
		}
		return image.GetSafe(x, y)
	}

	dx, dy := iabs(toX-fromX), iabs(toY-fromY)
	e := -dx / 2
	xstep, ystep := 1, 1
	if fromX > toX {
		xstep = -1
	}
	if fromY > toY {
		ystep = -1
	}

	transitions := 0
	inBlack := get(fromX, fromY)
	y := fromY
	for x := fromX; x != toX; x += xstep {
		if black := get(x, y); black != inBlack {
			transitions++
			inBlack = black
		}
		e += dy
		if e > 0 {
			if y == toY {
				break
			}
			y += ystep
			e -= dx
		}
	}
	return transitions
}

// isInside reports whether p lies on the image.
func isInside(image *bitutil.BitMatrix, p point) bool {
	return p.X >= 0 && p.X <= float64(image.Width()-1) && p.Y > 0 && p.Y <= float64(image.Height()-1)
}

// quadArea returns the area of a simple polygon given in order.
func quadArea(q [4]point) float64 {
	a := 0.0
	for i := range q {
		j := (i + 1) % 4
		a += q[i].X*q[j].Y - q[j].X*q[i].Y
	}
	return math.Abs(a) / 2
}

func iabs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// mathRound rounds half away from zero.
func mathRound(d float64) int {
	if d < 0 {
		return int(d - 0.5)
	}
	return int(d + 0.5)
}

func evenUp(n int) int {
	if n&1 == 1 {
		return n + 1
	}
	return n
}
