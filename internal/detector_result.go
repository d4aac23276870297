package internal

import (
	"github.com/ericlevine/dmscan"
	"github.com/ericlevine/dmscan/bitutil"
)

// Hypothesis is one candidate localization of a symbol: a rectified
// module grid and its outline in image coordinates. The grid is owned by
// the hypothesis until Take moves it out.
type Hypothesis struct {
	Valid    bool
	Bits     *bitutil.BitMatrix
	Position dmscan.Quadrilateral
}

// NewHypothesis returns a valid hypothesis.
func NewHypothesis(bits *bitutil.BitMatrix, position dmscan.Quadrilateral) Hypothesis {
	return Hypothesis{Valid: bits != nil, Bits: bits, Position: position}
}

// Take moves the grid and position out, leaving h invalid and empty.
func (h *Hypothesis) Take() (*bitutil.BitMatrix, dmscan.Quadrilateral) {
	bits, pos := h.Bits, h.Position
	*h = Hypothesis{}
	return bits, pos
}
