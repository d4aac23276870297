package bitutil

import (
	"fmt"
	"math/bits"
	"strings"
)

// BitMatrix is a packed 2D grid of bits. x is the column, y is the row and
// the origin is the top-left corner. A set bit is a black pixel or module.
type BitMatrix struct {
	width   int
	height  int
	rowSize int
	data    []uint32
}

// Rect is an axis-aligned rectangle in matrix coordinates.
type Rect struct {
	Left, Top, Width, Height int
}

// Right returns the last column inside the rectangle.
func (r Rect) Right() int { return r.Left + r.Width - 1 }

// Bottom returns the last row inside the rectangle.
func (r Rect) Bottom() int { return r.Top + r.Height - 1 }

// NewBitMatrix creates a square BitMatrix.
func NewBitMatrix(dimension int) *BitMatrix {
	return NewBitMatrixWithSize(dimension, dimension)
}

// NewBitMatrixWithSize creates an empty BitMatrix of the given size.
func NewBitMatrixWithSize(width, height int) *BitMatrix {
	if width < 1 || height < 1 {
		panic("bitmatrix: dimensions must be greater than 0")
	}
	rowSize := (width + 31) / 32
	return &BitMatrix{
		width:   width,
		height:  height,
		rowSize: rowSize,
		data:    make([]uint32, rowSize*height),
	}
}

// ParseStringMatrix builds a BitMatrix from rows of setStr/unsetStr tokens
// separated by newlines. Rows must all have the same length.
func ParseStringMatrix(repr, setStr, unsetStr string) (*BitMatrix, error) {
	var rows [][]bool
	for _, line := range strings.FieldsFunc(repr, func(r rune) bool { return r == '\n' || r == '\r' }) {
		var row []bool
		for pos := 0; pos < len(line); {
			switch {
			case strings.HasPrefix(line[pos:], setStr):
				row = append(row, true)
				pos += len(setStr)
			case strings.HasPrefix(line[pos:], unsetStr):
				row = append(row, false)
				pos += len(unsetStr)
			default:
				return nil, fmt.Errorf("bitmatrix: illegal character %q at row %d", line[pos], len(rows))
			}
		}
		if len(row) == 0 {
			continue
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, fmt.Errorf("bitmatrix: row %d has %d bits, want %d", len(rows), len(row), len(rows[0]))
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("bitmatrix: empty matrix")
	}
	m := NewBitMatrixWithSize(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, on := range row {
			if on {
				m.Set(x, y)
			}
		}
	}
	return m, nil
}

// Get returns true if the bit at (x, y) is set.
func (bm *BitMatrix) Get(x, y int) bool {
	offset := y*bm.rowSize + x/32
	return (bm.data[offset]>>uint(x&0x1f))&1 != 0
}

// GetSafe is Get that reports false for coordinates outside the matrix.
func (bm *BitMatrix) GetSafe(x, y int) bool {
	if x < 0 || y < 0 || x >= bm.width || y >= bm.height {
		return false
	}
	return bm.Get(x, y)
}

// Set sets the bit at (x, y).
func (bm *BitMatrix) Set(x, y int) {
	offset := y*bm.rowSize + x/32
	bm.data[offset] |= 1 << uint(x&0x1f)
}

// SetBit sets or clears the bit at (x, y).
func (bm *BitMatrix) SetBit(x, y int, on bool) {
	if on {
		bm.Set(x, y)
	} else {
		bm.Unset(x, y)
	}
}

// Unset clears the bit at (x, y).
func (bm *BitMatrix) Unset(x, y int) {
	offset := y*bm.rowSize + x/32
	bm.data[offset] &^= 1 << uint(x&0x1f)
}

// Flip flips the bit at (x, y).
func (bm *BitMatrix) Flip(x, y int) {
	offset := y*bm.rowSize + x/32
	bm.data[offset] ^= 1 << uint(x&0x1f)
}

// Clear clears all bits.
func (bm *BitMatrix) Clear() {
	for i := range bm.data {
		bm.data[i] = 0
	}
}

// SetRegion sets a rectangular region of bits.
func (bm *BitMatrix) SetRegion(left, top, width, height int) {
	if top < 0 || left < 0 {
		panic("bitmatrix: left and top must be nonnegative")
	}
	if height < 1 || width < 1 {
		panic("bitmatrix: height and width must be at least 1")
	}
	right := left + width
	bottom := top + height
	if bottom > bm.height || right > bm.width {
		panic("bitmatrix: region must fit inside the matrix")
	}
	for y := top; y < bottom; y++ {
		offset := y * bm.rowSize
		for x := left; x < right; x++ {
			bm.data[offset+x/32] |= 1 << uint(x&0x1f)
		}
	}
}

// CountInRow returns the number of set bits in row y.
func (bm *BitMatrix) CountInRow(y int) int {
	n := 0
	for _, w := range bm.data[y*bm.rowSize : (y+1)*bm.rowSize] {
		n += bits.OnesCount32(w)
	}
	return n
}

// Rotate90 rotates the matrix 90 degrees counterclockwise in place.
func (bm *BitMatrix) Rotate90() {
	rotated := NewBitMatrixWithSize(bm.height, bm.width)
	for y := 0; y < bm.height; y++ {
		for x := 0; x < bm.width; x++ {
			if bm.Get(x, y) {
				rotated.Set(y, bm.width-1-x)
			}
		}
	}
	*bm = *rotated
}

// Rotate180 rotates the matrix 180 degrees in place.
func (bm *BitMatrix) Rotate180() {
	rotated := NewBitMatrixWithSize(bm.width, bm.height)
	for y := 0; y < bm.height; y++ {
		for x := 0; x < bm.width; x++ {
			if bm.Get(x, y) {
				rotated.Set(bm.width-1-x, bm.height-1-y)
			}
		}
	}
	*bm = *rotated
}

// EnclosingRectangle returns the smallest rectangle containing every set
// bit. ok is false when no bit is set.
func (bm *BitMatrix) EnclosingRectangle() (r Rect, ok bool) {
	left, top := bm.width, bm.height
	right, bottom := -1, -1

	for y := 0; y < bm.height; y++ {
		for x32 := 0; x32 < bm.rowSize; x32++ {
			w := bm.data[y*bm.rowSize+x32]
			if w == 0 {
				continue
			}
			if y < top {
				top = y
			}
			if y > bottom {
				bottom = y
			}
			if lo := x32*32 + bits.TrailingZeros32(w); lo < left {
				left = lo
			}
			if hi := x32*32 + 31 - bits.LeadingZeros32(w); hi > right {
				right = hi
			}
		}
	}

	if right < left || bottom < top {
		return Rect{}, false
	}
	return Rect{Left: left, Top: top, Width: right - left + 1, Height: bottom - top + 1}, true
}

// TopLeftOnBit returns the first set bit in row-major order.
func (bm *BitMatrix) TopLeftOnBit() (x, y int, ok bool) {
	offset := 0
	for offset < len(bm.data) && bm.data[offset] == 0 {
		offset++
	}
	if offset == len(bm.data) {
		return 0, 0, false
	}
	y = offset / bm.rowSize
	x = (offset%bm.rowSize)*32 + bits.TrailingZeros32(bm.data[offset])
	return x, y, true
}

// BottomRightOnBit returns the last set bit in row-major order.
func (bm *BitMatrix) BottomRightOnBit() (x, y int, ok bool) {
	offset := len(bm.data) - 1
	for offset >= 0 && bm.data[offset] == 0 {
		offset--
	}
	if offset < 0 {
		return 0, 0, false
	}
	y = offset / bm.rowSize
	x = (offset%bm.rowSize)*32 + 31 - bits.LeadingZeros32(bm.data[offset])
	return x, y, true
}

// Width returns the width.
func (bm *BitMatrix) Width() int { return bm.width }

// Height returns the height.
func (bm *BitMatrix) Height() int { return bm.height }

// Clone returns a deep copy of the BitMatrix.
func (bm *BitMatrix) Clone() *BitMatrix {
	d := make([]uint32, len(bm.data))
	copy(d, bm.data)
	return &BitMatrix{width: bm.width, height: bm.height, rowSize: bm.rowSize, data: d}
}

// String renders the matrix with "X " for set and "  " for unset bits.
func (bm *BitMatrix) String() string {
	return bm.StringWithChars("X ", "  ")
}

// StringWithChars renders the matrix with the given tokens.
func (bm *BitMatrix) StringWithChars(setString, unsetString string) string {
	var sb strings.Builder
	sb.Grow(bm.height * (bm.width*len(setString) + 1))
	for y := 0; y < bm.height; y++ {
		for x := 0; x < bm.width; x++ {
			if bm.Get(x, y) {
				sb.WriteString(setString)
			} else {
				sb.WriteString(unsetString)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Equals reports whether both matrices have the same size and bits.
func (bm *BitMatrix) Equals(other *BitMatrix) bool {
	if other == nil || bm.width != other.width || bm.height != other.height {
		return false
	}
	for i := range bm.data {
		if bm.data[i] != other.data[i] {
			return false
		}
	}
	return true
}
