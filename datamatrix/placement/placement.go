// Package placement computes where each codeword's eight modules sit in
// an ECC200 mapping matrix, the data area with finder and alignment
// patterns removed.
package placement

import (
	"sync"

	"github.com/ericlevine/dmscan/bitutil"
)

// Module is a position in the mapping matrix.
type Module struct {
	Row, Col int
}

// Codeword holds the modules of one codeword, most significant bit first.
type Codeword [8]Module

// Layout is the placement of every codeword in one matrix size.
type Layout struct {
	Rows, Cols int
	Codewords  []Codeword
	// Filled marks every module covered by a codeword. The bottom-right
	// 2x2 corner is left unfilled in some sizes and carries a fixed pattern.
	Filled *bitutil.BitMatrix
}

var cache sync.Map // [2]int -> *Layout

// For returns the layout of a rows x cols mapping matrix. Layouts are
// computed once and shared; callers must not modify them.
func For(rows, cols int) *Layout {
	key := [2]int{rows, cols}
	if v, ok := cache.Load(key); ok {
		return v.(*Layout)
	}
	v, _ := cache.LoadOrStore(key, walk(rows, cols))
	return v.(*Layout)
}

type walker struct {
	l *Layout
}

func walk(rows, cols int) *Layout {
	w := walker{l: &Layout{Rows: rows, Cols: cols, Filled: bitutil.NewBitMatrixWithSize(cols, rows)}}
	row, col := 4, 0
	for {
		switch {
		case row == rows && col == 0:
			w.corner1()
		case row == rows-2 && col == 0 && cols%4 != 0:
			w.corner2()
		case row == rows-2 && col == 0 && cols%8 == 4:
			w.corner3()
		case row == rows+4 && col == 2 && cols%8 == 0:
			w.corner4()
		}
		// sweep up and to the right
		for {
			if row >= 0 && row < rows && col >= 0 && col < cols && !w.l.Filled.Get(col, row) {
				w.utah(row, col)
			}
			row -= 2
			col += 2
			if row < 0 || col >= cols {
				break
			}
		}
		row++
		col += 3
		// then down and to the left
		for {
			if row >= 0 && row < rows && col >= 0 && col < cols && !w.l.Filled.Get(col, row) {
				w.utah(row, col)
			}
			row += 2
			col -= 2
			if row >= rows || col < 0 {
				break
			}
		}
		row += 3
		col++
		if row >= rows && col >= cols {
			break
		}
	}
	return w.l
}

// module wraps positions that fall off the top or left edge onto the
// opposite edge.
func (w *walker) module(row, col int) Module {
	rows, cols := w.l.Rows, w.l.Cols
	if row < 0 {
		row += rows
		col += 4 - ((rows + 4) % 8)
	}
	if col < 0 {
		col += cols
		row += 4 - ((cols + 4) % 8)
	}
	if row >= rows {
		row -= rows
	}
	if col >= cols {
		col -= cols
	}
	w.l.Filled.Set(col, row)
	return Module{Row: row, Col: col}
}

func (w *walker) add(pts [8][2]int) {
	var cw Codeword
	for i, p := range pts {
		cw[i] = w.module(p[0], p[1])
	}
	w.l.Codewords = append(w.l.Codewords, cw)
}

// utah places the nominal codeword shape whose last module is (row, col).
func (w *walker) utah(row, col int) {
	w.add([8][2]int{
		{row - 2, col - 2}, {row - 2, col - 1},
		{row - 1, col - 2}, {row - 1, col - 1}, {row - 1, col},
		{row, col - 2}, {row, col - 1}, {row, col},
	})
}

func (w *walker) corner1() {
	r, c := w.l.Rows, w.l.Cols
	w.add([8][2]int{
		{r - 1, 0}, {r - 1, 1}, {r - 1, 2},
		{0, c - 2}, {0, c - 1}, {1, c - 1}, {2, c - 1}, {3, c - 1},
	})
}

func (w *walker) corner2() {
	r, c := w.l.Rows, w.l.Cols
	w.add([8][2]int{
		{r - 3, 0}, {r - 2, 0}, {r - 1, 0},
		{0, c - 4}, {0, c - 3}, {0, c - 2}, {0, c - 1}, {1, c - 1},
	})
}

func (w *walker) corner3() {
	r, c := w.l.Rows, w.l.Cols
	w.add([8][2]int{
		{r - 3, 0}, {r - 2, 0}, {r - 1, 0},
		{0, c - 2}, {0, c - 1}, {1, c - 1}, {2, c - 1}, {3, c - 1},
	})
}

func (w *walker) corner4() {
	r, c := w.l.Rows, w.l.Cols
	w.add([8][2]int{
		{r - 1, 0}, {r - 1, c - 1},
		{0, c - 3}, {0, c - 2}, {0, c - 1},
		{1, c - 3}, {1, c - 2}, {1, c - 1},
	})
}

// Read extracts all codewords from a mapping matrix of the layout's size.
func (l *Layout) Read(m *bitutil.BitMatrix) []byte {
	out := make([]byte, len(l.Codewords))
	for i, cw := range l.Codewords {
		var v byte
		for _, mod := range cw {
			v <<= 1
			if m.Get(mod.Col, mod.Row) {
				v |= 1
			}
		}
		out[i] = v
	}
	return out
}

// Write draws codewords into a mapping matrix of the layout's size and
// sets the fixed pattern in an unfilled bottom-right corner. Extra
// codewords beyond the layout's capacity are ignored.
func (l *Layout) Write(m *bitutil.BitMatrix, codewords []byte) {
	for i, cw := range l.Codewords {
		if i >= len(codewords) {
			break
		}
		for bit, mod := range cw {
			m.SetBit(mod.Col, mod.Row, codewords[i]&(0x80>>uint(bit)) != 0)
		}
	}
	if !l.Filled.Get(l.Cols-1, l.Rows-1) {
		m.Set(l.Cols-1, l.Rows-1)
		m.Set(l.Cols-2, l.Rows-2)
	}
}
