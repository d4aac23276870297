// Package symbol describes the ECC200 symbol sizes: their module layout,
// Reed-Solomon block structure and codeword interleaving.
package symbol

import (
	"fmt"

	"github.com/ericlevine/dmscan"
)

// BlockGroup is Count blocks of Data data codewords each.
type BlockGroup struct {
	Count int
	Data  int
}

// Symbol is one ECC200 symbol size.
type Symbol struct {
	Number     int
	Rows, Cols int // including finder and clock patterns
	RegionRows int
	RegionCols int
	ECPerBlock int
	Groups     []BlockGroup
	DMRE       bool // rectangular extension sizes (ISO 21471)
}

func sq(n, size, region, ec int, groups ...BlockGroup) Symbol {
	return Symbol{Number: n, Rows: size, Cols: size, RegionRows: region, RegionCols: region, ECPerBlock: ec, Groups: groups}
}

func rect(n, rows, cols, regionRows, regionCols, ec int, groups ...BlockGroup) Symbol {
	return Symbol{Number: n, Rows: rows, Cols: cols, RegionRows: regionRows, RegionCols: regionCols, ECPerBlock: ec, Groups: groups}
}

func dmre(n, rows, cols, regionRows, regionCols, ec, data int) Symbol {
	s := rect(n, rows, cols, regionRows, regionCols, ec, BlockGroup{1, data})
	s.DMRE = true
	return s
}

// ISO/IEC 16022 Table 7 and ISO 21471 Table 7.
var symbols = []Symbol{
	sq(1, 10, 8, 5, BlockGroup{1, 3}),
	sq(2, 12, 10, 7, BlockGroup{1, 5}),
	sq(3, 14, 12, 10, BlockGroup{1, 8}),
	sq(4, 16, 14, 12, BlockGroup{1, 12}),
	sq(5, 18, 16, 14, BlockGroup{1, 18}),
	sq(6, 20, 18, 18, BlockGroup{1, 22}),
	sq(7, 22, 20, 20, BlockGroup{1, 30}),
	sq(8, 24, 22, 24, BlockGroup{1, 36}),
	sq(9, 26, 24, 28, BlockGroup{1, 44}),
	sq(10, 32, 14, 36, BlockGroup{1, 62}),
	sq(11, 36, 16, 42, BlockGroup{1, 86}),
	sq(12, 40, 18, 48, BlockGroup{1, 114}),
	sq(13, 44, 20, 56, BlockGroup{1, 144}),
	sq(14, 48, 22, 68, BlockGroup{1, 174}),
	sq(15, 52, 24, 42, BlockGroup{2, 102}),
	sq(16, 64, 14, 56, BlockGroup{2, 140}),
	sq(17, 72, 16, 36, BlockGroup{4, 92}),
	sq(18, 80, 18, 48, BlockGroup{4, 114}),
	sq(19, 88, 20, 56, BlockGroup{4, 144}),
	sq(20, 96, 22, 68, BlockGroup{4, 174}),
	sq(21, 104, 24, 56, BlockGroup{6, 136}),
	sq(22, 120, 18, 68, BlockGroup{6, 175}),
	sq(23, 132, 20, 62, BlockGroup{8, 163}),
	sq(24, 144, 22, 62, BlockGroup{8, 156}, BlockGroup{2, 155}),

	rect(25, 8, 18, 6, 16, 7, BlockGroup{1, 5}),
	rect(26, 8, 32, 6, 14, 11, BlockGroup{1, 10}),
	rect(27, 12, 26, 10, 24, 14, BlockGroup{1, 16}),
	rect(28, 12, 36, 10, 16, 18, BlockGroup{1, 22}),
	rect(29, 16, 36, 14, 16, 24, BlockGroup{1, 32}),
	rect(30, 16, 48, 14, 22, 28, BlockGroup{1, 49}),

	dmre(31, 8, 48, 6, 22, 15, 18),
	dmre(32, 8, 64, 6, 14, 18, 24),
	dmre(33, 8, 80, 6, 18, 22, 32),
	dmre(34, 8, 96, 6, 22, 28, 38),
	dmre(35, 8, 120, 6, 18, 32, 49),
	dmre(36, 8, 144, 6, 22, 36, 63),
	dmre(37, 12, 64, 10, 14, 27, 43),
	dmre(38, 12, 88, 10, 20, 36, 64),
	dmre(39, 16, 64, 14, 14, 36, 62),
	dmre(40, 20, 36, 18, 16, 28, 44),
	dmre(41, 20, 44, 18, 20, 34, 56),
	dmre(42, 20, 64, 18, 14, 42, 84),
	dmre(43, 22, 48, 20, 22, 38, 72),
	dmre(44, 24, 48, 22, 22, 41, 80),
	dmre(45, 24, 64, 22, 14, 46, 108),
	dmre(46, 26, 40, 24, 18, 38, 70),
	dmre(47, 26, 48, 24, 22, 42, 90),
	dmre(48, 26, 64, 24, 14, 50, 118),
}

// All returns every symbol size, square sizes first.
func All() []Symbol { return symbols }

// ForSize returns the symbol with the given module dimensions.
func ForSize(rows, cols int) (*Symbol, bool) {
	for i := range symbols {
		if symbols[i].Rows == rows && symbols[i].Cols == cols {
			return &symbols[i], true
		}
	}
	return nil, false
}

// IsValidSize reports whether rows x cols is an ECC200 size.
func IsValidSize(rows, cols int) bool {
	_, ok := ForSize(rows, cols)
	return ok
}

// Square reports whether the symbol is square.
func (s *Symbol) Square() bool { return s.Rows == s.Cols }

// NumBlocks returns the number of interleaved Reed-Solomon blocks.
func (s *Symbol) NumBlocks() int {
	n := 0
	for _, g := range s.Groups {
		n += g.Count
	}
	return n
}

// DataCodewords returns the data capacity in codewords.
func (s *Symbol) DataCodewords() int {
	n := 0
	for _, g := range s.Groups {
		n += g.Count * g.Data
	}
	return n
}

// ECCodewords returns the number of error correction codewords.
func (s *Symbol) ECCodewords() int { return s.NumBlocks() * s.ECPerBlock }

// TotalCodewords returns data plus error correction codewords.
func (s *Symbol) TotalCodewords() int { return s.DataCodewords() + s.ECCodewords() }

// RegionsHorizontal returns the number of data regions per row.
func (s *Symbol) RegionsHorizontal() int { return s.Cols / (s.RegionCols + 2) }

// RegionsVertical returns the number of data regions per column.
func (s *Symbol) RegionsVertical() int { return s.Rows / (s.RegionRows + 2) }

// MappingRows returns the height of the data area with patterns removed.
func (s *Symbol) MappingRows() int { return s.RegionsVertical() * s.RegionRows }

// MappingCols returns the width of the data area with patterns removed.
func (s *Symbol) MappingCols() int { return s.RegionsHorizontal() * s.RegionCols }

func (s *Symbol) String() string {
	return fmt.Sprintf("%dx%d", s.Rows, s.Cols)
}

// Lookup returns the smallest symbol holding dataCodewords that satisfies
// the shape and size constraints. DMRE sizes are only considered when
// allowDMRE is set.
func Lookup(dataCodewords int, shape dmscan.SymbolShape, minSize, maxSize *dmscan.Dimension, allowDMRE bool) (*Symbol, error) {
	var best *Symbol
	for i := range symbols {
		s := &symbols[i]
		switch {
		case s.DMRE && !allowDMRE,
			shape == dmscan.ShapeSquare && !s.Square(),
			shape == dmscan.ShapeRectangle && s.Square(),
			minSize != nil && (s.Cols < minSize.Width || s.Rows < minSize.Height),
			maxSize != nil && (s.Cols > maxSize.Width || s.Rows > maxSize.Height),
			s.DataCodewords() < dataCodewords:
			continue
		}
		if best == nil || s.DataCodewords() < best.DataCodewords() {
			best = s
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: no symbol holds %d data codewords", dmscan.ErrWriter, dataCodewords)
	}
	return best, nil
}
