package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericlevine/dmscan"
)

func TestTableShape(t *testing.T) {
	all := All()
	require.Len(t, all, 48)
	square, rectangular, extended := 0, 0, 0
	for i := range all {
		s := &all[i]
		assert.Equal(t, i+1, s.Number)
		assert.Zero(t, s.Rows%2, "%s", s)
		assert.Zero(t, s.Cols%2, "%s", s)
		assert.Equal(t, s.Rows, s.RegionsVertical()*(s.RegionRows+2), "%s", s)
		assert.Equal(t, s.Cols, s.RegionsHorizontal()*(s.RegionCols+2), "%s", s)
		switch {
		case s.DMRE:
			extended++
		case s.Square():
			square++
		default:
			rectangular++
		}
	}
	assert.Equal(t, 24, square)
	assert.Equal(t, 6, rectangular)
	assert.Equal(t, 18, extended)
}

func TestForSize(t *testing.T) {
	s, ok := ForSize(144, 144)
	require.True(t, ok)
	assert.Equal(t, 1558, s.DataCodewords())
	assert.Equal(t, 620, s.ECCodewords())
	assert.Equal(t, 10, s.NumBlocks())

	s, ok = ForSize(8, 18)
	require.True(t, ok)
	assert.Equal(t, 5, s.DataCodewords())
	assert.Equal(t, "8x18", s.String())

	_, ok = ForSize(11, 11)
	assert.False(t, ok)
	assert.True(t, IsValidSize(26, 64))
	assert.False(t, IsValidSize(64, 26))
}

func TestBlocksArePermutation(t *testing.T) {
	for i := range All() {
		s := &All()[i]
		seen := make([]bool, s.TotalCodewords())
		data := 0
		for _, b := range s.Blocks() {
			require.Len(t, b.Positions, b.Data+b.EC)
			data += b.Data
			for _, p := range b.Positions {
				require.False(t, seen[p], "%s position %d used twice", s, p)
				seen[p] = true
			}
		}
		assert.Equal(t, s.DataCodewords(), data, "%s", s)
		for p, ok := range seen {
			assert.True(t, ok, "%s position %d unused", s, p)
		}
	}
}

func TestBlocksLargestSymbol(t *testing.T) {
	s, _ := ForSize(144, 144)
	blocks := s.Blocks()
	assert.Equal(t, 156, blocks[0].Data)
	assert.Equal(t, 155, blocks[9].Data)
	// data codewords are dealt round robin
	assert.Equal(t, 0, blocks[0].Positions[0])
	assert.Equal(t, 9, blocks[9].Positions[0])
	assert.Equal(t, 1550, blocks[0].Positions[155])
	// error correction starts with the first short block
	assert.Equal(t, 1558, blocks[8].Positions[155])
	assert.Equal(t, 1560, blocks[0].Positions[156])
}

func TestLookup(t *testing.T) {
	s, err := Lookup(3, dmscan.ShapeNone, nil, nil, false)
	require.NoError(t, err)
	assert.Equal(t, "10x10", s.String())

	s, err = Lookup(9, dmscan.ShapeNone, nil, nil, false)
	require.NoError(t, err)
	assert.Equal(t, "8x32", s.String())

	s, err = Lookup(9, dmscan.ShapeSquare, nil, nil, false)
	require.NoError(t, err)
	assert.Equal(t, "16x16", s.String())

	s, err = Lookup(1, dmscan.ShapeRectangle, nil, nil, false)
	require.NoError(t, err)
	assert.Equal(t, "8x18", s.String())

	s, err = Lookup(1, dmscan.ShapeNone, &dmscan.Dimension{Width: 20, Height: 20}, nil, false)
	require.NoError(t, err)
	assert.Equal(t, "20x20", s.String())

	s, err = Lookup(17, dmscan.ShapeRectangle, nil, nil, true)
	require.NoError(t, err)
	assert.Equal(t, "8x48", s.String())

	_, err = Lookup(1559, dmscan.ShapeNone, nil, nil, true)
	assert.ErrorIs(t, err, dmscan.ErrWriter)

	_, err = Lookup(10, dmscan.ShapeNone, nil, &dmscan.Dimension{Width: 12, Height: 12}, false)
	assert.ErrorIs(t, err, dmscan.ErrWriter)
}
