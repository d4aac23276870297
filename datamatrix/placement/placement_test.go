package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericlevine/dmscan/bitutil"
	"github.com/ericlevine/dmscan/datamatrix/symbol"
)

func TestLayoutCapacityMatchesSymbols(t *testing.T) {
	for i := range symbol.All() {
		s := &symbol.All()[i]
		l := For(s.MappingRows(), s.MappingCols())
		assert.Len(t, l.Codewords, s.TotalCodewords(), "%s", s)

		used := map[Module]bool{}
		for _, cw := range l.Codewords {
			for _, m := range cw {
				require.False(t, used[m], "%s module %+v placed twice", s, m)
				require.True(t, m.Row >= 0 && m.Row < l.Rows && m.Col >= 0 && m.Col < l.Cols)
				used[m] = true
			}
		}
	}
}

func TestLayoutCached(t *testing.T) {
	assert.Same(t, For(8, 8), For(8, 8))
}

func TestWriteReadRoundTrip(t *testing.T) {
	s, ok := symbol.ForSize(12, 26)
	require.True(t, ok)
	l := For(s.MappingRows(), s.MappingCols())

	codewords := make([]byte, s.TotalCodewords())
	for i := range codewords {
		codewords[i] = byte(i*53 + 7)
	}
	m := bitutil.NewBitMatrixWithSize(l.Cols, l.Rows)
	l.Write(m, codewords)
	assert.Equal(t, codewords, l.Read(m))
}

func TestFixedCornerPattern(t *testing.T) {
	// 12x12 symbols leave the bottom-right 2x2 of the 10x10 mapping matrix free.
	l := For(10, 10)
	require.Len(t, l.Codewords, 12)
	require.False(t, l.Filled.Get(9, 9))
	m := bitutil.NewBitMatrix(10)
	l.Write(m, make([]byte, len(l.Codewords)))
	assert.True(t, m.Get(9, 9))
	assert.True(t, m.Get(8, 8))
	assert.False(t, m.Get(8, 9))
	assert.False(t, m.Get(9, 8))
}
