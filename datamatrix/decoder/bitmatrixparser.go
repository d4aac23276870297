package decoder

import (
	"fmt"

	"github.com/ericlevine/dmscan"
	"github.com/ericlevine/dmscan/bitutil"
	"github.com/ericlevine/dmscan/datamatrix/placement"
	"github.com/ericlevine/dmscan/datamatrix/symbol"
)

// readCodewords reads the interleaved codeword stream from a full symbol
// grid, finder and clock patterns included.
func readCodewords(bits *bitutil.BitMatrix) ([]byte, *symbol.Symbol, error) {
	sym, ok := symbol.ForSize(bits.Height(), bits.Width())
	if !ok {
		return nil, nil, fmt.Errorf("datamatrix/decoder: no %dx%d symbol: %w", bits.Height(), bits.Width(), dmscan.ErrFormat)
	}

	layout := placement.For(sym.MappingRows(), sym.MappingCols())
	if len(layout.Codewords) != sym.TotalCodewords() {
		return nil, nil, fmt.Errorf("datamatrix/decoder: expected %d codewords but placement holds %d: %w",
			sym.TotalCodewords(), len(layout.Codewords), dmscan.ErrFormat)
	}
	return layout.Read(extractDataRegion(bits, sym)), sym, nil
}

// extractDataRegion removes the finder and clock patterns around each data
// region and tiles the regions into the mapping matrix.
func extractDataRegion(bits *bitutil.BitMatrix, sym *symbol.Symbol) *bitutil.BitMatrix {
	mapping := bitutil.NewBitMatrixWithSize(sym.MappingCols(), sym.MappingRows())
	for regionRow := 0; regionRow < sym.RegionsVertical(); regionRow++ {
		for regionCol := 0; regionCol < sym.RegionsHorizontal(); regionCol++ {
			for i := 0; i < sym.RegionRows; i++ {
				readRow := regionRow*(sym.RegionRows+2) + 1 + i
				writeRow := regionRow*sym.RegionRows + i
				for j := 0; j < sym.RegionCols; j++ {
					readCol := regionCol*(sym.RegionCols+2) + 1 + j
					if bits.Get(readCol, readRow) {
						mapping.Set(regionCol*sym.RegionCols+j, writeRow)
					}
				}
			}
		}
	}
	return mapping
}
