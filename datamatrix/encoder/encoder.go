// Package encoder builds Data Matrix ECC200 symbols.
package encoder

import (
	"fmt"

	"github.com/ericlevine/dmscan"
	"github.com/ericlevine/dmscan/bitutil"
	"github.com/ericlevine/dmscan/datamatrix/placement"
	"github.com/ericlevine/dmscan/datamatrix/symbol"
)

// Encode encodes contents into the smallest symbol allowed by opts. The
// result has one bit per module and no quiet zone. Empty contents yield a
// symbol holding only padding.
func Encode(contents string, opts *dmscan.EncodeOptions) (*bitutil.BitMatrix, error) {
	return EncodeCodewords(EncodeHighLevel(contents), opts)
}

// EncodeCodewords builds a symbol from already encoded data codewords,
// padding them to the chosen symbol's capacity.
func EncodeCodewords(data []byte, opts *dmscan.EncodeOptions) (*bitutil.BitMatrix, error) {
	if opts == nil {
		opts = &dmscan.EncodeOptions{}
	}
	sym, err := symbol.Lookup(len(data), opts.Shape, opts.MinSize, opts.MaxSize, opts.AllowDMRE)
	if err != nil {
		return nil, err
	}
	codewords, err := encodeECC200(PadCodewords(data, sym.DataCodewords()), sym)
	if err != nil {
		return nil, err
	}

	layout := placement.For(sym.MappingRows(), sym.MappingCols())
	if len(layout.Codewords) != len(codewords) {
		return nil, fmt.Errorf("datamatrix/encoder: %s places %d of %d codewords: %w",
			sym, len(layout.Codewords), len(codewords), dmscan.ErrWriter)
	}
	mapping := bitutil.NewBitMatrixWithSize(layout.Cols, layout.Rows)
	layout.Write(mapping, codewords)
	return encodeLowLevel(mapping, sym), nil
}

// encodeLowLevel draws the finder and clock patterns of every data region
// and copies the mapping matrix into the region interiors.
func encodeLowLevel(mapping *bitutil.BitMatrix, sym *symbol.Symbol) *bitutil.BitMatrix {
	matrix := bitutil.NewBitMatrixWithSize(sym.Cols, sym.Rows)
	h, w := sym.RegionRows+2, sym.RegionCols+2

	for vRegion := 0; vRegion < sym.RegionsVertical(); vRegion++ {
		for hRegion := 0; hRegion < sym.RegionsHorizontal(); hRegion++ {
			x0, y0 := hRegion*w, vRegion*h

			// solid L on the left and bottom
			for y := 0; y < h; y++ {
				matrix.Set(x0, y0+y)
			}
			for x := 0; x < w; x++ {
				matrix.Set(x0+x, y0+h-1)
			}
			// clock track along the top and right, dark at the corners of the L
			for x := 0; x < w; x += 2 {
				matrix.Set(x0+x, y0)
			}
			for y := 1; y < h; y += 2 {
				matrix.Set(x0+w-1, y0+y)
			}

			for r := 0; r < sym.RegionRows; r++ {
				for c := 0; c < sym.RegionCols; c++ {
					if mapping.Get(hRegion*sym.RegionCols+c, vRegion*sym.RegionRows+r) {
						matrix.Set(x0+c+1, y0+r+1)
					}
				}
			}
		}
	}
	return matrix
}
