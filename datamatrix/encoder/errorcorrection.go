package encoder

import (
	"fmt"

	"github.com/ericlevine/dmscan"
	"github.com/ericlevine/dmscan/datamatrix/symbol"
	"github.com/ericlevine/dmscan/reedsolomon"
)

var rsEncoder = reedsolomon.NewEncoder(reedsolomon.DataMatrixField256)

// encodeECC200 appends the interleaved Reed-Solomon codewords to a full set
// of data codewords and returns the complete codeword stream.
func encodeECC200(data []byte, sym *symbol.Symbol) ([]byte, error) {
	if len(data) != sym.DataCodewords() {
		return nil, fmt.Errorf("datamatrix/encoder: %s expects %d data codewords, got %d: %w",
			sym, sym.DataCodewords(), len(data), dmscan.ErrWriter)
	}

	out := make([]byte, sym.TotalCodewords())
	copy(out, data)
	for _, b := range sym.Blocks() {
		block := make([]int, b.Data+b.EC)
		for i := 0; i < b.Data; i++ {
			block[i] = int(data[b.Positions[i]])
		}
		if err := rsEncoder.Encode(block, b.EC); err != nil {
			return nil, fmt.Errorf("datamatrix/encoder: %w: %v", dmscan.ErrWriter, err)
		}
		for i := b.Data; i < len(block); i++ {
			out[b.Positions[i]] = byte(block[i])
		}
	}
	return out, nil
}
