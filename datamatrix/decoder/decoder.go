// Package decoder turns a sampled Data Matrix ECC200 module grid into its
// decoded payload.
package decoder

import (
	"fmt"

	"github.com/ericlevine/dmscan"
	"github.com/ericlevine/dmscan/bitutil"
	"github.com/ericlevine/dmscan/internal"
	"github.com/ericlevine/dmscan/reedsolomon"
)

// Decoder decodes Data Matrix ECC200 module grids. It is safe for
// concurrent use.
type Decoder struct {
	rs *reedsolomon.Decoder
}

// NewDecoder creates a new Data Matrix Decoder.
func NewDecoder() *Decoder {
	return &Decoder{rs: reedsolomon.NewDecoder(reedsolomon.DataMatrixField256)}
}

// Decode decodes a full symbol grid, one bit per module including the
// finder and clock patterns. characterSet names the encoding of byte data
// not preceded by an ECI and may be empty.
//
// Unknown grid sizes and malformed data return errors wrapping
// dmscan.ErrFormat; uncorrectable blocks wrap dmscan.ErrChecksum.
func (d *Decoder) Decode(bits *bitutil.BitMatrix, characterSet string) (*internal.DecoderResult, error) {
	raw, sym, err := readCodewords(bits)
	if err != nil {
		return nil, err
	}

	data := make([]byte, sym.DataCodewords())
	corrected := 0
	for i, db := range splitBlocks(raw, sym) {
		n, err := d.correctErrors(db.codewords, db.block.EC)
		if err != nil {
			return nil, fmt.Errorf("datamatrix/decoder: block %d of %s: %w", i, sym, err)
		}
		corrected += n
		for j := 0; j < db.block.Data; j++ {
			data[db.block.Positions[j]] = db.codewords[j]
		}
	}

	res, err := parse(data, characterSet)
	if err != nil {
		return nil, err
	}
	res.ECLevel = "ECC200"
	res.ErrorsCorrected = corrected
	return res, nil
}

// correctErrors repairs block in place and returns the number of
// corrected codewords.
func (d *Decoder) correctErrors(block []byte, ecCount int) (int, error) {
	ints := make([]int, len(block))
	for i, b := range block {
		ints[i] = int(b)
	}
	n, err := d.rs.Decode(ints, ecCount)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", dmscan.ErrChecksum, err)
	}
	for i := range block {
		block[i] = byte(ints[i])
	}
	return n, nil
}
