package decoder

import "github.com/ericlevine/dmscan/datamatrix/symbol"

// dataBlock is one Reed-Solomon block gathered from the interleaved stream.
type dataBlock struct {
	block     symbol.Block
	codewords []byte
}

// splitBlocks de-interleaves raw into the symbol's blocks.
func splitBlocks(raw []byte, sym *symbol.Symbol) []dataBlock {
	layout := sym.Blocks()
	blocks := make([]dataBlock, len(layout))
	for i, b := range layout {
		cw := make([]byte, len(b.Positions))
		for j, p := range b.Positions {
			cw[j] = raw[p]
		}
		blocks[i] = dataBlock{block: b, codewords: cw}
	}
	return blocks
}
