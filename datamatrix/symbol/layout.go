package symbol

import "sync"

// Block is one Reed-Solomon block of a symbol.
type Block struct {
	Data int
	EC   int
	// Positions maps the block's codewords, data first, to their index in
	// the interleaved codeword stream.
	Positions []int
}

var layouts sync.Map // *Symbol -> []Block

// Blocks returns the interleaving of the symbol's codeword stream.
//
// Data codewords are dealt round-robin across blocks. When the blocks have
// unequal data lengths (144x144 only) the longer blocks come first, and the
// error correction codewords are dealt starting at the first shorter block.
func (s *Symbol) Blocks() []Block {
	if v, ok := layouts.Load(s); ok {
		return v.([]Block)
	}
	v, _ := layouts.LoadOrStore(s, s.layout())
	return v.([]Block)
}

func (s *Symbol) layout() []Block {
	n := s.NumBlocks()
	longData := s.Groups[0].Data
	numLonger := n
	if len(s.Groups) > 1 {
		numLonger = s.Groups[0].Count
	}

	blocks := make([]Block, n)
	for j := range blocks {
		data := longData
		if j >= numLonger {
			data--
		}
		blocks[j] = Block{Data: data, EC: s.ECPerBlock, Positions: make([]int, data+s.ECPerBlock)}
	}

	pos := 0
	for i := 0; i < longData-1; i++ {
		for j := range blocks {
			blocks[j].Positions[i] = pos
			pos++
		}
	}
	for j := 0; j < numLonger; j++ {
		blocks[j].Positions[longData-1] = pos
		pos++
	}
	for i := longData; i < longData+s.ECPerBlock; i++ {
		for j := 0; j < n; j++ {
			b := (j + numLonger) % n
			if b >= numLonger {
				blocks[b].Positions[i-1] = pos
			} else {
				blocks[b].Positions[i] = pos
			}
			pos++
		}
	}
	return blocks
}
