package reedsolomon

import (
	"fmt"
	"sync"
)

// Encoder computes error correction codewords. It is safe for concurrent use.
type Encoder struct {
	field *Field

	mu         sync.Mutex
	generators []poly
}

// NewEncoder creates an Encoder for field.
func NewEncoder(field *Field) *Encoder {
	return &Encoder{field: field, generators: []poly{newPoly(field, []int{1})}}
}

// generator returns prod(x - alpha^(base+i)) for i in [0, degree).
func (e *Encoder) generator(degree int) poly {
	e.mu.Lock()
	defer e.mu.Unlock()
	for d := len(e.generators); d <= degree; d++ {
		root := e.field.Exp(d - 1 + e.field.GeneratorBase())
		e.generators = append(e.generators, e.generators[d-1].mul(newPoly(e.field, []int{1, root})))
	}
	return e.generators[degree]
}

// Encode fills the last ecCount entries of codewords with the error
// correction for the data held in the leading entries.
func (e *Encoder) Encode(codewords []int, ecCount int) error {
	if ecCount <= 0 {
		return fmt.Errorf("reedsolomon: no error correction codewords requested")
	}
	dataCount := len(codewords) - ecCount
	if dataCount <= 0 {
		return fmt.Errorf("reedsolomon: no data codewords in %d-codeword block", len(codewords))
	}
	info := make([]int, dataCount)
	copy(info, codewords[:dataCount])
	_, rem := newPoly(e.field, info).shift(ecCount, 1).divide(e.generator(ecCount))

	ec := codewords[dataCount:]
	pad := ecCount - len(rem.coef)
	for i := 0; i < pad; i++ {
		ec[i] = 0
	}
	copy(ec[pad:], rem.coef)
	return nil
}
