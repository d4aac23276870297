// Package reedsolomon implements Reed-Solomon coding over GF(2^n), as used
// by ECC200 Data Matrix symbols.
package reedsolomon

import "fmt"

// Field is a Galois field GF(size) generated by a primitive polynomial.
type Field struct {
	exp           []int
	log           []int
	size          int
	primitive     int
	generatorBase int
}

// DataMatrixField256 is x^8 + x^5 + x^3 + x^2 + 1 with generator base 1.
var DataMatrixField256 = NewField(0x012D, 256, 1)

// NewField builds the exponent and logarithm tables for GF(size).
// generatorBase is the exponent of the first root of the generator
// polynomial.
func NewField(primitive, size, generatorBase int) *Field {
	f := &Field{
		exp:           make([]int, size),
		log:           make([]int, size),
		size:          size,
		primitive:     primitive,
		generatorBase: generatorBase,
	}
	x := 1
	for i := range f.exp {
		f.exp[i] = x
		x <<= 1
		if x >= size {
			x = (x ^ primitive) & (size - 1)
		}
	}
	for i := 0; i < size-1; i++ {
		f.log[f.exp[i]] = i
	}
	return f
}

// Exp returns alpha^a.
func (f *Field) Exp(a int) int { return f.exp[a] }

// Log returns the discrete logarithm of a, which must be non-zero.
func (f *Field) Log(a int) int {
	if a == 0 {
		panic("reedsolomon: log(0)")
	}
	return f.log[a]
}

// Inverse returns the multiplicative inverse of a, which must be non-zero.
func (f *Field) Inverse(a int) int {
	if a == 0 {
		panic("reedsolomon: inverse(0)")
	}
	return f.exp[f.size-f.log[a]-1]
}

// Multiply returns a*b in the field.
func (f *Field) Multiply(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return f.exp[(f.log[a]+f.log[b])%(f.size-1)]
}

// Size returns the number of field elements.
func (f *Field) Size() int { return f.size }

// GeneratorBase returns the exponent of the generator's first root.
func (f *Field) GeneratorBase() int { return f.generatorBase }

func (f *Field) String() string {
	return fmt.Sprintf("GF(0x%x,%d)", f.primitive, f.size)
}
