package reedsolomon

import (
	"errors"
	"fmt"
)

// ErrUncorrectable is returned when the received block has more errors than
// the error correction codewords can repair.
var ErrUncorrectable = errors.New("reedsolomon: uncorrectable block")

// Decoder corrects received blocks in place. It holds no mutable state.
type Decoder struct {
	field *Field
}

// NewDecoder creates a Decoder for field.
func NewDecoder(field *Field) *Decoder {
	return &Decoder{field: field}
}

// Decode repairs received, whose last ecCount entries are error correction
// codewords, and returns the number of corrected codewords.
func (d *Decoder) Decode(received []int, ecCount int) (int, error) {
	f := d.field
	r := newPoly(f, received)
	syndromes := make([]int, ecCount)
	clean := true
	for i := 0; i < ecCount; i++ {
		s := r.evaluate(f.Exp(i + f.GeneratorBase()))
		syndromes[ecCount-1-i] = s
		if s != 0 {
			clean = false
		}
	}
	if clean {
		return 0, nil
	}

	sigma, omega, err := d.euclid(monomial(f, ecCount, 1), newPoly(f, syndromes), ecCount)
	if err != nil {
		return 0, err
	}
	locations, err := d.errorLocations(sigma)
	if err != nil {
		return 0, err
	}
	magnitudes := d.errorMagnitudes(omega, locations)
	for i, loc := range locations {
		pos := len(received) - 1 - f.Log(loc)
		if pos < 0 {
			return 0, fmt.Errorf("%w: error location %d outside block", ErrUncorrectable, pos)
		}
		received[pos] ^= magnitudes[i]
	}
	return len(locations), nil
}

// euclid runs the extended Euclidean algorithm on x^ecCount and the
// syndrome polynomial, returning the error locator and evaluator.
func (d *Decoder) euclid(a, b poly, ecCount int) (sigma, omega poly, err error) {
	f := d.field
	if a.degree() < b.degree() {
		a, b = b, a
	}
	rLast, r := a, b
	tLast, t := newPoly(f, []int{0}), newPoly(f, []int{1})

	for 2*r.degree() >= ecCount {
		rLastLast, tLastLast := rLast, tLast
		rLast, tLast = r, t
		if rLast.isZero() {
			return poly{}, poly{}, fmt.Errorf("%w: remainder reached zero", ErrUncorrectable)
		}
		var q poly
		q, r = rLastLast.divide(rLast)
		t = q.mul(tLast).add(tLastLast)
		if r.degree() >= rLast.degree() {
			return poly{}, poly{}, fmt.Errorf("%w: division did not reduce degree", ErrUncorrectable)
		}
	}

	lead := t.at(0)
	if lead == 0 {
		return poly{}, poly{}, fmt.Errorf("%w: sigma(0) is zero", ErrUncorrectable)
	}
	inv := f.Inverse(lead)
	return t.scale(inv), r.scale(inv), nil
}

// errorLocations finds the roots of the locator by Chien search.
func (d *Decoder) errorLocations(locator poly) ([]int, error) {
	n := locator.degree()
	if n == 1 {
		return []int{locator.at(1)}, nil
	}
	found := make([]int, 0, n)
	for i := 1; i < d.field.Size() && len(found) < n; i++ {
		if locator.evaluate(i) == 0 {
			found = append(found, d.field.Inverse(i))
		}
	}
	if len(found) != n {
		return nil, fmt.Errorf("%w: locator degree %d but %d roots", ErrUncorrectable, n, len(found))
	}
	return found, nil
}

// errorMagnitudes applies Forney's formula.
func (d *Decoder) errorMagnitudes(evaluator poly, locations []int) []int {
	f := d.field
	out := make([]int, len(locations))
	for i, loc := range locations {
		xiInv := f.Inverse(loc)
		denom := 1
		for j, other := range locations {
			if i == j {
				continue
			}
			// 1 + X_j/X_i in characteristic 2
			denom = f.Multiply(denom, f.Multiply(other, xiInv)^1)
		}
		out[i] = f.Multiply(evaluator.evaluate(xiInv), f.Inverse(denom))
		if f.GeneratorBase() != 0 {
			out[i] = f.Multiply(out[i], xiInv)
		}
	}
	return out
}
