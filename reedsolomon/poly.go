package reedsolomon

// poly is an immutable polynomial over a Field. coef[0] is the coefficient
// of the highest power; the zero polynomial is {0}.
type poly struct {
	f    *Field
	coef []int
}

func newPoly(f *Field, coef []int) poly {
	if len(coef) == 0 {
		panic("reedsolomon: empty coefficients")
	}
	lead := 0
	for lead < len(coef)-1 && coef[lead] == 0 {
		lead++
	}
	return poly{f: f, coef: coef[lead:]}
}

func monomial(f *Field, degree, c int) poly {
	if c == 0 {
		return newPoly(f, []int{0})
	}
	coef := make([]int, degree+1)
	coef[0] = c
	return poly{f: f, coef: coef}
}

func (p poly) degree() int { return len(p.coef) - 1 }

func (p poly) isZero() bool { return p.coef[0] == 0 }

// at returns the coefficient of x^degree.
func (p poly) at(degree int) int { return p.coef[len(p.coef)-1-degree] }

func (p poly) evaluate(a int) int {
	if a == 0 {
		return p.at(0)
	}
	// Horner
	result := 0
	for _, c := range p.coef {
		result = p.f.Multiply(a, result) ^ c
	}
	return result
}

func (p poly) add(o poly) poly {
	if p.isZero() {
		return o
	}
	if o.isZero() {
		return p
	}
	small, large := p.coef, o.coef
	if len(small) > len(large) {
		small, large = large, small
	}
	sum := make([]int, len(large))
	diff := len(large) - len(small)
	copy(sum, large[:diff])
	for i := diff; i < len(large); i++ {
		sum[i] = small[i-diff] ^ large[i]
	}
	return newPoly(p.f, sum)
}

func (p poly) mul(o poly) poly {
	if p.isZero() || o.isZero() {
		return newPoly(p.f, []int{0})
	}
	product := make([]int, len(p.coef)+len(o.coef)-1)
	for i, a := range p.coef {
		for j, b := range o.coef {
			product[i+j] ^= p.f.Multiply(a, b)
		}
	}
	return newPoly(p.f, product)
}

func (p poly) scale(s int) poly {
	if s == 0 {
		return newPoly(p.f, []int{0})
	}
	out := make([]int, len(p.coef))
	for i, c := range p.coef {
		out[i] = p.f.Multiply(c, s)
	}
	return newPoly(p.f, out)
}

// shift multiplies by c*x^degree.
func (p poly) shift(degree, c int) poly {
	if c == 0 {
		return newPoly(p.f, []int{0})
	}
	out := make([]int, len(p.coef)+degree)
	for i, v := range p.coef {
		out[i] = p.f.Multiply(v, c)
	}
	return newPoly(p.f, out)
}

// divide returns quotient and remainder.
func (p poly) divide(o poly) (poly, poly) {
	if o.isZero() {
		panic("reedsolomon: divide by zero polynomial")
	}
	quotient := newPoly(p.f, []int{0})
	remainder := p
	inv := p.f.Inverse(o.at(o.degree()))
	for remainder.degree() >= o.degree() && !remainder.isZero() {
		d := remainder.degree() - o.degree()
		s := p.f.Multiply(remainder.at(remainder.degree()), inv)
		quotient = quotient.add(monomial(p.f, d, s))
		remainder = remainder.add(o.shift(d, s))
	}
	return quotient, remainder
}
