package polynomial

import "github.com/luxfi/distprove/pkg/field"

// Dense is a polynomial in coefficient form, lowest degree first:
// p(x) = Coeffs[0] + Coeffs[1]*x + ... The teacher's pkg/math/polynomial
// only needed Lagrange weights; the Reed-Solomon decode path
// (pss.UnpackMissingShares, grounded on secret-sharing/src/gao.rs) needs
// full polynomial arithmetic, so this type supplements that gap.
type Dense struct {
	Coeffs []field.Element
}

// NewDense builds a polynomial from coefficients, trimming trailing zeros.
func NewDense(coeffs []field.Element) Dense {
	return Dense{Coeffs: trim(coeffs)}
}

func trim(c []field.Element) []field.Element {
	n := len(c)
	for n > 0 && c[n-1].IsZero() {
		n--
	}
	return c[:n]
}

// Degree returns the polynomial's degree, or -1 for the zero polynomial.
func (p Dense) Degree() int {
	return len(p.Coeffs) - 1
}

// IsZero reports whether p is the zero polynomial.
func (p Dense) IsZero() bool {
	return len(p.Coeffs) == 0
}

// Eval evaluates p at x via Horner's method.
func (p Dense) Eval(x field.Element) field.Element {
	acc := field.Zero()
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		acc = acc.Mul(x).Add(p.Coeffs[i])
	}
	return acc
}

func (p Dense) coeffAt(i int) field.Element {
	if i < 0 || i >= len(p.Coeffs) {
		return field.Zero()
	}
	return p.Coeffs[i]
}

// Add returns p + q.
func (p Dense) Add(q Dense) Dense {
	n := len(p.Coeffs)
	if len(q.Coeffs) > n {
		n = len(q.Coeffs)
	}
	out := make([]field.Element, n)
	for i := 0; i < n; i++ {
		out[i] = p.coeffAt(i).Add(q.coeffAt(i))
	}
	return NewDense(out)
}

// Sub returns p - q.
func (p Dense) Sub(q Dense) Dense {
	n := len(p.Coeffs)
	if len(q.Coeffs) > n {
		n = len(q.Coeffs)
	}
	out := make([]field.Element, n)
	for i := 0; i < n; i++ {
		out[i] = p.coeffAt(i).Sub(q.coeffAt(i))
	}
	return NewDense(out)
}

// Mul returns p * q (schoolbook; RS decoding here only ever operates on
// polynomials of degree O(n parties), so this is never a bottleneck).
func (p Dense) Mul(q Dense) Dense {
	if p.IsZero() || q.IsZero() {
		return Dense{}
	}
	out := make([]field.Element, len(p.Coeffs)+len(q.Coeffs)-1)
	for i := range out {
		out[i] = field.Zero()
	}
	for i, a := range p.Coeffs {
		if a.IsZero() {
			continue
		}
		for j, b := range q.Coeffs {
			out[i+j] = out[i+j].Add(a.Mul(b))
		}
	}
	return NewDense(out)
}

// QuoRem performs polynomial long division: p = q*quo + rem with
// deg(rem) < deg(q). Panics if q is the zero polynomial.
func (p Dense) QuoRem(q Dense) (quo, rem Dense) {
	if q.IsZero() {
		panic("polynomial: division by zero polynomial")
	}
	remCoeffs := append([]field.Element(nil), p.Coeffs...)
	qd := q.Degree()
	lead := q.Coeffs[qd]
	leadInv := lead.Inverse()

	rem = NewDense(remCoeffs)
	if rem.Degree() < qd {
		return Dense{}, rem
	}
	quoCoeffs := make([]field.Element, rem.Degree()-qd+1)
	for rem.Degree() >= qd && !rem.IsZero() {
		shift := rem.Degree() - qd
		coef := rem.Coeffs[rem.Degree()].Mul(leadInv)
		quoCoeffs[shift] = coef
		// rem -= coef * x^shift * q
		sub := make([]field.Element, shift+qd+1)
		for i := range sub {
			sub[i] = field.Zero()
		}
		for i, c := range q.Coeffs {
			sub[shift+i] = c.Mul(coef)
		}
		rem = rem.Sub(NewDense(sub))
	}
	return NewDense(quoCoeffs), rem
}

// VanishingPolynomial returns x^n - offset^n, the polynomial that
// vanishes on every point of d (the share domain's Reed-Solomon code
// locator polynomial).
func VanishingPolynomial(d *Domain) Dense {
	offsetN := d.Offset.Pow(uint64(d.Size))
	coeffs := make([]field.Element, d.Size+1)
	for i := range coeffs {
		coeffs[i] = field.Zero()
	}
	coeffs[0] = offsetN.Neg()
	coeffs[d.Size] = field.One()
	return NewDense(coeffs)
}

// Lagrange computes, for points xs, the coefficients c_i such that for
// any polynomial of degree < len(xs) known at xs, sum(c_i * y_i) recovers
// the polynomial's value at zero -- the reconstruction coefficients the
// teacher's pkg/math/polynomial.Lagrange computes for Shamir shares,
// generalized here from party-scalar points to arbitrary field points.
func Lagrange(xs []field.Element) []field.Element {
	coeffs := make([]field.Element, len(xs))
	for i, xi := range xs {
		num := field.One()
		den := field.One()
		for j, xj := range xs {
			if i == j {
				continue
			}
			num = num.Mul(xj.Neg())
			den = den.Mul(xi.Sub(xj))
		}
		coeffs[i] = num.Mul(den.Inverse())
	}
	return coeffs
}

// Interpolate recovers the coefficient-form polynomial of degree <
// len(xs) passing through (xs[i], ys[i]).
func Interpolate(xs, ys []field.Element) Dense {
	result := NewDense(nil)
	for i := range xs {
		// Build the i-th Lagrange basis polynomial scaled by ys[i].
		basis := Dense{Coeffs: []field.Element{field.One()}}
		denom := field.One()
		for j := range xs {
			if i == j {
				continue
			}
			basis = basis.Mul(Dense{Coeffs: []field.Element{xs[j].Neg(), field.One()}})
			denom = denom.Mul(xs[i].Sub(xs[j]))
		}
		scale := ys[i].Mul(denom.Inverse())
		scaled := make([]field.Element, len(basis.Coeffs))
		for k, c := range basis.Coeffs {
			scaled[k] = c.Mul(scale)
		}
		result = result.Add(NewDense(scaled))
	}
	return result
}
