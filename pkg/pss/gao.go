package pss

import (
	"fmt"

	"github.com/luxfi/distprove/pkg/field"
	"github.com/luxfi/distprove/pkg/polynomial"
)

// partialXGCD runs the Euclidean algorithm on a and b until the remainder
// degree drops below stop = (dimension+codelength)/2, returning the pair
// (r, s) such that r = a*s + b*t for some cofactor t at the step just
// before termination. Ported from gao.rs's partial_xgcd, itself ported
// from SageMath's GRS decoder.
func partialXGCD(a, b polynomial.Dense, codelength, dimension int) (r, s polynomial.Dense) {
	stop := (dimension + codelength) / 2

	s = polynomial.NewDense([]field.Element{field.One()})
	prevS := polynomial.NewDense([]field.Element{field.Zero()})

	r = b
	prevR := a

	for r.Degree() >= stop {
		q, _ := prevR.QuoRem(r)

		tmpR := r
		r = prevR.Sub(q.Mul(r))
		prevR = tmpR

		tmpS := s
		s = prevS.Sub(q.Mul(s))
		prevS = tmpS
	}
	return r, s
}

// decodeToMessage Gao-decodes receivedCode (a possibly-erased evaluation
// of a degree-(dimension-1) polynomial on the share domain) back into
// that message polynomial. codelength is the share domain's size
// (pp.N); dimension is l+t+1.
func decodeToMessage(pp *Params, receivedCode []field.Element, codelength, dimension int) (polynomial.Dense, error) {
	coeffs, err := polynomial.IFFT(pp.Share, receivedCode)
	if err != nil {
		return polynomial.Dense{}, err
	}
	r := polynomial.NewDense(coeffs)
	z := polynomial.VanishingPolynomial(pp.Share)

	q1, q0 := partialXGCD(z, r, codelength, dimension)
	if q0.IsZero() {
		return polynomial.Dense{}, fmt.Errorf("Reed-Solomon decode failed: zero cofactor")
	}

	h, rem := q1.QuoRem(q0)
	if !rem.IsZero() {
		return polynomial.Dense{}, fmt.Errorf("Reed-Solomon decode failed: nonzero remainder, too many erasures")
	}
	return h, nil
}
