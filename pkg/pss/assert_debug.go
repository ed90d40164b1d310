//go:build debug

package pss

import (
	"fmt"

	"github.com/luxfi/distprove/pkg/polynomial"
)

// assertZeroTail verifies coeffs[from:] are all zero -- the degree-bound
// invariant a valid degree-(t+l) (or degree-2(t+l)) sharing must satisfy
// once its share-domain coefficients are recovered via IFFT. Built only
// into debug builds (`go build -tags debug`); release builds trust the
// invariant per spec.md §7's "debug assertions ... in release builds
// these are trusted."
func assertZeroTail[T polynomial.Coeff[T]](coeffs []T, from int, zero T) error {
	for i := from; i < len(coeffs); i++ {
		if !coeffs[i].Equal(zero) {
			return fmt.Errorf("pss: degree-bound invariant violated: coefficient %d is nonzero", i)
		}
	}
	return nil
}
