// Package pss implements packed secret sharing: packing l secrets into n
// shares of a degree-(t+l) (or degree-2(t+l)) polynomial, and unpacking
// them back. Grounded on secret-sharing/src/pss.rs; generalized from
// field-element-only secrets to polynomial.Coeff[T] so the same code
// packs field.Element shares (PSS itself, dFFT, dPP) and curve.Point
// shares (dMSM) without duplication.
package pss

import (
	"fmt"

	"github.com/luxfi/distprove/pkg/field"
	"github.com/luxfi/distprove/pkg/log"
	"github.com/luxfi/distprove/pkg/party"
	"github.com/luxfi/distprove/pkg/polynomial"
)

// Degree tags which of the two share polynomials a Shares value holds,
// per SPEC_FULL.md §4.1 -- callers must not feed a degree-2(t+l) sharing
// (the result of a local multiplication) into Unpack, only into Unpack2.
type Degree int

const (
	DegreeTL Degree = iota
	Degree2TL
)

// Params configures packed secret sharing. n = 4l, t = l-1, and the
// domains below mirror pss.rs's PackedSharingParams exactly.
type Params struct {
	T, L, N int
	// Share is the size-n domain shares are evaluated on.
	Share *polynomial.Domain
	// Secret is the size-(l+t+1) coset domain secrets are interpolated on.
	Secret *polynomial.Domain
	// Secret2 is the size-2(l+t+1) coset domain degree-2(t+l) sharings
	// are interpolated on.
	Secret2 *polynomial.Domain
	// Logger receives timing/diagnostic messages from pkg/primitives king
	// rounds run against this session's Params. Never nil: New sets it to
	// log.Default, and callers may overwrite the field afterward to wire
	// in their own.
	Logger log.Logger
}

// New builds Params for packing factor l. n, t are derived as n = 4l,
// t = l-1, matching the (t, l, n) = (l-1, l, 4l) relation pss.rs asserts.
func New(l int) (*Params, error) {
	if l <= 0 {
		return nil, fmt.Errorf("pss: packing factor must be positive, got %d", l)
	}
	n := 4 * l
	t := l - 1

	share, err := polynomial.NewRadix2Domain(n)
	if err != nil {
		return nil, fmt.Errorf("pss: building share domain: %w", err)
	}
	secretBase, err := polynomial.NewRadix2Domain(l + t + 1)
	if err != nil {
		return nil, fmt.Errorf("pss: building secret domain: %w", err)
	}
	secret2Base, err := polynomial.NewRadix2Domain(2 * (l + t + 1))
	if err != nil {
		return nil, fmt.Errorf("pss: building secret2 domain: %w", err)
	}

	return &Params{
		T:       t,
		L:       l,
		N:       n,
		Share:   share,
		Secret:  secretBase.Coset(field.Generator()),
		Secret2: secret2Base.Coset(field.Generator()),
		Logger:  log.Default,
	}, nil
}

func resize[T any](a []T, n int, zero T) []T {
	if len(a) == n {
		return a
	}
	out := make([]T, n)
	copy(out, a)
	for i := len(a); i < n; i++ {
		out[i] = zero
	}
	return out
}

// DetPack deterministically packs l secrets into n shares by padding with
// t+1 copies of zero instead of randomness -- useful for tests and for
// packing public (non-secret) vectors, never for values that must stay
// hidden from t colluding parties.
func DetPack[T polynomial.Coeff[T]](pp *Params, secrets []T, zero T) ([]T, error) {
	if len(secrets) != pp.L {
		return nil, fmt.Errorf("pss: DetPack expects %d secrets, got %d", pp.L, len(secrets))
	}
	padded := resize(append([]T(nil), secrets...), pp.L+pp.T+1, zero)
	coeffs, err := polynomial.IFFT(pp.Secret, padded)
	if err != nil {
		return nil, err
	}
	coeffs = resize(coeffs, pp.N, zero)
	return polynomial.FFT(pp.Share, coeffs)
}

// Pack packs l secrets into n shares, hiding them behind t+1
// caller-supplied random values (the packing is only as secret as the
// randomness supplied here).
func Pack[T polynomial.Coeff[T]](pp *Params, secrets []T, randomTail []T) ([]T, error) {
	if len(secrets) != pp.L {
		return nil, fmt.Errorf("pss: Pack expects %d secrets, got %d", pp.L, len(secrets))
	}
	if len(randomTail) != pp.T+1 {
		return nil, fmt.Errorf("pss: Pack expects %d random values, got %d", pp.T+1, len(randomTail))
	}
	padded := append(append([]T(nil), secrets...), randomTail...)
	coeffs, err := polynomial.IFFT(pp.Secret, padded)
	if err != nil {
		return nil, err
	}
	var zero T
	coeffs = resize(coeffs, pp.N, zero)
	return polynomial.FFT(pp.Share, coeffs)
}

// Unpack recovers the l packed secrets from a full set of n
// degree-(t+l) shares.
func Unpack[T polynomial.Coeff[T]](pp *Params, shares []T, zero T) ([]T, error) {
	if len(shares) != pp.N {
		return nil, fmt.Errorf("pss: Unpack expects %d shares, got %d", pp.N, len(shares))
	}
	coeffs, err := polynomial.IFFT(pp.Share, shares)
	if err != nil {
		return nil, err
	}
	if err := assertZeroTail(coeffs, pp.L+pp.T+1, zero); err != nil {
		return nil, err
	}
	coeffs = resize(coeffs, pp.L+pp.T+1, zero)
	evals, err := polynomial.FFT(pp.Secret, coeffs)
	if err != nil {
		return nil, err
	}
	return evals[:pp.L], nil
}

// Unpack2 recovers the l packed secrets from a full set of n
// degree-2(t+l) shares, the result of multiplying two degree-(t+l)
// sharings pointwise.
func Unpack2[T polynomial.Coeff[T]](pp *Params, shares []T, zero T) ([]T, error) {
	if len(shares) != pp.N {
		return nil, fmt.Errorf("pss: Unpack2 expects %d shares, got %d", pp.N, len(shares))
	}
	coeffs, err := polynomial.IFFT(pp.Share, shares)
	if err != nil {
		return nil, err
	}
	if err := assertZeroTail(coeffs, 2*(pp.L+pp.T+1), zero); err != nil {
		return nil, err
	}
	coeffs = resize(coeffs, 2*(pp.L+pp.T+1), zero)
	evals, err := polynomial.FFT(pp.Secret2, coeffs)
	if err != nil {
		return nil, err
	}
	out := make([]T, pp.L)
	for i := 0; i < pp.L; i++ {
		out[i] = evals[2*i]
	}
	return out, nil
}

// Pack2 packs l public values into n degree-2(t+l) shares, placing each
// value at the even secret-domain slot Unpack2 reads it back from and
// filling every other slot from fill (typically random, to mask the
// packed values the way Pack's randomTail masks a degree-(t+l) pack; a
// zero-filled slice gives a deterministic public pack instead). There is
// no pack-side counterpart to this in secret-sharing/src/pss.rs, since
// the reference protocol never packs a degree-2(t+l) value directly --
// it only ever arises from pointwise-multiplying two degree-(t+l)
// sharings -- but degree-2(t+l) masking (mask.Sample2) needs exactly
// this shape to hide a value Unpack2 will later read.
func Pack2[T polynomial.Coeff[T]](pp *Params, values []T, fill []T, zero T) ([]T, error) {
	if len(values) != pp.L {
		return nil, fmt.Errorf("pss: Pack2 expects %d values, got %d", pp.L, len(values))
	}
	dim := 2 * (pp.L + pp.T + 1)
	if len(fill) != dim-pp.L {
		return nil, fmt.Errorf("pss: Pack2 expects %d fill values, got %d", dim-pp.L, len(fill))
	}
	evals := make([]T, dim)
	fi := 0
	for i := 0; i < dim; i++ {
		if i%2 == 0 && i/2 < pp.L {
			evals[i] = values[i/2]
		} else {
			evals[i] = fill[fi]
			fi++
		}
	}
	coeffs, err := polynomial.IFFT(pp.Secret2, evals)
	if err != nil {
		return nil, err
	}
	coeffs = resize(coeffs, pp.N, zero)
	return polynomial.FFT(pp.Share, coeffs)
}

// Shares wraps a share vector together with the degree tag it was
// produced at, per SPEC_FULL.md §4.1: callers that pass a Shares value
// around (rather than a bare []T) get a compile-time-checked Unpack
// instead of having to remember which of Unpack/Unpack2 matches the
// vector's provenance.
type Shares[T polynomial.Coeff[T]] struct {
	Vals   []T
	Degree Degree
}

// NewShares tags a share vector as a degree-(t+l) sharing.
func NewShares[T polynomial.Coeff[T]](vals []T) Shares[T] {
	return Shares[T]{Vals: vals, Degree: DegreeTL}
}

// NewShares2 tags a share vector as a degree-2(t+l) sharing, the result
// of a pointwise multiplication of two degree-(t+l) sharings.
func NewShares2[T polynomial.Coeff[T]](vals []T) Shares[T] {
	return Shares[T]{Vals: vals, Degree: Degree2TL}
}

// Unpack recovers the l packed secrets, dispatching to Unpack or
// Unpack2 according to the Degree tag recorded at construction time.
func (s Shares[T]) Unpack(pp *Params, zero T) ([]T, error) {
	switch s.Degree {
	case DegreeTL:
		return Unpack(pp, s.Vals, zero)
	case Degree2TL:
		return Unpack2(pp, s.Vals, zero)
	default:
		return nil, fmt.Errorf("pss: Shares has unknown degree tag %d", s.Degree)
	}
}

// PackFromPublic packs exactly l publicly-known values deterministically
// (an alias for DetPack kept under the name pack.rs's callers use it by,
// for packing plaintext vectors rather than secrets).
func PackFromPublic[T polynomial.Coeff[T]](pp *Params, values []T, zero T) ([]T, error) {
	return DetPack(pp, values, zero)
}

// UnpackMissingShares recovers the l packed secrets from shares where
// only the parties listed in present actually responded; entries of
// shares at positions not in present are ignored (their backing value is
// irrelevant). Internally this zero-fills the unheard-from positions of a
// Reed-Solomon codeword and Gao-decodes the degree-(l+t) message
// polynomial, per secret-sharing/src/gao.rs; the zero-filled positions
// count as errors, so at most (n - (l+t+1))/2 parties may be missing.
func UnpackMissingShares(pp *Params, shares []field.Element, present party.IDSlice) ([]field.Element, error) {
	if len(shares) != pp.N {
		return nil, fmt.Errorf("pss: UnpackMissingShares expects %d shares, got %d", pp.N, len(shares))
	}
	dimension := pp.L + pp.T + 1
	minPresent := pp.N - (pp.N-dimension)/2
	if len(present) < minPresent {
		return nil, fmt.Errorf("pss: UnpackMissingShares needs at least %d responding parties, got %d", minPresent, len(present))
	}

	erased := make([]field.Element, pp.N)
	presentSet := make(map[party.ID]bool, len(present))
	for _, id := range present {
		presentSet[id] = true
	}
	for i := range erased {
		if presentSet[party.ID(i)] {
			erased[i] = shares[i]
		} else {
			erased[i] = field.Zero()
		}
	}

	h, err := decodeToMessage(pp, erased, pp.N, dimension)
	if err != nil {
		return nil, fmt.Errorf("pss: %w", err)
	}
	coeffs := resize(append([]field.Element(nil), h.Coeffs...), dimension, field.Zero())
	evals, err := polynomial.FFT(pp.Secret, coeffs)
	if err != nil {
		return nil, err
	}
	return evals[:pp.L], nil
}
