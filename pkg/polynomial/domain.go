// Package polynomial provides the Radix-2 FFT-friendly evaluation domains
// and Lagrange interpolation that PSS and the distributed FFT primitive
// build on, adapted from the teacher's pkg/math/polynomial (Lagrange) and
// generalized to the Radix2EvaluationDomain machinery that
// secret-sharing/src/pss.rs layers packing on top of.
package polynomial

import (
	"fmt"
	"math/bits"

	"github.com/luxfi/distprove/pkg/field"
)

// Coeff is anything a Radix-2 domain can transform: field elements
// themselves (PSS, dFFT, dPP) or group elements scaled by a field
// element (dMSM packs/unpacks group-element shares the same way).
type Coeff[T any] interface {
	Add(T) T
	Sub(T) T
	Scale(field.Element) T
	Equal(T) bool
}

// Domain is a multiplicative subgroup of size Size (a power of two),
// optionally shifted into a coset by Offset (Offset = field.One() for the
// plain subgroup).
type Domain struct {
	Size         int
	Generator    field.Element
	GeneratorInv field.Element
	SizeInv      field.Element
	Offset       field.Element
}

// NewRadix2Domain builds the size-n subgroup domain. n must be a power of
// two not exceeding the field's two-adicity.
func NewRadix2Domain(n int) (*Domain, error) {
	if n <= 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("polynomial: domain size %d is not a power of two", n)
	}
	logN := bits.Len(uint(n)) - 1
	if logN > field.TwoAdicity() {
		return nil, fmt.Errorf("polynomial: domain size %d exceeds field two-adicity", n)
	}
	gen := field.RootOfUnity()
	for i := 0; i < field.TwoAdicity()-logN; i++ {
		gen = gen.Mul(gen)
	}
	return &Domain{
		Size:         n,
		Generator:    gen,
		GeneratorInv: gen.Inverse(),
		SizeInv:      field.FromUint64(uint64(n)).Inverse(),
		Offset:       field.One(),
	}, nil
}

// Coset returns a copy of d shifted by offset, e.g. field.Generator-like
// values used to evaluate a polynomial off the root-of-unity subgroup
// (PSS's `secret`/`secret2` domains).
func (d *Domain) Coset(offset field.Element) *Domain {
	c := *d
	c.Offset = offset
	return &c
}

func bitReverse[T any](a []T) {
	n := len(a)
	if n <= 1 {
		return
	}
	logN := bits.Len(uint(n)) - 1
	for i := range a {
		j := reverseBits(i, logN)
		if j > i {
			a[i], a[j] = a[j], a[i]
		}
	}
}

func reverseBits(x, width int) int {
	r := 0
	for i := 0; i < width; i++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return r
}

func butterflies[T Coeff[T]](a []T, generator field.Element) {
	n := len(a)
	for length := 2; length <= n; length <<= 1 {
		half := length / 2
		wlen := generator.Pow(uint64(n / length))
		for i := 0; i < n; i += length {
			w := field.One()
			for j := 0; j < half; j++ {
				u := a[i+j]
				v := a[i+j+half].Scale(w)
				a[i+j] = u.Add(v)
				a[i+j+half] = u.Sub(v)
				w = w.Mul(wlen)
			}
		}
	}
}

// FFT evaluates the polynomial given by coeffs (coefficient form, length
// d.Size) at every point of d, returning the evaluations in the domain's
// natural (non-bit-reversed) order.
func FFT[T Coeff[T]](d *Domain, coeffs []T) ([]T, error) {
	if len(coeffs) != d.Size {
		return nil, fmt.Errorf("polynomial: FFT input length %d does not match domain size %d", len(coeffs), d.Size)
	}
	work := append([]T(nil), coeffs...)
	if !d.Offset.Equal(field.One()) {
		pow := field.One()
		for i := range work {
			work[i] = work[i].Scale(pow)
			pow = pow.Mul(d.Offset)
		}
	}
	bitReverse(work)
	butterflies(work, d.Generator)
	return work, nil
}

// IFFT interpolates evaluations (in natural domain order) back into
// coefficient form.
func IFFT[T Coeff[T]](d *Domain, evals []T) ([]T, error) {
	if len(evals) != d.Size {
		return nil, fmt.Errorf("polynomial: IFFT input length %d does not match domain size %d", len(evals), d.Size)
	}
	work := append([]T(nil), evals...)
	bitReverse(work)
	butterflies(work, d.GeneratorInv)
	for i := range work {
		work[i] = work[i].Scale(d.SizeInv)
	}
	if !d.Offset.Equal(field.One()) {
		invOffset := d.Offset.Inverse()
		pow := field.One()
		for i := range work {
			work[i] = work[i].Scale(pow)
			pow = pow.Mul(invOffset)
		}
	}
	return work, nil
}
