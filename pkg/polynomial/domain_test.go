package polynomial_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/luxfi/distprove/pkg/field"
	"github.com/luxfi/distprove/pkg/polynomial"
)

func TestFFTRoundTrip(t *testing.T) {
	d, err := polynomial.NewRadix2Domain(8)
	require.NoError(t, err)

	coeffs := make([]field.Element, 8)
	for i := range coeffs {
		coeffs[i] = field.FromUint64(uint64(i + 1))
	}

	evals, err := polynomial.FFT(d, coeffs)
	require.NoError(t, err)

	back, err := polynomial.IFFT(d, evals)
	require.NoError(t, err)

	for i := range coeffs {
		assert.True(t, coeffs[i].Equal(back[i]), "index %d", i)
	}
}

func TestCosetRoundTrip(t *testing.T) {
	d, err := polynomial.NewRadix2Domain(4)
	require.NoError(t, err)
	coset := d.Coset(field.FromUint64(5))

	coeffs := make([]field.Element, 4)
	for i := range coeffs {
		coeffs[i] = field.FromUint64(uint64(2*i + 1))
	}

	evals, err := polynomial.FFT(coset, coeffs)
	require.NoError(t, err)
	back, err := polynomial.IFFT(coset, evals)
	require.NoError(t, err)

	for i := range coeffs {
		assert.True(t, coeffs[i].Equal(back[i]))
	}
}

func TestLagrangeSumsToOne(t *testing.T) {
	xs := make([]field.Element, 5)
	for i := range xs {
		xs[i] = field.FromUint64(uint64(i + 1))
	}
	coeffs := polynomial.Lagrange(xs)
	sum := field.Zero()
	for _, c := range coeffs {
		sum = sum.Add(c)
	}
	assert.True(t, sum.Equal(field.One()))
}

func TestInterpolateMatchesEval(t *testing.T) {
	xs := []field.Element{field.FromUint64(1), field.FromUint64(2), field.FromUint64(3)}
	ys := []field.Element{field.FromUint64(4), field.FromUint64(9), field.FromUint64(16)} // (x+1)^2 ~ placeholder points
	p := polynomial.Interpolate(xs, ys)
	for i, x := range xs {
		assert.True(t, p.Eval(x).Equal(ys[i]))
	}
}

func TestVanishingPolynomialRoots(t *testing.T) {
	d, err := polynomial.NewRadix2Domain(4)
	require.NoError(t, err)
	z := polynomial.VanishingPolynomial(d)

	point := field.One()
	for i := 0; i < 4; i++ {
		assert.True(t, z.Eval(point).IsZero(), "root %d", i)
		point = point.Mul(d.Generator)
	}
}
