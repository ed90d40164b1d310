package curve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/luxfi/distprove/pkg/curve"
	"github.com/luxfi/distprove/pkg/errs"
	"github.com/luxfi/distprove/pkg/field"
)

func TestAddSubInverse(t *testing.T) {
	g := curve.Generator()
	a := g.Scale(field.FromUint64(3))
	b := g.Scale(field.FromUint64(4))
	sum := a.Add(b)
	expect := g.Scale(field.FromUint64(7))
	assert.True(t, sum.Equal(expect))

	diff := sum.Sub(b)
	assert.True(t, diff.Equal(a))
}

func TestScaleByZeroIsIdentity(t *testing.T) {
	g := curve.Generator()
	z := g.Scale(field.Zero())
	assert.True(t, z.IsIdentity())
}

func TestBytesRoundTrip(t *testing.T) {
	g := curve.Generator().Scale(field.FromUint64(42))
	encoded := g.Bytes()
	decoded, err := curve.FromBytes(encoded)
	require.NoError(t, err)
	assert.True(t, g.Equal(decoded))
}

func TestMultiScalarMul(t *testing.T) {
	g := curve.Generator()
	bases := []curve.Point{g, g.Scale(field.FromUint64(2)), g.Scale(field.FromUint64(3))}
	scalars := []field.Element{field.FromUint64(5), field.FromUint64(6), field.FromUint64(7)}

	got, err := curve.MultiScalarMul(bases, scalars)
	require.NoError(t, err)

	// 5*1 + 6*2 + 7*3 = 5 + 12 + 21 = 38
	want := g.Scale(field.FromUint64(38))
	assert.True(t, got.Equal(want))
}

func TestMultiScalarMulLengthMismatch(t *testing.T) {
	g := curve.Generator()
	_, err := curve.MultiScalarMul([]curve.Point{g}, nil)
	var badInput *errs.BadInput
	assert.ErrorAs(t, err, &badInput)
}
