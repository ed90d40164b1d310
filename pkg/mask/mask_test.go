package mask_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/luxfi/distprove/pkg/field"
	"github.com/luxfi/distprove/pkg/mask"
	"github.com/luxfi/distprove/pkg/pss"
)

func TestSampleMasksCancelInTheClear(t *testing.T) {
	pp, err := pss.New(4)
	require.NoError(t, err)

	dealer := mask.NewDealer(pp, mask.DeterministicSource([]byte("test-seed")))
	const num = 2
	parties, err := mask.Sample(dealer, field.One(), num, field.Zero())
	require.NoError(t, err)
	require.Len(t, parties, pp.N)

	for c := 0; c < num; c++ {
		inShares := make([]field.Element, pp.N)
		outShares := make([]field.Element, pp.N)
		for p := 0; p < pp.N; p++ {
			inShares[p] = parties[p].In[c]
			outShares[p] = parties[p].Out[c]
		}

		inSecrets, err := pss.Unpack(pp, inShares, field.Zero())
		require.NoError(t, err)
		outSecrets, err := pss.Unpack(pp, outShares, field.Zero())
		require.NoError(t, err)

		for i := range inSecrets {
			sum := inSecrets[i].Add(outSecrets[i])
			assert.True(t, sum.IsZero(), "chunk %d index %d", c, i)
		}
	}
}

func TestDeterministicSourceIsReproducible(t *testing.T) {
	pp, err := pss.New(4)
	require.NoError(t, err)

	seed := []byte("same-seed")
	d1 := mask.NewDealer(pp, mask.DeterministicSource(seed))
	d2 := mask.NewDealer(pp, mask.DeterministicSource(seed))

	p1, err := mask.Sample(d1, field.One(), 1, field.Zero())
	require.NoError(t, err)
	p2, err := mask.Sample(d2, field.One(), 1, field.Zero())
	require.NoError(t, err)

	for p := range p1 {
		assert.True(t, p1[p].In[0].Equal(p2[p].In[0]))
	}
}
