package dmsm_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/distprove/pkg/curve"
	"github.com/luxfi/distprove/pkg/field"
	"github.com/luxfi/distprove/pkg/party"
	"github.com/luxfi/distprove/pkg/primitives/dmsm"
	"github.com/luxfi/distprove/pkg/pss"
	"github.com/luxfi/distprove/pkg/testnet"
	"github.com/luxfi/distprove/pkg/transport"
)

func TestDMSMMatchesDirectMSM(t *testing.T) {
	pp, err := pss.New(2)
	require.NoError(t, err)

	const numLanes = 3 // M/l local slots per party, arbitrary > 1 to exercise the loop
	baseSecrets := make([]curve.Point, numLanes*pp.L)
	scalarSecrets := make([]field.Element, numLanes*pp.L)
	gen := curve.Generator()
	for i := range baseSecrets {
		baseSecrets[i] = gen.Scale(field.FromUint64(uint64(i + 1)))
		scalarSecrets[i] = field.FromUint64(uint64(2*i + 1))
	}

	want, err := curve.MultiScalarMul(baseSecrets, scalarSecrets)
	require.NoError(t, err)

	basesPerParty := make([][]curve.Point, pp.N)
	scalarsPerParty := make([][]field.Element, pp.N)
	for p := range basesPerParty {
		basesPerParty[p] = make([]curve.Point, numLanes)
		scalarsPerParty[p] = make([]field.Element, numLanes)
	}
	for lane := 0; lane < numLanes; lane++ {
		baseShares, err := pss.PackFromPublic(pp, baseSecrets[lane*pp.L:(lane+1)*pp.L], curve.Identity())
		require.NoError(t, err)
		scalarShares, err := pss.PackFromPublic(pp, scalarSecrets[lane*pp.L:(lane+1)*pp.L], field.Zero())
		require.NoError(t, err)
		for p := 0; p < pp.N; p++ {
			basesPerParty[p][lane] = baseShares[p]
			scalarsPerParty[p][lane] = scalarShares[p]
		}
	}

	net := testnet.New(pp.N)
	var wg sync.WaitGroup
	results := make([]curve.Point, pp.N)
	errsOut := make([]error, pp.N)
	for i := 0; i < pp.N; i++ {
		wg.Add(1)
		go func(id party.ID) {
			defer wg.Done()
			h := net.Handle(id)
			res, err := dmsm.DMSM(context.Background(), h, pp, basesPerParty[id], scalarsPerParty[id], transport.StreamOne)
			results[id] = res
			errsOut[id] = err
		}(party.ID(i))
	}
	wg.Wait()

	for i := range errsOut {
		require.NoError(t, errsOut[i])
	}
	for i := range results {
		assert.True(t, want.Equal(results[i]), "party %d: want %v got %v", i, want, results[i])
	}
}
