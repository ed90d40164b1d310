package dfft_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/distprove/pkg/field"
	"github.com/luxfi/distprove/pkg/party"
	"github.com/luxfi/distprove/pkg/polynomial"
	"github.com/luxfi/distprove/pkg/primitives/dfft"
	"github.com/luxfi/distprove/pkg/pss"
	"github.com/luxfi/distprove/pkg/testnet"
)

// packShares packs a plaintext coefficient vector into every party's share
// row, the same deterministic way every party would via pss.PackFromPublic
// on each l-sized chunk, then transposed into per-party rows -- tests only,
// since DetPack/PackFromPublic are public (non-secret) packings.
func packShares(t *testing.T, pp *pss.Params, coeffs []field.Element) [][]field.Element {
	t.Helper()
	mbyl := len(coeffs) / pp.L
	perParty := make([][]field.Element, pp.N)
	for p := range perParty {
		perParty[p] = make([]field.Element, mbyl)
	}
	for i := 0; i < mbyl; i++ {
		chunk := coeffs[i*pp.L : (i+1)*pp.L]
		shares, err := pss.PackFromPublic(pp, chunk, field.Zero())
		require.NoError(t, err)
		for p, s := range shares {
			perParty[p][i] = s
		}
	}
	return perParty
}

func unpackEvals(t *testing.T, pp *pss.Params, perPartyResult [][]field.Element) []field.Element {
	t.Helper()
	rows := len(perPartyResult[0])
	out := make([]field.Element, 0, rows*pp.L)
	for i := 0; i < rows; i++ {
		row := make([]field.Element, pp.N)
		for p := range perPartyResult {
			row[p] = perPartyResult[p][i]
		}
		secrets, err := pss.Unpack(pp, row, field.Zero())
		require.NoError(t, err)
		out = append(out, secrets...)
	}
	return out
}

func TestDFFTMatchesDirectFFT(t *testing.T) {
	pp, err := pss.New(2)
	require.NoError(t, err)

	m := pp.N * 2
	dom, err := polynomial.NewRadix2Domain(m)
	require.NoError(t, err)

	coeffs := make([]field.Element, m)
	for i := range coeffs {
		coeffs[i] = field.FromUint64(uint64(i + 1))
	}
	want, err := polynomial.FFT(dom, coeffs)
	require.NoError(t, err)

	perParty := packShares(t, pp, coeffs)

	net := testnet.New(pp.N)
	var wg sync.WaitGroup
	results := make([][]field.Element, pp.N)
	errsOut := make([]error, pp.N)
	for i := 0; i < pp.N; i++ {
		wg.Add(1)
		go func(id party.ID) {
			defer wg.Done()
			h := net.Handle(id)
			res, err := dfft.DFFT(context.Background(), h, pp, dom, perParty[id], dfft.Options{})
			results[id] = res
			errsOut[id] = err
		}(party.ID(i))
	}
	wg.Wait()

	for i := range errsOut {
		require.NoError(t, errsOut[i])
	}

	got := unpackEvals(t, pp, results)
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "index %d: want %v got %v", i, want[i], got[i])
	}
}

func TestDIFFTInvertsDFFT(t *testing.T) {
	pp, err := pss.New(2)
	require.NoError(t, err)

	m := pp.N * 2
	dom, err := polynomial.NewRadix2Domain(m)
	require.NoError(t, err)

	coeffs := make([]field.Element, m)
	for i := range coeffs {
		coeffs[i] = field.FromUint64(uint64(7*i + 3))
	}
	evals, err := polynomial.FFT(dom, coeffs)
	require.NoError(t, err)

	perParty := packShares(t, pp, evals)

	net := testnet.New(pp.N)
	var wg sync.WaitGroup
	results := make([][]field.Element, pp.N)
	errsOut := make([]error, pp.N)
	for i := 0; i < pp.N; i++ {
		wg.Add(1)
		go func(id party.ID) {
			defer wg.Done()
			h := net.Handle(id)
			res, err := dfft.DIFFT(context.Background(), h, pp, dom, perParty[id], dfft.Options{})
			results[id] = res
			errsOut[id] = err
		}(party.ID(i))
	}
	wg.Wait()

	for i := range errsOut {
		require.NoError(t, errsOut[i])
	}

	got := unpackEvals(t, pp, results)
	require.Len(t, got, len(coeffs))
	for i := range coeffs {
		assert.True(t, coeffs[i].Equal(got[i]), "index %d: want %v got %v", i, coeffs[i], got[i])
	}
}
