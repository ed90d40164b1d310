// Package mask samples the one-time-pad blinds that hide intermediate
// values from the king during a king-coordinated round. A king round
// works by having the king temporarily unpack a secret into the clear to
// do work a packed sharing can't (FFT-2, degree reduction); in DegRed
// (degred.Reduce) an additive mask keeps that unpacked value
// indistinguishable from random unless the mask is known, and is always
// applied in matched (in, out = -in) pairs so the mask cancels once
// the king's answer comes back. dFFT/dIFFT's Phase-2 round (package
// dfft) applies no mask from this package.
//
// Grounded on dist-primitives/src/utils/deg_red.rs's DegRedMask::sample,
// generalized from field-only masks (DegRedMask<F, F>) to any
// polynomial.Coeff[T] so dMSM-adjacent group-element reductions reuse the
// same dealer. Sample builds masks for values already known to be
// degree-(t+l) (DegRedMask::sample's own packing); Sample2 extends that
// to genuinely degree-2(t+l) inputs, which DegRedMask::sample's
// degree-(t+l) in-mask cannot actually hide -- see degred.Reduce.
package mask

import (
	"crypto/rand"
	"fmt"
	"hash"
	"io"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/hkdf"

	"github.com/luxfi/distprove/pkg/field"
	"github.com/luxfi/distprove/pkg/polynomial"
	"github.com/luxfi/distprove/pkg/pss"
)

// Dealer samples mask values and packs them into per-party shares. It is
// itself untrusted infrastructure: whichever party runs Sample learns
// every mask value in the clear, so in a real deployment Sample runs
// once per session in a trusted-setup step (or is itself replaced by an
// interactive joint-sampling protocol) rather than by any one
// participant at round time.
type Dealer struct {
	pp  *pss.Params
	src io.Reader
}

// NewDealer builds a Dealer over pp, drawing mask randomness from src.
// A nil src defaults to crypto/rand.
func NewDealer(pp *pss.Params, src io.Reader) *Dealer {
	if src == nil {
		src = rand.Reader
	}
	return &Dealer{pp: pp, src: src}
}

// DeterministicSource derives a reproducible randomness stream from
// seed via HKDF-BLAKE3, for test fixtures that need the same masks
// across repeated runs without hand-maintaining mask tables.
func DeterministicSource(seed []byte) io.Reader {
	return hkdf.New(func() hash.Hash { return blake3.New() }, seed, nil, []byte("distprove/mask"))
}

// PartyMask is one party's share of a sampled in/out mask pair. Adding
// InShare to a value's share before sending it to the king hides it;
// adding OutShare to the king's reply share removes the mask, since in
// the clear Out = -In.
type PartyMask[T polynomial.Coeff[T]] struct {
	In  []T
	Out []T
}

// Sample draws num*pp.L mask scalars, each gen scaled by a fresh random
// field element, and packs both the masks and their negations, returning
// one PartyMask per party with num entries each (one mask per packed
// instance being protected in a single round).
func Sample[T polynomial.Coeff[T]](d *Dealer, gen T, num int, zero T) ([]PartyMask[T], error) {
	if num <= 0 {
		return nil, fmt.Errorf("mask: num must be positive, got %d", num)
	}
	total := num * d.pp.L
	inValues := make([]T, total)
	outValues := make([]T, total)
	for i := 0; i < total; i++ {
		r, err := field.Random(d.src)
		if err != nil {
			return nil, fmt.Errorf("mask: sampling mask scalar: %w", err)
		}
		v := gen.Scale(r)
		inValues[i] = v
		outValues[i] = zero.Sub(v)
	}

	inShares, err := packChunks(d.pp, inValues, zero)
	if err != nil {
		return nil, err
	}
	outShares, err := packChunks(d.pp, outValues, zero)
	if err != nil {
		return nil, err
	}

	result := make([]PartyMask[T], d.pp.N)
	for p := 0; p < d.pp.N; p++ {
		result[p] = PartyMask[T]{In: make([]T, num), Out: make([]T, num)}
		for c := 0; c < num; c++ {
			result[p].In[c] = inShares[c][p]
			result[p].Out[c] = outShares[c][p]
		}
	}
	return result, nil
}

func packChunks[T polynomial.Coeff[T]](pp *pss.Params, values []T, zero T) ([][]T, error) {
	numChunks := len(values) / pp.L
	out := make([][]T, numChunks)
	for c := 0; c < numChunks; c++ {
		chunk := values[c*pp.L : (c+1)*pp.L]
		shares, err := pss.PackFromPublic(pp, chunk, zero)
		if err != nil {
			return nil, fmt.Errorf("mask: packing chunk %d: %w", c, err)
		}
		out[c] = shares
	}
	return out, nil
}

// Sample2 draws masks for hiding a genuine degree-2(t+l) value from the
// king -- the pointwise product of two degree-(t+l) sharings, before any
// degree reduction has happened. The in-mask is packed across the full
// Secret2 domain (pss.Pack2) with independent random filler at every
// slot Unpack2 doesn't read a packed value from, so it hides the masked
// sum's high-degree coefficients the way Sample's in-mask only ever
// hides a degree-(t+l) value's low ones. The out-mask stays a plain
// degree-(t+l) pack, since degred.Reduce's king answer is always a
// freshly re-randomized degree-(t+l) sharing regardless of the input
// degree.
func Sample2[T polynomial.Coeff[T]](d *Dealer, gen T, num int, zero T) ([]PartyMask[T], error) {
	if num <= 0 {
		return nil, fmt.Errorf("mask: num must be positive, got %d", num)
	}
	total := num * d.pp.L
	inValues := make([]T, total)
	outValues := make([]T, total)
	for i := 0; i < total; i++ {
		r, err := field.Random(d.src)
		if err != nil {
			return nil, fmt.Errorf("mask: sampling mask scalar: %w", err)
		}
		v := gen.Scale(r)
		inValues[i] = v
		outValues[i] = zero.Sub(v)
	}

	inShares, err := packChunks2(d.pp, inValues, gen, zero, d.src)
	if err != nil {
		return nil, err
	}
	outShares, err := packChunks(d.pp, outValues, zero)
	if err != nil {
		return nil, err
	}

	result := make([]PartyMask[T], d.pp.N)
	for p := 0; p < d.pp.N; p++ {
		result[p] = PartyMask[T]{In: make([]T, num), Out: make([]T, num)}
		for c := 0; c < num; c++ {
			result[p].In[c] = inShares[c][p]
			result[p].Out[c] = outShares[c][p]
		}
	}
	return result, nil
}

func packChunks2[T polynomial.Coeff[T]](pp *pss.Params, values []T, gen T, zero T, src io.Reader) ([][]T, error) {
	numChunks := len(values) / pp.L
	dim := 2 * (pp.L + pp.T + 1)
	out := make([][]T, numChunks)
	for c := 0; c < numChunks; c++ {
		chunk := values[c*pp.L : (c+1)*pp.L]
		fill := make([]T, dim-pp.L)
		for i := range fill {
			r, err := field.Random(src)
			if err != nil {
				return nil, fmt.Errorf("mask: sampling degree-2 fill scalar: %w", err)
			}
			fill[i] = gen.Scale(r)
		}
		shares, err := pss.Pack2(pp, chunk, fill, zero)
		if err != nil {
			return nil, fmt.Errorf("mask: packing degree-2 chunk %d: %w", c, err)
		}
		out[c] = shares
	}
	return out, nil
}
