// Package dfft implements the distributed FFT/IFFT primitive: n parties,
// each holding a packed share of m/l coefficients (or evaluations),
// jointly compute the FFT (or IFFT) of the length-m polynomial over
// domain dom. No mask is applied: the king sees the unpacked Phase-1
// intermediate values in the clear.
//
// Grounded on dist-primitives/src/dfft/mod.rs's d_fft/d_ifft: every
// party runs a local "Phase 1" butterfly pass on its own share vector,
// then all parties send their (still-shared) intermediate values to the
// king over one sernet round; the king unpacks each row, runs the
// global "Phase 2" butterfly pass now that full secrets are in hand,
// optionally zero-pads and bit-reversal-rearranges the result, re-packs,
// and sends each party its new share back.
package dfft

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/luxfi/distprove/pkg/errs"
	"github.com/luxfi/distprove/pkg/field"
	"github.com/luxfi/distprove/pkg/polynomial"
	"github.com/luxfi/distprove/pkg/pss"
	"github.com/luxfi/distprove/pkg/sernet"
	"github.com/luxfi/distprove/pkg/transport"
)

// Options configures the optional post-processing the king performs
// after Phase 2, per d_fft/d_ifft's rearrange/pad/degree2 parameters.
type Options struct {
	// Rearrange bit-reversal-permutes the king's result before
	// re-packing, so a follow-on transform can consume it directly.
	Rearrange bool
	// Pad, if > 1, zero-extends the king's result to Pad times its
	// natural length before re-packing.
	Pad int
	// Degree2 unpacks each row with Unpack2 instead of Unpack: set this
	// when pcoeffShare/pevalShare came out of a local share-by-share
	// multiplication (degree-2(t+l)) rather than a plain sharing.
	Degree2 bool
}

func log2(x int) int { return bits.Len(uint(x)) - 1 }

// fft1InPlace runs every party's local Phase-1 decimation pass over its
// own share vector px (length m/l), using dom's size m and the packing
// factor l to determine the strides.
func fft1InPlace(px []field.Element, domSize, l int, genInv field.Element) {
	for i := log2(domSize); i >= log2(l)+1; i-- {
		polySize := domSize >> i
		factorStride := genInv.Pow(uint64(1) << uint(i-1))
		factor := factorStride
		for k := 0; k < polySize; k++ {
			for j := 0; j < (1<<uint(i-1))/l; j++ {
				x := px[(2*j)*polySize+k]
				y := px[(2*j+1)*polySize+k].Mul(factor)
				px[j*(2*polySize)+k] = x.Add(y)
				px[j*(2*polySize)+k+polySize] = x.Sub(y)
			}
			factor = factor.Mul(factorStride)
		}
	}
}

// fft2InPlace runs the king's Phase-2 decimation pass over the full,
// now-unpacked, length-m vector s1.
func fft2InPlace(s1 []field.Element, domSize, l int, genInv field.Element) []field.Element {
	s2 := make([]field.Element, len(s1))
	for i := log2(l); i >= 1; i-- {
		polySize := domSize >> i
		factorStride := genInv.Pow(uint64(1) << uint(i-1))
		factor := factorStride
		for k := 0; k < polySize; k++ {
			for j := 0; j < (1 << uint(i-1)); j++ {
				x := s1[k*(1<<uint(i))+2*j]
				y := s1[k*(1<<uint(i))+2*j+1].Mul(factor)
				s2[k*(1<<uint(i-1))+j] = x.Add(y)
				s2[(k+polySize)*(1<<uint(i-1))+j] = x.Sub(y)
			}
			factor = factor.Mul(factorStride)
		}
		s1, s2 = s2, s1
	}
	return s1
}

// fftInPlaceRearrange bit-reversal-permutes data in place.
func fftInPlaceRearrange(data []field.Element) {
	target := 0
	for pos := 0; pos < len(data); pos++ {
		if target > pos {
			data[target], data[pos] = data[pos], data[target]
		}
		m := len(data) >> 1
		for target&m != 0 {
			target &^= m
			m >>= 1
		}
		target |= m
	}
}

// DFFT computes the FFT of the length-dom.Size polynomial whose
// coefficients are packed into pcoeffShare (this party's share of
// dom.Size/pp.L packed chunks).
func DFFT(ctx context.Context, net transport.Net, pp *pss.Params, dom *polynomial.Domain, pcoeffShare []field.Element, opts Options) ([]field.Element, error) {
	return run(ctx, net, pp, dom, pcoeffShare, opts)
}

// DIFFT computes the IFFT of a length-dom.Size polynomial whose
// evaluations are packed into pevalShare, matching d_ifft's extra
// 1/dom.Size pre-scale (which, being a public constant, every party
// applies to its own share locally).
func DIFFT(ctx context.Context, net transport.Net, pp *pss.Params, dom *polynomial.Domain, pevalShare []field.Element, opts Options) ([]field.Element, error) {
	sizeInv := dom.SizeInv
	scaled := make([]field.Element, len(pevalShare))
	for i, x := range pevalShare {
		scaled[i] = x.Mul(sizeInv)
	}
	return run(ctx, net, pp, dom, scaled, opts)
}

func run(ctx context.Context, net transport.Net, pp *pss.Params, dom *polynomial.Domain, share []field.Element, opts Options) ([]field.Element, error) {
	m := dom.Size
	l := pp.L
	if len(share)*l != m {
		return nil, &errs.BadInput{Err: fmt.Sprintf("dfft: share length %d * l %d does not match domain size %d", len(share), l, m)}
	}

	px := append([]field.Element(nil), share...)
	fft1InPlace(px, m, l, dom.GeneratorInv)

	rs, err := sernet.ClientSendOrKingReceive(ctx, net, &px, transport.StreamZero, pp.T+1)
	if err != nil {
		return nil, err
	}

	var perPartyAnswer [][]field.Element
	if net.IsKing() {
		pp.Logger.Debugf("dfft: king running phase 2 over domain size %d, %d responding parties", m, len(rs.Parties))
		answer, err := kingPhase2(pp, dom, rs, opts)
		if err != nil {
			return nil, err
		}
		perPartyAnswer = answer
	}

	return sernet.ClientReceiveOrKingSend(net, perPartyAnswer, transport.StreamZero)
}

// kingPhase2 runs on the king only: unpack every row, run Phase 2, pad
// and/or rearrange, then re-pack and transpose into one row per party.
func kingPhase2(pp *pss.Params, dom *polynomial.Domain, rs sernet.ReceivedShares[[]field.Element], opts Options) ([][]field.Element, error) {
	full := rs.Full(pp.N)
	if !full && opts.Degree2 {
		return nil, &errs.BadInput{Err: "dfft: degree-2 rounds require every party to respond, Reed-Solomon recovery is not defined for degree-2(t+l) sharings"}
	}

	mbyl := len(rs.Shares[0])
	s1 := make([]field.Element, mbyl*pp.L)
	for i := 0; i < mbyl; i++ {
		row := make([]field.Element, pp.N)
		for j, p := range rs.Parties {
			row[p] = rs.Shares[j][i]
		}
		var tmp []field.Element
		var err error
		switch {
		case opts.Degree2:
			tmp, err = pss.Unpack2(pp, row, field.Zero())
		case full:
			tmp, err = pss.Unpack(pp, row, field.Zero())
		default:
			tmp, err = pss.UnpackMissingShares(pp, row, rs.Parties)
		}
		if err != nil {
			return nil, fmt.Errorf("dfft: unpacking row %d: %w", i, err)
		}
		copy(s1[i*pp.L:(i+1)*pp.L], tmp)
	}

	s1 = fft2InPlace(s1, dom.Size, pp.L, dom.GeneratorInv)

	if opts.Pad > 1 {
		padded := make([]field.Element, opts.Pad*len(s1))
		copy(padded, s1)
		for i := len(s1); i < len(padded); i++ {
			padded[i] = field.Zero()
		}
		s1 = padded
	}

	numRows := len(s1) / pp.L
	outRows := make([][]field.Element, numRows)
	if opts.Rearrange {
		fftInPlaceRearrange(s1)
		for i := 0; i < numRows; i++ {
			row := make([]field.Element, pp.L)
			for j := 0; j < pp.L; j++ {
				row[j] = s1[i+j*numRows]
			}
			shares, err := pss.PackFromPublic(pp, row, field.Zero())
			if err != nil {
				return nil, err
			}
			outRows[i] = shares
		}
	} else {
		for i := 0; i < numRows; i++ {
			chunk := s1[i*pp.L : (i+1)*pp.L]
			shares, err := pss.PackFromPublic(pp, chunk, field.Zero())
			if err != nil {
				return nil, err
			}
			outRows[i] = shares
		}
	}

	perParty := make([][]field.Element, pp.N)
	for p := 0; p < pp.N; p++ {
		row := make([]field.Element, numRows)
		for i := 0; i < numRows; i++ {
			row[i] = outRows[i][p]
		}
		perParty[p] = row
	}
	return perParty, nil
}
