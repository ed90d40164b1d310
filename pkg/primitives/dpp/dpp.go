// Package dpp implements the distributed partial-products primitive:
// given packed shares of num[0..m) and den[0..m), compute the running
// products num[0]/den[0], (num[0]/den[0])*(num[1]/den[1]), ...,
// ending in the product of every ratio. With the blind fixed at s = 1
// (below), the king sees every individual ratio in the clear.
//
// Grounded on dist-primitives/src/dpp/mod.rs's d_pp: every party scales
// its num/den shares by a blinding constant s (the source hardcodes
// s = 1, a placeholder for a future randomized blind that would cancel
// out of the division step automatically -- carried over unchanged
// here rather than inventing the missing blind-sharing scheme), sends
// the concatenated, blinded shares to the king over one round, who
// recovers every ratio in the clear, computes the prefix product, and
// re-packs (deterministically, so the result still needs a degree
// reduction round to restore proper t-privacy) before sending shares
// back; each party undoes the blind and finishes with degred.Reduce.
package dpp

import (
	"context"
	"fmt"
	"io"

	"github.com/luxfi/distprove/pkg/errs"
	"github.com/luxfi/distprove/pkg/field"
	"github.com/luxfi/distprove/pkg/mask"
	"github.com/luxfi/distprove/pkg/primitives/degred"
	"github.com/luxfi/distprove/pkg/pss"
	"github.com/luxfi/distprove/pkg/sernet"
	"github.com/luxfi/distprove/pkg/transport"
)

// DPP runs the distributed partial-products protocol. num and den are
// this party's share vectors (equal length, one entry per packed chunk);
// degredMask must have been sampled for len(num) packed values by
// the session's mask dealer, since the final step reduces the degree of
// exactly that many repacked results. kingRandSrc supplies the king's
// re-sharing randomness for the embedded degree reduction; nil defaults
// to crypto/rand.
func DPP(ctx context.Context, net transport.Net, pp *pss.Params, num, den []field.Element, degredMask mask.PartyMask[field.Element], sid transport.StreamID, kingRandSrc io.Reader) ([]field.Element, error) {
	if len(num) != len(den) {
		return nil, &errs.BadInput{Err: "dpp: num and den share vectors must have the same length"}
	}

	s := field.One()
	numdenRand := make([]field.Element, 0, 2*len(num))
	for _, x := range num {
		numdenRand = append(numdenRand, x.Mul(s))
	}
	for _, x := range den {
		numdenRand = append(numdenRand, x.Mul(s))
	}

	rs, err := sernet.ClientSendOrKingReceive(ctx, net, &numdenRand, sid, pp.T+1)
	if err != nil {
		return nil, err
	}

	var kingAnswer [][]field.Element
	if net.IsKing() {
		pp.Logger.Debugf("dpp: king computing running products over %d rows", len(rs.Shares[0]))
		kingAnswer, err = kingPartialProducts(pp, rs)
		if err != nil {
			return nil, err
		}
	}

	answer, err := sernet.ClientReceiveOrKingSend(net, kingAnswer, sid)
	if err != nil {
		return nil, err
	}

	sinv := s.Inverse()
	for i := range answer {
		answer[i] = answer[i].Mul(sinv)
	}

	return degred.Reduce(ctx, net, pp, answer, degredMask, pss.DegreeTL, sid, kingRandSrc)
}

// kingPartialProducts runs on the king only: unpack every row of the
// concatenated num||den shares, divide pointwise, take the running
// product, and re-pack into one row per party.
func kingPartialProducts(pp *pss.Params, rs sernet.ReceivedShares[[]field.Element]) ([][]field.Element, error) {
	full := rs.Full(pp.N)
	rows := len(rs.Shares[0])

	numden := make([]field.Element, 0, rows*pp.L)
	for row := 0; row < rows; row++ {
		col := make([]field.Element, pp.N)
		for j, p := range rs.Parties {
			col[p] = rs.Shares[j][row]
		}

		var secrets []field.Element
		var err error
		if full {
			secrets, err = pss.Unpack(pp, col, field.Zero())
		} else {
			secrets, err = pss.UnpackMissingShares(pp, col, rs.Parties)
		}
		if err != nil {
			return nil, fmt.Errorf("dpp: unpacking row %d: %w", row, err)
		}
		numden = append(numden, secrets...)
	}

	m := len(numden) / 2
	for i := 0; i < m; i++ {
		denInv := numden[i+m].Inverse()
		numden[i] = numden[i].Mul(denInv)
	}
	numden = numden[:m]

	for i := 1; i < m; i++ {
		numden[i] = numden[i].Mul(numden[i-1])
	}

	mbyl := m / pp.L
	perParty := make([][]field.Element, pp.N)
	for p := range perParty {
		perParty[p] = make([]field.Element, mbyl)
	}
	for i := 0; i < mbyl; i++ {
		chunk := numden[i*pp.L : (i+1)*pp.L]
		shares, err := pss.PackFromPublic(pp, chunk, field.Zero())
		if err != nil {
			return nil, err
		}
		for p, s := range shares {
			perParty[p][i] = s
		}
	}
	return perParty, nil
}
