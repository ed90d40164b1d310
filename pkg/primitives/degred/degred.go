// Package degred implements degree reduction: the one king round every
// distributed multiplication needs to turn a degree-2(t+l) sharing (the
// pointwise product of two degree-(t+l) sharings) back into a fresh
// degree-(t+l) sharing of the same secrets.
//
// Grounded on dist-primitives/src/utils/deg_red.rs's deg_red: each party
// blinds its share with an in-mask before sending it to the king, the
// king unpacks, re-packs with fresh randomness, and sends the new shares
// back; each party removes the matching out-mask to recover its final
// share.
//
// deg_red.rs's own DegRedMask::sample packs the in-mask the same way
// regardless of the input's degree and unconditionally calls
// unpack_missing_shares (the degree-(t+l) erasure decoder) on the masked
// sum; an additive degree-(t+l) mask cannot hide a genuinely degree-2(t+l)
// value's high-degree coefficients, so that only actually works when the
// caller has already re-packed its input down to degree-(t+l) before
// calling Reduce (dpp.go's own usage). Reduce makes the distinction
// explicit with a pss.Degree tag: DegreeTL matches deg_red.rs's existing
// behavior (Unpack/UnpackMissingShares, mask.Sample); Degree2TL masks and
// unpacks a genuine degree-2(t+l) input correctly (Unpack2, mask.Sample2)
// but, like dfft.go's Options.Degree2, requires every party to respond
// since there is no degree-2(t+l)-aware erasure decode.
package degred

import (
	"context"
	"fmt"
	"io"

	"github.com/luxfi/distprove/pkg/errs"
	"github.com/luxfi/distprove/pkg/field"
	"github.com/luxfi/distprove/pkg/mask"
	"github.com/luxfi/distprove/pkg/pss"
	"github.com/luxfi/distprove/pkg/sernet"
	"github.com/luxfi/distprove/pkg/transport"
)

// Reduce runs one king round that reduces xShare (this party's share of
// num packed values) to a fresh degree-(t+l) sharing of the same
// secrets. degree tells the king which unpack to run: pss.Degree2TL for
// a genuine degree-2(t+l) input (the direct pointwise product of two
// degree-(t+l) sharings), pss.DegreeTL when xShare is already a
// degree-(t+l) sharing and Reduce is only re-randomizing it (dpp.go's
// usage, after its own PackFromPublic re-pack). m must have been sampled
// for exactly len(xShare) packed values by the same dealer all parties
// share, via mask.Sample2 for Degree2TL or mask.Sample for DegreeTL. src
// supplies the king's re-sharing randomness; pass nil to default to
// crypto/rand.
func Reduce(ctx context.Context, net transport.Net, pp *pss.Params, xShare []field.Element, m mask.PartyMask[field.Element], degree pss.Degree, sid transport.StreamID, src io.Reader) ([]field.Element, error) {
	if len(xShare) != len(m.In) || len(xShare) != len(m.Out) {
		return nil, &errs.BadInput{Err: "degred: share count does not match mask count"}
	}

	xMask := make([]field.Element, len(xShare))
	for i := range xShare {
		xMask[i] = xShare[i].Add(m.In[i])
	}

	rs, err := sernet.ClientSendOrKingReceive(ctx, net, &xMask, sid, pp.T+1)
	if err != nil {
		return nil, err
	}

	var kingAnswer [][]field.Element
	if net.IsKing() {
		pp.Logger.Debugf("degred: king reducing %d packed rows from %d responding parties", len(xMask), len(rs.Parties))
		kingAnswer, err = kingReduce(pp, rs, degree, src)
		if err != nil {
			return nil, err
		}
	}

	result, err := sernet.ClientReceiveOrKingSend(net, kingAnswer, sid)
	if err != nil {
		return nil, err
	}

	out := make([]field.Element, len(result))
	for i := range result {
		out[i] = result[i].Add(m.Out[i])
	}
	return out, nil
}

// kingReduce runs on the king only: for each of the num packed rows,
// unpack (exactly, or via Reed-Solomon recovery if some parties missed
// the round and degree is DegreeTL) then re-pack with fresh randomness,
// transposing the result into one row per party.
func kingReduce(pp *pss.Params, rs sernet.ReceivedShares[[]field.Element], degree pss.Degree, src io.Reader) ([][]field.Element, error) {
	full := rs.Full(pp.N)
	if !full && degree == pss.Degree2TL {
		return nil, &errs.BadInput{Err: "degred: degree-2 reductions require every party to respond, Reed-Solomon recovery is not defined for degree-2(t+l) sharings"}
	}
	num := len(rs.Shares[0])

	perParty := make([][]field.Element, pp.N)
	for p := range perParty {
		perParty[p] = make([]field.Element, num)
	}

	for row := 0; row < num; row++ {
		col := make([]field.Element, pp.N)
		for j, p := range rs.Parties {
			col[p] = rs.Shares[j][row]
		}

		var secrets []field.Element
		var err error
		switch {
		case degree == pss.Degree2TL:
			secrets, err = pss.Unpack2(pp, col, field.Zero())
		case full:
			secrets, err = pss.Unpack(pp, col, field.Zero())
		default:
			secrets, err = pss.UnpackMissingShares(pp, col, rs.Parties)
		}
		if err != nil {
			return nil, fmt.Errorf("degred: unpacking row %d: %w", row, err)
		}

		randomTail, err := randomFieldTail(pp.T+1, src)
		if err != nil {
			return nil, err
		}
		reshared, err := pss.Pack(pp, secrets, randomTail)
		if err != nil {
			return nil, err
		}
		for p, s := range reshared {
			perParty[p][row] = s
		}
	}
	return perParty, nil
}

func randomFieldTail(n int, src io.Reader) ([]field.Element, error) {
	out := make([]field.Element, n)
	for i := range out {
		v, err := field.Random(src)
		if err != nil {
			return nil, fmt.Errorf("degred: sampling re-share randomness: %w", err)
		}
		out[i] = v
	}
	return out, nil
}
