// Package sernet layers typed, serialized king rounds on top of
// pkg/transport's raw byte rounds, the Go analog of
// mpc-net/src/ser_net.rs's MpcSerNet trait. Every distributed
// primitive (dfft, dmsm, dpp, degred) calls through here rather than
// through pkg/transport directly.
package sernet

import (
	"context"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/luxfi/distprove/pkg/errs"
	"github.com/luxfi/distprove/pkg/party"
	"github.com/luxfi/distprove/pkg/transport"
)

// encMode is the canonical CBOR encoding every party uses, so byte
// strings compare equal across the party set regardless of Go map
// iteration order or similar nondeterminism (sernet values are plain
// structs/slices, not maps, but canonical mode is cheap insurance).
var encMode = func() cbor.EncMode {
	opts := cbor.CanonicalEncOptions()
	mode, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("sernet: building canonical CBOR encoder: %v", err))
	}
	return mode
}()

// ReceivedShares is the king's view of a completed collection round: the
// responding parties' deserialized values and which party each one came
// from. Full() reports whether every party answered.
type ReceivedShares[T any] struct {
	Shares  []T
	Parties party.IDSlice
}

// Full reports whether every party in the session responded.
func (r ReceivedShares[T]) Full(n int) bool { return len(r.Parties) == n }

// ClientSendOrKingReceive sends out to the king (non-king parties) or
// collects every party's value (the king), decoding each with CBOR.
// Non-king parties get a zero ReceivedShares back. threshold is the
// minimum number of responses the king needs to treat a partial round
// as usable; fewer than that is a Timeout error.
func ClientSendOrKingReceive[T any](ctx context.Context, tr transport.Net, out *T, sid transport.StreamID, threshold int) (ReceivedShares[T], error) {
	payload, err := encMode.Marshal(out)
	if err != nil {
		return ReceivedShares[T]{}, &errs.BadInput{Err: fmt.Sprintf("encoding sernet payload: %v", err)}
	}

	result, err := tr.ClientSendOrKingReceive(ctx, payload, sid)
	if err != nil {
		return ReceivedShares[T]{}, err
	}
	if result == nil {
		return ReceivedShares[T]{}, nil
	}

	if result.IsFull() {
		shares := make([]T, len(result.Full))
		for i, raw := range result.Full {
			var v T
			if err := cbor.Unmarshal(raw, &v); err != nil {
				return ReceivedShares[T]{}, &errs.Generic{Err: fmt.Errorf("decoding share from party %d: %w", i, err)}
			}
			shares[i] = v
		}
		return ReceivedShares[T]{Shares: shares, Parties: party.Range(len(shares))}, nil
	}

	if len(result.Partial) < threshold {
		return ReceivedShares[T]{}, &errs.Timeout{
			Survivors: len(result.Partial),
			Threshold: threshold,
			Missing:   result.Missing,
		}
	}

	ids := make(party.IDSlice, 0, len(result.Partial))
	for id := range result.Partial {
		ids = append(ids, id)
	}
	ids = party.NewIDSlice(ids...)

	shares := make([]T, 0, len(ids))
	for _, id := range ids {
		var v T
		if err := cbor.Unmarshal(result.Partial[id], &v); err != nil {
			return ReceivedShares[T]{}, &errs.Generic{Err: fmt.Errorf("decoding share from party %s: %w", id, err)}
		}
		shares = append(shares, v)
	}
	return ReceivedShares[T]{Shares: shares, Parties: ids}, nil
}

// ClientReceiveOrKingSend sends the king's per-party answers (indexed by
// party.ID, king passes non-nil; non-king parties pass nil) and returns
// this party's own decoded value.
func ClientReceiveOrKingSend[T any](tr transport.Net, answers []T, sid transport.StreamID) (T, error) {
	var zero T
	var raw [][]byte
	if answers != nil {
		raw = make([][]byte, len(answers))
		for i, v := range answers {
			payload, err := encMode.Marshal(v)
			if err != nil {
				return zero, &errs.BadInput{Err: fmt.Sprintf("encoding sernet answer %d: %v", i, err)}
			}
			raw[i] = payload
		}
	}

	payload, err := tr.ClientReceiveOrKingSend(raw, sid)
	if err != nil {
		return zero, err
	}
	var v T
	if err := cbor.Unmarshal(payload, &v); err != nil {
		return zero, &errs.Generic{Err: fmt.Errorf("decoding king's answer: %w", err)}
	}
	return v, nil
}
