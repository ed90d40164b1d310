// Package testnet provides an in-process simulation of an n-party king
// round, the Go analog of mpc-net/src/multi.rs's LocalTestNet: no real
// sockets, TLS, or multiplexing, just the same
// ClientSendOrKingReceive/ClientReceiveOrKingSend fan-in/fan-out
// contract pkg/transport.Transport implements, so property tests over
// pkg/pss and pkg/primitives run fast and deterministically while
// pkg/transport's own Ginkgo suite covers the real wire protocol.
package testnet

import (
	"context"

	"github.com/luxfi/distprove/pkg/errs"
	"github.com/luxfi/distprove/pkg/party"
	"github.com/luxfi/distprove/pkg/transport"
)

// LocalTestNet wires n in-process parties together over channels.
type LocalTestNet struct {
	n        int
	toKing   [3]map[party.ID]chan []byte
	fromKing [3]map[party.ID]chan []byte
}

// New builds a LocalTestNet for n parties, party 0 being king.
func New(n int) *LocalTestNet {
	lt := &LocalTestNet{n: n}
	for s := 0; s < 3; s++ {
		lt.toKing[s] = make(map[party.ID]chan []byte, n-1)
		lt.fromKing[s] = make(map[party.ID]chan []byte, n-1)
		for id := 1; id < n; id++ {
			lt.toKing[s][party.ID(id)] = make(chan []byte, 1)
			lt.fromKing[s][party.ID(id)] = make(chan []byte, 1)
		}
	}
	return lt
}

// Handle returns the transport.Net view for party id. Call this once per
// party and run each on its own goroutine, mirroring how
// simulate_network_round spawns one task per node.
func (lt *LocalTestNet) Handle(id party.ID) transport.Net {
	return &memNet{hub: lt, self: id}
}

type memNet struct {
	hub  *LocalTestNet
	self party.ID
}

func (m *memNet) Self() party.ID  { return m.self }
func (m *memNet) NParties() int   { return m.hub.n }
func (m *memNet) IsKing() bool    { return m.self.IsKing() }

func (m *memNet) ClientSendOrKingReceive(ctx context.Context, payload []byte, sid transport.StreamID) (*transport.CollectResult, error) {
	if !m.IsKing() {
		m.hub.toKing[sid][m.self] <- payload
		return nil, nil
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, transport.DefaultRoundTimeout)
		defer cancel()
	}

	type result struct {
		id      party.ID
		payload []byte
	}
	results := make(chan result, m.hub.n-1)
	for id := 1; id < m.hub.n; id++ {
		id := id
		go func() {
			data := <-m.hub.toKing[sid][party.ID(id)]
			results <- result{id: party.ID(id), payload: data}
		}()
	}

	collected := map[party.ID][]byte{party.King: payload}
	for i := 0; i < m.hub.n-1; i++ {
		select {
		case r := <-results:
			collected[r.id] = r.payload
		case <-ctx.Done():
			i = m.hub.n - 1
		}
	}

	if len(collected) == m.hub.n {
		full := make([][]byte, m.hub.n)
		for id, data := range collected {
			full[id] = data
		}
		return &transport.CollectResult{Full: full}, nil
	}

	missing := make(party.IDSlice, 0, m.hub.n-len(collected))
	for id := 0; id < m.hub.n; id++ {
		if _, ok := collected[party.ID(id)]; !ok {
			missing = append(missing, party.ID(id))
		}
	}
	return &transport.CollectResult{Partial: collected, Missing: missing}, nil
}

func (m *memNet) ClientReceiveOrKingSend(kingAnswer [][]byte, sid transport.StreamID) ([]byte, error) {
	if m.IsKing() {
		if kingAnswer == nil {
			return nil, &errs.BadInput{Err: "ClientReceiveOrKingSend called with no answer while king"}
		}
		if len(kingAnswer) != m.hub.n {
			return nil, &errs.BadInput{Err: "ClientReceiveOrKingSend answer length mismatch"}
		}
		for id := 1; id < m.hub.n; id++ {
			m.hub.fromKing[sid][party.ID(id)] <- kingAnswer[id]
		}
		return kingAnswer[party.King], nil
	}
	if kingAnswer != nil {
		return nil, &errs.BadInput{Err: "ClientReceiveOrKingSend called with an answer while not king"}
	}
	return <-m.hub.fromKing[sid][m.self], nil
}
