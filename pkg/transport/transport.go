// Package transport implements the star-topology network layer every
// king round runs over: the king listens once, every non-king party
// dials the king exactly once, and each connection is mutually
// TLS-authenticated and multiplexed into 3 logical streams.
//
// Grounded on original_source/mpc-net/src/prod.rs (ProdNet: TCP +
// rustls mutual TLS, async_smux 3-channel multiplex, Syn/SynAck
// handshake) and mpc-net/src/lib.rs (the MpcNet trait's
// client_send_or_king_receive / client_receive_or_king_send). rustls +
// async_smux have no Go equivalent in _examples/, so this package uses
// stdlib crypto/tls (the idiomatic Go mutual-TLS story: no example or
// ecosystem TLS stack improves on tls.Config) and hashicorp/yamux for
// multiplexing (the one dependency this module adds beyond the pack,
// justified in DESIGN.md as the direct analog of async_smux).
package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/hashicorp/yamux"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/distprove/internal/wire"
	"github.com/luxfi/distprove/pkg/errs"
	"github.com/luxfi/distprove/pkg/party"
)

// StreamID names one of the 3 multiplexed logical channels a connection
// carries, matching original_source's MultiplexedStreamID.
type StreamID int

const (
	StreamZero StreamID = iota
	StreamOne
	StreamTwo
	numStreams
)

// DefaultRoundTimeout is how long the king waits to collect responses
// in ClientSendOrKingReceive before proceeding with whoever answered.
const DefaultRoundTimeout = 30 * time.Second

// Config configures a Transport. ListenAddr is used only by the king;
// KingAddr only by non-king parties.
type Config struct {
	Self         party.ID
	NParties     int
	ListenAddr   string
	KingAddr     string
	TLSConfig    *tls.Config
	RoundTimeout time.Duration
}

// conn bundles the 3 multiplexed streams to one peer.
type conn struct {
	codecs  [numStreams]*wire.Codec
	writeMu [numStreams]sync.Mutex
}

// Transport is a ready star-topology connection set: the king holds one
// conn per non-king party; a non-king party holds exactly one conn, to
// the king.
type Transport struct {
	self     party.ID
	n        int
	timeout  time.Duration
	kingConn *conn            // non-king only
	peers    map[party.ID]*conn // king only
}

// Dial establishes cfg's role (king or non-king) and blocks until every
// party has connected and the Syn/SynAck handshake has completed on
// StreamZero.
func Dial(ctx context.Context, cfg Config) (*Transport, error) {
	timeout := cfg.RoundTimeout
	if timeout <= 0 {
		timeout = DefaultRoundTimeout
	}
	t := &Transport{self: cfg.Self, n: cfg.NParties, timeout: timeout}

	if cfg.Self.IsKing() {
		if err := t.listenAsKing(ctx, cfg); err != nil {
			return nil, err
		}
	} else {
		if err := t.dialAsNonKing(ctx, cfg); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Transport) listenAsKing(ctx context.Context, cfg Config) error {
	listener, err := tls.Listen("tcp", cfg.ListenAddr, cfg.TLSConfig)
	if err != nil {
		return fmt.Errorf("transport: listening on %s: %w", cfg.ListenAddr, err)
	}
	defer listener.Close()

	t.peers = make(map[party.ID]*conn, t.n-1)
	for i := 0; i < t.n-1; i++ {
		raw, err := listener.Accept()
		if err != nil {
			return fmt.Errorf("transport: accepting peer connection: %w", err)
		}
		id, c, err := acceptPeer(raw)
		if err != nil {
			return err
		}
		t.peers[id] = c
	}

	// Syn/SynAck handshake: king broadcasts Syn, then waits for every
	// peer's SynAck, both over StreamZero.
	for id, c := range t.peers {
		if err := c.codecs[StreamZero].WriteFrame([]byte("SYN")); err != nil {
			return errs.Wrap(fmt.Errorf("transport: sending Syn to %s: %w", id, err))
		}
	}
	for id, c := range t.peers {
		ack, err := c.codecs[StreamZero].ReadFrame()
		if err != nil {
			return errs.Wrap(fmt.Errorf("transport: awaiting SynAck from %s: %w", id, err))
		}
		if string(ack) != "SYNACK" {
			return &errs.Protocol{Err: "did not receive SynAck", Party: id}
		}
	}
	return nil
}

func acceptPeer(raw net.Conn) (party.ID, *conn, error) {
	var idBuf [4]byte
	if _, err := readFull(raw, idBuf[:]); err != nil {
		return 0, nil, fmt.Errorf("transport: reading peer id: %w", err)
	}
	id := party.ID(uint32(idBuf[0])<<24 | uint32(idBuf[1])<<16 | uint32(idBuf[2])<<8 | uint32(idBuf[3]))

	session, err := yamux.Server(raw, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("transport: starting yamux server session with %s: %w", id, err)
	}
	c := &conn{}
	for i := 0; i < int(numStreams); i++ {
		stream, err := session.Accept()
		if err != nil {
			return 0, nil, fmt.Errorf("transport: accepting stream %d from %s: %w", i, id, err)
		}
		c.codecs[i] = wire.NewCodec(stream)
	}
	return id, c, nil
}

func (t *Transport) dialAsNonKing(ctx context.Context, cfg Config) error {
	raw, err := tls.Dial("tcp", cfg.KingAddr, cfg.TLSConfig)
	if err != nil {
		return fmt.Errorf("transport: dialing king at %s: %w", cfg.KingAddr, err)
	}

	var idBuf [4]byte
	idBuf[0] = byte(uint32(t.self) >> 24)
	idBuf[1] = byte(uint32(t.self) >> 16)
	idBuf[2] = byte(uint32(t.self) >> 8)
	idBuf[3] = byte(uint32(t.self))
	if _, err := raw.Write(idBuf[:]); err != nil {
		return fmt.Errorf("transport: announcing party id to king: %w", err)
	}

	session, err := yamux.Client(raw, nil)
	if err != nil {
		return fmt.Errorf("transport: starting yamux client session: %w", err)
	}
	c := &conn{}
	for i := 0; i < int(numStreams); i++ {
		stream, err := session.Open()
		if err != nil {
			return fmt.Errorf("transport: opening stream %d to king: %w", i, err)
		}
		c.codecs[i] = wire.NewCodec(stream)
	}
	t.kingConn = c

	syn, err := c.codecs[StreamZero].ReadFrame()
	if err != nil {
		return errs.Wrap(fmt.Errorf("transport: awaiting Syn from king: %w", err))
	}
	if string(syn) != "SYN" {
		return &errs.Protocol{Err: "did not receive Syn", Party: party.King}
	}
	if err := c.codecs[StreamZero].WriteFrame([]byte("SYNACK")); err != nil {
		return errs.Wrap(fmt.Errorf("transport: sending SynAck to king: %w", err))
	}
	return nil
}

func readFull(r net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// IsKing reports whether this transport's party is the king.
func (t *Transport) IsKing() bool { return t.self.IsKing() }

// Self returns this transport's own party ID.
func (t *Transport) Self() party.ID { return t.self }

// NParties returns the total number of parties in the session.
func (t *Transport) NParties() int { return t.n }

// SendTo sends raw bytes to peer id over stream sid. The king may send
// to any non-king party; a non-king party may only send to the king.
func (t *Transport) SendTo(id party.ID, sid StreamID, payload []byte) error {
	c, err := t.connFor(id)
	if err != nil {
		return err
	}
	c.writeMu[sid].Lock()
	defer c.writeMu[sid].Unlock()
	if err := c.codecs[sid].WriteFrame(payload); err != nil {
		return &errs.NotConnected{Peer: id}
	}
	return nil
}

// RecvFrom reads raw bytes from peer id over stream sid.
func (t *Transport) RecvFrom(id party.ID, sid StreamID) ([]byte, error) {
	c, err := t.connFor(id)
	if err != nil {
		return nil, err
	}
	payload, err := c.codecs[sid].ReadFrame()
	if err != nil {
		return nil, &errs.NotConnected{Peer: id}
	}
	return payload, nil
}

func (t *Transport) connFor(id party.ID) (*conn, error) {
	if t.IsKing() {
		if id == party.King {
			return nil, fmt.Errorf("transport: king has no connection to itself")
		}
		c, ok := t.peers[id]
		if !ok {
			return nil, &errs.NotConnected{Peer: id}
		}
		return c, nil
	}
	if id != party.King {
		return nil, fmt.Errorf("transport: non-king parties only connect to the king")
	}
	return t.kingConn, nil
}

// Net is the interface pkg/sernet and the distributed primitives
// program against, rather than the concrete *Transport, so tests can
// run the same primitive code over pkg/testnet's in-process simulation
// without opening real sockets.
type Net interface {
	Self() party.ID
	NParties() int
	IsKing() bool
	ClientSendOrKingReceive(ctx context.Context, payload []byte, sid StreamID) (*CollectResult, error)
	ClientReceiveOrKingSend(kingAnswer [][]byte, sid StreamID) ([]byte, error)
}

var _ Net = (*Transport)(nil)

// CollectResult is the outcome of a ClientSendOrKingReceive round, seen
// by the king only (non-king parties get nil, nil).
type CollectResult struct {
	// Full holds every party's payload (including the king's own,
	// prepended), indexed by party.ID, when every peer answered within
	// the timeout.
	Full [][]byte
	// Partial holds the king's own payload plus the peers that answered
	// in time, when at least one did not. Missing lists everyone else.
	Partial map[party.ID][]byte
	Missing party.IDSlice
}

// IsFull reports whether every party answered in time.
func (r *CollectResult) IsFull() bool { return r.Full != nil }

// ClientSendOrKingReceive implements the fan-in half of a king round: a
// non-king party sends payload to the king and gets back (nil, nil); the
// king collects from every non-king party within ctx's deadline (or
// t.timeout if ctx carries none) and returns a CollectResult.
func (t *Transport) ClientSendOrKingReceive(ctx context.Context, payload []byte, sid StreamID) (*CollectResult, error) {
	if !t.IsKing() {
		if err := t.SendTo(party.King, sid, payload); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	type result struct {
		id      party.ID
		payload []byte
		err     error
	}
	results := make(chan result, len(t.peers))

	g, gctx := errgroup.WithContext(ctx)
	for id := range t.peers {
		id := id
		g.Go(func() error {
			data, err := t.RecvFrom(id, sid)
			select {
			case results <- result{id: id, payload: data, err: err}:
			case <-gctx.Done():
				// the collection loop below already gave up; drop this
				// straggler's result rather than leak the goroutine.
			}
			return nil
		})
	}
	// errgroup here only coordinates the per-peer goroutines' lifecycle;
	// a late responder's result is still collected above via the
	// buffered channel, not through g.Wait()'s return value.
	go func() { _ = g.Wait() }()

	collected := make(map[party.ID][]byte, len(t.peers)+1)
	collected[party.King] = payload
	for i := 0; i < len(t.peers); i++ {
		select {
		case r := <-results:
			if r.err == nil {
				collected[r.id] = r.payload
			}
		case <-ctx.Done():
			i = len(t.peers) // stop waiting; whoever answered stays collected
		}
	}

	if len(collected) == t.n {
		full := make([][]byte, t.n)
		for id, data := range collected {
			full[id] = data
		}
		return &CollectResult{Full: full}, nil
	}

	missing := make(party.IDSlice, 0, t.n-len(collected))
	for id := 0; id < t.n; id++ {
		if _, ok := collected[party.ID(id)]; !ok {
			missing = append(missing, party.ID(id))
		}
	}
	return &CollectResult{Partial: collected, Missing: missing}, nil
}

// ClientReceiveOrKingSend implements the fan-out half of a king round.
// The king passes kingAnswer (one payload per party.ID, indexed 0..n-1,
// its own entry included) and gets back its own payload; non-king
// parties pass nil and block until the king's corresponding payload
// arrives.
func (t *Transport) ClientReceiveOrKingSend(kingAnswer [][]byte, sid StreamID) ([]byte, error) {
	if t.IsKing() {
		if kingAnswer == nil {
			return nil, &errs.BadInput{Err: "ClientReceiveOrKingSend called with no answer while king"}
		}
		if len(kingAnswer) != t.n {
			return nil, &errs.BadInput{Err: "ClientReceiveOrKingSend answer length mismatch"}
		}
		for id := 0; id < t.n; id++ {
			if party.ID(id) == party.King {
				continue
			}
			if err := t.SendTo(party.ID(id), sid, kingAnswer[id]); err != nil {
				return nil, err
			}
		}
		return kingAnswer[party.King], nil
	}
	if kingAnswer != nil {
		return nil, &errs.BadInput{Err: "ClientReceiveOrKingSend called with an answer while not king"}
	}
	return t.RecvFrom(party.King, sid)
}
