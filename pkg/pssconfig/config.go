// Package pssconfig bundles the plain configuration a running party
// needs: its packed-sharing parameters and its transport endpoints.
// Per SPEC_FULL.md §2, this module has no ambient configuration library
// (no Viper, no env-file loader) -- the teacher and the rest of the
// pack configure their protocols with plain structs built by the
// caller, so this package follows suit.
package pssconfig

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/luxfi/distprove/pkg/log"
	"github.com/luxfi/distprove/pkg/party"
	"github.com/luxfi/distprove/pkg/pss"
	"github.com/luxfi/distprove/pkg/transport"
)

// Config is everything one party needs to join a packed-sharing session:
// the sharing parameters (shared by every party) and this party's
// network role.
type Config struct {
	// PackingFactor is l; Params derives t = l-1, n = 4l from it.
	PackingFactor int
	Self          party.ID
	NParties      int
	ListenAddr    string // king only
	KingAddr      string // non-king only
	TLSConfig     *tls.Config
	RoundTimeout  time.Duration
	// Logger receives king-round diagnostics from pkg/primitives, via the
	// pss.Params this config builds. Nil defaults to log.Default.
	Logger log.Logger
}

// Validate checks the config is internally consistent (n matches the
// packing factor's derived n, a king/non-king has the endpoint it
// needs).
func (c Config) Validate() error {
	if c.PackingFactor <= 0 {
		return fmt.Errorf("pssconfig: packing factor must be positive")
	}
	wantN := 4 * c.PackingFactor
	if c.NParties != wantN {
		return fmt.Errorf("pssconfig: NParties %d does not match packing factor %d (expected %d)", c.NParties, c.PackingFactor, wantN)
	}
	if c.Self.IsKing() {
		if c.ListenAddr == "" {
			return fmt.Errorf("pssconfig: king requires ListenAddr")
		}
	} else if c.KingAddr == "" {
		return fmt.Errorf("pssconfig: non-king party requires KingAddr")
	}
	if c.TLSConfig == nil {
		return fmt.Errorf("pssconfig: TLSConfig is required")
	}
	return nil
}

// Params builds the pss.Params this session shares, wiring in c.Logger
// if set.
func (c Config) Params() (*pss.Params, error) {
	pp, err := pss.New(c.PackingFactor)
	if err != nil {
		return nil, err
	}
	if c.Logger != nil {
		pp.Logger = c.Logger
	}
	return pp, nil
}

// TransportConfig projects the networking fields into a transport.Config.
func (c Config) TransportConfig() transport.Config {
	return transport.Config{
		Self:         c.Self,
		NParties:     c.NParties,
		ListenAddr:   c.ListenAddr,
		KingAddr:     c.KingAddr,
		TLSConfig:    c.TLSConfig,
		RoundTimeout: c.RoundTimeout,
	}
}
