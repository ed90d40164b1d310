// Package errs collects the error kinds surfaced by the distributed
// primitives layer. Every primitive returns these rather than swallowing
// failures; callers above distinguish kinds with errors.As.
package errs

import (
	"fmt"

	"github.com/luxfi/distprove/pkg/party"
)

// NotConnected indicates a stream required by an operation is absent.
type NotConnected struct {
	Peer party.ID
}

func (e *NotConnected) Error() string {
	return fmt.Sprintf("distprove: not connected to party %s", e.Peer)
}

// Protocol indicates a peer violated a protocol contract: wrong byte
// count, wrong packet kind, or a missing handshake ack. Party is the
// offending party when known; Missing, when set, lists a set of parties
// instead of blaming a single one. A king collection with too few
// survivors is reported as *Timeout, not Protocol.
type Protocol struct {
	Err     string
	Party   party.ID
	Missing party.IDSlice
}

func (e *Protocol) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("distprove: protocol error: %s (missing parties: %v)", e.Err, e.Missing)
	}
	return fmt.Sprintf("distprove: protocol error: %s (party %s)", e.Err, e.Party)
}

// BadInput indicates the caller passed mutually inconsistent arguments,
// e.g. mismatched bases/scalars lengths or an M not divisible by l.
type BadInput struct {
	Err string
}

func (e *BadInput) Error() string {
	return fmt.Sprintf("distprove: bad input: %s", e.Err)
}

// Timeout reports that a king collection round timed out with fewer than
// threshold survivors to attempt Reed-Solomon recovery.
type Timeout struct {
	Survivors int
	Threshold int
	Missing   party.IDSlice
}

func (e *Timeout) Error() string {
	return fmt.Sprintf("distprove: timeout: %d/%d responses (below threshold), missing %v", e.Survivors, e.Threshold, e.Missing)
}

// Generic wraps an I/O or serialization failure that doesn't fit a more
// specific kind.
type Generic struct {
	Err error
}

func (e *Generic) Error() string {
	return fmt.Sprintf("distprove: %s", e.Err.Error())
}

func (e *Generic) Unwrap() error {
	return e.Err
}

// Wrap lifts an arbitrary error into a Generic, unless it already is one
// of the kinds in this package.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	switch err.(type) {
	case *NotConnected, *Protocol, *BadInput, *Timeout, *Generic:
		return err
	default:
		return &Generic{Err: err}
	}
}
