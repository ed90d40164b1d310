// Package party defines the identity type shared by every component of the
// distributed prover: transport, secret sharing, and the king-coordinated
// primitives all key their state off party.ID.
package party

import (
	"bytes"
	"fmt"
	"sort"
)

// ID identifies one of the n servers participating in a protocol instance.
// Party 0 is always the king.
type ID uint32

// King is the distinguished coordinator party.
const King ID = 0

// IsKing reports whether id is the king.
func (id ID) IsKing() bool {
	return id == King
}

func (id ID) String() string {
	return fmt.Sprintf("party%d", uint32(id))
}

// IDSlice is a sortable, comparable set of party IDs, used for party sets
// and for the responder lists SerNet reports after a partial king round.
type IDSlice []ID

func NewIDSlice(ids ...ID) IDSlice {
	out := make(IDSlice, len(ids))
	copy(out, ids)
	sort.Sort(out)
	return out
}

// Range returns the IDs 0..n-1, i.e. the canonical party set for an n-party
// run where party 0 is king.
func Range(n int) IDSlice {
	out := make(IDSlice, n)
	for i := range out {
		out[i] = ID(i)
	}
	return out
}

func (s IDSlice) Len() int           { return len(s) }
func (s IDSlice) Less(i, j int) bool { return s[i] < s[j] }
func (s IDSlice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// Contains reports whether id is a member of the set.
func (s IDSlice) Contains(id ID) bool {
	for _, x := range s {
		if x == id {
			return true
		}
	}
	return false
}

// Bytes renders the set as a canonical byte string, used when mixing a
// party set into a session identifier.
func (s IDSlice) Bytes() []byte {
	var buf bytes.Buffer
	for _, id := range s {
		buf.WriteByte(byte(id >> 24))
		buf.WriteByte(byte(id >> 16))
		buf.WriteByte(byte(id >> 8))
		buf.WriteByte(byte(id))
	}
	return buf.Bytes()
}
