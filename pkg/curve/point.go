// Package curve wraps the additive elliptic-curve group G used by dMSM.
//
// spec.md's G is the G1 of a BLS12-377/BN254-style pairing curve; no such
// curve library ships in _examples/, so this package wraps the one curve
// library the pack does supply, decred's secp256k1 (already a direct
// dependency of the teacher, luxfi/threshold). See SPEC_FULL.md §8.1: the
// primitives above this package (dmsm, pss's group-side pack/unpack) are
// written against the Point type and field.Element scalars, so retargeting
// at a real pairing curve's G1 only means rewriting this file.
package curve

import (
	"bytes"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/luxfi/distprove/pkg/errs"
	"github.com/luxfi/distprove/pkg/field"
)

// Point is a group element, stored internally in Jacobian coordinates so
// that Add/Scale avoid a field inversion per operation; Bytes/Equal
// normalize to affine on demand.
type Point struct {
	p secp256k1.JacobianPoint
}

// Generator returns the distinguished base point of G.
func Generator() Point {
	var k secp256k1.ModNScalar
	k.SetInt(1)
	var result secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&k, &result)
	return Point{p: result}
}

// Identity returns the group's additive identity (point at infinity).
func Identity() Point {
	var p secp256k1.JacobianPoint
	p.X.SetInt(0)
	p.Y.SetInt(0)
	p.Z.SetInt(0)
	return Point{p: p}
}

// Add returns pt + other.
func (pt Point) Add(other Point) Point {
	var result secp256k1.JacobianPoint
	a, b := pt.p, other.p
	secp256k1.AddNonConst(&a, &b, &result)
	return Point{p: result}
}

// Neg returns -pt.
func (pt Point) Neg() Point {
	p := pt.p
	p.Y.Negate(1)
	p.Y.Normalize()
	return Point{p: p}
}

// Sub returns pt - other.
func (pt Point) Sub(other Point) Point {
	return pt.Add(other.Neg())
}

// scalarFromField reduces a field.Element into secp256k1's scalar field,
// the representation Scale needs to drive ScalarMultNonConst. See
// SPEC_FULL.md §8.1: F (this module's synthetic FFT-friendly field) and
// G's native scalar field are not the same field in this reference
// wiring; a production deployment would use a pairing curve whose scalar
// field *is* F, making this reduction the identity.
func scalarFromField(s field.Element) secp256k1.ModNScalar {
	var sc secp256k1.ModNScalar
	raw := s.Bytes()
	var buf [32]byte
	if len(raw) >= 32 {
		copy(buf[:], raw[len(raw)-32:])
	} else {
		copy(buf[32-len(raw):], raw)
	}
	sc.SetBytes(&buf)
	return sc
}

// Scale returns pt scaled by s.
func (pt Point) Scale(s field.Element) Point {
	sc := scalarFromField(s)
	var result secp256k1.JacobianPoint
	p := pt.p
	secp256k1.ScalarMultNonConst(&sc, &p, &result)
	return Point{p: result}
}

// Random samples a uniform point of G (Generator scaled by a random
// field element -- fine for test fixtures; production bases come from
// the proving key).
func Random(r io.Reader) (Point, error) {
	s, err := field.Random(r)
	if err != nil {
		return Point{}, fmt.Errorf("curve: sampling random point: %w", err)
	}
	return Generator().Scale(s), nil
}

// Equal reports whether pt and other represent the same group element.
func (pt Point) Equal(other Point) bool {
	a, b := pt.p, other.p
	a.ToAffine()
	b.ToAffine()
	if a.Z.IsZero() && b.Z.IsZero() {
		return true
	}
	if a.Z.IsZero() != b.Z.IsZero() {
		return false
	}
	return a.X.Equals(&b.X) && a.Y.Equals(&b.Y)
}

// IsIdentity reports whether pt is the point at infinity.
func (pt Point) IsIdentity() bool {
	p := pt.p
	p.ToAffine()
	return p.Z.IsZero()
}

// Bytes renders pt in SEC1 compressed form, the canonical encoding used
// by SerNet when group elements cross the wire.
func (pt Point) Bytes() []byte {
	p := pt.p
	p.ToAffine()
	if p.Z.IsZero() {
		return make([]byte, 33)
	}
	pub := secp256k1.NewPublicKey(&p.X, &p.Y)
	return pub.SerializeCompressed()
}

// MarshalBinary renders pt in SEC1 compressed form, letting CBOR (and
// anything else respecting encoding.BinaryMarshaler) encode Point as a
// byte string instead of reflecting over its unexported field.
func (pt Point) MarshalBinary() ([]byte, error) {
	return pt.Bytes(), nil
}

// UnmarshalBinary is the inverse of MarshalBinary.
func (pt *Point) UnmarshalBinary(data []byte) error {
	p, err := FromBytes(data)
	if err != nil {
		return err
	}
	*pt = p
	return nil
}

// FromBytes parses the SEC1 compressed form produced by Bytes (33 zero
// bytes for the identity).
func FromBytes(data []byte) (Point, error) {
	if bytes.Equal(data, make([]byte, 33)) {
		return Identity(), nil
	}
	pub, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return Point{}, fmt.Errorf("curve: parsing point: %w", err)
	}
	var jp secp256k1.JacobianPoint
	pub.AsJacobian(&jp)
	return Point{p: jp}, nil
}

// MultiScalarMul computes sum(bases[i] * scalars[i]), the local step
// every party performs in dMSM before the king round. This is a naive
// O(k) summation rather than a windowed Pippenger bucket method --
// correctness, not asymptotic MSM performance, is this module's concern
// (spec.md §1 scopes the hard engineering to the distributed primitives,
// not the underlying single-machine MSM algorithm).
func MultiScalarMul(bases []Point, scalars []field.Element) (Point, error) {
	if len(bases) != len(scalars) {
		return Point{}, &errs.BadInput{Err: fmt.Sprintf("curve: MSM length mismatch: %d bases, %d scalars", len(bases), len(scalars))}
	}
	acc := Identity()
	for i := range bases {
		acc = acc.Add(bases[i].Scale(scalars[i]))
	}
	return acc, nil
}
