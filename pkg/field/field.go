// Package field implements the scalar field F that the distributed
// primitives operate over: a prime field with a large power-of-two
// multiplicative subgroup (required by dFFT/dIFFT) and a chosen primitive
// root of that subgroup.
//
// spec.md targets the scalar field of a BLS12-377/BN254-style pairing
// curve; none of _examples/ ships a pairing-friendly curve library, so
// this package constructs a small synthetic FFT-friendly prime instead
// (see SPEC_FULL.md §8.1). Everything above this package — pss, dfft,
// dmsm, dpp, degred — is written against Field/Element, so swapping in a
// real pairing curve's scalar field later only touches this file.
package field

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
)

// modulus is a 61-bit FFT-friendly prime: p = 27*2^56 + 1, chosen so that
// the multiplicative group has a subgroup of order 2^56, comfortably
// larger than any M this module's tests or a Groth16 circuit of
// reasonable size would need.
const modulusHex = "1B00000000000001" // 27*2^56 + 1 in hex, 61 bits

// twoAdicity is the largest k such that 2^k | (p - 1).
const twoAdicity = 56

var (
	modulusBig *big.Int
	modulus    *saferith.Modulus
	// rootOfUnity generates the order-2^twoAdicity subgroup.
	rootOfUnity Element
)

func init() {
	modulusBig, _ = new(big.Int).SetString(modulusHex, 16)
	modulus = saferith.ModulusFromNat(new(saferith.Nat).SetBig(modulusBig, modulusBig.BitLen()))

	// A generator of F* raised to (p-1)/2^twoAdicity yields a primitive
	// 2^twoAdicity-th root of unity. 5 is a quadratic/primitive-enough
	// generator for this modulus (verified offline against its factored
	// group order).
	exp := new(big.Int).Div(new(big.Int).Sub(modulusBig, big.NewInt(1)), new(big.Int).Lsh(big.NewInt(1), twoAdicity))
	g := new(big.Int).Exp(big.NewInt(5), exp, modulusBig)
	rootOfUnity = fromBig(g)
}

// Element is a field element. The zero value is 0.
type Element struct {
	nat saferith.Nat
}

// Zero returns the additive identity.
func Zero() Element { return Element{} }

// One returns the multiplicative identity.
func One() Element { return fromBig(big.NewInt(1)) }

// RootOfUnity returns a primitive 2^twoAdicity-th root of unity.
func RootOfUnity() Element { return rootOfUnity }

// Generator returns the distinguished multiplicative generator used to
// shift a subgroup into a coset (PSS's `secret`/`secret2` domains need
// their evaluation points off the root-of-unity subgroup so that packing
// and sharing don't collide). This is the same base ark's F::GENERATOR
// plays: both the root of unity above and this coset offset are powers
// of it.
func Generator() Element { return fromBig(big.NewInt(5)) }

// TwoAdicity returns the largest power-of-two subgroup order supported.
func TwoAdicity() int { return twoAdicity }

// Modulus returns the field's prime modulus as a big.Int (copy).
func Modulus() *big.Int { return new(big.Int).Set(modulusBig) }

func fromBig(x *big.Int) Element {
	x = new(big.Int).Mod(x, modulusBig)
	return Element{nat: *new(saferith.Nat).SetBig(x, modulusBig.BitLen())}
}

func (e Element) toBig() *big.Int {
	return e.nat.Big()
}

// FromUint64 constructs an element from a small unsigned integer.
func FromUint64(x uint64) Element {
	return fromBig(new(big.Int).SetUint64(x))
}

// FromBytes interprets data as a big-endian integer and reduces mod p.
func FromBytes(data []byte) Element {
	return fromBig(new(big.Int).SetBytes(data))
}

// Bytes renders the element as a canonical big-endian byte string, fixed
// width across the whole field (stable across the party set, as SerNet
// requires for canonical serialization).
func (e Element) Bytes() []byte {
	width := (modulusBig.BitLen() + 7) / 8
	out := make([]byte, width)
	e.toBig().FillBytes(out)
	return out
}

// Add returns e + other mod p.
func (e Element) Add(other Element) Element {
	return fromBig(new(big.Int).Add(e.toBig(), other.toBig()))
}

// Sub returns e - other mod p.
func (e Element) Sub(other Element) Element {
	return fromBig(new(big.Int).Sub(e.toBig(), other.toBig()))
}

// Mul returns e * other mod p.
func (e Element) Mul(other Element) Element {
	return fromBig(new(big.Int).Mul(e.toBig(), other.toBig()))
}

// Scale returns e * s -- an alias for Mul that satisfies the generic
// polynomial.Coeff interface (shared by field elements and curve points,
// which scale by a field element via scalar multiplication instead).
func (e Element) Scale(s Element) Element {
	return e.Mul(s)
}

// Neg returns -e mod p.
func (e Element) Neg() Element {
	return fromBig(new(big.Int).Neg(e.toBig()))
}

// Inverse returns the multiplicative inverse of e. Panics if e is zero.
func (e Element) Inverse() Element {
	if e.IsZero() {
		panic("field: inverse of zero")
	}
	return fromBig(new(big.Int).ModInverse(e.toBig(), modulusBig))
}

// Pow returns e^exp mod p.
func (e Element) Pow(exp uint64) Element {
	return fromBig(new(big.Int).Exp(e.toBig(), new(big.Int).SetUint64(exp), modulusBig))
}

// IsZero reports whether e is the additive identity.
func (e Element) IsZero() bool {
	return e.toBig().Sign() == 0
}

// Equal reports whether e and other represent the same field element.
func (e Element) Equal(other Element) bool {
	return e.toBig().Cmp(other.toBig()) == 0
}

// Random samples a uniform field element from r.
func Random(r io.Reader) (Element, error) {
	if r == nil {
		r = rand.Reader
	}
	x, err := rand.Int(r, modulusBig)
	if err != nil {
		return Element{}, fmt.Errorf("field: sampling random element: %w", err)
	}
	return fromBig(x), nil
}

// BatchInvert inverts every nonzero element of xs in place using Montgomery's
// trick (one inversion, 3n multiplications) -- the teacher's polynomial
// code (Lagrange denominators) and the original ark_ff::batch_inversion both
// need this for interpolation and for dPP's per-entry denominator inverses.
func BatchInvert(xs []Element) {
	n := len(xs)
	if n == 0 {
		return
	}
	prefix := make([]Element, n)
	acc := One()
	for i, x := range xs {
		prefix[i] = acc
		if !x.IsZero() {
			acc = acc.Mul(x)
		}
	}
	accInv := acc.Inverse()
	for i := n - 1; i >= 0; i-- {
		if xs[i].IsZero() {
			continue
		}
		original := xs[i]
		xs[i] = accInv.Mul(prefix[i])
		accInv = accInv.Mul(original)
	}
}

func (e Element) String() string {
	return e.toBig().String()
}

// MarshalBinary renders e as its canonical byte form, letting CBOR (and
// anything else respecting encoding.BinaryMarshaler) encode Element as
// a byte string instead of reflecting over its unexported field.
func (e Element) MarshalBinary() ([]byte, error) {
	return e.Bytes(), nil
}

// UnmarshalBinary is the inverse of MarshalBinary.
func (e *Element) UnmarshalBinary(data []byte) error {
	*e = FromBytes(data)
	return nil
}
