// Package transcript derives Fiat-Shamir challenges for the Schnorr and
// VRF sigma protocols used throughout this module.
//
// spec.md §9 Open Question 1 flags that the reference implementation
// draws challenges from an RNG, which is sound only in an interactive
// setting, and says a production port "MUST commit to a challenge
// derivation (domain-separated hash over transcript) before going on the
// wire". This package is that derivation: a domain-separated hash of the
// protocol's public transcript (bases, statement, prover commitment),
// reduced into a scalar-field element.
package transcript

import (
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/sampolgar/tsiris-go/internal/curve"
	"github.com/zeebo/blake3"
)

// Challenge derives a scalar-field challenge from a domain tag and a list
// of transcript elements (points or raw bytes). It is deterministic: the
// same transcript always yields the same challenge, which is what makes
// this a non-interactive (Fiat-Shamir) rather than interactive proof.
func Challenge(domain string, elements ...[]byte) *big.Int {
	h := blake3.New()
	h.Write([]byte(domain))
	for _, e := range elements {
		var lenPrefix [8]byte
		n := uint64(len(e))
		for i := 0; i < 8; i++ {
			lenPrefix[i] = byte(n >> (8 * i))
		}
		h.Write(lenPrefix[:])
		h.Write(e)
	}
	digest := h.Sum(nil)
	c := new(big.Int).SetBytes(digest)
	return c.Mod(c, curve.Order)
}

// G1Bytes marshals a slice of G1 points for transcript hashing.
func G1Bytes(points ...bls12381.G1Affine) []byte {
	var out []byte
	for i := range points {
		b := points[i].Marshal()
		out = append(out, b...)
	}
	return out
}

// G2Bytes marshals a slice of G2 points for transcript hashing.
func G2Bytes(points ...bls12381.G2Affine) []byte {
	var out []byte
	for i := range points {
		b := points[i].Marshal()
		out = append(out, b...)
	}
	return out
}
