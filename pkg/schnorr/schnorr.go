// Package schnorr implements a multi-base Schnorr sigma protocol over G1,
// used to prove knowledge of the opening of a Pedersen-style commitment
// (spec.md §4.3, §4.4). The challenge is derived by Fiat-Shamir over the
// bases, the statement, and the prover's commitment rather than sampled by
// either party, closing the gap flagged in spec.md §9 Open Question 1.
package schnorr

import (
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/sampolgar/tsiris-go/internal/curve"
	"github.com/sampolgar/tsiris-go/internal/transcript"
)

// Commitment is the prover's first message: T = sum_i bases[i]^blinding[i].
type Commitment struct {
	Blindings []*big.Int
	T         bls12381.G1Affine
}

// Responses are the prover's second message: z_i = blinding_i + e*witness_i.
type Responses struct {
	Z []*big.Int
}

// Commit draws len(bases) random blindings and commits to them. Used when
// no blinding needs to be shared with a sibling proof.
func Commit(bases []bls12381.G1Affine, rng io.Reader) (*Commitment, error) {
	blindings := make([]*big.Int, len(bases))
	for i := range bases {
		b, err := curve.RandomScalar(rng)
		if err != nil {
			return nil, err
		}
		blindings[i] = b
	}
	return CommitWithBlindings(bases, blindings), nil
}

// CommitWithBlindings commits using caller-supplied blindings, e.g. when a
// blinding must be shared across two related Schnorr proofs.
func CommitWithBlindings(bases []bls12381.G1Affine, blindings []*big.Int) *Commitment {
	t := curve.MSMG1(bases, blindings)
	return &Commitment{Blindings: blindings, T: t}
}

// CommitEquality is like Commit but pins blindings[0] to equalBlinding, so
// the resulting proof can be tied to a sibling proof that reuses the same
// blinding for a shared witness.
func CommitEquality(bases []bls12381.G1Affine, equalBlinding *big.Int, rng io.Reader) (*Commitment, error) {
	blindings := make([]*big.Int, len(bases))
	blindings[0] = equalBlinding
	for i := 1; i < len(bases); i++ {
		b, err := curve.RandomScalar(rng)
		if err != nil {
			return nil, err
		}
		blindings[i] = b
	}
	return CommitWithBlindings(bases, blindings), nil
}

// Challenge derives the Fiat-Shamir challenge for a proof over bases,
// statement and the prover's commitment T, domain-separated by tag.
func Challenge(tag string, bases []bls12381.G1Affine, statement bls12381.G1Affine, t bls12381.G1Affine) *big.Int {
	return transcript.Challenge(tag, transcript.G1Bytes(bases...), transcript.G1Bytes(statement), transcript.G1Bytes(t))
}

// Prove computes responses z_i = blinding_i + e*witness_i.
func Prove(commitment *Commitment, witnesses []*big.Int, challenge *big.Int) *Responses {
	z := make([]*big.Int, len(witnesses))
	for i := range witnesses {
		z[i] = curve.ModAdd(commitment.Blindings[i], curve.ModMul(witnesses[i], challenge))
	}
	return &Responses{Z: z}
}

// Verify checks that bases^responses == T + statement^challenge.
func Verify(bases []bls12381.G1Affine, statement bls12381.G1Affine, t bls12381.G1Affine, responses *Responses, challenge *big.Int) bool {
	lhs := curve.MSMG1(bases, responses.Z)
	scaledStatement := curve.ScalarMulG1(&statement, challenge)
	rhs := curve.AddG1(&t, &scaledStatement)
	return lhs.Equal(&rhs)
}
