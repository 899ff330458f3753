// Package commitment implements the single-attribute Pedersen-style
// commitment and its opening proof used by attribute commitment (spec.md
// §4.3): Cm = h^m * g^r, with a Schnorr proof of knowledge of (m, r) and a
// batched-verification path for many such proofs at once.
package commitment

import (
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/sampolgar/tsiris-go/internal/curve"
	"github.com/sampolgar/tsiris-go/pkg/schnorr"
)

const challengeTag = "tsiris/commitment/v1"

// Commitment holds Cm = h^m * g^r along with the witnesses, so that a
// proof can be produced later without re-deriving the randomizer.
type Commitment struct {
	H, G bls12381.G1Affine
	M, R *big.Int
	Cm   bls12381.G1Affine
}

// New builds Cm = h^m * g^r. If r is nil a fresh blinding is drawn.
func New(h, g bls12381.G1Affine, m *big.Int, r *big.Int, rng io.Reader) (*Commitment, error) {
	if r == nil {
		var err error
		r, err = curve.RandomScalar(rng)
		if err != nil {
			return nil, err
		}
	}
	bases := []bls12381.G1Affine{h, g}
	cm := curve.MSMG1(bases, []*big.Int{m, r})
	return &Commitment{H: h, G: g, M: m, R: r, Cm: cm}, nil
}

// Proof is a self-contained, Fiat-Shamir opening proof of a Commitment.
type Proof struct {
	Bases             []bls12381.G1Affine
	Commitment        bls12381.G1Affine
	SchnorrCommitment bls12381.G1Affine
	Challenge         *big.Int
	Responses         []*big.Int
}

// Prove produces an opening proof for c, deriving its challenge from the
// transcript (bases, commitment, schnorr commitment) rather than drawing
// it from rng, so the resulting proof is non-interactive and transferable.
func Prove(c *Commitment, rng io.Reader) (*Proof, error) {
	bases := []bls12381.G1Affine{c.H, c.G}
	sc, err := schnorr.Commit(bases, rng)
	if err != nil {
		return nil, err
	}
	challenge := schnorr.Challenge(challengeTag, bases, c.Cm, sc.T)
	responses := schnorr.Prove(sc, []*big.Int{c.M, c.R}, challenge)

	return &Proof{
		Bases:             bases,
		Commitment:        c.Cm,
		SchnorrCommitment: sc.T,
		Challenge:         challenge,
		Responses:         responses.Z,
	}, nil
}

// Verify checks a single opening proof, re-deriving the challenge from the
// transcript and rejecting proofs that used a different one.
func Verify(p *Proof) bool {
	expected := schnorr.Challenge(challengeTag, p.Bases, p.Commitment, p.SchnorrCommitment)
	if expected.Cmp(p.Challenge) != 0 {
		return false
	}
	responses := &schnorr.Responses{Z: p.Responses}
	return schnorr.Verify(p.Bases, p.Commitment, p.SchnorrCommitment, responses, p.Challenge)
}

// BatchVerify checks many proofs at once via a random linear combination,
// collapsing what would be 2*len(proofs) scalar multiplications worth of
// verification work into two multi-scalar multiplications. Each proof's
// challenge is still independently re-derived and checked against its own
// transcript before being folded in.
func BatchVerify(proofs []*Proof, rng io.Reader) (bool, error) {
	if len(proofs) == 0 {
		return true, nil
	}

	for _, p := range proofs {
		expected := schnorr.Challenge(challengeTag, p.Bases, p.Commitment, p.SchnorrCommitment)
		if expected.Cmp(p.Challenge) != 0 {
			return false, nil
		}
	}

	randomScalars := make([]*big.Int, len(proofs))
	for i := range proofs {
		s, err := curve.RandomScalar(rng)
		if err != nil {
			return false, err
		}
		randomScalars[i] = s
	}

	var allBases []bls12381.G1Affine
	var allScalars []*big.Int
	for i, p := range proofs {
		for j, base := range p.Bases {
			allBases = append(allBases, base)
			allScalars = append(allScalars, curve.ModMul(p.Responses[j], randomScalars[i]))
		}
	}
	lhs := curve.MSMG1(allBases, allScalars)

	rhsBases := make([]bls12381.G1Affine, 0, 2*len(proofs))
	rhsScalars := make([]*big.Int, 0, 2*len(proofs))
	for i, p := range proofs {
		rhsBases = append(rhsBases, p.SchnorrCommitment)
		rhsScalars = append(rhsScalars, randomScalars[i])

		rhsBases = append(rhsBases, p.Commitment)
		rhsScalars = append(rhsScalars, curve.ModMul(randomScalars[i], p.Challenge))
	}
	rhs := curve.MSMG1(rhsBases, rhsScalars)

	return lhs.Equal(&rhs), nil
}
