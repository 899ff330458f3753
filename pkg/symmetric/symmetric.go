// Package symmetric implements the symmetric (paired G1/G2) vector
// commitment used to issue threshold credentials (spec.md §4.4): the user
// commits to their attribute vector once in G1 and once in G2 under the
// same key material and randomizer. The G1 side carries the opening proof,
// the G2 side enters the presentation's signature pairing equation, and a
// second pairing equation checks that both sides agree.
package symmetric

import (
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/sampolgar/tsiris-go/internal/curve"
	"github.com/sampolgar/tsiris-go/pkg/schnorr"
)

const challengeTag = "tsiris/symmetric/v1"

// Key holds the paired G1/G2 bases ck[i] = g*y_i, ck_tilde[i] = g_tilde*y_i
// that the commitment is built over, plus the two blinding generators g,
// g_tilde. The y_i are normally themselves Shamir-shared across issuers
// (spec.md §4.2), so every issuer can independently derive its own share
// of ck, ck_tilde without ever learning y_i in the clear.
type Key struct {
	G       bls12381.G1Affine
	Ck      []bls12381.G1Affine
	GTilde  bls12381.G2Affine
	CkTilde []bls12381.G2Affine
}

// NewKey derives a Key from the public y-values (one per attribute slot)
// and fresh random G1/G2 generators.
func NewKey(yValues []*big.Int, rng io.Reader) (*Key, error) {
	g, err := curve.RandomG1(rng)
	if err != nil {
		return nil, err
	}
	gTilde, err := curve.RandomG2(rng)
	if err != nil {
		return nil, err
	}
	ck := make([]bls12381.G1Affine, len(yValues))
	ckTilde := make([]bls12381.G2Affine, len(yValues))
	for i, y := range yValues {
		ck[i] = curve.ScalarMulG1(&g, y)
		ckTilde[i] = curve.ScalarMulG2(&gTilde, y)
	}
	return &Key{G: g, Ck: ck, GTilde: gTilde, CkTilde: ckTilde}, nil
}

// BasesG1 returns [ck[0..len(messages)-1], g], the bases a G1 commitment
// to that many messages is built over.
func (k *Key) BasesG1(n int) []bls12381.G1Affine {
	bases := make([]bls12381.G1Affine, n+1)
	copy(bases, k.Ck[:n])
	bases[n] = k.G
	return bases
}

// BasesG2 is the G2 analogue of BasesG1.
func (k *Key) BasesG2(n int) []bls12381.G2Affine {
	bases := make([]bls12381.G2Affine, n+1)
	copy(bases, k.CkTilde[:n])
	bases[n] = k.GTilde
	return bases
}

// Commitment is a symmetric commitment to a message vector under a Key:
// Cm = MSM(ck[:n], messages) + g*r, CmTilde = MSM(ck_tilde[:n], messages) +
// g_tilde*r.
type Commitment struct {
	Key      *Key
	Messages []*big.Int
	R        *big.Int
	Cm       bls12381.G1Affine
	CmTilde  bls12381.G2Affine
}

// New commits to messages under ck with randomizer r. len(messages) must
// not exceed len(ck.Ck).
func New(ck *Key, messages []*big.Int, r *big.Int) (*Commitment, error) {
	if len(messages) > len(ck.Ck) {
		return nil, fmt.Errorf("symmetric: %d messages exceeds key capacity %d", len(messages), len(ck.Ck))
	}
	cm := g1Commit(ck, messages, r)
	cmTilde := g2Commit(ck, messages, r)
	return &Commitment{Key: ck, Messages: messages, R: r, Cm: cm, CmTilde: cmTilde}, nil
}

func g1Commit(ck *Key, messages []*big.Int, r *big.Int) bls12381.G1Affine {
	bases := append(append([]bls12381.G1Affine{}, ck.Ck[:len(messages)]...), ck.G)
	scalars := append(append([]*big.Int{}, messages...), r)
	return curve.MSMG1(bases, scalars)
}

func g2Commit(ck *Key, messages []*big.Int, r *big.Int) bls12381.G2Affine {
	bases := append(append([]bls12381.G2Affine{}, ck.CkTilde[:len(messages)]...), ck.GTilde)
	scalars := append(append([]*big.Int{}, messages...), r)
	return curve.MSMG2(bases, scalars)
}

// Randomize returns Commit(messages, r + rDelta), updating both Cm and
// CmTilde by g*rDelta / g_tilde*rDelta, the rerandomization the issued
// signature's presentation step applies (spec.md §4.9).
func (c *Commitment) Randomize(rDelta *big.Int) *Commitment {
	newR := curve.ModAdd(c.R, rDelta)
	gDelta := curve.ScalarMulG1(&c.Key.G, rDelta)
	gTildeDelta := curve.ScalarMulG2(&c.Key.GTilde, rDelta)
	newCm := curve.AddG1(&c.Cm, &gDelta)
	newCmTilde := curve.AddG2(&c.CmTilde, &gTildeDelta)
	return &Commitment{Key: c.Key, Messages: c.Messages, R: newR, Cm: newCm, CmTilde: newCmTilde}
}

// RandomizeG1Only rerandomizes only the G1 side, leaving CmTilde fixed.
// This is a supplemented operation (not present in the upstream reference
// but natural given randomize_just_g1 in the original implementation).
// The returned R matches Cm only; CmTilde still commits to the old r. No
// issuance or presentation path in this module calls it.
func (c *Commitment) RandomizeG1Only(rDelta *big.Int) *Commitment {
	newR := curve.ModAdd(c.R, rDelta)
	gDelta := curve.ScalarMulG1(&c.Key.G, rDelta)
	newCm := curve.AddG1(&c.Cm, &gDelta)
	return &Commitment{Key: c.Key, Messages: c.Messages, R: newR, Cm: newCm, CmTilde: c.CmTilde}
}

// Exponents returns [messages..., r], the witness vector an opening proof
// proves knowledge of.
func (c *Commitment) Exponents() []*big.Int {
	return append(append([]*big.Int{}, c.Messages...), c.R)
}

// Proof is a Fiat-Shamir proof of knowledge of a Commitment's opening,
// taken over the G1 bases only: the G2 side is never independently
// Schnorr-proved, since its consistency with the G1 side is instead
// checked by the pairing equations in pkg/signature.
type Proof struct {
	Bases             []bls12381.G1Affine
	Commitment        bls12381.G1Affine
	SchnorrCommitment bls12381.G1Affine
	Challenge         *big.Int
	Responses         []*big.Int
}

// Prove produces an opening proof for c.
func Prove(c *Commitment, rng io.Reader) (*Proof, error) {
	bases := c.Key.BasesG1(len(c.Messages))
	sc, err := schnorr.Commit(bases, rng)
	if err != nil {
		return nil, err
	}
	challenge := schnorr.Challenge(challengeTag, bases, c.Cm, sc.T)
	responses := schnorr.Prove(sc, c.Exponents(), challenge)
	return &Proof{
		Bases:             bases,
		Commitment:        c.Cm,
		SchnorrCommitment: sc.T,
		Challenge:         challenge,
		Responses:         responses.Z,
	}, nil
}

// Verify checks p, re-deriving its Fiat-Shamir challenge from the
// transcript.
func Verify(p *Proof) bool {
	expected := schnorr.Challenge(challengeTag, p.Bases, p.Commitment, p.SchnorrCommitment)
	if expected.Cmp(p.Challenge) != 0 {
		return false
	}
	responses := &schnorr.Responses{Z: p.Responses}
	return schnorr.Verify(p.Bases, p.Commitment, p.SchnorrCommitment, responses, p.Challenge)
}
