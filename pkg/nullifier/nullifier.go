// Package nullifier implements the scheme's pairing-free verifiable
// random function (spec.md §7): a proof of knowledge of committed values
// sk and x such that y = g^(1/(sk+x)), without revealing either value.
// It is used to derive a one-time, unlinkable nullifier from a
// credential's secret key and a presentation context, binding double-show
// detection to values that never appear on the wire in the clear.
//
// This is a sigma protocol over G1 scalar multiplication alone: no
// pairing is involved, which is what makes it cheap enough to run on
// every presentation. Grounded on the reference implementation's
// DYPFPrivVRF ("Private Pairing-Free VRF", a committed inverse-exponent
// relation), with the non-interactive challenge derived via Fiat-Shamir
// (internal/transcript) instead of drawn from an RNG, per spec.md §9
// Open Question 1.
package nullifier

import (
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/sampolgar/tsiris-go/internal/common"
	"github.com/sampolgar/tsiris-go/internal/curve"
	"github.com/sampolgar/tsiris-go/internal/transcript"
)

const challengeTag = "tsiris/nullifier/v1"

// PublicParams are the three fixed generators the VRF is defined over: g
// for blinding, g1 for the secret-key commitment, g2 for the input
// commitment.
type PublicParams struct {
	G, G1, G2 bls12381.G1Affine
}

// NewPublicParams draws three fresh random G1 generators.
func NewPublicParams(rng io.Reader) (*PublicParams, error) {
	g, err := curve.RandomG1(rng)
	if err != nil {
		return nil, err
	}
	g1, err := curve.RandomG1(rng)
	if err != nil {
		return nil, err
	}
	g2, err := curve.RandomG1(rng)
	if err != nil {
		return nil, err
	}
	return &PublicParams{G: g, G1: g1, G2: g2}, nil
}

// SecretKey is a holder's VRF secret key, committed to as
// CmSk = g1^sk * g^rSk.
type SecretKey struct {
	Sk, RSk *big.Int
}

// PublicKey carries the commitment to sk and (once an input is bound) the
// commitment to x.
type PublicKey struct {
	CmSk bls12381.G1Affine
	CmX  bls12381.G1Affine
}

// GenerateKeys samples a fresh secret key and commits to it.
func GenerateKeys(pp *PublicParams, rng io.Reader) (*SecretKey, *PublicKey, error) {
	sk, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, nil, err
	}
	rSk, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, nil, err
	}
	cmSk := curve.AddG1(ptr(curve.ScalarMulG1(&pp.G1, sk)), ptr(curve.ScalarMulG1(&pp.G, rSk)))
	return &SecretKey{Sk: sk, RSk: rSk}, &PublicKey{CmSk: cmSk}, nil
}

// Input is the per-presentation value x bound into the nullifier (e.g. a
// context/session identifier), together with its commitment randomness.
type Input struct {
	X, RX *big.Int
}

// CommitInput commits to x as CmX = g2^x * g^rX.
func CommitInput(pp *PublicParams, x *big.Int, rng io.Reader) (*Input, bls12381.G1Affine, error) {
	rX, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, bls12381.G1Affine{}, err
	}
	cmX := curve.AddG1(ptr(curve.ScalarMulG1(&pp.G2, x)), ptr(curve.ScalarMulG1(&pp.G, rX)))
	return &Input{X: x, RX: rX}, cmX, nil
}

// Witness bundles everything Eval and Prove need: the secret key and
// input together with their commitment randomness.
type Witness struct {
	Sk, RSk, X, RX *big.Int
}

// Output is the VRF's value, y = g^(1/(sk+x)).
type Output struct {
	Y bls12381.G1Affine
}

// Eval computes y = g^(1/(sk+x)). It returns common.ErrZeroDenominator
// if sk+x is zero modulo the scalar field order, the one input pair this
// VRF cannot be evaluated on.
func Eval(pp *PublicParams, w *Witness) (*Output, error) {
	sum := curve.ModAdd(w.Sk, w.X)
	if sum.Sign() == 0 {
		return nil, common.ErrZeroDenominator
	}
	inv, err := curve.ModInverse(sum)
	if err != nil {
		return nil, err
	}
	y := curve.ScalarMulG1(&pp.G, inv)
	return &Output{Y: y}, nil
}

// Proof is a non-interactive proof of knowledge of sk, x, rSk, rX
// satisfying the VRF relation, Fiat-Shamir-derived from the public
// transcript (pp, public key, output).
type Proof struct {
	T1, T2, TY            bls12381.G1Affine
	Challenge              *big.Int
	ZSk, ZX, ZRSk, ZRX, ZM *big.Int
}

// Prove builds a Proof that y was derived from the committed sk and x in
// pk without revealing either.
func Prove(pp *PublicParams, pk *PublicKey, w *Witness, out *Output, rng io.Reader) (*Proof, error) {
	aSk, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	aX, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	aRSk, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	aRX, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	aSkPlusAX := curve.ModAdd(aSk, aX)

	t1 := curve.AddG1(ptr(curve.ScalarMulG1(&pp.G1, aSk)), ptr(curve.ScalarMulG1(&pp.G, aRSk)))
	t2 := curve.AddG1(ptr(curve.ScalarMulG1(&pp.G2, aX)), ptr(curve.ScalarMulG1(&pp.G, aRX)))
	ty := curve.ScalarMulG1(&out.Y, aSkPlusAX)

	c := transcript.Challenge(challengeTag,
		transcript.G1Bytes(pp.G, pp.G1, pp.G2, pk.CmSk, pk.CmX, out.Y, t1, t2, ty),
	)

	zSk := curve.ModAdd(aSk, curve.ModMul(c, w.Sk))
	zX := curve.ModAdd(aX, curve.ModMul(c, w.X))
	zRSk := curve.ModAdd(aRSk, curve.ModMul(c, w.RSk))
	zRX := curve.ModAdd(aRX, curve.ModMul(c, w.RX))
	zM := curve.ModAdd(aSkPlusAX, curve.ModMul(c, curve.ModAdd(w.Sk, w.X)))

	return &Proof{
		T1: t1, T2: t2, TY: ty,
		Challenge: c,
		ZSk:       zSk, ZX: zX, ZRSk: zRSk, ZRX: zRX, ZM: zM,
	}, nil
}

// Verify checks a Proof against the public key and output it was derived
// for, first re-deriving the Fiat-Shamir challenge from the transcript
// and rejecting if the proof's claimed challenge doesn't match it.
func Verify(pp *PublicParams, pk *PublicKey, out *Output, p *Proof) bool {
	expected := transcript.Challenge(challengeTag,
		transcript.G1Bytes(pp.G, pp.G1, pp.G2, pk.CmSk, pk.CmX, out.Y, p.T1, p.T2, p.TY),
	)
	if expected.Cmp(p.Challenge) != 0 {
		return false
	}
	c := p.Challenge

	lhs1 := curve.AddG1(&p.T1, ptr(curve.ScalarMulG1(&pk.CmSk, c)))
	rhs1 := curve.AddG1(ptr(curve.ScalarMulG1(&pp.G1, p.ZSk)), ptr(curve.ScalarMulG1(&pp.G, p.ZRSk)))
	if !lhs1.Equal(&rhs1) {
		return false
	}

	lhs2 := curve.AddG1(&p.T2, ptr(curve.ScalarMulG1(&pk.CmX, c)))
	rhs2 := curve.AddG1(ptr(curve.ScalarMulG1(&pp.G2, p.ZX)), ptr(curve.ScalarMulG1(&pp.G, p.ZRX)))
	if !lhs2.Equal(&rhs2) {
		return false
	}

	lhs3 := curve.AddG1(&p.TY, ptr(curve.ScalarMulG1(&pp.G, c)))
	rhs3 := curve.ScalarMulG1(&out.Y, p.ZM)
	if !lhs3.Equal(&rhs3) {
		return false
	}

	zSum := curve.ModAdd(p.ZSk, p.ZX)
	return p.ZM.Cmp(zSum) == 0
}

func ptr(p bls12381.G1Affine) *bls12381.G1Affine { return &p }
