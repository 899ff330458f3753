package curve

import (
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// Pair is one (G1, G2) factor of a pairing product equation.
type Pair struct {
	A bls12381.G1Affine
	B bls12381.G2Affine
}

// PairingCheck accumulates one or more pairing-product equations into a
// single deferred final exponentiation, following the snarkpack-style
// accumulator the reference implementation uses (see
// nikkolasg/snarkpack's pairing_check.rs). Left carries a running product
// of Miller-loop outputs; Right is the expected GT target raised to the
// same per-contribution randomizer. A PairingCheck is only sound if at
// most one of its contributions was added un-randomized.
type PairingCheck struct {
	left          bls12381.GT
	right         bls12381.GT
	nonRandomized int
}

// NewPairingCheck returns the identity check ("1 == 1"), a safe base for
// repeated Merge calls.
func NewPairingCheck() *PairingCheck {
	pc := &PairingCheck{}
	pc.left.SetOne()
	pc.right.SetOne()
	return pc
}

// FromProducts builds a single, un-randomized check asserting that the
// product of the given GT values, after final exponentiation, equals
// target. At most one such check may ever appear in a Merge chain.
func FromProducts(lefts []bls12381.GT, target bls12381.GT) *PairingCheck {
	pc := &PairingCheck{nonRandomized: 1}
	pc.left.SetOne()
	for i := range lefts {
		pc.left.Mul(&pc.left, &lefts[i])
	}
	pc.right = target
	return pc
}

// Rand folds a batch of pairing pairs and their expected GT target into a
// randomized PairingCheck: every G1 element is scaled by a fresh random
// field element alpha before the Miller loop runs, and target is raised
// to the same alpha, so that merging several Rand-built checks produces a
// secure random linear combination rather than a forgeable sum.
func Rand(rng randomScalarSource, pairs []Pair, target *bls12381.GT) (*PairingCheck, error) {
	alpha, err := RandomScalar(rng)
	if err != nil {
		return nil, err
	}

	scaledA := make([]bls12381.G1Affine, len(pairs))
	bs := make([]bls12381.G2Affine, len(pairs))
	for i, p := range pairs {
		scaledA[i] = ScalarMulG1(&p.A, alpha)
		bs[i] = p.B
	}

	millerOut, err := bls12381.MillerLoop(scaledA, bs)
	if err != nil {
		return nil, err
	}

	var one, scaledTarget bls12381.GT
	one.SetOne()
	if target.Equal(&one) {
		scaledTarget = one
	} else {
		scaledTarget = gtPow(*target, alpha)
	}

	return &PairingCheck{left: millerOut, right: scaledTarget, nonRandomized: 0}, nil
}

// randomScalarSource is satisfied by io.Reader; declared separately so
// callers see at a glance that Rand only needs a byte source.
type randomScalarSource = interface {
	Read(p []byte) (n int, err error)
}

// Merge combines another check into this one. The combined check is only
// sound if the total count of un-randomized contributions does not
// exceed one; Verify enforces that.
func (pc *PairingCheck) Merge(other *PairingCheck) {
	pc.left.Mul(&pc.left, &other.left)
	pc.right.Mul(&pc.right, &other.right)
	pc.nonRandomized += other.nonRandomized
}

// Verify runs the deferred final exponentiation and compares against the
// accumulated target. It returns false without even computing the
// exponentiation if more than one un-randomized contribution was merged
// in, since two such checks could cancel each other out.
func (pc *PairingCheck) Verify() bool {
	if pc.nonRandomized > 1 {
		return false
	}
	fe := bls12381.FinalExponentiation(&pc.left)
	return fe.Equal(&pc.right)
}

// gtPow computes base^e in GT via square-and-multiply.
func gtPow(base bls12381.GT, e *big.Int) bls12381.GT {
	var result bls12381.GT
	result.SetOne()
	if e.Sign() == 0 {
		return result
	}
	exp := new(big.Int).Set(e)
	cur := base
	for exp.Sign() > 0 {
		if exp.Bit(0) == 1 {
			result.Mul(&result, &cur)
		}
		cur.Mul(&cur, &cur)
		exp.Rsh(exp, 1)
	}
	return result
}

// VerifyPairingEquation is a convenience single-shot check: it compares the
// accumulated Miller-loop product of pairs against target (or GT's
// multiplicative identity if target is nil) after final exponentiation.
// Since the result is never merged with another check, Rand's per-call
// randomizer buys nothing here; it builds its single contribution through
// FromProducts instead, relying on the one-un-randomized-contribution rule
// Verify enforces. It is the workhorse behind share verification.
func VerifyPairingEquation(pairs []Pair, target *bls12381.GT) bool {
	as := make([]bls12381.G1Affine, len(pairs))
	bs := make([]bls12381.G2Affine, len(pairs))
	for i, p := range pairs {
		as[i] = p.A
		bs[i] = p.B
	}
	millerOut, err := bls12381.MillerLoop(as, bs)
	if err != nil {
		return false
	}

	var one bls12381.GT
	one.SetOne()
	t := one
	if target != nil {
		t = *target
	}

	return FromProducts([]bls12381.GT{millerOut}, t).Verify()
}
