// Package signature implements PS-style threshold signature shares,
// aggregation, rerandomization and verification over a symmetric
// commitment key (spec.md §4.5-§4.9): a signing share is verified with a
// single un-randomized pairing equation, t-of-n shares aggregate via
// Lagrange interpolation, and a final signature is rerandomized and
// checked with two merged randomized pairing equations.
package signature

import (
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/sampolgar/tsiris-go/internal/common"
	"github.com/sampolgar/tsiris-go/internal/curve"
	"github.com/sampolgar/tsiris-go/pkg/keygen"
	"github.com/sampolgar/tsiris-go/pkg/shamir"
	"github.com/sampolgar/tsiris-go/pkg/symmetric"
)

// PartialSignature is one issuer's share of a threshold signature:
// sigma_i = h^x_i * prod_k cm_k^y_k_i.
type PartialSignature struct {
	PartyIndex int
	H          bls12381.G1Affine
	Sigma      bls12381.G1Affine
}

// ThresholdSignature is the PS-style signature pair (h, sigma) obtained
// after aggregating t partial signatures.
type ThresholdSignature struct {
	H     bls12381.G1Affine
	Sigma bls12381.G1Affine
}

// VerifyShare checks a single issuer's signature share against per-
// attribute commitments using a single pairing equation, never merged with
// another, so it runs un-randomized:
//
//	e(sigma_i, g_tilde) == e(h, g_tilde^x_i) * prod_k e(cm_k, g_tilde^y_k_i)
func VerifyShare(ck *symmetric.Key, vkShare *keygen.VerificationKeyShare, commitments []bls12381.G1Affine, share *PartialSignature) bool {
	negSigma := curve.NegG1(&share.Sigma)

	pairs := make([]curve.Pair, 0, 2+len(commitments))
	pairs = append(pairs, curve.Pair{A: negSigma, B: ck.GTilde})
	pairs = append(pairs, curve.Pair{A: share.H, B: vkShare.GTildeXShare})
	for k, cm := range commitments {
		if k >= len(vkShare.GTildeYShares) {
			break
		}
		pairs = append(pairs, curve.Pair{A: cm, B: vkShare.GTildeYShares[k]})
	}

	return curve.VerifyPairingEquation(pairs, nil)
}

// randomSource is satisfied by io.Reader.
type randomSource = interface {
	Read(p []byte) (int, error)
}

// Aggregate combines t signature shares into a ThresholdSignature via
// Lagrange interpolation, removing the per-attribute blinding terms baked
// into each share using the commitment randomizers the user generated
// during issuance (spec.md §4.8; duplicate party indices are rejected per
// spec.md §9 Open Question 3 rather than silently deduplicated).
func Aggregate(ck *symmetric.Key, shares []PartialSignature, blindings []*big.Int, threshold int, h bls12381.G1Affine) (*ThresholdSignature, error) {
	if len(shares) < threshold {
		return nil, &common.InsufficientSharesError{Needed: threshold, Got: len(shares)}
	}

	seen := make(map[int]bool, threshold)
	indices := make([]int, 0, threshold)
	for _, s := range shares[:threshold] {
		if seen[s.PartyIndex] {
			return nil, common.ErrDuplicateIndex
		}
		seen[s.PartyIndex] = true
		indices = append(indices, s.PartyIndex)
	}

	sigma2 := bls12381.G1Affine{}
	accIsZero := true

	for idx := 0; idx < threshold; idx++ {
		s := shares[idx]
		lambda := shamir.LagrangeCoefficientForIndex(indices, s.PartyIndex)
		scaled := curve.ScalarMulG1(&s.Sigma, lambda)
		if accIsZero {
			sigma2 = scaled
			accIsZero = false
		} else {
			sigma2 = curve.AddG1(&sigma2, &scaled)
		}
	}

	gkrk := curve.MSMG1(ck.Ck[:len(blindings)], blindings)
	negGkrk := curve.NegG1(&gkrk)
	finalSigma := curve.AddG1(&sigma2, &negGkrk)

	return &ThresholdSignature{H: h, Sigma: finalSigma}, nil
}

// Randomize draws fresh (uDelta, rDelta) and applies RandomizeWithFactors,
// returning the rerandomized signature alongside rDelta: the caller uses
// rDelta to rerandomize the accompanying symmetric commitment by the same
// amount, which is what keeps the two pairing equations in Verify
// consistent.
func Randomize(sig *ThresholdSignature, rng randomSource) (*ThresholdSignature, *big.Int, error) {
	uDelta, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, nil, err
	}
	rDelta, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, nil, err
	}
	return RandomizeWithFactors(sig, uDelta, rDelta), rDelta, nil
}

// RandomizeWithFactors applies h' = h^uDelta, sigma' = (h^rDelta +
// sigma)^uDelta.
func RandomizeWithFactors(sig *ThresholdSignature, uDelta, rDelta *big.Int) *ThresholdSignature {
	hPrime := curve.ScalarMulG1(&sig.H, uDelta)

	hRDelta := curve.ScalarMulG1(&sig.H, rDelta)
	temp := curve.AddG1(&hRDelta, &sig.Sigma)
	sigmaPrime := curve.ScalarMulG1(&temp, uDelta)

	return &ThresholdSignature{H: hPrime, Sigma: sigmaPrime}
}

// Verify checks a threshold signature against the symmetric commitment
// (cm, cmTilde) it was issued over, using two merged randomized pairing
// equations: one ties sigma to h, the verification key and cmTilde; the
// other checks cm and cmTilde commit to the same exponents.
func Verify(ck *symmetric.Key, vk *keygen.VerificationKey, cm bls12381.G1Affine, cmTilde bls12381.G2Affine, sig *ThresholdSignature, rng randomSource) bool {
	vkPlusCmTilde := curve.AddG2(&vk.GTildeX, &cmTilde)
	negH := curve.NegG1(&sig.H)

	check1, err := curve.Rand(rng, []curve.Pair{
		{A: sig.Sigma, B: ck.GTilde},
		{A: negH, B: vkPlusCmTilde},
	}, oneGT())
	if err != nil {
		return false
	}

	negG := curve.NegG1(&ck.G)
	check2, err := curve.Rand(rng, []curve.Pair{
		{A: cm, B: ck.GTilde},
		{A: negG, B: cmTilde},
	}, oneGT())
	if err != nil {
		return false
	}

	acc := curve.NewPairingCheck()
	acc.Merge(check1)
	acc.Merge(check2)
	return acc.Verify()
}

func oneGT() *bls12381.GT {
	var one bls12381.GT
	one.SetOne()
	return &one
}
