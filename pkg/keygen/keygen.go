// Package keygen runs the dealer-based distributed key generation for a
// (t,n) threshold credential issuer set with l attribute slots (spec.md
// §4.2): it samples the signing secret x and per-attribute secrets
// y_1..y_l, Shamir-shares each of them across n issuers, and hands every
// issuer its share of x, its shares of y_1..y_l, and the corresponding G2
// verification points.
package keygen

import (
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/sampolgar/tsiris-go/internal/curve"
	"github.com/sampolgar/tsiris-go/pkg/shamir"
	"github.com/sampolgar/tsiris-go/pkg/symmetric"
)

// SecretKeyShare is issuer i's share of the signing key: its share of x
// and its share of every attribute secret y_1..y_l.
type SecretKeyShare struct {
	Index   int
	XShare  *big.Int
	YShares []*big.Int
}

// VerificationKeyShare is the public counterpart of a SecretKeyShare,
// exposed so a verifier (or a fellow issuer auditing shares) can check a
// signature share without learning the underlying secret shares.
type VerificationKeyShare struct {
	Index         int
	GTildeXShare  bls12381.G2Affine
	GTildeYShares []bls12381.G2Affine
}

// VerificationKey is the aggregate public key g_tilde^x, reconstructable
// by any t verification key shares but never materialized by a single
// issuer during normal operation.
type VerificationKey struct {
	GTildeX bls12381.G2Affine
}

// ThresholdKeys bundles every issuer's share alongside the scheme
// parameters, as the output of a trusted dealer run (spec.md §4.2 notes
// that a DKG replacing this dealer is future work, not in scope here).
type ThresholdKeys struct {
	T, N, L  int
	SkShares []SecretKeyShare
	VkShares []VerificationKeyShare
}

// Keygen runs dealer-based generation for threshold t, n issuers and l
// attribute slots, returning the symmetric commitment key all issuers and
// users share, the aggregate verification key, and each issuer's share.
func Keygen(t, n, l int, rng io.Reader) (*symmetric.Key, *VerificationKey, *ThresholdKeys, error) {
	x, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, nil, nil, err
	}
	xShares, err := shamir.Generate(x, t, n, rng)
	if err != nil {
		return nil, nil, nil, err
	}

	yValues := make([]*big.Int, l)
	yShares := make([][]shamir.Share, l)
	for k := 0; k < l; k++ {
		yk, err := curve.RandomScalar(rng)
		if err != nil {
			return nil, nil, nil, err
		}
		yValues[k] = yk
		shares, err := shamir.Generate(yk, t, n, rng)
		if err != nil {
			return nil, nil, nil, err
		}
		yShares[k] = shares
	}

	ck, err := symmetric.NewKey(yValues, rng)
	if err != nil {
		return nil, nil, nil, err
	}

	gTildeX := curve.ScalarMulG2(&ck.GTilde, x)
	vk := &VerificationKey{GTildeX: gTildeX}

	skShares := make([]SecretKeyShare, n)
	vkShares := make([]VerificationKeyShare, n)
	for i := 0; i < n; i++ {
		idx := xShares[i].Index
		xShareI := xShares[i].Value

		ySharesI := make([]*big.Int, l)
		gTildeYSharesI := make([]bls12381.G2Affine, l)
		for k := 0; k < l; k++ {
			yShareKI := yShares[k][i].Value
			ySharesI[k] = yShareKI
			gTildeYSharesI[k] = curve.ScalarMulG2(&ck.GTilde, yShareKI)
		}

		skShares[i] = SecretKeyShare{Index: idx, XShare: xShareI, YShares: ySharesI}
		vkShares[i] = VerificationKeyShare{
			Index:         idx,
			GTildeXShare:  curve.ScalarMulG2(&ck.GTilde, xShareI),
			GTildeYShares: gTildeYSharesI,
		}
	}

	return ck, vk, &ThresholdKeys{T: t, N: n, L: l, SkShares: skShares, VkShares: vkShares}, nil
}
