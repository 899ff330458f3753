// Package shamir implements (t,n) secret sharing over the BLS12-381
// scalar field and Lagrange reconstruction at 0, following spec.md §4.1.
package shamir

import (
	"io"
	"math/big"

	"github.com/sampolgar/tsiris-go/internal/curve"
)

// Share is one evaluation point (index, f(index)) of the sharing
// polynomial. Index is a nonzero Shamir evaluation point, never 0.
type Share struct {
	Index int
	Value *big.Int
}

// Generate splits secret into n shares with threshold t: any t of them
// reconstruct secret via Lagrange interpolation, any fewer reveal
// nothing. Coefficients above the constant term are sampled uniformly;
// evaluation uses Horner's method at points 1..n.
//
// Preconditions: t >= 1, n >= t. Violations are programmer errors and
// panic, matching the reference implementation's assert! semantics.
func Generate(secret *big.Int, t, n int, rng io.Reader) ([]Share, error) {
	if t < 1 {
		panic("shamir: threshold must be positive")
	}
	if n < t {
		panic("shamir: n must be >= t")
	}

	coeffs := make([]*big.Int, t)
	coeffs[0] = new(big.Int).Mod(secret, curve.Order)
	for i := 1; i < t; i++ {
		c, err := curve.RandomScalar(rng)
		if err != nil {
			return nil, err
		}
		coeffs[i] = c
	}

	shares := make([]Share, n)
	for i := 1; i <= n; i++ {
		x := big.NewInt(int64(i))
		y := new(big.Int).Set(coeffs[t-1])
		for j := t - 2; j >= 0; j-- {
			y = curve.ModAdd(curve.ModMul(y, x), coeffs[j])
		}
		shares[i-1] = Share{Index: i, Value: y}
	}
	return shares, nil
}

// Reconstruct recovers f(0) from the first t of the given shares via
// Lagrange interpolation at 0. Preconditions: len(shares) >= t, and the
// first t indices among shares are pairwise distinct — the caller (Keygen
// / Aggregate) is responsible for ensuring distinct indices; colliding
// indices cause a division by zero, surfaced as a panic.
func Reconstruct(shares []Share, t int) *big.Int {
	if len(shares) < t {
		panic("shamir: not enough shares for reconstruction")
	}
	subset := shares[:t]

	secret := big.NewInt(0)
	for i, si := range subset {
		lambda := LagrangeCoefficientAtZero(subset, i)
		secret = curve.ModAdd(secret, curve.ModMul(si.Value, lambda))
	}
	return secret
}

// LagrangeCoefficientAtZero computes lambda_j = prod_{i != j} (-x_i)/(x_j
// - x_i) for the share at position j within shares, evaluated at 0.
func LagrangeCoefficientAtZero(shares []Share, j int) *big.Int {
	xj := big.NewInt(int64(shares[j].Index))
	lambda := big.NewInt(1)
	for i, si := range shares {
		if i == j {
			continue
		}
		xi := big.NewInt(int64(si.Index))
		num := curve.ModSub(big.NewInt(0), xi)
		den := curve.ModSub(xj, xi)
		denInv, err := curve.ModInverse(den)
		if err != nil {
			panic("shamir: colliding indices in Lagrange interpolation")
		}
		lambda = curve.ModMul(lambda, curve.ModMul(num, denInv))
	}
	return lambda
}

// LagrangeCoefficientForIndex computes the Lagrange-at-zero coefficient
// for party index j given the full set of participating indices. It is
// used by signature aggregation (spec.md §4.8), where shares carry an
// explicit party index rather than a slice position.
func LagrangeCoefficientForIndex(indices []int, j int) *big.Int {
	jField := big.NewInt(int64(j))
	result := big.NewInt(1)
	for _, i := range indices {
		if i == j {
			continue
		}
		iField := big.NewInt(int64(i))
		num := curve.ModSub(big.NewInt(0), iField)
		den := curve.ModSub(jField, iField)
		denInv, err := curve.ModInverse(den)
		if err != nil {
			panic("shamir: colliding indices in Lagrange interpolation")
		}
		result = curve.ModMul(result, curve.ModMul(num, denInv))
	}
	return result
}
