// Package curve wraps the BLS12-381 Type-3 pairing group operations that
// every other package in this module builds on: scalar sampling, G1/G2
// scalar multiplication, addition, negation and multi-scalar summation.
// Scalars are represented as *big.Int reduced modulo Order, matching the
// convention the BBS+ teacher code uses for threading scalars through
// gnark-crypto's ScalarMultiplication calls.
package curve

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// Order is the order of the BLS12-381 scalar field (the r-order subgroup).
var Order, _ = new(big.Int).SetString("73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001", 16)

// RandomScalar draws a uniformly random, non-zero element of the scalar
// field. A nil reader defaults to crypto/rand.
func RandomScalar(rng io.Reader) (*big.Int, error) {
	if rng == nil {
		rng = rand.Reader
	}
	for {
		s, err := ConstantTimeRandom(rng, Order)
		if err != nil {
			return nil, err
		}
		if s.Sign() != 0 {
			return s, nil
		}
	}
}

// ConstantTimeRandom draws a value uniformly from [0, max) using rejection
// sampling over max's byte length with the unused top bits masked off,
// avoiding modulo bias.
func ConstantTimeRandom(rng io.Reader, max *big.Int) (*big.Int, error) {
	byteLen := (max.BitLen() + 7) / 8
	bits := max.BitLen() % 8
	mask := byte(0xFF)
	if bits > 0 {
		mask = byte((1 << uint(bits)) - 1)
	}

	b := make([]byte, byteLen)
	result := new(big.Int)
	for {
		if _, err := io.ReadFull(rng, b); err != nil {
			return nil, fmt.Errorf("curve: failed to read random bytes: %w", err)
		}
		if len(b) > 0 {
			b[0] &= mask
		}
		result.SetBytes(b)
		if result.Cmp(max) < 0 {
			return new(big.Int).Set(result), nil
		}
	}
}

// Generators returns the standard affine G1 and G2 generators.
func Generators() (g1 bls12381.G1Affine, g2 bls12381.G2Affine) {
	_, _, g1, g2 = bls12381.Generators()
	return
}

// RandomG1 returns a uniformly random point in the G1 subgroup, obtained by
// scaling the standard generator by a fresh random scalar (the same
// technique arkworks' CurveGroup::rand uses under the hood).
func RandomG1(rng io.Reader) (bls12381.G1Affine, error) {
	s, err := RandomScalar(rng)
	if err != nil {
		return bls12381.G1Affine{}, err
	}
	g1, _ := Generators()
	return ScalarMulG1(&g1, s), nil
}

// RandomG2 is the G2 analogue of RandomG1.
func RandomG2(rng io.Reader) (bls12381.G2Affine, error) {
	s, err := RandomScalar(rng)
	if err != nil {
		return bls12381.G2Affine{}, err
	}
	_, g2 := Generators()
	return ScalarMulG2(&g2, s), nil
}

// ScalarMulG1 computes p*s in G1.
func ScalarMulG1(p *bls12381.G1Affine, s *big.Int) bls12381.G1Affine {
	var j bls12381.G1Jac
	j.FromAffine(p)
	j.ScalarMultiplication(&j, s)
	var out bls12381.G1Affine
	out.FromJacobian(&j)
	return out
}

// ScalarMulG2 computes p*s in G2.
func ScalarMulG2(p *bls12381.G2Affine, s *big.Int) bls12381.G2Affine {
	var j bls12381.G2Jac
	j.FromAffine(p)
	j.ScalarMultiplication(&j, s)
	var out bls12381.G2Affine
	out.FromJacobian(&j)
	return out
}

// AddG1 computes a+b in G1.
func AddG1(a, b *bls12381.G1Affine) bls12381.G1Affine {
	var ja, jb bls12381.G1Jac
	ja.FromAffine(a)
	jb.FromAffine(b)
	ja.AddAssign(&jb)
	var out bls12381.G1Affine
	out.FromJacobian(&ja)
	return out
}

// AddG2 computes a+b in G2.
func AddG2(a, b *bls12381.G2Affine) bls12381.G2Affine {
	var ja, jb bls12381.G2Jac
	ja.FromAffine(a)
	jb.FromAffine(b)
	ja.AddAssign(&jb)
	var out bls12381.G2Affine
	out.FromJacobian(&ja)
	return out
}

// NegG1 computes -a in G1.
func NegG1(a *bls12381.G1Affine) bls12381.G1Affine {
	var out bls12381.G1Affine
	out.Neg(a)
	return out
}

// NegG2 computes -a in G2.
func NegG2(a *bls12381.G2Affine) bls12381.G2Affine {
	var out bls12381.G2Affine
	out.Neg(a)
	return out
}

// MSMG1 computes sum_i bases[i]*scalars[i] in G1. len(bases) and
// len(scalars) must agree; a mismatch is a programmer error.
func MSMG1(bases []bls12381.G1Affine, scalars []*big.Int) bls12381.G1Affine {
	if len(bases) != len(scalars) {
		panic("curve: MSMG1 length mismatch")
	}
	var acc bls12381.G1Jac
	acc.X.SetOne()
	acc.Y.SetOne()
	acc.Z.SetZero()
	for i := range bases {
		if scalars[i] == nil || scalars[i].Sign() == 0 {
			continue
		}
		var t bls12381.G1Jac
		t.FromAffine(&bases[i])
		t.ScalarMultiplication(&t, scalars[i])
		acc.AddAssign(&t)
	}
	var out bls12381.G1Affine
	out.FromJacobian(&acc)
	return out
}

// MSMG2 is the G2 analogue of MSMG1.
func MSMG2(bases []bls12381.G2Affine, scalars []*big.Int) bls12381.G2Affine {
	if len(bases) != len(scalars) {
		panic("curve: MSMG2 length mismatch")
	}
	var acc bls12381.G2Jac
	acc.X.SetOne()
	acc.Y.SetOne()
	acc.Z.SetZero()
	for i := range bases {
		if scalars[i] == nil || scalars[i].Sign() == 0 {
			continue
		}
		var t bls12381.G2Jac
		t.FromAffine(&bases[i])
		t.ScalarMultiplication(&t, scalars[i])
		acc.AddAssign(&t)
	}
	var out bls12381.G2Affine
	out.FromJacobian(&acc)
	return out
}

// ModAdd, ModSub, ModMul, ModInverse perform scalar-field arithmetic
// reduced modulo Order. Callers (Shamir, Lagrange, Schnorr responses) use
// these instead of raw big.Int ops to keep every scalar canonically
// reduced.
func ModAdd(a, b *big.Int) *big.Int {
	r := new(big.Int).Add(a, b)
	return r.Mod(r, Order)
}

func ModSub(a, b *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	return r.Mod(r, Order)
}

func ModMul(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, Order)
}

// ModInverse returns a^-1 mod Order, or an error if a is zero.
func ModInverse(a *big.Int) (*big.Int, error) {
	if a.Sign() == 0 {
		return nil, fmt.Errorf("curve: cannot invert zero")
	}
	return new(big.Int).ModInverse(a, Order), nil
}
