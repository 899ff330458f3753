package nullifier

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/sampolgar/tsiris-go/internal/curve"
)

func TestEvalProveVerify(t *testing.T) {
	pp, err := NewPublicParams(rand.Reader)
	if err != nil {
		t.Fatalf("NewPublicParams: %v", err)
	}
	sk, pk, err := GenerateKeys(pp, rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKeys: %v", err)
	}

	x, err := curve.RandomScalar(rand.Reader)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	input, cmX, err := CommitInput(pp, x, rand.Reader)
	if err != nil {
		t.Fatalf("CommitInput: %v", err)
	}
	pk.CmX = cmX

	w := &Witness{Sk: sk.Sk, RSk: sk.RSk, X: input.X, RX: input.RX}

	out, err := Eval(pp, w)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}

	proof, err := Prove(pp, pk, w, out, rand.Reader)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	if !Verify(pp, pk, out, proof) {
		t.Fatal("expected proof to verify")
	}
}

func TestEvalRejectsZeroDenominator(t *testing.T) {
	pp, err := NewPublicParams(rand.Reader)
	if err != nil {
		t.Fatalf("NewPublicParams: %v", err)
	}
	sk, err := curve.RandomScalar(rand.Reader)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	x := new(big.Int).Sub(curve.Order, sk)
	x.Mod(x, curve.Order)

	w := &Witness{Sk: sk, RSk: big.NewInt(1), X: x, RX: big.NewInt(1)}
	if _, err := Eval(pp, w); err == nil {
		t.Fatal("expected Eval to reject sk+x == 0")
	}
}

func TestVerifyRejectsTamperedResponse(t *testing.T) {
	pp, err := NewPublicParams(rand.Reader)
	if err != nil {
		t.Fatalf("NewPublicParams: %v", err)
	}
	sk, pk, err := GenerateKeys(pp, rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKeys: %v", err)
	}
	x, _ := curve.RandomScalar(rand.Reader)
	input, cmX, err := CommitInput(pp, x, rand.Reader)
	if err != nil {
		t.Fatalf("CommitInput: %v", err)
	}
	pk.CmX = cmX
	w := &Witness{Sk: sk.Sk, RSk: sk.RSk, X: input.X, RX: input.RX}
	out, err := Eval(pp, w)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	proof, err := Prove(pp, pk, w, out, rand.Reader)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	proof.ZSk = curve.ModAdd(proof.ZSk, big.NewInt(1))
	if Verify(pp, pk, out, proof) {
		t.Fatal("expected Verify to reject a tampered response")
	}
}

func TestProofRoundTripsThroughSerialization(t *testing.T) {
	pp, err := NewPublicParams(rand.Reader)
	if err != nil {
		t.Fatalf("NewPublicParams: %v", err)
	}
	sk, pk, err := GenerateKeys(pp, rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKeys: %v", err)
	}
	x, _ := curve.RandomScalar(rand.Reader)
	input, cmX, err := CommitInput(pp, x, rand.Reader)
	if err != nil {
		t.Fatalf("CommitInput: %v", err)
	}
	pk.CmX = cmX
	w := &Witness{Sk: sk.Sk, RSk: sk.RSk, X: input.X, RX: input.RX}
	out, err := Eval(pp, w)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	proof, err := Prove(pp, pk, w, out, rand.Reader)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	data, err := proof.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	var decoded Proof
	if err := decoded.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if !Verify(pp, pk, out, &decoded) {
		t.Fatal("expected round-tripped proof to verify")
	}
}
