package schnorr

import (
	"crypto/rand"
	"math/big"
	"testing"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/sampolgar/tsiris-go/internal/curve"
)

func randomBases(t *testing.T, n int) []bls12381.G1Affine {
	t.Helper()
	bases := make([]bls12381.G1Affine, n)
	for i := range bases {
		p, err := curve.RandomG1(rand.Reader)
		if err != nil {
			t.Fatalf("RandomG1: %v", err)
		}
		bases[i] = p
	}
	return bases
}

func mustRandom(t *testing.T) *big.Int {
	t.Helper()
	r, err := curve.RandomScalar(rand.Reader)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	return r
}

func TestProveVerifySingleBase(t *testing.T) {
	bases := randomBases(t, 1)
	witness := mustRandom(t)
	statement := curve.ScalarMulG1(&bases[0], witness)

	commitment, err := Commit(bases, rand.Reader)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	challenge := Challenge("test/single", bases, statement, commitment.T)
	responses := Prove(commitment, []*big.Int{witness}, challenge)

	if !Verify(bases, statement, commitment.T, responses, challenge) {
		t.Fatal("schnorr proof failed to verify")
	}
}

func TestProveVerifyMultiBase(t *testing.T) {
	bases := randomBases(t, 3)
	witnesses := make([]*big.Int, 3)
	for i := range witnesses {
		witnesses[i] = mustRandom(t)
	}
	statement := curve.MSMG1(bases, witnesses)

	commitment, err := Commit(bases, rand.Reader)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	challenge := Challenge("test/multi", bases, statement, commitment.T)
	responses := Prove(commitment, witnesses, challenge)

	if !Verify(bases, statement, commitment.T, responses, challenge) {
		t.Fatal("schnorr proof failed to verify")
	}
}

func TestVerifyRejectsWrongChallenge(t *testing.T) {
	bases := randomBases(t, 2)
	witnesses := make([]*big.Int, 2)
	for i := range witnesses {
		witnesses[i] = mustRandom(t)
	}
	statement := curve.MSMG1(bases, witnesses)

	commitment, err := Commit(bases, rand.Reader)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	challenge := Challenge("test/wrong", bases, statement, commitment.T)
	responses := Prove(commitment, witnesses, challenge)

	wrongChallenge := mustRandom(t)
	if Verify(bases, statement, commitment.T, responses, wrongChallenge) {
		t.Fatal("expected verification failure with mismatched challenge")
	}
}

func TestCommitEqualitySharesBlinding(t *testing.T) {
	basesA := randomBases(t, 2)
	basesB := randomBases(t, 2)

	shared := mustRandom(t)
	other1 := mustRandom(t)
	other2 := mustRandom(t)

	witnessesA := []*big.Int{shared, other1}
	witnessesB := []*big.Int{shared, other2}

	statementA := curve.MSMG1(basesA, witnessesA)
	statementB := curve.MSMG1(basesB, witnessesB)

	commitmentA, err := CommitEquality(basesA, shared, rand.Reader)
	if err != nil {
		t.Fatalf("CommitEquality A: %v", err)
	}
	commitmentB := CommitWithBlindings(basesB, []*big.Int{commitmentA.Blindings[0], mustRandom(t)})

	challenge := Challenge("test/equality", basesA, statementA, commitmentA.T)

	responsesA := Prove(commitmentA, witnessesA, challenge)
	responsesB := Prove(commitmentB, witnessesB, challenge)

	if !Verify(basesA, statementA, commitmentA.T, responsesA, challenge) {
		t.Fatal("proof A failed to verify")
	}
	if !Verify(basesB, statementB, commitmentB.T, responsesB, challenge) {
		t.Fatal("proof B failed to verify")
	}
	if responsesA.Z[0].Cmp(responsesB.Z[0]) != 0 {
		t.Fatal("expected shared-blinding responses to match for the shared witness")
	}
}
