package signer

import (
	"crypto/rand"
	"math/big"
	"testing"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/sampolgar/tsiris-go/internal/curve"
	"github.com/sampolgar/tsiris-go/pkg/commitment"
	"github.com/sampolgar/tsiris-go/pkg/keygen"
	"github.com/sampolgar/tsiris-go/pkg/signature"
	"github.com/sampolgar/tsiris-go/pkg/symmetric"
)

// issueOnce runs a full issuance round: random attributes, per-attribute
// commitments and proofs, every issuer signing a share, then aggregation
// into a ThresholdSignature and a final verification against the
// symmetric commitment. It returns the aggregated signature, the
// symmetric commitment and its verification key so callers can assert
// further properties.
func issueOnce(t *testing.T, threshold, n, l int) (*signature.ThresholdSignature, *symmetric.Key, *keygen.VerificationKey, *symmetric.Commitment) {
	t.Helper()

	ck, vk, keys, err := keygen.Keygen(threshold, n, l, rand.Reader)
	if err != nil {
		t.Fatalf("Keygen: %v", err)
	}

	messages := make([]*big.Int, l)
	for i := range messages {
		m, err := curve.RandomScalar(rand.Reader)
		if err != nil {
			t.Fatalf("RandomScalar: %v", err)
		}
		messages[i] = m
	}

	h, err := curve.RandomG1(rand.Reader)
	if err != nil {
		t.Fatalf("RandomG1: %v", err)
	}

	// The attribute-commitment base must be ck.G: signature.Aggregate
	// de-blinds partial signatures by subtracting MSM(ck.Ck, blindings),
	// and ck.Ck[k] = ck.G^y_k, so any other base would leave a spurious
	// component in the aggregated signature.
	blindings := make([]*big.Int, l)
	perAttrCommitments := make([]bls12381.G1Affine, l)
	proofs := make([]*commitment.Proof, l)
	for i := range messages {
		c, err := commitment.New(h, ck.G, messages[i], nil, rand.Reader)
		if err != nil {
			t.Fatalf("commitment.New: %v", err)
		}
		blindings[i] = c.R
		perAttrCommitments[i] = c.Cm
		p, err := commitment.Prove(c, rand.Reader)
		if err != nil {
			t.Fatalf("commitment.Prove: %v", err)
		}
		proofs[i] = p
	}

	symCm, err := symmetric.New(ck, messages, big.NewInt(0))
	if err != nil {
		t.Fatalf("symmetric.New: %v", err)
	}

	shares := make([]signature.PartialSignature, n)
	for i := 0; i < n; i++ {
		s := New(ck, &keys.SkShares[i], &keys.VkShares[i])
		share, err := s.SignShare(perAttrCommitments, proofs, h, rand.Reader)
		if err != nil {
			t.Fatalf("SignShare[%d]: %v", i, err)
		}
		if !signature.VerifyShare(ck, &keys.VkShares[i], perAttrCommitments, share) {
			t.Fatalf("share %d failed to verify", i)
		}
		shares[i] = *share
	}

	agg, err := signature.Aggregate(ck, shares[:threshold], blindings, threshold, h)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if !signature.Verify(ck, vk, symCm.Cm, symCm.CmTilde, agg, rand.Reader) {
		t.Fatal("aggregated signature failed to verify")
	}

	return agg, ck, vk, symCm
}

func TestIssueAndVerifyEndToEnd(t *testing.T) {
	tests := []struct {
		name      string
		threshold int
		n         int
		l         int
	}{
		{"t=3,n=5,l=3", 3, 5, 3},
		{"t=9,n=16,l=16", 9, 16, 16},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			issueOnce(t, test.threshold, test.n, test.l)
		})
	}
}

func TestSignShareRejectsTamperedProof(t *testing.T) {
	const threshold, n, l = 3, 5, 2

	ck, _, keys, err := keygen.Keygen(threshold, n, l, rand.Reader)
	if err != nil {
		t.Fatalf("Keygen: %v", err)
	}

	messages := make([]*big.Int, l)
	for i := range messages {
		messages[i], _ = curve.RandomScalar(rand.Reader)
	}
	h, _ := curve.RandomG1(rand.Reader)

	perAttrCommitments := make([]bls12381.G1Affine, l)
	proofs := make([]*commitment.Proof, l)
	for i := range messages {
		c, err := commitment.New(h, ck.G, messages[i], nil, rand.Reader)
		if err != nil {
			t.Fatalf("commitment.New: %v", err)
		}
		perAttrCommitments[i] = c.Cm
		p, err := commitment.Prove(c, rand.Reader)
		if err != nil {
			t.Fatalf("commitment.Prove: %v", err)
		}
		proofs[i] = p
	}
	// flip one byte's worth of effect on the first proof's response
	proofs[0].Responses[0] = curve.ModAdd(proofs[0].Responses[0], big.NewInt(1))

	s := New(ck, &keys.SkShares[0], &keys.VkShares[0])
	if _, err := s.SignShare(perAttrCommitments, proofs, h, rand.Reader); err == nil {
		t.Fatal("expected SignShare to reject a tampered opening proof")
	}
}
