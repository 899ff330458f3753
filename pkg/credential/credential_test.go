package credential

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/sampolgar/tsiris-go/pkg/keygen"
	"github.com/sampolgar/tsiris-go/pkg/signature"
	"github.com/sampolgar/tsiris-go/pkg/signer"
	"github.com/sampolgar/tsiris-go/pkg/symmetric"
)

func issueAndShow(t *testing.T, threshold, n, l int) *Presentation {
	t.Helper()

	ck, vk, keys, err := keygen.Keygen(threshold, n, l, rand.Reader)
	if err != nil {
		t.Fatalf("Keygen: %v", err)
	}

	cred, err := New(ck, nil, rand.Reader)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cred.State != StateInitialized {
		t.Fatal("expected new credential to start Initialized")
	}

	reqCommitments, err := cred.ComputeCommitments(context.Background(), rand.Reader)
	if err != nil {
		t.Fatalf("ComputeCommitments: %v", err)
	}
	if cred.State != StateCommitted {
		t.Fatal("expected credential to be Committed after ComputeCommitments")
	}

	shares := make([]signature.PartialSignature, 0, threshold)
	for i := 0; i < threshold; i++ {
		s := signer.New(ck, &keys.SkShares[i], &keys.VkShares[i])
		share, err := s.SignShare(reqCommitments.Commitments, reqCommitments.Proofs, reqCommitments.H, rand.Reader)
		if err != nil {
			t.Fatalf("SignShare[%d]: %v", i, err)
		}
		shares = append(shares, *share)
	}

	agg, err := signature.Aggregate(ck, shares, cred.Blindings, threshold, reqCommitments.H)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	cred.AttachSignature(agg)
	if cred.State != StateSigned {
		t.Fatal("expected credential to be Signed after AttachSignature")
	}

	presentation, err := cred.Show(rand.Reader)
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if cred.State != StateRandomized {
		t.Fatal("expected credential to be Randomized after Show")
	}

	if !signature.Verify(ck, vk, presentation.Cm, presentation.CmTilde, presentation.Sig, rand.Reader) {
		t.Fatal("presented signature failed to verify")
	}
	if !symmetric.Verify(presentation.Proof) {
		t.Fatal("presented commitment opening proof failed to verify")
	}

	return presentation
}

func TestIssueAndShowEndToEnd(t *testing.T) {
	issueAndShow(t, 3, 5, 3)
}

func TestShowBeforeSignedFails(t *testing.T) {
	ck, _, _, err := keygen.Keygen(2, 3, 2, rand.Reader)
	if err != nil {
		t.Fatalf("Keygen: %v", err)
	}
	cred, err := New(ck, nil, rand.Reader)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := cred.Show(rand.Reader); err == nil {
		t.Fatal("expected Show to fail before a signature is attached")
	}
}

func TestTwoShowingsAreUnlinkable(t *testing.T) {
	const threshold, n, l = 2, 3, 2
	ck, vk, keys, err := keygen.Keygen(threshold, n, l, rand.Reader)
	if err != nil {
		t.Fatalf("Keygen: %v", err)
	}
	cred, err := New(ck, nil, rand.Reader)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	reqCommitments, err := cred.ComputeCommitments(context.Background(), rand.Reader)
	if err != nil {
		t.Fatalf("ComputeCommitments: %v", err)
	}
	shares := make([]signature.PartialSignature, 0, threshold)
	for i := 0; i < threshold; i++ {
		s := signer.New(ck, &keys.SkShares[i], &keys.VkShares[i])
		share, err := s.SignShare(reqCommitments.Commitments, reqCommitments.Proofs, reqCommitments.H, rand.Reader)
		if err != nil {
			t.Fatalf("SignShare[%d]: %v", i, err)
		}
		shares = append(shares, *share)
	}
	agg, err := signature.Aggregate(ck, shares, cred.Blindings, threshold, reqCommitments.H)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	cred.AttachSignature(agg)

	p1, err := cred.Show(rand.Reader)
	if err != nil {
		t.Fatalf("Show 1: %v", err)
	}
	p2, err := cred.Show(rand.Reader)
	if err != nil {
		t.Fatalf("Show 2: %v", err)
	}

	if p1.Cm.Equal(&p2.Cm) {
		t.Fatal("expected two showings to produce different commitments")
	}
	if p1.Sig.Sigma.Equal(&p2.Sig.Sigma) {
		t.Fatal("expected two showings to produce different signature randomizations")
	}

	if !signature.Verify(ck, vk, p1.Cm, p1.CmTilde, p1.Sig, rand.Reader) {
		t.Fatal("first showing failed to verify")
	}
	if !signature.Verify(ck, vk, p2.Cm, p2.CmTilde, p2.Sig, rand.Reader) {
		t.Fatal("second showing failed to verify")
	}
}
