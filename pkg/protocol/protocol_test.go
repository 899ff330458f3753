package protocol

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/sampolgar/tsiris-go/pkg/signer"
)

func TestFullProtocolEndToEnd(t *testing.T) {
	const threshold, n, l = 3, 5, 3

	ck, vk, keys, err := Setup(threshold, n, l, rand.Reader)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	cred, req, err := RequestCredential(context.Background(), ck, nil, rand.Reader)
	if err != nil {
		t.Fatalf("RequestCredential: %v", err)
	}

	signers := make([]*signer.Signer, n)
	for i := 0; i < n; i++ {
		signers[i] = signer.New(ck, &keys.SkShares[i], &keys.VkShares[i])
	}

	shares, err := CollectSignatureShares(context.Background(), signers, req, threshold, rand.Reader)
	if err != nil {
		t.Fatalf("CollectSignatureShares: %v", err)
	}
	if len(shares) != threshold {
		t.Fatalf("expected %d shares, got %d", threshold, len(shares))
	}

	verified, err := VerifySignatureShares(ck, keys.VkShares[:threshold], req, shares, threshold)
	if err != nil {
		t.Fatalf("VerifySignatureShares: %v", err)
	}

	agg, err := AggregateShares(ck, verified, cred.Blindings, threshold, req.H)
	if err != nil {
		t.Fatalf("AggregateShares: %v", err)
	}
	cred.AttachSignature(agg)

	presentation, err := Show(cred, rand.Reader)
	if err != nil {
		t.Fatalf("Show: %v", err)
	}

	if !VerifyPresentation(ck, vk, presentation, rand.Reader) {
		t.Fatal("expected presentation to verify")
	}
}

func TestCollectSignatureSharesRejectsTooFewSigners(t *testing.T) {
	const threshold, n, l = 3, 5, 2
	ck, _, keys, err := Setup(threshold, n, l, rand.Reader)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	_, req, err := RequestCredential(context.Background(), ck, nil, rand.Reader)
	if err != nil {
		t.Fatalf("RequestCredential: %v", err)
	}

	signers := []*signer.Signer{signer.New(ck, &keys.SkShares[0], &keys.VkShares[0])}
	if _, err := CollectSignatureShares(context.Background(), signers, req, threshold, rand.Reader); err == nil {
		t.Fatal("expected CollectSignatureShares to reject when fewer signers than threshold are supplied")
	}
}
