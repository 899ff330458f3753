// Package protocol wires the per-package primitives into the three
// named roles the issuance/presentation protocol defines (spec.md
// §4.10): Issuer (setup, share issuance), User (credential request,
// share collection and verification, aggregation, showing) and Verifier
// (presentation verification). It mirrors the reference implementation's
// IssuerProtocol/UserProtocol/VerifierProtocol facade, parallelizing
// share collection across issuers with an errgroup the way the reference
// implementation's rayon par_iter does.
package protocol

import (
	"context"
	"io"
	"math/big"
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"golang.org/x/sync/errgroup"

	"github.com/sampolgar/tsiris-go/internal/common"
	"github.com/sampolgar/tsiris-go/pkg/commitment"
	"github.com/sampolgar/tsiris-go/pkg/credential"
	"github.com/sampolgar/tsiris-go/pkg/keygen"
	"github.com/sampolgar/tsiris-go/pkg/signature"
	"github.com/sampolgar/tsiris-go/pkg/signer"
	"github.com/sampolgar/tsiris-go/pkg/symmetric"
)

// Setup runs the dealer-based keygen for threshold t, n issuers and l
// attribute slots.
func Setup(t, n, l int, rng io.Reader) (*symmetric.Key, *keygen.VerificationKey, *keygen.ThresholdKeys, error) {
	return keygen.Keygen(t, n, l, rng)
}

// IssueShare is a single issuer's entry point, delegating straight to
// signer.Signer.SignShare.
func IssueShare(s *signer.Signer, commitments []bls12381.G1Affine, proofs []*commitment.Proof, h bls12381.G1Affine, rng io.Reader) (*signature.PartialSignature, error) {
	return s.SignShare(commitments, proofs, h, rng)
}

// RequestCredential creates a fresh credential over ck and computes its
// per-attribute issuance commitments, the bundle a user sends to every
// issuer.
func RequestCredential(ctx context.Context, ck *symmetric.Key, attributes []*big.Int, rng io.Reader) (*credential.Credential, *credential.Commitments, error) {
	cred, err := credential.New(ck, attributes, rng)
	if err != nil {
		return nil, nil, err
	}
	reqCommitments, err := cred.ComputeCommitments(ctx, rng)
	if err != nil {
		return nil, nil, err
	}
	return cred, reqCommitments, nil
}

// rngPool wraps one io.Reader in a mutex so that concurrent goroutines can
// share it: sharing a single io.Reader across goroutines without
// synchronization is a data race. Every goroutine reads through the same
// wrapper, so draws are serialized under one lock; each draw is cheap
// relative to the batch verification and multi-scalar multiplication
// signing performs.
type rngPool struct {
	mu  sync.Mutex
	src io.Reader
}

func (p *rngPool) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return io.ReadFull(p.src, b)
}

// CollectSignatureShares requests a signature share from each of the
// first `threshold` signers concurrently, returning an error if any
// issuer rejects the request (e.g. a batch-verification failure) or if
// fewer than threshold succeed.
func CollectSignatureShares(ctx context.Context, signers []*signer.Signer, req *credential.Commitments, threshold int, rng io.Reader) ([]signature.PartialSignature, error) {
	if threshold > len(signers) {
		return nil, &common.InsufficientSharesError{Needed: threshold, Got: len(signers)}
	}
	pooled := &rngPool{src: rng}

	shares := make([]signature.PartialSignature, threshold)
	group, gctx := errgroup.WithContext(ctx)
	for i := 0; i < threshold; i++ {
		i := i
		group.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			share, err := signers[i].SignShare(req.Commitments, req.Proofs, req.H, pooled)
			if err != nil {
				return err
			}
			shares[i] = *share
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return shares, nil
}

// VerifySignatureShares checks each collected share against the issuer's
// verification key share and returns only the ones that verify,
// erroring out if fewer than threshold remain.
func VerifySignatureShares(ck *symmetric.Key, vkShares []keygen.VerificationKeyShare, req *credential.Commitments, shares []signature.PartialSignature, threshold int) ([]signature.PartialSignature, error) {
	byIndex := make(map[int]*keygen.VerificationKeyShare, len(vkShares))
	for i := range vkShares {
		byIndex[vkShares[i].Index] = &vkShares[i]
	}

	valid := make([]signature.PartialSignature, 0, len(shares))
	for _, share := range shares {
		vkShare, ok := byIndex[share.PartyIndex]
		if !ok {
			continue
		}
		if signature.VerifyShare(ck, vkShare, req.Commitments, &share) {
			valid = append(valid, share)
		}
	}
	if len(valid) < threshold {
		return nil, &common.InsufficientSharesError{Needed: threshold, Got: len(valid)}
	}
	return valid, nil
}

// AggregateShares combines threshold verified shares into a
// ThresholdSignature.
func AggregateShares(ck *symmetric.Key, shares []signature.PartialSignature, blindings []*big.Int, threshold int, h bls12381.G1Affine) (*signature.ThresholdSignature, error) {
	return signature.Aggregate(ck, shares, blindings, threshold, h)
}

// Show produces a fresh, unlinkable presentation of cred.
func Show(cred *credential.Credential, rng io.Reader) (*credential.Presentation, error) {
	return cred.Show(rng)
}

// VerifyPresentation checks a presentation's signature and commitment
// opening proof against the scheme's public parameters.
func VerifyPresentation(ck *symmetric.Key, vk *keygen.VerificationKey, p *credential.Presentation, rng io.Reader) bool {
	if !symmetric.Verify(p.Proof) {
		return false
	}
	return signature.Verify(ck, vk, p.Cm, p.CmTilde, p.Sig, rng)
}
