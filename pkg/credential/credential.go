// Package credential drives a single identity holder's side of the
// issuance and presentation protocol (spec.md §4.10): it walks a
// credential through Initialized -> Committed -> Signed -> Randomized,
// fanning the per-attribute commitment proofs out across goroutines the
// same way the reference implementation's rayon-parallel
// compute_commitments_per_m does.
package credential

import (
	"context"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"golang.org/x/sync/errgroup"

	"github.com/sampolgar/tsiris-go/internal/common"
	"github.com/sampolgar/tsiris-go/internal/curve"
	"github.com/sampolgar/tsiris-go/pkg/commitment"
	"github.com/sampolgar/tsiris-go/pkg/signature"
	"github.com/sampolgar/tsiris-go/pkg/symmetric"
)

// State is a credential's position in the issuance/presentation
// lifecycle. Operations check State and return common.ErrWrongCredentialState
// rather than acting out of order.
type State int

const (
	StateInitialized State = iota
	StateCommitted
	StateSigned
	StateRandomized
)

// Commitments bundles the per-attribute Pedersen commitments and their
// opening proofs a user sends to every issuer during issuance, alongside
// the shared base h every issuer's share is computed over.
type Commitments struct {
	H           bls12381.G1Affine
	Commitments []bls12381.G1Affine
	Proofs      []*commitment.Proof
}

// Credential holds one identity holder's full issuance state: their
// attribute vector, the symmetric commitment over it, the per-attribute
// blindings used at issuance, and (once signed) the aggregated signature.
type Credential struct {
	Ck        *symmetric.Key
	Cm        *symmetric.Commitment
	Messages  []*big.Int
	Blindings []*big.Int
	H         bls12381.G1Affine
	Sig       *signature.ThresholdSignature
	Context   *big.Int
	State     State
}

// New creates a credential over ck with the given attributes (or, if nil,
// one random attribute per slot), a fresh random per-credential base h,
// and a fresh random context value binding it to a particular
// issuance/presentation session.
func New(ck *symmetric.Key, messages []*big.Int, rng io.Reader) (*Credential, error) {
	n := len(ck.Ck)
	if messages == nil {
		messages = make([]*big.Int, n)
		for i := range messages {
			m, err := curve.RandomScalar(rng)
			if err != nil {
				return nil, err
			}
			messages[i] = m
		}
	}

	h, err := curve.RandomG1(rng)
	if err != nil {
		return nil, err
	}
	ctx, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, err
	}

	cm, err := symmetric.New(ck, messages, big.NewInt(0))
	if err != nil {
		return nil, err
	}

	return &Credential{
		Ck:       ck,
		Cm:       cm,
		Messages: messages,
		H:        h,
		Context:  ctx,
		State:    StateInitialized,
	}, nil
}

// ComputeCommitments builds one Pedersen commitment h^m_k * ck.G^r_k per
// attribute, proves each in its own goroutine via an errgroup, and
// advances the credential to StateCommitted. The commitment base
// must be ck.G (the same blinding generator the symmetric commitment key
// uses), since signature.Aggregate de-blinds partial signatures by
// subtracting MSM(ck.Ck, blindings) — ck.Ck[k] = ck.G^y_k, so using any
// other base here would leave a spurious (Σ y_k*r_k)*(g - ck.G) term in
// the aggregated signature. Grounded on the reference implementation's
// compute_commitments_per_m, which commits with self.ck.g for the same
// reason. Parallelizing the proof generation is what the reference
// implementation's rayon par_iter does for compute_commitments_per_m;
// here an errgroup fan-out plays the same role without needing a
// third-party worker-pool library.
func (c *Credential) ComputeCommitments(ctx context.Context, rng io.Reader) (*Commitments, error) {
	n := len(c.Messages)
	if n == 0 {
		return nil, common.ErrEmptyMessageVector
	}

	blindings := make([]*big.Int, n)
	commitments := make([]bls12381.G1Affine, n)
	proofs := make([]*commitment.Proof, n)

	cms := make([]*commitment.Commitment, n)
	for i := 0; i < n; i++ {
		cm, err := commitment.New(c.H, c.Ck.G, c.Messages[i], nil, rng)
		if err != nil {
			return nil, err
		}
		cms[i] = cm
		blindings[i] = cm.R
		commitments[i] = cm.Cm
	}

	group, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		group.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			p, err := commitment.Prove(cms[i], rng)
			if err != nil {
				return err
			}
			proofs[i] = p
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	c.Blindings = blindings
	c.State = StateCommitted

	return &Commitments{H: c.H, Commitments: commitments, Proofs: proofs}, nil
}

// AttachSignature stores an aggregated ThresholdSignature obtained from
// the issuer set and advances the credential to StateSigned.
func (c *Credential) AttachSignature(sig *signature.ThresholdSignature) {
	c.Sig = sig
	c.State = StateSigned
}

// Presentation is everything a verifier needs to check one showing of a
// credential: the rerandomized signature, the rerandomized symmetric
// commitment (both G1 and G2 sides), and a proof of its opening.
type Presentation struct {
	Sig     *signature.ThresholdSignature
	Cm      bls12381.G1Affine
	CmTilde bls12381.G2Affine
	Proof   *symmetric.Proof
}

// Show rerandomizes the credential's signature and commitment by the same
// factor, proves the rerandomized commitment's opening, and advances the
// credential to StateRandomized. Each call to Show produces an
// unlinkable presentation: a verifier who sees two Show outputs from the
// same credential cannot tell they came from the same issuance.
func (c *Credential) Show(rng io.Reader) (*Presentation, error) {
	if c.State != StateSigned && c.State != StateRandomized {
		return nil, common.ErrWrongCredentialState
	}
	if c.Sig == nil {
		return nil, common.ErrMissingSignature
	}

	randomizedSig, rDelta, err := signature.Randomize(c.Sig, rng)
	if err != nil {
		return nil, err
	}
	randomizedCm := c.Cm.Randomize(rDelta)

	proof, err := symmetric.Prove(randomizedCm, rng)
	if err != nil {
		return nil, err
	}

	c.State = StateRandomized

	return &Presentation{
		Sig:     randomizedSig,
		Cm:      randomizedCm.Cm,
		CmTilde: randomizedCm.CmTilde,
		Proof:   proof,
	}, nil
}
