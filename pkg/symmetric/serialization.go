package symmetric

import (
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/sampolgar/tsiris-go/pkg/wire"
)

// wireProof is the CBOR-serializable mirror of Proof.
type wireProof struct {
	Bases             [][]byte
	Commitment        []byte
	SchnorrCommitment []byte
	Challenge         []byte
	Responses         [][]byte
}

// MarshalBinary encodes p as canonical CBOR, the form a presentation
// carries its commitment opening proof in (spec.md §6).
func (p *Proof) MarshalBinary() ([]byte, error) {
	bases := make([][]byte, len(p.Bases))
	for i := range p.Bases {
		bases[i] = p.Bases[i].Marshal()
	}
	w := wireProof{
		Bases:             bases,
		Commitment:        p.Commitment.Marshal(),
		SchnorrCommitment: p.SchnorrCommitment.Marshal(),
		Challenge:         wire.ScalarBytes(p.Challenge),
		Responses:         wire.ScalarsBytes(p.Responses),
	}
	return wire.Marshal(w)
}

// UnmarshalBinary decodes a Proof from its canonical CBOR encoding.
func (p *Proof) UnmarshalBinary(data []byte) error {
	var w wireProof
	if err := wire.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("symmetric: unmarshal proof: %w", err)
	}

	bases := make([]bls12381.G1Affine, len(w.Bases))
	for i := range w.Bases {
		if err := bases[i].Unmarshal(w.Bases[i]); err != nil {
			return fmt.Errorf("symmetric: unmarshal base %d: %w", i, err)
		}
	}
	var cm, sc bls12381.G1Affine
	if err := cm.Unmarshal(w.Commitment); err != nil {
		return fmt.Errorf("symmetric: unmarshal commitment: %w", err)
	}
	if err := sc.Unmarshal(w.SchnorrCommitment); err != nil {
		return fmt.Errorf("symmetric: unmarshal schnorr commitment: %w", err)
	}

	p.Bases = bases
	p.Commitment = cm
	p.SchnorrCommitment = sc
	p.Challenge = wire.Scalar(w.Challenge)
	p.Responses = wire.Scalars(w.Responses)
	return nil
}
