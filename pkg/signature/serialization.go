package signature

import (
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/sampolgar/tsiris-go/pkg/wire"
)

type wirePartialSignature struct {
	PartyIndex int
	H          []byte
	Sigma      []byte
}

// MarshalBinary encodes a PartialSignature to canonical CBOR, the form an
// issuer sends back to the user during issuance (spec.md §6).
func (s *PartialSignature) MarshalBinary() ([]byte, error) {
	w := wirePartialSignature{PartyIndex: s.PartyIndex, H: s.H.Marshal(), Sigma: s.Sigma.Marshal()}
	return wire.Marshal(w)
}

// UnmarshalBinary decodes a PartialSignature from its CBOR encoding.
func (s *PartialSignature) UnmarshalBinary(data []byte) error {
	var w wirePartialSignature
	if err := wire.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("signature: unmarshal partial signature: %w", err)
	}
	var h, sigma bls12381.G1Affine
	if err := h.Unmarshal(w.H); err != nil {
		return fmt.Errorf("signature: unmarshal h: %w", err)
	}
	if err := sigma.Unmarshal(w.Sigma); err != nil {
		return fmt.Errorf("signature: unmarshal sigma: %w", err)
	}
	s.PartyIndex = w.PartyIndex
	s.H = h
	s.Sigma = sigma
	return nil
}

type wireThresholdSignature struct {
	H     []byte
	Sigma []byte
}

// MarshalBinary encodes a ThresholdSignature to canonical CBOR.
func (s *ThresholdSignature) MarshalBinary() ([]byte, error) {
	w := wireThresholdSignature{H: s.H.Marshal(), Sigma: s.Sigma.Marshal()}
	return wire.Marshal(w)
}

// UnmarshalBinary decodes a ThresholdSignature from its CBOR encoding.
func (s *ThresholdSignature) UnmarshalBinary(data []byte) error {
	var w wireThresholdSignature
	if err := wire.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("signature: unmarshal threshold signature: %w", err)
	}
	var h, sigma bls12381.G1Affine
	if err := h.Unmarshal(w.H); err != nil {
		return fmt.Errorf("signature: unmarshal h: %w", err)
	}
	if err := sigma.Unmarshal(w.Sigma); err != nil {
		return fmt.Errorf("signature: unmarshal sigma: %w", err)
	}
	s.H = h
	s.Sigma = sigma
	return nil
}
