package nullifier

import (
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/sampolgar/tsiris-go/pkg/wire"
)

type wirePublicKey struct {
	CmSk []byte
	CmX  []byte
}

// MarshalBinary encodes a PublicKey as canonical CBOR.
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	return wire.Marshal(wirePublicKey{CmSk: pk.CmSk.Marshal(), CmX: pk.CmX.Marshal()})
}

// UnmarshalBinary decodes a PublicKey from its CBOR encoding.
func (pk *PublicKey) UnmarshalBinary(data []byte) error {
	var w wirePublicKey
	if err := wire.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("nullifier: unmarshal public key: %w", err)
	}
	var cmSk, cmX bls12381.G1Affine
	if err := cmSk.Unmarshal(w.CmSk); err != nil {
		return fmt.Errorf("nullifier: unmarshal cm_sk: %w", err)
	}
	if err := cmX.Unmarshal(w.CmX); err != nil {
		return fmt.Errorf("nullifier: unmarshal cm_x: %w", err)
	}
	pk.CmSk = cmSk
	pk.CmX = cmX
	return nil
}

// MarshalBinary encodes an Output (the nullifier value itself) as
// canonical CBOR.
func (o *Output) MarshalBinary() ([]byte, error) {
	return wire.Marshal(o.Y.Marshal())
}

// UnmarshalBinary decodes an Output from its CBOR encoding.
func (o *Output) UnmarshalBinary(data []byte) error {
	var b []byte
	if err := wire.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("nullifier: unmarshal output: %w", err)
	}
	var y bls12381.G1Affine
	if err := y.Unmarshal(b); err != nil {
		return fmt.Errorf("nullifier: unmarshal y: %w", err)
	}
	o.Y = y
	return nil
}

type wireProof struct {
	T1, T2, TY                     []byte
	Challenge                      []byte
	ZSk, ZX, ZRSk, ZRX, ZM         []byte
}

// MarshalBinary encodes a Proof as canonical CBOR.
func (p *Proof) MarshalBinary() ([]byte, error) {
	w := wireProof{
		T1:        p.T1.Marshal(),
		T2:        p.T2.Marshal(),
		TY:        p.TY.Marshal(),
		Challenge: wire.ScalarBytes(p.Challenge),
		ZSk:       wire.ScalarBytes(p.ZSk),
		ZX:        wire.ScalarBytes(p.ZX),
		ZRSk:      wire.ScalarBytes(p.ZRSk),
		ZRX:       wire.ScalarBytes(p.ZRX),
		ZM:        wire.ScalarBytes(p.ZM),
	}
	return wire.Marshal(w)
}

// UnmarshalBinary decodes a Proof from its CBOR encoding.
func (p *Proof) UnmarshalBinary(data []byte) error {
	var w wireProof
	if err := wire.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("nullifier: unmarshal proof: %w", err)
	}
	var t1, t2, ty bls12381.G1Affine
	if err := t1.Unmarshal(w.T1); err != nil {
		return fmt.Errorf("nullifier: unmarshal t1: %w", err)
	}
	if err := t2.Unmarshal(w.T2); err != nil {
		return fmt.Errorf("nullifier: unmarshal t2: %w", err)
	}
	if err := ty.Unmarshal(w.TY); err != nil {
		return fmt.Errorf("nullifier: unmarshal ty: %w", err)
	}
	p.T1, p.T2, p.TY = t1, t2, ty
	p.Challenge = wire.Scalar(w.Challenge)
	p.ZSk = wire.Scalar(w.ZSk)
	p.ZX = wire.Scalar(w.ZX)
	p.ZRSk = wire.Scalar(w.ZRSk)
	p.ZRX = wire.Scalar(w.ZRX)
	p.ZM = wire.Scalar(w.ZM)
	return nil
}
