// Package wire holds the CBOR encoding conventions shared by every
// serializable type in this module (spec.md §6): opening proofs,
// signature shares, aggregated signatures and nullifier keys, outputs and
// proofs all encode to a canonical byte string via
// github.com/fxamacker/cbor/v2, the same way the commitment, symmetric,
// signature and nullifier packages each define a small "wire" mirror struct with plain byte-slice fields and convert to/from
// their live, curve-typed counterparts.
package wire

import (
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	opts := cbor.CanonicalEncOptions()
	m, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	encMode = m

	dopts := cbor.DecOptions{}
	dm, err := dopts.DecMode()
	if err != nil {
		panic(err)
	}
	decMode = dm
}

// Marshal encodes v to canonical CBOR.
func Marshal(v interface{}) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR bytes into v.
func Unmarshal(data []byte, v interface{}) error {
	return decMode.Unmarshal(data, v)
}

// ScalarBytes returns the big-endian byte encoding of a scalar, or nil for
// a nil scalar.
func ScalarBytes(s *big.Int) []byte {
	if s == nil {
		return nil
	}
	return s.Bytes()
}

// Scalar parses a big-endian encoded scalar, returning nil for an empty
// slice.
func Scalar(b []byte) *big.Int {
	if len(b) == 0 {
		return nil
	}
	return new(big.Int).SetBytes(b)
}

// ScalarsBytes and Scalars convert slices of scalars to/from slices of
// their byte encodings, for messages carrying a vector of responses or
// attribute openings.
func ScalarsBytes(ss []*big.Int) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = s.Bytes()
	}
	return out
}

func Scalars(bs [][]byte) []*big.Int {
	out := make([]*big.Int, len(bs))
	for i, b := range bs {
		out[i] = new(big.Int).SetBytes(b)
	}
	return out
}
