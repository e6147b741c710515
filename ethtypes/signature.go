package ethtypes

import (
	"encoding/hex"
	"encoding/json"
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// SignatureLength is the byte length of a recoverable signature.
const SignatureLength = 65

// ErrInvalidSignature is returned for malformed signature bytes or an
// unrecognized recovery byte.
var ErrInvalidSignature = errors.New("ethtypes: invalid signature")

// Signature is a 65-byte recoverable secp256k1 signature: 32-byte r, 32-byte
// s, and one trailing recovery byte. The trailing byte is context dependent:
// free-standing message signatures carry recoveryID+27 (legacy convention,
// possibly chain-adjusted), EIP-1559 transactions carry a bare 0/1 parity.
type Signature [SignatureLength]byte

// SignatureFromBytes converts a 65-byte slice to a Signature.
func SignatureFromBytes(b []byte) (Signature, error) {
	var sig Signature
	if len(b) != SignatureLength {
		return sig, errors.Wrapf(ErrInvalidSignature, "got %d bytes, want %d", len(b), SignatureLength)
	}
	copy(sig[:], b)
	return sig, nil
}

// ParseSignature parses a "0x"-prefixed hex signature.
func ParseSignature(s string) (Signature, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return Signature{}, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	return SignatureFromBytes(raw)
}

// Bytes returns a copy of the raw signature bytes.
func (s Signature) Bytes() []byte {
	out := make([]byte, SignatureLength)
	copy(out, s[:])
	return out
}

// R returns the signature's r value.
func (s Signature) R() *big.Int {
	return new(big.Int).SetBytes(s[:32])
}

// S returns the signature's s value.
func (s Signature) S() *big.Int {
	return new(big.Int).SetBytes(s[32:64])
}

// V returns the raw trailing recovery byte.
func (s Signature) V() byte {
	return s[64]
}

// WithV returns a copy of the signature with the trailing byte replaced.
func (s Signature) WithV(v byte) Signature {
	out := s
	out[64] = v
	return out
}

// RecoveryID normalizes the trailing byte to a bare 0/1 recovery id,
// accepting the raw form and the 27, 31 and 35 offsets used by legacy and
// EIP-155-style encodings.
func (s Signature) RecoveryID() (byte, error) {
	v := s[64]
	if v <= 1 {
		return v, nil
	}
	for _, offset := range []byte{27, 31, 35} {
		if v == offset || v == offset+1 {
			return v - offset, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidSignature, "unrecognized recovery byte %d", v)
}

// Hex renders the signature as 0x-prefixed hex.
func (s Signature) Hex() string {
	return "0x" + hex.EncodeToString(s[:])
}

// String implements fmt.Stringer.
func (s Signature) String() string {
	return s.Hex()
}

// MarshalJSON encodes the signature as a hex string.
func (s Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Hex())
}

// UnmarshalJSON decodes a hex string signature.
func (s *Signature) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(ErrInvalidSignature, err.Error())
	}
	parsed, err := ParseSignature(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
