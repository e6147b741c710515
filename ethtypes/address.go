// Package ethtypes holds the value types shared across the wallet core:
// EVM addresses with their EIP-55 textual form, 65-byte recoverable
// signatures, and wei/ether unit conversions.
package ethtypes

import (
	"bytes"
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// AddressLength is the byte length of an EVM address.
const AddressLength = 20

// ErrInvalidAddress is returned for malformed address text or byte lengths.
var ErrInvalidAddress = errors.New("ethtypes: invalid address")

// Address is a 20-byte EVM account identifier. Its canonical textual form is
// the EIP-55 mixed-case checksummed hex string produced by Hex; the casing is
// always re-derived from the raw bytes, never stored.
type Address [AddressLength]byte

// ParseAddress parses a "0x"-prefixed hex address. Any casing is accepted;
// length and character errors are rejected.
func ParseAddress(s string) (Address, error) {
	var addr Address

	raw := strings.TrimPrefix(s, "0x")
	if len(raw) != AddressLength*2 {
		return addr, errors.Wrapf(ErrInvalidAddress, "got %d hex characters, want %d", len(raw), AddressLength*2)
	}
	if _, err := hex.Decode(addr[:], []byte(strings.ToLower(raw))); err != nil {
		return addr, errors.Wrap(ErrInvalidAddress, err.Error())
	}
	return addr, nil
}

// AddressFromBytes converts a 20-byte slice to an Address.
func AddressFromBytes(b []byte) (Address, error) {
	var addr Address
	if len(b) != AddressLength {
		return addr, errors.Wrapf(ErrInvalidAddress, "got %d bytes, want %d", len(b), AddressLength)
	}
	copy(addr[:], b)
	return addr, nil
}

// Bytes returns a copy of the raw address bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, AddressLength)
	copy(out, a[:])
	return out
}

// Hex returns the EIP-55 checksummed form: each hex letter is capitalized
// iff the matching nibble of keccak256(lowercase hex) is at least 8.
func (a Address) Hex() string {
	lower := hex.EncodeToString(a[:])
	sum := crypto.Keccak256([]byte(lower))

	out := []byte(lower)
	for i, c := range out {
		if c < 'a' || c > 'f' {
			continue
		}
		nibble := sum[i/2] >> 4
		if i%2 == 1 {
			nibble = sum[i/2] & 0x0f
		}
		if nibble >= 8 {
			out[i] = c - ('a' - 'A')
		}
	}
	return "0x" + string(out)
}

// String implements fmt.Stringer with the checksummed form.
func (a Address) String() string {
	return a.Hex()
}

// Equal compares raw bytes, so casing of any textual source is irrelevant.
func (a Address) Equal(other Address) bool {
	return bytes.Equal(a[:], other[:])
}

// IsZero reports whether the address is the zero address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalText renders the checksummed hex form.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

// UnmarshalText parses hex text in any casing.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
