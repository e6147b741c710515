// Package rlp implements the encoding side of Recursive Length Prefix, the
// canonical Ethereum serialization for byte strings and lists. The wallet
// core only produces RLP (transaction payloads); it never parses it.
package rlp

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"
)

const (
	shortStringOffset = 0x80
	shortListOffset   = 0xc0
	shortLengthMax    = 55
)

// EncodeBytes encodes a byte string. A single byte below 0x80 encodes as
// itself; everything else gets a length prefix.
func EncodeBytes(b []byte) []byte {
	if len(b) == 1 && b[0] < shortStringOffset {
		return []byte{b[0]}
	}
	return append(encodeLength(len(b), shortStringOffset), b...)
}

// EncodeUint64 encodes an unsigned integer as its minimal big-endian byte
// string; zero encodes as the empty string.
func EncodeUint64(u uint64) []byte {
	if u == 0 {
		return EncodeBytes(nil)
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], u)
	i := 0
	for buf[i] == 0 {
		i++
	}
	return EncodeBytes(buf[i:])
}

// EncodeBigInt encodes a non-negative big integer as its minimal big-endian
// byte string; nil and zero encode as the empty string.
func EncodeBigInt(x *big.Int) ([]byte, error) {
	if x == nil || x.Sign() == 0 {
		return EncodeBytes(nil), nil
	}
	if x.Sign() < 0 {
		return nil, errors.Errorf("rlp: cannot encode negative integer %s", x)
	}
	return EncodeBytes(x.Bytes()), nil
}

// EncodeList concatenates already-encoded items and prefixes the list header.
func EncodeList(items ...[]byte) []byte {
	payloadLen := 0
	for _, item := range items {
		payloadLen += len(item)
	}

	out := encodeLength(payloadLen, shortListOffset)
	for _, item := range items {
		out = append(out, item...)
	}
	return out
}

func encodeLength(length int, offset byte) []byte {
	if length <= shortLengthMax {
		return []byte{offset + byte(length)}
	}

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(length))
	i := 0
	for buf[i] == 0 {
		i++
	}
	lenBytes := buf[i:]
	return append([]byte{offset + shortLengthMax + byte(len(lenBytes))}, lenBytes...)
}
