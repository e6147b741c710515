package rlp_test

import (
	"bytes"
	"math/big"
	"testing"

	gethrlp "github.com/ethereum/go-ethereum/rlp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainforge/walletcore/rlp"
)

func TestEncodeBytes(t *testing.T) {
	cases := []struct {
		in   []byte
		want []byte
	}{
		{nil, []byte{0x80}},
		{[]byte{}, []byte{0x80}},
		{[]byte{0x00}, []byte{0x00}},
		{[]byte{0x7f}, []byte{0x7f}},
		{[]byte{0x80}, []byte{0x81, 0x80}},
		{[]byte("dog"), []byte{0x83, 'd', 'o', 'g'}},
		{bytes.Repeat([]byte{0xaa}, 55), append([]byte{0xb7}, bytes.Repeat([]byte{0xaa}, 55)...)},
		{bytes.Repeat([]byte{0xaa}, 56), append([]byte{0xb8, 56}, bytes.Repeat([]byte{0xaa}, 56)...)},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, rlp.EncodeBytes(tc.in), "input %x", tc.in)
	}
}

func TestEncodeUint64(t *testing.T) {
	cases := []struct {
		in   uint64
		want []byte
	}{
		{0, []byte{0x80}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x81, 0x80}},
		{1024, []byte{0x82, 0x04, 0x00}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, rlp.EncodeUint64(tc.in), "input %d", tc.in)
	}
}

func TestEncodeBigInt(t *testing.T) {
	got, err := rlp.EncodeBigInt(nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80}, got)

	got, err = rlp.EncodeBigInt(big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80}, got)

	got, err = rlp.EncodeBigInt(big.NewInt(1024))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x82, 0x04, 0x00}, got)

	_, err = rlp.EncodeBigInt(big.NewInt(-1))
	assert.Error(t, err)
}

func TestEncodeList(t *testing.T) {
	// [] -> 0xc0
	assert.Equal(t, []byte{0xc0}, rlp.EncodeList())

	// ["cat", "dog"]
	got := rlp.EncodeList(rlp.EncodeBytes([]byte("cat")), rlp.EncodeBytes([]byte("dog")))
	assert.Equal(t, []byte{0xc8, 0x83, 'c', 'a', 't', 0x83, 'd', 'o', 'g'}, got)
}

func TestMatchesReferenceEncoder(t *testing.T) {
	payloads := [][]byte{
		nil,
		{0x00},
		{0x7f},
		{0x80},
		[]byte("hello rlp"),
		bytes.Repeat([]byte{0x42}, 300),
	}
	for _, p := range payloads {
		want, err := gethrlp.EncodeToBytes(p)
		require.NoError(t, err)
		assert.Equal(t, want, rlp.EncodeBytes(p), "payload %x", p)
	}

	for _, u := range []uint64{0, 1, 255, 256, 1 << 40} {
		want, err := gethrlp.EncodeToBytes(u)
		require.NoError(t, err)
		assert.Equal(t, want, rlp.EncodeUint64(u), "value %d", u)
	}

	// Nested list: ["cat", ["dog"]]
	want, err := gethrlp.EncodeToBytes([]interface{}{"cat", []interface{}{"dog"}})
	require.NoError(t, err)
	got := rlp.EncodeList(
		rlp.EncodeBytes([]byte("cat")),
		rlp.EncodeList(rlp.EncodeBytes([]byte("dog"))),
	)
	assert.Equal(t, want, got)
}
