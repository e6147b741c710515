package ethtypes_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainforge/walletcore/ethtypes"
)

func TestSignatureFromBytes(t *testing.T) {
	raw := make([]byte, ethtypes.SignatureLength)
	raw[0] = 0x01
	raw[32] = 0x02
	raw[64] = 27

	sig, err := ethtypes.SignatureFromBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), sig.R())
	assert.Equal(t, big.NewInt(2), sig.S())
	assert.Equal(t, byte(27), sig.V())

	_, err = ethtypes.SignatureFromBytes(raw[:64])
	assert.ErrorIs(t, err, ethtypes.ErrInvalidSignature)
}

func TestRecoveryIDNormalization(t *testing.T) {
	cases := map[byte]byte{
		0: 0, 1: 1,
		27: 0, 28: 1,
		31: 0, 32: 1,
		35: 0, 36: 1,
	}
	var sig ethtypes.Signature
	for v, want := range cases {
		got, err := sig.WithV(v).RecoveryID()
		require.NoError(t, err, "v=%d", v)
		assert.Equal(t, want, got, "v=%d", v)
	}

	for _, v := range []byte{2, 26, 29, 34, 37, 255} {
		_, err := sig.WithV(v).RecoveryID()
		assert.ErrorIs(t, err, ethtypes.ErrInvalidSignature, "v=%d", v)
	}
}

func TestSignatureJSONRoundTrip(t *testing.T) {
	raw := make([]byte, ethtypes.SignatureLength)
	for i := range raw {
		raw[i] = byte(i)
	}
	sig, err := ethtypes.SignatureFromBytes(raw)
	require.NoError(t, err)

	data, err := json.Marshal(sig)
	require.NoError(t, err)

	var back ethtypes.Signature
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, sig, back)
}
