package txbuilder_test

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainforge/walletcore/ethtypes"
	"github.com/chainforge/walletcore/signer"
	"github.com/chainforge/walletcore/txbuilder"
)

const testKeyHex = "e8fb0023174bbe9504cc74942231d4ec53f2a0b71a3f97bbe5be91968e8e3e44"

func testSigner(t *testing.T) *signer.PrivateKeySigner {
	t.Helper()
	key, err := hex.DecodeString(testKeyHex)
	require.NoError(t, err)
	s, err := signer.NewPrivateKeySigner(key)
	require.NoError(t, err)
	return s
}

func sampleTx(t *testing.T) *txbuilder.Transaction {
	t.Helper()
	to, err := ethtypes.ParseAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	require.NoError(t, err)

	return &txbuilder.Transaction{
		ChainID:              big.NewInt(1),
		Nonce:                7,
		MaxPriorityFeePerGas: big.NewInt(2_000_000_000),
		MaxFeePerGas:         big.NewInt(30_000_000_000),
		GasLimit:             21_000,
		To:                   &to,
		Value:                big.NewInt(1_000_000_000_000_000_000),
		Data:                 nil,
		AccessList:           nil,
	}
}

func TestUnsignedBytesTypePrefix(t *testing.T) {
	tx := sampleTx(t)

	unsigned, err := tx.UnsignedBytes()
	require.NoError(t, err)
	assert.Equal(t, txbuilder.TxType, unsigned[0])

	hash, err := tx.SigningHash()
	require.NoError(t, err)
	assert.Equal(t, crypto.Keccak256(unsigned), hash[:])
}

func TestMissingChainID(t *testing.T) {
	tx := sampleTx(t)
	tx.ChainID = nil

	_, err := tx.UnsignedBytes()
	assert.ErrorIs(t, err, txbuilder.ErrMissingChainID)
}

func TestSignedBytesMatchReferenceEncoder(t *testing.T) {
	s := testSigner(t)

	cases := map[string]*txbuilder.Transaction{
		"transfer": sampleTx(t),
		"contract creation": {
			ChainID:              big.NewInt(31337),
			Nonce:                0,
			MaxPriorityFeePerGas: big.NewInt(1),
			MaxFeePerGas:         big.NewInt(2),
			GasLimit:             3_000_000,
			To:                   nil,
			Value:                big.NewInt(0),
			Data:                 []byte{0x60, 0x80, 0x60, 0x40},
		},
	}

	withAccess := sampleTx(t)
	withAccess.AccessList = txbuilder.AccessList{{
		Address:     *withAccess.To,
		StorageKeys: [][32]byte{{0x01}, {0x02}},
	}}
	cases["access list"] = withAccess

	for name, tx := range cases {
		signed, err := tx.Sign(s)
		require.NoError(t, err, name)

		ref := gethtypes.NewTx(refDynamicFeeTx(tx))
		hash, err := tx.SigningHash()
		require.NoError(t, err, name)

		sig, err := s.SignHash(hash)
		require.NoError(t, err, name)

		refSigned, err := ref.WithSignature(gethtypes.NewLondonSigner(tx.ChainID), sig.Bytes())
		require.NoError(t, err, name)

		want, err := refSigned.MarshalBinary()
		require.NoError(t, err, name)
		assert.Equal(t, want, signed, name)
	}
}

func refDynamicFeeTx(tx *txbuilder.Transaction) *gethtypes.DynamicFeeTx {
	ref := &gethtypes.DynamicFeeTx{
		ChainID:   tx.ChainID,
		Nonce:     tx.Nonce,
		GasTipCap: tx.MaxPriorityFeePerGas,
		GasFeeCap: tx.MaxFeePerGas,
		Gas:       tx.GasLimit,
		Value:     tx.Value,
		Data:      tx.Data,
	}
	if tx.To != nil {
		to := common.BytesToAddress(tx.To.Bytes())
		ref.To = &to
	}
	for _, tuple := range tx.AccessList {
		keys := make([]common.Hash, len(tuple.StorageKeys))
		for i, key := range tuple.StorageKeys {
			keys[i] = common.BytesToHash(key[:])
		}
		ref.AccessList = append(ref.AccessList, gethtypes.AccessTuple{
			Address:     common.BytesToAddress(tuple.Address.Bytes()),
			StorageKeys: keys,
		})
	}
	return ref
}

func TestSenderRecovery(t *testing.T) {
	s := testSigner(t)
	tx := sampleTx(t)

	hash, err := tx.SigningHash()
	require.NoError(t, err)
	sig, err := s.SignHash(hash)
	require.NoError(t, err)

	// Parity is bare 0/1 for transactions, not the +27 message convention.
	assert.Contains(t, []byte{0, 1}, sig.V())

	sender, err := tx.Sender(sig)
	require.NoError(t, err)
	assert.True(t, sender.Equal(s.Address()))
}

func TestNodeSignerCannotSignTransactions(t *testing.T) {
	addr, err := ethtypes.ParseAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	require.NoError(t, err)

	tx := sampleTx(t)
	_, err = tx.Sign(signer.NewNodeSigner(addr))
	assert.ErrorIs(t, err, signer.ErrSigningUnsupported)
}
