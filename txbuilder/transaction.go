// Package txbuilder assembles EIP-1559 (type-2) transactions: the unsigned
// payload, its signing hash, and the signed RLP serialization ready for
// broadcast. Nonce, gas and fee values arrive already resolved; the builder
// performs no network access and no fee estimation.
package txbuilder

import (
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/chainforge/walletcore/ethtypes"
	"github.com/chainforge/walletcore/rlp"
	"github.com/chainforge/walletcore/signer"
)

// TxType is the EIP-2718 type byte for dynamic-fee transactions.
const TxType byte = 0x02

// ErrMissingChainID is returned when a transaction has no chain id set.
var ErrMissingChainID = errors.New("txbuilder: transaction has no chain id")

// AccessTuple is one access-list entry.
type AccessTuple struct {
	Address     ethtypes.Address
	StorageKeys [][32]byte
}

// AccessList is an EIP-2930 access list, possibly empty.
type AccessList []AccessTuple

// Transaction is an EIP-1559 transaction under construction. It is built
// fresh per call and never mutated after signing.
type Transaction struct {
	ChainID              *big.Int
	Nonce                uint64
	MaxPriorityFeePerGas *big.Int
	MaxFeePerGas         *big.Int
	GasLimit             uint64
	To                   *ethtypes.Address // nil for contract creation
	Value                *big.Int
	Data                 []byte
	AccessList           AccessList
}

// payloadFields RLP-encodes the nine unsigned fields in wire order.
func (tx *Transaction) payloadFields() ([][]byte, error) {
	if tx.ChainID == nil {
		return nil, ErrMissingChainID
	}

	chainID, err := rlp.EncodeBigInt(tx.ChainID)
	if err != nil {
		return nil, errors.Wrap(err, "chainId")
	}
	tip, err := rlp.EncodeBigInt(tx.MaxPriorityFeePerGas)
	if err != nil {
		return nil, errors.Wrap(err, "maxPriorityFeePerGas")
	}
	feeCap, err := rlp.EncodeBigInt(tx.MaxFeePerGas)
	if err != nil {
		return nil, errors.Wrap(err, "maxFeePerGas")
	}
	value, err := rlp.EncodeBigInt(tx.Value)
	if err != nil {
		return nil, errors.Wrap(err, "value")
	}

	to := rlp.EncodeBytes(nil)
	if tx.To != nil {
		to = rlp.EncodeBytes(tx.To.Bytes())
	}

	return [][]byte{
		chainID,
		rlp.EncodeUint64(tx.Nonce),
		tip,
		feeCap,
		rlp.EncodeUint64(tx.GasLimit),
		to,
		value,
		rlp.EncodeBytes(tx.Data),
		tx.AccessList.encode(),
	}, nil
}

func (al AccessList) encode() []byte {
	tuples := make([][]byte, len(al))
	for i, tuple := range al {
		keys := make([][]byte, len(tuple.StorageKeys))
		for j, key := range tuple.StorageKeys {
			keys[j] = rlp.EncodeBytes(key[:])
		}
		tuples[i] = rlp.EncodeList(
			rlp.EncodeBytes(tuple.Address.Bytes()),
			rlp.EncodeList(keys...),
		)
	}
	return rlp.EncodeList(tuples...)
}

// UnsignedBytes serializes the transaction for signing: the 0x02 type byte
// followed by the RLP list of the nine unsigned fields.
func (tx *Transaction) UnsignedBytes() ([]byte, error) {
	fields, err := tx.payloadFields()
	if err != nil {
		return nil, err
	}
	return append([]byte{TxType}, rlp.EncodeList(fields...)...), nil
}

// SigningHash is keccak256 of the unsigned serialization.
func (tx *Transaction) SigningHash() ([32]byte, error) {
	var hash [32]byte
	unsigned, err := tx.UnsignedBytes()
	if err != nil {
		return hash, err
	}
	copy(hash[:], crypto.Keccak256(unsigned))
	return hash, nil
}

// SignedBytes serializes the transaction with its signature appended as
// (yParity, r, s): the 0x02 type byte followed by the twelve-element RLP
// list. The signature's trailing byte is normalized to bare 0/1 parity.
func (tx *Transaction) SignedBytes(sig ethtypes.Signature) ([]byte, error) {
	fields, err := tx.payloadFields()
	if err != nil {
		return nil, err
	}

	parity, err := sig.RecoveryID()
	if err != nil {
		return nil, err
	}
	r, err := rlp.EncodeBigInt(sig.R())
	if err != nil {
		return nil, errors.Wrap(err, "signature r")
	}
	s, err := rlp.EncodeBigInt(sig.S())
	if err != nil {
		return nil, errors.Wrap(err, "signature s")
	}

	fields = append(fields, rlp.EncodeUint64(uint64(parity)), r, s)
	return append([]byte{TxType}, rlp.EncodeList(fields...)...), nil
}

// Sign computes the signing hash, signs it with the given signer and
// returns the signed serialization.
func (tx *Transaction) Sign(s signer.Signer) ([]byte, error) {
	hash, err := tx.SigningHash()
	if err != nil {
		return nil, err
	}

	sig, err := s.SignHash(hash)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction hash")
	}
	return tx.SignedBytes(sig)
}

// Sender recovers the signing address from a signature over this
// transaction's signing hash.
func (tx *Transaction) Sender(sig ethtypes.Signature) (ethtypes.Address, error) {
	hash, err := tx.SigningHash()
	if err != nil {
		return ethtypes.Address{}, err
	}
	return signer.RecoverAddress(hash[:], sig)
}
