// Package signer provides secp256k1 recoverable signing and verification of
// free-standing messages and transaction hashes.
package signer

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/chainforge/walletcore/ethtypes"
	"github.com/chainforge/walletcore/hdwallet"
)

// legacyVOffset is the recovery byte offset used for free-standing message
// signatures; transaction signing uses the bare recovery id instead.
const legacyVOffset = 27

// Signer is the signing capability. A Signer instance is exclusively owned
// by its holder; implementations never log or otherwise expose key material.
type Signer interface {
	// Address returns the account this signer signs for.
	Address() ethtypes.Address

	// SignMessage hashes the message with keccak256 and returns a
	// recoverable signature with trailing byte recoveryID+27.
	SignMessage(message []byte) (ethtypes.Signature, error)

	// SignHash signs a 32-byte digest directly and returns a signature
	// with a bare 0/1 parity trailing byte, as EIP-1559 requires.
	SignHash(hash [32]byte) (ethtypes.Signature, error)

	// VerifyMessage reports whether the signature over the message recovers
	// to the claimed address.
	VerifyMessage(addr ethtypes.Address, message []byte, sig ethtypes.Signature) (bool, error)
}

// PrivateKeySigner signs with a locally held secp256k1 private key.
type PrivateKeySigner struct {
	priv *ecdsa.PrivateKey
	addr ethtypes.Address
}

var _ Signer = (*PrivateKeySigner)(nil)

// NewPrivateKeySigner builds a signer from a raw 32-byte private scalar. The
// caller keeps ownership of the input buffer and should zero it after use.
func NewPrivateKeySigner(key []byte) (*PrivateKeySigner, error) {
	priv, err := crypto.ToECDSA(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load private key")
	}

	addr, err := pubkeyAddress(&priv.PublicKey)
	if err != nil {
		return nil, err
	}

	return &PrivateKeySigner{priv: priv, addr: addr}, nil
}

// NewSignerFromExtendedKey builds a signer from a derived HD key. The
// intermediate scalar copy is wiped before returning.
func NewSignerFromExtendedKey(key *hdwallet.ExtendedKey) (*PrivateKeySigner, error) {
	raw := key.PrivateKeyBytes()
	defer zeroBytes(raw)
	return NewPrivateKeySigner(raw)
}

// Address returns the signer's account address.
func (s *PrivateKeySigner) Address() ethtypes.Address {
	return s.addr
}

// SignMessage implements Signer.
func (s *PrivateKeySigner) SignMessage(message []byte) (ethtypes.Signature, error) {
	hash := crypto.Keccak256(message)

	raw, err := crypto.Sign(hash, s.priv)
	if err != nil {
		return ethtypes.Signature{}, errors.Wrap(err, "failed to sign message")
	}

	sig, err := ethtypes.SignatureFromBytes(raw)
	if err != nil {
		return ethtypes.Signature{}, err
	}
	return sig.WithV(sig.V() + legacyVOffset), nil
}

// SignHash implements Signer.
func (s *PrivateKeySigner) SignHash(hash [32]byte) (ethtypes.Signature, error) {
	raw, err := crypto.Sign(hash[:], s.priv)
	if err != nil {
		return ethtypes.Signature{}, errors.Wrap(err, "failed to sign hash")
	}
	return ethtypes.SignatureFromBytes(raw)
}

// VerifyMessage implements Signer.
func (s *PrivateKeySigner) VerifyMessage(addr ethtypes.Address, message []byte, sig ethtypes.Signature) (bool, error) {
	return VerifyMessage(addr, message, sig)
}

// RecoverAddress recovers the signing address from a 32-byte digest and a
// recoverable signature with any of the accepted trailing-byte encodings.
func RecoverAddress(hash []byte, sig ethtypes.Signature) (ethtypes.Address, error) {
	recID, err := sig.RecoveryID()
	if err != nil {
		return ethtypes.Address{}, err
	}

	raw := sig.WithV(recID)
	pub, err := crypto.SigToPub(hash, raw[:])
	if err != nil {
		return ethtypes.Address{}, errors.Wrap(err, "failed to recover public key")
	}
	return pubkeyAddress(pub)
}

// VerifyMessage recomputes keccak256 of the message, recovers the signer and
// compares it, by raw bytes, to the claimed address.
func VerifyMessage(addr ethtypes.Address, message []byte, sig ethtypes.Signature) (bool, error) {
	recovered, err := RecoverAddress(crypto.Keccak256(message), sig)
	if err != nil {
		return false, err
	}
	return recovered.Equal(addr), nil
}

// pubkeyAddress is the last 20 bytes of keccak256 of the uncompressed public
// key with its format byte stripped.
func pubkeyAddress(pub *ecdsa.PublicKey) (ethtypes.Address, error) {
	raw := crypto.FromECDSAPub(pub)
	if len(raw) != 65 {
		return ethtypes.Address{}, errors.New("unexpected public key encoding")
	}
	return ethtypes.AddressFromBytes(crypto.Keccak256(raw[1:])[12:])
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
