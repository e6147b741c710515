package signer

import (
	"github.com/pkg/errors"

	"github.com/chainforge/walletcore/ethtypes"
)

// ErrSigningUnsupported is returned by NodeSigner for every cryptographic
// operation.
var ErrSigningUnsupported = errors.New("signer: signing not supported locally")

// NodeSigner stands in for an account on a local development network whose
// node signs server-side on the caller's behalf. It knows its address but
// performs no cryptography: every sign or verify call fails loudly so the
// stub can never fabricate a result outside its test-network context.
type NodeSigner struct {
	addr ethtypes.Address
}

var _ Signer = (*NodeSigner)(nil)

// NewNodeSigner builds a stub signer for the given node-managed account.
func NewNodeSigner(addr ethtypes.Address) *NodeSigner {
	return &NodeSigner{addr: addr}
}

// Address returns the node-managed account address.
func (s *NodeSigner) Address() ethtypes.Address {
	return s.addr
}

// SignMessage always fails; the node owns the key.
func (s *NodeSigner) SignMessage([]byte) (ethtypes.Signature, error) {
	return ethtypes.Signature{}, errors.Wrap(ErrSigningUnsupported, "message signing is delegated to the node")
}

// SignHash always fails; the node owns the key.
func (s *NodeSigner) SignHash([32]byte) (ethtypes.Signature, error) {
	return ethtypes.Signature{}, errors.Wrap(ErrSigningUnsupported, "transaction signing is delegated to the node")
}

// VerifyMessage always fails; the node owns the key.
func (s *NodeSigner) VerifyMessage(ethtypes.Address, []byte, ethtypes.Signature) (bool, error) {
	return false, errors.Wrap(ErrSigningUnsupported, "verification is delegated to the node")
}
