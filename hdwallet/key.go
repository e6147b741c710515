// Package hdwallet implements BIP32 hierarchical deterministic key derivation
// over secp256k1, restricted to the private-key branch an EVM wallet needs.
package hdwallet

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ripemd160"
)

// HardenedOffset is added to a child index to request hardened derivation.
const HardenedOffset uint32 = 0x80000000

// KeyLength is the byte length of a private scalar and of a chain code.
const KeyLength = 32

var (
	// ErrInvalidMasterKey is returned when HMAC-SHA512("Bitcoin seed", seed)
	// yields a zero or out-of-range scalar.
	ErrInvalidMasterKey = errors.New("hdwallet: master key scalar is zero or exceeds the curve order")

	// ErrInvalidChildKey is returned when a derived child scalar is zero or
	// exceeds the curve order. Derivation does not retry the next index;
	// callers needing the BIP32 auto-increment behavior must loop themselves.
	ErrInvalidChildKey = errors.New("hdwallet: child key scalar is zero or exceeds the curve order")
)

var masterHMACKey = []byte("Bitcoin seed")

// ExtendedKey is a BIP32 extended private key. The scalar is always non-zero
// and strictly below the secp256k1 group order. Children are constructed
// fresh from their parent's bytes; an ExtendedKey is never mutated.
type ExtendedKey struct {
	key        [KeyLength]byte
	chainCode  [KeyLength]byte
	depth      uint8
	parentFP   [4]byte
	childIndex uint32
}

func curveOrder() *big.Int {
	return crypto.S256().Params().N
}

func validScalar(k *big.Int) bool {
	return k.Sign() != 0 && k.Cmp(curveOrder()) < 0
}

// NewMasterKey derives the BIP32 master key from a seed:
// HMAC-SHA512 keyed "Bitcoin seed", left half scalar, right half chain code.
func NewMasterKey(seed []byte) (*ExtendedKey, error) {
	mac := hmac.New(sha512.New, masterHMACKey)
	mac.Write(seed)
	sum := mac.Sum(nil)
	defer zeroBytes(sum)

	scalar := new(big.Int).SetBytes(sum[:KeyLength])
	defer scalar.SetInt64(0)
	if !validScalar(scalar) {
		return nil, ErrInvalidMasterKey
	}

	key := &ExtendedKey{}
	copy(key.key[:], sum[:KeyLength])
	copy(key.chainCode[:], sum[KeyLength:])
	return key, nil
}

// Child derives the child key at the given raw index (indices at or above
// HardenedOffset are hardened). It fails with ErrInvalidChildKey on the
// statistically negligible invalid-scalar case instead of retrying.
func (k *ExtendedKey) Child(index uint32) (*ExtendedKey, error) {
	var data []byte
	if index >= HardenedOffset {
		data = make([]byte, 0, 1+KeyLength+4)
		data = append(data, 0x00)
		data = append(data, k.key[:]...)
	} else {
		pub, err := k.compressedPublicKey()
		if err != nil {
			return nil, err
		}
		data = append(data, pub...)
	}
	data = binary.BigEndian.AppendUint32(data, index)
	defer zeroBytes(data)

	mac := hmac.New(sha512.New, k.chainCode[:])
	mac.Write(data)
	sum := mac.Sum(nil)
	defer zeroBytes(sum)

	left := new(big.Int).SetBytes(sum[:KeyLength])
	defer left.SetInt64(0)
	if left.Cmp(curveOrder()) >= 0 {
		return nil, ErrInvalidChildKey
	}

	parent := new(big.Int).SetBytes(k.key[:])
	defer parent.SetInt64(0)

	scalar := left.Add(left, parent)
	scalar.Mod(scalar, curveOrder())
	if scalar.Sign() == 0 {
		return nil, ErrInvalidChildKey
	}

	fp, err := k.fingerprint()
	if err != nil {
		return nil, err
	}

	child := &ExtendedKey{
		depth:      k.depth + 1,
		parentFP:   fp,
		childIndex: index,
	}
	scalar.FillBytes(child.key[:])
	copy(child.chainCode[:], sum[KeyLength:])
	return child, nil
}

// PrivateKeyBytes returns a copy of the 32-byte private scalar. The caller
// owns the copy and should zero it when done.
func (k *ExtendedKey) PrivateKeyBytes() []byte {
	out := make([]byte, KeyLength)
	copy(out, k.key[:])
	return out
}

// ChainCode returns a copy of the 32-byte chain code.
func (k *ExtendedKey) ChainCode() []byte {
	out := make([]byte, KeyLength)
	copy(out, k.chainCode[:])
	return out
}

// PublicKeyBytes returns the 33-byte compressed secp256k1 public key.
func (k *ExtendedKey) PublicKeyBytes() ([]byte, error) {
	return k.compressedPublicKey()
}

// Depth returns the key's depth below the master key.
func (k *ExtendedKey) Depth() uint8 { return k.depth }

// ChildIndex returns the raw index this key was derived at.
func (k *ExtendedKey) ChildIndex() uint32 { return k.childIndex }

// ParentFingerprint returns the first four bytes of HASH160 of the parent's
// compressed public key. Bookkeeping metadata only.
func (k *ExtendedKey) ParentFingerprint() [4]byte { return k.parentFP }

// Zero wipes the key material in place. The key must not be used afterwards.
func (k *ExtendedKey) Zero() {
	zeroBytes(k.key[:])
	zeroBytes(k.chainCode[:])
}

func (k *ExtendedKey) compressedPublicKey() ([]byte, error) {
	priv, err := crypto.ToECDSA(k.key[:])
	if err != nil {
		return nil, errors.Wrap(err, "failed to load private scalar")
	}
	return crypto.CompressPubkey(&priv.PublicKey), nil
}

// fingerprint is HASH160 (RIPEMD160 of SHA-256) of the compressed public
// key, truncated to four bytes.
func (k *ExtendedKey) fingerprint() ([4]byte, error) {
	var fp [4]byte

	pub, err := k.compressedPublicKey()
	if err != nil {
		return fp, err
	}

	sha := sha256.Sum256(pub)
	ripe := ripemd160.New()
	ripe.Write(sha[:])
	copy(fp[:], ripe.Sum(nil))
	return fp, nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
