// Package keystore encrypts and decrypts private keys in the Ethereum
// keystore v3 JSON format (scrypt KDF, AES-128-CTR, keccak-256 MAC). It is
// a pure bytes-to-JSON transformation; storing the result is the caller's
// concern.
package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"

	"github.com/chainforge/walletcore/ethtypes"
	"github.com/chainforge/walletcore/signer"
)

// Version is the keystore format version this package produces.
const Version = 3

// ErrMACMismatch is returned when the password does not reproduce the MAC.
var ErrMACMismatch = errors.New("keystore: MAC mismatch, wrong password or corrupted keystore")

// ErrInvalidParams is returned for KDF or cipher parameters the format does
// not allow.
var ErrInvalidParams = errors.New("keystore: invalid parameters")

// EncryptedKey is the Ethereum keystore v3 JSON document.
type EncryptedKey struct {
	Address string     `json:"address"`
	Version int        `json:"version"`
	ID      string     `json:"id"`
	Crypto  cryptoJSON `json:"crypto"`
}

type cryptoJSON struct {
	Ciphertext   string `json:"ciphertext"`
	CipherParams struct {
		IV string `json:"iv"`
	} `json:"cipherparams"`
	Cipher    string          `json:"cipher"`
	KDF       string          `json:"kdf"`
	KDFParams scryptParamJSON `json:"kdfparams"`
	MAC       string          `json:"mac"`
}

type scryptParamJSON struct {
	DKLen int    `json:"dklen"`
	Salt  string `json:"salt"`
	N     int    `json:"n"`
	R     int    `json:"r"`
	P     int    `json:"p"`
}

// ScryptParams defines the scrypt KDF cost parameters.
type ScryptParams struct {
	DKLen int
	N     int
	R     int
	P     int
}

// DefaultScryptParams returns the standard keystore v3 parameters.
func DefaultScryptParams() ScryptParams {
	return ScryptParams{
		DKLen: 32,
		N:     262144,
		R:     8,
		P:     1,
	}
}

// LightScryptParams returns fast parameters suitable for tests only.
func LightScryptParams() ScryptParams {
	return ScryptParams{
		DKLen: 32,
		N:     4096,
		R:     8,
		P:     1,
	}
}

// maxScryptN caps the CPU/memory cost factor so a hostile document cannot
// request an absurd allocation.
const maxScryptN = 1 << 28

// validate rejects parameter sets the derived-key split cannot work with or
// that scrypt itself would choke on.
func (p ScryptParams) validate() error {
	if p.DKLen < 32 {
		return errors.Wrapf(ErrInvalidParams, "dklen %d is below the 32 bytes the cipher and MAC keys need", p.DKLen)
	}
	if p.N <= 1 || p.N > maxScryptN || p.N&(p.N-1) != 0 {
		return errors.Wrapf(ErrInvalidParams, "n %d is not a power of two in (1, 2^28]", p.N)
	}
	if p.R <= 0 || p.P <= 0 {
		return errors.Wrapf(ErrInvalidParams, "r %d and p %d must be positive", p.R, p.P)
	}
	return nil
}

// Encrypt seals a 32-byte private key under the password.
func Encrypt(privateKey []byte, password string, params ScryptParams) (*EncryptedKey, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	keySigner, err := signer.NewPrivateKeySigner(privateKey)
	if err != nil {
		return nil, err
	}
	address := keySigner.Address()

	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "failed to generate salt")
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, errors.Wrap(err, "failed to generate IV")
	}

	derivedKey, err := scrypt.Key([]byte(password), salt, params.N, params.R, params.P, params.DKLen)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}
	defer zeroBytes(derivedKey)

	ciphertext, err := applyAES128CTR(derivedKey[:16], iv, privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encrypt private key")
	}

	mac := calculateMAC(derivedKey[16:32], ciphertext)

	encrypted := &EncryptedKey{
		Address: strings.ToLower(strings.TrimPrefix(address.Hex(), "0x")),
		Version: Version,
		ID:      uuid.New().String(),
	}
	encrypted.Crypto.Ciphertext = hex.EncodeToString(ciphertext)
	encrypted.Crypto.CipherParams.IV = hex.EncodeToString(iv)
	encrypted.Crypto.Cipher = "aes-128-ctr"
	encrypted.Crypto.KDF = "scrypt"
	encrypted.Crypto.KDFParams = scryptParamJSON{
		DKLen: params.DKLen,
		Salt:  hex.EncodeToString(salt),
		N:     params.N,
		R:     params.R,
		P:     params.P,
	}
	encrypted.Crypto.MAC = hex.EncodeToString(mac)

	return encrypted, nil
}

// Decrypt opens a keystore document with the password and returns the
// 32-byte private key. The caller owns the buffer and should zero it.
func Decrypt(encrypted *EncryptedKey, password string) ([]byte, error) {
	if encrypted.Version != Version {
		return nil, errors.Errorf("keystore: unsupported version %d", encrypted.Version)
	}
	if encrypted.Crypto.Cipher != "aes-128-ctr" {
		return nil, errors.Errorf("keystore: unsupported cipher %q", encrypted.Crypto.Cipher)
	}
	if encrypted.Crypto.KDF != "scrypt" {
		return nil, errors.Errorf("keystore: unsupported KDF %q", encrypted.Crypto.KDF)
	}

	kdf := encrypted.Crypto.KDFParams
	params := ScryptParams{DKLen: kdf.DKLen, N: kdf.N, R: kdf.R, P: kdf.P}
	if err := params.validate(); err != nil {
		return nil, err
	}

	salt, err := hex.DecodeString(kdf.Salt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode salt")
	}
	if len(salt) == 0 {
		return nil, errors.Wrap(ErrInvalidParams, "empty salt")
	}
	iv, err := hex.DecodeString(encrypted.Crypto.CipherParams.IV)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode IV")
	}
	if len(iv) != aes.BlockSize {
		return nil, errors.Wrapf(ErrInvalidParams, "IV is %d bytes, want %d", len(iv), aes.BlockSize)
	}
	ciphertext, err := hex.DecodeString(encrypted.Crypto.Ciphertext)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode ciphertext")
	}
	expectedMAC, err := hex.DecodeString(encrypted.Crypto.MAC)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode MAC")
	}

	derivedKey, err := scrypt.Key([]byte(password), salt, kdf.N, kdf.R, kdf.P, kdf.DKLen)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}
	defer zeroBytes(derivedKey)

	mac := calculateMAC(derivedKey[16:32], ciphertext)
	if subtle.ConstantTimeCompare(mac, expectedMAC) != 1 {
		return nil, ErrMACMismatch
	}

	return applyAES128CTR(derivedKey[:16], iv, ciphertext)
}

// Marshal renders the document as JSON.
func (k *EncryptedKey) Marshal() ([]byte, error) {
	data, err := json.Marshal(k)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal keystore")
	}
	return data, nil
}

// Unmarshal parses a keystore v3 JSON document.
func Unmarshal(data []byte) (*EncryptedKey, error) {
	var encrypted EncryptedKey
	if err := json.Unmarshal(data, &encrypted); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal keystore")
	}
	return &encrypted, nil
}

// AddressOf parses the document's address field.
func (k *EncryptedKey) AddressOf() (ethtypes.Address, error) {
	return ethtypes.ParseAddress(k.Address)
}

// applyAES128CTR runs the CTR keystream over the input; encryption and
// decryption are the same operation.
func applyAES128CTR(key, iv, input []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cipher")
	}

	out := make([]byte, len(input))
	cipher.NewCTR(block, iv).XORKeyStream(out, input)
	return out, nil
}

// calculateMAC is keccak256 of derivedKey[16:32] followed by the ciphertext.
func calculateMAC(macKey, ciphertext []byte) []byte {
	return crypto.Keccak256(macKey, ciphertext)
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
