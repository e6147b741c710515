// Package mnemonic implements BIP39 mnemonic phrases: generation from secure
// random entropy, parsing with checksum validation, and seed derivation.
package mnemonic

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"

	"github.com/chainforge/walletcore/wordlist"
)

const (
	// wordBits is the number of entropy+checksum bits each word encodes.
	wordBits = 11

	// SeedLength is the byte length of the seed produced by Seed.
	SeedLength = 64

	seedIterations = 2048
	seedSaltPrefix = "mnemonic"
)

var (
	// ErrInvalidWordCount is returned for word counts outside {12,15,18,21,24}.
	ErrInvalidWordCount = errors.New("mnemonic: word count must be 12, 15, 18, 21 or 24")

	// ErrChecksumMismatch is returned when the phrase's embedded checksum does
	// not match SHA-256 of its entropy.
	ErrChecksumMismatch = errors.New("mnemonic: checksum mismatch")
)

// UnknownWordError reports a word that does not appear in the wordlist.
type UnknownWordError struct {
	Word     string
	Position int
}

func (e *UnknownWordError) Error() string {
	return fmt.Sprintf("mnemonic: unknown word %q at position %d", e.Word, e.Position)
}

// Mnemonic is an immutable BIP39 phrase together with the wordlist it was
// validated against.
type Mnemonic struct {
	words []string
	list  *wordlist.List
}

func validWordCount(count int) bool {
	switch count {
	case 12, 15, 18, 21, 24:
		return true
	}
	return false
}

// Generate draws fresh cryptographically secure entropy and encodes it as a
// phrase of wordCount words from the given wordlist.
func Generate(wordCount int, list *wordlist.List) (*Mnemonic, error) {
	if !validWordCount(wordCount) {
		return nil, ErrInvalidWordCount
	}

	entropy := make([]byte, wordCount/3*4)
	if _, err := rand.Read(entropy); err != nil {
		return nil, errors.Wrap(err, "failed to read entropy")
	}
	defer zeroBytes(entropy)

	return fromEntropy(entropy, list)
}

// FromEntropy encodes caller-supplied entropy (16, 20, 24, 28 or 32 bytes) as
// a mnemonic phrase.
func FromEntropy(entropy []byte, list *wordlist.List) (*Mnemonic, error) {
	switch len(entropy) {
	case 16, 20, 24, 28, 32:
	default:
		return nil, errors.Errorf("mnemonic: entropy must be 16-32 bytes in 4-byte steps, got %d", len(entropy))
	}
	return fromEntropy(entropy, list)
}

func fromEntropy(entropy []byte, list *wordlist.List) (*Mnemonic, error) {
	entropyBits := len(entropy) * 8
	checksumBits := entropyBits / 32
	totalBits := entropyBits + checksumBits

	sum := sha256.Sum256(entropy)

	// entropy ‖ leading checksum bits, packed most-significant-bit first.
	buf := make([]byte, (totalBits+7)/8)
	copy(buf, entropy)
	copy(buf[len(entropy):], sum[:len(buf)-len(entropy)])
	defer zeroBytes(buf)

	words := make([]string, totalBits/wordBits)
	for i := range words {
		idx := readBits(buf, i*wordBits, wordBits)
		word, ok := list.Word(idx)
		if !ok {
			return nil, errors.Errorf("mnemonic: word index %d out of range", idx)
		}
		words[i] = word
	}

	return &Mnemonic{words: words, list: list}, nil
}

// Parse validates a phrase against the wordlist. With validateChecksum set it
// also recomputes and compares the embedded SHA-256 checksum; callers
// recovering externally generated phrases that are valid word sequences but
// carry no conformant checksum may pass false to bypass that check.
func Parse(phrase string, list *wordlist.List, validateChecksum bool) (*Mnemonic, error) {
	words := strings.Fields(phrase)
	if !validWordCount(len(words)) {
		return nil, ErrInvalidWordCount
	}

	totalBits := len(words) * wordBits
	checksumBits := len(words) / 3
	entropyBits := totalBits - checksumBits

	buf := make([]byte, (totalBits+7)/8)
	defer zeroBytes(buf)
	for i, word := range words {
		idx, ok := list.Index(word)
		if !ok {
			return nil, &UnknownWordError{Word: word, Position: i}
		}
		writeBits(buf, i*wordBits, wordBits, idx)
	}

	if validateChecksum {
		entropy := make([]byte, entropyBits/8)
		copy(entropy, buf[:len(entropy)])
		sum := sha256.Sum256(entropy)
		zeroBytes(entropy)

		for i := 0; i < checksumBits; i++ {
			if bitAt(buf, entropyBits+i) != bitAt(sum[:], i) {
				return nil, ErrChecksumMismatch
			}
		}
	}

	return &Mnemonic{words: words, list: list}, nil
}

// Words returns a copy of the phrase's words in order.
func (m *Mnemonic) Words() []string {
	return append([]string(nil), m.words...)
}

// WordCount returns the number of words in the phrase.
func (m *Mnemonic) WordCount() int {
	return len(m.words)
}

// Phrase returns the space-joined phrase.
func (m *Mnemonic) Phrase() string {
	return strings.Join(m.words, " ")
}

// Wordlist returns the wordlist the phrase was validated against.
func (m *Mnemonic) Wordlist() *wordlist.List {
	return m.list
}

// Seed derives the 64-byte BIP39 seed: PBKDF2-HMAC-SHA512 over the phrase
// with salt "mnemonic"+passphrase and 2048 iterations.
func (m *Mnemonic) Seed(passphrase string) []byte {
	return pbkdf2.Key(
		[]byte(m.Phrase()),
		[]byte(seedSaltPrefix+passphrase),
		seedIterations,
		SeedLength,
		sha512.New,
	)
}

func bitAt(buf []byte, bit int) byte {
	if buf[bit/8]&(0x80>>uint(bit%8)) != 0 {
		return 1
	}
	return 0
}

func readBits(buf []byte, bit, count int) int {
	v := 0
	for i := 0; i < count; i++ {
		v = v<<1 | int(bitAt(buf, bit+i))
	}
	return v
}

func writeBits(buf []byte, bit, count, value int) {
	for i := 0; i < count; i++ {
		if value&(1<<uint(count-1-i)) != 0 {
			buf[(bit+i)/8] |= 0x80 >> uint((bit+i)%8)
		}
	}
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
