package hdwallet_test

import (
	"encoding/hex"
	"testing"

	bip32 "github.com/tyler-smith/go-bip32"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainforge/walletcore/hdwallet"
	"github.com/chainforge/walletcore/mnemonic"
	"github.com/chainforge/walletcore/wordlist"
)

// Seed of the mnemonic "extra female protect salad balance soccer match
// private remain verify camera scissors" with an empty passphrase.
const recoverySeedHex = "749d220ea24d1af569fe785278f532ee2aec963333a8906c47e79ceeeabb5d02" +
	"f6877dc107714d1f6c06d8f8f7e563487843b62448c664c610a3177880b0a353"

func recoverySeed(t *testing.T) []byte {
	t.Helper()
	seed, err := hex.DecodeString(recoverySeedHex)
	require.NoError(t, err)
	return seed
}

func TestDeriveKnownVector(t *testing.T) {
	m, err := mnemonic.Parse(
		"extra female protect salad balance soccer match private remain verify camera scissors",
		wordlist.English(), false)
	require.NoError(t, err)

	seed := m.Seed("")
	assert.Equal(t, recoverySeedHex, hex.EncodeToString(seed))

	key, err := hdwallet.Derive(seed, "m/44'/60'/0'/0/0")
	require.NoError(t, err)

	assert.Equal(t,
		"e8fb0023174bbe9504cc74942231d4ec53f2a0b71a3f97bbe5be91968e8e3e44",
		hex.EncodeToString(key.PrivateKeyBytes()))
	assert.Equal(t, uint8(5), key.Depth())
	assert.Equal(t, uint32(0), key.ChildIndex())
}

func TestDeriveMatchesReferenceImplementation(t *testing.T) {
	seed := recoverySeed(t)

	refKey, err := bip32.NewMasterKey(seed)
	require.NoError(t, err)

	key, err := hdwallet.NewMasterKey(seed)
	require.NoError(t, err)
	assert.Equal(t, refKey.Key, key.PrivateKeyBytes())
	assert.Equal(t, refKey.ChainCode, key.ChainCode())

	for _, index := range []uint32{
		bip32.FirstHardenedChild + 44,
		bip32.FirstHardenedChild + 60,
		bip32.FirstHardenedChild,
		0,
		7,
	} {
		refKey, err = refKey.NewChildKey(index)
		require.NoError(t, err)

		key, err = key.Child(index)
		require.NoError(t, err)

		assert.Equal(t, refKey.Key, key.PrivateKeyBytes())
		assert.Equal(t, refKey.ChainCode, key.ChainCode())
		fp := key.ParentFingerprint()
		assert.Equal(t, refKey.FingerPrint, fp[:])
	}
}

func TestDeriveDeterminism(t *testing.T) {
	seed := recoverySeed(t)

	a, err := hdwallet.Derive(seed, "m/44'/60'/0'/0/0")
	require.NoError(t, err)
	b, err := hdwallet.Derive(seed, "m/44'/60'/0'/0/0")
	require.NoError(t, err)
	assert.Equal(t, a.PrivateKeyBytes(), b.PrivateKeyBytes())

	c, err := hdwallet.Derive(seed, "m/44'/60'/0'/0/1")
	require.NoError(t, err)
	assert.NotEqual(t, a.PrivateKeyBytes(), c.PrivateKeyBytes())
}

func TestHardenedSuffixForms(t *testing.T) {
	seed := recoverySeed(t)

	a, err := hdwallet.Derive(seed, "m/44'/60'/0'/0/0")
	require.NoError(t, err)
	b, err := hdwallet.Derive(seed, "m/44h/60h/0h/0/0")
	require.NoError(t, err)
	assert.Equal(t, a.PrivateKeyBytes(), b.PrivateKeyBytes())
}

func TestParsePath(t *testing.T) {
	path, err := hdwallet.ParsePath("m/44'/60'/0'/0/0")
	require.NoError(t, err)
	require.Len(t, path, 5)
	assert.Equal(t, hdwallet.PathComponent{Index: 44, Hardened: true}, path[0])
	assert.Equal(t, hdwallet.PathComponent{Index: 0, Hardened: false}, path[4])
	assert.Equal(t, "m/44'/60'/0'/0/0", path.String())
	assert.Equal(t, uint32(44)+hdwallet.HardenedOffset, path[0].RawIndex())

	path, err = hdwallet.ParsePath("m")
	require.NoError(t, err)
	assert.Empty(t, path)

	for _, bad := range []string{
		"",
		"44'/60'",
		"m/44'/x",
		"m//0",
		"m/4294967296",
		"m/2147483648",
	} {
		_, err := hdwallet.ParsePath(bad)
		require.Error(t, err, "path %q", bad)

		var pathErr *hdwallet.PathError
		assert.ErrorAs(t, err, &pathErr)
	}
}

func TestZeroWipesKey(t *testing.T) {
	key, err := hdwallet.NewMasterKey(recoverySeed(t))
	require.NoError(t, err)

	key.Zero()
	assert.Equal(t, make([]byte, hdwallet.KeyLength), key.PrivateKeyBytes())
}
