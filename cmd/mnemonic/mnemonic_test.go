package mnemonic_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mnemoniccmd "github.com/chainforge/walletcore/cmd/mnemonic"
	"github.com/chainforge/walletcore/mnemonic"
	"github.com/chainforge/walletcore/wordlist"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := mnemoniccmd.New()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestNewGeneratesValidPhrase(t *testing.T) {
	out, err := run(t, "new")
	require.NoError(t, err)

	phrase := strings.TrimSpace(out)
	assert.Len(t, strings.Fields(phrase), 12)

	_, err = mnemonic.Parse(phrase, wordlist.English(), true)
	assert.NoError(t, err)
}

func TestNewWordCountFlag(t *testing.T) {
	out, err := run(t, "new", "--words", "24")
	require.NoError(t, err)
	assert.Len(t, strings.Fields(strings.TrimSpace(out)), 24)
}

func TestCheckValidPhrase(t *testing.T) {
	m, err := mnemonic.Generate(12, wordlist.English())
	require.NoError(t, err)

	out, err := run(t, append([]string{"check"}, m.Words()...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "valid")
}

func TestCheckRejectsBadChecksum(t *testing.T) {
	words := make([]string, 12)
	for i := range words {
		words[i] = "abandon"
	}

	_, err := run(t, append([]string{"check"}, words...)...)
	assert.Error(t, err)
}
