package abi_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	abicmd "github.com/chainforge/walletcore/cmd/abi"
)

const erc20JSON = `[
  {"type": "function", "name": "transfer", "stateMutability": "nonpayable",
   "inputs": [{"name": "to", "type": "address"}, {"name": "value", "type": "uint256"}],
   "outputs": [{"name": "", "type": "bool"}]},
  {"type": "function", "name": "totalSupply", "stateMutability": "view",
   "inputs": [], "outputs": [{"name": "", "type": "uint256"}]}
]`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := abicmd.New()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeSchema(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "erc20.json")
	require.NoError(t, os.WriteFile(path, []byte(erc20JSON), 0o600))
	return path
}

func TestSelector(t *testing.T) {
	out, err := run(t, "selector", "transfer(address,uint256)")
	require.NoError(t, err)
	assert.Equal(t, "0xa9059cbb", strings.TrimSpace(out))
}

func TestEncodeTransfer(t *testing.T) {
	schema := writeSchema(t)

	out, err := run(t, "encode", "--schema", schema, "transfer",
		`["0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", "1000"]`)
	require.NoError(t, err)

	want := "0xa9059cbb" +
		"0000000000000000000000005aaeb6053f3e94c9b9a09f33669435e7ef1beaed" +
		"00000000000000000000000000000000000000000000000000000000000003e8"
	assert.Equal(t, want, strings.TrimSpace(out))
}

func TestEncodeNoArgs(t *testing.T) {
	schema := writeSchema(t)

	out, err := run(t, "encode", "--schema", schema, "totalSupply")
	require.NoError(t, err)
	assert.Equal(t, "0x18160ddd", strings.TrimSpace(out))
}

func TestEncodeArgumentCountMismatch(t *testing.T) {
	schema := writeSchema(t)

	_, err := run(t, "encode", "--schema", schema, "transfer", `["0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"]`)
	assert.Error(t, err)
}

func TestEncodeUnknownMethod(t *testing.T) {
	schema := writeSchema(t)

	_, err := run(t, "encode", "--schema", schema, "mint", `[]`)
	assert.Error(t, err)
}
