package tx_test

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	txcmd "github.com/chainforge/walletcore/cmd/tx"
)

const (
	testKeyHex  = "e8fb0023174bbe9504cc74942231d4ec53f2a0b71a3f97bbe5be91968e8e3e44"
	testAddrHex = "0xE7cF373C3D9132ebE88C0eb3FdDeEc27c9A7911D"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := txcmd.New()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func rawOutput(t *testing.T, out string) []byte {
	t.Helper()

	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(line, "raw: "); ok {
			raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(rest), "0x"))
			require.NoError(t, err)
			return raw
		}
	}
	t.Fatal("no raw transaction in output")
	return nil
}

func TestBuildSignsDecodableTransaction(t *testing.T) {
	out, err := run(t, "build",
		"--key", testKeyHex,
		"--chain-id", "1",
		"--nonce", "7",
		"--to", "0x8ba1f109551bD432803012645Ac136ddd64DBA72",
		"--value", "0.001",
		"--gas-limit", "21000",
		"--max-fee", "30",
		"--priority-fee", "2",
	)
	require.NoError(t, err)
	assert.Contains(t, out, testAddrHex)

	raw := rawOutput(t, out)
	require.NotEmpty(t, raw)
	assert.Equal(t, byte(0x02), raw[0])

	var decoded types.Transaction
	require.NoError(t, decoded.UnmarshalBinary(raw))
	assert.Equal(t, uint64(7), decoded.Nonce())
	assert.Equal(t, "1000000000000000", decoded.Value().String())
	assert.Equal(t, uint64(21000), decoded.Gas())

	sender, err := types.Sender(types.NewLondonSigner(decoded.ChainId()), &decoded)
	require.NoError(t, err)
	assert.Equal(t, testAddrHex, sender.Hex())
}

func TestBuildRejectsFractionalWei(t *testing.T) {
	_, err := run(t, "build",
		"--key", testKeyHex,
		"--value", "0.0000000000000000001",
	)
	assert.Error(t, err)
}

func TestBuildRejectsBadRecipient(t *testing.T) {
	_, err := run(t, "build", "--key", testKeyHex, "--to", "0x1234")
	assert.Error(t, err)
}
