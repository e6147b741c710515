// Package rpc declares the node boundary. The wallet core never talks to a
// node itself; callers supply a Transport and use the request builders and
// quantity helpers here to shape the calls.
package rpc

import (
	"context"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/pkg/errors"

	"github.com/chainforge/walletcore/ethtypes"
	"github.com/chainforge/walletcore/jsonval"
)

// Transport sends a single JSON-RPC call and returns its result value.
// Implementations handle framing, ids, and HTTP or IPC details.
type Transport interface {
	Send(ctx context.Context, method string, params []jsonval.Value) (jsonval.Value, error)
}

// Request is a method name with its positional parameters, ready to hand to
// a Transport.
type Request struct {
	Method string
	Params []jsonval.Value
}

// BlockTag names a block for state queries.
type BlockTag string

const (
	BlockLatest  BlockTag = "latest"
	BlockPending BlockTag = "pending"
)

// ChainID builds an eth_chainId request.
func ChainID() Request {
	return Request{Method: "eth_chainId"}
}

// MaxPriorityFeePerGas builds an eth_maxPriorityFeePerGas request.
func MaxPriorityFeePerGas() Request {
	return Request{Method: "eth_maxPriorityFeePerGas"}
}

// GasPrice builds an eth_gasPrice request.
func GasPrice() Request {
	return Request{Method: "eth_gasPrice"}
}

// TransactionCount builds an eth_getTransactionCount request; the result is
// the account nonce at the given block.
func TransactionCount(addr ethtypes.Address, tag BlockTag) Request {
	return Request{
		Method: "eth_getTransactionCount",
		Params: []jsonval.Value{
			jsonval.String(addr.Hex()),
			jsonval.String(string(tag)),
		},
	}
}

// Balance builds an eth_getBalance request.
func Balance(addr ethtypes.Address, tag BlockTag) Request {
	return Request{
		Method: "eth_getBalance",
		Params: []jsonval.Value{
			jsonval.String(addr.Hex()),
			jsonval.String(string(tag)),
		},
	}
}

// SendRawTransaction builds an eth_sendRawTransaction request from a signed
// transaction envelope.
func SendRawTransaction(signed []byte) Request {
	return Request{
		Method: "eth_sendRawTransaction",
		Params: []jsonval.Value{jsonval.String(EncodeBytes(signed))},
	}
}

// Do sends a built request over the transport.
func (r Request) Do(ctx context.Context, t Transport) (jsonval.Value, error) {
	result, err := t.Send(ctx, r.Method, r.Params)
	if err != nil {
		return jsonval.Value{}, errors.Wrapf(err, "failed to call %s", r.Method)
	}
	return result, nil
}

// QuantityResult interprets a call result as a hex quantity.
func QuantityResult(v jsonval.Value) (*big.Int, error) {
	s, err := v.Str()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read quantity result")
	}
	return ParseQuantity(s)
}

// EncodeQuantity renders an integer as a 0x-prefixed hex quantity with no
// leading zero digits, zero as "0x0".
func EncodeQuantity(n *big.Int) (string, error) {
	if n == nil || n.Sign() < 0 {
		return "", errors.New("rpc: quantity must be a non-negative integer")
	}
	return "0x" + n.Text(16), nil
}

// EncodeUint64 renders a uint64 as a hex quantity.
func EncodeUint64(n uint64) string {
	s, _ := EncodeQuantity(new(big.Int).SetUint64(n))
	return s
}

// ParseQuantity parses a 0x-prefixed hex quantity. Leading zero digits are
// rejected, matching the JSON-RPC quantity encoding.
func ParseQuantity(s string) (*big.Int, error) {
	digits, ok := strings.CutPrefix(s, "0x")
	if !ok {
		return nil, errors.Errorf("rpc: quantity %q missing 0x prefix", s)
	}
	if digits == "" {
		return nil, errors.Errorf("rpc: quantity %q has no digits", s)
	}
	if len(digits) > 1 && digits[0] == '0' {
		return nil, errors.Errorf("rpc: quantity %q has leading zeros", s)
	}
	n, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, errors.Errorf("rpc: quantity %q is not hex", s)
	}
	return n, nil
}

// ParseUint64 parses a hex quantity that must fit in a uint64.
func ParseUint64(s string) (uint64, error) {
	n, err := ParseQuantity(s)
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() {
		return 0, errors.Errorf("rpc: quantity %q overflows uint64", s)
	}
	return n.Uint64(), nil
}

// EncodeBytes renders unformatted data as 0x-prefixed hex, empty data as "0x".
func EncodeBytes(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}
