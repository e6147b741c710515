package abi

import (
	"encoding/hex"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/chainforge/walletcore/abi"
	"github.com/chainforge/walletcore/jsonval"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "abi",
		Short: "Contract ABI helpers",
	}
	cmd.AddCommand(
		newSelector(),
		newEncode(),
	)
	return cmd
}

func newSelector() *cobra.Command {
	return &cobra.Command{
		Use:   "selector <signature>",
		Short: "Print the 4-byte selector of a function signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := crypto.Keccak256([]byte(args[0]))[:4]
			cmd.Println("0x" + hex.EncodeToString(sel))
			return nil
		},
	}
}

func newEncode() *cobra.Command {
	var schemaPath string

	cmd := &cobra.Command{
		Use:   "encode <method> [args-json]",
		Short: "Encode a contract call as selector-prefixed call data",
		Long: `Encode a contract call. Arguments are given as a JSON array matching the
method inputs: numbers or decimal strings for integers, hex strings for
addresses and bytes, nested arrays for arrays and tuples.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := os.ReadFile(schemaPath)
			if err != nil {
				return errors.Wrap(err, "failed to read schema")
			}
			contract, err := abi.ParseJSON(schema)
			if err != nil {
				return err
			}
			method, err := contract.MethodByName(args[0])
			if err != nil {
				return err
			}

			callArgs := []interface{}{}
			if len(args) == 2 {
				parsed, err := jsonval.Parse([]byte(args[1]))
				if err != nil {
					return errors.Wrap(err, "invalid argument JSON")
				}
				values, err := parsed.Array()
				if err != nil {
					return errors.Wrap(err, "arguments must be a JSON array")
				}
				if len(values) != len(method.Inputs) {
					return errors.Errorf("method %s takes %d arguments, got %d",
						method.Signature(), len(method.Inputs), len(values))
				}
				for i, v := range values {
					arg, err := argValue(method.Inputs[i].Type, v)
					if err != nil {
						return errors.Wrapf(err, "argument %d", i)
					}
					callArgs = append(callArgs, arg)
				}
			}

			data, err := abi.EncodeCall(method, callArgs)
			if err != nil {
				return err
			}
			cmd.Println("0x" + hex.EncodeToString(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "path to the ABI JSON file")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

// argValue converts a JSON argument to the Go value the encoder expects for
// the given ABI type.
func argValue(t abi.Type, v jsonval.Value) (interface{}, error) {
	switch t.Kind {
	case abi.KindBool:
		return v.Bool()

	case abi.KindUint, abi.KindInt:
		return integerValue(v)

	case abi.KindAddress, abi.KindString:
		return v.Str()

	case abi.KindBytes, abi.KindFixedBytes:
		s, err := v.Str()
		if err != nil {
			return nil, err
		}
		b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
		if err != nil {
			return nil, errors.Wrap(err, "invalid hex")
		}
		return b, nil

	case abi.KindArray, abi.KindFixedArray:
		values, err := v.Array()
		if err != nil {
			return nil, err
		}
		out := make([]interface{}, len(values))
		for i, elem := range values {
			out[i], err = argValue(*t.Elem, elem)
			if err != nil {
				return nil, err
			}
		}
		return out, nil

	case abi.KindTuple:
		values, err := v.Array()
		if err != nil {
			return nil, err
		}
		if len(values) != len(t.Fields) {
			return nil, errors.Errorf("tuple %s takes %d fields, got %d",
				t.String(), len(t.Fields), len(values))
		}
		out := make([]interface{}, len(values))
		for i, elem := range values {
			out[i], err = argValue(t.Fields[i].Type, elem)
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	return nil, errors.Errorf("unsupported type %s", t.String())
}

// integerValue accepts JSON numbers and decimal or 0x-hex strings.
func integerValue(v jsonval.Value) (*big.Int, error) {
	if n, err := v.Int64(); err == nil {
		return big.NewInt(n), nil
	}

	s, err := v.Str()
	if err != nil {
		return nil, errors.New("integer argument must be a number or string")
	}
	base := 10
	if digits, ok := strings.CutPrefix(s, "0x"); ok {
		s, base = digits, 16
	}
	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, errors.Errorf("invalid integer %q", s)
	}
	return n, nil
}
