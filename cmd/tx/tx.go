package tx

import (
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/chainforge/walletcore/cmd/config"
	"github.com/chainforge/walletcore/ethtypes"
	"github.com/chainforge/walletcore/signer"
	"github.com/chainforge/walletcore/txbuilder"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Build and sign transactions",
	}
	cmd.AddCommand(newBuild())
	return cmd
}

func newBuild() *cobra.Command {
	var (
		chainID     uint64
		nonce       uint64
		toHex       string
		valueEther  string
		gasLimit    uint64
		maxFeeGwei  string
		priorityFee string
		dataHex     string
		keyHex      string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build and sign an EIP-1559 transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			value, err := etherAmount(valueEther)
			if err != nil {
				return errors.Wrap(err, "invalid --value")
			}
			maxFee, err := gweiAmount(maxFeeGwei)
			if err != nil {
				return errors.Wrap(err, "invalid --max-fee")
			}
			tip, err := gweiAmount(priorityFee)
			if err != nil {
				return errors.Wrap(err, "invalid --priority-fee")
			}
			data, err := hex.DecodeString(strings.TrimPrefix(dataHex, "0x"))
			if err != nil {
				return errors.Wrap(err, "invalid --data hex")
			}

			transaction := &txbuilder.Transaction{
				ChainID:              new(big.Int).SetUint64(chainID),
				Nonce:                nonce,
				MaxPriorityFeePerGas: tip,
				MaxFeePerGas:         maxFee,
				GasLimit:             gasLimit,
				Value:                value,
				Data:                 data,
			}
			if toHex != "" {
				to, err := ethtypes.ParseAddress(toHex)
				if err != nil {
					return err
				}
				transaction.To = &to
			}

			key, err := hex.DecodeString(strings.TrimPrefix(keyHex, "0x"))
			if err != nil {
				return errors.Wrap(err, "invalid private key hex")
			}
			keySigner, err := signer.NewPrivateKeySigner(key)
			if err != nil {
				return err
			}

			signed, err := transaction.Sign(keySigner)
			if err != nil {
				return err
			}

			cmd.Println("from:", keySigner.Address().Hex())
			cmd.Println("raw: ", "0x"+hex.EncodeToString(signed))
			return nil
		},
	}

	cmd.Flags().Uint64Var(&chainID, "chain-id", config.Load().ChainID, "chain id")
	cmd.Flags().Uint64Var(&nonce, "nonce", 0, "account nonce")
	cmd.Flags().StringVar(&toHex, "to", "", "recipient address, empty for contract creation")
	cmd.Flags().StringVar(&valueEther, "value", "0", "amount in ether")
	cmd.Flags().Uint64Var(&gasLimit, "gas-limit", 21000, "gas limit")
	cmd.Flags().StringVar(&maxFeeGwei, "max-fee", "0", "max fee per gas in gwei")
	cmd.Flags().StringVar(&priorityFee, "priority-fee", "0", "max priority fee per gas in gwei")
	cmd.Flags().StringVar(&dataHex, "data", "", "call data hex")
	cmd.Flags().StringVar(&keyHex, "key", "", "hex private key")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func etherAmount(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return ethtypes.EtherToWei(d)
}

func gweiAmount(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return ethtypes.GweiToWei(d)
}
