package verify

import (
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/chainforge/walletcore/ethtypes"
	"github.com/chainforge/walletcore/signer"
)

func New() *cobra.Command {
	var addressHex string

	cmd := &cobra.Command{
		Use:   "verify <message> <signature>",
		Short: "Recover and check the signer of a message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sig, err := ethtypes.ParseSignature(args[1])
			if err != nil {
				return err
			}

			recovered, err := signer.RecoverAddress(crypto.Keccak256([]byte(args[0])), sig)
			if err != nil {
				return err
			}
			cmd.Println("signer:", recovered.Hex())

			if addressHex != "" {
				expected, err := ethtypes.ParseAddress(addressHex)
				if err != nil {
					return err
				}
				if !recovered.Equal(expected) {
					return errors.Errorf("signature was not made by %s", expected.Hex())
				}
				cmd.Println("match:  ok")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addressHex, "address", "", "expected signer address")
	return cmd
}
