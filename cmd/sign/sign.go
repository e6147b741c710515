package sign

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/chainforge/walletcore/signer"
)

func New() *cobra.Command {
	var keyHex string

	cmd := &cobra.Command{
		Use:   "sign <message>",
		Short: "Sign a message with a private key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := hex.DecodeString(strings.TrimPrefix(keyHex, "0x"))
			if err != nil {
				return errors.Wrap(err, "invalid private key hex")
			}

			keySigner, err := signer.NewPrivateKeySigner(key)
			if err != nil {
				return err
			}

			sig, err := keySigner.SignMessage([]byte(args[0]))
			if err != nil {
				return err
			}

			cmd.Println("address:  ", keySigner.Address().Hex())
			cmd.Println("signature:", sig.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&keyHex, "key", "", "hex private key")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}
