package derive

import (
	"encoding/hex"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chainforge/walletcore/cmd/config"
	"github.com/chainforge/walletcore/hdwallet"
	"github.com/chainforge/walletcore/mnemonic"
	"github.com/chainforge/walletcore/signer"
	"github.com/chainforge/walletcore/wordlist"
)

func New() *cobra.Command {
	var (
		path        string
		passphrase  string
		lang        string
		showPrivate bool
		noChecksum  bool
	)

	cfg := config.Load()

	cmd := &cobra.Command{
		Use:   "derive <word>...",
		Short: "Derive an account from a recovery phrase",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := wordlist.ByLanguage(lang)
			if err != nil {
				return err
			}
			m, err := mnemonic.Parse(strings.Join(args, " "), list, !noChecksum)
			if err != nil {
				return err
			}

			seed := m.Seed(passphrase)
			key, err := hdwallet.Derive(seed, path)
			if err != nil {
				return err
			}
			defer key.Zero()

			keySigner, err := signer.NewSignerFromExtendedKey(key)
			if err != nil {
				return err
			}

			cmd.Println("path:   ", path)
			cmd.Println("address:", keySigner.Address().Hex())
			if showPrivate {
				cmd.Println("private:", "0x"+hex.EncodeToString(key.PrivateKeyBytes()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", cfg.Path, "derivation path")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "optional BIP-39 passphrase")
	cmd.Flags().StringVar(&lang, "lang", cfg.Language, "wordlist language")
	cmd.Flags().BoolVar(&showPrivate, "private", false, "print the private key")
	cmd.Flags().BoolVar(&noChecksum, "no-checksum", false, "skip checksum validation when recovering a non-conformant phrase")
	return cmd
}
