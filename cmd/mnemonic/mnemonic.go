package mnemonic

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/chainforge/walletcore/cmd/config"
	"github.com/chainforge/walletcore/mnemonic"
	"github.com/chainforge/walletcore/wordlist"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mnemonic",
		Short: "Generate and validate recovery phrases",
	}
	cmd.AddCommand(
		newNew(),
		newCheck(),
	)
	return cmd
}

func newNew() *cobra.Command {
	var words int
	var lang string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a fresh recovery phrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := wordlist.ByLanguage(lang)
			if err != nil {
				return err
			}
			m, err := mnemonic.Generate(words, list)
			if err != nil {
				return err
			}
			cmd.Println(m.Phrase())
			return nil
		},
	}

	cmd.Flags().IntVar(&words, "words", 12, "phrase length: 12, 15, 18, 21 or 24")
	cmd.Flags().StringVar(&lang, "lang", config.Load().Language, "wordlist language")
	return cmd
}

func newCheck() *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "check <word>...",
		Short: "Validate a recovery phrase checksum",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := wordlist.ByLanguage(lang)
			if err != nil {
				return err
			}
			phrase := strings.Join(args, " ")
			if _, err := mnemonic.Parse(phrase, list, true); err != nil {
				return errors.Wrap(err, "invalid phrase")
			}
			cmd.Println("valid")
			return nil
		},
	}

	cmd.Flags().StringVar(&lang, "lang", config.Load().Language, "wordlist language")
	return cmd
}
