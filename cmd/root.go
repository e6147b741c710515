package cmd

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/chainforge/walletcore/cmd/abi"
	"github.com/chainforge/walletcore/cmd/derive"
	"github.com/chainforge/walletcore/cmd/mnemonic"
	"github.com/chainforge/walletcore/cmd/sign"
	"github.com/chainforge/walletcore/cmd/tx"
	"github.com/chainforge/walletcore/cmd/verify"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "walletcore",
	Short: "Ethereum wallet toolkit",
	Long: `walletcore

Offline Ethereum wallet operations: mnemonics, key derivation, message
signing, ABI encoding and transaction building. Defaults are configurable
through WALLETCORE_* environment variables.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// attach the subcommands
	rootCmd.AddCommand(
		abi.New(),
		derive.New(),
		mnemonic.New(),
		sign.New(),
		tx.New(),
		verify.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}
