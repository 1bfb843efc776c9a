// Package cli implements walletctl, a thin cobra/viper command-line
// harness over pkg/walletcore. It exists to exercise the facade end to
// end; the facade itself, not this CLI, is the product.
package cli

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	version = "1.0.0"
	log     = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "walletctl",
	Short: "Portable multi-chain wallet core command-line harness",
	Long: `walletctl drives the walletcore facade from the command line: mnemonic
generation and validation, seed derivation, password-based seed envelopes,
and address derivation across Ethereum, Bitcoin, and Solana.

It is a thin harness, not the product: every operation it runs is a direct
call into pkg/walletcore, the same facade an embedding host would call
across an FFI boundary.`,
	Version: version,
}

// Execute runs the root command, returning its error for the caller's
// main to translate into an exit code.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.walletctl.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug-level logging")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".walletctl")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.WithField("file", viper.ConfigFileUsed()).Debug("loaded config file")
	}
}

func initLogging() {
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if viper.GetBool("verbose") {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
}
