package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jasonyou1995/walletcore/pkg/walletcore"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new BIP-39 mnemonic phrase",
	Long: `Generate a new cryptographically secure mnemonic phrase that can be used
to seed a hierarchical deterministic wallet.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		words, _ := cmd.Flags().GetInt("words")

		phrase, err := walletcore.GenerateMnemonic(words)
		if err != nil {
			return err
		}

		log.WithField("word_count", words).Info("generated mnemonic")
		fmt.Println(phrase)

		fmt.Println()
		fmt.Println("Store this phrase safely. Anyone with it controls every derived account.")
		return nil
	},
}

func init() {
	generateCmd.Flags().IntP("words", "w", 24, "word count (12 or 24)")
	rootCmd.AddCommand(generateCmd)
}
