package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jasonyou1995/walletcore/pkg/walletcore"
)

var validateCmd = &cobra.Command{
	Use:   "validate [mnemonic]",
	Short: "Validate a BIP-39 mnemonic phrase",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ok := walletcore.ValidateMnemonic(args[0])
		log.WithField("valid", ok).Debug("checked mnemonic")
		if !ok {
			fmt.Println("invalid")
			return fmt.Errorf("mnemonic failed validation")
		}
		fmt.Println("valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
