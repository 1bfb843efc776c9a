package cli

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jasonyou1995/walletcore/pkg/walletcore"
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt-seed",
	Short: "Seal a mnemonic's seed into a password-protected envelope",
	RunE: func(cmd *cobra.Command, args []string) error {
		mnemonicPhrase, _ := cmd.Flags().GetString("mnemonic")
		passphrase, _ := cmd.Flags().GetString("passphrase")
		password, _ := cmd.Flags().GetString("password")
		outPath, _ := cmd.Flags().GetString("out")

		if mnemonicPhrase == "" || password == "" {
			return fmt.Errorf("--mnemonic and --password are required")
		}

		seed, err := walletcore.MnemonicToSeed(mnemonicPhrase, passphrase)
		if err != nil {
			return err
		}
		defer zeroSeed(seed)

		env, err := walletcore.EncryptSeed(seed, []byte(password))
		if err != nil {
			return err
		}

		if outPath == "" {
			fmt.Println(hex.EncodeToString(env))
			return nil
		}
		if err := os.WriteFile(outPath, env, 0o600); err != nil {
			return fmt.Errorf("failed to write envelope: %w", err)
		}
		log.WithField("path", outPath).WithField("bytes", len(env)).Info("wrote seed envelope")
		return nil
	},
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt-seed",
	Short: "Open a password-protected seed envelope",
	RunE: func(cmd *cobra.Command, args []string) error {
		inPath, _ := cmd.Flags().GetString("in")
		password, _ := cmd.Flags().GetString("password")

		if inPath == "" || password == "" {
			return fmt.Errorf("--in and --password are required")
		}

		env, err := os.ReadFile(inPath)
		if err != nil {
			return fmt.Errorf("failed to read envelope: %w", err)
		}

		seed, err := walletcore.DecryptSeed(env, []byte(password))
		if err != nil {
			return err
		}
		defer zeroSeed(seed)

		fmt.Println(hex.EncodeToString(seed))
		return nil
	},
}

func init() {
	encryptCmd.Flags().StringP("mnemonic", "m", "", "mnemonic phrase (required)")
	encryptCmd.Flags().String("passphrase", "", "optional BIP-39 passphrase")
	encryptCmd.Flags().String("password", "", "envelope password (required)")
	encryptCmd.Flags().StringP("out", "o", "", "output file path (default: print hex to stdout)")
	encryptCmd.MarkFlagRequired("mnemonic")
	encryptCmd.MarkFlagRequired("password")

	decryptCmd.Flags().StringP("in", "i", "", "envelope file path (required)")
	decryptCmd.Flags().String("password", "", "envelope password (required)")
	decryptCmd.MarkFlagRequired("in")
	decryptCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(encryptCmd, decryptCmd)
}
