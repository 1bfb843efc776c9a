package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jasonyou1995/walletcore/pkg/walletcore"
)

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive addresses from a mnemonic",
	Long: `Derive addresses for one chain from a mnemonic phrase.

Supported chains are evm (m/44'/60'/0'/0/i), btc (m/84'/coin'/0'/0/i), and
solana (m/44'/501'/i'/0'). Bitcoin addresses are mainnet bech32 unless
--testnet is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mnemonicPhrase, _ := cmd.Flags().GetString("mnemonic")
		passphrase, _ := cmd.Flags().GetString("passphrase")
		chainName, _ := cmd.Flags().GetString("chain")
		count, _ := cmd.Flags().GetInt("count")
		testnet, _ := cmd.Flags().GetBool("testnet")

		if mnemonicPhrase == "" {
			return fmt.Errorf("--mnemonic is required")
		}
		chain, err := parseChain(chainName)
		if err != nil {
			return err
		}

		seed, err := walletcore.MnemonicToSeed(mnemonicPhrase, passphrase)
		if err != nil {
			return err
		}
		defer zeroSeed(seed)

		network := walletcore.BTCMainnet
		if testnet {
			network = walletcore.BTCTestnet
		}

		indices := make([]uint32, count)
		for i := range indices {
			indices[i] = uint32(i)
		}

		accounts, err := walletcore.DeriveAddresses(seed, chain, network, indices)
		if err != nil {
			return err
		}

		log.WithField("chain", chainName).WithField("count", count).Info("derived addresses")
		for _, account := range accounts {
			fmt.Printf("%s  %s\n", account.Path, account.Address)
		}
		return nil
	},
}

func init() {
	deriveCmd.Flags().StringP("mnemonic", "m", "", "mnemonic phrase (required)")
	deriveCmd.Flags().String("passphrase", "", "optional BIP-39 passphrase")
	deriveCmd.Flags().StringP("chain", "c", "evm", "chain to derive on: evm, btc, or solana")
	deriveCmd.Flags().IntP("count", "n", 1, "number of addresses to derive")
	deriveCmd.Flags().Bool("testnet", false, "use Bitcoin testnet parameters")

	deriveCmd.MarkFlagRequired("mnemonic")
	rootCmd.AddCommand(deriveCmd)
}

func parseChain(name string) (walletcore.Chain, error) {
	switch strings.ToLower(name) {
	case "evm", "eth", "ethereum":
		return walletcore.ChainEVM, nil
	case "btc", "bitcoin":
		return walletcore.ChainBTC, nil
	case "solana", "sol":
		return walletcore.ChainSolana, nil
	default:
		return 0, fmt.Errorf("unknown chain %q (want evm, btc, or solana)", name)
	}
}

func zeroSeed(seed []byte) {
	for i := range seed {
		seed[i] = 0
	}
}
