package walletcore

import (
	"crypto/ed25519"
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	chainsol "github.com/jasonyou1995/walletcore/internal/chain/solana"
	"github.com/jasonyou1995/walletcore/internal/hdkey"
)

const testMnemonic = "tag volcano eight thank tide danger coast health above argue embrace heavy"

func TestGenerateAndValidateMnemonic(t *testing.T) {
	phrase, err := GenerateMnemonic(24)
	require.NoError(t, err)
	require.True(t, ValidateMnemonic(phrase), "generated mnemonic failed its own validation: %s", phrase)
	require.Len(t, strings.Fields(phrase), 24)
}

func TestGenerateMnemonicRejectsBadWordCount(t *testing.T) {
	_, err := GenerateMnemonic(13)
	var asWalletErr *Error
	require.ErrorAs(t, err, &asWalletErr)
	require.Equal(t, ErrInvalidParameter, asWalletErr.Kind)
}

func TestMnemonicToSeedAndDeriveAddresses(t *testing.T) {
	seed, err := MnemonicToSeed(testMnemonic, "")
	require.NoError(t, err)
	defer zeroOut(seed)
	require.Len(t, seed, 64)

	accounts, err := DeriveAddresses(seed, ChainEVM, BTCMainnet, []uint32{0})
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, "0xC49926C4124cEe1cbA0Ea94Ea31a6c12318df947", accounts[0].Address)
}

func TestDeriveAddressesAllChains(t *testing.T) {
	seed, err := MnemonicToSeed(testMnemonic, "")
	require.NoError(t, err)
	defer zeroOut(seed)

	for _, chain := range []Chain{ChainEVM, ChainBTC, ChainSolana} {
		accounts, err := DeriveAddresses(seed, chain, BTCMainnet, []uint32{0, 1})
		require.NoErrorf(t, err, "chain=%d", chain)
		require.Len(t, accounts, 2)
		require.NotEqual(t, accounts[0].Address, accounts[1].Address)
	}
}

func TestEncryptDecryptSeedRoundTrip(t *testing.T) {
	seed, err := MnemonicToSeed(testMnemonic, "")
	require.NoError(t, err)

	env, err := EncryptSeed(append([]byte(nil), seed...), []byte("Correct Horse 42!"))
	require.NoError(t, err)

	opened, err := DecryptSeed(env, []byte("Correct Horse 42!"))
	require.NoError(t, err)
	defer zeroOut(opened)

	require.Equal(t, seed, opened)
}

func TestDecryptSeedWrongPassword(t *testing.T) {
	seed, err := MnemonicToSeed(testMnemonic, "")
	require.NoError(t, err)
	env, err := EncryptSeed(seed, []byte("correct"))
	require.NoError(t, err)

	_, err = DecryptSeed(env, []byte("wrong"))
	var asWalletErr *Error
	require.ErrorAs(t, err, &asWalletErr)
	require.Equal(t, ErrWrongPasswordOrCorrupted, asWalletErr.Kind)
}

func TestSignEVM(t *testing.T) {
	seed, err := MnemonicToSeed(testMnemonic, "")
	require.NoError(t, err)
	defer zeroOut(seed)

	signed, err := SignEVM(seed, EVMTransactionRequest{
		ChainID:              1,
		ToHex:                "0x000000000000000000000000000000000000dEaD",
		ValueWei:             big.NewInt(1),
		MaxPriorityFeePerGas: 1,
		MaxFeePerGas:         2,
		GasLimit:             21000,
	})
	require.NoError(t, err)
	require.NotEmpty(t, signed)
}

func TestSignEVMRejectsZeroChainID(t *testing.T) {
	seed, err := MnemonicToSeed(testMnemonic, "")
	require.NoError(t, err)
	defer zeroOut(seed)

	_, err = SignEVM(seed, EVMTransactionRequest{ChainID: 0, ToHex: "0x000000000000000000000000000000000000dEaD"})
	var asWalletErr *Error
	require.ErrorAs(t, err, &asWalletErr)
	require.Equal(t, ErrInvalidParameter, asWalletErr.Kind)
}

func TestSignBTCInsufficientFunds(t *testing.T) {
	seed, err := MnemonicToSeed(testMnemonic, "")
	require.NoError(t, err)
	defer zeroOut(seed)

	_, err = SignBTC(seed, BTCTransactionRequest{
		Inputs: []BTCUTXO{{
			PrevTxHashHex: "0000000000000000000000000000000000000000000000000000000000000001",
			AmountSats:    1000,
		}},
		Outputs: []BTCOutput{{AmountSats: 2000}},
	})
	var asWalletErr *Error
	require.ErrorAs(t, err, &asWalletErr)
	require.Equal(t, ErrInsufficientFunds, asWalletErr.Kind)
}

func TestSignSolana(t *testing.T) {
	seed, err := MnemonicToSeed(testMnemonic, "")
	require.NoError(t, err)
	defer zeroOut(seed)

	path, err := hdkey.ParsePath(fmt.Sprintf(hdkey.SolanaPathTemplate, 0))
	require.NoError(t, err)
	feePayerPub, _, err := hdkey.DeriveEd25519(seed, path)
	require.NoError(t, err)

	programID := make([]byte, ed25519.PublicKeySize)
	programID[0] = 1

	message, err := chainsol.BuildMessage(chainsol.Request{
		FeePayer:     feePayerPub,
		Instructions: []chainsol.Instruction{{ProgramID: programID, Data: []byte{1}}},
	})
	require.NoError(t, err)

	signed, err := SignSolana(seed, SolanaTransactionRequest{DerivationIndex: 0, MessageBytes: message})
	require.NoError(t, err)
	require.NotEmpty(t, signed)
}

func TestSignSolanaRejectsOutOfRangeAccount(t *testing.T) {
	seed, err := MnemonicToSeed(testMnemonic, "")
	require.NoError(t, err)
	defer zeroOut(seed)

	// A hand-built message whose sole instruction references account
	// index 5, though the account-key table only has indices 0 and 1.
	message := []byte{
		1, 0, 0, // numRequiredSignatures, numReadonlySigned, numReadonlyUnsigned
		2, // 2 account keys (compact-u16)
	}
	message = append(message, make([]byte, 64)...) // 2 dummy 32-byte keys
	message = append(message, make([]byte, 32)...) // recent blockhash
	message = append(message, 1)                   // 1 instruction (compact-u16)
	message = append(message, 5)                   // program_id_index: out of range
	message = append(message, 0)                   // 0 accounts
	message = append(message, 0)                   // 0 data bytes

	_, err = SignSolana(seed, SolanaTransactionRequest{DerivationIndex: 0, MessageBytes: message})
	var asWalletErr *Error
	require.ErrorAs(t, err, &asWalletErr)
	require.Equal(t, ErrInvalidParameter, asWalletErr.Kind)
}

func TestErrorKindStringsAreStable(t *testing.T) {
	cases := map[ErrorKind]string{
		ErrInvalidMnemonic:          "InvalidMnemonic",
		ErrWrongPasswordOrCorrupted: "WrongPasswordOrCorrupted",
		ErrUnsupportedVersion:       "UnsupportedVersion",
		ErrInvalidParameter:         "InvalidParameter",
		ErrInsufficientFunds:        "InsufficientFunds",
		ErrDerivationFailed:         "DerivationFailed",
	}
	for kind, want := range cases {
		require.Equal(t, want, kind.String())
	}
}

func zeroOut(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
