package address

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// Network selects which Bitcoin HRP and coin-type branch a derivation or
// address-formatting call targets.
type Network int

const (
	// Mainnet selects HRP "bc" and BIP-84 coin type 0'.
	Mainnet Network = iota
	// Testnet selects HRP "tb" and BIP-84 coin type 1'.
	Testnet
)

// Params returns the btcd chain parameters for n.
func (n Network) Params() *chaincfg.Params {
	if n == Testnet {
		return &chaincfg.TestNet3Params
	}
	return &chaincfg.MainNetParams
}

// CoinType returns the BIP-44 coin type (without the hardened bit) for n.
func (n Network) CoinType() uint32 {
	if n == Testnet {
		return 1
	}
	return 0
}

// BTC derives the bech32 P2WPKH address (witness version 0) for a
// compressed secp256k1 public key: HASH160 of the 33-byte compressed
// point, bech32-encoded with the network's HRP.
func BTC(pub *btcec.PublicKey, network Network) (string, error) {
	compressed := pub.SerializeCompressed()
	hash := btcutil.Hash160(compressed)

	addr, err := btcutil.NewAddressWitnessPubKeyHash(hash, network.Params())
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

// BTCWitnessProgram returns HASH160(compressed_pubkey), the 20-byte
// witness program backing a P2WPKH address.
func BTCWitnessProgram(pub *btcec.PublicKey) []byte {
	return btcutil.Hash160(pub.SerializeCompressed())
}
