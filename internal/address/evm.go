// Package address formats public keys into the wire address form of each
// supported chain.
package address

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// EVM derives the 20-byte EIP-55 checksummed address for a secp256k1
// public key: Keccak-256 of the 64-byte uncompressed point (no 0x04
// prefix), trailing 20 bytes, mixed-case per EIP-55. common.Address's own
// Hex() method already applies the EIP-55 checksum.
func EVM(pub *btcec.PublicKey) common.Address {
	ecdsaPub := pub.ToECDSA()
	return crypto.PubkeyToAddress(*ecdsaPub)
}

// EVMHex renders an EVM address with its EIP-55 mixed-case checksum.
func EVMHex(pub *btcec.PublicKey) string {
	return EVM(pub).Hex()
}
