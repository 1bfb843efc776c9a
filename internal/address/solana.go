package address

import (
	"crypto/ed25519"
	"errors"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// ErrInvalidSolanaAddress is returned when a Base58 string does not decode
// to a 32-byte Ed25519 public key.
var ErrInvalidSolanaAddress = errors.New("address: invalid solana address")

// Solana Base58-encodes a 32-byte Ed25519 public key, the native Solana
// address form.
func Solana(pub ed25519.PublicKey) string {
	return base58.Encode(pub)
}

// DecodeSolana reverses Solana, validating the decoded length.
func DecodeSolana(addr string) (ed25519.PublicKey, error) {
	decoded := base58.Decode(addr)
	if len(decoded) != ed25519.PublicKeySize {
		return nil, ErrInvalidSolanaAddress
	}
	return ed25519.PublicKey(decoded), nil
}
