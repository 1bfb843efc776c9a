// Package hdkey implements hierarchical-deterministic key derivation for
// the two curves the wallet core supports: BIP-32 over secp256k1 (EVM,
// Bitcoin) and SLIP-0010 over Ed25519 (Solana).
package hdkey

import (
	"github.com/ethereum/go-ethereum/accounts"
)

// HardenedOffset is BIP-32's hardened-child start index (2^31).
const HardenedOffset = uint32(0x80000000)

// Path is a parsed derivation path, one uint32 per level, hardened levels
// carrying HardenedOffset already added in.
type Path = accounts.DerivationPath

// ParsePath parses a path string such as "m/44'/60'/0'/0/0" into its
// component indices. Delegates to go-ethereum's accounts package, which
// this module already depends on for exactly this purpose.
func ParsePath(path string) (Path, error) {
	return accounts.ParseDerivationPath(path)
}

// MustParsePath parses path and panics on error. Reserved for constant
// derivation-path literals defined in this package, never for host input.
func MustParsePath(path string) Path {
	p, err := accounts.ParseDerivationPath(path)
	if err != nil {
		panic(err)
	}
	return p
}

// FormatPath renders a parsed path back to its string form.
func FormatPath(path Path) string {
	return path.String()
}

// Well-known root paths, fixed per spec. Changing any of these constants
// changes every address this wallet core derives and is a breaking
// change.
const (
	EVMPathTemplate        = "m/44'/60'/0'/0/%d"
	BTCMainnetPathTemplate = "m/84'/0'/0'/0/%d"
	BTCTestnetPathTemplate = "m/84'/1'/0'/0/%d"
	SolanaPathTemplate     = "m/44'/501'/%d'/0'"
)

// IsHardened reports whether a raw path component carries the hardened
// bit.
func IsHardened(component uint32) bool {
	return component >= HardenedOffset
}
