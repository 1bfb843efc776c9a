package hdkey

import (
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

// ErrDerivationFailed is returned when a BIP-32 child derivation step
// fails (no retry at another index is attempted), or when a caller-supplied
// path cannot be walked. It never discloses which index failed beyond what
// the caller already knows (the path it requested).
var ErrDerivationFailed = errors.New("hdkey: secp256k1 derivation failed")

// secp256k1Master builds the BIP-32 master extended key for seed. The
// network parameter only affects the key's serialized string form (never
// produced here) and not the derivation math, so mainnet params are used
// unconditionally.
func secp256k1Master(seed []byte) (*hdkeychain.ExtendedKey, error) {
	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, ErrDerivationFailed
	}
	return master, nil
}

// DeriveSecp256k1 walks path from the seed's BIP-32 master key and returns
// the private key at the leaf. hdkeychain.ExtendedKey.Derive already
// implements the BIP-32 invariant from spec.md §3: an index for which
// I_L >= n or the resulting scalar is zero is rejected rather than
// silently retried at the next index, since BIP-44 paths here are
// caller-specified rather than discovered by the core (see DESIGN.md).
func DeriveSecp256k1(seed []byte, path Path) (*btcec.PrivateKey, error) {
	key, err := secp256k1Master(seed)
	if err != nil {
		return nil, err
	}
	defer key.Zero()

	for _, component := range path {
		child, err := key.Derive(component)
		if err != nil {
			return nil, ErrDerivationFailed
		}
		key.Zero()
		key = child
	}

	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, ErrDerivationFailed
	}
	return priv, nil
}

// PublicKeySecp256k1 derives the public key at path without retaining the
// private scalar any longer than necessary.
func PublicKeySecp256k1(seed []byte, path Path) (*btcec.PublicKey, error) {
	priv, err := DeriveSecp256k1(seed, path)
	if err != nil {
		return nil, err
	}
	pub := priv.PubKey()
	zeroPrivateKey(priv)
	return pub, nil
}

// zeroPrivateKey scrubs the scalar backing a btcec private key once the
// caller is done with it.
func zeroPrivateKey(priv *btcec.PrivateKey) {
	if priv == nil {
		return
	}
	priv.Zero()
}
