package hdkey

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"

	"github.com/jasonyou1995/walletcore/internal/secure"
)

// slip10Seed is the SLIP-0010 HMAC key used to derive the master node,
// per https://github.com/satoshilabs/slips/blob/master/slip-0010.md.
const slip10Seed = "ed25519 seed"

// ErrNonHardenedEd25519Path is returned when a path component for Ed25519
// derivation does not carry the hardened bit. SLIP-10 Ed25519 derivation
// is hardened-only; silently hardening a non-hardened index would produce
// addresses that disagree with Solana tooling, so the wallet core rejects
// the path instead (spec.md §9, "Curve duality").
var ErrNonHardenedEd25519Path = errors.New("hdkey: ed25519 derivation requires every path component to be hardened")

// ed25519Node is a SLIP-10 tree node: a 32-byte key and a 32-byte chain
// code, packed as the 64-byte HMAC-SHA512 output they came from.
type ed25519Node [64]byte

func (n ed25519Node) key() []byte       { return n[:32] }
func (n ed25519Node) chainCode() []byte { return n[32:] }

func newEd25519MasterNode(seed []byte) ed25519Node {
	mac := hmac.New(sha512.New, []byte(slip10Seed))
	mac.Write(seed)
	var node ed25519Node
	copy(node[:], mac.Sum(nil))
	return node
}

func (n ed25519Node) derive(index uint32) (ed25519Node, error) {
	if !IsHardened(index) {
		return ed25519Node{}, ErrNonHardenedEd25519Path
	}

	data := make([]byte, 0, 1+32+4)
	data = append(data, 0x00)
	data = append(data, n.key()...)
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], index)
	data = append(data, idx[:]...)

	mac := hmac.New(sha512.New, n.chainCode())
	mac.Write(data)
	secure.Zero(data)

	var child ed25519Node
	copy(child[:], mac.Sum(nil))
	return child, nil
}

// DeriveEd25519 walks path, fully hardened, from the seed's SLIP-10
// master node and returns the Ed25519 key pair at the leaf. Every
// component of path must carry the hardened bit; a non-hardened
// component is rejected rather than silently hardened.
func DeriveEd25519(seed []byte, path Path) (ed25519.PublicKey, ed25519.PrivateKey, error) {
	node := newEd25519MasterNode(seed)
	defer secure.Zero(node[:])

	for _, component := range path {
		next, err := node.derive(component)
		if err != nil {
			return nil, nil, err
		}
		secure.Zero(node[:])
		node = next
	}

	seedMaterial := append([]byte(nil), node.key()...)
	priv := ed25519.NewKeyFromSeed(seedMaterial)
	secure.Zero(seedMaterial)

	pub := append(ed25519.PublicKey(nil), priv.Public().(ed25519.PublicKey)...)
	return pub, priv, nil
}
