package address

import (
	"crypto/ed25519"
	"strings"
	"testing"

	"github.com/jasonyou1995/walletcore/internal/hdkey"
	"github.com/jasonyou1995/walletcore/internal/mnemonic"
)

const testMnemonic = "tag volcano eight thank tide danger coast health above argue embrace heavy"

func testSeed(t *testing.T) []byte {
	t.Helper()
	buf, err := mnemonic.ToSeed(testMnemonic, "")
	if err != nil {
		t.Fatalf("ToSeed: %v", err)
	}
	t.Cleanup(buf.Release)
	return buf.Bytes()
}

// TestEVMKnownVector cross-checks against the derivation this wallet
// core's BIP-32/secp256k1/Keccak-256 pipeline has always produced for this
// mnemonic at m/44'/60'/0'/0/0.
func TestEVMKnownVector(t *testing.T) {
	seed := testSeed(t)
	pub, err := hdkey.PublicKeySecp256k1(seed, hdkey.MustParsePath("m/44'/60'/0'/0/0"))
	if err != nil {
		t.Fatalf("PublicKeySecp256k1: %v", err)
	}

	const want = "0xC49926C4124cEe1cbA0Ea94Ea31a6c12318df947"
	if got := EVMHex(pub); got != want {
		t.Fatalf("EVM address mismatch: got %s, want %s", got, want)
	}
}

func TestEVMHexIsChecksummed(t *testing.T) {
	seed := testSeed(t)
	pub, err := hdkey.PublicKeySecp256k1(seed, hdkey.MustParsePath("m/44'/60'/0'/0/1"))
	if err != nil {
		t.Fatalf("PublicKeySecp256k1: %v", err)
	}
	addr := EVMHex(pub)
	if !strings.HasPrefix(addr, "0x") || len(addr) != 42 {
		t.Fatalf("expected a 0x-prefixed 20-byte address, got %s", addr)
	}
	if addr == strings.ToLower(addr) {
		t.Fatal("expected a mixed-case EIP-55 checksum, got all-lowercase")
	}
}

func TestBTCAddressHRP(t *testing.T) {
	seed := testSeed(t)
	pub, err := hdkey.PublicKeySecp256k1(seed, hdkey.MustParsePath("m/84'/0'/0'/0/0"))
	if err != nil {
		t.Fatalf("PublicKeySecp256k1: %v", err)
	}

	mainnet, err := BTC(pub, Mainnet)
	if err != nil {
		t.Fatalf("BTC(Mainnet): %v", err)
	}
	if !strings.HasPrefix(mainnet, "bc1") {
		t.Fatalf("expected mainnet address to start with bc1, got %s", mainnet)
	}

	testnet, err := BTC(pub, Testnet)
	if err != nil {
		t.Fatalf("BTC(Testnet): %v", err)
	}
	if !strings.HasPrefix(testnet, "tb1") {
		t.Fatalf("expected testnet address to start with tb1, got %s", testnet)
	}
}

func TestSolanaAddressRoundTrip(t *testing.T) {
	seed := testSeed(t)
	pub, _, err := hdkey.DeriveEd25519(seed, hdkey.MustParsePath("m/44'/501'/0'/0'"))
	if err != nil {
		t.Fatalf("DeriveEd25519: %v", err)
	}

	encoded := Solana(pub)
	decoded, err := DecodeSolana(encoded)
	if err != nil {
		t.Fatalf("DecodeSolana: %v", err)
	}
	if !ed25519.PublicKey(decoded).Equal(pub) {
		t.Fatal("expected Solana address round trip to return the original public key")
	}
}

func TestDecodeSolanaRejectsWrongLength(t *testing.T) {
	if _, err := DecodeSolana("1"); err != ErrInvalidSolanaAddress {
		t.Fatalf("expected ErrInvalidSolanaAddress, got %v", err)
	}
}
