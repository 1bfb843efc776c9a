// Package envelope implements the self-describing, password-based
// authenticated encryption container that wraps a 64-byte BIP-39 seed at
// rest.
//
// v1 parameters (memory cost, time cost, parallelism) are fixed and
// carried inside the envelope so that a future version can change them
// without invalidating existing ciphertexts.
package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"errors"

	"golang.org/x/crypto/argon2"

	"github.com/jasonyou1995/walletcore/internal/secure"
)

// Version is the only envelope format this wallet core currently produces
// or accepts.
const Version = 0x01

// Fixed Argon2id parameters for v1 envelopes (RFC 9106 / PHC Argon2id).
const (
	v1MemoryCostKiB  = 65536 // 64 MiB
	v1TimeCost       = 3
	v1Parallelism    = 4
	v1KeyLen         = 32
	v1SaltLen        = 16
	v1NonceLen       = 12
	v1TagLen         = 16
	v1SeedLen        = 64
	v1ReservedByte   = 0x00
	v1HeaderLen      = 1 + 4 + 4 + 1 + 1 // version, memory_cost, time_cost, parallelism, reserved
	v1AADLen         = v1HeaderLen
	v1EnvelopeLength = v1HeaderLen + v1SaltLen + v1NonceLen + v1SeedLen + v1TagLen
)

// ErrMalformed is returned when an envelope's length or structure does
// not match any supported version.
var ErrMalformed = errors.New("envelope: malformed envelope")

// ErrUnsupportedVersion is returned when an envelope's version byte is
// not 0x01, or when its KDF parameters fall outside the v1 whitelist.
var ErrUnsupportedVersion = errors.New("envelope: unsupported envelope version")

// ErrWrongPasswordOrCorrupted is returned by Decrypt for both a wrong
// password and a tampered ciphertext. The two cases are deliberately
// indistinguishable, by design and by construction (both fail at the same
// AEAD-open call with the same error value).
var ErrWrongPasswordOrCorrupted = errors.New("envelope: wrong password or corrupted envelope")

// Encrypt seals seed (exactly 64 bytes) under password into a v1
// envelope. The seed and the derived key are erased before return,
// regardless of outcome. password's backing array is also erased.
func Encrypt(seed []byte, password []byte) ([]byte, error) {
	defer secure.Zero(password)
	defer secure.Zero(seed)

	if len(seed) != v1SeedLen {
		return nil, errors.New("envelope: seed must be 64 bytes")
	}

	salt := make([]byte, v1SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}

	nonce := make([]byte, v1NonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	header := encodeHeader()

	key := argon2.IDKey(password, salt, v1TimeCost, v1MemoryCostKiB, v1Parallelism, v1KeyLen)
	defer secure.Zero(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	aad := header
	sealed := gcm.Seal(nil, nonce, seed, aad)
	secure.Zero(seed)

	ciphertext := sealed[:v1SeedLen]
	tag := sealed[v1SeedLen:]

	out := make([]byte, 0, v1EnvelopeLength)
	out = append(out, header...)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, ciphertext...)
	out = append(out, tag...)
	return out, nil
}

// Decrypt opens env with password and returns the 64-byte seed, owned by
// the caller, who must erase it on every exit path. A wrong password and
// a corrupted envelope both produce ErrWrongPasswordOrCorrupted. Two
// distinct, non-secret-dependent classifications are made before any key
// material is derived: an envelope of the wrong length produces
// ErrMalformed, and a failed version/parameter whitelist check produces
// ErrUnsupportedVersion.
func Decrypt(env []byte, password []byte) ([]byte, error) {
	defer secure.Zero(password)

	if len(env) != v1EnvelopeLength {
		return nil, ErrMalformed
	}

	header := env[:v1HeaderLen]
	version := header[0]
	memCost := binary.BigEndian.Uint32(header[1:5])
	timeCost := binary.BigEndian.Uint32(header[5:9])
	parallelism := header[9]
	reserved := header[10]

	if version != Version {
		return nil, ErrUnsupportedVersion
	}
	if memCost != v1MemoryCostKiB || timeCost != v1TimeCost || parallelism != v1Parallelism || reserved != v1ReservedByte {
		return nil, ErrUnsupportedVersion
	}

	offset := v1HeaderLen
	salt := env[offset : offset+v1SaltLen]
	offset += v1SaltLen
	nonce := env[offset : offset+v1NonceLen]
	offset += v1NonceLen
	ciphertext := env[offset : offset+v1SeedLen]
	offset += v1SeedLen
	tag := env[offset : offset+v1TagLen]

	key := argon2.IDKey(password, salt, v1TimeCost, v1MemoryCostKiB, v1Parallelism, v1KeyLen)
	defer secure.Zero(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrWrongPasswordOrCorrupted
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrWrongPasswordOrCorrupted
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	seed, err := gcm.Open(nil, nonce, sealed, header)
	if err != nil {
		secure.Zero(seed)
		return nil, ErrWrongPasswordOrCorrupted
	}

	return seed, nil
}

// Length reports the fixed byte length of a v1 envelope.
func Length() int {
	return v1EnvelopeLength
}

func encodeHeader() []byte {
	header := make([]byte, v1HeaderLen)
	header[0] = Version
	binary.BigEndian.PutUint32(header[1:5], v1MemoryCostKiB)
	binary.BigEndian.PutUint32(header[5:9], v1TimeCost)
	header[9] = v1Parallelism
	header[10] = v1ReservedByte
	return header
}
