// Package mnemonic implements BIP-39 mnemonic generation, validation, and
// seed derivation.
//
// The heavy lifting (wordlist, entropy/checksum split, PBKDF2-HMAC-SHA512
// seed stretching) is delegated to tyler-smith/go-bip39, which already
// performs the NFKD normalization BIP-39 requires before hashing. This
// package narrows that general-purpose library down to the two word
// counts (12, 24) the wallet core supports and enforces the seed's fixed
// 64-byte length and erasure discipline.
package mnemonic

import (
	"errors"
	"strings"

	"github.com/tyler-smith/go-bip39"

	"github.com/jasonyou1995/walletcore/internal/secure"
)

// SeedLength is the fixed length, in bytes, of a BIP-39 seed.
const SeedLength = 64

// Supported word counts and the entropy bit-lengths they correspond to.
const (
	WordCount12 = 12
	WordCount24 = 24

	entropyBits12 = 128
	entropyBits24 = 256
)

// ErrInvalidWordCount is returned when a caller asks for a word count this
// wallet core does not support.
var ErrInvalidWordCount = errors.New("mnemonic: word count must be 12 or 24")

// ErrInvalidMnemonic covers every way a mnemonic phrase can fail to
// validate: wrong word count, a word outside the BIP-39 list, or a bad
// checksum. The three cases are deliberately folded into one error so
// that a caller cannot learn which check failed from the error value
// alone, per the wallet core's constant-error-surface requirement.
var ErrInvalidMnemonic = errors.New("mnemonic: invalid mnemonic phrase")

// Generate samples fresh OS entropy and returns a new, normalized mnemonic
// of wordCount words (12 or 24).
func Generate(wordCount int) (string, error) {
	bits, err := entropyBitsFor(wordCount)
	if err != nil {
		return "", err
	}

	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", err
	}
	defer secure.Zero(entropy)

	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", err
	}

	return Normalize(phrase), nil
}

// Validate reports whether phrase is a well-formed BIP-39 mnemonic of 12
// or 24 words with a correct checksum, drawn entirely from the BIP-39
// English wordlist.
func Validate(phrase string) bool {
	words := strings.Fields(Normalize(phrase))
	if len(words) != WordCount12 && len(words) != WordCount24 {
		return false
	}
	return bip39.IsMnemonicValid(strings.Join(words, " "))
}

// ToSeed derives the 64-byte BIP-39 seed for phrase and passphrase. The
// returned buffer is owned by the caller, who must Release it (or zero it
// directly) on every exit path.
func ToSeed(phrase, passphrase string) (*secure.Buffer, error) {
	if !Validate(phrase) {
		return nil, ErrInvalidMnemonic
	}

	seed, err := bip39.NewSeedWithErrorChecking(Normalize(phrase), passphrase)
	if err != nil {
		return nil, ErrInvalidMnemonic
	}
	if len(seed) != SeedLength {
		secure.Zero(seed)
		return nil, errors.New("mnemonic: derived seed has unexpected length")
	}

	return secure.NewBuffer(seed), nil
}

// Normalize applies the mnemonic normalization rule used for every
// subsequent operation: casefold to lowercase and collapse internal
// whitespace to single spaces. Full NFKD normalization of each word is
// performed by the underlying BIP-39 seed derivation; this step only
// canonicalizes the phrase's shape for comparison and tokenization.
func Normalize(phrase string) string {
	fields := strings.Fields(strings.ToLower(phrase))
	return strings.Join(fields, " ")
}

func entropyBitsFor(wordCount int) (int, error) {
	switch wordCount {
	case WordCount12:
		return entropyBits12, nil
	case WordCount24:
		return entropyBits24, nil
	default:
		return 0, ErrInvalidWordCount
	}
}
