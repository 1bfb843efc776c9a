// Package walletcore is the synchronous, stateless facade this wallet
// core exposes across an FFI boundary: every operation takes owned data
// in, returns owned data or a tagged *Error out, and never blocks on I/O,
// holds state between calls, or calls back into the host.
package walletcore

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/jasonyou1995/walletcore/internal/address"
	chainbtc "github.com/jasonyou1995/walletcore/internal/chain/btc"
	chainevm "github.com/jasonyou1995/walletcore/internal/chain/evm"
	chainsol "github.com/jasonyou1995/walletcore/internal/chain/solana"
	"github.com/jasonyou1995/walletcore/internal/envelope"
	"github.com/jasonyou1995/walletcore/internal/hdkey"
	"github.com/jasonyou1995/walletcore/internal/mnemonic"
	"github.com/jasonyou1995/walletcore/internal/secure"
)

// GenerateMnemonic samples fresh OS entropy and returns a new mnemonic of
// wordCount words (12 or 24).
func GenerateMnemonic(wordCount int) (string, error) {
	phrase, err := mnemonic.Generate(wordCount)
	if err != nil {
		return "", newError(ErrInvalidParameter, "unsupported word count", err)
	}
	return phrase, nil
}

// ValidateMnemonic reports whether phrase is a well-formed BIP-39
// mnemonic. It never returns an error: a malformed phrase simply
// validates to false.
func ValidateMnemonic(phrase string) bool {
	return mnemonic.Validate(phrase)
}

// MnemonicToSeed derives the 64-byte BIP-39 seed for phrase and
// passphrase. The returned slice is owned by the caller, who must erase
// it with secure.Zero-equivalent handling on every exit path.
func MnemonicToSeed(phrase, passphrase string) ([]byte, error) {
	buf, err := mnemonic.ToSeed(phrase, passphrase)
	if err != nil {
		return nil, newError(ErrInvalidMnemonic, "mnemonic failed validation or seed derivation", err)
	}
	seed := append([]byte(nil), buf.Bytes()...)
	buf.Release()
	return seed, nil
}

// EncryptSeed seals a 64-byte BIP-39 seed under password into a
// self-describing envelope. Both seed and password are erased before
// return, regardless of outcome.
func EncryptSeed(seed, password []byte) ([]byte, error) {
	env, err := envelope.Encrypt(seed, password)
	if err != nil {
		return nil, newError(ErrInvalidParameter, "seed must be exactly 64 bytes", err)
	}
	return env, nil
}

// DecryptSeed opens env with password and returns the 64-byte seed. The
// caller owns the returned slice and must erase it on every exit path.
func DecryptSeed(env, password []byte) ([]byte, error) {
	seed, err := envelope.Decrypt(env, password)
	if err != nil {
		switch {
		case errors.Is(err, envelope.ErrUnsupportedVersion):
			return nil, newError(ErrUnsupportedVersion, "envelope version or KDF parameters not recognized", err)
		case errors.Is(err, envelope.ErrMalformed):
			return nil, newError(ErrInvalidParameter, "envelope has the wrong length to be well-formed", err)
		default:
			return nil, newError(ErrWrongPasswordOrCorrupted, "wrong password or corrupted envelope", err)
		}
	}
	return seed, nil
}

// DeriveAddresses derives one address per index in indices, on chain, from
// seed. network only affects ChainBTC derivations and address encoding.
func DeriveAddresses(seed []byte, chain Chain, network BTCNetwork, indices []uint32) ([]DerivedAccount, error) {
	out := make([]DerivedAccount, 0, len(indices))
	for _, index := range indices {
		account, err := deriveOne(seed, chain, network, index)
		if err != nil {
			return nil, err
		}
		out = append(out, account)
	}
	return out, nil
}

func deriveOne(seed []byte, chain Chain, network BTCNetwork, index uint32) (DerivedAccount, error) {
	switch chain {
	case ChainEVM:
		pathStr := fmt.Sprintf(hdkey.EVMPathTemplate, index)
		path, err := hdkey.ParsePath(pathStr)
		if err != nil {
			return DerivedAccount{}, newError(ErrInvalidParameter, "malformed EVM derivation path", err)
		}
		pub, err := hdkey.PublicKeySecp256k1(seed, path)
		if err != nil {
			return DerivedAccount{}, wrapDerivationFailure(err)
		}
		return DerivedAccount{Chain: ChainEVM, Index: index, Path: pathStr, Address: address.EVMHex(pub)}, nil

	case ChainBTC:
		net := toAddressNetwork(network)
		template := hdkey.BTCMainnetPathTemplate
		if net == address.Testnet {
			template = hdkey.BTCTestnetPathTemplate
		}
		pathStr := fmt.Sprintf(template, index)
		path, err := hdkey.ParsePath(pathStr)
		if err != nil {
			return DerivedAccount{}, newError(ErrInvalidParameter, "malformed BTC derivation path", err)
		}
		pub, err := hdkey.PublicKeySecp256k1(seed, path)
		if err != nil {
			return DerivedAccount{}, wrapDerivationFailure(err)
		}
		addr, err := address.BTC(pub, net)
		if err != nil {
			return DerivedAccount{}, newError(ErrInternal, "failed to encode bech32 address", err)
		}
		return DerivedAccount{Chain: ChainBTC, Index: index, Path: pathStr, Address: addr}, nil

	case ChainSolana:
		pathStr := fmt.Sprintf(hdkey.SolanaPathTemplate, index)
		path, err := hdkey.ParsePath(pathStr)
		if err != nil {
			return DerivedAccount{}, newError(ErrInvalidParameter, "malformed Solana derivation path", err)
		}
		pub, _, err := hdkey.DeriveEd25519(seed, path)
		if err != nil {
			return DerivedAccount{}, wrapDerivationFailure(err)
		}
		return DerivedAccount{Chain: ChainSolana, Index: index, Path: pathStr, Address: address.Solana(pub)}, nil

	default:
		return DerivedAccount{}, newError(ErrInvalidParameter, "unknown chain", nil)
	}
}

// SignEVM derives the signing key at req.DerivationIndex and returns the
// signed, RLP-encoded EIP-1559 transaction bytes.
func SignEVM(seed []byte, req EVMTransactionRequest) ([]byte, error) {
	if !common.IsHexAddress(req.ToHex) {
		return nil, newError(ErrInvalidParameter, "to address is not a valid hex address", nil)
	}

	pathStr := fmt.Sprintf(hdkey.EVMPathTemplate, req.DerivationIndex)
	path, err := hdkey.ParsePath(pathStr)
	if err != nil {
		return nil, newError(ErrInvalidParameter, "malformed EVM derivation path", err)
	}
	priv, err := hdkey.DeriveSecp256k1(seed, path)
	if err != nil {
		return nil, wrapDerivationFailure(err)
	}
	defer priv.Zero()

	accessList, err := toChainAccessList(req.AccessList)
	if err != nil {
		return nil, err
	}

	signed, err := chainevm.Sign(priv, chainevm.Request{
		ChainID:              req.ChainID,
		Nonce:                req.Nonce,
		To:                   common.HexToAddress(req.ToHex),
		Value:                req.ValueWei,
		Data:                 req.Data,
		MaxPriorityFeePerGas: req.MaxPriorityFeePerGas,
		MaxFeePerGas:         req.MaxFeePerGas,
		GasLimit:             req.GasLimit,
		AccessList:           accessList,
	})
	if err != nil {
		if errors.Is(err, chainevm.ErrInvalidChainID) {
			return nil, newError(ErrInvalidParameter, "chain_id must be nonzero", err)
		}
		return nil, newError(ErrInternal, "failed to sign EIP-1559 transaction", err)
	}
	return signed, nil
}

// SignBTC derives the signing key for each input and returns the
// serialized, witness-signed segwit transaction.
func SignBTC(seed []byte, req BTCTransactionRequest) ([]byte, error) {
	net := toAddressNetwork(req.Network)

	inputs := make([]chainbtc.UTXO, len(req.Inputs))
	for i, in := range req.Inputs {
		hash, err := chainhash.NewHashFromStr(in.PrevTxHashHex)
		if err != nil {
			return nil, newError(ErrInvalidParameter, "malformed previous transaction hash", err)
		}
		inputs[i] = chainbtc.UTXO{
			PrevTxHash:      *hash,
			PrevIndex:       in.PrevIndex,
			ScriptPubKey:    in.ScriptPubKey,
			AmountSats:      in.AmountSats,
			DerivationIndex: in.DerivationIndex,
			Sequence:        in.Sequence,
		}
	}

	outputs := make([]chainbtc.Output, len(req.Outputs))
	for i, out := range req.Outputs {
		outputs[i] = chainbtc.Output{ScriptPubKey: out.ScriptPubKey, AmountSats: out.AmountSats}
	}

	signed, err := chainbtc.Sign(seed, net, chainbtc.Request{Inputs: inputs, Outputs: outputs, LockTime: req.LockTime})
	if err != nil {
		switch {
		case errors.Is(err, chainbtc.ErrInsufficientFunds):
			return nil, newError(ErrInsufficientFunds, "sum of inputs is less than sum of outputs", err)
		case errors.Is(err, hdkey.ErrDerivationFailed):
			return nil, wrapDerivationFailure(err)
		default:
			return nil, newError(ErrInternal, "failed to sign segwit transaction", err)
		}
	}
	return signed, nil
}

// SignSolana derives the signing key at req.DerivationIndex and signs
// req.MessageBytes, an already-assembled legacy Solana message. Returns
// compact_array(signatures) || message. The message is validated — every
// account index it contains, including each instruction's
// program_id_index, must resolve within the message's own account-key
// table — before it is signed.
func SignSolana(seed []byte, req SolanaTransactionRequest) ([]byte, error) {
	pathStr := fmt.Sprintf(hdkey.SolanaPathTemplate, req.DerivationIndex)
	path, err := hdkey.ParsePath(pathStr)
	if err != nil {
		return nil, newError(ErrInvalidParameter, "malformed Solana derivation path", err)
	}
	_, priv, err := hdkey.DeriveEd25519(seed, path)
	if err != nil {
		return nil, wrapDerivationFailure(err)
	}
	defer secure.Zero(priv)

	signed, err := chainsol.Sign(priv, req.MessageBytes)
	if err != nil {
		switch {
		case errors.Is(err, chainsol.ErrOutOfRangeAccount):
			return nil, newError(ErrInvalidParameter, "message references an out-of-range account index", err)
		case errors.Is(err, chainsol.ErrTooManySigners):
			return nil, newError(ErrInvalidParameter, "message requires more than one signer", err)
		case errors.Is(err, chainsol.ErrMalformedMessage):
			return nil, newError(ErrInvalidParameter, "message is malformed or truncated", err)
		default:
			return nil, newError(ErrInternal, "failed to sign solana message", err)
		}
	}
	return signed, nil
}

func toAddressNetwork(n BTCNetwork) address.Network {
	if n == BTCTestnet {
		return address.Testnet
	}
	return address.Mainnet
}

func toChainAccessList(entries []AccessListEntry) ([]chainevm.AccessListEntry, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	out := make([]chainevm.AccessListEntry, len(entries))
	for i, e := range entries {
		if !common.IsHexAddress(e.AddressHex) {
			return nil, newError(ErrInvalidParameter, "access list address is not a valid hex address", nil)
		}
		keys := make([]common.Hash, len(e.StorageKeysHex))
		for j, k := range e.StorageKeysHex {
			keys[j] = common.HexToHash(k)
		}
		out[i] = chainevm.AccessListEntry{Address: common.HexToAddress(e.AddressHex), StorageKeys: keys}
	}
	return out, nil
}

func wrapDerivationFailure(err error) *Error {
	return newError(ErrDerivationFailed, "key derivation failed for the requested path", err)
}
