// Package evm constructs and signs EIP-1559 typed Ethereum transactions.
//
// RLP encoding, the EIP-1559 signing hash, and low-S/recovery-id
// normalization are all delegated to go-ethereum's core/types and crypto
// packages — the reference implementation of the format this package
// needs to produce, and already this module's primary Ethereum dependency.
package evm

import (
	"crypto/ecdsa"
	"errors"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// AccessListEntry mirrors one entry of an EIP-2930/EIP-1559 access list.
type AccessListEntry struct {
	Address     common.Address
	StorageKeys []common.Hash
}

// Request carries every field of an EIP-1559 transfer, per spec.md §3.
type Request struct {
	ChainID              uint64
	Nonce                uint64
	To                   common.Address
	Value                *big.Int
	Data                 []byte
	MaxPriorityFeePerGas uint64
	MaxFeePerGas         uint64
	GasLimit             uint64
	AccessList           []AccessListEntry
}

// ErrInvalidChainID is returned when ChainID is zero; mainnet semantics
// require a nonzero EIP-155/EIP-1559 chain identifier.
var ErrInvalidChainID = errors.New("evm: chain_id must be nonzero")

// Sign builds the EIP-1559 DynamicFeeTx described by req, signs it with
// priv, and returns the canonical `0x02 || rlp([...])` wire bytes.
func Sign(priv *btcec.PrivateKey, req Request) ([]byte, error) {
	if req.ChainID == 0 {
		return nil, ErrInvalidChainID
	}

	chainID := new(big.Int).SetUint64(req.ChainID)

	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	inner := &types.DynamicFeeTx{
		ChainID:    chainID,
		Nonce:      req.Nonce,
		GasTipCap:  new(big.Int).SetUint64(req.MaxPriorityFeePerGas),
		GasFeeCap:  new(big.Int).SetUint64(req.MaxFeePerGas),
		Gas:        req.GasLimit,
		To:         &req.To,
		Value:      value,
		Data:       req.Data,
		AccessList: toAccessList(req.AccessList),
	}

	signer := types.NewLondonSigner(chainID)
	ecdsaPriv := toECDSA(priv)

	signedTx, err := types.SignNewTx(ecdsaPriv, signer, inner)
	if err != nil {
		return nil, err
	}

	return signedTx.MarshalBinary()
}

// SigHash returns the Keccak-256 signing hash for req without signing it,
// used by tests to check the recovered signer matches the expected
// address.
func SigHash(req Request) (common.Hash, error) {
	if req.ChainID == 0 {
		return common.Hash{}, ErrInvalidChainID
	}
	chainID := new(big.Int).SetUint64(req.ChainID)

	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	inner := &types.DynamicFeeTx{
		ChainID:    chainID,
		Nonce:      req.Nonce,
		GasTipCap:  new(big.Int).SetUint64(req.MaxPriorityFeePerGas),
		GasFeeCap:  new(big.Int).SetUint64(req.MaxFeePerGas),
		Gas:        req.GasLimit,
		To:         &req.To,
		Value:      value,
		Data:       req.Data,
		AccessList: toAccessList(req.AccessList),
	}

	signer := types.NewLondonSigner(chainID)
	return signer.Hash(types.NewTx(inner)), nil
}

// RecoverSender returns the address that produced signedTxBytes,
// recomputed from the signature rather than trusted as an input.
func RecoverSender(signedTxBytes []byte) (common.Address, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(signedTxBytes); err != nil {
		return common.Address{}, err
	}
	signer := types.LatestSignerForChainID(tx.ChainId())
	return types.Sender(signer, tx)
}

func toAccessList(entries []AccessListEntry) types.AccessList {
	if len(entries) == 0 {
		return types.AccessList{}
	}
	list := make(types.AccessList, len(entries))
	for i, e := range entries {
		list[i] = types.AccessTuple{Address: e.Address, StorageKeys: e.StorageKeys}
	}
	return list
}

func toECDSA(priv *btcec.PrivateKey) *ecdsa.PrivateKey {
	return priv.ToECDSA()
}
