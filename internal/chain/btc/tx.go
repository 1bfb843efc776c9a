// Package btc constructs and signs native-segwit (P2WPKH) Bitcoin
// transactions.
//
// BIP-143 sighash computation and segwit wire serialization are delegated
// to btcsuite/btcd's wire and txscript packages, the same Bitcoin stack
// already used elsewhere in this module for BIP-32 derivation.
package btc

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/jasonyou1995/walletcore/internal/address"
	"github.com/jasonyou1995/walletcore/internal/hdkey"
)

// DefaultSequence is a non-final sequence that keeps lock_time enforced.
// It does not signal BIP-125 replace-by-fee, which needs a sequence below
// 0xFFFFFFFE.
const DefaultSequence = uint32(0xFFFFFFFE)

// UTXO is one input the caller has pre-selected for spending.
type UTXO struct {
	PrevTxHash      chainhash.Hash
	PrevIndex       uint32
	ScriptPubKey    []byte
	AmountSats      int64
	DerivationIndex uint32
	Sequence        uint32
}

// Output is one transaction output.
type Output struct {
	ScriptPubKey []byte
	AmountSats   int64
}

// Request carries every field of a P2WPKH transfer, per spec.md §3. The
// core does not select UTXOs; Inputs is whatever the caller has already
// chosen, and any caller-provided change output is just another entry in
// Outputs.
type Request struct {
	Inputs   []UTXO
	Outputs  []Output
	LockTime uint32
}

// ErrInsufficientFunds is returned when the sum of input amounts is less
// than the sum of output amounts. The core does not compute or enforce a
// minimum fee; the difference between inputs and outputs is the fee,
// implicitly.
var ErrInsufficientFunds = errors.New("btc: sum of inputs is less than sum of outputs")

// Sign derives the signing key for each input from seed at
// m/84'/coin'/0'/0/derivation_index, computes its BIP-143 sighash, signs
// with low-S ECDSA, and returns the serialized segwit transaction.
func Sign(seed []byte, network address.Network, req Request) ([]byte, error) {
	if err := checkFunds(req); err != nil {
		return nil, err
	}

	tx := wire.NewMsgTx(2)
	tx.LockTime = req.LockTime

	prevOuts := txscript.NewMultiPrevOutFetcher(nil)
	for _, in := range req.Inputs {
		outpoint := wire.OutPoint{Hash: in.PrevTxHash, Index: in.PrevIndex}
		sequence := in.Sequence
		if sequence == 0 {
			sequence = DefaultSequence
		}
		tx.AddTxIn(&wire.TxIn{PreviousOutPoint: outpoint, Sequence: sequence})
		prevOuts.AddPrevOut(outpoint, &wire.TxOut{Value: in.AmountSats, PkScript: in.ScriptPubKey})
	}
	for _, out := range req.Outputs {
		tx.AddTxOut(&wire.TxOut{Value: out.AmountSats, PkScript: out.ScriptPubKey})
	}

	sigHashes := txscript.NewTxSigHashes(tx, prevOuts)

	for i, in := range req.Inputs {
		pathStr := fmt.Sprintf("m/84'/%d'/0'/0/%d", network.CoinType(), in.DerivationIndex)
		path, err := hdkey.ParsePath(pathStr)
		if err != nil {
			return nil, err
		}
		priv, err := hdkey.DeriveSecp256k1(seed, path)
		if err != nil {
			return nil, err
		}

		witness, err := signInput(priv, tx, i, in.AmountSats, sigHashes)
		priv.Zero()
		if err != nil {
			return nil, err
		}
		tx.TxIn[i].Witness = witness
	}

	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func signInput(priv *btcec.PrivateKey, tx *wire.MsgTx, idx int, amount int64, sigHashes *txscript.TxSigHashes) (wire.TxWitness, error) {
	pub := priv.PubKey()
	compressed := pub.SerializeCompressed()
	scriptCode, err := scriptCodeFor(compressed)
	if err != nil {
		return nil, err
	}

	sigHash, err := txscript.CalcWitnessSigHash(scriptCode, sigHashes, txscript.SigHashAll, tx, idx, amount)
	if err != nil {
		return nil, err
	}

	// btcec's Sign already produces a canonical, low-S (BIP-62) signature.
	sig := ecdsa.Sign(priv, sigHash)
	sigBytes := append(sig.Serialize(), byte(txscript.SigHashAll))

	return wire.TxWitness{sigBytes, compressed}, nil
}

// scriptCodeFor builds the P2PKH-shaped script code BIP-143 requires as
// the signed "scriptCode" for a P2WPKH input: 76a914{HASH160}88ac (the
// 0x19 length prefix is added when the sighash preimage is serialized).
func scriptCodeFor(compressedPubKey []byte) ([]byte, error) {
	hash := btcutil.Hash160(compressedPubKey)
	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_DUP).
		AddOp(txscript.OP_HASH160).
		AddData(hash).
		AddOp(txscript.OP_EQUALVERIFY).
		AddOp(txscript.OP_CHECKSIG).
		Script()
}

func checkFunds(req Request) error {
	var inSum, outSum int64
	for _, in := range req.Inputs {
		inSum += in.AmountSats
	}
	for _, out := range req.Outputs {
		outSum += out.AmountSats
	}
	if inSum < outSum {
		return ErrInsufficientFunds
	}
	return nil
}
