// Package solana assembles and signs legacy Solana messages.
//
// No Solana SDK appears anywhere in the retrieved corpus, so the compact
// array encoding and account-ordering rule are implemented from scratch
// against the wire format spec.md §4.4.3 describes, using only the
// standard library's crypto/ed25519.
package solana

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"sort"
)

// PublicKeySize is the fixed length of a Solana account key.
const PublicKeySize = ed25519.PublicKeySize

// AccountMeta describes one account an instruction references, along
// with the signer/writable privileges it needs there.
type AccountMeta struct {
	PublicKey  ed25519.PublicKey
	IsSigner   bool
	IsWritable bool
}

// Instruction is one opaque instruction within a message.
type Instruction struct {
	ProgramID ed25519.PublicKey
	Accounts  []AccountMeta
	Data      []byte
}

// Request describes a legacy Solana message before account ordering and
// index resolution.
type Request struct {
	RecentBlockhash [32]byte
	FeePayer        ed25519.PublicKey
	Instructions    []Instruction
}

// ErrOutOfRangeAccount is returned by Sign when a message's instruction —
// its program_id_index or one of its account indices — references an
// index outside the message's own account-key table.
var ErrOutOfRangeAccount = errors.New("solana: instruction references an out-of-range account")

// ErrMalformedMessage is returned by Sign when message bytes are
// truncated or otherwise fail to parse as a legacy Solana message, or
// when the header declares no required signer.
var ErrMalformedMessage = errors.New("solana: malformed or truncated message")

// ErrTooManySigners is returned when BuildMessage resolves, or a message
// passed to Sign declares, more than one required signer. sign_solana has exactly one private key available (the
// seed's derived key), so this wallet core only supports single-fee-payer
// transfers, per spec.md's Solana Transfer data model.
var ErrTooManySigners = errors.New("solana: message requires more than one signer, which this wallet core cannot satisfy from a single seed")

type acctPrivilege struct {
	key      ed25519.PublicKey
	signer   bool
	writable bool
	order    int
}

// BuildMessage assembles the legacy Solana message for req: header byte
// triple, compact account-key array, recent blockhash, and compact
// instruction array, with accounts ordered writable-signers,
// readonly-signers, writable-nonsigners, readonly-nonsigners, fee payer
// pinned at index 0, and duplicate keys collapsed.
func BuildMessage(req Request) ([]byte, error) {
	table := newAccountTable(req.FeePayer)
	for _, ix := range req.Instructions {
		table.merge(ix.ProgramID, false, false)
		for _, acc := range ix.Accounts {
			table.merge(acc.PublicKey, acc.IsSigner, acc.IsWritable)
		}
	}

	ordered := table.ordered()
	index := make(map[string]int, len(ordered))
	for i, a := range ordered {
		index[string(a.key)] = i
	}

	numSigners, numReadonlySigned, numReadonlyUnsigned := 0, 0, 0
	for _, a := range ordered {
		if a.signer {
			numSigners++
			if !a.writable {
				numReadonlySigned++
			}
		} else if !a.writable {
			numReadonlyUnsigned++
		}
	}
	if numSigners > 1 {
		return nil, ErrTooManySigners
	}

	var buf bytes.Buffer
	buf.WriteByte(byte(numSigners))
	buf.WriteByte(byte(numReadonlySigned))
	buf.WriteByte(byte(numReadonlyUnsigned))

	writeCompactU16(&buf, uint16(len(ordered)))
	for _, a := range ordered {
		buf.Write(a.key)
	}

	buf.Write(req.RecentBlockhash[:])

	writeCompactU16(&buf, uint16(len(req.Instructions)))
	for _, ix := range req.Instructions {
		// Every account an instruction references was merged into the
		// table above, so both lookups below always succeed.
		buf.WriteByte(byte(index[string(ix.ProgramID)]))

		writeCompactU16(&buf, uint16(len(ix.Accounts)))
		for _, acc := range ix.Accounts {
			buf.WriteByte(byte(index[string(acc.PublicKey)]))
		}

		writeCompactU16(&buf, uint16(len(ix.Data)))
		buf.Write(ix.Data)
	}

	return buf.Bytes(), nil
}

// Sign validates messageBytes (produced by BuildMessage, or supplied
// directly by a host that assembled the message itself) as a well-formed
// legacy Solana message, checks that every account index it contains
// resolves within its own account-key table, then signs it with priv and
// returns the wire transaction: compact_array(signatures) || message.
// Only the single-required-signer case is supported, matching
// BuildMessage's counterpart check.
func Sign(priv ed25519.PrivateKey, messageBytes []byte) ([]byte, error) {
	numRequiredSignatures, err := validateMessage(messageBytes)
	if err != nil {
		return nil, err
	}
	if numRequiredSignatures == 0 {
		return nil, ErrMalformedMessage
	}
	if numRequiredSignatures > 1 {
		return nil, ErrTooManySigners
	}

	sig := ed25519.Sign(priv, messageBytes)

	var buf bytes.Buffer
	writeCompactU16(&buf, uint16(numRequiredSignatures))
	buf.Write(sig)
	buf.Write(messageBytes)
	return buf.Bytes(), nil
}

// validateMessage parses b as a legacy Solana message far enough to
// confirm it is well-formed and that every account index it
// contains — each instruction's program_id_index and account indices —
// resolves within b's own account-key table. It returns the header's
// required-signature count.
func validateMessage(b []byte) (int, error) {
	if len(b) < 3 {
		return 0, ErrMalformedMessage
	}
	numRequiredSignatures := int(b[0])
	offset := 3

	numAccountKeys, consumed, err := readCompactU16(b[offset:])
	if err != nil {
		return 0, ErrMalformedMessage
	}
	offset += consumed + int(numAccountKeys)*ed25519.PublicKeySize + 32 // account keys + recent blockhash
	if offset > len(b) {
		return 0, ErrMalformedMessage
	}

	numInstructions, consumed, err := readCompactU16(b[offset:])
	if err != nil {
		return 0, ErrMalformedMessage
	}
	offset += consumed

	for i := 0; i < int(numInstructions); i++ {
		if offset >= len(b) {
			return 0, ErrMalformedMessage
		}
		programIdIndex := b[offset]
		offset++
		if uint16(programIdIndex) >= numAccountKeys {
			return 0, ErrOutOfRangeAccount
		}

		numAccounts, consumed, err := readCompactU16(b[offset:])
		if err != nil {
			return 0, ErrMalformedMessage
		}
		offset += consumed
		if offset+int(numAccounts) > len(b) {
			return 0, ErrMalformedMessage
		}
		for j := 0; j < int(numAccounts); j++ {
			if uint16(b[offset+j]) >= numAccountKeys {
				return 0, ErrOutOfRangeAccount
			}
		}
		offset += int(numAccounts)

		dataLen, consumed, err := readCompactU16(b[offset:])
		if err != nil {
			return 0, ErrMalformedMessage
		}
		offset += consumed + int(dataLen)
		if offset > len(b) {
			return 0, ErrMalformedMessage
		}
	}

	return numRequiredSignatures, nil
}

func newAccountTable(feePayer ed25519.PublicKey) *accountTable {
	t := &accountTable{index: make(map[string]*acctPrivilege)}
	t.merge(feePayer, true, true)
	return t
}

type accountTable struct {
	entries []*acctPrivilege
	index   map[string]*acctPrivilege
}

func (t *accountTable) merge(key ed25519.PublicKey, signer, writable bool) {
	k := string(key)
	if existing, ok := t.index[k]; ok {
		existing.signer = existing.signer || signer
		existing.writable = existing.writable || writable
		return
	}
	entry := &acctPrivilege{key: append(ed25519.PublicKey(nil), key...), signer: signer, writable: writable, order: len(t.entries)}
	t.entries = append(t.entries, entry)
	t.index[k] = entry
}

func (t *accountTable) ordered() []*acctPrivilege {
	out := make([]*acctPrivilege, len(t.entries))
	copy(out, t.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return bucketRank(out[i]) < bucketRank(out[j])
	})
	return out
}

func bucketRank(a *acctPrivilege) int {
	switch {
	case a.signer && a.writable:
		return 0
	case a.signer && !a.writable:
		return 1
	case !a.signer && a.writable:
		return 2
	default:
		return 3
	}
}

// writeCompactU16 encodes n as Solana's compact-u16: 1-3 bytes, 7 payload
// bits per byte, high bit of each byte as a continuation flag.
func writeCompactU16(buf *bytes.Buffer, n uint16) {
	v := n
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			buf.WriteByte(b | 0x80)
			continue
		}
		buf.WriteByte(b)
		return
	}
}

// readCompactU16 decodes a compact-u16 from the front of b, returning the
// value and the number of bytes consumed.
func readCompactU16(b []byte) (uint16, int, error) {
	var value uint32
	for i := 0; i < 3; i++ {
		if i >= len(b) {
			return 0, 0, errors.New("solana: truncated compact-u16")
		}
		byteVal := b[i]
		value |= uint32(byteVal&0x7f) << (7 * i)
		if byteVal&0x80 == 0 {
			return uint16(value), i + 1, nil
		}
	}
	return 0, 0, errors.New("solana: compact-u16 exceeds 3 bytes")
}
