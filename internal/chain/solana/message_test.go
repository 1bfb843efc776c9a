package solana

import (
	"bytes"
	"crypto/ed25519"
	"testing"
)

func mustGenerateKey(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return pub, priv
}

func TestBuildMessageFeePayerIsIndexZero(t *testing.T) {
	feePayerPub, _ := mustGenerateKey(t)
	programID, _ := mustGenerateKey(t)
	otherAccountPub, _ := mustGenerateKey(t)

	req := Request{
		FeePayer: feePayerPub,
		Instructions: []Instruction{
			{
				ProgramID: programID,
				Accounts: []AccountMeta{
					{PublicKey: otherAccountPub, IsSigner: false, IsWritable: true},
				},
				Data: []byte{1, 2, 3},
			},
		},
	}

	message, err := BuildMessage(req)
	if err != nil {
		t.Fatalf("BuildMessage: %v", err)
	}

	if message[0] != 1 {
		t.Fatalf("expected exactly 1 required signature, got %d", message[0])
	}

	accountKeysLen, consumed, err := readCompactU16(message[3:])
	if err != nil {
		t.Fatalf("readCompactU16: %v", err)
	}
	if accountKeysLen != 3 {
		t.Fatalf("expected 3 account keys (fee payer, writable account, program id), got %d", accountKeysLen)
	}

	firstKeyOffset := 3 + consumed
	if !ed25519.PublicKey(message[firstKeyOffset : firstKeyOffset+32]).Equal(feePayerPub) {
		t.Fatal("expected the fee payer to be the first account key")
	}
}

func TestBuildMessageCollapsesDuplicateAccounts(t *testing.T) {
	feePayerPub, _ := mustGenerateKey(t)
	programID, _ := mustGenerateKey(t)

	req := Request{
		FeePayer: feePayerPub,
		Instructions: []Instruction{
			{ProgramID: programID, Accounts: []AccountMeta{{PublicKey: feePayerPub, IsSigner: true, IsWritable: true}}, Data: []byte{1}},
			{ProgramID: programID, Accounts: []AccountMeta{{PublicKey: feePayerPub, IsSigner: true, IsWritable: true}}, Data: []byte{2}},
		},
	}

	message, err := BuildMessage(req)
	if err != nil {
		t.Fatalf("BuildMessage: %v", err)
	}

	accountKeysLen, _, err := readCompactU16(message[3:])
	if err != nil {
		t.Fatalf("readCompactU16: %v", err)
	}
	if accountKeysLen != 2 {
		t.Fatalf("expected the duplicate fee payer reference to collapse to 2 total keys, got %d", accountKeysLen)
	}
}

func TestBuildMessageRejectsMultipleSigners(t *testing.T) {
	feePayerPub, _ := mustGenerateKey(t)
	programID, _ := mustGenerateKey(t)
	secondSignerPub, _ := mustGenerateKey(t)

	req := Request{
		FeePayer: feePayerPub,
		Instructions: []Instruction{
			{ProgramID: programID, Accounts: []AccountMeta{{PublicKey: secondSignerPub, IsSigner: true, IsWritable: false}}},
		},
	}

	if _, err := BuildMessage(req); err != ErrTooManySigners {
		t.Fatalf("expected ErrTooManySigners, got %v", err)
	}
}

func TestSignRoundTrip(t *testing.T) {
	feePayerPub, feePayerPriv := mustGenerateKey(t)
	programID, _ := mustGenerateKey(t)

	message, err := BuildMessage(Request{
		FeePayer:     feePayerPub,
		Instructions: []Instruction{{ProgramID: programID, Data: []byte{9}}},
	})
	if err != nil {
		t.Fatalf("BuildMessage: %v", err)
	}

	signedTx, err := Sign(feePayerPriv, message)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	numSigs, consumed, err := readCompactU16(signedTx)
	if err != nil {
		t.Fatalf("readCompactU16: %v", err)
	}
	if numSigs != 1 {
		t.Fatalf("expected 1 signature, got %d", numSigs)
	}

	sig := signedTx[consumed : consumed+ed25519.SignatureSize]
	if !ed25519.Verify(feePayerPub, message, sig) {
		t.Fatal("expected the embedded signature to verify against the message")
	}
}

func TestSignRejectsOutOfRangeAccountIndex(t *testing.T) {
	feePayerPub, feePayerPriv := mustGenerateKey(t)
	programID, _ := mustGenerateKey(t)

	var buf bytes.Buffer
	buf.WriteByte(1) // numRequiredSignatures
	buf.WriteByte(0) // numReadonlySigned
	buf.WriteByte(0) // numReadonlyUnsigned
	writeCompactU16(&buf, 2)
	buf.Write(feePayerPub)
	buf.Write(programID)
	buf.Write(make([]byte, 32)) // recent blockhash
	writeCompactU16(&buf, 1)    // 1 instruction
	buf.WriteByte(5)            // program_id_index: only 0 and 1 exist
	writeCompactU16(&buf, 0)    // 0 accounts
	writeCompactU16(&buf, 0)    // 0 data bytes

	if _, err := Sign(feePayerPriv, buf.Bytes()); err != ErrOutOfRangeAccount {
		t.Fatalf("expected ErrOutOfRangeAccount, got %v", err)
	}
}

func TestSignRejectsTruncatedMessage(t *testing.T) {
	_, feePayerPriv := mustGenerateKey(t)

	if _, err := Sign(feePayerPriv, []byte{1, 0}); err != ErrMalformedMessage {
		t.Fatalf("expected ErrMalformedMessage, got %v", err)
	}
}

func TestCompactU16RoundTrip(t *testing.T) {
	for _, n := range []uint16{0, 1, 127, 128, 16383, 16384, 65535} {
		var buf bytes.Buffer
		writeCompactU16(&buf, n)
		got, consumed, err := readCompactU16(buf.Bytes())
		if err != nil {
			t.Fatalf("readCompactU16(%d): %v", n, err)
		}
		if got != n {
			t.Fatalf("compact-u16 round trip: got %d, want %d", got, n)
		}
		if consumed != buf.Len() {
			t.Fatalf("compact-u16 consumed %d bytes, wrote %d", consumed, buf.Len())
		}
	}
}
