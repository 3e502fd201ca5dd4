package crypto

import (
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"testing"
)

var mintTicketSchema = InstructionSchema{
	PrimaryType: "MintTicket",
	Fields: []Field{
		{Name: "event", Type: "address"},
		{Name: "ticketAddress", Type: "bytes32"},
		{Name: "ownerCommitment", Type: "bytes32"},
	},
}

func TestInstructionSignAndVerify(t *testing.T) {
	signer, _ := GenerateKey()
	is := NewInstructionSigner(DefaultDomain())

	msg := apitypes.TypedDataMessage{
		"event":           signer.Address().Hex(),
		"ticketAddress":   "0x01",
		"ownerCommitment": "0x02",
	}

	sig, err := is.Sign(signer, mintTicketSchema, msg)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	ok, err := is.Verify(mintTicketSchema, msg, sig, signer.Address())
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Error("expected signature to verify against signer address")
	}

	other, _ := GenerateKey()
	ok, err = is.Verify(mintTicketSchema, msg, sig, other.Address())
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Error("signature should not verify against unrelated address")
	}
}

func TestInstructionRecoverSigner(t *testing.T) {
	signer, _ := GenerateKey()
	is := NewInstructionSigner(DefaultDomain())

	msg := apitypes.TypedDataMessage{
		"event":           signer.Address().Hex(),
		"ticketAddress":   "0x01",
		"ownerCommitment": "0x02",
	}

	sig, err := is.Sign(signer, mintTicketSchema, msg)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	recovered, err := is.RecoverSigner(mintTicketSchema, msg, sig)
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if recovered != signer.Address() {
		t.Errorf("recovered = %s, want %s", recovered.Hex(), signer.Address().Hex())
	}
}

func TestInstructionHashChangesWithMessage(t *testing.T) {
	is := NewInstructionSigner(DefaultDomain())
	msg1 := apitypes.TypedDataMessage{"event": "0xaa", "ticketAddress": "0x01", "ownerCommitment": "0x02"}
	msg2 := apitypes.TypedDataMessage{"event": "0xbb", "ticketAddress": "0x01", "ownerCommitment": "0x02"}

	h1, err := is.Hash(mintTicketSchema, msg1)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := is.Hash(mintTicketSchema, msg2)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if string(h1) == string(h2) {
		t.Error("expected different messages to hash differently")
	}
}
