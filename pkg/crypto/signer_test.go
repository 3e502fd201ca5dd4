package crypto

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestGenerateKey(t *testing.T) {
	signer, err := GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	if signer.Address() == (common.Address{}) {
		t.Error("generated zero address")
	}

	privHex := signer.PrivateKeyHex()
	if len(privHex) != 64 {
		t.Errorf("private key hex length = %d, want 64", len(privHex))
	}

	pubHex := signer.PublicKeyHex()
	if len(pubHex) != 130 {
		t.Errorf("public key hex length = %d, want 130", len(pubHex))
	}
}

func TestFromPrivateKeyHex(t *testing.T) {
	signer1, _ := GenerateKey()
	privHex := signer1.PrivateKeyHex()
	expectedAddr := signer1.Address()

	signer2, err := FromPrivateKeyHex(privHex)
	if err != nil {
		t.Fatalf("failed to load key: %v", err)
	}

	if signer2.Address() != expectedAddr {
		t.Errorf("address = %s, want %s", signer2.Address().Hex(), expectedAddr.Hex())
	}

	if signer2.PrivateKeyHex() != privHex {
		t.Errorf("private key mismatch after reload")
	}
}

func TestSignAndRecoverAddress(t *testing.T) {
	signer, _ := GenerateKey()
	digest := common.HexToHash("0x01020304050607080102030405060708010203040506070801020304050607").Bytes()

	signature, err := signer.Sign(digest)
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	if len(signature) != 65 {
		t.Errorf("signature length = %d, want 65", len(signature))
	}

	recovered, err := RecoverAddress(digest, signature)
	if err != nil {
		t.Fatalf("failed to recover address: %v", err)
	}
	if recovered != signer.Address() {
		t.Errorf("recovered address = %s, want %s", recovered.Hex(), signer.Address().Hex())
	}
}

func TestSignRejectsWrongLengthHash(t *testing.T) {
	signer, _ := GenerateKey()
	if _, err := signer.Sign([]byte{1, 2, 3}); err == nil {
		t.Error("expected error signing a non-32-byte hash")
	}
}

func TestRecoverAddressRejectsMalformedInput(t *testing.T) {
	signer, _ := GenerateKey()
	digest := common.HexToHash("0x01").Bytes()

	if _, err := RecoverAddress(digest, []byte{1, 2, 3}); err == nil {
		t.Error("expected error recovering from a short signature")
	}
	if _, err := RecoverAddress([]byte("short"), make([]byte, 65)); err == nil {
		t.Error("expected error recovering from a short hash")
	}

	validSig := make([]byte, 65)
	recovered, err := RecoverAddress(digest, validSig)
	if err == nil && recovered == signer.Address() {
		t.Error("zeroed signature should not recover the signer's address")
	}
}
