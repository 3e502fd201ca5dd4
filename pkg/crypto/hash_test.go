package crypto

import "testing"

func TestCommitDependsOnOwnerAndSecret(t *testing.T) {
	signerA, _ := GenerateKey()
	signerB, _ := GenerateKey()
	secret1, _ := RandomSecret()
	secret2, _ := RandomSecret()

	c1 := Commit(signerA.Address(), secret1)
	c2 := Commit(signerA.Address(), secret2)
	c3 := Commit(signerB.Address(), secret1)

	if c1 == c2 {
		t.Error("commitments with different secrets collided")
	}
	if c1 == c3 {
		t.Error("commitments with different owners collided")
	}
}

func TestNullifierSeedDeterministic(t *testing.T) {
	secret, _ := RandomSecret()
	if NullifierSeed(secret) != NullifierSeed(secret) {
		t.Error("nullifier seed is not deterministic")
	}
}

func TestDeriveAddressesUseDistinctDomains(t *testing.T) {
	secret, _ := RandomSecret()
	var seed [32]byte
	copy(seed[:], secret[:])

	ticketAddr := DeriveTicketAddress(seed)
	nullifierAddr := DeriveNullifierAddress(secret)

	if ticketAddr == nullifierAddr {
		t.Error("ticket and nullifier addresses collided for related inputs")
	}
}

func TestHAddrDiffersFromH(t *testing.T) {
	signer, _ := GenerateKey()
	secret, _ := RandomSecret()

	commitment := Commit(signer.Address(), secret)
	addr := HAddr(addrDomainTicket, secret[:])

	if commitment == addr {
		t.Error("H and H_addr produced the same output for related inputs")
	}
}

func TestEncryptDecryptSecretRoundTrip(t *testing.T) {
	secret, _ := RandomSecret()
	var listingAddr Hash
	listingAddr[0] = 0x42

	encrypted := EncryptSecret(secret, listingAddr)
	if encrypted == [32]byte(secret) {
		t.Error("encrypted secret equals plaintext")
	}

	decrypted := DecryptSecret(encrypted, listingAddr)
	if decrypted != secret {
		t.Error("round-tripped secret does not match original")
	}
}

func TestEncryptSecretDependsOnListingAddress(t *testing.T) {
	secret, _ := RandomSecret()
	var addrA, addrB Hash
	addrA[0], addrB[0] = 0x01, 0x02

	if EncryptSecret(secret, addrA) == EncryptSecret(secret, addrB) {
		t.Error("expected different listing addresses to produce different masks")
	}
}
