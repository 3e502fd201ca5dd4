// Package walletkit implements a client-side secret-derivation
// convention: a wallet signs one message per event to produce a master
// key, and every per-ticket secret is expanded from that master key plus
// the event and ticket id. The protocol core never calls into this
// package — a client must support the convention but the core neither
// requires nor enforces it — it exists so a wallet or cmd/encorekeygen
// has a single, tested place to derive secrets the same way every time.
package walletkit

import (
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"

	encorecrypto "github.com/encoreprotocol/encore/pkg/crypto"
)

// masterKeySalt domain-separates master-key derivation from every other
// HKDF use in the codebase.
var masterKeySalt = []byte("encore/walletkit/master-key")

// DeriveMasterKey stretches a wallet-signed message (the signature bytes
// over a fixed per-event message, produced by the caller's wallet) into a
// 32-byte master key via HKDF-SHA3-256. The same signed message always
// yields the same master key, so nothing needs to be backed up beyond the
// wallet itself.
func DeriveMasterKey(signedMessage []byte) ([32]byte, error) {
	var masterKey [32]byte
	reader := hkdf.New(sha3.New256, signedMessage, masterKeySalt, []byte("encore/master-key"))
	if _, err := io.ReadFull(reader, masterKey[:]); err != nil {
		return masterKey, fmt.Errorf("derive master key: %w", err)
	}
	return masterKey, nil
}

// DeriveTicketSecret computes the per-ticket secret
// H(master_key || event || ticket_id), computed with pkg/crypto's
// domain-separated HAddr primitive under its own tag, so the derivation
// stays within the primitive family the on-chain side already uses.
func DeriveTicketSecret(masterKey [32]byte, eventConfig encorecrypto.Hash, ticketID uint32) encorecrypto.Secret {
	buf := make([]byte, 0, 32+32+4)
	buf = append(buf, masterKey[:]...)
	buf = append(buf, eventConfig[:]...)
	buf = append(buf, byte(ticketID>>24), byte(ticketID>>16), byte(ticketID>>8), byte(ticketID))
	h := encorecrypto.HAddr([]byte("encore/walletkit/ticket-secret"), buf)
	return encorecrypto.Secret(h)
}
