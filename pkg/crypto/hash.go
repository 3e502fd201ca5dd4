package crypto

import (
	"crypto/rand"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"
)

// Secret is a ticket holder's 32-byte private value. Knowledge of Secret,
// together with the owning keypair, is what lets a holder prove ownership
// of a ticket without revealing which leaf in the compressed state tree is
// theirs.
type Secret [32]byte

// Hash is the output of H, the fixed 256-bit commitment/nullifier hash.
type Hash [32]byte

// Commit computes owner_commitment = H(pubkey || secret), binding a ticket
// to both the holder's address and their secret. Two different secrets for
// the same pubkey produce unlinkable commitments.
func Commit(owner common.Address, secret Secret) Hash {
	return Hash(crypto.Keccak256Hash(owner.Bytes(), secret[:]))
}

// NullifierSeed computes nullifier_seed = H(secret). Spending a ticket
// reveals this value and nothing else; it cannot be linked back to
// owner_commitment without already knowing secret.
func NullifierSeed(secret Secret) Hash {
	return Hash(crypto.Keccak256Hash(secret[:]))
}

// addrDomainTicket, addrDomainNullifier are fixed domain-separation tags
// mixed into H_addr so that ticket and nullifier addresses can never
// collide with each other. The derivation takes no address-tree or
// program identifier; the "encore/" prefix of the tag is the only thing
// separating these addresses from other users of the same tree.
var (
	addrDomainTicket    = []byte("encore/ticket")
	addrDomainNullifier = []byte("encore/nullifier")
)

// HAddr is the compressed-account substrate's keyed address derivation. It
// is deliberately a different primitive from H (sha3.Sum256 vs Keccak256)
// so that the two hashes can never be confused or substituted for one
// another, per the protocol's domain-separation requirement.
func HAddr(domain []byte, parts ...[]byte) Hash {
	h := sha3.New256()
	h.Write(domain)
	for _, p := range parts {
		h.Write(p)
	}
	var out Hash
	h.Sum(out[:0])
	return out
}

// DeriveTicketAddress computes the compressed address a ticket leaf is
// created at: H_addr("ticket" || random_seed). random_seed is chosen by the
// minter and only needs to be unique, not secret.
func DeriveTicketAddress(randomSeed [32]byte) Hash {
	return HAddr(addrDomainTicket, randomSeed[:])
}

// DeriveNullifierAddress computes the compressed address a spend's
// nullifier is created at: H_addr("nullifier" || H(secret)). Because
// address creation in the compressed-account substrate can only succeed
// once per address, creating this address a second time for the same
// secret fails with AddressExists — this is the double-spend guard.
func DeriveNullifierAddress(secret Secret) Hash {
	seed := NullifierSeed(secret)
	return HAddr(addrDomainNullifier, seed[:])
}

// EventAddress derives the address an EventConfig account lives at:
// H("event", authority).
func EventAddress(authority common.Address) Hash {
	return Hash(crypto.Keccak256Hash([]byte("event"), authority.Bytes()))
}

// ListingAddress derives the address a Listing account lives at:
// H("listing", seller, ticket_commitment).
func ListingAddress(seller common.Address, ticketCommitment Hash) Hash {
	return Hash(crypto.Keccak256Hash([]byte("listing"), seller.Bytes(), ticketCommitment[:]))
}

// EscrowAddress derives the address an Escrow account lives at:
// H("escrow", listing).
func EscrowAddress(listing Hash) Hash {
	return Hash(crypto.Keccak256Hash([]byte("escrow"), listing[:]))
}

// RandomSecret draws a fresh 32-byte secret from a CSPRNG, for wallets
// minting a ticket for themselves without deriving from a master key.
func RandomSecret() (Secret, error) {
	var s Secret
	if _, err := rand.Read(s[:]); err != nil {
		return s, fmt.Errorf("generate random secret: %w", err)
	}
	return s, nil
}

// EncryptSecret masks secret for storage in a Listing's encrypted_secret
// field: XOR with H(listing_address). The mask is only as strong as
// keeping the listing address itself out of the mask's attacker's hands
// before spend time, which the protocol already requires — this is a
// storage obfuscation, not a confidentiality primitive against the chain
// itself. decrypt_secret is the same XOR operation, applied again.
func EncryptSecret(secret Secret, listingAddress Hash) [32]byte {
	mask := crypto.Keccak256Hash(listingAddress[:])
	var out [32]byte
	for i := range out {
		out[i] = secret[i] ^ mask[i]
	}
	return out
}

// DecryptSecret reverses EncryptSecret; XOR is its own inverse.
func DecryptSecret(encrypted [32]byte, listingAddress Hash) Secret {
	mask := crypto.Keccak256Hash(listingAddress[:])
	var secret Secret
	for i := range secret {
		secret[i] = encrypted[i] ^ mask[i]
	}
	return secret
}

// Hex renders a Hash the way the rest of the codebase prints addresses.
func (h Hash) Hex() string {
	return common.Hash(h).Hex()
}

func (h Hash) String() string { return h.Hex() }
