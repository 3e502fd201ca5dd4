package program

import (
	"github.com/ethereum/go-ethereum/common"

	encorecrypto "github.com/encoreprotocol/encore/pkg/crypto"
)

// EventConfig is the per-authority account holding an event's metadata,
// supply counter and resale policy, as a conventional (non-compressed)
// account.
type EventConfig struct {
	Authority           common.Address
	MaxSupply           uint32
	TicketsMinted       uint32
	ResaleCapBps        uint32
	Name                string
	Location            string
	Description         string
	MaxTicketsPerPerson uint8
	EventTimestamp      int64
	CreatedAt           int64
	UpdatedAt           int64
}

// Address derives this event's account address: H("event", authority).
func (e *EventConfig) Address() encorecrypto.Hash {
	return encorecrypto.EventAddress(e.Authority)
}

const (
	minResaleCapBps = 10_000
	maxResaleCapBps = 100_000
	maxNameLen      = 64
	maxLocationLen  = 64
	maxDescLen      = 200
)

// TicketRecord is the payload of a compressed Ticket leaf. Its Merkle
// leaf hash is LeafHash(), never the struct itself — the state tree only
// ever stores the hash.
type TicketRecord struct {
	EventConfig     encorecrypto.Hash
	TicketID        uint32
	OwnerCommitment encorecrypto.Hash
	OriginalPrice   uint64
}

// LeafHash computes the content hash stored as this ticket's leaf in the
// compressed state tree.
func (t TicketRecord) LeafHash() [32]byte {
	buf := make([]byte, 0, 32+4+32+8)
	buf = append(buf, t.EventConfig[:]...)
	buf = append(buf, byteOrderUint32(t.TicketID)...)
	buf = append(buf, t.OwnerCommitment[:]...)
	buf = append(buf, byteOrderUint64(t.OriginalPrice)...)
	return encorecrypto.HAddr([]byte("encore/ticket-leaf"), buf)
}

func byteOrderUint32(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func byteOrderUint64(v uint64) []byte {
	return []byte{
		byte(v >> 56), byte(v >> 48), byte(v >> 40), byte(v >> 32),
		byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v),
	}
}

// Status is a Listing's state-machine tag: a tagged sum over Active,
// Claimed, Completed and Cancelled.
type Status uint8

const (
	StatusActive Status = iota
	StatusClaimed
	StatusCompleted
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusClaimed:
		return "claimed"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Listing is the per-(seller, ticket_commitment) account sequencing
// Active → Claimed → Completed | Cancelled.
type Listing struct {
	Seller           common.Address
	EventConfig      encorecrypto.Hash
	TicketID         uint32
	OwnerCommitment  encorecrypto.Hash
	EncryptedSecret  [32]byte
	PriceLamports    uint64
	Buyer            *common.Address
	BuyerCommitment  *encorecrypto.Hash
	ClaimedAt        *int64
	Status           Status
	CreatedAt        int64
}

// Address derives this listing's account address:
// H("listing", seller, ticket_commitment).
func (l *Listing) Address() encorecrypto.Hash {
	return encorecrypto.ListingAddress(l.Seller, l.OwnerCommitment)
}

// RentExemptResidue is the rent-exempt minimum a real escrow account
// holds on top of its deposit. Escrow.Balance records only the buyer's
// deposit and never includes this residue; no instruction here credits
// or debits it.
const RentExemptResidue = uint64(890_880)

// Escrow is the native-currency PDA paired with a Claimed listing.
type Escrow struct {
	Listing encorecrypto.Hash
	Balance uint64
	Open    bool
}

// Address derives this escrow's account address: H("escrow", listing).
func (e *Escrow) Address() encorecrypto.Hash {
	return encorecrypto.EscrowAddress(e.Listing)
}
