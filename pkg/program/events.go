package program

import (
	"github.com/ethereum/go-ethereum/common"

	encorecrypto "github.com/encoreprotocol/encore/pkg/crypto"
)

// Sink receives the protocol's Observable Events, deliberately free of
// raw ownership identifiers. pkg/rpc implements Sink to broadcast these
// over its websocket hub; tests can implement it to assert on emitted
// events without going through the network layer.
type Sink interface {
	Emit(event interface{})
}

// NopSink discards every event; New uses it when it is given a nil sink.
type NopSink struct{}

func (NopSink) Emit(event interface{}) {}

type EventCreated struct {
	EventConfig encorecrypto.Hash
	Authority   common.Address
	MaxSupply   uint32
}

type EventUpdated struct {
	EventConfig  encorecrypto.Hash
	ResaleCapBps uint32
}

type TicketMinted struct {
	EventConfig     encorecrypto.Hash
	TicketID        uint32
	OwnerCommitment encorecrypto.Hash
}

type TicketTransferred struct {
	EventConfig   encorecrypto.Hash
	TicketID      uint32
	OldCommitment encorecrypto.Hash
	NewCommitment encorecrypto.Hash
	Nullifier     encorecrypto.Hash
}

type ListingCreated struct {
	Listing       encorecrypto.Hash
	EventConfig   encorecrypto.Hash
	PriceLamports uint64
}

type ListingClaimed struct {
	Listing encorecrypto.Hash
	Escrow  encorecrypto.Hash
}

type SaleCompleted struct {
	Listing   encorecrypto.Hash
	Nullifier encorecrypto.Hash
	NewTicket encorecrypto.Hash
}

type ListingCancelled struct {
	Listing encorecrypto.Hash
}

type ClaimCancelled struct {
	Listing encorecrypto.Hash
}
