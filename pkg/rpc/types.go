package rpc

import "encoding/json"

// Package-level wire types for the instruction-submission and read-only
// surface: every Ethereum-style address, hash and secret crosses the wire
// as a "0x"-prefixed hex string.

// TxEnvelope is the body of POST /api/v1/tx: a discriminated union over
// every instruction the protocol defines, selected by Type. The payload
// is carried as raw JSON and decoded once Type is known, since its shape
// differs across all ten instruction kinds.
type TxEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// CreateEventRequest is the wire payload for type="create_event".
// Signature is the authority's EIP-712 signature over every field below
// except itself, verified against Authority before the instruction runs.
type CreateEventRequest struct {
	Authority           string `json:"authority"`
	MaxSupply           uint32 `json:"maxSupply"`
	ResaleCapBps        uint32 `json:"resaleCapBps"`
	Name                string `json:"name"`
	Location            string `json:"location"`
	Description         string `json:"description"`
	MaxTicketsPerPerson uint8  `json:"maxTicketsPerPerson"`
	EventTimestamp      int64  `json:"eventTimestamp"`
	Signature           string `json:"signature"`
}

// UpdateEventRequest is the wire payload for type="update_event". Pointer
// fields left null leave the corresponding account field unchanged, and
// sign as their wire zero value (see optStr/optU32Str in schemas.go).
type UpdateEventRequest struct {
	Authority    string  `json:"authority"`
	ResaleCapBps *uint32 `json:"resaleCapBps,omitempty"`
	Name         *string `json:"name,omitempty"`
	Location     *string `json:"location,omitempty"`
	Description  *string `json:"description,omitempty"`
	Signature    string  `json:"signature"`
}

// MintTicketRequest is the wire payload for type="mint_ticket".
type MintTicketRequest struct {
	EventConfig      string `json:"eventConfig"`
	OwnerCommitment  string `json:"ownerCommitment"`
	PurchasePrice    uint64 `json:"purchasePrice"`
	RandomTicketSeed string `json:"randomTicketSeed"`
}

// TransferTicketRequest is the wire payload for type="transfer_ticket".
type TransferTicketRequest struct {
	EventConfig          string  `json:"eventConfig"`
	SellerAddress        string  `json:"sellerAddress"`
	CurrentTicketID      uint32  `json:"currentTicketId"`
	CurrentOriginalPrice uint64  `json:"currentOriginalPrice"`
	SellerSecret         string  `json:"sellerSecret"`
	NewOwnerCommitment   string  `json:"newOwnerCommitment"`
	NewRandomSeed        string  `json:"newRandomSeed"`
	ResalePrice          *uint64 `json:"resalePrice,omitempty"`
}

// CreateListingRequest is the wire payload for type="create_listing".
type CreateListingRequest struct {
	Seller          string `json:"seller"`
	OwnerCommitment string `json:"ownerCommitment"`
	EncryptedSecret string `json:"encryptedSecret"`
	PriceLamports   uint64 `json:"priceLamports"`
	EventConfig     string `json:"eventConfig"`
	TicketID        uint32 `json:"ticketId"`
	Signature       string `json:"signature"`
}

// ClaimListingRequest is the wire payload for type="claim_listing".
type ClaimListingRequest struct {
	ListingAddress  string `json:"listingAddress"`
	Buyer           string `json:"buyer"`
	BuyerCommitment string `json:"buyerCommitment"`
	Signature       string `json:"signature"`
}

// ListingActionRequest is the wire payload shared by type="cancel_claim",
// type="seller_cancel_claim" and type="cancel_listing" — each is just a
// listing address plus the signer asserting the instruction, and that
// signer's signature over (listingAddress, signer).
type ListingActionRequest struct {
	ListingAddress string `json:"listingAddress"`
	Signer         string `json:"signer"`
	Signature      string `json:"signature"`
}

// CompleteSaleRequest is the wire payload for type="complete_sale".
type CompleteSaleRequest struct {
	ListingAddress       string `json:"listingAddress"`
	Signer               string `json:"signer"`
	SellerSecret         string `json:"sellerSecret"`
	CurrentOriginalPrice uint64 `json:"currentOriginalPrice"`
	NewRandomSeed        string `json:"newRandomSeed"`
	Signature            string `json:"signature"`
}

// TxResponse is returned on successful instruction submission.
type TxResponse struct {
	Status string      `json:"status"`
	Result interface{} `json:"result,omitempty"`
}

// ErrorResponse carries a stable code plus a human-readable message: every
// failure aborts its instruction with no partial state persisted.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WSSubscribeRequest is sent by a client to subscribe to Observable Event
// channels.
type WSSubscribeRequest struct {
	Op       string   `json:"op"` // "subscribe" or "unsubscribe"
	Channels []string `json:"channels"`
}

// WSEvent is the envelope every Observable Event is broadcast under.
type WSEvent struct {
	Channel string      `json:"channel"`
	Type    string      `json:"type"`
	Data    interface{} `json:"data"`
}
