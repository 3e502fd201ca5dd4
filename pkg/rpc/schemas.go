package rpc

import (
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/encoreprotocol/encore/pkg/program"
	encorecrypto "github.com/encoreprotocol/encore/pkg/crypto"
)

// Every instruction whose authorization check in pkg/program compares a
// caller-supplied address against stored state (EventConfig.Authority,
// Listing.Seller, Listing.Buyer) gets an EIP-712 schema here, so
// handleSubmitTx can refuse to trust that address field until a
// signature over the exact submitted fields recovers to it.
var (
	createEventSchema = encorecrypto.InstructionSchema{
		PrimaryType: "CreateEvent",
		Fields: []encorecrypto.Field{
			{Name: "authority", Type: "address"},
			{Name: "maxSupply", Type: "uint32"},
			{Name: "resaleCapBps", Type: "uint32"},
			{Name: "name", Type: "string"},
			{Name: "location", Type: "string"},
			{Name: "description", Type: "string"},
			{Name: "maxTicketsPerPerson", Type: "uint8"},
			{Name: "eventTimestamp", Type: "int64"},
		},
	}

	updateEventSchema = encorecrypto.InstructionSchema{
		PrimaryType: "UpdateEvent",
		Fields: []encorecrypto.Field{
			{Name: "authority", Type: "address"},
			{Name: "resaleCapBps", Type: "uint32"},
			{Name: "name", Type: "string"},
			{Name: "location", Type: "string"},
			{Name: "description", Type: "string"},
		},
	}

	createListingSchema = encorecrypto.InstructionSchema{
		PrimaryType: "CreateListing",
		Fields: []encorecrypto.Field{
			{Name: "seller", Type: "address"},
			{Name: "ownerCommitment", Type: "bytes32"},
			{Name: "encryptedSecret", Type: "bytes32"},
			{Name: "priceLamports", Type: "uint64"},
			{Name: "eventConfig", Type: "bytes32"},
			{Name: "ticketId", Type: "uint32"},
		},
	}

	claimListingSchema = encorecrypto.InstructionSchema{
		PrimaryType: "ClaimListing",
		Fields: []encorecrypto.Field{
			{Name: "listingAddress", Type: "bytes32"},
			{Name: "buyer", Type: "address"},
			{Name: "buyerCommitment", Type: "bytes32"},
		},
	}

	listingActionSchema = encorecrypto.InstructionSchema{
		PrimaryType: "ListingAction",
		Fields: []encorecrypto.Field{
			{Name: "listingAddress", Type: "bytes32"},
			{Name: "signer", Type: "address"},
		},
	}

	completeSaleSchema = encorecrypto.InstructionSchema{
		PrimaryType: "CompleteSale",
		Fields: []encorecrypto.Field{
			{Name: "listingAddress", Type: "bytes32"},
			{Name: "signer", Type: "address"},
			{Name: "sellerSecret", Type: "bytes32"},
			{Name: "currentOriginalPrice", Type: "uint64"},
			{Name: "newRandomSeed", Type: "bytes32"},
		},
	}
)

// optStr returns "" for a nil pointer, the pointed-to value otherwise —
// update_event's omitted fields sign as their wire zero value, matching
// exactly what was submitted.
func optStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func optU32Str(p *uint32) string {
	if p == nil {
		return "0"
	}
	return strconv.FormatUint(uint64(*p), 10)
}

// verifySigner checks that signature recovers to want over the EIP-712
// hash of msg under schema, returning a program.Error with
// CodeUnauthorized on any mismatch so handleSubmitTx's existing error
// path (errorCode) reports it the same way pkg/program's own
// authorization errors are reported.
func (s *Server) verifySigner(schema encorecrypto.InstructionSchema, msg apitypes.TypedDataMessage, signature string, want common.Address) error {
	sig, err := decodeSignature(signature)
	if err != nil {
		return &program.Error{Code: program.CodeUnauthorized, Message: err.Error()}
	}
	ok, err := s.instrSigner.Verify(schema, msg, sig, want)
	if err != nil {
		return &program.Error{Code: program.CodeUnauthorized, Message: "verify signature: " + err.Error()}
	}
	if !ok {
		return &program.Error{Code: program.CodeUnauthorized, Message: "signature does not match " + want.Hex()}
	}
	return nil
}
