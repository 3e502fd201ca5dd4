package rpc

import (
	"encoding/json"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	encorecrypto "github.com/encoreprotocol/encore/pkg/crypto"
	"github.com/encoreprotocol/encore/pkg/program"
)

// Each applyX decodes payload into its wire request, converts hex-string
// fields into the typed values program.Program's instructions expect, and
// invokes the matching instruction. The validity-proof witness is left
// unset here: assembling one means talking to an indexer, which is the
// client-side transaction builder's job and lives outside this repo.
// Program enforces address-absence itself via AddressTree.CreateAt
// regardless of whether a proof was supplied.
//
// Where the instruction Program is about to run gates on a caller-
// supplied address (authority/seller/buyer/signer), applyX verifies
// req.Signature against that address via s.verifySigner before ever
// calling into program — otherwise the address field is just an
// unauthenticated claim and any caller could submit it on someone else's
// behalf.

func (s *Server) applyCreateEvent(payload json.RawMessage) (interface{}, error) {
	var req CreateEventRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, err
	}
	authority, err := decodeAddress(req.Authority)
	if err != nil {
		return nil, err
	}
	msg := apitypes.TypedDataMessage{
		"authority":           req.Authority,
		"maxSupply":           strconv.FormatUint(uint64(req.MaxSupply), 10),
		"resaleCapBps":        strconv.FormatUint(uint64(req.ResaleCapBps), 10),
		"name":                req.Name,
		"location":            req.Location,
		"description":         req.Description,
		"maxTicketsPerPerson": strconv.FormatUint(uint64(req.MaxTicketsPerPerson), 10),
		"eventTimestamp":      strconv.FormatInt(req.EventTimestamp, 10),
	}
	if err := s.verifySigner(createEventSchema, msg, req.Signature, authority); err != nil {
		return nil, err
	}
	return s.prog.CreateEvent(program.CreateEventParams{
		Authority:           authority,
		MaxSupply:           req.MaxSupply,
		ResaleCapBps:        req.ResaleCapBps,
		Name:                req.Name,
		Location:            req.Location,
		Description:         req.Description,
		MaxTicketsPerPerson: req.MaxTicketsPerPerson,
		EventTimestamp:      req.EventTimestamp,
	})
}

func (s *Server) applyUpdateEvent(payload json.RawMessage) (interface{}, error) {
	var req UpdateEventRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, err
	}
	authority, err := decodeAddress(req.Authority)
	if err != nil {
		return nil, err
	}
	msg := apitypes.TypedDataMessage{
		"authority":    req.Authority,
		"resaleCapBps": optU32Str(req.ResaleCapBps),
		"name":         optStr(req.Name),
		"location":     optStr(req.Location),
		"description":  optStr(req.Description),
	}
	if err := s.verifySigner(updateEventSchema, msg, req.Signature, authority); err != nil {
		return nil, err
	}
	return s.prog.UpdateEvent(program.UpdateEventParams{
		Authority:    authority,
		ResaleCapBps: req.ResaleCapBps,
		Name:         req.Name,
		Location:     req.Location,
		Description:  req.Description,
	})
}

func (s *Server) applyMintTicket(payload json.RawMessage) (interface{}, error) {
	var req MintTicketRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, err
	}
	eventConfig, err := decodeEncoreHash(req.EventConfig)
	if err != nil {
		return nil, err
	}
	ownerCommitment, err := decodeEncoreHash(req.OwnerCommitment)
	if err != nil {
		return nil, err
	}
	seed, err := decodeHash32(req.RandomTicketSeed)
	if err != nil {
		return nil, err
	}
	return s.prog.MintTicket(program.MintTicketParams{
		EventConfig:      eventConfig,
		OwnerCommitment:  ownerCommitment,
		PurchasePrice:    req.PurchasePrice,
		RandomTicketSeed: seed,
	})
}

func (s *Server) applyTransferTicket(payload json.RawMessage) (interface{}, error) {
	var req TransferTicketRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, err
	}
	eventConfig, err := decodeEncoreHash(req.EventConfig)
	if err != nil {
		return nil, err
	}
	sellerAddr, err := decodeAddress(req.SellerAddress)
	if err != nil {
		return nil, err
	}
	sellerSecret, err := decodeSecret(req.SellerSecret)
	if err != nil {
		return nil, err
	}
	newOwnerCommitment, err := decodeEncoreHash(req.NewOwnerCommitment)
	if err != nil {
		return nil, err
	}
	newSeed, err := decodeHash32(req.NewRandomSeed)
	if err != nil {
		return nil, err
	}
	return s.prog.TransferTicket(program.TransferTicketParams{
		EventConfig:          eventConfig,
		SellerAddress:        sellerAddr,
		CurrentTicketID:      req.CurrentTicketID,
		CurrentOriginalPrice: req.CurrentOriginalPrice,
		SellerSecret:         sellerSecret,
		NewOwnerCommitment:   newOwnerCommitment,
		NewRandomSeed:        newSeed,
		ResalePrice:          req.ResalePrice,
	})
}

func (s *Server) applyCreateListing(payload json.RawMessage) (interface{}, error) {
	var req CreateListingRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, err
	}
	seller, err := decodeAddress(req.Seller)
	if err != nil {
		return nil, err
	}
	ownerCommitment, err := decodeEncoreHash(req.OwnerCommitment)
	if err != nil {
		return nil, err
	}
	encryptedSecret, err := decodeHash32(req.EncryptedSecret)
	if err != nil {
		return nil, err
	}
	eventConfig, err := decodeEncoreHash(req.EventConfig)
	if err != nil {
		return nil, err
	}
	msg := apitypes.TypedDataMessage{
		"seller":          req.Seller,
		"ownerCommitment": req.OwnerCommitment,
		"encryptedSecret": req.EncryptedSecret,
		"priceLamports":   strconv.FormatUint(req.PriceLamports, 10),
		"eventConfig":     req.EventConfig,
		"ticketId":        strconv.FormatUint(uint64(req.TicketID), 10),
	}
	if err := s.verifySigner(createListingSchema, msg, req.Signature, seller); err != nil {
		return nil, err
	}
	return s.prog.CreateListing(program.CreateListingParams{
		Seller:          seller,
		OwnerCommitment: ownerCommitment,
		EncryptedSecret: encryptedSecret,
		PriceLamports:   req.PriceLamports,
		EventConfig:     eventConfig,
		TicketID:        req.TicketID,
	})
}

func (s *Server) applyClaimListing(payload json.RawMessage) (interface{}, error) {
	var req ClaimListingRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, err
	}
	listingAddr, err := decodeEncoreHash(req.ListingAddress)
	if err != nil {
		return nil, err
	}
	buyer, err := decodeAddress(req.Buyer)
	if err != nil {
		return nil, err
	}
	buyerCommitment, err := decodeEncoreHash(req.BuyerCommitment)
	if err != nil {
		return nil, err
	}
	msg := apitypes.TypedDataMessage{
		"listingAddress":  req.ListingAddress,
		"buyer":           req.Buyer,
		"buyerCommitment": req.BuyerCommitment,
	}
	if err := s.verifySigner(claimListingSchema, msg, req.Signature, buyer); err != nil {
		return nil, err
	}
	listing, escrow, err := s.prog.ClaimListing(program.ClaimListingParams{
		ListingAddress:  listingAddr,
		Buyer:           buyer,
		BuyerCommitment: buyerCommitment,
	})
	if err != nil {
		return nil, err
	}
	return struct {
		Listing *program.Listing `json:"listing"`
		Escrow  *program.Escrow  `json:"escrow"`
	}{listing, escrow}, nil
}

// decodeListingAction decodes a ListingActionRequest and verifies its
// signature, shared by cancel_claim, seller_cancel_claim and
// cancel_listing — all three carry the identical (listingAddress,
// signer) payload shape.
func (s *Server) decodeListingAction(payload json.RawMessage) (listingAddr encorecrypto.Hash, signer common.Address, err error) {
	var req ListingActionRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return listingAddr, signer, err
	}
	listingAddr, err = decodeEncoreHash(req.ListingAddress)
	if err != nil {
		return listingAddr, signer, err
	}
	signer, err = decodeAddress(req.Signer)
	if err != nil {
		return listingAddr, signer, err
	}
	msg := apitypes.TypedDataMessage{
		"listingAddress": req.ListingAddress,
		"signer":         req.Signer,
	}
	if err := s.verifySigner(listingActionSchema, msg, req.Signature, signer); err != nil {
		return listingAddr, signer, err
	}
	return listingAddr, signer, nil
}

func (s *Server) applyCancelClaim(payload json.RawMessage) (interface{}, error) {
	listingAddr, signer, err := s.decodeListingAction(payload)
	if err != nil {
		return nil, err
	}
	return s.prog.CancelClaim(listingAddr, signer)
}

func (s *Server) applySellerCancelClaim(payload json.RawMessage) (interface{}, error) {
	listingAddr, signer, err := s.decodeListingAction(payload)
	if err != nil {
		return nil, err
	}
	return s.prog.SellerCancelClaim(listingAddr, signer)
}

func (s *Server) applyCancelListing(payload json.RawMessage) (interface{}, error) {
	listingAddr, signer, err := s.decodeListingAction(payload)
	if err != nil {
		return nil, err
	}
	return s.prog.CancelListing(listingAddr, signer)
}

func (s *Server) applyCompleteSale(payload json.RawMessage) (interface{}, error) {
	var req CompleteSaleRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, err
	}
	listingAddr, err := decodeEncoreHash(req.ListingAddress)
	if err != nil {
		return nil, err
	}
	signer, err := decodeAddress(req.Signer)
	if err != nil {
		return nil, err
	}
	sellerSecret, err := decodeSecret(req.SellerSecret)
	if err != nil {
		return nil, err
	}
	newSeed, err := decodeHash32(req.NewRandomSeed)
	if err != nil {
		return nil, err
	}
	msg := apitypes.TypedDataMessage{
		"listingAddress":       req.ListingAddress,
		"signer":               req.Signer,
		"sellerSecret":         req.SellerSecret,
		"currentOriginalPrice": strconv.FormatUint(req.CurrentOriginalPrice, 10),
		"newRandomSeed":        req.NewRandomSeed,
	}
	if err := s.verifySigner(completeSaleSchema, msg, req.Signature, signer); err != nil {
		return nil, err
	}
	return s.prog.CompleteSale(program.CompleteSaleParams{
		ListingAddress:       listingAddr,
		Signer:               signer,
		SellerSecret:         sellerSecret,
		CurrentOriginalPrice: req.CurrentOriginalPrice,
		NewRandomSeed:        newSeed,
	})
}
