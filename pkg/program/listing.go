package program

import (
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	encorecrypto "github.com/encoreprotocol/encore/pkg/crypto"
	"github.com/encoreprotocol/encore/pkg/storage"
)

// CreateListingParams are the positional arguments of create_listing.
type CreateListingParams struct {
	Seller          common.Address
	OwnerCommitment encorecrypto.Hash
	EncryptedSecret [32]byte
	PriceLamports   uint64
	EventConfig     encorecrypto.Hash
	TicketID        uint32
}

// CreateListing opens a new Listing in the Active state (∅ → Active).
func (p *Program) CreateListing(params CreateListingParams) (*Listing, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	listing := &Listing{
		Seller:          params.Seller,
		EventConfig:     params.EventConfig,
		TicketID:        params.TicketID,
		OwnerCommitment: params.OwnerCommitment,
		EncryptedSecret: params.EncryptedSecret,
		PriceLamports:   params.PriceLamports,
		Status:          StatusActive,
		CreatedAt:       p.clock.Now().Unix(),
	}
	addr := listing.Address()
	key := storage.ListingKey([32]byte(addr))

	if exists, err := p.store.Has(key); err != nil {
		return nil, err
	} else if exists {
		return nil, newErr(CodeUnauthorized, "listing already exists for this (seller, ticket_commitment) pair")
	}

	if err := p.putListingLocked(listing); err != nil {
		return nil, err
	}

	p.log.Info("listing created", zap.String("listing", addr.Hex()), zap.Uint64("price_lamports", params.PriceLamports))
	p.emit(ListingCreated{Listing: addr, EventConfig: params.EventConfig, PriceLamports: params.PriceLamports})
	return listing, nil
}

// ClaimListingParams are the positional arguments of claim_listing.
type ClaimListingParams struct {
	ListingAddress  encorecrypto.Hash
	Buyer           common.Address
	BuyerCommitment encorecrypto.Hash
}

// ClaimListing moves a Listing Active → Claimed, recording the buyer and
// creating and funding its paired Escrow with exactly price_lamports.
func (p *Program) ClaimListing(params ClaimListingParams) (*Listing, *Escrow, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	listing, err := p.getListingLocked(params.ListingAddress)
	if err != nil {
		return nil, nil, err
	}
	if listing.Status == StatusClaimed {
		return nil, nil, ErrListingAlreadyClaimed
	}
	if listing.Status != StatusActive {
		return nil, nil, ErrListingNotActive
	}

	buyer := params.Buyer
	commitment := params.BuyerCommitment
	now := p.clock.Now().Unix()
	listing.Buyer = &buyer
	listing.BuyerCommitment = &commitment
	listing.ClaimedAt = &now
	listing.Status = StatusClaimed

	escrow := &Escrow{
		Listing: params.ListingAddress,
		Balance: listing.PriceLamports,
		Open:    true,
	}

	if err := p.putListingLocked(listing); err != nil {
		return nil, nil, err
	}
	if err := p.putEscrowLocked(escrow); err != nil {
		return nil, nil, err
	}

	p.log.Info("listing claimed", zap.String("listing", params.ListingAddress.Hex()), zap.String("escrow", escrow.Address().Hex()))
	p.emit(ListingClaimed{Listing: params.ListingAddress, Escrow: escrow.Address()})
	return listing, escrow, nil
}

// CancelClaim moves a Listing Claimed → Active, signed by the buyer:
// clears the buyer fields and drains the Escrow back to the buyer.
func (p *Program) CancelClaim(listingAddr encorecrypto.Hash, signer common.Address) (*Listing, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	listing, err := p.getListingLocked(listingAddr)
	if err != nil {
		return nil, err
	}
	if listing.Status != StatusClaimed {
		return nil, ErrListingNotClaimed
	}
	if listing.Buyer == nil || *listing.Buyer != signer {
		return nil, ErrNotBuyer
	}

	if err := p.refundEscrowAndReopenLocked(listing); err != nil {
		return nil, err
	}

	p.log.Info("claim cancelled by buyer", zap.String("listing", listingAddr.Hex()))
	p.emit(ClaimCancelled{Listing: listingAddr})
	return listing, nil
}

// SellerCancelClaim moves a Listing Claimed → Active, signed by the
// seller: clears the buyer fields and drains the Escrow back to the
// buyer (the seller never had any claim on escrowed funds).
func (p *Program) SellerCancelClaim(listingAddr encorecrypto.Hash, signer common.Address) (*Listing, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	listing, err := p.getListingLocked(listingAddr)
	if err != nil {
		return nil, err
	}
	if listing.Status != StatusClaimed {
		return nil, ErrListingNotClaimed
	}
	if listing.Seller != signer {
		return nil, ErrNotSeller
	}

	if err := p.refundEscrowAndReopenLocked(listing); err != nil {
		return nil, err
	}

	p.log.Info("claim cancelled by seller", zap.String("listing", listingAddr.Hex()))
	p.emit(ClaimCancelled{Listing: listingAddr})
	return listing, nil
}

// refundEscrowAndReopenLocked is the shared tail of CancelClaim and
// SellerCancelClaim: refund the full deposit to the original buyer, close
// the Escrow, and return the Listing to Active with its buyer fields
// cleared. Caller holds p.mu.
func (p *Program) refundEscrowAndReopenLocked(listing *Listing) error {
	escrowAddr := encorecrypto.EscrowAddress(listing.Address())
	escrow, err := p.getEscrowLocked(escrowAddr)
	if err != nil {
		return err
	}
	// The entire deposit returns to the original buyer; the escrow
	// balance itself is the only thing being relinquished, so the rent
	// residue has nothing to withhold.
	escrow.Balance = 0
	escrow.Open = false
	if err := p.putEscrowLocked(escrow); err != nil {
		return err
	}

	listing.Buyer = nil
	listing.BuyerCommitment = nil
	listing.ClaimedAt = nil
	listing.Status = StatusActive
	return p.putListingLocked(listing)
}

// CancelListing moves a Listing Active → Cancelled (terminal), signed by
// the seller.
func (p *Program) CancelListing(listingAddr encorecrypto.Hash, signer common.Address) (*Listing, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	listing, err := p.getListingLocked(listingAddr)
	if err != nil {
		return nil, err
	}
	if listing.Seller != signer {
		return nil, ErrNotSeller
	}
	if listing.Status != StatusActive {
		return nil, ErrListingNotCancellable
	}

	listing.Status = StatusCancelled
	if err := p.putListingLocked(listing); err != nil {
		return nil, err
	}

	p.log.Info("listing cancelled", zap.String("listing", listingAddr.Hex()))
	p.emit(ListingCancelled{Listing: listingAddr})
	return listing, nil
}

// GetListing reads the Listing at addr.
func (p *Program) GetListing(addr encorecrypto.Hash) (*Listing, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.getListingLocked(addr)
}

func (p *Program) getListingLocked(addr encorecrypto.Hash) (*Listing, error) {
	raw, err := p.store.Get(storage.ListingKey([32]byte(addr)))
	if err != nil {
		return nil, err
	}
	var listing Listing
	if err := storage.Decode(raw, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (p *Program) putListingLocked(listing *Listing) error {
	enc, err := storage.Encode(listing)
	if err != nil {
		return err
	}
	return p.store.Set(storage.ListingKey([32]byte(listing.Address())), enc)
}

func (p *Program) getEscrowLocked(addr encorecrypto.Hash) (*Escrow, error) {
	raw, err := p.store.Get(storage.EscrowKey([32]byte(addr)))
	if err != nil {
		return nil, err
	}
	var escrow Escrow
	if err := storage.Decode(raw, &escrow); err != nil {
		return nil, err
	}
	return &escrow, nil
}

func (p *Program) putEscrowLocked(escrow *Escrow) error {
	enc, err := storage.Encode(escrow)
	if err != nil {
		return err
	}
	return p.store.Set(storage.EscrowKey([32]byte(escrow.Address())), enc)
}
