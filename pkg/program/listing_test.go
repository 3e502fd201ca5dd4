package program

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	encorecrypto "github.com/encoreprotocol/encore/pkg/crypto"
)

func buyerAddress() common.Address {
	return common.HexToAddress("0x2222222222222222222222222222222222222b")
}

func mintOneTicket(t *testing.T, p *Program, cfg *EventConfig, sellerSecret encorecrypto.Secret, price uint64) {
	t.Helper()
	commitment := encorecrypto.Commit(testAuthority(), sellerSecret)
	if _, err := p.MintTicket(MintTicketParams{
		EventConfig:      cfg.Address(),
		OwnerCommitment:  commitment,
		PurchasePrice:    price,
		RandomTicketSeed: [32]byte{42},
	}); err != nil {
		t.Fatalf("mint ticket: %v", err)
	}
}

func TestCreateListingThenClaimFundsEscrow(t *testing.T) {
	p, _, sink := newTestProgram(t)
	cfg := mustCreateEvent(t, p, 10, 15000)

	sellerSecret := encorecrypto.Secret{1}
	mintOneTicket(t, p, cfg, sellerSecret, 1000)

	listing, err := p.CreateListing(CreateListingParams{
		Seller:          testAuthority(),
		OwnerCommitment: encorecrypto.Commit(testAuthority(), sellerSecret),
		PriceLamports:   1200,
		EventConfig:     cfg.Address(),
		TicketID:        1,
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	if listing.Status != StatusActive {
		t.Fatalf("status = %v, want Active", listing.Status)
	}

	listing, escrow, err := p.ClaimListing(ClaimListingParams{
		ListingAddress:  listing.Address(),
		Buyer:           buyerAddress(),
		BuyerCommitment: encorecrypto.Commit(buyerAddress(), encorecrypto.Secret{2}),
	})
	if err != nil {
		t.Fatalf("claim listing: %v", err)
	}
	if listing.Status != StatusClaimed {
		t.Fatalf("status = %v, want Claimed", listing.Status)
	}
	if escrow.Balance != 1200 || !escrow.Open {
		t.Fatalf("escrow = %+v, want balance=1200 open=true", escrow)
	}

	var sawCreated, sawClaimed bool
	for _, e := range sink.events {
		switch e.(type) {
		case ListingCreated:
			sawCreated = true
		case ListingClaimed:
			sawClaimed = true
		}
	}
	if !sawCreated || !sawClaimed {
		t.Fatalf("expected ListingCreated and ListingClaimed events, got %#v", sink.events)
	}
}

func TestClaimListingRejectsAlreadyClaimed(t *testing.T) {
	p, _, _ := newTestProgram(t)
	cfg := mustCreateEvent(t, p, 10, 15000)
	sellerSecret := encorecrypto.Secret{1}
	mintOneTicket(t, p, cfg, sellerSecret, 1000)

	listing, err := p.CreateListing(CreateListingParams{
		Seller:          testAuthority(),
		OwnerCommitment: encorecrypto.Commit(testAuthority(), sellerSecret),
		PriceLamports:   1000,
		EventConfig:     cfg.Address(),
		TicketID:        1,
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}

	claimParams := ClaimListingParams{
		ListingAddress:  listing.Address(),
		Buyer:           buyerAddress(),
		BuyerCommitment: encorecrypto.Commit(buyerAddress(), encorecrypto.Secret{2}),
	}
	if _, _, err := p.ClaimListing(claimParams); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if _, _, err := p.ClaimListing(claimParams); !errors.Is(err, ErrListingAlreadyClaimed) {
		t.Fatalf("expected ErrListingAlreadyClaimed, got %v", err)
	}
}

func TestCancelClaimRefundsBuyerAndReopensListing(t *testing.T) {
	p, _, sink := newTestProgram(t)
	cfg := mustCreateEvent(t, p, 10, 15000)
	sellerSecret := encorecrypto.Secret{1}
	mintOneTicket(t, p, cfg, sellerSecret, 1000)

	listing, err := p.CreateListing(CreateListingParams{
		Seller:          testAuthority(),
		OwnerCommitment: encorecrypto.Commit(testAuthority(), sellerSecret),
		PriceLamports:   1000,
		EventConfig:     cfg.Address(),
		TicketID:        1,
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}

	if _, _, err := p.ClaimListing(ClaimListingParams{
		ListingAddress:  listing.Address(),
		Buyer:           buyerAddress(),
		BuyerCommitment: encorecrypto.Commit(buyerAddress(), encorecrypto.Secret{2}),
	}); err != nil {
		t.Fatalf("claim: %v", err)
	}

	reopened, err := p.CancelClaim(listing.Address(), buyerAddress())
	if err != nil {
		t.Fatalf("cancel claim: %v", err)
	}
	if reopened.Status != StatusActive {
		t.Fatalf("status = %v, want Active", reopened.Status)
	}
	if reopened.Buyer != nil {
		t.Fatal("expected buyer fields cleared")
	}

	escrow, err := p.getEscrowLocked(encorecrypto.EscrowAddress(listing.Address()))
	if err != nil {
		t.Fatalf("get escrow: %v", err)
	}
	if escrow.Balance != 0 || escrow.Open {
		t.Fatalf("escrow = %+v, want balance=0 open=false", escrow)
	}

	var sawCancelled bool
	for _, e := range sink.events {
		if _, ok := e.(ClaimCancelled); ok {
			sawCancelled = true
		}
	}
	if !sawCancelled {
		t.Fatal("expected ClaimCancelled event")
	}
}

func TestCancelClaimRejectsNonBuyer(t *testing.T) {
	p, _, _ := newTestProgram(t)
	cfg := mustCreateEvent(t, p, 10, 15000)
	sellerSecret := encorecrypto.Secret{1}
	mintOneTicket(t, p, cfg, sellerSecret, 1000)

	listing, err := p.CreateListing(CreateListingParams{
		Seller:          testAuthority(),
		OwnerCommitment: encorecrypto.Commit(testAuthority(), sellerSecret),
		PriceLamports:   1000,
		EventConfig:     cfg.Address(),
		TicketID:        1,
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	if _, _, err := p.ClaimListing(ClaimListingParams{
		ListingAddress:  listing.Address(),
		Buyer:           buyerAddress(),
		BuyerCommitment: encorecrypto.Commit(buyerAddress(), encorecrypto.Secret{2}),
	}); err != nil {
		t.Fatalf("claim: %v", err)
	}

	if _, err := p.CancelClaim(listing.Address(), testAuthority()); !errors.Is(err, ErrNotBuyer) {
		t.Fatalf("expected ErrNotBuyer, got %v", err)
	}
}

func TestCancelListingRejectsNonSeller(t *testing.T) {
	p, _, _ := newTestProgram(t)
	cfg := mustCreateEvent(t, p, 10, 15000)
	sellerSecret := encorecrypto.Secret{1}
	mintOneTicket(t, p, cfg, sellerSecret, 1000)

	listing, err := p.CreateListing(CreateListingParams{
		Seller:          testAuthority(),
		OwnerCommitment: encorecrypto.Commit(testAuthority(), sellerSecret),
		PriceLamports:   1000,
		EventConfig:     cfg.Address(),
		TicketID:        1,
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}

	if _, err := p.CancelListing(listing.Address(), buyerAddress()); !errors.Is(err, ErrNotSeller) {
		t.Fatalf("expected ErrNotSeller, got %v", err)
	}
}
