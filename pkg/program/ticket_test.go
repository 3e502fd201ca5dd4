package program

import (
	"errors"
	"testing"

	encorecrypto "github.com/encoreprotocol/encore/pkg/crypto"
)

func mustCreateEvent(t *testing.T, p *Program, maxSupply uint32, resaleCapBps uint32) *EventConfig {
	t.Helper()
	cfg, err := p.CreateEvent(CreateEventParams{
		Authority:      testAuthority(),
		MaxSupply:      maxSupply,
		ResaleCapBps:   resaleCapBps,
		EventTimestamp: 1_800_000_000,
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return cfg
}

func TestMintTicketAssignsSequentialIDs(t *testing.T) {
	p, _, _ := newTestProgram(t)
	cfg := mustCreateEvent(t, p, 2, 15000)

	buyer := encorecrypto.Secret{1}
	commitment := encorecrypto.Commit(testAuthority(), buyer)

	first, err := p.MintTicket(MintTicketParams{
		EventConfig:      cfg.Address(),
		OwnerCommitment:  commitment,
		PurchasePrice:    1000,
		RandomTicketSeed: [32]byte{1},
	})
	if err != nil {
		t.Fatalf("mint first: %v", err)
	}
	if first.TicketID != 1 {
		t.Errorf("first ticket_id = %d, want 1", first.TicketID)
	}

	second, err := p.MintTicket(MintTicketParams{
		EventConfig:      cfg.Address(),
		OwnerCommitment:  commitment,
		PurchasePrice:    1000,
		RandomTicketSeed: [32]byte{2},
	})
	if err != nil {
		t.Fatalf("mint second: %v", err)
	}
	if second.TicketID != 2 {
		t.Errorf("second ticket_id = %d, want 2", second.TicketID)
	}
}

func TestMintTicketRejectsPastMaxSupply(t *testing.T) {
	p, _, _ := newTestProgram(t)
	cfg := mustCreateEvent(t, p, 1, 15000)

	commitment := encorecrypto.Commit(testAuthority(), encorecrypto.Secret{1})
	if _, err := p.MintTicket(MintTicketParams{
		EventConfig:      cfg.Address(),
		OwnerCommitment:  commitment,
		PurchasePrice:    1000,
		RandomTicketSeed: [32]byte{1},
	}); err != nil {
		t.Fatalf("mint within supply: %v", err)
	}

	_, err := p.MintTicket(MintTicketParams{
		EventConfig:      cfg.Address(),
		OwnerCommitment:  commitment,
		PurchasePrice:    1000,
		RandomTicketSeed: [32]byte{2},
	})
	if !errors.Is(err, ErrMaxSupplyReached) {
		t.Fatalf("expected ErrMaxSupplyReached, got %v", err)
	}
}

func TestMintTicketRejectsDuplicateRandomSeed(t *testing.T) {
	p, _, _ := newTestProgram(t)
	cfg := mustCreateEvent(t, p, 10, 15000)

	commitment := encorecrypto.Commit(testAuthority(), encorecrypto.Secret{1})
	params := MintTicketParams{
		EventConfig:      cfg.Address(),
		OwnerCommitment:  commitment,
		PurchasePrice:    1000,
		RandomTicketSeed: [32]byte{9},
	}
	if _, err := p.MintTicket(params); err != nil {
		t.Fatalf("first mint: %v", err)
	}
	if _, err := p.MintTicket(params); !errors.Is(err, ErrAddressExists) {
		t.Fatalf("expected ErrAddressExists on replayed seed, got %v", err)
	}
}

func TestTransferTicketRejectsResaleCapViolation(t *testing.T) {
	p, _, _ := newTestProgram(t)
	cfg := mustCreateEvent(t, p, 10, 15000) // 150% cap

	sellerSecret := encorecrypto.Secret{7}
	sellerCommitment := encorecrypto.Commit(testAuthority(), sellerSecret)
	if _, err := p.MintTicket(MintTicketParams{
		EventConfig:      cfg.Address(),
		OwnerCommitment:  sellerCommitment,
		PurchasePrice:    1000,
		RandomTicketSeed: [32]byte{1},
	}); err != nil {
		t.Fatalf("mint: %v", err)
	}

	tooHigh := uint64(2000) // > 1000 * 1.5
	_, err := p.TransferTicket(TransferTicketParams{
		EventConfig:          cfg.Address(),
		SellerAddress:        testAuthority(),
		CurrentTicketID:      1,
		CurrentOriginalPrice: 1000,
		SellerSecret:         sellerSecret,
		NewOwnerCommitment:   encorecrypto.Commit(testAuthority(), encorecrypto.Secret{8}),
		NewRandomSeed:        [32]byte{2},
		ResalePrice:          &tooHigh,
	})
	if !errors.Is(err, ErrExceedsResaleCap) {
		t.Fatalf("expected ErrExceedsResaleCap, got %v", err)
	}
}

func TestTransferTicketRejectsDoubleSpend(t *testing.T) {
	p, _, _ := newTestProgram(t)
	cfg := mustCreateEvent(t, p, 10, 15000)

	sellerSecret := encorecrypto.Secret{3}
	sellerCommitment := encorecrypto.Commit(testAuthority(), sellerSecret)
	if _, err := p.MintTicket(MintTicketParams{
		EventConfig:      cfg.Address(),
		OwnerCommitment:  sellerCommitment,
		PurchasePrice:    1000,
		RandomTicketSeed: [32]byte{1},
	}); err != nil {
		t.Fatalf("mint: %v", err)
	}

	params := TransferTicketParams{
		EventConfig:          cfg.Address(),
		SellerAddress:        testAuthority(),
		CurrentTicketID:      1,
		CurrentOriginalPrice: 1000,
		SellerSecret:         sellerSecret,
		NewOwnerCommitment:   encorecrypto.Commit(testAuthority(), encorecrypto.Secret{4}),
		NewRandomSeed:        [32]byte{5},
	}
	if _, err := p.TransferTicket(params); err != nil {
		t.Fatalf("first transfer: %v", err)
	}

	params.NewRandomSeed = [32]byte{6}
	if _, err := p.TransferTicket(params); !errors.Is(err, ErrAddressExists) {
		t.Fatalf("expected ErrAddressExists replaying seller_secret's nullifier, got %v", err)
	}
}
