package program

import (
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/encoreprotocol/encore/pkg/compress"
	encorecrypto "github.com/encoreprotocol/encore/pkg/crypto"
	"github.com/encoreprotocol/encore/pkg/storage"
)

// MintTicketParams are the positional arguments of mint_ticket. Proof is
// the validity-proof witness asserting the derived ticket address is
// absent, checked against the trees' live roots via
// compress.CheckFreshness when provided. It is optional: unit tests that
// exercise Program directly omit it, and pkg/rpc does not build one for
// instructions submitted over the wire either. Either way, Program
// re-derives and enforces the address-absence guarantee itself via
// AddressTree.CreateAt.
type MintTicketParams struct {
	EventConfig      encorecrypto.Hash
	OwnerCommitment  encorecrypto.Hash
	PurchasePrice    uint64
	RandomTicketSeed [32]byte
	Proof            *compress.ValidityProofBundle
}

// MintTicket creates the first compressed Ticket record for a newly
// issued seat: ticket_id ← tickets_minted + 1, a fresh ticket leaf at
// derive_ticket_address(random_ticket_seed).
func (p *Program) MintTicket(params MintTicketParams) (*TicketRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if params.Proof != nil {
		if err := compress.CheckFreshness(*params.Proof, p.addressTree, p.stateTree); err != nil {
			return nil, translateCompressErr(err)
		}
	}

	cfg, err := p.getEventLocked(params.EventConfig)
	if err != nil {
		return nil, err
	}
	if cfg.TicketsMinted >= cfg.MaxSupply {
		return nil, newErr(CodeMaxSupplyReached, "tickets_minted (%d) has reached max_supply (%d)", cfg.TicketsMinted, cfg.MaxSupply)
	}

	ticketAddr := encorecrypto.DeriveTicketAddress(params.RandomTicketSeed)
	ticketID := cfg.TicketsMinted + 1

	record := TicketRecord{
		EventConfig:     params.EventConfig,
		TicketID:        ticketID,
		OwnerCommitment: params.OwnerCommitment,
		OriginalPrice:   params.PurchasePrice,
	}

	if _, _, err := p.addressTree.CreateAt([32]byte(ticketAddr)); err != nil {
		return nil, translateCompressErr(err)
	}
	if _, _, err := p.stateTree.AppendLeaf(record.LeafHash()); err != nil {
		return nil, err
	}

	enc, err := storage.Encode(record)
	if err != nil {
		return nil, err
	}

	cfg.TicketsMinted = ticketID
	cfg.UpdatedAt = p.clock.Now().Unix()
	cfgEnc, err := storage.Encode(cfg)
	if err != nil {
		return nil, err
	}

	batch := p.store.NewBatch()
	defer batch.Close()
	if err := batch.Set(storage.TicketKey([32]byte(ticketAddr)), enc); err != nil {
		return nil, err
	}
	if err := batch.Set(storage.EventKey([32]byte(params.EventConfig)), cfgEnc); err != nil {
		return nil, err
	}
	if err := batch.Commit(); err != nil {
		return nil, err
	}

	p.log.Info("ticket minted",
		zap.String("event_config", params.EventConfig.Hex()),
		zap.Uint32("ticket_id", ticketID),
	)
	p.emit(TicketMinted{EventConfig: params.EventConfig, TicketID: ticketID, OwnerCommitment: params.OwnerCommitment})
	return &record, nil
}

// TransferTicketParams are the positional arguments of transfer_ticket:
// the privacy-preserving ownership-change primitive, separated from the
// marketplace layer.
type TransferTicketParams struct {
	EventConfig          encorecrypto.Hash
	SellerAddress        common.Address
	CurrentTicketID      uint32
	CurrentOriginalPrice uint64
	SellerSecret         encorecrypto.Secret
	NewOwnerCommitment   encorecrypto.Hash
	NewRandomSeed        [32]byte
	ResalePrice          *uint64
	Proof                *compress.ValidityProofBundle
}

// TransferTicket spends the ticket identified by seller_secret and mints
// its successor to new_owner_commitment, in one atomic create-nullifier +
// create-ticket step (spendAndMint), enforcing the resale cap against the
// caller-asserted current_original_price when a resale price is given.
// It is caller-asserted rather than proof-checked because cross-checking
// it against the compressed ticket record itself would require folding a
// presence proof into the CREATE-only validity-proof bundle this
// protocol uses, which only ever proves absence.
func (p *Program) TransferTicket(params TransferTicketParams) (*TicketRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if params.Proof != nil {
		if err := compress.CheckFreshness(*params.Proof, p.addressTree, p.stateTree); err != nil {
			return nil, translateCompressErr(err)
		}
	}

	cfg, err := p.getEventLocked(params.EventConfig)
	if err != nil {
		return nil, err
	}

	if params.ResalePrice != nil {
		if err := checkResaleCap(*params.ResalePrice, params.CurrentOriginalPrice, cfg.ResaleCapBps); err != nil {
			return nil, err
		}
	}

	newRecord, nullifierAddr, err := p.spendAndMint(
		params.EventConfig,
		params.CurrentTicketID,
		params.CurrentOriginalPrice,
		params.SellerSecret,
		params.NewOwnerCommitment,
		params.NewRandomSeed,
	)
	if err != nil {
		return nil, err
	}

	oldCommitment := encorecrypto.Commit(params.SellerAddress, params.SellerSecret)
	p.log.Info("ticket transferred",
		zap.String("event_config", params.EventConfig.Hex()),
		zap.Uint32("ticket_id", params.CurrentTicketID),
	)
	p.emit(TicketTransferred{
		EventConfig:   params.EventConfig,
		TicketID:      params.CurrentTicketID,
		OldCommitment: oldCommitment,
		NewCommitment: params.NewOwnerCommitment,
		Nullifier:     nullifierAddr,
	})
	return newRecord, nil
}

// checkResaleCap enforces the protocol's resale-cap law:
// price ≤ original_price × resale_cap_bps / 10_000.
func checkResaleCap(price, originalPrice uint64, resaleCapBps uint32) error {
	cap := (originalPrice * uint64(resaleCapBps)) / 10_000
	if price > cap {
		return newErr(CodeExceedsResaleCap, "price %d exceeds resale cap %d (original_price=%d, resale_cap_bps=%d)", price, cap, originalPrice, resaleCapBps)
	}
	return nil
}

// spendAndMint is the shared core of transfer_ticket and complete_sale:
// create the seller's nullifier, then mint the successor ticket under
// the same ticket_id and original_price. Either both happen or neither
// does — a taken successor address is refused before the nullifier is
// created, and CreateAt on the nullifier address fails closed on replay
// before the successor ticket is ever created.
func (p *Program) spendAndMint(
	eventConfig encorecrypto.Hash,
	ticketID uint32,
	originalPrice uint64,
	sellerSecret encorecrypto.Secret,
	newOwnerCommitment encorecrypto.Hash,
	newRandomSeed [32]byte,
) (*TicketRecord, encorecrypto.Hash, error) {
	nullifierAddr := encorecrypto.DeriveNullifierAddress(sellerSecret)
	newTicketAddr := encorecrypto.DeriveTicketAddress(newRandomSeed)
	if exists, err := p.addressTree.Exists([32]byte(newTicketAddr)); err != nil {
		return nil, encorecrypto.Hash{}, err
	} else if exists {
		return nil, encorecrypto.Hash{}, ErrAddressExists
	}

	if _, _, err := p.addressTree.CreateAt([32]byte(nullifierAddr)); err != nil {
		return nil, encorecrypto.Hash{}, translateCompressErr(err)
	}

	record := TicketRecord{
		EventConfig:     eventConfig,
		TicketID:        ticketID,
		OwnerCommitment: newOwnerCommitment,
		OriginalPrice:   originalPrice,
	}

	if _, _, err := p.addressTree.CreateAt([32]byte(newTicketAddr)); err != nil {
		return nil, encorecrypto.Hash{}, translateCompressErr(err)
	}
	if _, _, err := p.stateTree.AppendLeaf(record.LeafHash()); err != nil {
		return nil, encorecrypto.Hash{}, err
	}

	enc, err := storage.Encode(record)
	if err != nil {
		return nil, encorecrypto.Hash{}, err
	}
	if err := p.store.Set(storage.TicketKey([32]byte(newTicketAddr)), enc); err != nil {
		return nil, encorecrypto.Hash{}, err
	}

	return &record, nullifierAddr, nil
}
