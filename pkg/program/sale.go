package program

import (
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/encoreprotocol/encore/pkg/compress"
	encorecrypto "github.com/encoreprotocol/encore/pkg/crypto"
)

// CompleteSaleParams are the positional arguments of complete_sale.
// Proof is the validity-proof witness covering the seller's nullifier
// address and the buyer's successor-ticket address simultaneously; see
// MintTicketParams' doc comment for why it's optional (pkg/rpc does not
// supply one).
type CompleteSaleParams struct {
	ListingAddress       encorecrypto.Hash
	Signer               common.Address
	SellerSecret         encorecrypto.Secret
	CurrentOriginalPrice uint64
	NewRandomSeed        [32]byte
	Proof                *compress.ValidityProofBundle
}

// CompleteSale is the marketplace completion transition: the hardest
// instruction in the protocol, atomic across an ownership check,
// a resale-cap check, a nullifier creation, a successor-ticket mint and
// an escrow release. Any failure aborts the whole instruction before any
// of its writes land.
func (p *Program) CompleteSale(params CompleteSaleParams) (*TicketRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if params.Proof != nil {
		if err := compress.CheckFreshness(*params.Proof, p.addressTree, p.stateTree); err != nil {
			return nil, translateCompressErr(err)
		}
	}

	listing, err := p.getListingLocked(params.ListingAddress)
	if err != nil {
		return nil, err
	}
	if listing.Status != StatusClaimed {
		return nil, ErrListingNotClaimed
	}
	if listing.Seller != params.Signer {
		return nil, ErrNotSeller
	}
	if listing.Buyer == nil || listing.BuyerCommitment == nil {
		return nil, ErrListingNotClaimed
	}

	// Step 1: ownership check — the seller must be able to open the
	// commitment stored in the listing.
	if encorecrypto.Commit(params.Signer, params.SellerSecret) != listing.OwnerCommitment {
		return nil, ErrCommitmentMismatch
	}

	// Step 2: resale cap, checked against the caller-asserted
	// current_original_price rather than a presence-proven prior ticket
	// record — see TransferTicket's doc comment in ticket.go.
	cfg, err := p.getEventLocked(listing.EventConfig)
	if err != nil {
		return nil, err
	}
	if err := checkResaleCap(listing.PriceLamports, params.CurrentOriginalPrice, cfg.ResaleCapBps); err != nil {
		return nil, err
	}

	escrowAddr := encorecrypto.EscrowAddress(params.ListingAddress)
	escrow, err := p.getEscrowLocked(escrowAddr)
	if err != nil {
		return nil, err
	}

	// Steps 3-4: create nullifier, mint successor ticket.
	newRecord, nullifierAddr, err := p.spendAndMint(
		listing.EventConfig,
		listing.TicketID,
		params.CurrentOriginalPrice,
		params.SellerSecret,
		*listing.BuyerCommitment,
		params.NewRandomSeed,
	)
	if err != nil {
		return nil, err
	}

	// Step 5: release escrow to the seller, then close it. Balance holds
	// only the buyer's deposit (ClaimListing never adds the rent-exempt
	// residue to it), so the whole balance is the seller's payout.
	payout := escrow.Balance
	escrow.Balance = 0
	escrow.Open = false
	if err := p.putEscrowLocked(escrow); err != nil {
		return nil, err
	}

	// Step 6: Listing → Completed, terminal.
	listing.Status = StatusCompleted
	if err := p.putListingLocked(listing); err != nil {
		return nil, err
	}

	newTicketAddr := encorecrypto.DeriveTicketAddress(params.NewRandomSeed)
	p.log.Info("sale completed",
		zap.String("listing", params.ListingAddress.Hex()),
		zap.String("nullifier", nullifierAddr.Hex()),
		zap.String("new_ticket", newTicketAddr.Hex()),
		zap.Uint64("seller_payout", payout),
	)
	p.emit(SaleCompleted{Listing: params.ListingAddress, Nullifier: nullifierAddr, NewTicket: newTicketAddr})
	return newRecord, nil
}
