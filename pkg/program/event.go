package program

import (
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	encorecrypto "github.com/encoreprotocol/encore/pkg/crypto"
	"github.com/encoreprotocol/encore/pkg/storage"
)

// CreateEventParams are the positional arguments of the create_event
// instruction.
type CreateEventParams struct {
	Authority           common.Address
	MaxSupply           uint32
	ResaleCapBps        uint32
	Name                string
	Location            string
	Description         string
	MaxTicketsPerPerson uint8
	EventTimestamp      int64
}

func validateEventFields(name, location, description string, resaleCapBps uint32, maxSupply uint32, eventTimestamp, now int64) error {
	if maxSupply == 0 {
		return newErr(CodeInvalidTicketSupply, "max_supply must be greater than zero")
	}
	if resaleCapBps < minResaleCapBps || resaleCapBps > maxResaleCapBps {
		return newErr(CodeResaleCapOutOfRange, "resale_cap_bps %d out of range [%d, %d]", resaleCapBps, minResaleCapBps, maxResaleCapBps)
	}
	if len(name) > maxNameLen {
		return newErr(CodeFieldTooLong, "name exceeds %d bytes", maxNameLen)
	}
	if len(location) > maxLocationLen {
		return newErr(CodeFieldTooLong, "location exceeds %d bytes", maxLocationLen)
	}
	if len(description) > maxDescLen {
		return newErr(CodeFieldTooLong, "description exceeds %d bytes", maxDescLen)
	}
	if eventTimestamp <= now {
		return newErr(CodeEventTimestampInPast, "event_timestamp %d is not in the future of %d", eventTimestamp, now)
	}
	return nil
}

// CreateEvent creates a new per-authority EventConfig account, failing on
// a duplicate authority, a range violation, or an event_timestamp not in
// the future.
func (p *Program) CreateEvent(params CreateEventParams) (*EventConfig, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.clock.Now().Unix()
	if err := validateEventFields(params.Name, params.Location, params.Description, params.ResaleCapBps, params.MaxSupply, params.EventTimestamp, now); err != nil {
		return nil, err
	}

	addr := encorecrypto.EventAddress(params.Authority)
	key := storage.EventKey([32]byte(addr))

	if exists, err := p.store.Has(key); err != nil {
		return nil, err
	} else if exists {
		return nil, newErr(CodeUnauthorized, "event already exists for authority %s", params.Authority.Hex())
	}

	cfg := &EventConfig{
		Authority:           params.Authority,
		MaxSupply:           params.MaxSupply,
		ResaleCapBps:        params.ResaleCapBps,
		Name:                params.Name,
		Location:            params.Location,
		Description:         params.Description,
		MaxTicketsPerPerson: params.MaxTicketsPerPerson,
		EventTimestamp:      params.EventTimestamp,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	enc, err := storage.Encode(cfg)
	if err != nil {
		return nil, err
	}
	if err := p.store.Set(key, enc); err != nil {
		return nil, err
	}

	p.log.Info("event created",
		zap.String("event_config", addr.Hex()),
		zap.String("authority", params.Authority.Hex()),
		zap.Uint32("max_supply", params.MaxSupply),
	)
	p.emit(EventCreated{EventConfig: addr, Authority: params.Authority, MaxSupply: params.MaxSupply})
	return cfg, nil
}

// UpdateEventParams are the optional mutable fields of update_event.
// Non-nil fields are applied; the rest of the account is unchanged.
type UpdateEventParams struct {
	Authority    common.Address
	ResaleCapBps *uint32
	Name         *string
	Location     *string
	Description  *string
}

// UpdateEvent mutates resale policy/metadata fields, gated on the
// signer matching the event's authority.
func (p *Program) UpdateEvent(params UpdateEventParams) (*EventConfig, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	addr := encorecrypto.EventAddress(params.Authority)
	cfg, err := p.getEventLocked(addr)
	if err != nil {
		return nil, err
	}

	if cfg.Authority != params.Authority {
		return nil, newErr(CodeUnauthorized, "signer %s is not the event authority", params.Authority.Hex())
	}

	resaleCapBps := cfg.ResaleCapBps
	if params.ResaleCapBps != nil {
		resaleCapBps = *params.ResaleCapBps
	}
	name := cfg.Name
	if params.Name != nil {
		name = *params.Name
	}
	location := cfg.Location
	if params.Location != nil {
		location = *params.Location
	}
	description := cfg.Description
	if params.Description != nil {
		description = *params.Description
	}

	now := p.clock.Now().Unix()
	if err := validateEventFields(name, location, description, resaleCapBps, cfg.MaxSupply, cfg.EventTimestamp, cfg.CreatedAt-1); err != nil {
		// EventTimestamp was already validated as future-of-creation at
		// create_event time and is immutable here, so the timestamp
		// check is given a trivially-passing floor (CreatedAt - 1).
		return nil, err
	}

	cfg.ResaleCapBps = resaleCapBps
	cfg.Name = name
	cfg.Location = location
	cfg.Description = description
	cfg.UpdatedAt = now

	enc, err := storage.Encode(cfg)
	if err != nil {
		return nil, err
	}
	if err := p.store.Set(storage.EventKey([32]byte(addr)), enc); err != nil {
		return nil, err
	}

	p.log.Info("event updated",
		zap.String("event_config", addr.Hex()),
		zap.Uint32("resale_cap_bps", resaleCapBps),
	)
	p.emit(EventUpdated{EventConfig: addr, ResaleCapBps: resaleCapBps})
	return cfg, nil
}

// GetEvent reads the EventConfig at addr.
func (p *Program) GetEvent(addr encorecrypto.Hash) (*EventConfig, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.getEventLocked(addr)
}

func (p *Program) getEventLocked(addr encorecrypto.Hash) (*EventConfig, error) {
	raw, err := p.store.Get(storage.EventKey([32]byte(addr)))
	if err != nil {
		return nil, err
	}
	var cfg EventConfig
	if err := storage.Decode(raw, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
