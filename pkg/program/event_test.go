package program

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	encorecrypto "github.com/encoreprotocol/encore/pkg/crypto"
)

func testAuthority() common.Address {
	return common.HexToAddress("0x1111111111111111111111111111111111111a")
}

func cfgAddress() encorecrypto.Hash {
	return encorecrypto.EventAddress(testAuthority())
}

func errorIs(err, target error) bool {
	return errors.Is(err, target)
}

func TestCreateEventSucceeds(t *testing.T) {
	p, _, sink := newTestProgram(t)

	cfg, err := p.CreateEvent(CreateEventParams{
		Authority:           testAuthority(),
		MaxSupply:           1000,
		ResaleCapBps:        15000,
		Name:                "DevCon",
		Location:            "Lisbon",
		Description:         "annual developer conference",
		MaxTicketsPerPerson: 4,
		EventTimestamp:      1_800_000_000,
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if cfg.TicketsMinted != 0 {
		t.Errorf("tickets_minted = %d, want 0", cfg.TicketsMinted)
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected 1 emitted event, got %d", len(sink.events))
	}
	if _, ok := sink.events[0].(EventCreated); !ok {
		t.Errorf("expected EventCreated, got %T", sink.events[0])
	}
}

func TestCreateEventRejectsDuplicateAuthority(t *testing.T) {
	p, _, _ := newTestProgram(t)
	params := CreateEventParams{
		Authority:      testAuthority(),
		MaxSupply:      10,
		ResaleCapBps:   15000,
		EventTimestamp: 1_800_000_000,
	}
	if _, err := p.CreateEvent(params); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := p.CreateEvent(params); err == nil {
		t.Fatal("expected duplicate authority to fail")
	}
}

func TestCreateEventRejectsPastTimestamp(t *testing.T) {
	p, clock, _ := newTestProgram(t)
	params := CreateEventParams{
		Authority:      testAuthority(),
		MaxSupply:      10,
		ResaleCapBps:   15000,
		EventTimestamp: clock.Now().Unix() - 1,
	}
	_, err := p.CreateEvent(params)
	if !errorIs(err, ErrEventTimestampInPast) {
		t.Fatalf("expected ErrEventTimestampInPast, got %v", err)
	}
}

func TestCreateEventRejectsResaleCapOutOfRange(t *testing.T) {
	p, clock, _ := newTestProgram(t)
	params := CreateEventParams{
		Authority:      testAuthority(),
		MaxSupply:      10,
		ResaleCapBps:   5000,
		EventTimestamp: clock.Now().Unix() + 1000,
	}
	_, err := p.CreateEvent(params)
	if !errorIs(err, ErrResaleCapOutOfRange) {
		t.Fatalf("expected ErrResaleCapOutOfRange, got %v", err)
	}
}

func TestCreateEventRejectsFieldTooLong(t *testing.T) {
	p, clock, _ := newTestProgram(t)
	longName := make([]byte, 65)
	params := CreateEventParams{
		Authority:      testAuthority(),
		MaxSupply:      10,
		ResaleCapBps:   15000,
		Name:           string(longName),
		EventTimestamp: clock.Now().Unix() + 1000,
	}
	_, err := p.CreateEvent(params)
	if !errorIs(err, ErrFieldTooLong) {
		t.Fatalf("expected ErrFieldTooLong, got %v", err)
	}
}

func TestUpdateEventByAuthorityUpdatesResaleCap(t *testing.T) {
	p, clock, _ := newTestProgram(t)
	if _, err := p.CreateEvent(CreateEventParams{
		Authority:      testAuthority(),
		MaxSupply:      10,
		ResaleCapBps:   15000,
		EventTimestamp: clock.Now().Unix() + 1000,
	}); err != nil {
		t.Fatalf("create event: %v", err)
	}

	newCap := uint32(20000)
	if _, err := p.UpdateEvent(UpdateEventParams{Authority: testAuthority(), ResaleCapBps: &newCap}); err != nil {
		t.Fatalf("update event: %v", err)
	}

	cfg, err := p.GetEvent(cfgAddress())
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if cfg.ResaleCapBps != newCap {
		t.Errorf("resale_cap_bps = %d, want %d", cfg.ResaleCapBps, newCap)
	}
}
