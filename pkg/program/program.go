// Package program implements the Encore protocol core: the EventConfig
// store, the ticket lifecycle, the listing/escrow state machine and the
// marketplace transition. Each exported Program method applies one
// instruction, mutates state and emits an event.
package program

import (
	"sync"

	"go.uber.org/zap"

	"github.com/encoreprotocol/encore/pkg/compress"
	"github.com/encoreprotocol/encore/pkg/storage"
	"github.com/encoreprotocol/encore/pkg/util"
)

// Program is the protocol core: one pebble-backed Store for conventional
// accounts, one shared address tree for every compressed ticket/nullifier
// address, and one state tree for ticket leaf content. Every exported
// method is one instruction; instructions touching the same account
// serialize through mu, so instructions touching the same EventConfig
// always serialize — there is no concurrent execution to reason about
// beyond that single lock.
type Program struct {
	mu sync.Mutex

	store       *storage.Store
	addressTree *compress.AddressTree
	stateTree   *compress.StateTree

	clock  util.Clock
	log    *zap.Logger
	sink   Sink
	treeID string
}

// New wires a Program against an already-open Store. treeID names both
// the address tree and the state tree sharing the store's pebble handle —
// a single deployment uses one pair of trees for its whole address space.
// A nil sink is replaced with NopSink.
func New(store *storage.Store, treeID string, clock util.Clock, log *zap.Logger, sink Sink) *Program {
	if sink == nil {
		sink = NopSink{}
	}
	return &Program{
		store:       store,
		addressTree: compress.NewAddressTree(store.DB(), treeID),
		stateTree:   compress.NewStateTree(store.DB(), treeID),
		clock:       clock,
		log:         log,
		sink:        sink,
		treeID:      treeID,
	}
}

func (p *Program) emit(event interface{}) {
	p.sink.Emit(event)
}
