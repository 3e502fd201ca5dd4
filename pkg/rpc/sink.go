package rpc

import (
	"github.com/encoreprotocol/encore/pkg/program"
)

// eventsChannel is the single websocket channel every Observable Event
// broadcasts on; clients filter by the Type field of the envelope they
// receive rather than subscribing to one channel per event kind, since
// there are only nine event kinds total and splitting them further buys
// nothing a client-side filter doesn't already give for free.
const eventsChannel = "events"

// hubSink adapts Hub to program.Sink, broadcasting every emitted
// Observable Event to websocket subscribers. It never emits raw
// ownership identifiers beyond what program already includes in its
// event structs, which are deliberately free of raw ownership
// identifiers.
type hubSink struct {
	hub *Hub
}

// NewHubSink builds a program.Sink backed by hub, for wiring into
// program.New before a Server is built around the same hub (see
// NewServer's doc comment for the required construction order).
func NewHubSink(hub *Hub) program.Sink {
	return &hubSink{hub: hub}
}

func (s *hubSink) Emit(event interface{}) {
	s.hub.BroadcastToChannel(eventsChannel, WSEvent{
		Channel: eventsChannel,
		Type:    eventTypeName(event),
		Data:    event,
	})
}

func eventTypeName(event interface{}) string {
	switch event.(type) {
	case program.EventCreated:
		return "EventCreated"
	case program.EventUpdated:
		return "EventUpdated"
	case program.TicketMinted:
		return "TicketMinted"
	case program.TicketTransferred:
		return "TicketTransferred"
	case program.ListingCreated:
		return "ListingCreated"
	case program.ListingClaimed:
		return "ListingClaimed"
	case program.SaleCompleted:
		return "SaleCompleted"
	case program.ListingCancelled:
		return "ListingCancelled"
	case program.ClaimCancelled:
		return "ClaimCancelled"
	default:
		return "Unknown"
	}
}
