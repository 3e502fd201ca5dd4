package storage

// Key prefixes partition the shared pebble database by account kind,
// using a lexicographically sortable schema.
const (
	prefixEvent   = "evt:"
	prefixListing = "lst:"
	prefixEscrow  = "esc:"
	prefixTicket  = "tkt:"
)

// EventKey builds the storage key for the EventConfig account at addr.
func EventKey(addr [32]byte) []byte {
	return append([]byte(prefixEvent), addr[:]...)
}

// ListingKey builds the storage key for the Listing account at addr.
func ListingKey(addr [32]byte) []byte {
	return append([]byte(prefixListing), addr[:]...)
}

// EscrowKey builds the storage key for the Escrow account at addr.
func EscrowKey(addr [32]byte) []byte {
	return append([]byte(prefixEscrow), addr[:]...)
}

// TicketKey builds the storage key for the ticket record minted at addr.
// This is a reconstruction aid, not an owner index: it is looked up only
// by the compressed ticket's own derived address, the same access pattern
// the RPC read surface exposes.
func TicketKey(addr [32]byte) []byte {
	return append([]byte(prefixTicket), addr[:]...)
}

// EventPrefix returns the scan prefix for every EventConfig account.
func EventPrefix() []byte { return []byte(prefixEvent) }

// ListingPrefix returns the scan prefix for every Listing account.
func ListingPrefix() []byte { return []byte(prefixListing) }
