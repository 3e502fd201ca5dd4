package compress

// AccountHandle is an opaque reference to a tree account (an address tree
// or state tree id) that an instruction touches. The real substrate packs
// these into compact indices alongside an instruction rather than
// repeating full tree ids; Pack mirrors that shape so instruction structs
// built here look like the real ones.
type AccountHandle string

// PackedAccounts is the result of Pack: the deduplicated list of handles
// an instruction references, in the order their compact indices assign.
// CheckFreshness packs a validity proof's absence/presence addresses this
// way before checking them, so a repeated account reference is verified
// once rather than once per occurrence.
type PackedAccounts struct {
	Handles []AccountHandle
}

// IndexOf returns the compact uint16 index for handle, or
// ErrInsufficientPackedAccounts if handle was not part of the pack.
func (p PackedAccounts) IndexOf(handle AccountHandle) (uint16, error) {
	for i, h := range p.Handles {
		if h == handle {
			return uint16(i), nil
		}
	}
	return 0, ErrInsufficientPackedAccounts
}

// Pack deduplicates handles and assigns each a stable uint16 index,
// rejecting inputs that would not fit in the packed index space.
func Pack(handles []AccountHandle) (PackedAccounts, error) {
	seen := make(map[AccountHandle]struct{}, len(handles))
	packed := make([]AccountHandle, 0, len(handles))
	for _, h := range handles {
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		packed = append(packed, h)
	}
	if len(packed) > 1<<16 {
		return PackedAccounts{}, ErrInsufficientPackedAccounts
	}
	return PackedAccounts{Handles: packed}, nil
}
