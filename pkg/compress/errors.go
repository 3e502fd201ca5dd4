package compress

import "errors"

// Sentinel errors for the compressed-account substrate, matching the
// failure modes the adapter layer is responsible for surfacing.
var (
	// ErrAddressExists is returned by CreateAt when the address already
	// has a leaf — the double-spend / double-create guard.
	ErrAddressExists = errors.New("compress: address already exists")

	// ErrInvalidValidityProof is returned when a ValidityProofBundle's
	// root does not match the tree's current root, or a presence/absence
	// proof fails to verify against it.
	ErrInvalidValidityProof = errors.New("compress: invalid validity proof")

	// ErrTreeMismatch is returned when a proof or packed account handle
	// references a tree id that does not match the tree it is checked
	// against.
	ErrTreeMismatch = errors.New("compress: tree mismatch")

	// ErrInsufficientPackedAccounts is returned by Pack when an
	// instruction references more distinct tree accounts than fit in the
	// packed index space handed to it.
	ErrInsufficientPackedAccounts = errors.New("compress: insufficient packed accounts")
)
