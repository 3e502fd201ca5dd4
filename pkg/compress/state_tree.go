package compress

import (
	"github.com/cockroachdb/pebble"
)

// StateTree holds the leaf hash of every live compressed account (a
// Ticket or a Nullifier record). ProvePresence is how an instruction
// demonstrates a compressed account it references actually exists, the
// counterpart to AddressTree's absence proofs.
type StateTree struct {
	tree *Tree
}

// NewStateTree opens the state tree identified by treeID inside db.
func NewStateTree(db *pebble.DB, treeID string) *StateTree {
	return &StateTree{tree: NewTree(db, "state:"+treeID)}
}

// AppendLeaf adds leafHash (the hash of an account's serialized content) to
// the tree and returns its index and the tree's new root.
func (s *StateTree) AppendLeaf(leafHash [32]byte) (index uint64, root [32]byte, err error) {
	return s.tree.Append(leafHash)
}

// ProvePresence returns a Merkle inclusion proof for the leaf at index.
func (s *StateTree) ProvePresence(index uint64) (Proof, error) {
	return s.tree.ProveInclusion(index)
}

// Root returns the state tree's current root.
func (s *StateTree) Root() ([32]byte, error) {
	return s.tree.Root()
}

// VerifyPresence checks that leafHash at proof.Index is included under
// root.
func VerifyPresence(leafHash [32]byte, proof Proof, root [32]byte) bool {
	return VerifyInclusion(leafHash, proof, root)
}
