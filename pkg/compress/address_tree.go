package compress

import (
	"fmt"

	"github.com/cockroachdb/pebble"
)

// AddressTree tracks which addresses in the compressed-account space have
// ever been created. Its leaves are the addresses themselves; its root is
// what a ValidityProofBundle's absence proof is checked against.
//
// Address creation is the protocol's only write primitive: there is no
// update or delete here, only CreateAt, which fails closed the second
// time it is called for the same address — this is what makes replaying
// a nullifier's creation (double-spend) impossible.
type AddressTree struct {
	db   *pebble.DB
	tree *Tree
}

// NewAddressTree opens the address tree identified by treeID inside db.
func NewAddressTree(db *pebble.DB, treeID string) *AddressTree {
	return &AddressTree{db: db, tree: NewTree(db, "addr:"+treeID)}
}

func (a *AddressTree) existsKey(addr [32]byte) []byte {
	return append([]byte("addrset:"+a.tree.treeID+":"), addr[:]...)
}

// Exists reports whether addr already has a leaf.
func (a *AddressTree) Exists(addr [32]byte) (bool, error) {
	_, closer, err := a.db.Get(a.existsKey(addr))
	if err == pebble.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check address existence: %w", err)
	}
	closer.Close()
	return true, nil
}

// CreateAt creates addr, failing with ErrAddressExists if it was already
// created. Returns the leaf index and the tree's new root.
func (a *AddressTree) CreateAt(addr [32]byte) (index uint64, root [32]byte, err error) {
	exists, err := a.Exists(addr)
	if err != nil {
		return 0, [32]byte{}, err
	}
	if exists {
		return 0, [32]byte{}, ErrAddressExists
	}

	index, root, err = a.tree.Append(addr)
	if err != nil {
		return 0, [32]byte{}, fmt.Errorf("append address leaf: %w", err)
	}

	indexBuf := []byte(fmt.Sprintf("%016x", index))
	if err := a.db.Set(a.existsKey(addr), indexBuf, pebble.NoSync); err != nil {
		return 0, [32]byte{}, fmt.Errorf("record address existence: %w", err)
	}
	return index, root, nil
}

// Root returns the address tree's current root.
func (a *AddressTree) Root() ([32]byte, error) {
	return a.tree.Root()
}
