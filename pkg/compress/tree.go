// Package compress implements an in-repo substrate for the protocol's
// compressed account model: addresses and account state are not stored
// as individual chain accounts but as leaves of Merkle trees,
// with creation and inclusion proven against a tree root rather than read
// directly. There is no real Solana/light-protocol substrate available to
// a standalone Go module, so this package emulates the two trees the
// protocol needs (an address tree and a state tree) on top of pebble,
// using the H_addr primitive for every internal node hash.
package compress

import (
	"encoding/binary"
	"fmt"

	"github.com/cockroachdb/pebble"

	encryptocrypto "github.com/encoreprotocol/encore/pkg/crypto"
)

// Depth bounds every tree at 2^Depth leaves, comfortably beyond anything a
// single devnet-scale deployment mints.
const Depth = 20

// Tree is an append-only, pebble-backed incremental Merkle tree. Every
// internal node is computed as H_addr(left, right); leaves are appended in
// order and never mutated, matching the protocol's CREATE-only account
// model — there is no operation here that rewrites an existing leaf.
type Tree struct {
	db     *pebble.DB
	treeID string
	zero   [Depth + 1][32]byte
}

// NewTree opens (or continues) the tree identified by treeID inside db.
// Multiple trees can share one pebble database; each is isolated by its
// key prefix.
func NewTree(db *pebble.DB, treeID string) *Tree {
	t := &Tree{db: db, treeID: treeID}
	t.zero[0] = [32]byte{}
	for i := 1; i <= Depth; i++ {
		h := encryptocrypto.HAddr([]byte("encore/compress/zero"), t.zero[i-1][:])
		t.zero[i] = [32]byte(h)
	}
	return t
}

func (t *Tree) nodeKey(level uint8, index uint64) []byte {
	k := make([]byte, 0, len(t.treeID)+1+1+8)
	k = append(k, []byte("cmt:")...)
	k = append(k, t.treeID...)
	k = append(k, ':', 'n', level)
	idx := make([]byte, 8)
	binary.BigEndian.PutUint64(idx, index)
	return append(k, idx...)
}

func (t *Tree) countKey() []byte {
	return []byte(fmt.Sprintf("cmt:%s:count", t.treeID))
}

func (t *Tree) rootKey() []byte {
	return []byte(fmt.Sprintf("cmt:%s:root", t.treeID))
}

// Count returns the number of leaves appended so far.
func (t *Tree) Count() (uint64, error) {
	val, closer, err := t.db.Get(t.countKey())
	if err == pebble.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read leaf count: %w", err)
	}
	defer closer.Close()
	return binary.BigEndian.Uint64(val), nil
}

// Root returns the tree's current root, or the depth-Depth zero hash if no
// leaves have been appended yet.
func (t *Tree) Root() ([32]byte, error) {
	val, closer, err := t.db.Get(t.rootKey())
	if err == pebble.ErrNotFound {
		return t.zero[Depth], nil
	}
	if err != nil {
		return [32]byte{}, fmt.Errorf("read root: %w", err)
	}
	defer closer.Close()
	var root [32]byte
	copy(root[:], val)
	return root, nil
}

func (t *Tree) readNode(batch *pebble.Batch, level uint8, index uint64) ([32]byte, error) {
	val, closer, err := batch.Get(t.nodeKey(level, index))
	if err == pebble.ErrNotFound {
		return t.zero[level], nil
	}
	if err != nil {
		return [32]byte{}, fmt.Errorf("read node level=%d index=%d: %w", level, index, err)
	}
	defer closer.Close()
	var h [32]byte
	copy(h[:], val)
	return h, nil
}

// Append adds leaf to the tree and returns its index and the new root. The
// write is committed atomically: either the leaf, every recomputed
// ancestor node, the updated count and the new root all land, or none do.
func (t *Tree) Append(leaf [32]byte) (index uint64, root [32]byte, err error) {
	index, err = t.Count()
	if err != nil {
		return 0, [32]byte{}, err
	}

	batch := t.db.NewIndexedBatch()
	defer batch.Close()

	if err := batch.Set(t.nodeKey(0, index), leaf[:], nil); err != nil {
		return 0, [32]byte{}, fmt.Errorf("set leaf: %w", err)
	}

	cur := leaf
	i := index
	for level := uint8(0); level < Depth; level++ {
		siblingIndex := i ^ 1
		sibling, err := t.readNode(batch, level, siblingIndex)
		if err != nil {
			return 0, [32]byte{}, err
		}

		var parent [32]byte
		if i%2 == 0 {
			parent = [32]byte(encryptocrypto.HAddr([]byte("encore/compress/node"), cur[:], sibling[:]))
		} else {
			parent = [32]byte(encryptocrypto.HAddr([]byte("encore/compress/node"), sibling[:], cur[:]))
		}

		i = i / 2
		if err := batch.Set(t.nodeKey(level+1, i), parent[:], nil); err != nil {
			return 0, [32]byte{}, fmt.Errorf("set node level=%d: %w", level+1, err)
		}
		cur = parent
	}

	countBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(countBuf, index+1)
	if err := batch.Set(t.countKey(), countBuf, nil); err != nil {
		return 0, [32]byte{}, fmt.Errorf("set count: %w", err)
	}
	if err := batch.Set(t.rootKey(), cur[:], nil); err != nil {
		return 0, [32]byte{}, fmt.Errorf("set root: %w", err)
	}

	if err := batch.Commit(pebble.NoSync); err != nil {
		return 0, [32]byte{}, fmt.Errorf("commit append: %w", err)
	}
	return index, cur, nil
}

// Proof is a Merkle inclusion proof: the sibling hash at each level from
// the leaf up to the root.
type Proof struct {
	Index    uint64
	Siblings [Depth][32]byte
}

// ProveInclusion builds the inclusion proof for the leaf at index, read
// against the tree's current state (not a historical snapshot — callers
// that need a stable root check it against the ValidityProofBundle's
// recorded root).
func (t *Tree) ProveInclusion(index uint64) (Proof, error) {
	snap := t.db.NewSnapshot()
	defer snap.Close()

	proof := Proof{Index: index}
	i := index
	for level := uint8(0); level < Depth; level++ {
		siblingIndex := i ^ 1
		val, closer, err := snap.Get(t.nodeKey(level, siblingIndex))
		if err == pebble.ErrNotFound {
			proof.Siblings[level] = t.zero[level]
		} else if err != nil {
			return Proof{}, fmt.Errorf("read sibling level=%d: %w", level, err)
		} else {
			copy(proof.Siblings[level][:], val)
			closer.Close()
		}
		i = i / 2
	}
	return proof, nil
}

// VerifyInclusion recomputes the root that leaf at index, combined with
// proof's siblings, implies, and reports whether it equals root.
func VerifyInclusion(leaf [32]byte, proof Proof, root [32]byte) bool {
	cur := leaf
	i := proof.Index
	for level := uint8(0); level < Depth; level++ {
		sibling := proof.Siblings[level]
		if i%2 == 0 {
			cur = [32]byte(encryptocrypto.HAddr([]byte("encore/compress/node"), cur[:], sibling[:]))
		} else {
			cur = [32]byte(encryptocrypto.HAddr([]byte("encore/compress/node"), sibling[:], cur[:]))
		}
		i = i / 2
	}
	return cur == root
}
