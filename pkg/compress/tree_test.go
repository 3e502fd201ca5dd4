package compress

import (
	"testing"

	"github.com/cockroachdb/pebble"
)

func openTestDB(t *testing.T) *pebble.DB {
	t.Helper()
	db, err := pebble.Open(t.TempDir(), &pebble.Options{})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTreeAppendAndProve(t *testing.T) {
	db := openTestDB(t)
	tree := NewTree(db, "test")

	var leafA, leafB [32]byte
	leafA[0] = 0xAA
	leafB[0] = 0xBB

	idxA, rootA, err := tree.Append(leafA)
	if err != nil {
		t.Fatalf("append A: %v", err)
	}
	if idxA != 0 {
		t.Errorf("first index = %d, want 0", idxA)
	}

	idxB, rootB, err := tree.Append(leafB)
	if err != nil {
		t.Fatalf("append B: %v", err)
	}
	if idxB != 1 {
		t.Errorf("second index = %d, want 1", idxB)
	}
	if rootA == rootB {
		t.Error("root did not change after second append")
	}

	proofA, err := tree.ProveInclusion(idxA)
	if err != nil {
		t.Fatalf("prove A: %v", err)
	}
	if !VerifyInclusion(leafA, proofA, rootB) {
		t.Error("leaf A failed to verify against current root")
	}

	proofB, err := tree.ProveInclusion(idxB)
	if err != nil {
		t.Fatalf("prove B: %v", err)
	}
	if !VerifyInclusion(leafB, proofB, rootB) {
		t.Error("leaf B failed to verify against current root")
	}

	if VerifyInclusion(leafA, proofB, rootB) {
		t.Error("leaf A should not verify against leaf B's proof")
	}
}

func TestTreeCountPersists(t *testing.T) {
	db := openTestDB(t)
	tree := NewTree(db, "count")

	var leaf [32]byte
	for i := 0; i < 5; i++ {
		leaf[0] = byte(i)
		if _, _, err := tree.Append(leaf); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	count, err := tree.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 5 {
		t.Errorf("count = %d, want 5", count)
	}
}
