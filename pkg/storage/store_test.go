package storage

import (
	"errors"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetGetRoundTrip(t *testing.T) {
	s := openTestStore(t)

	type record struct {
		Name string
		N    int
	}
	rec := record{Name: "alice", N: 7}

	var addr [32]byte
	addr[0] = 0x01
	key := EventKey(addr)

	enc, err := Encode(rec)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := s.Set(key, enc); err != nil {
		t.Fatalf("set: %v", err)
	}

	raw, err := s.Get(key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var got record
	if err := Decode(raw, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != rec {
		t.Errorf("got %+v, want %+v", got, rec)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	s := openTestStore(t)
	var addr [32]byte
	if _, err := s.Get(EventKey(addr)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBatchCommitsAtomically(t *testing.T) {
	s := openTestStore(t)
	var a, b [32]byte
	a[0], b[0] = 0x01, 0x02

	batch := s.NewBatch()
	if err := batch.Set(EventKey(a), []byte("one")); err != nil {
		t.Fatalf("batch set a: %v", err)
	}
	if err := batch.Set(EventKey(b), []byte("two")); err != nil {
		t.Fatalf("batch set b: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	got, err := s.Get(EventKey(a))
	if err != nil || string(got) != "one" {
		t.Errorf("a = %q, %v; want \"one\"", got, err)
	}
	got, err = s.Get(EventKey(b))
	if err != nil || string(got) != "two" {
		t.Errorf("b = %q, %v; want \"two\"", got, err)
	}
}

func TestIteratePrefix(t *testing.T) {
	s := openTestStore(t)
	var a, b, c [32]byte
	a[0], b[0], c[0] = 0x01, 0x02, 0x03

	for _, addr := range [][32]byte{a, b} {
		if err := s.Set(EventKey(addr), []byte("evt")); err != nil {
			t.Fatalf("set event: %v", err)
		}
	}
	if err := s.Set(ListingKey(c), []byte("lst")); err != nil {
		t.Fatalf("set listing: %v", err)
	}

	count := 0
	err := s.Iterate(EventPrefix(), func(key, value []byte) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("iterate: %v", err)
	}
	if count != 2 {
		t.Errorf("iterated %d event keys, want 2", count)
	}
}
