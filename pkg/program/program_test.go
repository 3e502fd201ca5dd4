package program

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/encoreprotocol/encore/pkg/storage"
	"github.com/encoreprotocol/encore/pkg/util"
)

// recordingSink captures every emitted event for assertions.
type recordingSink struct {
	events []interface{}
}

func (s *recordingSink) Emit(event interface{}) {
	s.events = append(s.events, event)
}

func newTestProgram(t *testing.T) (*Program, *util.FakeClock, *recordingSink) {
	t.Helper()
	store, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	clock := util.NewFakeClock(time.Unix(1_700_000_000, 0))
	sink := &recordingSink{}
	p := New(store, "test-tree", clock, zap.NewNop(), sink)
	return p, clock, sink
}
