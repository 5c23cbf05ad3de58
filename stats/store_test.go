package stats

import (
	"errors"
	"math/rand"
	"testing"
)

func TestLazyRecordCreation(t *testing.T) {
	store, err := New(&Config{Name: "test", Kind: "pool"})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	if err := store.RecordEvent("fresh", EventAcquire, Operands{ActiveCount: 1}); err != nil {
		t.Fatalf("RecordEvent failed: %v", err)
	}

	rec := store.GetRecord("fresh")
	if rec.ID != "fresh" || rec.Kind != "pool" {
		t.Errorf("unexpected identity: id=%q kind=%q", rec.ID, rec.Kind)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt not seeded on first event")
	}
}

func TestGetRecordUnseenID(t *testing.T) {
	store, err := New(nil)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	rec := store.GetRecord("never-seen")
	if rec.ID != "never-seen" {
		t.Errorf("default record id = %q, want never-seen", rec.ID)
	}
	if rec.TotalAcquired != 0 || rec.ActiveCount != 0 {
		t.Error("default record should have zero counters")
	}

	// Reading must not materialize the record
	if _, ok := store.GetAllRecords()["never-seen"]; ok {
		t.Error("GetRecord materialized a record for an unseen id")
	}
}

func TestUnknownEventRejected(t *testing.T) {
	store, err := New(nil)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	if err := store.RecordEvent("x", EventKind(200), Operands{}); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("want ErrUnknownEvent, got %v", err)
	}
	if err := store.RecordEvent("x", EventUnknown, Operands{}); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("want ErrUnknownEvent for zero kind, got %v", err)
	}

	// A rejected event must not create a record
	if _, ok := store.GetAllRecords()["x"]; ok {
		t.Error("rejected event created a record")
	}
}

func TestResetIsolation(t *testing.T) {
	store, err := New(nil)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	pool := store.Pool()
	for i := 0; i < 4; i++ {
		_ = pool.RecordAcquire("a", 2, 1)
	}
	for i := 0; i < 6; i++ {
		_ = pool.RecordAcquire("b", 3, 1)
	}

	if err := store.ResetRecord("a"); err != nil {
		t.Fatalf("ResetRecord failed: %v", err)
	}

	a := store.GetRecord("a")
	if a.TotalAcquired != 0 || a.ActiveCount != 0 {
		t.Errorf("entity a not zeroed: acquired=%d active=%d", a.TotalAcquired, a.ActiveCount)
	}
	if a.CreatedAt.IsZero() {
		t.Error("reset dropped creation time")
	}
	if a.LastResetAt.IsZero() {
		t.Error("reset did not stamp LastResetAt")
	}

	b := store.GetRecord("b")
	if b.TotalAcquired != 6 {
		t.Errorf("entity b affected by reset of a: acquired=%d", b.TotalAcquired)
	}

	global := store.GetGlobalRecord()
	if global.TotalAcquired != 6 {
		t.Errorf("global not recomputed after reset: acquired=%d, want 6", global.TotalAcquired)
	}
}

func TestResetAll(t *testing.T) {
	store, err := New(nil)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	pool := store.Pool()
	_ = pool.RecordAcquire("a", 1, 1)
	_ = pool.RecordAcquire("b", 1, 1)

	if err := store.ResetAll(); err != nil {
		t.Fatalf("ResetAll failed: %v", err)
	}

	for id, rec := range store.GetAllRecords() {
		if rec.TotalAcquired != 0 {
			t.Errorf("entity %s not zeroed", id)
		}
	}
	if g := store.GetGlobalRecord(); g.TotalAcquired != 0 {
		t.Errorf("global not zeroed: %d", g.TotalAcquired)
	}
}

func TestOrderIndependentAggregation(t *testing.T) {
	type event struct {
		id   string
		kind EventKind
		op   Operands
	}

	// Fixed multiset of events; ActiveCount kept constant per entity so
	// per-entity final state does not depend on order.
	var events []event
	for i := 0; i < 20; i++ {
		events = append(events,
			event{"a", EventAcquire, Operands{ActiveCount: 2, DurationMs: 1}},
			event{"b", EventCacheHit, Operands{Count: 3}},
			event{"c", EventCreate, Operands{Count: 1, Bytes: 64}},
		)
	}

	run := func(seed int64) Record {
		store, err := New(nil)
		if err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}
		defer store.Close()

		shuffled := make([]event, len(events))
		copy(shuffled, events)
		rand.New(rand.NewSource(seed)).Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		for _, e := range shuffled {
			if err := store.RecordEvent(e.id, e.kind, e.op); err != nil {
				t.Fatalf("RecordEvent failed: %v", err)
			}
		}
		return store.GetGlobalRecord()
	}

	first := run(1)
	for seed := int64(2); seed <= 5; seed++ {
		got := run(seed)
		if got.TotalAcquired != first.TotalAcquired ||
			got.TotalCreated != first.TotalCreated ||
			got.CacheHits != first.CacheHits ||
			got.TotalBytes != first.TotalBytes ||
			got.ActiveCount != first.ActiveCount {
			t.Errorf("seed %d: global differs: %+v vs %+v", seed, got, first)
		}
	}
}

func TestGetAllRecordsSnapshotIsolation(t *testing.T) {
	store, err := New(nil)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	_ = store.Pool().RecordAcquire("a", 1, 1)

	snap := store.GetAllRecords()
	rec := snap["a"]
	rec.TotalAcquired = 999
	snap["a"] = rec

	if got := store.GetRecord("a").TotalAcquired; got != 1 {
		t.Errorf("snapshot mutation leaked into store: %d", got)
	}
}

func TestClosedStoreFailsFast(t *testing.T) {
	store, err := New(nil)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := store.Close(); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("second Close: want ErrStoreClosed, got %v", err)
	}

	if err := store.RecordEvent("x", EventAcquire, Operands{}); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("RecordEvent on closed store: want ErrStoreClosed, got %v", err)
	}
	if err := store.ResetAll(); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("ResetAll on closed store: want ErrStoreClosed, got %v", err)
	}

	c := store.Submit(Mutation{ID: "x", Kind: EventAcquire})
	<-c.Done()
	if !errors.Is(c.Err(), ErrStoreClosed) {
		t.Errorf("Submit on closed store: want ErrStoreClosed, got %v", c.Err())
	}
}

func TestInvalidConfig(t *testing.T) {
	if _, err := New(&Config{Name: ""}); err == nil {
		t.Error("empty store name accepted")
	}
}

func TestDebugGuardAllowsNormalUse(t *testing.T) {
	store, err := New(&Config{Name: "guarded", Debug: true})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	for i := 0; i < 100; i++ {
		if err := store.Pool().RecordAcquire("g", 1, 1); err != nil {
			t.Fatalf("guarded RecordEvent failed: %v", err)
		}
		_ = store.GetRecord("g")
	}
}
