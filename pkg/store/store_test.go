package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/rangedeck/pkg/errors"
	"github.com/matzehuels/rangedeck/pkg/grid"
	"github.com/matzehuels/rangedeck/pkg/layout"
	"github.com/matzehuels/rangedeck/pkg/observability"
)

func items(ids ...string) []layout.Item {
	out := make([]layout.Item, len(ids))
	for i, id := range ids {
		out[i] = layout.Item{ID: id, Kind: "range"}
	}
	return out
}

type reinitRecorder struct {
	observability.NoopLayoutHooks
	mu    sync.Mutex
	count int
}

func (r *reinitRecorder) OnReinitialize(context.Context, string, int) {
	r.mu.Lock()
	r.count++
	r.mu.Unlock()
}

func TestGetInitializesMissingKey(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend())

	st, err := s.Get(ctx, "nb-1", items("A", "B", "C"))
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if diff := cmp.Diff(grid.Slots{"A", "B", "C"}, st.Order); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}
	if st.Zoom != layout.DefaultZoom {
		t.Errorf("Zoom = %v, want %v", st.Zoom, layout.DefaultZoom)
	}

	if _, ok, _ := s.Peek(ctx, "nb-1"); !ok {
		t.Error("Get() did not persist the initial state")
	}
}

func TestGetReturnsStoredState(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend())
	its := items("A", "B", "C")

	if _, err := s.Get(ctx, "k", its); err != nil {
		t.Fatal(err)
	}
	_, err := s.Set(ctx, "k", func(st layout.State) layout.State {
		st.Order = grid.Slots{"C", "", "A", "B"}
		st.Zoom = 1.25
		return st
	})
	if err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	st, err := s.Get(ctx, "k", items("C", "B", "A"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(grid.Slots{"C", "", "A", "B"}, st.Order); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}
	if st.Zoom != 1.25 {
		t.Errorf("Zoom = %v, want 1.25", st.Zoom)
	}
}

func TestGetReinitializesOnSignatureChange(t *testing.T) {
	rec := &reinitRecorder{}
	observability.SetLayoutHooks(rec)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	s := New(NewMemoryBackend())

	if _, err := s.Get(ctx, "k", items("A", "B", "C")); err != nil {
		t.Fatal(err)
	}
	_, err := s.Set(ctx, "k", func(st layout.State) layout.State {
		st.History = layout.PushHistory(st.History, st.Order)
		st.Order = grid.Slots{"C", "B", "A"}
		st.ColumnOverride = 3
		return st
	})
	if err != nil {
		t.Fatal(err)
	}

	st, err := s.Get(ctx, "k", items("A", "B", "C", "D"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(grid.Slots{"A", "B", "C", "D"}, st.Order); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}
	if len(st.History) != 0 {
		t.Errorf("len(History) = %d, want 0", len(st.History))
	}
	if st.ColumnOverride != 0 {
		t.Errorf("ColumnOverride = %d, want 0", st.ColumnOverride)
	}
	if st.Signature != "A,B,C,D" {
		t.Errorf("Signature = %q", st.Signature)
	}
	if rec.count != 2 {
		t.Errorf("OnReinitialize calls = %d, want 2", rec.count)
	}
}

func TestGetReinitializesUnreadableState(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	_ = b.Set(ctx, "k", []byte("{not json"))

	st, err := New(b).Get(ctx, "k", items("A"))
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if diff := cmp.Diff(grid.Slots{"A"}, st.Order); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}
}

func TestGetAnalysisSetStartsOnCanvas(t *testing.T) {
	its := []layout.Item{{ID: "a1", Kind: layout.KindAnalysis}, {ID: "a2", Kind: layout.KindAnalysis}}
	st, err := New(NewMemoryBackend()).Get(context.Background(), "k", its)
	if err != nil {
		t.Fatal(err)
	}
	if !st.Canvas || len(st.Cards) != 2 || st.TopZ != 2 {
		t.Errorf("Get() = canvas %v, %d cards, topZ %d; want true, 2, 2", st.Canvas, len(st.Cards), st.TopZ)
	}
}

func TestSetStampsUpdatedAt(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := New(NewMemoryBackend(), WithClock(func() time.Time { return now }))

	st, err := s.Set(context.Background(), "k", Replace(layout.Initial(items("A"))))
	if err != nil {
		t.Fatal(err)
	}
	if !st.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", st.UpdatedAt, now)
	}
}

func TestSetSkipsUnchangedWrite(t *testing.T) {
	ctx := context.Background()
	first := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	now := first
	s := New(NewMemoryBackend(), WithClock(func() time.Time { return now }))
	if _, err := s.Get(ctx, "k", items("A", "B")); err != nil {
		t.Fatal(err)
	}

	now = first.Add(time.Hour)
	if _, err := s.Set(ctx, "k", func(st layout.State) layout.State { return st }); err != nil {
		t.Fatal(err)
	}
	st, _, _ := s.Peek(ctx, "k")
	if !st.UpdatedAt.Equal(first) {
		t.Errorf("UpdatedAt = %v after a no-op Set, want %v", st.UpdatedAt, first)
	}

	if _, err := s.Set(ctx, "k", func(st layout.State) layout.State {
		st.Zoom = 1.5
		return st
	}); err != nil {
		t.Fatal(err)
	}
	st, _, _ = s.Peek(ctx, "k")
	if !st.UpdatedAt.Equal(now) || st.Zoom != 1.5 {
		t.Errorf("after change: UpdatedAt = %v zoom = %v", st.UpdatedAt, st.Zoom)
	}
}

func TestSetPassesCopy(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend())
	if _, err := s.Get(ctx, "k", items("A", "B")); err != nil {
		t.Fatal(err)
	}

	var kept layout.State
	_, _ = s.Set(ctx, "k", func(st layout.State) layout.State {
		kept = st
		return st
	})
	kept.Order[0] = "Z"

	st, _, _ := s.Peek(ctx, "k")
	if st.Order[0] != "A" {
		t.Errorf("stored Order[0] = %q after mutating updater input", st.Order[0])
	}
}

func TestInvalidKeys(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend())

	for _, key := range []string{"", "bad\nkey"} {
		if _, err := s.Get(ctx, key, items("A")); !errors.Is(err, errors.ErrCodeInvalidKey) {
			t.Errorf("Get(%q) error = %v, want INVALID_KEY", key, err)
		}
		if _, err := s.Set(ctx, key, Replace(layout.State{})); !errors.Is(err, errors.ErrCodeInvalidKey) {
			t.Errorf("Set(%q) error = %v, want INVALID_KEY", key, err)
		}
	}
}

func TestInvalidItems(t *testing.T) {
	_, err := New(NewMemoryBackend()).Get(context.Background(), "k", items("A", "A"))
	if !errors.Is(err, errors.ErrCodeInvalidItem) {
		t.Errorf("Get() with duplicate items error = %v, want INVALID_ITEM", err)
	}
}

func TestKeysAndDelete(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend())
	for _, k := range []string{"b", "a", "global"} {
		if _, err := s.Get(ctx, k, items("A")); err != nil {
			t.Fatal(err)
		}
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b", "global"}, keys); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}

	if err := s.Delete(ctx, "b"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Peek(ctx, "b"); ok {
		t.Error("Peek() found deleted key")
	}
}

func TestConcurrentSetSerializes(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend())

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Set(ctx, "k", func(st layout.State) layout.State {
				st.TopZ++
				return st
			})
		}()
	}
	wg.Wait()

	st, _, _ := s.Peek(ctx, "k")
	if st.TopZ != n {
		t.Errorf("TopZ = %d, want %d", st.TopZ, n)
	}
}

func TestFileLockSerializesStores(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	open := func() *Store {
		b, err := NewFileBackend(dir)
		if err != nil {
			t.Fatal(err)
		}
		return New(b)
	}
	a, b := open(), open()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		s := a
		if i%2 == 1 {
			s = b
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Set(ctx, "shared", func(st layout.State) layout.State {
				st.TopZ++
				return st
			}); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	st, _, err := a.Peek(ctx, "shared")
	if err != nil {
		t.Fatal(err)
	}
	if st.TopZ != n {
		t.Errorf("TopZ = %d, want %d", st.TopZ, n)
	}
}
