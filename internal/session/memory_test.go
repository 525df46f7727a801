package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"showroom/internal/core"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	defer s.Close()
	ctx := context.Background()

	if _, err := s.Get(ctx, "1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	state := core.NewEditState(core.FormFields{CustomerName: "A", InstallmentPeriod: "12"})
	if err := state.Apply(core.TogglePaid{Month: 3}); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "1", state); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Form.CustomerName != "A" || !got.PaidMonths.Has(3) {
		t.Fatalf("state lost: %+v", got)
	}

	if err := s.Delete(ctx, "1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreHandsOutIsolatedCopies(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	defer s.Close()
	ctx := context.Background()

	state := core.NewEditState(core.FormFields{InstallmentPeriod: "12"})
	if err := s.Put(ctx, "1", state); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's copy after Put must not leak into the store.
	state.PaidMonths.Toggle(1)
	got, err := s.Get(ctx, "1")
	if err != nil {
		t.Fatal(err)
	}
	if got.PaidMonths.Has(1) {
		t.Fatal("Put kept a reference to the caller's maps")
	}

	// Mutating one Get result must not be visible through another.
	got.PaidMonths.Toggle(2)
	got.PenaltyFees[3] = 500
	other, err := s.Get(ctx, "1")
	if err != nil {
		t.Fatal(err)
	}
	if other.PaidMonths.Has(2) || other.PenaltyFees[3] != 0 {
		t.Fatal("Get handed out shared maps")
	}
}

func TestMemoryStoreConcurrentReadersAndWriters(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	defer s.Close()
	ctx := context.Background()

	seed := core.NewEditState(core.FormFields{
		InstallmentPeriod: "12",
		PurchasedDate:     "2024-01-15",
	})
	if err := s.Put(ctx, "1", seed); err != nil {
		t.Fatal(err)
	}

	// One goroutine keeps toggling months while another renders the
	// schedule from its own copy. Run under -race.
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			state, err := s.Get(ctx, "1")
			if err != nil {
				t.Error(err)
				return
			}
			state.PaidMonths.Toggle(i%12 + 1)
			if err := s.Put(ctx, "1", state); err != nil {
				t.Error(err)
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			state, err := s.Get(ctx, "1")
			if err != nil {
				t.Error(err)
				return
			}
			_ = state.Schedule(time.Now())
		}
	}()

	time.Sleep(50 * time.Millisecond)
	close(done)
	wg.Wait()
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore(10 * time.Millisecond)
	defer s.Close()
	ctx := context.Background()

	if err := s.Put(ctx, "1", core.NewEditState(core.FormFields{})); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, err := s.Get(ctx, "1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired session, got %v", err)
	}
}
