package core

import (
	"encoding/json"
	"errors"
	"strconv"
	"testing"
)

func TestMarkAllAndReset(t *testing.T) {
	for _, n := range []int{0, 1, 12, 60} {
		s := NewEditState(FormFields{InstallmentPeriod: strconv.Itoa(n)})
		if err := s.Apply(MarkAllPaid{}); err != nil {
			t.Fatalf("n=%d mark all: %v", n, err)
		}
		if s.PaidMonths.Len() != n {
			t.Fatalf("n=%d expected %d paid, got %d", n, n, s.PaidMonths.Len())
		}
		for m := 1; m <= n; m++ {
			if !s.PaidMonths.Has(m) {
				t.Fatalf("n=%d month %d missing", n, m)
			}
		}
		if err := s.Apply(ResetPaid{}); err != nil {
			t.Fatalf("n=%d reset: %v", n, err)
		}
		if s.PaidMonths.Len() != 0 {
			t.Fatalf("n=%d expected empty set after reset", n)
		}
	}
}

func TestTogglePaid(t *testing.T) {
	s := NewEditState(FormFields{InstallmentPeriod: "12"})

	if err := s.Apply(TogglePaid{Month: 3}); err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !s.PaidMonths.Has(3) {
		t.Fatalf("month 3 should be paid")
	}
	if err := s.Apply(TogglePaid{Month: 3}); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if s.PaidMonths.Has(3) {
		t.Fatalf("month 3 should be unpaid again")
	}

	for _, m := range []int{0, -1, 13} {
		if err := s.Apply(TogglePaid{Month: m}); !errors.Is(err, ErrMonthOutOfRange) {
			t.Fatalf("month %d expected range error, got %v", m, err)
		}
	}
}

func TestPenaltyFeeCoercion(t *testing.T) {
	s := NewEditState(FormFields{InstallmentPeriod: "6"})
	cases := []struct {
		raw  string
		want float64
	}{
		{"500", 500},
		{"  250.5 ", 250.5},
		{"", 0},
		{"abc", 0},
	}
	for _, tc := range cases {
		if err := s.Apply(SetPenaltyFee{Month: 2, Raw: tc.raw}); err != nil {
			t.Fatalf("%q: %v", tc.raw, err)
		}
		if got := s.PenaltyFees[2]; got != tc.want {
			t.Fatalf("%q expected %v, got %v", tc.raw, tc.want, got)
		}
	}

	// Marking the month paid must not clear the stored fee.
	if err := s.Apply(SetPenaltyFee{Month: 4, Raw: "750"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Apply(TogglePaid{Month: 4}); err != nil {
		t.Fatal(err)
	}
	if s.PenaltyFees[4] != 750 {
		t.Fatalf("penalty fee lost on mark-paid: %v", s.PenaltyFees[4])
	}
}

func TestOwnerBookFreeTransitions(t *testing.T) {
	s := NewEditState(FormFields{})
	if s.OwnerBook != OwnerBookPending {
		t.Fatalf("initial status should be pending, got %s", s.OwnerBook)
	}

	// Any status is reachable from any other, including backwards.
	order := []OwnerBookStatus{
		OwnerBookTransferred, OwnerBookPending, OwnerBookReady,
		OwnerBookTransferred, OwnerBookReady, OwnerBookPending,
	}
	for _, st := range order {
		if err := s.Apply(SetOwnerBook{Status: st}); err != nil {
			t.Fatalf("set %s: %v", st, err)
		}
		if s.OwnerBook != st {
			t.Fatalf("expected %s, got %s", st, s.OwnerBook)
		}
	}

	if err := s.Apply(SetOwnerBook{Status: "lost"}); !errors.Is(err, ErrInvalidOwnerBook) {
		t.Fatalf("expected invalid status error, got %v", err)
	}
}

func TestSetField(t *testing.T) {
	s := NewEditState(FormFields{})
	if err := s.Apply(SetField{Name: "customerName", Value: "Aung"}); err != nil {
		t.Fatal(err)
	}
	if s.Form.CustomerName != "Aung" {
		t.Fatalf("got %q", s.Form.CustomerName)
	}
	if err := s.Apply(SetField{Name: "bogus", Value: "x"}); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestMonthSetJSONRoundTrip(t *testing.T) {
	s := NewEditState(FormFields{InstallmentPeriod: "12"})
	for _, m := range []int{1, 5, 12} {
		if err := s.Apply(TogglePaid{Month: m}); err != nil {
			t.Fatal(err)
		}
	}

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var back EditState
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back.PaidMonths.Len() != 3 || !back.PaidMonths.Has(5) {
		t.Fatalf("paid months lost in round trip: %v", back.PaidMonths.Months())
	}
}
