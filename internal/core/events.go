package core

import "fmt"

// Event is a single user interaction applied to an EditState. Modeling
// edits as explicit events keeps the state-transition table testable
// without an HTTP harness.
type Event interface {
	apply(s *EditState) error
}

type (
	// SetField replaces one form field verbatim. No validation beyond
	// the field name, no cross-field recomputation.
	SetField struct {
		Name  string
		Value string
	}

	// TogglePaid flips the paid flag of one month.
	TogglePaid struct {
		Month int
	}

	// MarkAllPaid marks every month of the installment period as paid.
	MarkAllPaid struct{}

	// ResetPaid empties the paid-month set.
	ResetPaid struct{}

	// SetPenaltyFee stores the penalty fee for one month. Raw is the
	// text input value; empty or non-numeric means zero. The value is
	// kept even if the month is later marked paid.
	SetPenaltyFee struct {
		Month int
		Raw   string
	}

	// SetOwnerBook moves the owner book badge to the given status.
	SetOwnerBook struct {
		Status OwnerBookStatus
	}
)

// Apply mutates the state according to the event.
func (s *EditState) Apply(ev Event) error {
	return ev.apply(s)
}

func (e SetField) apply(s *EditState) error {
	return s.Form.Set(e.Name, e.Value)
}

func (e TogglePaid) apply(s *EditState) error {
	if err := s.checkMonth(e.Month); err != nil {
		return err
	}
	s.PaidMonths.Toggle(e.Month)
	return nil
}

func (MarkAllPaid) apply(s *EditState) error {
	s.PaidMonths = AllPaid(s.Form.Months())
	return nil
}

func (ResetPaid) apply(s *EditState) error {
	s.PaidMonths = MonthSet{}
	return nil
}

func (e SetPenaltyFee) apply(s *EditState) error {
	if err := s.checkMonth(e.Month); err != nil {
		return err
	}
	if s.PenaltyFees == nil {
		s.PenaltyFees = map[int]float64{}
	}
	s.PenaltyFees[e.Month] = ParseAmount(e.Raw)
	return nil
}

func (e SetOwnerBook) apply(s *EditState) error {
	if !e.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidOwnerBook, e.Status)
	}
	s.OwnerBook = e.Status
	return nil
}

func (s *EditState) checkMonth(month int) error {
	if month < 1 || month > s.Form.Months() {
		return fmt.Errorf("%w: %d of %d", ErrMonthOutOfRange, month, s.Form.Months())
	}
	return nil
}
