package core

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// PaymentSummary aggregates the schedule for the summary panel.
type PaymentSummary struct {
	MonthlyPayment  float64
	TotalMonths     int
	PaidCount       int
	PaidAmount      float64
	RemainingAmount float64
}

// ScheduleRow is one month of the payment tracker.
type ScheduleRow struct {
	Month   int
	DueDate time.Time
	Paid    bool
	Penalty float64
	Overdue bool
}

// DueDate returns the due date of the m-th installment: the purchase
// date plus m calendar months. AddDate normalizes overflow, so a
// purchase on Jan 31 has its first installment due Mar 2 (or Mar 3 in
// non-leap years), not Feb 28.
func DueDate(purchased time.Time, month int) time.Time {
	return purchased.AddDate(0, month, 0)
}

// PurchaseDate parses the purchasedDate form field. A blank or
// malformed value yields the zero time and ok=false.
func (f FormFields) PurchaseDate() (time.Time, bool) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(f.PurchasedDate))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Summary derives the paid/remaining aggregates from the current state.
// paid + remaining always equals monthlyPayment * months.
func (s EditState) Summary() PaymentSummary {
	monthly := ParseAmount(s.Form.MonthlyPayment)
	months := s.Form.Months()
	paid := s.PaidMonths.Len()
	return PaymentSummary{
		MonthlyPayment:  monthly,
		TotalMonths:     months,
		PaidCount:       paid,
		PaidAmount:      monthly * float64(paid),
		RemainingAmount: monthly * float64(months-paid),
	}
}

// Schedule builds one row per installment month. A month is overdue
// when it is unpaid and its due date lies before asOf. With no valid
// purchase date the due dates stay zero and nothing is overdue.
func (s EditState) Schedule(asOf time.Time) []ScheduleRow {
	months := s.Form.Months()
	start, hasStart := s.Form.PurchaseDate()

	rows := make([]ScheduleRow, 0, months)
	for m := 1; m <= months; m++ {
		row := ScheduleRow{
			Month:   m,
			Paid:    s.PaidMonths.Has(m),
			Penalty: s.PenaltyFees[m],
		}
		if hasStart {
			row.DueDate = DueDate(start, m)
			row.Overdue = !row.Paid && row.DueDate.Before(asOf)
		}
		rows = append(rows, row)
	}
	return rows
}
