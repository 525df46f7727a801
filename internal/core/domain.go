package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	OwnerBookPending     OwnerBookStatus = "pending"
	OwnerBookReady       OwnerBookStatus = "ready"
	OwnerBookTransferred OwnerBookStatus = "transferred"
)

type (
	// OwnerBookStatus tracks the vehicle ownership document hand-over.
	// It is a free-form label: any of the three values may be set at any
	// time, in any order. The UI copy implies a forward-only lifecycle
	// but no transition is enforced.
	OwnerBookStatus string

	// FormFields holds the editable installment record exactly as the
	// admin sees it. Values are kept as strings; numeric coercion
	// happens only where an aggregate or the submit payload needs it.
	FormFields struct {
		CustomerName      string `json:"customerName"`
		PassportNumber    string `json:"passportNumber"`
		PhoneNumber       string `json:"phoneNumber"`
		CarPrice          string `json:"carPrice"`
		DownPayment       string `json:"downPayment"`
		MonthlyPayment    string `json:"monthlyPayment"`
		InstallmentPeriod string `json:"installmentPeriod"`
		CarModel          string `json:"carModel"`
		LicensePlate      string `json:"licensePlate"`
		CarListNo         string `json:"carListNo"`
		PurchasedDate     string `json:"purchasedDate"`
	}

	// EditState is the full in-memory state of one edit session: the
	// form plus the tracker state that never travels back to the API
	// (paid months, penalty fees, owner book status).
	EditState struct {
		Form        FormFields      `json:"form"`
		PaidMonths  MonthSet        `json:"paidMonths"`
		PenaltyFees map[int]float64 `json:"penaltyFees"`
		OwnerBook   OwnerBookStatus `json:"ownerBook"`
	}

	// MonthSet is a set of 1-based month indices.
	MonthSet map[int]struct{}
)

var (
	ErrUnknownField     = errors.New("unknown form field")
	ErrMonthOutOfRange  = errors.New("month index out of range")
	ErrInvalidOwnerBook = errors.New("invalid owner book status")
)

// NewEditState returns an edit state with empty tracker state and the
// owner book in its initial pending status.
func NewEditState(form FormFields) EditState {
	return EditState{
		Form:        form,
		PaidMonths:  MonthSet{},
		PenaltyFees: map[int]float64{},
		OwnerBook:   OwnerBookPending,
	}
}

// Clone returns a deep copy of the state. PaidMonths and PenaltyFees
// are maps, so a plain struct copy would share them across callers.
func (s EditState) Clone() EditState {
	out := s
	out.PaidMonths = make(MonthSet, len(s.PaidMonths))
	for k := range s.PaidMonths {
		out.PaidMonths[k] = struct{}{}
	}
	out.PenaltyFees = make(map[int]float64, len(s.PenaltyFees))
	for k, v := range s.PenaltyFees {
		out.PenaltyFees[k] = v
	}
	return out
}

func (s OwnerBookStatus) Valid() bool {
	switch s {
	case OwnerBookPending, OwnerBookReady, OwnerBookTransferred:
		return true
	default:
		return false
	}
}

// Label returns the display text used in the status badge.
func (s OwnerBookStatus) Label() string {
	switch s {
	case OwnerBookReady:
		return "Ready for Transfer"
	case OwnerBookTransferred:
		return "Transferred to Owner"
	default:
		return "Pending Payment"
	}
}

func (m MonthSet) Has(month int) bool {
	_, ok := m[month]
	return ok
}

func (m MonthSet) Len() int { return len(m) }

// Toggle flips membership of the given month.
func (m MonthSet) Toggle(month int) {
	if m.Has(month) {
		delete(m, month)
	} else {
		m[month] = struct{}{}
	}
}

// Months returns the members in ascending order.
func (m MonthSet) Months() []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// AllPaid returns the full set {1..n}. n <= 0 yields the empty set.
func AllPaid(n int) MonthSet {
	m := make(MonthSet, n)
	for i := 1; i <= n; i++ {
		m[i] = struct{}{}
	}
	return m
}

// MarshalJSON encodes the set as a sorted array of month indices so the
// session stores (redis, sqlite) get a stable representation.
func (m MonthSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Months())
}

func (m *MonthSet) UnmarshalJSON(b []byte) error {
	var months []int
	if err := json.Unmarshal(b, &months); err != nil {
		return err
	}
	set := make(MonthSet, len(months))
	for _, v := range months {
		set[v] = struct{}{}
	}
	*m = set
	return nil
}

// Months returns the installment period as an int, zero when the field
// is empty or not a number.
func (f FormFields) Months() int {
	n, err := strconv.Atoi(strings.TrimSpace(f.InstallmentPeriod))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Set replaces the named field. Names match the form input names used
// by the edit page (customerName, carPrice, ...).
func (f *FormFields) Set(name, value string) error {
	switch name {
	case "customerName":
		f.CustomerName = value
	case "passportNumber":
		f.PassportNumber = value
	case "phoneNumber":
		f.PhoneNumber = value
	case "carPrice":
		f.CarPrice = value
	case "downPayment":
		f.DownPayment = value
	case "monthlyPayment":
		f.MonthlyPayment = value
	case "installmentPeriod":
		f.InstallmentPeriod = value
	case "carModel":
		f.CarModel = value
	case "licensePlate":
		f.LicensePlate = value
	case "carListNo":
		f.CarListNo = value
	case "purchasedDate":
		f.PurchasedDate = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return nil
}
