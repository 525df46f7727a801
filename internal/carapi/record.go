package carapi

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"showroom/internal/core"
)

// RecordPayload mirrors the nested shape the API returns for
// GET /api/car/{id}/installment, either directly or under a "data" key.
type RecordPayload struct {
	Car                       *Vehicle     `json:"car"`
	Installment               *Installment `json:"installment"`
	InstallmentMonthlyPayment float64      `json:"installmentMonthlyPayment"`
	CarList                   string       `json:"carList"`
}

type Vehicle struct {
	// PriceToSell is required: the edit view has no car price without
	// it, so its absence is a ShapeError rather than a silent zero.
	PriceToSell *float64 `json:"priceToSell"`
	Brand       string   `json:"brand"`
	Model       string   `json:"model"`
	LicenseNo   string   `json:"licenseNo"`
}

type Installment struct {
	DownPayment     float64  `json:"downPayment"`
	RemainingAmount float64  `json:"remainingAmount"`
	Months          int      `json:"months"`
	MonthlyPayment  *float64 `json:"monthlyPayment"`
	StartDate       string   `json:"startDate"`
	Buyer           Buyer    `json:"buyer"`
}

type Buyer struct {
	Name     string `json:"name"`
	Passport string `json:"passport"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

// UpdateRequest is the body of PUT /api/car/{id}/sell-installment.
// The tracker state (paid months, penalty fees, owner book) is
// deliberately absent: the API owns none of it.
type UpdateRequest struct {
	Installment UpdateInstallment `json:"installment"`
}

type UpdateInstallment struct {
	DownPayment     float64 `json:"downPayment"`
	RemainingAmount float64 `json:"remainingAmount"`
	Months          int     `json:"months"`
	StartDate       string  `json:"startDate"`
	MonthlyPayment  float64 `json:"monthlyPayment"`
	Buyer           Buyer   `json:"buyer"`
}

// MapRecord projects the nested payload into the flat edit form.
func MapRecord(ctx context.Context, p RecordPayload) (core.FormFields, error) {
	if p.Car == nil {
		return core.FormFields{}, &ShapeError{Field: "car"}
	}
	if p.Car.PriceToSell == nil {
		return core.FormFields{}, &ShapeError{Field: "car.priceToSell"}
	}

	var inst Installment
	if p.Installment != nil {
		inst = *p.Installment
	}

	monthly := monthlyPayment(p, inst)

	return core.FormFields{
		CustomerName:      inst.Buyer.Name,
		PassportNumber:    inst.Buyer.Passport,
		PhoneNumber:       inst.Buyer.Phone,
		CarPrice:          formatNumber(*p.Car.PriceToSell),
		DownPayment:       formatNumber(inst.DownPayment),
		MonthlyPayment:    formatNumber(monthly),
		InstallmentPeriod: strconv.Itoa(inst.Months),
		CarModel:          strings.TrimSpace(p.Car.Brand + " " + p.Car.Model),
		LicensePlate:      p.Car.LicenseNo,
		CarListNo:         p.CarList,
		PurchasedDate:     formatStartDate(ctx, inst.StartDate),
	}, nil
}

// monthlyPayment prefers the server-provided value and falls back to
// remainingAmount / months. Zero months yields zero, never NaN.
func monthlyPayment(p RecordPayload, inst Installment) float64 {
	if inst.MonthlyPayment != nil {
		return *inst.MonthlyPayment
	}
	if p.InstallmentMonthlyPayment != 0 {
		return p.InstallmentMonthlyPayment
	}
	if inst.Months > 0 {
		return inst.RemainingAmount / float64(inst.Months)
	}
	return 0
}

// formatStartDate normalizes the server date to YYYY-MM-DD for the
// date input. A malformed date is logged and left blank, not fatal.
func formatStartDate(ctx context.Context, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	slog.WarnContext(ctx, "Unparseable installment start date", "value", raw)
	return ""
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
