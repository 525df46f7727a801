// Package memory provides an in-process fake of the carapi ports for
// development and tests: records live in a map, updates land in the
// same map.
package memory

import (
	"context"
	"fmt"
	"sync"

	"showroom/internal/carapi"
)

// Ensure interface conformance
var (
	_ carapi.InstallmentReader = (*Store)(nil)
	_ carapi.InstallmentWriter = (*Store)(nil)
)

type Store struct {
	mu      sync.Mutex
	records map[string]carapi.RecordPayload
}

func New() *Store {
	return &Store{records: map[string]carapi.RecordPayload{}}
}

// NewSeeded returns a store with one demo record under id "1" so the
// edit page has something to show without a live API.
func NewSeeded() *Store {
	price := 500000.0
	monthly := 33333.0
	s := New()
	s.records["1"] = carapi.RecordPayload{
		Car: &carapi.Vehicle{
			PriceToSell: &price,
			Brand:       "Toyota",
			Model:       "Vios",
			LicenseNo:   "1กก-1234",
		},
		Installment: &carapi.Installment{
			DownPayment:     100000,
			RemainingAmount: 400000,
			Months:          12,
			MonthlyPayment:  &monthly,
			StartDate:       "2024-01-15",
			Buyer: carapi.Buyer{
				Name:     "Demo Buyer",
				Passport: "P0000001",
				Phone:    "0800000000",
			},
		},
		CarList: "C-001",
	}
	return s
}

// Put stores a record under the given id.
func (s *Store) Put(id string, p carapi.RecordPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = p
}

// FetchInstallment implements carapi.InstallmentReader.
func (s *Store) FetchInstallment(_ context.Context, id string) (carapi.RecordPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.records[id]
	if !ok {
		return carapi.RecordPayload{}, &carapi.StatusError{Status: 404, Message: fmt.Sprintf("car %s not found", id)}
	}
	return p, nil
}

// UpdateInstallment implements carapi.InstallmentWriter by folding the
// update back into the stored record.
func (s *Store) UpdateInstallment(_ context.Context, id string, update carapi.UpdateRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.records[id]
	if !ok {
		return &carapi.StatusError{Status: 404, Message: fmt.Sprintf("car %s not found", id)}
	}

	monthly := update.Installment.MonthlyPayment
	p.Installment = &carapi.Installment{
		DownPayment:     update.Installment.DownPayment,
		RemainingAmount: update.Installment.RemainingAmount,
		Months:          update.Installment.Months,
		MonthlyPayment:  &monthly,
		StartDate:       update.Installment.StartDate,
		Buyer:           update.Installment.Buyer,
	}
	s.records[id] = p
	return nil
}
