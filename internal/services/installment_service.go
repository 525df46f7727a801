// Package services orchestrates the installment edit flow between the
// remote car API and the local edit-session store.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"showroom/internal/carapi"
	"showroom/internal/core"
	applog "showroom/internal/log"
	"showroom/internal/session"
)

// InstallmentService is the edit view model: it loads a record into an
// edit session, applies edit events, and submits the form back to the
// API.
type InstallmentService struct {
	reader carapi.InstallmentReader
	writer carapi.InstallmentWriter
	store  session.Store

	// submits collapses concurrent submissions of the same record into
	// one PUT, so a double click cannot issue two writes.
	submits singleflight.Group
}

func NewInstallmentService(reader carapi.InstallmentReader, writer carapi.InstallmentWriter, store session.Store) *InstallmentService {
	return &InstallmentService{
		reader: reader,
		writer: writer,
		store:  store,
	}
}

// Load returns the edit state for the record. An existing session wins
// over a refetch so in-progress edits survive page reloads; otherwise
// the record is fetched, mapped and a fresh session started.
func (s *InstallmentService) Load(ctx context.Context, id string) (core.EditState, error) {
	state, err := s.store.Get(ctx, id)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, session.ErrNotFound) {
		return core.EditState{}, fmt.Errorf("load session: %w", err)
	}

	payload, err := s.reader.FetchInstallment(ctx, id)
	if err != nil {
		return core.EditState{}, err
	}

	form, err := carapi.MapRecord(ctx, payload)
	if err != nil {
		return core.EditState{}, err
	}

	state = core.NewEditState(form)
	if err := s.store.Put(ctx, id, state); err != nil {
		return core.EditState{}, fmt.Errorf("save session: %w", err)
	}

	slog.InfoContext(ctx, "Installment record loaded", applog.FieldRecordID, id,
		"months", state.Form.Months())
	return state, nil
}

// Apply runs one edit event against the record's session and persists
// the result.
func (s *InstallmentService) Apply(ctx context.Context, id string, ev core.Event) (core.EditState, error) {
	state, err := s.Load(ctx, id)
	if err != nil {
		return core.EditState{}, err
	}

	if err := state.Apply(ev); err != nil {
		return core.EditState{}, err
	}

	if err := s.store.Put(ctx, id, state); err != nil {
		return core.EditState{}, fmt.Errorf("save session: %w", err)
	}
	return state, nil
}

// Discard drops the record's edit session without submitting.
func (s *InstallmentService) Discard(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Submit serializes the current form into the update payload and PUTs
// it to the API. The payload carries only the financing terms and the
// buyer; paid months, penalty fees and the owner book status never
// leave this process. On success the edit session is dropped.
func (s *InstallmentService) Submit(ctx context.Context, id string) error {
	_, err, shared := s.submits.Do(id, func() (any, error) {
		state, err := s.Load(ctx, id)
		if err != nil {
			return nil, err
		}

		update := BuildUpdate(state.Form)
		if err := s.writer.UpdateInstallment(ctx, id, update); err != nil {
			return nil, err
		}

		if err := s.store.Delete(ctx, id); err != nil {
			slog.WarnContext(ctx, "Failed to drop edit session after submit",
				applog.FieldRecordID, id, applog.FieldError, err)
		}
		return nil, nil
	})
	if shared {
		slog.InfoContext(ctx, "Duplicate submit collapsed", applog.FieldRecordID, id)
	}
	return err
}

// BuildUpdate computes the outbound payload from the form fields.
// remainingAmount is derived as carPrice - downPayment; blank numeric
// fields count as zero.
func BuildUpdate(f core.FormFields) carapi.UpdateRequest {
	carPrice := core.ParseAmount(f.CarPrice)
	downPayment := core.ParseAmount(f.DownPayment)

	return carapi.UpdateRequest{
		Installment: carapi.UpdateInstallment{
			DownPayment:     downPayment,
			RemainingAmount: carPrice - downPayment,
			Months:          f.Months(),
			StartDate:       f.PurchasedDate,
			MonthlyPayment:  core.ParseAmount(f.MonthlyPayment),
			Buyer: carapi.Buyer{
				Name:     f.CustomerName,
				Passport: f.PassportNumber,
				Phone:    f.PhoneNumber,
				Email:    "",
			},
		},
	}
}
