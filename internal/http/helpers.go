package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"showroom/internal/carapi"
	"showroom/internal/core"
	applog "showroom/internal/log"
)

// monthView is one row of the payment schedule, with display strings
// precomputed so templates stay dumb.
type monthView struct {
	Month      int
	Due        string
	Paid       bool
	Overdue    bool
	Amount     string
	PenaltyRaw string
	Penalty    string
}

type summaryView struct {
	Monthly   string
	Paid      string
	Remaining string
	PaidCount int
	Total     int
}

type editView struct {
	ID             string
	Form           core.FormFields
	Months         []monthView
	Summary        summaryView
	OwnerBook      core.OwnerBookStatus
	OwnerBookLabel string
	AllPaid        bool
	Notice         string
	Error          string
	Loading        bool
}

const dueDateDisplay = "02/01/2006"

// buildEditView flattens the edit state into template data.
func buildEditView(id string, state core.EditState, asOf time.Time) editView {
	summary := state.Summary()
	rows := state.Schedule(asOf)

	months := make([]monthView, 0, len(rows))
	for _, row := range rows {
		mv := monthView{
			Month:   row.Month,
			Paid:    row.Paid,
			Overdue: row.Overdue,
			Amount:  core.FormatBaht(summary.MonthlyPayment),
		}
		if !row.DueDate.IsZero() {
			mv.Due = row.DueDate.Format(dueDateDisplay)
		}
		if row.Penalty != 0 {
			mv.PenaltyRaw = strconv.FormatFloat(row.Penalty, 'f', -1, 64)
			mv.Penalty = core.FormatBaht(row.Penalty)
		}
		months = append(months, mv)
	}

	return editView{
		ID:     id,
		Form:   state.Form,
		Months: months,
		Summary: summaryView{
			Monthly:   core.FormatBaht(summary.MonthlyPayment),
			Paid:      core.FormatBaht(summary.PaidAmount),
			Remaining: core.FormatBaht(summary.RemainingAmount),
			PaidCount: summary.PaidCount,
			Total:     summary.TotalMonths,
		},
		OwnerBook:      state.OwnerBook,
		OwnerBookLabel: state.OwnerBook.Label(),
		AllPaid:        summary.TotalMonths > 0 && summary.PaidCount == summary.TotalMonths,
	}
}

// recordID pulls the record id out of the route. Blank ids never match
// the route patterns, so this is non-empty for every handler using it.
func recordID(r *http.Request) string {
	return strings.TrimSpace(r.PathValue("id"))
}

// editPath is the canonical page URL mutating handlers redirect back to.
func editPath(id string) string {
	return "/installments/" + id + "/edit"
}

// renderServiceError maps a load or submit failure onto a response.
// A rejected credential always lands on the login page; a client with
// no API configured leaves the page in its loading state rather than
// erroring out.
func (s *Server) renderServiceError(w http.ResponseWriter, r *http.Request, id string, err error) {
	ctx := r.Context()

	switch {
	case errors.Is(err, carapi.ErrUnauthorized):
		slog.WarnContext(ctx, "Credential rejected, redirecting to login", applog.FieldRecordID, id)
		http.Redirect(w, r, loginPath, http.StatusSeeOther)

	case errors.Is(err, carapi.ErrNotConfigured):
		slog.WarnContext(ctx, "Car API not configured, page stays in loading state", applog.FieldRecordID, id)
		s.render(w, r, "edit.html", editView{ID: id, Loading: true})

	default:
		var shapeErr *carapi.ShapeError
		if errors.As(err, &shapeErr) {
			slog.ErrorContext(ctx, "Record unusable", applog.FieldRecordID, id, applog.FieldError, err)
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusBadGateway)
			s.render(w, r, "error.html", errorView{ID: id, Message: "The record is missing its vehicle price and cannot be edited."})
			return
		}

		var statusErr *carapi.StatusError
		if errors.As(err, &statusErr) {
			slog.ErrorContext(ctx, "Car API request failed", applog.FieldRecordID, id,
				applog.FieldStatusCode, statusErr.Status, applog.FieldError, err)
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusBadGateway)
			s.render(w, r, "error.html", errorView{ID: id, Message: statusErr.Error()})
			return
		}

		slog.ErrorContext(ctx, "Installment operation failed", applog.FieldRecordID, id, applog.FieldError, err)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		s.render(w, r, "error.html", errorView{ID: id, Message: "Something went wrong. Please try again."})
	}
}

type errorView struct {
	ID      string
	Message string
}

// render executes a template, degrading to a plain-text error when the
// template set failed to parse at startup.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", applog.FieldError, err, "template", name)
	}
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// htmlEscape is here so handler-built fragments never embed raw input.
func htmlEscape(s string) string {
	return template.HTMLEscapeString(s)
}
