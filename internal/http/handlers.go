package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"showroom/internal/core"
	applog "showroom/internal/log"
)

// handleEditPage renders the full edit page for one record.
func (s *Server) handleEditPage(w http.ResponseWriter, r *http.Request) {
	id := recordID(r)

	state, err := s.svc.Load(r.Context(), id)
	if err != nil {
		s.renderServiceError(w, r, id, err)
		return
	}

	s.render(w, r, "edit.html", buildEditView(id, state, time.Now()))
}

// handleDetail renders the read-only record view shown after a submit.
func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	id := recordID(r)

	state, err := s.svc.Load(r.Context(), id)
	if err != nil {
		s.renderServiceError(w, r, id, err)
		return
	}

	s.render(w, r, "detail.html", buildEditView(id, state, time.Now()))
}

// handleFieldUpdate stores one form field verbatim and redirects back
// to the edit page.
func (s *Server) handleFieldUpdate(w http.ResponseWriter, r *http.Request) {
	id := recordID(r)
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", applog.FieldError, err,
			applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	name := strings.TrimSpace(r.Form.Get("name"))
	value := sanitizeInput(r.Form.Get("value"))

	if _, err := s.svc.Apply(r.Context(), id, core.SetField{Name: name, Value: value}); err != nil {
		if errors.Is(err, core.ErrUnknownField) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Unknown field: ` + htmlEscape(name) + `</div>`))
			return
		}
		s.renderServiceError(w, r, id, err)
		return
	}

	http.Redirect(w, r, editPath(id), http.StatusSeeOther)
}

// handleToggleMonth flips the paid flag of one installment month.
func (s *Server) handleToggleMonth(w http.ResponseWriter, r *http.Request) {
	id := recordID(r)
	month, ok := s.monthParam(w, r)
	if !ok {
		return
	}

	if _, err := s.svc.Apply(r.Context(), id, core.TogglePaid{Month: month}); err != nil {
		if errors.Is(err, core.ErrMonthOutOfRange) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Month out of range</div>`))
			return
		}
		s.renderServiceError(w, r, id, err)
		return
	}

	http.Redirect(w, r, editPath(id), http.StatusSeeOther)
}

// handlePenalty stores the penalty fee typed for one month. Blank or
// non-numeric input counts as zero.
func (s *Server) handlePenalty(w http.ResponseWriter, r *http.Request) {
	id := recordID(r)
	month, ok := s.monthParam(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", applog.FieldError, err,
			applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	raw := strings.TrimSpace(r.Form.Get("value"))
	if _, err := s.svc.Apply(r.Context(), id, core.SetPenaltyFee{Month: month, Raw: raw}); err != nil {
		if errors.Is(err, core.ErrMonthOutOfRange) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Month out of range</div>`))
			return
		}
		s.renderServiceError(w, r, id, err)
		return
	}

	http.Redirect(w, r, editPath(id), http.StatusSeeOther)
}

// handleMarkAll marks every month of the period as paid.
func (s *Server) handleMarkAll(w http.ResponseWriter, r *http.Request) {
	id := recordID(r)
	if _, err := s.svc.Apply(r.Context(), id, core.MarkAllPaid{}); err != nil {
		s.renderServiceError(w, r, id, err)
		return
	}
	http.Redirect(w, r, editPath(id), http.StatusSeeOther)
}

// handleResetMonths clears the whole paid-month set.
func (s *Server) handleResetMonths(w http.ResponseWriter, r *http.Request) {
	id := recordID(r)
	if _, err := s.svc.Apply(r.Context(), id, core.ResetPaid{}); err != nil {
		s.renderServiceError(w, r, id, err)
		return
	}
	http.Redirect(w, r, editPath(id), http.StatusSeeOther)
}

// handleOwnerBook moves the owner book badge to the posted status.
func (s *Server) handleOwnerBook(w http.ResponseWriter, r *http.Request) {
	id := recordID(r)
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", applog.FieldError, err,
			applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	status := core.OwnerBookStatus(strings.TrimSpace(r.Form.Get("status")))
	if _, err := s.svc.Apply(r.Context(), id, core.SetOwnerBook{Status: status}); err != nil {
		if errors.Is(err, core.ErrInvalidOwnerBook) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Unknown owner book status</div>`))
			return
		}
		s.renderServiceError(w, r, id, err)
		return
	}

	http.Redirect(w, r, editPath(id), http.StatusSeeOther)
}

// handleSubmit sends the form back to the car API and, on success,
// shows the read-only record view.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id := recordID(r)

	if err := s.svc.Submit(r.Context(), id); err != nil {
		s.renderServiceError(w, r, id, err)
		return
	}

	slog.InfoContext(r.Context(), "Installment record updated", applog.FieldRecordID, id)
	http.Redirect(w, r, "/installments/"+id, http.StatusSeeOther)
}

// handleDiscard drops the edit session without submitting anything.
func (s *Server) handleDiscard(w http.ResponseWriter, r *http.Request) {
	id := recordID(r)

	if err := s.svc.Discard(r.Context(), id); err != nil {
		s.renderServiceError(w, r, id, err)
		return
	}

	http.Redirect(w, r, editPath(id), http.StatusSeeOther)
}

// handleLogin renders the login entry point admins land on after a
// credential rejection.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "login.html", nil)
}

// handleInstallmentList renders the navigation page linking into the
// editor.
func (s *Server) handleInstallmentList(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "list.html", nil)
}

// monthParam parses the month path segment, writing a 400 on garbage.
func (s *Server) monthParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.PathValue("month")
	month, err := strconv.Atoi(raw)
	if err != nil {
		slog.WarnContext(r.Context(), "Invalid month parameter", applog.FieldMonth, raw, applog.FieldPath, r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid month</div>`))
		return 0, false
	}
	return month, true
}
