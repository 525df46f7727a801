package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"showroom/internal/carapi"
	"showroom/internal/carapi/memory"
	"showroom/internal/services"
	"showroom/internal/session"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	records := memory.NewSeeded()
	store := session.NewMemoryStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })
	svc := services.NewInstallmentService(records, records, store)
	s := NewServer(":0", svc)
	t.Cleanup(func() { s.rateLimiter.stop() })
	return s, records
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func postForm(t *testing.T, s *Server, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestEditPageRendersRecord(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/installments/1/edit")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Toyota Vios", "Demo Buyer", "2024-01-15", "Pending Payment"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	// 12 months at 33333 each.
	if !strings.Contains(body, "฿33,333") {
		t.Errorf("page missing formatted monthly payment")
	}
}

func TestFieldUpdateRoundTrip(t *testing.T) {
	s, _ := newTestServer(t)

	rec := postForm(t, s, "/installments/1/field", url.Values{
		"name":  {"customerName"},
		"value": {"Somchai J."},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/installments/1/edit" {
		t.Fatalf("redirect %q", loc)
	}

	if body := get(t, s, "/installments/1/edit").Body.String(); !strings.Contains(body, "Somchai J.") {
		t.Fatal("edited value not rendered")
	}
}

func TestFieldUpdateUnknownField(t *testing.T) {
	s, _ := newTestServer(t)

	rec := postForm(t, s, "/installments/1/field", url.Values{
		"name":  {"nope"},
		"value": {"x"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestToggleMonth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := postForm(t, s, "/installments/1/months/3/toggle", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status %d", rec.Code)
	}

	body := get(t, s, "/installments/1/edit").Body.String()
	if !strings.Contains(body, "1/12 months") {
		t.Fatal("paid count not updated")
	}

	// Toggling again reverts.
	postForm(t, s, "/installments/1/months/3/toggle", nil)
	body = get(t, s, "/installments/1/edit").Body.String()
	if !strings.Contains(body, "0/12 months") {
		t.Fatal("second toggle did not revert")
	}
}

func TestToggleMonthOutOfRange(t *testing.T) {
	s, _ := newTestServer(t)

	if rec := postForm(t, s, "/installments/1/months/13/toggle", nil); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", rec.Code)
	}
	if rec := postForm(t, s, "/installments/1/months/abc/toggle", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestMarkAllAndReset(t *testing.T) {
	s, _ := newTestServer(t)

	postForm(t, s, "/installments/1/months/mark-all", nil)
	body := get(t, s, "/installments/1/edit").Body.String()
	if !strings.Contains(body, "12/12 months") {
		t.Fatal("mark-all did not pay every month")
	}
	if !strings.Contains(body, "฿399,996") {
		t.Fatal("paid total not rendered")
	}

	postForm(t, s, "/installments/1/months/reset", nil)
	body = get(t, s, "/installments/1/edit").Body.String()
	if !strings.Contains(body, "0/12 months") {
		t.Fatal("reset did not clear the set")
	}
}

func TestPenaltyFee(t *testing.T) {
	s, _ := newTestServer(t)

	rec := postForm(t, s, "/installments/1/months/2/penalty", url.Values{"value": {"500"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status %d", rec.Code)
	}

	body := get(t, s, "/installments/1/edit").Body.String()
	if !strings.Contains(body, "฿500") {
		t.Fatal("penalty fee not rendered")
	}
}

func TestPenaltyInputHiddenOncePaid(t *testing.T) {
	s, _ := newTestServer(t)

	postForm(t, s, "/installments/1/months/2/penalty", url.Values{"value": {"500"}})
	postForm(t, s, "/installments/1/months/2/toggle", nil)

	body := get(t, s, "/installments/1/edit").Body.String()
	if strings.Contains(body, "/installments/1/months/2/penalty") {
		t.Fatal("penalty input rendered for a paid month")
	}
	// The stored fee stays visible even though the input is gone.
	if !strings.Contains(body, "฿500") {
		t.Fatal("stored penalty no longer displayed")
	}
	// Unpaid months keep their input.
	if !strings.Contains(body, "/installments/1/months/3/penalty") {
		t.Fatal("penalty input missing for an unpaid month")
	}
}

func TestOwnerBookStatus(t *testing.T) {
	s, _ := newTestServer(t)

	rec := postForm(t, s, "/installments/1/owner-book", url.Values{"status": {"transferred"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status %d", rec.Code)
	}
	if body := get(t, s, "/installments/1/edit").Body.String(); !strings.Contains(body, "Transferred to Owner") {
		t.Fatal("badge not updated")
	}

	if rec := postForm(t, s, "/installments/1/owner-book", url.Values{"status": {"lost"}}); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestSubmitWritesBackAndRedirects(t *testing.T) {
	s, records := newTestServer(t)

	postForm(t, s, "/installments/1/field", url.Values{
		"name":  {"downPayment"},
		"value": {"150000"},
	})

	rec := postForm(t, s, "/installments/1/submit", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/installments/1" {
		t.Fatalf("redirect %q", loc)
	}

	p, err := records.FetchInstallment(context.Background(), "1")
	if err != nil {
		t.Fatal(err)
	}
	if p.Installment.DownPayment != 150000 {
		t.Fatalf("downPayment %v", p.Installment.DownPayment)
	}
	if p.Installment.RemainingAmount != 350000 {
		t.Fatalf("remainingAmount %v", p.Installment.RemainingAmount)
	}
}

func TestDiscardDropsEdits(t *testing.T) {
	s, _ := newTestServer(t)

	postForm(t, s, "/installments/1/field", url.Values{
		"name":  {"customerName"},
		"value": {"Edited Away"},
	})
	postForm(t, s, "/installments/1/discard", nil)

	if body := get(t, s, "/installments/1/edit").Body.String(); strings.Contains(body, "Edited Away") {
		t.Fatal("discard kept the edit")
	}
}

func TestUnknownRecord(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/installments/999/edit")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "car 999 not found") {
		t.Fatal("server message not surfaced")
	}
}

type unauthorizedAPI struct{}

func (unauthorizedAPI) FetchInstallment(context.Context, string) (carapi.RecordPayload, error) {
	return carapi.RecordPayload{}, carapi.ErrUnauthorized
}

func (unauthorizedAPI) UpdateInstallment(context.Context, string, carapi.UpdateRequest) error {
	return carapi.ErrUnauthorized
}

func TestUnauthorizedRedirectsToLogin(t *testing.T) {
	store := session.NewMemoryStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })
	svc := services.NewInstallmentService(unauthorizedAPI{}, unauthorizedAPI{}, store)
	s := NewServer(":0", svc)
	t.Cleanup(func() { s.rateLimiter.stop() })

	rec := get(t, s, "/installments/1/edit")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin/login" {
		t.Fatalf("redirect %q", loc)
	}
}

type unconfiguredAPI struct{}

func (unconfiguredAPI) FetchInstallment(context.Context, string) (carapi.RecordPayload, error) {
	return carapi.RecordPayload{}, carapi.ErrNotConfigured
}

func (unconfiguredAPI) UpdateInstallment(context.Context, string, carapi.UpdateRequest) error {
	return carapi.ErrNotConfigured
}

func TestUnconfiguredStaysLoading(t *testing.T) {
	store := session.NewMemoryStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })
	svc := services.NewInstallmentService(unconfiguredAPI{}, unconfiguredAPI{}, store)
	s := NewServer(":0", svc)
	t.Cleanup(func() { s.rateLimiter.stop() })

	rec := get(t, s, "/installments/1/edit")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Loading record") {
		t.Fatal("page not in loading state")
	}
}

func TestHealthEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	if rec := get(t, s, "/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("healthz %d", rec.Code)
	}
	if rec := get(t, s, "/readyz"); rec.Code != http.StatusOK {
		t.Fatalf("readyz %d", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/installments/1/edit")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("X-Frame-Options %q", got)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < 120; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d denied under the limit", i)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Fatal("request over the limit allowed")
	}
	if !rl.allow("10.0.0.2") {
		t.Fatal("other client affected")
	}
}
