package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinichq/clinic-server/internal/platform/apperr"
	"github.com/clinichq/clinic-server/internal/platform/validation"
)

func newTestHandler() (*Handler, *echo.Echo, *Service) {
	svc, _, _, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()
	e.Validator = validation.New()
	return h, e, svc
}

func TestHandler_Book(t *testing.T) {
	h, e, _ := newTestHandler()
	body := `{"patient_id":1,"doctor_id":2,"date":"2026-09-01","time_slot":"09:00-09:30"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Book(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var a Detail
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if a.Status != StatusScheduled {
		t.Errorf("status = %s, want Scheduled", a.Status)
	}
	if a.PatientName == "" || a.DoctorName == "" {
		t.Errorf("response missing display fields: %s", rec.Body.String())
	}
	if a.HasConsultation {
		t.Error("has_consultation must be false at creation")
	}
}

func TestHandler_Book_MissingFields(t *testing.T) {
	h, e, _ := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.Book(c)
	if !apperr.IsInvalid(err) {
		t.Errorf("expected invalid, got %v", err)
	}
}

func TestHandler_Book_BadDate(t *testing.T) {
	h, e, _ := newTestHandler()
	body := `{"patient_id":1,"doctor_id":2,"date":"01/09/2026","time_slot":"09:00-09:30"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.Book(c)
	if !apperr.IsInvalid(err) {
		t.Errorf("expected invalid, got %v", err)
	}
}

func TestHandler_Get_NotFound(t *testing.T) {
	h, e, _ := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("404")

	err := h.Get(c)
	if !apperr.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestHandler_UpdateStatus(t *testing.T) {
	h, e, svc := newTestHandler()
	a, err := svc.Book(context.Background(), testBookRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := `{"status":"Confirmed","reason":"confirmed by phone"}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(a.ID, 10))

	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Confirmed") {
		t.Errorf("expected Confirmed in response: %s", rec.Body.String())
	}
}

func TestHandler_UpdateStatus_InvalidValue(t *testing.T) {
	h, e, svc := newTestHandler()
	a, err := svc.Book(context.Background(), testBookRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := `{"status":"definitely-not-a-status"}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(a.ID, 10))

	if err := h.UpdateStatus(c); !apperr.IsInvalid(err) {
		t.Errorf("expected invalid, got %v", err)
	}
}

func TestHandler_Delete_NotFound(t *testing.T) {
	h, e, _ := newTestHandler()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("404")

	if err := h.Delete(c); !apperr.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}
