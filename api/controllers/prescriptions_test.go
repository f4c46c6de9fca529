package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/opticore/lenscard-backend/internal/normalize"
	"github.com/opticore/lenscard-backend/internal/orderstate"
	"github.com/opticore/lenscard-backend/internal/prescriptions"
	"github.com/opticore/lenscard-backend/internal/session"
	"github.com/opticore/lenscard-backend/pkg/db/models"
	pkgerrors "github.com/opticore/lenscard-backend/pkg/errors"
	"github.com/opticore/lenscard-backend/pkg/logger"
)

type stubPrescriptions struct {
	saved   *prescriptions.SaveInput
	record  *models.Prescription
	navDir  prescriptions.NavDirection
	navFrom string
}

func (s *stubPrescriptions) Save(_ context.Context, input prescriptions.SaveInput) (*models.Prescription, error) {
	s.saved = &input
	return &models.Prescription{
		ID:             uuid.New(),
		PrescriptionNo: input.Prescription.PrescriptionNo,
		Name:           input.Prescription.PatientName,
	}, nil
}

func (s *stubPrescriptions) Get(_ context.Context, prescriptionNo string) (*models.Prescription, error) {
	if s.record == nil || s.record.PrescriptionNo != prescriptionNo {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "prescription not found")
	}
	return s.record, nil
}

func (s *stubPrescriptions) LoadCanonical(_ context.Context, _ string) (*normalize.CanonicalRecord, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "prescription not found")
}

func (s *stubPrescriptions) Navigate(_ context.Context, direction prescriptions.NavDirection, currentNo string) (*models.Prescription, error) {
	s.navDir = direction
	s.navFrom = currentNo
	if s.record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no record in that direction")
	}
	return s.record, nil
}

func prescriptionRouter(t *testing.T, stub *stubPrescriptions) (session.Service, http.Handler) {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "controllers-test", Level: zerolog.Disabled})
	sessions, err := session.NewService(&stubLoader{}, logg, nil, time.Hour)
	if err != nil {
		t.Fatalf("failed to build session service: %v", err)
	}

	r := chi.NewRouter()
	r.Post("/api/v1/prescriptions", SavePrescription(sessions, stub, logg))
	r.Get("/api/v1/prescriptions/{prescriptionNo}", GetPrescription(stub, logg))
	r.Get("/api/v1/prescriptions/nav/{direction}", NavigatePrescription(stub, logg))
	return sessions, r
}

func TestSavePrescriptionUsesSessionState(t *testing.T) {
	stub := &stubPrescriptions{}
	sessions, handler := prescriptionRouter(t, stub)

	snap, err := sessions.Open(context.Background())
	if err != nil {
		t.Fatalf("failed to open session: %v", err)
	}
	if _, err := sessions.Apply(context.Background(), snap.ID, orderstate.ItemAdded{
		Item: orderstate.LineItem{Quantity: 2, Rate: 350, DiscountPercent: 10},
	}); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	body := fmt.Sprintf(`{
		"session_id": %q,
		"prescription": {"prescription_no": "RX-9", "patient_name": "A Patient"},
		"eyes": [{"eye_side": "od", "sph": "-1.25"}],
		"payment_mode": "Cash"
	}`, snap.ID)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/prescriptions", strings.NewReader(body)))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 but got %d: %s", w.Code, w.Body.String())
	}

	if stub.saved == nil {
		t.Fatalf("expected the save handler to reach the service")
	}
	if stub.saved.State.FinalTotal != 630 {
		t.Fatalf("expected the session state final total 630 but got %v", stub.saved.State.FinalTotal)
	}
	if stub.saved.Eyes[0].EyeSide.Storage() != "right" {
		t.Fatalf("expected od to normalize to right, got %q", stub.saved.Eyes[0].EyeSide.Storage())
	}
}

func TestSavePrescriptionValidatesHeader(t *testing.T) {
	stub := &stubPrescriptions{}
	sessions, handler := prescriptionRouter(t, stub)

	snap, err := sessions.Open(context.Background())
	if err != nil {
		t.Fatalf("failed to open session: %v", err)
	}

	body := fmt.Sprintf(`{"session_id": %q, "prescription": {"prescription_no": "RX-9"}}`, snap.ID)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/prescriptions", strings.NewReader(body)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing patient name but got %d", w.Code)
	}
	if stub.saved != nil {
		t.Fatalf("service must not be reached on validation failure")
	}
}

func TestSavePrescriptionUnknownSession(t *testing.T) {
	stub := &stubPrescriptions{}
	_, handler := prescriptionRouter(t, stub)

	body := `{"session_id": "5f0c2f0e-7a8d-4f5c-9a64-63d5f962b001", "prescription": {"prescription_no": "RX-9", "patient_name": "A Patient"}}`
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/prescriptions", strings.NewReader(body)))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 but got %d", w.Code)
	}
}

func TestGetPrescriptionReturnsStoredRecord(t *testing.T) {
	stub := &stubPrescriptions{record: &models.Prescription{
		PrescriptionNo: "RX-1",
		Name:           "A Patient",
		Items: []models.PrescriptionItem{
			{Quantity: 1, Rate: 500, DiscountPercent: 10, DiscountAmount: 50, Amount: 450},
		},
		Payment: &models.PrescriptionPayment{PaymentTotal: 450, Estimate: 500},
	}}
	_, handler := prescriptionRouter(t, stub)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/prescriptions/RX-1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d", w.Code)
	}

	var envelope struct {
		Data prescriptionResponse `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if envelope.Data.Payment == nil || envelope.Data.Payment.PaymentTotal != 450 {
		t.Fatalf("expected stored payment total 450, got %+v", envelope.Data.Payment)
	}
	if envelope.Data.Items[0].Amount != 450 {
		t.Fatalf("expected stored item amount 450, got %v", envelope.Data.Items[0].Amount)
	}
}

func TestNavigateRequiresCursorForRelativeMoves(t *testing.T) {
	stub := &stubPrescriptions{}
	_, handler := prescriptionRouter(t, stub)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/prescriptions/nav/next", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a cursor but got %d", w.Code)
	}

	stub.record = &models.Prescription{PrescriptionNo: "RX-2"}
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/prescriptions/nav/next?from=RX-1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d: %s", w.Code, w.Body.String())
	}
	if stub.navDir != prescriptions.NavNext || stub.navFrom != "RX-1" {
		t.Fatalf("unexpected navigation call %s from %q", stub.navDir, stub.navFrom)
	}
}
