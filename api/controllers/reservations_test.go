package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avelarde/reservline-backend/internal/reservations"
	"github.com/avelarde/reservline-backend/pkg/db/models"
	"github.com/avelarde/reservline-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) reservations.Service {
	t.Helper()
	dsn := "file:controllers_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Reservation{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := reservations.NewService(reservations.NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected envelope payload %T", envelope.Data)
	}
	return data
}

func createSlot(t *testing.T, svc reservations.Service, start, end string) {
	t.Helper()
	w := httptest.NewRecorder()
	body := `{"start_time":"` + start + `","end_time":"` + end + `"}`
	CreateReservation(svc, nil)(w, httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("create %s: status %d body %s", start, w.Code, w.Body.String())
	}
}

func TestCreateReservationHandler(t *testing.T) {
	svc := newTestService(t)

	w := httptest.NewRecorder()
	body := `{"start_time":"2024-01-15T10:00:00Z","end_time":"2024-01-15T11:00:00Z","description":"patio"}`
	CreateReservation(svc, nil)(w, httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body)))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := decodeEnvelope(t, w)
	if data["id"] != float64(1) {
		t.Fatalf("expected id 1, got %v", data["id"])
	}
}

func TestCreateReservationHandlerValidation(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing end", body: `{"start_time":"2024-01-15T10:00:00Z"}`},
		{name: "inverted", body: `{"start_time":"2024-01-15T11:00:00Z","end_time":"2024-01-15T10:00:00Z"}`},
		{name: "unknown field", body: `{"start_time":"2024-01-15T10:00:00Z","end_time":"2024-01-15T11:00:00Z","table":7}`},
		{name: "not json", body: `create it`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			CreateReservation(svc, nil)(w, httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(tt.body)))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateReservationHandlerConflict(t *testing.T) {
	svc := newTestService(t)
	createSlot(t, svc, "2024-01-15T10:00:00Z", "2024-01-15T11:00:00Z")

	w := httptest.NewRecorder()
	body := `{"start_time":"2024-01-15T10:30:00Z","end_time":"2024-01-15T11:30:00Z"}`
	CreateReservation(svc, nil)(w, httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body)))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Code != "CONFLICT" {
		t.Fatalf("unexpected error code %q", envelope.Error.Code)
	}
	if envelope.Error.Details == nil {
		t.Fatal("conflict response must list the blocking reservations")
	}
}

func TestCheckAvailabilityHandler(t *testing.T) {
	svc := newTestService(t)
	createSlot(t, svc, "2024-01-15T10:00:00Z", "2024-01-15T11:00:00Z")

	w := httptest.NewRecorder()
	CheckAvailability(svc, nil)(w, httptest.NewRequest(http.MethodGet,
		"/api/v1/availability?start_time=2024-01-15T10:30:00Z&end_time=2024-01-15T11:30:00Z", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	data := decodeEnvelope(t, w)
	if data["available"] != false {
		t.Fatalf("expected unavailable slot, got %v", data)
	}

	w = httptest.NewRecorder()
	CheckAvailability(svc, nil)(w, httptest.NewRequest(http.MethodGet, "/api/v1/availability", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing params must fail validation, got %d", w.Code)
	}
}

func TestListReservationsHandler(t *testing.T) {
	svc := newTestService(t)
	createSlot(t, svc, "2024-01-16T09:00:00Z", "2024-01-16T10:00:00Z")
	createSlot(t, svc, "2024-01-15T10:00:00Z", "2024-01-15T11:00:00Z")

	w := httptest.NewRecorder()
	ListReservations(svc, nil)(w, httptest.NewRequest(http.MethodGet, "/api/v1/reservations", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	data := decodeEnvelope(t, w)
	if data["count"] != float64(2) {
		t.Fatalf("expected 2 reservations, got %v", data["count"])
	}

	w = httptest.NewRecorder()
	ListReservations(svc, nil)(w, httptest.NewRequest(http.MethodGet,
		"/api/v1/reservations?start_date=2024-01-16&end_date=2024-01-16", nil))
	data = decodeEnvelope(t, w)
	if data["count"] != float64(1) {
		t.Fatalf("expected 1 filtered reservation, got %v", data["count"])
	}
}

func TestCancelReservationHandler(t *testing.T) {
	svc := newTestService(t)
	createSlot(t, svc, "2024-01-15T10:00:00Z", "2024-01-15T11:00:00Z")

	w := httptest.NewRecorder()
	CancelReservation(svc, nil)(w, httptest.NewRequest(http.MethodDelete, "/api/v1/reservations?id=1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	CancelReservation(svc, nil)(w, httptest.NewRequest(http.MethodDelete, "/api/v1/reservations?id=1", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("second cancel must 404, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	CancelReservation(svc, nil)(w, httptest.NewRequest(http.MethodDelete, "/api/v1/reservations?id=first", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric id must 400, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	CancelReservation(svc, nil)(w, httptest.NewRequest(http.MethodDelete, "/api/v1/reservations", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing target must 400, got %d", w.Code)
	}
}
