package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/HadiaEL/CABINET-MEDICAL/internal/apperr"
	"github.com/HadiaEL/CABINET-MEDICAL/internal/auth"
	"github.com/HadiaEL/CABINET-MEDICAL/internal/directory"
	redisclient "github.com/HadiaEL/CABINET-MEDICAL/internal/redis"
	"github.com/HadiaEL/CABINET-MEDICAL/internal/scheduling"
)

type fakeAuthRepo struct {
	patient *auth.Patient
}

func (f *fakeAuthRepo) GetPatientByEmailAndPhone(_ context.Context, email, phone string) (*auth.Patient, error) {
	if f.patient != nil && f.patient.Email == email && f.patient.Phone == phone {
		return f.patient, nil
	}
	return nil, auth.ErrPatientNotFound
}

type fakeDirectoryRepo struct {
	doctors     []directory.Doctor
	specialties []directory.Specialty
}

func (f *fakeDirectoryRepo) ListDoctors(_ context.Context, _ directory.SortField, descending bool, limit, offset int) ([]directory.Doctor, int64, error) {
	sorted := make([]directory.Doctor, len(f.doctors))
	copy(sorted, f.doctors)
	sort.SliceStable(sorted, func(i, j int) bool {
		if descending {
			return sorted[i].LastName > sorted[j].LastName
		}
		return sorted[i].LastName < sorted[j].LastName
	})

	total := int64(len(sorted))
	if offset >= len(sorted) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[offset:end], total, nil
}

func (f *fakeDirectoryRepo) GetDoctorByID(_ context.Context, id int64) (*directory.Doctor, error) {
	for i := range f.doctors {
		if f.doctors[i].ID == id {
			return &f.doctors[i], nil
		}
	}
	return nil, directory.ErrDoctorNotFound
}

func (f *fakeDirectoryRepo) ListSpecialties(_ context.Context) ([]directory.Specialty, error) {
	return f.specialties, nil
}

func newTestHandler() *Handler {
	logger := zap.NewNop()

	authSvc := auth.NewService(&fakeAuthRepo{
		patient: &auth.Patient{ID: 7, LastName: "Durand", FirstName: "Alice", Email: "alice@example.fr", Phone: "0612345678"},
	}, logger)

	directorySvc := directory.NewService(&fakeDirectoryRepo{
		doctors: []directory.Doctor{
			{ID: 1, LastName: "Bernard", FirstName: "Luc", Specialty: directory.Specialty{ID: 1, Name: "Cardiologie"}},
			{ID: 2, LastName: "Armand", FirstName: "Zoe", Specialty: directory.Specialty{ID: 2, Name: "Dermatologie"}},
		},
		specialties: []directory.Specialty{
			{ID: 1, Name: "Cardiologie"},
			{ID: 2, Name: "Dermatologie"},
		},
	}, logger)

	return NewHandler(authSvc, directorySvc, nil, logger)
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestLoginHandler(t *testing.T) {
	h := newTestHandler()

	t.Run("success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"email":"alice@example.fr","telephone":"0612345678"}`))
		rec := httptest.NewRecorder()

		h.Login(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var identity auth.Identity
		if err := json.NewDecoder(rec.Body).Decode(&identity); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if identity.ID != 7 || identity.Role != auth.RolePatient {
			t.Errorf("identity = %+v, want ID 7 role PATIENT", identity)
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"email":"alice@example.fr","telephone":"wrong"}`))
		rec := httptest.NewRecorder()

		h.Login(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}

		body := decodeErrorResponse(t, rec)
		if body.Status != http.StatusUnauthorized {
			t.Errorf("body.Status = %d, want 401", body.Status)
		}
		if body.Error != "Unauthorized" {
			t.Errorf("body.Error = %q, want Unauthorized", body.Error)
		}
		if body.Message != "email ou mot de passe incorrect" {
			t.Errorf("body.Message = %q", body.Message)
		}
		if body.Path != "/auth/login" {
			t.Errorf("body.Path = %q, want /auth/login", body.Path)
		}
		if body.Timestamp.IsZero() {
			t.Error("body.Timestamp is zero")
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"email":"alice@example.fr"}`))
		rec := httptest.NewRecorder()

		h.Login(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		body := decodeErrorResponse(t, rec)
		if body.Message != "email and telephone are required" {
			t.Errorf("body.Message = %q", body.Message)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`not json`))
		rec := httptest.NewRecorder()

		h.Login(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestListDoctorsHandler(t *testing.T) {
	h := newTestHandler()

	t.Run("defaults", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/doctor/allDoctors", nil)
		rec := httptest.NewRecorder()

		h.ListDoctors(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var page struct {
			Content       []directory.DoctorDTO `json:"content"`
			PageNumber    int                   `json:"pageNumber"`
			PageSize      int                   `json:"pageSize"`
			TotalElements int64                 `json:"totalElements"`
			First         bool                  `json:"first"`
			Last          bool                  `json:"last"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if page.PageNumber != 0 || page.PageSize != 10 {
			t.Errorf("page %d size %d, want defaults 0 and 10", page.PageNumber, page.PageSize)
		}
		if page.TotalElements != 2 || len(page.Content) != 2 {
			t.Errorf("TotalElements = %d len = %d, want 2 and 2", page.TotalElements, len(page.Content))
		}
		// Default sort is nom ascending.
		if page.Content[0].Nom != "Armand" {
			t.Errorf("first doctor = %q, want Armand", page.Content[0].Nom)
		}
	})

	t.Run("non-integer page", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/doctor/allDoctors?page=abc", nil)
		rec := httptest.NewRecorder()

		h.ListDoctors(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		body := decodeErrorResponse(t, rec)
		if body.Message != "page must be an integer" {
			t.Errorf("body.Message = %q", body.Message)
		}
	})

	t.Run("negative page", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/doctor/allDoctors?page=-1", nil)
		rec := httptest.NewRecorder()

		h.ListDoctors(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		body := decodeErrorResponse(t, rec)
		if body.Message != "page number cannot be negative" {
			t.Errorf("body.Message = %q", body.Message)
		}
	})

	t.Run("oversized page size", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/doctor/allDoctors?size=1000", nil)
		rec := httptest.NewRecorder()

		h.ListDoctors(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestListSpecialtiesHandler(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/speciality/allSpecialities", nil)
	rec := httptest.NewRecorder()

	h.ListSpecialties(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var specialties []directory.SpecialtyDTO
	if err := json.NewDecoder(rec.Body).Decode(&specialties); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(specialties) != 2 {
		t.Fatalf("len = %d, want 2", len(specialties))
	}
	if specialties[0].Nom != "Cardiologie" {
		t.Errorf("first = %q, want Cardiologie", specialties[0].Nom)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantLabel  string
	}{
		{"invalid argument", apperr.Invalidf("page size must be greater than 0"), http.StatusBadRequest, "Bad Request"},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "Unauthorized"},
		{"appointment not found", scheduling.ErrAppointmentNotFound, http.StatusNotFound, "Not Found"},
		{"doctor not found", scheduling.ErrDoctorNotFound, http.StatusNotFound, "Not Found"},
		{"day not found", scheduling.ErrDayNotFound, http.StatusNotFound, "Not Found"},
		{"overlap", scheduling.ErrAppointmentOverlap, http.StatusConflict, "Conflict"},
		{"availability overlap", scheduling.ErrAvailabilityOverlap, http.StatusConflict, "Conflict"},
		{"invalid transition", scheduling.ErrInvalidStatusTransition, http.StatusConflict, "Conflict"},
		{"agenda busy", scheduling.ErrAgendaBusy, http.StatusConflict, "Conflict"},
		{"duplicate start", scheduling.ErrDuplicateStart, http.StatusConflict, "Conflict"},
		{"lock not acquired", redisclient.ErrLockNotAcquired, http.StatusConflict, "Conflict"},
		{"wrapped sentinel", fmt.Errorf("load appointment: %w", scheduling.ErrAppointmentNotFound), http.StatusNotFound, "Not Found"},
		{"unknown", errors.New("pg connection refused"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, label, message := classify(tt.err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if label != tt.wantLabel {
				t.Errorf("label = %q, want %q", label, tt.wantLabel)
			}
			if status == http.StatusInternalServerError && message != "an unexpected error occurred" {
				t.Errorf("500 message = %q, leaked internal detail", message)
			}
		})
	}
}

func TestErrorResponseShape(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"x@y.fr","telephone":"1"}`))
	rec := httptest.NewRecorder()

	before := time.Now()
	h.Login(rec, req)

	var raw map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	for _, field := range []string{"timestamp", "status", "error", "message", "path"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("error body missing field %q", field)
		}
	}

	ts, err := time.Parse(time.RFC3339Nano, raw["timestamp"].(string))
	if err != nil {
		t.Fatalf("timestamp not RFC3339: %v", err)
	}
	if ts.Before(before.Add(-time.Minute)) {
		t.Errorf("timestamp %s is stale", ts)
	}
}
