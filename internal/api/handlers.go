package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/HadiaEL/CABINET-MEDICAL/internal/apperr"
	"github.com/HadiaEL/CABINET-MEDICAL/internal/auth"
	"github.com/HadiaEL/CABINET-MEDICAL/internal/directory"
	"github.com/HadiaEL/CABINET-MEDICAL/internal/pagination"
	"github.com/HadiaEL/CABINET-MEDICAL/internal/scheduling"
)

type Handler struct {
	auth       *auth.Service
	directory  *directory.Service
	scheduling *scheduling.Service
	logger     *zap.Logger
}

func NewHandler(authSvc *auth.Service, directorySvc *directory.Service, schedulingSvc *scheduling.Service, logger *zap.Logger) *Handler {
	return &Handler{
		auth:       authSvc,
		directory:  directorySvc,
		scheduling: schedulingSvc,
		logger:     logger,
	}
}

// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, r, apperr.Invalidf("could not parse JSON body"))
		return
	}

	if req.Email == "" || req.Telephone == "" {
		h.respondError(w, r, apperr.Invalidf("email and telephone are required"))
		return
	}

	identity, err := h.auth.Login(r.Context(), req.Email, req.Telephone)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, identity)
}

// GET /doctor/allDoctors?page&size&sortBy&sortDirection
func (h *Handler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	page, err := intQuery(r, "page", 0)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	size, err := intQuery(r, "size", 10)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	req := pagination.PageRequest{
		Page:          page,
		Size:          size,
		SortBy:        stringQuery(r, "sortBy", "nom"),
		SortDirection: stringQuery(r, "sortDirection", "asc"),
	}

	result, err := h.directory.ListDoctors(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GET /speciality/allSpecialities
func (h *Handler) ListSpecialties(w http.ResponseWriter, r *http.Request) {
	specialties, err := h.directory.ListSpecialties(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, specialties)
}

// Query and path parsing helpers

func stringQuery(r *http.Request, name, fallback string) string {
	if v := r.URL.Query().Get(name); v != "" {
		return v
	}
	return fallback
}

func intQuery(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Invalidf("%s must be an integer", name)
	}
	return n, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalidf("%s must be a positive integer", name)
	}
	return id, nil
}
