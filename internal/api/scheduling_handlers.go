package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/HadiaEL/CABINET-MEDICAL/internal/apperr"
	"github.com/HadiaEL/CABINET-MEDICAL/internal/scheduling"
)

// defaultAgendaWindow bounds the agenda listing when no range is given.
const defaultAgendaWindow = 14 * 24 * time.Hour

// POST /rendezvous
func (h *Handler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, r, apperr.Invalidf("could not parse JSON body"))
		return
	}

	if req.PatientID <= 0 || req.MedecinID <= 0 {
		h.respondError(w, r, apperr.Invalidf("patientId and medecinId are required"))
		return
	}

	booking := scheduling.BookingRequest{
		PatientID: req.PatientID,
		DoctorID:  req.MedecinID,
		Start:     req.DateHeureDebut,
		Reason:    req.Motif,
	}
	if req.DateHeureFin != nil {
		booking.End = *req.DateHeureFin
	}

	appt, err := h.scheduling.Book(r.Context(), booking)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
}

// GET /rendezvous/{id}
func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	detail, err := h.scheduling.GetAppointment(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentDetailResponse(detail))
}

// POST /rendezvous/{id}/cancel
func (h *Handler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	appt, err := h.scheduling.Cancel(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

// GET /doctor/{id}/rendezvous?from&to
func (h *Handler) ListDoctorAgenda(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	from, err := timeQuery(r, "from", time.Now())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	to, err := timeQuery(r, "to", from.Add(defaultAgendaWindow))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	appts, err := h.scheduling.ListDoctorAgenda(r.Context(), id, from, to)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	resp := make([]AppointmentResponse, 0, len(appts))
	for i := range appts {
		resp = append(resp, toAppointmentResponse(&appts[i]))
	}

	writeJSON(w, http.StatusOK, resp)
}

// POST /disponibilites
func (h *Handler) AddAvailability(w http.ResponseWriter, r *http.Request) {
	var req AddAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, r, apperr.Invalidf("could not parse JSON body"))
		return
	}

	if req.MedecinID <= 0 || req.JourSemaineID <= 0 || req.HeureDebutID <= 0 || req.HeureFinID <= 0 {
		h.respondError(w, r, apperr.Invalidf("medecinId, jourSemaineId, heureDebutId and heureFinId are required"))
		return
	}

	av, err := h.scheduling.AddAvailability(r.Context(), scheduling.AvailabilityRequest{
		DoctorID:    req.MedecinID,
		DayID:       req.JourSemaineID,
		StartHourID: req.HeureDebutID,
		EndHourID:   req.HeureFinID,
		Note:        req.Note,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAvailabilityResponse(av))
}

// GET /doctor/{id}/disponibilites
func (h *Handler) ListDoctorAvailabilities(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	avs, err := h.scheduling.ListDoctorAvailabilities(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	resp := make([]AvailabilityResponse, 0, len(avs))
	for i := range avs {
		resp = append(resp, toAvailabilityResponse(&avs[i]))
	}

	writeJSON(w, http.StatusOK, resp)
}

// DELETE /disponibilites/{id}
func (h *Handler) DeactivateAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.scheduling.DeactivateAvailability(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /reference/jours
func (h *Handler) ListDays(w http.ResponseWriter, r *http.Request) {
	days, err := h.scheduling.ListDays(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	resp := make([]DayResponse, 0, len(days))
	for _, d := range days {
		resp = append(resp, toDayResponse(d))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GET /reference/heures
func (h *Handler) ListHours(w http.ResponseWriter, r *http.Request) {
	hours, err := h.scheduling.ListHours(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	resp := make([]HourResponse, 0, len(hours))
	for _, hr := range hours {
		resp = append(resp, toHourResponse(hr))
	}

	writeJSON(w, http.StatusOK, resp)
}

func timeQuery(r *http.Request, name string, fallback time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperr.Invalidf("%s must be an RFC 3339 timestamp", name)
	}
	return t, nil
}
