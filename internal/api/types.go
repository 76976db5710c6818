package api

import (
	"time"

	"github.com/HadiaEL/CABINET-MEDICAL/internal/scheduling"
)

type LoginRequest struct {
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
}

type BookAppointmentRequest struct {
	PatientID      int64      `json:"patientId"`
	MedecinID      int64      `json:"medecinId"`
	DateHeureDebut time.Time  `json:"dateHeureDebut"`
	DateHeureFin   *time.Time `json:"dateHeureFin,omitempty"`
	Motif          *string    `json:"motif,omitempty"`
}

type AppointmentResponse struct {
	ID             int64     `json:"id"`
	PatientID      int64     `json:"patientId"`
	MedecinID      int64     `json:"medecinId"`
	DateHeureDebut time.Time `json:"dateHeureDebut"`
	DateHeureFin   time.Time `json:"dateHeureFin"`
	Statut         string    `json:"statut"`
	Motif          *string   `json:"motif,omitempty"`
	Notes          *string   `json:"notes,omitempty"`
}

type PersonRef struct {
	ID     int64  `json:"id"`
	Nom    string `json:"nom"`
	Prenom string `json:"prenom"`
}

type AppointmentDetailResponse struct {
	AppointmentResponse
	Patient PersonRef `json:"patient"`
	Medecin PersonRef `json:"medecin"`
}

type AddAvailabilityRequest struct {
	MedecinID     int64   `json:"medecinId"`
	JourSemaineID int64   `json:"jourSemaineId"`
	HeureDebutID  int64   `json:"heureDebutId"`
	HeureFinID    int64   `json:"heureFinId"`
	Note          *string `json:"note,omitempty"`
}

type DayResponse struct {
	ID         int64  `json:"id"`
	Nom        string `json:"nom"`
	NumeroJour int    `json:"numeroJour"`
	Ouvrable   bool   `json:"ouvrable"`
}

type HourResponse struct {
	ID      int64  `json:"id"`
	Heure   string `json:"heure"`
	Libelle string `json:"libelle"`
}

type AvailabilityResponse struct {
	ID         int64        `json:"id"`
	MedecinID  int64        `json:"medecinId"`
	Jour       DayResponse  `json:"jour"`
	HeureDebut HourResponse `json:"heureDebut"`
	HeureFin   HourResponse `json:"heureFin"`
	Actif      bool         `json:"actif"`
	Note       *string      `json:"note,omitempty"`
}

func toAppointmentResponse(a *scheduling.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:             a.ID,
		PatientID:      a.PatientID,
		MedecinID:      a.DoctorID,
		DateHeureDebut: a.Start,
		DateHeureFin:   a.End,
		Statut:         string(a.Status),
		Motif:          a.Reason,
		Notes:          a.Notes,
	}
}

func toAppointmentDetailResponse(d *scheduling.AppointmentDetail) AppointmentDetailResponse {
	return AppointmentDetailResponse{
		AppointmentResponse: toAppointmentResponse(&d.Appointment),
		Patient: PersonRef{
			ID:     d.Patient.ID,
			Nom:    d.Patient.LastName,
			Prenom: d.Patient.FirstName,
		},
		Medecin: PersonRef{
			ID:     d.Doctor.ID,
			Nom:    d.Doctor.LastName,
			Prenom: d.Doctor.FirstName,
		},
	}
}

func toDayResponse(d scheduling.DayOfWeek) DayResponse {
	return DayResponse{
		ID:         d.ID,
		Nom:        d.Name,
		NumeroJour: d.Ordinal,
		Ouvrable:   d.Workday,
	}
}

func toHourResponse(h scheduling.HourOfDay) HourResponse {
	return HourResponse{
		ID:      h.ID,
		Heure:   h.Time,
		Libelle: h.Label,
	}
}

func toAvailabilityResponse(av *scheduling.Availability) AvailabilityResponse {
	return AvailabilityResponse{
		ID:         av.ID,
		MedecinID:  av.DoctorID,
		Jour:       toDayResponse(av.Day),
		HeureDebut: toHourResponse(av.StartHour),
		HeureFin:   toHourResponse(av.EndHour),
		Actif:      av.Active,
		Note:       av.Note,
	}
}
