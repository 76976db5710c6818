package scheduling

import (
	"context"
	"errors"
	"time"
)

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrDoctorNotFound       = errors.New("doctor not found")
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrAvailabilityNotFound = errors.New("availability not found")
	ErrDayNotFound          = errors.New("day of week not found")
	ErrHourNotFound         = errors.New("hour of day not found")

	// ErrDuplicateStart surfaces the database uniqueness on
	// (medecin_id, date_heure_debut). It is the last line of defense behind
	// the service-level overlap check.
	ErrDuplicateStart = errors.New("doctor already has an appointment at this start time")

	// ErrDuplicateWindow surfaces the uniqueness on
	// (medecin_id, jour_semaine_id, heure_debut_id).
	ErrDuplicateWindow = errors.New("doctor already has an availability window at this day and start hour")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	PatientExists(ctx context.Context, id int64) (bool, error)
	DoctorExists(ctx context.Context, id int64) (bool, error)

	// Appointments
	GetAppointmentByID(ctx context.Context, id int64) (*Appointment, error)
	GetAppointmentDetail(ctx context.Context, id int64) (*AppointmentDetail, error)
	// ListActiveOverlapping returns the doctor's CONFIRME / EN_ATTENTE
	// appointments intersecting [from, to). Used for the conflict check.
	ListActiveOverlapping(ctx context.Context, doctorID int64, from, to time.Time) ([]Appointment, error)
	ListDoctorAppointments(ctx context.Context, doctorID int64, from, to time.Time) ([]Appointment, error)
	CreateAppointment(ctx context.Context, appt *Appointment) (*Appointment, error)
	// UpdateAppointmentStatus flips status only when the current status is one
	// of from; missing or mismatched rows report ErrAppointmentNotFound.
	UpdateAppointmentStatus(ctx context.Context, id int64, to AppointmentStatus, updatedAt time.Time, from ...AppointmentStatus) (*Appointment, error)
	// CompletePastConfirmed marks CONFIRME appointments ending before now as
	// TERMINE and returns how many rows changed.
	CompletePastConfirmed(ctx context.Context, now time.Time) (int64, error)

	// Reference tables
	GetDayByID(ctx context.Context, id int64) (*DayOfWeek, error)
	GetHourByID(ctx context.Context, id int64) (*HourOfDay, error)
	ListDays(ctx context.Context) ([]DayOfWeek, error)
	ListHours(ctx context.Context) ([]HourOfDay, error)

	// Availabilities
	ListActiveAvailabilities(ctx context.Context, doctorID int64) ([]Availability, error)
	ListDayAvailabilities(ctx context.Context, doctorID, dayID int64) ([]Availability, error)
	CreateAvailability(ctx context.Context, av *Availability) (*Availability, error)
	DeactivateAvailability(ctx context.Context, id int64, updatedAt time.Time) error
}
