package scheduling

import "time"

type AppointmentStatus string

const (
	StatusConfirmed AppointmentStatus = "CONFIRME"
	StatusPending   AppointmentStatus = "EN_ATTENTE"
	StatusCancelled AppointmentStatus = "ANNULE"
	StatusCompleted AppointmentStatus = "TERMINE"
	StatusNoShow    AppointmentStatus = "ABSENT"
)

// DefaultDuration applies when a booking omits its end time.
const DefaultDuration = time.Hour

type Appointment struct {
	ID        int64
	PatientID int64
	DoctorID  int64
	Start     time.Time
	End       time.Time
	Status    AppointmentStatus
	Reason    *string
	Notes     *string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Overlaps reports whether a and b are appointments of the same doctor whose
// half-open intervals [Start, End) share at least one instant. Appointments
// of different doctors never overlap, and a missing side never overlaps.
func (a *Appointment) Overlaps(b *Appointment) bool {
	if a == nil || b == nil || a.DoctorID != b.DoctorID {
		return false
	}
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Active is true for the statuses that occupy the doctor's agenda.
func (s AppointmentStatus) Active() bool {
	return s == StatusConfirmed || s == StatusPending
}

type DayOfWeek struct {
	ID        int64
	Name      string
	Ordinal   int // 1=Lundi .. 7=Dimanche
	Workday   bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// HourOfDay is a time-of-day slot. Time is the canonical "HH:MM" form, which
// also orders slots correctly when compared as strings.
type HourOfDay struct {
	ID        int64
	Time      string
	Label     string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// EnsureLabel derives the display label from the time when none was given.
func (h *HourOfDay) EnsureLabel() {
	if h.Label == "" {
		h.Label = h.Time
	}
}

// Availability is a recurring weekly window during which a doctor accepts
// appointments, e.g. "every Lundi from 09:00 to 12:00".
type Availability struct {
	ID        int64
	DoctorID  int64
	Day       DayOfWeek
	StartHour HourOfDay
	EndHour   HourOfDay
	Active    bool
	Note      *string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Overlaps reports whether two windows of the same doctor on the same day
// share time, with the same half-open semantics as appointments.
func (a *Availability) Overlaps(b *Availability) bool {
	if a == nil || b == nil || a.DoctorID != b.DoctorID || a.Day.ID != b.Day.ID {
		return false
	}
	return a.StartHour.Time < b.EndHour.Time && b.StartHour.Time < a.EndHour.Time
}

// PatientRef and DoctorRef are the slim projections hydrated onto an
// appointment detail.
type PatientRef struct {
	ID        int64
	LastName  string
	FirstName string
}

type DoctorRef struct {
	ID        int64
	LastName  string
	FirstName string
}

type AppointmentDetail struct {
	Appointment
	Patient PatientRef
	Doctor  DoctorRef
}
