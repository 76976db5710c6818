package scheduling

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return ts
}

func TestAppointmentOverlaps(t *testing.T) {
	appt := func(doctorID int64, start, end string) *Appointment {
		return &Appointment{
			DoctorID: doctorID,
			Start:    mustTime(t, start),
			End:      mustTime(t, end),
		}
	}

	tests := []struct {
		name string
		a    *Appointment
		b    *Appointment
		want bool
	}{
		{
			name: "partial overlap",
			a:    appt(1, "2026-09-01T09:00:00Z", "2026-09-01T10:00:00Z"),
			b:    appt(1, "2026-09-01T09:30:00Z", "2026-09-01T10:30:00Z"),
			want: true,
		},
		{
			name: "touching boundaries do not overlap",
			a:    appt(1, "2026-09-01T09:00:00Z", "2026-09-01T10:00:00Z"),
			b:    appt(1, "2026-09-01T10:00:00Z", "2026-09-01T11:00:00Z"),
			want: false,
		},
		{
			name: "identical windows",
			a:    appt(1, "2026-09-01T09:00:00Z", "2026-09-01T10:00:00Z"),
			b:    appt(1, "2026-09-01T09:00:00Z", "2026-09-01T10:00:00Z"),
			want: true,
		},
		{
			name: "containment",
			a:    appt(1, "2026-09-01T09:00:00Z", "2026-09-01T12:00:00Z"),
			b:    appt(1, "2026-09-01T10:00:00Z", "2026-09-01T11:00:00Z"),
			want: true,
		},
		{
			name: "disjoint",
			a:    appt(1, "2026-09-01T09:00:00Z", "2026-09-01T10:00:00Z"),
			b:    appt(1, "2026-09-01T14:00:00Z", "2026-09-01T15:00:00Z"),
			want: false,
		},
		{
			name: "different doctors never overlap",
			a:    appt(1, "2026-09-01T09:00:00Z", "2026-09-01T10:00:00Z"),
			b:    appt(2, "2026-09-01T09:00:00Z", "2026-09-01T10:00:00Z"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("a.Overlaps(b) = %v, want %v", got, tt.want)
			}
			// The predicate is symmetric.
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("b.Overlaps(a) = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("nil sides", func(t *testing.T) {
		a := appt(1, "2026-09-01T09:00:00Z", "2026-09-01T10:00:00Z")
		if a.Overlaps(nil) {
			t.Error("Overlaps(nil) should be false")
		}
		var none *Appointment
		if none.Overlaps(a) {
			t.Error("nil.Overlaps(a) should be false")
		}
	})
}

func TestStatusActive(t *testing.T) {
	active := []AppointmentStatus{StatusConfirmed, StatusPending}
	inactive := []AppointmentStatus{StatusCancelled, StatusCompleted, StatusNoShow}

	for _, s := range active {
		if !s.Active() {
			t.Errorf("%s.Active() = false, want true", s)
		}
	}
	for _, s := range inactive {
		if s.Active() {
			t.Errorf("%s.Active() = true, want false", s)
		}
	}
}

func TestHourOfDayEnsureLabel(t *testing.T) {
	h := HourOfDay{Time: "09:30"}
	h.EnsureLabel()
	if h.Label != "09:30" {
		t.Errorf("Label = %q, want %q", h.Label, "09:30")
	}

	h = HourOfDay{Time: "09:30", Label: "9h30"}
	h.EnsureLabel()
	if h.Label != "9h30" {
		t.Errorf("Label = %q, want existing %q preserved", h.Label, "9h30")
	}
}

func TestAvailabilityOverlaps(t *testing.T) {
	window := func(doctorID, dayID int64, start, end string) *Availability {
		return &Availability{
			DoctorID:  doctorID,
			Day:       DayOfWeek{ID: dayID},
			StartHour: HourOfDay{Time: start},
			EndHour:   HourOfDay{Time: end},
		}
	}

	tests := []struct {
		name string
		a    *Availability
		b    *Availability
		want bool
	}{
		{
			name: "same day partial overlap",
			a:    window(1, 1, "09:00", "12:00"),
			b:    window(1, 1, "11:00", "14:00"),
			want: true,
		},
		{
			name: "same day back to back",
			a:    window(1, 1, "09:00", "12:00"),
			b:    window(1, 1, "12:00", "14:00"),
			want: false,
		},
		{
			name: "different day",
			a:    window(1, 1, "09:00", "12:00"),
			b:    window(1, 2, "09:00", "12:00"),
			want: false,
		},
		{
			name: "different doctor",
			a:    window(1, 1, "09:00", "12:00"),
			b:    window(2, 1, "09:00", "12:00"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}
