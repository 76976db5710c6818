package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/HadiaEL/CABINET-MEDICAL/internal/apperr"
	redisclient "github.com/HadiaEL/CABINET-MEDICAL/internal/redis"
)

var (
	ErrAppointmentOverlap = errors.New("appointment overlaps an existing appointment for this doctor")

	// ErrAgendaBusy means another booking for the same doctor holds the lock.
	ErrAgendaBusy = errors.New("doctor agenda is currently being booked, please retry")

	ErrInvalidStatusTransition = errors.New("invalid status transition")

	ErrAvailabilityOverlap = errors.New("availability window overlaps an existing window for this doctor and day")
)

type Service struct {
	repo   Repository
	locker redisclient.Locker
	logger *zap.Logger
}

func NewService(repo Repository, locker redisclient.Locker, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
		logger: logger,
	}
}

type BookingRequest struct {
	PatientID int64
	DoctorID  int64
	Start     time.Time
	End       time.Time // zero value means Start + DefaultDuration
	Reason    *string
}

// Book creates a confirmed appointment. The uniqueness constraint in the
// database only blocks two appointments starting at the exact same instant,
// so the partial-overlap check runs here, and it runs under a per-doctor lock
// so that two concurrent bookings with overlapping windows cannot both pass.
func (s *Service) Book(ctx context.Context, req BookingRequest) (*Appointment, error) {
	if req.Start.IsZero() {
		return nil, apperr.Invalidf("start time is required")
	}
	if req.End.IsZero() {
		req.End = req.Start.Add(DefaultDuration)
	}
	if !req.End.After(req.Start) {
		return nil, apperr.Invalidf("end time must be after start time")
	}

	ok, err := s.repo.PatientExists(ctx, req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("check patient: %w", err)
	}
	if !ok {
		return nil, ErrPatientNotFound
	}

	ok, err = s.repo.DoctorExists(ctx, req.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("check doctor: %w", err)
	}
	if !ok {
		return nil, ErrDoctorNotFound
	}

	now := time.Now()
	candidate := &Appointment{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Start:     req.Start,
		End:       req.End,
		Status:    StatusConfirmed,
		Reason:    req.Reason,
		CreatedAt: now,
		UpdatedAt: &now,
	}

	var created *Appointment

	err = s.locker.WithAgendaLock(ctx, req.DoctorID, func(lockCtx context.Context) error {
		existing, err := s.repo.ListActiveOverlapping(lockCtx, req.DoctorID, req.Start, req.End)
		if err != nil {
			return fmt.Errorf("check overlapping appointments: %w", err)
		}
		for i := range existing {
			if candidate.Overlaps(&existing[i]) {
				return ErrAppointmentOverlap
			}
		}

		appt, err := s.repo.CreateAppointment(lockCtx, candidate)
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}

		created = appt
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrAgendaBusy
		}
		return nil, err
	}

	s.logger.Info("appointment booked",
		zap.Int64("appointment_id", created.ID),
		zap.Int64("doctor_id", created.DoctorID),
		zap.Int64("patient_id", created.PatientID),
		zap.Time("start", created.Start),
	)

	return created, nil
}

// Cancel moves a confirmed or pending appointment to ANNULE.
func (s *Service) Cancel(ctx context.Context, id int64) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	if !appt.Status.Active() {
		return nil, ErrInvalidStatusTransition
	}

	updated, err := s.repo.UpdateAppointmentStatus(ctx, appt.ID, StatusCancelled, time.Now(), StatusConfirmed, StatusPending)
	if err != nil {
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}

	s.logger.Info("appointment cancelled", zap.Int64("appointment_id", updated.ID))
	return updated, nil
}

// CompletePastAppointments marks confirmed appointments whose end time has
// passed as TERMINE. The completion worker calls it on a ticker.
func (s *Service) CompletePastAppointments(ctx context.Context, now time.Time) (int64, error) {
	count, err := s.repo.CompletePastConfirmed(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("complete past appointments: %w", err)
	}

	if count > 0 {
		s.logger.Info("appointments completed", zap.Int64("count", count))
	}
	return count, nil
}

// GetAppointment retrieves a fully hydrated appointment by ID
func (s *Service) GetAppointment(ctx context.Context, id int64) (*AppointmentDetail, error) {
	detail, err := s.repo.GetAppointmentDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return detail, nil
}

// ListDoctorAgenda returns the doctor's appointments starting in [from, to),
// ordered by start time.
func (s *Service) ListDoctorAgenda(ctx context.Context, doctorID int64, from, to time.Time) ([]Appointment, error) {
	if !to.After(from) {
		return nil, apperr.Invalidf("agenda window end must be after its start")
	}

	appts, err := s.repo.ListDoctorAppointments(ctx, doctorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list doctor appointments: %w", err)
	}
	return appts, nil
}

type AvailabilityRequest struct {
	DoctorID    int64
	DayID       int64
	StartHourID int64
	EndHourID   int64
	Note        *string
}

// AddAvailability creates a recurring weekly window. The start hour must come
// before the end hour, and the window must not overlap any active window of
// the same doctor on the same day; the database uniqueness on
// (doctor, day, start hour) alone would let overlapping windows through.
func (s *Service) AddAvailability(ctx context.Context, req AvailabilityRequest) (*Availability, error) {
	ok, err := s.repo.DoctorExists(ctx, req.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("check doctor: %w", err)
	}
	if !ok {
		return nil, ErrDoctorNotFound
	}

	day, err := s.repo.GetDayByID(ctx, req.DayID)
	if err != nil {
		return nil, fmt.Errorf("load day: %w", err)
	}

	startHour, err := s.repo.GetHourByID(ctx, req.StartHourID)
	if err != nil {
		return nil, fmt.Errorf("load start hour: %w", err)
	}

	endHour, err := s.repo.GetHourByID(ctx, req.EndHourID)
	if err != nil {
		return nil, fmt.Errorf("load end hour: %w", err)
	}

	if startHour.Time >= endHour.Time {
		return nil, apperr.Invalidf("availability start hour must be before end hour")
	}

	now := time.Now()
	candidate := &Availability{
		DoctorID:  req.DoctorID,
		Day:       *day,
		StartHour: *startHour,
		EndHour:   *endHour,
		Active:    true,
		Note:      req.Note,
		CreatedAt: now,
		UpdatedAt: &now,
	}

	existing, err := s.repo.ListDayAvailabilities(ctx, req.DoctorID, req.DayID)
	if err != nil {
		return nil, fmt.Errorf("check existing windows: %w", err)
	}
	for i := range existing {
		if candidate.Overlaps(&existing[i]) {
			return nil, ErrAvailabilityOverlap
		}
	}

	created, err := s.repo.CreateAvailability(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("create availability: %w", err)
	}

	s.logger.Info("availability added",
		zap.Int64("availability_id", created.ID),
		zap.Int64("doctor_id", created.DoctorID),
		zap.String("day", created.Day.Name),
		zap.String("start", created.StartHour.Time),
		zap.String("end", created.EndHour.Time),
	)

	return created, nil
}

// ListDoctorAvailabilities returns the doctor's active windows ordered by day
// then start hour.
func (s *Service) ListDoctorAvailabilities(ctx context.Context, doctorID int64) ([]Availability, error) {
	ok, err := s.repo.DoctorExists(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("check doctor: %w", err)
	}
	if !ok {
		return nil, ErrDoctorNotFound
	}

	avs, err := s.repo.ListActiveAvailabilities(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list availabilities: %w", err)
	}
	return avs, nil
}

// DeactivateAvailability retires a window without deleting its history.
func (s *Service) DeactivateAvailability(ctx context.Context, id int64) error {
	if err := s.repo.DeactivateAvailability(ctx, id, time.Now()); err != nil {
		return err
	}

	s.logger.Info("availability deactivated", zap.Int64("availability_id", id))
	return nil
}

func (s *Service) ListDays(ctx context.Context) ([]DayOfWeek, error) {
	days, err := s.repo.ListDays(ctx)
	if err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}
	return days, nil
}

func (s *Service) ListHours(ctx context.Context) ([]HourOfDay, error) {
	hours, err := s.repo.ListHours(ctx)
	if err != nil {
		return nil, fmt.Errorf("list hours: %w", err)
	}
	return hours, nil
}
