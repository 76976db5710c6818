package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.Start,
		&a.End,
		&a.Status,
		&a.Reason,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return &a, nil
}

func scanDay(row pgx.Row) (*DayOfWeek, error) {
	var d DayOfWeek

	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Ordinal,
		&d.Workday,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}

	return &d, nil
}

func scanHour(row pgx.Row) (*HourOfDay, error) {
	var h HourOfDay
	var label *string

	err := row.Scan(
		&h.ID,
		&h.Time,
		&label,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHourNotFound
		}
		return nil, err
	}

	if label != nil {
		h.Label = *label
	}
	h.EnsureLabel()
	return &h, nil
}

func scanAvailability(row pgx.Row) (*Availability, error) {
	var av Availability
	var startLabel, endLabel *string

	err := row.Scan(
		&av.ID,
		&av.DoctorID,
		&av.Active,
		&av.Note,
		&av.CreatedAt,
		&av.UpdatedAt,
		&av.Day.ID,
		&av.Day.Name,
		&av.Day.Ordinal,
		&av.Day.Workday,
		&av.StartHour.ID,
		&av.StartHour.Time,
		&startLabel,
		&av.EndHour.ID,
		&av.EndHour.Time,
		&endLabel,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAvailabilityNotFound
		}
		return nil, err
	}

	if startLabel != nil {
		av.StartHour.Label = *startLabel
	}
	if endLabel != nil {
		av.EndHour.Label = *endLabel
	}
	av.StartHour.EnsureLabel()
	av.EndHour.EnsureLabel()
	return &av, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

const availabilityQuery = `
	SELECT a.id, a.medecin_id, a.actif, a.note, a.created_at, a.updated_at,
	       j.id, j.nom, j.numero_jour, j.ouvrable,
	       hd.id, to_char(hd.heure, 'HH24:MI'), hd.libelle,
	       hf.id, to_char(hf.heure, 'HH24:MI'), hf.libelle
	FROM disponibilites_medecin a
	JOIN jours_semaine j ON j.id = a.jour_semaine_id
	JOIN heures_jour hd ON hd.id = a.heure_debut_id
	JOIN heures_jour hf ON hf.id = a.heure_fin_id`

// Interface methods

func (r *PgRepository) PatientExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check patient exists: %w", err)
	}
	return exists, nil
}

func (r *PgRepository) DoctorExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM medecins WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check doctor exists: %w", err)
	}
	return exists, nil
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id int64) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, patient_id, medecin_id, date_heure_debut, date_heure_fin,
		       statut, motif, notes, created_at, updated_at
		FROM rendez_vous
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) GetAppointmentDetail(ctx context.Context, id int64) (*AppointmentDetail, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT rv.id, rv.patient_id, rv.medecin_id, rv.date_heure_debut, rv.date_heure_fin,
		       rv.statut, rv.motif, rv.notes, rv.created_at, rv.updated_at,
		       p.nom, p.prenom,
		       m.nom, m.prenom
		FROM rendez_vous rv
		JOIN patients p ON p.id = rv.patient_id
		JOIN medecins m ON m.id = rv.medecin_id
		WHERE rv.id = $1
	`, id)

	var d AppointmentDetail
	err := row.Scan(
		&d.ID,
		&d.PatientID,
		&d.DoctorID,
		&d.Start,
		&d.End,
		&d.Status,
		&d.Reason,
		&d.Notes,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.Patient.LastName,
		&d.Patient.FirstName,
		&d.Doctor.LastName,
		&d.Doctor.FirstName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	d.Patient.ID = d.PatientID
	d.Doctor.ID = d.DoctorID
	return &d, nil
}

func (r *PgRepository) ListActiveOverlapping(ctx context.Context, doctorID int64, from, to time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, medecin_id, date_heure_debut, date_heure_fin,
		       statut, motif, notes, created_at, updated_at
		FROM rendez_vous
		WHERE medecin_id = $1
		  AND statut IN ('CONFIRME', 'EN_ATTENTE')
		  AND date_heure_debut < $3
		  AND date_heure_fin > $2
	`, doctorID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *PgRepository) ListDoctorAppointments(ctx context.Context, doctorID int64, from, to time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, medecin_id, date_heure_debut, date_heure_fin,
		       statut, motif, notes, created_at, updated_at
		FROM rendez_vous
		WHERE medecin_id = $1
		  AND date_heure_debut >= $2
		  AND date_heure_debut < $3
		ORDER BY date_heure_debut ASC
	`, doctorID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) CreateAppointment(ctx context.Context, appt *Appointment) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO rendez_vous
			(patient_id, medecin_id, date_heure_debut, date_heure_fin, statut, motif, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, patient_id, medecin_id, date_heure_debut, date_heure_fin,
		          statut, motif, notes, created_at, updated_at
	`, appt.PatientID, appt.DoctorID, appt.Start, appt.End, appt.Status,
		appt.Reason, appt.Notes, appt.CreatedAt, appt.UpdatedAt)

	created, err := scanAppointment(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateStart
		}
		return nil, err
	}

	return created, nil
}

func (r *PgRepository) UpdateAppointmentStatus(ctx context.Context, id int64, to AppointmentStatus, updatedAt time.Time, from ...AppointmentStatus) (*Appointment, error) {
	states := make([]string, 0, len(from))
	for _, s := range from {
		states = append(states, string(s))
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE rendez_vous
		SET statut = $2,
		    updated_at = $3
		WHERE id = $1
		  AND statut = ANY($4)
		RETURNING id, patient_id, medecin_id, date_heure_debut, date_heure_fin,
		          statut, motif, notes, created_at, updated_at
	`, id, to, updatedAt, states)

	return scanAppointment(row)
}

func (r *PgRepository) CompletePastConfirmed(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE rendez_vous
		SET statut = $1,
		    updated_at = $2
		WHERE statut = $3
		  AND date_heure_fin < $2
	`, StatusCompleted, now, StatusConfirmed)
	if err != nil {
		return 0, fmt.Errorf("complete past appointments: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *PgRepository) GetDayByID(ctx context.Context, id int64) (*DayOfWeek, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, nom, numero_jour, ouvrable, created_at, updated_at
		FROM jours_semaine
		WHERE id = $1
	`, id)
	return scanDay(row)
}

func (r *PgRepository) GetHourByID(ctx context.Context, id int64) (*HourOfDay, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, to_char(heure, 'HH24:MI'), libelle, created_at, updated_at
		FROM heures_jour
		WHERE id = $1
	`, id)
	return scanHour(row)
}

func (r *PgRepository) ListDays(ctx context.Context) ([]DayOfWeek, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, nom, numero_jour, ouvrable, created_at, updated_at
		FROM jours_semaine
		ORDER BY numero_jour ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DayOfWeek
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) ListHours(ctx context.Context) ([]HourOfDay, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, to_char(heure, 'HH24:MI'), libelle, created_at, updated_at
		FROM heures_jour
		ORDER BY heure ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []HourOfDay
	for rows.Next() {
		h, err := scanHour(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *h)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) ListActiveAvailabilities(ctx context.Context, doctorID int64) ([]Availability, error) {
	rows, err := r.pool.Query(ctx, availabilityQuery+`
		WHERE a.medecin_id = $1 AND a.actif
		ORDER BY j.numero_jour ASC, hd.heure ASC
	`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAvailabilities(rows)
}

func (r *PgRepository) ListDayAvailabilities(ctx context.Context, doctorID, dayID int64) ([]Availability, error) {
	rows, err := r.pool.Query(ctx, availabilityQuery+`
		WHERE a.medecin_id = $1 AND a.jour_semaine_id = $2 AND a.actif
		ORDER BY hd.heure ASC
	`, doctorID, dayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAvailabilities(rows)
}

func collectAvailabilities(rows pgx.Rows) ([]Availability, error) {
	var result []Availability
	for rows.Next() {
		av, err := scanAvailability(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *av)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) CreateAvailability(ctx context.Context, av *Availability) (*Availability, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO disponibilites_medecin
			(medecin_id, jour_semaine_id, heure_debut_id, heure_fin_id, actif, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, av.DoctorID, av.Day.ID, av.StartHour.ID, av.EndHour.ID, av.Active,
		av.Note, av.CreatedAt, av.UpdatedAt).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateWindow
		}
		return nil, err
	}

	created := *av
	created.ID = id
	return &created, nil
}

func (r *PgRepository) DeactivateAvailability(ctx context.Context, id int64, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE disponibilites_medecin
		SET actif = FALSE,
		    updated_at = $2
		WHERE id = $1
	`, id, updatedAt)
	if err != nil {
		return fmt.Errorf("deactivate availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAvailabilityNotFound
	}

	return nil
}
