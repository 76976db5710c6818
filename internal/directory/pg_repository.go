package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const doctorColumns = `
	m.id, m.nom, m.prenom, m.email, m.telephone, m.numero_ordre,
	m.created_at, m.updated_at,
	s.id, s.nom, s.description, s.created_at, s.updated_at`

// Helpers

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor

	err := row.Scan(
		&d.ID,
		&d.LastName,
		&d.FirstName,
		&d.Email,
		&d.Phone,
		&d.LicenseNumber,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.Specialty.ID,
		&d.Specialty.Name,
		&d.Specialty.Description,
		&d.Specialty.CreatedAt,
		&d.Specialty.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	return &d, nil
}

func scanSpecialty(row pgx.Row) (*Specialty, error) {
	var s Specialty

	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSpecialtyNotFound
		}
		return nil, err
	}

	return &s, nil
}

// sortColumn maps a vetted sort field to its SQL expression. The field never
// comes from user input directly, the service resolves it against an
// allow-list first.
func sortColumn(field SortField) string {
	switch field {
	case SortFirstName:
		return "m.prenom"
	case SortLicenseNumber:
		return "m.numero_ordre"
	case SortEmail:
		return "m.email"
	case SortPhone:
		return "m.telephone"
	case SortSpecialty:
		return "s.nom"
	default:
		return "m.nom"
	}
}

// Interface methods

func (r *PgRepository) ListDoctors(ctx context.Context, sortBy SortField, descending bool, limit, offset int) ([]Doctor, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM medecins`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count doctors: %w", err)
	}

	direction := "ASC"
	if descending {
		direction = "DESC"
	}

	// Explicit join instead of a lazy per-row specialty lookup. The secondary
	// m.id key keeps pages stable when the primary sort has duplicates.
	query := fmt.Sprintf(`
		SELECT %s
		FROM medecins m
		LEFT JOIN specialites s ON s.id = m.specialite_id
		ORDER BY %s %s, m.id ASC
		LIMIT $1 OFFSET $2
	`, doctorColumns, sortColumn(sortBy), direction)

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	var result []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

func (r *PgRepository) GetDoctorByID(ctx context.Context, id int64) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s
		FROM medecins m
		LEFT JOIN specialites s ON s.id = m.specialite_id
		WHERE m.id = $1
	`, doctorColumns), id)
	return scanDoctor(row)
}

func (r *PgRepository) ListSpecialties(ctx context.Context) ([]Specialty, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, nom, description, created_at, updated_at
		FROM specialites
		ORDER BY nom ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list specialties: %w", err)
	}
	defer rows.Close()

	var result []Specialty
	for rows.Next() {
		s, err := scanSpecialty(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
