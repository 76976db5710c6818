package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) GetPatientByEmailAndPhone(ctx context.Context, email, phone string) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, nom, prenom, email, telephone, created_at, updated_at
		FROM patients
		WHERE email = $1 AND telephone = $2
	`, email, phone)

	var p Patient
	err := row.Scan(
		&p.ID,
		&p.LastName,
		&p.FirstName,
		&p.Email,
		&p.Phone,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	return &p, nil
}
