package auth

import (
	"context"
	"errors"
)

var ErrPatientNotFound = errors.New("patient not found")

type Repository interface {
	GetPatientByEmailAndPhone(ctx context.Context, email, phone string) (*Patient, error)
}
