package auth

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrInvalidCredentials keeps the exact wording the frontend displays.
var ErrInvalidCredentials = errors.New("email ou mot de passe incorrect")

type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Login authenticates a patient by the exact (email, phone) pair. The phone
// number acts as the plaintext password; that is the historical contract of
// this API and is preserved as-is.
func (s *Service) Login(ctx context.Context, email, phone string) (*Identity, error) {
	s.logger.Info("login attempt", zap.String("email", email))

	patient, err := s.repo.GetPatientByEmailAndPhone(ctx, email, phone)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			s.logger.Warn("login failed", zap.String("email", email))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}

	s.logger.Info("login succeeded",
		zap.Int64("patient_id", patient.ID),
		zap.String("email", email),
	)

	return &Identity{
		ID:     patient.ID,
		Nom:    patient.LastName,
		Prenom: patient.FirstName,
		Email:  patient.Email,
		Role:   RolePatient,
	}, nil
}
