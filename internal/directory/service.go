package directory

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/HadiaEL/CABINET-MEDICAL/internal/pagination"
)

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

// ListDoctors returns one page of doctors with their specialty, sorted by the
// requested field. Pagination parameters are validated here, before any store
// access; an unknown sort field is not an error, it falls back to the last
// name with a logged warning.
func (s *Service) ListDoctors(ctx context.Context, req pagination.PageRequest) (pagination.Page[DoctorDTO], error) {
	if err := req.Validate(); err != nil {
		return pagination.Page[DoctorDTO]{}, err
	}

	sortBy := s.resolveSortField(req.SortBy)

	doctors, total, err := s.repo.ListDoctors(ctx, sortBy, req.Descending(), req.Size, req.Offset())
	if err != nil {
		return pagination.Page[DoctorDTO]{}, fmt.Errorf("list doctors: %w", err)
	}

	dtos := make([]DoctorDTO, 0, len(doctors))
	for _, d := range doctors {
		dtos = append(dtos, toDoctorDTO(d))
	}

	page := pagination.NewPage(dtos, req, total)

	s.logger.Debug("doctors listed",
		zap.Int64("total", page.TotalElements),
		zap.Int("page", page.PageNumber),
		zap.Int("total_pages", page.TotalPages),
	)

	return page, nil
}

func (s *Service) resolveSortField(sortBy string) SortField {
	switch SortField(strings.ToLower(sortBy)) {
	case SortLastName, SortFirstName, SortLicenseNumber, SortEmail, SortPhone, SortSpecialty:
		return SortField(strings.ToLower(sortBy))
	default:
		s.logger.Warn("unknown sort field, falling back to nom", zap.String("sort_by", sortBy))
		return SortLastName
	}
}

// ListSpecialties returns every specialty ordered by name ascending.
func (s *Service) ListSpecialties(ctx context.Context) ([]SpecialtyDTO, error) {
	specialties, err := s.repo.ListSpecialties(ctx)
	if err != nil {
		return nil, fmt.Errorf("list specialties: %w", err)
	}

	dtos := make([]SpecialtyDTO, 0, len(specialties))
	for _, sp := range specialties {
		dtos = append(dtos, toSpecialtyDTO(sp))
	}

	return dtos, nil
}
