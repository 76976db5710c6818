package directory

import "time"

type Specialty struct {
	ID          int64
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

type Doctor struct {
	ID            int64
	LastName      string
	FirstName     string
	Email         *string
	Phone         *string
	LicenseNumber *string
	Specialty     Specialty
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// SortField is a doctor sort key already vetted by the service allow-list.
type SortField string

const (
	SortLastName      SortField = "nom"
	SortFirstName     SortField = "prenom"
	SortLicenseNumber SortField = "numeroordre"
	SortEmail         SortField = "email"
	SortPhone         SortField = "telephone"
	SortSpecialty     SortField = "specialite"
)
