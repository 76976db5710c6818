package auth

import "time"

type Patient struct {
	ID        int64
	LastName  string
	FirstName string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Identity is what a successful login returns. The role is fixed, the only
// account kind that logs in through this API is a patient.
type Identity struct {
	ID     int64  `json:"id"`
	Nom    string `json:"nom"`
	Prenom string `json:"prenom"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

const RolePatient = "PATIENT"
