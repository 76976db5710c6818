package directory

// Wire representations keep the French field names the frontend consumes.

type SpecialtyDTO struct {
	ID          int64   `json:"id"`
	Nom         string  `json:"nom"`
	Description *string `json:"description"`
}

type DoctorDTO struct {
	ID          int64        `json:"id"`
	Nom         string       `json:"nom"`
	Prenom      string       `json:"prenom"`
	Email       *string      `json:"email"`
	Telephone   *string      `json:"telephone"`
	NumeroOrdre *string      `json:"numeroOrdre"`
	Specialite  SpecialtyDTO `json:"specialite"`
}

func toSpecialtyDTO(s Specialty) SpecialtyDTO {
	return SpecialtyDTO{
		ID:          s.ID,
		Nom:         s.Name,
		Description: s.Description,
	}
}

func toDoctorDTO(d Doctor) DoctorDTO {
	return DoctorDTO{
		ID:          d.ID,
		Nom:         d.LastName,
		Prenom:      d.FirstName,
		Email:       d.Email,
		Telephone:   d.Phone,
		NumeroOrdre: d.LicenseNumber,
		Specialite:  toSpecialtyDTO(d.Specialty),
	}
}
