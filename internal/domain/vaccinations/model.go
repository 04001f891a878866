package vaccinations

import (
	"time"

	"pet-care-records/internal/calendar"
)

// Vaccination es una dosis aplicada. ExpirationDate alimenta los recordatorios
// del calendario; sin fecha de vencimiento no aparece en el feed.
type Vaccination struct {
	ID    string
	PetID string

	VaccineName    string
	AdministeredOn string // YYYY-MM-DD
	ExpirationDate string // YYYY-MM-DD, opcional
	Veterinarian   string
	Notes          string

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (v Vaccination) ToCalendar(petName string) calendar.VaccinationExpiry {
	return calendar.VaccinationExpiry{
		ID:             v.ID,
		PetID:          v.PetID,
		PetName:        petName,
		VaccineName:    v.VaccineName,
		ExpirationDate: v.ExpirationDate,
		Notes:          v.Notes,
	}
}
