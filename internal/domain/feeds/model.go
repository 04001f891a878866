package feeds

import "time"

// Feed es un token de suscripción a un calendario. El token es el único
// secreto: quien lo tiene puede leer el feed sin autenticarse.
type Feed struct {
	ID          string
	OwnerUserID string
	Token       string

	Name  string // opcional; default del calendario si está vacío
	PetID string // opcional; "" = todas las mascotas accesibles

	Active bool

	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastAccessedAt *time.Time
}
