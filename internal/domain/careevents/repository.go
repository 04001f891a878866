package careevents

import "context"

type Repository interface {
	Create(ctx context.Context, e CareEvent) error
	Update(ctx context.Context, e CareEvent) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (CareEvent, error)
	ListByPet(ctx context.Context, petID string) ([]CareEvent, error)
	// ListByPets ordena por fecha y luego por creación.
	ListByPets(ctx context.Context, petIDs []string) ([]CareEvent, error)
}
