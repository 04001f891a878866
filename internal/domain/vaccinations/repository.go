package vaccinations

import "context"

type Repository interface {
	Create(ctx context.Context, v Vaccination) error
	Update(ctx context.Context, v Vaccination) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Vaccination, error)
	ListByPet(ctx context.Context, petID string) ([]Vaccination, error)
	ListByPets(ctx context.Context, petIDs []string) ([]Vaccination, error)
	// ListExpiring devuelve las que vencen en [from, to] (YYYY-MM-DD, inclusive).
	ListExpiring(ctx context.Context, from, to string) ([]Vaccination, error)
}
