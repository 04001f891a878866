package collaborators

import "context"

type Repository interface {
	Create(ctx context.Context, c Collaborator) error
	Update(ctx context.Context, c Collaborator) error
	GetByID(ctx context.Context, id string) (Collaborator, error)
	ListByPet(ctx context.Context, petID string) ([]Collaborator, error)
	ListByUser(ctx context.Context, userID string) ([]Collaborator, error)
	GetActive(ctx context.Context, petID, userID string) (Collaborator, error)
}
