package feeds

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, f Feed) error
	Update(ctx context.Context, f Feed) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Feed, error)
	GetByToken(ctx context.Context, token string) (Feed, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Feed, error)
	TouchAccessed(ctx context.Context, id string, at time.Time) error
}
