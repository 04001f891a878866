package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-care-records/internal/domain/feeds"
	"pet-care-records/internal/ports/storage"
)

// feedRepo mantiene un índice por token porque el feed público busca por token.
type feedRepo struct {
	mu      sync.RWMutex
	byID    map[string]feeds.Feed
	byToken map[string]string
}

func NewFeedRepo() feeds.Repository {
	return &feedRepo{
		byID:    make(map[string]feeds.Feed),
		byToken: make(map[string]string),
	}
}

var errDuplicateToken = errors.New("feed token already exists")

func (r *feedRepo) Create(ctx context.Context, f feeds.Feed) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(f.ID) == "" {
		return errors.New("feed id required")
	}
	if _, exists := r.byID[f.ID]; exists {
		return errors.New("feed already exists")
	}
	if _, taken := r.byToken[f.Token]; taken {
		return errDuplicateToken
	}
	r.byID[f.ID] = f
	r.byToken[f.Token] = f.ID
	return nil
}

func (r *feedRepo) Update(ctx context.Context, f feeds.Feed) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, exists := r.byID[f.ID]
	if !exists {
		return storage.ErrNotFound
	}
	if prev.Token != f.Token {
		if _, taken := r.byToken[f.Token]; taken {
			return errDuplicateToken
		}
		delete(r.byToken, prev.Token)
		r.byToken[f.Token] = f.ID
	}
	r.byID[f.ID] = f
	return nil
}

func (r *feedRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, exists := r.byID[id]
	if !exists {
		return storage.ErrNotFound
	}
	delete(r.byToken, f.Token)
	delete(r.byID, id)
	return nil
}

func (r *feedRepo) GetByID(ctx context.Context, id string) (feeds.Feed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byID[id]
	if !ok {
		return feeds.Feed{}, storage.ErrNotFound
	}
	return f, nil
}

func (r *feedRepo) GetByToken(ctx context.Context, token string) (feeds.Feed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byToken[token]
	if !ok {
		return feeds.Feed{}, storage.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *feedRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]feeds.Feed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]feeds.Feed, 0)
	for _, f := range r.byID {
		if f.OwnerUserID == ownerUserID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *feedRepo) TouchAccessed(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.byID[id]
	if !ok {
		return storage.ErrNotFound
	}
	f.LastAccessedAt = &at
	r.byID[id] = f
	return nil
}
