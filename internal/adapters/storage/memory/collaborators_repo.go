package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-care-records/internal/domain/collaborators"
	"pet-care-records/internal/ports/storage"
)

type collaboratorRepo struct {
	mu   sync.RWMutex
	byID map[string]collaborators.Collaborator
}

func NewCollaboratorRepo() collaborators.Repository {
	return &collaboratorRepo{
		byID: make(map[string]collaborators.Collaborator),
	}
}

func (r *collaboratorRepo) Create(ctx context.Context, c collaborators.Collaborator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("collaborator id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("collaborator already exists")
	}
	r.byID[c.ID] = c
	return nil
}

func (r *collaboratorRepo) Update(ctx context.Context, c collaborators.Collaborator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[c.ID]; !exists {
		return storage.ErrNotFound
	}
	r.byID[c.ID] = c
	return nil
}

func (r *collaboratorRepo) GetByID(ctx context.Context, id string) (collaborators.Collaborator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return collaborators.Collaborator{}, storage.ErrNotFound
	}
	return c, nil
}

func (r *collaboratorRepo) ListByPet(ctx context.Context, petID string) ([]collaborators.Collaborator, error) {
	return r.list(func(c collaborators.Collaborator) bool { return c.PetID == petID }), nil
}

func (r *collaboratorRepo) ListByUser(ctx context.Context, userID string) ([]collaborators.Collaborator, error) {
	return r.list(func(c collaborators.Collaborator) bool { return c.UserID == userID }), nil
}

// Si por data sucia hubiera varios activos, gana el más reciente por UpdatedAt.
func (r *collaboratorRepo) GetActive(ctx context.Context, petID, userID string) (collaborators.Collaborator, error) {
	items := r.list(func(c collaborators.Collaborator) bool {
		return c.PetID == petID && c.UserID == userID && c.Status == collaborators.StatusActive
	})
	if len(items) == 0 {
		return collaborators.Collaborator{}, storage.ErrNotFound
	}

	winner := items[0]
	for _, c := range items[1:] {
		if c.UpdatedAt.After(winner.UpdatedAt) {
			winner = c
		}
	}
	return winner, nil
}

func (r *collaboratorRepo) list(match func(collaborators.Collaborator) bool) []collaborators.Collaborator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]collaborators.Collaborator, 0)
	for _, c := range r.byID {
		if match(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
