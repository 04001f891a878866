package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-care-records/internal/domain/careevents"
	"pet-care-records/internal/ports/storage"
)

type careEventRepo struct {
	mu   sync.RWMutex
	byID map[string]careevents.CareEvent
}

func NewCareEventRepo() careevents.Repository {
	return &careEventRepo{
		byID: make(map[string]careevents.CareEvent),
	}
}

func (r *careEventRepo) Create(ctx context.Context, e careevents.CareEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" {
		return errors.New("care event id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("care event already exists")
	}
	r.byID[e.ID] = e
	return nil
}

func (r *careEventRepo) Update(ctx context.Context, e careevents.CareEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[e.ID]; !exists {
		return storage.ErrNotFound
	}
	r.byID[e.ID] = e
	return nil
}

func (r *careEventRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return storage.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *careEventRepo) GetByID(ctx context.Context, id string) (careevents.CareEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return careevents.CareEvent{}, storage.ErrNotFound
	}
	return e, nil
}

func (r *careEventRepo) ListByPet(ctx context.Context, petID string) ([]careevents.CareEvent, error) {
	return r.ListByPets(ctx, []string{petID})
}

func (r *careEventRepo) ListByPets(ctx context.Context, petIDs []string) ([]careevents.CareEvent, error) {
	want := toSet(petIDs)

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]careevents.CareEvent, 0)
	for _, e := range r.byID {
		if _, ok := want[e.PetID]; ok {
			out = append(out, e)
		}
	}

	// fecha efectiva (inicio de recurrencia si aplica), luego creación
	sort.Slice(out, func(i, j int) bool {
		di, dj := sortDate(out[i]), sortDate(out[j])
		if di != dj {
			return di < dj
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func sortDate(e careevents.CareEvent) string {
	if e.IsRecurring && e.Recurrence.StartDate != "" {
		return e.Recurrence.StartDate
	}
	return e.Date
}

func toSet(ids []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
