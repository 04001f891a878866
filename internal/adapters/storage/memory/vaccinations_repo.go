package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-care-records/internal/domain/vaccinations"
	"pet-care-records/internal/ports/storage"
)

type vaccinationRepo struct {
	mu   sync.RWMutex
	byID map[string]vaccinations.Vaccination
}

func NewVaccinationRepo() vaccinations.Repository {
	return &vaccinationRepo{
		byID: make(map[string]vaccinations.Vaccination),
	}
}

func (r *vaccinationRepo) Create(ctx context.Context, v vaccinations.Vaccination) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(v.ID) == "" {
		return errors.New("vaccination id required")
	}
	if _, exists := r.byID[v.ID]; exists {
		return errors.New("vaccination already exists")
	}
	r.byID[v.ID] = v
	return nil
}

func (r *vaccinationRepo) Update(ctx context.Context, v vaccinations.Vaccination) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[v.ID]; !exists {
		return storage.ErrNotFound
	}
	r.byID[v.ID] = v
	return nil
}

func (r *vaccinationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return storage.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *vaccinationRepo) GetByID(ctx context.Context, id string) (vaccinations.Vaccination, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byID[id]
	if !ok {
		return vaccinations.Vaccination{}, storage.ErrNotFound
	}
	return v, nil
}

func (r *vaccinationRepo) ListByPet(ctx context.Context, petID string) ([]vaccinations.Vaccination, error) {
	return r.ListByPets(ctx, []string{petID})
}

func (r *vaccinationRepo) ListByPets(ctx context.Context, petIDs []string) ([]vaccinations.Vaccination, error) {
	want := toSet(petIDs)
	return r.list(func(v vaccinations.Vaccination) bool {
		_, ok := want[v.PetID]
		return ok
	}), nil
}

func (r *vaccinationRepo) ListExpiring(ctx context.Context, from, to string) ([]vaccinations.Vaccination, error) {
	// fechas YYYY-MM-DD: la comparación de strings respeta el orden cronológico
	return r.list(func(v vaccinations.Vaccination) bool {
		return v.ExpirationDate != "" && v.ExpirationDate >= from && v.ExpirationDate <= to
	}), nil
}

func (r *vaccinationRepo) list(match func(vaccinations.Vaccination) bool) []vaccinations.Vaccination {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]vaccinations.Vaccination, 0)
	for _, v := range r.byID {
		if match(v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ExpirationDate != out[j].ExpirationDate {
			return out[i].ExpirationDate < out[j].ExpirationDate
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
