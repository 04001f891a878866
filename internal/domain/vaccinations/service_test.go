package vaccinations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"pet-care-records/internal/platform/logger"
	"pet-care-records/internal/ports/changes"
	"pet-care-records/internal/ports/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	byID map[string]Vaccination

	lastFrom, lastTo string
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]Vaccination{}} }

func (r *testRepo) Create(ctx context.Context, v Vaccination) error { r.byID[v.ID] = v; return nil }

func (r *testRepo) Update(ctx context.Context, v Vaccination) error {
	if _, ok := r.byID[v.ID]; !ok {
		return storage.ErrNotFound
	}
	r.byID[v.ID] = v
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Vaccination, error) {
	v, ok := r.byID[id]
	if !ok {
		return Vaccination{}, storage.ErrNotFound
	}
	return v, nil
}

func (r *testRepo) ListByPet(ctx context.Context, petID string) ([]Vaccination, error) {
	return r.ListByPets(ctx, []string{petID})
}

func (r *testRepo) ListByPets(ctx context.Context, petIDs []string) ([]Vaccination, error) {
	out := []Vaccination{}
	for _, v := range r.byID {
		for _, id := range petIDs {
			if v.PetID == id {
				out = append(out, v)
			}
		}
	}
	return out, nil
}

func (r *testRepo) ListExpiring(ctx context.Context, from, to string) ([]Vaccination, error) {
	r.lastFrom, r.lastTo = from, to
	out := []Vaccination{}
	for _, v := range r.byID {
		if v.ExpirationDate != "" && v.ExpirationDate >= from && v.ExpirationDate <= to {
			out = append(out, v)
		}
	}
	return out, nil
}

type recorder struct{ ops []changes.Op }

func (r *recorder) Publish(ctx context.Context, ev changes.ChangeEvent) error {
	r.ops = append(r.ops, ev.Op)
	return nil
}

func TestService_CreateValidation(t *testing.T) {
	svc := NewService(newTestRepo(), nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "p1", "u1", CreateInput{AdministeredOn: "2025-01-01"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, "p1", "u1", CreateInput{VaccineName: "Rabies"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, "p1", "u1", CreateInput{VaccineName: "Rabies", AdministeredOn: "2025-01-01", ExpirationDate: "2024-01-01"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	v, err := svc.Create(ctx, "p1", "u1", CreateInput{VaccineName: " Rabies ", AdministeredOn: "2025-01-01", ExpirationDate: "2028-01-01"})
	require.NoError(t, err)
	assert.Equal(t, "Rabies", v.VaccineName)
	assert.Equal(t, "Rabies", v.ToCalendar("Buddy").VaccineName)
	assert.Equal(t, "Buddy", v.ToCalendar("Buddy").PetName)
}

func TestService_ListExpiringWindow(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 8, 0, 0, 0, time.Local) }
	ctx := context.Background()

	for _, exp := range []string{"2025-02-28", "2025-03-01", "2025-03-31", "2025-04-01"} {
		_, err := svc.Create(ctx, "p1", "u1", CreateInput{VaccineName: "V" + exp, AdministeredOn: "2024-01-01", ExpirationDate: exp})
		require.NoError(t, err)
	}

	items, err := svc.ListExpiring(ctx, 30)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "2025-03-01", repo.lastFrom)
	assert.Equal(t, "2025-03-31", repo.lastTo)

	_, err = svc.ListExpiring(ctx, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_UpdateDeletePublish(t *testing.T) {
	rec := &recorder{}
	svc := NewService(newTestRepo(), rec, nil)
	ctx := context.Background()

	v, err := svc.Create(ctx, "p1", "u1", CreateInput{VaccineName: "Lepto", AdministeredOn: "2025-01-01"})
	require.NoError(t, err)

	exp := "2026-01-01"
	v, err = svc.Update(ctx, "p1", v.ID, UpdateInput{ExpirationDate: &exp})
	require.NoError(t, err)
	assert.Equal(t, exp, v.ExpirationDate)

	_, err = svc.Update(ctx, "p2", v.ID, UpdateInput{ExpirationDate: &exp})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, "p1", v.ID))
	assert.Equal(t, []changes.Op{changes.OpInsert, changes.OpUpdate, changes.OpDelete}, rec.ops)
}

type failingPublisher struct{}

func (failingPublisher) Publish(ctx context.Context, ev changes.ChangeEvent) error {
	return errors.New("nats: connection closed")
}

func TestService_PublishFailureIsLoggedNotReturned(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Info, Format: logger.FormatJSON, Output: &buf})
	svc := NewService(newTestRepo(), failingPublisher{}, log)

	v, err := svc.Create(context.Background(), "p1", "u1", CreateInput{VaccineName: "Rabies", AdministeredOn: "2025-01-01"})
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "change publish failed", entry["msg"])
	assert.Equal(t, v.ID, entry["vaccination_id"])
	assert.Equal(t, "p1", entry["pet_id"])
}
