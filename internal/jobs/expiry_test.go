package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-records/internal/domain/vaccinations"
	"pet-care-records/internal/ports/changes"
)

type fakeSource struct {
	days  int
	items []vaccinations.Vaccination
	err   error
}

func (f *fakeSource) ListExpiring(ctx context.Context, days int) ([]vaccinations.Vaccination, error) {
	f.days = days
	return f.items, f.err
}

type recorder struct {
	mu     sync.Mutex
	events []changes.ChangeEvent
	failOn string
}

func (r *recorder) Publish(ctx context.Context, ev changes.ChangeEvent) error {
	if ev.ID == r.failOn {
		return errors.New("broker down")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func TestExpiryReminder_PublishesPerVaccination(t *testing.T) {
	src := &fakeSource{items: []vaccinations.Vaccination{
		{ID: "v1", PetID: "p1", VaccineName: "Rabies", ExpirationDate: "2025-03-05"},
		{ID: "v2", PetID: "p2", VaccineName: "Lepto", ExpirationDate: "2025-03-07"},
	}}
	rec := &recorder{}
	job := NewExpiryReminder(src, rec, nil, 10)
	job.now = func() time.Time { return time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC) }

	n, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 10, src.days)

	require.Len(t, rec.events, 2)
	assert.Equal(t, changes.OpExpiring, rec.events[0].Op)
	assert.Equal(t, changes.EntityVaccination, rec.events[0].Entity)
	assert.Equal(t, "p2", rec.events[1].PetID)
}

func TestExpiryReminder_PartialPublishFailure(t *testing.T) {
	src := &fakeSource{items: []vaccinations.Vaccination{{ID: "v1", PetID: "p1"}, {ID: "v2", PetID: "p1"}}}
	rec := &recorder{failOn: "v1"}

	n, err := NewExpiryReminder(src, rec, nil, 7).Run(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, rec.events, 1)
	assert.Equal(t, "v2", rec.events[0].ID)
}

func TestExpiryReminder_SourceError(t *testing.T) {
	boom := errors.New("db down")
	_, err := NewExpiryReminder(&fakeSource{err: boom}, &recorder{}, nil, 7).Run(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestSchedule_RejectsBadSpec(t *testing.T) {
	_, err := Schedule("every morning", NewExpiryReminder(&fakeSource{}, nil, nil, 7))
	assert.Error(t, err)

	c, err := Schedule("0 8 * * *", NewExpiryReminder(&fakeSource{}, nil, nil, 7))
	require.NoError(t, err)
	<-c.Stop().Done()
}
