package feeds

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-records/internal/calendar"
	"pet-care-records/internal/domain/careevents"
	"pet-care-records/internal/domain/pets"
	"pet-care-records/internal/domain/vaccinations"
	"pet-care-records/internal/platform/metrics"
	"pet-care-records/internal/ports/permissions"
	"pet-care-records/internal/ports/storage"
)

// -------------------------
// Fakes
// -------------------------

type fakeRepo struct {
	byID    map[string]Feed
	touched map[string]time.Time
	lookups int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]Feed{}, touched: map[string]time.Time{}}
}

func (r *fakeRepo) Create(ctx context.Context, f Feed) error { r.byID[f.ID] = f; return nil }

func (r *fakeRepo) Update(ctx context.Context, f Feed) error {
	if _, ok := r.byID[f.ID]; !ok {
		return storage.ErrNotFound
	}
	r.byID[f.ID] = f
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (Feed, error) {
	f, ok := r.byID[id]
	if !ok {
		return Feed{}, storage.ErrNotFound
	}
	return f, nil
}

func (r *fakeRepo) GetByToken(ctx context.Context, token string) (Feed, error) {
	r.lookups++
	for _, f := range r.byID {
		if f.Token == token {
			return f, nil
		}
	}
	return Feed{}, storage.ErrNotFound
}

func (r *fakeRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Feed, error) {
	out := []Feed{}
	for _, f := range r.byID {
		if f.OwnerUserID == ownerUserID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeRepo) TouchAccessed(ctx context.Context, id string, at time.Time) error {
	r.touched[id] = at
	return nil
}

type fakePets map[string]pets.Pet

func (f fakePets) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	out := []pets.Pet{}
	for _, id := range []string{"p1", "p2", "p3"} {
		if p, ok := f[id]; ok && p.OwnerUserID == ownerUserID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f fakePets) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	p, ok := f[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

type fakeShared map[string][]string

func (f fakeShared) ActivePetIDs(ctx context.Context, userID string) ([]string, error) {
	return f[userID], nil
}

type fakeEvents []careevents.CareEvent

func (f fakeEvents) ListByPets(ctx context.Context, petIDs []string) ([]careevents.CareEvent, error) {
	out := []careevents.CareEvent{}
	for _, e := range f {
		for _, id := range petIDs {
			if e.PetID == id {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

type fakeVaxes []vaccinations.Vaccination

func (f fakeVaxes) ListByPets(ctx context.Context, petIDs []string) ([]vaccinations.Vaccination, error) {
	out := []vaccinations.Vaccination{}
	for _, v := range f {
		for _, id := range petIDs {
			if v.PetID == id {
				out = append(out, v)
			}
		}
	}
	return out, nil
}

var errAccessBackend = errors.New("access: db down")

type fakeAccess struct{}

func (fakeAccess) CanRead(ctx context.Context, petID, userID string) error {
	switch {
	case petID == "p1" && userID == "owner-1", petID == "p2" && userID == "owner-1", petID == "p3":
		return nil
	case petID == "missing":
		return permissions.ErrPetNotFound
	case petID == "unreachable":
		return errAccessBackend
	default:
		return permissions.ErrForbidden
	}
}

func (a fakeAccess) CanWrite(ctx context.Context, petID, userID string) error {
	return a.CanRead(ctx, petID, userID)
}

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local)

func newTestService(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()

	loader := &Loader{
		Pets: fakePets{
			"p1": {ID: "p1", OwnerUserID: "owner-1", Name: "Buddy"},
			"p2": {ID: "p2", OwnerUserID: "owner-1", Name: "Milo"},
			"p3": {ID: "p3", OwnerUserID: "owner-2", Name: "Luna"},
		},
		Shared: fakeShared{"friend-1": {"p3"}, "owner-1": {"p3"}},
		CareEvents: fakeEvents{
			{ID: "c1", PetID: "p1", Type: calendar.EventTypeMedication, Title: "Heartworm pill", Date: "2025-03-10"},
			{ID: "c2", PetID: "p2", Type: calendar.EventTypeGrooming, Title: "Bath", IsRecurring: true,
				Recurrence: calendar.Recurrence{Pattern: calendar.PatternWeekly, StartDate: "2025-03-03", EndDate: "2025-03-17"}},
			{ID: "c3", PetID: "p3", Type: calendar.EventTypeVetAppointment, Title: "Checkup", Date: "2025-03-05", Time: "10:00"},
		},
		Vaccinations: fakeVaxes{
			{ID: "v1", PetID: "p1", VaccineName: "Rabies", AdministeredOn: "2022-04-01", ExpirationDate: "2025-04-01"},
		},
	}

	repo := newFakeRepo()
	svc := NewService(repo, loader, fakeAccess{}, Options{Metrics: metrics.New("test")})
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_IssuesValidToken(t *testing.T) {
	svc, _ := newTestService(t)

	f, err := svc.Create(context.Background(), "owner-1", CreateInput{Name: " Family "})
	require.NoError(t, err)
	assert.True(t, calendar.ValidToken(f.Token))
	assert.True(t, f.Active)
	assert.Equal(t, "Family", f.Name)
	assert.Equal(t, fixedNow, f.CreatedAt)
}

func TestService_Create_PetScopeMustBeAccessible(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "owner-1", CreateInput{PetID: "someone-elses"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Create(ctx, "owner-1", CreateInput{PetID: "missing"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	f, err := svc.Create(ctx, "owner-1", CreateInput{PetID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, "p1", f.PetID)
}

func TestService_Create_AccessBackendFailureIsNotBadInput(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.Create(context.Background(), "owner-1", CreateInput{PetID: "unreachable"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errAccessBackend)
	assert.NotErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrForbidden)
	assert.Empty(t, repo.byID)
}

func TestService_Create_TokenSourceFailure(t *testing.T) {
	svc, repo := newTestService(t)
	boom := errors.New("no entropy")
	svc.newToken = func() (string, error) { return "", boom }

	_, err := svc.Create(context.Background(), "owner-1", CreateInput{})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, repo.byID)
}

func TestService_Render_EndToEnd(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	f, err := svc.Create(ctx, "owner-1", CreateInput{})
	require.NoError(t, err)

	doc, err := svc.Render(ctx, f.Token)
	require.NoError(t, err)

	assert.Contains(t, doc, "X-WR-CALNAME:"+calendar.DefaultCalendarName+"\r\n")
	assert.Contains(t, doc, "SUMMARY:[Buddy] Heartworm pill\r\n")
	assert.Contains(t, doc, "SUMMARY:[Milo] Bath\r\n")
	assert.Contains(t, doc, "RRULE:FREQ=WEEKLY;BYDAY=MO;UNTIL=20250317\r\n")
	// mascota compartida conmigo
	assert.Contains(t, doc, "SUMMARY:[Luna] Checkup\r\n")
	assert.Contains(t, doc, "SUMMARY:[Buddy] Rabies Expires\r\n")
	assert.Equal(t, 4, strings.Count(doc, "BEGIN:VEVENT"))

	assert.Equal(t, fixedNow, repo.touched[f.ID])

	cal, err := ical.ParseCalendar(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Len(t, cal.Events(), 4)
}

func TestService_Render_PetScopeAndName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	f, err := svc.Create(ctx, "owner-1", CreateInput{Name: "Buddy only", PetID: "p1"})
	require.NoError(t, err)

	doc, err := svc.Render(ctx, f.Token)
	require.NoError(t, err)
	assert.Contains(t, doc, "X-WR-CALNAME:Buddy only\r\n")
	assert.Equal(t, 2, strings.Count(doc, "BEGIN:VEVENT"))
	assert.NotContains(t, doc, "[Milo]")
}

func TestService_Render_NotFoundCases(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	// forma inválida: ni siquiera se consulta storage
	_, err := svc.Render(ctx, "short")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, repo.lookups)

	_, err = svc.Render(ctx, strings.Repeat("a", calendar.TokenLength))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, repo.lookups)

	f, err := svc.Create(ctx, "owner-1", CreateInput{})
	require.NoError(t, err)
	inactive := false
	_, err = svc.Update(ctx, "owner-1", f.ID, UpdateInput{Active: &inactive})
	require.NoError(t, err)

	_, err = svc.Render(ctx, f.Token)
	assert.ErrorIs(t, err, ErrNotFound)
	_, touched := repo.touched[f.ID]
	assert.False(t, touched)
}

func TestService_Rotate_InvalidatesOldToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	f, err := svc.Create(ctx, "owner-1", CreateInput{})
	require.NoError(t, err)

	rotated, err := svc.Rotate(ctx, "owner-1", f.ID)
	require.NoError(t, err)
	assert.NotEqual(t, f.Token, rotated.Token)
	assert.Equal(t, f.ID, rotated.ID)

	_, err = svc.Render(ctx, f.Token)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Render(ctx, rotated.Token)
	assert.NoError(t, err)

	_, err = svc.Rotate(ctx, "someone-else", f.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Delete_OwnerOnly(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	f, err := svc.Create(ctx, "owner-1", CreateInput{})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "friend-1", f.ID), ErrNotFound)
	require.NoError(t, svc.Delete(ctx, "owner-1", f.ID))
	assert.ErrorIs(t, svc.Delete(ctx, "owner-1", f.ID), ErrNotFound)
}

func TestService_Upcoming(t *testing.T) {
	svc, _ := newTestService(t)

	items, err := svc.Upcoming(context.Background(), "owner-1", 14)
	require.NoError(t, err)

	// 2025-03-01 .. 2025-03-14: Luna checkup (05), baño lunes 03 y 10, pastilla (10)
	summaries := make([]string, 0, len(items))
	for _, it := range items {
		summaries = append(summaries, it.Summary)
	}
	assert.Equal(t, []string{"[Milo] Bath", "[Luna] Checkup", "[Buddy] Heartworm pill", "[Milo] Bath"}, summaries)
	assert.False(t, items[1].AllDay)
	assert.Equal(t, 10, items[1].Start.Hour())

	_, err = svc.Upcoming(context.Background(), "owner-1", 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Upcoming(context.Background(), "owner-1", MaxUpcomingDays+1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
