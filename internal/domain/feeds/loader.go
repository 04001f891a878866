package feeds

import (
	"context"
	"fmt"

	"pet-care-records/internal/calendar"
	"pet-care-records/internal/domain/careevents"
	"pet-care-records/internal/domain/pets"
	"pet-care-records/internal/domain/vaccinations"
)

type PetDirectory interface {
	ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error)
	GetByID(ctx context.Context, id string) (pets.Pet, error)
}

type SharedPets interface {
	ActivePetIDs(ctx context.Context, userID string) ([]string, error)
}

type CareEventSource interface {
	ListByPets(ctx context.Context, petIDs []string) ([]careevents.CareEvent, error)
}

type VaccinationSource interface {
	ListByPets(ctx context.Context, petIDs []string) ([]vaccinations.Vaccination, error)
}

// Loader arma el FeedData de un usuario: mascotas propias + compartidas
// (colaborador activo), opcionalmente acotado a una sola mascota.
type Loader struct {
	Pets         PetDirectory
	Shared       SharedPets
	CareEvents   CareEventSource
	Vaccinations VaccinationSource
}

func (l *Loader) AccessiblePets(ctx context.Context, userID string) ([]calendar.PetRef, error) {
	owned, err := l.Pets.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list owned pets: %w", err)
	}

	seen := map[string]struct{}{}
	out := make([]calendar.PetRef, 0, len(owned))
	for _, p := range owned {
		seen[p.ID] = struct{}{}
		out = append(out, calendar.PetRef{ID: p.ID, Name: p.Name})
	}

	if l.Shared == nil {
		return out, nil
	}
	sharedIDs, err := l.Shared.ActivePetIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list shared pets: %w", err)
	}
	for _, id := range sharedIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		p, err := l.Pets.GetByID(ctx, id)
		if err != nil {
			// colaboración huérfana
			continue
		}
		seen[id] = struct{}{}
		out = append(out, calendar.PetRef{ID: p.ID, Name: p.Name})
	}
	return out, nil
}

// Load devuelve las filas crudas; el calendario descarta las incompletas.
// Si scopePetID ya no es accesible (colaboración revocada) el feed sale vacío.
func (l *Loader) Load(ctx context.Context, userID, scopePetID string) (calendar.FeedData, error) {
	accessible, err := l.AccessiblePets(ctx, userID)
	if err != nil {
		return calendar.FeedData{}, err
	}

	petsInFeed := accessible
	if scopePetID != "" {
		petsInFeed = nil
		for _, p := range accessible {
			if p.ID == scopePetID {
				petsInFeed = []calendar.PetRef{p}
				break
			}
		}
	}

	data := calendar.FeedData{Pets: petsInFeed}
	if len(petsInFeed) == 0 {
		return data, nil
	}

	names := make(map[string]string, len(petsInFeed))
	ids := make([]string, 0, len(petsInFeed))
	for _, p := range petsInFeed {
		names[p.ID] = p.Name
		ids = append(ids, p.ID)
	}

	events, err := l.CareEvents.ListByPets(ctx, ids)
	if err != nil {
		return calendar.FeedData{}, fmt.Errorf("list care events: %w", err)
	}
	for _, e := range events {
		data.CareEvents = append(data.CareEvents, e.ToCalendar(names[e.PetID]))
	}

	vaxes, err := l.Vaccinations.ListByPets(ctx, ids)
	if err != nil {
		return calendar.FeedData{}, fmt.Errorf("list vaccinations: %w", err)
	}
	for _, v := range vaxes {
		data.Vaccinations = append(data.Vaccinations, v.ToCalendar(names[v.PetID]))
	}

	return data, nil
}
