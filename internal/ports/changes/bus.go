package changes

import (
	"context"
	"time"
)

type Entity string

const (
	EntityCareEvent   Entity = "care_event"
	EntityVaccination Entity = "vaccination"
)

type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"

	// OpExpiring lo emite el job de recordatorios, no un cambio de datos.
	OpExpiring Op = "expiring"
)

// ChangeEvent es lo que se publica cuando cambian registros de cuidado.
// Lleva ids, no el registro: el cliente vuelve a pedir lo que necesite.
type ChangeEvent struct {
	Entity Entity    `json:"entity"`
	Op     Op        `json:"op"`
	ID     string    `json:"id"`
	PetID  string    `json:"pet_id"`
	At     time.Time `json:"at"`
}

// Filter limita una suscripción a un conjunto de mascotas. Vacío = todas.
type Filter struct {
	PetIDs []string
}

func (f Filter) Match(ev ChangeEvent) bool {
	if len(f.PetIDs) == 0 {
		return true
	}
	for _, id := range f.PetIDs {
		if id == ev.PetID {
			return true
		}
	}
	return false
}

type Publisher interface {
	Publish(ctx context.Context, ev ChangeEvent) error
}

type Subscription interface {
	Events() <-chan ChangeEvent
	Unsubscribe()
}

type Bus interface {
	Publisher
	Subscribe(ctx context.Context, f Filter) (Subscription, error)
	Close() error
}
