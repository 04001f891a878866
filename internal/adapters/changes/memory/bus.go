package memory

import (
	"context"
	"sync"

	"pet-care-records/internal/ports/changes"
)

// bufferSize por suscriptor. Si el consumidor no drena, se descartan eventos
// en vez de bloquear al que publica.
const bufferSize = 64

type Bus struct {
	mu     sync.RWMutex
	subs   map[*subscription]struct{}
	closed bool
}

func NewBus() *Bus {
	return &Bus{subs: map[*subscription]struct{}{}}
}

func (b *Bus) Publish(ctx context.Context, ev changes.ChangeEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for s := range b.subs {
		if !s.filter.Match(ev) {
			continue
		}
		select {
		case s.ch <- ev:
		default:
		}
	}
	return nil
}

func (b *Bus) Subscribe(ctx context.Context, f changes.Filter) (changes.Subscription, error) {
	s := &subscription{
		bus:    b,
		filter: f,
		ch:     make(chan changes.ChangeEvent, bufferSize),
		done:   make(chan struct{}),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		s.shutdown()
		return s, nil
	}
	b.subs[s] = struct{}{}
	b.mu.Unlock()

	// se cierra sola al cancelar el contexto
	go func() {
		select {
		case <-ctx.Done():
			s.Unsubscribe()
		case <-s.done:
		}
	}()

	return s, nil
}

func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for s := range b.subs {
		s.shutdown()
	}
	b.subs = map[*subscription]struct{}{}
	return nil
}

type subscription struct {
	bus    *Bus
	filter changes.Filter
	ch     chan changes.ChangeEvent
	done   chan struct{}
	once   sync.Once
}

func (s *subscription) Events() <-chan changes.ChangeEvent { return s.ch }

func (s *subscription) Unsubscribe() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	delete(s.bus.subs, s)
	s.shutdown()
}

// shutdown se llama siempre con bus.mu tomado (o antes de registrar la suscripción).
func (s *subscription) shutdown() {
	s.once.Do(func() {
		close(s.ch)
		close(s.done)
	})
}
