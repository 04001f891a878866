package natsbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"pet-care-records/internal/ports/changes"

	"github.com/nats-io/nats.go"
)

const (
	DefaultSubjectPrefix = "petcare.changes"
	bufferSize           = 64
)

// Bus publica cambios en NATS con subject <prefix>.<petID>, así varias
// instancias de la API comparten el stream de cambios.
type Bus struct {
	nc     *nats.Conn
	prefix string
}

type Options struct {
	URL           string
	SubjectPrefix string
	Name          string
	Timeout       time.Duration
}

func Connect(opts Options) (*Bus, error) {
	if strings.TrimSpace(opts.URL) == "" {
		return nil, fmt.Errorf("natsbus: url required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Name == "" {
		opts.Name = "pet-care-records"
	}

	nc, err := nats.Connect(opts.URL,
		nats.Name(opts.Name),
		nats.Timeout(opts.Timeout),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("natsbus: connect: %w", err)
	}
	return New(nc, opts.SubjectPrefix), nil
}

func New(nc *nats.Conn, prefix string) *Bus {
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &Bus{nc: nc, prefix: prefix}
}

func (b *Bus) subject(petID string) string {
	if petID == "" {
		petID = "_"
	}
	return b.prefix + "." + petID
}

// Publish es síncrono en el cliente NATS; el ctx solo se chequea antes de enviar.
func (b *Bus) Publish(ctx context.Context, ev changes.ChangeEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("natsbus: marshal: %w", err)
	}
	if err := b.nc.Publish(b.subject(ev.PetID), data); err != nil {
		return fmt.Errorf("natsbus: publish: %w", err)
	}
	return nil
}

func (b *Bus) Subscribe(ctx context.Context, f changes.Filter) (changes.Subscription, error) {
	s := &subscription{
		filter: f,
		ch:     make(chan changes.ChangeEvent, bufferSize),
		done:   make(chan struct{}),
	}

	sub, err := b.nc.Subscribe(b.prefix+".>", s.handle)
	if err != nil {
		return nil, fmt.Errorf("natsbus: subscribe: %w", err)
	}
	s.sub = sub

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
	if err := b.nc.Drain(); err != nil {
		b.nc.Close()
		return fmt.Errorf("natsbus: drain: %w", err)
	}
	return nil
}

type subscription struct {
	filter changes.Filter
	sub    *nats.Subscription

	mu     sync.Mutex
	closed bool
	ch     chan changes.ChangeEvent
	done   chan struct{}
}

func (s *subscription) handle(msg *nats.Msg) {
	var ev changes.ChangeEvent
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		return
	}
	if !s.filter.Match(ev) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- ev:
	default:
	}
}

func (s *subscription) Events() <-chan changes.ChangeEvent { return s.ch }

func (s *subscription) Unsubscribe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.sub != nil {
		_ = s.sub.Unsubscribe()
	}
	close(s.ch)
	close(s.done)
}
