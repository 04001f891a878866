package feeds

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"pet-care-records/internal/calendar"
	"pet-care-records/internal/platform/logger"
	"pet-care-records/internal/platform/metrics"
	"pet-care-records/internal/ports/permissions"
	"pet-care-records/internal/ports/storage"

	"github.com/google/uuid"
)

const (
	DefaultUpcomingDays = 7
	MaxUpcomingDays     = 365

	// tope de ocurrencias por evento en la vista "próximos"
	upcomingPerEvent = 50
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("feed not found")
	ErrForbidden    = errors.New("forbidden")
)

type Service struct {
	repo    Repository
	loader  *Loader
	access  permissions.PetAccess
	metrics *metrics.Metrics
	log     logger.Logger

	now      func() time.Time
	newToken func() (string, error)
}

type Options struct {
	Metrics *metrics.Metrics // opcional
	Logger  logger.Logger    // opcional
}

func NewService(repo Repository, loader *Loader, access permissions.PetAccess, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Service{
		repo:     repo,
		loader:   loader,
		access:   access,
		metrics:  opts.Metrics,
		log:      opts.Logger,
		now:      time.Now,
		newToken: calendar.GenerateToken,
	}
}

type CreateInput struct {
	Name  string
	PetID string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Feed, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return Feed{}, ErrInvalidInput
	}

	petID := strings.TrimSpace(in.PetID)
	if petID != "" {
		switch err := s.access.CanRead(ctx, petID, ownerUserID); err {
		case nil:
		case permissions.ErrForbidden:
			return Feed{}, ErrForbidden
		case permissions.ErrPetNotFound:
			return Feed{}, ErrInvalidInput
		default:
			return Feed{}, fmt.Errorf("check pet access: %w", err)
		}
	}

	token, err := s.newToken()
	if err != nil {
		return Feed{}, fmt.Errorf("issue feed token: %w", err)
	}

	now := s.now()
	f := Feed{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Token:       token,
		Name:        strings.TrimSpace(in.Name),
		PetID:       petID,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return Feed{}, err
	}
	s.metrics.TokenIssued()
	return f, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Feed, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

type UpdateInput struct {
	Name   *string
	Active *bool
}

func (s *Service) Update(ctx context.Context, ownerUserID, id string, in UpdateInput) (Feed, error) {
	f, err := s.getOwned(ctx, ownerUserID, id)
	if err != nil {
		return Feed{}, err
	}
	if in.Name != nil {
		f.Name = strings.TrimSpace(*in.Name)
	}
	if in.Active != nil {
		f.Active = *in.Active
	}
	f.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, f); err != nil {
		return Feed{}, s.mapNotFound(err)
	}
	return f, nil
}

// Rotate reemplaza el token: las suscripciones con el token viejo dejan de funcionar.
func (s *Service) Rotate(ctx context.Context, ownerUserID, id string) (Feed, error) {
	f, err := s.getOwned(ctx, ownerUserID, id)
	if err != nil {
		return Feed{}, err
	}
	token, err := s.newToken()
	if err != nil {
		return Feed{}, fmt.Errorf("issue feed token: %w", err)
	}
	f.Token = token
	f.UpdatedAt = s.now()
	f.LastAccessedAt = nil
	if err := s.repo.Update(ctx, f); err != nil {
		return Feed{}, s.mapNotFound(err)
	}
	s.metrics.TokenIssued()
	return f, nil
}

func (s *Service) Delete(ctx context.Context, ownerUserID, id string) error {
	f, err := s.getOwned(ctx, ownerUserID, id)
	if err != nil {
		return err
	}
	return s.mapNotFound(s.repo.Delete(ctx, f.ID))
}

// Resolve valida la forma del token antes de ir a storage. Token desconocido
// o feed inactivo dan ErrNotFound por igual.
func (s *Service) Resolve(ctx context.Context, token string) (Feed, error) {
	if !calendar.ValidToken(token) {
		return Feed{}, ErrNotFound
	}
	f, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return Feed{}, s.mapNotFound(err)
	}
	if !f.Active {
		return Feed{}, ErrNotFound
	}
	return f, nil
}

// Render resuelve el token y devuelve el documento iCalendar completo.
func (s *Service) Render(ctx context.Context, token string) (string, error) {
	f, err := s.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.metrics.ObserveFeed(metrics.FeedNotFound, 0)
		} else {
			s.metrics.ObserveFeed(metrics.FeedError, 0)
		}
		return "", err
	}

	now := s.now()
	if err := s.repo.TouchAccessed(ctx, f.ID, now); err != nil {
		// no bloquea el feed
		s.log.Warn("feed touch failed", map[string]any{"feed_id": f.ID, "error": err.Error()})
	}

	data, err := s.loader.Load(ctx, f.OwnerUserID, f.PetID)
	if err != nil {
		s.metrics.ObserveFeed(metrics.FeedError, 0)
		return "", err
	}
	data.Name = f.Name

	s.metrics.ObserveFeed(metrics.FeedOK, len(data.CareEvents)+len(data.Vaccinations))
	return calendar.Build(data, now), nil
}

// UpcomingItem es una ocurrencia concreta para el widget de "próximos".
type UpcomingItem struct {
	UID        string
	Summary    string
	Start      time.Time
	AllDay     bool
	Location   string
	Categories []string
}

// Upcoming expande (RRULE incluido) los eventos accesibles del usuario en los
// próximos days días, ordenados por inicio.
func (s *Service) Upcoming(ctx context.Context, userID string, days int) ([]UpcomingItem, error) {
	if days <= 0 || days > MaxUpcomingDays {
		return nil, ErrInvalidInput
	}

	data, err := s.loader.Load(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	now := s.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 0, days).Add(-time.Second)

	out := make([]UpcomingItem, 0)
	for _, ev := range calendar.Normalize(data) {
		starts, err := calendar.Occurrences(ev, from, to, upcomingPerEvent)
		if err != nil {
			s.log.Debug("skip event in upcoming", map[string]any{"uid": ev.UID, "error": err.Error()})
			continue
		}
		for _, st := range starts {
			out = append(out, UpcomingItem{
				UID:        ev.UID,
				Summary:    ev.Summary,
				Start:      st,
				AllDay:     ev.Start.AllDay(),
				Location:   ev.Location,
				Categories: ev.Categories,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (s *Service) getOwned(ctx context.Context, ownerUserID, id string) (Feed, error) {
	f, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Feed{}, s.mapNotFound(err)
	}
	// feed de otro usuario = no existe
	if f.OwnerUserID != ownerUserID {
		return Feed{}, ErrNotFound
	}
	return f, nil
}

func (s *Service) mapNotFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
