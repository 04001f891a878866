package careevents

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"pet-care-records/internal/calendar"
	"pet-care-records/internal/platform/logger"
	"pet-care-records/internal/ports/changes"
	"pet-care-records/internal/ports/storage"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("care event not found")
)

type Service struct {
	repo   Repository
	events changes.Publisher
	log    logger.Logger
	now    func() time.Time
}

// NewService acepta un publisher nil (sin stream de cambios).
func NewService(repo Repository, events changes.Publisher, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:   repo,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

type RecurrenceInput struct {
	Pattern    string
	DayOfMonth int
	DayOfWeek  string
	StartDate  string
	EndDate    string
}

type CreateInput struct {
	Type        string
	Title       string
	Description string
	Date        string
	Time        string
	IsRecurring bool
	Recurrence  RecurrenceInput
	Location    string
	Notes       string
}

func (s *Service) Create(ctx context.Context, petID, actorUserID string, in CreateInput) (CareEvent, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return CareEvent{}, ErrInvalidInput
	}

	now := s.now()
	e := CareEvent{
		ID:          uuid.NewString(),
		PetID:       petID,
		Type:        calendar.EventType(strings.TrimSpace(in.Type)),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Date:        strings.TrimSpace(in.Date),
		Time:        strings.TrimSpace(in.Time),
		IsRecurring: in.IsRecurring,
		Location:    strings.TrimSpace(in.Location),
		Notes:       strings.TrimSpace(in.Notes),
		CreatedBy:   actorUserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.IsRecurring {
		e.Recurrence = toRecurrence(in.Recurrence)
	}

	if err := validate(e); err != nil {
		return CareEvent{}, err
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return CareEvent{}, err
	}
	s.publish(ctx, changes.OpInsert, e)
	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (CareEvent, error) {
	e, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return CareEvent{}, ErrNotFound
		}
		return CareEvent{}, err
	}
	return e, nil
}

func (s *Service) ListByPet(ctx context.Context, petID string) ([]CareEvent, error) {
	return s.repo.ListByPet(ctx, petID)
}

func (s *Service) ListByPets(ctx context.Context, petIDs []string) ([]CareEvent, error) {
	if len(petIDs) == 0 {
		return []CareEvent{}, nil
	}
	return s.repo.ListByPets(ctx, petIDs)
}

// UpdateInput: nil = no tocar. Recurrence reemplaza la recurrencia completa.
type UpdateInput struct {
	Type        *string
	Title       *string
	Description *string
	Date        *string
	Time        *string
	IsRecurring *bool
	Recurrence  *RecurrenceInput
	Location    *string
	Notes       *string
}

// Update modifica un evento de la mascota indicada; si el evento es de otra
// mascota se responde ErrNotFound (no se filtra su existencia).
func (s *Service) Update(ctx context.Context, petID, id string, in UpdateInput) (CareEvent, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return CareEvent{}, err
	}
	if e.PetID != petID {
		return CareEvent{}, ErrNotFound
	}

	if in.Type != nil {
		e.Type = calendar.EventType(strings.TrimSpace(*in.Type))
	}
	if in.Title != nil {
		e.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		e.Description = strings.TrimSpace(*in.Description)
	}
	if in.Date != nil {
		e.Date = strings.TrimSpace(*in.Date)
	}
	if in.Time != nil {
		e.Time = strings.TrimSpace(*in.Time)
	}
	if in.IsRecurring != nil {
		e.IsRecurring = *in.IsRecurring
		if !e.IsRecurring {
			e.Recurrence = calendar.Recurrence{}
		}
	}
	if in.Recurrence != nil {
		e.Recurrence = toRecurrence(*in.Recurrence)
	}
	if in.Location != nil {
		e.Location = strings.TrimSpace(*in.Location)
	}
	if in.Notes != nil {
		e.Notes = strings.TrimSpace(*in.Notes)
	}

	if err := validate(e); err != nil {
		return CareEvent{}, err
	}

	e.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, e); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return CareEvent{}, ErrNotFound
		}
		return CareEvent{}, err
	}
	s.publish(ctx, changes.OpUpdate, e)
	return e, nil
}

func (s *Service) Delete(ctx context.Context, petID, id string) error {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e.PetID != petID {
		return ErrNotFound
	}

	if err := s.repo.Delete(ctx, e.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.publish(ctx, changes.OpDelete, e)
	return nil
}

// publish es best-effort: el cambio ya quedó guardado.
func (s *Service) publish(ctx context.Context, op changes.Op, e CareEvent) {
	if s.events == nil {
		return
	}
	err := s.events.Publish(ctx, changes.ChangeEvent{
		Entity: changes.EntityCareEvent,
		Op:     op,
		ID:     e.ID,
		PetID:  e.PetID,
		At:     s.now(),
	})
	if err != nil {
		s.log.Warn("change publish failed", map[string]any{"care_event_id": e.ID, "pet_id": e.PetID, "op": string(op), "error": err.Error()})
	}
}

func toRecurrence(in RecurrenceInput) calendar.Recurrence {
	pattern, _ := calendar.ParsePattern(in.Pattern)
	return calendar.Recurrence{
		Pattern:    pattern,
		DayOfMonth: in.DayOfMonth,
		DayOfWeek:  strings.ToLower(strings.TrimSpace(in.DayOfWeek)),
		StartDate:  strings.TrimSpace(in.StartDate),
		EndDate:    strings.TrimSpace(in.EndDate),
	}
}

func validate(e CareEvent) error {
	if e.Type == "" || e.Title == "" {
		return ErrInvalidInput
	}
	if e.Date != "" && !validDate(e.Date) {
		return ErrInvalidInput
	}
	if e.Time != "" && !validClock(e.Time) {
		return ErrInvalidInput
	}

	if !e.IsRecurring {
		if e.Date == "" {
			return ErrInvalidInput
		}
		return nil
	}

	rec := e.Recurrence
	if _, ok := calendar.ParsePattern(string(rec.Pattern)); !ok {
		return ErrInvalidInput
	}
	if !validDate(rec.StartDate) {
		return ErrInvalidInput
	}
	if rec.EndDate != "" {
		if !validDate(rec.EndDate) || rec.EndDate < rec.StartDate {
			return ErrInvalidInput
		}
	}
	if rec.DayOfMonth < 0 || rec.DayOfMonth > 31 {
		return ErrInvalidInput
	}
	if rec.DayOfWeek != "" && !calendar.ValidWeekday(rec.DayOfWeek) {
		return ErrInvalidInput
	}
	return nil
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// clockPattern exige campos de dos dígitos; el rango lo valida ParseClock.
var clockPattern = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)

func validClock(s string) bool {
	if !clockPattern.MatchString(s) {
		return false
	}
	_, ok := calendar.ParseClock(s)
	return ok
}
