package vaccinations

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-care-records/internal/platform/logger"
	"pet-care-records/internal/ports/changes"
	"pet-care-records/internal/ports/storage"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("vaccination not found")
)

type Service struct {
	repo   Repository
	events changes.Publisher
	log    logger.Logger
	now    func() time.Time
}

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

type CreateInput struct {
	VaccineName    string
	AdministeredOn string
	ExpirationDate string
	Veterinarian   string
	Notes          string
}

func (s *Service) Create(ctx context.Context, petID, actorUserID string, in CreateInput) (Vaccination, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return Vaccination{}, ErrInvalidInput
	}

	now := s.now()
	v := Vaccination{
		ID:             uuid.NewString(),
		PetID:          petID,
		VaccineName:    strings.TrimSpace(in.VaccineName),
		AdministeredOn: strings.TrimSpace(in.AdministeredOn),
		ExpirationDate: strings.TrimSpace(in.ExpirationDate),
		Veterinarian:   strings.TrimSpace(in.Veterinarian),
		Notes:          strings.TrimSpace(in.Notes),
		CreatedBy:      actorUserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := validate(v); err != nil {
		return Vaccination{}, err
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return Vaccination{}, err
	}
	s.publish(ctx, changes.OpInsert, v)
	return v, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Vaccination, error) {
	v, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Vaccination{}, ErrNotFound
		}
		return Vaccination{}, err
	}
	return v, nil
}

func (s *Service) ListByPet(ctx context.Context, petID string) ([]Vaccination, error) {
	return s.repo.ListByPet(ctx, petID)
}

func (s *Service) ListByPets(ctx context.Context, petIDs []string) ([]Vaccination, error) {
	if len(petIDs) == 0 {
		return []Vaccination{}, nil
	}
	return s.repo.ListByPets(ctx, petIDs)
}

// ListExpiring devuelve las vacunas que vencen entre hoy y hoy+days (inclusive).
func (s *Service) ListExpiring(ctx context.Context, days int) ([]Vaccination, error) {
	if days < 0 {
		return nil, ErrInvalidInput
	}
	today := s.now()
	from := today.Format(dateLayout)
	to := today.AddDate(0, 0, days).Format(dateLayout)
	return s.repo.ListExpiring(ctx, from, to)
}

type UpdateInput struct {
	VaccineName    *string
	AdministeredOn *string
	ExpirationDate *string
	Veterinarian   *string
	Notes          *string
}

func (s *Service) Update(ctx context.Context, petID, id string, in UpdateInput) (Vaccination, error) {
	v, err := s.GetByID(ctx, id)
	if err != nil {
		return Vaccination{}, err
	}
	if v.PetID != petID {
		return Vaccination{}, ErrNotFound
	}

	if in.VaccineName != nil {
		v.VaccineName = strings.TrimSpace(*in.VaccineName)
	}
	if in.AdministeredOn != nil {
		v.AdministeredOn = strings.TrimSpace(*in.AdministeredOn)
	}
	if in.ExpirationDate != nil {
		v.ExpirationDate = strings.TrimSpace(*in.ExpirationDate)
	}
	if in.Veterinarian != nil {
		v.Veterinarian = strings.TrimSpace(*in.Veterinarian)
	}
	if in.Notes != nil {
		v.Notes = strings.TrimSpace(*in.Notes)
	}
	if err := validate(v); err != nil {
		return Vaccination{}, err
	}

	v.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, v); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Vaccination{}, ErrNotFound
		}
		return Vaccination{}, err
	}
	s.publish(ctx, changes.OpUpdate, v)
	return v, nil
}

func (s *Service) Delete(ctx context.Context, petID, id string) error {
	v, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if v.PetID != petID {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, v.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.publish(ctx, changes.OpDelete, v)
	return nil
}

func (s *Service) publish(ctx context.Context, op changes.Op, v Vaccination) {
	if s.events == nil {
		return
	}
	err := s.events.Publish(ctx, changes.ChangeEvent{
		Entity: changes.EntityVaccination,
		Op:     op,
		ID:     v.ID,
		PetID:  v.PetID,
		At:     s.now(),
	})
	if err != nil {
		// best-effort: el cambio ya quedó guardado
		s.log.Warn("change publish failed", map[string]any{"vaccination_id": v.ID, "pet_id": v.PetID, "op": string(op), "error": err.Error()})
	}
}

func validate(v Vaccination) error {
	if v.VaccineName == "" {
		return ErrInvalidInput
	}
	if !validDate(v.AdministeredOn) {
		return ErrInvalidInput
	}
	if v.ExpirationDate != "" {
		if !validDate(v.ExpirationDate) || v.ExpirationDate < v.AdministeredOn {
			return ErrInvalidInput
		}
	}
	return nil
}

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
