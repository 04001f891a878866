package collaborators

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-care-records/internal/ports/storage"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrBadState     = errors.New("invalid state")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type InviteInput struct {
	PetID       string
	OwnerUserID string
	UserID      string
	Role        Role
}

// Invite crea la invitación o, si ya existe una vigente para el mismo
// (pet, owner, user), le actualiza el rol.
func (s *Service) Invite(ctx context.Context, in InviteInput) (Collaborator, error) {
	petID := strings.TrimSpace(in.PetID)
	ownerID := strings.TrimSpace(in.OwnerUserID)
	userID := strings.TrimSpace(in.UserID)

	if petID == "" || ownerID == "" || userID == "" {
		return Collaborator{}, ErrInvalidInput
	}
	if ownerID == userID {
		return Collaborator{}, ErrInvalidInput
	}

	role, err := normalizeRole(in.Role)
	if err != nil {
		return Collaborator{}, err
	}

	now := s.now()

	existing, allMatches, err := s.findLatestMatch(ctx, petID, ownerID, userID)
	if err == nil && existing.ID != "" && existing.Status != StatusRevoked {
		s.revokeOtherMatches(ctx, existing.ID, allMatches, now)

		existing.Role = role
		existing.UpdatedAt = now
		if err := s.repo.Update(ctx, existing); err != nil {
			return Collaborator{}, err
		}
		return existing, nil
	}

	c := Collaborator{
		ID:          uuid.NewString(),
		PetID:       petID,
		OwnerUserID: ownerID,
		UserID:      userID,
		Role:        role,
		Status:      StatusInvited,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Collaborator{}, err
	}
	return c, nil
}

// Accept es idempotente y deja un único colaborador activo por (pet, user).
func (s *Service) Accept(ctx context.Context, id, userID string) (Collaborator, error) {
	id = strings.TrimSpace(id)
	userID = strings.TrimSpace(userID)

	if id == "" || userID == "" {
		return Collaborator{}, ErrInvalidInput
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Collaborator{}, ErrNotFound
	}

	if c.UserID != userID {
		return Collaborator{}, ErrForbidden
	}
	if c.Status == StatusRevoked {
		return Collaborator{}, ErrBadState
	}
	if c.Status == StatusActive {
		return c, nil
	}

	now := s.now()

	others, err := s.repo.ListByPet(ctx, c.PetID)
	if err != nil {
		return Collaborator{}, err
	}
	matches := make([]Collaborator, 0, len(others))
	for _, o := range others {
		if o.UserID == userID {
			matches = append(matches, o)
		}
	}
	s.revokeOtherMatches(ctx, c.ID, matches, now)

	c.Status = StatusActive
	c.UpdatedAt = now

	if err := s.repo.Update(ctx, c); err != nil {
		return Collaborator{}, err
	}
	return c, nil
}

// Revoke lo puede hacer el owner o el propio colaborador (abandonar).
func (s *Service) Revoke(ctx context.Context, id, actorUserID string) (Collaborator, error) {
	id = strings.TrimSpace(id)
	actorUserID = strings.TrimSpace(actorUserID)

	if id == "" || actorUserID == "" {
		return Collaborator{}, ErrInvalidInput
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Collaborator{}, ErrNotFound
	}

	if c.OwnerUserID != actorUserID && c.UserID != actorUserID {
		return Collaborator{}, ErrForbidden
	}

	if c.Status == StatusRevoked {
		return c, nil
	}

	now := s.now()
	c.Status = StatusRevoked
	c.UpdatedAt = now
	c.RevokedAt = &now

	if err := s.repo.Update(ctx, c); err != nil {
		return Collaborator{}, err
	}
	return c, nil
}

func (s *Service) ListByPet(ctx context.Context, petID string) ([]Collaborator, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByPet(ctx, petID)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Collaborator, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID)
}

// ActivePetIDs devuelve las mascotas compartidas (activas) con el usuario.
func (s *Service) ActivePetIDs(ctx context.Context, userID string) ([]string, error) {
	items, err := s.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, len(items))
	for _, c := range items {
		if c.Status != StatusActive {
			continue
		}
		if _, ok := seen[c.PetID]; ok {
			continue
		}
		seen[c.PetID] = struct{}{}
		out = append(out, c.PetID)
	}
	return out, nil
}

// GetActive devuelve el colaborador activo de (pet, user) o ErrNotFound.
// Otros errores del repo se propagan tal cual.
func (s *Service) GetActive(ctx context.Context, petID, userID string) (Collaborator, error) {
	petID = strings.TrimSpace(petID)
	userID = strings.TrimSpace(userID)

	if petID == "" || userID == "" {
		return Collaborator{}, ErrInvalidInput
	}
	c, err := s.repo.GetActive(ctx, petID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Collaborator{}, ErrNotFound
		}
		return Collaborator{}, err
	}
	return c, nil
}

func (s *Service) findLatestMatch(ctx context.Context, petID, ownerID, userID string) (Collaborator, []Collaborator, error) {
	items, err := s.repo.ListByPet(ctx, petID)
	if err != nil {
		return Collaborator{}, nil, err
	}

	matches := make([]Collaborator, 0)
	var winner Collaborator
	hasWinner := false

	for _, c := range items {
		if c.PetID != petID || c.OwnerUserID != ownerID || c.UserID != userID {
			continue
		}
		matches = append(matches, c)

		if !hasWinner || c.UpdatedAt.After(winner.UpdatedAt) {
			winner = c
			hasWinner = true
		}
	}

	if !hasWinner {
		return Collaborator{}, matches, ErrNotFound
	}
	return winner, matches, nil
}

// revokeOtherMatches es best-effort: un fallo acá no invalida la operación principal.
func (s *Service) revokeOtherMatches(ctx context.Context, winnerID string, matches []Collaborator, now time.Time) {
	for _, c := range matches {
		if c.ID == "" || c.ID == winnerID || c.Status == StatusRevoked {
			continue
		}
		c.Status = StatusRevoked
		c.UpdatedAt = now
		c.RevokedAt = &now
		_ = s.repo.Update(ctx, c)
	}
}

func normalizeRole(raw Role) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(string(raw)))); r {
	case "":
		return RoleViewer, nil
	case RoleViewer, RoleEditor:
		return r, nil
	default:
		return "", ErrInvalidInput
	}
}
