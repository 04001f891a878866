package collaborators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pet-care-records/internal/ports/permissions"
)

// PetOwnerLookup evita importar el paquete pets (rompe ciclos).
type PetOwnerLookup interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
}

// Access implementa permissions.PetAccess: owner bypass, colaborador activo
// puede leer y solo el editor puede escribir.
type Access struct {
	owners PetOwnerLookup
	svc    *Service
}

var _ permissions.PetAccess = (*Access)(nil)

func NewAccess(owners PetOwnerLookup, svc *Service) *Access {
	return &Access{owners: owners, svc: svc}
}

func (a *Access) CanRead(ctx context.Context, petID, userID string) error {
	return a.check(ctx, petID, userID, false)
}

func (a *Access) CanWrite(ctx context.Context, petID, userID string) error {
	return a.check(ctx, petID, userID, true)
}

// IsOwner es para acciones reservadas al dueño (compartir).
func (a *Access) IsOwner(ctx context.Context, petID, userID string) error {
	ownerID, err := a.owners.OwnerOf(ctx, petID)
	switch {
	case errors.Is(err, permissions.ErrPetNotFound):
		return permissions.ErrPetNotFound
	case err != nil:
		return fmt.Errorf("pet owner lookup: %w", err)
	case strings.TrimSpace(ownerID) == "":
		return permissions.ErrPetNotFound
	}
	if ownerID != userID {
		return permissions.ErrForbidden
	}
	return nil
}

// RoleFor devuelve el rol efectivo de userID sobre la mascota.
func (a *Access) RoleFor(ctx context.Context, petID, userID string) (Role, error) {
	switch err := a.IsOwner(ctx, petID, userID); err {
	case nil:
		return RoleOwner, nil
	case permissions.ErrForbidden:
	default:
		return "", err
	}

	c, err := a.activeCollaborator(ctx, petID, userID)
	if err != nil {
		return "", err
	}
	return c.Role, nil
}

func (a *Access) check(ctx context.Context, petID, userID string, write bool) error {
	err := a.IsOwner(ctx, petID, userID)
	if err != permissions.ErrForbidden {
		return err
	}

	c, err := a.activeCollaborator(ctx, petID, userID)
	if err != nil {
		return err
	}
	if write && !c.CanEdit() {
		return permissions.ErrForbidden
	}
	return nil
}

// activeCollaborator: sin colaboración activa => ErrForbidden; fallas de
// storage se devuelven envueltas.
func (a *Access) activeCollaborator(ctx context.Context, petID, userID string) (Collaborator, error) {
	c, err := a.svc.GetActive(ctx, petID, userID)
	switch {
	case err == nil:
		return c, nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidInput):
		return Collaborator{}, permissions.ErrForbidden
	default:
		return Collaborator{}, fmt.Errorf("collaborator lookup: %w", err)
	}
}
