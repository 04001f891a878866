package pets

import (
	"context"
	"errors"
	"fmt"

	"pet-care-records/internal/ports/permissions"
)

// OwnerOf expone el ownerUserID de una mascota.
// Se usa para evitar ciclos de imports entre módulos (pets <-> collaborators).
// Mascota inexistente: el error cumple errors.Is con ErrNotFound y con
// permissions.ErrPetNotFound.
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("%w: %w", permissions.ErrPetNotFound, err)
		}
		return "", err
	}
	return p.OwnerUserID, nil
}
