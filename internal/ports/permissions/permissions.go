package permissions

import (
	"context"
	"errors"
)

var (
	ErrForbidden   = errors.New("forbidden")
	ErrPetNotFound = errors.New("pet not found")
)

// PetAccess resuelve si un usuario puede leer o modificar los registros de
// una mascota. Devuelve nil, ErrForbidden o ErrPetNotFound.
type PetAccess interface {
	CanRead(ctx context.Context, petID, userID string) error
	CanWrite(ctx context.Context, petID, userID string) error
}
