package collaborators

import "time"

// Role define lo que puede hacer un colaborador sobre la mascota compartida.
// @Enum viewer, editor
type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"

	// RoleOwner no se asigna a colaboradores; es el rol efectivo del dueño.
	RoleOwner Role = "owner"
)

type Status string

const (
	StatusInvited Status = "invited"
	StatusActive  Status = "active"
	StatusRevoked Status = "revoked"
)

// Collaborator es una invitación (o acceso vigente) a los registros de cuidado
// de una mascota. Solo los "active" ven la mascota en su calendario.
type Collaborator struct {
	ID string

	PetID string

	OwnerUserID string // quien comparte
	UserID      string // colaborador

	Role   Role
	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// CanEdit indica si el colaborador puede modificar eventos y vacunas.
func (c Collaborator) CanEdit() bool {
	return c.Status == StatusActive && c.Role == RoleEditor
}
