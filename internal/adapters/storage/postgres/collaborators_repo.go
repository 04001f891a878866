package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-care-records/internal/domain/collaborators"
	"pet-care-records/internal/ports/storage"
)

type CollaboratorsRepo struct {
	db *sql.DB
}

func NewCollaboratorsRepo(db *sql.DB) *CollaboratorsRepo {
	return &CollaboratorsRepo{db: db}
}

const collaboratorColumns = `
	id, pet_id, owner_user_id, user_id,
	role, status,
	created_at, updated_at, revoked_at`

func (r *CollaboratorsRepo) Create(ctx context.Context, c collaborators.Collaborator) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO collaborators (`+collaboratorColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		c.ID,
		c.PetID,
		c.OwnerUserID,
		c.UserID,
		c.Role,
		c.Status,
		c.CreatedAt,
		c.UpdatedAt,
		toNullTime(c.RevokedAt),
	)
	return err
}

func (r *CollaboratorsRepo) Update(ctx context.Context, c collaborators.Collaborator) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE collaborators
		SET role = $2, status = $3, updated_at = $4, revoked_at = $5
		WHERE id = $1
	`,
		c.ID,
		c.Role,
		c.Status,
		c.UpdatedAt,
		toNullTime(c.RevokedAt),
	)
	if err != nil {
		return err
	}
	return notFoundIfNone(res)
}

func (r *CollaboratorsRepo) GetByID(ctx context.Context, id string) (collaborators.Collaborator, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+collaboratorColumns+` FROM collaborators WHERE id = $1`, id)
	return scanCollaboratorRow(row)
}

func (r *CollaboratorsRepo) ListByPet(ctx context.Context, petID string) ([]collaborators.Collaborator, error) {
	return r.list(ctx, `WHERE pet_id = $1`, petID)
}

func (r *CollaboratorsRepo) ListByUser(ctx context.Context, userID string) ([]collaborators.Collaborator, error) {
	return r.list(ctx, `WHERE user_id = $1`, userID)
}

func (r *CollaboratorsRepo) GetActive(ctx context.Context, petID, userID string) (collaborators.Collaborator, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+collaboratorColumns+`
		FROM collaborators
		WHERE pet_id = $1 AND user_id = $2 AND status = $3
		ORDER BY updated_at DESC
		LIMIT 1
	`, petID, userID, collaborators.StatusActive)
	return scanCollaboratorRow(row)
}

func (r *CollaboratorsRepo) list(ctx context.Context, where string, arg string) ([]collaborators.Collaborator, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+collaboratorColumns+`
		FROM collaborators
		`+where+`
		ORDER BY created_at ASC
	`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]collaborators.Collaborator, 0)
	for rows.Next() {
		c, err := scanCollaborator(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCollaboratorRow(row *sql.Row) (collaborators.Collaborator, error) {
	c, err := scanCollaborator(row)
	if errors.Is(err, sql.ErrNoRows) {
		return collaborators.Collaborator{}, storage.ErrNotFound
	}
	return c, err
}

func scanCollaborator(s rowScanner) (collaborators.Collaborator, error) {
	var c collaborators.Collaborator
	var revoked sql.NullTime
	if err := s.Scan(
		&c.ID,
		&c.PetID,
		&c.OwnerUserID,
		&c.UserID,
		&c.Role,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
		&revoked,
	); err != nil {
		return collaborators.Collaborator{}, err
	}
	c.RevokedAt = fromNullTime(revoked)
	return c, nil
}
