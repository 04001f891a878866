package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pet-care-records/internal/domain/feeds"
	"pet-care-records/internal/ports/storage"
)

type FeedsRepo struct {
	db *sql.DB
}

func NewFeedsRepo(db *sql.DB) *FeedsRepo {
	return &FeedsRepo{db: db}
}

const feedColumns = `
	id, owner_user_id, token, name, pet_id, active,
	created_at, updated_at, last_accessed_at`

func (r *FeedsRepo) Create(ctx context.Context, f feeds.Feed) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO calendar_feeds (`+feedColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		f.ID,
		f.OwnerUserID,
		f.Token,
		f.Name,
		nullText(f.PetID),
		f.Active,
		f.CreatedAt,
		f.UpdatedAt,
		toNullTime(f.LastAccessedAt),
	)
	return err
}

func (r *FeedsRepo) Update(ctx context.Context, f feeds.Feed) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE calendar_feeds
		SET token = $2, name = $3, active = $4, updated_at = $5, last_accessed_at = $6
		WHERE id = $1
	`,
		f.ID,
		f.Token,
		f.Name,
		f.Active,
		f.UpdatedAt,
		toNullTime(f.LastAccessedAt),
	)
	if err != nil {
		return err
	}
	return notFoundIfNone(res)
}

func (r *FeedsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM calendar_feeds WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return notFoundIfNone(res)
}

func (r *FeedsRepo) GetByID(ctx context.Context, id string) (feeds.Feed, error) {
	return r.getOne(ctx, `id`, id)
}

func (r *FeedsRepo) GetByToken(ctx context.Context, token string) (feeds.Feed, error) {
	return r.getOne(ctx, `token`, token)
}

func (r *FeedsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]feeds.Feed, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+feedColumns+`
		FROM calendar_feeds
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]feeds.Feed, 0)
	for rows.Next() {
		f, err := scanFeed(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FeedsRepo) TouchAccessed(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE calendar_feeds SET last_accessed_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return err
	}
	return notFoundIfNone(res)
}

// column viene de este archivo, nunca del request.
func (r *FeedsRepo) getOne(ctx context.Context, column, value string) (feeds.Feed, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+feedColumns+` FROM calendar_feeds WHERE `+column+` = $1`, value)
	f, err := scanFeed(row)
	if errors.Is(err, sql.ErrNoRows) {
		return feeds.Feed{}, storage.ErrNotFound
	}
	return f, err
}

func scanFeed(s rowScanner) (feeds.Feed, error) {
	var f feeds.Feed
	var petID sql.NullString
	var accessed sql.NullTime
	if err := s.Scan(
		&f.ID,
		&f.OwnerUserID,
		&f.Token,
		&f.Name,
		&petID,
		&f.Active,
		&f.CreatedAt,
		&f.UpdatedAt,
		&accessed,
	); err != nil {
		return feeds.Feed{}, err
	}
	f.PetID = petID.String
	f.LastAccessedAt = fromNullTime(accessed)
	return f, nil
}
