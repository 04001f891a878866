package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-care-records/internal/calendar"
	"pet-care-records/internal/domain/careevents"
	"pet-care-records/internal/ports/storage"
)

type CareEventsRepo struct {
	db *sql.DB
}

func NewCareEventsRepo(db *sql.DB) *CareEventsRepo {
	return &CareEventsRepo{db: db}
}

// Las columnas DATE se leen con to_char para mantener el texto YYYY-MM-DD
// que usa el dominio (horas flotantes, sin zona).
const careEventSelect = `
	SELECT
		id, pet_id, event_type, title, description,
		COALESCE(to_char(event_date, 'YYYY-MM-DD'), ''), event_time,
		is_recurring, recurrence_pattern, recurrence_day_of_month, recurrence_day_of_week,
		COALESCE(to_char(recurrence_start_date, 'YYYY-MM-DD'), ''),
		COALESCE(to_char(recurrence_end_date, 'YYYY-MM-DD'), ''),
		location, notes,
		created_by, created_at, updated_at
	FROM care_events`

func (r *CareEventsRepo) Create(ctx context.Context, e careevents.CareEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO care_events (
			id, pet_id, event_type, title, description,
			event_date, event_time,
			is_recurring, recurrence_pattern, recurrence_day_of_month, recurrence_day_of_week,
			recurrence_start_date, recurrence_end_date,
			location, notes,
			created_by, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	`,
		e.ID,
		e.PetID,
		e.Type,
		e.Title,
		e.Description,
		nullText(e.Date),
		e.Time,
		e.IsRecurring,
		e.Recurrence.Pattern,
		e.Recurrence.DayOfMonth,
		e.Recurrence.DayOfWeek,
		nullText(e.Recurrence.StartDate),
		nullText(e.Recurrence.EndDate),
		e.Location,
		e.Notes,
		e.CreatedBy,
		e.CreatedAt,
		e.UpdatedAt,
	)
	return err
}

func (r *CareEventsRepo) Update(ctx context.Context, e careevents.CareEvent) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE care_events
		SET
			event_type = $2,
			title = $3,
			description = $4,
			event_date = $5,
			event_time = $6,
			is_recurring = $7,
			recurrence_pattern = $8,
			recurrence_day_of_month = $9,
			recurrence_day_of_week = $10,
			recurrence_start_date = $11,
			recurrence_end_date = $12,
			location = $13,
			notes = $14,
			updated_at = $15
		WHERE id = $1
	`,
		e.ID,
		e.Type,
		e.Title,
		e.Description,
		nullText(e.Date),
		e.Time,
		e.IsRecurring,
		e.Recurrence.Pattern,
		e.Recurrence.DayOfMonth,
		e.Recurrence.DayOfWeek,
		nullText(e.Recurrence.StartDate),
		nullText(e.Recurrence.EndDate),
		e.Location,
		e.Notes,
		e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return notFoundIfNone(res)
}

func (r *CareEventsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM care_events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return notFoundIfNone(res)
}

func (r *CareEventsRepo) GetByID(ctx context.Context, id string) (careevents.CareEvent, error) {
	row := r.db.QueryRowContext(ctx, careEventSelect+` WHERE id = $1`, id)
	e, err := scanCareEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return careevents.CareEvent{}, storage.ErrNotFound
	}
	return e, err
}

func (r *CareEventsRepo) ListByPet(ctx context.Context, petID string) ([]careevents.CareEvent, error) {
	return r.ListByPets(ctx, []string{petID})
}

func (r *CareEventsRepo) ListByPets(ctx context.Context, petIDs []string) ([]careevents.CareEvent, error) {
	if len(petIDs) == 0 {
		return []careevents.CareEvent{}, nil
	}

	rows, err := r.db.QueryContext(ctx, careEventSelect+`
		WHERE pet_id = ANY($1)
		ORDER BY
			CASE WHEN is_recurring AND recurrence_start_date IS NOT NULL
				THEN recurrence_start_date ELSE event_date END ASC NULLS FIRST,
			created_at ASC
	`, petIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]careevents.CareEvent, 0)
	for rows.Next() {
		e, err := scanCareEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanCareEvent(s rowScanner) (careevents.CareEvent, error) {
	var e careevents.CareEvent
	var eventType, pattern string
	if err := s.Scan(
		&e.ID,
		&e.PetID,
		&eventType,
		&e.Title,
		&e.Description,
		&e.Date,
		&e.Time,
		&e.IsRecurring,
		&pattern,
		&e.Recurrence.DayOfMonth,
		&e.Recurrence.DayOfWeek,
		&e.Recurrence.StartDate,
		&e.Recurrence.EndDate,
		&e.Location,
		&e.Notes,
		&e.CreatedBy,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return careevents.CareEvent{}, err
	}
	e.Type = calendar.EventType(eventType)
	e.Recurrence.Pattern = calendar.Pattern(pattern)
	return e, nil
}
