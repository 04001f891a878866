package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-care-records/internal/domain/vaccinations"
	"pet-care-records/internal/ports/storage"
)

type VaccinationsRepo struct {
	db *sql.DB
}

func NewVaccinationsRepo(db *sql.DB) *VaccinationsRepo {
	return &VaccinationsRepo{db: db}
}

const vaccinationSelect = `
	SELECT
		id, pet_id, vaccine_name,
		to_char(administered_on, 'YYYY-MM-DD'),
		COALESCE(to_char(expiration_date, 'YYYY-MM-DD'), ''),
		veterinarian, notes,
		created_by, created_at, updated_at
	FROM vaccinations`

const vaccinationOrder = ` ORDER BY expiration_date ASC NULLS FIRST, created_at ASC`

func (r *VaccinationsRepo) Create(ctx context.Context, v vaccinations.Vaccination) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vaccinations (
			id, pet_id, vaccine_name,
			administered_on, expiration_date,
			veterinarian, notes,
			created_by, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		v.ID,
		v.PetID,
		v.VaccineName,
		v.AdministeredOn,
		nullText(v.ExpirationDate),
		v.Veterinarian,
		v.Notes,
		v.CreatedBy,
		v.CreatedAt,
		v.UpdatedAt,
	)
	return err
}

func (r *VaccinationsRepo) Update(ctx context.Context, v vaccinations.Vaccination) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE vaccinations
		SET
			vaccine_name = $2,
			administered_on = $3,
			expiration_date = $4,
			veterinarian = $5,
			notes = $6,
			updated_at = $7
		WHERE id = $1
	`,
		v.ID,
		v.VaccineName,
		v.AdministeredOn,
		nullText(v.ExpirationDate),
		v.Veterinarian,
		v.Notes,
		v.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return notFoundIfNone(res)
}

func (r *VaccinationsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vaccinations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return notFoundIfNone(res)
}

func (r *VaccinationsRepo) GetByID(ctx context.Context, id string) (vaccinations.Vaccination, error) {
	row := r.db.QueryRowContext(ctx, vaccinationSelect+` WHERE id = $1`, id)
	v, err := scanVaccination(row)
	if errors.Is(err, sql.ErrNoRows) {
		return vaccinations.Vaccination{}, storage.ErrNotFound
	}
	return v, err
}

func (r *VaccinationsRepo) ListByPet(ctx context.Context, petID string) ([]vaccinations.Vaccination, error) {
	return r.ListByPets(ctx, []string{petID})
}

func (r *VaccinationsRepo) ListByPets(ctx context.Context, petIDs []string) ([]vaccinations.Vaccination, error) {
	if len(petIDs) == 0 {
		return []vaccinations.Vaccination{}, nil
	}
	return r.query(ctx, vaccinationSelect+` WHERE pet_id = ANY($1)`+vaccinationOrder, petIDs)
}

func (r *VaccinationsRepo) ListExpiring(ctx context.Context, from, to string) ([]vaccinations.Vaccination, error) {
	return r.query(ctx, vaccinationSelect+`
		WHERE expiration_date IS NOT NULL
			AND expiration_date BETWEEN $1::date AND $2::date
	`+vaccinationOrder, from, to)
}

func (r *VaccinationsRepo) query(ctx context.Context, q string, args ...any) ([]vaccinations.Vaccination, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]vaccinations.Vaccination, 0)
	for rows.Next() {
		v, err := scanVaccination(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanVaccination(s rowScanner) (vaccinations.Vaccination, error) {
	var v vaccinations.Vaccination
	err := s.Scan(
		&v.ID,
		&v.PetID,
		&v.VaccineName,
		&v.AdministeredOn,
		&v.ExpirationDate,
		&v.Veterinarian,
		&v.Notes,
		&v.CreatedBy,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	return v, err
}
