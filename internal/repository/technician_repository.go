package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TechnicianRepository handles persistence for technician profiles.
type TechnicianRepository interface {
	// EnsureForUser creates the profile for the user when missing and
	// returns the existing one otherwise.
	EnsureForUser(ctx context.Context, userID string) (*domain.Technician, error)
	GetByID(ctx context.Context, id string) (*domain.Technician, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Technician, error)
	Update(ctx context.Context, technician *domain.Technician) error
	List(ctx context.Context) ([]domain.Technician, error)
}

type technicianRepository struct {
	db Querier
}

// NewTechnicianRepository instantiates the repository.
func NewTechnicianRepository(db Querier) TechnicianRepository {
	return &technicianRepository{db: db}
}

const technicianColumns = `id, user_id, specialty, experience_level, active_flag, created_at, updated_at`

func (r *technicianRepository) EnsureForUser(ctx context.Context, userID string) (*domain.Technician, error) {
	const query = `
        INSERT INTO technicians (user_id)
        VALUES ($1)
        ON CONFLICT (user_id) DO UPDATE SET updated_at = technicians.updated_at
        RETURNING ` + technicianColumns

	return r.scanRow(querierFrom(ctx, r.db).QueryRow(ctx, query, userID))
}

func (r *technicianRepository) GetByID(ctx context.Context, id string) (*domain.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians WHERE id=$1`
	return r.scanRow(querierFrom(ctx, r.db).QueryRow(ctx, query, id))
}

func (r *technicianRepository) GetByUserID(ctx context.Context, userID string) (*domain.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians WHERE user_id=$1`
	return r.scanRow(querierFrom(ctx, r.db).QueryRow(ctx, query, userID))
}

func (r *technicianRepository) Update(ctx context.Context, technician *domain.Technician) error {
	const query = `
        UPDATE technicians
        SET specialty=$1, experience_level=$2, active_flag=$3, updated_at=NOW()
        WHERE id=$4`

	cmd, err := querierFrom(ctx, r.db).Exec(ctx, query,
		technician.Specialty,
		technician.ExperienceLevel,
		technician.Active,
		technician.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *technicianRepository) List(ctx context.Context) ([]domain.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians ORDER BY created_at`
	rows, err := querierFrom(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Technician
	for rows.Next() {
		var tech domain.Technician
		if err := rows.Scan(
			&tech.ID,
			&tech.UserID,
			&tech.Specialty,
			&tech.ExperienceLevel,
			&tech.Active,
			&tech.CreatedAt,
			&tech.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, tech)
	}
	return result, rows.Err()
}

func (r *technicianRepository) scanRow(row pgx.Row) (*domain.Technician, error) {
	var tech domain.Technician
	if err := row.Scan(
		&tech.ID,
		&tech.UserID,
		&tech.Specialty,
		&tech.ExperienceLevel,
		&tech.Active,
		&tech.CreatedAt,
		&tech.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &tech, nil
}
