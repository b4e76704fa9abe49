package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CatalogRepository persists the reference data tickets link to:
// categories, subcategories, priorities, statuses and affected areas.
// Migrations seed the standard set; administrators maintain it from
// there, and the idempotent status get-or-create covers first-ticket
// intake against an empty catalog.
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListSubcategories(ctx context.Context, categoryID string) ([]domain.Subcategory, error)
	ListPriorities(ctx context.Context) ([]domain.Priority, error)
	ListStatuses(ctx context.Context) ([]domain.Status, error)
	ListAreas(ctx context.Context) ([]domain.Area, error)

	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	GetPriority(ctx context.Context, id string) (*domain.Priority, error)
	GetStatus(ctx context.Context, id string) (*domain.Status, error)
	GetArea(ctx context.Context, id string) (*domain.Area, error)

	CreateCategory(ctx context.Context, category *domain.Category) error
	UpdateCategory(ctx context.Context, category *domain.Category) error
	CreateSubcategory(ctx context.Context, subcategory *domain.Subcategory) error
	UpdateSubcategory(ctx context.Context, subcategory *domain.Subcategory) error
	CreatePriority(ctx context.Context, priority *domain.Priority) error
	UpdatePriority(ctx context.Context, priority *domain.Priority) error
	CreateStatus(ctx context.Context, status *domain.Status) error
	UpdateStatus(ctx context.Context, status *domain.Status) error
	CreateArea(ctx context.Context, area *domain.Area) error
	UpdateArea(ctx context.Context, area *domain.Area) error

	// EnsureStatus returns the status with the given name, creating it
	// when the catalog does not have it yet.
	EnsureStatus(ctx context.Context, name, description string, isFinal bool) (*domain.Status, error)

	// FinalStatusIDs returns the ids of every terminal status. Aggregates
	// that need the backlog/resolved split share this single source.
	FinalStatusIDs(ctx context.Context) ([]string, error)
}

type catalogRepository struct {
	db Querier
}

// NewCatalogRepository instantiates the repository.
func NewCatalogRepository(db Querier) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const query = `SELECT id, name, description, active_flag, created_at FROM categories ORDER BY name`
	rows, err := querierFrom(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var cat domain.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.Active, &cat.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, cat)
	}
	return result, rows.Err()
}

func (r *catalogRepository) ListSubcategories(ctx context.Context, categoryID string) ([]domain.Subcategory, error) {
	const query = `
        SELECT id, category_id, name, description, active_flag, created_at
        FROM subcategories WHERE category_id=$1 ORDER BY name`
	rows, err := querierFrom(ctx, r.db).Query(ctx, query, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Subcategory
	for rows.Next() {
		var sub domain.Subcategory
		if err := rows.Scan(&sub.ID, &sub.CategoryID, &sub.Name, &sub.Description, &sub.Active, &sub.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, sub)
	}
	return result, rows.Err()
}

func (r *catalogRepository) ListPriorities(ctx context.Context) ([]domain.Priority, error) {
	const query = `SELECT id, name, description, level, sla_hours, created_at FROM priorities ORDER BY level`
	rows, err := querierFrom(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Priority
	for rows.Next() {
		var prio domain.Priority
		if err := rows.Scan(&prio.ID, &prio.Name, &prio.Description, &prio.Level, &prio.SLAHours, &prio.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, prio)
	}
	return result, rows.Err()
}

func (r *catalogRepository) ListStatuses(ctx context.Context) ([]domain.Status, error) {
	const query = `SELECT id, name, description, is_final, created_at FROM statuses ORDER BY name`
	rows, err := querierFrom(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Status
	for rows.Next() {
		var status domain.Status
		if err := rows.Scan(&status.ID, &status.Name, &status.Description, &status.IsFinal, &status.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, status)
	}
	return result, rows.Err()
}

func (r *catalogRepository) ListAreas(ctx context.Context) ([]domain.Area, error) {
	const query = `SELECT id, name, description, created_at FROM areas ORDER BY name`
	rows, err := querierFrom(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Area
	for rows.Next() {
		var area domain.Area
		if err := rows.Scan(&area.ID, &area.Name, &area.Description, &area.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, area)
	}
	return result, rows.Err()
}

func (r *catalogRepository) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	const query = `SELECT id, name, description, active_flag, created_at FROM categories WHERE id=$1`
	var cat domain.Category
	if err := querierFrom(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&cat.ID, &cat.Name, &cat.Description, &cat.Active, &cat.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *catalogRepository) GetPriority(ctx context.Context, id string) (*domain.Priority, error) {
	const query = `SELECT id, name, description, level, sla_hours, created_at FROM priorities WHERE id=$1`
	var prio domain.Priority
	if err := querierFrom(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&prio.ID, &prio.Name, &prio.Description, &prio.Level, &prio.SLAHours, &prio.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &prio, nil
}

func (r *catalogRepository) GetStatus(ctx context.Context, id string) (*domain.Status, error) {
	const query = `SELECT id, name, description, is_final, created_at FROM statuses WHERE id=$1`
	return r.scanStatus(querierFrom(ctx, r.db).QueryRow(ctx, query, id))
}

func (r *catalogRepository) GetArea(ctx context.Context, id string) (*domain.Area, error) {
	const query = `SELECT id, name, description, created_at FROM areas WHERE id=$1`
	var area domain.Area
	if err := querierFrom(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&area.ID, &area.Name, &area.Description, &area.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &area, nil
}

func (r *catalogRepository) CreateCategory(ctx context.Context, category *domain.Category) error {
	const query = `
        INSERT INTO categories (name, description, active_flag)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return querierFrom(ctx, r.db).QueryRow(ctx, query,
		category.Name, category.Description, category.Active,
	).Scan(&category.ID, &category.CreatedAt)
}

func (r *catalogRepository) UpdateCategory(ctx context.Context, category *domain.Category) error {
	const query = `UPDATE categories SET name=$2, description=$3, active_flag=$4 WHERE id=$1`
	tag, err := querierFrom(ctx, r.db).Exec(ctx, query,
		category.ID, category.Name, category.Description, category.Active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *catalogRepository) CreateSubcategory(ctx context.Context, subcategory *domain.Subcategory) error {
	const query = `
        INSERT INTO subcategories (category_id, name, description, active_flag)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return querierFrom(ctx, r.db).QueryRow(ctx, query,
		subcategory.CategoryID, subcategory.Name, subcategory.Description, subcategory.Active,
	).Scan(&subcategory.ID, &subcategory.CreatedAt)
}

func (r *catalogRepository) UpdateSubcategory(ctx context.Context, subcategory *domain.Subcategory) error {
	const query = `UPDATE subcategories SET name=$2, description=$3, active_flag=$4 WHERE id=$1`
	tag, err := querierFrom(ctx, r.db).Exec(ctx, query,
		subcategory.ID, subcategory.Name, subcategory.Description, subcategory.Active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *catalogRepository) CreatePriority(ctx context.Context, priority *domain.Priority) error {
	const query = `
        INSERT INTO priorities (name, description, level, sla_hours)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return querierFrom(ctx, r.db).QueryRow(ctx, query,
		priority.Name, priority.Description, priority.Level, priority.SLAHours,
	).Scan(&priority.ID, &priority.CreatedAt)
}

func (r *catalogRepository) UpdatePriority(ctx context.Context, priority *domain.Priority) error {
	const query = `UPDATE priorities SET name=$2, description=$3, level=$4, sla_hours=$5 WHERE id=$1`
	tag, err := querierFrom(ctx, r.db).Exec(ctx, query,
		priority.ID, priority.Name, priority.Description, priority.Level, priority.SLAHours)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *catalogRepository) CreateStatus(ctx context.Context, status *domain.Status) error {
	const query = `
        INSERT INTO statuses (name, description, is_final)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return querierFrom(ctx, r.db).QueryRow(ctx, query,
		status.Name, status.Description, status.IsFinal,
	).Scan(&status.ID, &status.CreatedAt)
}

func (r *catalogRepository) UpdateStatus(ctx context.Context, status *domain.Status) error {
	const query = `UPDATE statuses SET name=$2, description=$3, is_final=$4 WHERE id=$1`
	tag, err := querierFrom(ctx, r.db).Exec(ctx, query,
		status.ID, status.Name, status.Description, status.IsFinal)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *catalogRepository) CreateArea(ctx context.Context, area *domain.Area) error {
	const query = `
        INSERT INTO areas (name, description)
        VALUES ($1,$2)
        RETURNING id, created_at`
	return querierFrom(ctx, r.db).QueryRow(ctx, query,
		area.Name, area.Description,
	).Scan(&area.ID, &area.CreatedAt)
}

func (r *catalogRepository) UpdateArea(ctx context.Context, area *domain.Area) error {
	const query = `UPDATE areas SET name=$2, description=$3 WHERE id=$1`
	tag, err := querierFrom(ctx, r.db).Exec(ctx, query, area.ID, area.Name, area.Description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *catalogRepository) EnsureStatus(ctx context.Context, name, description string, isFinal bool) (*domain.Status, error) {
	const query = `
        INSERT INTO statuses (name, description, is_final)
        VALUES ($1,$2,$3)
        ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
        RETURNING id, name, description, is_final, created_at`
	return r.scanStatus(querierFrom(ctx, r.db).QueryRow(ctx, query, name, description, isFinal))
}

func (r *catalogRepository) FinalStatusIDs(ctx context.Context) ([]string, error) {
	const query = `SELECT id FROM statuses WHERE is_final`
	rows, err := querierFrom(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *catalogRepository) scanStatus(row pgx.Row) (*domain.Status, error) {
	var status domain.Status
	if err := row.Scan(&status.ID, &status.Name, &status.Description, &status.IsFinal, &status.CreatedAt); err != nil {
		return nil, err
	}
	return &status, nil
}
