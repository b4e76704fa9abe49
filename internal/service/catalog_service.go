package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// CatalogService serves the reference data ticket forms are built from.
type CatalogService struct {
	catalog repository.CatalogRepository
}

// NewCatalogService builds the service.
func NewCatalogService(catalog repository.CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// Catalog bundles every reference list for the ticket form.
type Catalog struct {
	Categories []domain.Category
	Priorities []domain.Priority
	Statuses   []domain.Status
	Areas      []domain.Area
}

// Snapshot loads the full catalog in one call.
func (s *CatalogService) Snapshot(ctx context.Context) (*Catalog, error) {
	var (
		snapshot Catalog
		err      error
	)
	if snapshot.Categories, err = s.catalog.ListCategories(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}
	if snapshot.Priorities, err = s.catalog.ListPriorities(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}
	if snapshot.Statuses, err = s.catalog.ListStatuses(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}
	if snapshot.Areas, err = s.catalog.ListAreas(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &snapshot, nil
}

// Subcategories lists the subcategories of one category.
func (s *CatalogService) Subcategories(ctx context.Context, categoryID string) ([]domain.Subcategory, error) {
	if _, err := s.catalog.GetCategory(ctx, categoryID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("category", nil)
		}
		return nil, apperrors.MapError(err)
	}
	subcategories, err := s.catalog.ListSubcategories(ctx, categoryID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return subcategories, nil
}

// CategoryInput carries the admin-editable category fields. Nil means
// the field is left untouched on update.
type CategoryInput struct {
	Name        *string
	Description *string
	Active      *bool
}

// SubcategoryInput carries the admin-editable subcategory fields.
type SubcategoryInput struct {
	CategoryID  *string
	Name        *string
	Description *string
	Active      *bool
}

// PriorityInput carries the admin-editable priority fields. SLAHours
// follows double-pointer semantics: a nil outer pointer keeps the
// current value, an inner nil clears the objective.
type PriorityInput struct {
	Name        *string
	Description *string
	Level       *int
	SLAHours    **int
}

// StatusInput carries the admin-editable status fields.
type StatusInput struct {
	Name        *string
	Description *string
	IsFinal     *bool
}

// AreaInput carries the admin-editable area fields.
type AreaInput struct {
	Name        *string
	Description *string
}

func (s *CatalogService) requireCatalogAdmin(actor *domain.User) error {
	if !actor.Role.Can(domain.CapManageCatalog) {
		return apperrors.NewPermissionDenied("only administrators may edit the catalog")
	}
	return nil
}

func requiredName(name *string) (string, error) {
	if name == nil || strings.TrimSpace(*name) == "" {
		return "", apperrors.NewValidationError("name is required", nil)
	}
	return strings.TrimSpace(*name), nil
}

// CreateCategory adds a category. Admin only.
func (s *CatalogService) CreateCategory(ctx context.Context, actor *domain.User, input CategoryInput) (*domain.Category, error) {
	if err := s.requireCatalogAdmin(actor); err != nil {
		return nil, err
	}
	name, err := requiredName(input.Name)
	if err != nil {
		return nil, err
	}
	category := &domain.Category{Name: name, Active: true}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.Active != nil {
		category.Active = *input.Active
	}
	if err := s.catalog.CreateCategory(ctx, category); err != nil {
		return nil, mapCatalogWriteErr(err, "category")
	}
	return category, nil
}

// UpdateCategory patches a category. Admin only.
func (s *CatalogService) UpdateCategory(ctx context.Context, actor *domain.User, id string, input CategoryInput) (*domain.Category, error) {
	if err := s.requireCatalogAdmin(actor); err != nil {
		return nil, err
	}
	category, err := s.catalog.GetCategory(ctx, id)
	if err != nil {
		return nil, mapCatalogWriteErr(err, "category")
	}
	if input.Name != nil {
		if category.Name, err = requiredName(input.Name); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.Active != nil {
		category.Active = *input.Active
	}
	if err := s.catalog.UpdateCategory(ctx, category); err != nil {
		return nil, mapCatalogWriteErr(err, "category")
	}
	return category, nil
}

// CreateSubcategory adds a subcategory under an existing category.
// Admin only.
func (s *CatalogService) CreateSubcategory(ctx context.Context, actor *domain.User, input SubcategoryInput) (*domain.Subcategory, error) {
	if err := s.requireCatalogAdmin(actor); err != nil {
		return nil, err
	}
	name, err := requiredName(input.Name)
	if err != nil {
		return nil, err
	}
	if input.CategoryID == nil || *input.CategoryID == "" {
		return nil, apperrors.NewValidationError("category_id is required", nil)
	}
	if _, err := s.catalog.GetCategory(ctx, *input.CategoryID); err != nil {
		return nil, mapCatalogWriteErr(err, "category")
	}
	subcategory := &domain.Subcategory{CategoryID: *input.CategoryID, Name: name, Active: true}
	if input.Description != nil {
		subcategory.Description = *input.Description
	}
	if input.Active != nil {
		subcategory.Active = *input.Active
	}
	if err := s.catalog.CreateSubcategory(ctx, subcategory); err != nil {
		return nil, mapCatalogWriteErr(err, "subcategory")
	}
	return subcategory, nil
}

// UpdateSubcategory patches a subcategory. Admin only.
func (s *CatalogService) UpdateSubcategory(ctx context.Context, actor *domain.User, id string, input SubcategoryInput) (*domain.Subcategory, error) {
	if err := s.requireCatalogAdmin(actor); err != nil {
		return nil, err
	}
	subcategory, err := s.getSubcategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.CategoryID != nil {
		if _, err := s.catalog.GetCategory(ctx, *input.CategoryID); err != nil {
			return nil, mapCatalogWriteErr(err, "category")
		}
		subcategory.CategoryID = *input.CategoryID
	}
	if input.Name != nil {
		if subcategory.Name, err = requiredName(input.Name); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		subcategory.Description = *input.Description
	}
	if input.Active != nil {
		subcategory.Active = *input.Active
	}
	if err := s.catalog.UpdateSubcategory(ctx, subcategory); err != nil {
		return nil, mapCatalogWriteErr(err, "subcategory")
	}
	return subcategory, nil
}

// getSubcategory walks the per-category listing; the repository keys
// subcategory reads by category, not by id.
func (s *CatalogService) getSubcategory(ctx context.Context, id string) (*domain.Subcategory, error) {
	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for _, category := range categories {
		subcategories, err := s.catalog.ListSubcategories(ctx, category.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		for i := range subcategories {
			if subcategories[i].ID == id {
				return &subcategories[i], nil
			}
		}
	}
	return nil, apperrors.NewNotFound("subcategory", nil)
}

// CreatePriority adds a priority. Admin only.
func (s *CatalogService) CreatePriority(ctx context.Context, actor *domain.User, input PriorityInput) (*domain.Priority, error) {
	if err := s.requireCatalogAdmin(actor); err != nil {
		return nil, err
	}
	name, err := requiredName(input.Name)
	if err != nil {
		return nil, err
	}
	priority := &domain.Priority{Name: name}
	if input.Description != nil {
		priority.Description = *input.Description
	}
	if input.Level != nil {
		priority.Level = *input.Level
	}
	if input.SLAHours != nil {
		priority.SLAHours = *input.SLAHours
	}
	if priority.SLAHours != nil && *priority.SLAHours <= 0 {
		return nil, apperrors.NewValidationError("sla_hours must be positive", nil)
	}
	if err := s.catalog.CreatePriority(ctx, priority); err != nil {
		return nil, mapCatalogWriteErr(err, "priority")
	}
	return priority, nil
}

// UpdatePriority patches a priority. Admin only.
func (s *CatalogService) UpdatePriority(ctx context.Context, actor *domain.User, id string, input PriorityInput) (*domain.Priority, error) {
	if err := s.requireCatalogAdmin(actor); err != nil {
		return nil, err
	}
	priority, err := s.catalog.GetPriority(ctx, id)
	if err != nil {
		return nil, mapCatalogWriteErr(err, "priority")
	}
	if input.Name != nil {
		if priority.Name, err = requiredName(input.Name); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		priority.Description = *input.Description
	}
	if input.Level != nil {
		priority.Level = *input.Level
	}
	if input.SLAHours != nil {
		priority.SLAHours = *input.SLAHours
	}
	if priority.SLAHours != nil && *priority.SLAHours <= 0 {
		return nil, apperrors.NewValidationError("sla_hours must be positive", nil)
	}
	if err := s.catalog.UpdatePriority(ctx, priority); err != nil {
		return nil, mapCatalogWriteErr(err, "priority")
	}
	return priority, nil
}

// CreateStatus adds a lifecycle status. Admin only.
func (s *CatalogService) CreateStatus(ctx context.Context, actor *domain.User, input StatusInput) (*domain.Status, error) {
	if err := s.requireCatalogAdmin(actor); err != nil {
		return nil, err
	}
	name, err := requiredName(input.Name)
	if err != nil {
		return nil, err
	}
	status := &domain.Status{Name: name}
	if input.Description != nil {
		status.Description = *input.Description
	}
	if input.IsFinal != nil {
		status.IsFinal = *input.IsFinal
	}
	if err := s.catalog.CreateStatus(ctx, status); err != nil {
		return nil, mapCatalogWriteErr(err, "status")
	}
	return status, nil
}

// UpdateStatus patches a status. Admin only.
func (s *CatalogService) UpdateStatus(ctx context.Context, actor *domain.User, id string, input StatusInput) (*domain.Status, error) {
	if err := s.requireCatalogAdmin(actor); err != nil {
		return nil, err
	}
	status, err := s.catalog.GetStatus(ctx, id)
	if err != nil {
		return nil, mapCatalogWriteErr(err, "status")
	}
	if input.Name != nil {
		if status.Name, err = requiredName(input.Name); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		status.Description = *input.Description
	}
	if input.IsFinal != nil {
		status.IsFinal = *input.IsFinal
	}
	if err := s.catalog.UpdateStatus(ctx, status); err != nil {
		return nil, mapCatalogWriteErr(err, "status")
	}
	return status, nil
}

// CreateArea adds a business area. Admin only.
func (s *CatalogService) CreateArea(ctx context.Context, actor *domain.User, input AreaInput) (*domain.Area, error) {
	if err := s.requireCatalogAdmin(actor); err != nil {
		return nil, err
	}
	name, err := requiredName(input.Name)
	if err != nil {
		return nil, err
	}
	area := &domain.Area{Name: name}
	if input.Description != nil {
		area.Description = *input.Description
	}
	if err := s.catalog.CreateArea(ctx, area); err != nil {
		return nil, mapCatalogWriteErr(err, "area")
	}
	return area, nil
}

// UpdateArea patches a business area. Admin only.
func (s *CatalogService) UpdateArea(ctx context.Context, actor *domain.User, id string, input AreaInput) (*domain.Area, error) {
	if err := s.requireCatalogAdmin(actor); err != nil {
		return nil, err
	}
	area, err := s.catalog.GetArea(ctx, id)
	if err != nil {
		return nil, mapCatalogWriteErr(err, "area")
	}
	if input.Name != nil {
		if area.Name, err = requiredName(input.Name); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		area.Description = *input.Description
	}
	if err := s.catalog.UpdateArea(ctx, area); err != nil {
		return nil, mapCatalogWriteErr(err, "area")
	}
	return area, nil
}

func mapCatalogWriteErr(err error, resource string) error {
	switch {
	case err == pgx.ErrNoRows:
		return apperrors.NewNotFound(resource, nil)
	case repository.IsUniqueViolation(err):
		return apperrors.NewConflict(resource+" name already in use", nil)
	default:
		return apperrors.MapError(err)
	}
}

// EnsureStatus get-or-creates a status by name.
func (s *CatalogService) EnsureStatus(ctx context.Context, name, description string, isFinal bool) (*domain.Status, error) {
	status, err := s.catalog.EnsureStatus(ctx, name, description, isFinal)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return status, nil
}
