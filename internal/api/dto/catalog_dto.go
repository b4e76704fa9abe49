package dto

import (
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// CategoryResponse response.
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

// SubcategoryResponse response.
type SubcategoryResponse struct {
	ID         string `json:"id"`
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Active     bool   `json:"active"`
}

// PriorityResponse response.
type PriorityResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
	SLAHours *int   `json:"sla_hours,omitempty"`
}

// StatusResponse response.
type StatusResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsFinal bool   `json:"is_final"`
}

// AreaResponse response.
type AreaResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryCreateRequest creates a catalog category.
type CategoryCreateRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// CategoryUpdateRequest patches a category; omitted fields are kept.
type CategoryUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// SubcategoryCreateRequest creates a subcategory under a category.
type SubcategoryCreateRequest struct {
	CategoryID  string  `json:"category_id" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// SubcategoryUpdateRequest patches a subcategory.
type SubcategoryUpdateRequest struct {
	CategoryID  *string `json:"category_id" validate:"omitempty,min=1"`
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// PriorityCreateRequest creates a priority. A missing sla_hours means
// tickets at this priority carry no resolution-time objective.
type PriorityCreateRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	Level       *int    `json:"level"`
	SLAHours    *int    `json:"sla_hours" validate:"omitempty,gt=0"`
}

// PriorityUpdateRequest patches a priority.
type PriorityUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	Level       *int    `json:"level"`
	SLAHours    *int    `json:"sla_hours" validate:"omitempty,gt=0"`
}

// StatusCreateRequest creates a lifecycle status.
type StatusCreateRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	IsFinal     *bool   `json:"is_final"`
}

// StatusUpdateRequest patches a status.
type StatusUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	IsFinal     *bool   `json:"is_final"`
}

// AreaCreateRequest creates a business area.
type AreaCreateRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

// AreaUpdateRequest patches a business area.
type AreaUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
}

// NewCategoryResponse maps a category.
func NewCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		Active:      category.Active,
	}
}

// NewSubcategoryResponse maps a subcategory.
func NewSubcategoryResponse(subcategory *domain.Subcategory) SubcategoryResponse {
	return SubcategoryResponse{
		ID:         subcategory.ID,
		CategoryID: subcategory.CategoryID,
		Name:       subcategory.Name,
		Active:     subcategory.Active,
	}
}

// NewPriorityResponse maps a priority.
func NewPriorityResponse(priority *domain.Priority) PriorityResponse {
	return PriorityResponse{
		ID:       priority.ID,
		Name:     priority.Name,
		Level:    priority.Level,
		SLAHours: priority.SLAHours,
	}
}

// NewStatusResponse maps a status.
func NewStatusResponse(status *domain.Status) StatusResponse {
	return StatusResponse{ID: status.ID, Name: status.Name, IsFinal: status.IsFinal}
}

// NewAreaResponse maps an area.
func NewAreaResponse(area *domain.Area) AreaResponse {
	return AreaResponse{ID: area.ID, Name: area.Name}
}

// CatalogResponse bundles the reference lists for the ticket form.
type CatalogResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Priorities []PriorityResponse `json:"priorities"`
	Statuses   []StatusResponse   `json:"statuses"`
	Areas      []AreaResponse     `json:"areas"`
}

// NewCatalogResponse maps the catalog snapshot.
func NewCatalogResponse(snapshot *service.Catalog) CatalogResponse {
	resp := CatalogResponse{
		Categories: make([]CategoryResponse, 0, len(snapshot.Categories)),
		Priorities: make([]PriorityResponse, 0, len(snapshot.Priorities)),
		Statuses:   make([]StatusResponse, 0, len(snapshot.Statuses)),
		Areas:      make([]AreaResponse, 0, len(snapshot.Areas)),
	}
	for i := range snapshot.Categories {
		resp.Categories = append(resp.Categories, NewCategoryResponse(&snapshot.Categories[i]))
	}
	for i := range snapshot.Priorities {
		resp.Priorities = append(resp.Priorities, NewPriorityResponse(&snapshot.Priorities[i]))
	}
	for i := range snapshot.Statuses {
		resp.Statuses = append(resp.Statuses, NewStatusResponse(&snapshot.Statuses[i]))
	}
	for i := range snapshot.Areas {
		resp.Areas = append(resp.Areas, NewAreaResponse(&snapshot.Areas[i]))
	}
	return resp
}

// NewSubcategoryResponses maps subcategories.
func NewSubcategoryResponses(subcategories []domain.Subcategory) []SubcategoryResponse {
	resp := make([]SubcategoryResponse, 0, len(subcategories))
	for i := range subcategories {
		resp = append(resp, NewSubcategoryResponse(&subcategories[i]))
	}
	return resp
}
