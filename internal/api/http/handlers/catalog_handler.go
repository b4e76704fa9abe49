package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// CatalogHandler serves the reference data lists.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: catalogService}
}

// Snapshot GET /catalog.
func (h *CatalogHandler) Snapshot(c *fiber.Ctx) error {
	snapshot, err := h.service.Snapshot(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCatalogResponse(snapshot)})
}

// Subcategories GET /catalog/categories/:id/subcategories.
func (h *CatalogHandler) Subcategories(c *fiber.Ctx) error {
	subcategories, err := h.service.Subcategories(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSubcategoryResponses(subcategories)})
}

// CreateCategory POST /catalog/categories (admin).
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CategoryCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	category, err := h.service.CreateCategory(c.UserContext(), principal.User, service.CategoryInput{
		Name:        &req.Name,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCategoryResponse(category)})
}

// UpdateCategory PATCH /catalog/categories/:id (admin).
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CategoryUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	category, err := h.service.UpdateCategory(c.UserContext(), principal.User, c.Params("id"), service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoryResponse(category)})
}

// CreateSubcategory POST /catalog/subcategories (admin).
func (h *CatalogHandler) CreateSubcategory(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SubcategoryCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	subcategory, err := h.service.CreateSubcategory(c.UserContext(), principal.User, service.SubcategoryInput{
		CategoryID:  &req.CategoryID,
		Name:        &req.Name,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewSubcategoryResponse(subcategory)})
}

// UpdateSubcategory PATCH /catalog/subcategories/:id (admin).
func (h *CatalogHandler) UpdateSubcategory(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SubcategoryUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	subcategory, err := h.service.UpdateSubcategory(c.UserContext(), principal.User, c.Params("id"), service.SubcategoryInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSubcategoryResponse(subcategory)})
}

// CreatePriority POST /catalog/priorities (admin).
func (h *CatalogHandler) CreatePriority(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PriorityCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	priority, err := h.service.CreatePriority(c.UserContext(), principal.User, service.PriorityInput{
		Name:        &req.Name,
		Description: req.Description,
		Level:       req.Level,
		SLAHours:    &req.SLAHours,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewPriorityResponse(priority)})
}

// UpdatePriority PATCH /catalog/priorities/:id (admin).
func (h *CatalogHandler) UpdatePriority(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PriorityUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	input := service.PriorityInput{
		Name:        req.Name,
		Description: req.Description,
		Level:       req.Level,
	}
	if req.SLAHours != nil {
		input.SLAHours = &req.SLAHours
	}
	priority, err := h.service.UpdatePriority(c.UserContext(), principal.User, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPriorityResponse(priority)})
}

// CreateStatus POST /catalog/statuses (admin).
func (h *CatalogHandler) CreateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.StatusCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	status, err := h.service.CreateStatus(c.UserContext(), principal.User, service.StatusInput{
		Name:        &req.Name,
		Description: req.Description,
		IsFinal:     req.IsFinal,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewStatusResponse(status)})
}

// UpdateStatus PATCH /catalog/statuses/:id (admin).
func (h *CatalogHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	status, err := h.service.UpdateStatus(c.UserContext(), principal.User, c.Params("id"), service.StatusInput{
		Name:        req.Name,
		Description: req.Description,
		IsFinal:     req.IsFinal,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStatusResponse(status)})
}

// CreateArea POST /catalog/areas (admin).
func (h *CatalogHandler) CreateArea(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AreaCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	area, err := h.service.CreateArea(c.UserContext(), principal.User, service.AreaInput{
		Name:        &req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAreaResponse(area)})
}

// UpdateArea PATCH /catalog/areas/:id (admin).
func (h *CatalogHandler) UpdateArea(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AreaUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	area, err := h.service.UpdateArea(c.UserContext(), principal.User, c.Params("id"), service.AreaInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAreaResponse(area)})
}
