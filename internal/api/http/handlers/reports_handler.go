package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// ReportsHandler serves the admin dashboard aggregates.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs the handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// Overview GET /reports/overview.
func (h *ReportsHandler) Overview(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var from, to time.Time
	if v := parseTime(c.Query("from")); v != nil {
		from = *v
	}
	if v := parseTime(c.Query("to")); v != nil {
		to = *v
	}

	overview, err := h.service.Overview(c.UserContext(), principal.User, from, to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReportOverview(overview)})
}
