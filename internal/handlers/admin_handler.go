package handlers

import (
	"strconv"

	"anpl-sports-backend/internal/middleware"
	"anpl-sports-backend/internal/services"
	"anpl-sports-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type UpdateRegistrationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
}

// ListRegistrations returns registrations for review
// @Summary List registrations
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param eventId query string false "Event ID"
// @Param status query string false "PENDING, APPROVED, FAILED or REJECTED"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} utils.Response
// @Router /admin/registrations [get]
func (h *Handler) ListRegistrations(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	resp, err := h.adminSvc.ListRegistrations(services.RegistrationListRequest{
		EventID:  c.Query("eventId"),
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return err
	}

	meta := utils.NewMeta(resp.Page, resp.PageSize, resp.Total, resp.TotalPages)
	return utils.SuccessWithMeta(c, resp.Registrations, meta, "Registrations retrieved successfully")
}

// UpdateRegistrationStatus approves or rejects a registration
// @Summary Review registration
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Param request body UpdateRegistrationStatusRequest true "New status"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /admin/registrations/{id} [patch]
func (h *Handler) UpdateRegistrationStatus(c *fiber.Ctx) error {
	reviewerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req UpdateRegistrationStatusRequest
	if err := middleware.BindAndValidate(c, &req); err != nil {
		return err
	}

	bundle, err := h.adminSvc.UpdateStatus(reviewerID, c.Params("id"), req.Status)
	if err != nil {
		return err
	}

	return utils.Success(c, bundle, "Registration updated successfully")
}
