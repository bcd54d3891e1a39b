package handlers

import (
	"anpl-sports-backend/internal/draft"
	"anpl-sports-backend/internal/middleware"
	"anpl-sports-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// UploadResponse carries the stored reference of an uploaded document.
type UploadResponse struct {
	FilePath string `json:"filePath"`
}

// GetPendingRegistration returns the caller's resumable registration
// @Summary Pending registration
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param eventId query string true "Event ID"
// @Success 200 {object} utils.Response "data is omitted when nothing is pending"
// @Router /registrations/pending [get]
func (h *Handler) GetPendingRegistration(c *fiber.Ctx) error {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	pending, err := h.registrationSvc.GetPending(userID, c.Query("eventId"))
	if err != nil {
		return err
	}
	if pending == nil {
		return utils.Success(c, nil, "No pending registration")
	}

	return utils.Success(c, pending, "Pending registration retrieved successfully")
}

// UploadDocument stores an Aadhaar image or player photo
// @Summary Upload document
// @Tags Registrations
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param slot path string true "aadhaar-front, aadhaar-back or player-photo"
// @Param file formData file true "Document"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /registrations/upload/{slot} [post]
func (h *Handler) UploadDocument(c *fiber.Ctx) error {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "File is required")
	}

	path, err := h.uploadSvc.Upload(userID, c.Params("slot"), file)
	if err != nil {
		return err
	}

	return utils.Success(c, UploadResponse{FilePath: path}, "File uploaded successfully")
}

// CompleteRegistration validates and stores a registration
// @Summary Complete registration
// @Tags Registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body draft.SubmissionPayload true "Registration"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /registrations/complete [post]
func (h *Handler) CompleteRegistration(c *fiber.Ctx) error {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req draft.SubmissionPayload
	if err := middleware.BindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.registrationSvc.CompleteRegistration(userID, req)
	if err != nil {
		return err
	}

	return utils.Success(c, resp, "Registration submitted successfully")
}

// ListMyRegistrations returns the caller's registrations, newest first
// @Summary My registrations
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Response
// @Router /registrations [get]
func (h *Handler) ListMyRegistrations(c *fiber.Ctx) error {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	bundles, err := h.registrationSvc.ListForUser(userID)
	if err != nil {
		return err
	}

	return utils.Success(c, bundles, "Registrations retrieved successfully")
}

// GetRegistration returns one registration with its entries
// @Summary Get registration
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /registrations/{id} [get]
func (h *Handler) GetRegistration(c *fiber.Ctx) error {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	bundle, err := h.registrationSvc.GetForUser(userID, middleware.GetUserRole(c), c.Params("id"))
	if err != nil {
		return err
	}

	return utils.Success(c, bundle, "Registration retrieved successfully")
}

// GetReceipt serves the QR receipt of a paid registration
// @Summary Registration receipt
// @Tags Registrations
// @Produce png
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 200 {file} file
// @Failure 404 {object} utils.Response
// @Router /registrations/{id}/receipt [get]
func (h *Handler) GetReceipt(c *fiber.Ctx) error {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	path, err := h.registrationSvc.ReceiptPath(userID, middleware.GetUserRole(c), c.Params("id"))
	if err != nil {
		return err
	}

	c.Type("png")
	return c.SendFile(path)
}

// SearchUsers finds partner candidates by name or registration number
// @Summary Search players
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param query query string true "At least 3 characters"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /users/search [get]
func (h *Handler) SearchUsers(c *fiber.Ctx) error {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	players, err := h.directorySvc.Search(userID, c.Query("query"))
	if err != nil {
		return err
	}

	return utils.Success(c, players, "Players retrieved successfully")
}
