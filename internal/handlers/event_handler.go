package handlers

import (
	"strconv"
	"strings"
	"time"

	"anpl-sports-backend/internal/middleware"
	"anpl-sports-backend/internal/services"
	"anpl-sports-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateEventRequest struct {
	Name                  string `json:"name" validate:"required"`
	Slug                  string `json:"slug" validate:"required,alphanum"`
	EventType             string `json:"eventType" validate:"required,oneof=BADMINTON CRICKET"`
	Description           string `json:"description"`
	Venue                 string `json:"venue"`
	Price                 int    `json:"price" validate:"gte=0"`
	RegistrationStartDate string `json:"registrationStartDate"`
	RegistrationEndDate   string `json:"registrationEndDate"`
	EventStartDate        string `json:"eventStartDate"`
	EventEndDate          string `json:"eventEndDate"`
}

type SeedCategoriesRequest struct {
	EventType string `json:"eventType" validate:"required,oneof=BADMINTON CRICKET"`
}

// parseDate accepts yyyy-mm-dd or RFC3339. Blank is nil.
func parseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+field+" format")
}

// CreateEvent creates a new event
// @Summary Create event
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateEventRequest true "Event data"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /admin/events [post]
func (h *Handler) CreateEvent(c *fiber.Ctx) error {
	var req CreateEventRequest
	if err := middleware.BindAndValidate(c, &req); err != nil {
		return err
	}

	eventReq := services.CreateEventRequest{
		Name:        req.Name,
		Slug:        req.Slug,
		EventType:   req.EventType,
		Description: req.Description,
		Venue:       req.Venue,
		Price:       req.Price,
	}
	dates := []struct {
		field string
		value string
		dst   **time.Time
	}{
		{"registrationStartDate", req.RegistrationStartDate, &eventReq.RegistrationStartDate},
		{"registrationEndDate", req.RegistrationEndDate, &eventReq.RegistrationEndDate},
		{"eventStartDate", req.EventStartDate, &eventReq.EventStartDate},
		{"eventEndDate", req.EventEndDate, &eventReq.EventEndDate},
	}
	for _, d := range dates {
		t, err := parseDate(d.field, d.value)
		if err != nil {
			return err
		}
		*d.dst = t
	}

	event, err := h.eventSvc.CreateEvent(eventReq)
	if err != nil {
		return err
	}

	return utils.Success(c, event, "Event created successfully", fiber.StatusCreated)
}

// ListEvents returns paginated list of active events
// @Summary List events
// @Tags Events
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param eventType query string false "BADMINTON or CRICKET"
// @Success 200 {object} utils.Response
// @Router /events [get]
func (h *Handler) ListEvents(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	events, total, totalPages, err := h.eventSvc.ListEvents(page, pageSize, c.Query("eventType"))
	if err != nil {
		return err
	}

	return utils.SuccessWithMeta(c, events, utils.NewMeta(page, pageSize, total, totalPages), "Events retrieved successfully")
}

// GetEvent returns event by ID
// @Summary Get event by ID
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /events/{id} [get]
func (h *Handler) GetEvent(c *fiber.Ctx) error {
	eventID := c.Params("id")
	if _, err := uuid.Parse(eventID); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid event ID")
	}

	event, err := h.eventSvc.GetEvent(eventID)
	if err != nil {
		return err
	}

	return utils.Success(c, event, "Event retrieved successfully")
}

// GetEventBySlug returns event by slug
// @Summary Get event by slug
// @Tags Events
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /events/slug/{slug} [get]
func (h *Handler) GetEventBySlug(c *fiber.Ctx) error {
	event, err := h.eventSvc.GetEventBySlug(c.Params("slug"))
	if err != nil {
		return err
	}

	return utils.Success(c, event, "Event retrieved successfully")
}

// CloseEvent deactivates an event so it no longer takes registrations.
// @Summary Close event
// @Tags Admin
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /admin/events/{id} [delete]
func (h *Handler) CloseEvent(c *fiber.Ctx) error {
	eventID := c.Params("id")
	if _, err := uuid.Parse(eventID); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid event ID")
	}

	if err := h.eventSvc.CloseEvent(eventID); err != nil {
		return err
	}

	return utils.Success(c, nil, "Event closed successfully")
}

// ListCategories returns the ordered category catalog of an event
// @Summary List categories
// @Tags Events
// @Produce json
// @Param eventId query string true "Event ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /categories [get]
func (h *Handler) ListCategories(c *fiber.Ctx) error {
	eventID := c.Query("eventId")
	if _, err := uuid.Parse(eventID); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid event ID")
	}

	categories, err := h.categorySvc.ListForEvent(eventID)
	if err != nil {
		return err
	}

	return utils.Success(c, categories, "Categories retrieved successfully")
}

// SeedCategories installs the built-in catalog for an event type.
// @Summary Seed categories
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SeedCategoriesRequest true "Event type"
// @Success 200 {object} utils.Response
// @Router /admin/categories/seed [post]
func (h *Handler) SeedCategories(c *fiber.Ctx) error {
	var req SeedCategoriesRequest
	if err := middleware.BindAndValidate(c, &req); err != nil {
		return err
	}

	n, err := h.categorySvc.Seed(req.EventType)
	if err != nil {
		return err
	}

	return utils.Success(c, fiber.Map{"seeded": n}, "Categories seeded successfully")
}
