package services

import (
	"errors"
	"strings"
	"time"

	"anpl-sports-backend/internal/config"
	"anpl-sports-backend/internal/models"
	"anpl-sports-backend/internal/repositories"

	"github.com/google/uuid"
)

type EventService struct {
	repo *repositories.Repository
	cfg  *config.Config
}

func NewEventService(repo *repositories.Repository, cfg *config.Config) *EventService {
	return &EventService{repo: repo, cfg: cfg}
}

type CreateEventRequest struct {
	Name                  string
	Slug                  string
	EventType             string
	Description           string
	Venue                 string
	Price                 int
	RegistrationStartDate *time.Time
	RegistrationEndDate   *time.Time
	EventStartDate        *time.Time
	EventEndDate          *time.Time
}

func (s *EventService) CreateEvent(req CreateEventRequest) (*models.Event, error) {
	eventType := strings.ToUpper(strings.TrimSpace(req.EventType))
	if eventType != models.EventTypeBadminton && eventType != models.EventTypeCricket {
		return nil, validation("event type must be BADMINTON or CRICKET")
	}
	if req.Price < 0 {
		return nil, validation("price cannot be negative")
	}
	if req.EventStartDate != nil && req.EventEndDate != nil && req.EventEndDate.Before(*req.EventStartDate) {
		return nil, validation("end date must be after start date")
	}
	if req.RegistrationStartDate != nil && req.RegistrationEndDate != nil && req.RegistrationEndDate.Before(*req.RegistrationStartDate) {
		return nil, validation("registration end date must be after registration start date")
	}

	event := &models.Event{
		ID:                    uuid.New(),
		Name:                  req.Name,
		Slug:                  req.Slug,
		EventType:             eventType,
		Description:           req.Description,
		Venue:                 req.Venue,
		Price:                 req.Price,
		RegistrationStartDate: req.RegistrationStartDate,
		RegistrationEndDate:   req.RegistrationEndDate,
		EventStartDate:        req.EventStartDate,
		EventEndDate:          req.EventEndDate,
		IsActive:              true,
	}

	if err := s.repo.EventRepo.CreateEvent(event); err != nil {
		return nil, NewServiceError(err.Error(), ErrConflict, err)
	}

	return event, nil
}

// ListEvents returns active events, optionally of one type.
func (s *EventService) ListEvents(page, pageSize int, eventType string) ([]models.Event, int64, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	active := true
	filters := &repositories.EventFilters{
		IsActive:  &active,
		EventType: strings.ToUpper(strings.TrimSpace(eventType)),
	}

	offset := (page - 1) * pageSize
	events, total, err := s.repo.EventRepo.ListEvents(offset, pageSize, filters)
	if err != nil {
		return nil, 0, 0, dbError("failed to fetch events", err)
	}

	totalPages := (int(total) + pageSize - 1) / pageSize
	return events, total, totalPages, nil
}

func (s *EventService) GetEvent(id string) (*models.Event, error) {
	event, err := s.repo.EventRepo.GetEventByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewServiceError("Event not found", ErrNotFound, err)
		}
		return nil, dbError("failed to load event", err)
	}
	return event, nil
}

func (s *EventService) GetEventBySlug(slug string) (*models.Event, error) {
	event, err := s.repo.EventRepo.GetEventBySlug(slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewServiceError("Event not found", ErrNotFound, err)
		}
		return nil, dbError("failed to load event", err)
	}
	return event, nil
}

func (s *EventService) CloseEvent(id string) error {
	if err := s.repo.EventRepo.SoftDeleteEvent(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return NewServiceError("Event not found", ErrNotFound, err)
		}
		return dbError("failed to close event", err)
	}
	return nil
}
