package repositories

import (
	"errors"
	"fmt"

	"anpl-sports-backend/internal/models"

	"gorm.io/gorm"
)

type EventRepository interface {
	CreateEvent(event *models.Event) error
	GetEventByID(id string) (*models.Event, error)
	GetEventBySlug(slug string) (*models.Event, error)
	ListEvents(offset, limit int, filters *EventFilters) ([]models.Event, int64, error)
	UpdateEvent(event *models.Event) error
	SoftDeleteEvent(id string) error
}

type EventFilters struct {
	IsActive  *bool
	EventType string
	Search    string
}

type eventRepo struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

// CreateEvent creates a new event
func (r *eventRepo) CreateEvent(event *models.Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}

	var existingEvent models.Event
	if err := r.db.Where("slug = ?", event.Slug).First(&existingEvent).Error; err == nil {
		return fmt.Errorf("event with slug '%s' already exists", event.Slug)
	}

	return r.db.Create(event).Error
}

// GetEventByID retrieves an event by its ID
func (r *eventRepo) GetEventByID(id string) (*models.Event, error) {
	if id == "" {
		return nil, errors.New("event ID cannot be empty")
	}

	var event models.Event
	if err := r.db.Where("id = ?", id).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("event", "ID "+id)
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return &event, nil
}

func (r *eventRepo) GetEventBySlug(slug string) (*models.Event, error) {
	if slug == "" {
		return nil, errors.New("event slug cannot be empty")
	}

	var event models.Event
	if err := r.db.Where("slug = ?", slug).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("event", "slug "+slug)
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return &event, nil
}

// ListEvents retrieves a paginated list of events, soonest first.
func (r *eventRepo) ListEvents(offset, limit int, filters *EventFilters) ([]models.Event, int64, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var events []models.Event
	var total int64

	query := r.db.Model(&models.Event{})

	if filters != nil {
		if filters.IsActive != nil {
			query = query.Where("is_active = ?", *filters.IsActive)
		}
		if filters.EventType != "" {
			query = query.Where("event_type = ?", filters.EventType)
		}
		if filters.Search != "" {
			searchTerm := "%" + filters.Search + "%"
			query = query.Where("name ILIKE ? OR description ILIKE ?", searchTerm, searchTerm)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	if err := query.
		Offset(offset).
		Limit(limit).
		Order("event_start_date ASC NULLS LAST, created_at DESC").
		Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}

	return events, total, nil
}

func (r *eventRepo) UpdateEvent(event *models.Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}

	var existingEvent models.Event
	if err := r.db.Where("id = ?", event.ID).First(&existingEvent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("event", "ID "+event.ID.String())
		}
		return fmt.Errorf("failed to check event existence: %w", err)
	}

	if event.Slug != existingEvent.Slug {
		var slugConflict models.Event
		if err := r.db.Where("slug = ? AND id != ?", event.Slug, event.ID).First(&slugConflict).Error; err == nil {
			return fmt.Errorf("event with slug '%s' already exists", event.Slug)
		}
	}

	return r.db.Save(event).Error
}

// SoftDeleteEvent closes an event by clearing is_active.
func (r *eventRepo) SoftDeleteEvent(id string) error {
	if id == "" {
		return errors.New("event ID cannot be empty")
	}

	result := r.db.Model(&models.Event{}).
		Where("id = ?", id).
		Update("is_active", false)

	if result.Error != nil {
		return fmt.Errorf("failed to soft delete event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("event", "ID "+id)
	}

	return nil
}
