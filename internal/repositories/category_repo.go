package repositories

import (
	"errors"
	"fmt"

	"anpl-sports-backend/internal/models"

	"gorm.io/gorm"
)

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

// ListByEventType returns the active categories in display order.
func (r *categoryRepo) ListByEventType(eventType string) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.
		Where("event_type = ? AND active = ?", eventType, true).
		Order("display_order ASC, name ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Upsert inserts the category or refreshes the row with the same code.
func (r *categoryRepo) Upsert(category *models.Category) error {
	if category == nil {
		return errors.New("category cannot be nil")
	}

	var existing models.Category
	err := r.db.Where("code = ?", category.Code).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return r.db.Create(category).Error
	case err != nil:
		return fmt.Errorf("failed to get category: %w", err)
	}

	category.ID = existing.ID
	category.CreatedAt = existing.CreatedAt
	return r.db.Save(category).Error
}
