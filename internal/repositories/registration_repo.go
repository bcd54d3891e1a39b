package repositories

import (
	"errors"
	"fmt"
	"time"

	"anpl-sports-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entries are read back in the order they were submitted.
const entryOrder = "registration_entries.position ASC, registration_entries.created_at ASC"

type registrationRepo struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepo{db: db}
}

// SaveBundle writes the bundle and replaces its entries in one transaction.
// A bundle without an ID is inserted.
func (r *registrationRepo) SaveBundle(bundle *models.RegistrationBundle) error {
	if bundle == nil {
		return errors.New("bundle cannot be nil")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if bundle.ID == uuid.Nil {
			bundle.ID = uuid.New()
			if err := tx.Omit(clause.Associations).Create(bundle).Error; err != nil {
				return fmt.Errorf("failed to create bundle: %w", err)
			}
		} else {
			if err := tx.Where("bundle_id = ?", bundle.ID).Delete(&models.RegistrationEntry{}).Error; err != nil {
				return fmt.Errorf("failed to clear entries: %w", err)
			}
			if err := tx.Omit(clause.Associations).Save(bundle).Error; err != nil {
				return fmt.Errorf("failed to update bundle: %w", err)
			}
		}

		if len(bundle.Entries) == 0 {
			return nil
		}
		for i := range bundle.Entries {
			bundle.Entries[i].ID = uuid.Nil
			bundle.Entries[i].BundleID = bundle.ID
			bundle.Entries[i].Position = i
		}
		if err := tx.Create(&bundle.Entries).Error; err != nil {
			return fmt.Errorf("failed to create entries: %w", err)
		}
		return nil
	})
}

func (r *registrationRepo) GetBundleByID(id string) (*models.RegistrationBundle, error) {
	if id == "" {
		return nil, errors.New("bundle ID cannot be empty")
	}

	var bundle models.RegistrationBundle
	if err := r.db.
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order(entryOrder)
		}).
		Preload("User").
		Preload("Event").
		Where("id = ?", id).
		First(&bundle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("registration", "ID "+id)
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return &bundle, nil
}

// FindLatestBundle returns the newest bundle of the user for the event in
// one of statuses, or any status when none are given.
func (r *registrationRepo) FindLatestBundle(userID, eventID string, statuses ...string) (*models.RegistrationBundle, error) {
	query := r.db.
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order(entryOrder)
		}).
		Where("user_id = ? AND event_id = ?", userID, eventID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	var bundle models.RegistrationBundle
	if err := query.Order("created_at DESC").First(&bundle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("registration", "user "+userID)
		}
		return nil, fmt.Errorf("failed to find registration: %w", err)
	}
	return &bundle, nil
}

func (r *registrationRepo) ApprovedCategoryCodes(userID, eventID string) ([]string, error) {
	var codes []string
	if err := r.db.Model(&models.RegistrationEntry{}).
		Joins("JOIN registration_bundles ON registration_bundles.id = registration_entries.bundle_id").
		Where("registration_bundles.user_id = ? AND registration_bundles.event_id = ?", userID, eventID).
		Where("registration_bundles.status = ? AND registration_bundles.deleted_at IS NULL", models.StatusApproved).
		Pluck("registration_entries.category_code", &codes).Error; err != nil {
		return nil, fmt.Errorf("failed to list registered categories: %w", err)
	}
	return codes, nil
}

// JerseyNumberTaken reports whether a live bundle of another registration
// already holds number for the event.
func (r *registrationRepo) JerseyNumberTaken(eventID string, number int, excludeBundleID string) (bool, error) {
	query := r.db.Model(&models.RegistrationBundle{}).
		Where("event_id = ? AND jersey_number = ?", eventID, number).
		Where("status IN ?", []string{models.StatusPending, models.StatusApproved})
	if excludeBundleID != "" {
		query = query.Where("id <> ?", excludeBundleID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check jersey number: %w", err)
	}
	return count > 0, nil
}

func (r *registrationRepo) ListBundles(offset, limit int, filters *RegistrationFilters) ([]models.RegistrationBundle, int64, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := r.db.Model(&models.RegistrationBundle{})
	if filters != nil {
		if filters.EventID != "" {
			query = query.Where("event_id = ?", filters.EventID)
		}
		if filters.UserID != "" {
			query = query.Where("user_id = ?", filters.UserID)
		}
		switch {
		case filters.Status != "":
			query = query.Where("status = ?", filters.Status)
		case !filters.IncludeFailed:
			query = query.Where("status <> ?", models.StatusFailed)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count registrations: %w", err)
	}

	var bundles []models.RegistrationBundle
	if err := query.
		Preload("Entries").
		Preload("User").
		Preload("Event").
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&bundles).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list registrations: %w", err)
	}
	return bundles, total, nil
}

func (r *registrationRepo) SetPaymentOrder(bundleID, orderID string) error {
	result := r.db.Model(&models.RegistrationBundle{}).
		Where("id = ?", bundleID).
		Update("payment_order_id", orderID)
	if result.Error != nil {
		return fmt.Errorf("failed to store payment order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("registration", "ID "+bundleID)
	}
	return nil
}

// UpdateStatus moves the bundle and all of its entries to status.
func (r *registrationRepo) UpdateStatus(bundleID, status string, reviewer *models.User) error {
	updates := map[string]interface{}{"status": status}
	if reviewer != nil {
		now := time.Now().UTC()
		updates["reviewed_by"] = reviewer.ID
		updates["reviewed_at"] = &now
	}
	return r.updateWithEntries(bundleID, updates, status)
}

func (r *registrationRepo) MarkPaid(bundleID, paymentReference, qrPath string) error {
	return r.updateWithEntries(bundleID, map[string]interface{}{
		"status":            models.StatusApproved,
		"payment_reference": paymentReference,
		"qr_path":           qrPath,
	}, models.StatusApproved)
}

func (r *registrationRepo) updateWithEntries(bundleID string, updates map[string]interface{}, entryStatus string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.RegistrationBundle{}).Where("id = ?", bundleID).Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to update registration: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return notFound("registration", "ID "+bundleID)
		}
		if err := tx.Model(&models.RegistrationEntry{}).
			Where("bundle_id = ?", bundleID).
			Update("status", entryStatus).Error; err != nil {
			return fmt.Errorf("failed to update entries: %w", err)
		}
		return nil
	})
}
