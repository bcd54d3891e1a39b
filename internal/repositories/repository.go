package repositories

import (
	"errors"
	"fmt"

	"anpl-sports-backend/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound is wrapped by every lookup that finds no row.
var ErrNotFound = errors.New("record not found")

type Repository struct {
	DB               *gorm.DB
	EventRepo        EventRepository
	UserRepo         UserRepository
	CategoryRepo     CategoryRepository
	RegistrationRepo RegistrationRepository
	PaymentRepo      PaymentRepository
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:               db,
		EventRepo:        NewEventRepository(db),
		UserRepo:         NewUserRepository(db),
		CategoryRepo:     NewCategoryRepository(db),
		RegistrationRepo: NewRegistrationRepository(db),
		PaymentRepo:      NewPaymentRepository(db),
	}
}

func AutoMigrate(db *gorm.DB) error {
	// Enable UUID extension
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Category{},
		&models.RegistrationBundle{},
		&models.RegistrationEntry{},
		&models.Payment{},
	)
}

// Interface definitions
type UserRepository interface {
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	GetUsersByIDs(ids []string) ([]models.User, error)
	SearchUsers(query string, limit int) ([]models.User, error)
	CreateUser(user *models.User) error
	UpdateUser(user *models.User) error
}

type CategoryRepository interface {
	ListByEventType(eventType string) ([]models.Category, error)
	Upsert(category *models.Category) error
}

type RegistrationFilters struct {
	EventID string
	UserID  string
	Status  string
	// IncludeFailed lists FAILED bundles when no Status is given.
	IncludeFailed bool
}

type RegistrationRepository interface {
	SaveBundle(bundle *models.RegistrationBundle) error
	GetBundleByID(id string) (*models.RegistrationBundle, error)
	FindLatestBundle(userID, eventID string, statuses ...string) (*models.RegistrationBundle, error)
	ApprovedCategoryCodes(userID, eventID string) ([]string, error)
	JerseyNumberTaken(eventID string, number int, excludeBundleID string) (bool, error)
	ListBundles(offset, limit int, filters *RegistrationFilters) ([]models.RegistrationBundle, int64, error)
	SetPaymentOrder(bundleID, orderID string) error
	UpdateStatus(bundleID, status string, reviewer *models.User) error
	MarkPaid(bundleID, paymentReference, qrPath string) error
}

type PaymentRepository interface {
	CreatePayment(payment *models.Payment) error
	GetPaymentByOrderID(orderID string) (*models.Payment, error)
	UpdatePayment(payment *models.Payment) error
}

func notFound(what, key string) error {
	return fmt.Errorf("%s not found with %s: %w", what, key, ErrNotFound)
}
