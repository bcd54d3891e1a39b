package models

import (
	"time"

	"anpl-sports-backend/internal/draft"
	"anpl-sports-backend/internal/eligibility"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	EventTypeBadminton = "BADMINTON"
	EventTypeCricket   = "CRICKET"
)

// Bundle and entry statuses.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusFailed   = "FAILED"
	StatusRejected = "REJECTED"
)

// Payment statuses.
const (
	PaymentCreated = "CREATED"
	PaymentPaid    = "PAID"
	PaymentFailed  = "FAILED"
)

type User struct {
	ID                 uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email              string     `gorm:"uniqueIndex;not null" json:"email"`
	Password           string     `gorm:"not null" json:"-"`
	Role               string     `gorm:"type:varchar(20);not null;default:'user'" json:"role"` // admin|user
	FullName           string     `gorm:"not null" json:"fullName"`
	Phone              string     `json:"phone"`
	RegistrationNumber string     `gorm:"index" json:"registrationNumber"`
	HouseNumber        string     `json:"houseNumber"`
	Address            string     `json:"address"`
	DateOfBirth        *time.Time `gorm:"type:date" json:"dateOfBirth"`
	Gender             string     `gorm:"type:varchar(10)" json:"gender"` // MALE|FEMALE, empty when unknown
	AadhaarFrontPhoto  string     `json:"aadhaarFrontPhoto"`
	AadhaarBackPhoto   string     `json:"aadhaarBackPhoto"`
	PlayerPhoto        string     `json:"playerPhoto"`
	TShirtSize         string     `gorm:"type:varchar(10)" json:"tshirtSize"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// Profile is the user as the eligibility rules see it.
func (u *User) Profile() eligibility.Profile {
	return eligibility.Profile{
		ID:                 u.ID.String(),
		FullName:           u.FullName,
		RegistrationNumber: u.RegistrationNumber,
		HouseNumber:        u.HouseNumber,
		DateOfBirth:        u.DateOfBirth,
		Gender:             eligibility.ParseGender(u.Gender),
		Contact:            u.Phone,
		Address:            u.Address,
		AadhaarFront:       u.AadhaarFrontPhoto,
		AadhaarBack:        u.AadhaarBackPhoto,
		PlayerPhoto:        u.PlayerPhoto,
		JerseySize:         u.TShirtSize,
	}
}

type Event struct {
	ID                    uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name                  string     `gorm:"not null" json:"name"`
	Slug                  string     `gorm:"uniqueIndex;not null" json:"slug"`
	EventType             string     `gorm:"type:varchar(20);index;not null" json:"eventType"` // BADMINTON|CRICKET
	Description           string     `gorm:"type:text" json:"description"`
	Venue                 string     `json:"venue"`
	Price                 int        `gorm:"default:0" json:"price"`
	RegistrationStartDate *time.Time `json:"registrationStartDate"`
	RegistrationEndDate   *time.Time `json:"registrationEndDate"`
	EventStartDate        *time.Time `json:"eventStartDate"`
	EventEndDate          *time.Time `json:"eventEndDate"`
	IsActive              bool       `gorm:"default:true" json:"isActive"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// Category is an entry class offered for every event of EventType.
type Category struct {
	ID                  uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventType           string    `gorm:"type:varchar(20);index;not null" json:"eventType"`
	Code                string    `gorm:"uniqueIndex;not null" json:"code"`
	Name                string    `gorm:"not null" json:"name"`
	CategoryType        string    `gorm:"type:varchar(10);not null" json:"categoryType"` // SOLO|DOUBLE|FAMILY
	AgeLimit            string    `json:"ageLimit"`
	PricePerParticipant int       `gorm:"not null" json:"pricePerParticipant"`
	DisplayOrder        int       `gorm:"default:0" json:"displayOrder"`
	Active              bool      `gorm:"default:true" json:"active"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// Rule converts the row into the eligibility representation. The category
// type has already been validated when the row was written.
func (c *Category) Rule() eligibility.Category {
	t, _ := eligibility.ParseCategoryType(c.CategoryType)
	return eligibility.Category{
		Code:                c.Code,
		Name:                c.Name,
		Type:                t,
		AgeLimit:            c.AgeLimit,
		PricePerParticipant: c.PricePerParticipant,
	}
}

// RegistrationBundle is one submission by one user for one event: the
// documents, jersey and availability shared by all of its entries.
type RegistrationBundle struct {
	ID                uuid.UUID             `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID            uuid.UUID             `gorm:"type:uuid;index;not null" json:"userId"`
	EventID           uuid.UUID             `gorm:"type:uuid;index;not null" json:"eventId"`
	Status            string                `gorm:"type:varchar(20);index;not null;default:'PENDING'" json:"status"`
	TotalAmount       int                   `gorm:"not null" json:"totalAmount"`
	AadhaarFrontPhoto string                `json:"aadhaarFrontPhoto"`
	AadhaarBackPhoto  string                `json:"aadhaarBackPhoto"`
	PlayerPhoto       string                `json:"playerPhoto"`
	JerseyName        string                `json:"jerseyName"`
	JerseyNumber      *int                  `gorm:"index" json:"jerseyNumber"`
	JerseySize        string                `json:"jerseySize"`
	AvailableAllDays  bool                  `gorm:"default:true" json:"availableAllDays"`
	UnavailableDates  []string              `gorm:"serializer:json" json:"unavailableDates"`
	TermsAccepted     bool                  `json:"termsAccepted"`
	Cricket           *draft.CricketDetails `gorm:"serializer:json" json:"cricket,omitempty"`
	PaymentOrderID    string                `gorm:"index" json:"paymentOrderId,omitempty"`
	PaymentReference  string                `json:"paymentReference,omitempty"`
	QRPath            string                `json:"qrPath,omitempty"`
	ReviewedBy        *uuid.UUID            `gorm:"type:uuid" json:"reviewedBy,omitempty"`
	ReviewedAt        *time.Time            `json:"reviewedAt,omitempty"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
	DeletedAt         gorm.DeletedAt        `gorm:"index" json:"-"`

	// Relations
	User    User                `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Event   Event               `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Entries []RegistrationEntry `gorm:"foreignKey:BundleID" json:"entries,omitempty"`
}

// RegistrationEntry is one category inside a bundle with a snapshot of the
// players as they were at submission.
type RegistrationEntry struct {
	ID                  uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BundleID            uuid.UUID  `gorm:"type:uuid;index;not null" json:"bundleId"`
	RegistrationCode    string     `gorm:"uniqueIndex;not null" json:"registrationCode"`
	Position            int        `gorm:"not null;default:0" json:"position"` // order within the submission
	CategoryCode        string     `gorm:"index;not null" json:"categoryCode"`
	CategoryName        string     `json:"categoryName"`
	CategoryType        string     `gorm:"type:varchar(10)" json:"categoryType"`
	AgeLimit            string     `json:"ageLimit"`
	PricePerParticipant int        `json:"pricePerParticipant"`
	Amount              int        `json:"amount"`
	PlayerName          string     `json:"playerName"`
	PlayerAge           *int       `json:"playerAge"`
	PartnerUserID       *uuid.UUID `gorm:"type:uuid" json:"partnerUserId,omitempty"`
	PartnerName         string     `json:"partnerName,omitempty"`
	PartnerAge          *int       `json:"partnerAge,omitempty"`
	PartnerContact      string     `json:"partnerContact,omitempty"`
	SelfRelation        string     `json:"selfRelation,omitempty"`
	PartnerRelation     string     `json:"partnerRelation,omitempty"`
	Notes               string     `gorm:"type:text" json:"notes,omitempty"`
	Status              string     `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// Payment is one gateway order raised for a bundle. Amount is in minor
// units.
type Payment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BundleID  uuid.UUID `gorm:"type:uuid;index;not null" json:"bundleId"`
	OrderID   string    `gorm:"uniqueIndex;not null" json:"orderId"`
	PaymentID string    `json:"paymentId,omitempty"`
	Signature string    `json:"-"`
	Amount    int       `gorm:"not null" json:"amount"`
	Currency  string    `gorm:"type:varchar(3);not null" json:"currency"`
	Status    string    `gorm:"type:varchar(20);not null;default:'CREATED'" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RegistrationOpen treats a missing bound as unbounded. The end date is
// inclusive.
func (e *Event) RegistrationOpen(now time.Time) bool {
	if e.RegistrationStartDate != nil && now.Before(startOfDay(*e.RegistrationStartDate)) {
		return false
	}
	if e.RegistrationEndDate != nil && !now.Before(startOfDay(*e.RegistrationEndDate).AddDate(0, 0, 1)) {
		return false
	}
	return true
}

// CoversDate reports whether day falls within the event dates. An event
// without dates covers every day.
func (e *Event) CoversDate(day time.Time) bool {
	if e.EventStartDate == nil || e.EventEndDate == nil {
		return true
	}
	d := startOfDay(day)
	return !d.Before(startOfDay(*e.EventStartDate)) && !d.After(startOfDay(*e.EventEndDate))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
