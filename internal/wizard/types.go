// Package wizard drives a registration through its steps: documents,
// category or profile selection, and review with payment. It orchestrates
// the draft and eligibility packages and talks to the backend only through
// the ports declared here.
package wizard

import (
	"context"
	"errors"
	"io"
	"time"

	"anpl-sports-backend/internal/draft"
	"anpl-sports-backend/internal/eligibility"
)

type Step int

const (
	StepDocuments Step = iota
	StepCategories
	StepReview
	StepSubmitted
)

func (s Step) String() string {
	switch s {
	case StepDocuments:
		return "documents"
	case StepCategories:
		return "categories"
	case StepReview:
		return "review"
	case StepSubmitted:
		return "submitted"
	}
	return "unknown"
}

// Slot names an uploadable document.
type Slot string

const (
	SlotAadhaarFront Slot = "aadhaar-front"
	SlotAadhaarBack  Slot = "aadhaar-back"
	SlotPlayerPhoto  Slot = "player-photo"
)

func (s Slot) Valid() bool {
	switch s {
	case SlotAadhaarFront, SlotAadhaarBack, SlotPlayerPhoto:
		return true
	}
	return false
}

func (s Slot) Label() string {
	switch s {
	case SlotAadhaarFront:
		return "Aadhaar front image"
	case SlotAadhaarBack:
		return "Aadhaar back image"
	case SlotPlayerPhoto:
		return "player photo"
	}
	return string(s)
}

const dateLayout = "2006-01-02"

// Event is the metadata the wizard needs about the event being entered.
type Event struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	EventType         string     `json:"eventType"`
	Price             int        `json:"price"`
	RegistrationStart *time.Time `json:"registrationStartDate"`
	RegistrationEnd   *time.Time `json:"registrationEndDate"`
	StartDate         *time.Time `json:"eventStartDate"`
	EndDate           *time.Time `json:"eventEndDate"`
}

// Dates lists every event day as yyyy-mm-dd. It is empty when the event has
// no date range.
func (e Event) Dates() []string {
	if e.StartDate == nil || e.EndDate == nil {
		return nil
	}
	start := truncateDay(*e.StartDate)
	end := truncateDay(*e.EndDate)
	var out []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(dateLayout))
	}
	return out
}

// RegistrationOpen treats a missing bound as unbounded. The end date is
// inclusive.
func (e Event) RegistrationOpen(now time.Time) bool {
	if e.RegistrationStart != nil && now.Before(truncateDay(*e.RegistrationStart)) {
		return false
	}
	if e.RegistrationEnd != nil && !now.Before(truncateDay(*e.RegistrationEnd).AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Session is the signed-in user the wizard acts for.
type Session struct {
	Token   string
	Profile eligibility.Profile
}

// Completion is the backend's answer to a submitted draft.
type Completion struct {
	RegistrationID     string `json:"registrationId"`
	TotalPayableAmount int    `json:"totalPayableAmount"`
	ReadyForPayment    bool   `json:"readyForPayment"`
}

// Order is a payment order created for a registration. Amount is in minor
// units.
type Order struct {
	OrderID  string `json:"orderId"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

type Verification struct {
	RegistrationID string `json:"registrationId"`
	OrderID        string `json:"orderId"`
	PaymentID      string `json:"paymentId"`
	Signature      string `json:"signature"`
}

// RegistrationAPI is the backend the wizard loads from and submits to.
// PendingRegistration returns nil, nil when there is nothing to resume.
type RegistrationAPI interface {
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	ListCategories(ctx context.Context, eventID string) ([]eligibility.Category, error)
	PendingRegistration(ctx context.Context, eventID string) (*draft.ServerDraft, error)
	Complete(ctx context.Context, payload draft.SubmissionPayload) (*Completion, error)
}

type Uploader interface {
	Upload(ctx context.Context, slot Slot, filename string, content io.Reader) (string, error)
}

type PartnerDirectory interface {
	Search(ctx context.Context, query string) ([]eligibility.Profile, error)
}

type PaymentAPI interface {
	Initiate(ctx context.Context, registrationID string, amount int) (*Order, error)
	Verify(ctx context.Context, v Verification) error
}

type Kind string

const (
	KindValidation  Kind = "validation"
	KindEligibility Kind = "eligibility"
	KindNetwork     Kind = "network"
	KindPayment     Kind = "payment"
)

// Error is every failure the wizard reports. Field names the input at fault
// for validation errors; Reason carries the eligibility rule that failed.
type Error struct {
	Kind    Kind
	Field   string
	Reason  eligibility.Reason
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func validationErr(field, msg string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: msg}
}

func eligibilityErr(reason eligibility.Reason, msg string) *Error {
	return &Error{Kind: KindEligibility, Reason: reason, Message: msg}
}

// RemoteError is returned by API adapters when the backend answered with an
// error body. Its message is shown to the user verbatim.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string { return e.Message }

// networkErr keeps the backend's message when it sent one.
func networkErr(kind Kind, err error, fallback string) *Error {
	msg := fallback
	var remote *RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		msg = remote.Message
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}

// ErrStaleSearch is returned by SearchPartners when a newer search replaced
// this one. Callers drop its results.
var ErrStaleSearch = errors.New("search superseded")
