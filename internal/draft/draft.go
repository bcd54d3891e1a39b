// Package draft accumulates a registration before it is handed to the
// backend and rebuilds one from a saved server record.
package draft

import (
	"errors"
	"strings"

	"anpl-sports-backend/internal/eligibility"
)

type Status string

const (
	StatusNew                     Status = "NEW"
	StatusInProgress              Status = "IN_PROGRESS"
	StatusSubmittedPendingPayment Status = "SUBMITTED_PENDING_PAYMENT"
	StatusPaid                    Status = "PAID"
	StatusFailed                  Status = "FAILED"
	StatusRejected                Status = "REJECTED"
)

var (
	ErrAlreadySelected = errors.New("category already selected")
	ErrNotSelected     = errors.New("category not selected")
	ErrLocked          = errors.New("registration already submitted")
	ErrClosed          = errors.New("registration is closed")
	ErrReadOnly        = errors.New("category is not available for editing")
)

// Participant is a snapshot of one player taken when a selection is made.
type Participant struct {
	UserID       string
	Name         string
	Age          *int
	Contact      string
	Relation     eligibility.Relation
	HasDocuments bool
}

// Selection is one category entry in a draft.
type Selection struct {
	Category         eligibility.Category
	Primary          Participant
	Partner          *Participant
	Notes            string
	RegistrationCode string
	// ReadOnly entries came from the server for a category the local
	// catalog does not list. They are kept so totals stay in sync.
	ReadOnly bool
}

func (s Selection) Price() int {
	return s.Category.Type.ParticipantCount() * s.Category.PricePerParticipant
}

type Documents struct {
	AadhaarFront string
	AadhaarBack  string
	PlayerPhoto  string
}

func (d Documents) Complete() bool {
	return strings.TrimSpace(d.AadhaarFront) != "" &&
		strings.TrimSpace(d.AadhaarBack) != "" &&
		strings.TrimSpace(d.PlayerPhoto) != ""
}

// Jersey keeps the number as entered; Payload coerces it.
type Jersey struct {
	Name   string
	Number string
	Size   string
}

type Availability struct {
	AllDays          bool
	UnavailableDates []string
}

// CricketDetails is the player background collected by the cricket flow.
type CricketDetails struct {
	GameLevel            string `json:"gameLevel"`
	Preference           string `json:"cricketPreference"`
	IsWicketKeeper       bool   `json:"isWicketKeeper"`
	HasCaptainExperience bool   `json:"hasCaptainExperience"`
	BattingHand          string `json:"battingHand"`
	BowlingArm           string `json:"bowlingArm"`
	BowlingPace          string `json:"bowlingPace"`
	SportsHistory        string `json:"sportsHistory"`
	Achievements         string `json:"achievements"`
}

// Draft is a registration being assembled. It is not safe for concurrent
// use; one wizard owns it.
type Draft struct {
	eventID        string
	registrationID string
	status         Status
	documents      Documents
	selections     []Selection
	jersey         Jersey
	availability   Availability
	termsAccepted  bool
	cricket        *CricketDetails
}

func New(eventID string) *Draft {
	return &Draft{
		eventID:      eventID,
		status:       StatusNew,
		availability: Availability{AllDays: true},
	}
}

func (d *Draft) EventID() string            { return d.eventID }
func (d *Draft) RegistrationID() string     { return d.registrationID }
func (d *Draft) Status() Status             { return d.status }
func (d *Draft) Documents() Documents       { return d.documents }
func (d *Draft) Jersey() Jersey             { return d.jersey }
func (d *Draft) TermsAccepted() bool        { return d.termsAccepted }
func (d *Draft) Len() int                   { return len(d.selections) }
func (d *Draft) Availability() Availability { return cloneAvailability(d.availability) }

func (d *Draft) Cricket() *CricketDetails {
	if d.cricket == nil {
		return nil
	}
	c := *d.cricket
	return &c
}

// Editable reports whether selections may still change.
func (d *Draft) Editable() bool {
	return d.status == StatusNew || d.status == StatusInProgress
}

func (d *Draft) closed() bool {
	return d.status == StatusPaid || d.status == StatusRejected
}

func (d *Draft) touch() {
	if d.status == StatusNew {
		d.status = StatusInProgress
	}
}

func (d *Draft) index(code string) int {
	for i := range d.selections {
		if d.selections[i].Category.Code == code {
			return i
		}
	}
	return -1
}

func (d *Draft) Has(code string) bool { return d.index(code) >= 0 }

// Selections returns a copy in insertion order.
func (d *Draft) Selections() []Selection {
	out := make([]Selection, len(d.selections))
	for i, s := range d.selections {
		out[i] = cloneSelection(s)
	}
	return out
}

func (d *Draft) Selection(code string) (Selection, bool) {
	i := d.index(code)
	if i < 0 {
		return Selection{}, false
	}
	return cloneSelection(d.selections[i]), true
}

// Add appends a selection for cat. A second add of the same code leaves the
// draft unchanged and returns ErrAlreadySelected. An unknown category type
// panics.
func (d *Draft) Add(cat eligibility.Category, primary Participant, partner *Participant) error {
	cat.Type.ParticipantCount()
	if !d.Editable() {
		return ErrLocked
	}
	if d.Has(cat.Code) {
		return ErrAlreadySelected
	}
	if cat.Type != eligibility.Family && primary.Relation == "" {
		primary.Relation = eligibility.Self
	}
	s := Selection{Category: cat, Primary: primary}
	if partner != nil {
		p := *partner
		s.Partner = &p
	}
	d.selections = append(d.selections, s)
	d.touch()
	return nil
}

// Remove is idempotent.
func (d *Draft) Remove(code string) error {
	if !d.Editable() {
		return ErrLocked
	}
	i := d.index(code)
	if i < 0 {
		return nil
	}
	d.selections = append(d.selections[:i], d.selections[i+1:]...)
	d.touch()
	return nil
}

func (d *Draft) editSelection(code string, fn func(s *Selection)) error {
	if !d.Editable() {
		return ErrLocked
	}
	i := d.index(code)
	if i < 0 {
		return ErrNotSelected
	}
	if d.selections[i].ReadOnly {
		return ErrReadOnly
	}
	fn(&d.selections[i])
	d.touch()
	return nil
}

func (d *Draft) SetPartner(code string, partner *Participant) error {
	return d.editSelection(code, func(s *Selection) {
		if partner == nil {
			s.Partner = nil
			return
		}
		p := *partner
		s.Partner = &p
	})
}

func (d *Draft) SetNotes(code, notes string) error {
	return d.editSelection(code, func(s *Selection) { s.Notes = notes })
}

func (d *Draft) SetRelation(code string, self eligibility.Relation) error {
	return d.editSelection(code, func(s *Selection) { s.Primary.Relation = self })
}

// Prefill seeds a new draft from the player's profile without marking it
// as started.
func (d *Draft) Prefill(docs Documents, jerseySize string) {
	if d.status != StatusNew {
		return
	}
	d.documents = docs
	d.jersey.Size = jerseySize
}

func (d *Draft) SetDocuments(docs Documents) error {
	if d.closed() {
		return ErrClosed
	}
	d.documents = docs
	d.touch()
	return nil
}

func (d *Draft) SetJersey(j Jersey) error {
	if d.closed() {
		return ErrClosed
	}
	d.jersey = j
	d.touch()
	return nil
}

func (d *Draft) SetAvailability(a Availability) error {
	if d.closed() {
		return ErrClosed
	}
	d.availability = cloneAvailability(a)
	d.touch()
	return nil
}

func (d *Draft) SetCricket(c CricketDetails) error {
	if d.closed() {
		return ErrClosed
	}
	d.cricket = &c
	d.touch()
	return nil
}

// AcceptTerms is allowed on a submitted draft: terms are acknowledged again
// before every payment attempt.
func (d *Draft) AcceptTerms(accepted bool) error {
	if d.closed() {
		return ErrClosed
	}
	d.termsAccepted = accepted
	return nil
}

// Total is recomputed from the selections on every call.
func (d *Draft) Total() int {
	total := 0
	for _, s := range d.selections {
		total += s.Price()
	}
	return total
}

// MarkSubmitted records the backend id and locks the selections.
func (d *Draft) MarkSubmitted(registrationID string) {
	d.registrationID = registrationID
	d.status = StatusSubmittedPendingPayment
}

func (d *Draft) MarkPaid() { d.status = StatusPaid }

// Reopen unlocks a submitted or failed draft for editing. The registration
// id is kept so the backend updates the same record.
func (d *Draft) Reopen() error {
	switch d.status {
	case StatusSubmittedPendingPayment, StatusFailed:
		d.status = StatusInProgress
		return nil
	case StatusNew, StatusInProgress:
		return nil
	}
	return ErrClosed
}

// Clone returns a deep copy.
func (d *Draft) Clone() *Draft {
	c := *d
	if d.selections != nil {
		c.selections = d.Selections()
	}
	c.availability = cloneAvailability(d.availability)
	c.cricket = d.Cricket()
	return &c
}

func cloneSelection(s Selection) Selection {
	if s.Partner != nil {
		p := *s.Partner
		s.Partner = &p
	}
	if s.Primary.Age != nil {
		a := *s.Primary.Age
		s.Primary.Age = &a
	}
	if s.Partner != nil && s.Partner.Age != nil {
		a := *s.Partner.Age
		s.Partner.Age = &a
	}
	return s
}

func cloneAvailability(a Availability) Availability {
	if a.UnavailableDates != nil {
		a.UnavailableDates = append([]string(nil), a.UnavailableDates...)
	}
	return a
}
