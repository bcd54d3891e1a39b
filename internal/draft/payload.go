package draft

import (
	"sort"
	"strconv"
	"strings"

	"anpl-sports-backend/internal/eligibility"
)

// SubmissionPayload is the body of POST /registrations/complete.
type SubmissionPayload struct {
	EventID          string          `json:"eventId" validate:"required"`
	RegistrationID   string          `json:"registrationId,omitempty"`
	AadhaarFront     string          `json:"aadhaarFrontPhoto"`
	AadhaarBack      string          `json:"aadhaarBackPhoto"`
	PlayerPhoto      string          `json:"playerPhoto"`
	Entries          []EntryPayload  `json:"entries" validate:"dive"`
	JerseyName       string          `json:"jerseyName"`
	JerseyNumber     *int            `json:"jerseyNumber"`
	JerseySize       string          `json:"jerseySize"`
	AvailableAllDays bool            `json:"availableAllDays"`
	UnavailableDates []string        `json:"unavailableDates"`
	TermsAccepted    bool            `json:"termsAccepted"`
	TotalAmount      int             `json:"totalAmount"`
	Cricket          *CricketDetails `json:"cricket,omitempty"`
}

type EntryPayload struct {
	CategoryCode     string  `json:"categoryCode" validate:"required"`
	CategoryType     string  `json:"categoryType"`
	PlayerAge        *int    `json:"playerAge"`
	PartnerUserID    *string `json:"partnerUserId"`
	PartnerName      *string `json:"partnerName"`
	PartnerAge       *int    `json:"partnerAge"`
	PartnerContact   *string `json:"partnerContact"`
	SelfRelation     *string `json:"selfRelation"`
	PartnerRelation  *string `json:"partnerRelation"`
	Notes            string  `json:"notes"`
	RegistrationCode string  `json:"registrationCode,omitempty"`
}

// Payload serialises the draft. The same draft state always yields the same
// payload: text is trimmed, dates are sorted and de-duplicated, and relation
// fields are only set for family entries.
func (d *Draft) Payload() SubmissionPayload {
	p := SubmissionPayload{
		EventID:          d.eventID,
		RegistrationID:   d.registrationID,
		AadhaarFront:     strings.TrimSpace(d.documents.AadhaarFront),
		AadhaarBack:      strings.TrimSpace(d.documents.AadhaarBack),
		PlayerPhoto:      strings.TrimSpace(d.documents.PlayerPhoto),
		Entries:          make([]EntryPayload, 0, len(d.selections)),
		JerseyName:       strings.TrimSpace(d.jersey.Name),
		JerseyNumber:     ParseNumber(d.jersey.Number),
		JerseySize:       strings.ToUpper(strings.TrimSpace(d.jersey.Size)),
		AvailableAllDays: d.availability.AllDays,
		UnavailableDates: []string{},
		TermsAccepted:    d.termsAccepted,
		TotalAmount:      d.Total(),
	}
	if !d.availability.AllDays {
		p.UnavailableDates = normaliseDates(d.availability.UnavailableDates)
	}
	if d.cricket != nil {
		c := trimCricket(*d.cricket)
		p.Cricket = &c
	}
	for _, s := range d.selections {
		p.Entries = append(p.Entries, entryPayload(s))
	}
	return p
}

func entryPayload(s Selection) EntryPayload {
	e := EntryPayload{
		CategoryCode:     s.Category.Code,
		CategoryType:     string(s.Category.Type),
		PlayerAge:        copyInt(s.Primary.Age),
		Notes:            strings.TrimSpace(s.Notes),
		RegistrationCode: s.RegistrationCode,
	}
	if s.Partner != nil {
		e.PartnerUserID = optString(s.Partner.UserID)
		e.PartnerName = optString(s.Partner.Name)
		e.PartnerAge = copyInt(s.Partner.Age)
		e.PartnerContact = optString(s.Partner.Contact)
	}
	if s.Category.Type == eligibility.Family {
		e.SelfRelation = optString(string(s.Primary.Relation))
		if s.Partner != nil {
			e.PartnerRelation = optString(string(s.Partner.Relation))
		}
	}
	return e
}

// ParseNumber reads a user-entered integer. Blank or malformed input is nil.
func ParseNumber(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}

func normaliseDates(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, d := range in {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func trimCricket(c CricketDetails) CricketDetails {
	c.GameLevel = strings.TrimSpace(c.GameLevel)
	c.Preference = strings.TrimSpace(c.Preference)
	c.BattingHand = strings.TrimSpace(c.BattingHand)
	c.BowlingArm = strings.TrimSpace(c.BowlingArm)
	c.BowlingPace = strings.TrimSpace(c.BowlingPace)
	c.SportsHistory = strings.TrimSpace(c.SportsHistory)
	c.Achievements = strings.TrimSpace(c.Achievements)
	return c
}

func optString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	n := *p
	return &n
}
