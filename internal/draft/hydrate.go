package draft

import (
	"fmt"
	"strconv"
	"strings"

	"anpl-sports-backend/internal/eligibility"
)

// ServerDraft is a saved registration as the backend reports it from
// GET /registrations/pending.
type ServerDraft struct {
	RegistrationID   string          `json:"registrationId"`
	EventID          string          `json:"eventId"`
	Status           string          `json:"status"`
	AadhaarFront     string          `json:"aadhaarFrontPhoto"`
	AadhaarBack      string          `json:"aadhaarBackPhoto"`
	PlayerPhoto      string          `json:"playerPhoto"`
	JerseyName       string          `json:"jerseyName"`
	JerseyNumber     *int            `json:"jerseyNumber"`
	JerseySize       string          `json:"jerseySize"`
	AvailableAllDays bool            `json:"availableAllDays"`
	UnavailableDates []string        `json:"unavailableDates"`
	TotalAmount      int             `json:"totalAmount"`
	PaymentOrderID   string          `json:"paymentOrderId,omitempty"`
	Entries          []ServerEntry   `json:"entries"`
	Cricket          *CricketDetails `json:"cricket,omitempty"`
}

type ServerEntry struct {
	RegistrationCode    string `json:"registrationCode"`
	CategoryCode        string `json:"categoryCode"`
	CategoryName        string `json:"categoryName"`
	CategoryType        string `json:"categoryType"`
	AgeLimit            string `json:"ageLimit"`
	PricePerParticipant int    `json:"pricePerParticipant"`
	PlayerName          string `json:"playerName"`
	PlayerAge           *int   `json:"playerAge"`
	PartnerUserID       string `json:"partnerUserId,omitempty"`
	PartnerName         string `json:"partnerName,omitempty"`
	PartnerAge          *int   `json:"partnerAge,omitempty"`
	PartnerContact      string `json:"partnerContact,omitempty"`
	SelfRelation        string `json:"selfRelation,omitempty"`
	PartnerRelation     string `json:"partnerRelation,omitempty"`
	Notes               string `json:"notes,omitempty"`
	Status              string `json:"status,omitempty"`
}

// StatusFromServer maps a backend registration status onto the draft
// lifecycle.
func StatusFromServer(s string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "DRAFT":
		return StatusInProgress, nil
	case "PENDING":
		return StatusSubmittedPendingPayment, nil
	case "PAID", "APPROVED":
		return StatusPaid, nil
	case "FAILED":
		return StatusFailed, nil
	case "REJECTED":
		return StatusRejected, nil
	}
	return "", fmt.Errorf("unknown registration status %q", s)
}

// Hydrate rebuilds a draft from a saved server record. Entries whose
// category is missing from catalog are kept read-only using the server's
// recorded type and price. Terms are never carried over.
func Hydrate(server ServerDraft, catalog []eligibility.Category) (*Draft, error) {
	status, err := StatusFromServer(server.Status)
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]eligibility.Category, len(catalog))
	for _, c := range catalog {
		byCode[c.Code] = c
	}

	d := New(server.EventID)
	d.registrationID = server.RegistrationID
	d.documents = Documents{
		AadhaarFront: server.AadhaarFront,
		AadhaarBack:  server.AadhaarBack,
		PlayerPhoto:  server.PlayerPhoto,
	}
	d.jersey = Jersey{Name: server.JerseyName, Size: server.JerseySize}
	if server.JerseyNumber != nil {
		d.jersey.Number = strconv.Itoa(*server.JerseyNumber)
	}
	d.availability = cloneAvailability(Availability{
		AllDays:          server.AvailableAllDays,
		UnavailableDates: server.UnavailableDates,
	})
	if server.Cricket != nil {
		c := *server.Cricket
		d.cricket = &c
	}

	for _, e := range server.Entries {
		s, err := hydrateEntry(e, byCode)
		if err != nil {
			return nil, err
		}
		if d.Has(s.Category.Code) {
			return nil, fmt.Errorf("entry %s: %w", s.Category.Code, ErrAlreadySelected)
		}
		d.selections = append(d.selections, s)
	}

	d.status = status
	return d, nil
}

func hydrateEntry(e ServerEntry, catalog map[string]eligibility.Category) (Selection, error) {
	cat, known := catalog[e.CategoryCode]
	if !known {
		t, err := eligibility.ParseCategoryType(e.CategoryType)
		if err != nil {
			return Selection{}, fmt.Errorf("entry %s: %w", e.CategoryCode, err)
		}
		cat = eligibility.Category{
			Code:                e.CategoryCode,
			Name:                e.CategoryName,
			Type:                t,
			AgeLimit:            e.AgeLimit,
			PricePerParticipant: e.PricePerParticipant,
		}
	}

	s := Selection{
		Category: cat,
		Primary: Participant{
			Name:     e.PlayerName,
			Age:      copyInt(e.PlayerAge),
			Relation: eligibility.Relation(e.SelfRelation),
		},
		Notes:            e.Notes,
		RegistrationCode: e.RegistrationCode,
		ReadOnly:         !known,
	}
	if cat.Type != eligibility.Family && s.Primary.Relation == "" {
		s.Primary.Relation = eligibility.Self
	}
	if e.PartnerUserID != "" || e.PartnerName != "" {
		s.Partner = &Participant{
			UserID:   e.PartnerUserID,
			Name:     e.PartnerName,
			Age:      copyInt(e.PartnerAge),
			Contact:  e.PartnerContact,
			Relation: eligibility.Relation(e.PartnerRelation),
			// The backend only stores partners that passed the document check.
			HasDocuments: true,
		}
	}
	return s, nil
}
