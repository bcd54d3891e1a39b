package services

import (
	"errors"
	"fmt"
	"strings"

	"anpl-sports-backend/internal/config"
	"anpl-sports-backend/internal/eligibility"
	"anpl-sports-backend/internal/models"
	"anpl-sports-backend/internal/repositories"
)

type CategoryService struct {
	repo *repositories.Repository
	cfg  *config.Config
}

func NewCategoryService(repo *repositories.Repository, cfg *config.Config) *CategoryService {
	return &CategoryService{repo: repo, cfg: cfg}
}

type RelationOption struct {
	SelfRelation    string `json:"selfRelation"`
	PartnerRelation string `json:"partnerRelation"`
	SelfGender      string `json:"selfGender"`
	PartnerGender   string `json:"partnerGender"`
}

type CategoryResponse struct {
	Code                string           `json:"code"`
	Name                string           `json:"name"`
	CategoryType        string           `json:"categoryType"`
	AgeLimit            string           `json:"ageLimit"`
	AgeLabel            string           `json:"ageLabel"`
	PricePerParticipant int              `json:"pricePerParticipant"`
	EntryPrice          int              `json:"entryPrice"`
	GenderRequirement   string           `json:"genderRequirement,omitempty"`
	RelationOptions     []RelationOption `json:"relationOptions,omitempty"`
}

// ListForEvent returns the ordered catalog offered for the event.
func (s *CategoryService) ListForEvent(eventID string) ([]CategoryResponse, error) {
	event, err := s.repo.EventRepo.GetEventByID(eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewServiceError("Event not found", ErrNotFound, err)
		}
		return nil, dbError("failed to load event", err)
	}

	catalog, err := s.Catalog(event)
	if err != nil {
		return nil, err
	}

	out := make([]CategoryResponse, 0, len(catalog))
	for _, c := range catalog {
		rule := c.Rule()
		resp := CategoryResponse{
			Code:                c.Code,
			Name:                c.Name,
			CategoryType:        c.CategoryType,
			AgeLimit:            c.AgeLimit,
			AgeLabel:            eligibility.AgeLabel(c.AgeLimit),
			PricePerParticipant: c.PricePerParticipant,
			EntryPrice:          rule.Type.ParticipantCount() * c.PricePerParticipant,
			GenderRequirement:   string(eligibility.DetectGenderRequirement(c.Name, rule.Type)),
		}
		for _, m := range eligibility.RelationOptions(c.Name) {
			resp.RelationOptions = append(resp.RelationOptions, RelationOption{
				SelfRelation:    string(m.Self),
				PartnerRelation: string(m.Partner),
				SelfGender:      string(m.SelfGender),
				PartnerGender:   string(m.PartnerGender),
			})
		}
		out = append(out, resp)
	}
	return out, nil
}

// Catalog loads the active categories for the event's type. Rows with an
// unknown category type are skipped. Cricket categories are charged at the
// event price when the event sets one.
func (s *CategoryService) Catalog(event *models.Event) ([]models.Category, error) {
	rows, err := s.repo.CategoryRepo.ListByEventType(event.EventType)
	if err != nil {
		return nil, dbError("failed to load categories", err)
	}

	out := rows[:0]
	for _, c := range rows {
		if _, err := eligibility.ParseCategoryType(c.CategoryType); err != nil {
			continue
		}
		if event.EventType == models.EventTypeCricket && event.Price > 0 {
			c.PricePerParticipant = event.Price
		}
		out = append(out, c)
	}
	return out, nil
}

type categorySeed struct {
	name     string
	kind     eligibility.CategoryType
	ageLimit string
}

var badmintonSeeds = []categorySeed{
	{"Boys Single U11", eligibility.Solo, "U11"},
	{"Boys Double U11", eligibility.Double, "U11"},
	{"Boys Single U15", eligibility.Solo, "U15"},
	{"Boys Double U15", eligibility.Double, "U15"},
	{"Boys Single U19", eligibility.Solo, "U19"},
	{"Boys Double U19", eligibility.Double, "U19"},
	{"Mens Single 20+", eligibility.Solo, "20+"},
	{"Mens Single 35+", eligibility.Solo, "35+"},
	{"Men Single 50+", eligibility.Solo, "50+"},
	{"Men's Double Event", eligibility.Double, "Open"},
	{"Mens Lucky Double Event", eligibility.Double, "Open"},
	{"Women Single 35+", eligibility.Solo, "35+"},
	{"Womens Double 35+", eligibility.Double, "35+"},
	{"Husband & Wife", eligibility.Family, "Open"},
	{"Father Daughter", eligibility.Family, "Open"},
	{"Mother Daughter", eligibility.Family, "Open"},
	{"Mother Son", eligibility.Family, "Open"},
	{"Saas Bahu", eligibility.Family, "Open"},
	{"Father Son 15+", eligibility.Family, "15+"},
	{"Father Son U15", eligibility.Family, "U15"},
	{"Girls Single U11", eligibility.Solo, "U11"},
	{"Girls Double U11", eligibility.Double, "U11"},
	{"Girls Single U15", eligibility.Solo, "U15"},
	{"Girls Double U15", eligibility.Double, "U15"},
	{"Girls Single U19", eligibility.Solo, "U19"},
	{"Girls Double U19", eligibility.Double, "U19"},
}

var cricketSeeds = []categorySeed{
	{"Cricket Player", eligibility.Solo, "Open"},
}

// Seed writes the default catalog for eventType and returns the number of
// categories written. Existing rows with the same code are refreshed.
func (s *CategoryService) Seed(eventType string) (int, error) {
	var seeds []categorySeed
	switch eventType {
	case models.EventTypeBadminton:
		seeds = badmintonSeeds
	case models.EventTypeCricket:
		seeds = cricketSeeds
	default:
		return 0, validation("no default categories for event type %s", eventType)
	}

	for i, seed := range seeds {
		c := &models.Category{
			EventType:           eventType,
			Code:                CategoryCode(eventType, seed.name),
			Name:                seed.name,
			CategoryType:        string(seed.kind),
			AgeLimit:            seed.ageLimit,
			PricePerParticipant: s.cfg.DefaultPricePerPlayer,
			DisplayOrder:        i + 1,
			Active:              true,
		}
		if err := s.repo.CategoryRepo.Upsert(c); err != nil {
			return i, dbError(fmt.Sprintf("failed to seed %s", seed.name), err)
		}
	}
	return len(seeds), nil
}

// CategoryCode derives a stable code from a category name, e.g.
// "Mens Single 35+" becomes "BAD_MENS_SINGLE_35PLUS".
func CategoryCode(eventType, name string) string {
	prefix := eventType
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}

	var b strings.Builder
	b.WriteString(strings.ToUpper(prefix))
	sep := true
	for _, r := range strings.ToUpper(name) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			if sep {
				b.WriteByte('_')
				sep = false
			}
			b.WriteRune(r)
		case r == '+':
			b.WriteString("PLUS")
		case r == '\'':
		default:
			sep = true
		}
	}
	return b.String()
}
