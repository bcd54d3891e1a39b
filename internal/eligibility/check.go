package eligibility

import (
	"fmt"
	"time"
)

const (
	ReasonAge           Reason = "AGE_NOT_ELIGIBLE"
	ReasonGender        Reason = "GENDER_NOT_ELIGIBLE"
	ReasonRelation      Reason = "INVALID_RELATION"
	ReasonMissingPerson Reason = "MISSING_PARTICIPANT"
)

// Violation is an eligibility failure with a message fit for the end user.
type Violation struct {
	Reason  Reason
	Message string
}

func (v *Violation) Error() string { return v.Message }

func violation(r Reason, format string, args ...any) *Violation {
	return &Violation{Reason: r, Message: fmt.Sprintf(format, args...)}
}

// Checker combines the age and gender rules for one participant of a
// category. The wizard runs it fail-open; the server sets RequireGenderData
// so a gender-restricted category cannot be entered without a known gender.
type Checker struct {
	Now               func() time.Time
	RequireGenderData bool
}

func (c Checker) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Check returns nil when p may enter cat. label names the participant in
// messages ("Player", "Partner").
func (c Checker) Check(cat Category, p *Profile, label string) *Violation {
	if p == nil {
		return violation(ReasonMissingPerson, "%s details are required", label)
	}
	if !EvaluateAge(cat.AgeLimit, p.AgeAt(c.now())).Eligible {
		return violation(ReasonAge, "%s does not meet the age criteria for %s", label, cat.Name)
	}
	required := DetectGenderRequirement(cat.Name, cat.Type)
	if required == "" {
		return nil
	}
	if p.Gender == "" {
		if c.RequireGenderData {
			return violation(ReasonMissingGenderData, "%s must update gender information to enroll in %s", label, cat.Name)
		}
		return nil
	}
	if !IsCategoryGenderEligible(required, p.Gender) {
		return violation(ReasonGender, "%s must be %s for %s", label, required.Label(), cat.Name)
	}
	return nil
}

// CheckRelation validates both sides of a family pairing against meta.
func (c Checker) CheckRelation(meta *RelationMeta, player, partner Profile) *Violation {
	if meta == nil {
		return violation(ReasonRelation, "Invalid relation selected")
	}
	for _, side := range []struct {
		label    string
		required Gender
		p        Profile
	}{
		{"Player", meta.SelfGender, player},
		{"Partner", meta.PartnerGender, partner},
	} {
		if side.p.Gender == "" {
			if c.RequireGenderData {
				return violation(ReasonMissingGenderData, "%s must update gender information to enroll in %s", side.label, meta.Category)
			}
			continue
		}
		if side.p.Gender != side.required {
			r := ReasonGenderMismatchSelf
			if side.label == "Partner" {
				r = ReasonGenderMismatchPartner
			}
			return violation(r, "%s must be %s for %s", side.label, side.required.Label(), meta.Category)
		}
	}
	return nil
}
