package wizard

import (
	"fmt"
	"regexp"
	"strings"

	"anpl-sports-backend/internal/draft"
	"anpl-sports-backend/internal/eligibility"
)

// StepContext is the read-only data step validators may consult besides the
// draft itself.
type StepContext struct {
	Event *Event
}

// Validator decides whether a step is complete. It must not mutate anything;
// the wizard calls it on every transition attempt and affordance check.
type Validator func(d *draft.Draft, sc StepContext) *Error

// Flow is an ordered list of steps. The last step is the review step that
// Submit runs from.
type Flow struct {
	Name  string
	Steps []Validator
}

func (f Flow) last() Step { return Step(len(f.Steps) - 1) }

var Badminton = Flow{
	Name:  "badminton",
	Steps: []Validator{validateDocuments, validateCategories, validateBadmintonReview},
}

var Cricket = Flow{
	Name:  "cricket",
	Steps: []Validator{validateDocuments, validateCricketProfile, validateCricketReview},
}

const (
	maxBadmintonJersey = 999
	maxCricketJersey   = 99
)

var lettersOnly = regexp.MustCompile(`^[a-zA-Z\s]+$`)

func validateDocuments(d *draft.Draft, _ StepContext) *Error {
	docs := d.Documents()
	for _, c := range []struct {
		slot Slot
		ref  string
	}{
		{SlotAadhaarFront, docs.AadhaarFront},
		{SlotAadhaarBack, docs.AadhaarBack},
		{SlotPlayerPhoto, docs.PlayerPhoto},
	} {
		if strings.TrimSpace(c.ref) == "" {
			return validationErr(string(c.slot), "Please upload your "+c.slot.Label())
		}
	}
	return nil
}

func validateCategories(d *draft.Draft, _ StepContext) *Error {
	sels := d.Selections()
	if len(sels) == 0 {
		return validationErr("categories", "Please select at least one category")
	}
	for _, s := range sels {
		if s.ReadOnly {
			continue
		}
		if s.Category.Type == eligibility.Family && strings.TrimSpace(string(s.Primary.Relation)) == "" {
			return validationErr("relation", "Please choose your relation for "+s.Category.Name)
		}
		if s.Category.Type.RequiresPartner() && s.Partner == nil {
			return &Error{
				Kind:    KindValidation,
				Field:   "partner",
				Reason:  eligibility.ReasonNoPartner,
				Message: "Please select a partner for " + s.Category.Name,
			}
		}
	}
	return nil
}

func validateBadmintonReview(d *draft.Draft, sc StepContext) *Error {
	j := d.Jersey()
	if strings.TrimSpace(j.Name) == "" {
		return validationErr("jerseyName", "Please enter the name to print on your jersey")
	}
	if strings.TrimSpace(j.Size) == "" {
		return validationErr("jerseySize", "Please choose a jersey size")
	}
	if err := validateJerseyNumber(j.Number, maxBadmintonJersey); err != nil {
		return err
	}
	if err := validateAvailability(d, sc); err != nil {
		return err
	}
	return validateTerms(d)
}

func validateCricketProfile(d *draft.Draft, sc StepContext) *Error {
	if d.Len() == 0 {
		return validationErr("registrationCategory", "Please choose a registration category")
	}
	c := d.Cricket()
	if c == nil {
		return validationErr("gameLevel", "Please fill in your cricket details")
	}
	for _, f := range []struct {
		field, value, label string
	}{
		{"gameLevel", c.GameLevel, "game level"},
		{"cricketPreference", c.Preference, "playing preference"},
		{"battingHand", c.BattingHand, "batting hand"},
		{"bowlingArm", c.BowlingArm, "bowling arm"},
		{"bowlingPace", c.BowlingPace, "bowling pace"},
		{"sportsHistory", c.SportsHistory, "sports history"},
		{"achievements", c.Achievements, "achievements"},
	} {
		if strings.TrimSpace(f.value) == "" {
			return validationErr(f.field, "Please fill in your "+f.label)
		}
	}
	return validateAvailability(d, sc)
}

func validateCricketReview(d *draft.Draft, _ StepContext) *Error {
	j := d.Jersey()
	name := strings.TrimSpace(j.Name)
	if name == "" {
		return validationErr("jerseyName", "Please enter the name to print on your jersey")
	}
	if len(name) > 50 || !lettersOnly.MatchString(name) {
		return validationErr("jerseyName", "Jersey name must contain only letters")
	}
	if err := validateJerseyNumber(j.Number, maxCricketJersey); err != nil {
		return err
	}
	return validateTerms(d)
}

func validateJerseyNumber(raw string, max int) *Error {
	n := draft.ParseNumber(raw)
	if n == nil || *n < 1 || *n > max {
		return validationErr("jerseyNumber", fmt.Sprintf("Jersey number must be between 1 and %d", max))
	}
	return nil
}

func validateAvailability(d *draft.Draft, sc StepContext) *Error {
	a := d.Availability()
	if a.AllDays || sc.Event == nil {
		return nil
	}
	days := sc.Event.Dates()
	if len(days) == 0 {
		return nil
	}
	if len(a.UnavailableDates) == 0 {
		return validationErr("unavailableDates", "Please select the dates you are unavailable")
	}
	valid := make(map[string]bool, len(days))
	for _, day := range days {
		valid[day] = true
	}
	for _, day := range a.UnavailableDates {
		if !valid[strings.TrimSpace(day)] {
			return validationErr("unavailableDates", "Unavailable dates must fall within the event dates")
		}
	}
	return nil
}

func validateTerms(d *draft.Draft) *Error {
	if !d.TermsAccepted() {
		return validationErr("termsAccepted", "Please accept the terms and conditions")
	}
	return nil
}
