// Package eligibility holds the pure rules deciding whether a player (and a
// partner) may enter a category. Nothing here performs I/O or reads session
// state; callers pass in everything the rules need.
package eligibility

import (
	"fmt"
	"strings"
	"time"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// ParseGender is case-insensitive. Anything unrecognised is treated as
// unknown and returned as the empty Gender.
func ParseGender(s string) Gender {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(GenderMale):
		return GenderMale
	case string(GenderFemale):
		return GenderFemale
	}
	return ""
}

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

func (g Gender) Label() string {
	return strings.ToLower(string(g))
}

type CategoryType string

const (
	Solo   CategoryType = "SOLO"
	Double CategoryType = "DOUBLE"
	Family CategoryType = "FAMILY"
)

func ParseCategoryType(s string) (CategoryType, error) {
	t := CategoryType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown category type %q", s)
	}
	return t, nil
}

func (t CategoryType) Valid() bool {
	switch t {
	case Solo, Double, Family:
		return true
	}
	return false
}

// ParticipantCount is the number of players one entry of this type covers.
// It panics on an unknown type: category types are validated on ingestion,
// so reaching the default branch is a programming error.
func (t CategoryType) ParticipantCount() int {
	switch t {
	case Solo:
		return 1
	case Double, Family:
		return 2
	}
	panic(fmt.Sprintf("eligibility: unknown category type %q", string(t)))
}

func (t CategoryType) RequiresPartner() bool {
	return t.ParticipantCount() == 2
}

// Relation is one side of a family pairing.
type Relation string

const (
	Husband  Relation = "Husband"
	Wife     Relation = "Wife"
	Father   Relation = "Father"
	Mother   Relation = "Mother"
	Son      Relation = "Son"
	Daughter Relation = "Daughter"
	Saas     Relation = "Saas"
	Bahu     Relation = "Bahu"

	// Self marks the primary player of a non-family entry.
	Self Relation = "SELF"
)

// Category is the immutable reference data for one registerable class.
type Category struct {
	Code                string
	Name                string
	Type                CategoryType
	AgeLimit            string
	PricePerParticipant int
}

// Profile is a read-only snapshot of a player as the rules see it.
type Profile struct {
	ID                 string
	FullName           string
	RegistrationNumber string
	HouseNumber        string
	DateOfBirth        *time.Time
	Gender             Gender
	Contact            string
	Address            string
	AadhaarFront       string
	AadhaarBack        string
	PlayerPhoto        string
	// AadhaarUploaded is set when the source reports completeness directly
	// (e.g. directory search) instead of exposing document paths.
	AadhaarUploaded *bool
	JerseySize      string
}

// AgeOn returns the completed years between dob and now, or nil when the
// date of birth is absent or yields no positive age.
func AgeOn(dob *time.Time, now time.Time) *int {
	if dob == nil || dob.IsZero() {
		return nil
	}
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age <= 0 {
		return nil
	}
	return &age
}

func (p Profile) AgeAt(now time.Time) *int {
	return AgeOn(p.DateOfBirth, now)
}
