package eligibility

import (
	"fmt"
	"strings"
)

type Reason string

const (
	ReasonOK                    Reason = ""
	ReasonNoPartner             Reason = "NO_PARTNER_SELECTED"
	ReasonMissingDocs           Reason = "MISSING_DOCS"
	ReasonGenderMismatchSelf    Reason = "GENDER_MISMATCH_SELF"
	ReasonGenderMismatchPartner Reason = "GENDER_MISMATCH_PARTNER"
	ReasonMissingGenderData     Reason = "MISSING_GENDER_DATA"
)

type ValidationResult struct {
	OK      bool
	Reason  Reason
	Message string
}

func pass() ValidationResult { return ValidationResult{OK: true} }

func fail(r Reason, format string, args ...any) ValidationResult {
	return ValidationResult{Reason: r, Message: fmt.Sprintf(format, args...)}
}

// HasUploadedAadhaar trusts an explicit flag when one is present, otherwise
// requires both document references.
func HasUploadedAadhaar(p Profile) bool {
	if p.AadhaarUploaded != nil && *p.AadhaarUploaded {
		return true
	}
	return strings.TrimSpace(p.AadhaarFront) != "" && strings.TrimSpace(p.AadhaarBack) != ""
}

// ValidatePartnerForRelation checks a candidate partner. Checks run in a
// fixed order and the first failure wins. With a nil meta (doubles, or a
// family category in free-text mode) only presence and documents are checked.
func ValidatePartnerForRelation(meta *RelationMeta, player Profile, partner *Profile) ValidationResult {
	if partner == nil {
		return fail(ReasonNoPartner, "Please select a partner")
	}
	if !HasUploadedAadhaar(*partner) {
		return fail(ReasonMissingDocs, "%s has not uploaded Aadhaar documents", displayName(*partner))
	}
	if meta == nil {
		return pass()
	}
	if player.Gender != "" && player.Gender != meta.SelfGender {
		return fail(ReasonGenderMismatchSelf, "%s must be %s for %s", meta.Self, meta.SelfGender.Label(), meta.Category)
	}
	if partner.Gender != "" && partner.Gender != meta.PartnerGender {
		return fail(ReasonGenderMismatchPartner, "%s must be %s for %s", meta.Partner, meta.PartnerGender.Label(), meta.Category)
	}
	if player.Gender == "" || partner.Gender == "" {
		return fail(ReasonMissingGenderData, "Gender information is missing for %s", meta.Category)
	}
	return pass()
}

// ValidateSelfRelation is the subset of ValidatePartnerForRelation that can
// run before a partner is chosen.
func ValidateSelfRelation(meta *RelationMeta, player Profile) ValidationResult {
	if meta == nil {
		return pass()
	}
	if player.Gender != "" && player.Gender != meta.SelfGender {
		return fail(ReasonGenderMismatchSelf, "%s must be %s for %s", meta.Self, meta.SelfGender.Label(), meta.Category)
	}
	return pass()
}

func displayName(p Profile) string {
	if n := strings.TrimSpace(p.FullName); n != "" {
		return n
	}
	return "Partner"
}
