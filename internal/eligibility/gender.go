package eligibility

import "strings"

// Female tokens are checked first: "women" and "female" contain the male
// tokens "men" and "male".
var (
	femaleTokens = []string{"women", "womens", "girl", "ladies", "female"}
	maleTokens   = []string{"boys", "men's", "mens", " men", "male"}
)

// DetectGenderRequirement infers the gender a category is restricted to from
// its display name. Family categories never carry one; their relation table
// constrains each side instead. The empty Gender means no restriction.
func DetectGenderRequirement(categoryName string, t CategoryType) Gender {
	if t == Family || categoryName == "" {
		return ""
	}
	name := strings.ToLower(categoryName)
	for _, tok := range femaleTokens {
		if strings.Contains(name, tok) {
			return GenderFemale
		}
	}
	if strings.HasPrefix(name, "men") {
		return GenderMale
	}
	for _, tok := range maleTokens {
		if strings.Contains(name, tok) {
			return GenderMale
		}
	}
	return ""
}

// IsCategoryGenderEligible fails open: no requirement or an unknown player
// gender both allow the selection.
func IsCategoryGenderEligible(required, player Gender) bool {
	if required == "" || player == "" {
		return true
	}
	return strings.EqualFold(string(required), string(player))
}
