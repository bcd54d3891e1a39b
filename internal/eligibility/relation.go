package eligibility

import "strings"

// RelationMeta is one permitted orientation of a family pairing.
type RelationMeta struct {
	Category      string
	Self          Relation
	Partner       Relation
	SelfGender    Gender
	PartnerGender Gender
}

var relationTable = []RelationMeta{
	{"Husband & Wife", Husband, Wife, GenderMale, GenderFemale},
	{"Husband & Wife", Wife, Husband, GenderFemale, GenderMale},
	{"Father Daughter", Father, Daughter, GenderMale, GenderFemale},
	{"Father Daughter", Daughter, Father, GenderFemale, GenderMale},
	{"Mother Daughter", Mother, Daughter, GenderFemale, GenderFemale},
	{"Mother Daughter", Daughter, Mother, GenderFemale, GenderFemale},
	{"Mother Son", Mother, Son, GenderFemale, GenderMale},
	{"Mother Son", Son, Mother, GenderMale, GenderFemale},
	{"Father Son U15", Father, Son, GenderMale, GenderMale},
	{"Father Son U15", Son, Father, GenderMale, GenderMale},
	{"Father Son 15+", Father, Son, GenderMale, GenderMale},
	{"Father Son 15+", Son, Father, GenderMale, GenderMale},
	{"Saas Bahu", Saas, Bahu, GenderFemale, GenderFemale},
	{"Saas Bahu", Bahu, Saas, GenderFemale, GenderFemale},
}

// RelationOptions lists the orientations permitted for a category, in table
// order. An empty result means the category uses free-text relations.
func RelationOptions(categoryName string) []RelationMeta {
	var out []RelationMeta
	for _, m := range relationTable {
		if strings.EqualFold(m.Category, strings.TrimSpace(categoryName)) {
			out = append(out, m)
		}
	}
	return out
}

func HasRelationTable(categoryName string) bool {
	return len(RelationOptions(categoryName)) > 0
}

// ResolveFamilyRelationMeta finds the orientation whose self label matches
// exactly. It returns nil for categories without a relation table and for
// labels the table does not list.
func ResolveFamilyRelationMeta(categoryName string, self Relation) *RelationMeta {
	for _, m := range RelationOptions(categoryName) {
		if m.Self == self {
			meta := m
			return &meta
		}
	}
	return nil
}
