package types

import "strings"

// Fallback values used when model output falls outside a closed vocabulary.
// Mapping to these is a defined degradation, not an error.
const (
	RoleUnclassified    = "Unclassified"
	SeniorityUnknown    = "unknown"
	ProficiencyUnknown  = "unknown"
	CategoryOther       = "other"
	RecommendationMaybe = "maybe"
)

// Vocabularies holds the closed vocabularies the classifier, matcher and
// schema coercion validate against. They are passed in at construction time
// so the pipeline is testable with injected fixed vocabularies.
type Vocabularies struct {
	Roles           []string
	SeniorityLevels []string
	SkillCategories []string
	Proficiencies   []string
	Recommendations []string
}

// CanonicalRole matches s against the role vocabulary case-insensitively and
// returns the canonical spelling. The second return is false when s is not a
// member.
func (v Vocabularies) CanonicalRole(s string) (string, bool) {
	return canonical(v.Roles, s)
}

// CanonicalSeniority matches s against the seniority vocabulary.
func (v Vocabularies) CanonicalSeniority(s string) (string, bool) {
	return canonical(v.SeniorityLevels, s)
}

// CanonicalCategory matches s against the skill category vocabulary.
func (v Vocabularies) CanonicalCategory(s string) (string, bool) {
	return canonical(v.SkillCategories, s)
}

// CanonicalProficiency matches s against the proficiency vocabulary.
func (v Vocabularies) CanonicalProficiency(s string) (string, bool) {
	return canonical(v.Proficiencies, s)
}

// CanonicalRecommendation matches s against the recommendation vocabulary.
func (v Vocabularies) CanonicalRecommendation(s string) (string, bool) {
	return canonical(v.Recommendations, s)
}

func canonical(members []string, s string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(s))
	if needle == "" {
		return "", false
	}
	for _, m := range members {
		if strings.ToLower(m) == needle {
			return m, true
		}
	}
	return "", false
}
