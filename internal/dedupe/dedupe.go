// Package dedupe merges candidate records that describe the same person and
// ranks the merged set. Identity is the normalized email when present and
// syntactically valid; otherwise the normalized full name. Email is
// authoritative: name matching only applies when a usable email is absent.
package dedupe

import (
	"sort"
	"strings"

	"github.com/pbt245/scrape-from-bhancockio/internal/schema"
	"github.com/pbt245/scrape-from-bhancockio/internal/types"
)

// Process deduplicates and ranks records in one pass. Empty input yields
// empty output; the operation is idempotent.
func Process(records []*types.CandidateRecord) []*types.CandidateRecord {
	return Rank(Deduplicate(records))
}

// Deduplicate groups records by identity preserving first-seen order of
// groups and merges each group into a single record.
func Deduplicate(records []*types.CandidateRecord) []*types.CandidateRecord {
	merged := make([]*types.CandidateRecord, 0, len(records))
	index := make(map[string]int)

	for _, rec := range records {
		if rec == nil {
			continue
		}
		key := identityKey(rec)
		if pos, seen := index[key]; seen {
			mergeInto(merged[pos], rec)
			continue
		}
		index[key] = len(merged)
		merged = append(merged, rec)
	}

	return merged
}

// Rank orders records descending by JD match score when any record carries
// one, otherwise descending by classification confidence. The sort is
// stable by contract: ties keep first-seen order.
func Rank(records []*types.CandidateRecord) []*types.CandidateRecord {
	anyJDScore := false
	for _, rec := range records {
		if rec.AIAnalysis.JDMatchScore != nil {
			anyJDScore = true
			break
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		if anyJDScore {
			return jdScore(records[i]) > jdScore(records[j])
		}
		return records[i].AIAnalysis.Confidence > records[j].AIAnalysis.Confidence
	})

	return records
}

// jdScore treats a never-evaluated record as ranking below every evaluated
// one, including evaluated zeros.
func jdScore(rec *types.CandidateRecord) float64 {
	if rec.AIAnalysis.JDMatchScore == nil {
		return -1
	}
	return *rec.AIAnalysis.JDMatchScore
}

func identityKey(rec *types.CandidateRecord) string {
	email := schema.NormalizeEmail(rec.ContactInfo.Email)
	if schema.ValidEmail(email) {
		return "email:" + email
	}
	return "name:" + strings.ToLower(schema.NormalizeName(rec.PersonalInfo.FullName))
}

// mergeInto folds src into dst. Scalar fields prefer the most recently
// populated non-empty value; sequence fields are unioned with first-seen
// order preserved, deduplicated by normalized name or title.
func mergeInto(dst, src *types.CandidateRecord) {
	mergePersonalInfo(&dst.PersonalInfo, &src.PersonalInfo)
	mergeContactInfo(&dst.ContactInfo, &src.ContactInfo)
	mergeHRFields(&dst.HRFields, &src.HRFields)
	mergeAnalysis(&dst.AIAnalysis, &src.AIAnalysis)

	dst.Skills = unionSkills(dst.Skills, src.Skills)
	dst.Languages = unionLanguages(dst.Languages, src.Languages)
	dst.Education = unionEducation(dst.Education, src.Education)
	dst.Projects = unionProjects(dst.Projects, src.Projects)
	dst.Achievements = unionAchievements(dst.Achievements, src.Achievements)

	locSeen := make(map[string]bool, len(dst.PersonalInfo.DesiredLocations))
	for _, loc := range dst.PersonalInfo.DesiredLocations {
		locSeen[strings.ToLower(loc)] = true
	}
	for _, loc := range src.PersonalInfo.DesiredLocations {
		if !locSeen[strings.ToLower(loc)] {
			locSeen[strings.ToLower(loc)] = true
			dst.PersonalInfo.DesiredLocations = append(dst.PersonalInfo.DesiredLocations, loc)
		}
	}
}

func overrideString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func overrideBool(dst **bool, src *bool) {
	if src != nil {
		*dst = src
	}
}

func mergePersonalInfo(dst, src *types.PersonalInfo) {
	overrideString(&dst.FullName, src.FullName)
	overrideString(&dst.JobTitle, src.JobTitle)
	overrideString(&dst.Level, src.Level)
	overrideString(&dst.Gender, src.Gender)
	overrideString(&dst.Nationality, src.Nationality)
	overrideString(&dst.DateOfBirth, src.DateOfBirth)
	overrideString(&dst.Address, src.Address)
	overrideString(&dst.JobRank, src.JobRank)
	if src.YearsOfExperience != nil {
		dst.YearsOfExperience = src.YearsOfExperience
	}
}

func mergeContactInfo(dst, src *types.ContactInfo) {
	overrideString(&dst.PhoneNumber, src.PhoneNumber)
	overrideString(&dst.Email, src.Email)
	overrideString(&dst.Website, src.Website)
	overrideString(&dst.LinkedIn, src.LinkedIn)
	overrideString(&dst.GitHub, src.GitHub)
}

func mergeHRFields(dst, src *types.HRFields) {
	overrideString(&dst.HiringType, src.HiringType)
	overrideBool(&dst.IsTerminal, src.IsTerminal)
	overrideBool(&dst.CanRehire, src.CanRehire)
	overrideBool(&dst.IsFsofter, src.IsFsofter)
	overrideBool(&dst.IsUtilization, src.IsUtilization)
}

func mergeAnalysis(dst, src *types.AIAnalysis) {
	// Role and confidence travel together: a later classified record
	// replaces both or neither.
	if src.MatchedRole != "" {
		dst.MatchedRole = src.MatchedRole
		dst.Confidence = src.Confidence
	}
	overrideString(&dst.Seniority, src.Seniority)
	overrideString(&dst.Reasoning, src.Reasoning)
	overrideString(&dst.JDReasoning, src.JDReasoning)
	if src.JDMatchScore != nil {
		dst.JDMatchScore = src.JDMatchScore
	}
	if src.Recommendation != nil {
		dst.Recommendation = src.Recommendation
	}
	dst.KeySkills = unionStrings(dst.KeySkills, src.KeySkills)
	dst.MatchedSkills = unionStrings(dst.MatchedSkills, src.MatchedSkills)
	dst.MissingSkills = unionStrings(dst.MissingSkills, src.MissingSkills)
	dst.Strengths = unionStrings(dst.Strengths, src.Strengths)
	dst.Concerns = unionStrings(dst.Concerns, src.Concerns)
}

func unionStrings(dst, src []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, s := range dst {
		seen[strings.ToLower(strings.TrimSpace(s))] = true
	}
	for _, s := range src {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		dst = append(dst, s)
	}
	return dst
}

func unionSkills(dst, src []types.Skill) []types.Skill {
	seen := make(map[string]int, len(dst))
	for i, s := range dst {
		seen[strings.ToLower(s.Name)] = i
	}
	for _, s := range src {
		key := strings.ToLower(s.Name)
		if key == "" {
			continue
		}
		if i, ok := seen[key]; ok {
			// Fill gaps in the first-seen entry.
			if dst[i].Proficiency == types.ProficiencyUnknown && s.Proficiency != "" {
				dst[i].Proficiency = s.Proficiency
			}
			if dst[i].Category == types.CategoryOther && s.Category != "" {
				dst[i].Category = s.Category
			}
			continue
		}
		seen[key] = len(dst)
		dst = append(dst, s)
	}
	return dst
}

func unionLanguages(dst, src []types.LanguageProficiency) []types.LanguageProficiency {
	seen := make(map[string]bool, len(dst))
	for _, l := range dst {
		seen[strings.ToLower(l.Language)] = true
	}
	for _, l := range src {
		key := strings.ToLower(l.Language)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		dst = append(dst, l)
	}
	return dst
}

func unionEducation(dst, src []types.EducationEntry) []types.EducationEntry {
	key := func(e types.EducationEntry) string {
		return strings.ToLower(strings.TrimSpace(e.Institution + "|" + e.Degree + "|" + e.Major))
	}
	seen := make(map[string]bool, len(dst))
	for _, e := range dst {
		seen[key(e)] = true
	}
	for _, e := range src {
		k := key(e)
		if k == "||" || seen[k] {
			continue
		}
		seen[k] = true
		dst = append(dst, e)
	}
	return dst
}

func unionProjects(dst, src []types.ProjectEntry) []types.ProjectEntry {
	key := func(p types.ProjectEntry) string {
		if p.Name != "" {
			return strings.ToLower(p.Name)
		}
		return strings.ToLower(p.Description)
	}
	seen := make(map[string]bool, len(dst))
	for _, p := range dst {
		seen[key(p)] = true
	}
	for _, p := range src {
		k := key(p)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		dst = append(dst, p)
	}
	return dst
}

func unionAchievements(dst, src []types.Achievement) []types.Achievement {
	seen := make(map[string]bool, len(dst))
	for _, a := range dst {
		seen[strings.ToLower(a.Title)] = true
	}
	for _, a := range src {
		key := strings.ToLower(a.Title)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		dst = append(dst, a)
	}
	return dst
}
