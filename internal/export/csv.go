// Package export serializes the final ranked candidate set into a flattened
// tabular form and a lossless nested form under a fixed field mapping.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pbt245/scrape-from-bhancockio/internal/types"
)

// Separators for sequence fields rendered into a single CSV cell.
const (
	listSeparator    = ", "
	summarySeparator = " | "
)

// maxSummaryItems caps the project/achievement summaries per row.
const maxSummaryItems = 3

// columns is the fixed, ordered CSV column set. Identical across all rows;
// absent optional fields render as the empty string, never as a missing
// column.
var columns = []string{
	"full_name",
	"job_title",
	"level",
	"gender",
	"nationality",
	"date_of_birth",
	"address",
	"years_of_experience",
	"desired_work_locations",
	"job_rank",
	"phone_number",
	"email",
	"website",
	"linkedin",
	"github",
	"skills",
	"skills_count",
	"skill_categories",
	"languages",
	"education",
	"gpa",
	"projects_count",
	"projects_summary",
	"achievements_count",
	"achievements",
	"hiring_type",
	"is_terminal",
	"can_rehire",
	"is_fsofter",
	"is_utilization",
	"ai_matched_role",
	"ai_confidence_score",
	"ai_seniority",
	"ai_jd_match_score",
	"ai_matched_skills",
	"ai_missing_skills",
	"ai_recommendation",
	"ai_reasoning",
	"ai_jd_reasoning",
}

// Columns returns a copy of the fixed CSV column set.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// FlattenRecord renders one record as a CSV row aligned with Columns().
func FlattenRecord(rec *types.CandidateRecord) []string {
	p := rec.PersonalInfo
	c := rec.ContactInfo
	hr := rec.HRFields
	ai := rec.AIAnalysis

	skillNames := make([]string, 0, len(rec.Skills))
	categorySet := make(map[string]bool)
	categories := make([]string, 0)
	for _, s := range rec.Skills {
		skillNames = append(skillNames, s.Name)
		if s.Category != "" && !categorySet[s.Category] {
			categorySet[s.Category] = true
			categories = append(categories, s.Category)
		}
	}

	langs := make([]string, 0, len(rec.Languages))
	for _, l := range rec.Languages {
		if l.Proficiency != "" {
			langs = append(langs, fmt.Sprintf("%s (%s)", l.Language, l.Proficiency))
		} else {
			langs = append(langs, l.Language)
		}
	}

	education := ""
	gpa := ""
	if len(rec.Education) > 0 {
		edu := rec.Education[0]
		education = strings.TrimSpace(fmt.Sprintf("%s in %s - %s", edu.Degree, edu.Major, edu.Institution))
		if edu.GPA != nil {
			gpa = strconv.FormatFloat(*edu.GPA, 'f', 2, 64)
		}
	}

	projectNames := make([]string, 0, maxSummaryItems)
	for _, proj := range rec.Projects {
		if len(projectNames) == maxSummaryItems {
			break
		}
		if proj.Name != "" {
			projectNames = append(projectNames, proj.Name)
		}
	}

	achievementTitles := make([]string, 0, maxSummaryItems)
	for _, a := range rec.Achievements {
		if len(achievementTitles) == maxSummaryItems {
			break
		}
		achievementTitles = append(achievementTitles, a.Title)
	}

	return []string{
		p.FullName,
		p.JobTitle,
		p.Level,
		p.Gender,
		p.Nationality,
		p.DateOfBirth,
		p.Address,
		formatIntPtr(p.YearsOfExperience),
		strings.Join(p.DesiredLocations, listSeparator),
		p.JobRank,
		c.PhoneNumber,
		c.Email,
		c.Website,
		c.LinkedIn,
		c.GitHub,
		strings.Join(skillNames, listSeparator),
		strconv.Itoa(len(rec.Skills)),
		strings.Join(categories, listSeparator),
		strings.Join(langs, listSeparator),
		education,
		gpa,
		strconv.Itoa(len(rec.Projects)),
		strings.Join(projectNames, summarySeparator),
		strconv.Itoa(len(rec.Achievements)),
		strings.Join(achievementTitles, summarySeparator),
		hr.HiringType,
		formatBoolPtr(hr.IsTerminal),
		formatBoolPtr(hr.CanRehire),
		formatBoolPtr(hr.IsFsofter),
		formatBoolPtr(hr.IsUtilization),
		ai.MatchedRole,
		strconv.FormatFloat(ai.Confidence, 'f', 2, 64),
		ai.Seniority,
		formatFloatPtr(ai.JDMatchScore),
		strings.Join(ai.MatchedSkills, listSeparator),
		strings.Join(ai.MissingSkills, listSeparator),
		formatStringPtr(ai.Recommendation),
		ai.Reasoning,
		ai.JDReasoning,
	}
}

// WriteCSV writes the ranked set as UTF-8 CSV with the fixed column set.
func WriteCSV(w io.Writer, records []*types.CandidateRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(FlattenRecord(rec)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the CSV export to path.
func WriteCSVFile(path string, records []*types.CandidateRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := WriteCSV(f, records); err != nil {
		return err
	}
	return f.Close()
}

// The nil cases render the explicit empty marker: an absent value is
// distinguishable from an evaluated zero or false.
func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

func formatBoolPtr(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}

func formatStringPtr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
