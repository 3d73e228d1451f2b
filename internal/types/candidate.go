// Package types provides type definitions for structured candidate data used throughout the pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

// CandidateRecord represents the complete CV data structure of a candidate.
// It is created once per successfully extracted source block and enriched in
// place by the role classification and JD matching stages.
type CandidateRecord struct {
	PersonalInfo PersonalInfo          `json:"personal_info"`
	ContactInfo  ContactInfo           `json:"contact_info"`
	Skills       []Skill               `json:"skills,omitempty"`
	Languages    []LanguageProficiency `json:"languages,omitempty"`
	Education    []EducationEntry      `json:"education,omitempty"`
	Projects     []ProjectEntry        `json:"projects,omitempty"`
	Achievements []Achievement         `json:"achievements,omitempty"`
	HRFields     HRFields              `json:"hr_fields"`
	AIAnalysis   AIAnalysis            `json:"ai_analysis"`
}

// PersonalInfo holds the candidate's personal details. FullName is the only
// field required for a record to survive extraction.
type PersonalInfo struct {
	FullName          string   `json:"full_name" validate:"required"`
	JobTitle          string   `json:"job_title,omitempty"`
	Level             string   `json:"level,omitempty"`
	Gender            string   `json:"gender,omitempty"`
	Nationality       string   `json:"nationality,omitempty"`
	DateOfBirth       string   `json:"date_of_birth,omitempty"`
	Address           string   `json:"address,omitempty"`
	YearsOfExperience *int     `json:"years_of_experience"` // nil = unknown
	DesiredLocations  []string `json:"desired_work_locations,omitempty"`
	JobRank           string   `json:"job_rank,omitempty"`
}

// ContactInfo holds contact details. Email, when present and syntactically
// valid, is the primary deduplication key.
type ContactInfo struct {
	PhoneNumber string `json:"phone_number,omitempty"`
	Email       string `json:"email,omitempty"`
	Website     string `json:"website,omitempty"`
	LinkedIn    string `json:"linkedin,omitempty"`
	GitHub      string `json:"github,omitempty"`
}

// Skill is a technical skill with proficiency and category, both drawn from
// closed vocabularies.
type Skill struct {
	Name        string `json:"name" validate:"required"`
	Proficiency string `json:"proficiency,omitempty"`
	Category    string `json:"category,omitempty"`
}

// LanguageProficiency is a spoken language with its proficiency level.
type LanguageProficiency struct {
	Language    string `json:"language" validate:"required"`
	Proficiency string `json:"proficiency,omitempty"`
}

// EducationEntry is one education background entry.
type EducationEntry struct {
	Institution string   `json:"institution_name,omitempty"`
	Degree      string   `json:"degree,omitempty"`
	Major       string   `json:"major,omitempty"`
	GPA         *float64 `json:"gpa,omitempty" validate:"omitempty,gte=0"`
	Duration    string   `json:"duration,omitempty"`
}

// ProjectEntry is one project experience entry.
type ProjectEntry struct {
	Name        string `json:"project_name,omitempty"`
	Description string `json:"description,omitempty"`
	Time        string `json:"time,omitempty"`
}

// Achievement is an achievement or certification.
type Achievement struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
}

// HRFields holds HR and organizational extension fields. All are optional;
// nil booleans mean unknown rather than false.
type HRFields struct {
	HiringType    string `json:"hiring_type,omitempty"`
	IsTerminal    *bool  `json:"is_terminal"`
	CanRehire     *bool  `json:"can_rehire"`
	IsFsofter     *bool  `json:"is_fsofter"`
	IsUtilization *bool  `json:"is_utilization"`
}

// AIAnalysis holds the derived analysis produced by the classification and
// JD matching stages. JDMatchScore and Recommendation are nil when the JD
// matching stage never ran, which is distinct from an evaluated zero; both
// marshal as explicit JSON null so exports preserve the distinction.
type AIAnalysis struct {
	MatchedRole    string   `json:"matched_role,omitempty"`
	Confidence     float64  `json:"confidence_score"`
	Seniority      string   `json:"seniority,omitempty"`
	KeySkills      []string `json:"key_skills,omitempty"`
	Reasoning      string   `json:"reasoning,omitempty"`
	JDMatchScore   *float64 `json:"jd_match_score"`
	MatchedSkills  []string `json:"matched_skills,omitempty"`
	MissingSkills  []string `json:"missing_skills,omitempty"`
	Strengths      []string `json:"strengths,omitempty"`
	Concerns       []string `json:"concerns,omitempty"`
	Recommendation *string  `json:"recommendation"`
	JDReasoning    string   `json:"jd_reasoning,omitempty"`
}
