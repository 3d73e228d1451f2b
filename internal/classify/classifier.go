// Package classify assigns a role label, confidence score and seniority
// level to a candidate record using one LLM call over a closed vocabulary.
package classify

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pbt245/scrape-from-bhancockio/internal/llm"
	"github.com/pbt245/scrape-from-bhancockio/internal/prompts"
	"github.com/pbt245/scrape-from-bhancockio/internal/schema"
	"github.com/pbt245/scrape-from-bhancockio/internal/types"
)

// Classifier classifies candidate roles against an injected vocabulary.
type Classifier struct {
	client llm.Client
	vocab  types.Vocabularies
	tier   llm.ModelTier
}

// New creates a Classifier using the given client and vocabularies.
func New(client llm.Client, vocab types.Vocabularies) *Classifier {
	return &Classifier{
		client: client,
		vocab:  vocab,
		tier:   llm.TierLite,
	}
}

// classification is the expected model response shape.
type classification struct {
	MatchedRole     string   `json:"matched_role"`
	ConfidenceScore float64  `json:"confidence_score"`
	SeniorityLevel  string   `json:"seniority_level"`
	Reasoning       string   `json:"reasoning"`
	KeySkills       []string `json:"key_skills"`
}

// summary is the condensed candidate view embedded in the prompt.
type summary struct {
	Name            string   `json:"name"`
	JobTitle        string   `json:"job_title,omitempty"`
	YearsExperience *int     `json:"years_experience,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	Education       []string `json:"education,omitempty"`
	Projects        []string `json:"projects,omitempty"`
}

// Classify runs one LLM call and mutates the record's AI analysis fields in
// place, returning the updated record. Classification failure is never
// fatal: an unparsable response or an out-of-vocabulary role degrades to
// Unclassified with confidence 0. Transport errors are returned to the
// caller, which owns the drop-or-abort decision.
func (c *Classifier) Classify(ctx context.Context, rec *types.CandidateRecord) (*types.CandidateRecord, error) {
	response, err := c.client.GenerateJSON(ctx, c.buildPrompt(rec), c.tier)
	if err != nil {
		return rec, err
	}

	var result classification
	if err := json.Unmarshal([]byte(response), &result); err != nil {
		markUnclassified(rec)
		return rec, nil
	}

	role, ok := c.vocab.CanonicalRole(result.MatchedRole)
	if !ok {
		// Out-of-vocabulary role: the confidence the model reported refers
		// to a label we refuse to store, so it is forced to zero.
		markUnclassified(rec)
	} else {
		rec.AIAnalysis.MatchedRole = role
		rec.AIAnalysis.Confidence = schema.ClampConfidence(result.ConfidenceScore)
	}

	if seniority, ok := c.vocab.CanonicalSeniority(result.SeniorityLevel); ok {
		rec.AIAnalysis.Seniority = seniority
	} else {
		rec.AIAnalysis.Seniority = types.SeniorityUnknown
	}

	rec.AIAnalysis.Reasoning = strings.TrimSpace(result.Reasoning)
	rec.AIAnalysis.KeySkills = result.KeySkills

	return rec, nil
}

func markUnclassified(rec *types.CandidateRecord) {
	rec.AIAnalysis.MatchedRole = types.RoleUnclassified
	rec.AIAnalysis.Confidence = 0
	if rec.AIAnalysis.Seniority == "" {
		rec.AIAnalysis.Seniority = types.SeniorityUnknown
	}
}

func (c *Classifier) buildPrompt(rec *types.CandidateRecord) string {
	s := summary{
		Name:            rec.PersonalInfo.FullName,
		JobTitle:        rec.PersonalInfo.JobTitle,
		YearsExperience: rec.PersonalInfo.YearsOfExperience,
	}
	for _, skill := range rec.Skills {
		s.Skills = append(s.Skills, skill.Name)
	}
	for _, edu := range rec.Education {
		if edu.Major != "" {
			s.Education = append(s.Education, edu.Major)
		}
	}
	for _, proj := range rec.Projects {
		if proj.Name != "" {
			s.Projects = append(s.Projects, proj.Name)
		}
	}

	data, _ := json.MarshalIndent(s, "", "  ")

	template := prompts.MustGet("analysis.json", "classify-role")
	return prompts.Format(template, map[string]string{
		"Roles":         strings.Join(c.vocab.Roles, ", "),
		"Levels":        strings.Join(c.vocab.SeniorityLevels, ", "),
		"CandidateData": string(data),
	})
}
