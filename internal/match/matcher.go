// Package match scores a candidate record against a job description with
// one LLM call, producing a 0-100 match score, skill gap analysis and a
// hiring recommendation from a closed vocabulary.
package match

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pbt245/scrape-from-bhancockio/internal/llm"
	"github.com/pbt245/scrape-from-bhancockio/internal/prompts"
	"github.com/pbt245/scrape-from-bhancockio/internal/schema"
	"github.com/pbt245/scrape-from-bhancockio/internal/types"
)

// Matcher matches candidates against a job description.
type Matcher struct {
	client llm.Client
	vocab  types.Vocabularies
	tier   llm.ModelTier
}

// New creates a Matcher using the given client and vocabularies.
func New(client llm.Client, vocab types.Vocabularies) *Matcher {
	return &Matcher{
		client: client,
		vocab:  vocab,
		tier:   llm.TierStandard,
	}
}

// matchResult is the expected model response shape.
type matchResult struct {
	MatchScore     float64  `json:"match_score"`
	MatchedSkills  []string `json:"matched_skills"`
	MissingSkills  []string `json:"missing_skills"`
	Strengths      []string `json:"strengths"`
	Concerns       []string `json:"concerns"`
	Recommendation string   `json:"recommendation"`
	Reasoning      string   `json:"reasoning"`
}

// ParseError means the model response could not be interpreted as a match
// analysis. The candidate keeps its nil JD fields; the caller decides
// whether that costs the candidate its place in the batch.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("match parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("match parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Match runs one LLM call comparing the record against jobDescription and
// mutates the record's JD fields in place. When jobDescription is empty the
// stage must be skipped by the caller; Match refuses to fabricate a score.
// Scores outside [0,100] are clamped; a recommendation outside the
// vocabulary maps to the conservative "maybe".
func (m *Matcher) Match(ctx context.Context, rec *types.CandidateRecord, jobDescription string) (*types.CandidateRecord, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return rec, nil
	}

	response, err := m.client.GenerateJSON(ctx, m.buildPrompt(rec, jobDescription), m.tier)
	if err != nil {
		return rec, err
	}

	var result matchResult
	if err := json.Unmarshal([]byte(response), &result); err != nil {
		return rec, &ParseError{Message: "model response is not valid JSON", Cause: err}
	}

	score := schema.ClampMatchScore(result.MatchScore)
	rec.AIAnalysis.JDMatchScore = &score
	rec.AIAnalysis.MatchedSkills = result.MatchedSkills
	rec.AIAnalysis.MissingSkills = result.MissingSkills
	rec.AIAnalysis.Strengths = result.Strengths
	rec.AIAnalysis.Concerns = result.Concerns
	rec.AIAnalysis.JDReasoning = strings.TrimSpace(result.Reasoning)

	recommendation, ok := m.vocab.CanonicalRecommendation(result.Recommendation)
	if !ok {
		recommendation = types.RecommendationMaybe
	}
	rec.AIAnalysis.Recommendation = &recommendation

	return rec, nil
}

// profile is the condensed candidate view embedded in the prompt.
type profile struct {
	Name       string   `json:"name"`
	Experience *int     `json:"experience,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Education  []string `json:"education,omitempty"`
	Projects   []string `json:"projects,omitempty"`
}

func (m *Matcher) buildPrompt(rec *types.CandidateRecord, jobDescription string) string {
	p := profile{
		Name:       rec.PersonalInfo.FullName,
		Experience: rec.PersonalInfo.YearsOfExperience,
	}
	for _, skill := range rec.Skills {
		p.Skills = append(p.Skills, skill.Name)
	}
	for _, edu := range rec.Education {
		if edu.Degree != "" || edu.Major != "" {
			p.Education = append(p.Education, strings.TrimSpace(edu.Degree+" in "+edu.Major))
		}
	}
	for _, proj := range rec.Projects {
		if proj.Description != "" {
			p.Projects = append(p.Projects, proj.Description)
		}
	}

	data, _ := json.MarshalIndent(p, "", "  ")

	template := prompts.MustGet("analysis.json", "match-jd")
	return prompts.Format(template, map[string]string{
		"JobDescription":   jobDescription,
		"CandidateProfile": string(data),
	})
}
