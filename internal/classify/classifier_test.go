package classify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbt245/scrape-from-bhancockio/internal/llm"
	"github.com/pbt245/scrape-from-bhancockio/internal/types"
)

type fakeClient struct {
	response string
	err      error
	prompt   string
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }
func (f *fakeClient) Close() error                  { return nil }

func testVocab() types.Vocabularies {
	return types.Vocabularies{
		Roles:           []string{"Backend Developer", "Data Engineer", "Other"},
		SeniorityLevels: []string{"Junior", "Mid-level", "Senior"},
	}
}

func testRecord() *types.CandidateRecord {
	years := 4
	return &types.CandidateRecord{
		PersonalInfo: types.PersonalInfo{
			FullName:          "Nguyen Van A",
			JobTitle:          "Backend Engineer",
			YearsOfExperience: &years,
		},
		Skills: []types.Skill{{Name: "Go"}, {Name: "PostgreSQL"}},
	}
}

func TestClassifySuccess(t *testing.T) {
	client := &fakeClient{response: `{
		"matched_role": "backend developer",
		"confidence_score": 0.85,
		"seniority_level": "MID-LEVEL",
		"reasoning": " Strong backend profile. ",
		"key_skills": ["Go", "PostgreSQL"]
	}`}
	classifier := New(client, testVocab())

	rec, err := classifier.Classify(context.Background(), testRecord())
	require.NoError(t, err)
	assert.Equal(t, "Backend Developer", rec.AIAnalysis.MatchedRole, "role snaps to vocabulary spelling")
	assert.Equal(t, 0.85, rec.AIAnalysis.Confidence)
	assert.Equal(t, "Mid-level", rec.AIAnalysis.Seniority)
	assert.Equal(t, "Strong backend profile.", rec.AIAnalysis.Reasoning)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, rec.AIAnalysis.KeySkills)

	assert.Contains(t, client.prompt, "Nguyen Van A")
	assert.Contains(t, client.prompt, "Backend Developer, Data Engineer, Other")
}

func TestClassifyOutOfVocabularyRole(t *testing.T) {
	client := &fakeClient{response: `{
		"matched_role": "Wizard",
		"confidence_score": 0.99,
		"seniority_level": "Senior"
	}`}
	classifier := New(client, testVocab())

	rec, err := classifier.Classify(context.Background(), testRecord())
	require.NoError(t, err, "an unusable label degrades, it does not fail")
	assert.Equal(t, types.RoleUnclassified, rec.AIAnalysis.MatchedRole)
	assert.Equal(t, 0.0, rec.AIAnalysis.Confidence, "confidence in a rejected label is worthless")
	assert.Equal(t, "Senior", rec.AIAnalysis.Seniority, "seniority survives independently")
}

func TestClassifyUnparsableResponse(t *testing.T) {
	client := &fakeClient{response: "The candidate seems to be a backend developer."}
	classifier := New(client, testVocab())

	rec, err := classifier.Classify(context.Background(), testRecord())
	require.NoError(t, err)
	assert.Equal(t, types.RoleUnclassified, rec.AIAnalysis.MatchedRole)
	assert.Equal(t, 0.0, rec.AIAnalysis.Confidence)
	assert.Equal(t, types.SeniorityUnknown, rec.AIAnalysis.Seniority)
}

func TestClassifyClampsConfidence(t *testing.T) {
	client := &fakeClient{response: `{
		"matched_role": "Data Engineer",
		"confidence_score": 3.2,
		"seniority_level": "Junior"
	}`}
	classifier := New(client, testVocab())

	rec, err := classifier.Classify(context.Background(), testRecord())
	require.NoError(t, err)
	assert.Equal(t, 1.0, rec.AIAnalysis.Confidence)
}

func TestClassifyUnknownSeniorityFallback(t *testing.T) {
	client := &fakeClient{response: `{
		"matched_role": "Backend Developer",
		"confidence_score": 0.7,
		"seniority_level": "Grandmaster"
	}`}
	classifier := New(client, testVocab())

	rec, err := classifier.Classify(context.Background(), testRecord())
	require.NoError(t, err)
	assert.Equal(t, "Backend Developer", rec.AIAnalysis.MatchedRole)
	assert.Equal(t, types.SeniorityUnknown, rec.AIAnalysis.Seniority)
}

func TestClassifyReturnsTransportError(t *testing.T) {
	transportErr := &llm.TransportError{Message: "unauthorized", Fatal: true}
	client := &fakeClient{err: transportErr}
	classifier := New(client, testVocab())

	_, err := classifier.Classify(context.Background(), testRecord())
	require.Error(t, err)
	assert.True(t, llm.IsFatal(err))
}
