package match

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
	calls    int
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.calls++
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
		Recommendations: []string{"strong_yes", "yes", "maybe", "no"},
	}
}

func testRecord() *types.CandidateRecord {
	return &types.CandidateRecord{
		PersonalInfo: types.PersonalInfo{FullName: "Tran B"},
		Skills:       []types.Skill{{Name: "Go"}, {Name: "Kubernetes"}},
	}
}

const jd = "Senior Go developer with Kubernetes experience."

func TestMatchSuccess(t *testing.T) {
	client := &fakeClient{response: `{
		"match_score": 82.5,
		"matched_skills": ["Go", "Kubernetes"],
		"missing_skills": ["Terraform"],
		"strengths": ["Production Go experience"],
		"concerns": ["No IaC background"],
		"recommendation": "YES",
		"reasoning": " Solid overlap with the stack. "
	}`}
	matcher := New(client, testVocab())

	rec, err := matcher.Match(context.Background(), testRecord(), jd)
	require.NoError(t, err)
	require.NotNil(t, rec.AIAnalysis.JDMatchScore)
	assert.Equal(t, 82.5, *rec.AIAnalysis.JDMatchScore)
	assert.Equal(t, []string{"Go", "Kubernetes"}, rec.AIAnalysis.MatchedSkills)
	assert.Equal(t, []string{"Terraform"}, rec.AIAnalysis.MissingSkills)
	require.NotNil(t, rec.AIAnalysis.Recommendation)
	assert.Equal(t, "yes", *rec.AIAnalysis.Recommendation, "recommendation snaps to vocabulary spelling")
	assert.Equal(t, "Solid overlap with the stack.", rec.AIAnalysis.JDReasoning)

	assert.Contains(t, client.prompt, jd)
	assert.Contains(t, client.prompt, "Tran B")
}

func TestMatchEmptyJobDescriptionIsNoOp(t *testing.T) {
	client := &fakeClient{}
	matcher := New(client, testVocab())

	for _, jdText := range []string{"", "   \n\t"} {
		rec, err := matcher.Match(context.Background(), testRecord(), jdText)
		require.NoError(t, err)
		assert.Nil(t, rec.AIAnalysis.JDMatchScore, "no JD means no score, never a fabricated zero")
		assert.Nil(t, rec.AIAnalysis.Recommendation)
	}
	assert.Equal(t, 0, client.calls, "no LLM call without a job description")
}

func TestMatchClampsScore(t *testing.T) {
	tests := []struct {
		name     string
		score    string
		expected float64
	}{
		{"Above range", "150", 100},
		{"Below range", "-20", 0},
		{"In range", "55.5", 55.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{response: `{"match_score": ` + tt.score + `, "recommendation": "no"}`}
			matcher := New(client, testVocab())

			rec, err := matcher.Match(context.Background(), testRecord(), jd)
			require.NoError(t, err)
			require.NotNil(t, rec.AIAnalysis.JDMatchScore)
			assert.Equal(t, tt.expected, *rec.AIAnalysis.JDMatchScore)
		})
	}
}

func TestMatchRecommendationFallback(t *testing.T) {
	client := &fakeClient{response: `{"match_score": 40, "recommendation": "hire immediately"}`}
	matcher := New(client, testVocab())

	rec, err := matcher.Match(context.Background(), testRecord(), jd)
	require.NoError(t, err)
	require.NotNil(t, rec.AIAnalysis.Recommendation)
	assert.Equal(t, types.RecommendationMaybe, *rec.AIAnalysis.Recommendation)
}

func TestMatchUnparsableResponse(t *testing.T) {
	client := &fakeClient{response: "this candidate looks great"}
	matcher := New(client, testVocab())

	rec, err := matcher.Match(context.Background(), testRecord(), jd)
	require.Error(t, err)

	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
	assert.Nil(t, rec.AIAnalysis.JDMatchScore, "failed analysis leaves the JD fields untouched")
}

func TestMatchReturnsTransportError(t *testing.T) {
	transportErr := &llm.TransportError{Message: "server error"}
	client := &fakeClient{err: transportErr}
	matcher := New(client, testVocab())

	_, err := matcher.Match(context.Background(), testRecord(), jd)
	require.Error(t, err)

	var te *llm.TransportError
	assert.ErrorAs(t, err, &te)
}
