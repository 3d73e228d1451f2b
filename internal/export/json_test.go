package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbt245/scrape-from-bhancockio/internal/types"
)

func TestWriteJSONRoundTrip(t *testing.T) {
	original := []*types.CandidateRecord{fullRecord()}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, original))

	restored, err := ReadJSON(&buf)
	require.NoError(t, err)
	require.Len(t, restored, 1)
	assert.Equal(t, original[0], restored[0], "the nested export is lossless")
}

func TestWriteJSONNeverEvaluatedFieldsAreExplicitNull(t *testing.T) {
	rec := &types.CandidateRecord{
		PersonalInfo: types.PersonalInfo{FullName: "Tran B"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, []*types.CandidateRecord{rec}))

	var parsed []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	require.Len(t, parsed, 1)

	analysis, ok := parsed[0]["ai_analysis"].(map[string]any)
	require.True(t, ok)

	score, present := analysis["jd_match_score"]
	assert.True(t, present, "the key is emitted even when never evaluated")
	assert.Nil(t, score)

	recommendation, present := analysis["recommendation"]
	assert.True(t, present)
	assert.Nil(t, recommendation)

	personal, ok := parsed[0]["personal_info"].(map[string]any)
	require.True(t, ok)
	years, present := personal["years_of_experience"]
	assert.True(t, present)
	assert.Nil(t, years)
}

func TestWriteJSONEvaluatedZeroIsNotNull(t *testing.T) {
	rec := &types.CandidateRecord{
		PersonalInfo: types.PersonalInfo{FullName: "C"},
		AIAnalysis:   types.AIAnalysis{JDMatchScore: floatPtr(0)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, []*types.CandidateRecord{rec}))

	var parsed []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	analysis := parsed[0]["ai_analysis"].(map[string]any)
	assert.Equal(t, 0.0, analysis["jd_match_score"])
}

func TestWriteJSONEmptySet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]", string(bytes.TrimSpace(buf.Bytes())), "nil marshals as an empty array, not null")
}
