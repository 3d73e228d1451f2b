package pipeline

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbt245/scrape-from-bhancockio/internal/crawl"
	"github.com/pbt245/scrape-from-bhancockio/internal/llm"
	"github.com/pbt245/scrape-from-bhancockio/internal/types"
)

// fakeExtractor produces a record named after the block text, failing for
// blocks listed in failOn.
type fakeExtractor struct {
	mu     sync.Mutex
	failOn map[string]error
	calls  int
}

func (f *fakeExtractor) Extract(_ context.Context, block string) (*types.CandidateRecord, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err, ok := f.failOn[block]; ok {
		return nil, err
	}
	return &types.CandidateRecord{
		PersonalInfo: types.PersonalInfo{FullName: block},
	}, nil
}

type fakeClassifier struct{}

func (fakeClassifier) Classify(_ context.Context, rec *types.CandidateRecord) (*types.CandidateRecord, error) {
	rec.AIAnalysis.MatchedRole = "Backend Developer"
	rec.AIAnalysis.Confidence = 0.5
	return rec, nil
}

type fakeMatcher struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeMatcher) Match(_ context.Context, rec *types.CandidateRecord, _ string) (*types.CandidateRecord, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	score := 50.0
	rec.AIAnalysis.JDMatchScore = &score
	return rec, nil
}

func blocks(texts ...string) []crawl.Block {
	out := make([]crawl.Block, len(texts))
	for i, text := range texts {
		out[i] = crawl.Block{SourceURL: "http://src.example", Position: i, Text: text}
	}
	return out
}

func TestRunHappyPath(t *testing.T) {
	runner := New(&fakeExtractor{}, fakeClassifier{}, &fakeMatcher{}, nil)

	records, summary, err := runner.Run(context.Background(), blocks("A", "B", "C"), Options{Workers: 2})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 3, summary.Attempted)
	assert.Equal(t, 3, summary.Extracted)
	assert.Equal(t, 0, summary.Dropped)
	assert.Equal(t, 3, summary.Exported)
}

func TestRunSkipsMatchingWithoutJobDescription(t *testing.T) {
	matcher := &fakeMatcher{}
	runner := New(&fakeExtractor{}, fakeClassifier{}, matcher, nil)

	records, _, err := runner.Run(context.Background(), blocks("A"), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, matcher.calls)
	assert.Nil(t, records[0].AIAnalysis.JDMatchScore)
}

func TestRunMatchesWithJobDescription(t *testing.T) {
	matcher := &fakeMatcher{}
	runner := New(&fakeExtractor{}, fakeClassifier{}, matcher, nil)

	records, _, err := runner.Run(context.Background(), blocks("A", "B"),
		Options{JobDescription: "Go developer"})
	require.NoError(t, err)
	assert.Equal(t, 2, matcher.calls)
	require.NotNil(t, records[0].AIAnalysis.JDMatchScore)
}

func TestRunDropsFailedCandidatesAndContinues(t *testing.T) {
	extractor := &fakeExtractor{failOn: map[string]error{
		"B": fmt.Errorf("schema mismatch after retry"),
	}}
	runner := New(extractor, fakeClassifier{}, &fakeMatcher{}, nil)

	records, summary, err := runner.Run(context.Background(), blocks("A", "B", "C"), Options{})
	require.NoError(t, err, "a per-candidate failure never fails the batch")
	require.Len(t, records, 2)
	assert.Equal(t, 3, summary.Attempted)
	assert.Equal(t, 2, summary.Extracted)
	assert.Equal(t, 1, summary.Dropped)
	assert.Equal(t, 2, summary.Exported)
}

func TestRunAbortsOnFatalTransportError(t *testing.T) {
	fatal := &llm.TransportError{Message: "invalid API key", Fatal: true}
	extractor := &fakeExtractor{failOn: map[string]error{"B": fatal}}
	runner := New(extractor, fakeClassifier{}, &fakeMatcher{}, nil)

	records, summary, err := runner.Run(context.Background(), blocks("A", "B", "C"), Options{})
	require.Error(t, err)
	assert.True(t, llm.IsFatal(err))
	assert.Nil(t, records, "no partial export on abort")
	assert.Equal(t, 3, summary.Attempted, "the summary still reports what happened")
}

func TestRunTransientTransportErrorOnlyDropsTheCandidate(t *testing.T) {
	transient := &llm.TransportError{Message: "rate limited"}
	extractor := &fakeExtractor{failOn: map[string]error{"B": transient}}
	runner := New(extractor, fakeClassifier{}, &fakeMatcher{}, nil)

	records, summary, err := runner.Run(context.Background(), blocks("A", "B"), Options{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, summary.Dropped)
}

func TestRunPreservesArrivalOrderAcrossWorkers(t *testing.T) {
	// Duplicate blocks dedupe by name; with arrival order restored, the
	// surviving set is deterministic regardless of worker interleaving.
	texts := make([]string, 20)
	for i := range texts {
		texts[i] = fmt.Sprintf("Candidate %02d", i)
	}

	runner := New(&fakeExtractor{}, fakeClassifier{}, &fakeMatcher{}, nil)
	records, _, err := runner.Run(context.Background(), blocks(texts...), Options{Workers: 8})
	require.NoError(t, err)
	require.Len(t, records, 20)
	for i, rec := range records {
		assert.Equal(t, fmt.Sprintf("Candidate %02d", i), rec.PersonalInfo.FullName)
	}
}

func TestRunDeduplicatesMergedCandidates(t *testing.T) {
	runner := New(&fakeExtractor{}, fakeClassifier{}, &fakeMatcher{}, nil)

	records, summary, err := runner.Run(context.Background(),
		blocks("Nguyen Van A", "Tran B", "nguyen van a"), Options{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 3, summary.Extracted)
	assert.Equal(t, 2, summary.Exported)
}

func TestRunEmptyInput(t *testing.T) {
	runner := New(&fakeExtractor{}, fakeClassifier{}, &fakeMatcher{}, nil)

	records, summary, err := runner.Run(context.Background(), nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 0, summary.Attempted)
	assert.Equal(t, 0, summary.Exported)
}
