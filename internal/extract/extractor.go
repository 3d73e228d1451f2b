// Package extract turns blocks of raw scraped text into validated candidate
// records via a single LLM call per block, with one clarifying re-prompt
// when the first response fails schema validation.
package extract

import (
	"context"
	"errors"
	"strings"

	"github.com/pbt245/scrape-from-bhancockio/internal/llm"
	"github.com/pbt245/scrape-from-bhancockio/internal/prompts"
	"github.com/pbt245/scrape-from-bhancockio/internal/schema"
	"github.com/pbt245/scrape-from-bhancockio/internal/types"
)

// Extractor extracts candidate records from raw source text.
type Extractor struct {
	client llm.Client
	vocab  types.Vocabularies
	tier   llm.ModelTier
}

// New creates an Extractor using the given client and vocabularies.
func New(client llm.Client, vocab types.Vocabularies) *Extractor {
	return &Extractor{
		client: client,
		vocab:  vocab,
		tier:   llm.TierStandard,
	}
}

// Extract issues one LLM call for the block and validates the response
// against the candidate schema. On validation failure it re-prompts once
// with the validation errors embedded; if the second response still fails,
// it returns a typed *ExtractionFailedError rather than raising. Transport
// errors pass through unwrapped so the caller can distinguish fatal from
// transient ones.
func (e *Extractor) Extract(ctx context.Context, block string) (*types.CandidateRecord, error) {
	prompt := e.buildPrompt(block)

	response, err := e.client.GenerateJSON(ctx, prompt, e.tier)
	if err != nil {
		return nil, err
	}

	rec, err := schema.Validate([]byte(response), e.vocab)
	if err == nil {
		return rec, nil
	}

	var ve *schema.ValidationError
	if !errors.As(err, &ve) {
		return nil, err
	}

	// One clarifying retry with the validation errors spelled out.
	retryPrompt := e.buildRetryPrompt(block, response, ve)
	retryResponse, err := e.client.GenerateJSON(ctx, retryPrompt, e.tier)
	if err != nil {
		return nil, err
	}

	rec, err = schema.Validate([]byte(retryResponse), e.vocab)
	if err != nil {
		return nil, &ExtractionFailedError{RawResponse: retryResponse, Cause: err}
	}
	return rec, nil
}

func (e *Extractor) buildPrompt(block string) string {
	template := prompts.MustGet("extraction.json", "extract-candidate")
	return prompts.Format(template, map[string]string{
		"SourceText":    block,
		"Proficiencies": strings.Join(e.vocab.Proficiencies, ", "),
		"Categories":    strings.Join(e.vocab.SkillCategories, ", "),
	})
}

func (e *Extractor) buildRetryPrompt(block, previousResponse string, ve *schema.ValidationError) string {
	template := prompts.MustGet("extraction.json", "extract-candidate-retry")
	return prompts.Format(template, map[string]string{
		"SourceText":       block,
		"PreviousResponse": previousResponse,
		"ValidationErrors": ve.Error(),
	})
}
