// Package schema enforces the candidate record contract: structural JSON
// validation of raw model output, struct-level validation, and deterministic
// coercion of enums and numeric fields into their declared vocabularies and
// bounds. Side-effect-free and I/O-free; everything downstream of the
// extractor handles only records that passed through here.
package schema

import (
	_ "embed"
	"encoding/json"
	"net/mail"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"

	"github.com/pbt245/scrape-from-bhancockio/internal/types"
)

//go:embed candidate.schema.json
var candidateSchemaJSON string

var (
	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	schemaErr      error

	structValidator = validator.New(validator.WithRequiredStructEnabled())
)

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = gojsonschema.NewSchema(
			gojsonschema.NewStringLoader(candidateSchemaJSON))
	})
	return compiledSchema, schemaErr
}

// Validate turns raw model JSON into a validated CandidateRecord.
// It runs three passes: JSON Schema structural validation, coercion of
// enum/numeric fields into declared vocabularies and ranges, and struct
// validation of required fields. Failure at any pass returns a
// *ValidationError; the caller decides whether to retry or drop.
func Validate(raw []byte, vocab types.Vocabularies) (*types.CandidateRecord, error) {
	compiled, err := loadSchema()
	if err != nil {
		return nil, err
	}

	result, err := compiled.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		// Not JSON at all.
		return nil, &ValidationError{Errors: []FieldError{
			{Field: "(root)", Message: err.Error()},
		}}
	}

	if !result.Valid() {
		ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
		}
		return nil, ve
	}

	var rec types.CandidateRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, &ValidationError{Errors: []FieldError{
			{Field: "(root)", Message: err.Error()},
		}}
	}

	coerce(&rec, vocab)

	if err := structValidator.Struct(&rec); err != nil {
		ve := &ValidationError{}
		var fieldErrs validator.ValidationErrors
		if ok := asValidationErrors(err, &fieldErrs); ok {
			for _, fe := range fieldErrs {
				ve.Errors = append(ve.Errors, FieldError{
					Field:   fe.Namespace(),
					Message: fe.Tag(),
				})
			}
		} else {
			ve.Errors = append(ve.Errors, FieldError{Field: "(root)", Message: err.Error()})
		}
		return nil, ve
	}

	return &rec, nil
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors)
	if ok {
		*target = ve
	}
	return ok
}

// coerce applies deterministic normalization: identity fields are trimmed
// and case-normalized, enum fields are mapped into their vocabularies with
// defined fallbacks, and numeric fields outside declared bounds are clamped
// or reset to unknown.
func coerce(rec *types.CandidateRecord, vocab types.Vocabularies) {
	rec.PersonalInfo.FullName = NormalizeName(rec.PersonalInfo.FullName)
	rec.ContactInfo.Email = NormalizeEmail(rec.ContactInfo.Email)

	// Negative experience signals a failed extraction, not an out-of-range
	// value: reset to unknown.
	if rec.PersonalInfo.YearsOfExperience != nil && *rec.PersonalInfo.YearsOfExperience < 0 {
		rec.PersonalInfo.YearsOfExperience = nil
	}

	skills := rec.Skills[:0]
	for _, s := range rec.Skills {
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			continue
		}
		if canon, ok := vocab.CanonicalProficiency(s.Proficiency); ok {
			s.Proficiency = canon
		} else {
			s.Proficiency = types.ProficiencyUnknown
		}
		if canon, ok := vocab.CanonicalCategory(s.Category); ok {
			s.Category = canon
		} else {
			s.Category = types.CategoryOther
		}
		skills = append(skills, s)
	}
	rec.Skills = skills

	langs := rec.Languages[:0]
	for _, l := range rec.Languages {
		l.Language = strings.TrimSpace(l.Language)
		if l.Language == "" {
			continue
		}
		langs = append(langs, l)
	}
	rec.Languages = langs

	achievements := rec.Achievements[:0]
	for _, a := range rec.Achievements {
		a.Title = strings.TrimSpace(a.Title)
		if a.Title == "" {
			continue
		}
		achievements = append(achievements, a)
	}
	rec.Achievements = achievements

	for i := range rec.Education {
		if rec.Education[i].GPA != nil && *rec.Education[i].GPA < 0 {
			rec.Education[i].GPA = nil
		}
	}

	rec.AIAnalysis.Confidence = ClampConfidence(rec.AIAnalysis.Confidence)
	if rec.AIAnalysis.JDMatchScore != nil {
		clamped := ClampMatchScore(*rec.AIAnalysis.JDMatchScore)
		rec.AIAnalysis.JDMatchScore = &clamped
	}
}

// NormalizeName trims and collapses internal whitespace in a full name.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether the address is syntactically valid. Only valid
// emails may serve as deduplication keys.
func ValidEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// ClampConfidence clamps a confidence score into [0,1].
func ClampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ClampMatchScore clamps a JD match score into [0,100].
func ClampMatchScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
