package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pbt245/scrape-from-bhancockio/internal/types"
)

// WriteJSON writes the ranked set as an indented UTF-8 JSON array mirroring
// the full nested record structure. Never-evaluated JD fields marshal as
// explicit null, distinct from clamped zero values.
func WriteJSON(w io.Writer, records []*types.CandidateRecord) error {
	if records == nil {
		records = []*types.CandidateRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteJSONFile writes the nested JSON export to path.
func WriteJSONFile(path string, records []*types.CandidateRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create JSON file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := WriteJSON(f, records); err != nil {
		return err
	}
	return f.Close()
}

// ReadJSON parses a nested JSON export back into candidate records. The
// round trip reconstructs every field of the record structure.
func ReadJSON(r io.Reader) ([]*types.CandidateRecord, error) {
	var records []*types.CandidateRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	return records, nil
}
