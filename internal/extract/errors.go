package extract

import "fmt"

// ExtractionFailedError means the model output did not conform to the
// candidate schema even after the single clarifying retry. It carries the
// raw model response for logging and inspection. The candidate is dropped;
// the batch continues.
type ExtractionFailedError struct {
	RawResponse string
	Cause       error
}

func (e *ExtractionFailedError) Error() string {
	return fmt.Sprintf("extraction failed after retry: %v", e.Cause)
}

func (e *ExtractionFailedError) Unwrap() error {
	return e.Cause
}
