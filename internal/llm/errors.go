package llm

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// TransportError represents a failure talking to the LLM backend. Fatal
// errors (invalid credentials, permission denied) abort the whole run;
// transient ones (rate limit, server errors) cost only the current call.
type TransportError struct {
	Message string
	Fatal   bool
	Cause   error
}

func (e *TransportError) Error() string {
	kind := "transient"
	if e.Fatal {
		kind = "fatal"
	}
	if e.Cause != nil {
		return fmt.Sprintf("transport error (%s): %s: %v", kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("transport error (%s): %s", kind, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// IsFatal reports whether err is a fatal transport error.
func IsFatal(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Fatal
}

// wrapTransportError classifies a backend error as fatal or transient based
// on the underlying HTTP status when one is available.
func wrapTransportError(message string, err error) *TransportError {
	fatal := false
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			fatal = true
		case http.StatusBadRequest:
			// Invalid API keys surface as 400 from the Gemini API.
			fatal = true
		}
	}
	return &TransportError{Message: message, Fatal: fatal, Cause: err}
}
