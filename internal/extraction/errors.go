package extraction

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyText is returned when there is no OCR text to extract from.
	ErrEmptyText = errors.New("no OCR text to extract from")

	// ErrMissingAPIKey is returned when OPENAI_API_KEY is not configured.
	ErrMissingAPIKey = errors.New("OPENAI_API_KEY environment variable is required")

	// ErrExtractionFailed is returned when all model attempts failed.
	ErrExtractionFailed = errors.New("field extraction failed")

	// ErrInvalidResponse is returned when the model reply is not the
	// requested JSON object.
	ErrInvalidResponse = errors.New("model response is not a valid JSON object")
)

// ExtractionError wraps errors with the failing operation and extra context.
type ExtractionError struct {
	Op      string
	Err     error
	Details string
}

func (e *ExtractionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("extraction: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("extraction: %s failed: %v", e.Op, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func (e *ExtractionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapExtractionError wraps an error as an ExtractionError unless it
// already is one.
func WrapExtractionError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var exErr *ExtractionError
	if errors.As(err, &exErr) {
		return err
	}

	return &ExtractionError{Op: op, Err: err, Details: details}
}
