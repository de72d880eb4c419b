package ocr

import (
	"errors"
	"fmt"
)

// Common OCR processing errors
var (
	// ErrFileTooLarge is returned when the document exceeds the 20MB
	// synchronous processing limit.
	ErrFileTooLarge = errors.New("document exceeds the maximum size limit (20MB)")

	// ErrInvalidPDF is returned when the provided data is not a valid PDF.
	ErrInvalidPDF = errors.New("invalid or corrupted PDF document")

	// ErrOCRFailed is returned when the cloud OCR call fails.
	ErrOCRFailed = errors.New("OCR processing failed")

	// ErrMissingCredentials is returned when neither
	// GOOGLE_APPLICATION_CREDENTIALS nor GOOGLE_CREDENTIALS is configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS")

	// ErrTooManyPages is returned when the PDF exceeds the Vision
	// synchronous page limit. Form 283 scans are two pages; anything
	// beyond five is not a claim form.
	ErrTooManyPages = errors.New("PDF has too many pages (maximum 5 pages for synchronous processing)")

	// ErrEmptyDocument is returned when no readable text was detected.
	ErrEmptyDocument = errors.New("document contains no readable text")

	// ErrInvalidConfiguration is returned when the Document AI provider is
	// missing its project or processor configuration.
	ErrInvalidConfiguration = errors.New("invalid Document AI configuration")
)

// OCRError wraps errors with the failing operation and extra context.
type OCRError struct {
	Op      string
	Err     error
	Details string
}

// Error implements the error interface.
func (e *OCRError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ocr: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ocr: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *OCRError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *OCRError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapOCRError wraps an error as an OCRError unless it already is one.
func WrapOCRError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var ocrErr *OCRError
	if errors.As(err, &ocrErr) {
		return err
	}

	return &OCRError{Op: op, Err: err, Details: details}
}
