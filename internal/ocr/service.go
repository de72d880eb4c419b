// Package ocr extracts text from scanned Form 283 documents.
//
// Two providers are available, both behind the OCRService interface:
//
//   - Google Cloud Vision document text detection: plain text extraction
//     with Hebrew/English language hints, for clean machine-printed scans.
//   - Google Document AI form parser: layout-aware extraction that also
//     returns the form's field/value pairs, rendering checkbox fields as
//     ":selected:" / ":unselected:" tokens. The downstream extraction
//     prompt relies on that convention to decide which box was ticked.
//
// Required environment variables:
//   - GOOGLE_APPLICATION_CREDENTIALS: path to service account JSON, OR
//   - GOOGLE_CREDENTIALS: inline JSON credentials string
//
// Both providers process PDFs inline (no GCS upload) and are bound by the
// synchronous API limits: 20MB per file, and 5 pages for Vision. Form 283
// is two pages, well inside both.
package ocr

import (
	"context"
	"io"
	"time"
)

// OCRService defines the interface for OCR text extraction providers.
type OCRService interface {
	// ProcessPDF extracts text from a PDF document and returns the
	// concatenated text of all pages.
	ProcessPDF(ctx context.Context, pdfData io.Reader) (string, error)

	// ProcessPDFWithMetadata extracts text together with confidence and
	// processing metadata.
	ProcessPDFWithMetadata(ctx context.Context, pdfData io.Reader) (*OCRResult, error)
}

// OCRResult contains the results of OCR processing with metadata.
type OCRResult struct {
	// Text is the extracted content of all pages in reading order. For the
	// Document AI provider it includes the rendered form-field section
	// with checkbox markers.
	Text string `json:"text"`

	// PageCount is the number of pages processed.
	PageCount int `json:"page_count"`

	// Confidence is the average detection confidence (0.0 to 1.0).
	Confidence float32 `json:"confidence"`

	// LanguageCodes lists the languages detected in the document.
	LanguageCodes []string `json:"language_codes,omitempty"`

	// ProcessedAt is when processing completed.
	ProcessedAt time.Time `json:"processed_at"`

	// ProcessingDuration is how long the provider call took.
	ProcessingDuration time.Duration `json:"processing_duration"`
}
