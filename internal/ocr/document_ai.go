package ocr

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"form283/internal/logger"
)

// Checkbox tokens emitted for form-parser checkbox fields. The extraction
// prompt and the validation rules both key off these exact strings.
const (
	CheckboxSelected   = ":selected:"
	CheckboxUnselected = ":unselected:"
)

// DocumentAIConfig holds the processor coordinates for the form parser.
type DocumentAIConfig struct {
	ProjectID        string
	Location         string
	ProcessorID      string
	ProcessorVersion string
	Timeout          time.Duration
}

// DocumentAIOCRService implements OCRService using a Google Document AI
// form parser processor. On top of the plain page text it renders the
// detected field/value pairs, with checkbox values replaced by the
// ":selected:" / ":unselected:" tokens, so the downstream extraction step
// can tell which of the form's boxes were actually ticked.
type DocumentAIOCRService struct {
	client *documentai.DocumentProcessorClient
	config DocumentAIConfig
	log    zerolog.Logger
}

// NewDocumentAIOCRService creates the service with credentials from the
// environment.
// Expects: GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS
// Requires: GOOGLE_CLOUD_PROJECT, DOCUMENT_AI_PROCESSOR_ID
// Optional: GOOGLE_CLOUD_LOCATION (defaults to "eu")
func NewDocumentAIOCRService(ctx context.Context) (OCRService, error) {
	const op = "NewDocumentAIOCRService"

	config := DocumentAIConfig{
		ProjectID:   os.Getenv("GOOGLE_CLOUD_PROJECT"),
		Location:    os.Getenv("GOOGLE_CLOUD_LOCATION"),
		ProcessorID: os.Getenv("DOCUMENT_AI_PROCESSOR_ID"),
		Timeout:     60 * time.Second,
	}
	if config.Location == "" {
		config.Location = "eu"
	}

	if config.ProjectID == "" {
		return nil, WrapOCRError(op, ErrInvalidConfiguration, "GOOGLE_CLOUD_PROJECT is required")
	}
	if config.ProcessorID == "" {
		return nil, WrapOCRError(op, ErrInvalidConfiguration, "DOCUMENT_AI_PROCESSOR_ID is required")
	}

	var clientOptions []option.ClientOption

	// Regional endpoint for anything outside the default us multi-region
	if config.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		clientOptions = append(clientOptions, option.WithCredentialsJSON([]byte(credJSON)))
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(credFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if len(clientOptions) == 0 {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapOCRError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	return &DocumentAIOCRService{
		client: client,
		config: config,
		log:    logger.WithComponent("document-ai"),
	}, nil
}

// NewDocumentAIOCRServiceWithConfig creates the service with explicit
// config and client (for testing).
func NewDocumentAIOCRServiceWithConfig(config DocumentAIConfig, client *documentai.DocumentProcessorClient) OCRService {
	return &DocumentAIOCRService{
		client: client,
		config: config,
		log:    logger.WithComponent("document-ai"),
	}
}

// ProcessPDF extracts text from a PDF document.
func (s *DocumentAIOCRService) ProcessPDF(ctx context.Context, pdfData io.Reader) (string, error) {
	result, err := s.ProcessPDFWithMetadata(ctx, pdfData)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// ProcessPDFWithMetadata extracts text and form fields from a PDF document
// with additional metadata.
func (s *DocumentAIOCRService) ProcessPDFWithMetadata(ctx context.Context, pdfData io.Reader) (*OCRResult, error) {
	const op = "ProcessPDFWithMetadata"
	startTime := time.Now()

	pdfBytes, err := io.ReadAll(pdfData)
	if err != nil {
		return nil, WrapOCRError(op, err, "failed to read PDF data")
	}

	if len(pdfBytes) > MaxFileSizeBytes {
		return nil, WrapOCRError(op, ErrFileTooLarge, fmt.Sprintf("file size: %d bytes", len(pdfBytes)))
	}

	if len(pdfBytes) < 4 || string(pdfBytes[:4]) != "%PDF" {
		return nil, WrapOCRError(op, ErrInvalidPDF, "missing PDF header")
	}

	processCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	req := &documentaipb.ProcessRequest{
		Name: s.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  pdfBytes,
				MimeType: "application/pdf",
			},
		},
	}

	resp, err := s.client.ProcessDocument(processCtx, req)
	if err != nil {
		return nil, s.handleProcessingError(op, err)
	}

	if resp.Document == nil {
		return nil, WrapOCRError(op, ErrOCRFailed, "no document in response")
	}

	result, err := s.renderDocument(resp.Document)
	if err != nil {
		return nil, WrapOCRError(op, err, "failed to render Document AI response")
	}

	result.ProcessedAt = time.Now()
	result.ProcessingDuration = result.ProcessedAt.Sub(startTime)

	s.log.Debug().
		Int("pages", result.PageCount).
		Float32("confidence", result.Confidence).
		Dur("duration", result.ProcessingDuration).
		Msg("Document AI form parsing completed")

	return result, nil
}

// processorName constructs the full processor resource name.
func (s *DocumentAIOCRService) processorName() string {
	if s.config.ProcessorVersion != "" {
		return fmt.Sprintf("projects/%s/locations/%s/processors/%s/processorVersions/%s",
			s.config.ProjectID, s.config.Location, s.config.ProcessorID, s.config.ProcessorVersion)
	}
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		s.config.ProjectID, s.config.Location, s.config.ProcessorID)
}

// handleProcessingError converts Document AI errors to the package's
// sentinel errors.
func (s *DocumentAIOCRService) handleProcessingError(op string, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "PERMISSION_DENIED"):
		return WrapOCRError(op, ErrMissingCredentials, "insufficient permissions for Document AI")
	case strings.Contains(errStr, "NOT_FOUND"):
		return WrapOCRError(op, ErrInvalidConfiguration, fmt.Sprintf("processor not found: %s", s.config.ProcessorID))
	case strings.Contains(errStr, "INVALID_ARGUMENT"):
		return WrapOCRError(op, ErrInvalidPDF, "document format not supported or corrupted")
	case strings.Contains(errStr, "DeadlineExceeded") || strings.Contains(errStr, "context deadline exceeded"):
		return WrapOCRError(op, context.DeadlineExceeded, "processing timeout")
	default:
		return WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("Document AI error: %v", err))
	}
}

// renderDocument flattens a Document AI form-parser response into a single
// text: the full page text first, then one line per detected form field.
// Checkbox fields render as ":selected: <label>" or ":unselected: <label>"
// instead of a value.
func (s *DocumentAIOCRService) renderDocument(doc *documentaipb.Document) (*OCRResult, error) {
	var out strings.Builder
	out.WriteString(doc.Text)

	var confidenceSum float32
	var confidenceCount int
	languageSet := make(map[string]bool)
	fieldCount := 0

	for pageIdx, page := range doc.Pages {
		for _, lang := range page.DetectedLanguages {
			if lang.LanguageCode != "" {
				languageSet[lang.LanguageCode] = true
			}
		}

		if len(page.FormFields) == 0 {
			continue
		}

		fmt.Fprintf(&out, "\n\n--- Form fields (page %d) ---\n", pageIdx+1)

		for _, field := range page.FormFields {
			name := strings.TrimSpace(anchorText(doc.Text, field.FieldName))
			if name == "" {
				continue
			}
			fieldCount++

			if field.FieldValue != nil && field.FieldValue.Confidence > 0 {
				confidenceSum += field.FieldValue.Confidence
				confidenceCount++
			}

			switch field.ValueType {
			case "filled_checkbox":
				fmt.Fprintf(&out, "%s %s\n", CheckboxSelected, name)
			case "unfilled_checkbox":
				fmt.Fprintf(&out, "%s %s\n", CheckboxUnselected, name)
			default:
				value := strings.TrimSpace(anchorText(doc.Text, field.FieldValue))
				fmt.Fprintf(&out, "%s: %s\n", name, value)
			}
		}
	}

	extractedText := out.String()
	if strings.TrimSpace(extractedText) == "" {
		return nil, ErrEmptyDocument
	}

	var avgConfidence float32
	if confidenceCount > 0 {
		avgConfidence = confidenceSum / float32(confidenceCount)
	}

	var languages []string
	for lang := range languageSet {
		languages = append(languages, lang)
	}

	s.log.Debug().
		Int("form_fields", fieldCount).
		Msg("Rendered form-parser fields")

	return &OCRResult{
		Text:          extractedText,
		PageCount:     len(doc.Pages),
		Confidence:    avgConfidence,
		LanguageCodes: languages,
	}, nil
}

// anchorText resolves a layout's text anchor against the document text.
// Segments can be out of order for RTL layouts, so they are concatenated
// in anchor order, not position order.
func anchorText(text string, layout *documentaipb.Document_Page_Layout) string {
	if layout == nil || layout.TextAnchor == nil {
		return ""
	}

	var b strings.Builder
	for _, segment := range layout.TextAnchor.TextSegments {
		start, end := segment.StartIndex, segment.EndIndex
		if start < 0 || end > int64(len(text)) || start >= end {
			continue
		}
		b.WriteString(text[start:end])
	}
	return b.String()
}

// Close closes the underlying Document AI client.
func (s *DocumentAIOCRService) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
