// Package pipeline chains OCR, field extraction and quality validation
// for a single scanned claim form, and persists the intermediate artifacts.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"form283/internal/extraction"
	"form283/internal/logger"
	"form283/internal/ocr"
	"form283/internal/schema"
	"form283/internal/validation"
	"form283/pkg/models"
)

// Output subdirectories created under the configured output dir.
const (
	ocrTextDir    = "ocr_text"
	extractedDir  = "extracted_json"
	validationDir = "validation_reports"
)

// Result is the outcome of processing one document end to end.
type Result struct {
	File       string                         `json:"file"`
	OCR        *ocr.OCRResult                 `json:"ocr,omitempty"`
	Form       *models.Form283                `json:"form,omitempty"`
	Report     *models.ValidationReport       `json:"report,omitempty"`
	Extraction *extraction.ExtractionMetadata `json:"extraction,omitempty"`
}

// Processor runs the OCR -> extraction -> validation pipeline.
type Processor struct {
	ocrService ocr.OCRService
	extractor  extraction.ExtractionService
	validator  *validation.Validator
	outputDir  string
	log        zerolog.Logger
}

// NewProcessor creates a pipeline processor. outputDir may be empty, in
// which case SaveOutputs is a no-op for callers that only want the Result.
func NewProcessor(ocrService ocr.OCRService, extractor extraction.ExtractionService, validator *validation.Validator, outputDir string) *Processor {
	return &Processor{
		ocrService: ocrService,
		extractor:  extractor,
		validator:  validator,
		outputDir:  outputDir,
		log:        logger.WithComponent("pipeline"),
	}
}

// ProcessFile runs the full pipeline for one PDF.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*Result, error) {
	const op = "ProcessFile"

	result := &Result{File: filepath.Base(path)}
	log := logger.WithDocument("pipeline", result.File)

	pdfFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open PDF file: %w", op, err)
	}
	defer pdfFile.Close()

	log.Info().Msg("Running OCR")
	ocrResult, err := p.ocrService.ProcessPDFWithMetadata(ctx, pdfFile)
	if err != nil {
		return nil, fmt.Errorf("%s: OCR failed: %w", op, err)
	}
	result.OCR = ocrResult

	log.Info().
		Int("text_length", len(ocrResult.Text)).
		Float32("confidence", ocrResult.Confidence).
		Msg("OCR completed, extracting fields")

	form, meta, err := p.extractor.ExtractForm(ctx, ocrResult.Text)
	if err != nil {
		return nil, fmt.Errorf("%s: extraction failed: %w", op, err)
	}
	result.Form = form
	result.Extraction = meta

	report, err := p.validator.Validate(form)
	if err != nil {
		return nil, fmt.Errorf("%s: validation failed: %w", op, err)
	}
	result.Report = report

	log.Info().
		Float64("accuracy", report.AccuracyScore).
		Float64("completeness", report.CompletenessScore).
		Int("issues", len(report.Corrections)).
		Msg("Document processed")

	return result, nil
}

// SaveOutputs persists the pipeline artifacts for one result:
// the raw OCR text, the extracted form data under its Hebrew labels, and
// the validation report.
func (p *Processor) SaveOutputs(result *Result) error {
	const op = "SaveOutputs"

	if p.outputDir == "" {
		return nil
	}

	base := strings.TrimSuffix(result.File, filepath.Ext(result.File))

	if result.OCR != nil {
		path := filepath.Join(p.outputDir, ocrTextDir, base+"_extracted.txt")
		if err := writeFile(path, []byte(result.OCR.Text)); err != nil {
			return fmt.Errorf("%s: failed to save OCR text: %w", op, err)
		}
	}

	if result.Form != nil {
		data, err := json.MarshalIndent(schema.EncodeAliased(result.Form), "", "  ")
		if err != nil {
			return fmt.Errorf("%s: failed to marshal form data: %w", op, err)
		}
		path := filepath.Join(p.outputDir, extractedDir, base+"_form_data.json")
		if err := writeFile(path, data); err != nil {
			return fmt.Errorf("%s: failed to save form data: %w", op, err)
		}
	}

	if result.Report != nil {
		data, err := json.MarshalIndent(result.Report, "", "  ")
		if err != nil {
			return fmt.Errorf("%s: failed to marshal validation report: %w", op, err)
		}
		path := filepath.Join(p.outputDir, validationDir, base+"_validation.json")
		if err := writeFile(path, data); err != nil {
			return fmt.Errorf("%s: failed to save validation report: %w", op, err)
		}
	}

	p.log.Debug().
		Str("file", result.File).
		Str("output_dir", p.outputDir).
		Msg("Pipeline outputs saved")

	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
