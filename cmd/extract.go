package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"form283/internal/extraction"
	"form283/internal/logger"
	"form283/internal/ocr"
	"form283/internal/pipeline"
	"form283/internal/validation"
)

var extractCmd = &cobra.Command{
	Use:   "extract [pdf-file]",
	Short: "Extract and validate a single claim form",
	Long: `Run the full pipeline on one scanned bl/283 PDF: OCR, field extraction
with an OpenAI model, and quality validation.

Intermediate artifacts are written under the output directory:
  ocr_text/<name>_extracted.txt        raw OCR text
  extracted_json/<name>_form_data.json extracted fields (Hebrew labels)
  validation_reports/<name>_validation.json  quality report

Required environment variables:
  OPENAI_API_KEY - OpenAI API key
  GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS
  GOOGLE_CLOUD_PROJECT - Your Google Cloud project ID`,
	Example: `  # Process one scan and save artifacts under data/output
  form283 extract scan.pdf

  # Use the Document AI form parser and print the report as JSON
  form283 extract scan.pdf --provider documentai --json

  # Skip writing output files
  form283 extract scan.pdf --output-dir ""`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().String("provider", "vision", "OCR provider (vision or documentai)")
	extractCmd.Flags().String("output-dir", "data/output", "Directory for pipeline artifacts (empty to skip)")
	extractCmd.Flags().Bool("json", false, "Print the full result as JSON")
	extractCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract")

	provider, _ := cmd.Flags().GetString("provider")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	pdfPath := args[0]

	if _, err := validatePDFFile(pdfPath, log); err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	ocrService, err := createOCRService(ctx, provider, log)
	if err != nil {
		return err
	}

	extractor, err := extraction.NewOpenAIExtractionService()
	if err != nil {
		return fmt.Errorf("failed to create extraction service: %w", err)
	}

	processor := pipeline.NewProcessor(ocrService, extractor, validation.NewValidator(), outputDir)

	result, err := processor.ProcessFile(ctx, pdfPath)
	if err != nil {
		var ocrErr *ocr.OCRError
		if errors.As(err, &ocrErr) {
			return handleOCRError(err, log)
		}
		log.Error().Err(err).Str("file", pdfPath).Msg("Pipeline failed")
		return err
	}

	if err := processor.SaveOutputs(result); err != nil {
		return err
	}

	if jsonOutput {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		if _, err := os.Stdout.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	printReport(result.File, result.Report)
	if outputDir != "" {
		fmt.Printf("\nArtifacts written to %s\n", outputDir)
	}

	return nil
}
