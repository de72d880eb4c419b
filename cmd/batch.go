package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"form283/internal/extraction"
	"form283/internal/logger"
	"form283/internal/pipeline"
	"form283/internal/sheets"
	"form283/internal/validation"
)

var batchCmd = &cobra.Command{
	Use:   "batch [folder-path]",
	Short: "Process all claim form PDFs in a folder",
	Long: `Process every PDF in a folder through the full pipeline and write a
summary row per document to a Google Sheets review sheet.

Each file goes through OCR, OpenAI field extraction and quality
validation. The per-document artifacts are saved under the output
directory, and the review sheet gets one row with the claimant, scores
and issue counts so a human can triage low-quality extractions.

Required environment variables:
  OPENAI_API_KEY - OpenAI API key
  GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS
  GOOGLE_CLOUD_PROJECT - Your Google Cloud project ID
  GOOGLE_SHEET_URL - Google Sheets URL for the review sheet

Optional environment variables:
  GOOGLE_SHEET_WORKSHEET - Review sheet name (default: Form283_Review)
  BATCH_WORKERS - Number of parallel workers (default: 4)`,
	Example: `  # Process a folder of scans
  form283 batch ./scans

  # Use the Document AI form parser
  form283 batch ./scans --provider documentai

  # Dry run without writing to the review sheet
  form283 batch ./scans --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

// workerJob is a single PDF processing job.
type workerJob struct {
	FilePath string
	Index    int
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("provider", "vision", "OCR provider (vision or documentai)")
	batchCmd.Flags().String("output-dir", "data/output", "Directory for pipeline artifacts (empty to skip)")
	batchCmd.Flags().Bool("dry-run", false, "Process files but don't write to the review sheet")
	batchCmd.Flags().Bool("verbose", false, "Show detailed processing information")
}

func runBatch(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("batch")

	folderPath := args[0]
	provider, _ := cmd.Flags().GetString("provider")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")

	folderInfo, err := os.Stat(folderPath)
	if err != nil {
		return fmt.Errorf("folder not found: %s", folderPath)
	}
	if !folderInfo.IsDir() {
		return fmt.Errorf("path is not a directory: %s", folderPath)
	}

	log.Info().
		Str("folder", folderPath).
		Str("provider", provider).
		Bool("dry_run", dryRun).
		Msg("Starting batch processing")

	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("                    FORM 283 BATCH PROCESSING")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Folder: %s\n", folderPath)
	fmt.Printf("OCR provider: %s\n", provider)
	if dryRun {
		fmt.Println("Mode: dry run (no review sheet update)")
	}
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
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

	pdfFiles, err := findPDFFiles(folderPath)
	if err != nil {
		return fmt.Errorf("failed to find PDF files: %w", err)
	}

	if len(pdfFiles) == 0 {
		fmt.Println("No PDF files found in folder.")
		return nil
	}

	numWorkers := getNumWorkers()
	fmt.Printf("Processing %d PDFs with %d parallel workers...\n\n", len(pdfFiles), numWorkers)

	results := processPDFsInParallel(ctx, pdfFiles, processor, numWorkers, log, verbose)

	fmt.Println()

	successCount := 0
	warningCount := 0
	errorCount := 0
	for _, result := range results {
		switch result.Status {
		case "success":
			successCount++
		case "warning":
			warningCount++
		case "error":
			errorCount++
		}
	}

	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("                 RESULTS")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Succeeded: %d\n", successCount)
	if warningCount > 0 {
		fmt.Printf("With warnings: %d\n", warningCount)
	}
	if errorCount > 0 {
		fmt.Printf("Failed: %d\n", errorCount)
	}
	fmt.Println()

	if !dryRun {
		googleSheetURL := os.Getenv("GOOGLE_SHEET_URL")
		if googleSheetURL == "" {
			return fmt.Errorf("GOOGLE_SHEET_URL environment variable is required")
		}

		sheetName := os.Getenv("GOOGLE_SHEET_WORKSHEET")
		if sheetName == "" {
			sheetName = "Form283_Review"
		}

		fmt.Println("Writing results to review sheet...")

		sheetsService, err := sheets.NewSheetsService(ctx, googleSheetURL)
		if err != nil {
			return fmt.Errorf("failed to create Google Sheets service: %w", err)
		}

		if err := sheetsService.WriteBatchResults(ctx, results, sheetName); err != nil {
			return fmt.Errorf("failed to write to Google Sheet: %w", err)
		}

		fmt.Printf("Sheet: %s\n", sheetName)
		fmt.Printf("Rows added: %d\n", len(results))
		fmt.Printf("URL: %s\n", googleSheetURL)
	}

	fmt.Println(strings.Repeat("=", 70))

	log.Info().
		Int("total", len(pdfFiles)).
		Int("success", successCount).
		Int("warnings", warningCount).
		Int("errors", errorCount).
		Msg("Batch processing completed")

	return nil
}

// findPDFFiles finds all PDF files in the specified folder
func findPDFFiles(folderPath string) ([]string, error) {
	var pdfFiles []string

	err := filepath.Walk(folderPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && strings.HasSuffix(strings.ToLower(info.Name()), ".pdf") {
			pdfFiles = append(pdfFiles, path)
		}

		return nil
	})

	return pdfFiles, err
}

// processSingleForm runs the pipeline for one PDF and classifies the result
func processSingleForm(ctx context.Context, processor *pipeline.Processor, pdfPath string, log zerolog.Logger, verbose bool) sheets.BatchResult {
	result := sheets.BatchResult{
		Status: "error",
	}

	pipelineResult, err := processor.ProcessFile(ctx, pdfPath)
	if err != nil {
		result.Err = err
		return result
	}

	if err := processor.SaveOutputs(pipelineResult); err != nil {
		log.Warn().Err(err).Str("file", pdfPath).Msg("Failed to save pipeline artifacts")
	}

	result.Result = pipelineResult
	result.Status = "success"

	// Low scores mean the scan needs a human pass.
	if report := pipelineResult.Report; report != nil {
		if report.AccuracyScore < 100 || report.CompletenessScore < 50 {
			result.Status = "warning"
		}
	}

	if verbose {
		log.Info().
			Str("file", filepath.Base(pdfPath)).
			Float64("accuracy", pipelineResult.Report.AccuracyScore).
			Float64("completeness", pipelineResult.Report.CompletenessScore).
			Int("issues", len(pipelineResult.Report.Corrections)).
			Msg("Form processed successfully")
	}

	return result
}

// getNumWorkers returns the number of workers from environment or default.
// The default is low because each job holds an OpenAI request open.
func getNumWorkers() int {
	if workersStr := os.Getenv("BATCH_WORKERS"); workersStr != "" {
		if workers, err := strconv.Atoi(workersStr); err == nil && workers > 0 {
			return workers
		}
	}
	return 4
}

// processPDFsInParallel processes PDFs using a worker pool pattern
func processPDFsInParallel(ctx context.Context, pdfFiles []string, processor *pipeline.Processor, numWorkers int, log zerolog.Logger, verbose bool) []sheets.BatchResult {
	jobs := make(chan workerJob, len(pdfFiles))
	results := make([]sheets.BatchResult, len(pdfFiles))

	var processedCount int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for job := range jobs {
				log.Debug().
					Int("worker", workerID).
					Str("file", job.FilePath).
					Int("index", job.Index+1).
					Msg("Worker processing PDF")

				result := processSingleForm(ctx, processor, job.FilePath, log, verbose)
				result.Filename = filepath.Base(job.FilePath)

				results[job.Index] = result

				mu.Lock()
				processedCount++
				currentCount := processedCount

				fmt.Printf("[%d/%d] %s - %s", currentCount, len(pdfFiles), result.Filename, statusMarker(result.Status))
				if result.Err != nil {
					fmt.Printf(" (%s)", result.Err.Error())
				} else if result.Result != nil && result.Result.Report != nil {
					fmt.Printf(" (accuracy %.1f%%, completeness %.1f%%)",
						result.Result.Report.AccuracyScore,
						result.Result.Report.CompletenessScore)
				}
				fmt.Println()
				mu.Unlock()
			}
		}(w)
	}

	for i, pdfFile := range pdfFiles {
		jobs <- workerJob{
			FilePath: pdfFile,
			Index:    i,
		}
	}
	close(jobs)

	wg.Wait()

	return results
}

// statusMarker returns a marker for the processing status
func statusMarker(status string) string {
	switch status {
	case "success":
		return "OK"
	case "warning":
		return "REVIEW"
	case "error":
		return "FAILED"
	default:
		return "?"
	}
}
