package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"form283/internal/logger"
	"form283/internal/schema"
	"form283/internal/validation"
	"form283/pkg/models"
)

var validateCmd = &cobra.Command{
	Use:   "validate [form-data-json]",
	Short: "Validate extracted form data offline",
	Long: `Run the quality validator on a previously extracted form-data JSON file.

The input is the extracted_json artifact of the extract command, keyed by
either the Hebrew form labels or the canonical field names. No network
access or credentials are needed.

The validator checks field formats (9-digit ID number, Israeli phone
prefixes, date component ranges, 5-7 digit postal code), detects OCR
checkbox artifacts, and scores completeness and accuracy.`,
	Example: `  # Validate an extracted form
  form283 validate data/output/extracted_json/scan_form_data.json

  # Machine-readable report
  form283 validate scan_form_data.json --json

  # Pin the year bound for reproducible reports
  form283 validate scan_form_data.json --year 2023`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().Bool("json", false, "Output the report as JSON")
	validateCmd.Flags().Int("year", 0, "Override the current year used for date range checks")
	validateCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("validate")

	jsonOutput, _ := cmd.Flags().GetBool("json")
	year, _ := cmd.Flags().GetInt("year")
	outputPath, _ := cmd.Flags().GetString("output")

	dataPath := args[0]

	data, err := os.ReadFile(dataPath)
	if err != nil {
		log.Error().
			Err(err).
			Str("file", dataPath).
			Msg("Failed to read form data file")
		return fmt.Errorf("failed to read form data file: %w", err)
	}

	rec, err := schema.DecodeJSON(data)
	if err != nil {
		log.Error().
			Err(err).
			Str("file", dataPath).
			Msg("Failed to decode form data")
		return fmt.Errorf("failed to decode form data: %w", err)
	}

	validator := validation.NewValidator()
	if year > 0 {
		validator = validation.NewValidatorWithYear(year)
	}

	report, err := validator.Validate(rec)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	log.Info().
		Str("file", dataPath).
		Float64("accuracy", report.AccuracyScore).
		Float64("completeness", report.CompletenessScore).
		Int("issues", len(report.Corrections)).
		Msg("Validation completed")

	var outputData []byte
	if jsonOutput {
		outputData, err = json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		outputData = append(outputData, '\n')
	} else {
		outputData = []byte(renderReport(filepath.Base(dataPath), report))
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		log.Info().Str("output_file", outputPath).Msg("Report written to file")
		return nil
	}

	_, err = os.Stdout.Write(outputData)
	return err
}

// printReport renders a report to stdout in the human-readable format.
func printReport(name string, report *models.ValidationReport) {
	fmt.Print(renderReport(name, report))
}

// renderReport formats a validation report for terminal output. Field
// paths are shown with their Hebrew form labels next to the canonical
// names.
func renderReport(name string, report *models.ValidationReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== Validation Report: %s ===\n", name)
	fmt.Fprintf(&b, "Completeness: %.1f%% (%d/%d fields filled)\n",
		report.CompletenessScore, report.FilledCount, report.TotalCount)
	fmt.Fprintf(&b, "Accuracy:     %.1f%%\n", report.AccuracyScore)

	if len(report.Corrections) > 0 {
		fmt.Fprintf(&b, "\nQuality issues (%d):\n", len(report.Corrections))
		for _, issue := range report.Corrections {
			fmt.Fprintf(&b, "  - %s (%s): %q\n      %s\n",
				issue.Field, schema.Label(issue.Field), issue.Value, issue.Reason)
		}
	}

	if len(report.MissingFields) > 0 {
		fmt.Fprintf(&b, "\nMissing fields (%d):\n", len(report.MissingFields))
		for _, field := range report.MissingFields {
			fmt.Fprintf(&b, "  - %s (%s)\n", field, schema.Label(field))
		}
	}

	fmt.Fprintf(&b, "\n%s\n", report.Summary)

	return b.String()
}
