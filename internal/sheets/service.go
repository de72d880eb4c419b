// Package sheets writes batch validation results to a Google Sheets
// review sheet, one row per processed claim form.
package sheets

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"form283/internal/logger"
	"form283/internal/pipeline"
)

// Service handles Google Sheets operations.
type Service struct {
	sheetsService *sheets.Service
	spreadsheetID string
	log           zerolog.Logger
}

// reviewRow is one line of the review sheet.
type reviewRow struct {
	Filename     string
	Claimant     string
	IDNumber     string
	Completeness float64
	Accuracy     float64
	FilledCount  int
	TotalCount   int
	IssueCount   int
	MissingCount int
	Status       string
	Summary      string
	ProcessedAt  string
}

// NewSheetsService creates a new Google Sheets service from the sheet URL.
func NewSheetsService(ctx context.Context, sheetURL string) (*Service, error) {
	const op = "NewSheetsService"

	log := logger.WithComponent("sheets")

	spreadsheetID, err := extractSpreadsheetID(sheetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to extract spreadsheet ID: %w", op, err)
	}

	log.Debug().Str("spreadsheet_id", spreadsheetID).Msg("Extracted spreadsheet ID")

	var creds []byte
	if credsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credsFile != "" {
		creds, err = os.ReadFile(credsFile)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read credentials file: %w", op, err)
		}
	} else if credsJSON := os.Getenv("GOOGLE_CREDENTIALS"); credsJSON != "" {
		creds = []byte(credsJSON)
	} else {
		return nil, fmt.Errorf("%s: neither GOOGLE_APPLICATION_CREDENTIALS nor GOOGLE_CREDENTIALS is set", op)
	}

	config, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse credentials: %w", op, err)
	}

	client := config.Client(ctx)
	sheetsService, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create sheets service: %w", op, err)
	}

	return &Service{
		sheetsService: sheetsService,
		spreadsheetID: spreadsheetID,
		log:           log,
	}, nil
}

// extractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL.
func extractSpreadsheetID(url string) (string, error) {
	re := regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)
	matches := re.FindStringSubmatch(url)

	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Google Sheets URL format")
	}

	return matches[1], nil
}

// BatchResult pairs a pipeline result with its processing status for the
// review sheet. Err is set when the pipeline failed for the file.
type BatchResult struct {
	Filename string
	Result   *pipeline.Result
	Err      error
	Status   string
}

// WriteBatchResults appends batch processing results to the named sheet,
// creating it with headers on first use.
func (s *Service) WriteBatchResults(ctx context.Context, results []BatchResult, sheetName string) error {
	const op = "WriteBatchResults"

	s.log.Info().
		Str("sheet", sheetName).
		Int("rows", len(results)).
		Msg("Writing batch results to Google Sheet")

	rows := s.convertResultsToRows(results)

	if err := s.ensureSheetWithHeaders(ctx, sheetName); err != nil {
		return fmt.Errorf("%s: failed to ensure sheet exists: %w", op, err)
	}

	var values [][]interface{}
	for _, row := range rows {
		values = append(values, s.rowToValues(row))
	}

	valueRange := &sheets.ValueRange{
		Values: values,
	}

	_, err := s.sheetsService.Spreadsheets.Values.Append(
		s.spreadsheetID,
		sheetName+"!A:L", // A to L covers all our columns
		valueRange,
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()

	if err != nil {
		return fmt.Errorf("%s: failed to append values to sheet: %w", op, err)
	}

	s.log.Info().
		Int("rows_written", len(values)).
		Msg("Successfully wrote batch results to Google Sheet")

	return nil
}

// convertResultsToRows flattens BatchResults into review sheet rows.
func (s *Service) convertResultsToRows(results []BatchResult) []reviewRow {
	var rows []reviewRow
	processedAt := time.Now().Format("02.01.2006 15:04:05")

	for _, result := range results {
		row := reviewRow{
			Filename:    result.Filename,
			Status:      result.Status,
			ProcessedAt: processedAt,
		}

		if result.Err != nil {
			row.Summary = fmt.Sprintf("Error: %s", result.Err.Error())
			rows = append(rows, row)
			continue
		}

		if result.Result == nil {
			rows = append(rows, row)
			continue
		}

		if form := result.Result.Form; form != nil {
			row.Claimant = strings.TrimSpace(form.FirstName + " " + form.LastName)
			row.IDNumber = form.IDNumber
		}

		if report := result.Result.Report; report != nil {
			row.Completeness = report.CompletenessScore
			row.Accuracy = report.AccuracyScore
			row.FilledCount = report.FilledCount
			row.TotalCount = report.TotalCount
			row.IssueCount = len(report.Corrections)
			row.MissingCount = len(report.MissingFields)
			row.Summary = report.Summary
		}

		rows = append(rows, row)
	}

	return rows
}

// rowToValues converts a reviewRow to the sheet's column order.
func (s *Service) rowToValues(row reviewRow) []interface{} {
	return []interface{}{
		row.Filename,     // A: File
		row.Claimant,     // B: Claimant
		row.IDNumber,     // C: ID Number
		row.Completeness, // D: Completeness %
		row.Accuracy,     // E: Accuracy %
		row.FilledCount,  // F: Filled
		row.TotalCount,   // G: Total
		row.IssueCount,   // H: Issues
		row.MissingCount, // I: Missing
		row.Status,       // J: Status
		row.Summary,      // K: Summary
		row.ProcessedAt,  // L: Processed
	}
}

// ensureSheetWithHeaders ensures the sheet exists and has proper headers.
func (s *Service) ensureSheetWithHeaders(ctx context.Context, sheetName string) error {
	const op = "ensureSheetWithHeaders"

	spreadsheet, err := s.sheetsService.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to get spreadsheet: %w", op, err)
	}

	var sheetExists bool
	var sheetID int64
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == sheetName {
			sheetExists = true
			sheetID = sheet.Properties.SheetId
			break
		}
	}

	if !sheetExists {
		s.log.Info().Str("sheet", sheetName).Msg("Creating new sheet")

		addSheetReq := &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{
				Title: sheetName,
			},
		}

		batchUpdateReq := &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{
				{AddSheet: addSheetReq},
			},
		}

		resp, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, batchUpdateReq).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("%s: failed to create sheet: %w", op, err)
		}

		sheetID = resp.Replies[0].AddSheet.Properties.SheetId
	}

	headerRange := fmt.Sprintf("%s!A1:L1", sheetName)
	resp, err := s.sheetsService.Spreadsheets.Values.Get(s.spreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to get headers: %w", op, err)
	}

	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		s.log.Info().Str("sheet", sheetName).Msg("Adding headers to sheet")

		headers := [][]interface{}{
			{
				"File", "Claimant", "ID Number", "Completeness %", "Accuracy %",
				"Filled", "Total", "Issues", "Missing", "Status", "Summary",
				"Processed",
			},
		}

		valueRange := &sheets.ValueRange{Values: headers}
		_, err = s.sheetsService.Spreadsheets.Values.Update(
			s.spreadsheetID,
			headerRange,
			valueRange,
		).ValueInputOption("RAW").Context(ctx).Do()

		if err != nil {
			return fmt.Errorf("%s: failed to add headers: %w", op, err)
		}

		if err := s.formatHeaders(ctx, sheetID); err != nil {
			s.log.Warn().Err(err).Msg("Failed to format headers, continuing anyway")
		}
	}

	return nil
}

// formatHeaders makes the header row bold and auto-sizes the columns.
func (s *Service) formatHeaders(ctx context.Context, sheetID int64) error {
	const op = "formatHeaders"

	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   12, // A to L
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{
							Bold: true,
						},
						BackgroundColor: &sheets.Color{
							Red:   0.9,
							Green: 0.9,
							Blue:  0.9,
						},
					},
				},
				Fields: "userEnteredFormat(textFormat,backgroundColor)",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   12,
				},
			},
		},
	}

	batchUpdateReq := &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}
	_, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, batchUpdateReq).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to format headers: %w", op, err)
	}

	return nil
}
