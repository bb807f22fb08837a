package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"btdig-scraper/models"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Writer handles writing crawled records to Google Sheets
type Writer struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewWriter creates a new Google Sheets writer
func NewWriter(spreadsheetID string, credentialsPath string) (*Writer, error) {
	ctx := context.Background()

	// Read credentials from file or environment variable
	var credsJSON []byte
	var err error

	if credentialsPath != "" {
		credsJSON, err = os.ReadFile(credentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
	} else {
		credsEnv := strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_CREDENTIALS"))
		if credsEnv == "" {
			return nil, fmt.Errorf("credentials not found: GOOGLE_SHEETS_CREDENTIALS environment variable is empty or not set")
		}
		credsJSON = []byte(credsEnv)
	}

	// Validate that it's a service account credentials file
	var creds map[string]interface{}
	if err := json.Unmarshal(credsJSON, &creds); err != nil {
		return nil, fmt.Errorf("invalid credentials JSON: %w", err)
	}
	if creds["type"] != "service_account" {
		return nil, fmt.Errorf("credentials must be a service account JSON file (type: service_account), got type: %v", creds["type"])
	}

	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(credsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

// recordRows converts records into sheet rows with a header
func recordRows(records []models.Record, withHeader bool) [][]interface{} {
	var values [][]interface{}
	if withHeader {
		values = append(values, []interface{}{"Name", "Magnet", "Page"})
	}
	for _, record := range records {
		values = append(values, []interface{}{
			record.Name,
			record.MagnetLink,
			record.PageNumber,
		})
	}
	return values
}

// WriteRecords writes records to the first sheet, optionally clearing
// existing data first
func (w *Writer) WriteRecords(records []models.Record, clearFirst bool) error {
	if len(records) == 0 {
		logrus.Info("No records to write")
		return nil
	}

	range_ := "Sheet1!A1"

	if clearFirst {
		clearReq := &sheets.ClearValuesRequest{}
		if _, err := w.service.Spreadsheets.Values.Clear(w.spreadsheetID, range_, clearReq).Do(); err != nil {
			logrus.Warnf("Failed to clear existing data: %v", err)
			// Continue anyway
		}
	}

	valueRange := &sheets.ValueRange{
		Values: recordRows(records, true),
	}

	_, err := w.service.Spreadsheets.Values.Update(w.spreadsheetID, range_, valueRange).
		ValueInputOption("RAW").
		Do()
	if err != nil {
		return fmt.Errorf("failed to write to sheets: %w", err)
	}

	logrus.Infof("Wrote %d records to Google Sheets", len(records))
	return nil
}

// CreateSheetAndWriteRecords creates a new sheet at the beginning of the
// spreadsheet and writes records to it, with the query recorded in a
// metadata row. Returns the sheet name and sheet ID (gid) that was created.
func (w *Writer) CreateSheetAndWriteRecords(sheetName string, records []models.Record, query string) (string, int64, error) {
	sheetName = sanitizeSheetName(sheetName)
	if len(sheetName) > 100 {
		sheetName = sheetName[:100]
	}

	addSheetRequest := &sheets.AddSheetRequest{
		Properties: &sheets.SheetProperties{
			Title: sheetName,
			Index: 0,
		},
	}

	batchUpdateRequest := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{AddSheet: addSheetRequest},
		},
	}

	batchUpdateResp, err := w.service.Spreadsheets.BatchUpdate(w.spreadsheetID, batchUpdateRequest).Do()
	if err != nil {
		return "", 0, fmt.Errorf("failed to create sheet: %w", err)
	}

	var sheetID int64
	if len(batchUpdateResp.Replies) > 0 && batchUpdateResp.Replies[0].AddSheet != nil {
		sheetID = batchUpdateResp.Replies[0].AddSheet.Properties.SheetId
	}

	var values [][]interface{}
	if query != "" {
		values = append(values, []interface{}{"Query", query})
	}
	values = append(values, recordRows(records, true)...)

	range_ := fmt.Sprintf("%s!A1", sheetName)
	valueRange := &sheets.ValueRange{
		Values: values,
	}

	_, err = w.service.Spreadsheets.Values.Update(w.spreadsheetID, range_, valueRange).
		ValueInputOption("RAW").
		Do()
	if err != nil {
		return "", 0, fmt.Errorf("failed to write to sheet: %w", err)
	}

	logrus.Infof("Wrote %d records to sheet '%s'", len(records), sheetName)
	return sheetName, sheetID, nil
}

// sanitizeSheetName removes invalid characters from sheet name
func sanitizeSheetName(name string) string {
	// Google Sheets sheet names cannot contain: / \ ? * [ ]
	invalidChars := []string{"/", "\\", "?", "*", "[", "]"}
	result := name
	for _, char := range invalidChars {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	if result == "" {
		result = "Sheet1"
	}
	return result
}

// ExtractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL
func ExtractSpreadsheetID(url string) string {
	// https://docs.google.com/spreadsheets/d/SPREADSHEET_ID/edit?usp=sharing
	parts := strings.Split(url, "/d/")
	if len(parts) < 2 {
		return ""
	}

	idPart := parts[1]
	if idx := strings.Index(idPart, "/"); idx != -1 {
		idPart = idPart[:idx]
	}
	if idx := strings.Index(idPart, "?"); idx != -1 {
		idPart = idPart[:idx]
	}

	return strings.TrimSpace(idPart)
}
