package export

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"divicards/internal/sample"
	"divicards/pkg/core"
	"divicards/pkg/logger"
)

// SheetsExporter writes samples to new Google spreadsheets.
type SheetsExporter struct {
	client *sheets.Service
	log    core.Logger
}

// Exported identifies the created spreadsheet.
type Exported struct {
	SpreadsheetID string `json:"spreadsheet_id"`
	URL           string `json:"url"`
}

// NewSheetsExporter creates the Sheets client. Pass option.WithCredentialsFile
// for a service account, or any other client option.
func NewSheetsExporter(ctx context.Context, log core.Logger, opts ...option.ClientOption) (*SheetsExporter, error) {
	if log == nil {
		log = logger.Nop()
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &SheetsExporter{client: svc, log: log}, nil
}

// SheetValues is the value grid written to the sheet.
func SheetValues(s sample.Sample) [][]interface{} {
	out := make([][]interface{}, 0, len(s.Cards)+1)
	out = append(out, []interface{}{"name", "amount", "price", "total"})
	for _, c := range s.Cards {
		out = append(out, []interface{}{c.Name, c.Amount, c.Price, c.Total})
	}
	return out
}

// Export creates a spreadsheet titled title and fills its first sheet.
func (e *SheetsExporter) Export(ctx context.Context, s sample.Sample, title string) (Exported, error) {
	if title == "" {
		title = fmt.Sprintf("divicards %s %s", s.League, s.CreatedAt.Format("2006-01-02 15:04"))
	}
	const sheetTitle = "Sample"

	created, err := e.client.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: sheetTitle}},
		},
	}).Context(ctx).Do()
	if err != nil {
		e.log.Error("Failed to create spreadsheet", err, "title", title)
		return Exported{}, fmt.Errorf("failed to create spreadsheet: %w", err)
	}

	_, err = e.client.Spreadsheets.Values.Update(created.SpreadsheetId, sheetTitle+"!A1", &sheets.ValueRange{
		Values: SheetValues(s),
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		e.log.Error("Failed to write sample values", err, "spreadsheet_id", created.SpreadsheetId)
		return Exported{}, fmt.Errorf("failed to write sample to spreadsheet: %w", err)
	}

	e.log.Info("Sample exported to Google Sheets",
		"spreadsheet_id", created.SpreadsheetId,
		"cards", len(s.Cards))
	return Exported{SpreadsheetID: created.SpreadsheetId, URL: created.SpreadsheetUrl}, nil
}
