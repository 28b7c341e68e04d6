package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"moneta/internal/sheets"
)

// Client mirrors workbook exports into a Google spreadsheet: each workbook
// sheet becomes (or replaces) a tab of the configured spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

var _ sheets.Writer = (*Client)(nil)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Write replaces the content of every workbook sheet in the spreadsheet,
// creating missing tabs first.
func (c *Client) Write(ctx context.Context, wb sheets.Workbook) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	existing, err := c.existingTabs(ctx)
	if err != nil {
		return err
	}

	var adds []*gsheet.Request
	for _, sh := range wb.Sheets {
		if existing[sh.Name] {
			continue
		}
		adds = append(adds, &gsheet.Request{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: sh.Name},
			},
		})
	}
	if len(adds) > 0 {
		_, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{
			Requests: adds,
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("add sheets: %w", err)
		}
	}

	for _, sh := range wb.Sheets {
		if err := c.writeSheet(ctx, sh); err != nil {
			return err
		}
	}

	slog.InfoContext(ctx, "Workbook mirrored to Google Sheets",
		"spreadsheet_id", c.spreadsheetID,
		"sheets", len(wb.Sheets))
	return nil
}

func (c *Client) existingTabs(ctx context.Context) (map[string]bool, error) {
	resp, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet: %w", err)
	}
	tabs := make(map[string]bool, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh.Properties != nil {
			tabs[sh.Properties.Title] = true
		}
	}
	return tabs, nil
}

func (c *Client) writeSheet(ctx context.Context, sh sheets.Sheet) error {
	rng := fmt.Sprintf("%s!A:Z", sh.Name)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}

	values := make([][]any, 0, len(sh.Rows)+1)
	header := make([]any, len(sh.Header))
	for i, h := range sh.Header {
		header[i] = h
	}
	values = append(values, header)
	values = append(values, sh.Rows...)

	vr := &gsheet.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, fmt.Sprintf("%s!A1", sh.Name), vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", sh.Name, err)
	}
	return nil
}
