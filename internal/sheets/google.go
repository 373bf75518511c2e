// Google Sheets implementation of [Worksheet]
//
// Talks to the Sheets v4 and Drive v3 REST APIs directly with a
// service-account JWT client. Drive is only used to resolve a spreadsheet
// name to its file ID.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/songdata/internal/models"
	"github.com/desertthunder/songdata/internal/shared"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
)

const (
	sheetsBaseURL = "https://sheets.googleapis.com/v4"
	driveBaseURL  = "https://www.googleapis.com/drive/v3"

	scopeSpreadsheets = "https://www.googleapis.com/auth/spreadsheets"
	scopeDriveRead    = "https://www.googleapis.com/auth/drive.readonly"
)

// sheetsRateLimit caps API calls per second. The Sheets API allows 60
// requests per minute per user.
const sheetsRateLimit = 1

// GoogleSheetsClient is an authenticated client for the Sheets and Drive
// REST APIs. All calls pass through one rate limiter.
type GoogleSheetsClient struct {
	httpClient *http.Client
	sheetsURL  string
	driveURL   string
	limiter    *rate.Limiter
}

// NewGoogleSheetsClient builds a client from a service-account key file.
func NewGoogleSheetsClient(ctx context.Context, credentialsFile string) (*GoogleSheetsClient, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read credentials file: %v", shared.ErrMissingCredentials, err)
	}

	conf, err := google.JWTConfigFromJSON(data, scopeSpreadsheets, scopeDriveRead)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account key: %w", err)
	}

	return &GoogleSheetsClient{
		httpClient: conf.Client(ctx),
		sheetsURL:  sheetsBaseURL,
		driveURL:   driveBaseURL,
		limiter:    rate.NewLimiter(rate.Limit(sheetsRateLimit), 1),
	}, nil
}

// doRequest performs a rate-limited JSON request against either API.
func (c *GoogleSheetsClient) doRequest(ctx context.Context, method, apiURL string, body, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: google API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// findSpreadsheet resolves a spreadsheet name to its Drive file ID.
func (c *GoogleSheetsClient) findSpreadsheet(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf(
		"name = '%s' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false",
		strings.ReplaceAll(name, "'", `\'`),
	)
	apiURL := c.driveURL + "/files?q=" + url.QueryEscape(query)

	var response struct {
		Files []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"files"`
	}
	if err := c.doRequest(ctx, http.MethodGet, apiURL, nil, &response); err != nil {
		return "", err
	}

	if len(response.Files) == 0 {
		return "", fmt.Errorf("%w: %s", shared.ErrSpreadsheetNotFound, name)
	}

	return response.Files[0].ID, nil
}

// OpenWorksheet opens a worksheet inside the named spreadsheet. The
// worksheet reference is either a title or a numeric index.
func (c *GoogleSheetsClient) OpenWorksheet(ctx context.Context, spreadsheet, worksheet string) (*GoogleWorksheet, error) {
	spreadsheetID, err := c.findSpreadsheet(ctx, spreadsheet)
	if err != nil {
		return nil, err
	}

	apiURL := fmt.Sprintf("%s/spreadsheets/%s?fields=sheets.properties", c.sheetsURL, spreadsheetID)

	var response struct {
		Sheets []struct {
			Properties struct {
				SheetID int    `json:"sheetId"`
				Title   string `json:"title"`
				Index   int    `json:"index"`
			} `json:"properties"`
		} `json:"sheets"`
	}
	if err := c.doRequest(ctx, http.MethodGet, apiURL, nil, &response); err != nil {
		return nil, err
	}

	index, numeric := -1, false
	if n, err := strconv.Atoi(worksheet); err == nil {
		index, numeric = n, true
	}

	for _, sheet := range response.Sheets {
		if numeric && sheet.Properties.Index == index {
			return &GoogleWorksheet{client: c, spreadsheetID: spreadsheetID, title: sheet.Properties.Title}, nil
		}
		if !numeric && sheet.Properties.Title == worksheet {
			return &GoogleWorksheet{client: c, spreadsheetID: spreadsheetID, title: sheet.Properties.Title}, nil
		}
	}

	return nil, fmt.Errorf("%w: %s in %s", shared.ErrWorksheetNotFound, worksheet, spreadsheet)
}

// GoogleWorksheet implements [Worksheet] for one sheet of a Google
// spreadsheet.
type GoogleWorksheet struct {
	client        *GoogleSheetsClient
	spreadsheetID string
	title         string
}

// Title returns the worksheet's display name.
func (w *GoogleWorksheet) Title() string {
	return w.title
}

// Close is a no-op; the HTTP client holds no resources to release.
func (w *GoogleWorksheet) Close() error {
	return nil
}

type valueRange struct {
	Range          string  `json:"range,omitempty"`
	MajorDimension string  `json:"majorDimension,omitempty"`
	Values         [][]any `json:"values"`
}

// getValues fetches an A1 range of the worksheet.
func (w *GoogleWorksheet) getValues(ctx context.Context, rangeA1 string) ([][]any, error) {
	apiURL := fmt.Sprintf("%s/spreadsheets/%s/values/%s",
		w.client.sheetsURL, w.spreadsheetID, url.PathEscape(rangeA1))

	var response valueRange
	if err := w.client.doRequest(ctx, http.MethodGet, apiURL, nil, &response); err != nil {
		return nil, err
	}

	return response.Values, nil
}

// putValues writes an A1 range of the worksheet in one batch.
func (w *GoogleWorksheet) putValues(ctx context.Context, rangeA1 string, values [][]any) error {
	apiURL := fmt.Sprintf("%s/spreadsheets/%s/values/%s?valueInputOption=RAW",
		w.client.sheetsURL, w.spreadsheetID, url.PathEscape(rangeA1))

	body := valueRange{
		Range:          rangeA1,
		MajorDimension: "ROWS",
		Values:         values,
	}

	return w.client.doRequest(ctx, http.MethodPut, apiURL, body, nil)
}

// Headers returns the header row.
func (w *GoogleWorksheet) Headers(ctx context.Context) ([]string, error) {
	values, err := w.getValues(ctx, fmt.Sprintf("%s!1:1", w.title))
	if err != nil {
		return nil, err
	}

	if len(values) == 0 {
		return nil, nil
	}

	headers := make([]string, len(values[0]))
	for i, v := range values[0] {
		headers[i] = fmt.Sprint(v)
	}
	return headers, nil
}

// Records returns every row below the header as a map keyed by header
// name. Cells past the end of a short row read as "".
func (w *GoogleWorksheet) Records(ctx context.Context) ([]models.Row, error) {
	values, err := w.getValues(ctx, w.title)
	if err != nil {
		return nil, err
	}

	if len(values) < 2 {
		return nil, nil
	}

	headers := make([]string, len(values[0]))
	for i, v := range values[0] {
		headers[i] = fmt.Sprint(v)
	}

	records := make([]models.Row, 0, len(values)-1)
	for _, cells := range values[1:] {
		row := models.Row{}
		for i, header := range headers {
			if i < len(cells) {
				row[header] = cells[i]
			} else {
				row[header] = ""
			}
		}
		records = append(records, row)
	}

	return records, nil
}

// UpdateRange writes rows back in one batch starting at the given 1-based
// sheet coordinates, laying values out in header order.
func (w *GoogleWorksheet) UpdateRange(ctx context.Context, rows []models.Row, startRow, startCol int) error {
	if len(rows) == 0 {
		return nil
	}

	headers, err := w.Headers(ctx)
	if err != nil {
		return err
	}
	if len(headers) == 0 {
		return fmt.Errorf("%w: worksheet %s has no header row", shared.ErrMissingColumns, w.title)
	}

	values := make([][]any, 0, len(rows))
	for _, row := range rows {
		cells := make([]any, len(headers))
		for i, header := range headers {
			if v, ok := row[header]; ok {
				cells[i] = v
			} else {
				cells[i] = ""
			}
		}
		values = append(values, cells)
	}

	rangeA1 := fmt.Sprintf("%s!%s%d:%s%d",
		w.title,
		columnLetter(startCol), startRow,
		columnLetter(startCol+len(headers)-1), startRow+len(rows)-1)

	return w.putValues(ctx, rangeA1, values)
}

// EnsureHeaders appends any missing required columns to the header row.
func (w *GoogleWorksheet) EnsureHeaders(ctx context.Context, required []string) (bool, error) {
	headers, err := w.Headers(ctx)
	if err != nil {
		return false, err
	}

	existing := make(map[string]bool, len(headers))
	for _, h := range headers {
		existing[h] = true
	}

	var missing []string
	for _, h := range required {
		if !existing[h] {
			existing[h] = true
			missing = append(missing, h)
		}
	}

	if len(missing) == 0 {
		return false, nil
	}

	updated := append(append([]string{}, headers...), missing...)
	cells := make([]any, len(updated))
	for i, h := range updated {
		cells[i] = h
	}

	rangeA1 := fmt.Sprintf("%s!A1:%s1", w.title, columnLetter(len(updated)))
	if err := w.putValues(ctx, rangeA1, [][]any{cells}); err != nil {
		return false, err
	}

	return true, nil
}

// columnLetter converts a 1-based column number to its A1 letter form.
func columnLetter(col int) string {
	letters := ""
	for col > 0 {
		col--
		letters = string(rune('A'+col%26)) + letters
		col /= 26
	}
	return letters
}
