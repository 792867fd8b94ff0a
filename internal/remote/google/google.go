// Package google mirrors transactions and profiles into a Google Sheets
// spreadsheet using a service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"moneymanagement/internal/core"
	ports "moneymanagement/internal/remote"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	// Base sheet name without year (e.g. "Transactions"); code prefixes year.
	transactionsBase string
	profileSheet     string
}

// Ensure interface conformance
var (
	_ ports.TransactionMirror = (*Client)(nil)
	_ ports.ProfileStore      = (*Client)(nil)
)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional sheet names: GOOGLE_TRANSACTIONS_SHEET_NAME (default
// "Transactions"), GOOGLE_PROFILE_SHEET_NAME (default "Profile").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	transactionsBase := strings.TrimSpace(os.Getenv("GOOGLE_TRANSACTIONS_SHEET_NAME"))
	if transactionsBase == "" {
		transactionsBase = "Transactions"
	}
	profileSheet := strings.TrimSpace(os.Getenv("GOOGLE_PROFILE_SHEET_NAME"))
	if profileSheet == "" {
		profileSheet = "Profile"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:              svc,
		spreadsheetID:    spreadsheetID,
		transactionsBase: transactionsBase,
		profileSheet:     profileSheet,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials.
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

	slog.InfoContext(ctx, "Creating Google Sheets service",
		"credentials_size", len(credentialsJSON),
		"scope", gsheet.SpreadsheetsScope)

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// AppendTransaction writes the transaction as a new row. Columns: local id,
// user id, date, name, amount in currency units, type, category name, note.
func (c *Client) AppendTransaction(ctx context.Context, tx core.TransactionWithCategory) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if err := tx.Transaction.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	sheetName := c.transactionsSheetName()
	amount := float64(tx.Transaction.Amount.Cents) / 100.0
	categoryName := ""
	if tx.Category != nil {
		categoryName = tx.Category.Name
	}

	vr := &gsheet.ValueRange{Values: [][]any{{
		tx.Transaction.ID,
		tx.Transaction.UserID,
		tx.Transaction.Date,
		tx.Transaction.Name,
		amount,
		string(tx.Transaction.Type),
		categoryName,
		tx.Transaction.Note,
	}}}

	rng := fmt.Sprintf("%s!A:H", sheetName)
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", sheetName, err)
	}

	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}

	slog.InfoContext(ctx, "Transaction mirrored to Google Sheets",
		"id", tx.Transaction.ID, "user_id", tx.Transaction.UserID, "range", ref)

	return ref, nil
}

// RemoveTransaction deletes the first row whose id column matches the local
// transaction id. Missing rows are not an error: the mirror may simply never
// have seen the transaction.
func (c *Client) RemoveTransaction(ctx context.Context, userID string, id int64) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	sheetName := c.transactionsSheetName()
	rng := fmt.Sprintf("%s!A:B", sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read %s: %w", rng, err)
	}

	rowIndex := -1
	for i, row := range resp.Values {
		if len(row) < 2 {
			continue
		}
		rowID, err := strconv.ParseInt(strings.TrimSpace(fmt.Sprint(row[0])), 10, 64)
		if err != nil || rowID != id {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[1])) != userID {
			continue
		}
		rowIndex = i
		break
	}
	if rowIndex < 0 {
		slog.WarnContext(ctx, "Transaction not found in mirror, nothing to remove",
			"id", id, "user_id", userID)
		return nil
	}

	sheetID, err := c.sheetID(ctx, sheetName)
	if err != nil {
		return err
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{Requests: []*gsheet.Request{{
		DeleteDimension: &gsheet.DeleteDimensionRequest{
			Range: &gsheet.DimensionRange{
				SheetId:    sheetID,
				Dimension:  "ROWS",
				StartIndex: int64(rowIndex),
				EndIndex:   int64(rowIndex + 1),
			},
		},
	}}}

	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d in sheet %s: %w", rowIndex+1, sheetName, err)
	}

	slog.InfoContext(ctx, "Transaction removed from mirror", "id", id, "user_id", userID)
	return nil
}

// SaveProfile writes the profile into the first row of the profile sheet.
// A spreadsheet belongs to a single user, so one row suffices.
func (c *Client) SaveProfile(ctx context.Context, profile core.UserProfile) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	vr := &gsheet.ValueRange{Values: [][]any{{
		profile.ID, profile.Email, profile.Name, profile.ImageURL,
	}}}
	rng := fmt.Sprintf("%s!A1:D1", c.profileSheet)

	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

func (c *Client) LoadProfile(ctx context.Context, userID string) (core.UserProfile, error) {
	if c.svc == nil {
		return core.UserProfile{}, errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A1:D1", c.profileSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("read %s: %w", rng, err)
	}
	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return core.UserProfile{}, fmt.Errorf("no profile stored for %s", userID)
	}

	row := resp.Values[0]
	profile := core.UserProfile{ID: cell(row, 0)}
	if profile.ID != userID {
		return core.UserProfile{}, fmt.Errorf("profile sheet belongs to %s, not %s", profile.ID, userID)
	}
	profile.Email = cell(row, 1)
	profile.Name = cell(row, 2)
	profile.ImageURL = cell(row, 3)
	return profile, nil
}

// transactionsSheetName returns "<year> <base>" for the current year, unless
// the base already starts with a 4-digit year.
func (c *Client) transactionsSheetName() string {
	return yearPrefixedName(c.transactionsBase, time.Now().Year())
}

func (c *Client) sheetID(ctx context.Context, sheetName string) (int64, error) {
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet metadata: %w", err)
	}
	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == sheetName {
			return sheet.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found in spreadsheet", sheetName)
}

func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}

func cell(row []any, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[idx]))
}
