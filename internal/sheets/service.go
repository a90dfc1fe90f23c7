package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/dhruvkb/pennyflow/internal/common"
	"github.com/dhruvkb/pennyflow/internal/model"
)

// Service wraps the Google Sheets API for the export and import flows.
type Service struct {
	svc    *sheets.Service
	config Config
}

// NewService authenticates and creates a Sheets service.
func NewService(ctx context.Context, config Config) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	svc, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Service{svc: svc, config: config}, nil
}

func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}

		tokenSource = oauthConfig.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

func (s *Service) retryOpts() common.RetryOptions {
	return common.RetryOptions{
		MaxAttempts:  s.config.RetryAttempts,
		InitialDelay: s.config.RetryDelay,
	}
}

// Export writes the three tabs (transactions, income categories, expense
// categories), replacing their previous contents, and returns the
// spreadsheet id.
func (s *Service) Export(ctx context.Context, transactions []model.Transaction, incomeCategories, expenseCategories []string) (string, error) {
	spreadsheetID, err := s.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	tabs := []struct {
		title string
		rows  [][]any
	}{
		{SheetTransactions, TransactionRows(transactions)},
		{SheetIncomeCategories, CategoryRows(SheetIncomeCategories, incomeCategories)},
		{SheetExpenseCategories, CategoryRows(SheetExpenseCategories, expenseCategories)},
	}

	for _, tab := range tabs {
		if err := s.ensureSheet(ctx, spreadsheetID, tab.title); err != nil {
			return "", err
		}
		if err := common.WithRetry(ctx, func() error {
			return s.writeSheet(ctx, spreadsheetID, tab.title, tab.rows)
		}, s.retryOpts()); err != nil {
			return "", fmt.Errorf("failed to write %q sheet: %w", tab.title, err)
		}
	}

	slog.Info("export completed",
		"spreadsheet_id", spreadsheetID,
		"transactions", len(transactions))
	return spreadsheetID, nil
}

// ReadTab returns the raw value matrix of a tab. A missing tab yields nil
// values rather than an error so import can treat each tab as optional.
func (s *Service) ReadTab(ctx context.Context, title string) ([][]any, error) {
	if s.config.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required for import")
	}

	var values [][]any
	err := common.WithRetry(ctx, func() error {
		resp, err := s.svc.Spreadsheets.Values.
			Get(s.config.SpreadsheetID, fmt.Sprintf("'%s'!A:Z", title)).
			Context(ctx).Do()
		if err != nil {
			return err
		}
		values = resp.Values
		return nil
	}, s.retryOpts())
	if err != nil {
		slog.Warn("could not read sheet tab", "tab", title, "error", err)
		return nil, nil
	}
	return values, nil
}

func (s *Service) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if s.config.SpreadsheetID != "" {
		if _, err := s.svc.Spreadsheets.Get(s.config.SpreadsheetID).Context(ctx).Do(); err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", s.config.SpreadsheetID, err)
		}
		return s.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    s.config.SpreadsheetName,
			TimeZone: s.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: SheetTransactions}},
			{Properties: &sheets.SheetProperties{Title: SheetIncomeCategories}},
			{Properties: &sheets.SheetProperties{Title: SheetExpenseCategories}},
		},
	}

	created, err := s.svc.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	slog.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)
	return created.SpreadsheetId, nil
}

func (s *Service) ensureSheet(ctx context.Context, spreadsheetID, title string) error {
	spreadsheet, err := s.svc.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to inspect spreadsheet: %w", err)
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return nil
		}
	}

	_, err = s.svc.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to add sheet %q: %w", title, err)
	}
	return nil
}

func (s *Service) writeSheet(ctx context.Context, spreadsheetID, title string, rows [][]any) error {
	rangeRef := fmt.Sprintf("'%s'!A:Z", title)

	if _, err := s.svc.Spreadsheets.Values.
		Clear(spreadsheetID, rangeRef, &sheets.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("unable to clear sheet: %w", err)
	}

	_, err := s.svc.Spreadsheets.Values.
		Update(spreadsheetID, fmt.Sprintf("'%s'!A1", title), &sheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to write values: %w", err)
	}
	return nil
}
