// Package google implements the summary export against the Google Sheets
// API with service-account credentials.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"profesorhub/internal/config"
	"profesorhub/internal/core"
	"profesorhub/internal/export"
	applog "profesorhub/internal/log"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ export.SummaryWriter = (*Client)(nil)

// New creates a Sheets client from the configured service-account
// credentials (inline JSON wins over the file path).
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg.GoogleSpreadsheetID == "" || cfg.GoogleSheetName == "" {
		return nil, errors.New("sheets export not configured")
	}

	var (
		credentialsJSON []byte
		err             error
	)
	switch {
	case cfg.GoogleServiceAccountJSON != "":
		credentialsJSON = []byte(cfg.GoogleServiceAccountJSON)
	case cfg.GoogleServiceAccountFile != "":
		credentialsJSON, err = os.ReadFile(cfg.GoogleServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets export ready",
		applog.FieldComponent, applog.ComponentSheets,
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", cfg.GoogleSheetName)

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.GoogleSpreadsheetID,
		sheetName:     cfg.GoogleSheetName,
	}, nil
}

// AppendMonthSummary appends one row per export:
// timestamp, email, periodo, cobrado, gastado, balance, pct, pendientes.
func (c *Client) AppendMonthSummary(ctx context.Context, profesor core.Profesor, summary core.MonthSummary) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	row := []any{
		time.Now().UTC().Format(time.RFC3339),
		profesor.Email,
		summary.Periodo.Key(),
		summary.TotalCobrado.Pesos(),
		summary.TotalGastado.Pesos(),
		summary.Balance.Pesos(),
		summary.PctPaid,
		len(summary.PendingStudents),
	}
	vr := &gsheet.ValueRange{Values: [][]any{row}}

	rng := fmt.Sprintf("%s!A:H", c.sheetName)
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "Month summary exported",
		applog.FieldComponent, applog.ComponentSheets,
		applog.FieldProfesorID, profesor.ID,
		"periodo", summary.Periodo.Key())
	return nil
}
